package dto

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type RegisterCPRequest struct {
	FullName     string          `json:"full_name"`
	Mobile       string          `json:"mobile"`
	Email        string          `json:"email"`
	City         string          `json:"city"`
	State        string          `json:"state"`
	Country      string          `json:"country"`
	Experience   string          `json:"experience"`
	PreferredAOO json.RawMessage `json:"preferred_aoo"`
}

type RegisterCPResponse struct {
	Message string    `json:"message"`
	CPID    uuid.UUID `json:"cp_id"`
}

type LoginRequest struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

type LoginResponse struct {
	Message   string     `json:"message"`
	Token     string     `json:"token"`
	ExpiresAt time.Time  `json:"expires_at"`
	CP        CPIdentity `json:"cp"`
}

// CPIdentity is the public-safe projection of a CP.
type CPIdentity struct {
	CPID     uuid.UUID `json:"cp_id"`
	FullName string    `json:"full_name"`
	Mobile   string    `json:"mobile"`
	Email    string    `json:"email"`
}

type SetupAccountRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	PIN      string `json:"pin"`
}

type ValidatePINRequest struct {
	CPID string `json:"cp_id"`
	PIN  string `json:"pin"`
}

type ApproveCPRequest struct {
	PlanID      *uuid.UUID      `json:"plan_id"`
	ApprovedAOO json.RawMessage `json:"approved_aoo"`
}

// ApproveCPResponse carries TemporaryPassword only when the server generated
// it; a configured shared default is never echoed.
type ApproveCPResponse struct {
	Message           string `json:"message"`
	TemporaryPassword string `json:"temporary_password,omitempty"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error   bool   `json:"error"`
	Message string `json:"message"`
}

type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	DB        string `json:"db"`
}
