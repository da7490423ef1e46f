package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type CPStatus string

const (
	CPStatusSubmitted CPStatus = "SUBMITTED"
	CPStatusApproved  CPStatus = "APPROVED"
	CPStatusRejected  CPStatus = "REJECTED"
	CPStatusActive    CPStatus = "ACTIVE"
)

func (s CPStatus) Valid() bool {
	switch s {
	case CPStatusSubmitted, CPStatusApproved, CPStatusRejected, CPStatusActive:
		return true
	}
	return false
}

// CanLogin reports whether a CP in this status may authenticate.
func (s CPStatus) CanLogin() bool {
	return s == CPStatusApproved || s == CPStatusActive
}

// CP is a channel partner application and, once approved, its login identity.
type CP struct {
	ID            uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"cp_id"`
	FullName      string         `gorm:"size:200;not null" json:"full_name"`
	Mobile        string         `gorm:"size:20;not null;uniqueIndex" json:"mobile"`
	Email         string         `gorm:"size:255;not null;uniqueIndex" json:"email"`
	City          string         `gorm:"size:100" json:"city,omitempty"`
	State         string         `gorm:"size:100" json:"state,omitempty"`
	Country       string         `gorm:"size:100" json:"country,omitempty"`
	Experience    string         `gorm:"size:255" json:"experience,omitempty"`
	PreferredAOO  datatypes.JSON `gorm:"type:jsonb" json:"preferred_aoo,omitempty"`
	ApprovedAOO   datatypes.JSON `gorm:"type:jsonb" json:"approved_aoo,omitempty"`
	Status        CPStatus       `gorm:"size:20;not null;default:'SUBMITTED';index" json:"status"`
	PlanID        *uuid.UUID     `gorm:"type:uuid" json:"plan_id,omitempty"`
	PasswordHash  *string        `gorm:"size:100" json:"-"`
	PinHash       *string        `gorm:"size:100" json:"-"`
	IsPasswordSet bool           `gorm:"not null;default:false" json:"is_password_set"`
	IsPinSet      bool           `gorm:"not null;default:false" json:"is_pin_set"`
	ReviewedBy    *uuid.UUID     `gorm:"type:uuid" json:"reviewed_by,omitempty"`
	SubmittedAt   time.Time      `gorm:"not null" json:"submitted_at"`
	ReviewedAt    *time.Time     `json:"reviewed_at,omitempty"`
	ActivatedAt   *time.Time     `json:"activated_at,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

func (CP) TableName() string {
	return "cps"
}

// HasPassword reports whether a usable password hash is stored.
func (cp *CP) HasPassword() bool {
	return cp.IsPasswordSet && cp.PasswordHash != nil && *cp.PasswordHash != ""
}

// SetupComplete reports whether the one-time account setup has run. Approval
// assigns a default password but never a PIN, so the PIN flag marks setup.
func (cp *CP) SetupComplete() bool {
	return cp.IsPinSet
}

// Approval holds the fields written when an admin approves a CP.
type Approval struct {
	PlanID       *uuid.UUID
	ApprovedAOO  datatypes.JSON
	PasswordHash string
	ReviewedAt   time.Time
}

// Credentials holds the fields written by account setup.
type Credentials struct {
	PasswordHash string
	PinHash      string
	ActivatedAt  time.Time
}
