package handlers

import (
	"context"

	"github.com/ahmetcoskunkizilkaya/cp-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/cp-backend/internal/models"
	"github.com/google/uuid"
)

// Handlers depend on these narrow views of the services so they can be
// exercised with mocks.

type CPService interface {
	Register(ctx context.Context, req *dto.RegisterCPRequest) (uuid.UUID, error)
	Approve(ctx context.Context, id uuid.UUID, req *dto.ApproveCPRequest) (*dto.ApproveCPResponse, error)
	Reject(ctx context.Context, id uuid.UUID) error
	SetupAccount(ctx context.Context, req *dto.SetupAccountRequest) error
	ValidatePIN(ctx context.Context, req *dto.ValidatePINRequest) error
	Get(ctx context.Context, id uuid.UUID) (*dto.CPIdentity, error)
	List(ctx context.Context, status string, limit, offset int) ([]models.CP, int64, error)
}

type LoginService interface {
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error)
}

type LeadService interface {
	CreateLead(ctx context.Context, cpID uuid.UUID, req *dto.CreateLeadRequest) (*dto.LeadView, error)
	ListLeads(ctx context.Context, cpID uuid.UUID) ([]dto.LeadView, error)
	UpdateLeadStage(ctx context.Context, cpID, leadID uuid.UUID, stageCode string) error
}

type NotificationService interface {
	List(ctx context.Context, ownerID uuid.UUID, limit int) ([]models.Notification, error)
	MarkRead(ctx context.Context, ownerID, id uuid.UUID) error
	MarkAllRead(ctx context.Context, ownerID uuid.UUID) (int64, error)
	UnreadCount(ctx context.Context, ownerID uuid.UUID) (int64, error)
	Create(ctx context.Context, userID uuid.UUID, title, message string) (*models.Notification, error)
}

type ProfileService interface {
	Get(ctx context.Context, userID uuid.UUID) (*models.User, error)
}
