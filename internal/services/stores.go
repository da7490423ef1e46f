package services

import (
	"context"
	"time"

	"github.com/ahmetcoskunkizilkaya/cp-backend/internal/mail"
	"github.com/ahmetcoskunkizilkaya/cp-backend/internal/models"
	"github.com/google/uuid"
)

// CPStore is the persistence the CP lifecycle and login need. Review and
// setup writes are guarded updates that return a conflict when the row
// changed after it was read.
type CPStore interface {
	Create(ctx context.Context, cp *models.CP) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.CP, error)
	FindByEmail(ctx context.Context, email string) (*models.CP, error)
	FindByIdentifier(ctx context.Context, identifier string) (*models.CP, error)
	ExistsByMobileOrEmail(ctx context.Context, mobile, email string) (bool, error)
	List(ctx context.Context, status models.CPStatus, limit, offset int) ([]models.CP, int64, error)
	Approve(ctx context.Context, id uuid.UUID, a models.Approval) error
	Reject(ctx context.Context, id uuid.UUID, reviewedAt time.Time) error
	CompleteSetup(ctx context.Context, id uuid.UUID, creds models.Credentials) error
}

type StageStore interface {
	All(ctx context.Context) ([]models.LeadStage, error)
	Initial(ctx context.Context) (*models.LeadStage, error)
	FindByCode(ctx context.Context, code string) (*models.LeadStage, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.LeadStage, error)
}

type LeadStore interface {
	Create(ctx context.Context, lead *models.Lead) error
	ListByCP(ctx context.Context, cpID uuid.UUID) ([]models.Lead, error)
	FindForCP(ctx context.Context, cpID, leadID uuid.UUID) (*models.Lead, error)
	AdvanceStage(ctx context.Context, cpID, leadID, fromStageID, toStageID uuid.UUID) error
}

type NotificationStore interface {
	Create(ctx context.Context, n *models.Notification) error
	ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]models.Notification, error)
	MarkRead(ctx context.Context, userID, id uuid.UUID) error
	MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error)
	CountUnread(ctx context.Context, userID uuid.UUID) (int64, error)
}

type UserStore interface {
	FindWithProfile(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// Hasher hashes and verifies passwords and PINs.
type Hasher interface {
	Hash(plain string) (string, error)
	Compare(hash, plain string) bool
}

type TokenSigner interface {
	Sign(subject, role string) (string, time.Time, error)
}

// ReviewNotifier tells a CP about the outcome of their application.
type ReviewNotifier interface {
	SendReviewOutcome(ctx context.Context, e mail.ReviewEmail) error
}
