package repository

import (
	"context"
	"time"

	"github.com/ahmetcoskunkizilkaya/cp-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	cpNotFound  = "CP not found"
	cpDuplicate = "CP already registered with this mobile or email"
)

type CPRepository struct {
	db *gorm.DB
}

func NewCPRepository(db *gorm.DB) *CPRepository {
	return &CPRepository{db: db}
}

func (r *CPRepository) Create(ctx context.Context, cp *models.CP) error {
	return translate(r.db.WithContext(ctx).Create(cp).Error, cpNotFound, cpDuplicate)
}

func (r *CPRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.CP, error) {
	var cp models.CP
	if err := r.db.WithContext(ctx).First(&cp, "id = ?", id).Error; err != nil {
		return nil, translate(err, cpNotFound, cpDuplicate)
	}
	return &cp, nil
}

func (r *CPRepository) FindByEmail(ctx context.Context, email string) (*models.CP, error) {
	var cp models.CP
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&cp).Error; err != nil {
		return nil, translate(err, cpNotFound, cpDuplicate)
	}
	return &cp, nil
}

// FindByIdentifier looks a CP up by mobile or email, exact match.
func (r *CPRepository) FindByIdentifier(ctx context.Context, identifier string) (*models.CP, error) {
	var cp models.CP
	err := r.db.WithContext(ctx).
		Where("mobile = ? OR email = ?", identifier, identifier).
		Order("created_at ASC").
		First(&cp).Error
	if err != nil {
		return nil, translate(err, cpNotFound, cpDuplicate)
	}
	return &cp, nil
}

func (r *CPRepository) ExistsByMobileOrEmail(ctx context.Context, mobile, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.CP{}).
		Where("mobile = ? OR email = ?", mobile, email).
		Count(&count).Error
	return count > 0, err
}

func (r *CPRepository) List(ctx context.Context, status models.CPStatus, limit, offset int) ([]models.CP, int64, error) {
	var cps []models.CP
	var total int64

	query := r.db.WithContext(ctx).Model(&models.CP{})
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.Order("submitted_at DESC").Limit(limit).Offset(offset).Find(&cps).Error; err != nil {
		return nil, 0, err
	}
	return cps, total, nil
}

// Approve moves a SUBMITTED CP to APPROVED and stores the default password.
// The update is guarded on the current status.
func (r *CPRepository) Approve(ctx context.Context, id uuid.UUID, a models.Approval) error {
	result := r.db.WithContext(ctx).Model(&models.CP{}).
		Where("id = ? AND status = ?", id, models.CPStatusSubmitted).
		Updates(map[string]interface{}{
			"status":          models.CPStatusApproved,
			"password_hash":   a.PasswordHash,
			"is_password_set": true,
			"plan_id":         a.PlanID,
			"approved_aoo":    a.ApprovedAOO,
			"reviewed_by":     nil,
			"reviewed_at":     a.ReviewedAt,
			"activated_at":    a.ReviewedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errStaleWrite("CP")
	}
	return nil
}

// Reject moves a SUBMITTED CP to REJECTED. Credentials are untouched.
func (r *CPRepository) Reject(ctx context.Context, id uuid.UUID, reviewedAt time.Time) error {
	result := r.db.WithContext(ctx).Model(&models.CP{}).
		Where("id = ? AND status = ?", id, models.CPStatusSubmitted).
		Updates(map[string]interface{}{
			"status":      models.CPStatusRejected,
			"reviewed_by": nil,
			"reviewed_at": reviewedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errStaleWrite("CP")
	}
	return nil
}

// CompleteSetup stores the CP's own password and PIN. It only matches an
// APPROVED CP whose setup has not run yet.
func (r *CPRepository) CompleteSetup(ctx context.Context, id uuid.UUID, creds models.Credentials) error {
	result := r.db.WithContext(ctx).Model(&models.CP{}).
		Where("id = ? AND status = ? AND is_pin_set = ?", id, models.CPStatusApproved, false).
		Updates(map[string]interface{}{
			"password_hash":   creds.PasswordHash,
			"pin_hash":        creds.PinHash,
			"is_password_set": true,
			"is_pin_set":      true,
			"activated_at":    creds.ActivatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errStaleWrite("CP")
	}
	return nil
}
