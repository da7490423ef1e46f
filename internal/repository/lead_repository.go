package repository

import (
	"context"

	"github.com/ahmetcoskunkizilkaya/cp-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const leadNotFound = "Lead not found"

type LeadRepository struct {
	db *gorm.DB
}

func NewLeadRepository(db *gorm.DB) *LeadRepository {
	return &LeadRepository{db: db}
}

func (r *LeadRepository) Create(ctx context.Context, lead *models.Lead) error {
	return translate(r.db.WithContext(ctx).Omit("CP", "Stage").Create(lead).Error, leadNotFound, "Lead already exists")
}

// ListByCP returns the CP's leads, newest first.
func (r *LeadRepository) ListByCP(ctx context.Context, cpID uuid.UUID) ([]models.Lead, error) {
	var leads []models.Lead
	err := r.db.WithContext(ctx).
		Scopes(ownedBy("cp_id", cpID)).
		Order("created_at DESC").
		Find(&leads).Error
	if err != nil {
		return nil, err
	}
	return leads, nil
}

func (r *LeadRepository) FindForCP(ctx context.Context, cpID, leadID uuid.UUID) (*models.Lead, error) {
	var lead models.Lead
	err := r.db.WithContext(ctx).
		Scopes(ownedBy("cp_id", cpID)).
		Where("id = ?", leadID).
		First(&lead).Error
	if err != nil {
		return nil, translate(err, leadNotFound, "")
	}
	return &lead, nil
}

// AdvanceStage swaps the lead's stage from fromStageID to toStageID. It is a
// compare-and-swap: when the stored stage is no longer fromStageID nothing is
// written and a conflict is returned.
func (r *LeadRepository) AdvanceStage(ctx context.Context, cpID, leadID, fromStageID, toStageID uuid.UUID) error {
	result := r.db.WithContext(ctx).Model(&models.Lead{}).
		Scopes(ownedBy("cp_id", cpID)).
		Where("id = ? AND stage_id = ?", leadID, fromStageID).
		Update("stage_id", toStageID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errStaleWrite("Lead")
	}
	return nil
}
