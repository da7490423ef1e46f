package repository

import (
	"context"

	"github.com/ahmetcoskunkizilkaya/cp-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const stageNotFound = "Invalid lead stage"

type StageRepository struct {
	db *gorm.DB
}

func NewStageRepository(db *gorm.DB) *StageRepository {
	return &StageRepository{db: db}
}

// All returns the catalog in progression order.
func (r *StageRepository) All(ctx context.Context) ([]models.LeadStage, error) {
	var stages []models.LeadStage
	if err := r.db.WithContext(ctx).Order("seq_no ASC").Find(&stages).Error; err != nil {
		return nil, err
	}
	return stages, nil
}

// Initial returns the stage with the lowest sequence number.
func (r *StageRepository) Initial(ctx context.Context) (*models.LeadStage, error) {
	var stage models.LeadStage
	if err := r.db.WithContext(ctx).Order("seq_no ASC").First(&stage).Error; err != nil {
		return nil, translate(err, stageNotFound, "")
	}
	return &stage, nil
}

func (r *StageRepository) FindByCode(ctx context.Context, code string) (*models.LeadStage, error) {
	var stage models.LeadStage
	if err := r.db.WithContext(ctx).Where("code = ?", code).First(&stage).Error; err != nil {
		return nil, translate(err, stageNotFound, "")
	}
	return &stage, nil
}

func (r *StageRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.LeadStage, error) {
	var stage models.LeadStage
	if err := r.db.WithContext(ctx).First(&stage, "id = ?", id).Error; err != nil {
		return nil, translate(err, stageNotFound, "")
	}
	return &stage, nil
}
