package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/cp-backend/internal/apperrors"
	"github.com/ahmetcoskunkizilkaya/cp-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/cp-backend/internal/metrics"
	"github.com/ahmetcoskunkizilkaya/cp-backend/internal/models"
	"github.com/google/uuid"
)

// LeadService captures leads and moves them forward through the stage
// catalog. UpdateLeadStage is the only code path that changes a lead's stage.
type LeadService struct {
	cps    CPStore
	leads  LeadStore
	stages StageStore
	now    func() time.Time
}

func NewLeadService(cps CPStore, leads LeadStore, stages StageStore) *LeadService {
	return &LeadService{cps: cps, leads: leads, stages: stages, now: time.Now}
}

func (s *LeadService) CreateLead(ctx context.Context, cpID uuid.UUID, req *dto.CreateLeadRequest) (*dto.LeadView, error) {
	churchName := strings.TrimSpace(req.ChurchName)
	contactName := strings.TrimSpace(req.ContactName)
	contactMobile := strings.TrimSpace(req.ContactMobile)
	if churchName == "" || contactName == "" || contactMobile == "" {
		return nil, apperrors.Validation("Required fields missing")
	}

	if _, err := s.cps.FindByID(ctx, cpID); err != nil {
		return nil, err
	}

	initial, err := s.stages.Initial(ctx)
	if errors.Is(err, apperrors.ErrNotFound) {
		return nil, apperrors.Config("Lead stages not configured")
	}
	if err != nil {
		return nil, err
	}

	lead := models.Lead{
		ID:              uuid.New(),
		CPID:            cpID,
		ChurchName:      churchName,
		ChurchAddrLine1: req.ChurchAddrLine1,
		ChurchAddrLine2: req.ChurchAddrLine2,
		ChurchCity:      req.ChurchCity,
		ChurchState:     req.ChurchState,
		ChurchType:      req.ChurchType,
		ContactName:     contactName,
		ContactMobile:   contactMobile,
		Notes:           req.Notes,
		StageID:         initial.ID,
		CreatedAt:       s.now(),
	}
	if err := s.leads.Create(ctx, &lead); err != nil {
		return nil, fmt.Errorf("failed to create lead: %w", err)
	}

	slog.Info("lead created", "cp_id", cpID, "lead_id", lead.ID, "stage", initial.Code)
	view := toLeadView(&lead, initial.Code)
	return &view, nil
}

// ListLeads returns the CP's leads newest first with stage codes resolved.
func (s *LeadService) ListLeads(ctx context.Context, cpID uuid.UUID) ([]dto.LeadView, error) {
	leads, err := s.leads.ListByCP(ctx, cpID)
	if err != nil {
		return nil, err
	}

	stages, err := s.stages.All(ctx)
	if err != nil {
		return nil, err
	}
	codes := make(map[uuid.UUID]string, len(stages))
	for _, st := range stages {
		codes[st.ID] = st.Code
	}

	views := make([]dto.LeadView, 0, len(leads))
	for i := range leads {
		code, ok := codes[leads[i].StageID]
		if !ok {
			code = models.UnknownStageCode
		}
		views = append(views, toLeadView(&leads[i], code))
	}
	return views, nil
}

// UpdateLeadStage moves a lead to a later stage. The write is a
// compare-and-swap on the stage read here, so a concurrent move from the same
// stage makes this call fail with a conflict instead of silently winning.
func (s *LeadService) UpdateLeadStage(ctx context.Context, cpID, leadID uuid.UUID, stageCode string) error {
	code := strings.TrimSpace(stageCode)
	if code == "" {
		return apperrors.Validation("lead_stage_code is required")
	}

	target, err := s.stages.FindByCode(ctx, code)
	if err != nil {
		return err
	}

	lead, err := s.leads.FindForCP(ctx, cpID, leadID)
	if err != nil {
		return err
	}

	current, err := s.stages.FindByID(ctx, lead.StageID)
	if errors.Is(err, apperrors.ErrNotFound) {
		return apperrors.Config("Lead references an unknown stage")
	}
	if err != nil {
		return err
	}

	if target.SeqNo <= current.SeqNo {
		metrics.RecordStageTransition(target.Code, "rejected")
		return apperrors.InvalidState("Cannot move lead backward")
	}

	if err := s.leads.AdvanceStage(ctx, cpID, leadID, current.ID, target.ID); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			metrics.RecordStageTransition(target.Code, "conflict")
			slog.Warn("lead stage changed concurrently", "lead_id", leadID, "from", current.Code, "to", target.Code)
		}
		return err
	}

	metrics.RecordStageTransition(target.Code, "applied")
	slog.Info("lead stage updated", "cp_id", cpID, "lead_id", leadID, "from", current.Code, "to", target.Code)
	return nil
}

func toLeadView(l *models.Lead, stageCode string) dto.LeadView {
	return dto.LeadView{
		ID:              l.ID,
		ChurchName:      l.ChurchName,
		ChurchAddrLine1: l.ChurchAddrLine1,
		ChurchAddrLine2: l.ChurchAddrLine2,
		ChurchCity:      l.ChurchCity,
		ChurchState:     l.ChurchState,
		ChurchType:      l.ChurchType,
		ContactName:     l.ContactName,
		ContactMobile:   l.ContactMobile,
		Notes:           l.Notes,
		Stage:           stageCode,
		CreatedAt:       l.CreatedAt,
	}
}
