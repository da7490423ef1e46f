package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/cp-backend/internal/apperrors"
	"github.com/ahmetcoskunkizilkaya/cp-backend/internal/auth"
	"github.com/ahmetcoskunkizilkaya/cp-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/cp-backend/internal/mail"
	"github.com/ahmetcoskunkizilkaya/cp-backend/internal/metrics"
	"github.com/ahmetcoskunkizilkaya/cp-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const generatedPasswordBytes = 12

// Review queue paging.
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

var pinPattern = regexp.MustCompile(`^[0-9]{4}$`)

// CPService drives a channel partner from registration through review to
// account setup.
type CPService struct {
	cps             CPStore
	hasher          Hasher
	notifier        ReviewNotifier
	defaultPassword string
	now             func() time.Time
}

func NewCPService(cps CPStore, hasher Hasher, notifier ReviewNotifier, defaultPassword string) *CPService {
	if notifier == nil {
		notifier = mail.NoopSender{}
	}
	return &CPService{
		cps:             cps,
		hasher:          hasher,
		notifier:        notifier,
		defaultPassword: defaultPassword,
		now:             time.Now,
	}
}

func (s *CPService) Register(ctx context.Context, req *dto.RegisterCPRequest) (uuid.UUID, error) {
	fullName := strings.TrimSpace(req.FullName)
	mobile := strings.TrimSpace(req.Mobile)
	email := strings.TrimSpace(req.Email)
	if fullName == "" || mobile == "" || email == "" {
		metrics.RecordRegistration("invalid")
		return uuid.Nil, apperrors.Validation("full_name, mobile, and email are required")
	}

	exists, err := s.cps.ExistsByMobileOrEmail(ctx, mobile, email)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to check existing CP: %w", err)
	}
	if exists {
		metrics.RecordRegistration("duplicate")
		return uuid.Nil, apperrors.Conflict("CP already registered with this mobile or email")
	}

	cp := models.CP{
		ID:           uuid.New(),
		FullName:     fullName,
		Mobile:       mobile,
		Email:        email,
		City:         req.City,
		State:        req.State,
		Country:      req.Country,
		Experience:   req.Experience,
		PreferredAOO: jsonOrNil(req.PreferredAOO),
		Status:       models.CPStatusSubmitted,
		SubmittedAt:  s.now(),
	}
	if err := s.cps.Create(ctx, &cp); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			metrics.RecordRegistration("duplicate")
		}
		return uuid.Nil, err
	}

	metrics.RecordRegistration("submitted")
	slog.Info("cp registered", "cp_id", cp.ID)
	return cp.ID, nil
}

// Approve moves a SUBMITTED CP to APPROVED and assigns the default password.
// When no default is configured a random one is generated and returned so the
// reviewer can hand it over.
func (s *CPService) Approve(ctx context.Context, id uuid.UUID, req *dto.ApproveCPRequest) (*dto.ApproveCPResponse, error) {
	cp, err := s.reviewable(ctx, id, "CP is not in SUBMITTED state")
	if err != nil {
		return nil, err
	}

	password, generated := s.defaultPassword, false
	if password == "" {
		if password, err = auth.GeneratePassword(generatedPasswordBytes); err != nil {
			return nil, err
		}
		generated = true
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	approval := models.Approval{
		PasswordHash: hash,
		ReviewedAt:   s.now(),
		ApprovedAOO:  jsonOrNil(req.ApprovedAOO),
	}
	if req.PlanID != nil && *req.PlanID != uuid.Nil {
		approval.PlanID = req.PlanID
	}
	if err := s.cps.Approve(ctx, id, approval); err != nil {
		return nil, err
	}

	metrics.RecordReview("approved")
	slog.Info("cp approved", "cp_id", id, "generated_password", generated)
	// A configured default is shared by every CP, so it never leaves the
	// server; only a generated password is mailed and echoed.
	email := mail.ReviewEmail{
		To:       cp.Email,
		Name:     cp.FullName,
		Approved: true,
		LoginID:  cp.Email,
	}
	resp := &dto.ApproveCPResponse{Message: "CP approved successfully"}
	if generated {
		email.TemporaryPassword = password
		resp.TemporaryPassword = password
	}
	s.notify(ctx, email)

	return resp, nil
}

func (s *CPService) Reject(ctx context.Context, id uuid.UUID) error {
	cp, err := s.reviewable(ctx, id, "Only SUBMITTED CPs can be rejected")
	if err != nil {
		return err
	}

	if err := s.cps.Reject(ctx, id, s.now()); err != nil {
		return err
	}

	metrics.RecordReview("rejected")
	slog.Info("cp rejected", "cp_id", id)
	s.notify(ctx, mail.ReviewEmail{To: cp.Email, Name: cp.FullName})
	return nil
}

func (s *CPService) reviewable(ctx context.Context, id uuid.UUID, stateMsg string) (*models.CP, error) {
	cp, err := s.cps.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if cp.Status != models.CPStatusSubmitted {
		return nil, apperrors.InvalidState(stateMsg)
	}
	return cp, nil
}

// SetupAccount replaces the default password with the CP's own and sets the
// PIN. It runs once per CP.
func (s *CPService) SetupAccount(ctx context.Context, req *dto.SetupAccountRequest) error {
	email := strings.TrimSpace(req.Email)
	if email == "" || req.Password == "" || req.PIN == "" {
		return apperrors.Validation("All fields are required")
	}
	if !pinPattern.MatchString(req.PIN) {
		return apperrors.Validation("PIN must be 4 digits")
	}

	cp, err := s.cps.FindByEmail(ctx, email)
	if err != nil {
		return err
	}
	if cp.Status != models.CPStatusApproved {
		return apperrors.Forbidden("Account not approved yet")
	}
	if cp.SetupComplete() {
		return apperrors.InvalidState("Account already setup")
	}

	passwordHash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return err
	}
	pinHash, err := s.hasher.Hash(req.PIN)
	if err != nil {
		return err
	}

	err = s.cps.CompleteSetup(ctx, cp.ID, models.Credentials{
		PasswordHash: passwordHash,
		PinHash:      pinHash,
		ActivatedAt:  s.now(),
	})
	if errors.Is(err, apperrors.ErrConflict) {
		// Lost the race against another setup for the same CP.
		return apperrors.InvalidState("Account already setup")
	}
	if err != nil {
		return err
	}

	slog.Info("cp account setup completed", "cp_id", cp.ID)
	return nil
}

func (s *CPService) ValidatePIN(ctx context.Context, req *dto.ValidatePINRequest) error {
	if strings.TrimSpace(req.CPID) == "" || req.PIN == "" {
		return apperrors.Validation("cp_id and pin are required")
	}

	invalid := apperrors.Auth("Invalid PIN")
	id, err := uuid.Parse(strings.TrimSpace(req.CPID))
	if err != nil {
		return invalid
	}

	cp, err := s.cps.FindByID(ctx, id)
	if errors.Is(err, apperrors.ErrNotFound) {
		return invalid
	}
	if err != nil {
		return err
	}
	if cp.PinHash == nil || *cp.PinHash == "" || !s.hasher.Compare(*cp.PinHash, req.PIN) {
		return invalid
	}
	return nil
}

func (s *CPService) Get(ctx context.Context, id uuid.UUID) (*dto.CPIdentity, error) {
	cp, err := s.cps.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	identity := toIdentity(cp)
	return &identity, nil
}

// List backs the admin review queue. An empty status lists every CP.
func (s *CPService) List(ctx context.Context, status string, limit, offset int) ([]models.CP, int64, error) {
	st := models.CPStatus(strings.ToUpper(strings.TrimSpace(status)))
	if st != "" && !st.Valid() {
		return nil, 0, apperrors.Validation("Invalid status filter")
	}
	limit, offset = ClampPage(limit, offset)
	return s.cps.List(ctx, st, limit, offset)
}

// ClampPage bounds a requested page to what List will actually serve.
func ClampPage(limit, offset int) (int, int) {
	if limit < 1 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

func (s *CPService) notify(ctx context.Context, e mail.ReviewEmail) {
	if err := s.notifier.SendReviewOutcome(ctx, e); err != nil {
		slog.Error("failed to send review email", "to", e.To, "approved", e.Approved, "error", err)
	}
}

func toIdentity(cp *models.CP) dto.CPIdentity {
	return dto.CPIdentity{
		CPID:     cp.ID,
		FullName: cp.FullName,
		Mobile:   cp.Mobile,
		Email:    cp.Email,
	}
}

func jsonOrNil(raw []byte) datatypes.JSON {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return nil
	}
	return datatypes.JSON(trimmed)
}
