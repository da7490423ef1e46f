package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/ahmetcoskunkizilkaya/cp-backend/internal/apperrors"
	"github.com/ahmetcoskunkizilkaya/cp-backend/internal/auth"
	"github.com/ahmetcoskunkizilkaya/cp-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/cp-backend/internal/metrics"
)

const invalidCredentials = "Invalid credentials"

// AuthService authenticates channel partners and issues bearer tokens.
type AuthService struct {
	cps    CPStore
	hasher Hasher
	tokens TokenSigner

	dummyOnce sync.Once
	dummyHash string
}

func NewAuthService(cps CPStore, hasher Hasher, tokens TokenSigner) *AuthService {
	return &AuthService{cps: cps, hasher: hasher, tokens: tokens}
}

// Login accepts a mobile number or email plus password. Unknown accounts,
// accounts without credentials and wrong passwords all fail the same way;
// an ineligible status is only reported once the password has verified.
func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	identifier := strings.TrimSpace(req.Identifier)
	if identifier == "" || req.Password == "" {
		return nil, apperrors.Validation("Mobile/email and password are required")
	}

	cp, err := s.cps.FindByIdentifier(ctx, identifier)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	if cp == nil || !cp.HasPassword() {
		s.burnCompare(req.Password)
		metrics.RecordLogin("invalid")
		return nil, apperrors.Auth(invalidCredentials)
	}
	if !s.hasher.Compare(*cp.PasswordHash, req.Password) {
		metrics.RecordLogin("invalid")
		return nil, apperrors.Auth(invalidCredentials)
	}
	if !cp.Status.CanLogin() {
		metrics.RecordLogin("ineligible")
		return nil, apperrors.Forbidden("Your account is not active yet")
	}

	token, expiresAt, err := s.tokens.Sign(cp.ID.String(), auth.RoleCP)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	metrics.RecordLogin("success")
	slog.Info("cp logged in", "cp_id", cp.ID)
	return &dto.LoginResponse{
		Message:   "Login successful",
		Token:     token,
		ExpiresAt: expiresAt,
		CP:        toIdentity(cp),
	}, nil
}

// burnCompare spends roughly one hash comparison so a missing account takes
// as long to reject as a wrong password.
func (s *AuthService) burnCompare(password string) {
	s.dummyOnce.Do(func() {
		hash, err := s.hasher.Hash("placeholder-password")
		if err != nil {
			slog.Warn("failed to prepare dummy hash", "error", err)
			return
		}
		s.dummyHash = hash
	})
	if s.dummyHash != "" {
		s.hasher.Compare(s.dummyHash, password)
	}
}
