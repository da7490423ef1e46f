package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ahmetcoskunkizilkaya/cp-backend/internal/auth"
	"github.com/ahmetcoskunkizilkaya/cp-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/cp-backend/internal/identity"
	"github.com/ahmetcoskunkizilkaya/cp-backend/internal/models"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockCPService struct{ mock.Mock }

func (m *mockCPService) Register(ctx context.Context, req *dto.RegisterCPRequest) (uuid.UUID, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *mockCPService) Approve(ctx context.Context, id uuid.UUID, req *dto.ApproveCPRequest) (*dto.ApproveCPResponse, error) {
	args := m.Called(ctx, id, req)
	resp, _ := args.Get(0).(*dto.ApproveCPResponse)
	return resp, args.Error(1)
}

func (m *mockCPService) Reject(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockCPService) SetupAccount(ctx context.Context, req *dto.SetupAccountRequest) error {
	return m.Called(ctx, req).Error(0)
}

func (m *mockCPService) ValidatePIN(ctx context.Context, req *dto.ValidatePINRequest) error {
	return m.Called(ctx, req).Error(0)
}

func (m *mockCPService) Get(ctx context.Context, id uuid.UUID) (*dto.CPIdentity, error) {
	args := m.Called(ctx, id)
	cp, _ := args.Get(0).(*dto.CPIdentity)
	return cp, args.Error(1)
}

func (m *mockCPService) List(ctx context.Context, status string, limit, offset int) ([]models.CP, int64, error) {
	args := m.Called(ctx, status, limit, offset)
	cps, _ := args.Get(0).([]models.CP)
	return cps, args.Get(1).(int64), args.Error(2)
}

type mockLoginService struct{ mock.Mock }

func (m *mockLoginService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*dto.LoginResponse)
	return resp, args.Error(1)
}

type mockLeadService struct{ mock.Mock }

func (m *mockLeadService) CreateLead(ctx context.Context, cpID uuid.UUID, req *dto.CreateLeadRequest) (*dto.LeadView, error) {
	args := m.Called(ctx, cpID, req)
	view, _ := args.Get(0).(*dto.LeadView)
	return view, args.Error(1)
}

func (m *mockLeadService) ListLeads(ctx context.Context, cpID uuid.UUID) ([]dto.LeadView, error) {
	args := m.Called(ctx, cpID)
	views, _ := args.Get(0).([]dto.LeadView)
	return views, args.Error(1)
}

func (m *mockLeadService) UpdateLeadStage(ctx context.Context, cpID, leadID uuid.UUID, stageCode string) error {
	return m.Called(ctx, cpID, leadID, stageCode).Error(0)
}

type mockNotificationService struct{ mock.Mock }

func (m *mockNotificationService) List(ctx context.Context, ownerID uuid.UUID, limit int) ([]models.Notification, error) {
	args := m.Called(ctx, ownerID, limit)
	rows, _ := args.Get(0).([]models.Notification)
	return rows, args.Error(1)
}

func (m *mockNotificationService) MarkRead(ctx context.Context, ownerID, id uuid.UUID) error {
	return m.Called(ctx, ownerID, id).Error(0)
}

func (m *mockNotificationService) MarkAllRead(ctx context.Context, ownerID uuid.UUID) (int64, error) {
	args := m.Called(ctx, ownerID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockNotificationService) UnreadCount(ctx context.Context, ownerID uuid.UUID) (int64, error) {
	args := m.Called(ctx, ownerID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockNotificationService) Create(ctx context.Context, userID uuid.UUID, title, message string) (*models.Notification, error) {
	args := m.Called(ctx, userID, title, message)
	n, _ := args.Get(0).(*models.Notification)
	return n, args.Error(1)
}

type mockProfileService struct{ mock.Mock }

func (m *mockProfileService) Get(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, userID)
	u, _ := args.Get(0).(*models.User)
	return u, args.Error(1)
}

// asSubject stands in for the bearer middleware by attaching a verified
// token for subject with the given role.
func asSubject(subject uuid.UUID, role string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals(identity.ContextKey, &jwt.Token{
			Valid: true,
			Claims: &auth.Claims{
				Role:             role,
				RegisteredClaims: jwt.RegisteredClaims{Subject: subject.String()},
			},
		})
		return c.Next()
	}
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body interface{}) (*http.Response, map[string]interface{}) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	var out map[string]interface{}
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	}
	return resp, out
}
