package services

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/ahmetcoskunkizilkaya/cp-backend/internal/apperrors"
	"github.com/ahmetcoskunkizilkaya/cp-backend/internal/mail"
	"github.com/ahmetcoskunkizilkaya/cp-backend/internal/models"
	"github.com/google/uuid"
)

var fixedNow = time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

// memCPStore mirrors the guarded updates of the GORM repository.
type memCPStore struct {
	mu  sync.Mutex
	cps map[uuid.UUID]models.CP
}

func newMemCPStore() *memCPStore {
	return &memCPStore{cps: make(map[uuid.UUID]models.CP)}
}

func (m *memCPStore) Create(_ context.Context, cp *models.CP) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.cps {
		if existing.Mobile == cp.Mobile || existing.Email == cp.Email {
			return apperrors.Conflict("CP already registered with this mobile or email")
		}
	}
	m.cps[cp.ID] = *cp
	return nil
}

func (m *memCPStore) put(cp models.CP) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cps[cp.ID] = cp
}

func (m *memCPStore) get(id uuid.UUID) models.CP {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cps[id]
}

func (m *memCPStore) FindByID(_ context.Context, id uuid.UUID) (*models.CP, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp, ok := m.cps[id]
	if !ok {
		return nil, apperrors.NotFound("CP not found")
	}
	return &cp, nil
}

func (m *memCPStore) FindByEmail(_ context.Context, email string) (*models.CP, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, cp := range m.cps {
		if cp.Email == email {
			return &cp, nil
		}
	}
	return nil, apperrors.NotFound("CP not found")
}

func (m *memCPStore) FindByIdentifier(_ context.Context, identifier string) (*models.CP, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, cp := range m.cps {
		if cp.Mobile == identifier || cp.Email == identifier {
			return &cp, nil
		}
	}
	return nil, apperrors.NotFound("CP not found")
}

func (m *memCPStore) ExistsByMobileOrEmail(_ context.Context, mobile, email string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, cp := range m.cps {
		if cp.Mobile == mobile || cp.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (m *memCPStore) List(_ context.Context, status models.CPStatus, limit, offset int) ([]models.CP, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.CP
	for _, cp := range m.cps {
		if status == "" || cp.Status == status {
			out = append(out, cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SubmittedAt.After(out[j].SubmittedAt) })
	total := int64(len(out))
	if offset >= len(out) {
		return nil, total, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, total, nil
}

func (m *memCPStore) Approve(_ context.Context, id uuid.UUID, a models.Approval) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp, ok := m.cps[id]
	if !ok || cp.Status != models.CPStatusSubmitted {
		return apperrors.Conflict("CP was modified concurrently, please retry")
	}
	hash := a.PasswordHash
	reviewed := a.ReviewedAt
	cp.Status = models.CPStatusApproved
	cp.PasswordHash = &hash
	cp.IsPasswordSet = true
	cp.PlanID = a.PlanID
	cp.ApprovedAOO = a.ApprovedAOO
	cp.ReviewedBy = nil
	cp.ReviewedAt = &reviewed
	cp.ActivatedAt = &reviewed
	m.cps[id] = cp
	return nil
}

func (m *memCPStore) Reject(_ context.Context, id uuid.UUID, reviewedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp, ok := m.cps[id]
	if !ok || cp.Status != models.CPStatusSubmitted {
		return apperrors.Conflict("CP was modified concurrently, please retry")
	}
	cp.Status = models.CPStatusRejected
	cp.ReviewedBy = nil
	cp.ReviewedAt = &reviewedAt
	m.cps[id] = cp
	return nil
}

func (m *memCPStore) CompleteSetup(_ context.Context, id uuid.UUID, creds models.Credentials) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp, ok := m.cps[id]
	if !ok || cp.Status != models.CPStatusApproved || cp.IsPinSet {
		return apperrors.Conflict("CP was modified concurrently, please retry")
	}
	pw, pin, at := creds.PasswordHash, creds.PinHash, creds.ActivatedAt
	cp.PasswordHash = &pw
	cp.PinHash = &pin
	cp.IsPasswordSet = true
	cp.IsPinSet = true
	cp.ActivatedAt = &at
	m.cps[id] = cp
	return nil
}

// racingCPStore hides existing rows from the pre-check so the insert is the
// one that detects the duplicate.
type racingCPStore struct {
	*memCPStore
}

func (racingCPStore) ExistsByMobileOrEmail(context.Context, string, string) (bool, error) {
	return false, nil
}

type memStageStore struct {
	stages []models.LeadStage
}

func newStageCatalog(codes ...string) *memStageStore {
	s := &memStageStore{}
	for i, code := range codes {
		s.stages = append(s.stages, models.LeadStage{ID: uuid.New(), Code: code, SeqNo: (i + 1) * 10})
	}
	return s
}

func (s *memStageStore) byCode(code string) models.LeadStage {
	for _, st := range s.stages {
		if st.Code == code {
			return st
		}
	}
	return models.LeadStage{}
}

func (s *memStageStore) All(context.Context) ([]models.LeadStage, error) {
	return append([]models.LeadStage(nil), s.stages...), nil
}

func (s *memStageStore) Initial(context.Context) (*models.LeadStage, error) {
	if len(s.stages) == 0 {
		return nil, apperrors.NotFound("Invalid lead stage")
	}
	lowest := s.stages[0]
	for _, st := range s.stages[1:] {
		if st.SeqNo < lowest.SeqNo {
			lowest = st
		}
	}
	return &lowest, nil
}

func (s *memStageStore) FindByCode(_ context.Context, code string) (*models.LeadStage, error) {
	for _, st := range s.stages {
		if st.Code == code {
			return &st, nil
		}
	}
	return nil, apperrors.NotFound("Invalid lead stage")
}

func (s *memStageStore) FindByID(_ context.Context, id uuid.UUID) (*models.LeadStage, error) {
	for _, st := range s.stages {
		if st.ID == id {
			return &st, nil
		}
	}
	return nil, apperrors.NotFound("Invalid lead stage")
}

type memLeadStore struct {
	mu    sync.Mutex
	leads map[uuid.UUID]models.Lead

	// readBarrier, when set, holds every FindForCP caller until all expected
	// readers have loaded the lead.
	readBarrier *sync.WaitGroup
}

func newMemLeadStore() *memLeadStore {
	return &memLeadStore{leads: make(map[uuid.UUID]models.Lead)}
}

func (m *memLeadStore) Create(_ context.Context, lead *models.Lead) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.leads[lead.ID] = *lead
	return nil
}

func (m *memLeadStore) get(id uuid.UUID) models.Lead {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.leads[id]
}

func (m *memLeadStore) ListByCP(_ context.Context, cpID uuid.UUID) ([]models.Lead, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Lead
	for _, l := range m.leads {
		if l.CPID == cpID {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *memLeadStore) FindForCP(_ context.Context, cpID, leadID uuid.UUID) (*models.Lead, error) {
	m.mu.Lock()
	lead, ok := m.leads[leadID]
	m.mu.Unlock()

	if m.readBarrier != nil {
		m.readBarrier.Done()
		m.readBarrier.Wait()
	}

	if !ok || lead.CPID != cpID {
		return nil, apperrors.NotFound("Lead not found")
	}
	return &lead, nil
}

func (m *memLeadStore) AdvanceStage(_ context.Context, cpID, leadID, fromStageID, toStageID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	lead, ok := m.leads[leadID]
	if !ok || lead.CPID != cpID || lead.StageID != fromStageID {
		return apperrors.Conflict("Lead was modified concurrently, please retry")
	}
	lead.StageID = toStageID
	m.leads[leadID] = lead
	return nil
}

type memNotificationStore struct {
	mu   sync.Mutex
	rows []models.Notification
}

func (m *memNotificationStore) Create(_ context.Context, n *models.Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if n.CreatedAt.IsZero() {
		n.CreatedAt = fixedNow.Add(time.Duration(len(m.rows)) * time.Minute)
	}
	m.rows = append(m.rows, *n)
	return nil
}

func (m *memNotificationStore) ListByUser(_ context.Context, userID uuid.UUID, limit int) ([]models.Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Notification
	for _, n := range m.rows {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memNotificationStore) MarkRead(_ context.Context, userID, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.rows {
		if m.rows[i].ID == id && m.rows[i].UserID == userID {
			m.rows[i].IsRead = true
			return nil
		}
	}
	return apperrors.NotFound("Notification not found")
}

func (m *memNotificationStore) MarkAllRead(_ context.Context, userID uuid.UUID) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for i := range m.rows {
		if m.rows[i].UserID == userID && !m.rows[i].IsRead {
			m.rows[i].IsRead = true
			n++
		}
	}
	return n, nil
}

func (m *memNotificationStore) CountUnread(_ context.Context, userID uuid.UUID) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, row := range m.rows {
		if row.UserID == userID && !row.IsRead {
			n++
		}
	}
	return n, nil
}

type memUserStore struct {
	users map[uuid.UUID]models.User
}

func (m *memUserStore) FindWithProfile(_ context.Context, id uuid.UUID) (*models.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, apperrors.NotFound("User not found")
	}
	return &u, nil
}

// plainHasher is a fast, deterministic stand-in for bcrypt.
type plainHasher struct {
	mu       sync.Mutex
	compares int
}

func (h *plainHasher) Hash(plain string) (string, error) {
	return "hashed:" + plain, nil
}

func (h *plainHasher) Compare(hash, plain string) bool {
	h.mu.Lock()
	h.compares++
	h.mu.Unlock()
	return strings.TrimPrefix(hash, "hashed:") == plain && strings.HasPrefix(hash, "hashed:")
}

func (h *plainHasher) compareCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.compares
}

type stubSigner struct{}

func (stubSigner) Sign(subject, role string) (string, time.Time, error) {
	return "token-" + role + "-" + subject, fixedNow.Add(7 * 24 * time.Hour), nil
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent []mail.ReviewEmail
}

func (r *recordingNotifier) SendReviewOutcome(_ context.Context, e mail.ReviewEmail) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, e)
	return nil
}
