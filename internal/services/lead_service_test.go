package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/cp-backend/internal/apperrors"
	"github.com/ahmetcoskunkizilkaya/cp-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/cp-backend/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type leadFixture struct {
	cps    *memCPStore
	leads  *memLeadStore
	stages *memStageStore
	svc    *LeadService
	cpID   uuid.UUID
}

func newLeadFixture(t *testing.T, codes ...string) *leadFixture {
	t.Helper()
	f := &leadFixture{
		cps:    newMemCPStore(),
		leads:  newMemLeadStore(),
		stages: newStageCatalog(codes...),
	}
	f.cpID = seedCP(f.cps, models.CPStatusApproved, "Cp@12345").ID
	f.svc = NewLeadService(f.cps, f.leads, f.stages)
	f.svc.now = fixedClock
	return f
}

func (f *leadFixture) create(t *testing.T) uuid.UUID {
	t.Helper()
	view, err := f.svc.CreateLead(context.Background(), f.cpID, &dto.CreateLeadRequest{
		ChurchName:    " Grace Chapel ",
		ChurchCity:    "Pune",
		ContactName:   "Pastor John",
		ContactMobile: "9800000000",
	})
	require.NoError(t, err)
	return view.ID
}

func TestCreateLeadStartsAtLowestStage(t *testing.T) {
	f := newLeadFixture(t, "NEW", "CONTACTED", "QUALIFIED")
	id := f.create(t)

	lead := f.leads.get(id)
	assert.Equal(t, f.stages.byCode("NEW").ID, lead.StageID)
	assert.Equal(t, f.cpID, lead.CPID)
	assert.Equal(t, "Grace Chapel", lead.ChurchName)
	assert.Equal(t, fixedNow, lead.CreatedAt)
}

func TestCreateLeadValidation(t *testing.T) {
	f := newLeadFixture(t, "NEW")
	ctx := context.Background()

	cases := []dto.CreateLeadRequest{
		{ContactName: "J", ContactMobile: "1"},
		{ChurchName: "G", ContactMobile: "1"},
		{ChurchName: "G", ContactName: "J", ContactMobile: "  "},
	}
	for _, req := range cases {
		_, err := f.svc.CreateLead(ctx, f.cpID, &req)
		assert.ErrorIs(t, err, apperrors.ErrValidation)
	}
}

func TestCreateLeadUnknownCP(t *testing.T) {
	f := newLeadFixture(t, "NEW")
	_, err := f.svc.CreateLead(context.Background(), uuid.New(), &dto.CreateLeadRequest{ChurchName: "G", ContactName: "J", ContactMobile: "1"})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestCreateLeadWithoutStageCatalog(t *testing.T) {
	f := newLeadFixture(t)
	_, err := f.svc.CreateLead(context.Background(), f.cpID, &dto.CreateLeadRequest{ChurchName: "G", ContactName: "J", ContactMobile: "1"})
	assert.ErrorIs(t, err, apperrors.ErrConfig)
	assert.Equal(t, 500, apperrors.StatusCode(err))
}

func TestStageMovesForwardOnly(t *testing.T) {
	f := newLeadFixture(t, "S1", "S2", "S3")
	ctx := context.Background()
	id := f.create(t)

	require.NoError(t, f.svc.UpdateLeadStage(ctx, f.cpID, id, "S3"), "skipping stages is allowed")
	assert.Equal(t, f.stages.byCode("S3").ID, f.leads.get(id).StageID)

	err := f.svc.UpdateLeadStage(ctx, f.cpID, id, "S2")
	assert.ErrorIs(t, err, apperrors.ErrInvalidState)
	assert.Equal(t, "Cannot move lead backward", err.Error())

	err = f.svc.UpdateLeadStage(ctx, f.cpID, id, "S3")
	assert.ErrorIs(t, err, apperrors.ErrInvalidState, "same stage is not a move forward")

	assert.Equal(t, f.stages.byCode("S3").ID, f.leads.get(id).StageID)
}

func TestUpdateLeadStageLookups(t *testing.T) {
	f := newLeadFixture(t, "S1", "S2")
	ctx := context.Background()
	id := f.create(t)

	assert.ErrorIs(t, f.svc.UpdateLeadStage(ctx, f.cpID, id, " "), apperrors.ErrValidation)
	assert.ErrorIs(t, f.svc.UpdateLeadStage(ctx, f.cpID, id, "WON"), apperrors.ErrNotFound)
	assert.ErrorIs(t, f.svc.UpdateLeadStage(ctx, f.cpID, uuid.New(), "S2"), apperrors.ErrNotFound)

	other := seedOtherCP(f.cps)
	assert.ErrorIs(t, f.svc.UpdateLeadStage(ctx, other, id, "S2"), apperrors.ErrNotFound, "leads are scoped to their owner")
	assert.Equal(t, f.stages.byCode("S1").ID, f.leads.get(id).StageID)
}

func TestConcurrentAdvanceFromSameStage(t *testing.T) {
	f := newLeadFixture(t, "S1", "S2", "S3")
	id := f.create(t)

	barrier := &sync.WaitGroup{}
	barrier.Add(2)
	f.leads.readBarrier = barrier

	errs := make([]error, 2)
	var wg sync.WaitGroup
	for i, target := range []string{"S2", "S3"} {
		wg.Add(1)
		go func(i int, target string) {
			defer wg.Done()
			errs[i] = f.svc.UpdateLeadStage(context.Background(), f.cpID, id, target)
		}(i, target)
	}
	wg.Wait()

	var succeeded, conflicted int
	for _, err := range errs {
		switch {
		case err == nil:
			succeeded++
		case apperrors.StatusCode(err) == 409:
			conflicted++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 1, conflicted)

	final := f.leads.get(id).StageID
	assert.Contains(t, []uuid.UUID{f.stages.byCode("S2").ID, f.stages.byCode("S3").ID}, final)
}

func TestListLeadsNewestFirstWithStageCodes(t *testing.T) {
	f := newLeadFixture(t, "NEW", "CONTACTED")
	ctx := context.Background()

	older := f.create(t)
	f.svc.now = func() time.Time { return fixedNow.Add(time.Hour) }
	newer := f.create(t)
	require.NoError(t, f.svc.UpdateLeadStage(ctx, f.cpID, newer, "CONTACTED"))

	orphan := models.Lead{ID: uuid.New(), CPID: f.cpID, ChurchName: "Old", StageID: uuid.New(), CreatedAt: fixedNow.Add(-time.Hour)}
	require.NoError(t, f.leads.Create(ctx, &orphan))

	foreign := models.Lead{ID: uuid.New(), CPID: uuid.New(), ChurchName: "Other", StageID: f.stages.byCode("NEW").ID, CreatedAt: fixedNow}
	require.NoError(t, f.leads.Create(ctx, &foreign))

	views, err := f.svc.ListLeads(ctx, f.cpID)
	require.NoError(t, err)
	require.Len(t, views, 3)

	assert.Equal(t, newer, views[0].ID)
	assert.Equal(t, "CONTACTED", views[0].Stage)
	assert.Equal(t, older, views[1].ID)
	assert.Equal(t, "NEW", views[1].Stage)
	assert.Equal(t, orphan.ID, views[2].ID)
	assert.Equal(t, models.UnknownStageCode, views[2].Stage)
}

func TestListLeadsEmpty(t *testing.T) {
	f := newLeadFixture(t, "NEW")
	views, err := f.svc.ListLeads(context.Background(), f.cpID)
	require.NoError(t, err)
	assert.NotNil(t, views)
	assert.Empty(t, views)
}

func seedOtherCP(store *memCPStore) uuid.UUID {
	cp := models.CP{ID: uuid.New(), FullName: "Other", Mobile: "9111111111", Email: "other@example.com", Status: models.CPStatusApproved}
	store.put(cp)
	return cp.ID
}
