package drafts

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SlotScheduler/internal/domain"
	draftRepo "github.com/m04kA/SMC-SlotScheduler/internal/infra/storage/draft"
	"github.com/m04kA/SMC-SlotScheduler/internal/service/drafts/models"
	"github.com/m04kA/SMC-SlotScheduler/pkg/logger"
	"github.com/m04kA/SMC-SlotScheduler/pkg/slotengine"
	"github.com/m04kA/SMC-SlotScheduler/pkg/types"
)

type fakeRepo struct {
	nextID         int64
	drafts         map[domain.DraftKey]*domain.Draft
	forceConflict  bool
	updateAttempts int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{drafts: make(map[domain.DraftKey]*domain.Draft)}
}

func cloneDraft(d *domain.Draft) *domain.Draft {
	c := *d
	c.Existing = append([]slotengine.Slot(nil), d.Existing...)
	c.Edits = cloneEdits(d.Edits)
	return &c
}

func (f *fakeRepo) Create(_ context.Context, d *domain.Draft) (*domain.Draft, error) {
	if _, ok := f.drafts[d.Key()]; ok {
		return nil, draftRepo.ErrDraftAlreadyExists
	}
	f.nextID++
	stored := cloneDraft(d)
	stored.ID = f.nextID
	stored.Version = 1
	f.drafts[d.Key()] = stored
	return cloneDraft(stored), nil
}

func (f *fakeRepo) GetByKey(_ context.Context, key domain.DraftKey) (*domain.Draft, error) {
	d, ok := f.drafts[key]
	if !ok {
		return nil, draftRepo.ErrDraftNotFound
	}
	return cloneDraft(d), nil
}

func (f *fakeRepo) ListByBranch(_ context.Context, feature domain.Feature, branchID int64) ([]*domain.Draft, error) {
	var result []*domain.Draft
	for key, d := range f.drafts {
		if key.Feature == feature && key.BranchID == branchID {
			result = append(result, cloneDraft(d))
		}
	}
	return result, nil
}

func (f *fakeRepo) UpdateEdits(_ context.Context, d *domain.Draft) (*domain.Draft, error) {
	f.updateAttempts++
	stored, ok := f.drafts[d.Key()]
	if !ok || stored.ID != d.ID {
		return nil, draftRepo.ErrDraftNotFound
	}
	if f.forceConflict || stored.Version != d.Version {
		return nil, draftRepo.ErrVersionConflict
	}
	stored.Edits = cloneEdits(d.Edits)
	stored.Version++
	return cloneDraft(stored), nil
}

func (f *fakeRepo) Delete(_ context.Context, id int64) error {
	for key, d := range f.drafts {
		if d.ID == id {
			delete(f.drafts, key)
			return nil
		}
	}
	return draftRepo.ErrDraftNotFound
}

type fakeBackend struct {
	slots []slotengine.Slot
	err   error
	calls int
}

func (f *fakeBackend) FetchSlots(_ context.Context, _ domain.Feature, _ int64, _, _ types.Date) ([]slotengine.Slot, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.slots, nil
}

type fakeSettings struct {
	settings *domain.SlotSettings
	err      error
}

func (f *fakeSettings) Effective(_ context.Context, feature domain.Feature, _ int64) (*domain.SlotSettings, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.settings != nil {
		return f.settings, nil
	}
	return &domain.SlotSettings{
		Feature:             feature,
		SlotDurationMinutes: domain.DefaultSlotDurationMinutes,
		DefaultCapacity:     domain.DefaultSlotCapacity,
		DayStart:            slotengine.DefaultDayStart,
	}, nil
}

const testDate = "2025-03-10"

func existing(id, start, end string, capacity, booked int) slotengine.Slot {
	return slotengine.Slot{
		ID:          id,
		Date:        types.MustDate(testDate),
		StartTime:   types.TimeString(start),
		EndTime:     types.TimeString(end),
		Capacity:    capacity,
		BookedCount: booked,
		IsActive:    true,
		State:       slotengine.LifecycleExisting,
	}
}

func newTestService(t *testing.T, backendSlots ...slotengine.Slot) (*Service, *fakeRepo, *fakeBackend) {
	t.Helper()

	repo := newFakeRepo()
	backend := &fakeBackend{slots: backendSlots}
	svc := NewService(repo, backend, &fakeSettings{}, logger.NewNop())

	n := 0
	svc.newKey = func() string {
		n++
		return fmt.Sprintf("new-%d", n)
	}
	return svc, repo, backend
}

func testKey() models.DraftKey {
	return models.DraftKey{Feature: domain.FeatureAppointment, BranchID: 7, Date: types.MustDate(testDate)}
}

func intPtr(v int) *int { return &v }

func timePtr(v string) *types.TimeString {
	t := types.TimeString(v)
	return &t
}

func TestService_Open(t *testing.T) {
	otherDay := existing("99", "08:00", "08:30", 5, 0)
	otherDay.Date = types.MustDate("2025-03-11")

	svc, repo, backend := newTestService(t,
		existing("1", "08:00", "08:30", 10, 2),
		otherDay,
	)

	resp, err := svc.Open(context.Background(), testKey())
	require.NoError(t, err)

	assert.Equal(t, "2025-03-10", resp.Date)
	assert.False(t, resp.HasChanges)
	require.Len(t, resp.Slots, 1, "slots of other dates are ignored")
	assert.Equal(t, "1", resp.Slots[0].Key)
	assert.Equal(t, "08:30", resp.NextSlotStart)
	assert.Equal(t, slotengine.StatusAvailable, resp.Summary.Status)

	_, err = svc.Open(context.Background(), testKey())
	require.NoError(t, err)
	assert.Equal(t, 1, backend.calls, "stored draft is reused")
	assert.Len(t, repo.drafts, 1)
}

func TestService_Open_UpstreamFailure(t *testing.T) {
	svc, repo, backend := newTestService(t)
	backend.err = errors.New("connection refused")

	_, err := svc.Open(context.Background(), testKey())
	assert.ErrorIs(t, err, ErrUpstreamFailure)
	assert.Empty(t, repo.drafts)
}

func TestService_AppendSlot_ChainsAfterLastSlot(t *testing.T) {
	svc, _, _ := newTestService(t,
		existing("1", "08:00", "08:30", 10, 0),
		existing("2", "08:30", "09:00", 10, 0),
	)

	resp, err := svc.AppendSlot(context.Background(), &models.AppendSlotRequest{
		DraftKey:        testKey(),
		DurationMinutes: 45,
		Capacity:        12,
	})
	require.NoError(t, err)

	require.Len(t, resp.Slots, 3)
	added := resp.Slots[2]
	assert.Equal(t, "new-1", added.Key)
	assert.Empty(t, added.SlotID)
	assert.Equal(t, "09:00", added.StartTime)
	assert.Equal(t, "09:45", added.EndTime)
	assert.Equal(t, "new", added.State)
	assert.Equal(t, "09:45", resp.NextSlotStart)
	assert.True(t, resp.HasChanges)
	assert.Equal(t, int64(2), resp.Version)
}

func TestService_AppendSlot_EmptyDayStartsAtDayStart(t *testing.T) {
	svc, _, _ := newTestService(t)

	resp, err := svc.AppendSlot(context.Background(), &models.AppendSlotRequest{
		DraftKey:        testKey(),
		DurationMinutes: 30,
		Capacity:        5,
	})
	require.NoError(t, err)
	require.Len(t, resp.Slots, 1)
	assert.Equal(t, "08:00", resp.Slots[0].StartTime)
	assert.Equal(t, "08:30", resp.Slots[0].EndTime)
}

func TestService_AppendSlot_UsesBranchSettings(t *testing.T) {
	svc, _, _ := newTestService(t)
	svc.settings = &fakeSettings{settings: &domain.SlotSettings{
		ID:                  3,
		Feature:             domain.FeatureAppointment,
		SlotDurationMinutes: 20,
		DefaultCapacity:     6,
		DayStart:            types.MustTimeString("10:00"),
	}}

	resp, err := svc.AppendSlot(context.Background(), &models.AppendSlotRequest{DraftKey: testKey()})
	require.NoError(t, err)

	require.Len(t, resp.Slots, 1)
	assert.Equal(t, "10:00", resp.Slots[0].StartTime)
	assert.Equal(t, "10:20", resp.Slots[0].EndTime)
	assert.Equal(t, 6, resp.Slots[0].Capacity)
	assert.Equal(t, "10:20", resp.NextSlotStart)
}

func TestService_AppendSlot_SettingsFailure(t *testing.T) {
	svc, repo, backend := newTestService(t)
	svc.settings = &fakeSettings{err: errors.New("db is down")}

	_, err := svc.AppendSlot(context.Background(), &models.AppendSlotRequest{DraftKey: testKey(), DurationMinutes: 30, Capacity: 5})

	assert.ErrorIs(t, err, ErrInternal)
	assert.Empty(t, repo.drafts)
	assert.Zero(t, backend.calls)
}

func TestService_AppendSlot_RejectsOverlapWithoutSaving(t *testing.T) {
	svc, repo, _ := newTestService(t, existing("A", "09:00", "09:30", 10, 0))

	_, err := svc.AppendSlot(context.Background(), &models.AppendSlotRequest{
		DraftKey:        testKey(),
		DurationMinutes: 30,
		Capacity:        10,
		StartTime:       timePtr("09:15"),
	})
	assert.ErrorIs(t, err, ErrOverlap)
	assert.Equal(t, 0, repo.updateAttempts)

	stored := repo.drafts[testKey().ToDomain()]
	assert.True(t, stored.Edits.IsEmpty())
}

func TestService_AppendSlot_RejectsMidnightRollover(t *testing.T) {
	svc, _, _ := newTestService(t, existing("A", "23:00", "23:45", 10, 0))

	_, err := svc.AppendSlot(context.Background(), &models.AppendSlotRequest{
		DraftKey:        testKey(),
		DurationMinutes: 30,
		Capacity:        10,
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestService_UpdateSlot_Existing(t *testing.T) {
	svc, repo, _ := newTestService(t, existing("1", "08:00", "08:30", 10, 3))
	ctx := context.Background()

	resp, err := svc.UpdateSlot(ctx, &models.UpdateSlotRequest{
		DraftKey: testKey(),
		SlotKey:  "1",
		Capacity: intPtr(20),
	})
	require.NoError(t, err)
	assert.Equal(t, 20, resp.Slots[0].Capacity)
	assert.Equal(t, "existing", resp.Slots[0].State)
	assert.Len(t, repo.drafts[testKey().ToDomain()].Edits.Updated, 1)

	resp, err = svc.UpdateSlot(ctx, &models.UpdateSlotRequest{
		DraftKey:        testKey(),
		SlotKey:         "1",
		StartTime:       timePtr("09:00"),
		DurationMinutes: intPtr(60),
	})
	require.NoError(t, err)
	assert.Equal(t, "09:00", resp.Slots[0].StartTime)
	assert.Equal(t, "10:00", resp.Slots[0].EndTime)
	assert.Equal(t, 20, resp.Slots[0].Capacity)
	assert.Len(t, repo.drafts[testKey().ToDomain()].Edits.Updated, 1, "one update per slot")

	// возврат к исходным значениям убирает правку
	resp, err = svc.UpdateSlot(ctx, &models.UpdateSlotRequest{
		DraftKey:        testKey(),
		SlotKey:         "1",
		StartTime:       timePtr("08:00"),
		DurationMinutes: intPtr(30),
		Capacity:        intPtr(10),
	})
	require.NoError(t, err)
	assert.False(t, resp.HasChanges)
}

func TestService_UpdateSlot_CapacityBelowBooked(t *testing.T) {
	svc, _, _ := newTestService(t, existing("1", "08:00", "08:30", 10, 6))

	_, err := svc.UpdateSlot(context.Background(), &models.UpdateSlotRequest{
		DraftKey: testKey(),
		SlotKey:  "1",
		Capacity: intPtr(5),
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestService_UpdateSlot_NewSlotInPlace(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.AppendSlot(ctx, &models.AppendSlotRequest{DraftKey: testKey(), DurationMinutes: 30, Capacity: 5})
	require.NoError(t, err)

	resp, err := svc.UpdateSlot(ctx, &models.UpdateSlotRequest{
		DraftKey:        testKey(),
		SlotKey:         "new-1",
		DurationMinutes: intPtr(90),
	})
	require.NoError(t, err)
	require.Len(t, resp.Slots, 1)
	assert.Equal(t, "09:30", resp.Slots[0].EndTime)

	stored := repo.drafts[testKey().ToDomain()]
	assert.Len(t, stored.Edits.Added, 1)
	assert.Empty(t, stored.Edits.Updated)
}

func TestService_RemoveSlot(t *testing.T) {
	svc, repo, _ := newTestService(t,
		existing("1", "08:00", "08:30", 10, 0),
		existing("2", "08:30", "09:00", 10, 0),
	)
	ctx := context.Background()

	_, err := svc.UpdateSlot(ctx, &models.UpdateSlotRequest{DraftKey: testKey(), SlotKey: "2", Capacity: intPtr(15)})
	require.NoError(t, err)

	resp, err := svc.RemoveSlot(ctx, &models.RemoveSlotRequest{DraftKey: testKey(), SlotKey: "2", Reason: "holiday"})
	require.NoError(t, err)

	require.Len(t, resp.Slots, 2, "deleted slots stay in the day until submitted")
	assert.Equal(t, "deleted", resp.Slots[1].State)
	assert.Equal(t, "holiday", resp.Slots[1].Reason)
	assert.Equal(t, 1, resp.Summary.SlotCount)

	stored := repo.drafts[testKey().ToDomain()]
	assert.Empty(t, stored.Edits.Updated, "update of a removed slot is dropped")
	assert.Len(t, stored.Edits.Removed, 1)

	_, err = svc.RemoveSlot(ctx, &models.RemoveSlotRequest{DraftKey: testKey(), SlotKey: "2"})
	assert.ErrorIs(t, err, ErrSlotRemoved)

	_, err = svc.UpdateSlot(ctx, &models.UpdateSlotRequest{DraftKey: testKey(), SlotKey: "2", Capacity: intPtr(5)})
	assert.ErrorIs(t, err, ErrSlotRemoved)
}

func TestService_RemoveSlot_NewSlotIsDiscarded(t *testing.T) {
	svc, _, _ := newTestService(t, existing("1", "08:00", "08:30", 10, 0))
	ctx := context.Background()

	_, err := svc.AppendSlot(ctx, &models.AppendSlotRequest{DraftKey: testKey(), DurationMinutes: 30, Capacity: 5})
	require.NoError(t, err)

	resp, err := svc.RemoveSlot(ctx, &models.RemoveSlotRequest{DraftKey: testKey(), SlotKey: "new-1"})
	require.NoError(t, err)
	require.Len(t, resp.Slots, 1)
	assert.False(t, resp.HasChanges)
}

func TestService_UnknownSlot(t *testing.T) {
	svc, _, _ := newTestService(t, existing("1", "08:00", "08:30", 10, 0))
	ctx := context.Background()

	_, err := svc.UpdateSlot(ctx, &models.UpdateSlotRequest{DraftKey: testKey(), SlotKey: "404", Capacity: intPtr(5)})
	assert.ErrorIs(t, err, ErrSlotNotFound)

	_, err = svc.RemoveSlot(ctx, &models.RemoveSlotRequest{DraftKey: testKey(), SlotKey: "404"})
	assert.ErrorIs(t, err, ErrSlotNotFound)
}

func TestService_ConcurrentEditConflict(t *testing.T) {
	svc, repo, _ := newTestService(t)
	repo.forceConflict = true

	_, err := svc.AppendSlot(context.Background(), &models.AppendSlotRequest{DraftKey: testKey(), DurationMinutes: 30, Capacity: 5})
	assert.ErrorIs(t, err, ErrConflict)
}

func TestService_Discard(t *testing.T) {
	svc, repo, _ := newTestService(t, existing("1", "08:00", "08:30", 10, 0))
	ctx := context.Background()

	assert.ErrorIs(t, svc.Discard(ctx, testKey()), ErrDraftNotFound)

	_, err := svc.Open(ctx, testKey())
	require.NoError(t, err)

	require.NoError(t, svc.Discard(ctx, testKey()))
	assert.Empty(t, repo.drafts)
}

func TestService_ListBranchDrafts(t *testing.T) {
	svc, _, _ := newTestService(t, existing("1", "08:00", "08:30", 10, 0))
	ctx := context.Background()

	_, err := svc.Open(ctx, testKey())
	require.NoError(t, err)

	list, err := svc.ListBranchDrafts(ctx, domain.FeatureAppointment, 7)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "2025-03-10", list[0].Date)

	_, err = svc.ListBranchDrafts(ctx, domain.Feature("parking"), 7)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestService_Validation(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	badKey := testKey()
	badKey.BranchID = 0

	tests := []struct {
		name string
		call func() error
	}{
		{name: "bad branch", call: func() error {
			_, err := svc.Open(ctx, badKey)
			return err
		}},
		{name: "negative duration", call: func() error {
			_, err := svc.AppendSlot(ctx, &models.AppendSlotRequest{DraftKey: testKey(), DurationMinutes: -30, Capacity: 5})
			return err
		}},
		{name: "duration too short", call: func() error {
			_, err := svc.AppendSlot(ctx, &models.AppendSlotRequest{DraftKey: testKey(), DurationMinutes: 2, Capacity: 5})
			return err
		}},
		{name: "capacity too large", call: func() error {
			_, err := svc.AppendSlot(ctx, &models.AppendSlotRequest{DraftKey: testKey(), DurationMinutes: 30, Capacity: 5000})
			return err
		}},
		{name: "bad start time", call: func() error {
			_, err := svc.AppendSlot(ctx, &models.AppendSlotRequest{DraftKey: testKey(), DurationMinutes: 30, Capacity: 5, StartTime: timePtr("25:00")})
			return err
		}},
		{name: "empty update", call: func() error {
			_, err := svc.UpdateSlot(ctx, &models.UpdateSlotRequest{DraftKey: testKey(), SlotKey: "1"})
			return err
		}},
		{name: "missing slot key", call: func() error {
			_, err := svc.RemoveSlot(ctx, &models.RemoveSlotRequest{DraftKey: testKey()})
			return err
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.call(), ErrInvalidInput)
		})
	}
}
