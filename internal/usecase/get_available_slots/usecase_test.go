package get_available_slots

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SlotScheduler/internal/domain"
	"github.com/m04kA/SMC-SlotScheduler/pkg/logger"
	"github.com/m04kA/SMC-SlotScheduler/pkg/slotengine"
	"github.com/m04kA/SMC-SlotScheduler/pkg/types"
)

type fakeBackend struct {
	slots []slotengine.Slot
	err   error
	calls int
}

func (f *fakeBackend) FetchSlots(_ context.Context, _ domain.Feature, _ int64, _, _ types.Date) ([]slotengine.Slot, error) {
	f.calls++
	return f.slots, f.err
}

type fixedTime struct {
	now time.Time
}

func (f fixedTime) Now() time.Time { return f.now }

func slot(id, date, start, end string, capacity, booked int, active bool) slotengine.Slot {
	return slotengine.Slot{
		ID:          id,
		Date:        types.MustDate(date),
		StartTime:   types.TimeString(start),
		EndTime:     types.TimeString(end),
		Capacity:    capacity,
		BookedCount: booked,
		IsActive:    active,
		State:       slotengine.LifecycleExisting,
	}
}

func newUseCase(backend SlotBackendClient, opts Options, now time.Time) *UseCase {
	uc := NewUseCase(backend, opts, logger.NewNop())
	uc.timeProvider = fixedTime{now: now}
	return uc
}

func TestExecute_FiltersBookableSlots(t *testing.T) {
	backend := &fakeBackend{slots: []slotengine.Slot{
		slot("c", "2025-10-20", "11:00", "11:30", 5, 1, true),
		slot("a", "2025-10-20", "09:00", "09:30", 5, 5, true), // заполнен
		slot("b", "2025-10-20", "10:00", "10:45", 3, 0, true),
		slot("d", "2025-10-20", "12:00", "12:30", 3, 0, false), // неактивен
		slot("e", "2025-10-21", "09:00", "09:30", 3, 0, true),  // другой день
	}}
	uc := newUseCase(backend, Options{}, time.Date(2025, 10, 15, 12, 0, 0, 0, time.UTC))

	resp, err := uc.Execute(context.Background(), &Request{
		Feature:  domain.FeatureWetland,
		BranchID: 4,
		Date:     types.MustDate("2025-10-20"),
	})
	require.NoError(t, err)

	require.Len(t, resp.Slots, 2)
	assert.Equal(t, Slot{SlotID: "b", StartTime: "10:00", EndTime: "10:45", DurationMinutes: 45, AvailableSpots: 3, TotalSpots: 3}, resp.Slots[0])
	assert.Equal(t, "c", resp.Slots[1].SlotID)
	assert.Equal(t, 4, resp.Slots[1].AvailableSpots)
}

func TestExecute_TodayRespectsNotice(t *testing.T) {
	backend := &fakeBackend{slots: []slotengine.Slot{
		slot("early", "2025-10-15", "10:00", "10:30", 5, 0, true),
		slot("soon", "2025-10-15", "10:20", "10:50", 5, 0, true),
		slot("later", "2025-10-15", "10:30", "11:00", 5, 0, true),
	}}
	uc := newUseCase(backend, Options{MinNoticeMinutes: 30}, time.Date(2025, 10, 15, 10, 0, 0, 0, time.UTC))

	resp, err := uc.Execute(context.Background(), &Request{
		Feature:  domain.FeatureAppointment,
		BranchID: 4,
		Date:     types.MustDate("2025-10-15"),
	})
	require.NoError(t, err)

	require.Len(t, resp.Slots, 1)
	assert.Equal(t, "later", resp.Slots[0].SlotID)
}

func TestExecute_TodayTooLate(t *testing.T) {
	backend := &fakeBackend{}
	uc := newUseCase(backend, Options{MinNoticeMinutes: 60}, time.Date(2025, 10, 15, 23, 30, 0, 0, time.UTC))

	resp, err := uc.Execute(context.Background(), &Request{
		Feature:  domain.FeatureAppointment,
		BranchID: 4,
		Date:     types.MustDate("2025-10-15"),
	})
	require.NoError(t, err)

	assert.Empty(t, resp.Slots)
	assert.Zero(t, backend.calls)
}

func TestExecute_Errors(t *testing.T) {
	now := time.Date(2025, 10, 15, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		req     *Request
		backend *fakeBackend
		opts    Options
		wantErr error
	}{
		{
			name:    "unknown feature",
			req:     &Request{Feature: "billing", BranchID: 1, Date: types.MustDate("2025-10-20")},
			backend: &fakeBackend{},
			wantErr: ErrInvalidInput,
		},
		{
			name:    "past date",
			req:     &Request{Feature: domain.FeatureWetland, BranchID: 1, Date: types.MustDate("2025-10-14")},
			backend: &fakeBackend{},
			wantErr: ErrInvalidDate,
		},
		{
			name:    "too far",
			req:     &Request{Feature: domain.FeatureWetland, BranchID: 1, Date: types.MustDate("2025-11-20")},
			backend: &fakeBackend{},
			opts:    Options{AdvanceDays: 30},
			wantErr: ErrDateTooFarInFuture,
		},
		{
			name:    "backend down",
			req:     &Request{Feature: domain.FeatureWetland, BranchID: 1, Date: types.MustDate("2025-10-20")},
			backend: &fakeBackend{err: errors.New("connection refused")},
			wantErr: ErrUpstreamFailure,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := newUseCase(tt.backend, tt.opts, now)

			_, err := uc.Execute(context.Background(), tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
