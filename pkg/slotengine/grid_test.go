package slotengine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SlotScheduler/pkg/types"
)

func existingSlot(id, date string, start, end types.TimeString, capacity, booked int) Slot {
	return Slot{
		ID:          id,
		Date:        types.MustDate(date),
		StartTime:   start,
		EndTime:     end,
		Capacity:    capacity,
		BookedCount: booked,
		IsActive:    true,
		State:       LifecycleExisting,
	}
}

func TestBuildMonthCalendar_AlwaysFortyTwoDays(t *testing.T) {
	for year := 2023; year <= 2026; year++ {
		for month := time.January; month <= time.December; month++ {
			for _, ws := range []WeekStart{WeekStartSunday, WeekStartMonday} {
				cal, err := BuildMonthCalendar(nil, month, year, ws)
				require.NoError(t, err)
				require.Len(t, cal.Days, GridDays, "%s %d %s", month, year, ws)

				assert.Equal(t, time.Weekday(ws), cal.First().Weekday())
				for i := 1; i < len(cal.Days); i++ {
					assert.Equal(t, cal.Days[i-1].Date.AddDays(1), cal.Days[i].Date, "cells must be consecutive")
				}

				inMonth := 0
				for _, d := range cal.Days {
					if d.InMonth {
						inMonth++
					}
				}
				daysInMonth := types.DateOf(year, month+1, 0).Day()
				assert.Equal(t, daysInMonth, inMonth)
			}
		}
	}
}

func TestBuildMonthCalendar_WeekStartPadding(t *testing.T) {
	tests := []struct {
		name      string
		month     time.Month
		year      int
		weekStart WeekStart
		first     string
		last      string
	}{
		// 2025-02-01 is a Saturday
		{name: "feb 2025 sunday", month: time.February, year: 2025, weekStart: WeekStartSunday, first: "2025-01-26", last: "2025-03-08"},
		{name: "feb 2025 monday", month: time.February, year: 2025, weekStart: WeekStartMonday, first: "2025-01-27", last: "2025-03-09"},
		// 2026-02-01 is a Sunday
		{name: "month starting on week start has no leading padding", month: time.February, year: 2026, weekStart: WeekStartSunday, first: "2026-02-01", last: "2026-03-14"},
		{name: "sunday first day with monday weeks", month: time.February, year: 2026, weekStart: WeekStartMonday, first: "2026-01-26", last: "2026-03-08"},
		{name: "leap february", month: time.February, year: 2024, weekStart: WeekStartMonday, first: "2024-01-29", last: "2024-03-10"},
		{name: "year boundary", month: time.January, year: 2025, weekStart: WeekStartSunday, first: "2024-12-29", last: "2025-02-08"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cal, err := BuildMonthCalendar(nil, tt.month, tt.year, tt.weekStart)
			require.NoError(t, err)
			assert.Equal(t, tt.first, cal.First().String())
			assert.Equal(t, tt.last, cal.Last().String())

			first, last, err := GridRange(tt.month, tt.year, tt.weekStart)
			require.NoError(t, err)
			assert.Equal(t, cal.First(), first)
			assert.Equal(t, cal.Last(), last)
		})
	}
}

func TestBuildMonthCalendar_EverySlotInExactlyOneBucket(t *testing.T) {
	slots := []Slot{
		existingSlot("a", "2025-02-10", "10:00", "10:30", 5, 0),
		existingSlot("b", "2025-02-10", "09:00", "09:30", 5, 1),
		existingSlot("c", "2025-01-27", "09:00", "09:30", 5, 0), // leading padding
		existingSlot("d", "2025-03-05", "09:00", "09:30", 5, 0), // trailing padding
		existingSlot("e", "2025-02-28", "12:00", "13:00", 5, 0),
	}

	cal, err := BuildMonthCalendar(slots, time.February, 2025, WeekStartMonday)
	require.NoError(t, err)
	assert.Empty(t, cal.Unplaced)

	for _, s := range slots {
		matches := 0
		for _, d := range cal.Days {
			for _, placed := range d.Slots {
				if placed.ID == s.ID {
					matches++
					assert.Equal(t, s.Date, d.Date)
				}
			}
		}
		assert.Equal(t, 1, matches, "slot %s", s.ID)
	}

	day, ok := cal.Day(types.MustDate("2025-02-10"))
	require.True(t, ok)
	require.Len(t, day.Slots, 2)
	assert.Equal(t, "b", day.Slots[0].ID, "ordered by start time")
	assert.Equal(t, "a", day.Slots[1].ID)

	padding, ok := cal.Day(types.MustDate("2025-01-27"))
	require.True(t, ok)
	assert.False(t, padding.InMonth)
	assert.Len(t, padding.Slots, 1)
}

func TestBuildMonthCalendar_OutOfWindowSlotsAreReported(t *testing.T) {
	slots := []Slot{
		existingSlot("far", "2025-06-01", "09:00", "09:30", 5, 0),
		existingSlot("in", "2025-02-03", "09:00", "09:30", 5, 0),
	}

	cal, err := BuildMonthCalendar(slots, time.February, 2025, WeekStartSunday)
	require.NoError(t, err)
	require.Len(t, cal.Unplaced, 1)
	assert.Equal(t, "far", cal.Unplaced[0].ID)
}

func TestBuildMonthCalendar_Idempotent(t *testing.T) {
	slots := []Slot{
		existingSlot("a", "2025-02-10", "10:00", "10:30", 5, 0),
		existingSlot("b", "2025-02-10", "09:00", "09:30", 5, 1),
	}

	first, err := BuildMonthCalendar(slots, time.February, 2025, WeekStartSunday)
	require.NoError(t, err)
	second, err := BuildMonthCalendar(slots, time.February, 2025, WeekStartSunday)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	// the grid must not alias the input
	first.Days[15].Slots = append(first.Days[15].Slots, Slot{ID: "x"})
	for i := range first.Days {
		for j := range first.Days[i].Slots {
			first.Days[i].Slots[j].Capacity = 99
		}
	}
	assert.Equal(t, 5, slots[0].Capacity)
	assert.Equal(t, 5, slots[1].Capacity)
}

func TestBuildMonthCalendar_InvalidInput(t *testing.T) {
	_, err := BuildMonthCalendar(nil, 13, 2025, WeekStartSunday)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = BuildMonthCalendar(nil, time.March, 0, WeekStartSunday)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = BuildMonthCalendar(nil, time.March, 2025, WeekStart(3))
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = BuildMonthCalendar([]Slot{{ID: "no-date"}}, time.March, 2025, WeekStartSunday)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestParseWeekStart(t *testing.T) {
	ws, err := ParseWeekStart("Monday")
	require.NoError(t, err)
	assert.Equal(t, WeekStartMonday, ws)

	ws, err = ParseWeekStart(" sunday ")
	require.NoError(t, err)
	assert.Equal(t, WeekStartSunday, ws)
	assert.Equal(t, "sunday", ws.String())

	_, err = ParseWeekStart("friday")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestScenario_FullDayInNonLeapFebruary(t *testing.T) {
	slots := []Slot{existingSlot("1", "2025-02-01", "07:00", "08:00", 25, 25)}

	cal, err := BuildMonthCalendar(slots, time.February, 2025, WeekStartSunday)
	require.NoError(t, err)
	require.Len(t, cal.Days, 42)

	day, ok := cal.Day(types.MustDate("2025-02-01"))
	require.True(t, ok)
	require.Len(t, day.Slots, 1)
	assert.Equal(t, slots[0], day.Slots[0])
	assert.Equal(t, StatusFull, ClassifySlot(day.Slots[0]))
	assert.Equal(t, StatusFull, ClassifyDay(day.Slots))
}
