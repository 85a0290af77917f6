package slotengine

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-SlotScheduler/pkg/types"
)

// DefaultDayStart is where the first slot of an empty day begins.
const DefaultDayStart types.TimeString = "08:00"

// TimeCalculator derives slot times. A slot never rolls over into the next
// date: any result at or past midnight is rejected with ErrCrossesMidnight.
type TimeCalculator struct {
	dayStart types.TimeString
}

// NewTimeCalculator creates a calculator whose first slot of an empty day starts at dayStart.
func NewTimeCalculator(dayStart types.TimeString) (*TimeCalculator, error) {
	if err := dayStart.Validate(); err != nil {
		return nil, fmt.Errorf("%w: day start: %v", ErrInvalidInput, err)
	}
	return &TimeCalculator{dayStart: dayStart}, nil
}

var defaultCalculator = &TimeCalculator{dayStart: DefaultDayStart}

// DayStart returns the configured start of an empty day.
func (c *TimeCalculator) DayStart() types.TimeString {
	return c.dayStart
}

// AddDuration adds durationMinutes to t on the same day.
func (c *TimeCalculator) AddDuration(t types.TimeString, durationMinutes int) (types.TimeString, error) {
	if durationMinutes <= 0 {
		return "", fmt.Errorf("%w: duration must be positive, got %d", ErrInvalidInput, durationMinutes)
	}
	if err := t.Validate(); err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	end, err := t.AddMinutes(durationMinutes)
	if errors.Is(err, types.ErrOutOfDayRange) {
		return "", fmt.Errorf("%w: %w: %s + %d minutes", ErrInvalidInput, ErrCrossesMidnight, t, durationMinutes)
	}
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return end, nil
}

// DeriveEndTime is AddDuration applied to a slot start.
func (c *TimeCalculator) DeriveEndTime(start types.TimeString, durationMinutes int) (types.TimeString, error) {
	return c.AddDuration(start, durationMinutes)
}

// NextSlotStart chains a new slot to the previous one: it returns the
// previous slot's end time, or the day start when there is none.
func (c *TimeCalculator) NextSlotStart(previous *Slot) types.TimeString {
	if previous == nil {
		return c.dayStart
	}
	return previous.EndTime
}

// NextSlotStartAfter picks the latest-ending non-deleted slot of a day as the
// previous slot.
func (c *TimeCalculator) NextSlotStartAfter(daySlots []Slot) types.TimeString {
	var previous *Slot
	for i := range daySlots {
		if daySlots[i].IsDeleted() {
			continue
		}
		if previous == nil || daySlots[i].EndTime.IsAfter(previous.EndTime) {
			previous = &daySlots[i]
		}
	}
	return c.NextSlotStart(previous)
}

// DeriveEndTime uses the default calculator.
func DeriveEndTime(start types.TimeString, durationMinutes int) (types.TimeString, error) {
	return defaultCalculator.DeriveEndTime(start, durationMinutes)
}

// NextSlotStart uses the default calculator (day start 08:00).
func NextSlotStart(previous *Slot) types.TimeString {
	return defaultCalculator.NextSlotStart(previous)
}
