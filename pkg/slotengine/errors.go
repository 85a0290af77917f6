package slotengine

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-SlotScheduler/pkg/types"
)

var (
	// ErrInvalidInput is returned for malformed dates/times, non-positive
	// durations and missing required fields. Nothing is partially applied.
	ErrInvalidInput = errors.New("slotengine: invalid input")

	// ErrCrossesMidnight refines ErrInvalidInput: a slot would end on the next day.
	ErrCrossesMidnight = errors.New("slotengine: slot crosses midnight")

	// ErrOverlap is matched by *OverlapError via errors.Is.
	ErrOverlap = errors.New("slotengine: overlapping slots")
)

// OverlapError reports two non-deleted slots on the same date that share time.
type OverlapError struct {
	Date   types.Date
	First  Slot
	Second Slot
}

func (e *OverlapError) Error() string {
	return fmt.Sprintf("%v: %s [%s-%s) and [%s-%s)", ErrOverlap, e.Date,
		e.First.StartTime, e.First.EndTime, e.Second.StartTime, e.Second.EndTime)
}

// Is makes errors.Is(err, ErrOverlap) succeed.
func (e *OverlapError) Is(target error) bool {
	return target == ErrOverlap
}
