// Package slotengine turns flat lists of bookable time slots into month
// calendars, classifies their capacity and assembles whole-day mutation
// batches for submission to the slot system of record.
//
// Every function in the package is pure: inputs are never modified and
// outputs never share backing arrays with inputs.
package slotengine

import (
	"fmt"

	"github.com/m04kA/SMC-SlotScheduler/pkg/types"
)

// Lifecycle is the editing-session state of a slot.
type Lifecycle uint8

const (
	// LifecycleExisting is a slot loaded from the backend; it always has an ID.
	LifecycleExisting Lifecycle = iota + 1
	// LifecycleNew is a slot added during an edit session; it has no ID yet.
	LifecycleNew
	// LifecycleDeleted is an existing slot marked for removal. It stays in the
	// submitted batch until the backend confirms the removal.
	LifecycleDeleted
)

func (l Lifecycle) String() string {
	switch l {
	case LifecycleExisting:
		return "existing"
	case LifecycleNew:
		return "new"
	case LifecycleDeleted:
		return "deleted"
	default:
		return fmt.Sprintf("lifecycle(%d)", uint8(l))
	}
}

// MarshalText encodes the lifecycle by name.
func (l Lifecycle) MarshalText() ([]byte, error) {
	if !l.valid() {
		return nil, fmt.Errorf("%w: unknown lifecycle %d", ErrInvalidInput, uint8(l))
	}
	return []byte(l.String()), nil
}

// UnmarshalText decodes a lifecycle name.
func (l *Lifecycle) UnmarshalText(text []byte) error {
	switch string(text) {
	case "existing":
		*l = LifecycleExisting
	case "new":
		*l = LifecycleNew
	case "deleted":
		*l = LifecycleDeleted
	default:
		return fmt.Errorf("%w: unknown lifecycle %q", ErrInvalidInput, string(text))
	}
	return nil
}

func (l Lifecycle) valid() bool {
	return l >= LifecycleExisting && l <= LifecycleDeleted
}

// Slot is a bookable time window on one date.
type Slot struct {
	ID string `json:"id,omitempty"`
	// Key is the session-local handle of a new slot. Never sent to the backend.
	Key         string           `json:"key,omitempty"`
	Date        types.Date       `json:"date"`
	StartTime   types.TimeString `json:"startTime"`
	EndTime     types.TimeString `json:"endTime"`
	Capacity    int              `json:"capacity"`
	BookedCount int              `json:"bookedCount"`
	IsActive    bool             `json:"isActive"`
	State       Lifecycle        `json:"state"`
	// Reason is only meaningful for deleted slots.
	Reason string `json:"reason,omitempty"`
}

// IsDeleted reports whether the slot is marked for removal.
func (s Slot) IsDeleted() bool {
	return s.State == LifecycleDeleted
}

// DurationMinutes returns EndTime - StartTime.
func (s Slot) DurationMinutes() (int, error) {
	return s.StartTime.MinutesUntil(s.EndTime)
}

// Overlaps reports whether the half-open ranges [start, end) of both slots intersect.
// Back-to-back slots do not overlap.
func (s Slot) Overlaps(other Slot) bool {
	return s.StartTime.IsBefore(other.EndTime) && other.StartTime.IsBefore(s.EndTime)
}

// Validate checks field-level invariants, independent of other slots.
func (s Slot) Validate() error {
	if !s.State.valid() {
		return fmt.Errorf("%w: slot %q has unknown lifecycle", ErrInvalidInput, s.ID)
	}
	if s.Date.IsZero() {
		return fmt.Errorf("%w: slot %q has no date", ErrInvalidInput, s.ID)
	}
	switch s.State {
	case LifecycleNew:
		if s.ID != "" {
			return fmt.Errorf("%w: new slot must not have an id, got %q", ErrInvalidInput, s.ID)
		}
	case LifecycleExisting, LifecycleDeleted:
		if s.ID == "" {
			return fmt.Errorf("%w: %s slot requires an id", ErrInvalidInput, s.State)
		}
	}
	if err := s.StartTime.Validate(); err != nil {
		return fmt.Errorf("%w: slot %q start: %v", ErrInvalidInput, s.ID, err)
	}
	if err := s.EndTime.Validate(); err != nil {
		return fmt.Errorf("%w: slot %q end: %v", ErrInvalidInput, s.ID, err)
	}
	if !s.StartTime.IsBefore(s.EndTime) {
		return fmt.Errorf("%w: slot %q start %s must precede end %s", ErrInvalidInput, s.ID, s.StartTime, s.EndTime)
	}
	if s.Capacity < 0 {
		return fmt.Errorf("%w: slot %q capacity must be non-negative", ErrInvalidInput, s.ID)
	}
	if s.BookedCount < 0 {
		return fmt.Errorf("%w: slot %q booked count must be non-negative", ErrInvalidInput, s.ID)
	}
	return nil
}
