package slotengine

import (
	"fmt"

	"github.com/m04kA/SMC-SlotScheduler/pkg/types"
)

// NewSlot is a slot added during an edit session.
type NewSlot struct {
	// Key is a session-local handle; it is never sent to the backend.
	Key       string           `json:"key,omitempty"`
	StartTime types.TimeString `json:"startTime"`
	EndTime   types.TimeString `json:"endTime"`
	Capacity  int              `json:"capacity"`
}

// SlotUpdate replaces the times and capacity of an existing slot.
type SlotUpdate struct {
	SlotID    string           `json:"slotId"`
	StartTime types.TimeString `json:"startTime"`
	EndTime   types.TimeString `json:"endTime"`
	Capacity  int              `json:"capacity"`
}

// SlotRemoval soft-deletes an existing slot.
type SlotRemoval struct {
	SlotID string `json:"slotId"`
	Reason string `json:"reason,omitempty"`
}

// SlotEdits is everything an edit session changed on one date.
type SlotEdits struct {
	Added   []NewSlot     `json:"added,omitempty"`
	Updated []SlotUpdate  `json:"updated,omitempty"`
	Removed []SlotRemoval `json:"removed,omitempty"`
}

// IsEmpty reports whether the session changed nothing.
func (e SlotEdits) IsEmpty() bool {
	return len(e.Added) == 0 && len(e.Updated) == 0 && len(e.Removed) == 0
}

// SlotMutationEntry is one slot of a submitted day.
type SlotMutationEntry struct {
	SlotID          string           `json:"slotId"`
	DurationMinutes int              `json:"durationMinutes"`
	MaxVisitors     int              `json:"maxVisitors"`
	StartTime       types.TimeString `json:"startTime"`
	EndTime         types.TimeString `json:"endTime"`
	IsDeleted       bool             `json:"isDeleted"`
	Reason          string           `json:"reason,omitempty"`
}

// SlotMutationBatch is the complete slot configuration of one date. The backend
// always receives the whole day, never a diff, and deleted slots are still sent.
type SlotMutationBatch struct {
	Date      types.Date          `json:"date"`
	SlotCount int                 `json:"slotCount"`
	Slots     []SlotMutationEntry `json:"slots"`
}

// BuildMutationBatch applies edits to the existing slots of date and
// serialises the result. It fails with ErrInvalidInput or *OverlapError.
func BuildMutationBatch(date types.Date, existing []Slot, edits SlotEdits) (*SlotMutationBatch, error) {
	slots, err := ApplyEdits(date, existing, edits)
	if err != nil {
		return nil, err
	}
	return AssembleBatch(date, slots)
}

// ApplyEdits returns the effective slot set of date after edits: unchanged and
// edited slots are Existing, removed slots are Deleted, added slots are New.
// The result is ordered by start time.
func ApplyEdits(date types.Date, existing []Slot, edits SlotEdits) ([]Slot, error) {
	if date.IsZero() {
		return nil, fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	result := make([]Slot, 0, len(existing)+len(edits.Added))
	index := make(map[string]int, len(existing))

	for _, s := range existing {
		if s.State != LifecycleExisting {
			return nil, fmt.Errorf("%w: slot %q is %s, expected existing", ErrInvalidInput, s.ID, s.State)
		}
		if err := s.Validate(); err != nil {
			return nil, err
		}
		if s.Date != date {
			return nil, fmt.Errorf("%w: slot %q is dated %s, batch is for %s", ErrInvalidInput, s.ID, s.Date, date)
		}
		if _, dup := index[s.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate slot id %q", ErrInvalidInput, s.ID)
		}
		index[s.ID] = len(result)
		result = append(result, s)
	}

	touched := make(map[string]bool, len(edits.Updated)+len(edits.Removed))

	for _, u := range edits.Updated {
		i, ok := index[u.SlotID]
		if !ok {
			return nil, fmt.Errorf("%w: update of unknown slot %q", ErrInvalidInput, u.SlotID)
		}
		if touched[u.SlotID] {
			return nil, fmt.Errorf("%w: slot %q edited more than once", ErrInvalidInput, u.SlotID)
		}
		touched[u.SlotID] = true

		result[i].StartTime = u.StartTime
		result[i].EndTime = u.EndTime
		result[i].Capacity = u.Capacity
		if err := result[i].Validate(); err != nil {
			return nil, err
		}
	}

	for _, r := range edits.Removed {
		i, ok := index[r.SlotID]
		if !ok {
			return nil, fmt.Errorf("%w: removal of unknown slot %q", ErrInvalidInput, r.SlotID)
		}
		if touched[r.SlotID] {
			return nil, fmt.Errorf("%w: slot %q both edited and removed", ErrInvalidInput, r.SlotID)
		}
		touched[r.SlotID] = true

		result[i].State = LifecycleDeleted
		result[i].Reason = r.Reason
	}

	keys := make(map[string]bool, len(edits.Added))
	for _, a := range edits.Added {
		if a.Key != "" {
			if keys[a.Key] {
				return nil, fmt.Errorf("%w: duplicate new slot key %q", ErrInvalidInput, a.Key)
			}
			keys[a.Key] = true
		}

		s := Slot{
			Key:       a.Key,
			Date:      date,
			StartTime: a.StartTime,
			EndTime:   a.EndTime,
			Capacity:  a.Capacity,
			IsActive:  true,
			State:     LifecycleNew,
		}
		if err := s.Validate(); err != nil {
			return nil, err
		}
		result = append(result, s)
	}

	sortByStart(result)
	return result, nil
}

// AssembleBatch serialises a tagged day set. Slots must all be dated date and
// non-deleted slots must not overlap.
func AssembleBatch(date types.Date, slots []Slot) (*SlotMutationBatch, error) {
	if date.IsZero() {
		return nil, fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	for _, s := range slots {
		if err := s.Validate(); err != nil {
			return nil, err
		}
		if s.Date != date {
			return nil, fmt.Errorf("%w: slot %q is dated %s, batch is for %s", ErrInvalidInput, s.ID, s.Date, date)
		}
	}

	if err := CheckOverlaps(date, slots); err != nil {
		return nil, err
	}

	batch := &SlotMutationBatch{
		Date:  date,
		Slots: make([]SlotMutationEntry, 0, len(slots)),
	}

	for _, s := range slots {
		duration, err := s.DurationMinutes()
		if err != nil {
			return nil, fmt.Errorf("%w: slot %q duration: %v", ErrInvalidInput, s.ID, err)
		}

		entry := SlotMutationEntry{
			SlotID:          s.ID,
			DurationMinutes: duration,
			MaxVisitors:     s.Capacity,
			StartTime:       s.StartTime,
			EndTime:         s.EndTime,
			IsDeleted:       s.IsDeleted(),
		}
		if s.IsDeleted() {
			entry.Reason = s.Reason
		}
		batch.Slots = append(batch.Slots, entry)
	}

	batch.SlotCount = len(batch.Slots)
	return batch, nil
}

// CheckOverlaps returns an *OverlapError for the first pair of non-deleted
// slots whose [start, end) ranges intersect.
func CheckOverlaps(date types.Date, slots []Slot) error {
	active := make([]Slot, 0, len(slots))
	for _, s := range slots {
		if !s.IsDeleted() {
			active = append(active, s)
		}
	}
	sortByStart(active)

	if len(active) == 0 {
		return nil
	}

	// widest is the slot reaching furthest among those already scanned
	widest := active[0]
	for _, s := range active[1:] {
		if s.StartTime.IsBefore(widest.EndTime) {
			return &OverlapError{Date: date, First: widest, Second: s}
		}
		if s.EndTime.IsAfter(widest.EndTime) {
			widest = s
		}
	}
	return nil
}
