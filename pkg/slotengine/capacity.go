package slotengine

// Status is the display availability of a slot or a day.
type Status string

const (
	StatusEmpty     Status = "empty"
	StatusAvailable Status = "available"
	StatusFull      Status = "full"
)

// ClassifySlot is Full iff the booked count has reached capacity.
// A zero-capacity slot is always Full.
func ClassifySlot(s Slot) Status {
	if s.BookedCount >= s.Capacity {
		return StatusFull
	}
	return StatusAvailable
}

// ClassifyDay is Empty for a day without slots, Available if any slot is
// Available and Full otherwise. Deleted slots are not part of the day.
func ClassifyDay(daySlots []Slot) Status {
	status := StatusEmpty
	for _, s := range daySlots {
		if s.IsDeleted() {
			continue
		}
		if ClassifySlot(s) == StatusAvailable {
			return StatusAvailable
		}
		status = StatusFull
	}
	return status
}

// RemainingCapacity returns the free places of a slot, never negative.
func RemainingCapacity(s Slot) int {
	if s.BookedCount >= s.Capacity {
		return 0
	}
	return s.Capacity - s.BookedCount
}

// DaySummary aggregates the capacity of one day.
type DaySummary struct {
	Status        Status  `json:"status"`
	SlotCount     int     `json:"slotCount"`
	TotalCapacity int     `json:"totalCapacity"`
	BookedCount   int     `json:"bookedCount"`
	Remaining     int     `json:"remaining"`
	OccupancyRate float64 `json:"occupancyRate"` // 0-100
}

// SummarizeDay computes the DaySummary of non-deleted slots.
func SummarizeDay(daySlots []Slot) DaySummary {
	summary := DaySummary{Status: ClassifyDay(daySlots)}
	for _, s := range daySlots {
		if s.IsDeleted() {
			continue
		}
		summary.SlotCount++
		summary.TotalCapacity += s.Capacity
		summary.BookedCount += s.BookedCount
		summary.Remaining += RemainingCapacity(s)
	}
	if summary.TotalCapacity > 0 {
		occupied := summary.TotalCapacity - summary.Remaining
		summary.OccupancyRate = float64(occupied) / float64(summary.TotalCapacity) * 100
	}
	return summary
}
