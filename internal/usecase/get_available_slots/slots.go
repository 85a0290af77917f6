package get_available_slots

import (
	"sort"

	"github.com/m04kA/SMC-SlotScheduler/pkg/slotengine"
	"github.com/m04kA/SMC-SlotScheduler/pkg/types"
)

// bookableSlots отбирает слоты дня, на которые клиент может записаться:
// активные, с местами и (для сегодняшнего дня) начинающиеся не раньше minStart
func bookableSlots(slots []slotengine.Slot, date types.Date, minStart *types.TimeString) []Slot {
	result := make([]Slot, 0, len(slots))

	for _, s := range slots {
		if s.Date != date || !s.IsActive || s.IsDeleted() {
			continue
		}
		if slotengine.ClassifySlot(s) == slotengine.StatusFull {
			continue
		}
		if minStart != nil && s.StartTime.IsBefore(*minStart) {
			continue
		}

		duration, err := s.DurationMinutes()
		if err != nil {
			continue
		}

		result = append(result, Slot{
			SlotID:          s.ID,
			StartTime:       s.StartTime,
			EndTime:         s.EndTime,
			DurationMinutes: duration,
			AvailableSpots:  slotengine.RemainingCapacity(s),
			TotalSpots:      s.Capacity,
		})
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].StartTime.IsBefore(result[j].StartTime)
	})

	return result
}

// earliestStartToday возвращает минимальное время начала слота для сегодняшнего дня.
// false означает, что с учетом minNotice сегодня записаться уже нельзя.
func earliestStartToday(now types.TimeString, minNoticeMinutes int) (*types.TimeString, bool) {
	minStart, err := now.AddMinutes(minNoticeMinutes)
	if err != nil {
		return nil, false
	}
	return &minStart, true
}
