package branchbackend

import (
	"fmt"

	"github.com/m04kA/SMC-SlotScheduler/internal/domain"
	"github.com/m04kA/SMC-SlotScheduler/pkg/slotengine"
	"github.com/m04kA/SMC-SlotScheduler/pkg/types"
)

// FieldMapping описывает, какие поля строки слота читает фича.
// Предпочтительное поле берется первым, альтернативное используется, если первое пустое.
type FieldMapping struct {
	PreferSlotDate    bool
	PreferBookedCount bool
}

// MappingFor возвращает соглашения полей для фичи
func MappingFor(feature domain.Feature) FieldMapping {
	switch feature {
	case domain.FeatureWetland:
		return FieldMapping{PreferSlotDate: true, PreferBookedCount: true}
	default:
		return FieldMapping{}
	}
}

func (m FieldMapping) date(row SlotRow) string {
	primary, fallback := row.AppointmentDate, row.SlotDate
	if m.PreferSlotDate {
		primary, fallback = fallback, primary
	}
	if primary != "" {
		return primary
	}
	return fallback
}

func (m FieldMapping) booked(row SlotRow) int64 {
	primary, fallback := row.AppoitmentsBooked, row.BookedCount
	if m.PreferBookedCount {
		primary, fallback = fallback, primary
	}
	if primary.Valid {
		return primary.Value
	}
	return fallback.Value
}

// ToSlot переводит строку backend API в слот движка
func (m FieldMapping) ToSlot(row SlotRow) (slotengine.Slot, error) {
	if row.SlotID == "" {
		return slotengine.Slot{}, fmt.Errorf("%w: slot row without SlotID", ErrInvalidResponse)
	}

	date, err := types.ParseDate(m.date(row))
	if err != nil {
		return slotengine.Slot{}, fmt.Errorf("%w: slot %s date: %v", ErrInvalidResponse, row.SlotID, err)
	}

	start, err := types.NewTimeStringFromString(row.StartTime)
	if err != nil {
		return slotengine.Slot{}, fmt.Errorf("%w: slot %s start time: %v", ErrInvalidResponse, row.SlotID, err)
	}

	end, err := types.NewTimeStringFromString(row.EndTime)
	if err != nil {
		return slotengine.Slot{}, fmt.Errorf("%w: slot %s end time: %v", ErrInvalidResponse, row.SlotID, err)
	}

	slot := slotengine.Slot{
		ID:          string(row.SlotID),
		Date:        date,
		StartTime:   start,
		EndTime:     end,
		Capacity:    int(row.MaximumVisitors.Value),
		BookedCount: int(m.booked(row)),
		// отсутствующий флаг считаем активным слотом
		IsActive: !row.IsActive.Valid || row.IsActive.Value,
		State:    slotengine.LifecycleExisting,
	}

	if err := slot.Validate(); err != nil {
		return slotengine.Slot{}, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}

	return slot, nil
}

// responseSucceeded проверяет статус любого ответа backend API
func responseSucceeded(env *envelope) bool {
	return env.StatusCode == domain.BackendStatusSuccess
}

// submissionAccepted единственное место, где учитывается инверсия протокола:
// IsSuccess == 0 означает успешное сохранение
func submissionAccepted(env *envelope, result *submitResult) bool {
	return responseSucceeded(env) &&
		result.IsSuccess.Valid &&
		result.IsSuccess.Value == domain.BackendSubmitAccepted
}
