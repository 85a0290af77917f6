package drafts

import (
	"fmt"

	"github.com/m04kA/SMC-SlotScheduler/internal/domain"
	"github.com/m04kA/SMC-SlotScheduler/internal/service/drafts/models"
)

// validateKey проверяет адрес черновика
func validateKey(key models.DraftKey) error {
	if !key.Feature.IsValid() {
		return fmt.Errorf("%w: unknown feature %q", ErrInvalidInput, key.Feature)
	}
	if key.BranchID <= 0 {
		return fmt.Errorf("%w: branch id must be positive", ErrInvalidInput)
	}
	if key.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}
	return nil
}

// validateDuration проверяет длительность слота в минутах
func validateDuration(minutes int) error {
	if minutes < domain.MinSlotDurationMinutes || minutes > domain.MaxSlotDurationMinutes {
		return fmt.Errorf("%w: duration must be between %d and %d minutes, got %d",
			ErrInvalidInput, domain.MinSlotDurationMinutes, domain.MaxSlotDurationMinutes, minutes)
	}
	return nil
}

// validateCapacity проверяет максимальное число посетителей слота
func validateCapacity(capacity int) error {
	if capacity < domain.MinSlotCapacity || capacity > domain.MaxSlotCapacity {
		return fmt.Errorf("%w: capacity must be between %d and %d, got %d",
			ErrInvalidInput, domain.MinSlotCapacity, domain.MaxSlotCapacity, capacity)
	}
	return nil
}
