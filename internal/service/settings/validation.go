package settings

import (
	"fmt"

	"github.com/m04kA/SMC-SlotScheduler/internal/domain"
)

// validateScope проверяет фичу и филиал
func validateScope(feature domain.Feature, branchID *int64) error {
	if !feature.IsValid() {
		return fmt.Errorf("%w: unknown feature %q", ErrInvalidInput, feature)
	}
	if branchID != nil && *branchID <= 0 {
		return fmt.Errorf("%w: branch id must be positive", ErrInvalidInput)
	}
	return nil
}

// validateSettings проверяет значения настроек
func validateSettings(s *domain.SlotSettings) error {
	if s.SlotDurationMinutes < domain.MinSlotDurationMinutes || s.SlotDurationMinutes > domain.MaxSlotDurationMinutes {
		return fmt.Errorf("%w: slot duration must be between %d and %d minutes, got %d",
			ErrInvalidInput, domain.MinSlotDurationMinutes, domain.MaxSlotDurationMinutes, s.SlotDurationMinutes)
	}
	if s.DefaultCapacity < domain.MinSlotCapacity || s.DefaultCapacity > domain.MaxSlotCapacity {
		return fmt.Errorf("%w: capacity must be between %d and %d, got %d",
			ErrInvalidInput, domain.MinSlotCapacity, domain.MaxSlotCapacity, s.DefaultCapacity)
	}
	if err := s.DayStart.Validate(); err != nil {
		return fmt.Errorf("%w: day start: %v", ErrInvalidInput, err)
	}
	// первый слот по умолчанию должен помещаться в день
	if _, err := s.DayStart.AddMinutes(s.SlotDurationMinutes); err != nil {
		return fmt.Errorf("%w: slot of %d minutes starting at %s crosses midnight",
			ErrInvalidInput, s.SlotDurationMinutes, s.DayStart)
	}
	return nil
}
