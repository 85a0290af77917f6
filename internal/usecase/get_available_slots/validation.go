package get_available_slots

import (
	"fmt"

	"github.com/m04kA/SMC-SlotScheduler/pkg/types"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if !req.Feature.IsValid() {
		return fmt.Errorf("%w: unknown feature %q", ErrInvalidInput, req.Feature)
	}

	if req.BranchID <= 0 {
		return fmt.Errorf("%w: branchID must be positive", ErrInvalidInput)
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	return nil
}

// validateDate проверяет, что на дату можно записаться
func validateDate(date, today types.Date, advanceDays int) error {
	if date.Before(today) {
		return ErrInvalidDate
	}

	// Если advanceDays = 0, нет ограничений на дату
	if advanceDays == 0 {
		return nil
	}

	if date.After(today.AddDays(advanceDays)) {
		return fmt.Errorf("%w: can only book %d days in advance", ErrDateTooFarInFuture, advanceDays)
	}

	return nil
}
