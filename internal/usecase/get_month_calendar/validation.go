package get_month_calendar

import "fmt"

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if !req.Feature.IsValid() {
		return fmt.Errorf("%w: unknown feature %q", ErrInvalidInput, req.Feature)
	}

	if req.BranchID <= 0 {
		return fmt.Errorf("%w: branchID must be positive", ErrInvalidInput)
	}

	if req.Month < 1 || req.Month > 12 {
		return fmt.Errorf("%w: month must be between 1 and 12", ErrInvalidInput)
	}

	if req.Year < 1 || req.Year > 9999 {
		return fmt.Errorf("%w: year must be between 1 and 9999", ErrInvalidInput)
	}

	return nil
}
