package submit_draft

import "fmt"

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
