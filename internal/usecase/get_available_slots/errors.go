package get_available_slots

import "errors"

var (
	// ErrInvalidDate возвращается, когда дата в прошлом
	ErrInvalidDate = errors.New("invalid booking date")

	// ErrDateTooFarInFuture возвращается, когда дата превышает ограничение advanceDays
	ErrDateTooFarInFuture = errors.New("date is too far in the future")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrUpstreamFailure возвращается, когда не удалось получить слоты из backend API
	ErrUpstreamFailure = errors.New("slot backend unavailable")
)
