package get_month_calendar

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrUpstreamFailure возвращается, когда backend недоступен и в кэше нет календаря
	ErrUpstreamFailure = errors.New("slot backend unavailable")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("usecase: internal error")
)
