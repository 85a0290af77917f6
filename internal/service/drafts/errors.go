package drafts

import "errors"

var (
	// ErrDraftNotFound возвращается, когда черновик не найден
	ErrDraftNotFound = errors.New("draft not found")

	// ErrSlotNotFound возвращается, когда слот с указанным ключом не найден в черновике
	ErrSlotNotFound = errors.New("slot not found in draft")

	// ErrSlotRemoved возвращается при попытке изменить слот, помеченный на удаление
	ErrSlotRemoved = errors.New("slot is marked for removal")

	// ErrOverlap возвращается, когда слот пересекается с другим слотом дня
	ErrOverlap = errors.New("slot overlaps another slot")

	// ErrConflict возвращается, когда черновик изменили параллельно
	ErrConflict = errors.New("draft was modified concurrently")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrUpstreamFailure возвращается, когда не удалось получить слоты из backend API
	ErrUpstreamFailure = errors.New("slot backend unavailable")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
