package submit_draft

import "errors"

var (
	// ErrDraftNotFound возвращается, когда черновик не найден
	ErrDraftNotFound = errors.New("draft not found")

	// ErrNoChanges возвращается, когда в черновике нет изменений для отправки
	ErrNoChanges = errors.New("draft has no changes")

	// ErrConflict возвращается, когда черновик изменился после того, как его показали пользователю
	ErrConflict = errors.New("draft version mismatch")

	// ErrOverlap возвращается, когда слоты дня пересекаются
	ErrOverlap = errors.New("slots overlap")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrUpstreamFailure возвращается, когда backend не принял слоты; черновик сохраняется
	ErrUpstreamFailure = errors.New("slot backend rejected submission")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("usecase: internal error")
)
