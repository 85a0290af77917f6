package draft

import "errors"

var (
	// ErrDraftNotFound возвращается, когда черновик не найден
	ErrDraftNotFound = errors.New("draft.repository: draft not found")

	// ErrDraftAlreadyExists возвращается при попытке создать второй черновик на ту же дату
	ErrDraftAlreadyExists = errors.New("draft.repository: draft already exists")

	// ErrVersionConflict возвращается, когда черновик изменили параллельно
	ErrVersionConflict = errors.New("draft.repository: version conflict")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("draft.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("draft.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("draft.repository: failed to scan row")

	// ErrEncode возвращается при ошибке сериализации слотов в jsonb
	ErrEncode = errors.New("draft.repository: failed to encode slots")
)
