package settings

import "errors"

var (
	// ErrSettingsNotFound возвращается, когда на указанном уровне нет настроек
	ErrSettingsNotFound = errors.New("settings not found")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrConflict возвращается, когда настройки уровня изменены параллельным запросом
	ErrConflict = errors.New("settings were changed concurrently")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
