package branchbackend

import "errors"

var (
	// ErrUpstreamFailure возвращается при любой неудаче запроса к backend API:
	// сетевая ошибка, неуспешный StatusCode или отклоненная отправка слотов
	ErrUpstreamFailure = errors.New("branchbackend: upstream failure")

	// ErrInvalidResponse возвращается, когда ответ backend API не удалось разобрать
	ErrInvalidResponse = errors.New("branchbackend: invalid response")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("branchbackend client: internal error")
)
