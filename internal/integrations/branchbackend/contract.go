package branchbackend

import "time"

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// MetricsRecorder учитывает вызовы backend API
type MetricsRecorder interface {
	ObserveBackendCall(operation string, err error, duration time.Duration)
}
