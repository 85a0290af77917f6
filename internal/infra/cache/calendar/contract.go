package calendar

// MetricsRecorder учитывает события кэша
type MetricsRecorder interface {
	CalendarCacheEvent(event string)
}
