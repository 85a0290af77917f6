package get_month_calendar

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SlotScheduler/internal/domain"
	calendarCache "github.com/m04kA/SMC-SlotScheduler/internal/infra/cache/calendar"
	"github.com/m04kA/SMC-SlotScheduler/pkg/slotengine"
	"github.com/m04kA/SMC-SlotScheduler/pkg/types"
)

// SlotBackendClient интерфейс клиента backend API слотов
type SlotBackendClient interface {
	FetchSlots(ctx context.Context, feature domain.Feature, branchID int64, from, to types.Date) ([]slotengine.Slot, error)
}

// CalendarCache интерфейс кэша последних успешно загруженных календарей
type CalendarCache interface {
	Begin() uint64
	Put(key calendarCache.Key, generation uint64, cal *slotengine.MonthCalendar) bool
	Get(key calendarCache.Key) (*calendarCache.Entry, bool)
}

// MetricsRecorder учитывает выдачу устаревших календарей
type MetricsRecorder interface {
	CalendarCacheEvent(event string)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
