package get_month_calendar

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-SlotScheduler/internal/domain"
	calendarCache "github.com/m04kA/SMC-SlotScheduler/internal/infra/cache/calendar"
	"github.com/m04kA/SMC-SlotScheduler/pkg/slotengine"
	"github.com/m04kA/SMC-SlotScheduler/pkg/types"
)

// UseCase use case для построения календаря слотов на месяц
type UseCase struct {
	backend      SlotBackendClient
	cache        CalendarCache
	weekStarts   map[domain.Feature]slotengine.WeekStart
	metrics      MetricsRecorder
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	backend SlotBackendClient,
	cache CalendarCache,
	weekStarts map[domain.Feature]slotengine.WeekStart,
	metrics MetricsRecorder,
	logger Logger,
) *UseCase {
	return &UseCase{
		backend:      backend,
		cache:        cache,
		weekStarts:   weekStarts,
		metrics:      metrics,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case получения календаря.
// При недоступности backend возвращает последний успешно загруженный календарь с флагом Stale.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetMonthCalendar: feature=%s, branch=%d, month=%d, year=%d",
		req.Feature, req.BranchID, req.Month, req.Year)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetMonthCalendar: validation failed: %v", err)
		return nil, err
	}

	// 2. Определяем первый день недели
	weekStart, ok := uc.weekStarts[req.Feature]
	if !ok {
		weekStart = slotengine.WeekStartSunday
	}
	if req.WeekStart != nil {
		weekStart = *req.WeekStart
	}

	month := time.Month(req.Month)

	// 3. Считаем диапазон дат сетки, включая дни соседних месяцев
	first, last, err := slotengine.GridRange(month, req.Year, weekStart)
	if err != nil {
		uc.logger.Warn("GetMonthCalendar: invalid grid parameters: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	key := calendarCache.Key{
		Feature:   req.Feature,
		BranchID:  req.BranchID,
		Month:     month,
		Year:      req.Year,
		WeekStart: weekStart,
	}

	// 4. Загружаем слоты из backend
	generation := uc.cache.Begin()
	slots, err := uc.backend.FetchSlots(ctx, req.Feature, req.BranchID, first, last)
	if err != nil {
		return uc.serveStale(key, req, err)
	}

	// 5. Строим календарь
	cal, err := slotengine.BuildMonthCalendar(slots, month, req.Year, weekStart)
	if err != nil {
		if errors.Is(err, slotengine.ErrInvalidInput) {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		uc.logger.Error("GetMonthCalendar: failed to build calendar: %v", err)
		return nil, fmt.Errorf("%w: failed to build calendar: %v", ErrInternal, err)
	}

	if len(cal.Unplaced) > 0 {
		uc.logger.Warn("GetMonthCalendar: backend returned %d slots outside %s..%s for branch=%d",
			len(cal.Unplaced), first, last, req.BranchID)
	}

	// 6. Запоминаем календарь как последний успешно загруженный
	now := uc.timeProvider.Now()
	if !uc.cache.Put(key, generation, cal) {
		uc.logger.Info("GetMonthCalendar: newer calendar already cached for branch=%d, %d-%02d",
			req.BranchID, req.Year, req.Month)
	}

	return uc.buildResponse(req, cal, false, now), nil
}

// serveStale возвращает календарь из кэша при ошибке backend
func (uc *UseCase) serveStale(key calendarCache.Key, req *Request, fetchErr error) (*Response, error) {
	entry, ok := uc.cache.Get(key)
	if !ok {
		uc.logger.Error("GetMonthCalendar: failed to fetch slots for branch=%d and no cached calendar: %v",
			req.BranchID, fetchErr)
		return nil, fmt.Errorf("%w: %v", ErrUpstreamFailure, fetchErr)
	}

	uc.logger.Warn("GetMonthCalendar: backend unavailable, serving calendar fetched at %s for branch=%d: %v",
		entry.FetchedAt.Format(time.RFC3339), req.BranchID, fetchErr)
	if uc.metrics != nil {
		uc.metrics.CalendarCacheEvent(calendarCache.EventStaleServe)
	}

	return uc.buildResponse(req, entry.Calendar, true, entry.FetchedAt), nil
}

// buildResponse размечает дни и слоты статусами заполненности
func (uc *UseCase) buildResponse(req *Request, cal *slotengine.MonthCalendar, stale bool, fetchedAt time.Time) *Response {
	today := types.NewDate(uc.timeProvider.Now())

	resp := &Response{
		Feature:   req.Feature,
		BranchID:  req.BranchID,
		Month:     cal.Month,
		Year:      cal.Year,
		WeekStart: cal.WeekStart,
		Stale:     stale,
		FetchedAt: fetchedAt,
		Days:      make([]Day, 0, len(cal.Days)),
		Unplaced:  cal.Unplaced,
	}

	for _, bucket := range cal.Days {
		day := Day{
			Date:    bucket.Date,
			InMonth: bucket.InMonth,
			IsToday: bucket.Date == today,
			IsPast:  bucket.Date.Before(today),
			Summary: slotengine.SummarizeDay(bucket.Slots),
			Slots:   make([]Slot, 0, len(bucket.Slots)),
		}
		for _, s := range bucket.Slots {
			day.Slots = append(day.Slots, Slot{
				Slot:      s,
				Status:    slotengine.ClassifySlot(s),
				Remaining: slotengine.RemainingCapacity(s),
			})
		}
		resp.Days = append(resp.Days, day)
	}

	return resp
}
