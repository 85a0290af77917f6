package get_available_slots

import (
	"context"
	"fmt"

	"github.com/m04kA/SMC-SlotScheduler/pkg/types"
)

// UseCase use case для получения свободных для записи слотов дня
type UseCase struct {
	backend      SlotBackendClient
	opts         Options
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	backend SlotBackendClient,
	opts Options,
	logger Logger,
) *UseCase {
	return &UseCase{
		backend:      backend,
		opts:         opts,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case получения свободных слотов
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: feature=%s, branch=%d, date=%s", req.Feature, req.BranchID, req.Date)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()
	today := types.NewDate(now)

	// 3. Валидация даты с учетом ограничений
	if err := validateDate(req.Date, today, uc.opts.AdvanceDays); err != nil {
		uc.logger.Warn("GetAvailableSlots: date validation failed: %v", err)
		return nil, err
	}

	resp := &Response{
		Feature:  req.Feature,
		BranchID: req.BranchID,
		Date:     req.Date,
		Slots:    []Slot{},
	}

	// 4. Для сегодняшнего дня считаем минимальное время начала слота
	var minStart *types.TimeString
	if req.Date == today {
		var ok bool
		minStart, ok = earliestStartToday(types.NewTimeString(now), uc.opts.MinNoticeMinutes)
		if !ok {
			uc.logger.Info("GetAvailableSlots: no time left today for branch=%d", req.BranchID)
			return resp, nil
		}
	}

	// 5. Получаем слоты дня из backend
	slots, err := uc.backend.FetchSlots(ctx, req.Feature, req.BranchID, req.Date, req.Date)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to fetch slots for branch=%d: %v", req.BranchID, err)
		return nil, fmt.Errorf("%w: %v", ErrUpstreamFailure, err)
	}

	// 6. Оставляем только слоты, на которые можно записаться
	resp.Slots = bookableSlots(slots, req.Date, minStart)

	uc.logger.Info("GetAvailableSlots: %d of %d slots bookable for feature=%s, branch=%d, date=%s",
		len(resp.Slots), len(slots), req.Feature, req.BranchID, req.Date)

	return resp, nil
}
