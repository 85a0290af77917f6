package drafts

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-SlotScheduler/internal/domain"
	draftRepo "github.com/m04kA/SMC-SlotScheduler/internal/infra/storage/draft"
	"github.com/m04kA/SMC-SlotScheduler/internal/service/drafts/models"
	"github.com/m04kA/SMC-SlotScheduler/pkg/slotengine"
)

// Service сервис черновиков: правка слотов одного дня филиала до отправки в backend
type Service struct {
	repo     DraftRepository
	backend  SlotBackendClient
	settings SettingsProvider
	newKey   func() string
	logger   Logger
}

// NewService создает новый экземпляр сервиса черновиков
func NewService(
	repo DraftRepository,
	backend SlotBackendClient,
	settings SettingsProvider,
	logger Logger,
) *Service {
	return &Service{
		repo:     repo,
		backend:  backend,
		settings: settings,
		newKey:   uuid.NewString,
		logger:   logger,
	}
}

// Open возвращает черновик дня, создавая его из текущих слотов backend при первом обращении
func (s *Service) Open(ctx context.Context, key models.DraftKey) (*models.DraftResponse, error) {
	if err := validateKey(key); err != nil {
		s.logger.Warn("Open: validation failed: %v", err)
		return nil, err
	}

	d, err := s.open(ctx, key)
	if err != nil {
		return nil, err
	}

	calc, _, err := s.calculator(ctx, key.Feature, key.BranchID)
	if err != nil {
		return nil, err
	}

	return s.toResponse(d, calc)
}

// ListBranchDrafts возвращает все открытые черновики филиала
func (s *Service) ListBranchDrafts(ctx context.Context, feature domain.Feature, branchID int64) ([]*models.DraftResponse, error) {
	if !feature.IsValid() || branchID <= 0 {
		return nil, fmt.Errorf("%w: feature=%q, branch=%d", ErrInvalidInput, feature, branchID)
	}

	list, err := s.repo.ListByBranch(ctx, feature, branchID)
	if err != nil {
		s.logger.Error("ListBranchDrafts: failed to list drafts for branch=%d: %v", branchID, err)
		return nil, fmt.Errorf("%w: failed to list drafts: %v", ErrInternal, err)
	}

	calc, _, err := s.calculator(ctx, feature, branchID)
	if err != nil {
		return nil, err
	}

	result := make([]*models.DraftResponse, 0, len(list))
	for _, d := range list {
		resp, err := s.toResponse(d, calc)
		if err != nil {
			return nil, err
		}
		result = append(result, resp)
	}

	return result, nil
}

// AppendSlot добавляет новый слот. Без явного начала слот ставится сразу после
// последнего слота дня (или на начало рабочего дня).
// Нулевые длительность и вместимость берутся из настроек филиала.
func (s *Service) AppendSlot(ctx context.Context, req *models.AppendSlotRequest) (*models.DraftResponse, error) {
	s.logger.Info("AppendSlot: branch=%d, date=%s, duration=%d, capacity=%d",
		req.BranchID, req.Date, req.DurationMinutes, req.Capacity)

	// 1. Валидируем входные данные
	if err := validateKey(req.DraftKey); err != nil {
		return nil, err
	}
	if req.DurationMinutes < 0 || req.Capacity < 0 {
		return nil, fmt.Errorf("%w: duration and capacity must not be negative", ErrInvalidInput)
	}
	if req.StartTime != nil {
		if err := req.StartTime.Validate(); err != nil {
			return nil, fmt.Errorf("%w: start time: %v", ErrInvalidInput, err)
		}
	}

	// 2. Подставляем значения по умолчанию из настроек филиала
	calc, settings, err := s.calculator(ctx, req.Feature, req.BranchID)
	if err != nil {
		return nil, err
	}

	duration := req.DurationMinutes
	if duration == 0 {
		duration = settings.SlotDurationMinutes
	}
	capacity := req.Capacity
	if capacity == 0 {
		capacity = settings.DefaultCapacity
	}
	if err := validateDuration(duration); err != nil {
		return nil, err
	}
	if err := validateCapacity(capacity); err != nil {
		return nil, err
	}

	// 3. Считаем время нового слота относительно текущего набора слотов дня
	return s.mutate(ctx, req.DraftKey, calc, func(d *domain.Draft) error {
		slots, err := d.EffectiveSlots()
		if err != nil {
			return mapEngineError(err)
		}

		start := calc.NextSlotStartAfter(slots)
		if req.StartTime != nil {
			start = *req.StartTime
		}

		end, err := calc.DeriveEndTime(start, duration)
		if err != nil {
			return mapEngineError(err)
		}

		d.Edits.Added = append(d.Edits.Added, slotengine.NewSlot{
			Key:       s.newKey(),
			StartTime: start,
			EndTime:   end,
			Capacity:  capacity,
		})
		return nil
	})
}

// UpdateSlot меняет начало, длительность или вместимость слота.
// Новый слот меняется на месте, существующий попадает в список правок.
func (s *Service) UpdateSlot(ctx context.Context, req *models.UpdateSlotRequest) (*models.DraftResponse, error) {
	s.logger.Info("UpdateSlot: branch=%d, date=%s, slot=%s", req.BranchID, req.Date, req.SlotKey)

	// 1. Валидируем входные данные
	if err := validateKey(req.DraftKey); err != nil {
		return nil, err
	}
	if req.SlotKey == "" {
		return nil, fmt.Errorf("%w: slot key is required", ErrInvalidInput)
	}
	if req.StartTime == nil && req.DurationMinutes == nil && req.Capacity == nil {
		return nil, fmt.Errorf("%w: nothing to update", ErrInvalidInput)
	}
	if req.StartTime != nil {
		if err := req.StartTime.Validate(); err != nil {
			return nil, fmt.Errorf("%w: start time: %v", ErrInvalidInput, err)
		}
	}
	if req.DurationMinutes != nil {
		if err := validateDuration(*req.DurationMinutes); err != nil {
			return nil, err
		}
	}
	if req.Capacity != nil {
		if err := validateCapacity(*req.Capacity); err != nil {
			return nil, err
		}
	}

	calc, _, err := s.calculator(ctx, req.Feature, req.BranchID)
	if err != nil {
		return nil, err
	}

	// 2. Применяем изменение к слоту
	return s.mutate(ctx, req.DraftKey, calc, func(d *domain.Draft) error {
		slots, err := d.EffectiveSlots()
		if err != nil {
			return mapEngineError(err)
		}

		target, ok := findSlot(slots, req.SlotKey)
		if !ok {
			return fmt.Errorf("%w: %s", ErrSlotNotFound, req.SlotKey)
		}
		if target.IsDeleted() {
			return fmt.Errorf("%w: %s", ErrSlotRemoved, req.SlotKey)
		}

		start := target.StartTime
		if req.StartTime != nil {
			start = *req.StartTime
		}

		duration, err := target.DurationMinutes()
		if err != nil {
			return mapEngineError(err)
		}
		if req.DurationMinutes != nil {
			duration = *req.DurationMinutes
		}

		capacity := target.Capacity
		if req.Capacity != nil {
			capacity = *req.Capacity
		}
		if capacity < target.BookedCount {
			return fmt.Errorf("%w: capacity %d is below booked count %d", ErrInvalidInput, capacity, target.BookedCount)
		}

		end, err := calc.DeriveEndTime(start, duration)
		if err != nil {
			return mapEngineError(err)
		}

		if target.State == slotengine.LifecycleNew {
			for i := range d.Edits.Added {
				if d.Edits.Added[i].Key == target.Key {
					d.Edits.Added[i].StartTime = start
					d.Edits.Added[i].EndTime = end
					d.Edits.Added[i].Capacity = capacity
				}
			}
			return nil
		}

		setUpdate(d, slotengine.SlotUpdate{
			SlotID:    target.ID,
			StartTime: start,
			EndTime:   end,
			Capacity:  capacity,
		})
		return nil
	})
}

// RemoveSlot удаляет слот: новый слот просто отбрасывается, существующий
// помечается на удаление и уходит в backend вместе с причиной
func (s *Service) RemoveSlot(ctx context.Context, req *models.RemoveSlotRequest) (*models.DraftResponse, error) {
	s.logger.Info("RemoveSlot: branch=%d, date=%s, slot=%s", req.BranchID, req.Date, req.SlotKey)

	// 1. Валидируем входные данные
	if err := validateKey(req.DraftKey); err != nil {
		return nil, err
	}
	if req.SlotKey == "" {
		return nil, fmt.Errorf("%w: slot key is required", ErrInvalidInput)
	}
	if utf8.RuneCountInString(req.Reason) > domain.MaxDeleteReasonLength {
		return nil, fmt.Errorf("%w: reason is longer than %d characters", ErrInvalidInput, domain.MaxDeleteReasonLength)
	}

	calc, _, err := s.calculator(ctx, req.Feature, req.BranchID)
	if err != nil {
		return nil, err
	}

	// 2. Удаляем слот из черновика
	return s.mutate(ctx, req.DraftKey, calc, func(d *domain.Draft) error {
		for i, added := range d.Edits.Added {
			if added.Key == req.SlotKey {
				d.Edits.Added = append(d.Edits.Added[:i], d.Edits.Added[i+1:]...)
				return nil
			}
		}

		var target *slotengine.Slot
		for i := range d.Existing {
			if d.Existing[i].ID == req.SlotKey {
				target = &d.Existing[i]
				break
			}
		}
		if target == nil {
			return fmt.Errorf("%w: %s", ErrSlotNotFound, req.SlotKey)
		}

		for _, removed := range d.Edits.Removed {
			if removed.SlotID == req.SlotKey {
				return fmt.Errorf("%w: %s", ErrSlotRemoved, req.SlotKey)
			}
		}

		if target.BookedCount > 0 {
			s.logger.Warn("RemoveSlot: slot=%s on %s has %d bookings", target.ID, d.Date, target.BookedCount)
		}

		dropUpdate(d, req.SlotKey)
		d.Edits.Removed = append(d.Edits.Removed, slotengine.SlotRemoval{
			SlotID: req.SlotKey,
			Reason: req.Reason,
		})
		return nil
	})
}

// Discard удаляет черновик вместе со всеми несохраненными правками
func (s *Service) Discard(ctx context.Context, key models.DraftKey) error {
	if err := validateKey(key); err != nil {
		return err
	}

	d, err := s.repo.GetByKey(ctx, key.ToDomain())
	if err != nil {
		if errors.Is(err, draftRepo.ErrDraftNotFound) {
			return ErrDraftNotFound
		}
		s.logger.Error("Discard: failed to get draft: %v", err)
		return fmt.Errorf("%w: failed to get draft: %v", ErrInternal, err)
	}

	if err := s.repo.Delete(ctx, d.ID); err != nil {
		if errors.Is(err, draftRepo.ErrDraftNotFound) {
			return ErrDraftNotFound
		}
		s.logger.Error("Discard: failed to delete draft id=%d: %v", d.ID, err)
		return fmt.Errorf("%w: failed to delete draft: %v", ErrInternal, err)
	}

	s.logger.Info("Discard: draft id=%d for branch=%d, date=%s discarded", d.ID, d.BranchID, d.Date)
	return nil
}

func (s *Service) open(ctx context.Context, key models.DraftKey) (*domain.Draft, error) {
	d, err := s.repo.GetByKey(ctx, key.ToDomain())
	if err == nil {
		return d, nil
	}
	if !errors.Is(err, draftRepo.ErrDraftNotFound) {
		s.logger.Error("open: failed to get draft for branch=%d, date=%s: %v", key.BranchID, key.Date, err)
		return nil, fmt.Errorf("%w: failed to get draft: %v", ErrInternal, err)
	}

	// Черновика еще нет: берем текущие слоты дня из backend
	fetched, err := s.backend.FetchSlots(ctx, key.Feature, key.BranchID, key.Date, key.Date)
	if err != nil {
		s.logger.Error("open: failed to fetch slots for branch=%d, date=%s: %v", key.BranchID, key.Date, err)
		return nil, fmt.Errorf("%w: %v", ErrUpstreamFailure, err)
	}

	existing := make([]slotengine.Slot, 0, len(fetched))
	for _, slot := range fetched {
		if slot.Date == key.Date {
			existing = append(existing, slot)
		}
	}

	if _, err := slotengine.ApplyEdits(key.Date, existing, slotengine.SlotEdits{}); err != nil {
		s.logger.Error("open: backend returned inconsistent slots for branch=%d, date=%s: %v", key.BranchID, key.Date, err)
		return nil, fmt.Errorf("%w: inconsistent slots: %v", ErrUpstreamFailure, err)
	}

	created, err := s.repo.Create(ctx, &domain.Draft{
		Feature:  key.Feature,
		BranchID: key.BranchID,
		Date:     key.Date,
		Existing: existing,
	})
	if errors.Is(err, draftRepo.ErrDraftAlreadyExists) {
		// черновик успели создать параллельно
		return s.getExisting(ctx, key)
	}
	if err != nil {
		s.logger.Error("open: failed to create draft for branch=%d, date=%s: %v", key.BranchID, key.Date, err)
		return nil, fmt.Errorf("%w: failed to create draft: %v", ErrInternal, err)
	}

	s.logger.Info("open: draft id=%d created for branch=%d, date=%s with %d slots",
		created.ID, created.BranchID, created.Date, len(existing))
	return created, nil
}

func (s *Service) getExisting(ctx context.Context, key models.DraftKey) (*domain.Draft, error) {
	d, err := s.repo.GetByKey(ctx, key.ToDomain())
	if err != nil {
		if errors.Is(err, draftRepo.ErrDraftNotFound) {
			return nil, ErrDraftNotFound
		}
		return nil, fmt.Errorf("%w: failed to get draft: %v", ErrInternal, err)
	}
	return d, nil
}

// mutate открывает черновик, применяет к нему fn и сохраняет правки, если
// итоговый день проходит все проверки пакета отправки
func (s *Service) mutate(
	ctx context.Context,
	key models.DraftKey,
	calc *slotengine.TimeCalculator,
	fn func(d *domain.Draft) error,
) (*models.DraftResponse, error) {
	d, err := s.open(ctx, key)
	if err != nil {
		return nil, err
	}

	d.Edits = cloneEdits(d.Edits)
	if err := fn(d); err != nil {
		s.logger.Warn("mutate: edit rejected for branch=%d, date=%s: %v", key.BranchID, key.Date, err)
		return nil, err
	}

	if _, err := slotengine.BuildMutationBatch(d.Date, d.Existing, d.Edits); err != nil {
		s.logger.Warn("mutate: resulting day is invalid for branch=%d, date=%s: %v", key.BranchID, key.Date, err)
		return nil, mapEngineError(err)
	}

	updated, err := s.repo.UpdateEdits(ctx, d)
	if err != nil {
		switch {
		case errors.Is(err, draftRepo.ErrVersionConflict):
			return nil, ErrConflict
		case errors.Is(err, draftRepo.ErrDraftNotFound):
			return nil, ErrDraftNotFound
		default:
			s.logger.Error("mutate: failed to save draft id=%d: %v", d.ID, err)
			return nil, fmt.Errorf("%w: failed to save draft: %v", ErrInternal, err)
		}
	}

	return s.toResponse(updated, calc)
}

// calculator возвращает калькулятор времени с началом дня из настроек филиала
func (s *Service) calculator(ctx context.Context, feature domain.Feature, branchID int64) (*slotengine.TimeCalculator, *domain.SlotSettings, error) {
	settings, err := s.settings.Effective(ctx, feature, branchID)
	if err != nil {
		s.logger.Error("calculator: failed to get settings for feature=%s, branch=%d: %v", feature, branchID, err)
		return nil, nil, fmt.Errorf("%w: failed to get slot settings: %v", ErrInternal, err)
	}

	calc, err := slotengine.NewTimeCalculator(settings.DayStart)
	if err != nil {
		s.logger.Error("calculator: invalid day start %q for feature=%s, branch=%d", settings.DayStart, feature, branchID)
		return nil, nil, fmt.Errorf("%w: invalid day start: %v", ErrInternal, err)
	}

	return calc, settings, nil
}

func (s *Service) toResponse(d *domain.Draft, calc *slotengine.TimeCalculator) (*models.DraftResponse, error) {
	slots, err := d.EffectiveSlots()
	if err != nil {
		s.logger.Error("toResponse: stored draft id=%d is inconsistent: %v", d.ID, err)
		return nil, fmt.Errorf("%w: inconsistent draft: %v", ErrInternal, err)
	}

	return models.FromDomain(d, slots, calc.NextSlotStartAfter(slots)), nil
}

func findSlot(slots []slotengine.Slot, key string) (slotengine.Slot, bool) {
	for _, slot := range slots {
		if models.SlotKey(slot) == key {
			return slot, true
		}
	}
	return slotengine.Slot{}, false
}

// setUpdate заменяет правку существующего слота; правка, возвращающая слот
// к исходным значениям, удаляется
func setUpdate(d *domain.Draft, update slotengine.SlotUpdate) {
	dropUpdate(d, update.SlotID)

	for _, original := range d.Existing {
		if original.ID != update.SlotID {
			continue
		}
		if original.StartTime == update.StartTime &&
			original.EndTime == update.EndTime &&
			original.Capacity == update.Capacity {
			return
		}
	}

	d.Edits.Updated = append(d.Edits.Updated, update)
}

func dropUpdate(d *domain.Draft, slotID string) {
	kept := d.Edits.Updated[:0]
	for _, u := range d.Edits.Updated {
		if u.SlotID != slotID {
			kept = append(kept, u)
		}
	}
	d.Edits.Updated = kept
}

func cloneEdits(e slotengine.SlotEdits) slotengine.SlotEdits {
	return slotengine.SlotEdits{
		Added:   append([]slotengine.NewSlot(nil), e.Added...),
		Updated: append([]slotengine.SlotUpdate(nil), e.Updated...),
		Removed: append([]slotengine.SlotRemoval(nil), e.Removed...),
	}
}

func mapEngineError(err error) error {
	switch {
	case errors.Is(err, slotengine.ErrOverlap):
		return fmt.Errorf("%w: %v", ErrOverlap, err)
	case errors.Is(err, slotengine.ErrInvalidInput):
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	default:
		return fmt.Errorf("%w: %v", ErrInternal, err)
	}
}
