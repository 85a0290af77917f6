package submit_draft

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-SlotScheduler/internal/domain"
	draftRepo "github.com/m04kA/SMC-SlotScheduler/internal/infra/storage/draft"
	"github.com/m04kA/SMC-SlotScheduler/pkg/slotengine"
)

const (
	outcomeSuccess  = "success"
	outcomeRejected = "rejected"
)

// UseCase use case для отправки черновика дня в backend
type UseCase struct {
	draftRepo DraftRepository
	backend   SlotBackendClient
	calendars CalendarInvalidator
	metrics   MetricsRecorder
	logger    Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	draftRepo DraftRepository,
	backend SlotBackendClient,
	calendars CalendarInvalidator,
	metrics MetricsRecorder,
	logger Logger,
) *UseCase {
	return &UseCase{
		draftRepo: draftRepo,
		backend:   backend,
		calendars: calendars,
		metrics:   metrics,
		logger:    logger,
	}
}

// Execute собирает полный пакет слотов дня и отправляет его.
// После успеха черновик удаляется, при ошибке остается для повторной отправки.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("SubmitDraft: feature=%s, branch=%d, date=%s", req.Feature, req.BranchID, req.Date)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("SubmitDraft: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем черновик
	d, err := uc.draftRepo.GetByKey(ctx, domain.DraftKey{Feature: req.Feature, BranchID: req.BranchID, Date: req.Date})
	if err != nil {
		if errors.Is(err, draftRepo.ErrDraftNotFound) {
			uc.logger.Warn("SubmitDraft: no draft for branch=%d, date=%s", req.BranchID, req.Date)
			return nil, ErrDraftNotFound
		}
		uc.logger.Error("SubmitDraft: failed to get draft: %v", err)
		return nil, fmt.Errorf("%w: failed to get draft: %v", ErrInternal, err)
	}

	// 3. Проверяем, что пользователь отправляет ту версию, которую видел
	if req.ExpectedVersion != nil && *req.ExpectedVersion != d.Version {
		uc.logger.Warn("SubmitDraft: draft id=%d version is %d, expected %d", d.ID, d.Version, *req.ExpectedVersion)
		return nil, ErrConflict
	}

	if !d.HasChanges() {
		return nil, ErrNoChanges
	}

	// 4. Собираем пакет: все слоты дня, включая помеченные на удаление
	batch, err := slotengine.BuildMutationBatch(d.Date, d.Existing, d.Edits)
	if err != nil {
		uc.logger.Warn("SubmitDraft: draft id=%d is not submittable: %v", d.ID, err)
		if errors.Is(err, slotengine.ErrOverlap) {
			return nil, fmt.Errorf("%w: %v", ErrOverlap, err)
		}
		if errors.Is(err, slotengine.ErrInvalidInput) {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		return nil, fmt.Errorf("%w: failed to build batch: %v", ErrInternal, err)
	}

	// 5. Отправляем пакет
	if err := uc.backend.SubmitBatch(ctx, d.Feature, d.BranchID, batch); err != nil {
		uc.record(d.Feature, outcomeRejected)

		// Черновик сохраняем даже если клиент уже отключился
		if recErr := uc.draftRepo.RecordSubmitFailure(context.WithoutCancel(ctx), d.ID, err.Error()); recErr != nil {
			uc.logger.Error("SubmitDraft: failed to record submit failure for draft id=%d: %v", d.ID, recErr)
		}

		uc.logger.Error("SubmitDraft: backend rejected draft id=%d (attempt %d): %v", d.ID, d.SubmitAttempts+1, err)
		return nil, fmt.Errorf("%w: %v", ErrUpstreamFailure, err)
	}

	uc.record(d.Feature, outcomeSuccess)

	// 6. Удаляем черновик и сбрасываем календари филиала
	if err := uc.draftRepo.Delete(context.WithoutCancel(ctx), d.ID); err != nil && !errors.Is(err, draftRepo.ErrDraftNotFound) {
		uc.logger.Error("SubmitDraft: slots saved but failed to delete draft id=%d: %v", d.ID, err)
	}

	removed := uc.calendars.InvalidateBranch(d.Feature, d.BranchID)
	uc.logger.Info("SubmitDraft: draft id=%d submitted with %d slots, %d cached calendars invalidated",
		d.ID, batch.SlotCount, removed)

	return buildResponse(d, batch), nil
}

func (uc *UseCase) record(feature domain.Feature, outcome string) {
	if uc.metrics != nil {
		uc.metrics.BatchSubmitted(feature.String(), outcome)
	}
}

func buildResponse(d *domain.Draft, batch *slotengine.SlotMutationBatch) *Response {
	resp := &Response{
		Feature:   d.Feature,
		BranchID:  d.BranchID,
		Date:      d.Date,
		SlotCount: batch.SlotCount,
	}

	for _, entry := range batch.Slots {
		switch {
		case entry.IsDeleted:
			resp.DeletedSlots++
		case entry.SlotID == "":
			resp.NewSlots++
		}
	}

	return resp
}
