package submit_draft

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-SlotScheduler/internal/api/handlers"
	submitDraft "github.com/m04kA/SMC-SlotScheduler/internal/usecase/submit_draft"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgNotFound           = "черновик не найден"
	msgNoChanges          = "в черновике нет изменений"
	msgConflict           = "черновик был изменен, обновите его перед сохранением"
	msgOverlap            = "слоты дня пересекаются"
	msgInvalidDraft       = "слоты черновика некорректны"
	msgRejected           = "сервис слотов не принял изменения, черновик сохранен, попробуйте еще раз"
)

type Handler struct {
	useCase SubmitDraftUseCase
	logger  Logger
}

func NewHandler(useCase SubmitDraftUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/features/{feature}/branches/{branchId}/days/{date}/draft/submit
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	path, msg, err := handlers.ParseDayPath(r)
	if err != nil {
		h.logger.Warn("POST /draft/submit - Invalid path: %v", err)
		handlers.RespondBadRequest(w, msg)
		return
	}

	var req SubmitDraftRequest
	if r.ContentLength > 0 {
		if err := handlers.DecodeJSON(r, &req); err != nil {
			h.logger.Warn("POST /draft/submit - Invalid request body: %v", err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)
			return
		}
	}

	// Вызываем use case
	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest(path))
	if err != nil {
		switch {
		case errors.Is(err, submitDraft.ErrDraftNotFound):
			h.logger.Warn("POST /draft/submit - Draft not found: branch_id=%d, date=%s", path.BranchID, path.Date)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, submitDraft.ErrNoChanges):
			h.logger.Warn("POST /draft/submit - Nothing to submit: branch_id=%d, date=%s", path.BranchID, path.Date)
			handlers.RespondBadRequest(w, msgNoChanges)

		case errors.Is(err, submitDraft.ErrConflict):
			h.logger.Warn("POST /draft/submit - Version mismatch: branch_id=%d, date=%s", path.BranchID, path.Date)
			handlers.RespondConflict(w, msgConflict)

		case errors.Is(err, submitDraft.ErrOverlap):
			h.logger.Warn("POST /draft/submit - Overlap: branch_id=%d, date=%s, error=%v", path.BranchID, path.Date, err)
			handlers.RespondConflict(w, msgOverlap)

		case errors.Is(err, submitDraft.ErrInvalidInput):
			h.logger.Warn("POST /draft/submit - Invalid draft: branch_id=%d, date=%s, error=%v", path.BranchID, path.Date, err)
			handlers.RespondBadRequest(w, msgInvalidDraft)

		case errors.Is(err, submitDraft.ErrUpstreamFailure):
			h.logger.Error("POST /draft/submit - Backend rejected: branch_id=%d, date=%s, error=%v", path.BranchID, path.Date, err)
			handlers.RespondBadGateway(w, msgRejected)

		default:
			h.logger.Error("POST /draft/submit - Failed to submit draft: branch_id=%d, date=%s, error=%v",
				path.BranchID, path.Date, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /draft/submit - Draft submitted: feature=%s, branch_id=%d, date=%s, slots=%d",
		path.Feature, path.BranchID, path.Date, result.SlotCount)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
