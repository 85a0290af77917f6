package append_draft_slot

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-SlotScheduler/internal/api/handlers"
	"github.com/m04kA/SMC-SlotScheduler/internal/service/drafts"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidTime        = "некорректный формат времени начала, ожидается HH:MM"
	msgInvalidSlot        = "некорректный слот: длительность 5-480 минут, вместимость 1-1000, слот не может переходить через полночь"
	msgOverlap            = "слот пересекается с другим слотом дня"
	msgConflict           = "черновик был изменен параллельно, обновите его"
	msgBackendUnavailable = "сервис слотов недоступен, попробуйте позже"
)

type Handler struct {
	service DraftService
	logger  Logger
}

func NewHandler(service DraftService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/features/{feature}/branches/{branchId}/days/{date}/draft/slots
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	path, msg, err := handlers.ParseDayPath(r)
	if err != nil {
		h.logger.Warn("POST /draft/slots - Invalid path: %v", err)
		handlers.RespondBadRequest(w, msg)
		return
	}

	var req AppendSlotRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /draft/slots - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	serviceReq, err := req.ToServiceRequest(path)
	if err != nil {
		h.logger.Warn("POST /draft/slots - Invalid start time: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTime)
		return
	}

	draft, err := h.service.AppendSlot(r.Context(), serviceReq)
	if err != nil {
		switch {
		case errors.Is(err, drafts.ErrInvalidInput):
			h.logger.Warn("POST /draft/slots - Invalid slot: %v", err)
			handlers.RespondBadRequest(w, msgInvalidSlot)

		case errors.Is(err, drafts.ErrOverlap):
			h.logger.Warn("POST /draft/slots - Overlap: branch_id=%d, date=%s, error=%v", path.BranchID, path.Date, err)
			handlers.RespondConflict(w, msgOverlap)

		case errors.Is(err, drafts.ErrConflict):
			h.logger.Warn("POST /draft/slots - Concurrent modification: branch_id=%d, date=%s", path.BranchID, path.Date)
			handlers.RespondConflict(w, msgConflict)

		case errors.Is(err, drafts.ErrUpstreamFailure):
			h.logger.Error("POST /draft/slots - Backend unavailable: branch_id=%d, error=%v", path.BranchID, err)
			handlers.RespondBadGateway(w, msgBackendUnavailable)

		default:
			h.logger.Error("POST /draft/slots - Failed to append slot: branch_id=%d, date=%s, error=%v",
				path.BranchID, path.Date, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /draft/slots - Slot appended: feature=%s, branch_id=%d, date=%s, next_start=%s",
		path.Feature, path.BranchID, path.Date, draft.NextSlotStart)
	handlers.RespondJSON(w, http.StatusCreated, draft)
}
