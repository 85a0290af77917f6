package discard_draft

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-SlotScheduler/internal/api/handlers"
	"github.com/m04kA/SMC-SlotScheduler/internal/service/drafts"
	"github.com/m04kA/SMC-SlotScheduler/internal/service/drafts/models"
)

const (
	msgNotFound     = "черновик не найден"
	msgInvalidInput = "некорректные параметры черновика"
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

// Handle DELETE /api/v1/features/{feature}/branches/{branchId}/days/{date}/draft
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	path, msg, err := handlers.ParseDayPath(r)
	if err != nil {
		h.logger.Warn("DELETE /days/{date}/draft - Invalid path: %v", err)
		handlers.RespondBadRequest(w, msg)
		return
	}

	key := models.DraftKey{Feature: path.Feature, BranchID: path.BranchID, Date: path.Date}

	if err := h.service.Discard(r.Context(), key); err != nil {
		switch {
		case errors.Is(err, drafts.ErrDraftNotFound):
			h.logger.Warn("DELETE /days/{date}/draft - Draft not found: branch_id=%d, date=%s", path.BranchID, path.Date)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, drafts.ErrInvalidInput):
			h.logger.Warn("DELETE /days/{date}/draft - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("DELETE /days/{date}/draft - Failed to discard draft: branch_id=%d, date=%s, error=%v",
				path.BranchID, path.Date, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /days/{date}/draft - Draft discarded: feature=%s, branch_id=%d, date=%s",
		path.Feature, path.BranchID, path.Date)
	w.WriteHeader(http.StatusNoContent)
}
