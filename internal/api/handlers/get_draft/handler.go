package get_draft

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-SlotScheduler/internal/api/handlers"
	"github.com/m04kA/SMC-SlotScheduler/internal/service/drafts"
	"github.com/m04kA/SMC-SlotScheduler/internal/service/drafts/models"
)

const (
	msgBackendUnavailable = "сервис слотов недоступен, попробуйте позже"
	msgInvalidDraft       = "текущие слоты дня некорректны и не могут быть открыты для редактирования"
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

// Handle GET /api/v1/features/{feature}/branches/{branchId}/days/{date}/draft
// Открывает черновик дня: если черновика нет, он создается из текущих слотов backend
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	path, msg, err := handlers.ParseDayPath(r)
	if err != nil {
		h.logger.Warn("GET /days/{date}/draft - Invalid path: %v", err)
		handlers.RespondBadRequest(w, msg)
		return
	}

	key := models.DraftKey{Feature: path.Feature, BranchID: path.BranchID, Date: path.Date}

	draft, err := h.service.Open(r.Context(), key)
	if err != nil {
		switch {
		case errors.Is(err, drafts.ErrInvalidInput), errors.Is(err, drafts.ErrOverlap):
			h.logger.Warn("GET /days/{date}/draft - Invalid day: branch_id=%d, date=%s, error=%v",
				path.BranchID, path.Date, err)
			handlers.RespondConflict(w, msgInvalidDraft)

		case errors.Is(err, drafts.ErrUpstreamFailure):
			h.logger.Error("GET /days/{date}/draft - Backend unavailable: branch_id=%d, error=%v", path.BranchID, err)
			handlers.RespondBadGateway(w, msgBackendUnavailable)

		default:
			h.logger.Error("GET /days/{date}/draft - Failed to open draft: branch_id=%d, date=%s, error=%v",
				path.BranchID, path.Date, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /days/{date}/draft - Draft opened: feature=%s, branch_id=%d, date=%s, version=%d",
		path.Feature, path.BranchID, path.Date, draft.Version)
	handlers.RespondJSON(w, http.StatusOK, draft)
}
