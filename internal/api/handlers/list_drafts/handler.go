package list_drafts

import (
	"net/http"

	"github.com/m04kA/SMC-SlotScheduler/internal/api/handlers"
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

// Handle GET /api/v1/features/{feature}/branches/{branchId}/drafts
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	path, msg, err := handlers.ParseBranchPath(r)
	if err != nil {
		h.logger.Warn("GET /branches/{id}/drafts - Invalid path: %v", err)
		handlers.RespondBadRequest(w, msg)
		return
	}

	list, err := h.service.ListBranchDrafts(r.Context(), path.Feature, path.BranchID)
	if err != nil {
		h.logger.Error("GET /branches/{id}/drafts - Failed to list drafts: branch_id=%d, error=%v", path.BranchID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /branches/{id}/drafts - Drafts listed: feature=%s, branch_id=%d, count=%d",
		path.Feature, path.BranchID, len(list))
	handlers.RespondJSON(w, http.StatusOK, list)
}
