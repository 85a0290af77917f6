package get_slot_settings

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-SlotScheduler/internal/api/handlers"
	"github.com/m04kA/SMC-SlotScheduler/internal/service/settings"
)

const msgInvalidInput = "некорректные параметры запроса"

type Handler struct {
	service SettingsService
	logger  Logger
}

func NewHandler(service SettingsService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/features/{feature}/branches/{branchId}/settings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	path, msg, err := handlers.ParseBranchPath(r)
	if err != nil {
		h.logger.Warn("GET /settings - Invalid path: %v", err)
		handlers.RespondBadRequest(w, msg)
		return
	}

	response, err := h.service.GetEffective(r.Context(), path.Feature, path.BranchID)
	if err != nil {
		if errors.Is(err, settings.ErrInvalidInput) {
			h.logger.Warn("GET /settings - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)
			return
		}
		h.logger.Error("GET /settings - Failed to get settings: feature=%s, branch_id=%d, error=%v",
			path.Feature, path.BranchID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /settings - Settings retrieved: feature=%s, branch_id=%d, level=%s",
		path.Feature, path.BranchID, response.Level)
	handlers.RespondJSON(w, http.StatusOK, response)
}
