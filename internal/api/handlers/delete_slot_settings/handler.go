package delete_slot_settings

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-SlotScheduler/internal/api/handlers"
	"github.com/m04kA/SMC-SlotScheduler/internal/service/settings"
)

const (
	msgNotFound     = "настройки этого уровня не заданы"
	msgInvalidInput = "некорректные параметры настроек"
)

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

// Handle DELETE /api/v1/features/{feature}/settings
// Handle DELETE /api/v1/features/{feature}/branches/{branchId}/settings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	feature, branchID, msg, err := handlers.ParseFeatureScope(r)
	if err != nil {
		h.logger.Warn("DELETE /settings - Invalid path: %v", err)
		handlers.RespondBadRequest(w, msg)
		return
	}

	if err := h.service.Reset(r.Context(), feature, branchID); err != nil {
		switch {
		case errors.Is(err, settings.ErrSettingsNotFound):
			h.logger.Warn("DELETE /settings - Settings not found: feature=%s, branch_id=%s", feature, handlers.BranchScope(branchID))
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, settings.ErrInvalidInput):
			h.logger.Warn("DELETE /settings - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("DELETE /settings - Failed to reset settings: feature=%s, error=%v", feature, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /settings - Settings reset: feature=%s, branch_id=%s", feature, handlers.BranchScope(branchID))
	w.WriteHeader(http.StatusNoContent)
}
