package update_slot_settings

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-SlotScheduler/internal/api/handlers"
	"github.com/m04kA/SMC-SlotScheduler/internal/service/settings"
)

const (
	msgInvalidBody     = "некорректное тело запроса"
	msgEmptyUpdate     = "не задано ни одного поля для изменения"
	msgInvalidDayStart = "некорректное время начала дня, ожидается HH:MM"
	msgInvalidInput    = "некорректные значения настроек"
	msgNotFound        = "настройки не найдены"
	msgConflict        = "настройки изменены параллельно, повторите запрос"
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

// Handle PUT /api/v1/features/{feature}/settings
// Handle PUT /api/v1/features/{feature}/branches/{branchId}/settings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	feature, branchID, msg, err := handlers.ParseFeatureScope(r)
	if err != nil {
		h.logger.Warn("PUT /settings - Invalid path: %v", err)
		handlers.RespondBadRequest(w, msg)
		return
	}

	var body UpdateSettingsRequest
	if err := handlers.DecodeJSON(r, &body); err != nil {
		h.logger.Warn("PUT /settings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBody)
		return
	}
	if body.IsEmpty() {
		h.logger.Warn("PUT /settings - Empty update: feature=%s, branch_id=%s", feature, handlers.BranchScope(branchID))
		handlers.RespondBadRequest(w, msgEmptyUpdate)
		return
	}

	req, err := body.ToServiceRequest(feature, branchID)
	if err != nil {
		h.logger.Warn("PUT /settings - Invalid day start: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDayStart)
		return
	}

	response, err := h.service.Upsert(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, settings.ErrInvalidInput):
			h.logger.Warn("PUT /settings - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		case errors.Is(err, settings.ErrSettingsNotFound):
			h.logger.Warn("PUT /settings - Settings disappeared during update: feature=%s, branch_id=%s", feature, handlers.BranchScope(branchID))
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, settings.ErrConflict):
			h.logger.Warn("PUT /settings - Concurrent update: feature=%s, branch_id=%s", feature, handlers.BranchScope(branchID))
			handlers.RespondConflict(w, msgConflict)

		default:
			h.logger.Error("PUT /settings - Failed to save settings: feature=%s, error=%v", feature, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /settings - Settings saved: feature=%s, level=%s", feature, response.Level)
	handlers.RespondJSON(w, http.StatusOK, response)
}
