package get_available_slots

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-SlotScheduler/internal/api/handlers"
	getAvailableSlots "github.com/m04kA/SMC-SlotScheduler/internal/usecase/get_available_slots"
)

const (
	msgPastDate           = "дата в прошлом"
	msgDateTooFar         = "дата слишком далеко в будущем"
	msgInvalidInput       = "некорректные параметры запроса"
	msgBackendUnavailable = "сервис слотов недоступен, попробуйте позже"
)

type Handler struct {
	useCase GetAvailableSlotsUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailableSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/features/{feature}/branches/{branchId}/days/{date}/available-slots
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	path, msg, err := handlers.ParseDayPath(r)
	if err != nil {
		h.logger.Warn("GET /days/{date}/available-slots - Invalid path: %v", err)
		handlers.RespondBadRequest(w, msg)
		return
	}

	// Вызываем use case
	result, err := h.useCase.Execute(r.Context(), ToUseCaseRequest(path))
	if err != nil {
		switch {
		case errors.Is(err, getAvailableSlots.ErrInvalidDate):
			h.logger.Warn("GET /days/{date}/available-slots - Date in the past: date=%s", path.Date)
			handlers.RespondBadRequest(w, msgPastDate)

		case errors.Is(err, getAvailableSlots.ErrDateTooFarInFuture):
			h.logger.Warn("GET /days/{date}/available-slots - Date too far: date=%s", path.Date)
			handlers.RespondBadRequest(w, msgDateTooFar)

		case errors.Is(err, getAvailableSlots.ErrInvalidInput):
			h.logger.Warn("GET /days/{date}/available-slots - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		case errors.Is(err, getAvailableSlots.ErrUpstreamFailure):
			h.logger.Error("GET /days/{date}/available-slots - Backend unavailable: branch_id=%d, error=%v", path.BranchID, err)
			handlers.RespondBadGateway(w, msgBackendUnavailable)

		default:
			h.logger.Error("GET /days/{date}/available-slots - Failed to get slots: branch_id=%d, date=%s, error=%v",
				path.BranchID, path.Date, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /days/{date}/available-slots - Slots retrieved successfully: feature=%s, branch_id=%d, date=%s, slots_count=%d",
		path.Feature, path.BranchID, path.Date, len(result.Slots))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
