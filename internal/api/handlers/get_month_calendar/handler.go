package get_month_calendar

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-SlotScheduler/internal/api/handlers"
	getMonthCalendar "github.com/m04kA/SMC-SlotScheduler/internal/usecase/get_month_calendar"
)

const (
	msgMissingMonth       = "месяц и год обязательны"
	msgInvalidParams      = "некорректные параметры календаря: month 1-12, year, weekStart sunday или monday"
	msgBackendUnavailable = "сервис слотов недоступен, попробуйте позже"
)

type Handler struct {
	useCase GetMonthCalendarUseCase
	logger  Logger
}

func NewHandler(useCase GetMonthCalendarUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/features/{feature}/branches/{branchId}/calendar
// Query params: month (required, 1-12), year (required), weekStart (optional, sunday|monday)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	path, msg, err := handlers.ParseBranchPath(r)
	if err != nil {
		h.logger.Warn("GET /features/{feature}/branches/{id}/calendar - Invalid path: %v", err)
		handlers.RespondBadRequest(w, msg)
		return
	}

	query := r.URL.Query()
	if query.Get("month") == "" || query.Get("year") == "" {
		h.logger.Warn("GET /features/{feature}/branches/{id}/calendar - Missing month or year")
		handlers.RespondBadRequest(w, msgMissingMonth)
		return
	}

	useCaseReq, err := ToUseCaseRequest(path, query.Get("month"), query.Get("year"), query.Get("weekStart"))
	if err != nil {
		h.logger.Warn("GET /features/{feature}/branches/{id}/calendar - Invalid query: %v", err)
		handlers.RespondBadRequest(w, msgInvalidParams)
		return
	}

	// Вызываем use case
	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, getMonthCalendar.ErrInvalidInput):
			h.logger.Warn("GET /features/{feature}/branches/{id}/calendar - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidParams)

		case errors.Is(err, getMonthCalendar.ErrUpstreamFailure):
			h.logger.Error("GET /features/{feature}/branches/{id}/calendar - Backend unavailable: branch_id=%d, error=%v",
				path.BranchID, err)
			handlers.RespondBadGateway(w, msgBackendUnavailable)

		default:
			h.logger.Error("GET /features/{feature}/branches/{id}/calendar - Failed to build calendar: branch_id=%d, error=%v",
				path.BranchID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /features/{feature}/branches/{id}/calendar - Calendar built: feature=%s, branch_id=%d, %d-%02d, stale=%t",
		path.Feature, path.BranchID, result.Year, result.Month, result.Stale)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
