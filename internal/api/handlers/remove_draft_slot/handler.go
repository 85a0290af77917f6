package remove_draft_slot

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SlotScheduler/internal/api/handlers"
	"github.com/m04kA/SMC-SlotScheduler/internal/service/drafts"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidReason      = "причина удаления слишком длинная"
	msgSlotNotFound       = "слот не найден в черновике"
	msgSlotRemoved        = "слот уже помечен на удаление"
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

// Handle DELETE /api/v1/features/{feature}/branches/{branchId}/days/{date}/draft/slots/{slotKey}
// Причину можно передать в теле {"reason": "..."} или query параметром reason
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	path, msg, err := handlers.ParseDayPath(r)
	if err != nil {
		h.logger.Warn("DELETE /draft/slots/{key} - Invalid path: %v", err)
		handlers.RespondBadRequest(w, msg)
		return
	}

	slotKey := mux.Vars(r)["slotKey"]
	if slotKey == "" {
		h.logger.Warn("DELETE /draft/slots/{key} - Missing slot key")
		handlers.RespondBadRequest(w, handlers.MsgInvalidSlotKey)
		return
	}

	req := RemoveSlotRequest{Reason: r.URL.Query().Get("reason")}
	if r.ContentLength > 0 {
		if err := handlers.DecodeJSON(r, &req); err != nil {
			h.logger.Warn("DELETE /draft/slots/{key} - Invalid request body: %v", err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)
			return
		}
	}

	draft, err := h.service.RemoveSlot(r.Context(), req.ToServiceRequest(path, slotKey))
	if err != nil {
		switch {
		case errors.Is(err, drafts.ErrInvalidInput):
			h.logger.Warn("DELETE /draft/slots/{key} - Invalid input: slot=%s, error=%v", slotKey, err)
			handlers.RespondBadRequest(w, msgInvalidReason)

		case errors.Is(err, drafts.ErrSlotNotFound):
			h.logger.Warn("DELETE /draft/slots/{key} - Slot not found: slot=%s", slotKey)
			handlers.RespondNotFound(w, msgSlotNotFound)

		case errors.Is(err, drafts.ErrSlotRemoved):
			h.logger.Warn("DELETE /draft/slots/{key} - Slot already removed: slot=%s", slotKey)
			handlers.RespondConflict(w, msgSlotRemoved)

		case errors.Is(err, drafts.ErrConflict):
			h.logger.Warn("DELETE /draft/slots/{key} - Concurrent modification: branch_id=%d, date=%s", path.BranchID, path.Date)
			handlers.RespondConflict(w, msgConflict)

		case errors.Is(err, drafts.ErrUpstreamFailure):
			h.logger.Error("DELETE /draft/slots/{key} - Backend unavailable: branch_id=%d, error=%v", path.BranchID, err)
			handlers.RespondBadGateway(w, msgBackendUnavailable)

		default:
			h.logger.Error("DELETE /draft/slots/{key} - Failed to remove slot: slot=%s, error=%v", slotKey, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /draft/slots/{key} - Slot removed: feature=%s, branch_id=%d, date=%s, slot=%s",
		path.Feature, path.BranchID, path.Date, slotKey)
	handlers.RespondJSON(w, http.StatusOK, draft)
}
