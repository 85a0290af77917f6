package update_draft_slot

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SlotScheduler/internal/api/handlers"
	"github.com/m04kA/SMC-SlotScheduler/internal/service/drafts"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgEmptyUpdate        = "не указано ни одного изменения"
	msgInvalidTime        = "некорректный формат времени начала, ожидается HH:MM"
	msgInvalidSlot        = "некорректный слот: длительность 5-480 минут, вместимость 1-1000 и не меньше числа записей"
	msgSlotNotFound       = "слот не найден в черновике"
	msgSlotRemoved        = "слот помечен на удаление"
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

// Handle PATCH /api/v1/features/{feature}/branches/{branchId}/days/{date}/draft/slots/{slotKey}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	path, msg, err := handlers.ParseDayPath(r)
	if err != nil {
		h.logger.Warn("PATCH /draft/slots/{key} - Invalid path: %v", err)
		handlers.RespondBadRequest(w, msg)
		return
	}

	slotKey := mux.Vars(r)["slotKey"]
	if slotKey == "" {
		h.logger.Warn("PATCH /draft/slots/{key} - Missing slot key")
		handlers.RespondBadRequest(w, handlers.MsgInvalidSlotKey)
		return
	}

	var req UpdateSlotRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /draft/slots/{key} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	if req.IsEmpty() {
		h.logger.Warn("PATCH /draft/slots/{key} - Empty update: slot=%s", slotKey)
		handlers.RespondBadRequest(w, msgEmptyUpdate)
		return
	}

	serviceReq, err := req.ToServiceRequest(path, slotKey)
	if err != nil {
		h.logger.Warn("PATCH /draft/slots/{key} - Invalid start time: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTime)
		return
	}

	draft, err := h.service.UpdateSlot(r.Context(), serviceReq)
	if err != nil {
		switch {
		case errors.Is(err, drafts.ErrInvalidInput):
			h.logger.Warn("PATCH /draft/slots/{key} - Invalid slot: slot=%s, error=%v", slotKey, err)
			handlers.RespondBadRequest(w, msgInvalidSlot)

		case errors.Is(err, drafts.ErrSlotNotFound):
			h.logger.Warn("PATCH /draft/slots/{key} - Slot not found: slot=%s", slotKey)
			handlers.RespondNotFound(w, msgSlotNotFound)

		case errors.Is(err, drafts.ErrSlotRemoved):
			h.logger.Warn("PATCH /draft/slots/{key} - Slot is removed: slot=%s", slotKey)
			handlers.RespondConflict(w, msgSlotRemoved)

		case errors.Is(err, drafts.ErrOverlap):
			h.logger.Warn("PATCH /draft/slots/{key} - Overlap: slot=%s, error=%v", slotKey, err)
			handlers.RespondConflict(w, msgOverlap)

		case errors.Is(err, drafts.ErrConflict):
			h.logger.Warn("PATCH /draft/slots/{key} - Concurrent modification: branch_id=%d, date=%s", path.BranchID, path.Date)
			handlers.RespondConflict(w, msgConflict)

		case errors.Is(err, drafts.ErrUpstreamFailure):
			h.logger.Error("PATCH /draft/slots/{key} - Backend unavailable: branch_id=%d, error=%v", path.BranchID, err)
			handlers.RespondBadGateway(w, msgBackendUnavailable)

		default:
			h.logger.Error("PATCH /draft/slots/{key} - Failed to update slot: slot=%s, error=%v", slotKey, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /draft/slots/{key} - Slot updated: feature=%s, branch_id=%d, date=%s, slot=%s",
		path.Feature, path.BranchID, path.Date, slotKey)
	handlers.RespondJSON(w, http.StatusOK, draft)
}
