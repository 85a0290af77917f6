package submit_draft

import (
	"github.com/m04kA/SMC-SlotScheduler/internal/domain"
	"github.com/m04kA/SMC-SlotScheduler/pkg/types"
)

// Request модель запроса на отправку черновика дня
type Request struct {
	Feature         domain.Feature
	BranchID        int64
	Date            types.Date
	ExpectedVersion *int64 // версия черновика, которую видел пользователь (опционально)
}

// Response модель ответа об отправке
type Response struct {
	Feature      domain.Feature
	BranchID     int64
	Date         types.Date
	SlotCount    int // всего отправлено слотов, включая удаленные
	NewSlots     int
	DeletedSlots int
}
