package remove_draft_slot

import (
	"github.com/m04kA/SMC-SlotScheduler/internal/api/handlers"
	"github.com/m04kA/SMC-SlotScheduler/internal/service/drafts/models"
)

// RemoveSlotRequest HTTP request model (тело запроса необязательно)
type RemoveSlotRequest struct {
	Reason string `json:"reason"`
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *RemoveSlotRequest) ToServiceRequest(path handlers.DayPath, slotKey string) *models.RemoveSlotRequest {
	return &models.RemoveSlotRequest{
		DraftKey: models.DraftKey{Feature: path.Feature, BranchID: path.BranchID, Date: path.Date},
		SlotKey:  slotKey,
		Reason:   r.Reason,
	}
}
