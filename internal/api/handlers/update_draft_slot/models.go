package update_draft_slot

import (
	"github.com/m04kA/SMC-SlotScheduler/internal/api/handlers"
	"github.com/m04kA/SMC-SlotScheduler/internal/service/drafts/models"
	"github.com/m04kA/SMC-SlotScheduler/pkg/types"
)

// UpdateSlotRequest HTTP request model. Незаданные поля не меняются.
type UpdateSlotRequest struct {
	StartTime       *string `json:"startTime,omitempty"`
	DurationMinutes *int    `json:"durationMinutes,omitempty"`
	Capacity        *int    `json:"capacity,omitempty"`
}

// IsEmpty возвращает true, если в запросе нет ни одного изменения
func (r *UpdateSlotRequest) IsEmpty() bool {
	return r.StartTime == nil && r.DurationMinutes == nil && r.Capacity == nil
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *UpdateSlotRequest) ToServiceRequest(path handlers.DayPath, slotKey string) (*models.UpdateSlotRequest, error) {
	req := &models.UpdateSlotRequest{
		DraftKey:        models.DraftKey{Feature: path.Feature, BranchID: path.BranchID, Date: path.Date},
		SlotKey:         slotKey,
		DurationMinutes: r.DurationMinutes,
		Capacity:        r.Capacity,
	}

	if r.StartTime != nil {
		start, err := types.NewTimeStringFromString(*r.StartTime)
		if err != nil {
			return nil, err
		}
		req.StartTime = &start
	}

	return req, nil
}
