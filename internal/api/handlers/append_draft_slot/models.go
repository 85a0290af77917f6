package append_draft_slot

import (
	"github.com/m04kA/SMC-SlotScheduler/internal/api/handlers"
	"github.com/m04kA/SMC-SlotScheduler/internal/service/drafts/models"
	"github.com/m04kA/SMC-SlotScheduler/pkg/types"
)

// AppendSlotRequest HTTP request model
type AppendSlotRequest struct {
	DurationMinutes int     `json:"durationMinutes,omitempty"` // по умолчанию из настроек филиала
	Capacity        int     `json:"capacity,omitempty"`        // по умолчанию из настроек филиала
	StartTime       *string `json:"startTime,omitempty"`       // "10:00", по умолчанию конец последнего слота
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *AppendSlotRequest) ToServiceRequest(path handlers.DayPath) (*models.AppendSlotRequest, error) {
	req := &models.AppendSlotRequest{
		DraftKey:        models.DraftKey{Feature: path.Feature, BranchID: path.BranchID, Date: path.Date},
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
