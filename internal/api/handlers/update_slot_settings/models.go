package update_slot_settings

import (
	"github.com/m04kA/SMC-SlotScheduler/internal/domain"
	"github.com/m04kA/SMC-SlotScheduler/internal/service/settings/models"
	"github.com/m04kA/SMC-SlotScheduler/pkg/types"
)

// UpdateSettingsRequest тело PUT запроса; незаданные поля не меняются
type UpdateSettingsRequest struct {
	SlotDurationMinutes *int    `json:"slotDurationMinutes,omitempty"`
	DefaultCapacity     *int    `json:"defaultCapacity,omitempty"`
	DayStart            *string `json:"dayStart,omitempty"`
}

// IsEmpty возвращает true, если не задано ни одного поля
func (r *UpdateSettingsRequest) IsEmpty() bool {
	return r.SlotDurationMinutes == nil && r.DefaultCapacity == nil && r.DayStart == nil
}

// ToServiceRequest конвертирует тело запроса в запрос сервиса
func (r *UpdateSettingsRequest) ToServiceRequest(feature domain.Feature, branchID *int64) (*models.UpsertSettingsRequest, error) {
	req := &models.UpsertSettingsRequest{
		Feature:             feature,
		BranchID:            branchID,
		SlotDurationMinutes: r.SlotDurationMinutes,
		DefaultCapacity:     r.DefaultCapacity,
	}
	if r.DayStart != nil {
		dayStart, err := types.NewTimeStringFromString(*r.DayStart)
		if err != nil {
			return nil, err
		}
		req.DayStart = &dayStart
	}
	return req, nil
}
