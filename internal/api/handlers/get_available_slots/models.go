package get_available_slots

import (
	"github.com/m04kA/SMC-SlotScheduler/internal/api/handlers"
	getAvailableSlots "github.com/m04kA/SMC-SlotScheduler/internal/usecase/get_available_slots"
)

// AvailableSlotsResponse HTTP response model
type AvailableSlotsResponse struct {
	Feature  string          `json:"feature"`
	BranchID int64           `json:"branchId"`
	Date     string          `json:"date"`
	Slots    []AvailableSlot `json:"slots"`
}

// AvailableSlot модель свободного слота
type AvailableSlot struct {
	SlotID          string `json:"slotId"`
	StartTime       string `json:"startTime"`
	EndTime         string `json:"endTime"`
	DurationMinutes int    `json:"durationMinutes"`
	AvailableSpots  int    `json:"availableSpots"`
	TotalSpots      int    `json:"totalSpots"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableSlots.Response) *AvailableSlotsResponse {
	slots := make([]AvailableSlot, len(resp.Slots))
	for i, slot := range resp.Slots {
		slots[i] = AvailableSlot{
			SlotID:          slot.SlotID,
			StartTime:       slot.StartTime.String(),
			EndTime:         slot.EndTime.String(),
			DurationMinutes: slot.DurationMinutes,
			AvailableSpots:  slot.AvailableSpots,
			TotalSpots:      slot.TotalSpots,
		}
	}

	return &AvailableSlotsResponse{
		Feature:  resp.Feature.String(),
		BranchID: resp.BranchID,
		Date:     resp.Date.String(),
		Slots:    slots,
	}
}

// ToUseCaseRequest создает запрос use case из параметров пути
func ToUseCaseRequest(path handlers.DayPath) *getAvailableSlots.Request {
	return &getAvailableSlots.Request{
		Feature:  path.Feature,
		BranchID: path.BranchID,
		Date:     path.Date,
	}
}
