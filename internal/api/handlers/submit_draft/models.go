package submit_draft

import (
	"github.com/m04kA/SMC-SlotScheduler/internal/api/handlers"
	submitDraft "github.com/m04kA/SMC-SlotScheduler/internal/usecase/submit_draft"
)

// SubmitDraftRequest HTTP request model (тело запроса необязательно)
type SubmitDraftRequest struct {
	ExpectedVersion *int64 `json:"expectedVersion,omitempty"`
}

// SubmitDraftResponse HTTP response model
type SubmitDraftResponse struct {
	Feature      string `json:"feature"`
	BranchID     int64  `json:"branchId"`
	Date         string `json:"date"`
	SlotCount    int    `json:"slotCount"`
	NewSlots     int    `json:"newSlots"`
	DeletedSlots int    `json:"deletedSlots"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *SubmitDraftRequest) ToUseCaseRequest(path handlers.DayPath) *submitDraft.Request {
	return &submitDraft.Request{
		Feature:         path.Feature,
		BranchID:        path.BranchID,
		Date:            path.Date,
		ExpectedVersion: r.ExpectedVersion,
	}
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *submitDraft.Response) *SubmitDraftResponse {
	return &SubmitDraftResponse{
		Feature:      resp.Feature.String(),
		BranchID:     resp.BranchID,
		Date:         resp.Date.String(),
		SlotCount:    resp.SlotCount,
		NewSlots:     resp.NewSlots,
		DeletedSlots: resp.DeletedSlots,
	}
}
