package remove_draft_slot

import (
	"context"

	"github.com/m04kA/SMC-SlotScheduler/internal/service/drafts/models"
)

type DraftService interface {
	RemoveSlot(ctx context.Context, req *models.RemoveSlotRequest) (*models.DraftResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
