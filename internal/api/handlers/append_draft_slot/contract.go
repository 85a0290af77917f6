package append_draft_slot

import (
	"context"

	"github.com/m04kA/SMC-SlotScheduler/internal/service/drafts/models"
)

type DraftService interface {
	AppendSlot(ctx context.Context, req *models.AppendSlotRequest) (*models.DraftResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
