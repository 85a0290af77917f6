package get_draft

import (
	"context"

	"github.com/m04kA/SMC-SlotScheduler/internal/service/drafts/models"
)

type DraftService interface {
	Open(ctx context.Context, key models.DraftKey) (*models.DraftResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
