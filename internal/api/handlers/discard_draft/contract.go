package discard_draft

import (
	"context"

	"github.com/m04kA/SMC-SlotScheduler/internal/service/drafts/models"
)

type DraftService interface {
	Discard(ctx context.Context, key models.DraftKey) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
