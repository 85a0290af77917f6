package list_drafts

import (
	"context"

	"github.com/m04kA/SMC-SlotScheduler/internal/domain"
	"github.com/m04kA/SMC-SlotScheduler/internal/service/drafts/models"
)

type DraftService interface {
	ListBranchDrafts(ctx context.Context, feature domain.Feature, branchID int64) ([]*models.DraftResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
