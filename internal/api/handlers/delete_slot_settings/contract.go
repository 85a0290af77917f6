package delete_slot_settings

import (
	"context"

	"github.com/m04kA/SMC-SlotScheduler/internal/domain"
)

type SettingsService interface {
	Reset(ctx context.Context, feature domain.Feature, branchID *int64) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
