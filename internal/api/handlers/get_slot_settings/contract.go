package get_slot_settings

import (
	"context"

	"github.com/m04kA/SMC-SlotScheduler/internal/domain"
	"github.com/m04kA/SMC-SlotScheduler/internal/service/settings/models"
)

type SettingsService interface {
	GetEffective(ctx context.Context, feature domain.Feature, branchID int64) (*models.SettingsResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
