package settings

import (
	"context"

	"github.com/m04kA/SMC-SlotScheduler/internal/domain"
)

// SettingsRepository интерфейс репозитория настроек слотов
type SettingsRepository interface {
	Create(ctx context.Context, s *domain.SlotSettings) (*domain.SlotSettings, error)
	GetByFeatureAndBranch(ctx context.Context, feature domain.Feature, branchID *int64) (*domain.SlotSettings, error)
	GetWithHierarchy(ctx context.Context, feature domain.Feature, branchID int64) (*domain.SlotSettings, error)
	Update(ctx context.Context, id int64, s *domain.SlotSettings) (*domain.SlotSettings, error)
	Delete(ctx context.Context, id int64) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
