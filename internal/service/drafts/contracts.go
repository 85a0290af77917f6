package drafts

import (
	"context"

	"github.com/m04kA/SMC-SlotScheduler/internal/domain"
	"github.com/m04kA/SMC-SlotScheduler/pkg/slotengine"
	"github.com/m04kA/SMC-SlotScheduler/pkg/types"
)

// DraftRepository интерфейс репозитория черновиков
type DraftRepository interface {
	Create(ctx context.Context, draft *domain.Draft) (*domain.Draft, error)
	GetByKey(ctx context.Context, key domain.DraftKey) (*domain.Draft, error)
	ListByBranch(ctx context.Context, feature domain.Feature, branchID int64) ([]*domain.Draft, error)
	UpdateEdits(ctx context.Context, draft *domain.Draft) (*domain.Draft, error)
	Delete(ctx context.Context, id int64) error
}

// SlotBackendClient интерфейс клиента backend API слотов
type SlotBackendClient interface {
	FetchSlots(ctx context.Context, feature domain.Feature, branchID int64, from, to types.Date) ([]slotengine.Slot, error)
}

// SettingsProvider источник действующих настроек слотов филиала
type SettingsProvider interface {
	Effective(ctx context.Context, feature domain.Feature, branchID int64) (*domain.SlotSettings, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
