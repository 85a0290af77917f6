package submit_draft

import (
	"context"

	"github.com/m04kA/SMC-SlotScheduler/internal/domain"
	"github.com/m04kA/SMC-SlotScheduler/pkg/slotengine"
)

// DraftRepository интерфейс репозитория черновиков
type DraftRepository interface {
	GetByKey(ctx context.Context, key domain.DraftKey) (*domain.Draft, error)
	RecordSubmitFailure(ctx context.Context, id int64, submitErr string) error
	Delete(ctx context.Context, id int64) error
}

// SlotBackendClient интерфейс клиента backend API слотов
type SlotBackendClient interface {
	SubmitBatch(ctx context.Context, feature domain.Feature, branchID int64, batch *slotengine.SlotMutationBatch) error
}

// CalendarInvalidator сбрасывает закэшированные календари филиала
type CalendarInvalidator interface {
	InvalidateBranch(feature domain.Feature, branchID int64) int
}

// MetricsRecorder учитывает отправки слотов
type MetricsRecorder interface {
	BatchSubmitted(feature, outcome string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
