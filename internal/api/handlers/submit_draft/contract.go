package submit_draft

import (
	"context"

	submitDraft "github.com/m04kA/SMC-SlotScheduler/internal/usecase/submit_draft"
)

type SubmitDraftUseCase interface {
	Execute(ctx context.Context, req *submitDraft.Request) (*submitDraft.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
