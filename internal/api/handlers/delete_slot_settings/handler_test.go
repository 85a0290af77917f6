package delete_slot_settings

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SMC-SlotScheduler/internal/domain"
	"github.com/m04kA/SMC-SlotScheduler/internal/service/settings"
	"github.com/m04kA/SMC-SlotScheduler/pkg/logger"
)

type fakeService struct {
	called bool
	err    error
}

func (f *fakeService) Reset(_ context.Context, _ domain.Feature, _ *int64) error {
	f.called = true
	return f.err
}

func TestHandler(t *testing.T) {
	tests := []struct {
		name       string
		vars       map[string]string
		svcErr     error
		wantCode   int
		wantCalled bool
	}{
		{name: "feature reset", vars: map[string]string{"feature": "appointment"}, wantCode: http.StatusNoContent, wantCalled: true},
		{name: "branch reset", vars: map[string]string{"feature": "appointment", "branchId": "4"}, wantCode: http.StatusNoContent, wantCalled: true},
		{name: "not found", vars: map[string]string{"feature": "appointment"}, svcErr: settings.ErrSettingsNotFound, wantCode: http.StatusNotFound, wantCalled: true},
		{name: "bad branch", vars: map[string]string{"feature": "appointment", "branchId": "-1"}, wantCode: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeService{err: tt.svcErr}
			h := NewHandler(svc, logger.NewNop())

			r := httptest.NewRequest(http.MethodDelete, "/settings", nil)
			r = mux.SetURLVars(r, tt.vars)
			rr := httptest.NewRecorder()
			h.Handle(rr, r)

			assert.Equal(t, tt.wantCode, rr.Code)
			assert.Equal(t, tt.wantCalled, svc.called)
		})
	}
}
