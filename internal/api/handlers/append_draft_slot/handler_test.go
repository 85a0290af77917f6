package append_draft_slot

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SlotScheduler/internal/domain"
	"github.com/m04kA/SMC-SlotScheduler/internal/service/drafts"
	"github.com/m04kA/SMC-SlotScheduler/internal/service/drafts/models"
	"github.com/m04kA/SMC-SlotScheduler/pkg/logger"
	"github.com/m04kA/SMC-SlotScheduler/pkg/types"
)

type fakeService struct {
	got *models.AppendSlotRequest
	err error
}

func (f *fakeService) AppendSlot(_ context.Context, req *models.AppendSlotRequest) (*models.DraftResponse, error) {
	f.got = req
	if f.err != nil {
		return nil, f.err
	}
	return &models.DraftResponse{Feature: req.Feature, BranchID: req.BranchID, Date: req.Date.String(), NextSlotStart: "10:00"}, nil
}

func newRequest(date, body string) *http.Request {
	r := httptest.NewRequest(http.MethodPost, "/draft/slots", strings.NewReader(body))
	return mux.SetURLVars(r, map[string]string{"feature": "appointment", "branchId": "5", "date": date})
}

func TestHandler_Success(t *testing.T) {
	svc := &fakeService{}
	h := NewHandler(svc, logger.NewNop())

	rr := httptest.NewRecorder()
	h.Handle(rr, newRequest("2025-10-15", `{"durationMinutes":30,"capacity":3,"startTime":"09:30"}`))

	require.Equal(t, http.StatusCreated, rr.Code)
	require.NotNil(t, svc.got)
	assert.Equal(t, domain.FeatureAppointment, svc.got.Feature)
	assert.Equal(t, int64(5), svc.got.BranchID)
	assert.Equal(t, types.MustDate("2025-10-15"), svc.got.Date)
	assert.Equal(t, 30, svc.got.DurationMinutes)
	assert.Equal(t, 3, svc.got.Capacity)
	require.NotNil(t, svc.got.StartTime)
	assert.Equal(t, types.TimeString("09:30"), *svc.got.StartTime)
	assert.Contains(t, rr.Body.String(), `"nextSlotStart":"10:00"`)
}

func TestHandler_DefaultStart(t *testing.T) {
	svc := &fakeService{}
	h := NewHandler(svc, logger.NewNop())

	rr := httptest.NewRecorder()
	h.Handle(rr, newRequest("2025-10-15", `{"durationMinutes":45,"capacity":1}`))

	require.Equal(t, http.StatusCreated, rr.Code)
	assert.Nil(t, svc.got.StartTime)
}

func TestHandler_Errors(t *testing.T) {
	tests := []struct {
		name     string
		date     string
		body     string
		svcErr   error
		wantCode int
	}{
		{name: "bad date", date: "2025-1-5", body: `{"durationMinutes":30,"capacity":1}`, wantCode: http.StatusBadRequest},
		{name: "bad body", date: "2025-10-15", body: `{"duration":30}`, wantCode: http.StatusBadRequest},
		{name: "bad start", date: "2025-10-15", body: `{"durationMinutes":30,"capacity":1,"startTime":"9h"}`, wantCode: http.StatusBadRequest},
		{name: "invalid slot", date: "2025-10-15", body: `{"durationMinutes":-5,"capacity":1}`,
			svcErr: fmt.Errorf("%w: duration", drafts.ErrInvalidInput), wantCode: http.StatusBadRequest},
		{name: "overlap", date: "2025-10-15", body: `{"durationMinutes":30,"capacity":1}`,
			svcErr: fmt.Errorf("%w: 09:00-09:30", drafts.ErrOverlap), wantCode: http.StatusConflict},
		{name: "concurrent edit", date: "2025-10-15", body: `{"durationMinutes":30,"capacity":1}`,
			svcErr: drafts.ErrConflict, wantCode: http.StatusConflict},
		{name: "upstream", date: "2025-10-15", body: `{"durationMinutes":30,"capacity":1}`,
			svcErr: drafts.ErrUpstreamFailure, wantCode: http.StatusBadGateway},
		{name: "internal", date: "2025-10-15", body: `{"durationMinutes":30,"capacity":1}`,
			svcErr: drafts.ErrInternal, wantCode: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHandler(&fakeService{err: tt.svcErr}, logger.NewNop())

			rr := httptest.NewRecorder()
			h.Handle(rr, newRequest(tt.date, tt.body))

			assert.Equal(t, tt.wantCode, rr.Code)
		})
	}
}
