package submit_draft

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SlotScheduler/internal/domain"
	submitDraft "github.com/m04kA/SMC-SlotScheduler/internal/usecase/submit_draft"
	"github.com/m04kA/SMC-SlotScheduler/pkg/logger"
	"github.com/m04kA/SMC-SlotScheduler/pkg/types"
)

type fakeUseCase struct {
	got *submitDraft.Request
	err error
}

func (f *fakeUseCase) Execute(_ context.Context, req *submitDraft.Request) (*submitDraft.Response, error) {
	f.got = req
	if f.err != nil {
		return nil, f.err
	}
	return &submitDraft.Response{
		Feature:      req.Feature,
		BranchID:     req.BranchID,
		Date:         req.Date,
		SlotCount:    3,
		NewSlots:     1,
		DeletedSlots: 1,
	}, nil
}

func newRequest(body io.Reader) *http.Request {
	r := httptest.NewRequest(http.MethodPost, "/draft/submit", body)
	return mux.SetURLVars(r, map[string]string{"feature": "appointment", "branchId": "21", "date": "2025-10-15"})
}

func TestHandler_Success(t *testing.T) {
	uc := &fakeUseCase{}
	h := NewHandler(uc, logger.NewNop())

	rr := httptest.NewRecorder()
	h.Handle(rr, newRequest(strings.NewReader(`{"expectedVersion":4}`)))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, domain.FeatureAppointment, uc.got.Feature)
	assert.Equal(t, types.MustDate("2025-10-15"), uc.got.Date)
	require.NotNil(t, uc.got.ExpectedVersion)
	assert.Equal(t, int64(4), *uc.got.ExpectedVersion)

	var body SubmitDraftResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, SubmitDraftResponse{
		Feature: "appointment", BranchID: 21, Date: "2025-10-15", SlotCount: 3, NewSlots: 1, DeletedSlots: 1,
	}, body)
}

func TestHandler_EmptyBody(t *testing.T) {
	uc := &fakeUseCase{}
	h := NewHandler(uc, logger.NewNop())

	rr := httptest.NewRecorder()
	h.Handle(rr, newRequest(nil))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Nil(t, uc.got.ExpectedVersion)
}

func TestHandler_Errors(t *testing.T) {
	tests := []struct {
		name     string
		ucErr    error
		wantCode int
	}{
		{name: "not found", ucErr: submitDraft.ErrDraftNotFound, wantCode: http.StatusNotFound},
		{name: "no changes", ucErr: submitDraft.ErrNoChanges, wantCode: http.StatusBadRequest},
		{name: "version mismatch", ucErr: submitDraft.ErrConflict, wantCode: http.StatusConflict},
		{name: "overlap", ucErr: fmt.Errorf("%w: 09:00", submitDraft.ErrOverlap), wantCode: http.StatusConflict},
		{name: "invalid", ucErr: submitDraft.ErrInvalidInput, wantCode: http.StatusBadRequest},
		{name: "rejected", ucErr: fmt.Errorf("%w: IsSuccess=1", submitDraft.ErrUpstreamFailure), wantCode: http.StatusBadGateway},
		{name: "internal", ucErr: submitDraft.ErrInternal, wantCode: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHandler(&fakeUseCase{err: tt.ucErr}, logger.NewNop())

			rr := httptest.NewRecorder()
			h.Handle(rr, newRequest(nil))

			assert.Equal(t, tt.wantCode, rr.Code)
		})
	}
}
