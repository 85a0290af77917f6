package branchbackend

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SlotScheduler/internal/domain"
	"github.com/m04kA/SMC-SlotScheduler/pkg/logger"
	"github.com/m04kA/SMC-SlotScheduler/pkg/slotengine"
	"github.com/m04kA/SMC-SlotScheduler/pkg/types"
)

type recordedCall struct {
	operation string
	failed    bool
}

type fakeMetrics struct {
	calls []recordedCall
}

func (f *fakeMetrics) ObserveBackendCall(operation string, err error, _ time.Duration) {
	f.calls = append(f.calls, recordedCall{operation: operation, failed: err != nil})
}

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *fakeMetrics) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	m := &fakeMetrics{}
	client := NewClient(server.URL, 5*time.Second, Options{
		FetchPath:    "/api/{feature}/slots/information",
		SubmitPath:   "/api/{feature}/slots/save",
		Retries:      2,
		RetryBackoff: time.Millisecond,
	}, logger.NewNop(), m)
	return client, m
}

func TestClient_FetchSlots(t *testing.T) {
	var got fetchSlotsRequest
	client, m := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/appointment/slots/information", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		_, _ = w.Write([]byte(`{"StatusCode":605,"Data":{"Table":[
			{"SlotID":101,"AppointmentDate":"2025-02-01T00:00:00","StartTime":"09:00:00","EndTime":"09:30:00","MaximumVisitors":10,"AppoitmentsBooked":10,"IsActive":true},
			{"SlotID":"102","AppointmentDate":"2025-02-01","StartTime":"09:30","EndTime":"10:00","MaximumVisitors":"10","AppoitmentsBooked":"3","IsActive":1},
			{"SlotID":103,"AppointmentDate":"not a date","StartTime":"10:00","EndTime":"10:30","MaximumVisitors":10}
		]}}`))
	})

	slots, err := client.FetchSlots(context.Background(), domain.FeatureAppointment, 7,
		types.MustDate("2025-01-26"), types.MustDate("2025-03-08"))
	require.NoError(t, err)

	assert.Equal(t, fetchSlotsRequest{
		Type:     "GetSlotsInformationCreateSlotScreen",
		BranchID: 7,
		FromDate: "2025-01-26",
		ToDate:   "2025-03-08",
	}, got)

	require.Len(t, slots, 2, "malformed rows are skipped")
	assert.Equal(t, slotengine.Slot{
		ID: "101", Date: types.MustDate("2025-02-01"), StartTime: "09:00", EndTime: "09:30",
		Capacity: 10, BookedCount: 10, IsActive: true, State: slotengine.LifecycleExisting,
	}, slots[0])
	assert.Equal(t, "102", slots[1].ID)
	assert.Equal(t, 3, slots[1].BookedCount)

	require.Len(t, m.calls, 1)
	assert.Equal(t, recordedCall{operation: operationFetch}, m.calls[0])
}

func TestClient_FetchSlots_NonSuccessStatus(t *testing.T) {
	client, m := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"StatusCode":500,"Message":"branch not found","Data":null}`))
	})

	_, err := client.FetchSlots(context.Background(), domain.FeatureWetland, 1,
		types.MustDate("2025-01-01"), types.MustDate("2025-01-31"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUpstreamFailure)
	assert.Contains(t, err.Error(), "branch not found")

	require.Len(t, m.calls, 1)
	assert.True(t, m.calls[0].failed)
}

func TestClient_RetriesTransientFailures(t *testing.T) {
	var attempts int32
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&attempts, 1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`{"StatusCode":605,"Data":{"Table":[]}}`))
	})

	slots, err := client.FetchSlots(context.Background(), domain.FeatureWetland, 1,
		types.MustDate("2025-01-01"), types.MustDate("2025-01-31"))
	require.NoError(t, err)
	assert.Empty(t, slots)
	assert.Equal(t, int32(3), atomic.LoadInt32(&attempts), "one attempt plus two retries")
}

func TestClient_GivesUpAfterRetries(t *testing.T) {
	var attempts int32
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&attempts, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	_, err := client.FetchSlots(context.Background(), domain.FeatureWetland, 1,
		types.MustDate("2025-01-01"), types.MustDate("2025-01-31"))
	assert.ErrorIs(t, err, ErrUpstreamFailure)
	assert.Equal(t, int32(3), atomic.LoadInt32(&attempts))
}

func TestClient_DoesNotRetryClientErrors(t *testing.T) {
	var attempts int32
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&attempts, 1)
		w.WriteHeader(http.StatusBadRequest)
	})

	_, err := client.FetchSlots(context.Background(), domain.FeatureWetland, 1,
		types.MustDate("2025-01-01"), types.MustDate("2025-01-31"))
	assert.ErrorIs(t, err, ErrUpstreamFailure)
	assert.Equal(t, int32(1), atomic.LoadInt32(&attempts))
}

func TestClient_SubmitBatch(t *testing.T) {
	batch := &slotengine.SlotMutationBatch{
		Date:      types.MustDate("2025-03-10"),
		SlotCount: 2,
		Slots: []slotengine.SlotMutationEntry{
			{SlotID: "12", DurationMinutes: 30, MaxVisitors: 20, StartTime: "09:00", EndTime: "09:30", IsDeleted: true, Reason: "staff shortage"},
			{DurationMinutes: 30, MaxVisitors: 15, StartTime: "09:30", EndTime: "10:00"},
		},
	}

	tests := []struct {
		name     string
		response string
		wantErr  bool
	}{
		{name: "accepted", response: `{"StatusCode":605,"Data":{"IsSuccess":0}}`},
		{name: "rejected by IsSuccess", response: `{"StatusCode":605,"Data":{"IsSuccess":1,"Message":"overlap"}}`, wantErr: true},
		{name: "missing IsSuccess", response: `{"StatusCode":605,"Data":{}}`, wantErr: true},
		{name: "failed status", response: `{"StatusCode":400,"Data":{"IsSuccess":0}}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got map[string]interface{}
			client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/api/wetland/slots/save", r.URL.Path)
				assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
				_, _ = w.Write([]byte(tt.response))
			})

			err := client.SubmitBatch(context.Background(), domain.FeatureWetland, 3, batch)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUpstreamFailure)
				return
			}
			require.NoError(t, err)

			assert.Equal(t, float64(3), got["BranchID"])
			assert.Equal(t, "2025-03-10", got["SlotDate"])
			assert.Equal(t, float64(2), got["SlotCount"])

			slots := got["Slots"].([]interface{})
			require.Len(t, slots, 2)
			deleted := slots[0].(map[string]interface{})
			assert.Equal(t, "12", deleted["SlotID"])
			assert.Equal(t, true, deleted["IsDeleted"])
			assert.Equal(t, "staff shortage", deleted["Reason"])
			assert.Equal(t, float64(30), deleted["SlotDuration"])
			created := slots[1].(map[string]interface{})
			assert.Equal(t, "", created["SlotID"])
			assert.Equal(t, float64(15), created["MaximumVisitors"])
		})
	}
}

func TestClient_SubmitBatch_NotRetriedAfterServerResponse(t *testing.T) {
	batch := &slotengine.SlotMutationBatch{
		Date:      types.MustDate("2025-03-10"),
		SlotCount: 1,
		Slots: []slotengine.SlotMutationEntry{
			{DurationMinutes: 30, MaxVisitors: 15, StartTime: "09:30", EndTime: "10:00"},
		},
	}

	for _, status := range []int{http.StatusGatewayTimeout, http.StatusBadGateway, http.StatusInternalServerError} {
		t.Run(http.StatusText(status), func(t *testing.T) {
			var attempts int32
			client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				if atomic.AddInt32(&attempts, 1) == 1 {
					w.WriteHeader(status)
					return
				}
				_, _ = w.Write([]byte(`{"StatusCode":605,"Data":{"IsSuccess":0}}`))
			})

			err := client.SubmitBatch(context.Background(), domain.FeatureAppointment, 3, batch)

			assert.ErrorIs(t, err, ErrUpstreamFailure)
			assert.Equal(t, int32(1), atomic.LoadInt32(&attempts), "submit reached the server once")
		})
	}
}

func TestRetryableTransportError(t *testing.T) {
	dialErr := &url.Error{Op: "Post", URL: "http://backend", Err: &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")}}
	readErr := &url.Error{Op: "Post", URL: "http://backend", Err: &net.OpError{Op: "read", Net: "tcp", Err: errors.New("connection reset by peer")}}
	timeoutErr := &url.Error{Op: "Post", URL: "http://backend", Err: context.DeadlineExceeded}
	canceledErr := &url.Error{Op: "Post", URL: "http://backend", Err: context.Canceled}

	tests := []struct {
		name       string
		err        error
		idempotent bool
		want       bool
	}{
		{name: "fetch after dial failure", err: dialErr, idempotent: true, want: true},
		{name: "fetch after read failure", err: readErr, idempotent: true, want: true},
		{name: "fetch after timeout", err: timeoutErr, idempotent: true, want: true},
		{name: "fetch cancelled", err: canceledErr, idempotent: true, want: false},
		{name: "submit after dial failure", err: dialErr, idempotent: false, want: true},
		{name: "submit after read failure", err: readErr, idempotent: false, want: false},
		{name: "submit after timeout", err: timeoutErr, idempotent: false, want: false},
		{name: "submit cancelled", err: canceledErr, idempotent: false, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, retryableTransportError(tt.err, tt.idempotent))
		})
	}
}

func TestClient_ContextCancelledDuringBackoff(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second, Options{
		FetchPath:    "/fetch",
		Retries:      2,
		RetryBackoff: time.Hour,
	}, logger.NewNop(), nil)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := client.FetchSlots(ctx, domain.FeatureAppointment, 1,
		types.MustDate("2025-01-01"), types.MustDate("2025-01-31"))
	assert.ErrorIs(t, err, ErrUpstreamFailure)
}
