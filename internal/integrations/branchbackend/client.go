package branchbackend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/m04kA/SMC-SlotScheduler/internal/domain"
	"github.com/m04kA/SMC-SlotScheduler/pkg/slotengine"
	"github.com/m04kA/SMC-SlotScheduler/pkg/types"
)

const (
	operationFetch  = "fetch_slots"
	operationSubmit = "submit_slots"

	featurePlaceholder = "{feature}"
)

// Options настройки клиента backend API
type Options struct {
	FetchPath    string
	SubmitPath   string
	Retries      int
	RetryBackoff time.Duration
}

// Client клиент удаленного backend API слотов филиала
type Client struct {
	baseURL    string
	opts       Options
	httpClient *http.Client
	log        Logger
	metrics    MetricsRecorder
}

// NewClient создает новый экземпляр клиента backend API
func NewClient(baseURL string, timeout time.Duration, opts Options, log Logger, metrics MetricsRecorder) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		opts:    opts,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log:     log,
		metrics: metrics,
	}
}

// FetchSlots получает слоты филиала за диапазон дат включительно
func (c *Client) FetchSlots(ctx context.Context, feature domain.Feature, branchID int64, from, to types.Date) (slots []slotengine.Slot, err error) {
	started := time.Now()
	defer func() { c.observe(operationFetch, err, started) }()

	body := fetchSlotsRequest{
		Type:     domain.FetchSlotsRequestType,
		BranchID: branchID,
		FromDate: from.String(),
		ToDate:   to.String(),
	}

	env, err := c.post(ctx, c.path(c.opts.FetchPath, feature), body, true)
	if err != nil {
		return nil, err
	}

	if !responseSucceeded(env) {
		return nil, fmt.Errorf("%w: fetch returned status %d: %s", ErrUpstreamFailure, env.StatusCode, env.Message)
	}

	var table slotTable
	if len(env.Data) > 0 && !bytes.Equal(env.Data, []byte("null")) {
		if err := json.Unmarshal(env.Data, &table); err != nil {
			return nil, fmt.Errorf("%w: %w: failed to decode slot table: %v", ErrUpstreamFailure, ErrInvalidResponse, err)
		}
	}

	mapping := MappingFor(feature)
	slots = make([]slotengine.Slot, 0, len(table.Table))
	for _, row := range table.Table {
		slot, err := mapping.ToSlot(row)
		if err != nil {
			c.log.Warn("FetchSlots: skipping malformed slot row for branch=%d: %v", branchID, err)
			continue
		}
		slots = append(slots, slot)
	}

	c.log.Info("FetchSlots: fetched %d slots for feature=%s, branch=%d, range=%s..%s",
		len(slots), feature, branchID, from, to)
	return slots, nil
}

// SubmitBatch отправляет полную конфигурацию слотов дня
func (c *Client) SubmitBatch(ctx context.Context, feature domain.Feature, branchID int64, batch *slotengine.SlotMutationBatch) (err error) {
	started := time.Now()
	defer func() { c.observe(operationSubmit, err, started) }()

	if batch == nil {
		return fmt.Errorf("%w: nil batch", ErrInternal)
	}

	body := submitSlotsRequest{
		BranchID:  branchID,
		SlotDate:  batch.Date.String(),
		SlotCount: batch.SlotCount,
		Slots:     make([]submitSlot, 0, len(batch.Slots)),
	}
	for _, entry := range batch.Slots {
		body.Slots = append(body.Slots, submitSlot{
			SlotID:          entry.SlotID,
			SlotDuration:    entry.DurationMinutes,
			MaximumVisitors: entry.MaxVisitors,
			StartTime:       entry.StartTime.String(),
			EndTime:         entry.EndTime.String(),
			IsDeleted:       entry.IsDeleted,
			Reason:          entry.Reason,
		})
	}

	// отправка неидемпотентна: новые слоты уходят без SlotID
	env, err := c.post(ctx, c.path(c.opts.SubmitPath, feature), body, false)
	if err != nil {
		return err
	}

	var result submitResult
	if len(env.Data) > 0 && !bytes.Equal(env.Data, []byte("null")) {
		if err := json.Unmarshal(env.Data, &result); err != nil {
			return fmt.Errorf("%w: %w: failed to decode submit result: %v", ErrUpstreamFailure, ErrInvalidResponse, err)
		}
	}

	if !submissionAccepted(env, &result) {
		message := result.Message
		if message == "" {
			message = env.Message
		}
		return fmt.Errorf("%w: submit rejected (status=%d, isSuccess=%d): %s",
			ErrUpstreamFailure, env.StatusCode, result.IsSuccess.Value, message)
	}

	c.log.Info("SubmitBatch: submitted %d slots for feature=%s, branch=%d, date=%s",
		batch.SlotCount, feature, branchID, batch.Date)
	return nil
}

// post выполняет запрос и повторяет его с линейной задержкой.
// Идемпотентный запрос повторяется при сетевых ошибках и 5xx, неидемпотентный
// только если соединение с сервером не было установлено.
func (c *Client) post(ctx context.Context, path string, body interface{}, idempotent bool) (*envelope, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to encode request: %v", ErrInternal, err)
	}

	var lastErr error
	for attempt := 0; attempt <= c.opts.Retries; attempt++ {
		if attempt > 0 {
			delay := c.opts.RetryBackoff * time.Duration(attempt)
			c.log.Warn("Backend request %s failed, retry %d/%d in %s: %v", path, attempt, c.opts.Retries, delay, lastErr)

			select {
			case <-ctx.Done():
				return nil, fmt.Errorf("%w: %v", ErrUpstreamFailure, ctx.Err())
			case <-time.After(delay):
			}
		}

		env, retryable, err := c.do(ctx, path, payload, idempotent)
		if err == nil {
			return env, nil
		}
		if !retryable {
			return nil, err
		}
		lastErr = err
	}

	return nil, lastErr
}

// do выполняет одну попытку запроса, второе значение сообщает, можно ли ее повторить
func (c *Client) do(ctx context.Context, path string, payload []byte, idempotent bool) (*envelope, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, false, fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, retryableTransportError(err, idempotent), fmt.Errorf("%w: failed to execute request: %v", ErrUpstreamFailure, err)
	}
	defer resp.Body.Close()

	// Обработка статус-кодов
	switch {
	case resp.StatusCode >= http.StatusInternalServerError:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, idempotent, fmt.Errorf("%w: status code %d: %s", ErrUpstreamFailure, resp.StatusCode, string(body))
	case resp.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, false, fmt.Errorf("%w: unexpected status code %d: %s", ErrUpstreamFailure, resp.StatusCode, string(body))
	}

	// Парсим ответ
	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, false, fmt.Errorf("%w: %w: failed to decode response: %v", ErrUpstreamFailure, ErrInvalidResponse, err)
	}

	return &env, false, nil
}

// retryableTransportError сообщает, можно ли повторить запрос после ошибки транспорта.
// Отмена контекста вызывающей стороной не повторяется.
func retryableTransportError(err error, idempotent bool) bool {
	if errors.Is(err, context.Canceled) {
		return false
	}
	if idempotent {
		return true
	}

	// запрос точно не дошел до сервера
	var opErr *net.OpError
	return errors.As(err, &opErr) && opErr.Op == "dial"
}

func (c *Client) path(template string, feature domain.Feature) string {
	return strings.ReplaceAll(template, featurePlaceholder, feature.String())
}

func (c *Client) observe(operation string, err error, started time.Time) {
	if c.metrics == nil {
		return
	}
	c.metrics.ObserveBackendCall(operation, err, time.Since(started))
}
