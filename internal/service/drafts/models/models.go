package models

import (
	"time"

	"github.com/m04kA/SMC-SlotScheduler/internal/domain"
	"github.com/m04kA/SMC-SlotScheduler/pkg/slotengine"
	"github.com/m04kA/SMC-SlotScheduler/pkg/types"
)

// Request модели

// DraftKey адрес черновика: фича, филиал и дата
type DraftKey struct {
	Feature  domain.Feature
	BranchID int64
	Date     types.Date
}

// ToDomain конвертирует адрес в ключ domain
func (k DraftKey) ToDomain() domain.DraftKey {
	return domain.DraftKey{Feature: k.Feature, BranchID: k.BranchID, Date: k.Date}
}

// AppendSlotRequest запрос на добавление слота в конец дня
type AppendSlotRequest struct {
	DraftKey
	DurationMinutes int               // 0 - длительность из настроек филиала
	Capacity        int               // 0 - вместимость из настроек филиала
	StartTime       *types.TimeString // по умолчанию конец последнего слота дня
}

// UpdateSlotRequest запрос на изменение слота. Незаданные поля сохраняют текущее значение.
type UpdateSlotRequest struct {
	DraftKey
	SlotKey         string
	StartTime       *types.TimeString
	DurationMinutes *int
	Capacity        *int
}

// RemoveSlotRequest запрос на удаление слота
type RemoveSlotRequest struct {
	DraftKey
	SlotKey string
	Reason  string
}

// Response модели

// DraftResponse черновик дня со всеми слотами в том виде, в котором они будут отправлены
type DraftResponse struct {
	Feature         domain.Feature        `json:"feature"`
	BranchID        int64                 `json:"branchId"`
	Date            string                `json:"date"` // "2025-10-15"
	Version         int64                 `json:"version"`
	HasChanges      bool                  `json:"hasChanges"`
	SubmitAttempts  int                   `json:"submitAttempts"`
	LastSubmitError *string               `json:"lastSubmitError,omitempty"`
	NextSlotStart   string                `json:"nextSlotStart"` // "10:30"
	Summary         slotengine.DaySummary `json:"summary"`
	Slots           []DraftSlot           `json:"slots"`
	CreatedAt       time.Time             `json:"createdAt"`
	UpdatedAt       time.Time             `json:"updatedAt"`
}

// DraftSlot слот черновика
type DraftSlot struct {
	Key             string `json:"key"` // id из backend или локальный ключ нового слота
	SlotID          string `json:"slotId,omitempty"`
	StartTime       string `json:"startTime"`
	EndTime         string `json:"endTime"`
	DurationMinutes int    `json:"durationMinutes"`
	Capacity        int    `json:"capacity"`
	BookedCount     int    `json:"bookedCount"`
	State           string `json:"state"`  // existing, new, deleted
	Status          string `json:"status"` // available, full
	Reason          string `json:"reason,omitempty"`
}

// SlotKey ключ, по которому слот адресуется в запросах
func SlotKey(s slotengine.Slot) string {
	if s.State == slotengine.LifecycleNew {
		return s.Key
	}
	return s.ID
}

// FromDomain собирает ответ из черновика и его эффективного набора слотов
func FromDomain(d *domain.Draft, slots []slotengine.Slot, nextStart types.TimeString) *DraftResponse {
	resp := &DraftResponse{
		Feature:         d.Feature,
		BranchID:        d.BranchID,
		Date:            d.Date.String(),
		Version:         d.Version,
		HasChanges:      d.HasChanges(),
		SubmitAttempts:  d.SubmitAttempts,
		LastSubmitError: d.LastSubmitError,
		NextSlotStart:   nextStart.String(),
		Summary:         slotengine.SummarizeDay(slots),
		Slots:           make([]DraftSlot, 0, len(slots)),
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
	}

	for _, s := range slots {
		duration, _ := s.DurationMinutes()
		resp.Slots = append(resp.Slots, DraftSlot{
			Key:             SlotKey(s),
			SlotID:          s.ID,
			StartTime:       s.StartTime.String(),
			EndTime:         s.EndTime.String(),
			DurationMinutes: duration,
			Capacity:        s.Capacity,
			BookedCount:     s.BookedCount,
			State:           s.State.String(),
			Status:          string(slotengine.ClassifySlot(s)),
			Reason:          s.Reason,
		})
	}

	return resp
}
