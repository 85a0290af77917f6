package models

import (
	"time"

	"github.com/m04kA/SMC-SlotScheduler/internal/domain"
	"github.com/m04kA/SMC-SlotScheduler/pkg/types"
)

// Request модели

// UpsertSettingsRequest запрос на создание или изменение настроек.
// BranchID == nil - настройки фичи для всех филиалов.
// Незаданные поля сохраняют текущее (или унаследованное) значение.
type UpsertSettingsRequest struct {
	Feature             domain.Feature
	BranchID            *int64
	SlotDurationMinutes *int
	DefaultCapacity     *int
	DayStart            *types.TimeString
}

// ApplyTo применяет заданные поля запроса к настройкам
func (r *UpsertSettingsRequest) ApplyTo(s *domain.SlotSettings) {
	if r.SlotDurationMinutes != nil {
		s.SlotDurationMinutes = *r.SlotDurationMinutes
	}
	if r.DefaultCapacity != nil {
		s.DefaultCapacity = *r.DefaultCapacity
	}
	if r.DayStart != nil {
		s.DayStart = *r.DayStart
	}
}

// Response модели

// SettingsResponse действующие настройки слотов
type SettingsResponse struct {
	Feature             domain.Feature       `json:"feature"`
	BranchID            *int64               `json:"branchId,omitempty"`
	Level               domain.SettingsLevel `json:"level"` // branch, feature, default
	SlotDurationMinutes int                  `json:"slotDurationMinutes"`
	DefaultCapacity     int                  `json:"defaultCapacity"`
	DayStart            string               `json:"dayStart"`
	UpdatedAt           *time.Time           `json:"updatedAt,omitempty"`
}

// FromDomain конвертирует domain модель в DTO
func FromDomain(s *domain.SlotSettings) *SettingsResponse {
	resp := &SettingsResponse{
		Feature:             s.Feature,
		BranchID:            s.BranchID,
		Level:               s.Level(),
		SlotDurationMinutes: s.SlotDurationMinutes,
		DefaultCapacity:     s.DefaultCapacity,
		DayStart:            s.DayStart.String(),
	}
	if !s.UpdatedAt.IsZero() {
		updatedAt := s.UpdatedAt
		resp.UpdatedAt = &updatedAt
	}
	return resp
}
