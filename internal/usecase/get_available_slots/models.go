package get_available_slots

import (
	"github.com/m04kA/SMC-SlotScheduler/internal/domain"
	"github.com/m04kA/SMC-SlotScheduler/pkg/types"
)

// Options ограничения выдачи слотов
type Options struct {
	MinNoticeMinutes int // минимальное время до начала слота сегодняшнего дня
	AdvanceDays      int // на сколько дней вперед можно смотреть слоты, 0 - без ограничения
}

// Request модель запроса на получение свободных слотов дня
type Request struct {
	Feature  domain.Feature
	BranchID int64
	Date     types.Date
}

// Response модель ответа со списком свободных слотов
type Response struct {
	Feature  domain.Feature
	BranchID int64
	Date     types.Date
	Slots    []Slot
}

// Slot модель свободного слота
type Slot struct {
	SlotID          string
	StartTime       types.TimeString // Время начала слота (например, "10:00")
	EndTime         types.TimeString
	DurationMinutes int // Длительность слота в минутах
	AvailableSpots  int // Количество свободных мест
	TotalSpots      int // Общее количество мест
}
