package get_month_calendar

import (
	"time"

	"github.com/m04kA/SMC-SlotScheduler/internal/domain"
	"github.com/m04kA/SMC-SlotScheduler/pkg/slotengine"
	"github.com/m04kA/SMC-SlotScheduler/pkg/types"
)

// Request модель запроса календаря месяца
type Request struct {
	Feature   domain.Feature
	BranchID  int64
	Month     int
	Year      int
	WeekStart *slotengine.WeekStart // по умолчанию берется из настроек фичи
}

// Response модель ответа с календарем на 42 дня
type Response struct {
	Feature   domain.Feature
	BranchID  int64
	Month     time.Month
	Year      int
	WeekStart slotengine.WeekStart
	Stale     bool      // backend недоступен, показан последний успешно загруженный календарь
	FetchedAt time.Time // время загрузки показанных данных
	Days      []Day
	Unplaced  []slotengine.Slot // слоты, не попавшие в сетку
}

// Day модель ячейки календаря
type Day struct {
	Date    types.Date
	InMonth bool
	IsToday bool
	IsPast  bool
	Summary slotengine.DaySummary
	Slots   []Slot
}

// Slot модель слота со статусом заполненности
type Slot struct {
	slotengine.Slot
	Status    slotengine.Status
	Remaining int
}
