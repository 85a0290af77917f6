package get_month_calendar

import (
	"fmt"
	"strconv"
	"time"

	"github.com/m04kA/SMC-SlotScheduler/internal/api/handlers"
	getMonthCalendar "github.com/m04kA/SMC-SlotScheduler/internal/usecase/get_month_calendar"
	"github.com/m04kA/SMC-SlotScheduler/pkg/slotengine"
)

// CalendarResponse HTTP response model
type CalendarResponse struct {
	Feature   string        `json:"feature"`
	BranchID  int64         `json:"branchId"`
	Month     int           `json:"month"`
	Year      int           `json:"year"`
	WeekStart string        `json:"weekStart"`
	Stale     bool          `json:"stale"`
	FetchedAt time.Time     `json:"fetchedAt"`
	Days      []CalendarDay `json:"days"`
	Unplaced  []SlotView    `json:"unplaced,omitempty"`
}

// CalendarDay ячейка календаря
type CalendarDay struct {
	Date    string                `json:"date"`
	InMonth bool                  `json:"inMonth"`
	IsToday bool                  `json:"isToday"`
	IsPast  bool                  `json:"isPast"`
	Status  string                `json:"status"` // empty, available, full
	Summary slotengine.DaySummary `json:"summary"`
	Slots   []SlotView            `json:"slots"`
}

// SlotView слот в календаре
type SlotView struct {
	SlotID          string `json:"slotId"`
	Date            string `json:"date"`
	StartTime       string `json:"startTime"`
	EndTime         string `json:"endTime"`
	DurationMinutes int    `json:"durationMinutes"`
	Capacity        int    `json:"capacity"`
	BookedCount     int    `json:"bookedCount"`
	Remaining       int    `json:"remaining"`
	IsActive        bool   `json:"isActive"`
	Status          string `json:"status"`
}

// ToUseCaseRequest создает запрос use case из параметров пути и query параметров
func ToUseCaseRequest(path handlers.BranchPath, monthStr, yearStr, weekStartStr string) (*getMonthCalendar.Request, error) {
	month, err := strconv.Atoi(monthStr)
	if err != nil {
		return nil, fmt.Errorf("invalid month %q", monthStr)
	}

	year, err := strconv.Atoi(yearStr)
	if err != nil {
		return nil, fmt.Errorf("invalid year %q", yearStr)
	}

	req := &getMonthCalendar.Request{
		Feature:  path.Feature,
		BranchID: path.BranchID,
		Month:    month,
		Year:     year,
	}

	if weekStartStr != "" {
		ws, err := slotengine.ParseWeekStart(weekStartStr)
		if err != nil {
			return nil, err
		}
		req.WeekStart = &ws
	}

	return req, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getMonthCalendar.Response) *CalendarResponse {
	days := make([]CalendarDay, len(resp.Days))
	for i, day := range resp.Days {
		slots := make([]SlotView, len(day.Slots))
		for j, s := range day.Slots {
			slots[j] = toSlotView(s.Slot, s.Status, s.Remaining)
		}

		days[i] = CalendarDay{
			Date:    day.Date.String(),
			InMonth: day.InMonth,
			IsToday: day.IsToday,
			IsPast:  day.IsPast,
			Status:  string(day.Summary.Status),
			Summary: day.Summary,
			Slots:   slots,
		}
	}

	var unplaced []SlotView
	for _, s := range resp.Unplaced {
		unplaced = append(unplaced, toSlotView(s, slotengine.ClassifySlot(s), slotengine.RemainingCapacity(s)))
	}

	return &CalendarResponse{
		Feature:   resp.Feature.String(),
		BranchID:  resp.BranchID,
		Month:     int(resp.Month),
		Year:      resp.Year,
		WeekStart: resp.WeekStart.String(),
		Stale:     resp.Stale,
		FetchedAt: resp.FetchedAt,
		Days:      days,
		Unplaced:  unplaced,
	}
}

func toSlotView(s slotengine.Slot, status slotengine.Status, remaining int) SlotView {
	duration, _ := s.DurationMinutes()
	return SlotView{
		SlotID:          s.ID,
		Date:            s.Date.String(),
		StartTime:       s.StartTime.String(),
		EndTime:         s.EndTime.String(),
		DurationMinutes: duration,
		Capacity:        s.Capacity,
		BookedCount:     s.BookedCount,
		Remaining:       remaining,
		IsActive:        s.IsActive,
		Status:          string(status),
	}
}
