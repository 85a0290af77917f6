package slotengine

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/m04kA/SMC-SlotScheduler/pkg/types"
)

// GridDays is the fixed number of cells in a month calendar: six full weeks.
const GridDays = 42

// WeekStart is the first day of a calendar week.
type WeekStart int

const (
	WeekStartSunday WeekStart = WeekStart(time.Sunday)
	WeekStartMonday WeekStart = WeekStart(time.Monday)
)

// ParseWeekStart accepts "sunday" or "monday" in any case.
func ParseWeekStart(s string) (WeekStart, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "sunday":
		return WeekStartSunday, nil
	case "monday":
		return WeekStartMonday, nil
	default:
		return 0, fmt.Errorf("%w: unknown week start %q", ErrInvalidInput, s)
	}
}

func (w WeekStart) String() string {
	return strings.ToLower(time.Weekday(w).String())
}

func (w WeekStart) valid() bool {
	return w == WeekStartSunday || w == WeekStartMonday
}

// DayBucket is one calendar cell.
type DayBucket struct {
	Date    types.Date `json:"date"`
	InMonth bool       `json:"inMonth"`
	Slots   []Slot     `json:"slots"`
}

// MonthCalendar is a month padded with adjacent-month dates to exactly GridDays cells.
type MonthCalendar struct {
	Month     time.Month  `json:"month"`
	Year      int         `json:"year"`
	WeekStart WeekStart   `json:"weekStart"`
	Days      []DayBucket `json:"days"`
	// Unplaced holds input slots dated outside the grid window.
	Unplaced []Slot `json:"unplaced,omitempty"`
}

// First returns the date of the first cell.
func (c *MonthCalendar) First() types.Date {
	return c.Days[0].Date
}

// Last returns the date of the last cell.
func (c *MonthCalendar) Last() types.Date {
	return c.Days[len(c.Days)-1].Date
}

// Day returns the bucket for date, if it is on the grid.
func (c *MonthCalendar) Day(date types.Date) (DayBucket, bool) {
	for _, d := range c.Days {
		if d.Date == date {
			return d, true
		}
	}
	return DayBucket{}, false
}

// GridRange returns the first and last dates shown for month/year. Callers use
// it to fetch exactly the slots the grid can display.
func GridRange(month time.Month, year int, weekStart WeekStart) (types.Date, types.Date, error) {
	if err := validateMonth(month, year, weekStart); err != nil {
		return types.Date{}, types.Date{}, err
	}
	first := gridStart(month, year, weekStart)
	return first, first.AddDays(GridDays - 1), nil
}

// BuildMonthCalendar buckets slots into the 42-cell grid of month/year.
// Grouping is by date equality, so padding cells show slots of adjacent months
// too. Slots are ordered by start time within a cell.
func BuildMonthCalendar(slots []Slot, month time.Month, year int, weekStart WeekStart) (*MonthCalendar, error) {
	if err := validateMonth(month, year, weekStart); err != nil {
		return nil, err
	}

	byDate := make(map[types.Date][]Slot, len(slots))
	for _, s := range slots {
		if s.Date.IsZero() {
			return nil, fmt.Errorf("%w: slot %q has no date", ErrInvalidInput, s.ID)
		}
		byDate[s.Date] = append(byDate[s.Date], s)
	}

	calendar := &MonthCalendar{
		Month:     month,
		Year:      year,
		WeekStart: weekStart,
		Days:      make([]DayBucket, 0, GridDays),
	}

	current := gridStart(month, year, weekStart)
	for i := 0; i < GridDays; i++ {
		daySlots := byDate[current]
		delete(byDate, current)

		bucket := DayBucket{
			Date:    current,
			InMonth: current.Month() == month && current.Year() == year,
			Slots:   make([]Slot, len(daySlots)),
		}
		copy(bucket.Slots, daySlots)
		sortByStart(bucket.Slots)

		calendar.Days = append(calendar.Days, bucket)
		current = current.AddDays(1)
	}

	for _, s := range slots {
		if _, unplaced := byDate[s.Date]; unplaced {
			calendar.Unplaced = append(calendar.Unplaced, s)
		}
	}

	return calendar, nil
}

// gridStart is the first cell: the week start on or before day 1 of the month.
func gridStart(month time.Month, year int, weekStart WeekStart) types.Date {
	first := types.DateOf(year, month, 1)
	lead := (int(first.Weekday()) - int(weekStart) + 7) % 7
	return first.AddDays(-lead)
}

func validateMonth(month time.Month, year int, weekStart WeekStart) error {
	if month < time.January || month > time.December {
		return fmt.Errorf("%w: month must be 1-12, got %d", ErrInvalidInput, month)
	}
	if year < 1 || year > 9999 {
		return fmt.Errorf("%w: year out of range: %d", ErrInvalidInput, year)
	}
	if !weekStart.valid() {
		return fmt.Errorf("%w: week start must be sunday or monday", ErrInvalidInput)
	}
	return nil
}

func sortByStart(slots []Slot) {
	sort.SliceStable(slots, func(i, j int) bool {
		if slots[i].StartTime != slots[j].StartTime {
			return slots[i].StartTime.IsBefore(slots[j].StartTime)
		}
		return slots[i].ID < slots[j].ID
	})
}
