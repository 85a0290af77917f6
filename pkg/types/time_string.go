package types

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	timeLayout        = "15:04"
	timeLayoutSeconds = "15:04:05"

	// MinutesPerDay is the number of minutes in a calendar day.
	MinutesPerDay = 24 * 60
)

var (
	// ErrInvalidTimeString is returned when a value is not a valid "HH:MM" time of day.
	ErrInvalidTimeString = errors.New("invalid time string format")

	// ErrOutOfDayRange is returned when arithmetic leaves the [00:00, 24:00) range.
	ErrOutOfDayRange = errors.New("time is out of day range")
)

// TimeString is a time of day without a date, always stored as zero-padded "HH:MM".
// Zero padding keeps lexical and chronological order identical.
type TimeString string

// NewTimeString takes the hour and minute of t.
func NewTimeString(t time.Time) TimeString {
	return TimeString(t.Format(timeLayout))
}

// NewTimeStringFromString parses "HH:MM" or "HH:MM:SS" (seconds are dropped).
func NewTimeStringFromString(s string) (TimeString, error) {
	s = strings.TrimSpace(s)

	for _, layout := range []string{timeLayout, timeLayoutSeconds} {
		parsed, err := time.Parse(layout, s)
		if err == nil {
			return NewTimeString(parsed), nil
		}
	}

	return "", fmt.Errorf("%w: %q", ErrInvalidTimeString, s)
}

// TimeStringFromMinutes converts minutes since midnight into a TimeString.
func TimeStringFromMinutes(minutes int) (TimeString, error) {
	if minutes < 0 || minutes >= MinutesPerDay {
		return "", fmt.Errorf("%w: %d minutes", ErrOutOfDayRange, minutes)
	}
	return TimeString(fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)), nil
}

// MustTimeString parses s and panics on failure. Intended for constants and tests.
func MustTimeString(s string) TimeString {
	t, err := NewTimeStringFromString(s)
	if err != nil {
		panic(err)
	}
	return t
}

// Minutes returns minutes since midnight.
func (t TimeString) Minutes() (int, error) {
	if err := t.Validate(); err != nil {
		return 0, err
	}
	s := string(t)
	hours := int(s[0]-'0')*10 + int(s[1]-'0')
	mins := int(s[3]-'0')*10 + int(s[4]-'0')
	return hours*60 + mins, nil
}

// AddMinutes shifts the time by n minutes. The result must stay on the same day:
// reaching or passing midnight returns ErrOutOfDayRange instead of wrapping.
func (t TimeString) AddMinutes(n int) (TimeString, error) {
	current, err := t.Minutes()
	if err != nil {
		return "", err
	}
	return TimeStringFromMinutes(current + n)
}

// MinutesUntil returns other - t in minutes.
func (t TimeString) MinutesUntil(other TimeString) (int, error) {
	from, err := t.Minutes()
	if err != nil {
		return 0, err
	}
	to, err := other.Minutes()
	if err != nil {
		return 0, err
	}
	return to - from, nil
}

// IsBefore reports whether t is strictly earlier than other.
func (t TimeString) IsBefore(other TimeString) bool {
	return t < other
}

// IsAfter reports whether t is strictly later than other.
func (t TimeString) IsAfter(other TimeString) bool {
	return t > other
}

// IsZero reports whether the value is unset.
func (t TimeString) IsZero() bool {
	return t == ""
}

// Validate checks the "HH:MM" shape and ranges.
func (t TimeString) Validate() error {
	s := string(t)
	if len(s) != 5 || s[2] != ':' {
		return fmt.Errorf("%w: %q", ErrInvalidTimeString, s)
	}
	for _, i := range []int{0, 1, 3, 4} {
		if s[i] < '0' || s[i] > '9' {
			return fmt.Errorf("%w: %q", ErrInvalidTimeString, s)
		}
	}
	hours := int(s[0]-'0')*10 + int(s[1]-'0')
	mins := int(s[3]-'0')*10 + int(s[4]-'0')
	if hours > 23 || mins > 59 {
		return fmt.Errorf("%w: %q", ErrInvalidTimeString, s)
	}
	return nil
}

// String returns the "HH:MM" representation.
func (t TimeString) String() string {
	return string(t)
}
