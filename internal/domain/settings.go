package domain

import (
	"time"

	"github.com/m04kA/SMC-SlotScheduler/pkg/types"
)

// DefaultSlotCapacity is the capacity of a new slot when nothing is configured.
const DefaultSlotCapacity = 10

// SlotSettings are the defaults used when an operator appends a slot.
// A nil BranchID is the feature-wide row that applies to every branch
// without its own override.
type SlotSettings struct {
	ID                  int64
	Feature             Feature
	BranchID            *int64
	SlotDurationMinutes int
	DefaultCapacity     int
	DayStart            types.TimeString
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// SettingsLevel tells where effective settings came from.
type SettingsLevel string

const (
	SettingsLevelBranch  SettingsLevel = "branch"
	SettingsLevelFeature SettingsLevel = "feature"
	SettingsLevelDefault SettingsLevel = "default"
)

// Level reports which level of the hierarchy the settings row belongs to.
func (s *SlotSettings) Level() SettingsLevel {
	switch {
	case s.ID == 0:
		return SettingsLevelDefault
	case s.BranchID == nil:
		return SettingsLevelFeature
	default:
		return SettingsLevelBranch
	}
}
