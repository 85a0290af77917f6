package domain

import (
	"time"

	"github.com/m04kA/SMC-SlotScheduler/pkg/slotengine"
	"github.com/m04kA/SMC-SlotScheduler/pkg/types"
)

// Draft is an unsaved edit session for the slots of one branch on one date.
// It survives failed submissions so the operator can retry without losing changes.
type Draft struct {
	ID       int64
	Feature  Feature
	BranchID int64
	Date     types.Date

	// Existing is the backend's slot set for the date when the draft was opened
	Existing []slotengine.Slot
	Edits    slotengine.SlotEdits

	// Version is bumped on every saved change and guards concurrent edits
	Version         int64
	SubmitAttempts  int
	LastSubmitError *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// DraftKey identifies the single draft allowed per branch and date
type DraftKey struct {
	Feature  Feature
	BranchID int64
	Date     types.Date
}

// Key returns the identity of the draft
func (d *Draft) Key() DraftKey {
	return DraftKey{Feature: d.Feature, BranchID: d.BranchID, Date: d.Date}
}

// EffectiveSlots returns the day as it will be submitted: existing, edited,
// soft-deleted and new slots ordered by start time
func (d *Draft) EffectiveSlots() ([]slotengine.Slot, error) {
	return slotengine.ApplyEdits(d.Date, d.Existing, d.Edits)
}

// HasChanges returns true if the session changed anything
func (d *Draft) HasChanges() bool {
	return !d.Edits.IsEmpty()
}
