package domain

// Default slot values
const (
	DefaultSlotDurationMinutes = 30
	DefaultDayStart            = "08:00"
)

// Business validation constants
const (
	MinSlotDurationMinutes = 5
	MaxSlotDurationMinutes = 480 // 8 hours
	MinSlotCapacity        = 1
	MaxSlotCapacity        = 1000
	MaxDeleteReasonLength  = 500
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// Remote backend protocol constants
const (
	// BackendStatusSuccess is the top-level StatusCode of every successful backend response
	BackendStatusSuccess = 605

	// BackendSubmitAccepted is Data.IsSuccess of an accepted submission: zero means success
	BackendSubmitAccepted = 0

	// FetchSlotsRequestType is the request type of the slot listing call
	FetchSlotsRequestType = "GetSlotsInformationCreateSlotScreen"
)
