package branchbackend

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// fetchSlotsRequest тело запроса списка слотов
type fetchSlotsRequest struct {
	Type     string `json:"type"`
	BranchID int64  `json:"branchId"`
	FromDate string `json:"fromDate"`
	ToDate   string `json:"toDate"`
}

// envelope общая обертка ответа backend API
type envelope struct {
	StatusCode int             `json:"StatusCode"`
	Message    string          `json:"Message"`
	Data       json.RawMessage `json:"Data"`
}

// slotTable полезная нагрузка ответа на запрос списка слотов
type slotTable struct {
	Table []SlotRow `json:"Table"`
}

// SlotRow строка слота в формате backend API.
// Разные фичи заполняют разные поля даты и числа бронирований.
type SlotRow struct {
	SlotID            FlexString `json:"SlotID"`
	AppointmentDate   string     `json:"AppointmentDate"`
	SlotDate          string     `json:"SlotDate"`
	StartTime         string     `json:"StartTime"`
	EndTime           string     `json:"EndTime"`
	MaximumVisitors   FlexInt    `json:"MaximumVisitors"`
	BookedCount       FlexInt    `json:"BookedCount"`
	AppoitmentsBooked FlexInt    `json:"AppoitmentsBooked"`
	IsActive          FlexBool   `json:"IsActive"`
}

// submitSlotsRequest тело запроса сохранения слотов дня
type submitSlotsRequest struct {
	BranchID  int64        `json:"BranchID"`
	SlotDate  string       `json:"SlotDate"`
	SlotCount int          `json:"SlotCount"`
	Slots     []submitSlot `json:"Slots"`
}

type submitSlot struct {
	SlotID          string `json:"SlotID"`
	SlotDuration    int    `json:"SlotDuration"`
	MaximumVisitors int    `json:"MaximumVisitors"`
	StartTime       string `json:"StartTime"`
	EndTime         string `json:"EndTime"`
	IsDeleted       bool   `json:"IsDeleted"`
	Reason          string `json:"Reason"`
}

// submitResult полезная нагрузка ответа на сохранение слотов
type submitResult struct {
	IsSuccess FlexInt `json:"IsSuccess"`
	Message   string  `json:"Message"`
}

// FlexInt целое число, которое backend присылает то числом, то строкой
type FlexInt struct {
	Value int64
	Valid bool
}

func (f *FlexInt) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = FlexInt{}
		return nil
	}

	raw := string(data)
	if unquoted, err := strconv.Unquote(raw); err == nil {
		raw = strings.TrimSpace(unquoted)
		if raw == "" {
			*f = FlexInt{}
			return nil
		}
	}

	if v, err := strconv.ParseInt(raw, 10, 64); err == nil {
		*f = FlexInt{Value: v, Valid: true}
		return nil
	}

	// некоторые выгрузки отдают целые как 10.0
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fmt.Errorf("invalid integer %s", string(data))
	}
	*f = FlexInt{Value: int64(v), Valid: true}
	return nil
}

// FlexString идентификатор, который backend присылает то строкой, то числом
type FlexString string

func (f *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString(strings.TrimSpace(s))
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("invalid identifier %s", string(data))
	}
	*f = FlexString(n.String())
	return nil
}

// FlexBool флаг, который backend присылает как bool, 0/1 или строку
type FlexBool struct {
	Value bool
	Valid bool
}

func (f *FlexBool) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = FlexBool{}
		return nil
	}

	raw := string(data)
	if unquoted, err := strconv.Unquote(raw); err == nil {
		raw = unquoted
	}

	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "true", "1", "y", "yes":
		*f = FlexBool{Value: true, Valid: true}
	case "false", "0", "n", "no":
		*f = FlexBool{Value: false, Valid: true}
	case "":
		*f = FlexBool{}
	default:
		return fmt.Errorf("invalid boolean %s", string(data))
	}
	return nil
}
