package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SlotScheduler/internal/domain"
	"github.com/m04kA/SMC-SlotScheduler/pkg/types"
)

// Сообщения об ошибках параметров пути
const (
	MsgInvalidFeature  = "неизвестный раздел, ожидается appointment или wetland"
	MsgInvalidBranchID = "некорректный ID филиала"
	MsgInvalidDate     = "некорректный формат даты, ожидается YYYY-MM-DD"
	MsgInvalidSlotKey  = "некорректный ключ слота"
)

// BranchPath параметры пути /features/{feature}/branches/{branchId}
type BranchPath struct {
	Feature  domain.Feature
	BranchID int64
}

// DayPath параметры пути /features/{feature}/branches/{branchId}/days/{date}
type DayPath struct {
	BranchPath
	Date types.Date
}

// ParseBranchPath извлекает фичу и филиал из URL.
// Второе значение сообщение для пользователя при ошибке.
func ParseBranchPath(r *http.Request) (BranchPath, string, error) {
	vars := mux.Vars(r)

	feature, err := domain.ParseFeature(vars["feature"])
	if err != nil {
		return BranchPath{}, MsgInvalidFeature, err
	}

	branchID, err := strconv.ParseInt(vars["branchId"], 10, 64)
	if err != nil || branchID <= 0 {
		return BranchPath{}, MsgInvalidBranchID, fmt.Errorf("invalid branch id %q", vars["branchId"])
	}

	return BranchPath{Feature: feature, BranchID: branchID}, "", nil
}

// ParseDayPath извлекает фичу, филиал и дату из URL
func ParseDayPath(r *http.Request) (DayPath, string, error) {
	branch, msg, err := ParseBranchPath(r)
	if err != nil {
		return DayPath{}, msg, err
	}

	dateStr := mux.Vars(r)["date"]
	if len(dateStr) != len(types.DateLayout) {
		return DayPath{}, MsgInvalidDate, fmt.Errorf("invalid date %q", dateStr)
	}
	date, err := types.ParseDate(dateStr)
	if err != nil {
		return DayPath{}, MsgInvalidDate, err
	}

	return DayPath{BranchPath: branch, Date: date}, "", nil
}

// ParseFeatureScope извлекает фичу и необязательный филиал из URL.
// Для маршрутов /features/{feature}/settings филиал равен nil.
func ParseFeatureScope(r *http.Request) (domain.Feature, *int64, string, error) {
	vars := mux.Vars(r)

	feature, err := domain.ParseFeature(vars["feature"])
	if err != nil {
		return "", nil, MsgInvalidFeature, err
	}

	raw, ok := vars["branchId"]
	if !ok {
		return feature, nil, "", nil
	}

	branchID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || branchID <= 0 {
		return "", nil, MsgInvalidBranchID, fmt.Errorf("invalid branch id %q", raw)
	}

	return feature, &branchID, "", nil
}

// BranchScope форматирует необязательный филиал для логов
func BranchScope(branchID *int64) string {
	if branchID == nil {
		return "all"
	}
	return strconv.FormatInt(*branchID, 10)
}
