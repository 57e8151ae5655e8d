package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/nabenabe-code/kintai/services"
)

// 文字列→int。変換できなければ既定値
func atoiOr(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

// serviceError maps typed service failures onto HTTP statuses: reference
// errors 404, state conflicts 409, everything else 500.
func serviceError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, services.ErrEmployeeNotFound):
		return c.JSON(http.StatusNotFound, map[string]any{"error": err.Error()})
	case errors.Is(err, services.ErrAlreadyClockedIn),
		errors.Is(err, services.ErrAlreadyClockedOut),
		errors.Is(err, services.ErrNoPriorClockIn),
		errors.Is(err, services.ErrOutBeforeIn),
		errors.Is(err, services.ErrDuplicateCode),
		errors.Is(err, services.ErrEmployeeReferenced):
		return c.JSON(http.StatusConflict, map[string]any{"error": err.Error()})
	default:
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": err.Error()})
	}
}
