package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/nabenabe-code/kintai/database"
	"github.com/nabenabe-code/kintai/services"
)

// PunchHandler serves the kiosk-style punch screen: the operator types an
// employee code and hits in/out.
type PunchHandler struct{}

func NewPunchHandler() *PunchHandler { return &PunchHandler{} }

type punchPayload struct {
	Code   string `json:"code"`
	Action string `json:"action"` // "in" | "out"
}

// POST /punch
func (h *PunchHandler) Punch(c echo.Context) error {
	var req punchPayload
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "INVALID_PAYLOAD"})
	}
	req.Code = strings.TrimSpace(req.Code)
	req.Action = strings.ToLower(strings.TrimSpace(req.Action))

	errs := map[string]string{}
	if req.Code == "" {
		errs["code"] = "employee code is required"
	}
	if req.Action != "in" && req.Action != "out" {
		errs["action"] = `action must be "in" or "out"`
	}
	if len(errs) > 0 {
		return c.JSON(http.StatusBadRequest, map[string]any{"errors": errs})
	}

	svc := services.NewPunchService(database.DB)
	now := time.Now()

	if req.Action == "in" {
		att, err := svc.ClockInByCode(req.Code, now)
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(http.StatusOK, att)
	}
	att, err := svc.ClockOutByCode(req.Code, now)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, att)
}
