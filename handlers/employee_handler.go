package handlers

import (
	"net/http"
	"regexp"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/nabenabe-code/kintai/config"
	"github.com/nabenabe-code/kintai/database"
	"github.com/nabenabe-code/kintai/services"
)

type EmployeeHandler struct {
	policy config.DeletionPolicy
}

func NewEmployeeHandler(policy config.DeletionPolicy) *EmployeeHandler {
	return &EmployeeHandler{policy: policy}
}

var empReCode = regexp.MustCompile(`^[A-Za-z0-9\-]{1,20}$`)

type employeePayload struct {
	Code       string              `json:"code"`
	Name       string              `json:"name"`
	HourlyRate decimal.NullDecimal `json:"hourly_rate"` // 数値・数値文字列・null を受ける
	IsActive   *bool               `json:"is_active"`
}

func (p *employeePayload) normalize() {
	p.Code = strings.TrimSpace(p.Code)
	p.Name = strings.Join(strings.Fields(p.Name), " ")
}

func validateEmployee(p *employeePayload, requireCode bool) map[string]string {
	errs := map[string]string{}
	if requireCode && !empReCode.MatchString(p.Code) {
		errs["code"] = "code must be 1-20 letters, digits or hyphens"
	}
	if p.HourlyRate.Valid && p.HourlyRate.Decimal.IsNegative() {
		errs["hourly_rate"] = "hourly_rate must not be negative"
	}
	return errs
}

func (h *EmployeeHandler) service() *services.EmployeeService {
	return services.NewEmployeeService(database.DB, h.policy)
}

// GET /employees?active=1&q=
func (h *EmployeeHandler) List(c echo.Context) error {
	activeOnly := c.QueryParam("active") == "1"
	emps, err := h.service().List(activeOnly, c.QueryParam("q"))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, emps)
}

// POST /employees
func (h *EmployeeHandler) Create(c echo.Context) error {
	var req employeePayload
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "INVALID_PAYLOAD"})
	}
	req.normalize()
	if errs := validateEmployee(&req, true); len(errs) > 0 {
		return c.JSON(http.StatusBadRequest, map[string]any{"errors": errs})
	}
	emp, err := h.service().Register(req.Code, req.Name, req.HourlyRate)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusCreated, emp)
}

// PUT /employees/:id — code は変更不可
func (h *EmployeeHandler) Update(c echo.Context) error {
	id := atoiOr(c.Param("id"), 0)
	if id <= 0 {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "INVALID_ID"})
	}
	var req employeePayload
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "INVALID_PAYLOAD"})
	}
	req.normalize()
	if errs := validateEmployee(&req, false); len(errs) > 0 {
		return c.JSON(http.StatusBadRequest, map[string]any{"errors": errs})
	}
	emp, err := h.service().Update(uint(id), req.Name, req.HourlyRate, req.IsActive)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, emp)
}

// DELETE /employees/:id — 挙動は EMPLOYEE_DELETION_POLICY に従う
func (h *EmployeeHandler) Delete(c echo.Context) error {
	id := atoiOr(c.Param("id"), 0)
	if id <= 0 {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "INVALID_ID"})
	}
	if err := h.service().Delete(uint(id)); err != nil {
		return serviceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
