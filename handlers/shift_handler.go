package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/nabenabe-code/kintai/database"
	"github.com/nabenabe-code/kintai/models"
	"github.com/nabenabe-code/kintai/timecalc"
)

type ShiftHandler struct{}

func NewShiftHandler() *ShiftHandler { return &ShiftHandler{} }

type shiftPayload struct {
	EmployeeID   uint   `json:"employee_id"`
	Date         string `json:"date"`
	StartTime    string `json:"start_time"`
	EndTime      string `json:"end_time"` // 開始以前なら日跨ぎシフト
	BreakMinutes int    `json:"break_minutes"`
	Note         string `json:"note"`
}

func (p *shiftPayload) normalize() {
	p.Date = strings.TrimSpace(p.Date)
	p.StartTime = strings.TrimSpace(p.StartTime)
	p.EndTime = strings.TrimSpace(p.EndTime)
	p.Note = strings.TrimSpace(p.Note)
}

// validateShift canonicalizes date/time fields in place so stored values are
// always YYYY-MM-DD / HH:MM regardless of the accepted input form.
func validateShift(p *shiftPayload) map[string]string {
	errs := map[string]string{}
	if p.EmployeeID == 0 {
		errs["employee_id"] = "employee_id is required"
	}
	if d, ok := timecalc.ParseDate(p.Date); ok {
		p.Date = d.Format(timecalc.DateLayout)
	} else {
		errs["date"] = "date must be YYYY-MM-DD or YYYY/MM/DD"
	}
	if t, ok := timecalc.ParseTime(p.StartTime); ok {
		p.StartTime = t.Format(timecalc.TimeLayout)
	} else {
		errs["start_time"] = "start_time must be HH:MM"
	}
	if t, ok := timecalc.ParseTime(p.EndTime); ok {
		p.EndTime = t.Format(timecalc.TimeLayout)
	} else {
		errs["end_time"] = "end_time must be HH:MM"
	}
	if p.BreakMinutes < 0 {
		errs["break_minutes"] = "break_minutes must not be negative"
	}
	return errs
}

// shiftView decorates a shift with its derived worked minutes for list
// responses.
type shiftView struct {
	models.Shift
	WorkedMinutes int `json:"worked_minutes"`
}

// GET /shifts?month=YYYY-MM&employee_id=&emp=
func (h *ShiftHandler) List(c echo.Context) error {
	month := strings.TrimSpace(c.QueryParam("month"))
	employeeID := strings.TrimSpace(c.QueryParam("employee_id"))
	emp := strings.TrimSpace(c.QueryParam("emp"))

	tx := database.DB.Model(&models.Shift{}).
		Joins("JOIN employees ON employees.id = shifts.employee_id").
		Order("shifts.date ASC, employees.code ASC, shifts.start_time ASC").
		Preload("Employee")
	if month != "" {
		tx = tx.Where("shifts.date LIKE ?", month+"-%")
	}
	if employeeID != "" {
		tx = tx.Where("shifts.employee_id = ?", employeeID)
	}
	if emp != "" {
		like := "%" + strings.ToLower(emp) + "%"
		tx = tx.Where("LOWER(employees.code) LIKE ? OR LOWER(employees.name) LIKE ?", like, like)
	}

	var rows []models.Shift
	if err := tx.Find(&rows).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": err.Error()})
	}
	out := make([]shiftView, 0, len(rows))
	for i := range rows {
		out = append(out, shiftView{Shift: rows[i], WorkedMinutes: rows[i].TotalWorkMinutes()})
	}
	return c.JSON(http.StatusOK, out)
}

// POST /shifts
func (h *ShiftHandler) Create(c echo.Context) error {
	var req shiftPayload
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "INVALID_PAYLOAD"})
	}
	req.normalize()
	if errs := validateShift(&req); len(errs) > 0 {
		return c.JSON(http.StatusBadRequest, map[string]any{"errors": errs})
	}

	var emp models.Employee
	if err := database.DB.First(&emp, req.EmployeeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusNotFound, map[string]any{"error": "employee not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": err.Error()})
	}

	rec := models.Shift{
		EmployeeID:   req.EmployeeID,
		Date:         req.Date,
		StartTime:    req.StartTime,
		EndTime:      req.EndTime,
		BreakMinutes: req.BreakMinutes,
		Note:         req.Note,
	}
	if err := database.DB.Create(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return c.JSON(http.StatusConflict, map[string]any{"error": "shift already exists for this employee, date and start time"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": err.Error()})
	}
	return c.JSON(http.StatusCreated, rec)
}

// PUT /shifts/:id
func (h *ShiftHandler) Update(c echo.Context) error {
	id := atoiOr(c.Param("id"), 0)
	if id <= 0 {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "INVALID_ID"})
	}
	var rec models.Shift
	if err := database.DB.First(&rec, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusNotFound, map[string]any{"error": "shift not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": err.Error()})
	}

	var req shiftPayload
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "INVALID_PAYLOAD"})
	}
	if req.EmployeeID == 0 {
		req.EmployeeID = rec.EmployeeID
	}
	req.normalize()
	if errs := validateShift(&req); len(errs) > 0 {
		return c.JSON(http.StatusBadRequest, map[string]any{"errors": errs})
	}

	// re-pointing the shift must not orphan it on a nonexistent employee
	if req.EmployeeID != rec.EmployeeID {
		var emp models.Employee
		if err := database.DB.First(&emp, req.EmployeeID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return c.JSON(http.StatusNotFound, map[string]any{"error": "employee not found"})
			}
			return c.JSON(http.StatusInternalServerError, map[string]any{"error": err.Error()})
		}
	}

	rec.EmployeeID = req.EmployeeID
	rec.Date = req.Date
	rec.StartTime = req.StartTime
	rec.EndTime = req.EndTime
	rec.BreakMinutes = req.BreakMinutes
	rec.Note = req.Note
	if err := database.DB.Save(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return c.JSON(http.StatusConflict, map[string]any{"error": "shift already exists for this employee, date and start time"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, rec)
}

// DELETE /shifts/:id
func (h *ShiftHandler) Delete(c echo.Context) error {
	id := atoiOr(c.Param("id"), 0)
	if id <= 0 {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "INVALID_ID"})
	}
	res := database.DB.Delete(&models.Shift{}, id)
	if res.Error != nil {
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": res.Error.Error()})
	}
	if res.RowsAffected == 0 {
		return c.JSON(http.StatusNotFound, map[string]any{"error": "shift not found"})
	}
	return c.NoContent(http.StatusNoContent)
}
