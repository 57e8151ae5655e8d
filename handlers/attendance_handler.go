package handlers

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/nabenabe-code/kintai/database"
	"github.com/nabenabe-code/kintai/models"
	"github.com/nabenabe-code/kintai/timecalc"
)

type AttendanceHandler struct{}

func NewAttendanceHandler() *AttendanceHandler { return &AttendanceHandler{} }

// attendanceView decorates a record with its derived values for list
// responses. worked_minutes stays null until both punches exist;
// wage_amount stays null when the hourly rate is unknown.
type attendanceView struct {
	models.Attendance
	EmployeeCode  string `json:"employee_code"`
	EmployeeName  string `json:"employee_name"`
	WorkedMinutes *int   `json:"worked_minutes"`
	WageAmount    any    `json:"wage_amount"`
}

// GET /attendance?from=YYYY-MM-DD&to=YYYY-MM-DD&code=&q=
func (h *AttendanceHandler) List(c echo.Context) error {
	from := strings.TrimSpace(c.QueryParam("from"))
	to := strings.TrimSpace(c.QueryParam("to"))
	code := strings.TrimSpace(c.QueryParam("code"))
	q := strings.TrimSpace(c.QueryParam("q"))

	tx := database.DB.Model(&models.Attendance{}).
		Joins("JOIN employees ON employees.id = attendances.employee_id").
		Order("attendances.work_date ASC, employees.code ASC").
		Preload("Employee")
	if from != "" {
		d, ok := timecalc.ParseDate(from)
		if !ok {
			return c.JSON(http.StatusBadRequest, map[string]any{"errors": map[string]string{"from": "from must be YYYY-MM-DD"}})
		}
		tx = tx.Where("attendances.work_date >= ?", d.Format(timecalc.DateLayout))
	}
	if to != "" {
		d, ok := timecalc.ParseDate(to)
		if !ok {
			return c.JSON(http.StatusBadRequest, map[string]any{"errors": map[string]string{"to": "to must be YYYY-MM-DD"}})
		}
		tx = tx.Where("attendances.work_date <= ?", d.Format(timecalc.DateLayout))
	}
	if code != "" {
		tx = tx.Where("employees.code = ?", code)
	}
	if q != "" {
		like := "%" + strings.ToLower(q) + "%"
		tx = tx.Where("LOWER(employees.code) LIKE ? OR LOWER(employees.name) LIKE ? OR LOWER(attendances.note) LIKE ?",
			like, like, like)
	}

	var rows []models.Attendance
	if err := tx.Find(&rows).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": err.Error()})
	}
	out := make([]attendanceView, 0, len(rows))
	for i := range rows {
		a := &rows[i]
		view := attendanceView{
			Attendance:    *a,
			EmployeeCode:  a.Employee.Code,
			EmployeeName:  a.Employee.Name,
			WorkedMinutes: a.WorkedMinutes(),
		}
		if wage := a.WageAmount(); wage.Valid {
			view.WageAmount = wage.Decimal
		}
		out = append(out, view)
	}
	return c.JSON(http.StatusOK, out)
}

// PUT /attendance/:id/note — 備考だけ管理側で直せる
func (h *AttendanceHandler) UpdateNote(c echo.Context) error {
	id := atoiOr(c.Param("id"), 0)
	if id <= 0 {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "INVALID_ID"})
	}
	var req struct {
		Note string `json:"note"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "INVALID_PAYLOAD"})
	}
	res := database.DB.Model(&models.Attendance{}).Where("id = ?", id).
		Update("note", strings.TrimSpace(req.Note))
	if res.Error != nil {
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": res.Error.Error()})
	}
	if res.RowsAffected == 0 {
		return c.JSON(http.StatusNotFound, map[string]any{"error": "attendance record not found"})
	}
	return c.NoContent(http.StatusNoContent)
}

// DELETE /attendance/:id — administrative deletion
func (h *AttendanceHandler) Delete(c echo.Context) error {
	id := atoiOr(c.Param("id"), 0)
	if id <= 0 {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "INVALID_ID"})
	}
	res := database.DB.Delete(&models.Attendance{}, id)
	if res.Error != nil {
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": res.Error.Error()})
	}
	if res.RowsAffected == 0 {
		return c.JSON(http.StatusNotFound, map[string]any{"error": "attendance record not found"})
	}
	return c.NoContent(http.StatusNoContent)
}
