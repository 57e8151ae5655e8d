package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/nabenabe-code/kintai/database"
	"github.com/nabenabe-code/kintai/services"
)

type ExportHandler struct{}

func NewExportHandler() *ExportHandler { return &ExportHandler{} }

func sendXLSX(c echo.Context, file *services.ExportFile) error {
	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename="%s"`, file.Name))
	return c.Blob(http.StatusOK, services.XLSXContentType, file.Content)
}

// GET /exports/employees.xlsx
func (h *ExportHandler) Employees(c echo.Context) error {
	file, err := services.NewExporter(database.DB).Employees()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": err.Error()})
	}
	return sendXLSX(c, file)
}

// GET /exports/shifts.xlsx?month=YYYY-MM
func (h *ExportHandler) Shifts(c echo.Context) error {
	month := strings.TrimSpace(c.QueryParam("month"))
	file, err := services.NewExporter(database.DB).Shifts(month)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": err.Error()})
	}
	return sendXLSX(c, file)
}

// GET /exports/attendance.xlsx?from=YYYY-MM-DD&to=YYYY-MM-DD
func (h *ExportHandler) Attendance(c echo.Context) error {
	from := strings.TrimSpace(c.QueryParam("from"))
	to := strings.TrimSpace(c.QueryParam("to"))
	file, err := services.NewExporter(database.DB).Attendance(from, to)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": err.Error()})
	}
	return sendXLSX(c, file)
}
