package handlers

import (
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/nabenabe-code/kintai/database"
	"github.com/nabenabe-code/kintai/services"
)

// ImportHandler receives .xlsx uploads (multipart field "file") and returns
// the created/updated/skipped tally. Row-level problems come back inside the
// tally, not as an HTTP error.
type ImportHandler struct{}

func NewImportHandler() *ImportHandler { return &ImportHandler{} }

func openUpload(c echo.Context) (io.ReadCloser, error) {
	fh, err := c.FormFile("file")
	if err != nil {
		return nil, err
	}
	return fh.Open()
}

// POST /imports/employees
func (h *ImportHandler) Employees(c echo.Context) error {
	src, err := openUpload(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "file is required"})
	}
	defer src.Close()

	res, err := services.NewEmployeeImporter(database.DB).Run(src)
	if err != nil {
		// whole-file failure: bad workbook or missing required columns
		return c.JSON(http.StatusBadRequest, map[string]any{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, res)
}

// POST /imports/shifts
func (h *ImportHandler) Shifts(c echo.Context) error {
	src, err := openUpload(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "file is required"})
	}
	defer src.Close()

	res, err := services.NewShiftImporter(database.DB).Run(src)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, res)
}
