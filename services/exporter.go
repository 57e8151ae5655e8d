package services

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	"github.com/nabenabe-code/kintai/models"
)

// XLSXContentType is the standard spreadsheet MIME type.
const XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportFile is one generated spreadsheet: content bytes plus the suggested
// download filename (entity kind + generation timestamp).
type ExportFile struct {
	Name    string
	Content []byte
}

// Exporter serializes current records into .xlsx files. An empty result set
// still produces a valid header-only sheet.
type Exporter struct {
	db *gorm.DB
}

func NewExporter(db *gorm.DB) *Exporter { return &Exporter{db: db} }

// writeSheet fills one sheet with a header and data rows and auto-sizes every
// column to its widest cell.
func writeSheet(sheet string, header []string, data [][]any) (*ExportFile, error) {
	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, err
	}

	widths := make([]float64, len(header))
	row := make([]any, len(header))
	for i, h := range header {
		row[i] = h
		widths[i] = float64(len(h))
	}
	if err := f.SetSheetRow(sheet, "A1", &row); err != nil {
		return nil, err
	}
	for n, r := range data {
		addr, err := excelize.CoordinatesToCellName(1, n+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(sheet, addr, &r); err != nil {
			return nil, err
		}
		for i, v := range r {
			if i < len(widths) {
				if w := float64(len(fmt.Sprint(v))); w > widths[i] {
					widths[i] = w
				}
			}
		}
	}
	for i, w := range widths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetColWidth(sheet, col, col, w+2); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return &ExportFile{
		Name:    fmt.Sprintf("%s_%s.xlsx", sheet, time.Now().Format("20060102_150405")),
		Content: buf.Bytes(),
	}, nil
}

// Employees exports the employee master ordered by code.
func (e *Exporter) Employees() (*ExportFile, error) {
	var emps []models.Employee
	if err := e.db.Order("code ASC").Find(&emps).Error; err != nil {
		return nil, err
	}
	data := make([][]any, 0, len(emps))
	for _, emp := range emps {
		rate := ""
		if emp.HourlyRate.Valid {
			rate = emp.HourlyRate.Decimal.String()
		}
		active := "0"
		if emp.IsActive {
			active = "1"
		}
		data = append(data, []any{emp.Code, emp.Name, rate, active})
	}
	return writeSheet("employees", []string{"code", "name", "hourly_rate", "is_active"}, data)
}

// Shifts exports planned shifts ordered by date then employee code. month
// filters to one calendar month when given as YYYY-MM.
func (e *Exporter) Shifts(month string) (*ExportFile, error) {
	tx := e.db.Model(&models.Shift{}).
		Joins("JOIN employees ON employees.id = shifts.employee_id").
		Order("shifts.date ASC, employees.code ASC, shifts.start_time ASC").
		Preload("Employee")
	if month != "" {
		tx = tx.Where("shifts.date LIKE ?", month+"-%")
	}
	var shifts []models.Shift
	if err := tx.Find(&shifts).Error; err != nil {
		return nil, err
	}
	data := make([][]any, 0, len(shifts))
	for i := range shifts {
		s := &shifts[i]
		data = append(data, []any{
			s.Employee.Code, s.Employee.Name, s.Date, s.StartTime, s.EndTime,
			s.BreakMinutes, s.TotalWorkMinutes(), s.Note,
		})
	}
	header := []string{"code", "name", "date", "start", "end", "break_minutes", "worked_minutes", "note"}
	return writeSheet("shifts", header, data)
}

// Attendance exports attendance records ordered by work date then employee
// code, optionally restricted to an inclusive from/to date range.
func (e *Exporter) Attendance(from, to string) (*ExportFile, error) {
	tx := e.db.Model(&models.Attendance{}).
		Joins("JOIN employees ON employees.id = attendances.employee_id").
		Order("attendances.work_date ASC, employees.code ASC").
		Preload("Employee")
	if from != "" {
		tx = tx.Where("attendances.work_date >= ?", from)
	}
	if to != "" {
		tx = tx.Where("attendances.work_date <= ?", to)
	}
	var atts []models.Attendance
	if err := tx.Find(&atts).Error; err != nil {
		return nil, err
	}
	data := make([][]any, 0, len(atts))
	for i := range atts {
		a := &atts[i]
		in, out, worked := "", "", ""
		if a.TimeIn != nil {
			in = *a.TimeIn
		}
		if a.TimeOut != nil {
			out = *a.TimeOut
		}
		if m := a.WorkedMinutes(); m != nil {
			worked = fmt.Sprint(*m)
		}
		data = append(data, []any{a.WorkDate, a.Employee.Code, a.Employee.Name, in, out, worked, a.Note})
	}
	header := []string{"date", "code", "name", "time_in", "time_out", "worked_minutes", "note"}
	return writeSheet("attendance", header, data)
}
