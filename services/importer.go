package services

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	"github.com/nabenabe-code/kintai/models"
	"github.com/nabenabe-code/kintai/timecalc"
)

// ImportResult is the tally for one imported file. Row-level problems land in
// Errors as data; they never abort the batch.
type ImportResult struct {
	Created int      `json:"created"`
	Updated int      `json:"updated"`
	Skipped int      `json:"skipped"`
	Errors  []string `json:"errors"`
}

func (r *ImportResult) skip(row int, format string, args ...any) {
	r.Skipped++
	r.Errors = append(r.Errors, fmt.Sprintf("row %d: %s", row, fmt.Sprintf(format, args...)))
}

// sheetRows reads the first sheet and builds a case-insensitive header index.
// A missing required column fails the whole file before any row is touched.
func sheetRows(r io.Reader, required []string) ([][]string, map[string]int, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, nil, fmt.Errorf("open spreadsheet: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil, fmt.Errorf("no sheets found in spreadsheet")
	}
	// raw values: native date/time cells arrive as Excel serial numbers
	// instead of locale-formatted display strings
	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, nil, fmt.Errorf("missing header row")
	}

	header := map[string]int{}
	for i, name := range rows[0] {
		name = strings.ToLower(strings.TrimSpace(name))
		if name != "" {
			header[name] = i
		}
	}
	var missing []string
	for _, col := range required {
		if _, ok := header[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, nil, fmt.Errorf("missing required columns: %s", strings.Join(missing, ", "))
	}
	return rows, header, nil
}

// cell tolerates short rows; excelize trims trailing empty cells.
func cell(row []string, idx int, ok bool) string {
	if !ok || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// excelSerial converts a raw numeric cell (an Excel serial date, or a day
// fraction for a time-of-day) into a time.
func excelSerial(s string) (time.Time, bool) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return time.Time{}, false
	}
	t, err := excelize.ExcelDateToTime(v, false)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// parseDateCell accepts textual dates and native Excel date cells.
func parseDateCell(s string) (time.Time, bool) {
	if d, ok := timecalc.ParseDate(s); ok {
		return d, true
	}
	// pure time fractions land before 1900 and must not pass as dates
	if t, ok := excelSerial(s); ok && t.Year() >= 1900 {
		return t, true
	}
	return time.Time{}, false
}

// parseTimeCell accepts textual times and native Excel time cells.
func parseTimeCell(s string) (time.Time, bool) {
	if t, ok := timecalc.ParseTime(s); ok {
		return t, true
	}
	return excelSerial(s)
}

// EmployeeImporter upserts employee master rows from an .xlsx file.
// Required columns: code, hourly_rate. Optional: name.
type EmployeeImporter struct {
	db *gorm.DB
}

func NewEmployeeImporter(db *gorm.DB) *EmployeeImporter { return &EmployeeImporter{db: db} }

func (imp *EmployeeImporter) Run(r io.Reader) (*ImportResult, error) {
	rows, header, err := sheetRows(r, []string{"code", "hourly_rate"})
	if err != nil {
		return nil, err
	}
	cCode, okCode := header["code"]
	cName, okName := header["name"]
	cRate, okRate := header["hourly_rate"]

	res := &ImportResult{}
	err = imp.db.Transaction(func(tx *gorm.DB) error {
		for i, row := range rows[1:] {
			rowNum := i + 2 // 1-based, after the header

			code := cell(row, cCode, okCode)
			if code == "" {
				res.skip(rowNum, "employee code is blank")
				continue
			}
			rate, err := decimal.NewFromString(cell(row, cRate, okRate))
			if err != nil {
				res.skip(rowNum, "invalid hourly_rate %q", cell(row, cRate, okRate))
				continue
			}
			if rate.IsNegative() {
				res.skip(rowNum, "negative hourly_rate %s", rate)
				continue
			}

			var emp models.Employee
			find := tx.Where(models.Employee{Code: code}).FirstOrCreate(&emp)
			if find.Error != nil {
				return find.Error
			}
			isNew := find.RowsAffected > 0
			if name := cell(row, cName, okName); name != "" {
				emp.Name = name
			}
			emp.HourlyRate = decimal.NullDecimal{Decimal: rate, Valid: true}
			emp.IsActive = true // 取込時は在籍に戻す
			if err := tx.Save(&emp).Error; err != nil {
				return err
			}
			if isNew {
				res.Created++
			} else {
				res.Updated++
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// ShiftImporter upserts planned shifts from an .xlsx file.
// Required columns: code, date, start, end. Optional: break_minutes, note.
type ShiftImporter struct {
	db *gorm.DB
}

func NewShiftImporter(db *gorm.DB) *ShiftImporter { return &ShiftImporter{db: db} }

func (imp *ShiftImporter) Run(r io.Reader) (*ImportResult, error) {
	rows, header, err := sheetRows(r, []string{"code", "date", "start", "end"})
	if err != nil {
		return nil, err
	}
	cCode, okCode := header["code"]
	cDate, okDate := header["date"]
	cStart, okStart := header["start"]
	cEnd, okEnd := header["end"]
	cBreak, okBreak := header["break_minutes"]
	cNote, okNote := header["note"]

	res := &ImportResult{}
	err = imp.db.Transaction(func(tx *gorm.DB) error {
		for i, row := range rows[1:] {
			rowNum := i + 2

			code := cell(row, cCode, okCode)
			if code == "" {
				res.skip(rowNum, "employee code is blank")
				continue
			}
			var emp models.Employee
			if err := tx.Where("code = ?", code).First(&emp).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					res.skip(rowNum, "unknown employee code %q", code)
					continue
				}
				return err
			}

			date, ok := parseDateCell(cell(row, cDate, okDate))
			if !ok {
				res.skip(rowNum, "invalid date %q", cell(row, cDate, okDate))
				continue
			}
			start, ok := parseTimeCell(cell(row, cStart, okStart))
			if !ok {
				res.skip(rowNum, "invalid start time %q", cell(row, cStart, okStart))
				continue
			}
			end, ok := parseTimeCell(cell(row, cEnd, okEnd))
			if !ok {
				res.skip(rowNum, "invalid end time %q", cell(row, cEnd, okEnd))
				continue
			}
			breakMin := 0
			if raw := cell(row, cBreak, okBreak); raw != "" {
				v, convErr := strconv.Atoi(raw)
				if convErr != nil || v < 0 {
					res.skip(rowNum, "invalid break_minutes %q", raw)
					continue
				}
				breakMin = v
			}

			var shift models.Shift
			key := models.Shift{
				EmployeeID: emp.ID,
				Date:       date.Format(timecalc.DateLayout),
				StartTime:  start.Format(timecalc.TimeLayout),
			}
			find := tx.Where(key).FirstOrCreate(&shift)
			if find.Error != nil {
				return find.Error
			}
			isNew := find.RowsAffected > 0
			shift.EndTime = end.Format(timecalc.TimeLayout)
			shift.BreakMinutes = breakMin
			shift.Note = cell(row, cNote, okNote)
			if err := tx.Save(&shift).Error; err != nil {
				return err
			}
			if isNew {
				res.Created++
			} else {
				res.Updated++
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}
