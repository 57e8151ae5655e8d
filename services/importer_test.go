package services

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	"github.com/nabenabe-code/kintai/models"
)

func TestEmployeeImportCreateThenUpdate(t *testing.T) {
	db := newTestDB(t)
	imp := NewEmployeeImporter(db)

	rows := [][]any{
		{"code", "name", "hourly_rate"},
		{"E001", "太郎", 1000},
	}

	res, err := imp.Run(buildXLSX(t, rows))
	if err != nil {
		t.Fatalf("first import: %v", err)
	}
	if res.Created != 1 || res.Updated != 0 || res.Skipped != 0 {
		t.Fatalf("first run tally: %+v", res)
	}

	res, err = imp.Run(buildXLSX(t, rows))
	if err != nil {
		t.Fatalf("second import: %v", err)
	}
	if res.Created != 0 || res.Updated != 1 || res.Skipped != 0 {
		t.Fatalf("second run tally: %+v", res)
	}

	var count int64
	db.Model(&models.Employee{}).Count(&count)
	if count != 1 {
		t.Fatalf("expected 1 employee after re-import, got %d", count)
	}

	var emp models.Employee
	if err := db.Where("code = ?", "E001").First(&emp).Error; err != nil {
		t.Fatalf("load employee: %v", err)
	}
	if emp.Name != "太郎" || !emp.HourlyRate.Valid || emp.HourlyRate.Decimal.String() != "1000" {
		t.Fatalf("unexpected employee fields: %+v", emp)
	}
}

func TestEmployeeImportMissingRequiredColumn(t *testing.T) {
	db := newTestDB(t)

	_, err := NewEmployeeImporter(db).Run(buildXLSX(t, [][]any{
		{"code", "name"},
		{"E001", "太郎"},
	}))
	if err == nil || !strings.Contains(err.Error(), "hourly_rate") {
		t.Fatalf("expected missing-column error naming hourly_rate, got %v", err)
	}

	var count int64
	db.Model(&models.Employee{}).Count(&count)
	if count != 0 {
		t.Fatalf("whole-file failure must import nothing, got %d rows", count)
	}
}

func TestEmployeeImportRowErrorsAreLocal(t *testing.T) {
	db := newTestDB(t)

	res, err := NewEmployeeImporter(db).Run(buildXLSX(t, [][]any{
		{"Code", "Name", "Hourly_Rate"}, // header matching is case-insensitive
		{"E001", "太郎", "1000"},
		{"", "名無し", "900"},
		{"E003", "花子", "abc"},
		{"E004", "次郎", "-10"},
		{"E005", "三郎", "1234.5"},
	}))
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if res.Created != 2 || res.Updated != 0 || res.Skipped != 3 {
		t.Fatalf("tally: %+v", res)
	}
	if len(res.Errors) != 3 {
		t.Fatalf("expected 3 row errors, got %v", res.Errors)
	}
	if !strings.Contains(res.Errors[0], "row 3") {
		t.Fatalf("row errors must be keyed by row number: %v", res.Errors)
	}
	if !strings.Contains(res.Errors[1], "hourly_rate") {
		t.Fatalf("expected an hourly_rate error for row 4: %v", res.Errors)
	}

	var emp models.Employee
	if err := db.Where("code = ?", "E005").First(&emp).Error; err != nil {
		t.Fatalf("decimal-string rate row must import: %v", err)
	}
	if emp.HourlyRate.Decimal.String() != "1234.5" {
		t.Fatalf("expected rate 1234.5, got %s", emp.HourlyRate.Decimal)
	}
}

func TestEmployeeImportReactivates(t *testing.T) {
	db := newTestDB(t)
	createEmployee(t, db, "E001", "太郎", 1000, false)

	res, err := NewEmployeeImporter(db).Run(buildXLSX(t, [][]any{
		{"code", "name", "hourly_rate"},
		{"E001", "太郎", 1100},
	}))
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if res.Updated != 1 {
		t.Fatalf("tally: %+v", res)
	}

	var emp models.Employee
	if err := db.Where("code = ?", "E001").First(&emp).Error; err != nil {
		t.Fatalf("load employee: %v", err)
	}
	if !emp.IsActive {
		t.Fatalf("re-import must reactivate the employee")
	}
}

func TestShiftImportCreateThenUpdate(t *testing.T) {
	db := newTestDB(t)
	emp := createEmployee(t, db, "E001", "太郎", 1000, true)
	imp := NewShiftImporter(db)

	res, err := imp.Run(buildXLSX(t, [][]any{
		{"code", "date", "start", "end", "break_minutes", "note"},
		{"E001", "2025-08-13", "09:00", "18:00", 60, "通常"},
		{"E001", "2025/08/14", "22:00", "06:00", "", ""}, // 日跨ぎ・区切り違い・休憩なし
	}))
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if res.Created != 2 || res.Updated != 0 || res.Skipped != 0 {
		t.Fatalf("tally: %+v", res)
	}

	var shifts []models.Shift
	if err := db.Where("employee_id = ?", emp.ID).Order("date ASC").Find(&shifts).Error; err != nil {
		t.Fatalf("load shifts: %v", err)
	}
	if len(shifts) != 2 {
		t.Fatalf("expected 2 shifts, got %d", len(shifts))
	}
	if shifts[0].TotalWorkMinutes() != 480 {
		t.Fatalf("expected 480 worked minutes, got %d", shifts[0].TotalWorkMinutes())
	}
	if shifts[1].Date != "2025-08-14" || shifts[1].TotalWorkMinutes() != 480 {
		t.Fatalf("overnight shift not normalized: %+v", shifts[1])
	}

	// same natural key again: update, not duplicate
	res, err = imp.Run(buildXLSX(t, [][]any{
		{"code", "date", "start", "end", "break_minutes"},
		{"E001", "2025-08-13", "09:00", "17:00", 45},
	}))
	if err != nil {
		t.Fatalf("re-import: %v", err)
	}
	if res.Created != 0 || res.Updated != 1 {
		t.Fatalf("re-import tally: %+v", res)
	}
	var shift models.Shift
	if err := db.Where("employee_id = ? AND date = ? AND start_time = ?", emp.ID, "2025-08-13", "09:00").
		First(&shift).Error; err != nil {
		t.Fatalf("load shift: %v", err)
	}
	if shift.EndTime != "17:00" || shift.BreakMinutes != 45 {
		t.Fatalf("shift not updated: %+v", shift)
	}
}

func TestShiftImportNativeDateAndTimeCells(t *testing.T) {
	db := newTestDB(t)
	emp := createEmployee(t, db, "E001", "太郎", 1000, true)

	// a hand-typed sheet: the date is a real Excel date cell and the times
	// are day fractions, not text
	f := excelize.NewFile()
	defer f.Close()
	for cellAddr, v := range map[string]any{
		"A1": "code", "B1": "date", "C1": "start", "D1": "end",
		"A2": "E001",
		"B2": time.Date(2025, 8, 13, 0, 0, 0, 0, time.UTC),
		"C2": 0.375, // 09:00
		"D2": 0.75,  // 18:00
	} {
		if err := f.SetCellValue("Sheet1", cellAddr, v); err != nil {
			t.Fatalf("set cell %s: %v", cellAddr, err)
		}
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("write workbook: %v", err)
	}

	res, err := NewShiftImporter(db).Run(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if res.Created != 1 || res.Skipped != 0 {
		t.Fatalf("native cells must resolve, tally: %+v errors: %v", res, res.Errors)
	}

	var shift models.Shift
	if err := db.Where("employee_id = ?", emp.ID).First(&shift).Error; err != nil {
		t.Fatalf("load shift: %v", err)
	}
	if shift.Date != "2025-08-13" || shift.StartTime != "09:00" || shift.EndTime != "18:00" {
		t.Fatalf("native cells not normalized: %+v", shift)
	}
}

func TestEmployeeImportRollsBackOnStorageFailure(t *testing.T) {
	db := newTestDB(t)

	// storage dies after the first row has been applied inside the run
	storageDown := errors.New("storage unavailable")
	creates := 0
	err := db.Callback().Create().Before("gorm:create").Register("fail_second_employee", func(tx *gorm.DB) {
		if tx.Statement.Table != "employees" {
			return
		}
		creates++
		if creates == 2 {
			tx.AddError(storageDown)
		}
	})
	if err != nil {
		t.Fatalf("register callback: %v", err)
	}

	_, err = NewEmployeeImporter(db).Run(buildXLSX(t, [][]any{
		{"code", "name", "hourly_rate"},
		{"E001", "太郎", 1000},
		{"E002", "花子", 1100},
	}))
	if !errors.Is(err, storageDown) {
		t.Fatalf("expected the storage failure to surface, got %v", err)
	}

	var count int64
	db.Model(&models.Employee{}).Count(&count)
	if count != 0 {
		t.Fatalf("a fatal mid-run failure must roll back the whole file, got %d rows", count)
	}
}

func TestShiftImportUnknownEmployeeSkipsRow(t *testing.T) {
	db := newTestDB(t)
	createEmployee(t, db, "E001", "太郎", 1000, true)

	res, err := NewShiftImporter(db).Run(buildXLSX(t, [][]any{
		{"code", "date", "start", "end"},
		{"E999", "2025-08-13", "09:00", "18:00"},
		{"E001", "2025-08-13", "09:00", "18:00"},
	}))
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if res.Created != 1 || res.Skipped != 1 {
		t.Fatalf("tally: %+v", res)
	}
	if len(res.Errors) != 1 || !strings.Contains(res.Errors[0], "E999") {
		t.Fatalf("error must name the missing code: %v", res.Errors)
	}

	var count int64
	db.Model(&models.Shift{}).Count(&count)
	if count != 1 {
		t.Fatalf("expected only the resolvable row to import, got %d", count)
	}
}

func TestShiftImportBadValuesSkipRows(t *testing.T) {
	db := newTestDB(t)
	createEmployee(t, db, "E001", "太郎", 1000, true)

	res, err := NewShiftImporter(db).Run(buildXLSX(t, [][]any{
		{"code", "date", "start", "end", "break_minutes"},
		{"E001", "13/08/2025", "09:00", "18:00", 0},
		{"E001", "2025-08-13", "9am", "18:00", 0},
		{"E001", "2025-08-13", "09:00", "18:00", "zero"},
	}))
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if res.Created != 0 || res.Skipped != 3 {
		t.Fatalf("tally: %+v", res)
	}

	res, err = NewShiftImporter(db).Run(buildXLSX(t, [][]any{
		{"code", "start", "end"},
		{"E001", "09:00", "18:00"},
	}))
	if err == nil || !strings.Contains(err.Error(), "date") {
		t.Fatalf("expected missing-column error naming date, got %v", err)
	}
	_ = res
}
