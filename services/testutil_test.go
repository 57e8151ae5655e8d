package services

import (
	"bytes"
	"io"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/nabenabe-code/kintai/database"
	"github.com/nabenabe-code/kintai/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "kintai_test.db")), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}

func createEmployee(t *testing.T, db *gorm.DB, code, name string, rate int64, active bool) *models.Employee {
	t.Helper()
	emp := models.Employee{
		Code:       code,
		Name:       name,
		HourlyRate: decimal.NullDecimal{Decimal: decimal.NewFromInt(rate), Valid: true},
		IsActive:   active,
	}
	if !active {
		// bypass the gorm default:true tag, which treats false as unset
		if err := db.Create(&emp).Error; err != nil {
			t.Fatalf("create employee %s: %v", code, err)
		}
		if err := db.Model(&emp).Update("is_active", false).Error; err != nil {
			t.Fatalf("deactivate employee %s: %v", code, err)
		}
		return &emp
	}
	if err := db.Create(&emp).Error; err != nil {
		t.Fatalf("create employee %s: %v", code, err)
	}
	return &emp
}

// buildXLSX renders rows (header first) into an in-memory workbook.
func buildXLSX(t *testing.T, rows [][]any) io.Reader {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for i := range rows {
		addr, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatalf("cell name: %v", err)
		}
		if err := f.SetSheetRow("Sheet1", addr, &rows[i]); err != nil {
			t.Fatalf("set row %d: %v", i+1, err)
		}
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("write workbook: %v", err)
	}
	return bytes.NewReader(buf.Bytes())
}
