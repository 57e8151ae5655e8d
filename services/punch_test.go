package services

import (
	"errors"
	"testing"
	"time"

	"github.com/nabenabe-code/kintai/models"
)

var punchDay = time.Date(2025, 8, 13, 9, 0, 0, 0, time.UTC)

func TestClockInThenOut(t *testing.T) {
	db := newTestDB(t)
	emp := createEmployee(t, db, "E001", "太郎", 1000, true)
	svc := NewPunchService(db)

	att, err := svc.ClockInByCode("E001", punchDay)
	if err != nil {
		t.Fatalf("clock in: %v", err)
	}
	if att.TimeIn == nil || *att.TimeIn != "09:00" {
		t.Fatalf("expected time_in 09:00, got %v", att.TimeIn)
	}
	if att.WorkDate != "2025-08-13" {
		t.Fatalf("expected work_date 2025-08-13, got %s", att.WorkDate)
	}

	att, err = svc.ClockOutByCode("E001", punchDay.Add(9*time.Hour))
	if err != nil {
		t.Fatalf("clock out: %v", err)
	}
	if att.TimeOut == nil || *att.TimeOut != "18:00" {
		t.Fatalf("expected time_out 18:00, got %v", att.TimeOut)
	}

	var count int64
	db.Model(&models.Attendance{}).Where("employee_id = ?", emp.ID).Count(&count)
	if count != 1 {
		t.Fatalf("expected exactly one attendance row, got %d", count)
	}
}

func TestClockInTwiceFails(t *testing.T) {
	db := newTestDB(t)
	createEmployee(t, db, "E001", "太郎", 1000, true)
	svc := NewPunchService(db)

	if _, err := svc.ClockInByCode("E001", punchDay); err != nil {
		t.Fatalf("first clock in: %v", err)
	}
	_, err := svc.ClockInByCode("E001", punchDay.Add(time.Hour))
	if !errors.Is(err, ErrAlreadyClockedIn) {
		t.Fatalf("expected ErrAlreadyClockedIn, got %v", err)
	}

	// state unchanged: the first in-time survives
	var att models.Attendance
	if err := db.Where("work_date = ?", "2025-08-13").First(&att).Error; err != nil {
		t.Fatalf("load attendance: %v", err)
	}
	if att.TimeIn == nil || *att.TimeIn != "09:00" {
		t.Fatalf("expected time_in to stay 09:00, got %v", att.TimeIn)
	}
}

func TestClockOutWithoutClockIn(t *testing.T) {
	db := newTestDB(t)
	createEmployee(t, db, "E001", "太郎", 1000, true)
	svc := NewPunchService(db)

	_, err := svc.ClockOutByCode("E001", punchDay)
	if !errors.Is(err, ErrNoPriorClockIn) {
		t.Fatalf("expected ErrNoPriorClockIn, got %v", err)
	}
}

func TestClockOutTwiceFails(t *testing.T) {
	db := newTestDB(t)
	createEmployee(t, db, "E001", "太郎", 1000, true)
	svc := NewPunchService(db)

	if _, err := svc.ClockInByCode("E001", punchDay); err != nil {
		t.Fatalf("clock in: %v", err)
	}
	if _, err := svc.ClockOutByCode("E001", punchDay.Add(8*time.Hour)); err != nil {
		t.Fatalf("clock out: %v", err)
	}
	_, err := svc.ClockOutByCode("E001", punchDay.Add(9*time.Hour))
	if !errors.Is(err, ErrAlreadyClockedOut) {
		t.Fatalf("expected ErrAlreadyClockedOut, got %v", err)
	}
}

func TestClockOutBeforeClockInRejected(t *testing.T) {
	db := newTestDB(t)
	createEmployee(t, db, "E001", "太郎", 1000, true)
	svc := NewPunchService(db)

	if _, err := svc.ClockInByCode("E001", punchDay); err != nil {
		t.Fatalf("clock in: %v", err)
	}
	// a skewed device reports 08:30 on the same work date
	_, err := svc.ClockOutByCode("E001", punchDay.Add(-30*time.Minute))
	if !errors.Is(err, ErrOutBeforeIn) {
		t.Fatalf("expected ErrOutBeforeIn, got %v", err)
	}

	var att models.Attendance
	if err := db.Where("work_date = ?", "2025-08-13").First(&att).Error; err != nil {
		t.Fatalf("load attendance: %v", err)
	}
	if att.TimeOut != nil {
		t.Fatalf("expected time_out to stay empty, got %v", *att.TimeOut)
	}
}

func TestPunchUnknownOrInactiveCode(t *testing.T) {
	db := newTestDB(t)
	createEmployee(t, db, "E900", "退職済み", 1000, false)
	svc := NewPunchService(db)

	if _, err := svc.ClockInByCode("NOPE", punchDay); !errors.Is(err, ErrEmployeeNotFound) {
		t.Fatalf("expected ErrEmployeeNotFound for unknown code, got %v", err)
	}
	if _, err := svc.ClockInByCode("E900", punchDay); !errors.Is(err, ErrEmployeeNotFound) {
		t.Fatalf("expected ErrEmployeeNotFound for inactive employee, got %v", err)
	}
}
