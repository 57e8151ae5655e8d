package services

import (
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/nabenabe-code/kintai/models"
	"github.com/nabenabe-code/kintai/timecalc"
)

// State-conflict and reference errors surfaced by punch operations. The
// caller sees exactly one of these; the stored record is untouched on failure.
var (
	ErrEmployeeNotFound  = errors.New("employee code not found or not active")
	ErrAlreadyClockedIn  = errors.New("already clocked in for this work date")
	ErrAlreadyClockedOut = errors.New("already clocked out for this work date")
	ErrNoPriorClockIn    = errors.New("no clock-in recorded for this work date")
	ErrOutBeforeIn       = errors.New("clock-out time is before the recorded clock-in")
)

// PunchService drives the per-day clock-in/clock-out lifecycle:
// not started -> clocked in -> clocked out, each step at most once.
type PunchService struct {
	db *gorm.DB
}

func NewPunchService(db *gorm.DB) *PunchService { return &PunchService{db: db} }

// findActive resolves a kiosk-entered employee code.
func (s *PunchService) findActive(code string) (*models.Employee, error) {
	var emp models.Employee
	err := s.db.Where("code = ? AND is_active = ?", strings.TrimSpace(code), true).First(&emp).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrEmployeeNotFound
	}
	if err != nil {
		return nil, err
	}
	return &emp, nil
}

func (s *PunchService) ClockInByCode(code string, now time.Time) (*models.Attendance, error) {
	emp, err := s.findActive(code)
	if err != nil {
		return nil, err
	}
	return s.ClockIn(emp.ID, now)
}

func (s *PunchService) ClockOutByCode(code string, now time.Time) (*models.Attendance, error) {
	emp, err := s.findActive(code)
	if err != nil {
		return nil, err
	}
	return s.ClockOut(emp.ID, now)
}

// ClockIn creates the day's record if absent and stores the in-time, as one
// transaction. Two concurrent attempts for the same employee/day race on the
// (employee_id, work_date) unique index; the loser is reported as already
// clocked in.
func (s *PunchService) ClockIn(employeeID uint, now time.Time) (*models.Attendance, error) {
	workDate := now.Format(timecalc.DateLayout)
	hhmm := now.Format(timecalc.TimeLayout)

	var att models.Attendance
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where(models.Attendance{EmployeeID: employeeID, WorkDate: workDate}).
			FirstOrCreate(&att).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrAlreadyClockedIn
			}
			return err
		}
		if att.TimeIn != nil {
			return ErrAlreadyClockedIn
		}
		att.TimeIn = &hhmm
		return tx.Model(&att).Update("time_in", hhmm).Error
	})
	if err != nil {
		return nil, err
	}
	return &att, nil
}

// ClockOut stores the out-time for a day that has a clock-in and no clock-out
// yet. A timestamp earlier than the stored clock-in is rejected to defend
// against clock skew on the reporting device.
func (s *PunchService) ClockOut(employeeID uint, now time.Time) (*models.Attendance, error) {
	workDate := now.Format(timecalc.DateLayout)
	hhmm := now.Format(timecalc.TimeLayout)

	var att models.Attendance
	err := s.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Where("employee_id = ? AND work_date = ?", employeeID, workDate).First(&att).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNoPriorClockIn
		}
		if err != nil {
			return err
		}
		if att.TimeIn == nil {
			return ErrNoPriorClockIn
		}
		if att.TimeOut != nil {
			return ErrAlreadyClockedOut
		}
		if hhmm < *att.TimeIn {
			return ErrOutBeforeIn
		}
		att.TimeOut = &hhmm
		return tx.Model(&att).Update("time_out", hhmm).Error
	})
	if err != nil {
		return nil, err
	}
	return &att, nil
}
