package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/nabenabe-code/kintai/timecalc"
)

// 勤怠レコード。従業員×勤務日で1件（複合ユニーク）
type Attendance struct {
	ID         uint    `json:"id" gorm:"primaryKey"`
	EmployeeID uint    `json:"employee_id" gorm:"not null;uniqueIndex:idx_attendance_employee_date"`
	WorkDate   string  `json:"work_date" gorm:"size:10;not null;uniqueIndex:idx_attendance_employee_date"` // YYYY-MM-DD
	TimeIn     *string `json:"time_in" gorm:"size:5"`  // HH:MM 出勤（未打刻なら null）
	TimeOut    *string `json:"time_out" gorm:"size:5"` // HH:MM 退勤
	Note       string  `json:"note" gorm:"size:200"`

	Employee Employee `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// WorkedMinutes returns the overnight-adjusted worked minutes, or nil while
// either punch is missing.
func (a *Attendance) WorkedMinutes() *int {
	return timecalc.WorkedMinutes(a.WorkDate, a.TimeIn, a.TimeOut)
}

// WageAmount is the estimated pay for the day. Invalid when the day is not
// fully punched or the employee has no hourly rate; callers must not read
// that as zero pay.
func (a *Attendance) WageAmount() decimal.NullDecimal {
	return timecalc.EstimatedWage(a.WorkedMinutes(), a.Employee.HourlyRate)
}
