package models

import (
	"time"

	"github.com/nabenabe-code/kintai/timecalc"
)

// シフト予定。従業員×日付×開始時刻で1件
type Shift struct {
	ID           uint   `json:"id" gorm:"primaryKey"`
	EmployeeID   uint   `json:"employee_id" gorm:"not null;uniqueIndex:idx_shift_employee_date_start"`
	Date         string `json:"date" gorm:"size:10;not null;uniqueIndex:idx_shift_employee_date_start"` // YYYY-MM-DD
	StartTime    string `json:"start_time" gorm:"size:5;not null;uniqueIndex:idx_shift_employee_date_start"`
	EndTime      string `json:"end_time" gorm:"size:5;not null"` // 開始以前なら翌日扱い（日跨ぎ）
	BreakMinutes int    `json:"break_minutes" gorm:"not null;default:0"`
	Note         string `json:"note" gorm:"size:200"`

	Employee Employee `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TotalWorkMinutes is the planned span minus break, floored at zero.
func (s *Shift) TotalWorkMinutes() int {
	return timecalc.ShiftWorkedMinutes(s.StartTime, s.EndTime, s.BreakMinutes)
}
