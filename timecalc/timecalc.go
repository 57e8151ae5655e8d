// Package timecalc holds the pure duration/wage arithmetic shared by the
// attendance and shift records. All functions are side-effect free.
package timecalc

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

var dateLayouts = []string{"2006-01-02", "2006/01/02"}
var timeLayouts = []string{"15:04", "15:04:05"}

// ParseDate accepts YYYY-MM-DD or YYYY/MM/DD.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if d, err := time.Parse(layout, s); err == nil {
			return d, true
		}
	}
	return time.Time{}, false
}

// ParseTime accepts HH:MM or HH:MM:SS.
func ParseTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// combine anchors a time-of-day on the given work date.
func combine(date, clock time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(),
		clock.Hour(), clock.Minute(), clock.Second(), 0, time.UTC)
}

// spanMinutes applies the overnight rule: an end instant at or before the
// start instant belongs to the next day. Note start==end therefore counts as
// a full 24 hours, matching the existing records this system inherits.
func spanMinutes(date time.Time, start, end time.Time) int {
	from := combine(date, start)
	to := combine(date, end)
	if !to.After(from) {
		to = to.AddDate(0, 0, 1)
	}
	m := int(to.Sub(from).Minutes())
	if m < 0 {
		return 0
	}
	return m
}

// WorkedMinutes returns the worked minutes for one attendance day, or nil if
// either punch is missing or unparsable.
func WorkedMinutes(workDate string, timeIn, timeOut *string) *int {
	if timeIn == nil || timeOut == nil {
		return nil
	}
	d, ok := ParseDate(workDate)
	if !ok {
		return nil
	}
	in, ok := ParseTime(*timeIn)
	if !ok {
		return nil
	}
	out, ok := ParseTime(*timeOut)
	if !ok {
		return nil
	}
	m := spanMinutes(d, in, out)
	return &m
}

// ShiftWorkedMinutes is the planned shift span minus the break, floored at
// zero. Unparsable times yield zero.
func ShiftWorkedMinutes(start, end string, breakMinutes int) int {
	st, ok := ParseTime(start)
	if !ok {
		return 0
	}
	et, ok := ParseTime(end)
	if !ok {
		return 0
	}
	// anchor date is irrelevant for a pure span
	m := spanMinutes(time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC), st, et) - breakMinutes
	if m < 0 {
		return 0
	}
	return m
}

// EstimatedWage computes minutes/60 * rate in decimal arithmetic, rounded to
// two places with banker's rounding (half to even) so repeated ties do not
// drift the totals. The result is invalid when either input is unknown;
// "no pay data" must stay distinguishable from zero pay.
func EstimatedWage(minutes *int, rate decimal.NullDecimal) decimal.NullDecimal {
	if minutes == nil || !rate.Valid {
		return decimal.NullDecimal{}
	}
	hours := decimal.NewFromInt(int64(*minutes)).Div(decimal.NewFromInt(60))
	return decimal.NullDecimal{Decimal: hours.Mul(rate.Decimal).RoundBank(2), Valid: true}
}
