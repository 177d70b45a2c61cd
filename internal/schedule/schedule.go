// Package schedule converts between UTC and local hours and evaluates the
// daily on/off windows of internal gains.
//
// Every profile in the calculator is indexed by UTC hour. Local time follows a
// fixed rule: months 4-10 are UTC+2, all other months UTC+1.
package schedule

import "github.com/chrissnell/coolingload/internal/types"

const (
	summerOffset = 2
	winterOffset = 1
)

// Offset returns the local-time offset from UTC in hours for a month (1-12)
func Offset(month int) int {
	if month >= 4 && month <= 10 {
		return summerOffset
	}
	return winterOffset
}

// ZoneLabel returns "UTC+1" or "UTC+2" for a month
func ZoneLabel(month int) string {
	if Offset(month) == summerOffset {
		return "UTC+2"
	}
	return "UTC+1"
}

// ToUTC converts a local hour to the UTC hour of the same day, wrapping at midnight
func ToUTC(localHour, month int) int {
	return wrap(localHour - Offset(month))
}

// ToLocal converts a UTC hour to local time, wrapping at midnight
func ToLocal(utcHour, month int) int {
	return wrap(utcHour + Offset(month))
}

// IsHourActive reports whether hour falls in the [start, end) window. A window
// with start > end wraps past midnight; start == end means always on.
func IsHourActive(hour, start, end int) bool {
	switch {
	case start < end:
		return hour >= start && hour < end
	case start > end:
		return hour >= start || hour < end
	default:
		return true
	}
}

// Window is a local-time on/off window
type Window struct {
	Start int
	End   int
}

// ActiveUTC returns, per UTC hour, whether the local window is on
func (w Window) ActiveUTC(month int) [types.HoursPerDay]bool {
	var active [types.HoursPerDay]bool
	start, end := ToUTC(w.Start, month), ToUTC(w.End, month)
	for h := range active {
		active[h] = IsHourActive(h, start, end)
	}
	return active
}

// ReorderLocal returns the profile re-indexed so that element i is local hour i
func ReorderLocal(h types.Hourly, month int) types.Hourly {
	var out types.Hourly
	for i := range out {
		out[i] = h[ToUTC(i, month)]
	}
	return out
}

func wrap(h int) int {
	return ((h % types.HoursPerDay) + types.HoursPerDay) % types.HoursPerDay
}
