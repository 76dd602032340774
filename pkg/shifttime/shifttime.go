// Package shifttime converts between entered clock times and fractional days
// (0.0 = 00:00, 0.5 = 12:00, 1.0 = 24:00) and does the shift arithmetic on them.
package shifttime

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

const (
	minutesPerDay = 24 * 60
	lastMinute    = minutesPerDay - 1
)

// ParseTime accepts "H", "H:M", "HH:MM", decimal hours ("7,5" or "7.5") and
// "HHMM" written as a number >= 100. Anything it cannot read yields 0,
// which callers treat as "no entry".
func ParseTime(text string) float64 {
	s := strings.ReplaceAll(strings.TrimSpace(text), ",", ".")
	if s == "" {
		return 0
	}

	if h, m, ok := strings.Cut(s, ":"); ok {
		hours, err1 := strconv.Atoi(strings.TrimSpace(h))
		minutes, err2 := strconv.Atoi(strings.TrimSpace(m))
		if err1 != nil || err2 != nil {
			return 0
		}
		return fromClock(hours, minutes)
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}

	if v >= 100 {
		if v != math.Trunc(v) {
			return 0
		}
		n := int(v)
		return fromClock(n/100, n%100)
	}

	mins := int(math.Round(v * 60))
	if mins > lastMinute {
		return 0
	}
	return fromMinutes(mins)
}

// FormatTime renders a fractional day as "HH:MM". Zero means "not scheduled"
// and renders as the empty string. Values that round to 24:00 clamp to 23:59.
func FormatTime(frac float64) string {
	if math.IsNaN(frac) || frac <= 0 {
		return ""
	}
	mins := int(math.Round(frac * minutesPerDay))
	if mins > lastMinute {
		mins = lastMinute
	}
	return fmt.Sprintf("%02d:%02d", mins/60, mins%60)
}

// FormatRange renders "HH:MM-HH:MM" for conflict messages and exports.
func FormatRange(start, end float64) string {
	s, e := FormatTime(start), FormatTime(end)
	if s == "" {
		s = "00:00"
	}
	if e == "" {
		e = "00:00"
	}
	return s + "-" + e
}

// ComputeHours returns worked hours for a shift. An end before the start
// means the shift runs past midnight. The break is subtracted and the
// result never drops below zero. Rounded to two decimals.
func ComputeHours(start, end, breakHours float64) float64 {
	if start == 0 && end == 0 {
		return 0
	}

	span := end - start
	if end < start {
		span = end + 1 - start
	}

	hours := 24*span - breakHours
	if hours <= 0 {
		return 0
	}
	return math.Round(hours*100) / 100
}

// Window is a time range in fractional days, already normalised so that
// End >= Start (a midnight-crossing shift has End > 1).
type Window struct {
	Start float64
	End   float64
}

// NewWindow normalises a start/end pair for midnight crossing.
func NewWindow(start, end float64) Window {
	if end < start {
		end += 1
	}
	return Window{Start: start, End: end}
}

// IsEmpty reports a zero-length window; empty windows never conflict.
func (w Window) IsEmpty() bool {
	return w.Start == w.End
}

// Overlaps uses half-open intervals: a shift ending exactly when the other
// starts does not overlap it.
func Overlaps(a, b Window) bool {
	return math.Max(a.Start, b.Start) < math.Min(a.End, b.End)
}

func fromClock(hours, minutes int) float64 {
	if hours < 0 || hours > 23 || minutes < 0 || minutes > 59 {
		return 0
	}
	return fromMinutes(hours*60 + minutes)
}

func fromMinutes(mins int) float64 {
	return float64(mins) / minutesPerDay
}
