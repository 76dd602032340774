package service

import (
	"errors"
	"time"

	"einsatzplan/internal/model"
)

var (
	ErrInvalidMonth     = errors.New("ungültiger Monat")
	ErrInvalidDate      = errors.New("ungültiges Datum")
	ErrInvalidDateRange = errors.New("ungültiger Datumsbereich")
)

// maxRangeDays caps leave range inserts at roughly one year.
const maxRangeDays = 366

var weekdayNames = [...]string{"Sonntag", "Montag", "Dienstag", "Mittwoch", "Donnerstag", "Freitag", "Samstag"}

// monthRange returns the first and last calendar day of a month, both UTC midnight.
func monthRange(year, month int) (time.Time, time.Time, error) {
	if month < 1 || month > 12 || year < 1900 || year > 9999 {
		return time.Time{}, time.Time{}, ErrInvalidMonth
	}
	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)
	return first, last, nil
}

// parseDay reads a YYYY-MM-DD string as UTC midnight.
func parseDay(s string) (time.Time, error) {
	t, err := time.ParseInLocation(model.DateLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return t, nil
}

func parseOptionalDay(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := parseDay(s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// parseDayRange validates an inclusive from..to pair.
func parseDayRange(from, to string) (time.Time, time.Time, error) {
	f, err := parseDay(from)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	t, err := parseDay(to)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if t.Before(f) || daysBetween(f, t) >= maxRangeDays {
		return time.Time{}, time.Time{}, ErrInvalidDateRange
	}
	return f, t, nil
}

// daysBetween counts whole days from a to b.
func daysBetween(a, b time.Time) int {
	return int(b.Sub(a).Hours() / 24)
}

// eachDay lists every calendar day from first to last inclusive.
func eachDay(first, last time.Time) []time.Time {
	days := make([]time.Time, 0, daysBetween(first, last)+1)
	for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

// dayKey is the calendar day of t as stored, independent of t's location.
func dayKey(t time.Time) string {
	return t.Format(model.DateLayout)
}

func formatOptionalDay(t *time.Time) string {
	if t == nil {
		return ""
	}
	return dayKey(*t)
}

// germanDate renders dd.mm.yyyy for messages and exports.
func germanDate(t time.Time) string {
	return t.Format("02.01.2006")
}

func isWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}
