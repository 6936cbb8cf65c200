// Package timeutil provides timezone utilities for Almaty timezone (UTC+5),
// where the institute and its partner companies operate. Weekly report
// deadlines and audit timestamps are all computed against this zone.
// No external dependencies - uses only standard library.
package timeutil

import (
	"time"
)

// AlmatyTZ is the Almaty timezone (UTC+5, no DST).
// Kazakhstan abolished DST in 2005, so this is constant year-round.
var AlmatyTZ = time.FixedZone("Asia/Almaty", 5*60*60)

// Now returns the current time in Almaty timezone.
func Now() time.Time {
	return time.Now().In(AlmatyTZ)
}

// ToAlmaty converts a time to Almaty timezone.
func ToAlmaty(t time.Time) time.Time {
	return t.In(AlmatyTZ)
}

// ToUTC converts a time to UTC.
func ToUTC(t time.Time) time.Time {
	return t.UTC()
}

// Date creates a time in Almaty timezone with the given date.
func Date(year, month, day int) time.Time {
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, AlmatyTZ)
}

// StartOfDay returns the start of the day (00:00:00) in Almaty timezone.
func StartOfDay(t time.Time) time.Time {
	almaty := ToAlmaty(t)
	return time.Date(almaty.Year(), almaty.Month(), almaty.Day(), 0, 0, 0, 0, AlmatyTZ)
}

// EndOfDay returns the end of the day (23:59:59.999999999) in Almaty timezone.
func EndOfDay(t time.Time) time.Time {
	almaty := ToAlmaty(t)
	return time.Date(almaty.Year(), almaty.Month(), almaty.Day(), 23, 59, 59, 999999999, AlmatyTZ)
}

// StartOfWeek returns the start of the week (Monday 00:00:00) in Almaty timezone.
func StartOfWeek(t time.Time) time.Time {
	almaty := ToAlmaty(t)
	weekday := int(almaty.Weekday())
	if weekday == 0 {
		weekday = 7 // Sunday
	}
	daysToSubtract := weekday - 1 // Monday = 1
	return StartOfDay(almaty.AddDate(0, 0, -daysToSubtract))
}

// EndOfWeek returns the end of the week (Sunday 23:59:59) in Almaty timezone.
func EndOfWeek(t time.Time) time.Time {
	start := StartOfWeek(t)
	return EndOfDay(start.AddDate(0, 0, 6))
}

// TrainingWeek returns the 1-based week number of t relative to the
// internship start date. Times before the start are week 1.
func TrainingWeek(start, t time.Time) int {
	s := StartOfWeek(start)
	w := StartOfWeek(t)
	if w.Before(s) {
		return 1
	}
	return int(w.Sub(s).Hours()/(24*7)) + 1
}

// IsSameDay checks if two times are on the same day in Almaty timezone.
func IsSameDay(t1, t2 time.Time) bool {
	a1, a2 := ToAlmaty(t1), ToAlmaty(t2)
	return a1.Year() == a2.Year() && a1.YearDay() == a2.YearDay()
}

// DaysBetween calculates the number of days between two times.
func DaysBetween(t1, t2 time.Time) int {
	a1 := StartOfDay(t1)
	a2 := StartOfDay(t2)
	duration := a2.Sub(a1)
	days := int(duration.Hours() / 24)
	if days < 0 {
		days = -days
	}
	return days
}

// IsWeekend checks if the given time is on a weekend.
func IsWeekend(t time.Time) bool {
	almaty := ToAlmaty(t)
	weekday := almaty.Weekday()
	return weekday == time.Saturday || weekday == time.Sunday
}

// IsWorkday checks if the given time is on a workday (Mon-Fri).
func IsWorkday(t time.Time) bool {
	return !IsWeekend(t)
}

// NextWorkday returns the next workday (skipping weekends).
func NextWorkday(t time.Time) time.Time {
	next := ToAlmaty(t).AddDate(0, 0, 1)
	for IsWeekend(next) {
		next = next.AddDate(0, 0, 1)
	}
	return StartOfDay(next)
}

// Common date/time formats.
const (
	// FormatDate is the standard date format (YYYY-MM-DD). NOC start and
	// end dates and opportunity deadlines use this layout.
	FormatDate = "2006-01-02"
	// FormatDateTime is the standard datetime format.
	FormatDateTime = "2006-01-02 15:04"
	// FormatDateTimeSeconds includes seconds.
	FormatDateTimeSeconds = "2006-01-02 15:04:05"
)

// FormatAlmaty formats a time in Almaty timezone with the given layout.
func FormatAlmaty(t time.Time, layout string) string {
	return ToAlmaty(t).Format(layout)
}

// FormatDateStr formats a time as a date string (YYYY-MM-DD) in Almaty timezone.
func FormatDateStr(t time.Time) string {
	return FormatAlmaty(t, FormatDate)
}

// ParseAlmaty parses a time string in Almaty timezone.
func ParseAlmaty(layout, value string) (time.Time, error) {
	return time.ParseInLocation(layout, value, AlmatyTZ)
}

// ParseDateAlmaty parses a date string (YYYY-MM-DD) in Almaty timezone.
func ParseDateAlmaty(value string) (time.Time, error) {
	return ParseAlmaty(FormatDate, value)
}
