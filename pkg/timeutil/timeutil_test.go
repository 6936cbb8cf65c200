package timeutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartAndEndOfDay(t *testing.T) {
	// 2026-08-03 23:30 UTC is already 2026-08-04 04:30 in Almaty.
	utc := time.Date(2026, 8, 3, 23, 30, 0, 0, time.UTC)

	start := StartOfDay(utc)
	assert.Equal(t, 4, start.Day())
	assert.Equal(t, 0, start.Hour())

	end := EndOfDay(utc)
	assert.Equal(t, 4, end.Day())
	assert.Equal(t, 23, end.Hour())
}

func TestStartOfWeekIsMonday(t *testing.T) {
	// 2026-08-09 is a Sunday.
	sunday := Date(2026, 8, 9)
	start := StartOfWeek(sunday)
	assert.Equal(t, time.Monday, start.Weekday())
	assert.Equal(t, 3, start.Day())

	// A Monday is its own week start.
	monday := Date(2026, 8, 3)
	assert.Equal(t, start, StartOfWeek(monday))
}

func TestTrainingWeek(t *testing.T) {
	start := Date(2026, 6, 1) // a Monday

	assert.Equal(t, 1, TrainingWeek(start, Date(2026, 6, 1)))
	assert.Equal(t, 1, TrainingWeek(start, Date(2026, 6, 7)))
	assert.Equal(t, 2, TrainingWeek(start, Date(2026, 6, 8)))
	assert.Equal(t, 10, TrainingWeek(start, Date(2026, 8, 5)))

	// Before the internship started counts as week 1.
	assert.Equal(t, 1, TrainingWeek(start, Date(2026, 5, 20)))
}

func TestIsSameDayAcrossZones(t *testing.T) {
	// Same Almaty day, different UTC days.
	a := time.Date(2026, 8, 3, 20, 0, 0, 0, time.UTC) // Aug 4, 01:00 Almaty
	b := time.Date(2026, 8, 4, 10, 0, 0, 0, time.UTC) // Aug 4, 15:00 Almaty
	assert.True(t, IsSameDay(a, b))
	assert.False(t, IsSameDay(a, time.Date(2026, 8, 3, 1, 0, 0, 0, time.UTC)))
}

func TestDaysBetween(t *testing.T) {
	assert.Equal(t, 0, DaysBetween(Date(2026, 8, 3), Date(2026, 8, 3)))
	assert.Equal(t, 7, DaysBetween(Date(2026, 8, 3), Date(2026, 8, 10)))
	assert.Equal(t, 7, DaysBetween(Date(2026, 8, 10), Date(2026, 8, 3)), "order does not matter")
}

func TestWorkdayHelpers(t *testing.T) {
	friday := Date(2026, 8, 7)
	saturday := Date(2026, 8, 8)

	assert.True(t, IsWorkday(friday))
	assert.True(t, IsWeekend(saturday))

	// The workday after Friday is Monday.
	assert.Equal(t, time.Monday, NextWorkday(friday).Weekday())
	assert.Equal(t, 10, NextWorkday(friday).Day())
}

func TestParseAndFormatDate(t *testing.T) {
	parsed, err := ParseDateAlmaty("2026-10-01")
	require.NoError(t, err)
	assert.Equal(t, Date(2026, 10, 1), parsed)
	assert.Equal(t, "2026-10-01", FormatDateStr(parsed))
}
