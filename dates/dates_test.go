package dates_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/healthreply/pflegenetz/dates"
)

func TestParseDay(t *testing.T) {
	d, err := dates.ParseDay("2025-08-14")
	require.NoError(t, err)
	assert.Equal(t, dates.Day("2025-08-14"), d)

	_, err = dates.ParseDay("14.08.2025")
	assert.Error(t, err)
}

func TestDay_Ordering(t *testing.T) {
	// Lexicographic string order is calendar order for ISO days.
	assert.True(t, dates.Day("2025-08-09").Before("2025-08-10"))
	assert.True(t, dates.Day("2025-12-31").Before("2026-01-01"))
	assert.True(t, dates.Day("2025-08-10").Between("2025-08-10", "2025-08-10"), "inclusive on both ends")
	assert.False(t, dates.Day("2025-08-11").Between("2025-08-01", "2025-08-10"))
}

func TestDay_AddDaysCrossesMonth(t *testing.T) {
	assert.Equal(t, dates.Day("2025-09-01"), dates.Day("2025-08-31").AddDays(1))
	assert.Equal(t, dates.Day("2025-08-31"), dates.Day("2025-09-01").AddDays(-1))
}

func TestMonth_Contains(t *testing.T) {
	m := dates.Month("2025-08")
	assert.True(t, m.Contains("2025-08-01"))
	assert.True(t, m.Contains("2025-08-31"))
	assert.False(t, m.Contains("2025-07-31"))
	assert.False(t, m.Contains(""))
	assert.Equal(t, dates.Day("2025-08-05"), m.Day(5))
}

func TestWeekOf_MondayAligned(t *testing.T) {
	// 2025-08-07 is a Thursday; its week starts Monday 2025-08-04.
	w := dates.WeekOf("2025-08-07")

	assert.Equal(t, dates.Day("2025-08-04"), w.Start())
	assert.Equal(t, time.Monday, w.Start().Weekday())
	assert.Equal(t, dates.Day("2025-08-10"), w[6])
	assert.Equal(t, 3, w.Index("2025-08-07"))
	assert.Equal(t, -1, w.Index("2025-08-11"))
	assert.True(t, w.Contains("2025-08-10"))

	// A Monday is its own week start.
	assert.Equal(t, dates.Day("2025-08-04"), dates.WeekOf("2025-08-04").Start())
}

func TestWeek_Navigation(t *testing.T) {
	w := dates.WeekOf("2025-08-04")
	assert.Equal(t, dates.Day("2025-08-11"), w.Next().Start())
	assert.Equal(t, dates.Day("2025-07-28"), w.Prev().Start())
}
