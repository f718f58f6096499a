package period

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBuildCalendar_March2025(t *testing.T) {
	facts := BuildCalendar(3, 2025)

	assert.Equal(t, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), facts.StartDate)
	assert.Equal(t, time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC), facts.EndDate)
	// March 2025 has five Sundays (2, 9, 16, 23, 30)
	assert.Equal(t, 5, facts.Weekends)
	assert.Equal(t, 26, facts.WorkingDays)
}

func TestBuildCalendar_LeapFebruary(t *testing.T) {
	facts := BuildCalendar(2, 2024)

	assert.Equal(t, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), facts.EndDate)
	// February 2024 has four Sundays (4, 11, 18, 25)
	assert.Equal(t, 4, facts.Weekends)
	assert.Equal(t, 25, facts.WorkingDays)
}

func TestBuildCalendar_EveryDayClassified(t *testing.T) {
	for month := 1; month <= 12; month++ {
		facts := BuildCalendar(month, 2025)
		daysInMonth := facts.EndDate.Day()
		assert.Equal(t, daysInMonth, facts.WorkingDays+facts.Weekends, "month %d", month)
	}
}
