package attendance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func kolkata(t *testing.T) *time.Location {
	loc, err := time.LoadLocation("Asia/Kolkata")
	require.NoError(t, err)
	return loc
}

func TestPolicy_StatusFor(t *testing.T) {
	loc := kolkata(t)
	p, err := NewPolicy(loc, "09:00", 15)
	require.NoError(t, err)

	assert.Equal(t, StatusPresent, p.StatusFor(time.Date(2026, 3, 2, 8, 55, 0, 0, loc)))
	assert.Equal(t, StatusPresent, p.StatusFor(time.Date(2026, 3, 2, 9, 15, 0, 0, loc)))
	assert.Equal(t, StatusLate, p.StatusFor(time.Date(2026, 3, 2, 9, 15, 1, 0, loc)))
	// 04:00 UTC is 09:30 in Kolkata
	assert.Equal(t, StatusLate, p.StatusFor(time.Date(2026, 3, 2, 4, 0, 0, 0, time.UTC)))
}

func TestPolicy_LateMinutes(t *testing.T) {
	loc := kolkata(t)
	p, err := NewPolicy(loc, "09:00", 15)
	require.NoError(t, err)

	assert.Zero(t, p.LateMinutes(time.Date(2026, 3, 2, 8, 40, 0, 0, loc)))
	assert.Zero(t, p.LateMinutes(time.Date(2026, 3, 2, 9, 10, 0, 0, loc)))
	assert.Equal(t, 40, p.LateMinutes(time.Date(2026, 3, 2, 9, 40, 0, 0, loc)))
}

func TestPolicy_LocalDate(t *testing.T) {
	p, err := NewPolicy(kolkata(t), "09:00", 0)
	require.NoError(t, err)

	// 20:00 UTC on the 1st is 01:30 on the 2nd in Kolkata
	got := p.LocalDate(time.Date(2026, 3, 1, 20, 0, 0, 0, time.UTC))
	assert.Equal(t, time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC), got)
}

func TestNewPolicy_InvalidStart(t *testing.T) {
	_, err := NewPolicy(time.UTC, "9am", 0)
	assert.Error(t, err)
}

func TestAttendance_WorkedMinutes(t *testing.T) {
	in := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	out := in.Add(8*time.Hour + 30*time.Minute)

	assert.Equal(t, 0, Attendance{CheckIn: &in}.WorkedMinutes())
	assert.True(t, Attendance{CheckIn: &in}.IsOpen())
	assert.Equal(t, 510, Attendance{CheckIn: &in, CheckOut: &out}.WorkedMinutes())
}
