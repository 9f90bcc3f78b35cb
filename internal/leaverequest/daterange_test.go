package leaverequest

import (
	"testing"
	"time"

	leaverequesterrors "go-leaveflow/internal/leaverequest/errors"

	"github.com/stretchr/testify/assert"
)

var testNow = time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)

func TestValidateDateRange_WholeDays(t *testing.T) {
	interval, err := ValidateDateRange("2026-03-10", "2026-03-12", "", "", testNow)
	assert.NoError(t, err)
	assert.Equal(t, time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC), interval.From)
	assert.Equal(t, time.Date(2026, time.March, 12, 23, 59, 59, int(999*time.Millisecond), time.UTC), interval.To)
}

func TestValidateDateRange_WithClockTimes(t *testing.T) {
	interval, err := ValidateDateRange("2026-03-10", "2026-03-10", "09:00", "13:30", testNow)
	assert.NoError(t, err)
	assert.Equal(t, time.Date(2026, time.March, 10, 9, 0, 0, 0, time.UTC), interval.From)
	assert.Equal(t, time.Date(2026, time.March, 10, 13, 30, 0, 0, time.UTC), interval.To)
	assert.Equal(t, int64(4*3600+30*60), interval.DurationSeconds())
}

func TestValidateDateRange_InvalidDateFormat(t *testing.T) {
	_, err := ValidateDateRange("10-03-2026", "2026-03-12", "", "", testNow)
	assert.ErrorIs(t, err, leaverequesterrors.ErrInvalidDateFormat)

	_, err = ValidateDateRange("2026-03-10", "tomorrow", "", "", testNow)
	assert.ErrorIs(t, err, leaverequesterrors.ErrInvalidDateFormat)
}

func TestValidateDateRange_InvalidTimeFormat(t *testing.T) {
	_, err := ValidateDateRange("2026-03-10", "2026-03-10", "9am", "", testNow)
	assert.ErrorIs(t, err, leaverequesterrors.ErrInvalidTimeFormat)

	_, err = ValidateDateRange("2026-03-10", "2026-03-10", "", "25:00", testNow)
	assert.ErrorIs(t, err, leaverequesterrors.ErrInvalidTimeFormat)
}

func TestValidateDateRange_InvertedRange(t *testing.T) {
	_, err := ValidateDateRange("2026-03-12", "2026-03-10", "", "", testNow)
	assert.ErrorIs(t, err, leaverequesterrors.ErrRangeInvertedDates)
	assert.Contains(t, err.Error(), "from date cannot be later than to date")

	_, err = ValidateDateRange("2026-03-10", "2026-03-10", "14:00", "09:00", testNow)
	assert.ErrorIs(t, err, leaverequesterrors.ErrRangeInvertedFromTime)

	_, err = ValidateDateRange("2026-03-11", "2026-03-10", "", "23:00", testNow)
	assert.ErrorIs(t, err, leaverequesterrors.ErrRangeInvertedToTime)
}

func TestValidateDateRange_PastStart(t *testing.T) {
	_, err := ValidateDateRange("2026-02-01", "2026-03-12", "", "", testNow)
	assert.ErrorIs(t, err, leaverequesterrors.ErrPastDate)

	// Inversion is checked before the past rule.
	_, err = ValidateDateRange("2026-02-02", "2026-02-01", "", "", testNow)
	assert.ErrorIs(t, err, leaverequesterrors.ErrRangeInvertedDates)
}

func TestInterval_DurationSecondsNeverNegative(t *testing.T) {
	i := Interval{From: testNow, To: testNow.Add(-time.Hour)}
	assert.Equal(t, int64(0), i.DurationSeconds())
}
