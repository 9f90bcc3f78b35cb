package leaverequest

import (
	"regexp"
	"time"

	leaverequesterrors "go-leaveflow/internal/leaverequest/errors"
)

const dateLayout = "2006-01-02"

var timePattern = regexp.MustCompile(`^([01][0-9]|2[0-3]):([0-5][0-9])$`)

// Interval is a normalized, UTC, millisecond-precision leave period.
// It is produced once by ValidateDateRange; callers never re-derive it.
type Interval struct {
	From time.Time
	To   time.Time
}

// DurationSeconds is the interval length in whole seconds, clamped at
// zero so a point request never produces a negative saga timeout.
func (i Interval) DurationSeconds() int64 {
	secs := int64(i.To.Sub(i.From) / time.Second)
	if secs < 0 {
		return 0
	}
	return secs
}

// ValidateDateRange validates and normalizes a requested leave period.
// fromTime/toTime are optional 24-hour HH:MM strings; when absent the
// period covers the whole day (midnight through 23:59:59.999).
// Rules apply in order and the first failure wins: date format, time
// format, ordering, then the non-past check against now.
func ValidateDateRange(fromDate, toDate, fromTime, toTime string, now time.Time) (Interval, error) {
	fromDay, err := time.ParseInLocation(dateLayout, fromDate, time.UTC)
	if err != nil {
		return Interval{}, leaverequesterrors.ErrInvalidDateFormat
	}
	toDay, err := time.ParseInLocation(dateLayout, toDate, time.UTC)
	if err != nil {
		return Interval{}, leaverequesterrors.ErrInvalidDateFormat
	}

	if fromTime != "" && !timePattern.MatchString(fromTime) {
		return Interval{}, leaverequesterrors.ErrInvalidTimeFormat
	}
	if toTime != "" && !timePattern.MatchString(toTime) {
		return Interval{}, leaverequesterrors.ErrInvalidTimeFormat
	}

	from := fromDay
	if fromTime != "" {
		from = atClockTime(fromDay, fromTime)
	}

	to := endOfDay(toDay)
	if toTime != "" {
		to = atClockTime(toDay, toTime)
	}

	if from.After(to) {
		switch {
		case fromTime != "":
			return Interval{}, leaverequesterrors.ErrRangeInvertedFromTime
		case toTime != "":
			return Interval{}, leaverequesterrors.ErrRangeInvertedToTime
		default:
			return Interval{}, leaverequesterrors.ErrRangeInvertedDates
		}
	}

	if from.Before(now) {
		return Interval{}, leaverequesterrors.ErrPastDate
	}

	return Interval{From: from, To: to}, nil
}

func atClockTime(day time.Time, clock string) time.Time {
	t, _ := time.ParseInLocation("15:04", clock, time.UTC)
	return time.Date(day.Year(), day.Month(), day.Day(), t.Hour(), t.Minute(), 0, 0, time.UTC)
}

func endOfDay(day time.Time) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), 23, 59, 59, int(999*time.Millisecond), time.UTC)
}
