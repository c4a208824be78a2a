package leave

import (
	"strings"
	"time"

	leaveerrors "go-leave/internal/leave/errors"
	"go-leave/internal/shared/apperror"
)

func parseDate(field, value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, apperror.RequiredField(field)
	}
	d, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, leaveerrors.ErrInvalidDateFormat
	}
	return d, nil
}

func parseRange(startRaw, endRaw string) (time.Time, time.Time, error) {
	start, err := parseDate("start_date", startRaw)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := parseDate("end_date", endRaw)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, leaveerrors.ErrInvalidDateRange
	}
	return start, end, nil
}

// inclusiveDays counts calendar days including both ends.
func inclusiveDays(start, end time.Time) int {
	return int(end.Sub(start).Hours()/24) + 1
}

func resolveDays(days *int, start, end time.Time) (int, error) {
	if days == nil {
		return inclusiveDays(start, end), nil
	}
	if *days <= 0 {
		return 0, leaveerrors.ErrInvalidDays
	}
	return *days, nil
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

func ptr[T any](v T) *T { return &v }
