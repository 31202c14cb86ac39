package usecase

import (
	"strings"
	"time"

	"acms/internal/domain/project"
)

func parseDate(field, value string) (time.Time, error) {
	if strings.TrimSpace(value) == "" {
		return time.Time{}, invalid(field, "This field is required")
	}
	d, err := project.ParseDate(value)
	if err != nil {
		return time.Time{}, invalid(field, "Date has wrong format. Use YYYY-MM-DD")
	}
	return d, nil
}

// parsePeriod parses both ends of a date range; the end may equal the start.
func parsePeriod(start, end string) (time.Time, time.Time, error) {
	s, err := parseDate("start_date", start)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	e, err := parseDate("end_date", end)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if e.Before(s) {
		return time.Time{}, time.Time{}, invalid("end_date", "End date must not be before the start date")
	}
	return s, e, nil
}
