// Package recurrence holds the calendar arithmetic behind slot scheduling:
// 12-hour clock conversion, next weekly occurrence of a weekday/time pair,
// and session expiry instants.
package recurrence

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lwr-nhs/tutoring/internal/model"
)

// To24Hour parses a 12-hour clock string like "2:45 PM" into 24-hour
// hour/minute components. "12:xx AM" maps to hour 0, "12:xx PM" stays 12.
func To24Hour(time12h string) (hour, minute int, err error) {
	parts := strings.Fields(strings.TrimSpace(time12h))
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("%w: %q", model.ErrParse, time12h)
	}

	clock, period := parts[0], strings.ToUpper(parts[1])
	if period != "AM" && period != "PM" {
		return 0, 0, fmt.Errorf("%w: bad period in %q", model.ErrParse, time12h)
	}

	hm := strings.Split(clock, ":")
	if len(hm) != 2 {
		return 0, 0, fmt.Errorf("%w: %q", model.ErrParse, time12h)
	}

	hour, err = strconv.Atoi(hm[0])
	if err != nil {
		return 0, 0, fmt.Errorf("%w: bad hour in %q", model.ErrParse, time12h)
	}
	minute, err = strconv.Atoi(hm[1])
	if err != nil {
		return 0, 0, fmt.Errorf("%w: bad minute in %q", model.ErrParse, time12h)
	}

	if hour < 1 || hour > 12 || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("%w: out of range in %q", model.ErrParse, time12h)
	}

	if period == "AM" && hour == 12 {
		hour = 0
	} else if period == "PM" && hour != 12 {
		hour += 12
	}

	return hour, minute, nil
}

// To12Hour formats 24-hour components as a display string: hour 0 renders as
// "12:MM AM", hour 12 as "12:MM PM".
func To12Hour(hour, minute int) string {
	period := "AM"
	if hour >= 12 {
		period = "PM"
	}
	display := hour % 12
	if display == 0 {
		display = 12
	}
	return fmt.Sprintf("%d:%02d %s", display, minute, period)
}
