package recurrence

import (
	"time"
)

// NextOccurrence returns the next instant at or after from that falls on the
// given weekday at the given 12-hour start time.
//
// Policy: if the target weekday is today and the start time has not yet
// passed, today counts; otherwise the occurrence lands in the following
// calendar week. This is the single recurrence rule for the whole system —
// slot creation, booking and the rollover sweep all use it. The sweep only
// runs after an occurrence's end has passed, so for it the rule degenerates
// to "strictly next week".
func NextOccurrence(weekday time.Weekday, start12h string, from time.Time) (time.Time, error) {
	hour, minute, err := To24Hour(start12h)
	if err != nil {
		return time.Time{}, err
	}

	daysUntil := (int(weekday) - int(from.Weekday()) + 7) % 7
	occ := time.Date(from.Year(), from.Month(), from.Day()+daysUntil,
		hour, minute, 0, 0, from.Location())

	if occ.Before(from) {
		occ = occ.AddDate(0, 0, 7)
	}

	return occ, nil
}

// At places a 12-hour clock time on the calendar date of day.
func At(day time.Time, clock12h string) (time.Time, error) {
	hour, minute, err := To24Hour(clock12h)
	if err != nil {
		return time.Time{}, err
	}

	return time.Date(day.Year(), day.Month(), day.Day(),
		hour, minute, 0, 0, day.Location()), nil
}

// ExpiryInstant places the 12-hour end time on the same calendar date as the
// session start. The result is the moment the occurrence concludes.
func ExpiryInstant(start time.Time, end12h string) (time.Time, error) {
	return At(start, end12h)
}
