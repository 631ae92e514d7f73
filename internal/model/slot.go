package model

import (
	"fmt"
	"time"
)

type SlotType string

const (
	SlotTypeRecurring    SlotType = "recurring"
	SlotTypeSpecificDate SlotType = "specific_date"
)

type SlotStatus string

const (
	SlotStatusAvailable SlotStatus = "Available"
	SlotStatusBooked    SlotStatus = "Booked"
	SlotStatusExpired   SlotStatus = "Expired"
)

// Slot is a single bookable tutoring session. A recurring slot repeats weekly
// on DayOfWeek; a specific-date slot happens once on SpecificDate. Exactly one
// of the two is set, depending on Type.
type Slot struct {
	ID             string     `json:"id"`
	Type           SlotType   `json:"slotType"`
	DayOfWeek      string     `json:"dayOfWeek,omitempty"`    // recurring only, "Monday".."Friday"
	SpecificDate   string     `json:"specificDate,omitempty"` // specific_date only, YYYY-MM-DD
	StartTime      string     `json:"startTime"`              // 12-hour display form, e.g. "2:45 PM"
	EndTime        string     `json:"endTime"`
	Subject        string     `json:"subject"`
	Status         SlotStatus `json:"status"`
	StudentName    string     `json:"studentName,omitempty"`
	StudentEmail   string     `json:"studentEmail,omitempty"`
	NextOccurrence time.Time  `json:"nextOccurrence"`
	ExpiryDate     time.Time  `json:"expiryDate"`
	MaxCapacity    int        `json:"maxCapacity"`
	CreatedAt      time.Time  `json:"createdAt"`
}

// IsExpired reports whether the slot's current occurrence has concluded.
// Slots without an expiry date never expire.
func (s *Slot) IsExpired(now time.Time) bool {
	if s.ExpiryDate.IsZero() {
		return false
	}
	return now.After(s.ExpiryDate)
}

// Bookable reports whether a student may book this slot right now.
// Available slots are bookable; so is a recurring slot whose previous booking
// has already concluded, without waiting for the rollover sweep to reset it.
// A specific-date slot past its expiry is never bookable.
func (s *Slot) Bookable(now time.Time) bool {
	if s.Type == SlotTypeSpecificDate && s.IsExpired(now) {
		return false
	}
	switch s.Status {
	case SlotStatusAvailable:
		return true
	case SlotStatusBooked:
		return s.Type == SlotTypeRecurring && s.IsExpired(now)
	default:
		return false
	}
}

// Validate checks the structural invariants of the slot record.
func (s *Slot) Validate() error {
	switch s.Type {
	case SlotTypeRecurring:
		if s.DayOfWeek == "" {
			return fmt.Errorf("%w: recurring slot requires a day of week", ErrValidation)
		}
		if s.SpecificDate != "" {
			return fmt.Errorf("%w: recurring slot must not carry a specific date", ErrValidation)
		}
		if _, ok := ParseWeekday(s.DayOfWeek); !ok {
			return fmt.Errorf("%w: unknown day of week %q", ErrValidation, s.DayOfWeek)
		}
	case SlotTypeSpecificDate:
		if s.SpecificDate == "" {
			return fmt.Errorf("%w: specific-date slot requires a date", ErrValidation)
		}
		if s.DayOfWeek != "" {
			return fmt.Errorf("%w: specific-date slot must not carry a day of week", ErrValidation)
		}
	default:
		return fmt.Errorf("%w: unknown slot type %q", ErrValidation, s.Type)
	}

	switch s.Status {
	case SlotStatusBooked:
		if s.StudentName == "" {
			return fmt.Errorf("%w: booked slot requires a student name", ErrValidation)
		}
	case SlotStatusAvailable:
		if s.StudentName != "" || s.StudentEmail != "" {
			return fmt.Errorf("%w: available slot must not carry student details", ErrValidation)
		}
	case SlotStatusExpired:
		// Student details may remain on an expired slot as a record of the
		// concluded session.
	default:
		return fmt.Errorf("%w: unknown slot status %q", ErrValidation, s.Status)
	}

	return nil
}

var weekdayNames = map[string]time.Weekday{
	"Sunday":    time.Sunday,
	"Monday":    time.Monday,
	"Tuesday":   time.Tuesday,
	"Wednesday": time.Wednesday,
	"Thursday":  time.Thursday,
	"Friday":    time.Friday,
	"Saturday":  time.Saturday,
}

// ParseWeekday resolves an English weekday name.
func ParseWeekday(name string) (time.Weekday, bool) {
	wd, ok := weekdayNames[name]
	return wd, ok
}
