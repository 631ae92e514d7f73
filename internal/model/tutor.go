package model

import "time"

// Tutor owns its slot list outright: bookings and rollovers rewrite the
// whole Slots array in one store write, guarded by Version.
type Tutor struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Password    string    `json:"-"` // opaque shared credential, never interpreted here
	Bio         string    `json:"bio"`
	GradeLevel  string    `json:"gradeLevel"`
	IsAdmin     bool      `json:"isAdmin"`
	Specialties []string  `json:"specialties"`
	Slots       []Slot    `json:"slots"`
	Version     int64     `json:"version"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// HasSpecialty checks whether the tutor lists the subject as a specialty.
func (t *Tutor) HasSpecialty(subject string) bool {
	for _, s := range t.Specialties {
		if s == subject {
			return true
		}
	}
	return false
}

// SlotByID finds a slot in the tutor's list, returning its index or -1.
func (t *Tutor) SlotByID(slotID string) int {
	for i := range t.Slots {
		if t.Slots[i].ID == slotID {
			return i
		}
	}
	return -1
}

// TutorAvailability is a query result: a tutor together with only the slots a
// student can currently book.
type TutorAvailability struct {
	Tutor Tutor  `json:"tutor"`
	Slots []Slot `json:"slots"`
}
