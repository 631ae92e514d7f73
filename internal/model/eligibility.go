package model

import "time"

// TimeWindow is one of the fixed periods tutors may schedule into.
type TimeWindow struct {
	ID    string
	Label string
	Start string // 12-hour display form
	End   string
}

// EligibleWindows are the only periods tutoring sessions may occupy:
// before school and the two after-school blocks.
var EligibleWindows = []TimeWindow{
	{ID: "morning", Label: "7:00-7:45 AM", Start: "7:00 AM", End: "7:45 AM"},
	{ID: "afternoon_early", Label: "2:45-3:45 PM", Start: "2:45 PM", End: "3:45 PM"},
	{ID: "afternoon_late", Label: "3:45-4:45 PM", Start: "3:45 PM", End: "4:45 PM"},
}

// WindowByID looks up an eligible time window.
func WindowByID(id string) (TimeWindow, bool) {
	for _, w := range EligibleWindows {
		if w.ID == id {
			return w, true
		}
	}
	return TimeWindow{}, false
}

// EligibleDay reports whether tutoring may be scheduled on the given weekday.
// Sessions run on school days only.
func EligibleDay(d time.Weekday) bool {
	return d >= time.Monday && d <= time.Friday
}
