package recurrence

import (
	"errors"
	"testing"
	"time"

	"github.com/lwr-nhs/tutoring/internal/model"
)

func mustTime(t *testing.T, day, hour, minute int) time.Time {
	t.Helper()
	// January 2026: the 5th is a Monday, the 7th a Wednesday, the 9th a Friday.
	return time.Date(2026, time.January, day, hour, minute, 0, 0, time.UTC)
}

func TestNextOccurrence(t *testing.T) {
	cases := []struct {
		name    string
		weekday time.Weekday
		start   string
		from    time.Time
		want    time.Time
	}{
		{
			name:    "same day, time not yet passed",
			weekday: time.Wednesday,
			start:   "2:45 PM",
			from:    mustTime(t, 7, 10, 0),
			want:    mustTime(t, 7, 14, 45),
		},
		{
			name:    "same day, exact start instant",
			weekday: time.Wednesday,
			start:   "2:45 PM",
			from:    mustTime(t, 7, 14, 45),
			want:    mustTime(t, 7, 14, 45),
		},
		{
			name:    "same day, time already passed",
			weekday: time.Wednesday,
			start:   "2:45 PM",
			from:    mustTime(t, 7, 15, 0),
			want:    mustTime(t, 14, 14, 45),
		},
		{
			name:    "later in the week",
			weekday: time.Friday,
			start:   "7:00 AM",
			from:    mustTime(t, 7, 12, 0),
			want:    mustTime(t, 9, 7, 0),
		},
		{
			name:    "earlier in the week wraps forward",
			weekday: time.Monday,
			start:   "7:00 AM",
			from:    mustTime(t, 7, 12, 0),
			want:    mustTime(t, 12, 7, 0),
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := NextOccurrence(tc.weekday, tc.start, tc.from)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !got.Equal(tc.want) {
				t.Fatalf("NextOccurrence = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestNextOccurrence_NeverInThePast(t *testing.T) {
	from := mustTime(t, 7, 16, 30)

	for weekday := time.Sunday; weekday <= time.Saturday; weekday++ {
		for _, start := range []string{"7:00 AM", "2:45 PM", "11:59 PM"} {
			got, err := NextOccurrence(weekday, start, from)
			if err != nil {
				t.Fatalf("NextOccurrence(%v, %q): %v", weekday, start, err)
			}
			if got.Before(from) {
				t.Fatalf("NextOccurrence(%v, %q) = %v is before from %v", weekday, start, got, from)
			}
			if got.Weekday() != weekday {
				t.Fatalf("NextOccurrence(%v, %q) landed on %v", weekday, start, got.Weekday())
			}
			if got.Sub(from) > 7*24*time.Hour {
				t.Fatalf("NextOccurrence(%v, %q) = %v is more than a week out", weekday, start, got)
			}
		}
	}
}

func TestNextOccurrence_BadTime(t *testing.T) {
	_, err := NextOccurrence(time.Monday, "700 AM", mustTime(t, 7, 12, 0))
	if !errors.Is(err, model.ErrParse) {
		t.Fatalf("expected parse error, got %v", err)
	}
}

func TestExpiryInstant(t *testing.T) {
	start := mustTime(t, 7, 14, 45)

	got, err := ExpiryInstant(start, "3:45 PM")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := mustTime(t, 7, 15, 45); !got.Equal(want) {
		t.Fatalf("ExpiryInstant = %v, want %v", got, want)
	}
}

func TestAt(t *testing.T) {
	day := mustTime(t, 9, 0, 0)

	got, err := At(day, "7:00 AM")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := mustTime(t, 9, 7, 0); !got.Equal(want) {
		t.Fatalf("At = %v, want %v", got, want)
	}

	if _, err := At(day, "nonsense"); !errors.Is(err, model.ErrParse) {
		t.Fatalf("expected parse error, got %v", err)
	}
}
