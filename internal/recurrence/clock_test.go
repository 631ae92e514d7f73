package recurrence

import (
	"errors"
	"testing"

	"github.com/lwr-nhs/tutoring/internal/model"
)

func TestTo24Hour(t *testing.T) {
	cases := []struct {
		in     string
		hour   int
		minute int
	}{
		{"7:00 AM", 7, 0},
		{"2:45 PM", 14, 45},
		{"3:45 PM", 15, 45},
		{"12:00 AM", 0, 0},
		{"12:30 PM", 12, 30},
		{"11:59 PM", 23, 59},
		{"1:05 am", 1, 5},
	}

	for _, tc := range cases {
		hour, minute, err := To24Hour(tc.in)
		if err != nil {
			t.Fatalf("To24Hour(%q): unexpected error %v", tc.in, err)
		}
		if hour != tc.hour || minute != tc.minute {
			t.Fatalf("To24Hour(%q) = (%d, %d), want (%d, %d)", tc.in, hour, minute, tc.hour, tc.minute)
		}
	}
}

func TestTo24Hour_Malformed(t *testing.T) {
	cases := []string{
		"",
		"2:45",
		"2:45PM",
		"245 PM",
		"2:45 XX",
		"ab:cd PM",
		"13:00 PM",
		"0:30 AM",
		"2:75 PM",
		"2:45 PM extra",
	}

	for _, in := range cases {
		_, _, err := To24Hour(in)
		if err == nil {
			t.Fatalf("To24Hour(%q): expected error, got none", in)
		}
		if !errors.Is(err, model.ErrParse) {
			t.Fatalf("To24Hour(%q): expected parse error, got %v", in, err)
		}
	}
}

func TestTo12Hour(t *testing.T) {
	cases := []struct {
		hour   int
		minute int
		want   string
	}{
		{0, 5, "12:05 AM"},
		{7, 0, "7:00 AM"},
		{12, 0, "12:00 PM"},
		{14, 45, "2:45 PM"},
		{23, 59, "11:59 PM"},
	}

	for _, tc := range cases {
		got := To12Hour(tc.hour, tc.minute)
		if got != tc.want {
			t.Fatalf("To12Hour(%d, %d) = %q, want %q", tc.hour, tc.minute, got, tc.want)
		}
	}
}

func TestClockRoundTrip(t *testing.T) {
	for hour := 0; hour < 24; hour++ {
		for _, minute := range []int{0, 15, 45, 59} {
			display := To12Hour(hour, minute)
			gotHour, gotMinute, err := To24Hour(display)
			if err != nil {
				t.Fatalf("round trip %d:%02d via %q: %v", hour, minute, display, err)
			}
			if gotHour != hour || gotMinute != minute {
				t.Fatalf("round trip %d:%02d via %q = (%d, %d)", hour, minute, display, gotHour, gotMinute)
			}
		}
	}
}
