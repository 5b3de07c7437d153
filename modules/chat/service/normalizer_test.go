package service

import (
	"testing"
	"time"
)

// Friday 2025-03-14, 10:30 local.
var normalizerNow = time.Date(2025, 3, 14, 10, 30, 0, 0, time.UTC)

func TestNormalizeDates_TodayAndTomorrow(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"today", "book a meeting today at 3pm", "book a meeting 2025-03-14 at 3pm"},
		{"tomorrow", "am I free tomorrow?", "am I free 2025-03-15?"},
		{"case insensitive", "Today and TOMORROW", "2025-03-14 and 2025-03-15"},
		{"both replaced", "today, tomorrow, today", "2025-03-14, 2025-03-15, 2025-03-14"},
		{"no partial words", "todays agenda", "todays agenda"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeDates(tt.in, normalizerNow)
			if got != tt.want {
				t.Fatalf("NormalizeDates(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalizeDates_OrdinalDay(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"future day this month", "lunch on the 20th", "lunch on 2025-03-20"},
		{"same day stays this month", "on the 14th", "on 2025-03-14"},
		{"past day rolls to next month", "on the 2nd", "on 2025-04-02"},
		{"without the", "meet on 25th", "meet on 2025-03-25"},
		{"only first ordinal rewritten", "on the 20th or on the 21st", "on 2025-03-20 or on the 21st"},
		{"zero left alone", "on the 0th", "on the 0th"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeDates(tt.in, normalizerNow)
			if got != tt.want {
				t.Fatalf("NormalizeDates(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalizeDates_OrdinalInvalidDateSkipped(t *testing.T) {
	// 2025-02-05: "the 30th" would be Feb 30, which does not exist.
	now := time.Date(2025, 2, 5, 9, 0, 0, 0, time.UTC)
	in := "dinner on the 30th"
	if got := NormalizeDates(in, now); got != in {
		t.Fatalf("NormalizeDates(%q) = %q, want unchanged", in, got)
	}
}

func TestNormalizeDates_OrdinalYearRollover(t *testing.T) {
	now := time.Date(2025, 12, 20, 9, 0, 0, 0, time.UTC)
	got := NormalizeDates("party on the 5th", now)
	want := "party on 2026-01-05"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestNormalizeDates_NextWeekday(t *testing.T) {
	// now is a Friday; "next monday" skips the nearest Monday (Mar 17) and
	// lands on the one after (Mar 24).
	got := NormalizeDates("sync next monday", normalizerNow)
	want := "sync 2025-03-24"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}

	// "next friday" from a Friday is 7 days out.
	got = NormalizeDates("review next friday", normalizerNow)
	want = "review 2025-03-21"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestNormalizeDates_OnWeekday(t *testing.T) {
	// Nearest future Monday from Friday Mar 14 is Mar 17.
	got := NormalizeDates("call on monday", normalizerNow)
	want := "call 2025-03-17"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}

	// "on friday" when now is Friday resolves a week ahead, never today.
	got = NormalizeDates("demo on friday", normalizerNow)
	want = "demo 2025-03-21"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestNormalizeClockTime(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"3", "03:00"},
		{"14", "14:00"},
		{"09:30", "09:30"},
		{"3pm", "3pm"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := normalizeClockTime(tt.in); got != tt.want {
			t.Errorf("normalizeClockTime(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
