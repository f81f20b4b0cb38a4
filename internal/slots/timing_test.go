package slots

import (
	"testing"
	"time"
)

func TestResolveTime(t *testing.T) {
	day := func(d int) time.Time {
		return time.Date(2026, time.October, d, 0, 0, 0, 0, time.UTC)
	}

	tests := []struct {
		text     string
		wantDate time.Time // zero when no date is expected
		wantTime string    // "" when no clock is expected
	}{
		{"yesterday", day(16), ""},
		{"day before yesterday", day(15), ""},
		{"last night", day(16), "20:00"},
		{"this morning", day(17), "09:00"},
		{"yesterday afternoon", day(16), "14:00"},
		{"yesterday at 8:30pm", day(16), "20:30"},
		{"two weeks ago", day(3), ""},
		{"last week", day(10), ""},
		{"a few days ago", day(14), ""},
		{"3 days ago", day(14), ""},
		{"two hours ago", day(17), "12:00"},
		{"last friday", day(16), ""},
		{"last saturday", day(10), ""},
		{"on 12/10/2026", day(12), ""},
		{"around 14:00", time.Time{}, "14:00"},
		{"at 12am", time.Time{}, "00:00"},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			res, ok := ResolveTime(tt.text, fixedNow)
			if !ok {
				t.Fatal("expected a resolution")
			}
			if tt.wantDate.IsZero() {
				if res.HasDate {
					t.Errorf("unexpected date %v", res.Date)
				}
			} else {
				if !res.HasDate {
					t.Fatal("expected a date")
				}
				y, m, d := res.Date.Date()
				wy, wm, wd := tt.wantDate.Date()
				if y != wy || m != wm || d != wd {
					t.Errorf("date = %d-%02d-%02d, want %d-%02d-%02d", y, m, d, wy, wm, wd)
				}
			}
			if tt.wantTime == "" {
				if res.HasTime {
					t.Errorf("unexpected time %02d:%02d", res.Hour, res.Minute)
				}
				return
			}
			if !res.HasTime {
				t.Fatal("expected a time")
			}
			if got := formatClock(res); got != tt.wantTime {
				t.Errorf("time = %s, want %s", got, tt.wantTime)
			}
		})
	}
}

func TestResolveTime_NeverGuesses(t *testing.T) {
	for _, text := range []string{"i don't remember", "a while back", "31/02/2026", "at 25:00", ""} {
		if res, ok := ResolveTime(text, fixedNow); ok {
			t.Errorf("ResolveTime(%q) = %+v, want no resolution", text, res)
		}
	}
}
