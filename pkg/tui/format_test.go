package tui

import (
	"testing"
	"time"
)

func TestFormatDate(t *testing.T) {
	ts := time.Date(2024, 3, 5, 14, 7, 0, 0, time.UTC)
	plus2 := time.FixedZone("UTC+2", 2*60*60)

	tests := []struct {
		name  string
		style MonthStyle
		loc   *time.Location
		want  string
	}{
		{"short utc", MonthShort, time.UTC, "Mar 5, 2024, 02:07 PM"},
		{"long utc", MonthLong, time.UTC, "March 5, 2024 at 02:07 PM"},
		{"short shifted zone", MonthShort, plus2, "Mar 5, 2024, 04:07 PM"},
		{"long morning", MonthLong, time.FixedZone("UTC-10", -10*60*60), "March 5, 2024 at 04:07 AM"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatDate(ts, tt.style, tt.loc); got != tt.want {
				t.Errorf("FormatDate() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormatDate_NilLocationIsLocal(t *testing.T) {
	ts := time.Date(2024, 12, 31, 23, 59, 0, 0, time.UTC)
	want := ts.In(time.Local).Format("Jan 2, 2006, 03:04 PM")
	if got := FormatDate(ts, MonthShort, nil); got != want {
		t.Errorf("FormatDate(nil loc) = %q, want %q", got, want)
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"short", 10, "short"},
		{"exactly10!", 10, "exactly10!"},
		{"much longer title", 10, "much lon.."},
		{"abc", 2, ".."},
		{"abc", 0, ""},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.width); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
	}
}
