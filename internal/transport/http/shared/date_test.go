package shared

import (
	"testing"
	"time"
)

func TestParseDateNormalizesToCalendarDay(t *testing.T) {
	cases := []struct {
		in   string
		want time.Time
	}{
		{"2026-03-02", time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)},
		{"2026-03-02T00:00:00Z", time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)},
		{"2026-03-02T23:30:00-03:00", time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)},
	}
	for _, tc := range cases {
		got, err := ParseDate(tc.in)
		if err != nil {
			t.Fatalf("ParseDate(%q): %v", tc.in, err)
		}
		if !got.Equal(tc.want) {
			t.Fatalf("ParseDate(%q) = %s, want %s", tc.in, got, tc.want)
		}
	}

	if got, err := ParseDate(""); err != nil || !got.IsZero() {
		t.Fatalf("empty input should be zero time, got %s, %v", got, err)
	}
	if _, err := ParseDate("02/03/2026"); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}
