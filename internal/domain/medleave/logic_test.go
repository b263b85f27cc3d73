package medleave

import (
	"errors"
	"testing"
	"time"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestTotalDaysInclusive(t *testing.T) {
	cases := []struct {
		start, end time.Time
		want       int
	}{
		{day(2026, 3, 2), day(2026, 3, 6), 5},
		{day(2026, 3, 2), day(2026, 3, 2), 1},
		{day(2026, 2, 27), day(2026, 3, 2), 4},
	}
	for _, tc := range cases {
		if got := TotalDays(tc.start, tc.end); got != tc.want {
			t.Fatalf("TotalDays(%s, %s) = %d, want %d",
				tc.start.Format("2006-01-02"), tc.end.Format("2006-01-02"), got, tc.want)
		}
	}
}

// Clients may submit RFC3339 timestamps carrying a UTC offset; only the
// named calendar day counts.
func TestTotalDaysNormalizesOffsets(t *testing.T) {
	start, err := time.Parse(time.RFC3339, "2026-03-02T00:00:00Z")
	if err != nil {
		t.Fatal(err)
	}
	end, err := time.Parse(time.RFC3339, "2026-03-06T00:00:00+02:00")
	if err != nil {
		t.Fatal(err)
	}
	if got := TotalDays(start, end); got != 5 {
		t.Fatalf("TotalDays with offset end = %d, want 5", got)
	}
}

func TestDaysRemainingWithOffsetNow(t *testing.T) {
	leave := MedicalLeave{
		StartDate: day(2026, 3, 2),
		EndDate:   day(2026, 3, 6),
		State:     StateApproved,
	}
	now, err := time.Parse(time.RFC3339, "2026-03-04T23:30:00-03:00")
	if err != nil {
		t.Fatal(err)
	}
	if !leave.IsCurrent(now) {
		t.Fatal("expected leave to be current on day four")
	}
	if got := leave.DaysRemaining(now); got != 3 {
		t.Fatalf("DaysRemaining = %d, want 3", got)
	}
}

func TestValidateSubmit(t *testing.T) {
	valid := SubmitInput{Folio: "F-123", StartDate: day(2026, 3, 2), EndDate: day(2026, 3, 6)}
	if err := ValidateSubmit(valid); err != nil {
		t.Fatalf("expected valid, got %v", err)
	}

	noFolio := valid
	noFolio.Folio = "  "
	if err := ValidateSubmit(noFolio); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}

	inverted := valid
	inverted.StartDate, inverted.EndDate = inverted.EndDate, inverted.StartDate
	if err := ValidateSubmit(inverted); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestIsCurrentAndDaysRemaining(t *testing.T) {
	leave := MedicalLeave{
		StartDate: day(2026, 3, 2),
		EndDate:   day(2026, 3, 6),
		State:     StateApproved,
	}

	if !leave.IsCurrent(day(2026, 3, 4)) {
		t.Fatal("expected leave to be current mid-range")
	}
	if leave.IsCurrent(day(2026, 3, 7)) {
		t.Fatal("expected leave to be over")
	}
	if got := leave.DaysRemaining(day(2026, 3, 4)); got != 3 {
		t.Fatalf("DaysRemaining = %d, want 3", got)
	}
	if got := leave.DaysRemaining(day(2026, 3, 7)); got != 0 {
		t.Fatalf("DaysRemaining after end = %d, want 0", got)
	}

	pending := leave
	pending.State = StatePending
	if pending.IsCurrent(day(2026, 3, 4)) {
		t.Fatal("pending leave must not count as current")
	}
}
