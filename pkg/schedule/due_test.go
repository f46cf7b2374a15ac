package schedule

import (
	"testing"
	"time"

	"mediremind/pkg/models"
)

func at(hour, min, sec int) time.Time {
	return time.Date(2024, 1, 1, hour, min, sec, 0, time.Local)
}

func TestDueForCatchUp_Window(t *testing.T) {
	med := &models.Medication{ID: "m1", Time: "08:00"}

	cases := []struct {
		now  time.Time
		want bool
	}{
		{at(7, 58, 0), false},  // too early
		{at(7, 59, 30), false}, // still ahead of target, background path owns it
		{at(8, 0, 0), true},    // exactly on target
		{at(8, 0, 30), true},   // same minute, mid-tick
		{at(8, 1, 30), true},   // one minute past, still inside the catch-up window
		{at(8, 2, 0), false},   // two minutes past, window closed
		{at(10, 0, 0), false},  // hours late, never re-fires
	}

	for _, tc := range cases {
		if got := DueForCatchUp(med, tc.now); got != tc.want {
			t.Errorf("DueForCatchUp at %s = %v, want %v", tc.now.Format("15:04:05"), got, tc.want)
		}
	}
}

func TestDueForBackground_Window(t *testing.T) {
	med := &models.Medication{ID: "m1", Time: "08:00"}

	cases := []struct {
		now  time.Time
		want bool
	}{
		{at(7, 59, 59), false},
		{at(8, 0, 0), true},
		{at(8, 1, 59), true},
		{at(8, 2, 0), false},
	}

	for _, tc := range cases {
		if got := DueForBackground(med, tc.now); got != tc.want {
			t.Errorf("DueForBackground at %s = %v, want %v", tc.now.Format("15:04:05"), got, tc.want)
		}
	}
}

func TestDue_UnparseableTimeNeverDue(t *testing.T) {
	med := &models.Medication{ID: "m1", Time: "late-ish"}
	if DueForCatchUp(med, at(8, 0, 0)) || DueForBackground(med, at(8, 0, 0)) {
		t.Fatal("medication with unparseable time must never be due")
	}
}
