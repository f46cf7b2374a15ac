package schedule

import (
	"testing"
	"time"

	"mediremind/pkg/models"
)

func TestBuildDailySnapshot(t *testing.T) {
	// 2024-01-01 is a Monday.
	date := time.Date(2024, 1, 1, 12, 0, 0, 0, time.Local)

	meds := []models.Medication{
		{ID: "a", Name: "Aspirin", Time: "08:00", Frequency: models.FrequencyDaily, Taken: true},
		{ID: "b", Name: "Vitamin D", Time: "09:00", Frequency: models.FrequencyWeekly, SelectedDays: []int{1}},
		{ID: "c", Name: "Iron", Time: "10:00", Frequency: models.FrequencyWeekly, SelectedDays: []int{2}}, // Tuesday only
	}

	snap := BuildDailySnapshot(meds, date)

	if snap.Date != "2024-01-01" {
		t.Fatalf("snapshot date = %q", snap.Date)
	}
	if snap.TotalMedications != 2 {
		t.Fatalf("total = %d, want 2 (Tuesday-only medication excluded)", snap.TotalMedications)
	}
	if snap.TakenMedications != 1 {
		t.Fatalf("taken = %d, want 1", snap.TakenMedications)
	}
	if len(snap.Medications) != 2 {
		t.Fatalf("frozen entries = %d, want 2", len(snap.Medications))
	}
	if snap.Medications[0].ID != "a" || !snap.Medications[0].Taken {
		t.Fatalf("first entry wrong: %+v", snap.Medications[0])
	}
}

func TestNextMidnight(t *testing.T) {
	now := time.Date(2024, 1, 1, 23, 59, 30, 0, time.Local)
	next := NextMidnight(now)

	want := time.Date(2024, 1, 2, 0, 0, 0, 0, time.Local)
	if !next.Equal(want) {
		t.Fatalf("NextMidnight = %s, want %s", next, want)
	}
	if d := next.Sub(now); d <= 0 || d > 24*time.Hour {
		t.Fatalf("NextMidnight delta out of range: %s", d)
	}
}
