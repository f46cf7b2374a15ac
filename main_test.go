package main

import (
	"sync"
	"testing"
	"time"

	"fyne.io/fyne/v2/test"

	"mediremind/pkg/models"
)

func TestUpcomingDoses(t *testing.T) {
	// Monday 2024-01-01, 09:30
	now := time.Date(2024, 1, 1, 9, 30, 0, 0, time.UTC)

	meds := []models.Medication{
		{ID: "a", Name: "Aspirin", Time: "08:00", Frequency: models.FrequencyDaily},
		{ID: "b", Name: "Vitamin D", Time: "10:00", Frequency: models.FrequencyDaily},
		{ID: "c", Name: "Taken Already", Time: "12:00", Frequency: models.FrequencyDaily, Taken: true},
		{ID: "d", Name: "Tuesday Only", Time: "13:00", Frequency: models.FrequencyWeekly, SelectedDays: []int{2}},
		{ID: "e", Name: "Painkiller", Time: "14:00", Frequency: models.FrequencyAsNeeded},
		{ID: "f", Name: "Evening Med", Time: "20:00", Frequency: models.FrequencyDaily},
	}

	upcoming := upcomingDoses(meds, now, 5)

	want := []string{"b", "f"}
	if len(upcoming) != len(want) {
		t.Fatalf("got %d upcoming doses, want %d", len(upcoming), len(want))
	}
	for i, id := range want {
		if upcoming[i].ID != id {
			t.Errorf("upcoming[%d].ID = %q, want %q", i, upcoming[i].ID, id)
		}
	}
}

func TestUpcomingDosesLimit(t *testing.T) {
	now := time.Date(2024, 1, 1, 6, 0, 0, 0, time.UTC)

	meds := make([]models.Medication, 8)
	for i := range meds {
		meds[i] = models.Medication{
			ID:        string(rune('a' + i)),
			Name:      "Med",
			Time:      "09:00",
			Frequency: models.FrequencyDaily,
		}
	}

	if got := upcomingDoses(meds, now, 5); len(got) != 5 {
		t.Errorf("got %d upcoming doses, want 5", len(got))
	}
}

func TestDescribeRecurrence(t *testing.T) {
	tests := []struct {
		name string
		med  models.Medication
		want string
	}{
		{"daily", models.Medication{Frequency: models.FrequencyDaily}, "Daily"},
		{"weekly with days", models.Medication{Frequency: models.FrequencyWeekly, SelectedDays: []int{1, 3, 5}}, "Weekly (Mon, Wed, Fri)"},
		{"weekly without days", models.Medication{Frequency: models.FrequencyWeekly}, "Weekly"},
		{"monthly with dates", models.Medication{Frequency: models.FrequencyMonthly, SelectedDates: []int{1, 15}}, "Monthly (days 1, 15)"},
		{"as needed", models.Medication{Frequency: models.FrequencyAsNeeded}, "As needed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := describeRecurrence(tt.med); got != tt.want {
				t.Errorf("describeRecurrence() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseIntList(t *testing.T) {
	got, err := parseIntList(" 5, 1 ,3", 0, 6)
	if err != nil {
		t.Fatalf("parseIntList: %v", err)
	}
	want := []int{1, 3, 5}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("got %v, want %v", got, want)
			break
		}
	}

	if _, err := parseIntList("7", 0, 6); err == nil {
		t.Error("expected out-of-range error for 7")
	}
	if _, err := parseIntList("mon", 0, 6); err == nil {
		t.Error("expected parse error for non-numeric input")
	}
	if got, err := parseIntList("  ", 0, 6); err != nil || got != nil {
		t.Errorf("empty input: got %v, %v; want nil, nil", got, err)
	}
}

// Settings callbacks write Config fields while the poll loop and
// notification timers read them from their own goroutines; both sides must
// go through the guarded accessors.
func TestConfigConcurrentAccess(t *testing.T) {
	mr := &MediRemind{
		app:    test.NewApp(),
		config: &Config{SnoozeMinutes: 5, SoundEnabled: true},
	}

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(2)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				mr.updateConfig(func(c *Config) {
					c.SnoozeMinutes = n + 1
					c.SoundEnabled = !c.SoundEnabled
				})
			}
		}(i)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				cfg := mr.configSnapshot()
				if cfg.SnoozeMinutes < 1 || cfg.SnoozeMinutes > 5 {
					t.Errorf("snooze minutes out of range: %d", cfg.SnoozeMinutes)
					return
				}
			}
		}()
	}
	wg.Wait()
}

func TestTruncateString(t *testing.T) {
	if got := truncateString("short", 10); got != "short" {
		t.Errorf("got %q", got)
	}
	if got := truncateString("a very long medication name", 10); got != "a very ..." {
		t.Errorf("got %q", got)
	}
}
