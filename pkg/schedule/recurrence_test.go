package schedule

import (
	"testing"
	"time"

	"mediremind/pkg/models"
)

// 2024-01-01 is a Monday.
var monday = time.Date(2024, 1, 1, 9, 0, 0, 0, time.Local)

func TestAppliesOn_DailyAndAsNeeded(t *testing.T) {
	for _, freq := range []models.Frequency{models.FrequencyDaily, models.FrequencyAsNeeded} {
		med := &models.Medication{ID: "m1", Frequency: freq}
		if !AppliesOn(med, monday) {
			t.Fatalf("frequency %q should apply on any date", freq)
		}
	}
}

func TestAppliesOn_Weekly(t *testing.T) {
	med := &models.Medication{
		ID:           "m1",
		Frequency:    models.FrequencyWeekly,
		SelectedDays: []int{1, 3}, // Monday, Wednesday
	}

	if !AppliesOn(med, monday) {
		t.Fatal("weekly rule containing Monday should apply on Monday")
	}
	tuesday := monday.AddDate(0, 0, 1)
	if AppliesOn(med, tuesday) {
		t.Fatal("weekly rule without Tuesday should not apply on Tuesday")
	}
	wednesday := monday.AddDate(0, 0, 2)
	if !AppliesOn(med, wednesday) {
		t.Fatal("weekly rule containing Wednesday should apply on Wednesday")
	}
}

func TestAppliesOn_WeeklyEmptyDaysFailsOpen(t *testing.T) {
	med := &models.Medication{ID: "m1", Frequency: models.FrequencyWeekly}
	for i := 0; i < 7; i++ {
		if !AppliesOn(med, monday.AddDate(0, 0, i)) {
			t.Fatalf("weekly rule with no selected days should apply on day offset %d", i)
		}
	}
}

func TestAppliesOn_Monthly(t *testing.T) {
	med := &models.Medication{
		ID:            "m1",
		Frequency:     models.FrequencyMonthly,
		SelectedDates: []int{1, 15},
	}

	if !AppliesOn(med, monday) {
		t.Fatal("monthly rule containing the 1st should apply on the 1st")
	}
	if AppliesOn(med, monday.AddDate(0, 0, 1)) {
		t.Fatal("monthly rule without the 2nd should not apply on the 2nd")
	}
	if !AppliesOn(med, monday.AddDate(0, 0, 14)) {
		t.Fatal("monthly rule containing the 15th should apply on the 15th")
	}
}

func TestAppliesOn_MonthlyEmptyDatesFailsOpen(t *testing.T) {
	med := &models.Medication{ID: "m1", Frequency: models.FrequencyMonthly}
	if !AppliesOn(med, monday.AddDate(0, 0, 20)) {
		t.Fatal("monthly rule with no selected dates should apply every day")
	}
}
