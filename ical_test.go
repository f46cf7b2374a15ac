package main

import (
	"strings"
	"testing"
	"time"

	"mediremind/pkg/models"
)

func TestExportSchedule(t *testing.T) {
	meds := []models.Medication{
		{ID: "a", Name: "Aspirin", Dosage: "500mg", Time: "09:00", Frequency: models.FrequencyDaily},
		{ID: "b", Name: "Vitamin D", Dosage: "1000IU", Time: "08:30", Frequency: models.FrequencyWeekly, SelectedDays: []int{1, 3}},
		{ID: "c", Name: "Iron", Dosage: "50mg", Time: "12:00", Frequency: models.FrequencyMonthly, SelectedDates: []int{1, 15}},
		{ID: "d", Name: "Painkiller", Dosage: "200mg", Time: "10:00", Frequency: models.FrequencyAsNeeded},
	}
	now := time.Date(2024, 1, 1, 7, 0, 0, 0, time.Local)

	var sb strings.Builder
	if err := exportSchedule(meds, now, &sb); err != nil {
		t.Fatalf("export: %v", err)
	}
	out := sb.String()

	if !strings.Contains(out, "BEGIN:VCALENDAR") {
		t.Fatal("missing VCALENDAR wrapper")
	}
	if got := strings.Count(out, "BEGIN:VEVENT"); got != 3 {
		t.Fatalf("got %d events, want 3 (as-needed excluded)", got)
	}
	for _, want := range []string{
		"RRULE:FREQ=DAILY",
		"RRULE:FREQ=WEEKLY;BYDAY=MO,WE",
		"RRULE:FREQ=MONTHLY;BYMONTHDAY=1,15",
		"SUMMARY:Aspirin (500mg)",
		"UID:b@mediremind",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
	if strings.Contains(out, "Painkiller") {
		t.Error("as-needed medication must not be exported")
	}
}

func TestRecurrenceRule_Validation(t *testing.T) {
	med := &models.Medication{ID: "x", Frequency: models.FrequencyWeekly, SelectedDays: []int{9}}
	if _, err := recurrenceRule(med); err == nil {
		t.Fatal("out-of-range weekday should fail")
	}

	med = &models.Medication{ID: "x", Frequency: models.FrequencyMonthly, SelectedDates: []int{0}}
	if _, err := recurrenceRule(med); err == nil {
		t.Fatal("out-of-range day of month should fail")
	}

	med = &models.Medication{ID: "x", Frequency: models.FrequencyAsNeeded}
	rule, err := recurrenceRule(med)
	if err != nil || rule != "" {
		t.Fatalf("as-needed should produce no rule, got %q, %v", rule, err)
	}
}
