package schedule

import (
	"testing"
	"time"
)

func TestDeduper_OneAlertPerDay(t *testing.T) {
	d := NewDeduper()
	day := time.Date(2024, 1, 1, 9, 0, 0, 0, time.Local)

	if !d.ShouldAlert("aspirin", day) {
		t.Fatal("first check of the day should allow an alert")
	}
	d.MarkAlerted("aspirin", day)

	// Second poll twenty seconds later, same day.
	if d.ShouldAlert("aspirin", day.Add(20*time.Second)) {
		t.Fatal("second check on the same day must be suppressed")
	}

	// A different medication is unaffected.
	if !d.ShouldAlert("ibuprofen", day) {
		t.Fatal("other medications should still be allowed to alert")
	}
}

func TestDeduper_NewDayAllowsAgain(t *testing.T) {
	d := NewDeduper()
	day := time.Date(2024, 1, 1, 9, 0, 0, 0, time.Local)
	d.MarkAlerted("aspirin", day)

	if !d.ShouldAlert("aspirin", day.AddDate(0, 0, 1)) {
		t.Fatal("a new calendar date starts with a clean slate")
	}
}

func TestDeduper_Reset(t *testing.T) {
	d := NewDeduper()
	day := time.Date(2024, 1, 1, 9, 0, 0, 0, time.Local)
	d.MarkAlerted("aspirin", day)
	d.MarkAlerted("ibuprofen", day)

	d.Reset()

	if !d.ShouldAlert("aspirin", day) || !d.ShouldAlert("ibuprofen", day) {
		t.Fatal("reset must clear every recorded alert")
	}
}
