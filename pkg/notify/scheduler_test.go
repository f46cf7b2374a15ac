package notify

import (
	"sync"
	"testing"
	"time"

	"mediremind/pkg/models"
	"mediremind/pkg/schedule"
)

func reminderAt(id int, medID string, fireAt time.Time) models.Reminder {
	return models.Reminder{
		ID:           id,
		MedicationID: medID,
		Level:        1,
		FireAt:       fireAt,
		Title:        "Medication reminder",
		Body:         "test",
	}
}

func TestScheduler_PendingAndCancel(t *testing.T) {
	s := NewScheduler(nil)
	far := time.Now().Add(time.Hour)

	err := s.Schedule([]models.Reminder{
		reminderAt(200001, "a", far),
		reminderAt(1200001, "a", far.Add(10*time.Minute)),
		reminderAt(300002, "b", far),
	})
	if err != nil {
		t.Fatalf("schedule: %v", err)
	}

	ids := s.Pending()
	if len(ids) != 3 {
		t.Fatalf("pending = %v, want 3 ids", ids)
	}
	if ids[0] != 200001 || ids[1] != 300002 || ids[2] != 1200001 {
		t.Fatalf("pending not sorted: %v", ids)
	}

	s.Cancel([]int{200001, 1200001, 999999})
	ids = s.Pending()
	if len(ids) != 1 || ids[0] != 300002 {
		t.Fatalf("cancel left %v", ids)
	}

	s.CancelAll()
	if len(s.Pending()) != 0 {
		t.Fatal("cancel all left pending reminders")
	}
}

func TestScheduler_RejectsPastFireTimes(t *testing.T) {
	s := NewScheduler(nil)

	err := s.Schedule([]models.Reminder{
		reminderAt(200001, "a", time.Now().Add(-time.Minute)),
	})
	if err == nil {
		t.Fatal("past fire time must be rejected")
	}
	if len(s.Pending()) != 0 {
		t.Fatal("rejected batch must not be partially scheduled")
	}
}

func TestScheduler_RescheduleLeavesNoStaleIDs(t *testing.T) {
	s := NewScheduler(nil)
	med := &models.Medication{ID: "med-1", Name: "Aspirin", Dosage: "500mg", Time: "08:00"}
	now := time.Now()

	first := schedule.BuildCascade(med, now.Add(2*time.Hour), now)
	if err := s.Schedule(first); err != nil {
		t.Fatalf("schedule first cascade: %v", err)
	}

	// Cancel-before-reschedule with a different trigger time.
	s.Cancel(schedule.CascadeIDs(med.ID))
	second := schedule.BuildCascade(med, now.Add(5*time.Hour), now)
	if err := s.Schedule(second); err != nil {
		t.Fatalf("schedule second cascade: %v", err)
	}

	pending := s.Pending()
	want := schedule.CascadeIDs(med.ID)
	if len(pending) != len(want) {
		t.Fatalf("pending = %v, want exactly the recomputed cascade ids %v", pending, want)
	}
	for i := range want {
		if pending[i] != want[i] {
			t.Fatalf("stale reminder id %d in pending set %v", pending[i], pending)
		}
	}
}

func TestScheduler_FireDeliversAndNotifiesHandler(t *testing.T) {
	var mu sync.Mutex
	var sentTitle string
	delivered := make(chan string, 1)

	s := NewScheduler(func(title, body string) {
		mu.Lock()
		sentTitle = title
		mu.Unlock()
	})
	s.SetActionHandler(func(medicationID string, kind ActionKind) {
		if kind == ActionDelivered {
			delivered <- medicationID
		}
	})

	err := s.Schedule([]models.Reminder{
		reminderAt(200001, "med-1", time.Now().Add(30*time.Millisecond)),
	})
	if err != nil {
		t.Fatalf("schedule: %v", err)
	}

	select {
	case id := <-delivered:
		if id != "med-1" {
			t.Fatalf("delivered medication %q", id)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("reminder never fired")
	}

	mu.Lock()
	title := sentTitle
	mu.Unlock()
	if title != "Medication reminder" {
		t.Fatalf("sender got title %q", title)
	}
	if len(s.Pending()) != 0 {
		t.Fatal("fired reminder still pending")
	}
}
