package notify

import (
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"mediremind/pkg/models"
)

// Sender delivers one notification to the user immediately. The app injects
// a fyne-backed sender; tests inject a recorder.
type Sender func(title, body string)

// Scheduler is a desktop Notifier backed by in-process timers. Reminders do
// not survive a process exit, which matches the host guarantee the app is
// written against: no delivery while the process is not running.
type Scheduler struct {
	mu       sync.Mutex
	send     Sender
	onAction ActionHandler
	pending  map[int]*pendingReminder
	now      func() time.Time
}

type pendingReminder struct {
	reminder models.Reminder
	timer    *time.Timer
}

func NewScheduler(send Sender) *Scheduler {
	return &Scheduler{
		send:    send,
		pending: make(map[int]*pendingReminder),
		now:     time.Now,
	}
}

// RequestPermission always grants on desktop; the notification daemon does
// its own suppression if the user disabled alerts system-wide.
func (s *Scheduler) RequestPermission() bool {
	return true
}

func (s *Scheduler) SetActionHandler(h ActionHandler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onAction = h
}

// Schedule arms one timer per reminder. A reminder whose ID is already
// pending is replaced. Past fire times are rejected so a caller bug cannot
// produce an immediate storm.
func (s *Scheduler) Schedule(reminders []models.Reminder) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for _, r := range reminders {
		if !r.FireAt.After(now) {
			return fmt.Errorf("schedule reminder %d: fire time %s is not in the future", r.ID, r.FireAt)
		}
	}

	for _, r := range reminders {
		if prev, ok := s.pending[r.ID]; ok {
			prev.timer.Stop()
		}

		r := r
		entry := &pendingReminder{reminder: r}
		entry.timer = time.AfterFunc(r.FireAt.Sub(now), func() {
			s.fire(r)
		})
		s.pending[r.ID] = entry
	}
	return nil
}

func (s *Scheduler) fire(r models.Reminder) {
	s.mu.Lock()
	delete(s.pending, r.ID)
	send := s.send
	handler := s.onAction
	s.mu.Unlock()

	log.Printf("Delivering reminder %d (level %d) for medication %s", r.ID, r.Level, r.MedicationID)
	if send != nil {
		send(r.Title, r.Body)
	}
	if handler != nil {
		handler(r.MedicationID, ActionDelivered)
	}
}

// Cancel stops and forgets the given reminder IDs.
func (s *Scheduler) Cancel(ids []int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range ids {
		if entry, ok := s.pending[id]; ok {
			entry.timer.Stop()
			delete(s.pending, id)
		}
	}
}

// CancelAll stops every pending reminder; used on shutdown and when the user
// disables notifications.
func (s *Scheduler) CancelAll() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, entry := range s.pending {
		entry.timer.Stop()
		delete(s.pending, id)
	}
}

// Pending returns the not-yet-fired reminder IDs in ascending order.
func (s *Scheduler) Pending() []int {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]int, 0, len(s.pending))
	for id := range s.pending {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}
