package schedule

import (
	"sync"
	"time"

	"mediremind/pkg/models"
)

// Deduper guarantees at most one in-app alert per medication per day across
// repeated polls. The set lives only in memory: re-alerting after a process
// restart is tolerable, a duplicate alert within a running session is not.
type Deduper struct {
	mu      sync.Mutex
	alerted map[string]struct{}
}

func NewDeduper() *Deduper {
	return &Deduper{
		alerted: make(map[string]struct{}),
	}
}

func dedupKey(medicationID string, date time.Time) string {
	return medicationID + "-" + date.Format(models.DateLayout)
}

// ShouldAlert reports whether no alert has fired yet for this medication on
// this date.
func (d *Deduper) ShouldAlert(medicationID string, date time.Time) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	_, seen := d.alerted[dedupKey(medicationID, date)]
	return !seen
}

// MarkAlerted records that an alert fired. Callers must mark before the
// asynchronous display step so a concurrent tick cannot fire a duplicate.
func (d *Deduper) MarkAlerted(medicationID string, date time.Time) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.alerted[dedupKey(medicationID, date)] = struct{}{}
}

// Reset clears the whole set; called at the midnight rollover.
func (d *Deduper) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.alerted = make(map[string]struct{})
}
