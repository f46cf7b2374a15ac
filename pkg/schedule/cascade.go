package schedule

import (
	"fmt"
	"time"

	"mediremind/pkg/models"
)

// Cascade escalation ladder. Each level's notification ID is the
// medication's base ID offset by (level-1) * idStride, so the full cascade
// can be cancelled later by recomputing the same IDs.
const (
	idStride      = 1_000_000
	cascadeLevels = 4

	// minLeadTime keeps fire times strictly in the future; the alerting
	// interface never accepts a past timestamp.
	minLeadTime = 10 * time.Second

	// cascadeHorizon caps how far ahead a cascade may reach. Reminders past
	// the horizon are silently dropped rather than treated as an error.
	cascadeHorizon = 24 * time.Hour
)

var cascadeDelays = [cascadeLevels]time.Duration{
	0,
	10 * time.Minute,
	30 * time.Minute,
	60 * time.Minute,
}

var cascadeTitles = [cascadeLevels]string{
	"Medication reminder",
	"First reminder",
	"Second reminder",
	"Final reminder",
}

func cascadeBody(level int, med *models.Medication) string {
	switch level {
	case 1:
		return fmt.Sprintf("It's time to take %s (%s)", med.Name, med.Dosage)
	case 2:
		return fmt.Sprintf("Don't forget to take %s (%s)", med.Name, med.Dosage)
	case 3:
		return fmt.Sprintf("Important: take %s (%s)", med.Name, med.Dosage)
	default:
		return fmt.Sprintf("DO NOT FORGET: %s (%s) must be taken", med.Name, med.Dosage)
	}
}

// StableHash folds a string into the 100000-999999 range. Same input, same
// output, across process restarts, so notification IDs survive reschedules.
func StableHash(s string) int {
	var h int32
	for _, b := range []byte(s) {
		h = (h << 5) - h + int32(b)
	}
	v := int64(h)
	if v < 0 {
		v = -v
	}
	return int(v%900000) + 100000
}

// CascadeIDs returns the notification IDs of every level of a medication's
// cascade, whether or not those reminders were ever scheduled.
func CascadeIDs(medicationID string) []int {
	base := StableHash(medicationID)
	ids := make([]int, cascadeLevels)
	for i := range ids {
		ids[i] = base + i*idStride
	}
	return ids
}

// BuildCascade computes the escalating reminder sequence for a medication
// with its dose due at triggerTime. A trigger already in the past is floored
// to now+minLeadTime, and reminders that would land beyond the 24h horizon
// are dropped. Calling twice with the same inputs yields identical IDs.
func BuildCascade(med *models.Medication, triggerTime, now time.Time) []models.Reminder {
	if !triggerTime.After(now) {
		triggerTime = now.Add(minLeadTime)
	}

	base := StableHash(med.ID)
	horizon := now.Add(cascadeHorizon)

	reminders := make([]models.Reminder, 0, cascadeLevels)
	for i := 0; i < cascadeLevels; i++ {
		fireAt := triggerTime.Add(cascadeDelays[i])
		if fireAt.After(horizon) {
			break
		}
		if !fireAt.After(now) {
			fireAt = now.Add(minLeadTime)
		}

		level := i + 1
		reminders = append(reminders, models.Reminder{
			ID:           base + i*idStride,
			MedicationID: med.ID,
			Level:        level,
			FireAt:       fireAt,
			Title:        cascadeTitles[i],
			Body:         cascadeBody(level, med),
		})
	}

	return reminders
}
