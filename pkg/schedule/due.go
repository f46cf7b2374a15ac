package schedule

import (
	"time"

	"mediremind/pkg/models"
)

// The due windows are deliberately narrow (at most two minutes) so that
// adjacent 30-second polls cannot double-fire and a reopened app does not
// replay reminders from hours ago. Callers are expected to check AppliesOn
// and the taken flag first.

// DueForCatchUp reports whether a medication is due for the in-app check:
// the target minute has just arrived or passed by exactly one minute.
func DueForCatchUp(med *models.Medication, now time.Time) bool {
	target, err := targetMinutes(med)
	if err != nil {
		return false
	}
	diff := target - minutesOfDay(now)
	return diff >= -1 && diff <= 0
}

// DueForBackground reports whether a medication is due for the background
// notification check: a one-minute-forward window from the target.
func DueForBackground(med *models.Medication, now time.Time) bool {
	target, err := targetMinutes(med)
	if err != nil {
		return false
	}
	nowMins := minutesOfDay(now)
	return nowMins >= target && nowMins <= target+1
}

func targetMinutes(med *models.Medication) (int, error) {
	hour, minute, err := med.TimeOfDay()
	if err != nil {
		return 0, err
	}
	return hour*60 + minute, nil
}

func minutesOfDay(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}
