package schedule

import (
	"time"

	"mediremind/pkg/models"
)

// AppliesOn reports whether a medication is scheduled on the given calendar
// date. Weekly and monthly rules with an empty day selection apply every day,
// so a misconfigured rule never silently hides a medication.
func AppliesOn(med *models.Medication, date time.Time) bool {
	switch med.Frequency {
	case models.FrequencyDaily, models.FrequencyAsNeeded:
		return true
	case models.FrequencyWeekly:
		if len(med.SelectedDays) == 0 {
			return true
		}
		weekday := int(date.Weekday())
		for _, d := range med.SelectedDays {
			if d == weekday {
				return true
			}
		}
		return false
	case models.FrequencyMonthly:
		if len(med.SelectedDates) == 0 {
			return true
		}
		dayOfMonth := date.Day()
		for _, d := range med.SelectedDates {
			if d == dayOfMonth {
				return true
			}
		}
		return false
	default:
		return true
	}
}
