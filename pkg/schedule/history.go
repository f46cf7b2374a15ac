package schedule

import (
	"time"

	"mediremind/pkg/models"
)

// BuildDailySnapshot computes the adherence snapshot for one calendar date:
// medications filtered by their recurrence rule, with totals and a frozen
// per-medication record. The caller persists it keyed by date.
func BuildDailySnapshot(meds []models.Medication, date time.Time) models.DailyHistory {
	snapshot := models.DailyHistory{
		Date:        date.Format(models.DateLayout),
		Medications: []models.MedicationEntry{},
	}

	for i := range meds {
		med := &meds[i]
		if !AppliesOn(med, date) {
			continue
		}

		snapshot.TotalMedications++
		if med.Taken {
			snapshot.TakenMedications++
		}
		snapshot.Medications = append(snapshot.Medications, models.MedicationEntry{
			ID:    med.ID,
			Name:  med.Name,
			Time:  med.Time,
			Taken: med.Taken,
		})
	}

	return snapshot
}

// NextMidnight returns the first instant of the next calendar day in now's
// location; used to arm the rollover timer.
func NextMidnight(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month(), now.Day()+1, 0, 0, 0, 0, now.Location())
}
