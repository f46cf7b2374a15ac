package models

// DateLayout is the calendar-date key format used throughout the app
const DateLayout = "2006-01-02"

// MedicationEntry is one medication's state frozen into a daily snapshot
type MedicationEntry struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Time  string `json:"time"`
	Taken bool   `json:"taken"`
}

// DailyHistory is the adherence snapshot for one calendar date.
// Only today's snapshot is mutable; past dates are append-only.
type DailyHistory struct {
	Date             string // DateLayout format, unique per day
	TotalMedications int
	TakenMedications int
	Medications      []MedicationEntry
}
