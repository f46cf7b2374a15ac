package models

import (
	"fmt"
)

// Frequency describes how often a medication is scheduled
type Frequency string

const (
	FrequencyDaily    Frequency = "daily"
	FrequencyWeekly   Frequency = "weekly"
	FrequencyMonthly  Frequency = "monthly"
	FrequencyAsNeeded Frequency = "as-needed"
)

// Medication represents one tracked medication and its dosing schedule
type Medication struct {
	ID            string    // Stable opaque identifier, immutable once created
	Name          string
	Dosage        string
	Time          string // Target time of day in "HH:MM" (24h) format
	Frequency     Frequency
	SelectedDays  []int // Weekdays for weekly frequency, 0=Sunday .. 6=Saturday
	SelectedDates []int // Days of month (1-31) for monthly frequency
	Color         string
	Icon          string
	Taken         bool // Meaningful for today only; cleared at rollover
	Notes         string
}

// TimeOfDay parses the medication's target time into hour and minute
func (m *Medication) TimeOfDay() (hour, minute int, err error) {
	if _, err := fmt.Sscanf(m.Time, "%d:%d", &hour, &minute); err != nil {
		return 0, 0, fmt.Errorf("parse medication time %q: %w", m.Time, err)
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("medication time %q out of range", m.Time)
	}
	return hour, minute, nil
}
