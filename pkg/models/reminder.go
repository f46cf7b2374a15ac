package models

import (
	"time"
)

// Reminder is one scheduled notification within a cascade. It is derived,
// never stored: the whole cascade can be recomputed from the medication ID.
type Reminder struct {
	ID           int       // Deterministic notification ID
	MedicationID string
	Level        int // 1 = initial, escalating up to 4
	FireAt       time.Time
	Title        string
	Body         string
}
