// Package notify schedules absolute-time reminder notifications on top of
// the host environment's delivery facility. The core never talks to the OS
// directly; it hands reminder plans to a Notifier and cancels them by ID.
package notify

import (
	"mediremind/pkg/models"
)

// ActionKind identifies how the user (or the system) responded to a
// delivered reminder.
type ActionKind string

const (
	ActionDelivered   ActionKind = "delivered"
	ActionRemindLater ActionKind = "remindLater"
	ActionView        ActionKind = "view"
)

// ActionHandler receives reminder responses; medicationID comes from the
// reminder payload.
type ActionHandler func(medicationID string, kind ActionKind)

// Notifier is the narrow interface the app consumes for OS-level alerts.
type Notifier interface {
	// RequestPermission asks the host for notification permission.
	RequestPermission() bool

	// Schedule registers reminders to fire at their absolute times. Fire
	// times in the past are rejected.
	Schedule(reminders []models.Reminder) error

	// Cancel removes pending reminders by ID; unknown IDs are ignored.
	Cancel(ids []int)

	// Pending lists the IDs of reminders that have not fired yet.
	Pending() []int

	// SetActionHandler installs the callback invoked on delivery or user
	// action. Replaces any previous handler.
	SetActionHandler(h ActionHandler)
}
