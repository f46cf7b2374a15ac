package main

import (
	"log"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"

	"mediremind/pkg/models"
	"mediremind/pkg/notify"
	"mediremind/pkg/schedule"
	"mediremind/pkg/store"
)

const (
	pollInterval = 30 * time.Second
	storeTimeout = 8 * time.Second
)

type MediRemind struct {
	app    fyne.App
	config *Config

	mu      sync.Mutex
	store   *store.Store
	meds    []models.Medication
	history []models.DailyHistory

	dedup    *schedule.Deduper
	notifier *notify.Scheduler

	pollTicker    *time.Ticker
	rolloverTimer *time.Timer
	snoozeTimer   *time.Timer

	// Only one reminder modal at a time; medications that come due while it
	// is open wait here by ID until it closes.
	reminderOpen bool
	deferred     []string

	medsWindow *MedicationsWindow
}

func main() {
	mr := &MediRemind{
		app:   app.NewWithID("io.mediremind.app"),
		dedup: schedule.NewDeduper(),
	}

	if err := mr.initialize(); err != nil {
		log.Fatal(err)
	}

	mr.run()
}

func (mr *MediRemind) initialize() error {
	mr.config = loadConfig(mr.app)

	// Sync autostart state with config on startup
	if err := setupAutostart(mr.config.AutoStart); err != nil {
		log.Printf("Warning: failed to setup autostart: %v", err)
	}

	saveConfig(mr.app, mr.config)

	mr.openStore()
	mr.reloadMedications()
	mr.reloadHistory()

	mr.notifier = notify.NewScheduler(mr.sendNotification)
	mr.notifier.SetActionHandler(mr.handleReminderAction)

	if mr.config.NotificationsEnabled && mr.notifier.RequestPermission() {
		mr.programTodayNotifications()
	}

	mr.setupSystemTray()
	mr.startDueChecker()
	mr.armRolloverTimer()

	return nil
}

func (mr *MediRemind) run() {
	mr.app.Run()
}

// openStore brings up the SQLite database within a bounded deadline. On
// failure the session continues with an empty in-memory list; the UI must
// never hang or crash because storage is unavailable.
func (mr *MediRemind) openStore() {
	dbPath, err := store.ResolveDBPath()
	if err != nil {
		log.Printf("Cannot resolve database path, running without persistence: %v", err)
		return
	}

	st, err := store.OpenWithTimeout(dbPath, storeTimeout)
	if err != nil {
		log.Printf("Database unavailable, running without persistence: %v", err)
		return
	}
	mr.store = st
}

func (mr *MediRemind) reloadMedications() {
	if mr.store == nil {
		return
	}

	meds, err := mr.store.GetAllMedications()
	if err != nil {
		log.Printf("Failed to load medications: %v", err)
		return
	}

	mr.mu.Lock()
	mr.meds = meds
	mr.mu.Unlock()
}

func (mr *MediRemind) reloadHistory() {
	if mr.store == nil {
		return
	}

	history, err := mr.store.AllHistory()
	if err != nil {
		log.Printf("Failed to load history: %v", err)
		return
	}

	mr.mu.Lock()
	mr.history = history
	mr.mu.Unlock()
}

// configSnapshot returns a copy of the current settings. The poll loop and
// notification timers run off the UI thread, so they must not read the
// live Config while a settings callback writes it.
func (mr *MediRemind) configSnapshot() Config {
	mr.mu.Lock()
	defer mr.mu.Unlock()
	return *mr.config
}

func (mr *MediRemind) updateConfig(apply func(*Config)) {
	mr.mu.Lock()
	apply(mr.config)
	cfg := *mr.config
	mr.mu.Unlock()

	saveConfig(mr.app, &cfg)
}

func (mr *MediRemind) sendNotification(title, body string) {
	mr.app.SendNotification(fyne.NewNotification(title, body))
	if mr.configSnapshot().SoundEnabled {
		playChime()
	}
}

func (mr *MediRemind) handleReminderAction(medicationID string, kind notify.ActionKind) {
	switch kind {
	case notify.ActionDelivered:
		log.Printf("Reminder delivered for medication %s", medicationID)
	case notify.ActionRemindLater:
		// The cascade already covers follow-ups; extra manual reminders
		// would duplicate it.
		log.Printf("Remind-later pressed for medication %s", medicationID)
	case notify.ActionView:
		fyne.Do(func() {
			mr.showMedicationsWindow()
		})
	}
}

// programTodayNotifications registers the day's reminder cascades once per
// calendar date. Reopening the app on the same day must not re-register
// everything, but an empty pending set means the process restarted and the
// in-process timers were lost.
func (mr *MediRemind) programTodayNotifications() {
	today := time.Now().Format(models.DateLayout)
	flagKey := "notifications_programmed_" + today

	programmed := ""
	if mr.store != nil {
		v, err := mr.store.MetaValue(flagKey)
		if err != nil {
			log.Printf("Failed to read notification flag: %v", err)
		}
		programmed = v
	}

	if programmed == "true" && len(mr.notifier.Pending()) > 0 {
		log.Println("Notifications already programmed for today, skipping")
		return
	}

	mr.mu.Lock()
	meds := append([]models.Medication(nil), mr.meds...)
	mr.mu.Unlock()

	count := 0
	for i := range meds {
		if meds[i].Taken {
			continue
		}
		mr.scheduleCascade(&meds[i])
		count++
	}
	log.Printf("Programmed reminder cascades for %d medications", count)

	if mr.store != nil {
		if err := mr.store.SetMetaValue(flagKey, "true"); err != nil {
			log.Printf("Failed to store notification flag: %v", err)
		}
	}
}

// scheduleCascade cancels any previous cascade for the medication and, when
// the medication still applies today and is not taken, registers a fresh
// one. Cancel-before-reschedule keeps stale reminders from surviving a
// trigger-time change.
func (mr *MediRemind) scheduleCascade(med *models.Medication) {
	mr.notifier.Cancel(schedule.CascadeIDs(med.ID))

	if med.Taken || !mr.configSnapshot().NotificationsEnabled {
		return
	}

	now := time.Now()
	if !schedule.AppliesOn(med, now) {
		return
	}
	if med.Frequency == models.FrequencyAsNeeded {
		return
	}

	hour, minute, err := med.TimeOfDay()
	if err != nil {
		log.Printf("Not scheduling reminders for %s: %v", med.Name, err)
		return
	}

	trigger := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
	reminders := schedule.BuildCascade(med, trigger, now)
	if err := mr.notifier.Schedule(reminders); err != nil {
		// Best effort: the in-app check still catches the dose on poll.
		log.Printf("Failed to schedule reminders for %s: %v", med.Name, err)
		return
	}
	log.Printf("Scheduled %d cascading reminders for %s", len(reminders), med.Name)
}

func (mr *MediRemind) cancelCascade(medicationID string) {
	mr.notifier.Cancel(schedule.CascadeIDs(medicationID))
}

func (mr *MediRemind) startDueChecker() {
	mr.pollTicker = time.NewTicker(pollInterval)
	go func() {
		for range mr.pollTicker.C {
			mr.checkDueMedications()
		}
	}()

	go func() {
		time.Sleep(5 * time.Second)
		mr.checkDueMedications()
	}()
}

// checkDueMedications is the 30-second in-app poll: the first due,
// not-yet-alerted medication opens the reminder modal, the rest of this
// tick's due medications join the deferred queue.
func (mr *MediRemind) checkDueMedications() {
	now := time.Now()

	mr.mu.Lock()
	var toShow *models.Medication
	for i := range mr.meds {
		med := &mr.meds[i]
		if med.Taken {
			continue
		}
		if !schedule.AppliesOn(med, now) {
			continue
		}
		if !schedule.DueForCatchUp(med, now) {
			continue
		}
		if !mr.dedup.ShouldAlert(med.ID, now) {
			continue
		}

		// Mark before the asynchronous display step so a second tick cannot
		// fire a duplicate.
		mr.dedup.MarkAlerted(med.ID, now)

		if mr.reminderOpen || toShow != nil {
			mr.deferred = append(mr.deferred, med.ID)
			continue
		}

		m := *med
		toShow = &m
		mr.reminderOpen = true
	}

	if toShow != nil && mr.snoozeTimer != nil {
		// A new medication came due; it takes precedence over a snooze.
		mr.snoozeTimer.Stop()
		mr.snoozeTimer = nil
	}
	mr.mu.Unlock()

	if toShow != nil {
		log.Printf("Medication due: %s", toShow.Name)
		mr.showReminder(*toShow)
	}
}

func (mr *MediRemind) showReminder(med models.Medication) {
	cfg := mr.configSnapshot()
	rw := NewReminderWindow(
		mr.app,
		med,
		cfg.SnoozeMinutes,
		cfg.SoundEnabled,
		func() {
			mr.setTaken(med.ID, true)
		},
		func() {
			mr.scheduleSnooze(med.ID)
		},
		func() {
			mr.onReminderClosed()
		},
	)
	rw.Show()
}

// onReminderClosed reopens the modal for the next deferred medication, if
// any is still applicable.
func (mr *MediRemind) onReminderClosed() {
	mr.mu.Lock()
	mr.reminderOpen = false

	var next *models.Medication
	for len(mr.deferred) > 0 && next == nil {
		id := mr.deferred[0]
		mr.deferred = mr.deferred[1:]
		for i := range mr.meds {
			if mr.meds[i].ID == id && !mr.meds[i].Taken {
				m := mr.meds[i]
				next = &m
				break
			}
		}
	}
	if next != nil {
		mr.reminderOpen = true
	}
	mr.mu.Unlock()

	if next != nil {
		mr.showReminder(*next)
	}
}

func (mr *MediRemind) scheduleSnooze(medicationID string) {
	mr.mu.Lock()
	defer mr.mu.Unlock()

	if mr.snoozeTimer != nil {
		mr.snoozeTimer.Stop()
	}

	delay := time.Duration(mr.config.SnoozeMinutes) * time.Minute
	mr.snoozeTimer = time.AfterFunc(delay, func() {
		mr.mu.Lock()
		mr.snoozeTimer = nil

		var med *models.Medication
		for i := range mr.meds {
			if mr.meds[i].ID == medicationID && !mr.meds[i].Taken {
				m := mr.meds[i]
				med = &m
				break
			}
		}
		if med == nil || mr.reminderOpen {
			if med != nil {
				mr.deferred = append(mr.deferred, med.ID)
			}
			mr.mu.Unlock()
			return
		}
		mr.reminderOpen = true
		mr.mu.Unlock()

		mr.showReminder(*med)
	})
	log.Printf("Snoozed reminder for medication %s by %s", medicationID, delay)
}

// mutateMedications applies an optimistic in-memory change, writes it
// through to the store, and restores the prior state when the write fails.
// Every medication mutation goes through here.
func (mr *MediRemind) mutateMedications(apply func([]models.Medication) []models.Medication, write func(*store.Store) error) error {
	mr.mu.Lock()
	prev := mr.meds
	mr.meds = apply(append([]models.Medication(nil), prev...))
	mr.mu.Unlock()

	if mr.store != nil {
		if err := write(mr.store); err != nil {
			mr.mu.Lock()
			mr.meds = prev
			mr.mu.Unlock()
			return err
		}
	}
	return nil
}

func (mr *MediRemind) setTaken(medicationID string, taken bool) {
	var updated *models.Medication
	err := mr.mutateMedications(
		func(meds []models.Medication) []models.Medication {
			for i := range meds {
				if meds[i].ID == medicationID {
					meds[i].Taken = taken
					m := meds[i]
					updated = &m
				}
			}
			return meds
		},
		func(s *store.Store) error {
			return s.SetTaken(medicationID, taken)
		},
	)
	if err != nil {
		log.Printf("Failed to update taken status for %s: %v", medicationID, err)
		return
	}
	if updated == nil {
		return
	}

	if taken {
		mr.cancelCascade(medicationID)
	} else {
		mr.scheduleCascade(updated)
	}

	mr.updateTodayHistory()
	mr.refreshUI()
}

func (mr *MediRemind) addMedication(med models.Medication) {
	err := mr.mutateMedications(
		func(meds []models.Medication) []models.Medication {
			return append(meds, med)
		},
		func(s *store.Store) error {
			return s.AddMedication(&med)
		},
	)
	if err != nil {
		log.Printf("Failed to add medication %s: %v", med.Name, err)
		return
	}

	mr.scheduleCascade(&med)
	mr.updateTodayHistory()
	mr.refreshUI()
}

func (mr *MediRemind) editMedication(med models.Medication) {
	err := mr.mutateMedications(
		func(meds []models.Medication) []models.Medication {
			for i := range meds {
				if meds[i].ID == med.ID {
					meds[i] = med
				}
			}
			return meds
		},
		func(s *store.Store) error {
			return s.UpdateMedication(&med)
		},
	)
	if err != nil {
		log.Printf("Failed to edit medication %s: %v", med.Name, err)
		return
	}

	mr.scheduleCascade(&med)
	mr.updateTodayHistory()
	mr.refreshUI()
}

func (mr *MediRemind) deleteMedication(medicationID string) {
	// Cancel the cascade before the medication disappears; afterwards the
	// IDs could no longer be recomputed.
	mr.cancelCascade(medicationID)

	err := mr.mutateMedications(
		func(meds []models.Medication) []models.Medication {
			out := meds[:0]
			for _, m := range meds {
				if m.ID != medicationID {
					out = append(out, m)
				}
			}
			return out
		},
		func(s *store.Store) error {
			return s.DeleteMedication(medicationID)
		},
	)
	if err != nil {
		log.Printf("Failed to delete medication %s: %v", medicationID, err)
		return
	}

	mr.updateTodayHistory()
	mr.refreshUI()
}

// updateTodayHistory recomputes and persists today's adherence snapshot;
// called after every taken mutation and at rollover.
func (mr *MediRemind) updateTodayHistory() {
	now := time.Now()

	mr.mu.Lock()
	meds := append([]models.Medication(nil), mr.meds...)
	mr.mu.Unlock()

	snapshot := schedule.BuildDailySnapshot(meds, now)

	if mr.store != nil {
		if err := mr.store.SaveHistory(&snapshot); err != nil {
			log.Printf("Failed to save history: %v", err)
		}
		mr.reloadHistory()
		return
	}

	// No persistence: keep the in-memory view coherent anyway.
	mr.mu.Lock()
	replaced := false
	for i := range mr.history {
		if mr.history[i].Date == snapshot.Date {
			mr.history[i] = snapshot
			replaced = true
			break
		}
	}
	if !replaced {
		mr.history = append([]models.DailyHistory{snapshot}, mr.history...)
	}
	mr.mu.Unlock()
}

func (mr *MediRemind) armRolloverTimer() {
	// A second past midnight avoids firing on the boundary itself.
	delay := time.Until(schedule.NextMidnight(time.Now())) + time.Second
	mr.rolloverTimer = time.AfterFunc(delay, mr.onRollover)
}

// onRollover runs once per midnight: clears the dedup set, lets the store
// reset taken flags, starts today's snapshot and reprograms the day's
// notification cascades.
func (mr *MediRemind) onRollover() {
	log.Println("Date rollover: resetting daily state")

	mr.dedup.Reset()
	mr.reloadMedications()
	mr.updateTodayHistory()

	if mr.configSnapshot().NotificationsEnabled {
		mr.programTodayNotifications()
	}

	mr.refreshUI()
	mr.armRolloverTimer()
}

func (mr *MediRemind) refreshUI() {
	mr.updateSystemTrayMenu()
	if mr.medsWindow != nil {
		mr.medsWindow.Refresh()
	}
}

func (mr *MediRemind) showMedicationsWindow() {
	if mr.medsWindow != nil && mr.medsWindow.window != nil {
		mr.medsWindow.window.RequestFocus()
		mr.medsWindow.window.Show()
		return
	}

	mr.medsWindow = NewMedicationsWindow(mr)
	mr.medsWindow.window.SetOnClosed(func() {
		mr.medsWindow = nil
	})
	mr.medsWindow.Show()
}

func (mr *MediRemind) quit() {
	if mr.pollTicker != nil {
		mr.pollTicker.Stop()
	}
	if mr.rolloverTimer != nil {
		mr.rolloverTimer.Stop()
	}

	mr.mu.Lock()
	if mr.snoozeTimer != nil {
		mr.snoozeTimer.Stop()
		mr.snoozeTimer = nil
	}
	mr.mu.Unlock()

	mr.notifier.CancelAll()
	if mr.store != nil {
		_ = mr.store.Close()
	}
	mr.app.Quit()
}
