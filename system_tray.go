package main

import (
	"fmt"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/theme"

	"mediremind/pkg/models"
	"mediremind/pkg/schedule"
)

func (mr *MediRemind) setupSystemTray() {
	mr.updateSystemTrayMenu()
}

func (mr *MediRemind) updateSystemTrayMenu() {
	desk, ok := mr.app.(desktop.App)
	if !ok {
		return
	}

	mr.mu.Lock()
	meds := append([]models.Medication(nil), mr.meds...)
	mr.mu.Unlock()

	now := time.Now()
	menuItems := []*fyne.MenuItem{}

	// Progress header
	total := 0
	taken := 0
	for _, med := range meds {
		if !schedule.AppliesOn(&med, now) {
			continue
		}
		total++
		if med.Taken {
			taken++
		}
	}
	if total > 0 {
		progressItem := fyne.NewMenuItem(fmt.Sprintf("Today: %d of %d taken", taken, total), nil)
		progressItem.Disabled = true
		menuItems = append(menuItems, progressItem)
		menuItems = append(menuItems, fyne.NewMenuItemSeparator())
	}

	// Upcoming doses section
	upcoming := upcomingDoses(meds, now, 5)
	if len(upcoming) > 0 {
		headerItem := fyne.NewMenuItem("Upcoming Today:", nil)
		headerItem.Disabled = true
		menuItems = append(menuItems, headerItem)

		for _, med := range upcoming {
			doseText := fmt.Sprintf("  %s - %s", med.Time, truncateString(med.Name, 35))
			doseItem := fyne.NewMenuItem(doseText, nil)
			doseItem.Disabled = true
			menuItems = append(menuItems, doseItem)
		}

		menuItems = append(menuItems, fyne.NewMenuItemSeparator())
	}

	menuItems = append(menuItems,
		fyne.NewMenuItem("Medications", func() {
			mr.showMedicationsWindow()
		}),
		fyne.NewMenuItem("Check Now", func() {
			go mr.checkDueMedications()
		}),
	)

	menuItems = append(menuItems, fyne.NewMenuItemSeparator())
	menuItems = append(menuItems, fyne.NewMenuItem("Quit", func() {
		mr.quit()
	}))

	menu := fyne.NewMenu("MediRemind", menuItems...)
	desk.SetSystemTrayMenu(menu)
	desk.SetSystemTrayIcon(theme.InfoIcon())
}

// upcomingDoses returns up to limit not-yet-taken medications whose dose
// time is still ahead of now today. Medications are already sorted by time.
func upcomingDoses(meds []models.Medication, now time.Time, limit int) []models.Medication {
	nowMinutes := now.Hour()*60 + now.Minute()

	upcoming := []models.Medication{}
	for i := range meds {
		med := meds[i]
		if med.Taken {
			continue
		}
		if med.Frequency == models.FrequencyAsNeeded {
			continue
		}
		if !schedule.AppliesOn(&med, now) {
			continue
		}

		hour, minute, err := med.TimeOfDay()
		if err != nil {
			continue
		}
		if hour*60+minute < nowMinutes {
			continue
		}

		upcoming = append(upcoming, med)
		if len(upcoming) >= limit {
			break
		}
	}
	return upcoming
}

// truncateString truncates a string to maxLen characters, adding "..." if needed
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
