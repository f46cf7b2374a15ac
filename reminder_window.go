package main

import (
	"fmt"
	"log"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"mediremind/pkg/models"
)

// ReminderWindow is the in-app reminder modal. Only one is open at a time;
// the app defers other due medications until it closes.
type ReminderWindow struct {
	window        fyne.Window
	app           fyne.App
	med           models.Medication
	snoozeMinutes int
	onTaken       func()
	onSnooze      func()
	onClosed      func()

	audioPlayer *AudioPlayer
	resolved    bool
}

func NewReminderWindow(app fyne.App, med models.Medication, snoozeMinutes int, soundEnabled bool, onTaken, onSnooze, onClosed func()) *ReminderWindow {
	rw := &ReminderWindow{
		app:           app,
		med:           med,
		snoozeMinutes: snoozeMinutes,
		onTaken:       onTaken,
		onSnooze:      onSnooze,
		onClosed:      onClosed,
	}

	if soundEnabled {
		rw.audioPlayer = playChime()
	}

	// Create window and build UI on the main Fyne thread
	fyne.Do(func() {
		rw.window = app.NewWindow("Medication Reminder")
		rw.buildUI()

		rw.window.SetOnClosed(func() {
			if rw.audioPlayer != nil {
				rw.audioPlayer.Stop()
			}
			if !rw.resolved {
				// Closed without Taken or Snooze; the cascade keeps nagging.
				log.Printf("Reminder for %s dismissed without action", rw.med.Name)
			}
			if rw.onClosed != nil {
				rw.onClosed()
			}
		})
	})

	return rw
}

func (rw *ReminderWindow) buildUI() {
	title := canvas.NewText(rw.med.Name, nil)
	title.TextSize = 28
	title.Alignment = fyne.TextAlignCenter

	doseLabel := widget.NewLabel(fmt.Sprintf("%s at %s", rw.med.Dosage, rw.med.Time))
	doseLabel.Alignment = fyne.TextAlignCenter

	content := container.NewVBox(
		container.NewPadded(title),
		doseLabel,
		widget.NewSeparator(),
	)

	if rw.med.Notes != "" {
		notes := widget.NewLabel(rw.med.Notes)
		notes.Wrapping = fyne.TextWrapWord
		notes.Alignment = fyne.TextAlignCenter
		content.Add(container.NewPadded(notes))
		content.Add(widget.NewSeparator())
	}

	takenButton := widget.NewButton("Taken", func() {
		rw.resolved = true
		if rw.onTaken != nil {
			rw.onTaken()
		}
		rw.window.Close()
	})
	takenButton.Importance = widget.HighImportance

	buttonRow := container.NewHBox()
	if rw.snoozeMinutes > 0 {
		snoozeButton := widget.NewButton(fmt.Sprintf("Snooze %dm", rw.snoozeMinutes), func() {
			rw.resolved = true
			if rw.onSnooze != nil {
				rw.onSnooze()
			}
			rw.window.Close()
		})
		buttonRow.Add(snoozeButton)
	}
	buttonRow.Add(takenButton)

	content.Add(container.NewCenter(buttonRow))

	rw.window.SetContent(container.NewPadded(container.NewCenter(content)))
	rw.window.Resize(fyne.NewSize(360, 240))
	rw.window.CenterOnScreen()
}

func (rw *ReminderWindow) Show() {
	fyne.Do(func() {
		if rw.window != nil {
			rw.window.Show()
			rw.window.RequestFocus()
		}
	})
}
