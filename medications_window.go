package main

import (
	"fmt"
	"log"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"mediremind/pkg/models"
)

var shortDayNames = [7]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

type MedicationsWindow struct {
	window fyne.Window
	mr     *MediRemind

	// Medications tab
	medsTable     *widget.Table
	medsData      []models.Medication
	selectedRow   int
	progressLabel *widget.Label

	// History tab
	historyTable *widget.Table
	historyData  []models.DailyHistory

	// Settings tab
	autoStartCheck     *widget.Check
	soundCheck         *widget.Check
	notificationsCheck *widget.Check
	snoozeSelect       *widget.Select
}

func NewMedicationsWindow(mr *MediRemind) *MedicationsWindow {
	mw := &MedicationsWindow{
		mr:          mr,
		selectedRow: -1,
	}

	mw.window = mr.app.NewWindow("MediRemind - Medications")
	mw.reloadData()
	mw.buildUI()

	return mw
}

func (mw *MedicationsWindow) buildUI() {
	tabs := container.NewAppTabs(
		container.NewTabItem("Medications", mw.buildMedicationsTab()),
		container.NewTabItem("History", mw.buildHistoryTab()),
		container.NewTabItem("Settings", mw.buildSettingsTab()),
	)

	mw.window.SetContent(tabs)
	mw.window.Resize(fyne.NewSize(820, 560))
	mw.window.CenterOnScreen()

	mw.window.Canvas().SetOnTypedKey(func(key *fyne.KeyEvent) {
		if key.Name == fyne.KeyEscape {
			mw.window.Close()
		}
	})
}

func (mw *MedicationsWindow) Show() {
	mw.window.Show()
}

// Refresh reloads the window's data from the application state. Safe to call
// from any goroutine.
func (mw *MedicationsWindow) Refresh() {
	fyne.Do(func() {
		mw.reloadData()

		if mw.medsTable != nil {
			mw.updateMedsColumnWidths(mw.medsTable)
			mw.medsTable.Refresh()
		}
		if mw.historyTable != nil {
			mw.historyTable.Refresh()
		}
		if mw.progressLabel != nil {
			mw.progressLabel.SetText(mw.progressText())
		}
	})
}

func (mw *MedicationsWindow) reloadData() {
	mw.mr.mu.Lock()
	mw.medsData = append([]models.Medication(nil), mw.mr.meds...)
	mw.historyData = append([]models.DailyHistory(nil), mw.mr.history...)
	mw.mr.mu.Unlock()

	if mw.selectedRow >= len(mw.medsData) {
		mw.selectedRow = -1
	}
}

func (mw *MedicationsWindow) progressText() string {
	total := 0
	taken := 0
	for _, m := range mw.medsData {
		total++
		if m.Taken {
			taken++
		}
	}
	if total == 0 {
		return "No medications configured yet"
	}
	return fmt.Sprintf("Today: %d of %d taken", taken, total)
}

func (mw *MedicationsWindow) buildMedicationsTab() fyne.CanvasObject {
	table := widget.NewTable(
		func() (rows int, cols int) {
			return len(mw.medsData), 5
		},
		func() fyne.CanvasObject {
			label := widget.NewLabel("Template")
			label.Truncation = fyne.TextTruncateEllipsis
			return label
		},
		func(id widget.TableCellID, obj fyne.CanvasObject) {
			label := obj.(*widget.Label)

			if id.Row >= len(mw.medsData) {
				label.SetText("")
				return
			}

			med := mw.medsData[id.Row]
			label.Importance = widget.MediumImportance

			switch id.Col {
			case 0:
				label.SetText(med.Time)
			case 1:
				label.SetText(med.Name)
			case 2:
				label.SetText(med.Dosage)
			case 3:
				label.SetText(describeRecurrence(med))
			case 4:
				if med.Taken {
					label.SetText("Taken")
					label.Importance = widget.SuccessImportance
				} else {
					label.SetText("Pending")
					label.Importance = widget.WarningImportance
				}
			}
		},
	)

	table.ShowHeaderRow = true
	table.CreateHeader = func() fyne.CanvasObject {
		label := widget.NewLabel("Header")
		label.TextStyle.Bold = true
		return label
	}
	table.UpdateHeader = func(id widget.TableCellID, obj fyne.CanvasObject) {
		label := obj.(*widget.Label)
		switch id.Col {
		case 0:
			label.SetText("Time")
		case 1:
			label.SetText("Medication")
		case 2:
			label.SetText("Dosage")
		case 3:
			label.SetText("Schedule")
		case 4:
			label.SetText("Status")
		}
	}

	table.OnSelected = func(id widget.TableCellID) {
		mw.selectedRow = id.Row
	}
	table.OnUnselected = func(id widget.TableCellID) {
		if mw.selectedRow == id.Row {
			mw.selectedRow = -1
		}
	}

	mw.updateMedsColumnWidths(table)
	mw.medsTable = table

	mw.progressLabel = widget.NewLabel(mw.progressText())
	mw.progressLabel.TextStyle.Bold = true

	addButton := widget.NewButton("Add", func() {
		mw.showAddMedicationDialog()
	})
	addButton.Icon = theme.ContentAddIcon()

	editButton := widget.NewButton("Edit", func() {
		mw.showEditMedicationDialog()
	})

	deleteButton := widget.NewButton("Delete", func() {
		mw.showDeleteMedicationDialog()
	})
	deleteButton.Icon = theme.DeleteIcon()

	toggleButton := widget.NewButton("Mark Taken", func() {
		mw.toggleSelectedTaken()
	})
	toggleButton.Icon = theme.ConfirmIcon()

	exportButton := widget.NewButton("Export iCal", func() {
		mw.showExportDialog()
	})
	exportButton.Icon = theme.DocumentSaveIcon()

	buttonRow := container.NewHBox(addButton, editButton, deleteButton, toggleButton, exportButton)

	headerContent := container.NewVBox(
		mw.progressLabel,
		widget.NewSeparator(),
		buttonRow,
	)

	return container.NewPadded(container.NewBorder(
		headerContent,
		nil,
		nil,
		nil,
		table,
	))
}

func (mw *MedicationsWindow) updateMedsColumnWidths(table *widget.Table) {
	headers := []string{"Time", "Medication", "Dosage", "Schedule", "Status"}
	columnWidths := make([]float32, len(headers))

	charWidth := float32(8)
	padding := float32(20)

	for i, header := range headers {
		columnWidths[i] = float32(len(header))*charWidth + padding
	}

	for _, med := range mw.medsData {
		widths := []int{
			len(med.Time),
			len(med.Name),
			len(med.Dosage),
			len(describeRecurrence(med)),
			len("Pending"),
		}
		for i, w := range widths {
			contentWidth := float32(w)*charWidth + padding
			if contentWidth > columnWidths[i] {
				columnWidths[i] = contentWidth
			}
		}
	}

	minWidths := []float32{70, 160, 90, 160, 80}
	maxWidths := []float32{90, 320, 180, 300, 100}

	for i := range columnWidths {
		if columnWidths[i] < minWidths[i] {
			columnWidths[i] = minWidths[i]
		}
		if columnWidths[i] > maxWidths[i] {
			columnWidths[i] = maxWidths[i]
		}
		table.SetColumnWidth(i, columnWidths[i])
	}
}

func (mw *MedicationsWindow) buildHistoryTab() fyne.CanvasObject {
	table := widget.NewTable(
		func() (rows int, cols int) {
			return len(mw.historyData), 3
		},
		func() fyne.CanvasObject {
			return widget.NewLabel("Template")
		},
		func(id widget.TableCellID, obj fyne.CanvasObject) {
			label := obj.(*widget.Label)

			if id.Row >= len(mw.historyData) {
				label.SetText("")
				return
			}

			day := mw.historyData[id.Row]
			label.Importance = widget.MediumImportance

			switch id.Col {
			case 0:
				label.SetText(day.Date)
			case 1:
				label.SetText(fmt.Sprintf("%d / %d", day.TakenMedications, day.TotalMedications))
			case 2:
				if day.TotalMedications == 0 {
					label.SetText("-")
					return
				}
				pct := day.TakenMedications * 100 / day.TotalMedications
				label.SetText(fmt.Sprintf("%d%%", pct))
				if pct == 100 {
					label.Importance = widget.SuccessImportance
				} else if pct < 50 {
					label.Importance = widget.WarningImportance
				}
			}
		},
	)

	table.ShowHeaderRow = true
	table.CreateHeader = func() fyne.CanvasObject {
		label := widget.NewLabel("Header")
		label.TextStyle.Bold = true
		return label
	}
	table.UpdateHeader = func(id widget.TableCellID, obj fyne.CanvasObject) {
		label := obj.(*widget.Label)
		switch id.Col {
		case 0:
			label.SetText("Date")
		case 1:
			label.SetText("Taken")
		case 2:
			label.SetText("Adherence")
		}
	}

	table.SetColumnWidth(0, 130)
	table.SetColumnWidth(1, 100)
	table.SetColumnWidth(2, 100)

	mw.historyTable = table

	helpText := widget.NewLabel("Adherence over the last 30 days. Each row is one day's snapshot of scheduled versus taken medications.")
	helpText.Wrapping = fyne.TextWrapWord
	helpText.Importance = widget.MediumImportance

	headerContent := container.NewVBox(
		widget.NewLabel("History"),
		widget.NewSeparator(),
		helpText,
	)

	return container.NewPadded(container.NewBorder(
		headerContent,
		nil,
		nil,
		nil,
		table,
	))
}

func (mw *MedicationsWindow) buildSettingsTab() fyne.CanvasObject {
	config := mw.mr.configSnapshot()

	// Settings apply immediately; there is little enough here that a
	// separate save step would just get in the way. Writes go through
	// updateConfig because the poll loop reads these fields concurrently.
	mw.autoStartCheck = widget.NewCheck("Launch MediRemind on system start", func(checked bool) {
		mw.mr.updateConfig(func(c *Config) {
			c.AutoStart = checked
		})
		if err := setupAutostart(checked); err != nil {
			log.Printf("Error setting autostart: %v", err)
		}
	})
	mw.autoStartCheck.SetChecked(config.AutoStart)

	mw.notificationsCheck = widget.NewCheck("Enable reminder notifications", func(checked bool) {
		mw.mr.updateConfig(func(c *Config) {
			c.NotificationsEnabled = checked
		})
		if checked {
			mw.mr.programTodayNotifications()
		} else {
			mw.mr.notifier.CancelAll()
		}
	})
	mw.notificationsCheck.SetChecked(config.NotificationsEnabled)

	mw.soundCheck = widget.NewCheck("Play a chime with reminders", func(checked bool) {
		mw.mr.updateConfig(func(c *Config) {
			c.SoundEnabled = checked
		})
	})
	mw.soundCheck.SetChecked(config.SoundEnabled)

	snoozeOptions := []string{"1 min", "5 min", "10 min", "15 min", "30 min"}
	mw.snoozeSelect = widget.NewSelect(snoozeOptions, func(selected string) {
		var val int
		if _, err := fmt.Sscanf(selected, "%d min", &val); err == nil {
			mw.mr.updateConfig(func(c *Config) {
				c.SnoozeMinutes = val
			})
		}
	})
	mw.snoozeSelect.SetSelected(fmt.Sprintf("%d min", config.SnoozeMinutes))

	notificationsHelp := widget.NewLabel("Reminders escalate: the first notification fires at the dose time, with follow-ups after 10, 30 and 60 minutes until the dose is marked taken.")
	notificationsHelp.Wrapping = fyne.TextWrapWord
	notificationsHelp.Importance = widget.MediumImportance

	snoozeHelp := widget.NewLabel("How long the Snooze button on a reminder waits before showing it again.")
	snoozeHelp.Wrapping = fyne.TextWrapWord
	snoozeHelp.Importance = widget.MediumImportance

	form := container.New(layout.NewFormLayout(),
		widget.NewLabel("Auto Start:"),
		mw.autoStartCheck,

		container.NewVBox(widget.NewLabel("Notifications:"), notificationsHelp),
		mw.notificationsCheck,

		widget.NewLabel("Sound:"),
		mw.soundCheck,

		container.NewVBox(widget.NewLabel("Snooze Time:"), snoozeHelp),
		mw.snoozeSelect,
	)

	content := container.NewVBox(
		widget.NewLabel("Settings"),
		widget.NewSeparator(),
		form,
	)

	return container.NewPadded(container.NewVScroll(content))
}

// describeRecurrence renders a medication's schedule for display, e.g.
// "Weekly (Mon, Wed, Fri)".
func describeRecurrence(med models.Medication) string {
	switch med.Frequency {
	case models.FrequencyDaily:
		return "Daily"
	case models.FrequencyWeekly:
		if len(med.SelectedDays) == 0 {
			return "Weekly"
		}
		names := make([]string, 0, len(med.SelectedDays))
		for _, d := range med.SelectedDays {
			if d >= 0 && d <= 6 {
				names = append(names, shortDayNames[d])
			}
		}
		return "Weekly (" + strings.Join(names, ", ") + ")"
	case models.FrequencyMonthly:
		if len(med.SelectedDates) == 0 {
			return "Monthly"
		}
		parts := make([]string, 0, len(med.SelectedDates))
		for _, d := range med.SelectedDates {
			parts = append(parts, fmt.Sprintf("%d", d))
		}
		return "Monthly (days " + strings.Join(parts, ", ") + ")"
	case models.FrequencyAsNeeded:
		return "As needed"
	default:
		return string(med.Frequency)
	}
}
