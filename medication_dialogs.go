package main

import (
	"fmt"
	"log"
	"sort"
	"strconv"
	"strings"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
	"github.com/google/uuid"

	"mediremind/pkg/models"
)

var medicationColors = []string{"blue", "green", "red", "orange", "purple", "teal"}

type medicationForm struct {
	nameEntry   *widget.Entry
	dosageEntry *widget.Entry
	timeEntry   *widget.Entry
	freqSelect  *widget.Select
	daysEntry   *widget.Entry
	datesEntry  *widget.Entry
	colorSelect *widget.Select
	notesEntry  *widget.Entry
}

func newMedicationForm() *medicationForm {
	f := &medicationForm{
		nameEntry:   widget.NewEntry(),
		dosageEntry: widget.NewEntry(),
		timeEntry:   widget.NewEntry(),
		freqSelect: widget.NewSelect([]string{
			string(models.FrequencyDaily),
			string(models.FrequencyWeekly),
			string(models.FrequencyMonthly),
			string(models.FrequencyAsNeeded),
		}, nil),
		daysEntry:   widget.NewEntry(),
		datesEntry:  widget.NewEntry(),
		colorSelect: widget.NewSelect(medicationColors, nil),
		notesEntry:  widget.NewMultiLineEntry(),
	}

	f.nameEntry.SetPlaceHolder("Aspirin")
	f.dosageEntry.SetPlaceHolder("100mg")
	f.timeEntry.SetPlaceHolder("08:00")
	f.daysEntry.SetPlaceHolder("1,3,5 (0=Sun .. 6=Sat)")
	f.datesEntry.SetPlaceHolder("1,15 (day of month)")
	f.freqSelect.SetSelected(string(models.FrequencyDaily))
	f.colorSelect.SetSelected(medicationColors[0])

	return f
}

func (f *medicationForm) setMedication(med models.Medication) {
	f.nameEntry.SetText(med.Name)
	f.dosageEntry.SetText(med.Dosage)
	f.timeEntry.SetText(med.Time)
	f.freqSelect.SetSelected(string(med.Frequency))
	f.daysEntry.SetText(joinInts(med.SelectedDays))
	f.datesEntry.SetText(joinInts(med.SelectedDates))
	if med.Color != "" {
		f.colorSelect.SetSelected(med.Color)
	}
	f.notesEntry.SetText(med.Notes)
}

func (f *medicationForm) items() []*widget.FormItem {
	return []*widget.FormItem{
		widget.NewFormItem("Name", f.nameEntry),
		widget.NewFormItem("Dosage", f.dosageEntry),
		widget.NewFormItem("Time (HH:MM)", f.timeEntry),
		widget.NewFormItem("Frequency", f.freqSelect),
		widget.NewFormItem("Days of Week", f.daysEntry),
		widget.NewFormItem("Days of Month", f.datesEntry),
		widget.NewFormItem("Color", f.colorSelect),
		widget.NewFormItem("Notes", f.notesEntry),
	}
}

// medication validates the form and assembles the result. The day lists are
// only honored for the frequency that uses them.
func (f *medicationForm) medication() (models.Medication, error) {
	med := models.Medication{
		Name:      strings.TrimSpace(f.nameEntry.Text),
		Dosage:    strings.TrimSpace(f.dosageEntry.Text),
		Time:      strings.TrimSpace(f.timeEntry.Text),
		Frequency: models.Frequency(f.freqSelect.Selected),
		Color:     f.colorSelect.Selected,
		Icon:      "pill",
		Notes:     strings.TrimSpace(f.notesEntry.Text),
	}

	if med.Name == "" {
		return med, fmt.Errorf("name is required")
	}
	if _, _, err := med.TimeOfDay(); err != nil {
		return med, fmt.Errorf("time must be HH:MM, e.g. 08:00")
	}

	switch med.Frequency {
	case models.FrequencyWeekly:
		days, err := parseIntList(f.daysEntry.Text, 0, 6)
		if err != nil {
			return med, fmt.Errorf("days of week: %w", err)
		}
		med.SelectedDays = days
	case models.FrequencyMonthly:
		dates, err := parseIntList(f.datesEntry.Text, 1, 31)
		if err != nil {
			return med, fmt.Errorf("days of month: %w", err)
		}
		med.SelectedDates = dates
	}

	return med, nil
}

func (mw *MedicationsWindow) showAddMedicationDialog() {
	form := newMedicationForm()

	dialog.ShowForm("Add Medication", "Add", "Cancel", form.items(), func(confirmed bool) {
		if !confirmed {
			return
		}

		med, err := form.medication()
		if err != nil {
			dialog.ShowError(err, mw.window)
			return
		}
		med.ID = uuid.New().String()

		log.Printf("Adding medication %s", med.Name)
		mw.mr.addMedication(med)
	}, mw.window)
}

func (mw *MedicationsWindow) showEditMedicationDialog() {
	med, ok := mw.selectedMedication()
	if !ok {
		dialog.ShowInformation("No Selection", "Please select a medication from the table to edit.", mw.window)
		return
	}

	form := newMedicationForm()
	form.setMedication(med)

	dialog.ShowForm("Edit Medication", "Save", "Cancel", form.items(), func(confirmed bool) {
		if !confirmed {
			return
		}

		updated, err := form.medication()
		if err != nil {
			dialog.ShowError(err, mw.window)
			return
		}
		updated.ID = med.ID
		updated.Taken = med.Taken

		mw.mr.editMedication(updated)
	}, mw.window)
}

func (mw *MedicationsWindow) showDeleteMedicationDialog() {
	med, ok := mw.selectedMedication()
	if !ok {
		dialog.ShowInformation("No Selection", "Please select a medication from the table to delete.", mw.window)
		return
	}

	dialog.ShowConfirm("Delete Medication",
		fmt.Sprintf("Delete %s? This also cancels its pending reminders.", med.Name),
		func(confirmed bool) {
			if !confirmed {
				return
			}
			mw.selectedRow = -1
			mw.mr.deleteMedication(med.ID)
		}, mw.window)
}

func (mw *MedicationsWindow) toggleSelectedTaken() {
	med, ok := mw.selectedMedication()
	if !ok {
		dialog.ShowInformation("No Selection", "Please select a medication from the table first.", mw.window)
		return
	}

	mw.mr.setTaken(med.ID, !med.Taken)
}

func (mw *MedicationsWindow) showExportDialog() {
	saveDialog := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil {
			dialog.ShowError(err, mw.window)
			return
		}
		if writer == nil {
			return
		}
		defer writer.Close()

		if err := exportSchedule(mw.medsData, time.Now(), writer); err != nil {
			dialog.ShowError(fmt.Errorf("export failed: %w", err), mw.window)
			return
		}
		log.Printf("Exported medication schedule to %s", writer.URI().String())
	}, mw.window)

	saveDialog.SetFileName("mediremind.ics")
	saveDialog.Show()
}

func (mw *MedicationsWindow) selectedMedication() (models.Medication, bool) {
	if mw.selectedRow < 0 || mw.selectedRow >= len(mw.medsData) {
		return models.Medication{}, false
	}
	return mw.medsData[mw.selectedRow], true
}

// parseIntList parses a comma-separated list of integers and checks each
// against [min, max]. An empty string yields an empty list.
func parseIntList(s string, min, max int) ([]int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}

	var out []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		v, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("%q is not a number", part)
		}
		if v < min || v > max {
			return nil, fmt.Errorf("%d is out of range %d-%d", v, min, max)
		}
		out = append(out, v)
	}
	sort.Ints(out)
	return out, nil
}

func joinInts(vals []int) string {
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ",")
}
