package main

import (
	"fmt"
	"io"
	"time"

	"github.com/emersion/go-ical"
	"github.com/teambition/rrule-go"

	"mediremind/pkg/models"
)

// rruleWeekdays maps the app's weekday numbering (0=Sunday) to RRULE BYDAY
// values.
var rruleWeekdays = [7]rrule.Weekday{
	rrule.SU, rrule.MO, rrule.TU, rrule.WE, rrule.TH, rrule.FR, rrule.SA,
}

// recurrenceRule builds the RRULE value for a scheduled medication.
// As-needed medications have no fixed recurrence and return "".
func recurrenceRule(med *models.Medication) (string, error) {
	var opt rrule.ROption

	switch med.Frequency {
	case models.FrequencyDaily:
		opt.Freq = rrule.DAILY
	case models.FrequencyWeekly:
		opt.Freq = rrule.WEEKLY
		for _, d := range med.SelectedDays {
			if d < 0 || d > 6 {
				return "", fmt.Errorf("medication %s: weekday %d out of range", med.ID, d)
			}
			opt.Byweekday = append(opt.Byweekday, rruleWeekdays[d])
		}
	case models.FrequencyMonthly:
		opt.Freq = rrule.MONTHLY
		for _, d := range med.SelectedDates {
			if d < 1 || d > 31 {
				return "", fmt.Errorf("medication %s: day of month %d out of range", med.ID, d)
			}
			opt.Bymonthday = append(opt.Bymonthday, d)
		}
	case models.FrequencyAsNeeded:
		return "", nil
	default:
		return "", fmt.Errorf("medication %s: unknown frequency %q", med.ID, med.Frequency)
	}

	r, err := rrule.NewRRule(opt)
	if err != nil {
		return "", fmt.Errorf("medication %s: build rrule: %w", med.ID, err)
	}
	return r.String(), nil
}

// exportSchedule writes the dose schedule as an iCalendar stream: one
// recurring VEVENT per scheduled medication. As-needed medications are
// skipped, they have no fixed dose time to publish.
func exportSchedule(meds []models.Medication, now time.Time, w io.Writer) error {
	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, "-//MediRemind//Dose Schedule//EN")

	for i := range meds {
		med := &meds[i]
		if med.Frequency == models.FrequencyAsNeeded {
			continue
		}

		hour, minute, err := med.TimeOfDay()
		if err != nil {
			return fmt.Errorf("export schedule: %w", err)
		}
		rule, err := recurrenceRule(med)
		if err != nil {
			return fmt.Errorf("export schedule: %w", err)
		}

		start := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())

		event := ical.NewEvent()
		event.Props.SetText(ical.PropUID, med.ID+"@mediremind")
		event.Props.SetDateTime(ical.PropDateTimeStamp, now)
		event.Props.SetDateTime(ical.PropDateTimeStart, start)
		event.Props.SetDateTime(ical.PropDateTimeEnd, start.Add(5*time.Minute))
		event.Props.SetText(ical.PropSummary, fmt.Sprintf("%s (%s)", med.Name, med.Dosage))
		if med.Notes != "" {
			event.Props.SetText(ical.PropDescription, med.Notes)
		}
		if rule != "" {
			prop := ical.NewProp(ical.PropRecurrenceRule)
			prop.Value = rule
			event.Props.Set(prop)
		}

		cal.Children = append(cal.Children, event.Component)
	}

	if err := ical.NewEncoder(w).Encode(cal); err != nil {
		return fmt.Errorf("export schedule: encode: %w", err)
	}
	return nil
}
