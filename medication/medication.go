/*
Package medication manages the medication plan and preparation tracking.

PURPOSE:
  Each resident has a list of prescribed medications with scheduled dose
  times. The daily view flattens the plan into (medication, dose time)
  rows for one calendar day and duty shift; preparation ("stellen") and
  administration are tracked as events keyed by
  (date, shift, resident, medication, dose time).

  PRN ("as needed") medications carry no scheduled times; they appear in
  the daily view as a single row with no dose time and can never be
  marked prepared.
*/
package medication

import (
	"time"

	"github.com/healthreply/pflegenetz/dates"
	"github.com/healthreply/pflegenetz/roster"
)

// =============================================================================
// PLAN
// =============================================================================

// DoseTime is a scheduled intake slot during the day.
type DoseTime string

const (
	DoseMorning DoseTime = "morning"
	DoseNoon    DoseTime = "noon"
	DoseEvening DoseTime = "evening"
	DoseNight   DoseTime = "night"
)

// DoseTimes is the display order of intake slots.
var DoseTimes = []DoseTime{DoseMorning, DoseNoon, DoseEvening, DoseNight}

type Form string

const (
	FormTablet    Form = "tablet"
	FormDrops     Form = "drops"
	FormCapsule   Form = "capsule"
	FormOintment  Form = "ointment"
	FormInjection Form = "injection"
	FormOther     Form = "other"
)

// Medication is one prescription on a resident's plan.
type Medication struct {
	ID         string     `json:"id"`
	ResidentID string     `json:"residentId"`
	Name       string     `json:"name"`
	Form       Form       `json:"form"`
	Strength   string     `json:"strength,omitempty"`
	Dose       string     `json:"dose,omitempty"` // free text, e.g. "1-0-1-0"
	Times      []DoseTime `json:"times"`
	PRN        bool       `json:"prn,omitempty"`
	Notes      string     `json:"notes,omitempty"`
}

// PrepEvent records that a dose was prepared (and optionally given) for
// one (date, shift, resident, medication, dose time) cell.
type PrepEvent struct {
	ID           string           `json:"id"`
	Date         dates.Day        `json:"date"`
	Shift        roster.ShiftType `json:"shift"`
	ResidentID   string           `json:"residentId"`
	MedicationID string           `json:"medicationId"`
	Time         DoseTime         `json:"time"`
	Prepared     bool             `json:"prepared"`
	Given        bool             `json:"given,omitempty"`
	At           time.Time        `json:"at"`
}

func (e PrepEvent) matches(date dates.Day, shift roster.ShiftType, residentID, medicationID string, t DoseTime) bool {
	return e.Date == date && e.Shift == shift && e.ResidentID == residentID && e.MedicationID == medicationID && e.Time == t
}

// =============================================================================
// DAILY VIEW
// =============================================================================

// PlanRow is one line of the daily plan: a medication at one dose time.
// Time is empty for PRN medications without scheduled slots.
type PlanRow struct {
	Medication Medication `json:"medication"`
	Time       DoseTime   `json:"time,omitempty"`
}

// DailyPlan flattens the plan into rows, optionally narrowed to one
// resident. Medications without scheduled times yield a single timeless
// row so PRN prescriptions stay visible.
func DailyPlan(plan []Medication, residentID string) []PlanRow {
	var rows []PlanRow
	for _, m := range plan {
		if residentID != "" && m.ResidentID != residentID {
			continue
		}
		if len(m.Times) == 0 {
			rows = append(rows, PlanRow{Medication: m})
			continue
		}
		for _, t := range m.Times {
			rows = append(rows, PlanRow{Medication: m, Time: t})
		}
	}
	return rows
}

// IsPrepared reports whether the cell has a prepared event. Timeless
// (PRN) rows are never prepared.
func IsPrepared(events []PrepEvent, date dates.Day, shift roster.ShiftType, residentID, medicationID string, t DoseTime) bool {
	if t == "" {
		return false
	}
	for _, e := range events {
		if e.matches(date, shift, residentID, medicationID, t) && e.Prepared {
			return true
		}
	}
	return false
}

// =============================================================================
// MUTATIONS
// =============================================================================

// TogglePrepared flips the prepared flag of a cell, creating the event
// on first touch. Timeless rows are a no-op. newID mints identities and
// now stamps the change.
func TogglePrepared(events []PrepEvent, date dates.Day, shift roster.ShiftType, residentID, medicationID string, t DoseTime, newID func() string, now time.Time) []PrepEvent {
	if t == "" {
		return events
	}
	out := make([]PrepEvent, len(events))
	for i, e := range events {
		if e.matches(date, shift, residentID, medicationID, t) {
			e.Prepared = !e.Prepared
			e.At = now
			out[i] = e
			copy(out[i+1:], events[i+1:])
			return out
		}
		out[i] = e
	}
	created := PrepEvent{
		ID: newID(), Date: date, Shift: shift,
		ResidentID: residentID, MedicationID: medicationID, Time: t,
		Prepared: true, At: now,
	}
	return append([]PrepEvent{created}, events...)
}

// MarkAllPrepared sets every scheduled row of the filtered daily view to
// prepared, creating events where none exist and forcing existing ones
// to prepared (never toggling them off).
func MarkAllPrepared(events []PrepEvent, plan []Medication, date dates.Day, shift roster.ShiftType, residentID string, newID func() string, now time.Time) []PrepEvent {
	out := append([]PrepEvent(nil), events...)
	for _, row := range DailyPlan(plan, residentID) {
		if row.Time == "" {
			continue
		}
		found := false
		for i, e := range out {
			if e.matches(date, shift, row.Medication.ResidentID, row.Medication.ID, row.Time) {
				out[i].Prepared = true
				out[i].At = now
				found = true
				break
			}
		}
		if !found {
			out = append([]PrepEvent{{
				ID: newID(), Date: date, Shift: shift,
				ResidentID: row.Medication.ResidentID, MedicationID: row.Medication.ID, Time: row.Time,
				Prepared: true, At: now,
			}}, out...)
		}
	}
	return out
}

// UpsertMedication replaces the prescription keyed by ID, or appends.
func UpsertMedication(plan []Medication, next Medication) []Medication {
	out := make([]Medication, len(plan))
	copy(out, plan)
	for i, m := range out {
		if m.ID == next.ID {
			out[i] = next
			return out
		}
	}
	return append(out, next)
}

// DeleteMedication removes a prescription from the plan.
func DeleteMedication(plan []Medication, id string) []Medication {
	out := make([]Medication, 0, len(plan))
	for _, m := range plan {
		if m.ID != id {
			out = append(out, m)
		}
	}
	return out
}
