/*
dto.go - Request/response data structures

PURPOSE:
  Defines the JSON shapes the console speaks over HTTP. Request bodies
  carry validator tags; responses reuse the domain types directly where
  their JSON form already matches the wire contract.

VALIDATION:
  Request DTOs are checked with go-playground/validator before any
  domain code runs. Domain-level rules (staff required, booking
  completeness) still live in the packages themselves; the tags only
  catch structurally broken payloads early.

SEE ALSO:
  - handlers.go: where these are decoded and validated
*/
package api

import (
	"github.com/healthreply/pflegenetz/billing"
	"github.com/healthreply/pflegenetz/dates"
	"github.com/healthreply/pflegenetz/medication"
	"github.com/healthreply/pflegenetz/messaging"
	"github.com/healthreply/pflegenetz/roster"
)

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Error   string `json:"error"`
	Field   string `json:"field,omitempty"`
	Details string `json:"details,omitempty"`
}

// =============================================================================
// ROSTER
// =============================================================================

// WeekResponse bundles everything the roster board needs for one week.
type WeekResponse struct {
	Week        dates.Week                   `json:"week"`
	Matrix      []roster.CoverageCell        `json:"matrix"`
	Assignments []roster.Assignment          `json:"assignments"`
	TimeOff     []roster.TimeOff             `json:"timeOff"`
	Hours       map[string]int               `json:"hours"`
	Staff       []roster.StaffMember         `json:"staff"`
	Coverage    []roster.CoverageRequirement `json:"coverage"`
}

// AssignmentRequest creates or updates a shift assignment.
type AssignmentRequest struct {
	StaffID string                  `json:"staffId" validate:"required"`
	Date    dates.Day               `json:"date" validate:"required"`
	Type    roster.ShiftType        `json:"type" validate:"required"`
	Start   string                  `json:"start"`
	End     string                  `json:"end"`
	Unit    string                  `json:"unit"`
	Status  roster.AssignmentStatus `json:"status"`
	Notes   string                  `json:"notes"`
}

func (r AssignmentRequest) toAssignment(id string) roster.Assignment {
	a := roster.Assignment{
		ID:      id,
		StaffID: r.StaffID,
		Date:    r.Date,
		Type:    r.Type,
		Start:   r.Start,
		End:     r.End,
		Unit:    r.Unit,
		Status:  r.Status,
		Notes:   r.Notes,
	}
	// Blank times fall back to the shift defaults.
	if t, ok := roster.DefaultTimes[r.Type]; ok {
		if a.Start == "" {
			a.Start = t.Start
		}
		if a.End == "" {
			a.End = t.End
		}
	}
	return a
}

// ReassignRequest moves an assignment to another staff member and/or
// day. A zero date keeps the current one.
type ReassignRequest struct {
	StaffID string    `json:"staffId" validate:"required"`
	Date    dates.Day `json:"date"`
}

// AutoplanRequest fills open shifts for one week.
type AutoplanRequest struct {
	Start dates.Day `json:"start" validate:"required"`
}

// AutoplanResponse reports what the planner created.
type AutoplanResponse struct {
	Created     []roster.Assignment   `json:"created"`
	Assignments []roster.Assignment   `json:"assignments"`
	Matrix      []roster.CoverageCell `json:"matrix"`
}

// TimeOffRequest files an absence interval.
type TimeOffRequest struct {
	StaffID string               `json:"staffId" validate:"required"`
	From    dates.Day            `json:"from" validate:"required"`
	To      dates.Day            `json:"to" validate:"required"`
	Reason  string               `json:"reason"`
	Status  roster.TimeOffStatus `json:"status"`
}

// CoverageRequest replaces the per-shift staffing minimums.
type CoverageRequest struct {
	Coverage []roster.CoverageRequirement `json:"coverage" validate:"required,dive"`
}

// =============================================================================
// BILLING
// =============================================================================

// LedgerResponse is one month's computed benefit table.
type LedgerResponse struct {
	Month   dates.Month     `json:"month"`
	Rows    []billing.Row   `json:"rows"`
	Summary billing.Summary `json:"summary"`
}

// InvoiceItemRequest books one line item. Amount is a decimal string.
type InvoiceItemRequest struct {
	ResidentID  string            `json:"residentId" validate:"required"`
	Date        dates.Day         `json:"date" validate:"required"`
	Category    billing.Category  `json:"category" validate:"required"`
	Description string            `json:"description" validate:"required"`
	Amount      string            `json:"amount" validate:"required"`
	CoveredBy   billing.CoveredBy `json:"coveredBy"`
}

// PlanRequest replaces a resident's benefit plan.
type PlanRequest struct {
	CareLevel billing.CareLevel `json:"careLevel" validate:"required,min=1,max=5"`
	Budgets   *billing.Budgets  `json:"budgets"`
}

// =============================================================================
// MEDICATION
// =============================================================================

// MedPlanResponse is the daily plan with prepared flags resolved.
type MedPlanResponse struct {
	Date  dates.Day        `json:"date"`
	Shift roster.ShiftType `json:"shift"`
	Rows  []MedPlanRow     `json:"rows"`
}

// MedPlanRow is one plan line plus its prepared state.
type MedPlanRow struct {
	Medication medication.Medication `json:"medication"`
	Time       medication.DoseTime   `json:"time,omitempty"`
	Prepared   bool                  `json:"prepared"`
}

// PrepRequest addresses one cell of the daily plan.
type PrepRequest struct {
	Date         dates.Day           `json:"date" validate:"required"`
	Shift        roster.ShiftType    `json:"shift" validate:"required"`
	ResidentID   string              `json:"residentId" validate:"required"`
	MedicationID string              `json:"medicationId" validate:"required"`
	Time         medication.DoseTime `json:"time" validate:"required"`
}

// PrepAllRequest marks a filtered daily view prepared.
type PrepAllRequest struct {
	Date       dates.Day        `json:"date" validate:"required"`
	Shift      roster.ShiftType `json:"shift" validate:"required"`
	ResidentID string           `json:"residentId"`
}

// =============================================================================
// MESSAGING
// =============================================================================

// BroadcastRequest fans a template out to all verified contacts.
type BroadcastRequest struct {
	Template messaging.Template `json:"template" validate:"required"`
}

// BroadcastResponse reports the fan-out size.
type BroadcastResponse struct {
	Reached int `json:"reached"`
}

// ChatSendRequest posts a staff message to one contact thread.
type ChatSendRequest struct {
	ContactID string `json:"contactId" validate:"required"`
	Text      string `json:"text" validate:"required"`
}

// StatusMessageRequest generates a prose daily update.
type StatusMessageRequest struct {
	ResidentID string                     `json:"residentId" validate:"required"`
	Categories messaging.StatusCategories `json:"categories"`
}

// StatusMessageResponse carries the generated text.
type StatusMessageResponse struct {
	Text string `json:"text"`
}

// =============================================================================
// DIRECTORY
// =============================================================================

// MoveRequest relocates a resident to another room. An empty room id is
// rejected here; moving a resident out goes through the resident record.
type MoveRequest struct {
	RoomID string `json:"roomId" validate:"required"`
}

// RoomStatusRequest sets a room's status or note.
type RoomStatusRequest struct {
	Status string `json:"status"`
	Note   string `json:"note"`
}
