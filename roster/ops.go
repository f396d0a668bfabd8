/*
ops.go - Manual duty-plan operations

PURPOSE:
  The direct-manipulation operations behind the duty-plan screen:
  creating, editing, deleting, and reassigning single shifts, the two
  explicit status actions (swap request / confirm), and time-off
  creation. Each operation takes the current snapshot and returns a new
  one; the caller persists.

  There is no state machine beyond the two status actions: any
  assignment in any status may transition to confirmed or
  swap-requested. Reassignment resets a swap-requested shift to planned.

FAILURE SEMANTICS:
  The only rejection is a missing staff selection, reported as a
  user-facing ValidationError. Nothing else validates: double-bookings
  and orphaned staff ids pass through untouched.
*/
package roster

import (
	"errors"
	"fmt"

	"github.com/healthreply/pflegenetz/dates"
)

// ErrStaffRequired rejects shift or time-off creation without a staff
// member selected. Surfaced as an inline message, never a crash.
var ErrStaffRequired = errors.New("a staff member must be selected")

// ValidationError carries a user-facing field rejection.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error { return ErrStaffRequired }

// =============================================================================
// ASSIGNMENT CRUD
// =============================================================================

// CreateAssignment validates and prepends a new shift. Returns the new
// snapshot, or the input unchanged with a ValidationError.
func CreateAssignment(assignments []Assignment, a Assignment) ([]Assignment, error) {
	if a.StaffID == "" {
		return assignments, &ValidationError{Field: "staffId", Message: "a staff member must be selected"}
	}
	if a.Status == "" {
		a.Status = StatusPlanned
	}
	out := make([]Assignment, 0, len(assignments)+1)
	out = append(out, a)
	return append(out, assignments...), nil
}

// UpdateAssignment replaces the fields of the shift with the given id,
// keeping its identity. Unknown ids leave the snapshot unchanged.
func UpdateAssignment(assignments []Assignment, id string, payload Assignment) ([]Assignment, error) {
	if payload.StaffID == "" {
		return assignments, &ValidationError{Field: "staffId", Message: "a staff member must be selected"}
	}
	out := make([]Assignment, len(assignments))
	for i, a := range assignments {
		if a.ID == id {
			payload.ID = id
			out[i] = payload
			continue
		}
		out[i] = a
	}
	return out, nil
}

// DeleteAssignment removes the shift with the given id.
func DeleteAssignment(assignments []Assignment, id string) []Assignment {
	out := make([]Assignment, 0, len(assignments))
	for _, a := range assignments {
		if a.ID != id {
			out = append(out, a)
		}
	}
	return out
}

// Reassign moves a shift to another staff member and/or day (the
// drag-and-drop action). A pending swap request is cleared back to
// planned; other statuses are kept.
func Reassign(assignments []Assignment, id, staffID string, day dates.Day) []Assignment {
	out := make([]Assignment, len(assignments))
	for i, a := range assignments {
		if a.ID == id {
			a.StaffID = staffID
			a.Date = day
			if a.Status == StatusSwapRequested {
				a.Status = StatusPlanned
			}
		}
		out[i] = a
	}
	return out
}

// =============================================================================
// STATUS ACTIONS
// =============================================================================

// RequestSwap marks the shift swap-requested. Idempotent; any prior
// status is overwritten.
func RequestSwap(assignments []Assignment, id string) []Assignment {
	return setStatus(assignments, id, StatusSwapRequested)
}

// ConfirmAssignment marks the shift confirmed. Idempotent.
func ConfirmAssignment(assignments []Assignment, id string) []Assignment {
	return setStatus(assignments, id, StatusConfirmed)
}

func setStatus(assignments []Assignment, id string, s AssignmentStatus) []Assignment {
	out := make([]Assignment, len(assignments))
	for i, a := range assignments {
		if a.ID == id {
			a.Status = s
		}
		out[i] = a
	}
	return out
}

// =============================================================================
// TIME OFF
// =============================================================================

// CreateTimeOff validates and prepends a new interval.
func CreateTimeOff(offs []TimeOff, o TimeOff) ([]TimeOff, error) {
	if o.StaffID == "" {
		return offs, &ValidationError{Field: "staffId", Message: "a staff member must be selected"}
	}
	if o.Status == "" {
		o.Status = TimeOffRequested
	}
	out := make([]TimeOff, 0, len(offs)+1)
	out = append(out, o)
	return append(out, offs...), nil
}

// TimeOffInWeek returns the intervals overlapping any day of the week,
// for the absence badges on the plan grid.
func TimeOffInWeek(offs []TimeOff, week dates.Week) []TimeOff {
	var out []TimeOff
	for _, o := range offs {
		for _, day := range week.Days() {
			if o.Covers(day) {
				out = append(out, o)
				break
			}
		}
	}
	return out
}
