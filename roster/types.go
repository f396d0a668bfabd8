/*
Package roster plans duty shifts for the care facility.

PURPOSE:
  Computes per-day/per-shift coverage against a required-headcount table
  over a seven-day window and fills coverage gaps deterministically via
  round-robin auto-planning. Also carries the manual shift operations
  (create, edit, reassign, swap request, confirm) and the time-off
  intervals that make staff unavailable.

KEY CONCEPTS IN THIS FILE (types.go):
  - ShiftType: Early / Late / Night with fixed default times
  - Assignment: one staff member on one day in one shift
  - TimeOff: inclusive calendar-day unavailability interval
  - CoverageRequirement: minimum headcount per (day, shift type)
  - StaffMember: scheduling snapshot of a user record

DESIGN PRINCIPLES:
  1. Purity: every function is (snapshot, parameters) -> derived value
     or new snapshot. The caller owns persistence.
  2. Determinism: auto-planning is a documented, tested round-robin
     formula, not "any fair distribution". See engine.go.
  3. Tolerance: orphaned staff references and double-bookings are demo
     data, not errors. They are surfaced, never rejected.

SEE ALSO:
  - engine.go: coverage queries and auto-planning
  - ops.go: manual assignment and time-off operations
*/
package roster

import "github.com/healthreply/pflegenetz/dates"

// =============================================================================
// SHIFT TYPES
// =============================================================================

type ShiftType string

const (
	ShiftEarly ShiftType = "Early"
	ShiftLate  ShiftType = "Late"
	ShiftNight ShiftType = "Night"
)

// ShiftTypes is the fixed planning order. Auto-planning iterates shift
// types in this order (outer loop) and its index feeds the unit rotation.
var ShiftTypes = []ShiftType{ShiftEarly, ShiftLate, ShiftNight}

// TypeIndex returns the position of t in the planning order, or -1.
func TypeIndex(t ShiftType) int {
	for i, st := range ShiftTypes {
		if st == t {
			return i
		}
	}
	return -1
}

// ShiftTimes are the default clock times for a shift type. Night runs
// past midnight; the end string is kept as-is (demo convention).
type ShiftTimes struct {
	Start string
	End   string
}

// DefaultTimes is the fixed start/end lookup per shift type.
var DefaultTimes = map[ShiftType]ShiftTimes{
	ShiftEarly: {Start: "06:00", End: "14:00"},
	ShiftLate:  {Start: "14:00", End: "22:00"},
	ShiftNight: {Start: "22:00", End: "06:00"},
}

// Units is the fixed ordered list of station labels used by
// auto-planning: Units[(i + typeIndex) mod len(Units)].
var Units = []string{"EG", "1. OG", "2. OG", "Demenz", "Leitung"}

// HoursPerShift is the flat diagnostic constant for weekly-hours sums.
// Actual start/end deltas are deliberately not used.
const HoursPerShift = 8

// =============================================================================
// STAFF
// =============================================================================

type Role string

const (
	RoleAdmin      Role = "admin"
	RoleSupervisor Role = "supervisor"
	RoleCaregiver  Role = "caregiver"
)

// StaffMember is the read-only scheduling snapshot of a user record.
// Only active non-admin members participate in planning.
type StaffMember struct {
	ID       string `json:"id"`
	FullName string `json:"fullName"`
	Role     Role   `json:"role"`
	Active   bool   `json:"active"`
}

// Schedulable reports whether the member participates in scheduling.
func (m StaffMember) Schedulable() bool {
	return m.Active && m.Role != RoleAdmin
}

// =============================================================================
// ASSIGNMENTS
// =============================================================================

type AssignmentStatus string

const (
	StatusPlanned       AssignmentStatus = "planned"
	StatusConfirmed     AssignmentStatus = "confirmed"
	StatusSwapRequested AssignmentStatus = "swap-requested"
)

// Assignment is one staff member working one shift on one day.
// Identity is the ID; (StaffID, Date, Type) is NOT unique: a member can
// be double-booked on the same day and shift. Accepted demo behavior.
type Assignment struct {
	ID      string           `json:"id"`
	StaffID string           `json:"staffId"`
	Date    dates.Day        `json:"date"`
	Type    ShiftType        `json:"type"`
	Start   string           `json:"start"`
	End     string           `json:"end"`
	Unit    string           `json:"unit,omitempty"`
	Notes   string           `json:"notes,omitempty"`
	Status  AssignmentStatus `json:"status,omitempty"`
}

// =============================================================================
// TIME OFF
// =============================================================================

type TimeOffStatus string

const (
	TimeOffRequested TimeOffStatus = "requested"
	TimeOffApproved  TimeOffStatus = "approved"
	TimeOffRejected  TimeOffStatus = "rejected"
)

// TimeOff is an inclusive [From, To] calendar-day interval.
//
// Auto-planning treats ANY interval covering a day as unavailability,
// regardless of Status; a merely requested (or even rejected) interval
// blocks assignment the same as an approved one. Replicated from the
// source behavior; see the open-question entry in DESIGN.md.
type TimeOff struct {
	ID      string        `json:"id"`
	StaffID string        `json:"staffId"`
	From    dates.Day     `json:"from"`
	To      dates.Day     `json:"to"`
	Reason  string        `json:"reason,omitempty"`
	Status  TimeOffStatus `json:"status"`
}

// Covers reports whether the interval contains the day, both ends
// inclusive, at calendar-day granularity.
func (o TimeOff) Covers(d dates.Day) bool {
	return d.Between(o.From, o.To)
}

// =============================================================================
// COVERAGE
// =============================================================================

// CoverageRequirement is the minimum headcount for one (day, shift type)
// cell. Required is always >= 0; absent cells default to 0.
type CoverageRequirement struct {
	Date     dates.Day `json:"date"`
	Type     ShiftType `json:"type"`
	Required int       `json:"required"`
}
