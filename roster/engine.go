/*
engine.go - Coverage queries and round-robin auto-planning

PURPOSE:
  The derived views of the duty plan: how many staff cover each
  (day, shift type) cell, how many are required, and the Autoplan pass
  that fills deficits from the available staff pool.

THE AUTOPLAN CONTRACT:
  The fill order and the modulo arithmetic are observable behavior, not
  implementation detail. For each shift type in planning order (outer),
  for each day of the week in display order (inner):

    deficit   = required(day, type) - covered(day, type)
    candidate = available[(i + dayIndex) mod len(available)]   i in 0..deficit-1
    unit      = Units[(i + typeIndex) mod len(Units)]

  where covered() counts the WORKING set: assignments created earlier in
  the same pass count toward later deficits. The pass never fails: an
  empty available pool leaves the remaining deficit open, visible only
  through covered < required.

SEE ALSO:
  - types.go: planning order and unit table
  - ops.go: manual operations on the same snapshot shapes
*/
package roster

import "github.com/healthreply/pflegenetz/dates"

// =============================================================================
// COVERAGE QUERIES
// =============================================================================

// CoveredCount counts assignments matching (day, shift type) within the
// given set. Callers pass whatever window/filter view they are showing;
// Autoplan passes its full working set.
func CoveredCount(assignments []Assignment, day dates.Day, t ShiftType) int {
	n := 0
	for _, a := range assignments {
		if a.Date == day && a.Type == t {
			n++
		}
	}
	return n
}

// RequiredCount looks up the required headcount for (day, shift type).
// Absent cells default to 0.
func RequiredCount(reqs []CoverageRequirement, day dates.Day, t ShiftType) int {
	for _, r := range reqs {
		if r.Date == day && r.Type == t {
			return r.Required
		}
	}
	return 0
}

// Satisfied reports whether a cell meets its requirement.
func Satisfied(assignments []Assignment, reqs []CoverageRequirement, day dates.Day, t ShiftType) bool {
	return CoveredCount(assignments, day, t) >= RequiredCount(reqs, day, t)
}

// CoverageCell is one entry of the week coverage matrix.
type CoverageCell struct {
	Date     dates.Day `json:"date"`
	Type     ShiftType `json:"type"`
	Covered  int       `json:"covered"`
	Required int       `json:"required"`
	OK       bool      `json:"ok"`
}

// CoverageMatrix derives the full 3x7 coverage view for a week.
func CoverageMatrix(week dates.Week, assignments []Assignment, reqs []CoverageRequirement) []CoverageCell {
	cells := make([]CoverageCell, 0, len(ShiftTypes)*7)
	for _, t := range ShiftTypes {
		for _, day := range week.Days() {
			got := CoveredCount(assignments, day, t)
			req := RequiredCount(reqs, day, t)
			cells = append(cells, CoverageCell{
				Date:     day,
				Type:     t,
				Covered:  got,
				Required: req,
				OK:       got >= req,
			})
		}
	}
	return cells
}

// =============================================================================
// AVAILABILITY
// =============================================================================

// Unavailable reports whether any time-off interval for the member
// covers the day. Status is deliberately ignored: requested intervals
// block the same as approved ones.
func Unavailable(offs []TimeOff, staffID string, day dates.Day) bool {
	for _, o := range offs {
		if o.StaffID == staffID && o.Covers(day) {
			return true
		}
	}
	return false
}

// AvailableStaff returns the schedulable members with no time-off on the
// day, preserving roster order. Roster order is part of the round-robin
// contract.
func AvailableStaff(staff []StaffMember, offs []TimeOff, day dates.Day) []StaffMember {
	var out []StaffMember
	for _, m := range staff {
		if !m.Schedulable() {
			continue
		}
		if Unavailable(offs, m.ID, day) {
			continue
		}
		out = append(out, m)
	}
	return out
}

// =============================================================================
// AUTO-PLANNING
// =============================================================================

// PlanResult is the outcome of one Autoplan pass.
type PlanResult struct {
	// Assignments is the input set plus everything created in this pass.
	Assignments []Assignment
	// Created holds only the new assignments, in creation order.
	Created []Assignment
}

// Autoplan fills coverage deficits for the week. newID mints assignment
// identities; injecting it keeps the pass fully deterministic for tests.
//
// The input slice is not mutated.
func Autoplan(
	week dates.Week,
	staff []StaffMember,
	assignments []Assignment,
	offs []TimeOff,
	reqs []CoverageRequirement,
	newID func() string,
) PlanResult {
	working := append([]Assignment(nil), assignments...)
	var created []Assignment

	for typeIndex, t := range ShiftTypes {
		for dayIndex, day := range week.Days() {
			deficit := RequiredCount(reqs, day, t) - CoveredCount(working, day, t)
			if deficit <= 0 {
				continue
			}

			available := AvailableStaff(staff, offs, day)

			for i := 0; i < deficit; i++ {
				if len(available) == 0 {
					// Nobody left to assign. The deficit stays open.
					break
				}
				member := available[(i+dayIndex)%len(available)]
				times := DefaultTimes[t]

				a := Assignment{
					ID:      newID(),
					StaffID: member.ID,
					Date:    day,
					Type:    t,
					Start:   times.Start,
					End:     times.End,
					Unit:    Units[(i+typeIndex)%len(Units)],
					Status:  StatusPlanned,
				}
				// Counts toward covered() for every later cell of this pass.
				working = append(working, a)
				created = append(created, a)
			}
		}
	}

	return PlanResult{Assignments: working, Created: created}
}

// =============================================================================
// DIAGNOSTICS
// =============================================================================

// WeeklyHours sums a flat HoursPerShift per assignment by staff member.
// Start/end deltas are intentionally not consulted.
func WeeklyHours(assignments []Assignment) map[string]int {
	hours := make(map[string]int)
	for _, a := range assignments {
		hours[a.StaffID] += HoursPerShift
	}
	return hours
}
