package roster

import (
	"sort"

	"github.com/healthreply/pflegenetz/dates"
)

// WeekCSVHeader is the column order of the week export.
var WeekCSVHeader = []string{"Date", "Weekday", "Staff", "Role", "Shift", "Start", "End", "Unit", "Status"}

// WeekCSV shapes the week's assignments into export rows, sorted by day
// then staff id. Orphaned staff references fall back to the raw id with
// an empty role.
func WeekCSV(week dates.Week, assignments []Assignment, staff []StaffMember) [][]string {
	byID := make(map[string]StaffMember, len(staff))
	for _, m := range staff {
		byID[m.ID] = m
	}

	var inWeek []Assignment
	for _, a := range assignments {
		if week.Contains(a.Date) {
			inWeek = append(inWeek, a)
		}
	}
	sort.SliceStable(inWeek, func(i, j int) bool {
		if inWeek[i].Date != inWeek[j].Date {
			return inWeek[i].Date < inWeek[j].Date
		}
		return inWeek[i].StaffID < inWeek[j].StaffID
	})

	rows := make([][]string, 0, len(inWeek)+1)
	rows = append(rows, WeekCSVHeader)
	for _, a := range inWeek {
		name, role := a.StaffID, ""
		if m, ok := byID[a.StaffID]; ok {
			name, role = m.FullName, string(m.Role)
		}
		status := a.Status
		if status == "" {
			status = StatusPlanned
		}
		rows = append(rows, []string{
			a.Date.String(),
			a.Date.Weekday().String()[:3],
			name,
			role,
			string(a.Type),
			a.Start,
			a.End,
			a.Unit,
			string(status),
		})
	}
	return rows
}
