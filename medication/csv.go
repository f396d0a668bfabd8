package medication

import (
	"github.com/healthreply/pflegenetz/dates"
	"github.com/healthreply/pflegenetz/roster"
)

// PlanCSVHeader matches the columns of PlanCSV.
var PlanCSVHeader = []string{"Date", "Shift", "Resident", "Medication", "Time", "Dose", "Prepared"}

// ResidentNamer resolves a resident id to a display name.
type ResidentNamer func(id string) string

// PlanCSV renders the daily plan, one record per row. Timeless rows
// export an empty time and a "-" prepared marker.
func PlanCSV(plan []Medication, events []PrepEvent, date dates.Day, shift roster.ShiftType, residentID string, name ResidentNamer) [][]string {
	var records [][]string
	for _, row := range DailyPlan(plan, residentID) {
		prepared := "-"
		if row.Time != "" {
			prepared = "no"
			if IsPrepared(events, date, shift, row.Medication.ResidentID, row.Medication.ID, row.Time) {
				prepared = "yes"
			}
		}
		records = append(records, []string{
			string(date), string(shift),
			name(row.Medication.ResidentID),
			row.Medication.Name, string(row.Time), row.Medication.Dose,
			prepared,
		})
	}
	return records
}
