package medication

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/healthreply/pflegenetz/dates"
	"github.com/healthreply/pflegenetz/roster"
)

var (
	testDay  = dates.Day("2025-08-04")
	testNow  = time.Date(2025, 8, 4, 7, 30, 0, 0, time.UTC)
	testPlan = []Medication{
		{ID: "m1", ResidentID: "p1", Name: "Ramipril", Form: FormTablet, Dose: "1-0-1-0", Times: []DoseTime{DoseMorning, DoseEvening}},
		{ID: "m2", ResidentID: "p1", Name: "Novalgin", Form: FormDrops, PRN: true},
		{ID: "m3", ResidentID: "p2", Name: "Metformin", Form: FormTablet, Dose: "1-1-0-0", Times: []DoseTime{DoseMorning, DoseNoon}},
	}
)

func seqIDs(prefix string) func() string {
	n := 0
	return func() string {
		n++
		return prefix + string(rune('0'+n))
	}
}

func TestDailyPlanFlattensTimes(t *testing.T) {
	// GIVEN a plan with scheduled and PRN medications
	// WHEN the daily view is built without a resident filter
	rows := DailyPlan(testPlan, "")

	// THEN each scheduled time is one row and PRN yields a timeless row
	require.Len(t, rows, 5)
	assert.Equal(t, "m1", rows[0].Medication.ID)
	assert.Equal(t, DoseMorning, rows[0].Time)
	assert.Equal(t, DoseEvening, rows[1].Time)
	assert.Equal(t, "m2", rows[2].Medication.ID)
	assert.Equal(t, DoseTime(""), rows[2].Time)
}

func TestDailyPlanResidentFilter(t *testing.T) {
	rows := DailyPlan(testPlan, "p2")

	require.Len(t, rows, 2)
	for _, r := range rows {
		assert.Equal(t, "p2", r.Medication.ResidentID)
	}
}

func TestTogglePreparedCreatesEvent(t *testing.T) {
	// GIVEN no events
	// WHEN a cell is toggled
	events := TogglePrepared(nil, testDay, roster.ShiftEarly, "p1", "m1", DoseMorning, seqIDs("pe-"), testNow)

	// THEN a prepared event is created and the cell reads prepared
	require.Len(t, events, 1)
	assert.True(t, events[0].Prepared)
	assert.Equal(t, testNow, events[0].At)
	assert.True(t, IsPrepared(events, testDay, roster.ShiftEarly, "p1", "m1", DoseMorning))
}

func TestTogglePreparedFlipsExisting(t *testing.T) {
	ids := seqIDs("pe-")
	events := TogglePrepared(nil, testDay, roster.ShiftEarly, "p1", "m1", DoseMorning, ids, testNow)
	events = TogglePrepared(events, testDay, roster.ShiftEarly, "p1", "m1", DoseMorning, ids, testNow.Add(time.Minute))

	// no second event is minted; the flag flips back off
	require.Len(t, events, 1)
	assert.False(t, events[0].Prepared)
	assert.False(t, IsPrepared(events, testDay, roster.ShiftEarly, "p1", "m1", DoseMorning))
}

func TestTogglePreparedCellKeyIsExact(t *testing.T) {
	events := TogglePrepared(nil, testDay, roster.ShiftEarly, "p1", "m1", DoseMorning, seqIDs("pe-"), testNow)

	// same medication, different shift / time / day stays untouched
	assert.False(t, IsPrepared(events, testDay, roster.ShiftLate, "p1", "m1", DoseMorning))
	assert.False(t, IsPrepared(events, testDay, roster.ShiftEarly, "p1", "m1", DoseEvening))
	assert.False(t, IsPrepared(events, dates.Day("2025-08-05"), roster.ShiftEarly, "p1", "m1", DoseMorning))
}

func TestTogglePreparedTimelessRowIsNoop(t *testing.T) {
	events := TogglePrepared(nil, testDay, roster.ShiftEarly, "p1", "m2", "", seqIDs("pe-"), testNow)

	assert.Empty(t, events)
	assert.False(t, IsPrepared(events, testDay, roster.ShiftEarly, "p1", "m2", ""))
}

func TestMarkAllPreparedCoversScheduledRows(t *testing.T) {
	// GIVEN one cell already prepared and one toggled back off
	ids := seqIDs("pe-")
	events := TogglePrepared(nil, testDay, roster.ShiftEarly, "p1", "m1", DoseMorning, ids, testNow)
	events = TogglePrepared(events, testDay, roster.ShiftEarly, "p1", "m1", DoseMorning, ids, testNow)
	require.False(t, events[0].Prepared)

	// WHEN everything is marked prepared
	events = MarkAllPrepared(events, testPlan, testDay, roster.ShiftEarly, "", ids, testNow)

	// THEN every scheduled cell is prepared, the off cell is forced on,
	// and the PRN row stays untouched
	for _, m := range testPlan {
		for _, dt := range m.Times {
			assert.True(t, IsPrepared(events, testDay, roster.ShiftEarly, m.ResidentID, m.ID, dt), "%s %s", m.ID, dt)
		}
	}
	assert.False(t, IsPrepared(events, testDay, roster.ShiftEarly, "p1", "m2", ""))
	// existing event was reused, not duplicated: 4 scheduled cells total
	assert.Len(t, events, 4)
}

func TestMarkAllPreparedHonorsResidentFilter(t *testing.T) {
	events := MarkAllPrepared(nil, testPlan, testDay, roster.ShiftEarly, "p2", seqIDs("pe-"), testNow)

	assert.Len(t, events, 2)
	assert.False(t, IsPrepared(events, testDay, roster.ShiftEarly, "p1", "m1", DoseMorning))
	assert.True(t, IsPrepared(events, testDay, roster.ShiftEarly, "p2", "m3", DoseNoon))
}

func TestUpsertMedication(t *testing.T) {
	changed := testPlan[0]
	changed.Dose = "2-0-1-0"

	next := UpsertMedication(testPlan, changed)
	require.Len(t, next, 3)
	assert.Equal(t, "2-0-1-0", next[0].Dose)
	assert.Equal(t, "1-0-1-0", testPlan[0].Dose, "input plan is untouched")

	added := UpsertMedication(testPlan, Medication{ID: "m4", ResidentID: "p3", Name: "ASS 100"})
	require.Len(t, added, 4)
	assert.Equal(t, "m4", added[3].ID)
}

func TestDeleteMedication(t *testing.T) {
	next := DeleteMedication(testPlan, "m2")
	require.Len(t, next, 2)
	assert.Equal(t, testPlan, DeleteMedication(testPlan, "missing"))
}

func TestPlanCSV(t *testing.T) {
	events := TogglePrepared(nil, testDay, roster.ShiftEarly, "p1", "m1", DoseMorning, seqIDs("pe-"), testNow)
	name := func(id string) string {
		if id == "p1" {
			return "Herr Meier"
		}
		return id
	}

	records := PlanCSV(testPlan, events, testDay, roster.ShiftEarly, "p1", name)

	require.Len(t, records, 3)
	assert.Equal(t, []string{"2025-08-04", "Early", "Herr Meier", "Ramipril", "morning", "1-0-1-0", "yes"}, records[0])
	assert.Equal(t, "no", records[1][6])
	// PRN row exports no time and a dash marker
	assert.Equal(t, "", records[2][4])
	assert.Equal(t, "-", records[2][6])
}
