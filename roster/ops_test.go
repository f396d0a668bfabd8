package roster_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/healthreply/pflegenetz/roster"
)

func TestCreateAssignment_RequiresStaff(t *testing.T) {
	// GIVEN: a shift without a selected staff member
	// THEN:  rejected with a user-facing validation message, snapshot
	//        unchanged
	existing := []roster.Assignment{{ID: "s1", StaffID: "u-care1", Date: "2025-08-04", Type: roster.ShiftEarly}}

	out, err := roster.CreateAssignment(existing, roster.Assignment{ID: "s2", Date: "2025-08-05", Type: roster.ShiftLate})

	require.Error(t, err)
	var verr *roster.ValidationError
	assert.ErrorAs(t, err, &verr)
	assert.ErrorIs(t, err, roster.ErrStaffRequired)
	assert.Equal(t, existing, out)
}

func TestCreateAssignment_PrependsAndDefaultsStatus(t *testing.T) {
	existing := []roster.Assignment{{ID: "s1", StaffID: "u-care1", Date: "2025-08-04", Type: roster.ShiftEarly}}

	out, err := roster.CreateAssignment(existing, roster.Assignment{ID: "s2", StaffID: "u-care2", Date: "2025-08-05", Type: roster.ShiftLate})

	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "s2", out[0].ID, "new shifts go to the front")
	assert.Equal(t, roster.StatusPlanned, out[0].Status)
}

func TestUpdateAssignment_KeepsIdentity(t *testing.T) {
	existing := []roster.Assignment{{ID: "s1", StaffID: "u-care1", Date: "2025-08-04", Type: roster.ShiftEarly, Unit: "EG"}}

	out, err := roster.UpdateAssignment(existing, "s1", roster.Assignment{
		StaffID: "u-care2", Date: "2025-08-06", Type: roster.ShiftNight, Unit: "Demenz", Status: roster.StatusConfirmed,
	})

	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "s1", out[0].ID)
	assert.Equal(t, "u-care2", out[0].StaffID)
	assert.Equal(t, roster.ShiftNight, out[0].Type)
}

func TestDeleteAssignment(t *testing.T) {
	existing := []roster.Assignment{
		{ID: "s1", StaffID: "u-care1", Date: "2025-08-04", Type: roster.ShiftEarly},
		{ID: "s2", StaffID: "u-care2", Date: "2025-08-04", Type: roster.ShiftLate},
	}

	out := roster.DeleteAssignment(existing, "s1")

	require.Len(t, out, 1)
	assert.Equal(t, "s2", out[0].ID)

	assert.Len(t, roster.DeleteAssignment(out, "unknown"), 1, "unknown ids are a no-op")
}

func TestReassign_ResetsSwapRequest(t *testing.T) {
	// Dropping a swap-requested shift onto another cell clears the
	// request back to planned. Confirmed shifts keep their status.
	existing := []roster.Assignment{
		{ID: "s1", StaffID: "u-care1", Date: "2025-08-04", Type: roster.ShiftEarly, Status: roster.StatusSwapRequested},
		{ID: "s2", StaffID: "u-care1", Date: "2025-08-05", Type: roster.ShiftEarly, Status: roster.StatusConfirmed},
	}

	out := roster.Reassign(existing, "s1", "u-care2", "2025-08-06")
	assert.Equal(t, "u-care2", out[0].StaffID)
	assert.Equal(t, roster.StatusPlanned, out[0].Status)

	out = roster.Reassign(out, "s2", "u-care2", "2025-08-06")
	assert.Equal(t, roster.StatusConfirmed, out[1].Status)
}

func TestStatusActions_NoGuards(t *testing.T) {
	// Any status can transition directly to confirmed or swap-requested.
	a := []roster.Assignment{{ID: "s1", StaffID: "u-care1", Date: "2025-08-04", Type: roster.ShiftEarly, Status: roster.StatusConfirmed}}

	a = roster.RequestSwap(a, "s1")
	assert.Equal(t, roster.StatusSwapRequested, a[0].Status)

	a = roster.ConfirmAssignment(a, "s1")
	assert.Equal(t, roster.StatusConfirmed, a[0].Status)

	a = roster.ConfirmAssignment(a, "s1")
	assert.Equal(t, roster.StatusConfirmed, a[0].Status, "idempotent")
}

func TestCreateTimeOff(t *testing.T) {
	_, err := roster.CreateTimeOff(nil, roster.TimeOff{From: "2025-08-04", To: "2025-08-05"})
	assert.ErrorIs(t, err, roster.ErrStaffRequired)

	out, err := roster.CreateTimeOff(nil, roster.TimeOff{StaffID: "u-care1", From: "2025-08-04", To: "2025-08-05"})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, roster.TimeOffRequested, out[0].Status, "defaults to requested")
}

func TestWeekCSV_OrphanedStaffTolerated(t *testing.T) {
	week := testWeek(t)
	staff := testStaff()
	assignments := []roster.Assignment{
		{ID: "s1", StaffID: "u-care1", Date: week[1], Type: roster.ShiftLate, Start: "14:00", End: "22:00", Unit: "1. OG"},
		{ID: "s2", StaffID: "u-deleted", Date: week[0], Type: roster.ShiftEarly, Start: "06:00", End: "14:00"},
		{ID: "s3", StaffID: "u-care1", Date: week.Next()[0], Type: roster.ShiftEarly},
	}

	rows := roster.WeekCSV(week, assignments, staff)

	require.Len(t, rows, 3, "header plus two in-window rows")
	assert.Equal(t, roster.WeekCSVHeader, rows[0])
	assert.Equal(t, "u-deleted", rows[1][2], "orphaned reference falls back to the raw id")
	assert.Equal(t, "Pflegekraft Eins", rows[2][2])
	assert.Equal(t, "planned", rows[1][8], "empty status exports as planned")
}
