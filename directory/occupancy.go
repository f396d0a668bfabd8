/*
occupancy.go - Derived room views and resident moves

PURPOSE:
  Occupancy is never stored; it is derived from the residents' room
  references on every read. Moving a resident rewrites their room field,
  appends a move-log entry, and flips the target room to occupied when
  the move fills its last bed.
*/
package directory

import (
	"sort"
	"strings"
	"time"
)

// MoveLog records one resident relocation. To is empty when the
// resident was moved out without a target room.
type MoveLog struct {
	ID         string    `json:"id"`
	At         time.Time `json:"at"`
	ResidentID string    `json:"residentId"`
	From       string    `json:"from,omitempty"`
	To         string    `json:"to,omitempty"`
}

// Occupancy maps room id to the names of residents placed there.
// Residents without a room are not represented.
func Occupancy(residents []Resident) map[string][]string {
	occ := make(map[string][]string)
	for _, r := range residents {
		if r.Room == "" {
			continue
		}
		occ[r.Room] = append(occ[r.Room], r.FullName)
	}
	return occ
}

// LoadPercent is the room's occupancy ratio, capped at 100.
func LoadPercent(room Room, occupancy map[string][]string) int {
	capacity := room.Capacity
	if capacity < 1 {
		capacity = 1
	}
	pct := 100 * len(occupancy[room.ID]) / capacity
	if pct > 100 {
		pct = 100
	}
	return pct
}

// RoomFilters narrow the room list. Zero values match everything.
type RoomFilters struct {
	Query  string     // substring on the room id
	Floor  int        // exact; 0 = any
	Status RoomStatus // exact; empty = any
}

// FilterRooms applies the filters and sorts by floor, then room id.
func FilterRooms(rooms []Room, f RoomFilters) []Room {
	var out []Room
	for _, r := range rooms {
		if f.Query != "" && !strings.Contains(r.ID, strings.TrimSpace(f.Query)) {
			continue
		}
		if f.Floor != 0 && r.Floor != f.Floor {
			continue
		}
		if f.Status != "" && r.Status != f.Status {
			continue
		}
		out = append(out, r)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Floor != out[j].Floor {
			return out[i].Floor < out[j].Floor
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// SetRoomStatus updates one room's status.
func SetRoomStatus(rooms []Room, id string, status RoomStatus) []Room {
	out := make([]Room, len(rooms))
	for i, r := range rooms {
		if r.ID == id {
			r.Status = status
		}
		out[i] = r
	}
	return out
}

// SetRoomNote updates one room's note text.
func SetRoomNote(rooms []Room, id, note string) []Room {
	out := make([]Room, len(rooms))
	for i, r := range rooms {
		if r.ID == id {
			r.Notes = note
		}
		out[i] = r
	}
	return out
}

// MoveResult is the outcome of MoveResident.
type MoveResult struct {
	Residents []Resident
	Rooms     []Room
	Log       MoveLog
}

// MoveResident relocates a resident to another room (empty = move out),
// records the move, and marks the target occupied when the move fills
// its capacity. newID mints the log identity; now stamps it.
func MoveResident(residents []Resident, rooms []Room, residentID, toRoom string, newID func() string, now time.Time) MoveResult {
	var from string
	nextResidents := make([]Resident, len(residents))
	for i, r := range residents {
		if r.ID == residentID {
			from = r.Room
			r.Room = toRoom
		}
		nextResidents[i] = r
	}

	nextRooms := rooms
	if toRoom != "" {
		occ := len(Occupancy(nextResidents)[toRoom])
		for _, room := range rooms {
			if room.ID == toRoom && occ >= room.Capacity {
				nextRooms = SetRoomStatus(rooms, toRoom, RoomOccupied)
				break
			}
		}
	}

	return MoveResult{
		Residents: nextResidents,
		Rooms:     nextRooms,
		Log: MoveLog{
			ID:         newID(),
			At:         now,
			ResidentID: residentID,
			From:       from,
			To:         toRoom,
		},
	}
}

// =============================================================================
// RESIDENT QUERIES
// =============================================================================

// ResidentFilters narrow the resident list.
type ResidentFilters struct {
	Query  string         // case-insensitive substring on the full name
	Status ResidentStatus // exact; empty = any
}

// FilterResidents applies the filters, preserving order.
func FilterResidents(residents []Resident, f ResidentFilters) []Resident {
	var out []Resident
	for _, r := range residents {
		if f.Query != "" && !strings.Contains(strings.ToLower(r.FullName), strings.ToLower(f.Query)) {
			continue
		}
		if f.Status != "" && r.Status != f.Status {
			continue
		}
		out = append(out, r)
	}
	return out
}

// FindResident looks a resident up by id.
func FindResident(residents []Resident, id string) (Resident, bool) {
	for _, r := range residents {
		if r.ID == id {
			return r, true
		}
	}
	return Resident{}, false
}

// ResidentName resolves an id for display; deleted residents render as
// a dash placeholder.
func ResidentName(residents []Resident, id string) string {
	if r, ok := FindResident(residents, id); ok {
		return r.FullName
	}
	return "—"
}
