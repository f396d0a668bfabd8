/*
Package directory holds the facility's master records: residents, rooms,
user accounts, and relative contacts, plus the derived room-occupancy
view.

PURPOSE:
  Everything here is plain record CRUD over ordered lists and a handful
  of derived aggregates (occupancy per room, load percentage, free-bed
  counts). Referential integrity is intentionally loose: a resident may
  point at a room that does not exist, a contact at a resident that was
  deleted. Lookups tolerate that and render placeholders.

SEE ALSO:
  - occupancy.go: derived room views and resident moves
  - staff.go: user administration and the scheduling snapshot
*/
package directory

import "github.com/healthreply/pflegenetz/dates"

// =============================================================================
// RESIDENTS
// =============================================================================

type ResidentStatus string

const (
	ResidentActive   ResidentStatus = "active"
	ResidentInactive ResidentStatus = "inactive"
)

// Relative is an embedded next-of-kin reference on a resident record.
type Relative struct {
	Name     string `json:"name"`
	Relation string `json:"relation,omitempty"`
	Email    string `json:"email,omitempty"`
}

// Resident is a care-home resident record.
type Resident struct {
	ID               string         `json:"id"`
	FullName         string         `json:"fullName"`
	Room             string         `json:"room,omitempty"`
	BirthDate        dates.Day      `json:"birthDate,omitempty"`
	Status           ResidentStatus `json:"status"`
	InsuranceName    string         `json:"insuranceName,omitempty"`
	InsuranceID      string         `json:"insuranceId,omitempty"`
	Allergies        []string       `json:"allergies,omitempty"`
	Diet             string         `json:"diet,omitempty"`
	PrimaryPhysician string         `json:"primaryPhysician,omitempty"`
	Notes            string         `json:"notes,omitempty"`
	Relatives        []Relative     `json:"relatives,omitempty"`
}

// =============================================================================
// ROOMS
// =============================================================================

type RoomStatus string

const (
	RoomVacant   RoomStatus = "vacant"
	RoomOccupied RoomStatus = "occupied"
	RoomCleaning RoomStatus = "cleaning"
)

// Room is one physical room. The ID is the door number ("101").
type Room struct {
	ID       string     `json:"id"`
	Floor    int        `json:"floor"`
	Capacity int        `json:"capacity"`
	Status   RoomStatus `json:"status"`
	Notes    string     `json:"notes,omitempty"`
}

// =============================================================================
// CONTACTS
// =============================================================================

type ContactFrequency string

const (
	FrequencyImmediate ContactFrequency = "immediate"
	FrequencyDaily     ContactFrequency = "daily"
	FrequencyWeekly    ContactFrequency = "weekly"
)

type BounceStatus string

const (
	BounceOK   BounceStatus = "ok"
	BounceSoft BounceStatus = "soft-bounce"
	BounceHard BounceStatus = "hard-bounce"
)

// Contact is a relative who receives updates about a resident.
// Verified=false means no opt-in yet; messaging skips those.
type Contact struct {
	ID           string           `json:"id"`
	FullName     string           `json:"fullName"`
	Email        string           `json:"email"`
	Phone        string           `json:"phone,omitempty"`
	Relation     string           `json:"relation,omitempty"`
	ResidentID   string           `json:"residentId"`
	Primary      bool             `json:"primary,omitempty"`
	Verified     bool             `json:"verified"`
	ConsentAt    string           `json:"consentAt,omitempty"`
	PrefersEmail bool             `json:"prefersEmail,omitempty"`
	PrefersWeb   bool             `json:"prefersWeb,omitempty"`
	Frequency    ContactFrequency `json:"frequency,omitempty"`
	BounceStatus BounceStatus     `json:"bounceStatus,omitempty"`
	Notes        string           `json:"notes,omitempty"`
}
