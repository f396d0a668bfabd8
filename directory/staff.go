/*
staff.go - User administration records

PURPOSE:
  The console's user accounts: role, active flag, per-module
  capabilities, and the org-wide settings record. Access control is
  deliberately NOT enforced anywhere; capabilities only drive which
  navigation entries a user sees. The roster engine consumes these
  records through the SchedulingSnapshot projection.
*/
package directory

import (
	"time"

	"github.com/healthreply/pflegenetz/roster"
)

// ModuleKey identifies a console module a user can be granted.
type ModuleKey string

const (
	ModuleDashboard  ModuleKey = "dashboard"
	ModuleResidents  ModuleKey = "patients"
	ModuleMedication ModuleKey = "medication"
	ModuleRelatives  ModuleKey = "relatives"
	ModuleRooms      ModuleKey = "rooms"
	ModuleAdmin      ModuleKey = "admin"
)

// User is a console account. Password is plain text, demo data only,
// there is no authentication to check it against.
type User struct {
	ID          string             `json:"id"`
	Email       string             `json:"email"`
	FullName    string             `json:"fullName"`
	Initials    string             `json:"initials,omitempty"`
	Role        roster.Role        `json:"role"`
	Active      bool               `json:"active"`
	ShortCode   string             `json:"shortCode,omitempty"`
	Phone       string             `json:"phone,omitempty"`
	Modules     map[ModuleKey]bool `json:"modules"`
	CreatedAt   time.Time          `json:"createdAt"`
	LastLoginAt time.Time          `json:"lastLoginAt,omitempty"`
	Password    string             `json:"password,omitempty"`
}

// OrgSettings is the single organization-wide settings record.
type OrgSettings struct {
	OrgName             string `json:"orgName"`
	EmailDomain         string `json:"emailDomain,omitempty"`
	BrandColor          string `json:"brandColor,omitempty"`
	RequireLeadApproval bool   `json:"requireLeadApproval,omitempty"`
	DefaultFrequency    string `json:"defaultFrequency,omitempty"`
	Theme               string `json:"theme,omitempty"`
}

// SchedulingSnapshot projects the user list into the roster engine's
// read-only staff view, preserving roster order.
func SchedulingSnapshot(users []User) []roster.StaffMember {
	out := make([]roster.StaffMember, len(users))
	for i, u := range users {
		out[i] = roster.StaffMember{
			ID:       u.ID,
			FullName: u.FullName,
			Role:     u.Role,
			Active:   u.Active,
		}
	}
	return out
}

// UpsertUser replaces the account keyed by ID, or appends a new one.
func UpsertUser(users []User, next User) []User {
	out := make([]User, len(users))
	copy(out, users)
	for i, u := range out {
		if u.ID == next.ID {
			out[i] = next
			return out
		}
	}
	return append(out, next)
}

// DeactivateUser flips the active flag off, removing the account from
// scheduling without deleting its history.
func DeactivateUser(users []User, id string) []User {
	out := make([]User, len(users))
	for i, u := range users {
		if u.ID == id {
			u.Active = false
		}
		out[i] = u
	}
	return out
}

// UserName resolves an id for display; deleted accounts render as
// "unknown".
func UserName(users []User, id string) string {
	for _, u := range users {
		if u.ID == id {
			return u.FullName
		}
	}
	return "unknown"
}
