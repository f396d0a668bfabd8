/*
Package store defines the persistence boundary of the console.

PURPOSE:
  Every collection (staff, assignments, invoice items, mail, ...) is
  persisted as one JSON document under a stable key. Handlers work on
  in-memory slices and write the whole collection back after each
  mutation; the store never interprets the payload.

  This whole-document model keeps the engines pure: they compute over
  explicit snapshots and never touch storage themselves.

IMPLEMENTATIONS:
  store/memory: map-backed, for tests and ephemeral demos
  store/sqlite: single-table SQLite persistence for the server

SEE ALSO:
  - api/handlers.go: the read-modify-write call sites
*/
package store

import (
	"context"
	"encoding/json"
	"fmt"
)

// Collection keys. The version suffix guards against schema drift when
// a stored document's shape changes.
const (
	KeyUsers        = "hr_users_v1"
	KeySettings     = "hr_settings_v1"
	KeyResidents    = "hr_residents_v1"
	KeyRooms        = "hr_rooms_v1"
	KeyMoves        = "hr_room_moves_v1"
	KeyContacts     = "hr_contacts_v1"
	KeyAssignments  = "hr_roster_assignments_v1"
	KeyTimeOff      = "hr_roster_timeoff_v1"
	KeyCoverage     = "hr_roster_coverage_v1"
	KeyBenefitPlans = "hr_billing_plans_v1"
	KeyInvoiceItems = "hr_billing_items_v1"
	KeyMedications  = "hr_medications_v1"
	KeyPrepEvents   = "hr_med_prep_v1"
	KeyMailboxes    = "hr_mailboxes_v1"
	KeyMail         = "hr_mail_messages_v1"
	KeyChat         = "hr_wa_threads_v1"
)

// Store persists raw JSON documents by collection key.
type Store interface {
	// Load returns the document for a key. The second result is false
	// when the key has never been written.
	Load(ctx context.Context, key string) ([]byte, bool, error)

	// Save writes or replaces the document for a key.
	Save(ctx context.Context, key string, data []byte) error

	// Delete removes a key. Deleting an absent key is a no-op.
	Delete(ctx context.Context, key string) error

	// Reset drops every collection.
	Reset(ctx context.Context) error

	Close() error
}

// GetList decodes a stored collection into a typed slice. An unwritten
// key yields an empty slice.
func GetList[T any](ctx context.Context, s Store, key string) ([]T, error) {
	data, ok, err := s.Load(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", key, err)
	}
	if !ok {
		return nil, nil
	}
	var out []T
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("decode %s: %w", key, err)
	}
	return out, nil
}

// PutList encodes a typed slice and writes it under a key.
func PutList[T any](ctx context.Context, s Store, key string, list []T) error {
	data, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := s.Save(ctx, key, data); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}
