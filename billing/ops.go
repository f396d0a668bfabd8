/*
ops.go - Plan and booking mutations

PURPOSE:
  Upserting a resident's benefit plan, appending a booking, and deleting
  one. Snapshot in, snapshot out; the caller persists. The aggregation
  never runs here; the next ComputeRows call sees the change.

FAILURE SEMANTICS:
  A booking is rejected with a user-facing ValidationError when date,
  description, or amount is missing/zero. Zero rejection and negative
  acceptance both replicate the source (DESIGN.md, open questions).
*/
package billing

import (
	"errors"
	"fmt"
)

// ErrBookingIncomplete rejects a booking with a missing date,
// description, or amount.
var ErrBookingIncomplete = errors.New("date, description, and amount are required")

// ValidationError carries a user-facing field rejection.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error { return ErrBookingIncomplete }

// UpsertPlan replaces the plan keyed by PatientID in place, or appends
// when the resident has none yet.
func UpsertPlan(plans []BenefitPlan, next BenefitPlan) []BenefitPlan {
	out := make([]BenefitPlan, len(plans))
	copy(out, plans)
	for i, p := range out {
		if p.PatientID == next.PatientID {
			out[i] = next
			return out
		}
	}
	return append(out, next)
}

// AddItem validates and prepends a booking, minting its identity via
// newID. On rejection the input snapshot is returned unchanged.
//
// A zero amount is rejected even though a €0 adjustment line could be
// legitimate; a negative amount passes. Both preserved from the source.
func AddItem(items []InvoiceItem, item InvoiceItem, newID func() string) ([]InvoiceItem, error) {
	switch {
	case item.Date.IsZero():
		return items, &ValidationError{Field: "date", Message: "a booking date is required"}
	case item.Description == "":
		return items, &ValidationError{Field: "description", Message: "a description is required"}
	case item.Amount.IsZero():
		return items, &ValidationError{Field: "amount", Message: "an amount is required"}
	}

	item.ID = newID()
	out := make([]InvoiceItem, 0, len(items)+1)
	out = append(out, item)
	return append(out, items...), nil
}

// DeleteItem removes the booking with the given id. Unknown ids are a
// no-op.
func DeleteItem(items []InvoiceItem, id string) []InvoiceItem {
	out := make([]InvoiceItem, 0, len(items))
	for _, it := range items {
		if it.ID != id {
			out = append(out, it)
		}
	}
	return out
}
