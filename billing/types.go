/*
Package billing tracks care-benefit budgets and invoice bookings.

PURPOSE:
  Each resident has one benefit plan with monthly allowance caps tied to
  their care level. Dated invoice line items are aggregated per calendar
  month into category buckets and compared against the caps, deriving a
  traffic-light status per resident (ok / warn / over).

KEY CONCEPTS IN THIS FILE (types.go):
  - BenefitPlan: per-resident caps (service, cash, relief allowances)
  - InvoiceItem: immutable dated booking, plain decimal euro amount
  - Category: which bucket a booking counts into
  - Care levels 1-5 with the standard demo cap table

DESIGN PRINCIPLES:
  1. Precision: amounts are decimal.Decimal, never floats.
  2. No materialization: every view recomputes from raw items.
  3. Overspend is data: negative remaining budget is a valid derived
     state, not an error.

SEE ALSO:
  - ledger.go: monthly aggregation, status, filters, sorting
  - ops.go: plan upsert and booking mutations
*/
package billing

import (
	"github.com/shopspring/decimal"

	"github.com/healthreply/pflegenetz/dates"
)

// =============================================================================
// CATEGORIES
// =============================================================================

// Category classifies an invoice line item. Service and relief bookings
// consume their budget caps; copay is tracked but never counted against
// a cap; Other is excluded from all three buckets.
type Category string

const (
	CategoryService Category = "ServiceAllowance"
	CategoryRelief  Category = "ReliefAllowance"
	CategoryCopay   Category = "Copay"
	CategoryOther   Category = "Other"
)

// CoveredBy records who carries a booking.
type CoveredBy string

const (
	CoveredByInsurer CoveredBy = "Insurer"
	CoveredByBudget  CoveredBy = "Budget"
	CoveredByCopay   CoveredBy = "Copay"
)

// InsurerType is the kind of coverage a resident has.
type InsurerType string

const (
	InsurerStatutory InsurerType = "statutory"
	InsurerPrivate   InsurerType = "private"
	InsurerSubsidy   InsurerType = "subsidy"
)

// =============================================================================
// BENEFIT PLANS
// =============================================================================

// CareLevel is the assessed care grade, 1 (lowest) to 5.
type CareLevel int

// Budgets are the monthly allowance caps in euro. CashAllowance is
// informational only and never consumed by bookings.
type Budgets struct {
	ServiceAllowance decimal.Decimal `json:"serviceAllowance"`
	CashAllowance    decimal.Decimal `json:"cashAllowance"`
	ReliefAllowance  decimal.Decimal `json:"reliefAllowance"`
}

// BenefitPlan is the single active plan of one resident. There is no
// historical versioning; upserting replaces the previous plan.
type BenefitPlan struct {
	PatientID   string      `json:"patientId"`
	Insurer     InsurerType `json:"insurer"`
	InsurerName string      `json:"insurerName"`
	CareLevel   CareLevel   `json:"careLevel"`
	Budgets     Budgets     `json:"budgets"`
	ValidFrom   dates.Day   `json:"validFrom"`
}

// Demo cap tables per care level, euro per month. Simplified, not
// legally binding.
var (
	serviceCaps = map[CareLevel]int64{1: 0, 2: 770, 3: 1300, 4: 1693, 5: 2095}
	cashCaps    = map[CareLevel]int64{1: 0, 2: 332, 3: 573, 4: 765, 5: 947}
)

// reliefCap is the flat monthly relief allowance.
var reliefCap = decimal.NewFromInt(125)

// DefaultBudgets returns the demo cap set for a care level.
func DefaultBudgets(level CareLevel) Budgets {
	return Budgets{
		ServiceAllowance: decimal.NewFromInt(serviceCaps[level]),
		CashAllowance:    decimal.NewFromInt(cashCaps[level]),
		ReliefAllowance:  reliefCap,
	}
}

// =============================================================================
// INVOICE ITEMS
// =============================================================================

// InvoiceItem is one dated booking. Immutable once created except for
// deletion. Amounts are plain euro values; negative amounts pass
// validation (see ops.go and the open-question entry in DESIGN.md).
type InvoiceItem struct {
	ID          string          `json:"id"`
	PatientID   string          `json:"patientId"`
	Date        dates.Day       `json:"date"`
	Category    Category        `json:"category"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	CoveredBy   CoveredBy       `json:"coveredBy,omitempty"`
}

// ResidentRef is the slice of the resident record the ledger needs for
// display, filtering, and sorting. Orphaned plan references get a ref
// with just the id.
type ResidentRef struct {
	ID       string
	FullName string
	Room     string
}
