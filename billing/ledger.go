/*
ledger.go - Monthly budget aggregation and the billing table view

PURPOSE:
  Derives the per-resident billing rows for one calendar month: category
  bucket sums, remaining budget, status classification, composed filters,
  and single-key stable sorting. Nothing is materialized; every call
  recomputes from the raw plans and items.

STATUS CLASSIFICATION (first match wins):
  1. over: remaining service OR remaining relief below zero
  2. warn: used service OR used relief above 85% of its cap
  3. ok:   otherwise
*/
package billing

import (
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/healthreply/pflegenetz/dates"
)

// =============================================================================
// ROW VIEW MODEL
// =============================================================================

type Status string

const (
	StatusOK   Status = "ok"
	StatusWarn Status = "warn"
	StatusOver Status = "over"
)

// warnRatio is the usage fraction above which a budget turns warn.
var warnRatio = decimal.RequireFromString("0.85")

// Row is the derived monthly view of one resident's budgets.
type Row struct {
	PatientID        string          `json:"patientId"`
	FullName         string          `json:"fullName"`
	Room             string          `json:"room,omitempty"`
	InsurerName      string          `json:"insurerName"`
	CareLevel        CareLevel       `json:"careLevel"`
	BudgetService    decimal.Decimal `json:"budgetService"`
	BudgetRelief     decimal.Decimal `json:"budgetRelief"`
	UsedService      decimal.Decimal `json:"usedService"`
	UsedRelief       decimal.Decimal `json:"usedRelief"`
	Copay            decimal.Decimal `json:"copay"`
	RemainingService decimal.Decimal `json:"remainingService"`
	RemainingRelief  decimal.Decimal `json:"remainingRelief"`
	Status           Status          `json:"status"`
}

// SortKey selects the single active ordering of the billing table.
type SortKey string

const (
	SortByName             SortKey = "name"              // resident name, case-insensitive
	SortByRemainingService SortKey = "remaining-service" // ascending
	SortByRemainingRelief  SortKey = "remaining-relief"  // ascending
	SortByCopay            SortKey = "copay"             // descending
	SortByCareLevel        SortKey = "care-level"        // ascending
)

// Filters compose with logical AND. Zero values match everything.
type Filters struct {
	Name      string    // case-insensitive substring on resident name
	CareLevel CareLevel // exact match; 0 = any
	Insurer   string    // case-insensitive substring on insurer name
}

func (f Filters) match(r Row) bool {
	if f.Name != "" && !strings.Contains(strings.ToLower(r.FullName), strings.ToLower(f.Name)) {
		return false
	}
	if f.CareLevel != 0 && r.CareLevel != f.CareLevel {
		return false
	}
	if f.Insurer != "" && !strings.Contains(strings.ToLower(r.InsurerName), strings.ToLower(f.Insurer)) {
		return false
	}
	return true
}

// =============================================================================
// AGGREGATION
// =============================================================================

// ComputeRow aggregates one plan against the month's items. Items of
// other residents or other months are ignored; Other-category bookings
// count into no bucket.
func ComputeRow(plan BenefitPlan, items []InvoiceItem, residents []ResidentRef, month dates.Month) Row {
	usedService := decimal.Zero
	usedRelief := decimal.Zero
	copay := decimal.Zero

	for _, it := range items {
		if it.PatientID != plan.PatientID || !month.Contains(it.Date) {
			continue
		}
		switch it.Category {
		case CategoryService:
			usedService = usedService.Add(it.Amount)
		case CategoryRelief:
			usedRelief = usedRelief.Add(it.Amount)
		case CategoryCopay:
			copay = copay.Add(it.Amount)
		}
	}

	remainingService := plan.Budgets.ServiceAllowance.Sub(usedService)
	remainingRelief := plan.Budgets.ReliefAllowance.Sub(usedRelief)

	var status Status
	switch {
	case remainingService.IsNegative() || remainingRelief.IsNegative():
		status = StatusOver
	case usedService.GreaterThan(plan.Budgets.ServiceAllowance.Mul(warnRatio)) ||
		usedRelief.GreaterThan(plan.Budgets.ReliefAllowance.Mul(warnRatio)):
		status = StatusWarn
	default:
		status = StatusOK
	}

	// Orphaned plan references render as the raw id with no room.
	fullName, room := plan.PatientID, ""
	for _, res := range residents {
		if res.ID == plan.PatientID {
			fullName, room = res.FullName, res.Room
			break
		}
	}

	return Row{
		PatientID:        plan.PatientID,
		FullName:         fullName,
		Room:             room,
		InsurerName:      plan.InsurerName,
		CareLevel:        plan.CareLevel,
		BudgetService:    plan.Budgets.ServiceAllowance,
		BudgetRelief:     plan.Budgets.ReliefAllowance,
		UsedService:      usedService,
		UsedRelief:       usedRelief,
		Copay:            copay,
		RemainingService: remainingService,
		RemainingRelief:  remainingRelief,
		Status:           status,
	}
}

// ComputeRows derives, filters, and sorts the full billing table.
func ComputeRows(plans []BenefitPlan, items []InvoiceItem, residents []ResidentRef, month dates.Month, filters Filters, key SortKey) []Row {
	rows := make([]Row, 0, len(plans))
	for _, plan := range plans {
		row := ComputeRow(plan, items, residents, month)
		if filters.match(row) {
			rows = append(rows, row)
		}
	}
	SortRows(rows, key)
	return rows
}

// SortRows orders rows in place by the single active key. The sort is
// stable; ties keep their incoming order.
func SortRows(rows []Row, key SortKey) {
	var less func(a, b Row) bool
	switch key {
	case SortByRemainingService:
		less = func(a, b Row) bool { return a.RemainingService.LessThan(b.RemainingService) }
	case SortByRemainingRelief:
		less = func(a, b Row) bool { return a.RemainingRelief.LessThan(b.RemainingRelief) }
	case SortByCopay:
		less = func(a, b Row) bool { return a.Copay.GreaterThan(b.Copay) }
	case SortByCareLevel:
		less = func(a, b Row) bool { return a.CareLevel < b.CareLevel }
	default: // SortByName
		less = func(a, b Row) bool {
			return strings.ToLower(a.FullName) < strings.ToLower(b.FullName)
		}
	}
	sort.SliceStable(rows, func(i, j int) bool { return less(rows[i], rows[j]) })
}

// MonthItems returns the resident's bookings for the month, every
// category included; the detail view shows Other items too.
func MonthItems(items []InvoiceItem, patientID string, month dates.Month) []InvoiceItem {
	var out []InvoiceItem
	for _, it := range items {
		if it.PatientID == patientID && month.Contains(it.Date) {
			out = append(out, it)
		}
	}
	return out
}

// =============================================================================
// SUMMARY
// =============================================================================

// Summary are the KPI totals over the (filtered) rows.
type Summary struct {
	BudgetService decimal.Decimal `json:"budgetService"`
	UsedService   decimal.Decimal `json:"usedService"`
	BudgetRelief  decimal.Decimal `json:"budgetRelief"`
	UsedRelief    decimal.Decimal `json:"usedRelief"`
	Copay         decimal.Decimal `json:"copay"`
	Residents     int             `json:"residents"`
}

// Summarize totals the visible rows.
func Summarize(rows []Row) Summary {
	s := Summary{
		BudgetService: decimal.Zero,
		UsedService:   decimal.Zero,
		BudgetRelief:  decimal.Zero,
		UsedRelief:    decimal.Zero,
		Copay:         decimal.Zero,
		Residents:     len(rows),
	}
	for _, r := range rows {
		s.BudgetService = s.BudgetService.Add(r.BudgetService)
		s.UsedService = s.UsedService.Add(r.UsedService)
		s.BudgetRelief = s.BudgetRelief.Add(r.BudgetRelief)
		s.UsedRelief = s.UsedRelief.Add(r.UsedRelief)
		s.Copay = s.Copay.Add(r.Copay)
	}
	return s
}

// =============================================================================
// EXPORT
// =============================================================================

// MonthCSVHeader is the column order of the month export.
var MonthCSVHeader = []string{
	"Month", "Resident", "Room", "Insurer", "Care Level",
	"Budget Service", "Used Service", "Remaining Service",
	"Budget Relief", "Used Relief", "Remaining Relief", "Copay",
}

// MonthCSV shapes the computed rows into export rows.
func MonthCSV(rows []Row, month dates.Month) [][]string {
	out := make([][]string, 0, len(rows)+1)
	out = append(out, MonthCSVHeader)
	for _, r := range rows {
		out = append(out, []string{
			month.String(), r.FullName, r.Room, r.InsurerName, strconv.Itoa(int(r.CareLevel)),
			r.BudgetService.String(), r.UsedService.String(), r.RemainingService.String(),
			r.BudgetRelief.String(), r.UsedRelief.String(), r.RemainingRelief.String(),
			r.Copay.String(),
		})
	}
	return out
}
