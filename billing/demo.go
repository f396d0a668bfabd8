package billing

import (
	"github.com/shopspring/decimal"

	"github.com/healthreply/pflegenetz/dates"
)

// AutoDemo quickly books demo values into the month: extra service
// bookings for the first three plans and relief bookings for the third
// through fifth. Amounts and days are staggered so the table shows a
// spread of usage levels.
func AutoDemo(plans []BenefitPlan, items []InvoiceItem, month dates.Month, newID func() string) []InvoiceItem {
	out := items

	book := func(patientID string, cat Category, desc string, amount int64, day int) {
		covered := CoveredByBudget
		if cat == CategoryCopay {
			covered = CoveredByCopay
		}
		// Demo bookings are always complete; AddItem cannot reject them.
		out, _ = AddItem(out, InvoiceItem{
			PatientID:   patientID,
			Date:        month.Day(day),
			Category:    cat,
			Description: desc,
			Amount:      decimal.NewFromInt(amount),
			CoveredBy:   covered,
		}, newID)
	}

	for i, p := range plans {
		if i >= 3 {
			break
		}
		book(p.PatientID, CategoryService, "Additional service (auto)", 200+int64(i)*90, 10+i*3)
	}
	for i, p := range plans {
		if i < 2 || i >= 5 {
			continue
		}
		book(p.PatientID, CategoryRelief, "Care support (auto)", 60+int64(i-2)*30, 22+(i-2))
	}
	return out
}
