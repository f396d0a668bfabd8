/*
scenarios.go - Demo data seeding and console reset

PURPOSE:

	Populates the store with a small but realistic facility: three staff
	accounts, three residents across two floors, rooms 101-204, two
	relative contacts (one verified, one pending opt-in), coverage
	targets for the current week, benefit plans, a medication plan, and
	seed mail/chat threads. Everything the console's screens need to
	render non-empty on first start.

USAGE VIA API:

	POST /api/demo/reset     Wipe the store and reseed
	GET  /api/health         Liveness probe

NOTE:

	Reset wipes ALL collections. Development and demo environments only.

SEE ALSO:
  - handlers.go: handler context and response helpers
*/
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/healthreply/pflegenetz/billing"
	"github.com/healthreply/pflegenetz/dates"
	"github.com/healthreply/pflegenetz/directory"
	"github.com/healthreply/pflegenetz/medication"
	"github.com/healthreply/pflegenetz/messaging"
	"github.com/healthreply/pflegenetz/roster"
	"github.com/healthreply/pflegenetz/store"
)

// Health reports liveness.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ResetDemo wipes the store and reseeds the demo facility.
func (h *Handler) ResetDemo(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	ctx := r.Context()
	if err := h.Store.Reset(ctx); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reset store", err)
		return
	}
	if err := h.LoadDemo(ctx); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to seed demo data", err)
		return
	}
	h.Log.Info("demo data reseeded")
	writeJSON(w, http.StatusOK, map[string]string{"status": "seeded"})
}

// LoadDemo writes the demo facility into every collection. Existing
// contents are overwritten; call Reset first for a clean slate.
func (h *Handler) LoadDemo(ctx context.Context) error {
	now := h.now()
	week := dates.ThisWeek()

	if err := store.PutList(ctx, h.Store, store.KeyUsers, demoUsers(now)); err != nil {
		return err
	}
	if err := store.PutList(ctx, h.Store, store.KeySettings, []directory.OrgSettings{demoSettings()}); err != nil {
		return err
	}
	if err := store.PutList(ctx, h.Store, store.KeyResidents, demoResidents()); err != nil {
		return err
	}
	if err := store.PutList(ctx, h.Store, store.KeyRooms, demoRooms()); err != nil {
		return err
	}
	if err := store.PutList(ctx, h.Store, store.KeyContacts, demoContacts()); err != nil {
		return err
	}
	if err := store.PutList(ctx, h.Store, store.KeyCoverage, demoCoverage(week)); err != nil {
		return err
	}
	if err := store.PutList(ctx, h.Store, store.KeyBenefitPlans, demoPlans()); err != nil {
		return err
	}
	if err := store.PutList(ctx, h.Store, store.KeyInvoiceItems, []billing.InvoiceItem{}); err != nil {
		return err
	}
	if err := store.PutList(ctx, h.Store, store.KeyMedications, demoMedications()); err != nil {
		return err
	}
	if err := store.PutList(ctx, h.Store, store.KeyMailboxes, demoMailboxes()); err != nil {
		return err
	}
	if err := store.PutList(ctx, h.Store, store.KeyMail, demoMail()); err != nil {
		return err
	}
	return store.PutList(ctx, h.Store, store.KeyChat, demoChat())
}

// =============================================================================
// SEED DATA
// =============================================================================

func allModules() map[directory.ModuleKey]bool {
	return map[directory.ModuleKey]bool{
		directory.ModuleDashboard:  true,
		directory.ModuleResidents:  true,
		directory.ModuleMedication: true,
		directory.ModuleRelatives:  true,
		directory.ModuleRooms:      true,
		directory.ModuleAdmin:      true,
	}
}

func demoUsers(now time.Time) []directory.User {
	return []directory.User{
		{
			ID: "u-admin", Email: "admin@pflege.de", FullName: "Sabine Admin",
			Initials: "SA", Role: roster.RoleAdmin, Active: true, ShortCode: "ADM",
			Modules: allModules(), CreatedAt: now,
		},
		{
			ID: "u-pdl", Email: "pdl@pflege.de", FullName: "Petra Leitung",
			Initials: "PL", Role: roster.RoleSupervisor, Active: true, ShortCode: "PDL",
			Modules: allModules(), CreatedAt: now,
		},
		{
			ID: "u-pflege1", Email: "m.weber@pflege.de", FullName: "Markus Weber",
			Initials: "MW", Role: roster.RoleCaregiver, Active: true, ShortCode: "MW",
			Modules: map[directory.ModuleKey]bool{
				directory.ModuleDashboard:  true,
				directory.ModuleResidents:  true,
				directory.ModuleMedication: true,
			},
			CreatedAt: now,
		},
	}
}

func demoSettings() directory.OrgSettings {
	return directory.OrgSettings{
		OrgName:          "Haus Sonnenschein",
		EmailDomain:      "pflege.de",
		BrandColor:       "#2563eb",
		DefaultFrequency: string(directory.FrequencyDaily),
		Theme:            "light",
	}
}

func demoResidents() []directory.Resident {
	return []directory.Resident{
		{
			ID: "p1", FullName: "Herr Meier", Room: "101", BirthDate: "1941-03-12",
			Status: directory.ResidentActive, InsuranceName: "AOK Bayern",
			Diet: "diabetisch", Allergies: []string{"Penicillin"},
			Relatives: []directory.Relative{{Name: "Anna Meier", Relation: "Tochter", Email: "anna@example.com"}},
		},
		{
			ID: "p2", FullName: "Frau Schulz", Room: "102", BirthDate: "1938-11-02",
			Status: directory.ResidentActive, InsuranceName: "Barmer",
			Relatives: []directory.Relative{{Name: "Peter Schulz", Relation: "Sohn"}},
		},
		{
			ID: "p3", FullName: "Frau Keller", Room: "103", BirthDate: "1945-06-24",
			Status: directory.ResidentActive, InsuranceName: "Privat (Allianz)",
		},
	}
}

func demoRooms() []directory.Room {
	return []directory.Room{
		{ID: "101", Floor: 1, Capacity: 1, Status: directory.RoomOccupied},
		{ID: "102", Floor: 1, Capacity: 1, Status: directory.RoomOccupied},
		{ID: "103", Floor: 1, Capacity: 2, Status: directory.RoomOccupied},
		{ID: "104", Floor: 1, Capacity: 2, Status: directory.RoomVacant},
		{ID: "201", Floor: 2, Capacity: 1, Status: directory.RoomVacant},
		{ID: "202", Floor: 2, Capacity: 1, Status: directory.RoomCleaning, Notes: "Grundreinigung bis Freitag"},
		{ID: "203", Floor: 2, Capacity: 2, Status: directory.RoomVacant},
		{ID: "204", Floor: 2, Capacity: 2, Status: directory.RoomVacant},
	}
}

func demoContacts() []directory.Contact {
	return []directory.Contact{
		{
			ID: "c1", FullName: "Anna Meier", Email: "anna@example.com", Phone: "+49 170 1234567",
			Relation: "Tochter", ResidentID: "p1", Primary: true, Verified: true,
			PrefersEmail: true, Frequency: directory.FrequencyDaily, BounceStatus: directory.BounceOK,
		},
		{
			ID: "c2", FullName: "Peter Schulz", Email: "peter.schulz@example.com",
			Relation: "Sohn", ResidentID: "p2", Verified: false,
			Frequency: directory.FrequencyWeekly,
		},
	}
}

func demoCoverage(week dates.Week) []roster.CoverageRequirement {
	var reqs []roster.CoverageRequirement
	for _, day := range week {
		for _, t := range roster.ShiftTypes {
			required := 3
			if t == roster.ShiftNight {
				required = 2
			}
			reqs = append(reqs, roster.CoverageRequirement{Date: day, Type: t, Required: required})
		}
	}
	return reqs
}

func demoPlans() []billing.BenefitPlan {
	return []billing.BenefitPlan{
		{
			PatientID: "p1", Insurer: billing.InsurerStatutory, InsurerName: "AOK Bayern",
			CareLevel: 3, Budgets: billing.DefaultBudgets(3), ValidFrom: "2025-01-01",
		},
		{
			PatientID: "p2", Insurer: billing.InsurerStatutory, InsurerName: "Barmer",
			CareLevel: 2, Budgets: billing.DefaultBudgets(2), ValidFrom: "2025-01-01",
		},
		{
			PatientID: "p3", Insurer: billing.InsurerPrivate, InsurerName: "Allianz Private Pflege",
			CareLevel: 4, Budgets: billing.DefaultBudgets(4), ValidFrom: "2025-03-01",
		},
	}
}

func demoMedications() []medication.Medication {
	return []medication.Medication{
		{
			ID: "m1", ResidentID: "p1", Name: "Ramipril", Form: medication.FormTablet,
			Strength: "5mg", Dose: "1-0-1-0",
			Times: []medication.DoseTime{medication.DoseMorning, medication.DoseEvening},
		},
		{
			ID: "m2", ResidentID: "p1", Name: "Metformin", Form: medication.FormTablet,
			Strength: "850mg", Dose: "1-1-0-0",
			Times: []medication.DoseTime{medication.DoseMorning, medication.DoseNoon},
		},
		{
			ID: "m3", ResidentID: "p2", Name: "Novalgin Tropfen", Form: medication.FormDrops,
			Strength: "500mg/ml", Dose: "20 Tropfen bei Bedarf", PRN: true,
			Notes: "max. 4x täglich",
		},
		{
			ID: "m4", ResidentID: "p3", Name: "L-Thyroxin", Form: medication.FormTablet,
			Strength: "75µg", Dose: "1-0-0-0",
			Times: []medication.DoseTime{medication.DoseMorning},
			Notes: "30 Min vor dem Frühstück",
		},
	}
}

func demoMailboxes() []messaging.Mailbox {
	return []messaging.Mailbox{
		{ID: "mb-personal", Kind: messaging.MailboxPersonal, Label: "Persönlich", Address: "pflege1@example.com"},
		{ID: "mb-shared", Kind: messaging.MailboxShared, Label: "Gemeinsam", Address: "info@pflege.de"},
	}
}

func demoMail() []messaging.MailMessage {
	return []messaging.MailMessage{
		{
			ID: "m-seed-2", MailboxID: "mb-personal", Folder: messaging.FolderInbox,
			ThreadID: "t-p1-anna@example.com", Subject: "Besuch am Wochenende",
			From: "anna@example.com", To: []string{"pflege1@example.com"},
			Date: "2025-08-03T14:20:00Z",
			Body: "Guten Tag, ich würde meinen Vater am Samstag gerne besuchen. Passt 15 Uhr?",
			ResidentID: "p1", ContactEmail: "anna@example.com",
		},
		{
			ID: "m-seed-1", MailboxID: "mb-shared", Folder: messaging.FolderInbox,
			ThreadID: "t-gen-ext", Subject: "Lieferung Pflegehilfsmittel",
			From: "versand@sanitaetshaus.example", To: []string{"info@pflege.de"},
			Date: "2025-08-01T09:05:00Z",
			Body: "Ihre Bestellung wird am Donnerstag zugestellt.",
			Read: true,
		},
	}
}

func demoChat() []messaging.ChatMessage {
	return []messaging.ChatMessage{
		{
			ID: "wa-seed-2", Timestamp: "2025-08-03T08:10:00Z", ContactID: "c1",
			Text: "Guten Morgen! Ihrem Vater geht es gut, er hat gut gefrühstückt.",
			From: messaging.SenderCare, Delivered: true,
		},
		{
			ID: "wa-seed-1", Timestamp: "2025-08-03T08:00:00Z", ContactID: "c1",
			Text: "Guten Morgen, wie geht es meinem Vater heute?",
			From: messaging.SenderRelative, Read: true,
		},
	}
}
