/*
care.go - HTTP handlers: directory (residents, rooms, contacts, users)
and the medication plan

ENDPOINTS (this file):
  Residents:
    GET    /api/residents                  List (filterable)
    GET    /api/residents/{id}             Single record
    PUT    /api/residents/{id}             Upsert record
    POST   /api/residents/{id}/move        Relocate to another room

  Rooms:
    GET    /api/rooms                      List with occupancy (filterable)
    PUT    /api/rooms/{id}/status          Set status/note
    GET    /api/rooms/moves                Move log

  Contacts:
    GET    /api/contacts                   List
    PUT    /api/contacts/{id}              Upsert

  Users:
    GET    /api/users                      List accounts
    PUT    /api/users/{id}                 Upsert account
    POST   /api/users/{id}/deactivate      Remove from scheduling
    GET    /api/settings                   Organization settings
    PUT    /api/settings                   Replace organization settings

  Medication:
    GET    /api/medication/plan            Daily plan with prepared flags
    GET    /api/medication/plan/csv        Daily plan export
    POST   /api/medication/prep/toggle     Flip one cell
    POST   /api/medication/prep/all        Mark filtered view prepared
    PUT    /api/medication/{id}            Upsert prescription
    DELETE /api/medication/{id}            Delete prescription

SEE ALSO:
  - handlers.go: handler context and response helpers
*/
package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/healthreply/pflegenetz/dates"
	"github.com/healthreply/pflegenetz/directory"
	"github.com/healthreply/pflegenetz/medication"
	"github.com/healthreply/pflegenetz/roster"
	"github.com/healthreply/pflegenetz/store"
)

// =============================================================================
// RESIDENTS
// =============================================================================

// ListResidents returns the resident records, optionally filtered.
func (h *Handler) ListResidents(w http.ResponseWriter, r *http.Request) {
	residents, err := store.GetList[directory.Resident](r.Context(), h.Store, store.KeyResidents)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load residents", err)
		return
	}
	f := directory.ResidentFilters{
		Query:  r.URL.Query().Get("q"),
		Status: directory.ResidentStatus(r.URL.Query().Get("status")),
	}
	writeJSON(w, http.StatusOK, directory.FilterResidents(residents, f))
}

// GetResident returns one resident record.
func (h *Handler) GetResident(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	residents, err := store.GetList[directory.Resident](r.Context(), h.Store, store.KeyResidents)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load residents", err)
		return
	}
	res, ok := directory.FindResident(residents, id)
	if !ok {
		writeError(w, http.StatusNotFound, "Resident not found", nil)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// UpsertResident creates or replaces a resident record.
func (h *Handler) UpsertResident(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var res directory.Resident
	if !h.decode(w, r, &res) {
		return
	}
	res.ID = id
	if res.Status == "" {
		res.Status = directory.ResidentActive
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	ctx := r.Context()
	residents, err := store.GetList[directory.Resident](ctx, h.Store, store.KeyResidents)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load residents", err)
		return
	}
	next := upsertResident(residents, res)
	if err := store.PutList(ctx, h.Store, store.KeyResidents, next); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save residents", err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func upsertResident(residents []directory.Resident, next directory.Resident) []directory.Resident {
	out := make([]directory.Resident, len(residents))
	copy(out, residents)
	for i, res := range out {
		if res.ID == next.ID {
			out[i] = next
			return out
		}
	}
	return append(out, next)
}

// MoveResident relocates a resident, logging the move.
func (h *Handler) MoveResident(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req MoveRequest
	if !h.decode(w, r, &req) {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	ctx := r.Context()
	residents, err := store.GetList[directory.Resident](ctx, h.Store, store.KeyResidents)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load residents", err)
		return
	}
	rooms, err := store.GetList[directory.Room](ctx, h.Store, store.KeyRooms)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load rooms", err)
		return
	}
	moves, err := store.GetList[directory.MoveLog](ctx, h.Store, store.KeyMoves)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load move log", err)
		return
	}
	if _, ok := directory.FindResident(residents, id); !ok {
		writeError(w, http.StatusNotFound, "Resident not found", nil)
		return
	}

	result := directory.MoveResident(residents, rooms, id, req.RoomID, h.prefixedID("mv"), h.now())
	if err := store.PutList(ctx, h.Store, store.KeyResidents, result.Residents); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save residents", err)
		return
	}
	if err := store.PutList(ctx, h.Store, store.KeyRooms, result.Rooms); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save rooms", err)
		return
	}
	if err := store.PutList(ctx, h.Store, store.KeyMoves, append([]directory.MoveLog{result.Log}, moves...)); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save move log", err)
		return
	}
	writeJSON(w, http.StatusOK, result.Log)
}

// =============================================================================
// ROOMS
// =============================================================================

// RoomView is a room plus its derived occupancy.
type RoomView struct {
	directory.Room
	Residents   []string `json:"residents"`
	LoadPercent int      `json:"loadPercent"`
}

// ListRooms returns rooms with their derived occupancy.
func (h *Handler) ListRooms(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	rooms, err := store.GetList[directory.Room](ctx, h.Store, store.KeyRooms)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load rooms", err)
		return
	}
	residents, err := store.GetList[directory.Resident](ctx, h.Store, store.KeyResidents)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load residents", err)
		return
	}

	f := directory.RoomFilters{
		Query:  r.URL.Query().Get("q"),
		Status: directory.RoomStatus(r.URL.Query().Get("status")),
	}
	if raw := r.URL.Query().Get("floor"); raw != "" {
		if floor, err := strconv.Atoi(raw); err == nil {
			f.Floor = floor
		}
	}

	occ := directory.Occupancy(residents)
	filtered := directory.FilterRooms(rooms, f)
	views := make([]RoomView, len(filtered))
	for i, room := range filtered {
		views[i] = RoomView{
			Room:        room,
			Residents:   occ[room.ID],
			LoadPercent: directory.LoadPercent(room, occ),
		}
	}
	writeJSON(w, http.StatusOK, views)
}

// SetRoomStatus updates a room's status and/or note.
func (h *Handler) SetRoomStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req RoomStatusRequest
	if !h.decode(w, r, &req) {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	ctx := r.Context()
	rooms, err := store.GetList[directory.Room](ctx, h.Store, store.KeyRooms)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load rooms", err)
		return
	}

	next := rooms
	if req.Status != "" {
		next = directory.SetRoomStatus(next, id, directory.RoomStatus(req.Status))
	}
	if req.Note != "" {
		next = directory.SetRoomNote(next, id, req.Note)
	}
	if err := store.PutList(ctx, h.Store, store.KeyRooms, next); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save rooms", err)
		return
	}
	writeJSON(w, http.StatusOK, next)
}

// ListMoves returns the room move log, newest first.
func (h *Handler) ListMoves(w http.ResponseWriter, r *http.Request) {
	moves, err := store.GetList[directory.MoveLog](r.Context(), h.Store, store.KeyMoves)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load move log", err)
		return
	}
	writeJSON(w, http.StatusOK, moves)
}

// =============================================================================
// CONTACTS
// =============================================================================

// ListContacts returns relative contact records.
func (h *Handler) ListContacts(w http.ResponseWriter, r *http.Request) {
	contacts, err := store.GetList[directory.Contact](r.Context(), h.Store, store.KeyContacts)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load contacts", err)
		return
	}
	writeJSON(w, http.StatusOK, contacts)
}

// UpsertContact creates or replaces a contact record.
func (h *Handler) UpsertContact(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var contact directory.Contact
	if !h.decode(w, r, &contact) {
		return
	}
	contact.ID = id

	h.mu.Lock()
	defer h.mu.Unlock()

	ctx := r.Context()
	contacts, err := store.GetList[directory.Contact](ctx, h.Store, store.KeyContacts)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load contacts", err)
		return
	}
	next := upsertContact(contacts, contact)
	if err := store.PutList(ctx, h.Store, store.KeyContacts, next); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save contacts", err)
		return
	}
	writeJSON(w, http.StatusOK, contact)
}

func upsertContact(contacts []directory.Contact, next directory.Contact) []directory.Contact {
	out := make([]directory.Contact, len(contacts))
	copy(out, contacts)
	for i, c := range out {
		if c.ID == next.ID {
			out[i] = next
			return out
		}
	}
	return append(out, next)
}

// =============================================================================
// USERS AND SETTINGS
// =============================================================================

// ListUsers returns the console accounts.
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := store.GetList[directory.User](r.Context(), h.Store, store.KeyUsers)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load users", err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

// UpsertUser creates or replaces a console account.
func (h *Handler) UpsertUser(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var user directory.User
	if !h.decode(w, r, &user) {
		return
	}
	user.ID = id

	h.mu.Lock()
	defer h.mu.Unlock()

	ctx := r.Context()
	users, err := store.GetList[directory.User](ctx, h.Store, store.KeyUsers)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load users", err)
		return
	}
	next := directory.UpsertUser(users, user)
	if err := store.PutList(ctx, h.Store, store.KeyUsers, next); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save users", err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// DeactivateUser removes an account from scheduling.
func (h *Handler) DeactivateUser(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	h.mu.Lock()
	defer h.mu.Unlock()

	ctx := r.Context()
	users, err := store.GetList[directory.User](ctx, h.Store, store.KeyUsers)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load users", err)
		return
	}
	next := directory.DeactivateUser(users, id)
	if err := store.PutList(ctx, h.Store, store.KeyUsers, next); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save users", err)
		return
	}
	writeJSON(w, http.StatusOK, next)
}

// GetSettings returns the organization settings.
func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	list, err := store.GetList[directory.OrgSettings](r.Context(), h.Store, store.KeySettings)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load settings", err)
		return
	}
	settings := directory.OrgSettings{}
	if len(list) > 0 {
		settings = list[0]
	}
	writeJSON(w, http.StatusOK, settings)
}

// PutSettings replaces the organization settings.
func (h *Handler) PutSettings(w http.ResponseWriter, r *http.Request) {
	var settings directory.OrgSettings
	if !h.decode(w, r, &settings) {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if err := store.PutList(r.Context(), h.Store, store.KeySettings, []directory.OrgSettings{settings}); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save settings", err)
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

// =============================================================================
// MEDICATION
// =============================================================================

func medParams(r *http.Request) (dates.Day, roster.ShiftType, string) {
	date := dates.Day(r.URL.Query().Get("date"))
	if date.IsZero() {
		date = dates.Today()
	}
	shift := roster.ShiftType(r.URL.Query().Get("shift"))
	if roster.TypeIndex(shift) < 0 {
		shift = roster.ShiftEarly
	}
	return date, shift, r.URL.Query().Get("residentId")
}

// GetMedPlan returns the daily plan with prepared flags resolved.
func (h *Handler) GetMedPlan(w http.ResponseWriter, r *http.Request) {
	date, shift, residentID := medParams(r)

	ctx := r.Context()
	plan, err := store.GetList[medication.Medication](ctx, h.Store, store.KeyMedications)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load medication plan", err)
		return
	}
	events, err := store.GetList[medication.PrepEvent](ctx, h.Store, store.KeyPrepEvents)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load preparation events", err)
		return
	}

	planRows := medication.DailyPlan(plan, residentID)
	rows := make([]MedPlanRow, len(planRows))
	for i, row := range planRows {
		rows[i] = MedPlanRow{
			Medication: row.Medication,
			Time:       row.Time,
			Prepared:   medication.IsPrepared(events, date, shift, row.Medication.ResidentID, row.Medication.ID, row.Time),
		}
	}
	writeJSON(w, http.StatusOK, MedPlanResponse{Date: date, Shift: shift, Rows: rows})
}

// ExportMedPlanCSV streams the daily plan as CSV.
func (h *Handler) ExportMedPlanCSV(w http.ResponseWriter, r *http.Request) {
	date, shift, residentID := medParams(r)

	ctx := r.Context()
	plan, err := store.GetList[medication.Medication](ctx, h.Store, store.KeyMedications)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load medication plan", err)
		return
	}
	events, err := store.GetList[medication.PrepEvent](ctx, h.Store, store.KeyPrepEvents)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load preparation events", err)
		return
	}
	residents, err := store.GetList[directory.Resident](ctx, h.Store, store.KeyResidents)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load residents", err)
		return
	}

	records := medication.PlanCSV(plan, events, date, shift, residentID, func(id string) string {
		return directory.ResidentName(residents, id)
	})
	writeCSV(w, "medikation_"+date.String()+".csv", medication.PlanCSVHeader, records)
}

// TogglePrep flips the prepared flag of one plan cell.
func (h *Handler) TogglePrep(w http.ResponseWriter, r *http.Request) {
	var req PrepRequest
	if !h.decode(w, r, &req) {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	ctx := r.Context()
	events, err := store.GetList[medication.PrepEvent](ctx, h.Store, store.KeyPrepEvents)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load preparation events", err)
		return
	}
	next := medication.TogglePrepared(events, req.Date, req.Shift, req.ResidentID, req.MedicationID, req.Time, h.prefixedID("pe"), h.now())
	if err := store.PutList(ctx, h.Store, store.KeyPrepEvents, next); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save preparation events", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{
		"prepared": medication.IsPrepared(next, req.Date, req.Shift, req.ResidentID, req.MedicationID, req.Time),
	})
}

// PrepAll marks the filtered daily view prepared.
func (h *Handler) PrepAll(w http.ResponseWriter, r *http.Request) {
	var req PrepAllRequest
	if !h.decode(w, r, &req) {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	ctx := r.Context()
	plan, err := store.GetList[medication.Medication](ctx, h.Store, store.KeyMedications)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load medication plan", err)
		return
	}
	events, err := store.GetList[medication.PrepEvent](ctx, h.Store, store.KeyPrepEvents)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load preparation events", err)
		return
	}
	next := medication.MarkAllPrepared(events, plan, req.Date, req.Shift, req.ResidentID, h.prefixedID("pe"), h.now())
	if err := store.PutList(ctx, h.Store, store.KeyPrepEvents, next); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save preparation events", err)
		return
	}
	writeJSON(w, http.StatusOK, next)
}

// UpsertMedication creates or replaces a prescription.
func (h *Handler) UpsertMedication(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var med medication.Medication
	if !h.decode(w, r, &med) {
		return
	}
	med.ID = id

	h.mu.Lock()
	defer h.mu.Unlock()

	ctx := r.Context()
	plan, err := store.GetList[medication.Medication](ctx, h.Store, store.KeyMedications)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load medication plan", err)
		return
	}
	next := medication.UpsertMedication(plan, med)
	if err := store.PutList(ctx, h.Store, store.KeyMedications, next); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save medication plan", err)
		return
	}
	writeJSON(w, http.StatusOK, med)
}

// DeleteMedication removes a prescription.
func (h *Handler) DeleteMedication(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	h.mu.Lock()
	defer h.mu.Unlock()

	ctx := r.Context()
	plan, err := store.GetList[medication.Medication](ctx, h.Store, store.KeyMedications)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load medication plan", err)
		return
	}
	if err := store.PutList(ctx, h.Store, store.KeyMedications, medication.DeleteMedication(plan, id)); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save medication plan", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
