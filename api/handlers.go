/*
handlers.go - HTTP handlers: handler context, roster, billing

PURPOSE:
  Exposes the console over REST. Handlers follow one pattern: load the
  affected collections from the store, run the pure domain operation,
  persist the new snapshot, respond with the derived view.

ENDPOINTS (this file):
  Roster:
    GET    /api/roster/week                Week board (matrix, shifts, absences)
    GET    /api/roster/week/csv            Week export
    POST   /api/roster/assignments         Create shift
    PUT    /api/roster/assignments/{id}    Edit shift
    DELETE /api/roster/assignments/{id}    Delete shift
    POST   /api/roster/assignments/{id}/reassign  Move to another member/day
    POST   /api/roster/assignments/{id}/swap      Request swap
    POST   /api/roster/assignments/{id}/confirm   Confirm shift
    POST   /api/roster/autoplan            Fill open shifts round-robin
    GET    /api/roster/coverage            Required headcounts
    PUT    /api/roster/coverage            Replace required headcounts
    GET    /api/roster/timeoff             List absences
    POST   /api/roster/timeoff             File absence

  Billing:
    GET    /api/billing/ledger             Monthly table + summary
    GET    /api/billing/ledger/csv         Month export
    GET    /api/billing/residents/{id}/items  Booking detail list
    POST   /api/billing/items              Book line item
    DELETE /api/billing/items/{id}         Delete line item
    PUT    /api/billing/plans/{residentId} Upsert benefit plan
    POST   /api/billing/demo               Auto-book demo values

REQUEST FLOW:
  1. Decode and validate the body (go-playground/validator)
  2. Load collections (store.GetList)
  3. Run the pure operation
  4. Persist (store.PutList)
  5. Serialize response

ERROR HANDLING:
  - 400: validation errors, malformed dates/amounts
  - 404: unknown ids where the operation needs one
  - 500: storage errors
  Domain ValidationErrors surface their field name in the body.

CONCURRENCY:
  A single mutex serializes read-modify-write cycles. The store keeps
  documents consistent; the mutex keeps the cycles atomic.

SEE ALSO:
  - dto.go: request/response shapes
  - care.go: directory and medication handlers
  - comms.go: mail and chat handlers
  - scenarios.go: demo seed data and reset
*/
package api

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/healthreply/pflegenetz/billing"
	"github.com/healthreply/pflegenetz/dates"
	"github.com/healthreply/pflegenetz/directory"
	"github.com/healthreply/pflegenetz/roster"
	"github.com/healthreply/pflegenetz/store"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store store.Store
	Log   *zap.Logger

	validate *validator.Validate

	// Injected for deterministic tests.
	newID func(prefix string) string
	now   func() time.Time

	// Serializes read-modify-write cycles across collections.
	mu sync.Mutex
}

// NewHandler creates a handler over the given store.
func NewHandler(st store.Store, log *zap.Logger) *Handler {
	return &Handler{
		Store:    st,
		Log:      log,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		newID:    mintID,
		now:      time.Now,
	}
}

// mintID mints a prefixed record identity ("as-1b2c3d4e").
func mintID(prefix string) string {
	return prefix + "-" + uuid.NewString()[:8]
}

// prefixedID adapts the handler's minting to the domain's plain
// newID func() string parameters.
func (h *Handler) prefixedID(prefix string) func() string {
	return func() string { return h.newID(prefix) }
}

// decode parses and validates a request body. On failure the response
// is already written and the caller must return.
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return false
	}
	if err := h.validate.Struct(dst); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request", err)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	var rv *roster.ValidationError
	var bv *billing.ValidationError
	switch {
	case errors.As(err, &rv):
		resp.Field = rv.Field
	case errors.As(err, &bv):
		resp.Field = bv.Field
	}
	writeJSON(w, status, resp)
}

// writeCSV streams export records with the semicolon separator the
// front-desk spreadsheets expect.
func writeCSV(w http.ResponseWriter, filename string, header []string, records [][]string) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	cw := csv.NewWriter(w)
	cw.Comma = ';'
	if header != nil {
		cw.Write(header)
	}
	cw.WriteAll(records)
}

// staffSnapshot loads users and projects them into the roster view.
func (h *Handler) staffSnapshot(r *http.Request) ([]roster.StaffMember, error) {
	users, err := store.GetList[directory.User](r.Context(), h.Store, store.KeyUsers)
	if err != nil {
		return nil, err
	}
	return directory.SchedulingSnapshot(users), nil
}

// weekParam resolves the ?start= query to a Monday-aligned week.
func weekParam(r *http.Request) (dates.Week, error) {
	raw := r.URL.Query().Get("start")
	if raw == "" {
		return dates.ThisWeek(), nil
	}
	day, err := dates.ParseDay(raw)
	if err != nil {
		return dates.Week{}, err
	}
	return dates.WeekOf(day), nil
}

// monthParam resolves the ?month= query, defaulting to the current one.
func monthParam(r *http.Request) dates.Month {
	if raw := r.URL.Query().Get("month"); raw != "" {
		return dates.Month(raw)
	}
	return dates.ThisMonth()
}

// =============================================================================
// ROSTER: WEEK BOARD
// =============================================================================

// GetWeek returns the full board for one week.
func (h *Handler) GetWeek(w http.ResponseWriter, r *http.Request) {
	week, err := weekParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid week start (use YYYY-MM-DD)", err)
		return
	}

	ctx := r.Context()
	staff, err := h.staffSnapshot(r)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load staff", err)
		return
	}
	assignments, err := store.GetList[roster.Assignment](ctx, h.Store, store.KeyAssignments)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load assignments", err)
		return
	}
	offs, err := store.GetList[roster.TimeOff](ctx, h.Store, store.KeyTimeOff)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load time off", err)
		return
	}
	reqs, err := store.GetList[roster.CoverageRequirement](ctx, h.Store, store.KeyCoverage)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load coverage", err)
		return
	}

	weekAssignments := assignmentsInWeek(assignments, week)
	writeJSON(w, http.StatusOK, WeekResponse{
		Week:        week,
		Matrix:      roster.CoverageMatrix(week, weekAssignments, reqs),
		Assignments: weekAssignments,
		TimeOff:     roster.TimeOffInWeek(offs, week),
		Hours:       roster.WeeklyHours(weekAssignments),
		Staff:       staff,
		Coverage:    reqs,
	})
}

func assignmentsInWeek(assignments []roster.Assignment, week dates.Week) []roster.Assignment {
	out := make([]roster.Assignment, 0, len(assignments))
	for _, a := range assignments {
		if week.Contains(a.Date) {
			out = append(out, a)
		}
	}
	return out
}

// ExportWeekCSV streams the week plan as CSV.
func (h *Handler) ExportWeekCSV(w http.ResponseWriter, r *http.Request) {
	week, err := weekParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid week start (use YYYY-MM-DD)", err)
		return
	}
	staff, err := h.staffSnapshot(r)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load staff", err)
		return
	}
	assignments, err := store.GetList[roster.Assignment](r.Context(), h.Store, store.KeyAssignments)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load assignments", err)
		return
	}

	// WeekCSV emits its own header row.
	records := roster.WeekCSV(week, assignments, staff)
	writeCSV(w, "dienstplan_"+week.Start().String()+".csv", nil, records)
}

// =============================================================================
// ROSTER: ASSIGNMENT MUTATIONS
// =============================================================================

// CreateAssignment books a shift manually.
func (h *Handler) CreateAssignment(w http.ResponseWriter, r *http.Request) {
	var req AssignmentRequest
	if !h.decode(w, r, &req) {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	ctx := r.Context()
	assignments, err := store.GetList[roster.Assignment](ctx, h.Store, store.KeyAssignments)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load assignments", err)
		return
	}

	created := req.toAssignment(h.newID("as"))
	next, err := roster.CreateAssignment(assignments, created)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Shift rejected", err)
		return
	}
	if err := store.PutList(ctx, h.Store, store.KeyAssignments, next); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save assignments", err)
		return
	}
	writeJSON(w, http.StatusCreated, next[0])
}

// UpdateAssignment replaces the fields of one shift.
func (h *Handler) UpdateAssignment(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req AssignmentRequest
	if !h.decode(w, r, &req) {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	ctx := r.Context()
	assignments, err := store.GetList[roster.Assignment](ctx, h.Store, store.KeyAssignments)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load assignments", err)
		return
	}
	if !hasAssignment(assignments, id) {
		writeError(w, http.StatusNotFound, "Shift not found", nil)
		return
	}

	next, err := roster.UpdateAssignment(assignments, id, req.toAssignment(id))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Shift rejected", err)
		return
	}
	if err := store.PutList(ctx, h.Store, store.KeyAssignments, next); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save assignments", err)
		return
	}
	writeJSON(w, http.StatusOK, findAssignment(next, id))
}

// DeleteAssignment removes one shift.
func (h *Handler) DeleteAssignment(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	h.mu.Lock()
	defer h.mu.Unlock()

	ctx := r.Context()
	assignments, err := store.GetList[roster.Assignment](ctx, h.Store, store.KeyAssignments)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load assignments", err)
		return
	}
	if err := store.PutList(ctx, h.Store, store.KeyAssignments, roster.DeleteAssignment(assignments, id)); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save assignments", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ReassignAssignment moves a shift to another member and/or day.
func (h *Handler) ReassignAssignment(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req ReassignRequest
	if !h.decode(w, r, &req) {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	ctx := r.Context()
	assignments, err := store.GetList[roster.Assignment](ctx, h.Store, store.KeyAssignments)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load assignments", err)
		return
	}
	current := findAssignment(assignments, id)
	if current == nil {
		writeError(w, http.StatusNotFound, "Shift not found", nil)
		return
	}
	day := req.Date
	if day.IsZero() {
		day = current.Date
	}

	next := roster.Reassign(assignments, id, req.StaffID, day)
	if err := store.PutList(ctx, h.Store, store.KeyAssignments, next); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save assignments", err)
		return
	}
	writeJSON(w, http.StatusOK, findAssignment(next, id))
}

// RequestSwap flags a shift for swapping.
func (h *Handler) RequestSwap(w http.ResponseWriter, r *http.Request) {
	h.setAssignmentStatus(w, r, roster.RequestSwap)
}

// ConfirmAssignment confirms a shift.
func (h *Handler) ConfirmAssignment(w http.ResponseWriter, r *http.Request) {
	h.setAssignmentStatus(w, r, roster.ConfirmAssignment)
}

func (h *Handler) setAssignmentStatus(w http.ResponseWriter, r *http.Request, op func([]roster.Assignment, string) []roster.Assignment) {
	id := chi.URLParam(r, "id")

	h.mu.Lock()
	defer h.mu.Unlock()

	ctx := r.Context()
	assignments, err := store.GetList[roster.Assignment](ctx, h.Store, store.KeyAssignments)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load assignments", err)
		return
	}
	if !hasAssignment(assignments, id) {
		writeError(w, http.StatusNotFound, "Shift not found", nil)
		return
	}
	next := op(assignments, id)
	if err := store.PutList(ctx, h.Store, store.KeyAssignments, next); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save assignments", err)
		return
	}
	writeJSON(w, http.StatusOK, findAssignment(next, id))
}

func hasAssignment(assignments []roster.Assignment, id string) bool {
	return findAssignment(assignments, id) != nil
}

func findAssignment(assignments []roster.Assignment, id string) *roster.Assignment {
	for i := range assignments {
		if assignments[i].ID == id {
			return &assignments[i]
		}
	}
	return nil
}

// =============================================================================
// ROSTER: AUTO-PLANNING
// =============================================================================

// Autoplan fills the week's coverage deficits.
func (h *Handler) Autoplan(w http.ResponseWriter, r *http.Request) {
	var req AutoplanRequest
	if !h.decode(w, r, &req) {
		return
	}
	week := dates.WeekOf(req.Start)

	h.mu.Lock()
	defer h.mu.Unlock()

	ctx := r.Context()
	staff, err := h.staffSnapshot(r)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load staff", err)
		return
	}
	assignments, err := store.GetList[roster.Assignment](ctx, h.Store, store.KeyAssignments)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load assignments", err)
		return
	}
	offs, err := store.GetList[roster.TimeOff](ctx, h.Store, store.KeyTimeOff)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load time off", err)
		return
	}
	reqs, err := store.GetList[roster.CoverageRequirement](ctx, h.Store, store.KeyCoverage)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load coverage", err)
		return
	}

	result := roster.Autoplan(week, staff, assignments, offs, reqs, h.prefixedID("as"))
	if err := store.PutList(ctx, h.Store, store.KeyAssignments, result.Assignments); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save assignments", err)
		return
	}

	h.Log.Info("autoplan completed",
		zap.String("week", week.Start().String()),
		zap.Int("created", len(result.Created)))

	weekAssignments := assignmentsInWeek(result.Assignments, week)
	writeJSON(w, http.StatusOK, AutoplanResponse{
		Created:     result.Created,
		Assignments: weekAssignments,
		Matrix:      roster.CoverageMatrix(week, weekAssignments, reqs),
	})
}

// =============================================================================
// ROSTER: COVERAGE AND TIME OFF
// =============================================================================

// GetCoverage returns the required-headcount table.
func (h *Handler) GetCoverage(w http.ResponseWriter, r *http.Request) {
	reqs, err := store.GetList[roster.CoverageRequirement](r.Context(), h.Store, store.KeyCoverage)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load coverage", err)
		return
	}
	writeJSON(w, http.StatusOK, reqs)
}

// PutCoverage replaces the required-headcount table.
func (h *Handler) PutCoverage(w http.ResponseWriter, r *http.Request) {
	var req CoverageRequest
	if !h.decode(w, r, &req) {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if err := store.PutList(r.Context(), h.Store, store.KeyCoverage, req.Coverage); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save coverage", err)
		return
	}
	writeJSON(w, http.StatusOK, req.Coverage)
}

// ListTimeOff returns all absence intervals.
func (h *Handler) ListTimeOff(w http.ResponseWriter, r *http.Request) {
	offs, err := store.GetList[roster.TimeOff](r.Context(), h.Store, store.KeyTimeOff)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load time off", err)
		return
	}
	writeJSON(w, http.StatusOK, offs)
}

// CreateTimeOff files an absence interval.
func (h *Handler) CreateTimeOff(w http.ResponseWriter, r *http.Request) {
	var req TimeOffRequest
	if !h.decode(w, r, &req) {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	ctx := r.Context()
	offs, err := store.GetList[roster.TimeOff](ctx, h.Store, store.KeyTimeOff)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load time off", err)
		return
	}
	next, err := roster.CreateTimeOff(offs, roster.TimeOff{
		ID:      h.newID("to"),
		StaffID: req.StaffID,
		From:    req.From,
		To:      req.To,
		Reason:  req.Reason,
		Status:  req.Status,
	})
	if err != nil {
		writeError(w, http.StatusBadRequest, "Time off rejected", err)
		return
	}
	if err := store.PutList(ctx, h.Store, store.KeyTimeOff, next); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save time off", err)
		return
	}
	writeJSON(w, http.StatusCreated, next[0])
}

// =============================================================================
// BILLING: LEDGER VIEWS
// =============================================================================

func (h *Handler) billingSnapshot(r *http.Request) ([]billing.BenefitPlan, []billing.InvoiceItem, []billing.ResidentRef, error) {
	ctx := r.Context()
	plans, err := store.GetList[billing.BenefitPlan](ctx, h.Store, store.KeyBenefitPlans)
	if err != nil {
		return nil, nil, nil, err
	}
	items, err := store.GetList[billing.InvoiceItem](ctx, h.Store, store.KeyInvoiceItems)
	if err != nil {
		return nil, nil, nil, err
	}
	residents, err := store.GetList[directory.Resident](ctx, h.Store, store.KeyResidents)
	if err != nil {
		return nil, nil, nil, err
	}
	return plans, items, residentRefs(residents), nil
}

func residentRefs(residents []directory.Resident) []billing.ResidentRef {
	refs := make([]billing.ResidentRef, len(residents))
	for i, res := range residents {
		refs[i] = billing.ResidentRef{ID: res.ID, FullName: res.FullName, Room: res.Room}
	}
	return refs
}

func billingFilters(r *http.Request) billing.Filters {
	f := billing.Filters{
		Name:    r.URL.Query().Get("name"),
		Insurer: r.URL.Query().Get("insurer"),
	}
	if raw := r.URL.Query().Get("careLevel"); raw != "" {
		if level, err := strconv.Atoi(raw); err == nil {
			f.CareLevel = billing.CareLevel(level)
		}
	}
	return f
}

// GetLedger returns the computed monthly table with summary totals.
func (h *Handler) GetLedger(w http.ResponseWriter, r *http.Request) {
	month := monthParam(r)
	plans, items, refs, err := h.billingSnapshot(r)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load billing data", err)
		return
	}

	rows := billing.ComputeRows(plans, items, refs, month, billingFilters(r), billing.SortKey(r.URL.Query().Get("sort")))
	writeJSON(w, http.StatusOK, LedgerResponse{
		Month:   month,
		Rows:    rows,
		Summary: billing.Summarize(rows),
	})
}

// ExportLedgerCSV streams the monthly table as CSV.
func (h *Handler) ExportLedgerCSV(w http.ResponseWriter, r *http.Request) {
	month := monthParam(r)
	plans, items, refs, err := h.billingSnapshot(r)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load billing data", err)
		return
	}

	rows := billing.ComputeRows(plans, items, refs, month, billingFilters(r), billing.SortKey(r.URL.Query().Get("sort")))
	// MonthCSV already includes its header row.
	writeCSV(w, "abrechnung_"+month.String()+".csv", nil, billing.MonthCSV(rows, month))
}

// GetResidentItems returns one resident's bookings for the month,
// every category included.
func (h *Handler) GetResidentItems(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	month := monthParam(r)

	items, err := store.GetList[billing.InvoiceItem](r.Context(), h.Store, store.KeyInvoiceItems)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load bookings", err)
		return
	}
	writeJSON(w, http.StatusOK, billing.MonthItems(items, id, month))
}

// =============================================================================
// BILLING: MUTATIONS
// =============================================================================

// CreateItem books one invoice line item.
func (h *Handler) CreateItem(w http.ResponseWriter, r *http.Request) {
	var req InvoiceItemRequest
	if !h.decode(w, r, &req) {
		return
	}
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid amount", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	ctx := r.Context()
	items, err := store.GetList[billing.InvoiceItem](ctx, h.Store, store.KeyInvoiceItems)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load bookings", err)
		return
	}
	next, err := billing.AddItem(items, billing.InvoiceItem{
		PatientID:   req.ResidentID,
		Date:        req.Date,
		Category:    req.Category,
		Description: req.Description,
		Amount:      amount,
		CoveredBy:   req.CoveredBy,
	}, h.prefixedID("bi"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Booking rejected", err)
		return
	}
	if err := store.PutList(ctx, h.Store, store.KeyInvoiceItems, next); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save bookings", err)
		return
	}
	writeJSON(w, http.StatusCreated, next[0])
}

// DeleteItem removes one booking.
func (h *Handler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	h.mu.Lock()
	defer h.mu.Unlock()

	ctx := r.Context()
	items, err := store.GetList[billing.InvoiceItem](ctx, h.Store, store.KeyInvoiceItems)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load bookings", err)
		return
	}
	if err := store.PutList(ctx, h.Store, store.KeyInvoiceItems, billing.DeleteItem(items, id)); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save bookings", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// UpsertPlan replaces a resident's benefit plan. Omitted budgets fall
// back to the care-level cap table.
func (h *Handler) UpsertPlan(w http.ResponseWriter, r *http.Request) {
	residentID := chi.URLParam(r, "residentId")
	var req PlanRequest
	if !h.decode(w, r, &req) {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	ctx := r.Context()
	plans, err := store.GetList[billing.BenefitPlan](ctx, h.Store, store.KeyBenefitPlans)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load plans", err)
		return
	}

	budgets := billing.DefaultBudgets(req.CareLevel)
	if req.Budgets != nil {
		budgets = *req.Budgets
	}
	plan := billing.BenefitPlan{
		PatientID: residentID,
		CareLevel: req.CareLevel,
		Budgets:   budgets,
		ValidFrom: dates.Today(),
	}
	// Keep insurer details from an existing plan.
	for _, p := range plans {
		if p.PatientID == residentID {
			plan.Insurer = p.Insurer
			plan.InsurerName = p.InsurerName
			plan.ValidFrom = p.ValidFrom
			break
		}
	}

	next := billing.UpsertPlan(plans, plan)
	if err := store.PutList(ctx, h.Store, store.KeyBenefitPlans, next); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save plans", err)
		return
	}
	writeJSON(w, http.StatusOK, plan)
}

// AutoDemo books staggered demo values into the month.
func (h *Handler) AutoDemo(w http.ResponseWriter, r *http.Request) {
	month := monthParam(r)

	h.mu.Lock()
	defer h.mu.Unlock()

	ctx := r.Context()
	plans, err := store.GetList[billing.BenefitPlan](ctx, h.Store, store.KeyBenefitPlans)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load plans", err)
		return
	}
	items, err := store.GetList[billing.InvoiceItem](ctx, h.Store, store.KeyInvoiceItems)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load bookings", err)
		return
	}

	next := billing.AutoDemo(plans, items, month, h.prefixedID("bi"))
	if err := store.PutList(ctx, h.Store, store.KeyInvoiceItems, next); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save bookings", err)
		return
	}

	h.Log.Info("demo bookings created",
		zap.String("month", month.String()),
		zap.Int("added", len(next)-len(items)))
	writeJSON(w, http.StatusOK, next)
}
