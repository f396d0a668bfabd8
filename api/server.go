/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. RequestID:  Unique ID per request for tracing
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. zap:        Structured request logging
  4. CORS:       Cross-origin requests for frontend

ROUTE GROUPS:
  /api/roster/*        Duty roster, autoplan, coverage, time off
  /api/billing/*       Benefit plans and the monthly ledger
  /api/residents/*     Resident records and room moves
  /api/rooms/*         Room board and occupancy
  /api/medication/*    Daily plan and preparation
  /api/mail/*          Relative mail
  /api/chat/*          Relative chat and broadcasts
  /api/users, /api/settings, /api/contacts
  /api/demo/reset      Store reset + reseed (dev only)

SECURITY NOTE:
  No authentication middleware currently. All endpoints are public.

SEE ALSO:
  - handlers.go: roster and billing handlers
  - care.go: directory and medication handlers
  - comms.go: mail and chat handlers
  - cmd/server/main.go: Server startup
*/
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(h.Log))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", h.Health)

		// Duty roster
		r.Route("/roster", func(r chi.Router) {
			r.Get("/week", h.GetWeek)
			r.Get("/week/csv", h.ExportWeekCSV)
			r.Post("/assignments", h.CreateAssignment)
			r.Put("/assignments/{id}", h.UpdateAssignment)
			r.Delete("/assignments/{id}", h.DeleteAssignment)
			r.Post("/assignments/{id}/reassign", h.ReassignAssignment)
			r.Post("/assignments/{id}/swap", h.RequestSwap)
			r.Post("/assignments/{id}/confirm", h.ConfirmAssignment)
			r.Post("/autoplan", h.Autoplan)
			r.Get("/coverage", h.GetCoverage)
			r.Put("/coverage", h.PutCoverage)
			r.Get("/timeoff", h.ListTimeOff)
			r.Post("/timeoff", h.CreateTimeOff)
		})

		// Billing ledger
		r.Route("/billing", func(r chi.Router) {
			r.Get("/ledger", h.GetLedger)
			r.Get("/ledger/csv", h.ExportLedgerCSV)
			r.Get("/residents/{id}/items", h.GetResidentItems)
			r.Post("/items", h.CreateItem)
			r.Delete("/items/{id}", h.DeleteItem)
			r.Put("/plans/{residentId}", h.UpsertPlan)
			r.Post("/demo", h.AutoDemo)
		})

		// Residents
		r.Route("/residents", func(r chi.Router) {
			r.Get("/", h.ListResidents)
			r.Get("/{id}", h.GetResident)
			r.Put("/{id}", h.UpsertResident)
			r.Post("/{id}/move", h.MoveResident)
		})

		// Rooms
		r.Route("/rooms", func(r chi.Router) {
			r.Get("/", h.ListRooms)
			r.Get("/moves", h.ListMoves)
			r.Put("/{id}/status", h.SetRoomStatus)
		})

		// Contacts
		r.Route("/contacts", func(r chi.Router) {
			r.Get("/", h.ListContacts)
			r.Put("/{id}", h.UpsertContact)
		})

		// Users and settings
		r.Route("/users", func(r chi.Router) {
			r.Get("/", h.ListUsers)
			r.Put("/{id}", h.UpsertUser)
			r.Post("/{id}/deactivate", h.DeactivateUser)
		})
		r.Get("/settings", h.GetSettings)
		r.Put("/settings", h.PutSettings)

		// Medication
		r.Route("/medication", func(r chi.Router) {
			r.Get("/plan", h.GetMedPlan)
			r.Get("/plan/csv", h.ExportMedPlanCSV)
			r.Post("/prep/toggle", h.TogglePrep)
			r.Post("/prep/all", h.PrepAll)
			r.Put("/{id}", h.UpsertMedication)
			r.Delete("/{id}", h.DeleteMedication)
		})

		// Mail
		r.Route("/mail", func(r chi.Router) {
			r.Get("/", h.ListMail)
			r.Get("/csv", h.ExportMailCSV)
			r.Get("/boxes", h.ListMailboxes)
			r.Post("/send", h.SendMail)
			r.Post("/{id}/move", h.MoveMail)
			r.Post("/{id}/read", h.ReadMail)
		})

		// Chat
		r.Route("/chat", func(r chi.Router) {
			r.Get("/contacts", h.SearchChatContacts)
			r.Post("/send", h.SendChat)
			r.Post("/broadcast", h.BroadcastChat)
			r.Post("/status-message", h.StatusMessage)
			r.Get("/{contactId}", h.GetThread)
			r.Get("/{contactId}/transcript.txt", h.ExportTranscript)
		})

		// Demo
		r.Post("/demo/reset", h.ResetDemo)
	})

	return r
}

// requestLogger logs one line per request with method, path, status,
// and duration.
func requestLogger(log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			log.Info("http request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("duration", time.Since(start)),
				zap.String("requestId", middleware.GetReqID(r.Context())))
		})
	}
}
