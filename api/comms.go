/*
comms.go - HTTP handlers: relative mail and chat messaging

ENDPOINTS (this file):
  Mail:
    GET    /api/mail/boxes                 Mailboxes
    GET    /api/mail                       List (box/folder/q params)
    GET    /api/mail/csv                   Export current view
    POST   /api/mail/send                  Send (stores a SENT copy)
    POST   /api/mail/{id}/move             Move to another folder
    POST   /api/mail/{id}/read             Mark read/unread

  Chat:
    GET    /api/chat/contacts              Searchable verified contacts
    GET    /api/chat/{contactId}           One thread, newest first
    GET    /api/chat/{contactId}/transcript.txt   Plain-text export
    POST   /api/chat/send                  Post a staff message
    POST   /api/chat/broadcast             Template fan-out to verified contacts
    POST   /api/chat/status-message        Generate a prose daily update

SEE ALSO:
  - handlers.go: handler context and response helpers
*/
package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/healthreply/pflegenetz/directory"
	"github.com/healthreply/pflegenetz/messaging"
	"github.com/healthreply/pflegenetz/store"
)

// =============================================================================
// MAIL
// =============================================================================

// ListMailboxes returns the configured mailboxes.
func (h *Handler) ListMailboxes(w http.ResponseWriter, r *http.Request) {
	boxes, err := store.GetList[messaging.Mailbox](r.Context(), h.Store, store.KeyMailboxes)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load mailboxes", err)
		return
	}
	writeJSON(w, http.StatusOK, boxes)
}

func mailView(r *http.Request) (string, messaging.MailFolder, string) {
	folder := messaging.MailFolder(r.URL.Query().Get("folder"))
	if folder == "" {
		folder = messaging.FolderInbox
	}
	return r.URL.Query().Get("box"), folder, r.URL.Query().Get("q")
}

// ListMail returns one mailbox folder, filtered and newest first.
func (h *Handler) ListMail(w http.ResponseWriter, r *http.Request) {
	box, folder, query := mailView(r)
	items, err := store.GetList[messaging.MailMessage](r.Context(), h.Store, store.KeyMail)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load mail", err)
		return
	}
	writeJSON(w, http.StatusOK, messaging.ListMail(items, box, folder, query))
}

// ExportMailCSV streams the current mail view as CSV.
func (h *Handler) ExportMailCSV(w http.ResponseWriter, r *http.Request) {
	box, folder, query := mailView(r)

	ctx := r.Context()
	items, err := store.GetList[messaging.MailMessage](ctx, h.Store, store.KeyMail)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load mail", err)
		return
	}
	residents, err := store.GetList[directory.Resident](ctx, h.Store, store.KeyResidents)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load residents", err)
		return
	}

	list := messaging.ListMail(items, box, folder, query)
	records := messaging.MailCSV(list, func(id string) string {
		return directory.ResidentName(residents, id)
	})
	writeCSV(w, "nachrichten_"+string(folder)+".csv", messaging.MailCSVHeader, records)
}

// SendMail stores a SENT copy of an outgoing message.
func (h *Handler) SendMail(w http.ResponseWriter, r *http.Request) {
	var req messaging.SendRequest
	if !h.decode(w, r, &req) {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	ctx := r.Context()
	items, err := store.GetList[messaging.MailMessage](ctx, h.Store, store.KeyMail)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load mail", err)
		return
	}
	boxes, err := store.GetList[messaging.Mailbox](ctx, h.Store, store.KeyMailboxes)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load mailboxes", err)
		return
	}

	next, sent, err := messaging.Send(items, boxes, req, h.prefixedID("m"), h.now())
	if err != nil {
		writeError(w, http.StatusBadRequest, "Cannot send", err)
		return
	}
	if err := store.PutList(ctx, h.Store, store.KeyMail, next); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save mail", err)
		return
	}
	writeJSON(w, http.StatusCreated, sent)
}

// MoveMail moves a message to another folder.
func (h *Handler) MoveMail(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req struct {
		Folder messaging.MailFolder `json:"folder" validate:"required"`
	}
	if !h.decode(w, r, &req) {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	ctx := r.Context()
	items, err := store.GetList[messaging.MailMessage](ctx, h.Store, store.KeyMail)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load mail", err)
		return
	}
	next := messaging.MoveTo(items, id, req.Folder)
	if err := store.PutList(ctx, h.Store, store.KeyMail, next); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save mail", err)
		return
	}
	writeJSON(w, http.StatusOK, next)
}

// ReadMail marks a message read or unread.
func (h *Handler) ReadMail(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	read := true
	if raw := r.URL.Query().Get("read"); raw != "" {
		if v, err := strconv.ParseBool(raw); err == nil {
			read = v
		}
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	ctx := r.Context()
	items, err := store.GetList[messaging.MailMessage](ctx, h.Store, store.KeyMail)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load mail", err)
		return
	}
	next := messaging.MarkRead(items, id, read)
	if err := store.PutList(ctx, h.Store, store.KeyMail, next); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save mail", err)
		return
	}
	writeJSON(w, http.StatusOK, next)
}

// =============================================================================
// CHAT
// =============================================================================

// SearchChatContacts returns verified contacts matching the query.
func (h *Handler) SearchChatContacts(w http.ResponseWriter, r *http.Request) {
	contacts, err := store.GetList[directory.Contact](r.Context(), h.Store, store.KeyContacts)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load contacts", err)
		return
	}
	writeJSON(w, http.StatusOK, messaging.SearchContacts(contacts, r.URL.Query().Get("q")))
}

// GetThread returns one contact thread, newest first.
func (h *Handler) GetThread(w http.ResponseWriter, r *http.Request) {
	contactID := chi.URLParam(r, "contactId")
	items, err := store.GetList[messaging.ChatMessage](r.Context(), h.Store, store.KeyChat)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load chat", err)
		return
	}
	writeJSON(w, http.StatusOK, messaging.Thread(items, contactID))
}

// ExportTranscript streams one thread as plain text, oldest first.
func (h *Handler) ExportTranscript(w http.ResponseWriter, r *http.Request) {
	contactID := chi.URLParam(r, "contactId")
	items, err := store.GetList[messaging.ChatMessage](r.Context(), h.Store, store.KeyChat)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load chat", err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="chat_`+contactID+`.txt"`)
	_, _ = w.Write([]byte(messaging.Transcript(items, contactID)))
}

// SendChat posts a staff message to one contact thread.
func (h *Handler) SendChat(w http.ResponseWriter, r *http.Request) {
	var req ChatSendRequest
	if !h.decode(w, r, &req) {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	ctx := r.Context()
	items, err := store.GetList[messaging.ChatMessage](ctx, h.Store, store.KeyChat)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load chat", err)
		return
	}
	next, ok := messaging.SendChat(items, req.ContactID, req.Text, h.prefixedID("cm"), h.now())
	if !ok {
		writeError(w, http.StatusBadRequest, "Empty message", nil)
		return
	}
	if err := store.PutList(ctx, h.Store, store.KeyChat, next); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save chat", err)
		return
	}
	writeJSON(w, http.StatusCreated, next[0])
}

// BroadcastChat fans a template message out to all verified contacts.
func (h *Handler) BroadcastChat(w http.ResponseWriter, r *http.Request) {
	var req BroadcastRequest
	if !h.decode(w, r, &req) {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	ctx := r.Context()
	items, err := store.GetList[messaging.ChatMessage](ctx, h.Store, store.KeyChat)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load chat", err)
		return
	}
	contacts, err := store.GetList[directory.Contact](ctx, h.Store, store.KeyContacts)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load contacts", err)
		return
	}
	residents, err := store.GetList[directory.Resident](ctx, h.Store, store.KeyResidents)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load residents", err)
		return
	}

	next, reached := messaging.Broadcast(items, contacts, req.Template, func(id string) string {
		return directory.ResidentName(residents, id)
	}, h.prefixedID("cm"), h.now())
	if err := store.PutList(ctx, h.Store, store.KeyChat, next); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save chat", err)
		return
	}
	h.Log.Info("broadcast sent",
		zap.String("template", string(req.Template)),
		zap.Int("reached", reached))
	writeJSON(w, http.StatusOK, BroadcastResponse{Reached: reached})
}

// StatusMessage generates a prose daily update for one resident.
func (h *Handler) StatusMessage(w http.ResponseWriter, r *http.Request) {
	var req StatusMessageRequest
	if !h.decode(w, r, &req) {
		return
	}
	residents, err := store.GetList[directory.Resident](r.Context(), h.Store, store.KeyResidents)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load residents", err)
		return
	}
	name := directory.ResidentName(residents, req.ResidentID)
	writeJSON(w, http.StatusOK, StatusMessageResponse{
		Text: messaging.GenerateStatus(name, req.Categories),
	})
}
