package messaging

import (
	"sort"
	"strings"
	"time"

	"github.com/healthreply/pflegenetz/directory"
)

// =============================================================================
// CHAT
// =============================================================================

// Sender distinguishes staff from relatives in a thread.
type Sender string

const (
	SenderCare     Sender = "care"
	SenderRelative Sender = "relative"
)

// ChatMessage is one message in a per-contact thread.
type ChatMessage struct {
	ID        string `json:"id"`
	Timestamp string `json:"ts"` // RFC 3339
	ContactID string `json:"contactId"`
	Text      string `json:"text"`
	From      Sender `json:"from"`
	Delivered bool   `json:"delivered,omitempty"`
	Read      bool   `json:"read,omitempty"`
}

// Thread returns one contact's messages, newest first.
func Thread(items []ChatMessage, contactID string) []ChatMessage {
	var out []ChatMessage
	for _, m := range items {
		if m.ContactID == contactID {
			out = append(out, m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp > out[j].Timestamp })
	return out
}

// LastMessage returns the newest message of a thread, or false when the
// thread is empty. It drives the contact list preview.
func LastMessage(items []ChatMessage, contactID string) (ChatMessage, bool) {
	thread := Thread(items, contactID)
	if len(thread) == 0 {
		return ChatMessage{}, false
	}
	return thread[0], true
}

// SendChat prepends a staff message to the contact's thread. Blank
// texts are dropped.
func SendChat(items []ChatMessage, contactID, text string, newID func() string, now time.Time) ([]ChatMessage, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return items, false
	}
	msg := ChatMessage{
		ID:        newID(),
		Timestamp: now.Format(time.RFC3339),
		ContactID: contactID,
		Text:      text,
		From:      SenderCare,
		Delivered: true,
	}
	return append([]ChatMessage{msg}, items...), true
}

// Broadcast sends one templated update to every verified contact,
// personalized with the linked resident's name. It returns the new
// message list and how many contacts were reached.
func Broadcast(items []ChatMessage, contacts []directory.Contact, t Template, name func(residentID string) string, newID func() string, now time.Time) ([]ChatMessage, int) {
	var batch []ChatMessage
	for _, c := range contacts {
		if !c.Verified {
			continue
		}
		resident := "Ihrem Angehörigen"
		if c.ResidentID != "" {
			if n := name(c.ResidentID); n != "" && n != "—" {
				resident = n
			}
		}
		batch = append(batch, ChatMessage{
			ID:        newID(),
			Timestamp: now.Format(time.RFC3339),
			ContactID: c.ID,
			Text:      broadcastText(t, resident),
			From:      SenderCare,
			Delivered: true,
		})
	}
	return append(batch, items...), len(batch)
}

func broadcastText(t Template, residentName string) string {
	switch t {
	case TemplateDaily:
		return "Kurzes Update zu " + residentName + ": Heute hat alles gut geklappt, freundlicher Tag."
	case TemplateVisit:
		return "Hinweis zu " + residentName + ": Morgen um 14:00 Uhr Termin (Frisör)."
	default:
		return "Rückmeldung zu " + residentName + ": Tag verlief ruhig."
	}
}

// Transcript renders one thread as plain text, oldest first, one
// bracketed line per message.
func Transcript(items []ChatMessage, contactID string) string {
	var msgs []ChatMessage
	for _, m := range items {
		if m.ContactID == contactID {
			msgs = append(msgs, m)
		}
	}
	sort.SliceStable(msgs, func(i, j int) bool { return msgs[i].Timestamp < msgs[j].Timestamp })
	lines := make([]string, 0, len(msgs))
	for _, m := range msgs {
		who := "Pflege"
		if m.From == SenderRelative {
			who = "Angehörige"
		}
		lines = append(lines, "["+m.Timestamp+"] "+who+": "+m.Text)
	}
	return strings.Join(lines, "\n")
}
