/*
Package messaging covers the two relative-facing channels: shared email
mailboxes and the chat gateway.

PURPOSE:
  Mail is organized per mailbox and folder. Sending only produces the
  SENT copy in this demo; nothing leaves the building. Chat messages
  form per-contact threads; broadcasts fan a template out to every
  verified contact.

SEE ALSO:
  - status.go for the generated daily status texts
  - directory.Contact for consent and verification flags
*/
package messaging

import (
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/healthreply/pflegenetz/directory"
)

// ErrUnknownMailbox rejects sending from a mailbox that does not exist.
var ErrUnknownMailbox = errors.New("messaging: unknown mailbox")

// =============================================================================
// MAIL TYPES
// =============================================================================

// MailFolder is one of the four fixed folders of a mailbox.
type MailFolder string

const (
	FolderInbox   MailFolder = "INBOX"
	FolderSent    MailFolder = "SENT"
	FolderArchive MailFolder = "ARCHIVE"
	FolderSpam    MailFolder = "SPAM"
)

// MailFolders is the sidebar display order.
var MailFolders = []MailFolder{FolderInbox, FolderSent, FolderArchive, FolderSpam}

type MailboxKind string

const (
	MailboxPersonal MailboxKind = "personal"
	MailboxShared   MailboxKind = "shared"
)

// Mailbox is a sending identity, personal or shared.
type Mailbox struct {
	ID      string      `json:"id"`
	Kind    MailboxKind `json:"kind"`
	Label   string      `json:"label"`
	Address string      `json:"address"`
}

// MailMessage lives in exactly one mailbox and folder. ResidentID and
// ContactEmail are optional cross-links into the directory.
type MailMessage struct {
	ID           string     `json:"id"`
	MailboxID    string     `json:"mailboxId"`
	Folder       MailFolder `json:"folder"`
	ThreadID     string     `json:"threadId"`
	Subject      string     `json:"subject"`
	From         string     `json:"from"`
	To           []string   `json:"to"`
	Date         string     `json:"date"` // RFC 3339
	Body         string     `json:"body"`
	Read         bool       `json:"read"`
	ResidentID   string     `json:"residentId,omitempty"`
	ContactEmail string     `json:"contactEmail,omitempty"`
}

// =============================================================================
// MAIL LIST
// =============================================================================

// ListMail returns the messages of one mailbox folder, newest first,
// optionally narrowed by a case-insensitive query over subject, sender,
// recipients and body.
func ListMail(items []MailMessage, mailboxID string, folder MailFolder, query string) []MailMessage {
	q := strings.ToLower(strings.TrimSpace(query))
	var out []MailMessage
	for _, m := range items {
		if m.MailboxID != mailboxID || m.Folder != folder {
			continue
		}
		if q != "" && !mailMatches(m, q) {
			continue
		}
		out = append(out, m)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date > out[j].Date })
	return out
}

func mailMatches(m MailMessage, q string) bool {
	return strings.Contains(strings.ToLower(m.Subject), q) ||
		strings.Contains(strings.ToLower(m.From), q) ||
		strings.Contains(strings.ToLower(strings.Join(m.To, ",")), q) ||
		strings.Contains(strings.ToLower(m.Body), q)
}

// =============================================================================
// MAIL MUTATIONS
// =============================================================================

// MoveTo files a message into another folder.
func MoveTo(items []MailMessage, id string, to MailFolder) []MailMessage {
	out := make([]MailMessage, len(items))
	for i, m := range items {
		if m.ID == id {
			m.Folder = to
		}
		out[i] = m
	}
	return out
}

// MarkRead sets the read flag of a message.
func MarkRead(items []MailMessage, id string, read bool) []MailMessage {
	out := make([]MailMessage, len(items))
	for i, m := range items {
		if m.ID == id {
			m.Read = read
		}
		out[i] = m
	}
	return out
}

// SendRequest carries everything needed to compose a message.
type SendRequest struct {
	FromBoxID    string   `json:"fromBoxId" validate:"required"`
	To           []string `json:"to" validate:"required,min=1"`
	Subject      string   `json:"subject"`
	Body         string   `json:"body"`
	ResidentID   string   `json:"residentId,omitempty"`
	ContactEmail string   `json:"contactEmail,omitempty"`
}

// ThreadID derives a stable thread key from the resident and contact
// links, falling back to generic buckets when either is absent.
func (r SendRequest) ThreadID() string {
	resident := r.ResidentID
	if resident == "" {
		resident = "gen"
	}
	contact := r.ContactEmail
	if contact == "" {
		contact = "ext"
	}
	return "t-" + resident + "-" + contact
}

// Send composes the outgoing message and prepends its SENT copy. The
// mailbox must exist. An empty subject is replaced with a placeholder.
func Send(items []MailMessage, boxes []Mailbox, req SendRequest, newID func() string, now time.Time) ([]MailMessage, MailMessage, error) {
	var from *Mailbox
	for i := range boxes {
		if boxes[i].ID == req.FromBoxID {
			from = &boxes[i]
			break
		}
	}
	if from == nil {
		return items, MailMessage{}, ErrUnknownMailbox
	}
	subject := req.Subject
	if subject == "" {
		subject = "(ohne Betreff)"
	}
	sent := MailMessage{
		ID:           newID(),
		MailboxID:    from.ID,
		Folder:       FolderSent,
		ThreadID:     req.ThreadID(),
		Subject:      subject,
		From:         from.Address,
		To:           req.To,
		Date:         now.Format(time.RFC3339),
		Body:         req.Body,
		Read:         true,
		ResidentID:   req.ResidentID,
		ContactEmail: req.ContactEmail,
	}
	return append([]MailMessage{sent}, items...), sent, nil
}

// =============================================================================
// MAIL EXPORT
// =============================================================================

// MailCSVHeader matches the columns of MailCSV.
var MailCSVHeader = []string{"Date", "From", "To", "Subject", "Folder", "Resident", "Contact"}

// MailCSV renders a mail list for export. The resident column holds the
// display name when the link resolves, empty otherwise.
func MailCSV(list []MailMessage, name func(residentID string) string) [][]string {
	records := make([][]string, 0, len(list))
	for _, m := range list {
		resident := ""
		if m.ResidentID != "" {
			resident = name(m.ResidentID)
		}
		records = append(records, []string{
			m.Date, m.From, strings.Join(m.To, ","), m.Subject,
			string(m.Folder), resident, m.ContactEmail,
		})
	}
	return records
}

// =============================================================================
// REPLY TEMPLATES
// =============================================================================

// Template selects one of the fixed relative-update texts.
type Template string

const (
	TemplateDaily   Template = "daily"
	TemplateNeutral Template = "neutral"
	TemplateVisit   Template = "visit"
)

// TemplateText renders a template for a resident display name. Unknown
// templates fall back to the neutral text.
func TemplateText(t Template, residentName string) string {
	switch t {
	case TemplateDaily:
		return "Hallo, kurzes Update zu " + residentName + ": Heute guter Appetit und ein kurzer Spaziergang. Herzliche Grüße!"
	case TemplateVisit:
		return "Hinweis zu " + residentName + ": Morgen um 14:00 Uhr kommt der Frisör. Liebe Grüße"
	default:
		return "Kurze Rückmeldung zu " + residentName + ": Der Tag verlief ruhig, alles in Ordnung."
	}
}

// =============================================================================
// CONTACT SEARCH
// =============================================================================

// SearchContacts returns the verified contacts matching a query over
// name, email and relation. An empty query keeps all verified contacts.
func SearchContacts(contacts []directory.Contact, query string) []directory.Contact {
	q := strings.ToLower(strings.TrimSpace(query))
	var out []directory.Contact
	for _, c := range contacts {
		if !c.Verified {
			continue
		}
		if q != "" &&
			!strings.Contains(strings.ToLower(c.FullName), q) &&
			!strings.Contains(strings.ToLower(c.Email), q) &&
			!strings.Contains(strings.ToLower(c.Relation), q) {
			continue
		}
		out = append(out, c)
	}
	return out
}
