package messaging

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	testBoxes = []Mailbox{
		{ID: "mb-personal", Kind: MailboxPersonal, Label: "Mein Postfach", Address: "pflege1@example.com"},
		{ID: "mb-shared", Kind: MailboxShared, Label: "Shared", Address: "info@pflege.de"},
	}
	testMail = []MailMessage{
		{ID: "m1", MailboxID: "mb-personal", Folder: FolderInbox, Subject: "Frage zu Medikamenten", From: "anna@example.com", To: []string{"pflege1@example.com"}, Date: "2025-08-02T09:00:00Z", Body: "Wie geht es?", ResidentID: "p1", ContactEmail: "anna@example.com"},
		{ID: "m2", MailboxID: "mb-personal", Folder: FolderInbox, Subject: "Rechnung Juli", From: "peter@example.com", To: []string{"pflege1@example.com"}, Date: "2025-08-03T10:00:00Z", Body: "Anbei die Frage zur Rechnung."},
		{ID: "m3", MailboxID: "mb-shared", Folder: FolderInbox, Subject: "Allgemeine Anfrage", From: "x@example.com", To: []string{"info@pflege.de"}, Date: "2025-08-01T08:00:00Z"},
		{ID: "m4", MailboxID: "mb-personal", Folder: FolderSent, Subject: "Re: Frage", From: "pflege1@example.com", To: []string{"anna@example.com"}, Date: "2025-08-02T12:00:00Z", Read: true},
	}
	mailNow = time.Date(2025, 8, 4, 12, 0, 0, 0, time.UTC)
)

func mintIDs(prefix string) func() string {
	n := 0
	return func() string {
		n++
		return prefix + string(rune('0'+n))
	}
}

func TestListMailScopesBoxAndFolder(t *testing.T) {
	// GIVEN messages spread over two mailboxes and folders
	// WHEN the personal inbox is listed
	list := ListMail(testMail, "mb-personal", FolderInbox, "")

	// THEN only its messages appear, newest first
	require.Len(t, list, 2)
	assert.Equal(t, "m2", list[0].ID)
	assert.Equal(t, "m1", list[1].ID)
}

func TestListMailQueryMatchesAllFields(t *testing.T) {
	// query hits subject on m1 and body on m2, case-insensitively
	list := ListMail(testMail, "mb-personal", FolderInbox, "  FRAGE ")
	require.Len(t, list, 2)

	bySender := ListMail(testMail, "mb-personal", FolderInbox, "peter@")
	require.Len(t, bySender, 1)
	assert.Equal(t, "m2", bySender[0].ID)

	assert.Empty(t, ListMail(testMail, "mb-personal", FolderInbox, "nichts"))
}

func TestMoveToAndMarkRead(t *testing.T) {
	moved := MoveTo(testMail, "m1", FolderArchive)
	assert.Equal(t, FolderArchive, moved[0].Folder)
	assert.Equal(t, FolderInbox, testMail[0].Folder, "input untouched")

	read := MarkRead(testMail, "m1", true)
	assert.True(t, read[0].Read)
	next := MarkRead(read, "m1", false)
	assert.False(t, next[0].Read)
}

func TestSendPrependsSentCopy(t *testing.T) {
	// GIVEN a compose request linked to a resident and contact
	req := SendRequest{
		FromBoxID:    "mb-shared",
		To:           []string{"anna@example.com"},
		Subject:      "Besuchsinfo",
		Body:         "Morgen 14:00 Uhr.",
		ResidentID:   "p1",
		ContactEmail: "anna@example.com",
	}

	// WHEN it is sent
	items, sent, err := Send(testMail, testBoxes, req, mintIDs("m-"), mailNow)

	// THEN only a SENT copy is created, stamped with the box address
	require.NoError(t, err)
	require.Len(t, items, len(testMail)+1)
	assert.Equal(t, sent, items[0])
	assert.Equal(t, FolderSent, sent.Folder)
	assert.Equal(t, "info@pflege.de", sent.From)
	assert.Equal(t, "t-p1-anna@example.com", sent.ThreadID)
	assert.True(t, sent.Read)
	assert.Equal(t, "2025-08-04T12:00:00Z", sent.Date)
}

func TestSendDefaultsAndThreadFallback(t *testing.T) {
	req := SendRequest{FromBoxID: "mb-personal", To: []string{"x@example.com"}}

	_, sent, err := Send(nil, testBoxes, req, mintIDs("m-"), mailNow)
	require.NoError(t, err)
	assert.Equal(t, "(ohne Betreff)", sent.Subject)
	assert.Equal(t, "t-gen-ext", sent.ThreadID)
}

func TestSendUnknownMailbox(t *testing.T) {
	items, _, err := Send(testMail, testBoxes, SendRequest{FromBoxID: "mb-nope"}, mintIDs("m-"), mailNow)

	assert.ErrorIs(t, err, ErrUnknownMailbox)
	assert.Equal(t, testMail, items)
}

func TestMailCSV(t *testing.T) {
	name := func(id string) string {
		if id == "p1" {
			return "Herr Meier"
		}
		return id
	}

	records := MailCSV(ListMail(testMail, "mb-personal", FolderInbox, ""), name)

	require.Len(t, records, 2)
	assert.Equal(t, []string{"2025-08-03T10:00:00Z", "peter@example.com", "pflege1@example.com", "Rechnung Juli", "INBOX", "", ""}, records[0])
	assert.Equal(t, "Herr Meier", records[1][5])
	assert.Equal(t, "anna@example.com", records[1][6])
}

func TestTemplateText(t *testing.T) {
	assert.Contains(t, TemplateText(TemplateDaily, "Herr Meier"), "Herr Meier")
	assert.Contains(t, TemplateText(TemplateVisit, "Frau Schulz"), "14:00")
	// unknown templates fall back to the neutral wording
	assert.Equal(t, TemplateText(TemplateNeutral, "X"), TemplateText(Template("bogus"), "X"))
}
