/*
scheduler_test.go - Digest scheduler behavior

Tests for:
- Digest sent at most once per day
- No send before the configured hour
*/
package api

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/healthreply/pflegenetz/directory"
	"github.com/healthreply/pflegenetz/messaging"
	"github.com/healthreply/pflegenetz/store"
)

func newTestScheduler(t *testing.T, hour int) (*Handler, *DigestScheduler) {
	t.Helper()
	h, _ := newTestServer(t)
	h.now = func() time.Time {
		return time.Date(2025, 8, 4, hour, 30, 0, 0, time.UTC)
	}
	return h, NewDigestScheduler(h.Store, h)
}

func seedDigestContacts(t *testing.T, h *Handler) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, store.PutList(ctx, h.Store, store.KeyContacts, []directory.Contact{
		{ID: "c1", FullName: "Anna Meier", Email: "anna@example.com", ResidentID: "p1", Verified: true},
	}))
	require.NoError(t, store.PutList(ctx, h.Store, store.KeyResidents, []directory.Resident{
		{ID: "p1", FullName: "Herr Meier", Status: directory.ResidentActive},
	}))
}

func TestDigestSentOncePerDay(t *testing.T) {
	// GIVEN: a verified contact and a clock past the send hour
	h, s := newTestScheduler(t, 19)
	seedDigestContacts(t, h)

	// WHEN: the check runs twice on the same day
	ctx := context.Background()
	s.RunOnce(ctx)
	s.RunOnce(ctx)

	// THEN: exactly one digest message exists
	items, err := store.GetList[messaging.ChatMessage](ctx, h.Store, store.KeyChat)
	require.NoError(t, err)
	assert.Len(t, items, 1)
	assert.Equal(t, "c1", items[0].ContactID)
}

func TestDigestWaitsForSendHour(t *testing.T) {
	// GIVEN: a verified contact and a morning clock
	h, s := newTestScheduler(t, 9)
	seedDigestContacts(t, h)

	// WHEN: the check runs
	s.RunOnce(context.Background())

	// THEN: nothing is sent yet
	items, err := store.GetList[messaging.ChatMessage](context.Background(), h.Store, store.KeyChat)
	require.NoError(t, err)
	assert.Empty(t, items)
}
