/*
scheduler.go - Background daily digest scheduler

PURPOSE:
  Periodically checks whether today's relative digest is due and sends
  it: one templated chat message per verified contact, once per day,
  after the configured send hour. Also inspects today's roster coverage
  and logs understaffed shifts so gaps surface in the ops log before
  the shift starts.

DESIGN:
  - Runs a background goroutine with configurable check interval
  - Tracks the last sent day in memory; a restart may resend at most once
  - Skips sending before SendHour (facility-local wall clock)

CONFIGURATION:
  - CheckInterval: How often to check (default: 15 minutes)
  - SendHour:      Earliest hour to send the digest (default: 18)
  - Enabled:       Whether the scheduler is active (default: true)

USAGE:
  scheduler := NewDigestScheduler(st, handler)
  scheduler.Start()
  // ... later
  scheduler.Stop()

SEE ALSO:
  - comms.go: BroadcastChat (manual fan-out)
  - roster/engine.go: coverage computation
*/
package api

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/healthreply/pflegenetz/dates"
	"github.com/healthreply/pflegenetz/directory"
	"github.com/healthreply/pflegenetz/messaging"
	"github.com/healthreply/pflegenetz/roster"
	"github.com/healthreply/pflegenetz/store"
)

// DigestScheduler sends the evening relative digest and logs coverage
// gaps for the current day.
type DigestScheduler struct {
	Store         store.Store
	Handler       *Handler
	Log           *zap.Logger
	CheckInterval time.Duration
	SendHour      int
	Enabled       bool

	ticker  *time.Ticker
	stop    chan struct{}
	wg      sync.WaitGroup
	mu      sync.Mutex
	sentDay dates.Day
}

// NewDigestScheduler creates a scheduler with default settings.
func NewDigestScheduler(st store.Store, handler *Handler) *DigestScheduler {
	return &DigestScheduler{
		Store:         st,
		Handler:       handler,
		Log:           handler.Log,
		CheckInterval: 15 * time.Minute,
		SendHour:      18,
		Enabled:       true,
	}
}

// Start launches the background check loop.
func (s *DigestScheduler) Start() {
	if !s.Enabled {
		s.Log.Info("digest scheduler disabled")
		return
	}
	s.ticker = time.NewTicker(s.CheckInterval)
	s.stop = make(chan struct{})
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		for {
			select {
			case <-s.ticker.C:
				s.runOnce(context.Background())
			case <-s.stop:
				return
			}
		}
	}()
	s.Log.Info("digest scheduler started",
		zap.Duration("interval", s.CheckInterval),
		zap.Int("sendHour", s.SendHour))
}

// Stop halts the loop and waits for an in-flight run to finish.
func (s *DigestScheduler) Stop() {
	if s.ticker == nil {
		return
	}
	s.ticker.Stop()
	close(s.stop)
	s.wg.Wait()
}

// RunOnce is the check body, exposed for tests.
func (s *DigestScheduler) RunOnce(ctx context.Context) {
	s.runOnce(ctx)
}

func (s *DigestScheduler) runOnce(ctx context.Context) {
	s.checkCoverage(ctx)
	s.sendDigest(ctx)
}

// checkCoverage logs every understaffed shift of the current day.
func (s *DigestScheduler) checkCoverage(ctx context.Context) {
	assignments, err := store.GetList[roster.Assignment](ctx, s.Store, store.KeyAssignments)
	if err != nil {
		s.Log.Warn("coverage check failed", zap.Error(err))
		return
	}
	reqs, err := store.GetList[roster.CoverageRequirement](ctx, s.Store, store.KeyCoverage)
	if err != nil {
		s.Log.Warn("coverage check failed", zap.Error(err))
		return
	}

	today := dates.DayOf(s.Handler.now())
	for _, t := range roster.ShiftTypes {
		required := roster.RequiredCount(reqs, today, t)
		covered := roster.CoveredCount(assignments, today, t)
		if covered < required {
			s.Log.Warn("shift understaffed",
				zap.String("date", today.String()),
				zap.String("shift", string(t)),
				zap.Int("covered", covered),
				zap.Int("required", required))
		}
	}
}

// sendDigest fans the daily template out once per day after SendHour.
func (s *DigestScheduler) sendDigest(ctx context.Context) {
	now := s.Handler.now()
	if now.Hour() < s.SendHour {
		return
	}
	today := dates.DayOf(now)

	s.mu.Lock()
	if s.sentDay == today {
		s.mu.Unlock()
		return
	}
	s.sentDay = today
	s.mu.Unlock()

	s.Handler.mu.Lock()
	defer s.Handler.mu.Unlock()

	items, err := store.GetList[messaging.ChatMessage](ctx, s.Store, store.KeyChat)
	if err != nil {
		s.Log.Warn("digest send failed", zap.Error(err))
		return
	}
	contacts, err := store.GetList[directory.Contact](ctx, s.Store, store.KeyContacts)
	if err != nil {
		s.Log.Warn("digest send failed", zap.Error(err))
		return
	}
	residents, err := store.GetList[directory.Resident](ctx, s.Store, store.KeyResidents)
	if err != nil {
		s.Log.Warn("digest send failed", zap.Error(err))
		return
	}

	next, reached := messaging.Broadcast(items, contacts, messaging.TemplateDaily, func(id string) string {
		return directory.ResidentName(residents, id)
	}, s.Handler.prefixedID("cm"), now)
	if reached == 0 {
		return
	}
	if err := store.PutList(ctx, s.Store, store.KeyChat, next); err != nil {
		s.Log.Warn("digest send failed", zap.Error(err))
		return
	}
	s.Log.Info("daily digest sent",
		zap.String("date", today.String()),
		zap.Int("reached", reached))
}
