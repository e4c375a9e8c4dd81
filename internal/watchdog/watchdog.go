// Package watchdog logs the session out once its access token has expired.
//
// Check is cheap and local: it decodes the token's exp claim without
// contacting the server. The guard calls it on every view entry. Start adds
// an optional cron-driven check and reacts to token writes made by other
// processes.
package watchdog

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/ErlanBelekov/focusboard/internal/authtoken"
	"github.com/ErlanBelekov/focusboard/internal/metrics"
	"github.com/ErlanBelekov/focusboard/internal/repository"
	"github.com/ErlanBelekov/focusboard/internal/session"
	"github.com/robfig/cron/v3"
)

const (
	ReasonExpired   = "expired"
	ReasonMalformed = "malformed"
)

// Session is the part of session.Store the watchdog drives.
type Session interface {
	Snapshot() session.Snapshot
	ForceLogout(ctx context.Context, reason string)
	Sync(ctx context.Context) error
}

type Watchdog struct {
	session Session
	logger  *slog.Logger

	schedule cron.Schedule
	notifier repository.ChangeNotifier

	mu       sync.Mutex
	onLogout []func(reason string)
}

func New(sess Session, logger *slog.Logger) *Watchdog {
	return &Watchdog{
		session: sess,
		logger:  logger.With("component", "watchdog"),
	}
}

// Schedule enables periodic checks. spec is a standard cron expression or
// a descriptor such as "@every 30s". An empty spec leaves checks lazy.
func (w *Watchdog) Schedule(spec string) error {
	if spec == "" {
		w.schedule = nil
		return nil
	}
	sched, err := cron.ParseStandard(spec)
	if err != nil {
		return fmt.Errorf("parse watchdog schedule %q: %w", spec, err)
	}
	w.schedule = sched
	return nil
}

// WatchStore re-syncs the session and checks it whenever n reports that the
// persisted token changed.
func (w *Watchdog) WatchStore(n repository.ChangeNotifier) {
	w.notifier = n
}

// OnLogout registers fn to run after every forced logout. The presentation
// layer uses it to navigate to the login view.
func (w *Watchdog) OnLogout(fn func(reason string)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onLogout = append(w.onLogout, fn)
}

// Check forces a logout when the current token is expired, undecodable or
// carries no exp claim. It reports whether it logged the session out.
// Without a token there is nothing to check.
func (w *Watchdog) Check(ctx context.Context) bool {
	token := w.session.Snapshot().Token
	if token == "" {
		return false
	}

	expired, err := authtoken.Expired(token, time.Now())
	var reason string
	switch {
	case err != nil:
		reason = ReasonMalformed
	case expired:
		reason = ReasonExpired
	default:
		return false
	}

	w.logger.Info("forcing logout", "reason", reason)
	metrics.WatchdogLogoutsTotal.WithLabelValues(reason).Inc()
	w.session.ForceLogout(ctx, "watchdog: token "+reason)

	w.mu.Lock()
	hooks := append([]func(string){}, w.onLogout...)
	w.mu.Unlock()
	for _, fn := range hooks {
		fn(reason)
	}
	return true
}

// Start runs until ctx is cancelled. With neither a schedule nor a store
// to watch it only waits.
func (w *Watchdog) Start(ctx context.Context) error {
	if w.notifier != nil {
		err := w.notifier.Watch(ctx, func() {
			if err := w.session.Sync(ctx); err != nil {
				w.logger.Error("sync session from store", "error", err)
				return
			}
			w.Check(ctx)
		})
		if err != nil {
			return fmt.Errorf("watch token store: %w", err)
		}
	}

	if w.schedule == nil {
		<-ctx.Done()
		return nil
	}

	w.logger.Info("watchdog started")
	for {
		next := w.schedule.Next(time.Now())
		timer := time.NewTimer(time.Until(next))
		select {
		case <-ctx.Done():
			timer.Stop()
			w.logger.Info("watchdog shut down")
			return nil
		case <-timer.C:
			w.Check(ctx)
		}
	}
}
