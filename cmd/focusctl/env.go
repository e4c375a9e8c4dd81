package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/ErlanBelekov/focusboard/config"
	"github.com/ErlanBelekov/focusboard/internal/app"
	"github.com/ErlanBelekov/focusboard/internal/apperr"
	"github.com/ErlanBelekov/focusboard/internal/guard"
	"github.com/ErlanBelekov/focusboard/internal/health"
	"github.com/ErlanBelekov/focusboard/internal/infrastructure/kv"
	"github.com/ErlanBelekov/focusboard/internal/infrastructure/postgres"
	ctxlog "github.com/ErlanBelekov/focusboard/internal/log"
	"github.com/ErlanBelekov/focusboard/internal/metrics"
	"github.com/ErlanBelekov/focusboard/internal/repository"
	"github.com/ErlanBelekov/focusboard/internal/session"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	errNotSignedIn  = errors.New("not signed in: run `focusctl login`")
	errVerifyFirst  = errors.New("two-factor verification pending: run `focusctl login` again and enter the code")
	errAdminOnly    = errors.New("this view requires the ADMIN role")
	errMissingInput = errors.New("missing argument")
)

// env is everything one focusctl invocation works with.
type env struct {
	cfg     *config.Client
	logger  *slog.Logger
	tokens  repository.TokenStore
	pinger  health.Pinger
	app     *app.App
	closers []func()
}

func (e *env) Close() {
	for i := len(e.closers) - 1; i >= 0; i-- {
		e.closers[i]()
	}
}

func setup(ctx context.Context) (*env, error) {
	cfg, err := config.LoadClient()
	if err != nil {
		return nil, err
	}
	logger := ctxlog.New(os.Stderr, cfg.Env, cfg.SlogLevel())
	metrics.RegisterClient(prometheus.DefaultRegisterer)

	e := &env{cfg: cfg, logger: logger}
	if err := e.openTokenStore(ctx); err != nil {
		e.Close()
		return nil, err
	}

	a, err := app.New(ctx, app.Options{BaseURL: cfg.APIBaseURL, Timeout: cfg.HTTPTimeout}, e.tokens, logger)
	if err != nil {
		e.Close()
		return nil, err
	}
	if err := a.Watchdog.Schedule(cfg.WatchdogSchedule); err != nil {
		e.Close()
		return nil, fmt.Errorf("watchdog schedule: %w", err)
	}
	if n, ok := e.tokens.(repository.ChangeNotifier); ok {
		a.Watchdog.WatchStore(n)
	}
	a.Watchdog.OnLogout(func(reason string) {
		fmt.Fprintf(os.Stderr, "session ended (%s): please log in again\n", reason)
	})
	e.app = a
	return e, nil
}

func (e *env) openTokenStore(ctx context.Context) error {
	switch e.cfg.TokenStore {
	case config.TokenStoreMemory:
		s := kv.NewMemoryStore("")
		e.tokens, e.pinger = s, s
	case config.TokenStorePostgres:
		pool, err := postgres.NewPool(ctx, e.cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("db: %w", err)
		}
		e.closers = append(e.closers, pool.Close)
		repo := postgres.NewTokenRepository(pool)
		if err := repo.EnsureSchema(ctx); err != nil {
			return err
		}
		e.tokens, e.pinger = repo, repo
	default:
		s := kv.NewFileStore(e.cfg.TokenFile, e.logger)
		e.tokens, e.pinger = s, s
	}
	return nil
}

// enter gates view and turns every refusal into an error the user can act on.
func (e *env) enter(ctx context.Context, view guard.View) error {
	switch e.app.Enter(ctx, view) {
	case guard.Allow:
		return nil
	case guard.RedirectVerify:
		return errVerifyFirst
	case guard.Forbidden:
		return errAdminOnly
	default:
		return errNotSignedIn
	}
}

// describe renders err for the terminal. Authentication failures are
// shown as such; network failures are marked as worth retrying.
func describe(err error) string {
	var ae *apperr.Error
	if !errors.As(err, &ae) {
		return err.Error()
	}
	switch ae.Kind {
	case apperr.KindNetwork:
		return "network error, try again: " + ae.Message
	case apperr.KindUnauthorized:
		return "not authorized: " + ae.Message
	case apperr.KindValidation:
		return "invalid input: " + ae.Message
	case apperr.KindNotFound:
		return "not found: " + ae.Message
	default:
		return ae.Error()
	}
}

func statusLine(s session.Snapshot) string {
	if s.User == nil {
		return string(s.Status)
	}
	return fmt.Sprintf("%s as %s (%s)", s.Status, s.User.Email, s.User.Role)
}
