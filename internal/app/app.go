// Package app owns one signed-in client: the session, the guard and every
// record cache. Logging out tears all caches down.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ErlanBelekov/focusboard/internal/apiclient"
	"github.com/ErlanBelekov/focusboard/internal/domain"
	"github.com/ErlanBelekov/focusboard/internal/guard"
	"github.com/ErlanBelekov/focusboard/internal/repository"
	"github.com/ErlanBelekov/focusboard/internal/session"
	"github.com/ErlanBelekov/focusboard/internal/slice"
	"github.com/ErlanBelekov/focusboard/internal/watchdog"
	"golang.org/x/sync/errgroup"
)

type Options struct {
	BaseURL string
	// Timeout bounds each backend call; zero leaves it to the transport.
	Timeout time.Duration
}

type App struct {
	API      *apiclient.Client
	Session  *session.Store
	Watchdog *watchdog.Watchdog
	Guard    *guard.Guard

	Focus         *slice.Focus
	Columns       *slice.Columns
	Tasks         *slice.Tasks
	Comments      *slice.Comments
	Notifications *slice.Notifications
	Teams         *slice.Teams
	Invitations   *slice.Invitations
	AdminUsers    *slice.AdminUsers
	AdminTeams    *slice.AdminTeams

	logger *slog.Logger
}

// New builds the client and hydrates the session from tokens.
func New(ctx context.Context, opts Options, tokens repository.TokenStore, logger *slog.Logger) (*App, error) {
	client := apiclient.New(opts.BaseURL, opts.Timeout, logger)

	store, err := session.New(ctx, client, tokens, logger)
	if err != nil {
		return nil, fmt.Errorf("init session: %w", err)
	}
	authed := client.WithTokenSource(store)
	wd := watchdog.New(store, logger)

	a := &App{
		API:      authed,
		Session:  store,
		Watchdog: wd,
		Guard:    guard.New(store, wd, logger),

		Focus:         slice.NewFocus(authed, logger),
		Columns:       slice.NewColumns(authed, logger),
		Tasks:         slice.NewTasks(authed, logger),
		Comments:      slice.NewComments(authed, logger),
		Notifications: slice.NewNotifications(authed, logger),
		Teams:         slice.NewTeams(authed, logger),
		AdminUsers:    slice.NewAdminUsers(authed, logger),
		AdminTeams:    slice.NewAdminTeams(authed, logger),

		logger: logger.With("component", "app"),
	}
	a.Invitations = slice.NewInvitations(authed, a.Notifications, a.Teams, logger)

	store.OnReset(a.resetCaches)
	return a, nil
}

func (a *App) resetCaches() {
	a.Focus.Reset()
	a.Columns.Reset()
	a.Tasks.Reset()
	a.Comments.Reset()
	a.Notifications.Reset()
	a.Teams.Reset()
	a.AdminUsers.Reset()
	a.AdminTeams.Reset()
	a.logger.Debug("caches reset")
}

// Enter gates view and, when allowed, is the point where a front end
// would load the view's data.
func (a *App) Enter(ctx context.Context, view guard.View) guard.Decision {
	return a.Guard.Enter(ctx, view)
}

// Bootstrap loads every cache the signed-in user can see, concurrently.
// It does nothing without a session.
func (a *App) Bootstrap(ctx context.Context) error {
	snap := a.Session.Snapshot()
	if !snap.Authenticated() {
		return nil
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return a.Focus.FetchAll(ctx) })
	g.Go(func() error { return a.Columns.FetchAll(ctx) })
	g.Go(func() error { return a.Tasks.FetchAll(ctx) })
	g.Go(func() error { return a.Notifications.FetchAll(ctx) })
	g.Go(func() error { return a.Teams.FetchAll(ctx) })
	if snap.User.Role == domain.RoleAdmin {
		g.Go(func() error { return a.AdminUsers.FetchAll(ctx) })
		g.Go(func() error { return a.AdminTeams.FetchAll(ctx) })
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("bootstrap: %w", err)
	}
	return nil
}
