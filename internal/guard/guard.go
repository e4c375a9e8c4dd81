// Package guard decides whether a view may be entered with the current
// session.
package guard

import (
	"context"
	"log/slog"

	"github.com/ErlanBelekov/focusboard/internal/domain"
	"github.com/ErlanBelekov/focusboard/internal/session"
)

type Access int

const (
	AccessPublic Access = iota
	AccessAuthenticated
	AccessAdmin
)

type View struct {
	Name   string
	Access Access
}

var (
	Login    = View{Name: "login", Access: AccessPublic}
	Register = View{Name: "register", Access: AccessPublic}
	Verify   = View{Name: "verify", Access: AccessPublic}

	Focus         = View{Name: "focus", Access: AccessAuthenticated}
	Board         = View{Name: "board", Access: AccessAuthenticated}
	Notifications = View{Name: "notifications", Access: AccessAuthenticated}
	Teams         = View{Name: "teams", Access: AccessAuthenticated}

	AdminUsers = View{Name: "admin-users", Access: AccessAdmin}
	AdminTeams = View{Name: "admin-teams", Access: AccessAdmin}
)

type Decision int

const (
	Allow Decision = iota
	RedirectLogin
	RedirectVerify
	Forbidden
)

func (d Decision) String() string {
	switch d {
	case Allow:
		return "allow"
	case RedirectLogin:
		return "redirect-login"
	case RedirectVerify:
		return "redirect-verify"
	case Forbidden:
		return "forbidden"
	default:
		return "unknown"
	}
}

type Sessions interface {
	Snapshot() session.Snapshot
}

// Checker is satisfied by *watchdog.Watchdog.
type Checker interface {
	Check(ctx context.Context) bool
}

type Guard struct {
	sessions Sessions
	watchdog Checker
	logger   *slog.Logger
}

func New(sessions Sessions, wd Checker, logger *slog.Logger) *Guard {
	return &Guard{sessions: sessions, watchdog: wd, logger: logger.With("component", "guard")}
}

// Enter runs the expiry check and then gates view on the resulting session.
func (g *Guard) Enter(ctx context.Context, view View) Decision {
	if g.watchdog != nil {
		g.watchdog.Check(ctx)
	}
	d := g.decide(g.sessions.Snapshot(), view)
	g.logger.Debug("view entry", "view", view.Name, "decision", d.String())
	return d
}

func (g *Guard) decide(snap session.Snapshot, view View) Decision {
	if view.Access == AccessPublic {
		return Allow
	}
	if snap.Status == session.StatusMFARequired {
		return RedirectVerify
	}
	if !snap.Authenticated() {
		return RedirectLogin
	}
	if view.Access == AccessAdmin && snap.User.Role != domain.RoleAdmin {
		return Forbidden
	}
	return Allow
}
