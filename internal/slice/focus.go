// Package slice binds each kind of server record to a resource.Slice with
// the discipline that kind uses.
package slice

import (
	"context"
	"log/slog"

	"github.com/ErlanBelekov/focusboard/internal/domain"
	"github.com/ErlanBelekov/focusboard/internal/resource"
)

type FocusAPI interface {
	ListFocusSessions(ctx context.Context) ([]domain.FocusSession, error)
	StartFocusSession(ctx context.Context, in domain.StartFocusInput) (domain.FocusSession, error)
	EndFocusSession(ctx context.Context, id string, in domain.EndFocusInput) (domain.FocusSession, error)
	DeleteFocusSession(ctx context.Context, id string) error
}

// Focus holds the user's focus sessions, newest first. Writes are
// confirmed: a session only changes once the server has recorded it.
type Focus struct {
	*resource.Slice[domain.FocusSession, domain.StartFocusInput, domain.EndFocusInput]
}

func NewFocus(api FocusAPI, logger *slog.Logger) *Focus {
	return &Focus{resource.New(
		resource.Backend[domain.FocusSession, domain.StartFocusInput, domain.EndFocusInput]{
			List:   api.ListFocusSessions,
			Create: api.StartFocusSession,
			Update: api.EndFocusSession,
			Delete: api.DeleteFocusSession,
		},
		resource.Options[domain.FocusSession, domain.EndFocusInput]{
			Name:       "focus",
			Discipline: resource.Confirmed,
			Placement:  resource.Head,
		},
		logger,
	)}
}

func (f *Focus) Start(ctx context.Context, in domain.StartFocusInput) (domain.FocusSession, error) {
	return f.Create(ctx, in)
}

func (f *Focus) End(ctx context.Context, id string, in domain.EndFocusInput) (domain.FocusSession, error) {
	return f.Update(ctx, id, in)
}

// Cancel discards a session entirely.
func (f *Focus) Cancel(ctx context.Context, id string) error {
	return f.Remove(ctx, id)
}

// Active returns the session still in progress, if any.
func (f *Focus) Active() (domain.FocusSession, bool) {
	for _, s := range f.List() {
		if s.Status == domain.FocusInProgress {
			return s, true
		}
	}
	return domain.FocusSession{}, false
}
