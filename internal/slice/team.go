package slice

import (
	"context"
	"log/slog"

	"github.com/ErlanBelekov/focusboard/internal/apperr"
	"github.com/ErlanBelekov/focusboard/internal/domain"
	"github.com/ErlanBelekov/focusboard/internal/resource"
	"golang.org/x/sync/errgroup"
)

type NotificationAPI interface {
	ListNotifications(ctx context.Context) ([]domain.Notification, error)
	MarkNotificationRead(ctx context.Context, id string) (domain.Notification, error)
}

type Notifications struct {
	*resource.Slice[domain.Notification, struct{}, struct{}]
	api NotificationAPI
}

func NewNotifications(api NotificationAPI, logger *slog.Logger) *Notifications {
	return &Notifications{
		Slice: resource.New(
			resource.Backend[domain.Notification, struct{}, struct{}]{
				List: api.ListNotifications,
			},
			resource.Options[domain.Notification, struct{}]{
				Name:       "notification",
				Discipline: resource.Confirmed,
				Placement:  resource.Head,
			},
			logger,
		),
		api: api,
	}
}

func (n *Notifications) MarkRead(ctx context.Context, id string) (domain.Notification, error) {
	return n.Write(ctx, "read", id, nil, func(ctx context.Context) (domain.Notification, error) {
		return n.api.MarkNotificationRead(ctx, id)
	})
}

func (n *Notifications) Unread() int {
	count := 0
	for _, item := range n.List() {
		if !item.Read {
			count++
		}
	}
	return count
}

type TeamAPI interface {
	ListTeams(ctx context.Context) ([]domain.Team, error)
	CreateTeam(ctx context.Context, in domain.CreateTeamInput) (domain.Team, error)
	InviteToTeam(ctx context.Context, teamID string, in domain.InviteInput) (domain.Invitation, error)
	DeleteTeam(ctx context.Context, id string) error
}

type Teams struct {
	*resource.Slice[domain.Team, domain.CreateTeamInput, struct{}]
	api TeamAPI
}

func NewTeams(api TeamAPI, logger *slog.Logger) *Teams {
	return &Teams{
		Slice: resource.New(
			resource.Backend[domain.Team, domain.CreateTeamInput, struct{}]{
				List:   api.ListTeams,
				Create: api.CreateTeam,
				Delete: api.DeleteTeam,
			},
			resource.Options[domain.Team, struct{}]{
				Name:       "team",
				Discipline: resource.Confirmed,
				Placement:  resource.Tail,
			},
			logger,
		),
		api: api,
	}
}

// Invite sends an invitation to email. The team itself is unchanged until
// the invitee accepts.
func (t *Teams) Invite(ctx context.Context, teamID string, in domain.InviteInput) (domain.Invitation, error) {
	if err := apperr.Validate(in); err != nil {
		return domain.Invitation{}, err
	}
	inv, err := t.api.InviteToTeam(ctx, teamID, in)
	if err != nil {
		return domain.Invitation{}, apperr.Classify("team.invite", err)
	}
	return inv, nil
}

type InvitationAPI interface {
	AnswerInvitation(ctx context.Context, id string, accept bool) (string, error)
}

// Invitations answers team invitations. Answering changes both the
// notification list and team membership, so both are refreshed.
type Invitations struct {
	api           InvitationAPI
	notifications *Notifications
	teams         *Teams
	logger        *slog.Logger
}

func NewInvitations(api InvitationAPI, notifications *Notifications, teams *Teams, logger *slog.Logger) *Invitations {
	return &Invitations{
		api:           api,
		notifications: notifications,
		teams:         teams,
		logger:        logger.With("component", "invitations"),
	}
}

func (i *Invitations) Accept(ctx context.Context, invitationID string) (string, error) {
	return i.answer(ctx, invitationID, true)
}

func (i *Invitations) Decline(ctx context.Context, invitationID string) (string, error) {
	return i.answer(ctx, invitationID, false)
}

func (i *Invitations) answer(ctx context.Context, invitationID string, accept bool) (string, error) {
	msg, err := i.api.AnswerInvitation(ctx, invitationID, accept)
	if err != nil {
		return "", apperr.Classify("invitation.answer", err)
	}

	// Plain group: one failed refresh must not cancel the other.
	var g errgroup.Group
	g.Go(func() error { return i.notifications.FetchAll(ctx) })
	g.Go(func() error { return i.teams.FetchAll(ctx) })
	if err := g.Wait(); err != nil {
		i.logger.Warn("refresh after invitation answer", "invitation_id", invitationID, "error", err)
	}
	return msg, nil
}
