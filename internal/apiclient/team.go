package apiclient

import (
	"context"
	"net/http"

	"github.com/ErlanBelekov/focusboard/internal/domain"
)

type messageResponse struct {
	Message string `json:"message"`
}

func (c *Client) ListNotifications(ctx context.Context) ([]domain.Notification, error) {
	var out []domain.Notification
	if err := c.do(ctx, call{method: http.MethodGet, route: "/api/notifications", path: "/api/notifications", out: &out}); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) MarkNotificationRead(ctx context.Context, id string) (domain.Notification, error) {
	var out domain.Notification
	err := c.do(ctx, call{
		method: http.MethodPost, route: "/api/notifications/:id/read", path: "/api/notifications/" + escape(id) + "/read", out: &out,
	})
	return out, err
}

// AnswerInvitation accepts or declines invitation id and returns the
// backend's confirmation message.
func (c *Client) AnswerInvitation(ctx context.Context, id string, accept bool) (string, error) {
	action := "decline"
	if accept {
		action = "accept"
	}
	var out messageResponse
	err := c.do(ctx, call{
		method: http.MethodPost, route: "/api/invitations/:id/" + action,
		path: "/api/invitations/" + escape(id) + "/" + action, out: &out,
	})
	return out.Message, err
}

func (c *Client) ListTeams(ctx context.Context) ([]domain.Team, error) {
	var out []domain.Team
	if err := c.do(ctx, call{method: http.MethodGet, route: "/api/teams", path: "/api/teams", out: &out}); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateTeam(ctx context.Context, in domain.CreateTeamInput) (domain.Team, error) {
	var out domain.Team
	err := c.do(ctx, call{method: http.MethodPost, route: "/api/teams", path: "/api/teams", body: in, out: &out})
	return out, err
}

func (c *Client) InviteToTeam(ctx context.Context, teamID string, in domain.InviteInput) (domain.Invitation, error) {
	var out domain.Invitation
	err := c.do(ctx, call{
		method: http.MethodPost, route: "/api/teams/:id/invitations", path: "/api/teams/" + escape(teamID) + "/invitations",
		body: in, out: &out,
	})
	return out, err
}

func (c *Client) DeleteTeam(ctx context.Context, id string) error {
	return c.do(ctx, call{method: http.MethodDelete, route: "/api/teams/:id", path: "/api/teams/" + escape(id)})
}
