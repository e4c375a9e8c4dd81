package apiclient

import (
	"context"
	"net/http"

	"github.com/ErlanBelekov/focusboard/internal/domain"
)

func (c *Client) AdminListUsers(ctx context.Context) ([]domain.UserSummary, error) {
	var out []domain.UserSummary
	if err := c.do(ctx, call{method: http.MethodGet, route: "/api/admin/users", path: "/api/admin/users", out: &out}); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) AdminUpdateUser(ctx context.Context, id string, in domain.UpdateUserInput) (domain.UserSummary, error) {
	var out domain.UserSummary
	err := c.do(ctx, call{
		method: http.MethodPut, route: "/api/admin/users/:id", path: "/api/admin/users/" + escape(id), body: in, out: &out,
	})
	return out, err
}

func (c *Client) AdminDeleteUser(ctx context.Context, id string) error {
	return c.do(ctx, call{method: http.MethodDelete, route: "/api/admin/users/:id", path: "/api/admin/users/" + escape(id)})
}

func (c *Client) AdminListTeams(ctx context.Context) ([]domain.TeamSummary, error) {
	var out []domain.TeamSummary
	if err := c.do(ctx, call{method: http.MethodGet, route: "/api/admin/teams", path: "/api/admin/teams", out: &out}); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) AdminDeleteTeam(ctx context.Context, id string) error {
	return c.do(ctx, call{method: http.MethodDelete, route: "/api/admin/teams/:id", path: "/api/admin/teams/" + escape(id)})
}
