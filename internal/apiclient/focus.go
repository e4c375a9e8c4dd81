package apiclient

import (
	"context"
	"net/http"

	"github.com/ErlanBelekov/focusboard/internal/domain"
)

func (c *Client) ListFocusSessions(ctx context.Context) ([]domain.FocusSession, error) {
	var out []domain.FocusSession
	if err := c.do(ctx, call{method: http.MethodGet, route: "/api/focus", path: "/api/focus", out: &out}); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) StartFocusSession(ctx context.Context, in domain.StartFocusInput) (domain.FocusSession, error) {
	var out domain.FocusSession
	err := c.do(ctx, call{method: http.MethodPost, route: "/api/focus/start", path: "/api/focus/start", body: in, out: &out})
	return out, err
}

func (c *Client) EndFocusSession(ctx context.Context, id string, in domain.EndFocusInput) (domain.FocusSession, error) {
	var out domain.FocusSession
	err := c.do(ctx, call{
		method: http.MethodPost, route: "/api/focus/:id/end", path: "/api/focus/" + escape(id) + "/end",
		body: in, out: &out,
	})
	return out, err
}

func (c *Client) DeleteFocusSession(ctx context.Context, id string) error {
	return c.do(ctx, call{method: http.MethodDelete, route: "/api/focus/:id", path: "/api/focus/" + escape(id)})
}
