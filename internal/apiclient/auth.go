package apiclient

import (
	"context"
	"net/http"

	"github.com/ErlanBelekov/focusboard/internal/domain"
)

// Authenticate exchanges credentials for a token. An MFA-enabled account
// is rejected with the message domain.MFARequiredSignal.
func (c *Client) Authenticate(ctx context.Context, in domain.Credentials) (*domain.AuthResponse, error) {
	var out domain.AuthResponse
	err := c.do(ctx, call{
		method: http.MethodPost, route: "/api/auth/authenticate", path: "/api/auth/authenticate",
		body: in, out: &out, public: true,
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Register(ctx context.Context, in domain.Registration) (*domain.AuthResponse, error) {
	var out domain.AuthResponse
	err := c.do(ctx, call{
		method: http.MethodPost, route: "/api/auth/register", path: "/api/auth/register",
		body: in, out: &out, public: true,
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Verify(ctx context.Context, in domain.Verification) (*domain.AuthResponse, error) {
	var out domain.AuthResponse
	err := c.do(ctx, call{
		method: http.MethodPost, route: "/api/auth/verify", path: "/api/auth/verify",
		body: in, out: &out, public: true,
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Logout revokes token on the backend. The token is passed explicitly
// because the session clears its own copy right after.
func (c *Client) Logout(ctx context.Context, token string) error {
	return c.do(ctx, call{
		method: http.MethodPost, route: "/api/auth/logout", path: "/api/auth/logout", token: token,
	})
}
