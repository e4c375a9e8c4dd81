// Package apiclient is the client's HTTP adapter: it attaches the bearer
// token, tags every call with a request ID and translates every failure
// into the apperr taxonomy.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ErlanBelekov/focusboard/internal/apperr"
	"github.com/ErlanBelekov/focusboard/internal/metrics"
	"github.com/ErlanBelekov/focusboard/internal/requestid"
)

// maxBody bounds how much of a response is read.
const maxBody = 4 << 20

// TokenSource supplies the current access token ("" when logged out).
// Only the session store implements it; the client never mutates tokens.
type TokenSource interface {
	Token() string
}

type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
	logger  *slog.Logger
}

// New creates a client for the REST API at baseURL. A zero timeout keeps
// the transport's defaults.
func New(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		logger:  logger.With("component", "api_client"),
	}
}

// WithTokenSource returns a copy of c that authenticates resource calls
// with tokens taken from ts.
func (c *Client) WithTokenSource(ts TokenSource) *Client {
	cp := *c
	cp.tokens = ts
	return &cp
}

type call struct {
	method string
	route  string // path template, used as the metrics label
	path   string
	body   any
	out    any
	public bool   // send no Authorization header
	token  string // overrides the token source
}

func (c *Client) do(ctx context.Context, cl call) error {
	ctx, reqID := requestid.Ensure(ctx)
	start := time.Now()

	err := c.roundTrip(ctx, reqID, cl)

	outcome := "ok"
	if err != nil {
		outcome = string(apperr.KindOf(err))
	}
	metrics.APIRequestDuration.WithLabelValues(cl.method, cl.route, outcome).Observe(time.Since(start).Seconds())
	metrics.APIRequestsTotal.WithLabelValues(cl.method, cl.route, outcome).Inc()

	if err != nil {
		c.logger.DebugContext(ctx, "api call failed", "method", cl.method, "route", cl.route, "kind", outcome, "error", err)
	}
	return err
}

func (c *Client) roundTrip(ctx context.Context, reqID string, cl call) error {
	var body io.Reader
	if cl.body != nil {
		data, err := json.Marshal(cl.body)
		if err != nil {
			return apperr.Validation("encode request", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, cl.method, c.baseURL+cl.path, body)
	if err != nil {
		return &apperr.Error{Kind: apperr.KindUnknown, Message: "build request", Err: err}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(requestid.Header, reqID)
	if cl.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if !cl.public {
		token := cl.token
		if token == "" && c.tokens != nil {
			token = c.tokens.Token()
		}
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return Classify(0, nil, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return Classify(0, nil, fmt.Errorf("read response: %w", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Classify(resp.StatusCode, data, nil)
	}

	if cl.out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, cl.out); err != nil {
		return &apperr.Error{Kind: apperr.KindUnknown, Status: resp.StatusCode, Message: "decode response", Err: err}
	}
	return nil
}

// Ping checks that the backend answers its health endpoint.
func (c *Client) Ping(ctx context.Context) error {
	return c.do(ctx, call{method: http.MethodGet, route: "/api/health", path: "/api/health", public: true})
}

func escape(id string) string { return url.PathEscape(id) }
