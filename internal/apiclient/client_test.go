package apiclient_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/ErlanBelekov/focusboard/internal/apiclient"
	"github.com/ErlanBelekov/focusboard/internal/apperr"
	"github.com/ErlanBelekov/focusboard/internal/domain"
	"github.com/ErlanBelekov/focusboard/internal/requestid"
)

type staticToken string

func (s staticToken) Token() string { return string(s) }

func newClient(url string) *apiclient.Client {
	return apiclient.New(url, 0, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestClassify(t *testing.T) {
	cases := []struct {
		name    string
		status  int
		body    string
		kind    apperr.Kind
		message string
	}{
		{"401 error field", 401, `{"error":"MFA_REQUIRED"}`, apperr.KindUnauthorized, "MFA_REQUIRED"},
		{"403 message field", 403, `{"message":"Access denied"}`, apperr.KindUnauthorized, "Access denied"},
		{"400 errors list", 400, `{"errors":["title is required","priority is invalid"]}`, apperr.KindValidation, "title is required; priority is invalid"},
		{"422 errors objects", 422, `{"errors":[{"message":"bad date"}]}`, apperr.KindValidation, "bad date"},
		{"400 field map", 400, `{"errors":{"email":"invalid","name":"missing"}}`, apperr.KindValidation, "email: invalid; name: missing"},
		{"404 detail", 404, `{"detail":"Task not found"}`, apperr.KindNotFound, "Task not found"},
		{"409 falls to unknown", 409, `{"error":"conflict"}`, apperr.KindUnknown, "conflict"},
		{"500 plain text", 500, "upstream exploded", apperr.KindUnknown, "upstream exploded"},
		{"502 html page", 502, "<html><body>Bad Gateway</body></html>", apperr.KindUnknown, "Bad Gateway"},
		{"500 empty body", 500, "", apperr.KindUnknown, "Internal Server Error"},
		{"nested error object", 400, `{"error":{"message":"nested"}}`, apperr.KindValidation, "nested"},
		{"json string body", 404, `"gone"`, apperr.KindNotFound, "gone"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := apiclient.Classify(tc.status, []byte(tc.body), nil)
			if e.Kind != tc.kind {
				t.Errorf("kind = %s, want %s", e.Kind, tc.kind)
			}
			if e.Message != tc.message {
				t.Errorf("message = %q, want %q", e.Message, tc.message)
			}
			if e.Status != tc.status {
				t.Errorf("status = %d, want %d", e.Status, tc.status)
			}
		})
	}
}

func TestClassify_TransportErrorIsNetwork(t *testing.T) {
	e := apiclient.Classify(0, nil, errors.New("dial tcp: connection refused"))
	if !errors.Is(e, apperr.ErrNetwork) {
		t.Errorf("want ErrNetwork, got %v", e)
	}
}

func TestClassify_LongPlainTextCutOnRuneBoundary(t *testing.T) {
	body := "x" + strings.Repeat("é", 150)
	e := apiclient.Classify(http.StatusBadGateway, []byte(body), nil)

	if !utf8.ValidString(e.Message) {
		t.Fatalf("message is not valid UTF-8: %q", e.Message)
	}
	if len(e.Message) > 200 || !strings.HasPrefix(body, e.Message) {
		t.Errorf("message = %d bytes, want a prefix of at most 200", len(e.Message))
	}
	if len(e.Message) != 199 {
		t.Errorf("len = %d, want 199", len(e.Message))
	}
}

func TestClient_AttachesBearerAndRequestID(t *testing.T) {
	var gotAuth, gotReqID string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotReqID = r.Header.Get(requestid.Header)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `[{"id":"c1","title":"Todo","position":0}]`)
	}))
	defer srv.Close()

	c := newClient(srv.URL).WithTokenSource(staticToken("tok-123"))
	ctx := requestid.WithRequestID(context.Background(), "req-9")

	cols, err := c.ListColumns(ctx)
	if err != nil {
		t.Fatalf("list columns: %v", err)
	}
	if len(cols) != 1 || cols[0].Title != "Todo" {
		t.Errorf("cols = %+v", cols)
	}
	if gotAuth != "Bearer tok-123" {
		t.Errorf("Authorization = %q", gotAuth)
	}
	if gotReqID != "req-9" {
		t.Errorf("X-Request-ID = %q, want req-9", gotReqID)
	}
}

func TestClient_PublicCallsSendNoBearer(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, _ = io.WriteString(w, `{"access_token":"t","user":{"id":"u1","email":"a@b.c"}}`)
	}))
	defer srv.Close()

	c := newClient(srv.URL).WithTokenSource(staticToken("stale-token"))
	res, err := c.Authenticate(context.Background(), domain.Credentials{Email: "a@b.c", Password: "pw"})
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if res.AccessToken != "t" || res.User.ID != "u1" {
		t.Errorf("res = %+v", res)
	}
	if gotAuth != "" {
		t.Errorf("authenticate must not carry a bearer, got %q", gotAuth)
	}
}

func TestClient_LogoutUsesExplicitToken(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	if err := newClient(srv.URL).Logout(context.Background(), "old-token"); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if gotAuth != "Bearer old-token" {
		t.Errorf("Authorization = %q", gotAuth)
	}
}

func TestClient_ErrorResponseClassified(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"error":"Task not found"}`)
	}))
	defer srv.Close()

	_, err := newClient(srv.URL).UpdateTask(context.Background(), "t-404", domain.UpdateTaskInput{})
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
	if apperr.MessageOf(err) != "Task not found" {
		t.Errorf("message = %q", apperr.MessageOf(err))
	}
}

func TestClient_NoResponseIsNetwork(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := newClient(url).ListTasks(context.Background())
	if !errors.Is(err, apperr.ErrNetwork) {
		t.Errorf("want ErrNetwork, got %v", err)
	}
}

func TestClient_TimeoutIsNetwork(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	c := apiclient.New(srv.URL, 50*time.Millisecond, slog.New(slog.NewTextHandler(io.Discard, nil)))
	_, err := c.ListFocusSessions(context.Background())
	if !errors.Is(err, apperr.ErrNetwork) {
		t.Errorf("want ErrNetwork, got %v", err)
	}
}

func TestClient_UndecodableSuccessIsUnknown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"id": 12`)
	}))
	defer srv.Close()

	_, err := newClient(srv.URL).CreateColumn(context.Background(), domain.CreateColumnInput{Title: "x"})
	if !errors.Is(err, apperr.ErrUnknown) {
		t.Errorf("want ErrUnknown, got %v", err)
	}
}
