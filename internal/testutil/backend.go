// Package testutil runs the reference backend in-process for end-to-end
// tests of the client.
package testutil

import (
	"context"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ErlanBelekov/focusboard/internal/domain"
	"github.com/ErlanBelekov/focusboard/internal/email"
	"github.com/ErlanBelekov/focusboard/internal/health"
	"github.com/ErlanBelekov/focusboard/internal/infrastructure/memory"
	httptransport "github.com/ErlanBelekov/focusboard/internal/transport/http"
	"github.com/ErlanBelekov/focusboard/internal/transport/http/handler"
	"github.com/ErlanBelekov/focusboard/internal/usecase"
	"github.com/gin-gonic/gin"
	"github.com/pquerna/otp/totp"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/crypto/bcrypt"
)

const (
	JWTKey     = "testutil-secret-key-32-characters"
	AdminEmail = "admin@example.com"
	Password   = "correct-horse-battery"
)

type Backend struct {
	URL   string
	Store *memory.Store
	Auth  *usecase.AuthUsecase
}

// Quiet returns a logger that drops everything.
func Quiet() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// StartBackend serves the full REST API on an httptest server that is
// closed when t ends.
func StartBackend(t testing.TB) *Backend {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger := Quiet()

	store := memory.NewStore()
	auth := usecase.NewAuthUsecase(store.Users(), store.Revocations(), []byte(JWTKey), time.Hour, "focusboard", AdminEmail).
		WithHashCost(bcrypt.MinCost)
	checker := health.NewChecker(map[string]health.Pinger{"store": store}, logger, prometheus.NewRegistry())

	router := httptransport.NewRouter(logger, httptransport.Handlers{
		Auth:  handler.NewAuthHandler(auth, logger),
		Focus: handler.NewFocusHandler(usecase.NewFocusUsecase(store.Focus()), logger),
		Board: handler.NewBoardHandler(usecase.NewBoardUsecase(store.Columns(), store.Tasks(), store.Comments(), store.Users()), logger),
		Team: handler.NewTeamHandler(usecase.NewTeamUsecase(
			store.Teams(), store.Invitations(), store.Notifications(), store.Users(),
			email.NewLogSender(logger), "http://localhost:5173", logger,
		), logger),
		Admin:  handler.NewAdminHandler(usecase.NewAdminUsecase(store.Users(), store.Teams(), store.Focus()), logger),
		Health: handler.NewHealthHandler(checker),
	}, auth)

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return &Backend{URL: srv.URL, Store: store, Auth: auth}
}

// Register creates an account directly through the usecase. With mfa the
// returned response carries the secret image instead of a token.
func (b *Backend) Register(t testing.TB, email string, mfa bool) *domain.AuthResponse {
	t.Helper()
	resp, err := b.Auth.Register(context.Background(), domain.Registration{
		FirstName:  "Test",
		LastName:   "User",
		Email:      email,
		Password:   Password,
		MFAEnabled: mfa,
	})
	if err != nil {
		t.Fatalf("register %s: %v", email, err)
	}
	return resp
}

// Code returns the current TOTP code of an MFA-enabled account.
func (b *Backend) Code(t testing.TB, email string) string {
	t.Helper()
	acct, err := b.Store.Users().FindByEmail(context.Background(), email)
	if err != nil {
		t.Fatalf("find %s: %v", email, err)
	}
	code, err := totp.GenerateCode(acct.MFASecret, time.Now())
	if err != nil {
		t.Fatalf("generate code: %v", err)
	}
	return code
}
