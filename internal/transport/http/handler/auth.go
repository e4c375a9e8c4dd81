package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/ErlanBelekov/focusboard/internal/authtoken"
	"github.com/ErlanBelekov/focusboard/internal/domain"
	"github.com/ErlanBelekov/focusboard/internal/transport/http/middleware"
	"github.com/gin-gonic/gin"
)

// authUsecaser is the subset of AuthUsecase the handler needs.
// Defined here (point of use) so tests can inject a fake.
type authUsecaser interface {
	Register(ctx context.Context, in domain.Registration) (*domain.AuthResponse, error)
	Authenticate(ctx context.Context, in domain.Credentials) (*domain.AuthResponse, error)
	Verify(ctx context.Context, in domain.Verification) (*domain.AuthResponse, error)
	Logout(ctx context.Context, claims *authtoken.Claims) error
}

type AuthHandler struct {
	authUsecase authUsecaser
	logger      *slog.Logger
}

func NewAuthHandler(authUsecase authUsecaser, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		authUsecase: authUsecase,
		logger:      logger.With("component", "auth_handler"),
	}
}

// POST /api/auth/register
// Returns the secret image instead of a token when MFA was requested.
func (h *AuthHandler) Register(c *gin.Context) {
	var req domain.Registration
	if !bind(c, &req) {
		return
	}
	resp, err := h.authUsecase.Register(c.Request.Context(), req)
	if err != nil {
		writeError(c, h.logger, "register", err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// POST /api/auth/authenticate
// MFA accounts are rejected with 401 {"error":"MFA_REQUIRED"}.
func (h *AuthHandler) Authenticate(c *gin.Context) {
	var req domain.Credentials
	if !bind(c, &req) {
		return
	}
	resp, err := h.authUsecase.Authenticate(c.Request.Context(), req)
	if err != nil {
		writeError(c, h.logger, "authenticate", err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// POST /api/auth/verify
func (h *AuthHandler) Verify(c *gin.Context) {
	var req domain.Verification
	if !bind(c, &req) {
		return
	}
	resp, err := h.authUsecase.Verify(c.Request.Context(), req)
	if err != nil {
		writeError(c, h.logger, "verify", err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// POST /api/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	claims, ok := middleware.ClaimsFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": domain.ErrUnauthorized.Error()})
		return
	}
	if err := h.authUsecase.Logout(c.Request.Context(), claims); err != nil {
		writeError(c, h.logger, "logout", err)
		return
	}
	c.Status(http.StatusNoContent)
}
