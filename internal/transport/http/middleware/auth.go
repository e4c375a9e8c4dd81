package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/ErlanBelekov/focusboard/internal/authtoken"
	"github.com/ErlanBelekov/focusboard/internal/domain"
	ctxlog "github.com/ErlanBelekov/focusboard/internal/log"
	"github.com/ErlanBelekov/focusboard/internal/metrics"
	"github.com/gin-gonic/gin"
)

const (
	errUnauthorized = "Unauthorized"
	errForbidden    = "Forbidden"

	claimsKey = "claims"
)

// Authorizer turns a raw bearer token into verified claims. Revoked
// tokens are rejected.
type Authorizer interface {
	Authorize(ctx context.Context, raw string) (*authtoken.Claims, error)
}

// Auth validates a Bearer JWT and sets "userID" and "claims" in the gin
// context.
func Auth(authz Authorizer) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			metrics.AuthRejectionsTotal.WithLabelValues("missing").Inc()
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": errUnauthorized})
			return
		}

		rawToken := strings.TrimPrefix(header, "Bearer ")
		claims, err := authz.Authorize(c.Request.Context(), rawToken)
		if err != nil {
			metrics.AuthRejectionsTotal.WithLabelValues("invalid").Inc()
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": errUnauthorized})
			return
		}

		c.Set("userID", claims.Subject)
		c.Set(claimsKey, claims)
		c.Request = c.Request.WithContext(ctxlog.WithUserID(c.Request.Context(), claims.Subject))
		c.Next()
	}
}

// ClaimsFrom returns the claims stored by Auth.
func ClaimsFrom(c *gin.Context) (*authtoken.Claims, bool) {
	v, ok := c.Get(claimsKey)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*authtoken.Claims)
	return claims, ok
}

// RequireRole runs after Auth and rejects callers without role.
func RequireRole(role domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := ClaimsFrom(c)
		if !ok || claims.Role != role {
			metrics.AuthRejectionsTotal.WithLabelValues("role").Inc()
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": errForbidden})
			return
		}
		c.Next()
	}
}
