package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ErlanBelekov/focusboard/internal/metrics"
	"github.com/ErlanBelekov/focusboard/internal/transport/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetrics_RouteTemplateAndStatus(t *testing.T) {
	r := gin.New()
	r.Use(middleware.Metrics())
	r.GET("/api/teams/:id", func(c *gin.Context) { c.Status(http.StatusNotFound) })

	before := testutil.ToFloat64(metrics.HTTPRequestsTotal.WithLabelValues(http.MethodGet, "/api/teams/:id", "404"))
	unmatched := testutil.ToFloat64(metrics.HTTPRequestsTotal.WithLabelValues(http.MethodGet, "unmatched", "404"))

	for _, path := range []string{"/api/teams/a", "/api/teams/b", "/nowhere"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	if got := testutil.ToFloat64(metrics.HTTPRequestsTotal.WithLabelValues(http.MethodGet, "/api/teams/:id", "404")) - before; got != 2 {
		t.Errorf("templated count = %v, want 2", got)
	}
	if got := testutil.ToFloat64(metrics.HTTPRequestsTotal.WithLabelValues(http.MethodGet, "unmatched", "404")) - unmatched; got != 1 {
		t.Errorf("unmatched count = %v, want 1", got)
	}
	if got := testutil.ToFloat64(metrics.HTTPInFlight); got != 0 {
		t.Errorf("in flight = %v after all requests returned", got)
	}
}

func TestAuth_CountsRejections(t *testing.T) {
	r := newEngine(keyAuthorizer{})
	missing := testutil.ToFloat64(metrics.AuthRejectionsTotal.WithLabelValues("missing"))
	invalid := testutil.ToFloat64(metrics.AuthRejectionsTotal.WithLabelValues("invalid"))

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/protected", nil))
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	r.ServeHTTP(httptest.NewRecorder(), req)

	if got := testutil.ToFloat64(metrics.AuthRejectionsTotal.WithLabelValues("missing")) - missing; got != 1 {
		t.Errorf("missing = %v, want 1", got)
	}
	if got := testutil.ToFloat64(metrics.AuthRejectionsTotal.WithLabelValues("invalid")) - invalid; got != 1 {
		t.Errorf("invalid = %v, want 1", got)
	}
}

func TestSecurity_Headers(t *testing.T) {
	r := gin.New()
	r.Use(middleware.Security())
	r.GET("/api/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "up"}) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	for header, want := range map[string]string{
		"X-Content-Type-Options": "nosniff",
		"X-Frame-Options":        "DENY",
		"Cache-Control":          "no-store",
		"Referrer-Policy":        "no-referrer",
	} {
		if got := w.Header().Get(header); got != want {
			t.Errorf("%s = %q, want %q", header, got, want)
		}
	}
	if got := w.Header().Get("Strict-Transport-Security"); got != "" {
		t.Errorf("HSTS sent over plain HTTP: %q", got)
	}
}
