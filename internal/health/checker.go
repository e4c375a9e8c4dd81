package health

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"
)

const (
	StatusUp   = "up"
	StatusDown = "down"
)

const pingTimeout = 2 * time.Second

// Pinger is satisfied by the token stores, the API client and the
// backend's in-memory store.
type Pinger interface {
	Ping(ctx context.Context) error
}

type CheckResult struct {
	Status    string `json:"status"`
	Error     string `json:"error,omitempty"`
	LatencyMS int64  `json:"latencyMs"`
}

type HealthResult struct {
	Status string                 `json:"status"`
	Checks map[string]CheckResult `json:"checks,omitempty"`
}

// Checker pings named dependencies and mirrors the outcome into a gauge.
type Checker struct {
	deps   map[string]Pinger
	logger *slog.Logger
	up     *prometheus.GaugeVec
}

func NewChecker(deps map[string]Pinger, logger *slog.Logger, reg prometheus.Registerer) *Checker {
	up := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "focusboard",
		Name:      "health_check_up",
		Help:      "Whether a dependency is reachable. 1 = up, 0 = down.",
	}, []string{"dependency"})
	reg.MustRegister(up)

	return &Checker{
		deps:   deps,
		logger: logger.With("component", "health"),
		up:     up,
	}
}

// Liveness reports the process itself; dependencies are not consulted.
func (c *Checker) Liveness(_ context.Context) HealthResult {
	return HealthResult{Status: StatusUp}
}

// Readiness pings every dependency concurrently, each bounded by
// pingTimeout. One failed dependency marks the whole result down.
func (c *Checker) Readiness(ctx context.Context) HealthResult {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	var (
		mu     sync.Mutex
		result = HealthResult{Status: StatusUp, Checks: make(map[string]CheckResult, len(c.deps))}
	)
	var g errgroup.Group
	for name, dep := range c.deps {
		g.Go(func() error {
			check := c.ping(ctx, name, dep)
			mu.Lock()
			defer mu.Unlock()
			result.Checks[name] = check
			if check.Status == StatusDown {
				result.Status = StatusDown
			}
			return nil
		})
	}
	_ = g.Wait()
	return result
}

func (c *Checker) ping(ctx context.Context, name string, dep Pinger) CheckResult {
	start := time.Now()
	err := dep.Ping(ctx)
	check := CheckResult{Status: StatusUp, LatencyMS: time.Since(start).Milliseconds()}
	if err != nil {
		c.logger.WarnContext(ctx, "dependency unreachable", "dependency", name, "error", err)
		check.Status = StatusDown
		check.Error = err.Error()
		c.up.WithLabelValues(name).Set(0)
		return check
	}
	c.up.WithLabelValues(name).Set(1)
	return check
}
