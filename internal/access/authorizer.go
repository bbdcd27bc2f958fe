package access

import (
	"context"
	"log/slog"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Authorizer runs Evaluate and reports on the result. It never alters a decision.
type Authorizer struct {
	logger  *slog.Logger
	metrics *Metrics
}

// NewAuthorizer creates an authorizer. A nil registry disables metrics.
func NewAuthorizer(logger *slog.Logger, registry prometheus.Registerer) *Authorizer {
	if logger == nil {
		logger = slog.Default()
	}
	m := &Metrics{}
	m.Register(registry)
	return &Authorizer{logger: logger, metrics: m}
}

// Check evaluates the triple and records the outcome.
func (a *Authorizer) Check(ctx context.Context, viewer Viewer, action Action, target Target) Decision {
	d := Evaluate(viewer, action, target)

	switch d.Outcome {
	case OutcomeUnknownRole:
		a.logger.WarnContext(ctx, "member role outside enumeration, evaluated as member",
			"viewer_id", viewer.ID,
			"role", string(viewer.Role),
			"action", string(action),
		)
	case OutcomeInvalidTarget:
		a.logger.DebugContext(ctx, "access target rejected",
			"viewer_id", viewer.ID,
			"action", string(action),
		)
	case OutcomeDenied:
		a.logger.DebugContext(ctx, "access denied",
			"viewer_id", viewer.ID,
			"action", string(action),
			"reason", string(d.Reason),
		)
	}

	a.metrics.observe(action, d)
	return d
}

// Metrics counts access decisions.
type Metrics struct {
	decisions    *prometheus.CounterVec
	registerOnce sync.Once
}

// Register registers the counters with registry. A nil registry is a no-op, and
// calls after the first registration do nothing.
func (m *Metrics) Register(registry prometheus.Registerer) {
	if registry == nil {
		return
	}
	m.registerOnce.Do(func() {
		factory := promauto.With(registry)
		m.decisions = factory.NewCounterVec(prometheus.CounterOpts{
			Name: "alumni_access_decisions_total",
			Help: "Total number of access policy decisions by action and outcome",
		}, []string{"action", "outcome", "allowed"})
	})
}

func (m *Metrics) observe(action Action, d Decision) {
	if m == nil || m.decisions == nil {
		return
	}
	allowed := "false"
	if d.Allowed {
		allowed = "true"
	}
	m.decisions.WithLabelValues(string(action), string(d.Outcome), allowed).Inc()
}
