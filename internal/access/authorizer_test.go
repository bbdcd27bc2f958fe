package access

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthorizerLogsUnknownRoles(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}))
	a := NewAuthorizer(logger, nil)

	v := Viewer{ID: uuid.New(), Role: Role("wizard"), Region: "Bretagne"}
	d := a.Check(context.Background(), v, ActionReadOwn, MemberTarget(v.ID, "Bretagne"))

	assert.Equal(t, Evaluate(v, ActionReadOwn, MemberTarget(v.ID, "Bretagne")), d)
	assert.Contains(t, buf.String(), "member role outside enumeration")
	assert.Contains(t, buf.String(), "role=wizard")
}

func TestAuthorizerDoesNotLogOrdinaryDenialsAsErrors(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}))
	a := NewAuthorizer(logger, nil)

	v := Viewer{ID: uuid.New(), Role: RoleMember, Region: "Bretagne"}
	d := a.Check(context.Background(), v, ActionReadDashboard, DashboardTarget("Bretagne"))

	assert.False(t, d.Allowed)
	assert.Empty(t, buf.String())
}

func TestAuthorizerCountsDecisions(t *testing.T) {
	registry := prometheus.NewRegistry()
	a := NewAuthorizer(slog.Default(), registry)

	v := Viewer{ID: uuid.New(), Role: RoleCommittee, Region: "Bretagne"}
	a.Check(context.Background(), v, ActionReadDashboard, DashboardTarget(""))
	a.Check(context.Background(), v, ActionReadDashboard, DashboardTarget("Normandie"))
	a.Check(context.Background(), v, ActionWriteOtherRole, MemberTarget(uuid.New(), ""))

	require.NotNil(t, a.metrics.decisions)
	assert.Equal(t, 2.0, testutil.ToFloat64(a.metrics.decisions.WithLabelValues("read-dashboard", "allowed", "true")))
	assert.Equal(t, 1.0, testutil.ToFloat64(a.metrics.decisions.WithLabelValues("write-other-role", "denied", "false")))
}

func TestMetricsRegisterIsIdempotent(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := &Metrics{}
	m.Register(registry)
	assert.NotPanics(t, func() { m.Register(registry) })

	var empty Metrics
	empty.Register(nil)
	assert.Nil(t, empty.decisions)
	assert.NotPanics(t, func() { empty.observe(ActionReadOwn, allow()) })
}
