package observability_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/mosaic"
	"github.com/aretw0/mosaic/pkg/domain"
	"github.com/aretw0/mosaic/pkg/observability"
)

func TestMetrics_FromEngineHooks(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := observability.NewMetrics(reg)
	ws := mosaic.New(mosaic.WithLifecycleHooks(metrics.Hooks())).NewWorkspace("ws")

	right, ok := ws.SplitNode(domain.Root(), domain.RowAxis, domain.ToolQuery)
	require.True(t, ok)
	ws.MoveFocus(right, domain.DirLeft)
	ws.MoveFocus(domain.Path{0}, domain.DirLeft)
	ws.CloseNode(domain.Path{5})

	count, err := testutil.GatherAndCount(reg, "mosaic_actions_total")
	require.NoError(t, err)
	assert.Equal(t, 4, count, "one series per op and result")

	expected := bytes.NewBufferString(`
# HELP mosaic_focus_moves_total Directional focus moves, by direction and result (moved or noop).
# TYPE mosaic_focus_moves_total counter
mosaic_focus_moves_total{direction="left",result="moved"} 1
mosaic_focus_moves_total{direction="left",result="noop"} 1
# HELP mosaic_panes Number of panes in each workspace after its last action.
# TYPE mosaic_panes gauge
mosaic_panes{workspace="ws"} 2
`)
	assert.NoError(t, testutil.GatherAndCompare(reg, expected, "mosaic_focus_moves_total", "mosaic_panes"))

	metrics.Forget("ws")
	count, err = testutil.GatherAndCount(reg, "mosaic_panes")
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestChain(t *testing.T) {
	var order []string
	first := domain.LifecycleHooks{OnAction: func(context.Context, *domain.ActionEvent) { order = append(order, "first") }}
	second := domain.LifecycleHooks{
		OnAction:      func(context.Context, *domain.ActionEvent) { order = append(order, "second") },
		OnFocusChange: func(context.Context, *domain.FocusEvent) { order = append(order, "focus") },
	}

	hooks := observability.Chain(first, domain.LifecycleHooks{}, second)
	hooks.OnAction(context.Background(), &domain.ActionEvent{})
	hooks.OnFocusChange(context.Background(), &domain.FocusEvent{})
	assert.Equal(t, []string{"first", "second", "focus"}, order)

	empty := observability.Chain()
	assert.Nil(t, empty.OnAction)
	assert.Nil(t, empty.OnFocusChange)
}

func TestLogHooks(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	ws := mosaic.New(mosaic.WithLifecycleHooks(observability.LogHooks(logger))).NewWorkspace("ws")

	ws.RequestFocus(domain.Root())

	assert.Contains(t, buf.String(), "msg=action")
	assert.Contains(t, buf.String(), "op=request_focus")
	assert.Contains(t, buf.String(), "msg=focus")
	assert.Contains(t, buf.String(), "to=[]")
}
