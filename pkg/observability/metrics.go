package observability

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/aretw0/mosaic/pkg/domain"
)

// Metrics holds the Prometheus collectors fed by engine hooks.
type Metrics struct {
	actions    *prometheus.CounterVec
	focusMoves *prometheus.CounterVec
	panes      *prometheus.GaugeVec
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		actions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mosaic_actions_total",
				Help: "Actions applied to workspaces, by operation and result (changed or noop).",
			},
			[]string{"op", "result"},
		),
		focusMoves: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mosaic_focus_moves_total",
				Help: "Directional focus moves, by direction and result (moved or noop).",
			},
			[]string{"direction", "result"},
		),
		panes: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "mosaic_panes",
				Help: "Number of panes in each workspace after its last action.",
			},
			[]string{"workspace"},
		),
	}
	if reg != nil {
		reg.MustRegister(m.actions, m.focusMoves, m.panes)
	}
	return m
}

// Hooks returns lifecycle hooks that record into m.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnAction: func(_ context.Context, ev *domain.ActionEvent) {
			result := "noop"
			if ev.Changed {
				result = "changed"
			}
			m.actions.WithLabelValues(string(ev.Action.Op), result).Inc()

			if ev.Action.Op == domain.OpMoveFocus {
				moved := "noop"
				if ev.Changed {
					moved = "moved"
				}
				m.focusMoves.WithLabelValues(string(ev.Action.Direction), moved).Inc()
			}
			m.panes.WithLabelValues(ev.WorkspaceID).Set(float64(ev.Panes))
		},
	}
}

// Forget drops the pane gauge of a deleted workspace.
func (m *Metrics) Forget(workspaceID string) {
	m.panes.DeleteLabelValues(workspaceID)
}
