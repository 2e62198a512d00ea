package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/mosaic/pkg/domain"
)

// Chain combines hook sets; each callback runs in the given order.
func Chain(sets ...domain.LifecycleHooks) domain.LifecycleHooks {
	var onAction []func(context.Context, *domain.ActionEvent)
	var onFocus []func(context.Context, *domain.FocusEvent)
	for _, h := range sets {
		if h.OnAction != nil {
			onAction = append(onAction, h.OnAction)
		}
		if h.OnFocusChange != nil {
			onFocus = append(onFocus, h.OnFocusChange)
		}
	}

	var out domain.LifecycleHooks
	if len(onAction) > 0 {
		out.OnAction = func(ctx context.Context, ev *domain.ActionEvent) {
			for _, fn := range onAction {
				fn(ctx, ev)
			}
		}
	}
	if len(onFocus) > 0 {
		out.OnFocusChange = func(ctx context.Context, ev *domain.FocusEvent) {
			for _, fn := range onFocus {
				fn(ctx, ev)
			}
		}
	}
	return out
}

// LogHooks logs every action at debug level and focus changes at info level.
func LogHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnAction: func(ctx context.Context, ev *domain.ActionEvent) {
			logger.DebugContext(ctx, "action",
				"workspace", ev.WorkspaceID,
				"op", ev.Action.Op,
				"path", ev.Action.Path.String(),
				"changed", ev.Changed,
				"revision", ev.Revision,
				"panes", ev.Panes,
			)
		},
		OnFocusChange: func(ctx context.Context, ev *domain.FocusEvent) {
			logger.InfoContext(ctx, "focus",
				"workspace", ev.WorkspaceID,
				"from", ev.From.String(),
				"to", ev.To.String(),
				"direction", ev.Direction,
			)
		},
	}
}
