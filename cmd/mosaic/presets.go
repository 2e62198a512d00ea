package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/aretw0/mosaic/internal/config"
	"github.com/aretw0/mosaic/internal/runtime"
	"github.com/aretw0/mosaic/pkg/domain"
	"github.com/aretw0/mosaic/pkg/dsl"
)

// presets are the layouts a new workspace can start from.
var presets = map[string]func() *dsl.Layout{
	"ide": func() *dsl.Layout {
		return dsl.Row(
			dsl.Column(
				dsl.Pane(domain.ToolQuery).Focused(),
				dsl.Pane(domain.ToolNotes),
			),
			dsl.Pane(domain.ToolStreamer),
		)
	},
	"dashboard": func() *dsl.Layout {
		return dsl.Column(
			dsl.Row(dsl.Pane(domain.ToolHome), dsl.Pane(domain.ToolStreamer)),
			dsl.Pane(domain.ToolQuery).Focused(),
		)
	},
	"notes": func() *dsl.Layout {
		return dsl.Row(dsl.Pane(domain.ToolNotes).Focused(), dsl.Pane(domain.ToolQuery))
	},
}

func presetNames() string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}

// buildPreset returns the first snapshot of workspace id laid out as preset name.
func buildPreset(cfg config.Config, name, id string) (*domain.Snapshot, error) {
	layout, ok := presets[name]
	if !ok {
		return nil, fmt.Errorf("unknown preset %q (want one of %s)", name, presetNames())
	}
	var opts []dsl.Option
	if cfg.CacheKeying() == runtime.KeyByPane {
		opts = append(opts, dsl.WithPaneKeyedCache())
	}
	return dsl.Build(id, layout(), opts...)
}
