/*
Package dsl provides a Go DSL (Domain Specific Language) for declaring Mosaic layouts.

Instead of replaying split actions one by one, a layout is written as the tree it
should become and built into a ready snapshot. This is useful for presets, fixtures
in tests and restoring a known arrangement.

Example usage:

	snap, err := dsl.Build("ide",
		dsl.Row(
			dsl.Column(
				dsl.Pane(domain.ToolQuery).Focused(),
				dsl.Pane(domain.ToolNotes).WithState("todo: review"),
			),
			dsl.Pane(domain.ToolStreamer),
		),
	)
	if err != nil {
		return err
	}
	ws := engine.Resume(snap)
*/
package dsl
