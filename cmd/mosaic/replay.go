package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/aretw0/mosaic"
	"github.com/aretw0/mosaic/internal/presentation/layout"
	"github.com/aretw0/mosaic/pkg/actions"
	"github.com/aretw0/mosaic/pkg/observability"
)

// Output formats of the replay command.
const (
	formatOutline = "outline"
	formatMermaid = "mermaid"
	formatJSON    = "json"
)

// replayCmd represents the replay command
var replayCmd = &cobra.Command{
	Use:   "replay <script.yaml>",
	Short: "Replay an action script and print the resulting layout",
	Long: `Applies every action of a YAML script to a fresh workspace and prints the
final layout as an outline, a Mermaid diagram (graph TD) or the JSON snapshot.

Actions that change nothing are skipped silently; an invalid action stops the
replay with its position in the script.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		verbose, _ := cmd.Flags().GetBool("verbose")

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		script, err := actions.LoadScript(args[0])
		if err != nil {
			return err
		}

		var logOut io.Writer
		if verbose {
			logOut = cmd.ErrOrStderr()
		}
		logger, err := newLogger(cfg, logOut)
		if err != nil {
			return err
		}

		opts := []mosaic.Option{
			mosaic.WithLogger(logger),
			mosaic.WithLifecycleHooks(observability.LogHooks(logger)),
			mosaic.WithDefaultTool(cfg.DefaultTool()),
			mosaic.WithCacheKeying(cfg.CacheKeying()),
		}
		if script.DefaultTool != "" {
			opts = append(opts, mosaic.WithDefaultTool(script.DefaultTool))
		}
		return replay(cmd.Context(), mosaic.New(opts...), script, format, cmd.OutOrStdout())
	},
}

// replay applies script to a fresh workspace and writes the result to w.
func replay(ctx context.Context, engine *mosaic.Engine, script *actions.Script, format string, w io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	name := script.Name
	if name == "" {
		name = "replay"
	}
	ws := engine.NewWorkspace(name)
	for i, action := range script.Actions {
		if _, err := ws.Apply(ctx, action); err != nil {
			return fmt.Errorf("action %d (%s): %w", i+1, action, err)
		}
	}

	snap := ws.Snapshot()
	switch format {
	case formatOutline:
		_, err := fmt.Fprint(w, layout.Outline(snap.Root, snap.Focus))
		return err
	case formatMermaid:
		_, err := fmt.Fprint(w, layout.GenerateMermaid(snap.Root, &layout.Overlay{Focus: snap.Focus}))
		return err
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(snap)
	default:
		return fmt.Errorf("unknown format %q (want %s, %s or %s)", format, formatOutline, formatMermaid, formatJSON)
	}
}

func init() {
	rootCmd.AddCommand(replayCmd)

	replayCmd.Flags().StringP("format", "f", formatOutline, "Output format: outline, mermaid or json")
	replayCmd.Flags().BoolP("verbose", "v", false, "Log every applied action to stderr")
}
