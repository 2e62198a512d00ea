package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/aretw0/mosaic"
	"github.com/aretw0/mosaic/internal/config"
	"github.com/aretw0/mosaic/internal/presentation/layout"
	"github.com/aretw0/mosaic/internal/presentation/tui"
	"github.com/aretw0/mosaic/pkg/keymap"
	"github.com/aretw0/mosaic/pkg/observability"
)

// tuiWorkspace names the workspace hosted by the terminal program.
const tuiWorkspace = "tui"

// tuiCmd represents the tui command
var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Open an interactive workspace in the terminal",
	Long: `Starts a full-screen workspace. Panes are split, closed and focused with alt
key chords (see the home tool or press f1); every pane hosts one tool.

The workspace lives as long as the program: the final layout is printed on exit
and nothing is kept.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
			return errors.New("tui requires an interactive terminal")
		}
		logPath, _ := cmd.Flags().GetString("log-file")
		quiet, _ := cmd.Flags().GetBool("quiet")
		preset, _ := cmd.Flags().GetString("preset")

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		keys := keymap.Default()
		if err := keys.Override(cfg.Keys); err != nil {
			return fmt.Errorf("invalid key bindings: %w", err)
		}

		// The screen belongs to the program; logs go to a file or nowhere.
		var logOut io.Writer
		if logPath != "" {
			f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
			if err != nil {
				return err
			}
			defer f.Close()
			logOut = f
		}
		logger, err := newLogger(cfg, logOut)
		if err != nil {
			return err
		}

		events := tui.NewEventLog(200)
		engine := newEngine(cfg, logger, observability.Chain(events.Hooks(), observability.LogHooks(logger)))

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		ws, err := openWorkspace(cfg, engine, preset)
		if err != nil {
			return err
		}

		if !quiet {
			tui.PrintBanner(cmd.OutOrStdout())
		}

		m := tui.New(ws,
			tui.WithKeyMap(keys),
			tui.WithSplitTool(cfg.DefaultTool()),
			tui.WithEventLog(events),
		)
		if err := tui.Run(ctx, m); err != nil {
			return err
		}
		if !quiet {
			snap := ws.Snapshot()
			fmt.Fprint(cmd.OutOrStdout(), layout.Outline(snap.Root, snap.Focus))
		}
		return nil
	},
}

// openWorkspace starts the hosted workspace, laid out by preset when one is named.
func openWorkspace(cfg config.Config, engine *mosaic.Engine, preset string) (*mosaic.Workspace, error) {
	if preset == "" {
		return engine.NewWorkspace(tuiWorkspace), nil
	}
	snap, err := buildPreset(cfg, preset, tuiWorkspace)
	if err != nil {
		return nil, err
	}
	return engine.Resume(snap), nil
}

func init() {
	rootCmd.AddCommand(tuiCmd)

	tuiCmd.Flags().String("log-file", "", "Write logs to this file")
	tuiCmd.Flags().StringP("preset", "p", "", "Start from a preset layout: "+presetNames())
	tuiCmd.Flags().BoolP("quiet", "q", false, "Do not print the banner and the final layout")

	// Make 'tui' the default if no command is provided.
	rootCmd.RunE = tuiCmd.RunE
}
