package main

import (
	"context"
	"fmt"

	"github.com/adrg/xdg"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/m3ux/internal/shared"
	"github.com/desertthunder/m3ux/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive terminal UI for playlist conversion.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	// Redirect logs to file to avoid interfering with TUI rendering
	logPath, err := xdg.StateFile("m3ux/tui.log")
	if err != nil {
		return fmt.Errorf("failed to resolve log file path: %w", err)
	}
	fileLogger, err := shared.NewFileLogger(logPath)
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	fileLogger.SetLevel(r.logger.GetLevel())
	r.logger = fileLogger

	engine, cleanup, err := r.newEngine(true)
	if err != nil {
		return err
	}
	defer cleanup()

	root := cmd.String("root")
	if root == "" {
		root = r.config.Library.Root
	}

	model := ui.NewModel(ctx, r.catalog, engine, ui.Options{
		Link:      cmd.String("playlist"),
		Root:      root,
		OutputDir: r.config.Output.Dir,
		Workers:   r.config.Library.Workers,
	})
	p := tea.NewProgram(model, tea.WithContext(ctx))

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
