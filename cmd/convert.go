package main

import (
	"context"
	"sync"

	"github.com/desertthunder/m3ux/internal/formatter"
	"github.com/desertthunder/m3ux/internal/tasks"
	"github.com/desertthunder/m3ux/internal/ui"
	"github.com/urfave/cli/v3"
)

// Convert matches a playlist against the library root and writes the .m3u file.
//
// Missing link or root values are asked for on the input.
func (r *Runner) Convert(ctx context.Context, cmd *cli.Command) error {
	engine, cleanup, err := r.newEngine(!cmd.Bool("no-history"))
	if err != nil {
		return err
	}
	defer cleanup()

	link := cmd.String("playlist")
	if link == "" {
		if link, err = r.prompt(ui.LinkPrompt); err != nil {
			return err
		}
	}

	root := cmd.String("root")
	if root == "" {
		root = r.config.Library.Root
	}
	if root == "" {
		if root, err = r.prompt(ui.RootPrompt); err != nil {
			return err
		}
	}

	outputDir := cmd.String("output")
	if outputDir == "" {
		outputDir = r.config.Output.Dir
	}

	workers := int(cmd.Int("workers"))
	if workers < 0 {
		workers = r.config.Library.Workers
	}

	var report formatter.ReportFormat
	if format := cmd.String("report"); format != "" || cmd.String("report-file") != "" {
		if format == "" {
			format = r.config.Output.ReportFormat
		}
		if report, err = formatter.ParseReportFormat(format); err != nil {
			return err
		}
	}

	r.logger.Info("starting conversion", "playlist", link, "root", root, "workers", workers)

	progressCh := make(chan tasks.ProgressUpdate, 50)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for update := range progressCh {
			switch update.Phase {
			case tasks.FetchSource, tasks.BuildIndex:
				if update.Step == update.Total {
					r.writePlain("%s\n", update.Message)
				}
			case tasks.ResolveTracks:
				r.logger.Debug(update.Message)
			}
		}
	}()

	result, err := engine.Convert(ctx, progressCh, tasks.ConvertRequest{
		Link:      link,
		Root:      root,
		OutputDir: outputDir,
		Workers:   workers,
	})
	close(progressCh)
	wg.Wait()

	if err != nil {
		return err
	}

	r.printSummary(result)

	if report != "" {
		path, err := formatter.WriteReport(result.Outcome, report, cmd.String("report-file"))
		if err != nil {
			return err
		}
		r.writePlain("Report written to %s\n", path)
	}
	return nil
}

func (r *Runner) printSummary(result *tasks.ConvertResult) {
	outcome := result.Outcome

	r.writePlain("\n")
	r.writePlainHeader("Conversion Complete!")
	r.writePlain("Playlist: %s\n", outcome.Playlist.Name)
	r.writePlain("Matched: %d/%d\n", outcome.MatchedCount(), len(outcome.Results))
	if result.Written {
		r.writePlain("✓ Wrote %s\n", result.Path)
	} else {
		r.writePlain("No tracks matched, playlist not written\n")
	}
	if result.ConversionID != "" {
		r.logger.Debug("recorded conversion", "id", result.ConversionID)
	}

	if outcome.FailureCount() > 0 {
		r.writePlain("\n%s", formatter.FailureReport(outcome))
		r.writePlain("%d tracks could not be found\n", outcome.FailureCount())
	}
}
