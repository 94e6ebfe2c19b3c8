package formatter

import (
	"fmt"
	"os"
	"strings"

	"github.com/desertthunder/m3ux/internal/models"
	"github.com/desertthunder/m3ux/internal/shared"
)

// ReportFormat selects the layout of a conversion report.
type ReportFormat string

const (
	ReportCSV      ReportFormat = "csv"
	ReportMarkdown ReportFormat = "markdown"
	ReportText     ReportFormat = "txt"
)

// ParseReportFormat accepts csv, markdown (or md) and txt (or text).
func ParseReportFormat(s string) (ReportFormat, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "csv":
		return ReportCSV, nil
	case "markdown", "md":
		return ReportMarkdown, nil
	case "txt", "text":
		return ReportText, nil
	}
	return "", fmt.Errorf("%w: unknown report format %q (want csv, markdown or txt)", shared.ErrInvalidArgument, s)
}

// Extension returns the file extension for the format, including the dot.
func (f ReportFormat) Extension() string {
	switch f {
	case ReportCSV:
		return ".csv"
	case ReportMarkdown:
		return ".md"
	default:
		return ".txt"
	}
}

// Render converts outcome into the report format.
func (f ReportFormat) Render(outcome models.ConversionOutcome) ([]byte, error) {
	switch f {
	case ReportCSV:
		return ExportToCSV(outcome)
	case ReportMarkdown:
		return ExportToMarkdown(outcome)
	case ReportText:
		return ExportToText(outcome)
	}
	return nil, fmt.Errorf("%w: unknown report format %q", shared.ErrInvalidArgument, string(f))
}

// WriteReport renders outcome and writes it to path.
//
// Defaults to "<playlist>_report<ext>" in the working directory.
func WriteReport(outcome models.ConversionOutcome, format ReportFormat, path string) (string, error) {
	if path == "" {
		base := strings.TrimSuffix(PlaylistFileName(outcome.Playlist.Name, outcome.Playlist.ID), ".m3u")
		path = base + "_report" + format.Extension()
	}

	data, err := format.Render(outcome)
	if err != nil {
		return "", err
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write report file: %w", err)
	}
	return path, nil
}
