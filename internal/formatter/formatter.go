// package formatter renders conversion outcomes as M3U playlists and as reports (CSV, Markdown, plain text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/desertthunder/m3ux/internal/models"
	"github.com/desertthunder/m3ux/internal/shared"
)

// M3UHeader is the first line of every extended M3U playlist.
const M3UHeader = "#EXTM3U"

// FailureHeader opens the console list of unmatched tracks.
const FailureHeader = "The following tracks could not be found: "

// M3ULines returns the header followed by an EXTINF line and a path line per matched track, in playlist order.
func M3ULines(outcome models.ConversionOutcome) []string {
	lines := []string{M3UHeader}
	for _, track := range outcome.Matches() {
		lines = append(lines, "#EXTINF:"+track.Info(), track.SlashPath())
	}
	return lines
}

// ExportToM3U joins [M3ULines] with newlines. There is no trailing newline.
func ExportToM3U(outcome models.ConversionOutcome) []byte {
	return []byte(strings.Join(M3ULines(outcome), "\n"))
}

// PlaylistFileName returns "<name>.m3u" with path separators in name replaced by underscores.
// An empty name falls back to fallback.
func PlaylistFileName(name, fallback string) string {
	if strings.TrimSpace(name) == "" {
		name = fallback
	}
	name = strings.NewReplacer("/", "_", `\`, "_").Replace(name)
	return name + ".m3u"
}

// WriteM3U writes the playlist for outcome into dir, replacing any existing file.
//
// Nothing is written when no track matched; the returned error then wraps [shared.ErrEmptyResult].
func WriteM3U(outcome models.ConversionOutcome, dir string) (string, error) {
	if outcome.MatchedCount() == 0 {
		return "", fmt.Errorf("%w: no tracks matched for %q", shared.ErrEmptyResult, outcome.Playlist.Name)
	}

	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	path := filepath.Join(dir, PlaylistFileName(outcome.Playlist.Name, outcome.Playlist.ID))
	if err := os.WriteFile(path, ExportToM3U(outcome), 0644); err != nil {
		return "", fmt.Errorf("failed to write playlist file: %w", err)
	}
	return path, nil
}

// FailureReport lists every unmatched track as "<ordinal> - <title>", one per line, after [FailureHeader].
func FailureReport(outcome models.ConversionOutcome) string {
	var b strings.Builder
	b.WriteString(FailureHeader + "\n")
	for _, f := range outcome.Failures() {
		fmt.Fprintf(&b, "%d - %s\n", f.Ordinal, f.Title)
	}
	return b.String()
}

// ExportToCSV converts an outcome to CSV with columns: Ordinal, Artist, Title, Album, Status, Length, Path
func ExportToCSV(outcome models.ConversionOutcome) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Ordinal", "Artist", "Title", "Album", "Status", "Length", "Path"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, r := range outcome.Results {
		record := []string{
			strconv.Itoa(r.Remote.Ordinal),
			r.Remote.Artist,
			r.Remote.Title,
			r.Remote.Album,
			r.Tier.String(),
			"",
			"",
		}
		if r.Matched() {
			record[5] = r.Local.Length
			record[6] = r.Local.SlashPath()
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts an outcome to Markdown with a summary, the matched tracks and the missing ones.
func ExportToMarkdown(outcome models.ConversionOutcome) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "# %s\n\n", outcome.Playlist.Name)
	fmt.Fprintf(&buf, "**Tracks**: %d\n", len(outcome.Results))
	fmt.Fprintf(&buf, "**Matched**: %d\n", outcome.MatchedCount())
	fmt.Fprintf(&buf, "**Missing**: %d\n\n", outcome.FailureCount())

	buf.WriteString("## Matched\n\n")
	for _, r := range outcome.Results {
		if r.Matched() {
			fmt.Fprintf(&buf, "%d. %s - %s (%s) `%s`\n", r.Remote.Ordinal, r.Remote.Artist, r.Remote.Title, r.Tier, r.Local.SlashPath())
		}
	}

	if outcome.FailureCount() > 0 {
		buf.WriteString("\n## Missing\n\n")
		for _, r := range outcome.Results {
			if r.Matched() {
				continue
			}
			albumPart := ""
			if r.Remote.Album != "" {
				albumPart = fmt.Sprintf(" (%s)", r.Remote.Album)
			}
			fmt.Fprintf(&buf, "%d. %s - %s%s\n", r.Remote.Ordinal, r.Remote.Artist, r.Remote.Title, albumPart)
		}
	}

	return buf.Bytes(), nil
}

// ExportToText converts an outcome to plain text, marking each track as found or missing.
func ExportToText(outcome models.ConversionOutcome) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "Playlist: %s\n", outcome.Playlist.Name)
	fmt.Fprintf(&buf, "Tracks: %d (matched %d, missing %d)\n\n", len(outcome.Results), outcome.MatchedCount(), outcome.FailureCount())

	for _, r := range outcome.Results {
		status := "missing"
		if r.Matched() {
			status = r.Local.SlashPath()
		}
		fmt.Fprintf(&buf, "%d. %s - %s: %s\n", r.Remote.Ordinal, r.Remote.Artist, r.Remote.Title, status)
	}

	return buf.Bytes(), nil
}

// ExportTracksToText lists the remote tracks of a playlist, one per line.
func ExportTracksToText(export *models.PlaylistExport) []byte {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "Playlist: %s\n", export.Playlist.Name)
	fmt.Fprintf(&buf, "Tracks: %d\n\n", len(export.Tracks))
	for _, t := range export.Tracks {
		albumPart := ""
		if t.Album != "" {
			albumPart = fmt.Sprintf(" (%s)", t.Album)
		}
		fmt.Fprintf(&buf, "%d. %s - %s%s\n", t.Ordinal, t.Artist, t.Title, albumPart)
	}
	return buf.Bytes()
}

