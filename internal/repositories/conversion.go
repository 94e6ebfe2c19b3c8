package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/m3ux/internal/models"
	"github.com/desertthunder/m3ux/internal/shared"
)

// ErrConversionNotFound is returned when no live conversion matches the lookup.
var ErrConversionNotFound = errors.New("conversion not found")

const conversionColumns = `id, sequence, playlist_id, playlist_name, source_link, library_root, output_path,
	total_tracks, matched_tracks, written, created_at, updated_at, deleted_at`

// ConversionRepository implements [models.Repository] for [models.Conversion] persistence.
type ConversionRepository struct {
	db *sql.DB
}

// NewConversionRepository creates a new [ConversionRepository] with the given database connection
func NewConversionRepository(db *sql.DB) *ConversionRepository {
	return &ConversionRepository{db: db}
}

// Create inserts a new conversion with a generated ID and sequence
func (r *ConversionRepository) Create(c *models.Conversion) error {
	sequence, err := NextSequence(r.db, "conversions")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	c.SetID(shared.GenerateID())
	c.SetSequence(sequence)

	if err := c.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `
		INSERT INTO conversions (id, sequence, playlist_id, playlist_name, source_link, library_root, output_path,
			total_tracks, matched_tracks, written, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query, c.ID(), sequence, c.PlaylistID(), c.PlaylistName(), c.SourceLink(), c.LibraryRoot(),
		c.OutputPath(), c.TotalTracks(), c.MatchedTracks(), c.Written(), c.CreatedAt(), c.UpdatedAt())
	if err != nil {
		return fmt.Errorf("failed to insert conversion: %w", err)
	}

	return nil
}

// Get retrieves a conversion by ID, excluding soft-deleted rows
func (r *ConversionRepository) Get(id string) (*models.Conversion, error) {
	row := r.db.QueryRow("SELECT "+conversionColumns+" FROM conversions WHERE id = ? AND deleted_at IS NULL", id)
	c, err := scanConversion(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrConversionNotFound, id)
	}
	return c, err
}

// GetBySequence retrieves a conversion by its sequence number
func (r *ConversionRepository) GetBySequence(sequence int) (*models.Conversion, error) {
	row := r.db.QueryRow("SELECT "+conversionColumns+" FROM conversions WHERE sequence = ? AND deleted_at IS NULL", sequence)
	c, err := scanConversion(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: #%d", ErrConversionNotFound, sequence)
	}
	return c, err
}

// Update stores the output path, counts and written flag of an existing conversion
func (r *ConversionRepository) Update(c *models.Conversion) error {
	if err := c.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now()
	c.SetUpdatedAt(now)

	query := `
		UPDATE conversions
		SET output_path = ?, total_tracks = ?, matched_tracks = ?, written = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query, c.OutputPath(), c.TotalTracks(), c.MatchedTracks(), c.Written(), now, c.ID())
	if err != nil {
		return fmt.Errorf("failed to update conversion: %w", err)
	}
	return expectAffected(result, c.ID())
}

// Delete soft-deletes a conversion by ID
func (r *ConversionRepository) Delete(id string) error {
	query := `
		UPDATE conversions
		SET deleted_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to delete conversion: %w", err)
	}
	return expectAffected(result, id)
}

// List retrieves conversions matching the given criteria, newest first, excluding soft-deleted rows.
//
// Supported criteria: "playlist_id" (string) and "limit" (int).
func (r *ConversionRepository) List(criteria map[string]any) ([]*models.Conversion, error) {
	query := "SELECT " + conversionColumns + " FROM conversions WHERE deleted_at IS NULL"
	args := []any{}

	if playlistID, ok := criteria["playlist_id"].(string); ok && playlistID != "" {
		query += " AND playlist_id = ?"
		args = append(args, playlistID)
	}

	query += " ORDER BY sequence DESC"

	if limit, ok := criteria["limit"].(int); ok && limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query conversions: %w", err)
	}
	defer rows.Close()

	var conversions []*models.Conversion
	for rows.Next() {
		c, err := scanConversion(rows)
		if err != nil {
			return nil, err
		}
		conversions = append(conversions, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return conversions, nil
}

// AddUnmatched stores the unmatched tracks of a conversion in one transaction
func (r *ConversionRepository) AddUnmatched(conversionID string, tracks []models.RemoteTrack) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO unmatched_tracks (id, conversion_id, ordinal, artist, title, album, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, track := range tracks {
		u := models.NewUnmatchedTrack(conversionID, track)
		if _, err := stmt.Exec(shared.GenerateID(), u.ConversionID, u.Ordinal, u.Artist, u.Title, u.Album, u.CreatedAt); err != nil {
			return fmt.Errorf("failed to insert unmatched track %d: %w", track.Ordinal, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit unmatched tracks: %w", err)
	}
	return nil
}

// ListUnmatched returns the unmatched tracks of a conversion ordered by ordinal
func (r *ConversionRepository) ListUnmatched(conversionID string) ([]models.UnmatchedTrack, error) {
	query := `
		SELECT id, conversion_id, ordinal, artist, title, album, created_at
		FROM unmatched_tracks
		WHERE conversion_id = ?
		ORDER BY ordinal ASC
	`

	rows, err := r.db.Query(query, conversionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query unmatched tracks: %w", err)
	}
	defer rows.Close()

	var tracks []models.UnmatchedTrack
	for rows.Next() {
		var u models.UnmatchedTrack
		if err := rows.Scan(&u.ID, &u.ConversionID, &u.Ordinal, &u.Artist, &u.Title, &u.Album, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan unmatched track: %w", err)
		}
		tracks = append(tracks, u)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return tracks, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanConversion(s scanner) (*models.Conversion, error) {
	var (
		id           string
		sequence     int
		playlistID   string
		playlistName string
		sourceLink   string
		libraryRoot  string
		outputPath   string
		total        int
		matched      int
		written      bool
		createdAt    time.Time
		updatedAt    time.Time
		deletedAt    sql.NullTime
	)

	err := s.Scan(&id, &sequence, &playlistID, &playlistName, &sourceLink, &libraryRoot, &outputPath,
		&total, &matched, &written, &createdAt, &updatedAt, &deletedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan conversion: %w", err)
	}

	outcome := models.ConversionOutcome{Playlist: models.Playlist{ID: playlistID, Name: playlistName}}
	c := models.NewConversion(sourceLink, libraryRoot, outputPath, outcome, written)
	c.SetID(id)
	c.SetSequence(sequence)
	c.SetCounts(total, matched)
	c.SetCreatedAt(createdAt)
	c.SetUpdatedAt(updatedAt)
	if deletedAt.Valid {
		c.SetDeletedAt(&deletedAt.Time)
	}
	return c, nil
}

func expectAffected(result sql.Result, id string) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w or already deleted: %s", ErrConversionNotFound, id)
	}
	return nil
}
