package repositories

import (
	"database/sql"
	"fmt"

	"github.com/desertthunder/m3ux/internal/models"
)

var _ models.Repository[*models.Conversion] = (*ConversionRepository)(nil)

// NextSequence atomically increments and returns the next sequence number for the given table.
//
// The counter lives in the single row of "<table>_sequence".
func NextSequence(db *sql.DB, table string) (int, error) {
	tx, err := db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	sequenceTable := table + "_sequence"

	var sequence int
	err = tx.QueryRow(fmt.Sprintf("UPDATE %s SET value = value + 1 WHERE id = 1 RETURNING value", sequenceTable)).Scan(&sequence)
	if err != nil {
		return 0, fmt.Errorf("failed to increment sequence: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit sequence transaction: %w", err)
	}

	return sequence, nil
}
