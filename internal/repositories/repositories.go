// package repositories provides persistence layer implementations for all model types.
package repositories

import (
	"database/sql"
	"fmt"
	"slices"
)

// sequencedTables lists tables that have a companion {table}_sequence counter row.
var sequencedTables = []string{"posts"}

// NextSequence increments and returns the sequence counter for table.
//
// Sequence numbers give posts a stable, human-readable ordering (post #42) independent of UUIDs.
func NextSequence(db *sql.DB, table string) (int, error) {
	if !slices.Contains(sequencedTables, table) {
		return 0, fmt.Errorf("no sequence for table %q", table)
	}

	var sequence int
	query := fmt.Sprintf("UPDATE %s_sequence SET value = value + 1 WHERE id = 1 RETURNING value", table)
	if err := db.QueryRow(query).Scan(&sequence); err != nil {
		return 0, fmt.Errorf("failed to advance %s sequence: %w", table, err)
	}
	return sequence, nil
}
