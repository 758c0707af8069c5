package db

import (
	"context"
	"fmt"
)

// GetSaintsByFeastDay retrieves the full saints calendar indexed by "MM-DD".
// Loading everything up front keeps the saint-bonus precomputation off the
// database during the slot loop.
func (db *DB) GetSaintsByFeastDay(ctx context.Context) (map[string][]Saint, error) {
	rows, err := db.pool.Query(ctx, `
		SELECT id, name, feast_day, COALESCE(rank, '')
		FROM saints`)
	if err != nil {
		return nil, fmt.Errorf("failed to query saints: %w", err)
	}
	defer rows.Close()

	byFeastDay := make(map[string][]Saint)
	for rows.Next() {
		var s Saint
		if err := rows.Scan(&s.ID, &s.Name, &s.FeastDay, &s.Rank); err != nil {
			return nil, fmt.Errorf("failed to scan saint row: %w", err)
		}
		byFeastDay[s.FeastDay] = append(byFeastDay[s.FeastDay], s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read saint rows: %w", err)
	}

	return byFeastDay, nil
}
