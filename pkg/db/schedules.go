package db

import (
	"context"
	"fmt"
)

// InsertScheduleEntries persists generated per-minister assignment rows in a
// single transaction so a failed publish never leaves a partial month behind.
func (db *DB) InsertScheduleEntries(ctx context.Context, entries []ScheduleEntry) error {
	if len(entries) == 0 {
		return nil
	}

	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, e := range entries {
		var ministerID any
		if e.MinisterID != "" {
			ministerID = e.MinisterID
		}
		_, err := tx.Exec(ctx, `
			INSERT INTO schedules (id, date, time, mass_type, minister_id, position, status)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			e.ID, e.Date, e.Time, e.MassType, ministerID, e.Position, e.Status)
		if err != nil {
			return fmt.Errorf("failed to insert schedule entry %s %s pos %d: %w", e.Date, e.Time, e.Position, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit schedule entries: %w", err)
	}

	return nil
}
