package db

import (
	"context"
	"fmt"
)

// GetActiveMinisters retrieves all active users with the minister role.
// Coordinators, managers and inactive users are excluded at the query level
// so callers never see non-schedulable rows.
func (db *DB) GetActiveMinisters(ctx context.Context) ([]Minister, error) {
	rows, err := db.pool.Query(ctx, `
		SELECT id, name, role, status,
		       COALESCE(total_services, 0),
		       last_service,
		       COALESCE(preferred_times, '{}'),
		       COALESCE(can_serve_as_couple, false),
		       COALESCE(spouse_minister_id, ''),
		       COALESCE(family_id, '')
		FROM users
		WHERE status = 'active' AND role = 'ministro'
		ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to query ministers: %w", err)
	}
	defer rows.Close()

	var ministers []Minister
	for rows.Next() {
		var m Minister
		if err := rows.Scan(&m.ID, &m.Name, &m.Role, &m.Status, &m.TotalServices,
			&m.LastService, &m.PreferredTimes, &m.CanServeAsCouple,
			&m.SpouseMinisterID, &m.FamilyID); err != nil {
			return nil, fmt.Errorf("failed to scan minister row: %w", err)
		}
		ministers = append(ministers, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read minister rows: %w", err)
	}

	return ministers, nil
}

// GetFamilies retrieves family records for the given ids
func (db *DB) GetFamilies(ctx context.Context, ids []string) ([]Family, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	rows, err := db.pool.Query(ctx, `
		SELECT id, COALESCE(name, ''), COALESCE(prefer_serve_together, true)
		FROM family_relationships
		WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to query families: %w", err)
	}
	defer rows.Close()

	var families []Family
	for rows.Next() {
		var f Family
		if err := rows.Scan(&f.ID, &f.Name, &f.PreferServeTogether); err != nil {
			return nil, fmt.Errorf("failed to scan family row: %w", err)
		}
		families = append(families, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read family rows: %w", err)
	}

	return families, nil
}

// GetMassTimeConfig retrieves the active mass-time configuration rows
func (db *DB) GetMassTimeConfig(ctx context.Context) ([]MassTimeConfig, error) {
	rows, err := db.pool.Query(ctx, `
		SELECT id, day_of_week, time, min_ministers, max_ministers, is_active
		FROM mass_times_config
		WHERE is_active = true
		ORDER BY day_of_week, time`)
	if err != nil {
		return nil, fmt.Errorf("failed to query mass time config: %w", err)
	}
	defer rows.Close()

	var configs []MassTimeConfig
	for rows.Next() {
		var c MassTimeConfig
		if err := rows.Scan(&c.ID, &c.DayOfWeek, &c.Time, &c.MinMinisters, &c.MaxMinisters, &c.IsActive); err != nil {
			return nil, fmt.Errorf("failed to scan mass time config row: %w", err)
		}
		configs = append(configs, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read mass time config rows: %w", err)
	}

	return configs, nil
}
