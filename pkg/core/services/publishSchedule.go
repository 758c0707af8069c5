package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/psantana/sanctuary-scheduler/pkg/core/model"
	"github.com/psantana/sanctuary-scheduler/pkg/db"
)

// PublishScheduleResult contains the persisted row counts
type PublishScheduleResult struct {
	ScheduledRows int
	BackupRows    int
	VacantRows    int
}

// PublishScheduleStore defines the database operations needed to publish a
// schedule
type PublishScheduleStore interface {
	InsertScheduleEntries(ctx context.Context, entries []db.ScheduleEntry) error
}

// PublishSchedule persists a generated month as per-minister schedule rows.
// Unfilled positions are written as vacant rows so coordinators can see the
// gaps; backups get their own rows after the assigned positions.
func PublishSchedule(
	ctx context.Context,
	database PublishScheduleStore,
	logger *zap.Logger,
	schedules []model.GeneratedSchedule,
) (*PublishScheduleResult, error) {
	if len(schedules) == 0 {
		return nil, fmt.Errorf("nothing to publish - generate a schedule first")
	}

	result := &PublishScheduleResult{}
	var entries []db.ScheduleEntry

	for _, schedule := range schedules {
		slot := schedule.Slot

		for _, assignment := range schedule.Assignments {
			entries = append(entries, db.ScheduleEntry{
				ID:         uuid.New().String(),
				Date:       slot.DateString(),
				Time:       slot.Time,
				MassType:   string(slot.Type),
				MinisterID: assignment.Minister.ID,
				Position:   assignment.Position,
				Status:     "scheduled",
			})
			result.ScheduledRows++
		}

		for i := len(schedule.Assignments); i < slot.MinMinisters; i++ {
			entries = append(entries, db.ScheduleEntry{
				ID:       uuid.New().String(),
				Date:     slot.DateString(),
				Time:     slot.Time,
				MassType: string(slot.Type),
				Position: i + 1,
				Status:   "vacant",
			})
			result.VacantRows++
		}

		// family placement can overshoot the minimum; backups number from
		// whichever is higher
		backupBase := slot.MinMinisters
		if len(schedule.Assignments) > backupBase {
			backupBase = len(schedule.Assignments)
		}
		for i, backup := range schedule.BackupMinisters {
			entries = append(entries, db.ScheduleEntry{
				ID:         uuid.New().String(),
				Date:       slot.DateString(),
				Time:       slot.Time,
				MassType:   string(slot.Type),
				MinisterID: backup.ID,
				Position:   backupBase + i + 1,
				Status:     "backup",
			})
			result.BackupRows++
		}
	}

	logger.Debug("Persisting schedule entries",
		zap.Int("scheduled", result.ScheduledRows),
		zap.Int("vacant", result.VacantRows),
		zap.Int("backup", result.BackupRows))

	if err := database.InsertScheduleEntries(ctx, entries); err != nil {
		return nil, fmt.Errorf("failed to persist schedule: %w", err)
	}

	logger.Info("Schedule published",
		zap.Int("rows", len(entries)),
		zap.Int("vacant", result.VacantRows))

	return result, nil
}
