package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/psantana/sanctuary-scheduler/pkg/core/model"
	"github.com/psantana/sanctuary-scheduler/pkg/db"
)

// ListMinistersResult contains the active minister roster
type ListMinistersResult struct {
	Ministers []model.Minister
}

// ListMinistersStore defines the database operations needed to list ministers
type ListMinistersStore interface {
	GetActiveMinisters(ctx context.Context) ([]db.Minister, error)
}

// ListMinisters fetches the active, schedulable minister roster
func ListMinisters(ctx context.Context, database ListMinistersStore, logger *zap.Logger) (*ListMinistersResult, error) {
	rows, err := database.GetActiveMinisters(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch ministers: %w", err)
	}

	logger.Debug("Found active ministers", zap.Int("count", len(rows)))

	return &ListMinistersResult{Ministers: toCoreMinisters(rows)}, nil
}
