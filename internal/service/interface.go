package service

import (
	"context"

	"github.com/ticketstory/story-server/internal/pipeline"
	"github.com/ticketstory/story-server/internal/repository/models"
)

// TicketStore defines the analytics storage operations for one run.
type TicketStore interface {
	InitSchema(ctx context.Context) error
	InsertTickets(ctx context.Context, tickets []pipeline.Ticket) error
	GetDatasetStats(ctx context.Context) (models.DatasetStats, error)
	GetDailyVolume(ctx context.Context) ([]models.DailyVolume, error)
	GetProductCounts(ctx context.Context) ([]models.ProductCount, error)
	GetCategoryCounts(ctx context.Context) ([]models.CategoryCount, error)
	GetCustomerActivity(ctx context.Context, limit int) ([]models.CustomerActivity, error)
	GetRepeatCustomerCount(ctx context.Context) (int64, error)
	GetRecentTicketCount(ctx context.Context, days int) (int64, error)
	GetResolutionStats(ctx context.Context) ([]models.ResolutionStat, error)
}

// StoreFactory builds a fresh per-run TicketStore together with a release
// function. Runs never share a store, so no locking is needed across
// concurrent uploads.
type StoreFactory func(ctx context.Context) (TicketStore, func() error, error)
