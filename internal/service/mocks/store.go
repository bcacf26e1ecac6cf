package mocks

import (
	"context"

	"github.com/ticketstory/story-server/internal/pipeline"
	"github.com/ticketstory/story-server/internal/repository/models"
)

// MockTicketStore is a mock implementation of the TicketStore interface
// for testing the service layer.
type MockTicketStore struct {
	InitSchemaFunc             func(ctx context.Context) error
	InsertTicketsFunc          func(ctx context.Context, tickets []pipeline.Ticket) error
	GetDatasetStatsFunc        func(ctx context.Context) (models.DatasetStats, error)
	GetDailyVolumeFunc         func(ctx context.Context) ([]models.DailyVolume, error)
	GetProductCountsFunc       func(ctx context.Context) ([]models.ProductCount, error)
	GetCategoryCountsFunc      func(ctx context.Context) ([]models.CategoryCount, error)
	GetCustomerActivityFunc    func(ctx context.Context, limit int) ([]models.CustomerActivity, error)
	GetRepeatCustomerCountFunc func(ctx context.Context) (int64, error)
	GetRecentTicketCountFunc   func(ctx context.Context, days int) (int64, error)
	GetResolutionStatsFunc     func(ctx context.Context) ([]models.ResolutionStat, error)
}

func (m *MockTicketStore) InitSchema(ctx context.Context) error {
	if m.InitSchemaFunc != nil {
		return m.InitSchemaFunc(ctx)
	}
	return nil
}

func (m *MockTicketStore) InsertTickets(ctx context.Context, tickets []pipeline.Ticket) error {
	if m.InsertTicketsFunc != nil {
		return m.InsertTicketsFunc(ctx, tickets)
	}
	return nil
}

func (m *MockTicketStore) GetDatasetStats(ctx context.Context) (models.DatasetStats, error) {
	if m.GetDatasetStatsFunc != nil {
		return m.GetDatasetStatsFunc(ctx)
	}
	return models.DatasetStats{}, nil
}

func (m *MockTicketStore) GetDailyVolume(ctx context.Context) ([]models.DailyVolume, error) {
	if m.GetDailyVolumeFunc != nil {
		return m.GetDailyVolumeFunc(ctx)
	}
	return nil, nil
}

func (m *MockTicketStore) GetProductCounts(ctx context.Context) ([]models.ProductCount, error) {
	if m.GetProductCountsFunc != nil {
		return m.GetProductCountsFunc(ctx)
	}
	return nil, nil
}

func (m *MockTicketStore) GetCategoryCounts(ctx context.Context) ([]models.CategoryCount, error) {
	if m.GetCategoryCountsFunc != nil {
		return m.GetCategoryCountsFunc(ctx)
	}
	return nil, nil
}

func (m *MockTicketStore) GetCustomerActivity(ctx context.Context, limit int) ([]models.CustomerActivity, error) {
	if m.GetCustomerActivityFunc != nil {
		return m.GetCustomerActivityFunc(ctx, limit)
	}
	return nil, nil
}

func (m *MockTicketStore) GetRepeatCustomerCount(ctx context.Context) (int64, error) {
	if m.GetRepeatCustomerCountFunc != nil {
		return m.GetRepeatCustomerCountFunc(ctx)
	}
	return 0, nil
}

func (m *MockTicketStore) GetRecentTicketCount(ctx context.Context, days int) (int64, error) {
	if m.GetRecentTicketCountFunc != nil {
		return m.GetRecentTicketCountFunc(ctx, days)
	}
	return 0, nil
}

func (m *MockTicketStore) GetResolutionStats(ctx context.Context) ([]models.ResolutionStat, error) {
	if m.GetResolutionStatsFunc != nil {
		return m.GetResolutionStatsFunc(ctx)
	}
	return nil, nil
}
