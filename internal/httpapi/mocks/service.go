package mocks

import (
	"context"
	"errors"

	"github.com/ticketstory/story-server/internal/ingest"
	"github.com/ticketstory/story-server/internal/pipeline"
	"github.com/ticketstory/story-server/internal/service"
)

// MockSummaryService is a mock implementation of the SummaryService interface
// for testing the handler layer. It uses function-based mocking for flexibility.
type MockSummaryService struct {
	RunFunc   func(ctx context.Context, table *ingest.Table) (*service.RunResult, error)
	CleanFunc func(table *ingest.Table) ([]pipeline.Ticket, service.CleanStats, error)
}

// Run implements the SummaryService interface
func (m *MockSummaryService) Run(ctx context.Context, table *ingest.Table) (*service.RunResult, error) {
	if m.RunFunc != nil {
		return m.RunFunc(ctx, table)
	}
	return nil, errors.New("RunFunc not implemented")
}

// Clean implements the SummaryService interface
func (m *MockSummaryService) Clean(table *ingest.Table) ([]pipeline.Ticket, service.CleanStats, error) {
	if m.CleanFunc != nil {
		return m.CleanFunc(table)
	}
	return nil, service.CleanStats{}, errors.New("CleanFunc not implemented")
}
