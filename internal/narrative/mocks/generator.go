package mocks

import (
	"context"
	"errors"

	"github.com/ticketstory/story-server/internal/narrative"
)

// MockGenerator is a mock implementation of the narrative.Generator interface
// for testing the orchestration layer. It uses function-based mocking for flexibility.
type MockGenerator struct {
	GenerateFunc func(ctx context.Context, req narrative.Request) (string, error)
}

// Generate implements the Generator interface
func (m *MockGenerator) Generate(ctx context.Context, req narrative.Request) (string, error) {
	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, req)
	}
	return "", errors.New("GenerateFunc not implemented")
}
