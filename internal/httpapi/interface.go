package httpapi

import (
	"context"

	"github.com/ticketstory/story-server/internal/ingest"
	"github.com/ticketstory/story-server/internal/pipeline"
	"github.com/ticketstory/story-server/internal/service"
)

// SummaryService defines the pipeline operations the HTTP layer depends on.
type SummaryService interface {
	Run(ctx context.Context, table *ingest.Table) (*service.RunResult, error)
	Clean(table *ingest.Table) ([]pipeline.Ticket, service.CleanStats, error)
}
