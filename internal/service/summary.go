package service

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ticketstory/story-server/internal/config"
	"github.com/ticketstory/story-server/internal/ingest"
	"github.com/ticketstory/story-server/internal/narrative"
	"github.com/ticketstory/story-server/internal/pipeline"
)

// ErrNoTickets is the terminal state for uploads where no row survives
// filtering. It is distinct from a crash: the input was readable and valid,
// it just contained nothing processable.
var ErrNoTickets = errors.New("no valid tickets after filtering")

const maxListedOrders = 5

// SummaryService drives the whole processing pipeline for one upload:
// validation, cleaning, grouping, phase segmentation, narrative generation,
// and analytics. Each call to Run works on its own in-memory data, so
// concurrent uploads share no mutable state.
type SummaryService struct {
	cfg         *config.Pipeline
	generator   narrative.Generator
	stores      StoreFactory
	logger      *zap.Logger
	callTimeout time.Duration
	concurrency int
}

// NewSummaryService creates a new SummaryService instance.
func NewSummaryService(cfg *config.Pipeline, gen narrative.Generator, stores StoreFactory, logger *zap.Logger, callTimeout time.Duration, concurrency int) *SummaryService {
	if cfg == nil {
		panic("pipeline config must not be nil")
	}
	if gen == nil {
		panic("generator must not be nil")
	}
	if logger == nil {
		l, _ := zap.NewProduction()
		logger = l
	}
	if callTimeout <= 0 {
		callTimeout = 30 * time.Second
	}
	if concurrency <= 0 {
		concurrency = 1
	}
	return &SummaryService{
		cfg:         cfg,
		generator:   gen,
		stores:      stores,
		logger:      logger,
		callTimeout: callTimeout,
		concurrency: concurrency,
	}
}

// Clean validates the table schema and runs the row-level cleaning stages.
// It returns the surviving tickets sorted ascending by acceptance time. A
// missing column is fatal; rows with unknown categories or unparseable
// acceptance times are dropped and counted.
func (s *SummaryService) Clean(table *ingest.Table) ([]pipeline.Ticket, CleanStats, error) {
	stats := CleanStats{TotalRows: len(table.Rows)}

	if err := ingest.ValidateSchema(table, s.cfg.RequiredColumns); err != nil {
		return nil, stats, err
	}

	kept, droppedCategories := pipeline.FilterCategories(table.Rows, s.cfg.CategoryMapping)
	stats.DiscardedCategories = droppedCategories

	tickets, droppedDates := pipeline.NormalizeDates(kept, s.cfg)
	stats.DiscardedDates = droppedDates

	if len(tickets) == 0 {
		return nil, stats, ErrNoTickets
	}

	return pipeline.SortByAcceptance(tickets), stats, nil
}

// Run processes one uploaded table end to end. Schema failures abort the run;
// everything after that is best effort. A narrative failure for one phase is
// absorbed into that phase's fallback slot and never stops other groups.
func (s *SummaryService) Run(ctx context.Context, table *ingest.Table) (*RunResult, error) {
	tickets, stats, err := s.Clean(table)
	if err != nil {
		return nil, err
	}

	groups := pipeline.SortAndGroup(tickets)

	result := &RunResult{
		RunID:  uuid.NewString(),
		Stats:  stats,
		Groups: make([]GroupResult, len(groups)),
	}

	s.logger.Info("pipeline cleaned upload",
		zap.String("run_id", result.RunID),
		zap.Int("total_rows", stats.TotalRows),
		zap.Int("discarded", stats.Discarded()),
		zap.Int("tickets", len(tickets)),
		zap.Int("groups", len(groups)))

	var fallbacks atomic.Int64
	var eg errgroup.Group
	eg.SetLimit(s.concurrency)

	for gi, group := range groups {
		phases, err := pipeline.SegmentPhases(group, s.cfg.PhaseLabels)
		if err != nil {
			return nil, fmt.Errorf("segment group %s/%s: %w", group.Key.CustomerNumber, group.Key.Product, err)
		}

		result.Groups[gi] = GroupResult{
			CustomerNumber: group.Key.CustomerNumber,
			Product:        group.Key.Product,
			TicketCount:    len(group.Tickets),
			Phases:         make([]PhaseResult, len(phases)),
		}

		for pi, phase := range phases {
			slot := &result.Groups[gi].Phases[pi]
			*slot = newPhaseResult(phase)

			req := narrative.BuildRequest(group.Key, phase, s.cfg.PromptByteBudget)
			if req.Empty() {
				slot.Narrative = narrative.EmptyPhaseNarrative
				slot.Source = narrative.SourcePlaceholder
				continue
			}

			// Each goroutine writes only its own pre-allocated slot, so no
			// locking is needed around the result.
			eg.Go(func() error {
				callCtx, cancel := context.WithTimeout(ctx, s.callTimeout)
				defer cancel()

				text, err := s.generator.Generate(callCtx, req)
				if err != nil {
					s.logger.Warn("narrative fell back",
						zap.String("run_id", result.RunID),
						zap.String("customer", req.CustomerNumber),
						zap.String("product", req.Product),
						zap.String("phase", req.PhaseLabel),
						zap.Error(err))
					slot.Narrative = narrative.Fallback(req)
					slot.Source = narrative.SourceFallback
					fallbacks.Add(1)
					return nil
				}

				slot.Narrative = text
				slot.Source = narrative.SourceService
				return nil
			})
		}
	}

	_ = eg.Wait()
	result.FallbackPhases = int(fallbacks.Load())

	summary, err := s.computeSummary(ctx, tickets)
	if err != nil {
		// Analytics degrade rather than failing the whole run.
		s.logger.Error("analytics summary failed", zap.String("run_id", result.RunID), zap.Error(err))
	} else {
		result.Summary = summary
	}

	return result, nil
}

func newPhaseResult(phase pipeline.Phase) PhaseResult {
	res := PhaseResult{
		Label:       phase.Label,
		TicketCount: len(phase.Tickets),
	}
	if len(phase.Tickets) == 0 {
		return res
	}

	res.TimeframeStart = phase.Tickets[0].AcceptanceTime
	res.TimeframeEnd = phase.Tickets[len(phase.Tickets)-1].AcceptanceTime

	listed := len(phase.Tickets)
	if listed > maxListedOrders {
		listed = maxListedOrders
	}
	res.OrderNumbers = make([]string, 0, listed)
	for _, t := range phase.Tickets[:listed] {
		res.OrderNumbers = append(res.OrderNumbers, t.OrderNumber)
	}
	res.MoreOrders = len(phase.Tickets) - listed
	return res
}
