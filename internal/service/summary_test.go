package service_test

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ticketstory/story-server/internal/config"
	"github.com/ticketstory/story-server/internal/ingest"
	"github.com/ticketstory/story-server/internal/narrative"
	narrativemocks "github.com/ticketstory/story-server/internal/narrative/mocks"
	"github.com/ticketstory/story-server/internal/repository/models"
	"github.com/ticketstory/story-server/internal/service"
	"github.com/ticketstory/story-server/internal/service/mocks"
)

func makeTable(rows ...ingest.Row) *ingest.Table {
	cfg := config.DefaultPipeline()
	headers := append(append([]string{}, cfg.RequiredColumns...), cfg.OptionalColumns...)
	return &ingest.Table{Headers: headers, Rows: rows}
}

func makeRow(order, acceptance, customer, category string) ingest.Row {
	return ingest.Row{
		config.ColOrderNumber:     order,
		config.ColAcceptanceTime:  acceptance,
		config.ColCustomerNumber:  customer,
		config.ColServiceCategory: category,
	}
}

func echoGenerator() *narrativemocks.MockGenerator {
	return &narrativemocks.MockGenerator{
		GenerateFunc: func(ctx context.Context, req narrative.Request) (string, error) {
			return "narrative for " + req.PhaseLabel, nil
		},
	}
}

func storeFactory(store service.TicketStore) service.StoreFactory {
	return func(ctx context.Context) (service.TicketStore, func() error, error) {
		return store, func() error { return nil }, nil
	}
}

func newTestService(gen narrative.Generator, stores service.StoreFactory) *service.SummaryService {
	return service.NewSummaryService(config.DefaultPipeline(), gen, stores, zap.NewNop(), time.Second, 4)
}

func TestSummaryService_Clean(t *testing.T) {
	t.Run("returns sorted tickets and per-stage discard counts", func(t *testing.T) {
		svc := newTestService(echoGenerator(), storeFactory(&mocks.MockTicketStore{}))
		table := makeTable(
			makeRow("T002", "01/20/2024 09:00", "C001", "NET"),
			makeRow("T001", "01/10/2024 09:00", "C001", "KAV"),
			makeRow("T003", "01/15/2024 09:00", "C001", "XYZ"),
			makeRow("T004", "garbage", "C001", "KAD"),
		)

		tickets, stats, err := svc.Clean(table)

		require.NoError(t, err)
		require.Len(t, tickets, 2)
		assert.Equal(t, "T001", tickets[0].OrderNumber)
		assert.Equal(t, "T002", tickets[1].OrderNumber)
		assert.Equal(t, 4, stats.TotalRows)
		assert.Equal(t, 1, stats.DiscardedCategories)
		assert.Equal(t, 1, stats.DiscardedDates)
		assert.Equal(t, 2, stats.Discarded())
	})

	t.Run("missing columns fail with a SchemaError", func(t *testing.T) {
		svc := newTestService(echoGenerator(), storeFactory(&mocks.MockTicketStore{}))
		table := &ingest.Table{Headers: []string{config.ColOrderNumber}}

		_, _, err := svc.Clean(table)

		var schemaErr *ingest.SchemaError
		assert.ErrorAs(t, err, &schemaErr)
	})

	t.Run("no surviving rows is ErrNoTickets", func(t *testing.T) {
		svc := newTestService(echoGenerator(), storeFactory(&mocks.MockTicketStore{}))
		table := makeTable(
			makeRow("T001", "01/10/2024 09:00", "C001", "UNKNOWN"),
			makeRow("T002", "not a date", "C001", "NET"),
		)

		_, stats, err := svc.Clean(table)

		assert.ErrorIs(t, err, service.ErrNoTickets)
		assert.Equal(t, 1, stats.DiscardedCategories)
		assert.Equal(t, 1, stats.DiscardedDates)
	})
}

func TestSummaryService_Run(t *testing.T) {
	t.Run("schema failure aborts before any generation", func(t *testing.T) {
		gen := &narrativemocks.MockGenerator{
			GenerateFunc: func(ctx context.Context, req narrative.Request) (string, error) {
				t.Error("generator must not be called for invalid uploads")
				return "", nil
			},
		}
		svc := newTestService(gen, storeFactory(&mocks.MockTicketStore{}))

		_, err := svc.Run(context.Background(), &ingest.Table{Headers: []string{"WRONG"}})

		var schemaErr *ingest.SchemaError
		assert.ErrorAs(t, err, &schemaErr)
	})

	t.Run("twelve tickets split into phases of 3,3,2,2,2", func(t *testing.T) {
		rows := make([]ingest.Row, 0, 12)
		for i := 1; i <= 12; i++ {
			rows = append(rows, makeRow(
				fmt.Sprintf("T%03d", i),
				fmt.Sprintf("01/%02d/2024 09:00", i),
				"C001", "NET",
			))
		}
		svc := newTestService(echoGenerator(), storeFactory(&mocks.MockTicketStore{}))

		result, err := svc.Run(context.Background(), makeTable(rows...))

		require.NoError(t, err)
		assert.NotEmpty(t, result.RunID)
		assert.Zero(t, result.FallbackPhases)
		require.Len(t, result.Groups, 1)

		group := result.Groups[0]
		assert.Equal(t, "C001", group.CustomerNumber)
		assert.Equal(t, "Broadband", group.Product)
		assert.Equal(t, 12, group.TicketCount)

		require.Len(t, group.Phases, 5)
		sizes := []int{}
		for _, p := range group.Phases {
			sizes = append(sizes, p.TicketCount)
		}
		assert.Equal(t, []int{3, 3, 2, 2, 2}, sizes)

		first := group.Phases[0]
		assert.Equal(t, "Initial Issue", first.Label)
		assert.Equal(t, "narrative for Initial Issue", first.Narrative)
		assert.Equal(t, narrative.SourceService, first.Source)
		assert.Equal(t, []string{"T001", "T002", "T003"}, first.OrderNumbers)
		assert.Zero(t, first.MoreOrders)
		assert.Equal(t, time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC), first.TimeframeStart)
		assert.Equal(t, time.Date(2024, 1, 3, 9, 0, 0, 0, time.UTC), first.TimeframeEnd)
	})

	t.Run("one failing phase falls back without disturbing the rest", func(t *testing.T) {
		rows := make([]ingest.Row, 0, 10)
		for i := 1; i <= 10; i++ {
			rows = append(rows, makeRow(
				fmt.Sprintf("T%03d", i),
				fmt.Sprintf("02/%02d/2024 09:00", i),
				"C001", "KAV",
			))
		}
		gen := &narrativemocks.MockGenerator{
			GenerateFunc: func(ctx context.Context, req narrative.Request) (string, error) {
				if req.PhaseLabel == "Follow-ups" {
					return "", errors.New("model unavailable")
				}
				return "narrative for " + req.PhaseLabel, nil
			},
		}
		svc := newTestService(gen, storeFactory(&mocks.MockTicketStore{}))

		result, err := svc.Run(context.Background(), makeTable(rows...))

		require.NoError(t, err)
		assert.Equal(t, 1, result.FallbackPhases)

		phases := result.Groups[0].Phases
		assert.Equal(t, narrative.SourceFallback, phases[1].Source)
		assert.Equal(t,
			"During this follow-ups period, 2 tickets were processed for Voice services. "+
				"The team worked on resolving various technical issues and maintaining service quality.",
			phases[1].Narrative)
		for _, i := range []int{0, 2, 3, 4} {
			assert.Equal(t, narrative.SourceService, phases[i].Source)
		}
	})

	t.Run("empty phases get the placeholder and skip the generator", func(t *testing.T) {
		var calls atomic.Int32
		gen := &narrativemocks.MockGenerator{
			GenerateFunc: func(ctx context.Context, req narrative.Request) (string, error) {
				calls.Add(1)
				return "generated", nil
			},
		}
		svc := newTestService(gen, storeFactory(&mocks.MockTicketStore{}))
		table := makeTable(
			makeRow("T001", "03/01/2024 09:00", "C001", "KAD"),
			makeRow("T002", "03/02/2024 09:00", "C001", "KAD"),
			makeRow("T003", "03/03/2024 09:00", "C001", "KAD"),
		)

		result, err := svc.Run(context.Background(), table)

		require.NoError(t, err)
		phases := result.Groups[0].Phases
		require.Len(t, phases, 5)

		for _, p := range phases[:3] {
			assert.Equal(t, 1, p.TicketCount)
			assert.Equal(t, narrative.SourceService, p.Source)
		}
		for _, p := range phases[3:] {
			assert.Zero(t, p.TicketCount)
			assert.Equal(t, narrative.EmptyPhaseNarrative, p.Narrative)
			assert.Equal(t, narrative.SourcePlaceholder, p.Source)
			assert.True(t, p.TimeframeStart.IsZero())
		}
		assert.Equal(t, int32(3), calls.Load())
	})

	t.Run("each customer and product pair gets its own story", func(t *testing.T) {
		svc := newTestService(echoGenerator(), storeFactory(&mocks.MockTicketStore{}))
		table := makeTable(
			makeRow("T001", "04/01/2024 09:00", "C001", "NET"),
			makeRow("T002", "04/02/2024 09:00", "C001", "KAV"),
			makeRow("T003", "04/03/2024 09:00", "C002", "NET"),
		)

		result, err := svc.Run(context.Background(), table)

		require.NoError(t, err)
		require.Len(t, result.Groups, 3)
		assert.Equal(t, "Broadband", result.Groups[0].Product)
		assert.Equal(t, "Voice", result.Groups[1].Product)
		assert.Equal(t, "C002", result.Groups[2].CustomerNumber)
	})

	t.Run("analytics store failure degrades the summary only", func(t *testing.T) {
		stores := func(ctx context.Context) (service.TicketStore, func() error, error) {
			return nil, nil, errors.New("store unavailable")
		}
		svc := newTestService(echoGenerator(), stores)
		table := makeTable(makeRow("T001", "05/01/2024 09:00", "C001", "NET"))

		result, err := svc.Run(context.Background(), table)

		require.NoError(t, err)
		assert.Nil(t, result.Summary)
		require.Len(t, result.Groups, 1)
		assert.Equal(t, narrative.SourceService, result.Groups[0].Phases[0].Source)
	})

	t.Run("summary aggregates and insights come from the store", func(t *testing.T) {
		store := &mocks.MockTicketStore{
			GetDatasetStatsFunc: func(ctx context.Context) (models.DatasetStats, error) {
				return models.DatasetStats{
					TotalTickets:    6,
					UniqueCustomers: 2,
					FirstAcceptance: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
					LastAcceptance:  time.Date(2024, 6, 11, 0, 0, 0, 0, time.UTC),
				}, nil
			},
			GetProductCountsFunc: func(ctx context.Context) ([]models.ProductCount, error) {
				return []models.ProductCount{{Product: "Broadband", Count: 4}, {Product: "TV", Count: 2}}, nil
			},
			GetRepeatCustomerCountFunc: func(ctx context.Context) (int64, error) {
				return 1, nil
			},
			GetRecentTicketCountFunc: func(ctx context.Context, days int) (int64, error) {
				return 3, nil
			},
			GetResolutionStatsFunc: func(ctx context.Context) ([]models.ResolutionStat, error) {
				return []models.ResolutionStat{
					{Product: "Broadband", AvgHours: 10, ClosedCount: 3},
					{Product: "TV", AvgHours: 20, ClosedCount: 1},
				}, nil
			},
		}
		svc := newTestService(echoGenerator(), storeFactory(store))
		table := makeTable(
			makeRow("T001", "06/01/2024 09:00", "C001", "NET"),
			makeRow("T002", "06/11/2024 09:00", "C002", "KAD"),
		)

		result, err := svc.Run(context.Background(), table)

		require.NoError(t, err)
		require.NotNil(t, result.Summary)
		assert.Equal(t, int64(6), result.Summary.TotalTickets)
		assert.Equal(t, 10, result.Summary.DateRangeDays)
		assert.Contains(t, result.Summary.Insights, "Broadband has the highest ticket volume (4 tickets)")
		assert.Contains(t, result.Summary.Insights, "50.0% of customers had multiple tickets")
		assert.Contains(t, result.Summary.Insights, "Average resolution time: 12.5 hours")
		assert.Contains(t, result.Summary.Insights, "3 tickets in the last 7 days")
	})
}
