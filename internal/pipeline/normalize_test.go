package pipeline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ticketstory/story-server/internal/config"
	"github.com/ticketstory/story-server/internal/ingest"
)

func TestNormalizeDates(t *testing.T) {
	cfg := config.DefaultPipeline()

	t.Run("parses acceptance and completion times", func(t *testing.T) {
		rows := []ingest.Row{{
			config.ColOrderNumber:    "T001",
			config.ColAcceptanceTime: "01/15/2024 10:30",
			config.ColCompletionTime: "01/15/2024 16:45",
			config.ColCustomerNumber: "C001",
			config.ColProduct:        "Broadband",
		}}

		tickets, discarded := NormalizeDates(rows, cfg)

		require.Len(t, tickets, 1)
		assert.Zero(t, discarded)
		assert.Equal(t, time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC), tickets[0].AcceptanceTime)
		assert.Equal(t, time.Date(2024, 1, 15, 16, 45, 0, 0, time.UTC), tickets[0].CompletionTime)
		assert.False(t, tickets[0].Open())
	})

	t.Run("accepts unpadded month and day", func(t *testing.T) {
		rows := []ingest.Row{{
			config.ColAcceptanceTime: "3/5/2024 08:00",
		}}

		tickets, discarded := NormalizeDates(rows, cfg)

		require.Len(t, tickets, 1)
		assert.Zero(t, discarded)
		assert.Equal(t, time.Date(2024, 3, 5, 8, 0, 0, 0, time.UTC), tickets[0].AcceptanceTime)
	})

	t.Run("drops rows with unparseable acceptance time", func(t *testing.T) {
		rows := []ingest.Row{
			{config.ColOrderNumber: "T001", config.ColAcceptanceTime: "not a date"},
			{config.ColOrderNumber: "T002", config.ColAcceptanceTime: ""},
			{config.ColOrderNumber: "T003", config.ColAcceptanceTime: "01/16/2024 09:00"},
		}

		tickets, discarded := NormalizeDates(rows, cfg)

		require.Len(t, tickets, 1)
		assert.Equal(t, 2, discarded)
		assert.Equal(t, "T003", tickets[0].OrderNumber)
	})

	t.Run("unparseable completion time leaves the ticket open", func(t *testing.T) {
		rows := []ingest.Row{{
			config.ColOrderNumber:    "T001",
			config.ColAcceptanceTime: "01/15/2024 10:30",
			config.ColCompletionTime: "pending",
		}}

		tickets, discarded := NormalizeDates(rows, cfg)

		require.Len(t, tickets, 1)
		assert.Zero(t, discarded)
		assert.True(t, tickets[0].Open())
	})

	t.Run("fills empty free-text fields", func(t *testing.T) {
		rows := []ingest.Row{{
			config.ColAcceptanceTime:    "01/15/2024 10:30",
			config.ColOrderDescription1: "Internet connection issue",
		}}

		tickets, _ := NormalizeDates(rows, cfg)

		require.Len(t, tickets, 1)
		assert.Equal(t, "Internet connection issue", tickets[0].Description1)
		assert.Equal(t, cfg.TextFillValue, tickets[0].Description2)
		assert.Equal(t, cfg.TextFillValue, tickets[0].ResolutionNotes)
		assert.Equal(t, cfg.TextFillValue, tickets[0].AdditionalNotes)
	})

	t.Run("preserves input order", func(t *testing.T) {
		rows := []ingest.Row{
			{config.ColOrderNumber: "T002", config.ColAcceptanceTime: "01/15/2024 10:30"},
			{config.ColOrderNumber: "T001", config.ColAcceptanceTime: "01/14/2024 10:30"},
		}

		tickets, _ := NormalizeDates(rows, cfg)

		require.Len(t, tickets, 2)
		assert.Equal(t, "T002", tickets[0].OrderNumber)
		assert.Equal(t, "T001", tickets[1].OrderNumber)
	})
}
