package pipeline

import (
	"time"

	"github.com/ticketstory/story-server/internal/config"
	"github.com/ticketstory/story-server/internal/ingest"
)

// NormalizeDates converts filtered rows into Tickets with canonical times.
// Acceptance time drives all downstream ordering and grouping, so a row whose
// acceptance time does not parse is dropped and counted. A completion time
// that does not parse only marks the ticket as open. Input order is preserved
// so that later stable sorting keeps deterministic tie order.
func NormalizeDates(rows []ingest.Row, cfg *config.Pipeline) (tickets []Ticket, discarded int) {
	tickets = make([]Ticket, 0, len(rows))
	for _, row := range rows {
		accepted, err := time.Parse(cfg.DateLayout, row.Get(config.ColAcceptanceTime))
		if err != nil {
			discarded++
			continue
		}

		tickets = append(tickets, Ticket{
			OrderNumber:            row.Get(config.ColOrderNumber),
			AcceptanceTime:         accepted,
			CompletionTime:         parseOptionalTime(cfg.DateLayout, row.Get(config.ColCompletionTime)),
			CustomerCompletionTime: parseOptionalTime(cfg.DateLayout, row.Get(config.ColCustomerCompletionTime)),
			CustomerNumber:         row.Get(config.ColCustomerNumber),
			OrderType:              row.Get(config.ColOrderType),
			ProcessingStatus:       row.Get(config.ColProcessingStatus),
			CategoryCode:           row.Get(config.ColServiceCategory),
			Product:                row.Get(config.ColProduct),
			Description1:           fillText(row.Get(config.ColOrderDescription1), cfg.TextFillValue),
			Description2:           fillText(row.Get(config.ColOrderDescription2), cfg.TextFillValue),
			ResolutionNotes:        fillText(row.Get(config.ColCompletionResult), cfg.TextFillValue),
			AdditionalNotes:        fillText(row.Get(config.ColNoteMaximum), cfg.TextFillValue),
		})
	}
	return tickets, discarded
}

func parseOptionalTime(layout, value string) time.Time {
	t, err := time.Parse(layout, value)
	if err != nil {
		return time.Time{}
	}
	return t
}

func fillText(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
