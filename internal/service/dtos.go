package service

import (
	"time"

	"github.com/ticketstory/story-server/internal/narrative"
	"github.com/ticketstory/story-server/internal/repository/models"
)

// CleanStats reports how many rows each cleaning stage discarded. The counts
// let callers surface diagnostics without re-deriving them.
type CleanStats struct {
	TotalRows           int
	DiscardedCategories int
	DiscardedDates      int
}

// Discarded is the total number of rows dropped during cleaning.
func (s CleanStats) Discarded() int {
	return s.DiscardedCategories + s.DiscardedDates
}

// PhaseResult is the narrative outcome for one phase of one group.
type PhaseResult struct {
	Label          string
	TicketCount    int
	OrderNumbers   []string
	MoreOrders     int
	TimeframeStart time.Time
	TimeframeEnd   time.Time
	Narrative      string
	Source         narrative.Source
}

// GroupResult is the five-phase story for one (customer, product) pair.
type GroupResult struct {
	CustomerNumber string
	Product        string
	TicketCount    int
	Phases         []PhaseResult
}

// DatasetSummary aggregates analytics over all tickets of one run.
type DatasetSummary struct {
	TotalTickets     int64
	UniqueCustomers  int64
	DateRangeDays    int
	ProductCounts    []models.ProductCount
	CategoryCounts   []models.CategoryCount
	DailyVolume      []models.DailyVolume
	CustomerActivity []models.CustomerActivity
	ResolutionStats  []models.ResolutionStat
	Insights         []string
}

// RunResult is the complete best-effort outcome of one upload. It is always
// accompanied by either a nil error or a fatal one, never both.
type RunResult struct {
	RunID          string
	Stats          CleanStats
	FallbackPhases int
	Groups         []GroupResult
	Summary        *DatasetSummary
}
