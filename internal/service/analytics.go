package service

import (
	"context"
	"fmt"

	"github.com/ticketstory/story-server/internal/pipeline"
)

const (
	topCustomerLimit = 10
	recentWindowDays = 7
)

// computeSummary loads the run's tickets into a fresh per-run store and
// collects the analytics aggregates. The store is released before returning,
// so nothing outlives the run.
func (s *SummaryService) computeSummary(ctx context.Context, tickets []pipeline.Ticket) (*DatasetSummary, error) {
	if s.stores == nil {
		return nil, fmt.Errorf("no store factory configured")
	}

	store, release, err := s.stores(ctx)
	if err != nil {
		return nil, fmt.Errorf("create analytics store: %w", err)
	}
	defer func() {
		if err := release(); err != nil {
			s.logger.Warn("analytics store release failed")
		}
	}()

	if err := store.InitSchema(ctx); err != nil {
		return nil, err
	}
	if err := store.InsertTickets(ctx, tickets); err != nil {
		return nil, err
	}

	stats, err := store.GetDatasetStats(ctx)
	if err != nil {
		return nil, err
	}

	summary := &DatasetSummary{
		TotalTickets:    stats.TotalTickets,
		UniqueCustomers: stats.UniqueCustomers,
	}
	if !stats.FirstAcceptance.IsZero() && !stats.LastAcceptance.IsZero() {
		summary.DateRangeDays = int(stats.LastAcceptance.Sub(stats.FirstAcceptance).Hours() / 24)
	}

	if summary.ProductCounts, err = store.GetProductCounts(ctx); err != nil {
		return nil, err
	}
	if summary.CategoryCounts, err = store.GetCategoryCounts(ctx); err != nil {
		return nil, err
	}
	if summary.DailyVolume, err = store.GetDailyVolume(ctx); err != nil {
		return nil, err
	}
	if summary.CustomerActivity, err = store.GetCustomerActivity(ctx, topCustomerLimit); err != nil {
		return nil, err
	}
	if summary.ResolutionStats, err = store.GetResolutionStats(ctx); err != nil {
		return nil, err
	}

	repeat, err := store.GetRepeatCustomerCount(ctx)
	if err != nil {
		return nil, err
	}
	recent, err := store.GetRecentTicketCount(ctx, recentWindowDays)
	if err != nil {
		return nil, err
	}

	summary.Insights = buildInsights(summary, repeat, recent)
	return summary, nil
}

// buildInsights turns the aggregates into short human-readable findings.
func buildInsights(summary *DatasetSummary, repeatCustomers, recentTickets int64) []string {
	var insights []string

	if len(summary.ProductCounts) > 0 {
		top := summary.ProductCounts[0]
		insights = append(insights,
			fmt.Sprintf("%s has the highest ticket volume (%d tickets)", top.Product, top.Count))
	}

	if summary.UniqueCustomers > 1 {
		rate := float64(repeatCustomers) / float64(summary.UniqueCustomers) * 100
		insights = append(insights,
			fmt.Sprintf("%.1f%% of customers had multiple tickets", rate))
	}

	if avg, closed := overallResolutionAverage(summary); closed > 0 {
		insights = append(insights,
			fmt.Sprintf("Average resolution time: %.1f hours", avg))
	}

	if recentTickets > 0 {
		insights = append(insights,
			fmt.Sprintf("%d tickets in the last %d days", recentTickets, recentWindowDays))
	}

	return insights
}

func overallResolutionAverage(summary *DatasetSummary) (avgHours float64, closed int64) {
	var weighted float64
	for _, s := range summary.ResolutionStats {
		weighted += s.AvgHours * float64(s.ClosedCount)
		closed += s.ClosedCount
	}
	if closed == 0 {
		return 0, 0
	}
	return weighted / float64(closed), closed
}
