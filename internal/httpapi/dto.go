package httpapi

import (
	"fmt"

	"github.com/ticketstory/story-server/internal/service"
)

// RunResponse is the JSON body returned for one processed upload.
type RunResponse struct {
	RunID               string           `json:"runId"`
	TotalRows           int              `json:"totalRows"`
	DiscardedCategories int              `json:"discardedCategories"`
	DiscardedDates      int              `json:"discardedDates"`
	FallbackPhases      int              `json:"fallbackPhases"`
	Groups              []GroupResponse  `json:"groups"`
	Summary             *SummaryResponse `json:"summary,omitempty"`
}

type GroupResponse struct {
	CustomerNumber string          `json:"customerNumber"`
	Product        string          `json:"product"`
	TicketCount    int             `json:"ticketCount"`
	Phases         []PhaseResponse `json:"phases"`
}

type PhaseResponse struct {
	Label        string   `json:"label"`
	TicketCount  int      `json:"ticketCount"`
	OrderNumbers []string `json:"orderNumbers,omitempty"`
	MoreOrders   int      `json:"moreOrders,omitempty"`
	Timeframe    string   `json:"timeframe,omitempty"`
	Narrative    string   `json:"narrative"`
	Source       string   `json:"source"`
}

type SummaryResponse struct {
	TotalTickets     int64                `json:"totalTickets"`
	UniqueCustomers  int64                `json:"uniqueCustomers"`
	DateRangeDays    int                  `json:"dateRangeDays"`
	ProductCounts    []NamedCount         `json:"productCounts"`
	CategoryCounts   []NamedCount         `json:"categoryCounts"`
	DailyVolume      []NamedCount         `json:"dailyVolume"`
	CustomerActivity []NamedCount         `json:"customerActivity"`
	ResolutionStats  []ResolutionResponse `json:"resolutionStats"`
	Insights         []string             `json:"insights"`
}

type NamedCount struct {
	Name  string `json:"name"`
	Count int64  `json:"count"`
}

type ResolutionResponse struct {
	Product     string  `json:"product"`
	AvgHours    float64 `json:"avgHours"`
	ClosedCount int64   `json:"closedCount"`
}

func newRunResponse(result *service.RunResult) RunResponse {
	resp := RunResponse{
		RunID:               result.RunID,
		TotalRows:           result.Stats.TotalRows,
		DiscardedCategories: result.Stats.DiscardedCategories,
		DiscardedDates:      result.Stats.DiscardedDates,
		FallbackPhases:      result.FallbackPhases,
		Groups:              make([]GroupResponse, 0, len(result.Groups)),
	}

	for _, g := range result.Groups {
		group := GroupResponse{
			CustomerNumber: g.CustomerNumber,
			Product:        g.Product,
			TicketCount:    g.TicketCount,
			Phases:         make([]PhaseResponse, 0, len(g.Phases)),
		}
		for _, p := range g.Phases {
			group.Phases = append(group.Phases, PhaseResponse{
				Label:        p.Label,
				TicketCount:  p.TicketCount,
				OrderNumbers: p.OrderNumbers,
				MoreOrders:   p.MoreOrders,
				Timeframe:    formatTimeframe(p),
				Narrative:    p.Narrative,
				Source:       string(p.Source),
			})
		}
		resp.Groups = append(resp.Groups, group)
	}

	if result.Summary != nil {
		resp.Summary = newSummaryResponse(result.Summary)
	}
	return resp
}

func formatTimeframe(p service.PhaseResult) string {
	if p.TicketCount == 0 {
		return ""
	}
	start := p.TimeframeStart.Format(displayDateLayout)
	end := p.TimeframeEnd.Format(displayDateLayout)
	if start == end {
		return start
	}
	return fmt.Sprintf("%s to %s", start, end)
}

func newSummaryResponse(s *service.DatasetSummary) *SummaryResponse {
	resp := &SummaryResponse{
		TotalTickets:    s.TotalTickets,
		UniqueCustomers: s.UniqueCustomers,
		DateRangeDays:   s.DateRangeDays,
		Insights:        s.Insights,
	}
	for _, c := range s.ProductCounts {
		resp.ProductCounts = append(resp.ProductCounts, NamedCount{Name: c.Product, Count: c.Count})
	}
	for _, c := range s.CategoryCounts {
		resp.CategoryCounts = append(resp.CategoryCounts, NamedCount{Name: c.Category, Count: c.Count})
	}
	for _, v := range s.DailyVolume {
		resp.DailyVolume = append(resp.DailyVolume, NamedCount{Name: v.Day, Count: v.Count})
	}
	for _, a := range s.CustomerActivity {
		resp.CustomerActivity = append(resp.CustomerActivity, NamedCount{Name: a.CustomerNumber, Count: a.Count})
	}
	for _, r := range s.ResolutionStats {
		resp.ResolutionStats = append(resp.ResolutionStats, ResolutionResponse{
			Product:     r.Product,
			AvgHours:    r.AvgHours,
			ClosedCount: r.ClosedCount,
		})
	}
	return resp
}
