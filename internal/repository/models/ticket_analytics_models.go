package models

import "time"

// DatasetStats holds whole-dataset aggregates for one processed upload.
type DatasetStats struct {
	TotalTickets    int64
	UniqueCustomers int64
	FirstAcceptance time.Time
	LastAcceptance  time.Time
}

// DailyVolume is the ticket count for one acceptance day.
type DailyVolume struct {
	Day   string
	Count int64
}

// ProductCount is the ticket count for one product.
type ProductCount struct {
	Product string
	Count   int64
}

// CategoryCount is the ticket count for one raw category code.
type CategoryCount struct {
	Category string
	Count    int64
}

// CustomerActivity is the ticket count for one customer.
type CustomerActivity struct {
	CustomerNumber string
	Count          int64
}

// ResolutionStat is the average resolution time for one product, computed
// over closed tickets with a plausible resolution window.
type ResolutionStat struct {
	Product     string
	AvgHours    float64
	ClosedCount int64
}
