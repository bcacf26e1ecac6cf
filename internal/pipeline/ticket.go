package pipeline

import "time"

// Ticket is one customer service record after normalization. Instances are
// created once per upload and never mutated by later stages.
type Ticket struct {
	OrderNumber            string
	AcceptanceTime         time.Time
	CompletionTime         time.Time // zero when the ticket is still open
	CustomerCompletionTime time.Time
	CustomerNumber         string
	OrderType              string
	ProcessingStatus       string
	CategoryCode           string
	Product                string
	Description1           string
	Description2           string
	ResolutionNotes        string
	AdditionalNotes        string
}

// Open reports whether the ticket has no parseable completion time.
func (t Ticket) Open() bool {
	return t.CompletionTime.IsZero()
}

// GroupKey identifies one customer-product ticket history. Keys match on
// exact string equality, no fuzzy matching.
type GroupKey struct {
	CustomerNumber string
	Product        string
}

// TicketGroup is the full ticket history for one (customer, product) pair,
// ordered ascending by acceptance time. Groups are never empty.
type TicketGroup struct {
	Key     GroupKey
	Tickets []Ticket
}

// Phase is one contiguous chronological segment of a TicketGroup. A phase may
// be empty when the group has fewer tickets than phases.
type Phase struct {
	Label   string
	Tickets []Ticket
}
