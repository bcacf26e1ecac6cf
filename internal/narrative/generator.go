package narrative

import (
	"context"
	"fmt"
	"strings"
)

// Source records where a phase narrative came from.
type Source string

const (
	// SourceService marks text returned by the generation service.
	SourceService Source = "service"
	// SourceFallback marks the deterministic substitute used after a
	// service failure or timeout.
	SourceFallback Source = "fallback"
	// SourcePlaceholder marks the canned text for phases with no tickets.
	SourcePlaceholder Source = "placeholder"
)

// Generator produces narrative text for one phase request. Implementations
// return an error on failure; substituting the fallback is always the
// caller's responsibility, so no error ever crosses the pipeline boundary.
type Generator interface {
	Generate(ctx context.Context, req Request) (string, error)
}

// EmptyPhaseNarrative is the canned response for a phase with no tickets.
const EmptyPhaseNarrative = "No service activity was recorded in this period."

// Fallback returns the deterministic narrative used when the generation
// service fails. It depends only on the request, never on the error, so
// repeated failures produce identical output.
func Fallback(req Request) string {
	return fmt.Sprintf("During this %s period, %d tickets were processed for %s services. "+
		"The team worked on resolving various technical issues and maintaining service quality.",
		strings.ToLower(req.PhaseLabel), req.TicketCount, req.Product)
}
