package narrative

import (
	"fmt"
	"strings"

	"github.com/ticketstory/story-server/internal/pipeline"
)

const ticketSeparator = "\n---\n"

// promptDateLayout renders ticket dates the way they appear in narratives.
const promptDateLayout = "January 2, 2006"

// Request is the outbound payload for one phase narrative. The metadata
// fields attribute the response back to its (customer, product, phase) slot.
type Request struct {
	CustomerNumber string
	Product        string
	PhaseLabel     string
	TicketText     string
	TicketCount    int
	OmittedCount   int
}

// Empty reports whether the phase behind this request had no tickets. Empty
// requests are answered locally and never sent to the generation service.
func (r Request) Empty() bool {
	return r.TicketCount == 0
}

// BuildRequest serializes one phase into a bounded-size request. Each
// ticket's key fields become one text block; blocks are appended until the
// byte budget would be exceeded, then the remainder is summarized in a
// trailer so truncation always happens on a ticket boundary.
func BuildRequest(key pipeline.GroupKey, phase pipeline.Phase, byteBudget int) Request {
	req := Request{
		CustomerNumber: key.CustomerNumber,
		Product:        key.Product,
		PhaseLabel:     phase.Label,
		TicketCount:    len(phase.Tickets),
	}
	if len(phase.Tickets) == 0 {
		return req
	}

	var b strings.Builder
	included := 0
	for _, t := range phase.Tickets {
		block := ticketBlock(t)
		extra := len(block)
		if included > 0 {
			extra += len(ticketSeparator)
		}
		if byteBudget > 0 && b.Len()+extra > byteBudget {
			break
		}
		if included > 0 {
			b.WriteString(ticketSeparator)
		}
		b.WriteString(block)
		included++
	}

	req.OmittedCount = len(phase.Tickets) - included
	if req.OmittedCount > 0 {
		fmt.Fprintf(&b, "\n(+%d more tickets omitted)", req.OmittedCount)
	}
	req.TicketText = b.String()
	return req
}

func ticketBlock(t pipeline.Ticket) string {
	return fmt.Sprintf("Ticket: %s\nDate: %s\nCustomer: %s\nIssue: %s - %s\nResolution: %s\nNotes: %s",
		t.OrderNumber,
		t.AcceptanceTime.Format(promptDateLayout),
		t.CustomerNumber,
		t.Description1,
		t.Description2,
		t.ResolutionNotes,
		t.AdditionalNotes,
	)
}

// Prompt assembles the full instruction sent to the generation service.
func (r Request) Prompt() string {
	return fmt.Sprintf(`You are a customer service analyst creating a professional narrative summary for %s services.

Section: %s
Ticket Data:
%s

Please create a narrative summary that:
1. Describes the customer experience during this period
2. Highlights key issues and how they were resolved
3. Shows the timeline of events
4. Uses a professional, storytelling tone
5. Focuses on the customer journey

Keep the narrative concise (2-3 sentences) and professional.`,
		r.Product, r.PhaseLabel, r.TicketText)
}
