package pipeline

import "errors"

// ErrEmptyGroup is returned when a group with no tickets reaches the
// segmenter. Upstream stages guarantee non-empty groups, so hitting this is a
// caller bug, not a data condition.
var ErrEmptyGroup = errors.New("cannot segment an empty ticket group")

// SegmentPhases splits a group's ordered tickets into exactly five contiguous
// phases. Sizes are as equal as possible: with base = N/5 and rem = N%5, the
// first rem phases get one extra ticket, so sizes are non-increasing and sum
// to N. Groups smaller than five produce trailing empty phases, which still
// exist as labeled entries. The split is by index, so identical input always
// produces identical boundaries.
func SegmentPhases(group TicketGroup, labels [5]string) ([]Phase, error) {
	n := len(group.Tickets)
	if n == 0 {
		return nil, ErrEmptyGroup
	}

	base, rem := n/len(labels), n%len(labels)

	phases := make([]Phase, 0, len(labels))
	start := 0
	for i, label := range labels {
		size := base
		if i < rem {
			size++
		}
		phases = append(phases, Phase{
			Label:   label,
			Tickets: group.Tickets[start : start+size],
		})
		start += size
	}
	return phases, nil
}
