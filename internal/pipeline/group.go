package pipeline

import "sort"

// SortAndGroup orders tickets ascending by acceptance time and partitions
// them into per-(customer, product) groups. The sort is stable: tickets with
// identical acceptance times keep their original relative order, which makes
// phase boundaries reproducible. Groups are returned sorted by key for
// deterministic output.
func SortAndGroup(tickets []Ticket) []TicketGroup {
	sorted := SortByAcceptance(tickets)

	byKey := make(map[GroupKey][]Ticket)
	for _, t := range sorted {
		key := GroupKey{CustomerNumber: t.CustomerNumber, Product: t.Product}
		byKey[key] = append(byKey[key], t)
	}

	groups := make([]TicketGroup, 0, len(byKey))
	for key, members := range byKey {
		groups = append(groups, TicketGroup{Key: key, Tickets: members})
	}
	sort.Slice(groups, func(i, j int) bool {
		if groups[i].Key.CustomerNumber != groups[j].Key.CustomerNumber {
			return groups[i].Key.CustomerNumber < groups[j].Key.CustomerNumber
		}
		return groups[i].Key.Product < groups[j].Key.Product
	})
	return groups
}

// SortByAcceptance returns a copy of tickets stably sorted ascending by
// acceptance time. The input is left untouched.
func SortByAcceptance(tickets []Ticket) []Ticket {
	sorted := make([]Ticket, len(tickets))
	copy(sorted, tickets)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].AcceptanceTime.Before(sorted[j].AcceptanceTime)
	})
	return sorted
}
