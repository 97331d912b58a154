package quest

import "sort"

// ProcessAndPrioritize deduplicates candidate quests and orders the
// survivors for display.
//
// Dedup is by DedupKey, both against quests already open from earlier
// cycles (activeKeys, a key-to-quest-id index owned by the caller's
// store) and within the batch itself, where the first-generated
// candidate wins. Survivors are sorted by urgency rank descending, tie
// broken by total points descending; the sort is stable so equal quests
// keep catalog order.
func ProcessAndPrioritize(candidates []Quest, activeKeys map[string]string) []Quest {
	seen := make(map[string]struct{}, len(candidates))
	out := make([]Quest, 0, len(candidates))
	for _, q := range candidates {
		key := q.DedupKey()
		if _, active := activeKeys[key]; active {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, q)
	}

	SortByPriority(out)
	return out
}

// SortByPriority orders quests by urgency rank descending, then total
// points descending.
func SortByPriority(quests []Quest) {
	sort.SliceStable(quests, func(i, j int) bool {
		ri, rj := quests[i].Urgency.Rank(), quests[j].Urgency.Rank()
		if ri != rj {
			return ri > rj
		}
		return quests[i].TotalPoints > quests[j].TotalPoints
	})
}
