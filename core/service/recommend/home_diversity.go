package recommend

import (
	"ruralhome_server/core/domain"
)

// SelectDiverse fills up to target items by cycling over region buckets,
// taking one item per non-empty bucket per round. Items whose ID is in
// chosen, or that repeat an earlier ID in pool, are skipped.
//
// Buckets rotate in order of first appearance and keep input order inside,
// so the result is deterministic for a given pool.
func SelectDiverse[T domain.Listing](pool []T, chosen map[string]struct{}, target int) []T {
	if target <= 0 || len(pool) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(pool))
	var order []string
	buckets := make(map[string][]T)

	for _, item := range pool {
		id := item.ListingID()
		if _, ok := chosen[id]; ok {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}

		region := item.Region()
		if _, ok := buckets[region]; !ok {
			order = append(order, region)
		}
		buckets[region] = append(buckets[region], item)
	}

	out := make([]T, 0, min(target, len(seen)))
	for len(out) < target && len(order) > 0 {
		next := order[:0]
		for _, region := range order {
			if len(out) >= target {
				break
			}
			bucket := buckets[region]
			out = append(out, bucket[0])
			if len(bucket) > 1 {
				buckets[region] = bucket[1:]
				next = append(next, region)
			} else {
				delete(buckets, region)
			}
		}
		order = next
	}
	return out
}
