package recommend

import (
	"ruralhome_server/core/domain"
)

// Aggregate concatenates the user pool with every per-region feed result.
// It does not deduplicate: selection and assembly dedupe on ID.
func Aggregate(userPool []domain.Candidate, feedResults [][]domain.Candidate) []domain.Candidate {
	total := len(userPool)
	for _, r := range feedResults {
		total += len(r)
	}

	out := make([]domain.Candidate, 0, total)
	out = append(out, userPool...)
	for _, r := range feedResults {
		out = append(out, r...)
	}
	return out
}

// splitByOrigin partitions an aggregate back into user and feed candidates,
// preserving order.
func splitByOrigin(all []domain.Candidate) (user, feed []domain.Candidate) {
	for _, c := range all {
		if c.IsUserSubmitted() {
			user = append(user, c)
		} else {
			feed = append(feed, c)
		}
	}
	return user, feed
}
