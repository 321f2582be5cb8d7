// Package tally is the pure aggregation core: it turns category ballots and
// role assignments into winners. No I/O, no room state; the room actor feeds
// it data and applies the outcome.
package tally

// Pair is a single nomination inside one voter's submission: target player ->
// role. Pairs keep the order the voter recorded them in, which is what makes
// the role tie-break deterministic.
type Pair struct {
	Target string
	Role   int
}

// Submission is one voter's full assignment for the round.
type Submission struct {
	Voter string
	Pairs []Pair
}

// WinningCategory resolves a round's category ballot (voter -> option index).
// Highest count wins; ties break to the lowest option index, regardless of
// vote arrival order. Returns false when the ballot is empty.
func WinningCategory(votes map[string]int) (int, bool) {
	if len(votes) == 0 {
		return 0, false
	}

	counts := make(map[int]int, len(votes))
	for _, idx := range votes {
		counts[idx]++
	}

	winner := -1
	for idx, n := range counts {
		if winner == -1 || n > counts[winner] || (n == counts[winner] && idx < winner) {
			winner = idx
		}
	}
	return winner, true
}

// RoleResult is the outcome for a single role: who won it, with how many
// nominations, and the full per-target counts.
type RoleResult struct {
	Winner string
	Votes  int
	Counts map[string]int
}

// Roles resolves every role of the current category against the round's
// submissions. Submissions are scanned in arrival order and, within each
// submission, in recorded nomination order; per role the target with the most
// nominations wins, ties breaking to the earliest-recorded nominee among those
// tied. Roles nobody nominated are absent from the result.
func Roles(roleIDs []int, subs []Submission) map[int]RoleResult {
	type acc struct {
		counts map[string]int
		order  []string // targets in first-nomination order
	}

	wanted := make(map[int]*acc, len(roleIDs))
	for _, id := range roleIDs {
		wanted[id] = &acc{counts: make(map[string]int)}
	}

	for _, sub := range subs {
		for _, pair := range sub.Pairs {
			a, ok := wanted[pair.Role]
			if !ok {
				continue // nomination for a role outside the category
			}
			if _, seen := a.counts[pair.Target]; !seen {
				a.order = append(a.order, pair.Target)
			}
			a.counts[pair.Target]++
		}
	}

	results := make(map[int]RoleResult, len(roleIDs))
	for id, a := range wanted {
		if len(a.order) == 0 {
			continue
		}

		winner := a.order[0]
		for _, target := range a.order[1:] {
			if a.counts[target] > a.counts[winner] {
				winner = target
			}
		}

		results[id] = RoleResult{
			Winner: winner,
			Votes:  a.counts[winner],
			Counts: a.counts,
		}
	}
	return results
}
