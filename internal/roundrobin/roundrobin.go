package roundrobin

import (
	"fmt"
	"iter"

	"github.com/derekprior/tourney/internal/pairing"
)

// MinCompetitors is the smallest field a schedule can be built for.
const MinCompetitors = 2

// TotalRounds returns the number of rounds in a full round-robin of n
// competitors. An odd field needs one extra round because every competitor
// sits out once.
func TotalRounds(n int) (int, error) {
	if n < MinCompetitors {
		return 0, fmt.Errorf("%w: not enough competitors (found %d, min %d required)",
			pairing.ErrInvalidInput, n, MinCompetitors)
	}
	if n%2 == 0 {
		return n - 1, nil
	}
	return n, nil
}

// GuessRound estimates the next round (starting at 0) from the number of
// matches already played. The result is not clamped: once every round is
// played it equals TotalRounds(n).
func GuessRound(n, matchesPlayed int) (int, error) {
	if n < MinCompetitors {
		return 0, fmt.Errorf("%w: not enough competitors (found %d, min %d required)",
			pairing.ErrInvalidInput, n, MinCompetitors)
	}
	if matchesPlayed < 0 {
		return 0, fmt.Errorf("%w: negative match count %d", pairing.ErrInvalidInput, matchesPlayed)
	}
	return matchesPlayed / (n / 2), nil
}

// padded returns the circle size for n competitors: odd fields get a bye
// slot at index n.
func padded(n int) int {
	return n + n%2
}

// rotation returns the circle positions for round over m slots. Slot 0 is
// fixed and the other m-1 slots are rotated right by round mod (m-1).
func rotation(m, round int) []int {
	k := m - 1
	r := ((round % k) + k) % k

	order := make([]int, m)
	for j := 1; j < m; j++ {
		order[j] = 1 + ((j-1-r)%k+k)%k
	}
	return order
}

// Rotate returns the ordering of teams for round. For an odd field the bye
// slot takes part in the rotation but is left out of the result.
func Rotate[T any](teams []T, round int) ([]T, error) {
	n := len(teams)
	if _, err := TotalRounds(n); err != nil {
		return nil, err
	}

	out := make([]T, 0, n)
	for _, idx := range rotation(padded(n), round) {
		if idx < n {
			out = append(out, teams[idx])
		}
	}
	return out, nil
}

// PairIndices returns the pairs of round as positions into an n-sized team
// list, in circle order. Pairs against the bye are omitted.
func PairIndices(n, round int) ([][2]int, error) {
	if _, err := TotalRounds(n); err != nil {
		return nil, err
	}

	m := padded(n)
	order := rotation(m, round)
	pairs := make([][2]int, 0, n/2)
	for i := 0; i < m/2; i++ {
		a, b := order[i], order[m-1-i]
		if a == n || b == n {
			continue
		}
		pairs = append(pairs, [2]int{a, b})
	}
	return pairs, nil
}

// Pairings returns the matches of round: position i of the rotated circle
// plays position m-1-i.
func Pairings[T comparable](teams []T, round int) ([]pairing.Pair[T], error) {
	idx, err := PairIndices(len(teams), round)
	if err != nil {
		return nil, err
	}

	pairs := make([]pairing.Pair[T], len(idx))
	for i, p := range idx {
		pairs[i] = pairing.Pair[T]{A: teams[p[0]], B: teams[p[1]]}
	}
	return pairs, nil
}

// Enumerate returns the orderings for every round of a full round-robin.
// The sequence is recomputed on each iteration.
func Enumerate[T any](teams []T) (iter.Seq[[]T], error) {
	total, err := TotalRounds(len(teams))
	if err != nil {
		return nil, err
	}

	teams = append([]T(nil), teams...)
	return func(yield func([]T) bool) {
		for round := range total {
			order, _ := Rotate(teams, round)
			if !yield(order) {
				return
			}
		}
	}, nil
}

// Schedule returns the pairings of every round, in round order.
func Schedule[T comparable](teams []T) ([][]pairing.Pair[T], error) {
	total, err := TotalRounds(len(teams))
	if err != nil {
		return nil, err
	}

	rounds := make([][]pairing.Pair[T], total)
	for round := range total {
		if rounds[round], err = Pairings(teams, round); err != nil {
			return nil, err
		}
	}
	return rounds, nil
}
