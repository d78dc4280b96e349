package roundrobin

import (
	"errors"
	"fmt"
	"slices"
	"testing"

	"github.com/derekprior/tourney/internal/pairing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func teamsOf(n int) []int {
	teams := make([]int, n)
	for i := range teams {
		teams[i] = i + 1
	}
	return teams
}

func TestTotalRounds(t *testing.T) {
	for n, want := range map[int]int{3: 3, 2: 1, 6: 5, 9: 9} {
		got, err := TotalRounds(n)
		require.NoError(t, err)
		assert.Equal(t, want, got, "TotalRounds(%d)", n)
	}

	t.Run("fewer than two competitors", func(t *testing.T) {
		for _, n := range []int{-1, 0, 1} {
			_, err := TotalRounds(n)
			assert.True(t, errors.Is(err, pairing.ErrInvalidInput), "TotalRounds(%d)", n)
		}
	})
}

func TestGuessRound(t *testing.T) {
	t.Run("works for 4 teams", func(t *testing.T) {
		for played, want := range map[int]int{0: 0, 2: 1, 4: 2, 6: 3, 8: 4} {
			got, err := GuessRound(4, played)
			require.NoError(t, err)
			assert.Equal(t, want, got, "GuessRound(4, %d)", played)
		}
	})

	t.Run("odd field counts real matches only", func(t *testing.T) {
		got, err := GuessRound(5, 6)
		require.NoError(t, err)
		assert.Equal(t, 3, got)
	})

	t.Run("rejects bad input", func(t *testing.T) {
		_, err := GuessRound(1, 0)
		assert.True(t, errors.Is(err, pairing.ErrInvalidInput))
		_, err = GuessRound(4, -2)
		assert.True(t, errors.Is(err, pairing.ErrInvalidInput))
	})
}

func TestRotate(t *testing.T) {
	teams := []int{1, 2, 3, 4}
	want := [][]int{
		{1, 2, 3, 4},
		{1, 4, 2, 3},
		{1, 3, 4, 2},
		{1, 2, 3, 4},
		{1, 4, 2, 3},
	}
	for round, w := range want {
		got, err := Rotate(teams, round)
		require.NoError(t, err)
		assert.Equal(t, w, got, "Rotate(round %d)", round)
	}
	assert.Equal(t, []int{1, 2, 3, 4}, teams, "input must not be mutated")

	t.Run("negative rounds wrap", func(t *testing.T) {
		got, err := Rotate(teams, -1)
		require.NoError(t, err)
		assert.Equal(t, []int{1, 3, 4, 2}, got)
	})

	t.Run("odd field strips the bye slot", func(t *testing.T) {
		for round := range 3 {
			got, err := Rotate([]string{"a", "b", "c"}, round)
			require.NoError(t, err)
			assert.Len(t, got, 3)
			assert.Equal(t, "a", got[0])
		}
	})
}

func TestRotatePeriodicity(t *testing.T) {
	for n := 2; n <= 9; n++ {
		teams := teamsOf(n)
		total, err := TotalRounds(n)
		require.NoError(t, err)
		for r := range 3 * total {
			got, err := Rotate(teams, r)
			require.NoError(t, err)
			base, err := Rotate(teams, r%total)
			require.NoError(t, err)
			assert.Equal(t, base, got, "n=%d round=%d", n, r)
		}
	}
}

func TestPairings(t *testing.T) {
	teams := []int{1, 2, 3, 4}
	want := [][]pairing.Pair[int]{
		{{A: 1, B: 4}, {A: 2, B: 3}},
		{{A: 1, B: 3}, {A: 4, B: 2}},
		{{A: 1, B: 2}, {A: 3, B: 4}},
	}
	for round, w := range want {
		got, err := Pairings(teams, round)
		require.NoError(t, err)
		assert.Equal(t, w, got, "Pairings(round %d)", round)
	}
}

func TestPairingsRoundShape(t *testing.T) {
	for n := 2; n <= 12; n++ {
		t.Run(fmt.Sprintf("%d competitors", n), func(t *testing.T) {
			teams := teamsOf(n)
			total, err := TotalRounds(n)
			require.NoError(t, err)

			for r := range total {
				round, err := Pairings(teams, r)
				require.NoError(t, err)
				assert.Len(t, round, n/2)
				assert.True(t, pairing.IsMatching(round), "round %d is not a matching", r)
			}
		})
	}
}

func TestScheduleCompleteness(t *testing.T) {
	for n := 2; n <= 11; n++ {
		t.Run(fmt.Sprintf("%d competitors", n), func(t *testing.T) {
			teams := teamsOf(n)
			rounds, err := Schedule(teams)
			require.NoError(t, err)

			type key struct{ a, b int }
			played := make(map[key]int)
			byes := make(map[int]int)
			for _, round := range rounds {
				inRound := make(map[int]bool)
				for _, p := range round {
					a, b := p.A, p.B
					if a > b {
						a, b = b, a
					}
					played[key{a, b}]++
					inRound[a], inRound[b] = true, true
				}
				for _, team := range teams {
					if !inRound[team] {
						byes[team]++
					}
				}
			}

			assert.Len(t, played, n*(n-1)/2, "every pair must meet")
			for k, count := range played {
				assert.Equal(t, 1, count, "%d vs %d", k.a, k.b)
			}
			if n%2 == 0 {
				assert.Empty(t, byes)
			} else {
				for _, team := range teams {
					assert.Equal(t, 1, byes[team], "byes for %d", team)
				}
			}
		})
	}
}

func TestEnumerate(t *testing.T) {
	seq, err := Enumerate([]int{1, 2, 3, 4})
	require.NoError(t, err)

	want := [][]int{{1, 2, 3, 4}, {1, 4, 2, 3}, {1, 3, 4, 2}}
	assert.Equal(t, want, slices.Collect(seq))
	assert.Equal(t, want, slices.Collect(seq), "sequence must be restartable")

	t.Run("stops early", func(t *testing.T) {
		var got [][]int
		for order := range seq {
			got = append(got, order)
			break
		}
		assert.Equal(t, want[:1], got)
	})

	t.Run("rejects a single competitor", func(t *testing.T) {
		_, err := Enumerate([]int{1})
		assert.True(t, errors.Is(err, pairing.ErrInvalidInput))
	})
}

func TestPairIndicesOddField(t *testing.T) {
	got, err := PairIndices(3, 0)
	require.NoError(t, err)
	assert.Equal(t, [][2]int{{1, 2}}, got)
}
