package roundrobin

import (
	"errors"
	"testing"

	"github.com/derekprior/tourney/internal/pairing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pairs(raw ...[2]int) []pairing.Pair[int] {
	out := make([]pairing.Pair[int], len(raw))
	for i, r := range raw {
		out[i] = pairing.Pair[int]{A: r[0], B: r[1]}
	}
	return out
}

func TestFormsRoundRobin(t *testing.T) {
	tests := []struct {
		name    string
		matches []pairing.Pair[int]
		want    bool
	}{
		{
			name: "two separate triangles",
			matches: pairs(
				[2]int{1, 3}, [2]int{1, 5}, [2]int{3, 5},
				[2]int{2, 4}, [2]int{2, 6}, [2]int{4, 6},
			),
			want: false,
		},
		{
			name: "two separate incomplete groups",
			matches: pairs(
				[2]int{1, 2}, [2]int{2, 4}, [2]int{3, 4}, [2]int{1, 4},
				[2]int{5, 6}, [2]int{6, 8}, [2]int{7, 8}, [2]int{5, 7},
			),
			want: true,
		},
		{
			name: "single cycle through every competitor",
			matches: pairs(
				[2]int{1, 4}, [2]int{1, 5}, [2]int{3, 5}, [2]int{3, 6}, [2]int{2, 6}, [2]int{2, 4},
			),
			want: true,
		},
		{
			name: "two separate triangles interleaved",
			matches: pairs(
				[2]int{1, 3}, [2]int{1, 5}, [2]int{2, 4}, [2]int{2, 6}, [2]int{3, 5}, [2]int{4, 6},
			),
			want: false,
		},
		{
			name:    "no matches",
			matches: nil,
			want:    true,
		},
		{
			name:    "one complete round-robin",
			matches: pairs([2]int{1, 2}, [2]int{1, 3}, [2]int{2, 3}),
			want:    true,
		},
		{
			name:    "first round of four competitors",
			matches: pairs([2]int{1, 4}, [2]int{2, 3}),
			want:    true,
		},
		{
			name: "duplicates collapse",
			matches: pairs(
				[2]int{1, 3}, [2]int{3, 1}, [2]int{1, 5}, [2]int{3, 5},
				[2]int{2, 4}, [2]int{2, 6}, [2]int{4, 6},
			),
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FormsRoundRobin(tt.matches)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormsRoundRobinGeneratedRounds(t *testing.T) {
	teams := []string{"Ada", "Bo", "Cy", "Di", "Ed", "Flo"}
	rounds, err := Schedule(teams)
	require.NoError(t, err)

	var played []pairing.Pair[string]
	for _, round := range rounds {
		played = append(played, round...)
		ok, err := FormsRoundRobin(played)
		require.NoError(t, err)
		assert.True(t, ok, "after %d matches", len(played))
	}
}

func TestFormsRoundRobinRejectsSelfPairing(t *testing.T) {
	_, err := FormsRoundRobin(pairs([2]int{1, 2}, [2]int{3, 3}))
	assert.True(t, errors.Is(err, pairing.ErrInvalidInput))
}
