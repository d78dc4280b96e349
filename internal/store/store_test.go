package store

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/derekprior/tourney/internal/pairing"
)

const testStateYAML = `
teams: [Ada, Bo, Cy, Di]
scoring:
  win: 3
  draw: 1
  loss: 0
matches:
  - {round: 0, home: Ada, away: Cy, result: home}
  - {round: 0, home: Bo, away: Di, result: draw}
  - {round: 1, home: Ada, away: Bo}
  - {round: 1, home: Cy, away: Di, result: away}
`

func mustLoad(t *testing.T) *State {
	t.Helper()
	s, err := LoadFromBytes([]byte(testStateYAML))
	require.NoError(t, err)
	return s
}

func TestLoadFromBytes(t *testing.T) {
	s := mustLoad(t)

	assert.Equal(t, []string{"Ada", "Bo", "Cy", "Di"}, s.Teams)
	assert.Equal(t, Scoring{Win: 3, Draw: 1}, s.Scoring)
	assert.Len(t, s.Games, 4)
	assert.Equal(t, 2, s.NextRound())
	assert.Equal(t, []Match{{Round: 1, Home: "Ada", Away: "Bo"}}, s.Pending())
}

func TestValidation(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"one team", "teams: [Ada]"},
		{"duplicate team", "teams: [Ada, Bo, Ada]"},
		{"blank team", "teams: [Ada, ' ']"},
		{"team named like a draw", "teams: [Ada, Draw]"},
		{"unknown team in match", "teams: [Ada, Bo]\nmatches: [{home: Ada, away: Zed}]"},
		{"self match", "teams: [Ada, Bo]\nmatches: [{home: Ada, away: Ada}]"},
		{"bad result", "teams: [Ada, Bo]\nmatches: [{home: Ada, away: Bo, result: forfeit}]"},
		{"team twice in a round", "teams: [Ada, Bo, Cy]\nmatches: [{home: Ada, away: Bo}, {home: Cy, away: Ada}]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFromBytes([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestScoresAndRanking(t *testing.T) {
	s := mustLoad(t)

	assert.Equal(t, map[string]float64{"Ada": 3, "Bo": 1, "Cy": 0, "Di": 4}, s.Scores())
	assert.Equal(t, []string{"Di", "Ada", "Bo", "Cy"}, s.RankedTeams())
	assert.Equal(t, []string{"Ada", "Bo", "Cy", "Di"}, s.SeededTeams())
}

func TestRankingTiesKeepSeedOrder(t *testing.T) {
	s, err := New([]string{"Ada", "Bo", "Cy"}, DefaultScoring)
	require.NoError(t, err)
	assert.Equal(t, []string{"Ada", "Bo", "Cy"}, s.RankedTeams())
}

func TestStandings(t *testing.T) {
	s := mustLoad(t)

	want := []Standing{
		{Team: "Di", Played: 2, Won: 1, Drawn: 1, Points: 4},
		{Team: "Ada", Played: 1, Won: 1, Points: 3},
		{Team: "Bo", Played: 1, Drawn: 1, Points: 1},
		{Team: "Cy", Played: 2, Lost: 2, Points: 0},
	}
	assert.Equal(t, want, s.Standings())
}

func TestRecordResult(t *testing.T) {
	t.Run("as created", func(t *testing.T) {
		s := mustLoad(t)
		require.NoError(t, s.RecordResult("Ada", "Bo", ResultAway))
		assert.Equal(t, ResultAway, s.Games[2].Result)
	})

	t.Run("sides swapped", func(t *testing.T) {
		s := mustLoad(t)
		require.NoError(t, s.RecordResult("Bo", "Ada", ResultHome))
		assert.Equal(t, ResultAway, s.Games[2].Result)
	})

	t.Run("already played", func(t *testing.T) {
		s := mustLoad(t)
		err := s.RecordResult("Ada", "Cy", ResultHome)
		assert.True(t, errors.Is(err, ErrUnknownMatch))
	})

	t.Run("bad result", func(t *testing.T) {
		s := mustLoad(t)
		assert.Error(t, s.RecordResult("Ada", "Bo", "forfeit"))
	})
}

func TestWinnerAndLoser(t *testing.T) {
	s := mustLoad(t)

	w, err := s.MatchWinner(0)
	require.NoError(t, err)
	assert.Equal(t, "Ada", w)
	l, err := s.MatchLoser(3)
	require.NoError(t, err)
	assert.Equal(t, "Cy", l)

	_, err = s.MatchWinner(1)
	assert.True(t, errors.Is(err, ErrNoResult), "draw has no winner")
	_, err = s.MatchLoser(2)
	assert.True(t, errors.Is(err, ErrNoResult), "unplayed has no loser")
	_, err = s.MatchWinner(9)
	assert.True(t, errors.Is(err, ErrUnknownMatch))
}

func TestCreateMatches(t *testing.T) {
	s := mustLoad(t)
	s.BeginRound(2)

	ids, err := s.CreateMatches([]pairing.Pair[string]{{A: "Ada", B: "Di"}, {A: "Bo", B: "Cy"}})
	require.NoError(t, err)
	assert.Equal(t, []int{4, 5}, ids)
	assert.Equal(t, Match{Round: 2, Home: "Ada", Away: "Di"}, s.Games[4])
	assert.Equal(t, pairing.Pair[string]{A: "Bo", B: "Cy"}, s.Matches()[5])

	s.BeginRound(3)
	_, err = s.CreateMatches([]pairing.Pair[string]{{A: "Ada", B: "Bo"}, {A: "Cy", B: "Cy"}})
	assert.True(t, errors.Is(err, pairing.ErrInvalidInput))
	assert.Len(t, s.Games, 6, "a rejected batch must not be partly applied")
}

func TestCreateMatchesRoundConflict(t *testing.T) {
	s := mustLoad(t)
	s.BeginRound(1)

	_, err := s.CreateMatches([]pairing.Pair[string]{{A: "Ada", B: "Bo"}})
	assert.True(t, errors.Is(err, ErrRoundConflict), "same pair again in round 2")
	_, err = s.CreateMatches([]pairing.Pair[string]{{A: "Di", B: "Ada"}})
	assert.True(t, errors.Is(err, ErrRoundConflict), "Ada already plays round 2")
	assert.Len(t, s.Games, 4)

	s.BeginRound(2)
	_, err = s.CreateMatches([]pairing.Pair[string]{{A: "Ada", B: "Di"}, {A: "Di", B: "Bo"}})
	assert.True(t, errors.Is(err, ErrRoundConflict), "Di twice in one batch")
	assert.Len(t, s.Games, 4)
}

func TestHasRound(t *testing.T) {
	s := mustLoad(t)
	assert.True(t, s.HasRound(0))
	assert.True(t, s.HasRound(1))
	assert.False(t, s.HasRound(2))
}

func TestRounds(t *testing.T) {
	s := mustLoad(t)
	rounds := s.Rounds()
	require.Len(t, rounds, 2)
	assert.Len(t, rounds[0], 2)
	assert.Equal(t, "Cy", rounds[1][1].Home)
}

func TestSaveAndLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.yaml")
	s := mustLoad(t)
	require.NoError(t, s.SaveToFile(path))

	loaded, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, s.Teams, loaded.Teams)
	assert.Equal(t, s.Games, loaded.Games)
	assert.Equal(t, s.Scoring, loaded.Scoring)

	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))

	_, err = LoadFromFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
