package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/derekprior/tourney/internal/store"
)

func writeConfig(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func loadGames(t *testing.T, statePath string) []store.Match {
	t.Helper()
	state, err := store.LoadFromFile(statePath)
	require.NoError(t, err)
	return state.Games
}

func TestInitWritesLoadableConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	require.NoError(t, runInit(path))
	assert.Error(t, runInit(path), "config already exists")

	state := filepath.Join(dir, "tournament.yaml")
	require.NoError(t, runNextRound(path, state, nil, 0), "template config")
}

func TestSwissTournamentFlow(t *testing.T) {
	dir := t.TempDir()
	cfg := writeConfig(t, dir, "format: swiss\nteams: [A, B, C, D]\n")
	statePath := filepath.Join(dir, "tournament.yaml")

	for round := range 3 {
		require.NoError(t, runNextRound(cfg, statePath, nil, 0), "round %d", round+1)

		err := runNextRound(cfg, statePath, nil, 0)
		require.Error(t, err, "round %d", round+1)
		assert.Contains(t, err.Error(), "need a result", "round %d", round+1)

		state, err := store.LoadFromFile(statePath)
		require.NoError(t, err)
		for _, m := range state.Pending() {
			require.NoError(t, runResult(cfg, statePath, m.Home, m.Away, "HOME"))
		}
	}

	err := runNextRound(cfg, statePath, nil, 0)
	require.Error(t, err, "after the last round")
	assert.Contains(t, err.Error(), "all 3 rounds")

	assert.NoError(t, runStandings(cfg, statePath))
	assert.NoError(t, runPreview(cfg, statePath))

	xlsx := filepath.Join(dir, "schedule.xlsx")
	require.NoError(t, runExport(cfg, statePath, xlsx))
	assert.NoError(t, runValidate(cfg, xlsx))
}

func TestRoundRobinRejectsRegeneratedRound(t *testing.T) {
	dir := t.TempDir()
	cfg := writeConfig(t, dir, "teams: [A, B, C, D]\n")
	statePath := filepath.Join(dir, "tournament.yaml")

	first := 0
	require.NoError(t, runNextRound(cfg, statePath, &first, 0))
	require.Len(t, loadGames(t, statePath), 2)

	err := runNextRound(cfg, statePath, &first, 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "round 1 has already been generated")
	assert.Len(t, loadGames(t, statePath), 2)

	// Results may still be pending: round_robin rounds are fixed in advance.
	require.NoError(t, runNextRound(cfg, statePath, nil, 0))
	games := loadGames(t, statePath)
	require.Len(t, games, 4)
	assert.Equal(t, 1, games[3].Round)
}

func TestLoadStateRejectsChangedTeams(t *testing.T) {
	dir := t.TempDir()
	statePath := filepath.Join(dir, "tournament.yaml")

	cfg := writeConfig(t, dir, "teams: [A, B, C, D]\n")
	require.NoError(t, runNextRound(cfg, statePath, nil, 0))

	cfg = writeConfig(t, dir, "teams: [A, B, C, E]\n")
	assert.Error(t, runStandings(cfg, statePath), "changed team list")
}

func TestSittingOut(t *testing.T) {
	state, err := store.New([]string{"A", "B", "C"}, store.DefaultScoring)
	require.NoError(t, err)
	state.Games = []store.Match{{Home: "A", Away: "C"}}

	assert.Equal(t, []string{"B"}, sittingOut(state, []int{0}))
}
