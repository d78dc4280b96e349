package store

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/elliotchance/pie/v2"
	"gopkg.in/yaml.v3"

	"github.com/derekprior/tourney/internal/pairing"
)

// Match results.
const (
	ResultNone = ""
	ResultHome = "home"
	ResultAway = "away"
	ResultDraw = "draw"
)

// DrawLabel is written in place of a winner for a drawn match. No team may
// use it as a name.
const DrawLabel = "Draw"

var (
	// ErrUnknownMatch is returned when a result names a match that was never created.
	ErrUnknownMatch = errors.New("unknown match")
	// ErrNoResult is returned when asking for the winner of an unplayed or drawn match.
	ErrNoResult = errors.New("no decisive result")
	// ErrRoundConflict is returned when a team would play twice in one round.
	ErrRoundConflict = errors.New("team already plays this round")
)

type Match struct {
	Round  int    `yaml:"round"`
	Home   string `yaml:"home"`
	Away   string `yaml:"away"`
	Result string `yaml:"result,omitempty"`
}

// Played reports whether a result has been recorded.
func (m Match) Played() bool {
	return m.Result != ResultNone
}

func (m Match) pair() pairing.Pair[string] {
	return pairing.Pair[string]{A: m.Home, B: m.Away}
}

type Scoring struct {
	Win  float64 `yaml:"win"`
	Draw float64 `yaml:"draw"`
	Loss float64 `yaml:"loss"`
}

// DefaultScoring awards one point for a win and half for a draw.
var DefaultScoring = Scoring{Win: 1, Draw: 0.5}

// State is the persisted tournament: seeded teams and every match created
// so far.
type State struct {
	Teams   []string `yaml:"teams"`
	Scoring Scoring  `yaml:"scoring"`
	Games   []Match  `yaml:"matches"`

	round int
}

// New starts an empty tournament for teams in seed order.
func New(teams []string, scoring Scoring) (*State, error) {
	s := &State{Teams: slices.Clone(teams), Scoring: scoring}
	if err := s.validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// LoadFromBytes parses YAML bytes into a State and validates it.
func LoadFromBytes(data []byte) (*State, error) {
	var s State
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parsing state: %w", err)
	}
	if err := s.validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// LoadFromFile reads and parses a YAML state file.
func LoadFromFile(path string) (*State, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading state file: %w", err)
	}
	return LoadFromBytes(data)
}

// SaveToFile writes the state as YAML, replacing any existing file.
func (s *State) SaveToFile(path string) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("encoding state: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("writing state file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("writing state file: %w", err)
	}
	return nil
}

func (s *State) validate() error {
	if len(s.Teams) < 2 {
		return fmt.Errorf("at least two teams are required (found %d)", len(s.Teams))
	}
	seen := make(map[string]bool, len(s.Teams))
	for _, t := range s.Teams {
		if strings.TrimSpace(t) == "" {
			return fmt.Errorf("team names must not be blank")
		}
		if t == DrawLabel {
			return fmt.Errorf("team name %q is reserved for drawn results", t)
		}
		if seen[t] {
			return fmt.Errorf("team %q appears more than once", t)
		}
		seen[t] = true
	}
	rounds := make(map[int][]Match)
	for i, m := range s.Games {
		if !seen[m.Home] || !seen[m.Away] {
			return fmt.Errorf("match %d (%s vs %s): unknown team", i, m.Home, m.Away)
		}
		if m.Home == m.Away {
			return fmt.Errorf("match %d: %s paired with itself", i, m.Home)
		}
		switch m.Result {
		case ResultNone, ResultHome, ResultAway, ResultDraw:
		default:
			return fmt.Errorf("match %d: unknown result %q", i, m.Result)
		}
		if other, ok := conflict(rounds[m.Round], m.pair()); ok {
			return fmt.Errorf("match %d (%s vs %s): %w with %s vs %s in round %d",
				i, m.Home, m.Away, ErrRoundConflict, other.Home, other.Away, m.Round+1)
		}
		rounds[m.Round] = append(rounds[m.Round], m)
	}
	return nil
}

// BeginRound sets the round number stamped on matches created next.
func (s *State) BeginRound(round int) {
	s.round = round
}

// NextRound is one past the highest round with matches, or 0.
func (s *State) NextRound() int {
	if len(s.Games) == 0 {
		return 0
	}
	return pie.Max(pie.Map(s.Games, func(m Match) int { return m.Round })) + 1
}

// Pending returns the matches still waiting for a result.
func (s *State) Pending() []Match {
	return pie.Filter(s.Games, func(m Match) bool { return !m.Played() })
}

// RecordResult stores the result of the most recent unplayed match between
// home and away. The match may have been created with sides swapped.
func (s *State) RecordResult(home, away, result string) error {
	switch result {
	case ResultHome, ResultAway, ResultDraw:
	default:
		return fmt.Errorf("result must be %q, %q or %q (got %q)", ResultHome, ResultAway, ResultDraw, result)
	}

	want := pairing.Pair[string]{A: home, B: away}
	for i := len(s.Games) - 1; i >= 0; i-- {
		m := &s.Games[i]
		if m.Played() || !m.pair().Equal(want) {
			continue
		}
		if m.Home != home {
			result = swapSides(result)
		}
		m.Result = result
		return nil
	}
	return fmt.Errorf("%w: no unplayed match %s vs %s", ErrUnknownMatch, home, away)
}

func swapSides(result string) string {
	switch result {
	case ResultHome:
		return ResultAway
	case ResultAway:
		return ResultHome
	}
	return result
}

// SeededTeams returns teams in seed order.
func (s *State) SeededTeams() []string {
	return slices.Clone(s.Teams)
}

// RankedTeams returns teams by points, best first. Ties keep seed order.
func (s *State) RankedTeams() []string {
	scores := s.Scores()
	ranked := slices.Clone(s.Teams)
	slices.SortStableFunc(ranked, func(a, b string) int {
		switch {
		case scores[a] > scores[b]:
			return -1
		case scores[a] < scores[b]:
			return 1
		}
		return 0
	})
	return ranked
}

// Matches returns every created match as a pair, home first.
func (s *State) Matches() []pairing.Pair[string] {
	return pie.Map(s.Games, Match.pair)
}

// Scores returns the points of every team. Unplayed matches count nothing.
func (s *State) Scores() map[string]float64 {
	scores := make(map[string]float64, len(s.Teams))
	for _, t := range s.Teams {
		scores[t] = 0
	}
	for _, m := range s.Games {
		switch m.Result {
		case ResultHome:
			scores[m.Home] += s.Scoring.Win
			scores[m.Away] += s.Scoring.Loss
		case ResultAway:
			scores[m.Away] += s.Scoring.Win
			scores[m.Home] += s.Scoring.Loss
		case ResultDraw:
			scores[m.Home] += s.Scoring.Draw
			scores[m.Away] += s.Scoring.Draw
		}
	}
	return scores
}

// CreateMatches appends pairs as unplayed matches in the current round and
// returns their indices.
func (s *State) CreateMatches(pairs []pairing.Pair[string]) ([]int, error) {
	for _, p := range pairs {
		if _, err := pairing.NewPair(p.A, p.B); err != nil {
			return nil, err
		}
	}
	round := pie.Map(pie.Filter(s.Games, func(m Match) bool { return m.Round == s.round }), Match.pair)
	if !pairing.IsMatching(append(round, pairs...)) {
		return nil, fmt.Errorf("%w: %v in round %d", ErrRoundConflict, pairs, s.round+1)
	}

	ids := make([]int, 0, len(pairs))
	for _, p := range pairs {
		ids = append(ids, len(s.Games))
		s.Games = append(s.Games, Match{Round: s.round, Home: p.A, Away: p.B})
	}
	return ids, nil
}

// conflict returns the first match in round that shares a team with p.
func conflict(round []Match, p pairing.Pair[string]) (Match, bool) {
	for _, m := range round {
		if p.Has(m.Home) || p.Has(m.Away) {
			return m, true
		}
	}
	return Match{}, false
}

// HasRound reports whether any match was created in round.
func (s *State) HasRound(round int) bool {
	return slices.ContainsFunc(s.Games, func(m Match) bool { return m.Round == round })
}

func (s *State) MatchWinner(match int) (string, error) {
	m, err := s.decided(match)
	if err != nil {
		return "", err
	}
	if m.Result == ResultHome {
		return m.Home, nil
	}
	return m.Away, nil
}

func (s *State) MatchLoser(match int) (string, error) {
	m, err := s.decided(match)
	if err != nil {
		return "", err
	}
	if m.Result == ResultHome {
		return m.Away, nil
	}
	return m.Home, nil
}

func (s *State) decided(match int) (Match, error) {
	if match < 0 || match >= len(s.Games) {
		return Match{}, fmt.Errorf("%w: index %d", ErrUnknownMatch, match)
	}
	m := s.Games[match]
	if m.Result != ResultHome && m.Result != ResultAway {
		return Match{}, fmt.Errorf("%w: %s vs %s", ErrNoResult, m.Home, m.Away)
	}
	return m, nil
}

// Standing is one row of the standings table.
type Standing struct {
	Team   string
	Played int
	Won    int
	Drawn  int
	Lost   int
	Points float64
}

// Standings returns a row per team in ranking order.
func (s *State) Standings() []Standing {
	rows := make(map[string]*Standing, len(s.Teams))
	for _, t := range s.Teams {
		rows[t] = &Standing{Team: t}
	}
	for _, m := range s.Games {
		if !m.Played() {
			continue
		}
		home, away := rows[m.Home], rows[m.Away]
		home.Played++
		away.Played++
		switch m.Result {
		case ResultHome:
			home.Won++
			away.Lost++
		case ResultAway:
			away.Won++
			home.Lost++
		case ResultDraw:
			home.Drawn++
			away.Drawn++
		}
	}

	scores := s.Scores()
	return pie.Map(s.RankedTeams(), func(t string) Standing {
		row := *rows[t]
		row.Points = scores[t]
		return row
	})
}

// Rounds groups matches by round number, in ascending round order.
func (s *State) Rounds() [][]Match {
	byRound := make(map[int][]Match)
	for _, m := range s.Games {
		byRound[m.Round] = append(byRound[m.Round], m)
	}
	return pie.Map(pie.Sort(pie.Keys(byRound)), func(r int) []Match {
		return byRound[r]
	})
}
