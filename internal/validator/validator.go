package validator

import (
	"fmt"
	"sort"

	"github.com/derekprior/tourney/internal/config"
	"github.com/derekprior/tourney/internal/excel"
	"github.com/derekprior/tourney/internal/pairing"
	"github.com/derekprior/tourney/internal/roundrobin"
	"github.com/derekprior/tourney/internal/tournament"
	"github.com/xuri/excelize/v2"
)

// Violation represents a problem found in an exported schedule.
type Violation struct {
	Row     int
	Type    string // "error" or "warning"
	Message string
}

// Validate reads a schedule Excel file and checks its rounds against the config.
func Validate(cfg *config.Config, path string) ([]Violation, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()

	games, err := excel.ReadRounds(f)
	if err != nil {
		return nil, fmt.Errorf("reading rounds: %w", err)
	}

	return Check(cfg, games), nil
}

// Check runs every rule over games already read from a workbook.
func Check(cfg *config.Config, games []excel.RoundRow) []Violation {
	var violations []Violation

	// Check hard constraints
	violations = append(violations, checkUnknownTeams(cfg, games)...)
	violations = append(violations, checkRoundConflicts(games)...)
	if cfg.Format != tournament.FormatPagePlayoff {
		violations = append(violations, checkRematches(games)...)
		violations = append(violations, checkRoundRobin(games)...)
	}

	// Check soft constraints
	violations = append(violations, checkRoundCount(cfg, games)...)
	violations = append(violations, checkPendingResults(games)...)
	violations = append(violations, checkGameCompleteness(cfg, games)...)

	return violations
}

func checkUnknownTeams(cfg *config.Config, games []excel.RoundRow) []Violation {
	known := make(map[string]bool, len(cfg.Teams))
	for _, t := range cfg.Teams {
		known[t] = true
	}

	var violations []Violation
	for _, g := range games {
		for _, team := range []string{g.Match.Home, g.Match.Away} {
			if !known[team] {
				violations = append(violations, Violation{
					Row:     g.Row,
					Type:    "error",
					Message: fmt.Sprintf("%s is not a team in this tournament", team),
				})
			}
		}
	}
	return violations
}

func checkRoundConflicts(games []excel.RoundRow) []Violation {
	type teamRound struct {
		team  string
		round int
	}
	rows := make(map[teamRound][]int)
	for _, g := range games {
		for _, team := range []string{g.Match.Home, g.Match.Away} {
			k := teamRound{team, g.Match.Round}
			rows[k] = append(rows[k], g.Row)
		}
	}

	var violations []Violation
	for k, r := range rows {
		if len(r) > 1 {
			violations = append(violations, Violation{
				Row:     r[1],
				Type:    "error",
				Message: fmt.Sprintf("%s plays %d matches in round %d", k.team, len(r), k.round+1),
			})
		}
	}
	sortByRow(violations)
	return violations
}

func checkRematches(games []excel.RoundRow) []Violation {
	type matchup struct{ a, b string }
	first := make(map[matchup]excel.RoundRow)

	var violations []Violation
	for _, g := range games {
		a, b := g.Match.Home, g.Match.Away
		if a > b {
			a, b = b, a
		}
		k := matchup{a, b}
		if prev, ok := first[k]; ok {
			violations = append(violations, Violation{
				Row:  g.Row,
				Type: "error",
				Message: fmt.Sprintf("%s vs %s rematch in round %d (first met in round %d)",
					a, b, g.Match.Round+1, prev.Match.Round+1),
			})
			continue
		}
		first[k] = g
	}
	return violations
}

// checkRoundRobin reports when the matches so far can never be extended
// into a complete round-robin.
func checkRoundRobin(games []excel.RoundRow) []Violation {
	pairs := make([]pairing.Pair[string], 0, len(games))
	for _, g := range games {
		p, err := pairing.NewPair(g.Match.Home, g.Match.Away)
		if err != nil {
			return []Violation{{Row: g.Row, Type: "error", Message: err.Error()}}
		}
		pairs = append(pairs, p)
	}

	ok, err := roundrobin.FormsRoundRobin(pairs)
	if err != nil {
		return []Violation{{Type: "error", Message: err.Error()}}
	}
	if !ok {
		return []Violation{{
			Type:    "error",
			Message: "matches split the field into closed groups and cannot be completed as a round-robin",
		}}
	}
	return nil
}

func checkRoundCount(cfg *config.Config, games []excel.RoundRow) []Violation {
	total := cfg.TotalRounds()
	var violations []Violation
	for _, g := range games {
		if g.Match.Round >= total {
			violations = append(violations, Violation{
				Row:     g.Row,
				Type:    "warning",
				Message: fmt.Sprintf("round %d is beyond the %d rounds configured", g.Match.Round+1, total),
			})
		}
	}
	return violations
}

// checkPendingResults warns about unplayed matches in any round before the
// latest one.
func checkPendingResults(games []excel.RoundRow) []Violation {
	latest := -1
	for _, g := range games {
		latest = max(latest, g.Match.Round)
	}

	var violations []Violation
	for _, g := range games {
		if g.Match.Round < latest && !g.Match.Played() {
			violations = append(violations, Violation{
				Row:     g.Row,
				Type:    "warning",
				Message: fmt.Sprintf("%s vs %s in round %d has no result", g.Match.Home, g.Match.Away, g.Match.Round+1),
			})
		}
	}
	return violations
}

func checkGameCompleteness(cfg *config.Config, games []excel.RoundRow) []Violation {
	counts := make(map[string]int)
	for _, g := range games {
		counts[g.Match.Home]++
		counts[g.Match.Away]++
	}

	var violations []Violation
	for _, team := range cfg.Teams {
		if counts[team] == 0 {
			violations = append(violations, Violation{
				Type:    "warning",
				Message: fmt.Sprintf("%s has no matches scheduled", team),
			})
		}
	}
	return violations
}

func sortByRow(violations []Violation) {
	sort.Slice(violations, func(i, j int) bool {
		return violations[i].Row < violations[j].Row
	})
}
