package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/derekprior/tourney/internal/config"
	"github.com/derekprior/tourney/internal/excel"
	"github.com/derekprior/tourney/internal/schedule"
	"github.com/derekprior/tourney/internal/store"
	"github.com/derekprior/tourney/internal/tournament"
	"github.com/derekprior/tourney/internal/validator"
)

func runInit(outputPath string) error {
	if _, err := os.Stat(outputPath); err == nil {
		return fmt.Errorf("%s already exists; remove it first or use -o to write elsewhere", outputPath)
	}

	if err := os.WriteFile(outputPath, []byte(configTemplate), 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	fmt.Printf("✓ Created %s\n", outputPath)
	return nil
}

const configTemplate = `# Tournament Configuration
# ========================
# This file defines the tournament that tourney runs round by round.

name: Club Championship

# Format decides how each round is paired.
#   round_robin   every team meets every other team once, in a fixed order
#   swiss         teams with similar scores meet; no rematches, and the
#                 rounds played always extend to a full round-robin
#   page_playoff  four team playoff where the top two seeds get a second chance
format: swiss

# Teams in seed order. Swiss supports at most 16 teams; page_playoff needs
# exactly 4.
teams: [Angels, Astros, Cubs, Mariners, Padres, Royals]

# Swiss pairing strategy: dutch or accelerated_dutch.
pairer: dutch

# accelerated_dutch gives the top half of the seeds virtual points for the
# first rounds so strong teams meet early.
pair_options:
  accelerated_rounds: 2
  acceleration_points: 1

# Adds a third-place match to the page playoff final.
bronze_match: false

# Number of rounds to play. Defaults to a full round-robin (3 for page_playoff).
# rounds: 4

# Swiss search workers. 0 uses every CPU.
workers: 0

# Points awarded per match.
scoring:
  win: 1
  draw: 0.5
  loss: 0

# Calendar used for previews and exports.
calendar:
  start_date: "2026-04-25"
  days_between_rounds: 7

  # A round that lands on a blackout date moves to the next free day.
  blackout_dates:
    - date: "2026-05-10"
      reason: "Mother's Day"
`

// loadState reads the state file, or starts a new tournament from the
// config when none exists yet.
func loadState(cfg *config.Config, statePath string) (*store.State, error) {
	if _, err := os.Stat(statePath); errors.Is(err, os.ErrNotExist) {
		logrus.WithField("path", statePath).Debug("starting new tournament state")
		return store.New(cfg.Teams, cfg.Points())
	}

	state, err := store.LoadFromFile(statePath)
	if err != nil {
		return nil, fmt.Errorf("loading state: %w", err)
	}
	if strings.Join(state.Teams, "\x00") != strings.Join(cfg.Teams, "\x00") {
		return nil, fmt.Errorf("%s was started with teams %v but the config lists %v", statePath, state.Teams, cfg.Teams)
	}
	return state, nil
}

func load(configPath, statePath string) (*config.Config, *store.State, error) {
	cfg, err := config.LoadFromFile(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}
	state, err := loadState(cfg, statePath)
	if err != nil {
		return nil, nil, err
	}
	return cfg, state, nil
}

func runNextRound(configPath, statePath string, round *int, timeout time.Duration) error {
	cfg, state, err := load(configPath, statePath)
	if err != nil {
		return err
	}

	sys, err := tournament.Get[string](cfg.Format)
	if err != nil {
		return err
	}

	if round == nil {
		guessed, err := sys.GuessRound(state)
		if err != nil {
			return err
		}
		round = &guessed
	}
	if pending := state.Pending(); len(pending) > 0 && cfg.Format != tournament.FormatRoundRobin {
		return fmt.Errorf("%d match(es) still need a result, starting with %s vs %s",
			len(pending), pending[0].Home, pending[0].Away)
	}

	if *round >= cfg.TotalRounds() {
		return fmt.Errorf("all %d rounds have been generated", cfg.TotalRounds())
	}
	if state.HasRound(*round) {
		return fmt.Errorf("round %d has already been generated", *round+1)
	}

	ctx := context.Background()
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	opts := tournament.Options{
		Round:       round,
		Pairer:      cfg.Pairer,
		Swiss:       cfg.SwissOptions(),
		BronzeMatch: cfg.BronzeMatch,
	}

	start := time.Now()
	state.BeginRound(*round)
	ids, err := sys.Generate(ctx, state, opts)
	if err != nil {
		return fmt.Errorf("generating round %d: %w", *round+1, err)
	}
	logrus.WithFields(logrus.Fields{
		"round":   *round + 1,
		"elapsed": time.Since(start),
	}).Debug("round generated")

	if err := state.SaveToFile(statePath); err != nil {
		return err
	}

	fmt.Printf("Round %d of %d:\n", *round+1, cfg.TotalRounds())
	for _, id := range ids {
		m := state.Games[id]
		fmt.Printf("  %-15s vs  %s\n", m.Home, m.Away)
	}
	if sat := sittingOut(state, ids); len(sat) > 0 {
		fmt.Printf("  Bye: %s\n", strings.Join(sat, ", "))
	}
	fmt.Printf("\n✓ Saved to %s\n", statePath)
	return nil
}

// sittingOut lists teams with no match among ids.
func sittingOut(state *store.State, ids []int) []string {
	playing := make(map[string]bool)
	for _, id := range ids {
		playing[state.Games[id].Home] = true
		playing[state.Games[id].Away] = true
	}
	var out []string
	for _, t := range state.Teams {
		if !playing[t] {
			out = append(out, t)
		}
	}
	return out
}

func runResult(configPath, statePath, home, away, result string) error {
	_, state, err := load(configPath, statePath)
	if err != nil {
		return err
	}

	if err := state.RecordResult(home, away, strings.ToLower(result)); err != nil {
		return err
	}
	if err := state.SaveToFile(statePath); err != nil {
		return err
	}

	fmt.Printf("✓ %s vs %s: %s\n", home, away, strings.ToLower(result))
	return nil
}

func runStandings(configPath, statePath string) error {
	_, state, err := load(configPath, statePath)
	if err != nil {
		return err
	}

	fmt.Printf("  %4s %-15s %3s %3s %3s %3s %6s\n", "#", "Team", "P", "W", "D", "L", "Pts")
	for i, s := range state.Standings() {
		fmt.Printf("  %4d %-15s %3d %3d %3d %3d %6.1f\n", i+1, s.Team, s.Played, s.Won, s.Drawn, s.Lost, s.Points)
	}
	return nil
}

func runPreview(configPath, statePath string) error {
	cfg, state, err := load(configPath, statePath)
	if err != nil {
		return err
	}

	total := max(cfg.TotalRounds(), state.NextRound())
	dates := schedule.RoundDates(cfg, total)
	rounds := make(map[int][]store.Match)
	for _, r := range state.Rounds() {
		rounds[r[0].Round] = r
	}

	for round := range total {
		label := fmt.Sprintf("Round %d", round+1)
		if round < len(dates) {
			label += dates[round].Format(" (Mon 01/02/2006)")
		}
		fmt.Println(label)

		matches := rounds[round]
		if len(matches) == 0 {
			fmt.Println("  not generated yet")
			continue
		}
		for _, m := range matches {
			result := m.Result
			if result == store.ResultNone {
				result = "pending"
			}
			fmt.Printf("  %-15s vs  %-15s %s\n", m.Home, m.Away, result)
		}
	}

	if blackouts := schedule.Blackouts(cfg); len(blackouts) > 0 {
		fmt.Println("\nBlackout dates:")
		for _, b := range blackouts {
			fmt.Printf("  %s  %s\n", b.Date.Format("01/02/2006"), b.Reason)
		}
	}
	return nil
}

func runExport(configPath, statePath, outputPath string) error {
	cfg, state, err := load(configPath, statePath)
	if err != nil {
		return err
	}

	f, err := excel.Generate(cfg, state, schedule.Assign(cfg, state))
	if err != nil {
		return fmt.Errorf("generating Excel: %w", err)
	}

	if err := f.SaveAs(outputPath); err != nil {
		return fmt.Errorf("saving file: %w", err)
	}

	fmt.Printf("✓ Schedule saved to %s\n", outputPath)
	return nil
}

func runValidate(configPath, schedulePath string) error {
	cfg, err := config.LoadFromFile(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	violations, err := validator.Validate(cfg, schedulePath)
	if err != nil {
		return fmt.Errorf("validating: %w", err)
	}

	errors := 0
	warnings := 0
	for _, v := range violations {
		where := ""
		if v.Row > 0 {
			where = fmt.Sprintf(" (row %d)", v.Row)
		}
		switch v.Type {
		case "error":
			errors++
			fmt.Printf("✗ Rule violation%s: %s\n", where, v.Message)
		case "warning":
			warnings++
			fmt.Printf("⚠ Warning%s: %s\n", where, v.Message)
		}
	}

	fmt.Printf("\nValidation complete: %d rule violations, %d warnings\n", errors, warnings)

	if errors > 0 {
		return fmt.Errorf("%d rule violations found", errors)
	}
	return nil
}
