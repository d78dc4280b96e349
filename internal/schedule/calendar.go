package schedule

import (
	"sort"
	"time"

	"github.com/derekprior/tourney/internal/config"
	"github.com/derekprior/tourney/internal/store"
)

// Blackout is a date on which no round is played.
type Blackout struct {
	Date   time.Time
	Reason string
}

// Assignment pairs a match with the date of its round.
type Assignment struct {
	Match store.Match
	Date  time.Time
}

// RoundDates returns the date of each of the first n rounds. Rounds are
// spaced DaysBetweenRounds apart and a round landing on a blackout date
// moves to the next free day. Returns nil when no start date is configured.
func RoundDates(cfg *config.Config, n int) []time.Time {
	if cfg.Calendar.StartDate.Time.IsZero() || n <= 0 {
		return nil
	}

	blackoutDates := make(map[time.Time]bool)
	for _, b := range cfg.Calendar.BlackoutDates {
		blackoutDates[b.Date.Time] = true
	}

	step := cfg.Calendar.DaysBetweenRounds
	if step <= 0 {
		step = 1
	}

	dates := make([]time.Time, 0, n)
	d := cfg.Calendar.StartDate.Time
	for range n {
		for blackoutDates[d] {
			d = d.AddDate(0, 0, 1)
		}
		dates = append(dates, d)
		d = d.AddDate(0, 0, step)
	}
	return dates
}

// Blackouts returns the configured blackout dates in date order.
func Blackouts(cfg *config.Config) []Blackout {
	blackouts := make([]Blackout, 0, len(cfg.Calendar.BlackoutDates))
	for _, b := range cfg.Calendar.BlackoutDates {
		blackouts = append(blackouts, Blackout{Date: b.Date.Time, Reason: b.Reason})
	}
	sort.Slice(blackouts, func(i, j int) bool {
		return blackouts[i].Date.Before(blackouts[j].Date)
	})
	return blackouts
}

// Assign dates every match in state by its round. Matches in rounds beyond
// the calendar get a zero date.
func Assign(cfg *config.Config, state *store.State) []Assignment {
	n := max(cfg.TotalRounds(), state.NextRound())
	dates := RoundDates(cfg, n)

	assignments := make([]Assignment, 0, len(state.Games))
	for _, m := range state.Games {
		a := Assignment{Match: m}
		if m.Round >= 0 && m.Round < len(dates) {
			a.Date = dates[m.Round]
		}
		assignments = append(assignments, a)
	}
	return assignments
}
