package tournament

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/derekprior/tourney/internal/roundrobin"
	"github.com/derekprior/tourney/internal/swiss"
)

// Swiss pairs competitors with similar scores each round, restricted to
// rounds that keep a full round-robin completable.
type Swiss[T comparable] struct{}

func (s *Swiss[T]) Generate(ctx context.Context, d Driver[T], opts Options) ([]int, error) {
	pairer, err := swiss.GetPairer[T](opts.Pairer)
	if err != nil {
		return nil, err
	}

	round, err := roundFor[T](s, d, opts)
	if err != nil {
		return nil, err
	}
	swissOpts := opts.Swiss
	swissOpts.Round = round

	req := swiss.Request[T]{
		Teams:   d.SeededTeams(),
		Ranking: d.RankedTeams(),
		History: d.Matches(),
		Scores:  d.Scores(),
	}
	pairs, err := swiss.Select(ctx, req, pairer, swissOpts)
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"format":  FormatSwiss,
		"pairer":  opts.Pairer,
		"round":   round,
		"matches": len(pairs),
	}).Debug("generating round")

	return d.CreateMatches(pairs)
}

// TotalRounds is the length of a full round-robin: the search cannot pair
// beyond it.
func (s *Swiss[T]) TotalRounds(d Driver[T]) (int, error) {
	return roundrobin.TotalRounds(len(d.SeededTeams()))
}

func (s *Swiss[T]) GuessRound(d Driver[T]) (int, error) {
	return roundrobin.GuessRound(len(d.SeededTeams()), len(d.Matches()))
}
