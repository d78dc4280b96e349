package tournament

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/derekprior/tourney/internal/pairing"
	"github.com/derekprior/tourney/internal/roundrobin"
)

// RoundRobin plays every competitor against every other once, following
// the circle schedule of the seeding order.
type RoundRobin[T comparable] struct{}

func (rr *RoundRobin[T]) Generate(_ context.Context, d Driver[T], opts Options) ([]int, error) {
	teams := d.SeededTeams()
	total, err := rr.TotalRounds(d)
	if err != nil {
		return nil, err
	}

	round, err := roundFor[T](rr, d, opts)
	if err != nil {
		return nil, err
	}
	if round < 0 || round >= total {
		return nil, fmt.Errorf("%w: round %d of a %d round round-robin", pairing.ErrUnsupportedRound, round, total)
	}

	pairs, err := roundrobin.Pairings(teams, round)
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"format":  FormatRoundRobin,
		"round":   round,
		"matches": len(pairs),
	}).Debug("generating round")

	return d.CreateMatches(pairs)
}

func (rr *RoundRobin[T]) TotalRounds(d Driver[T]) (int, error) {
	return roundrobin.TotalRounds(len(d.SeededTeams()))
}

func (rr *RoundRobin[T]) GuessRound(d Driver[T]) (int, error) {
	return roundrobin.GuessRound(len(d.SeededTeams()), len(d.Matches()))
}
