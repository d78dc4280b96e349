package tournament

import (
	"context"
	"fmt"

	"github.com/derekprior/tourney/internal/pairing"
	"github.com/derekprior/tourney/internal/swiss"
)

// Driver is the host's view of a tournament: who is playing, what has been
// played, and how to record new matches. Match handles are indices into
// Matches.
type Driver[T comparable] interface {
	// RankedTeams returns competitors best to worst.
	RankedTeams() []T
	// SeededTeams returns competitors in seeding order.
	SeededTeams() []T
	// Matches returns every created match in creation order.
	Matches() []pairing.Pair[T]
	// Scores returns the aggregated score of each competitor.
	Scores() map[T]float64
	CreateMatches(pairs []pairing.Pair[T]) ([]int, error)
	MatchWinner(match int) (T, error)
	MatchLoser(match int) (T, error)
}

// Options control a single Generate call.
type Options struct {
	// Round overrides the round guessed from the driver.
	Round *int
	// Pairer names the Swiss pairing strategy.
	Pairer string
	// Swiss carries pairer tuning and search limits.
	Swiss swiss.Options
	// BronzeMatch adds a third-place match to the page playoff final.
	BronzeMatch bool
}

// System generates rounds for one tournament format.
type System[T comparable] interface {
	Generate(ctx context.Context, d Driver[T], opts Options) ([]int, error)
	TotalRounds(d Driver[T]) (int, error)
	GuessRound(d Driver[T]) (int, error)
}

// Format names accepted by Get.
const (
	FormatRoundRobin  = "round_robin"
	FormatSwiss       = "swiss"
	FormatPagePlayoff = "page_playoff"
)

// Formats lists every supported format name.
var Formats = []string{FormatRoundRobin, FormatSwiss, FormatPagePlayoff}

// Get returns a System by format name.
func Get[T comparable](name string) (System[T], error) {
	switch name {
	case FormatRoundRobin:
		return &RoundRobin[T]{}, nil
	case FormatSwiss:
		return &Swiss[T]{}, nil
	case FormatPagePlayoff:
		return &PagePlayoff[T]{}, nil
	default:
		return nil, fmt.Errorf("%w: unknown format %q", pairing.ErrInvalidInput, name)
	}
}

func roundFor[T comparable](sys System[T], d Driver[T], opts Options) (int, error) {
	if opts.Round != nil {
		return *opts.Round, nil
	}
	return sys.GuessRound(d)
}
