package tournament

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/derekprior/tourney/internal/pairing"
)

// PagePlayoffTeams is the field size of a page playoff.
const PagePlayoffTeams = 4

// PagePlayoffRounds is semi-finals, preliminary final, grand final.
const PagePlayoffRounds = 3

// PagePlayoff is a four team playoff where the top two seeds get a second
// chance. Match handles refer to creation order: semi-finals are 0 and 1,
// the preliminary final is 2.
type PagePlayoff[T comparable] struct{}

func (pp *PagePlayoff[T]) Generate(_ context.Context, d Driver[T], opts Options) ([]int, error) {
	teams := d.RankedTeams()
	if len(teams) != PagePlayoffTeams {
		return nil, fmt.Errorf("%w: page playoff needs %d teams (found %d)", pairing.ErrInvalidInput, PagePlayoffTeams, len(teams))
	}

	round, err := roundFor[T](pp, d, opts)
	if err != nil {
		return nil, err
	}

	log := logrus.WithFields(logrus.Fields{"format": FormatPagePlayoff, "round": round})

	switch round {
	case 0:
		log.Debug("generating semi-finals")
		return d.CreateMatches([]pairing.Pair[T]{
			{A: teams[0], B: teams[1]},
			{A: teams[2], B: teams[3]},
		})
	case 1:
		log.Debug("generating preliminary final")
		topLoser, err := d.MatchLoser(0)
		if err != nil {
			return nil, fmt.Errorf("preliminary final: %w", err)
		}
		bottomWinner, err := d.MatchWinner(1)
		if err != nil {
			return nil, fmt.Errorf("preliminary final: %w", err)
		}
		return d.CreateMatches([]pairing.Pair[T]{{A: topLoser, B: bottomWinner}})
	case 2:
		log.WithField("bronze", opts.BronzeMatch).Debug("generating grand final")
		return pp.finals(d, opts.BronzeMatch)
	default:
		return nil, fmt.Errorf("%w: page playoff has no round %d", pairing.ErrUnsupportedRound, round)
	}
}

func (pp *PagePlayoff[T]) finals(d Driver[T], bronze bool) ([]int, error) {
	topWinner, err := d.MatchWinner(0)
	if err != nil {
		return nil, fmt.Errorf("grand final: %w", err)
	}
	prelimWinner, err := d.MatchWinner(2)
	if err != nil {
		return nil, fmt.Errorf("grand final: %w", err)
	}
	pairs := []pairing.Pair[T]{{A: topWinner, B: prelimWinner}}

	if bronze {
		prelimLoser, err := d.MatchLoser(2)
		if err != nil {
			return nil, fmt.Errorf("bronze match: %w", err)
		}
		bottomLoser, err := d.MatchLoser(1)
		if err != nil {
			return nil, fmt.Errorf("bronze match: %w", err)
		}
		pairs = append(pairs, pairing.Pair[T]{A: prelimLoser, B: bottomLoser})
	}
	return d.CreateMatches(pairs)
}

func (pp *PagePlayoff[T]) TotalRounds(Driver[T]) (int, error) {
	return PagePlayoffRounds, nil
}

// GuessRound maps the number of created matches onto the playoff stage.
func (pp *PagePlayoff[T]) GuessRound(d Driver[T]) (int, error) {
	switch played := len(d.Matches()); {
	case played >= 3:
		return 2, nil
	case played >= 2:
		return 1, nil
	default:
		return 0, nil
	}
}
