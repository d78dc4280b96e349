package swiss

import (
	"fmt"
	"math"
	"sort"

	"github.com/derekprior/tourney/internal/pairing"
)

const (
	defaultAcceleratedRounds  = 2
	defaultAccelerationPoints = 1.0
)

// Options tune a single round selection.
type Options struct {
	// Round is the round being paired, starting at 0.
	Round int
	// AcceleratedRounds is how many opening rounds get virtual points
	// (accelerated_dutch only). Zero means the default of 2.
	AcceleratedRounds int
	// AccelerationPoints is the bonus given to the top half while
	// accelerating. Zero means the default of 1.
	AccelerationPoints float64
	// Workers bounds the permutation search fan-out. Zero means GOMAXPROCS.
	Workers int
}

// Pairer scores candidate pairings. Lower cost is preferred.
type Pairer[T comparable] interface {
	BuildState(teams []T, scores map[T]float64, opts Options) *State[T]
	Cost(state *State[T], a, b T) float64
}

// GetPairer returns a Pairer by name.
func GetPairer[T comparable](name string) (Pairer[T], error) {
	switch name {
	case "dutch", "":
		return &Dutch[T]{}, nil
	case "accelerated_dutch":
		return &AcceleratedDutch[T]{}, nil
	default:
		return nil, fmt.Errorf("%w: unknown pairer %q", pairing.ErrInvalidInput, name)
	}
}

// Dutch pairs competitors with equal scores, folding the top half of each
// score group onto the bottom half.
type Dutch[T comparable] struct{}

func (d *Dutch[T]) BuildState(teams []T, scores map[T]float64, _ Options) *State[T] {
	return newScoreState(teams, scores)
}

func (d *Dutch[T]) Cost(s *State[T], a, b T) float64 {
	n := float64(len(s.Teams))
	diff := s.Scores[a] - s.Scores[b]

	half := float64(s.GroupSize(a)) / 2
	dist := math.Abs(float64(s.Index[a] - s.Index[b]))

	return n*diff*diff + math.Abs(dist-half)/n
}

// AcceleratedDutch is Dutch with virtual points for the top half of the
// field during the opening rounds, so strong competitors meet each other
// sooner.
type AcceleratedDutch[T comparable] struct {
	Dutch[T]
}

func (d *AcceleratedDutch[T]) BuildState(teams []T, scores map[T]float64, opts Options) *State[T] {
	rounds := opts.AcceleratedRounds
	if rounds == 0 {
		rounds = defaultAcceleratedRounds
	}
	if opts.Round >= rounds {
		return newScoreState(teams, scores)
	}

	points := opts.AccelerationPoints
	if points == 0 {
		points = defaultAccelerationPoints
	}

	boosted := make(map[T]float64, len(teams))
	for i, t := range teams {
		boosted[t] = scores[t]
		if i < len(teams)/2 {
			boosted[t] += points
		}
	}
	return newScoreState(teams, boosted)
}

// newScoreState orders teams by score, best first, keeping the given order
// between equal scores.
func newScoreState[T comparable](teams []T, scores map[T]float64) *State[T] {
	s := &State[T]{
		Teams:  append([]T(nil), teams...),
		Scores: make(map[T]float64, len(teams)),
	}
	for _, t := range teams {
		s.Scores[t] = scores[t]
	}
	sort.SliceStable(s.Teams, func(i, j int) bool {
		return s.Scores[s.Teams[i]] > s.Scores[s.Teams[j]]
	})
	return s
}
