package swiss

import (
	"github.com/elliotchance/pie/v2"
)

// State is the per-selection view of the field handed to a Pairer. It is
// built once per Select call and discarded afterwards.
type State[T comparable] struct {
	// Teams in pairing order, best first.
	Teams []T
	// Scores per competitor, after any pairer adjustments.
	Scores map[T]float64

	// Filled by the selector after BuildState.
	Index                  map[T]int
	ScoreRange             float64
	AverageScoreDifference float64

	groups map[float64]int
}

// GroupSize returns how many competitors share t's score.
func (s *State[T]) GroupSize(t T) int {
	return s.groups[s.Scores[t]]
}

func (s *State[T]) finalize() {
	s.Index = make(map[T]int, len(s.Teams))
	s.groups = make(map[float64]int)
	for i, t := range s.Teams {
		s.Index[t] = i
		s.groups[s.Scores[t]]++
	}

	if len(s.Teams) == 0 {
		return
	}
	values := pie.Map(s.Teams, func(t T) float64 { return s.Scores[t] })
	s.ScoreRange = pie.Max(values) - pie.Min(values)
	s.AverageScoreDifference = s.ScoreRange / float64(len(s.Teams))
}
