package pairing

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput is returned for too few competitors or a malformed pair.
	ErrInvalidInput = errors.New("invalid input")
	// ErrInfeasibleInput is returned when match history cannot be explained
	// by any round-robin ordering of the competitors.
	ErrInfeasibleInput = errors.New("infeasible input")
	// ErrUnsupportedRound is returned for a round index a generator does not know.
	ErrUnsupportedRound = errors.New("unsupported round")
)

// Pair is an unordered match between two distinct competitors. A is listed
// first (the home side) only for presentation.
type Pair[T comparable] struct {
	A T
	B T
}

// NewPair returns the pair a vs b, rejecting a competitor paired with itself.
func NewPair[T comparable](a, b T) (Pair[T], error) {
	p := Pair[T]{A: a, B: b}
	if err := p.Validate(); err != nil {
		return Pair[T]{}, err
	}
	return p, nil
}

// Equal reports whether p and o contain the same two competitors in any order.
func (p Pair[T]) Equal(o Pair[T]) bool {
	return (p.A == o.A && p.B == o.B) || (p.A == o.B && p.B == o.A)
}

// Has reports whether t plays in p.
func (p Pair[T]) Has(t T) bool {
	return p.A == t || p.B == t
}

func (p Pair[T]) String() string {
	return fmt.Sprintf("%v vs %v", p.A, p.B)
}

// Validate checks that p is not a self-pairing.
func (p Pair[T]) Validate() error {
	if p.A == p.B {
		return fmt.Errorf("%w: %v paired with itself", ErrInvalidInput, p.A)
	}
	return nil
}

// IsMatching reports whether no competitor appears in more than one pair.
func IsMatching[T comparable](round []Pair[T]) bool {
	seen := make(map[T]bool, len(round)*2)
	for _, p := range round {
		if p.A == p.B || seen[p.A] || seen[p.B] {
			return false
		}
		seen[p.A] = true
		seen[p.B] = true
	}
	return true
}
