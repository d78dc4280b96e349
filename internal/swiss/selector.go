package swiss

import (
	"cmp"
	"context"
	"encoding/binary"
	"fmt"
	"runtime"
	"slices"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat/combin"

	"github.com/derekprior/tourney/internal/pairing"
	"github.com/derekprior/tourney/internal/roundrobin"
)

// MaxCompetitors bounds the field size; rounds are stored as 128-bit sets of
// pair IDs.
const MaxCompetitors = 16

// cancelCheckInterval is how many permutations run between context checks.
const cancelCheckInterval = 4096

// Request is the driver state a selection works from.
type Request[T comparable] struct {
	// Teams in seeding order. Their permutations drive the search.
	Teams []T
	// Ranking best to worst, handed to the Pairer. Defaults to Teams.
	Ranking []T
	// History holds every match already created.
	History []pairing.Pair[T]
	// Scores per competitor. Missing competitors score 0.
	Scores map[T]float64
}

// Select returns the cheapest round, under pairer, that no competitor pair
// has played yet and that keeps a full round-robin completable.
func Select[T comparable](ctx context.Context, req Request[T], pairer Pairer[T], opts Options) ([]pairing.Pair[T], error) {
	candidates, err := AvailableRounds(ctx, req, opts)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, fmt.Errorf("%w: every round-robin round has been played", pairing.ErrUnsupportedRound)
	}

	ranking := req.Ranking
	if len(ranking) == 0 {
		ranking = req.Teams
	}
	state := pairer.BuildState(ranking, req.Scores, opts)
	state.finalize()

	type rated struct {
		round []pairing.Pair[T]
		cost  float64
	}
	ratings := make([]rated, len(candidates))
	for i, round := range candidates {
		ratings[i].round = round
		for _, p := range round {
			ratings[i].cost += pairer.Cost(state, p.A, p.B)
		}
	}
	slices.SortStableFunc(ratings, func(a, b rated) int {
		return cmp.Compare(a.cost, b.cost)
	})

	logrus.WithFields(logrus.Fields{
		"competitors": len(req.Teams),
		"candidates":  len(candidates),
		"round":       opts.Round,
		"cost":        ratings[0].cost,
		"scoreRange":  state.ScoreRange,
	}).Debug("swiss round selected")

	return ratings[0].round, nil
}

// AvailableRounds returns every unplayed round of every round-robin schedule
// that explains History exactly, in enumeration order.
func AvailableRounds[T comparable](ctx context.Context, req Request[T], opts Options) ([][]pairing.Pair[T], error) {
	s, err := newSearch(req)
	if err != nil {
		return nil, err
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	results := make([]searchResult, s.n)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for first := range s.n {
		g.Go(func() error {
			r, err := s.explore(gctx, first)
			results[first] = r
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("searching round-robin orderings: %w", err)
	}

	schedules := 0
	seen := make(map[pairSet]bool)
	var rounds [][]pairing.Pair[T]
	for _, r := range results {
		schedules += r.schedules
		for _, c := range r.rounds {
			if seen[c.set] {
				continue
			}
			seen[c.set] = true
			rounds = append(rounds, s.pairs(c.pairs))
		}
	}

	logrus.WithFields(logrus.Fields{
		"competitors":  s.n,
		"permutations": combin.NumPermutations(s.n, s.n),
		"schedules":    schedules,
		"history":      len(req.History),
		"candidates":   len(rounds),
	}).Debug("round-robin orderings searched")

	if schedules == 0 {
		return nil, fmt.Errorf("%w: history of %d matches fits no round-robin ordering",
			pairing.ErrInfeasibleInput, len(req.History))
	}
	return rounds, nil
}

type search[T comparable] struct {
	teams    []T
	n        int
	total    int
	template [][][2]int // circle positions per round
	history  pairSet
}

type candidate struct {
	set   pairSet
	pairs [][2]int
}

type searchResult struct {
	schedules int
	rounds    []candidate
}

func newSearch[T comparable](req Request[T]) (*search[T], error) {
	n := len(req.Teams)
	total, err := roundrobin.TotalRounds(n)
	if err != nil {
		return nil, err
	}
	if n > MaxCompetitors {
		return nil, fmt.Errorf("%w: %d competitors exceeds the maximum of %d",
			pairing.ErrInvalidInput, n, MaxCompetitors)
	}

	index := make(map[T]int, n)
	for i, t := range req.Teams {
		if _, dup := index[t]; dup {
			return nil, fmt.Errorf("%w: competitor %v listed twice", pairing.ErrInvalidInput, t)
		}
		index[t] = i
	}

	s := &search[T]{teams: req.Teams, n: n, total: total}
	for _, p := range req.History {
		if err := p.Validate(); err != nil {
			return nil, err
		}
		a, okA := index[p.A]
		b, okB := index[p.B]
		if !okA || !okB {
			return nil, fmt.Errorf("%w: match %v involves an unknown competitor", pairing.ErrInfeasibleInput, p)
		}
		id := pairID(n, a, b)
		if s.history.has(id) {
			return nil, fmt.Errorf("%w: match %v was played twice", pairing.ErrInfeasibleInput, p)
		}
		s.history = s.history.with(id)
	}

	s.template = make([][][2]int, total)
	for round := range total {
		if s.template[round], err = roundrobin.PairIndices(n, round); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// explore walks every ordering that starts with first.
func (s *search[T]) explore(ctx context.Context, first int) (searchResult, error) {
	var res searchResult

	rest := make([]int, 0, s.n-1)
	for i := range s.n {
		if i != first {
			rest = append(rest, i)
		}
	}

	order := make([]int, s.n)
	order[0] = first
	perm := make([]int, len(rest))
	sets := make([]pairSet, s.total)
	key := make([]byte, 0, s.total*16)
	seenSchedule := make(map[string]bool)
	seenRound := make(map[pairSet]bool)

	gen := combin.NewPermutationGenerator(len(rest), len(rest))
	for count := 0; gen.Next(); count++ {
		if count%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return res, err
			}
		}

		perm = gen.Permutation(perm)
		for i, p := range perm {
			order[i+1] = rest[p]
		}

		for r, round := range s.template {
			var set pairSet
			for _, p := range round {
				set = set.with(pairID(s.n, order[p[0]], order[p[1]]))
			}
			sets[r] = set
		}

		key = scheduleKey(key[:0], sets)
		if seenSchedule[string(key)] {
			continue
		}
		seenSchedule[string(key)] = true

		if !s.explains(sets) {
			continue
		}
		res.schedules++

		for r, set := range sets {
			if set.intersects(s.history) || seenRound[set] {
				continue
			}
			seenRound[set] = true
			pairs := make([][2]int, len(s.template[r]))
			for i, p := range s.template[r] {
				pairs[i] = [2]int{order[p[0]], order[p[1]]}
			}
			res.rounds = append(res.rounds, candidate{set: set, pairs: pairs})
		}
	}
	return res, nil
}

// explains reports whether the rounds touching history cover exactly the
// history and nothing else.
func (s *search[T]) explains(rounds []pairSet) bool {
	var played pairSet
	for _, set := range rounds {
		if set.intersects(s.history) {
			played = played.union(set)
		}
	}
	return played == s.history
}

func (s *search[T]) pairs(idx [][2]int) []pairing.Pair[T] {
	out := make([]pairing.Pair[T], len(idx))
	for i, p := range idx {
		out[i] = pairing.Pair[T]{A: s.teams[p[0]], B: s.teams[p[1]]}
	}
	return out
}

// scheduleKey encodes the rounds of a schedule independent of their order.
func scheduleKey(dst []byte, sets []pairSet) []byte {
	sorted := slices.Clone(sets)
	slices.SortFunc(sorted, func(a, b pairSet) int {
		if c := cmp.Compare(a[0], b[0]); c != 0 {
			return c
		}
		return cmp.Compare(a[1], b[1])
	})
	for _, set := range sorted {
		dst = binary.LittleEndian.AppendUint64(dst, set[0])
		dst = binary.LittleEndian.AppendUint64(dst, set[1])
	}
	return dst
}
