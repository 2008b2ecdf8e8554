package searcher

import (
	"math"
	"time"

	"catan/game"
)

// Terminal rewards. Heuristic leaf scores stay strictly inside.
const (
	Win  = 1.0
	Loss = -Win
)

const defaultMaxDepth = 4

type Option func(*AlphaBeta)

func WithMaxDepth(depth int) Option {
	return func(ab *AlphaBeta) {
		if depth > 0 {
			ab.maxDepth = depth
		}
	}
}

func WithGoroutines(goroutines int) Option {
	return func(ab *AlphaBeta) {
		if goroutines > 0 {
			ab.goroutines = goroutines
		}
	}
}

func WithEvaluationFn(evaluate game.Evaluate) Option {
	return func(ab *AlphaBeta) {
		if evaluate != nil {
			ab.evaluate = evaluate
		}
	}
}

func WithMetrics() Option {
	return func(ab *AlphaBeta) {
		ab.metrics = NewCollector()
	}
}

// AlphaBeta is a deadline-bounded expectiminimax searcher: alpha-beta
// pruning at deterministic nodes, probability-weighted expansion of dice
// rolls at chance nodes, heuristic evaluation at depth or time limits.
// All scores are relative to the color the root search runs for.
type AlphaBeta struct {
	maxDepth   int
	goroutines int
	evaluate   game.Evaluate
	metrics    Collector
}

func NewAlphaBeta(options ...Option) *AlphaBeta {
	ab := &AlphaBeta{ // Default values
		maxDepth:   defaultMaxDepth,
		goroutines: 1,
		evaluate:   game.EvaluatePosition,
		metrics:    NewDummyCollector(),
	}
	for _, option := range options {
		option(ab)
	}
	return ab
}

// ChooseAction picks the best legal action for color before the
// deadline. On expiry it returns the best among fully evaluated root
// children, degrading to the first legal action when none completed. The
// result is always a member of the current legal set.
func (ab *AlphaBeta) ChooseAction(state *game.GameState, color game.Color, deadline time.Time) (game.Action, float64) {
	action, value, _, _ := ab.ChooseActionValues(state, color, deadline)
	return action, value
}

// ChooseActionValues additionally exposes the per-root-child estimated
// values (explainability consumers only) and the search metrics.
func (ab *AlphaBeta) ChooseActionValues(state *game.GameState, color game.Color, deadline time.Time) (game.Action, float64, map[game.Action]float64, SearchMetric) {
	ab.metrics.Start()
	legal := state.LegalActions()
	ab.metrics.SetRootChildren(len(legal))
	if len(legal) == 0 {
		return game.Action{}, 0, nil, ab.metrics.Complete()
	}
	if len(legal) == 1 {
		return legal[0], ab.evaluate(state, color), nil, ab.metrics.Complete()
	}

	if ab.goroutines > 1 {
		action, value, values := ab.parallelRoot(state, color, legal, deadline)
		return action, value, values, ab.metrics.Complete()
	}

	values := make(map[game.Action]float64, len(legal))
	best := legal[0]
	bestValue := math.Inf(-1)
	alpha := math.Inf(-1)

	for _, a := range legal {
		if !time.Now().Before(deadline) {
			ab.metrics.SetDeadlineHit()
			break
		}
		value, complete := ab.searchAction(state, a, ab.maxDepth-1, alpha, math.Inf(1), color, deadline)
		if !complete {
			// Discard the partially searched child: its value mixes
			// depths and is not comparable to its siblings.
			ab.metrics.SetDeadlineHit()
			break
		}
		values[a] = value
		if value > bestValue {
			bestValue = value
			best = a
		}
		if value > alpha {
			alpha = value
		}
	}

	if math.IsInf(bestValue, -1) { // deadline before any child completed
		best = legal[0]
		bestValue = ab.evaluate(state, color)
	}
	return best, bestValue, values, ab.metrics.Complete()
}

// searchAction evaluates one action from state: dice rolls expand as
// chance nodes, everything else recurses through the executor.
func (ab *AlphaBeta) searchAction(state *game.GameState, a game.Action, depth int, alpha, beta float64, color game.Color, deadline time.Time) (float64, bool) {
	if a.Type == game.Roll {
		return ab.expectRoll(state, depth, color, deadline)
	}
	next, _, err := state.Apply(a)
	if err != nil {
		// Actions come straight from the legal-action generator.
		panic(err)
	}
	return ab.search(next, depth, alpha, beta, color, deadline)
}

// expectRoll is the chance-node rule: the probability-weighted sum over
// all 11 dice totals. Children get a full alpha-beta window; pruning a
// weighted average with the deterministic-node rule would be unsound.
func (ab *AlphaBeta) expectRoll(state *game.GameState, depth int, color game.Color, deadline time.Time) (float64, bool) {
	ab.metrics.AddChanceNode()
	sum := 0.0
	for _, total := range rollTotals {
		next, _, err := state.ApplyRoll(total)
		if err != nil {
			panic(err)
		}
		value, complete := ab.search(next, depth, math.Inf(-1), math.Inf(1), color, deadline)
		sum += rollWeights[total] * value
		if !complete {
			return sum, false
		}
	}
	return sum, true
}

// search is the minimax recursion. The acting color maximizes when it is
// the root color and minimizes otherwise. Children are explored in
// legal-action order so cutoffs and tie-breaks reproduce across runs.
func (ab *AlphaBeta) search(state *game.GameState, depth int, alpha, beta float64, color game.Color, deadline time.Time) (float64, bool) {
	if winner, over := state.IsTerminal(); over {
		ab.metrics.AddLeaf()
		if winner == color {
			return Win, true
		}
		return Loss, true
	}
	if depth <= 0 {
		ab.metrics.AddLeaf()
		return ab.evaluate(state, color), true
	}
	if !time.Now().Before(deadline) {
		ab.metrics.SetDeadlineHit()
		ab.metrics.AddLeaf()
		return ab.evaluate(state, color), false
	}

	legal := state.LegalActions()
	if len(legal) == 0 {
		ab.metrics.AddLeaf()
		return ab.evaluate(state, color), true
	}
	ab.metrics.AddNode()

	maximizing := state.ActingColor() == color
	value := math.Inf(-1)
	if !maximizing {
		value = math.Inf(1)
	}

	for _, a := range legal {
		child, complete := ab.searchAction(state, a, depth-1, alpha, beta, color, deadline)
		if maximizing {
			if child > value {
				value = child
			}
			if value > alpha {
				alpha = value
			}
		} else {
			if child < value {
				value = child
			}
			if value < beta {
				beta = value
			}
		}
		if !complete {
			return value, false
		}
		if alpha >= beta {
			ab.metrics.AddCutoff()
			break
		}
	}
	return value, true
}
