package player

import (
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"

	"catan/game"
	"catan/searcher"
)

// DecisionMaker picks one of the legal actions for the acting color.
// Implementations must return a member of legal; the engine plays the
// first legal action if they do not.
type DecisionMaker interface {
	Name() string
	Decide(state *game.GameState, legal []game.Action) game.Action
}

// SearchPlayer decides with a deadline-bounded search. The budget is
// the per-decision wall-clock allowance.
type SearchPlayer struct {
	name     string
	searcher *searcher.AlphaBeta
	budget   time.Duration
}

func NewSearchPlayer(name string, ab *searcher.AlphaBeta, budget time.Duration) *SearchPlayer {
	return &SearchPlayer{name: name, searcher: ab, budget: budget}
}

func (p *SearchPlayer) Name() string { return p.name }

func (p *SearchPlayer) Decide(state *game.GameState, legal []game.Action) game.Action {
	if len(legal) == 1 {
		return legal[0]
	}
	deadline := time.Now().Add(p.budget)
	action, value := p.searcher.ChooseAction(state, state.ActingColor(), deadline)
	if !game.ContainsAction(legal, action) {
		log.Warn().Str("player", p.name).Msgf("search returned non-legal action %s, falling back", action)
		return legal[0]
	}
	log.Debug().Str("player", p.name).Float64("value", value).Msgf("chose %s", action)
	return action
}

// RandomPlayer picks uniformly among the legal actions. The generator
// is seeded from the state hash so replays of the same game reproduce.
type RandomPlayer struct {
	name string
}

func NewRandomPlayer(name string) *RandomPlayer {
	return &RandomPlayer{name: name}
}

func (p *RandomPlayer) Name() string { return p.name }

func (p *RandomPlayer) Decide(state *game.GameState, legal []game.Action) game.Action {
	rng := rand.New(rand.NewSource(state.Hash()))
	return legal[rng.Intn(len(legal))]
}

// FirstActionPlayer always plays the first legal action. Useful as a
// fast baseline and as the degenerate fallback behavior.
type FirstActionPlayer struct {
	name string
}

func NewFirstActionPlayer(name string) *FirstActionPlayer {
	return &FirstActionPlayer{name: name}
}

func (p *FirstActionPlayer) Name() string { return p.name }

func (p *FirstActionPlayer) Decide(state *game.GameState, legal []game.Action) game.Action {
	return legal[0]
}
