package engine

import (
	"errors"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"catan/game"
	"catan/player"
)

// MaxMoves caps runaway games. Decision makers that trade cards back
// and forth forever end without a winner instead of spinning.
const MaxMoves = 10000

// Game drives one match: it asks the acting color's decision maker for
// an action and applies it to the authoritative state until somebody
// wins or the move cap is reached.
type Game struct {
	ID    string
	State *game.GameState

	players map[game.Color]player.DecisionMaker
	moves   int
}

func New(state *game.GameState, players map[game.Color]player.DecisionMaker) *Game {
	if len(state.Players) < 2 {
		panic("need at least two players")
	}
	for _, p := range state.Players {
		if players[p.Color] == nil {
			panic("no decision maker for " + p.Color.String())
		}
	}
	return &Game{
		ID:      uuid.NewString(),
		State:   state,
		players: players,
	}
}

// Moves returns the number of actions applied so far.
func (g *Game) Moves() int { return g.moves }

// Done reports whether the game is over or the move cap was reached.
func (g *Game) Done() bool {
	_, over := g.State.IsTerminal()
	return over || g.moves >= MaxMoves
}

// Play applies one externally chosen action, bypassing the decision
// makers. API-submitted human actions come through here.
func (g *Game) Play(action game.Action) error {
	if g.Done() {
		return errors.New("game is over")
	}
	next, _, err := g.State.Apply(action)
	if err != nil {
		return err
	}
	g.State = next
	g.moves++
	log.Debug().Str("game", g.ID).Int("move", g.moves).Msgf("%s", action)
	return nil
}

// Step plays exactly one action. A decision maker that answers with an
// illegal action forfeits the decision and the first legal action is
// played instead.
func (g *Game) Step() (game.Action, error) {
	if g.Done() {
		return game.Action{}, errors.New("game is over")
	}

	acting := g.State.ActingColor()
	legal := g.State.LegalActions()
	action := g.players[acting].Decide(g.State, legal)

	if err := g.Play(action); err != nil {
		var illegal *game.IllegalActionError
		if !errors.As(err, &illegal) {
			return game.Action{}, err
		}
		log.Warn().Str("game", g.ID).Str("color", acting.String()).
			Msgf("decision maker answered illegal action %s, playing first legal", action)
		action = legal[0]
		if err := g.Play(action); err != nil {
			return game.Action{}, err
		}
	}
	return action, nil
}

// Run plays the game to completion and returns the winner, NoColor when
// the move cap cut the game short.
func (g *Game) Run() (game.Color, error) {
	log.Info().Str("game", g.ID).Int("players", len(g.State.Players)).Msg("game starting")
	for !g.Done() {
		if _, err := g.Step(); err != nil {
			return game.NoColor, err
		}
	}
	winner := g.State.Winner()
	if winner == game.NoColor {
		log.Info().Str("game", g.ID).Int("moves", g.moves).Msg("stopped at move cap with no winner")
	} else {
		log.Info().Str("game", g.ID).Int("moves", g.moves).Msgf("%s wins", winner)
	}
	return winner, nil
}
