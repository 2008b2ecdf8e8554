package game

import (
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

func newTwoPlayerGame(t *testing.T) *GameState {
	t.Helper()
	return NewGameState([]Color{Red, Blue}, 1, 10, 7)
}

// playInitialPlacement walks the snake order with first-legal picks
// until rolling starts.
func playInitialPlacement(t *testing.T, g *GameState) *GameState {
	t.Helper()
	for g.Phase == InitialPlacementRound1 || g.Phase == InitialPlacementRound2 {
		legal := g.LegalActions()
		require.NotEmpty(t, legal)
		next, _, err := g.Apply(legal[0])
		require.NoError(t, err)
		g = next
	}
	return g
}

// give moves n cards of r from the bank into color's hand, keeping the
// card-conservation invariant intact.
func give(t *testing.T, g *GameState, c Color, r Resource, n int) {
	t.Helper()
	for i := range g.Players {
		if g.Players[i].Color == c {
			g.Players[i].Resources[r] += n
			g.Bank[r] -= n
			return
		}
	}
	t.Fatalf("no player %s", c)
}

func TestInitialPlacement(t *testing.T) {
	t.Run("walking the snake order into the first roll", func(t *testing.T) {
		g := newTwoPlayerGame(t)
		require.Equal(t, InitialPlacementRound1, g.Phase)
		require.Equal(t, 0, g.Turn, "The first seat opens")

		g = playInitialPlacement(t, g)

		require.Equal(t, MustRoll, g.Phase)
		require.Equal(t, 0, g.Turn, "The snake returns to the first seat")
		require.Len(t, g.Board.Buildings, 4, "Two settlements per player")
		require.Len(t, g.Board.Roads, 4, "One road per settlement")
		for i := range g.Players {
			p := &g.Players[i]
			require.Equal(t, SettlementsPerPlayer-2, p.SettlementsLeft)
			require.Equal(t, RoadsPerPlayer-2, p.RoadsLeft)
		}
		require.Equal(t, 2, g.PublicVictoryPoints(Red), "Two settlements score two points")
	})

	t.Run("granting starting resources for the second settlement only", func(t *testing.T) {
		g := newTwoPlayerGame(t)

		// Round 1: no payouts.
		legal := g.LegalActions()
		g1, _, err := g.Apply(legal[0])
		require.NoError(t, err)
		require.Zero(t, g1.Players[0].TotalResources(), "Round-1 settlements pay nothing")

		g = playInitialPlacement(t, g)
		for i := range g.Players {
			p := &g.Players[i]
			require.LessOrEqual(t, p.TotalResources(), 3, "At most one card per adjacent tile")
		}
	})

	t.Run("forcing the free road to touch the new settlement", func(t *testing.T) {
		g := newTwoPlayerGame(t)
		settlement := g.LegalActions()[0]
		g, _, err := g.Apply(settlement)
		require.NoError(t, err)

		for _, a := range g.LegalActions() {
			require.Equal(t, BuildRoad, a.Type)
			e := g.Map.Edges[a.Edge]
			require.True(t, e.A == settlement.Node || e.B == settlement.Node,
				"Initial roads anchor at the just-placed settlement")
		}
	})
}

func TestRolling(t *testing.T) {
	t.Run("producing resources on a non-seven total", func(t *testing.T) {
		g := playInitialPlacement(t, newTwoPlayerGame(t))

		before := map[Color]int{}
		for i := range g.Players {
			before[g.Players[i].Color] = g.Players[i].TotalResources()
		}
		expected := g.Board.Production(8)

		next, _, err := g.ApplyRoll(8)
		require.NoError(t, err)
		require.Equal(t, MainAction, next.Phase)
		require.Equal(t, 8, next.DiceTotal)

		for i := range next.Players {
			p := &next.Players[i]
			gained := p.TotalResources() - before[p.Color]
			want := 0
			for _, n := range expected[p.Color] {
				want += n
			}
			require.Equal(t, want, gained, "%s earns the tile production", p.Color)
		}
	})

	t.Run("prompting the robber without discards on a lean seven", func(t *testing.T) {
		g := playInitialPlacement(t, newTwoPlayerGame(t))
		// Starting hands are at most 3 cards, under the limit.

		next, legal, err := g.ApplyRoll(7)
		require.NoError(t, err)
		require.Equal(t, MustMoveRobber, next.Phase)
		require.Empty(t, next.PendingDiscards)
		for _, a := range legal {
			require.Equal(t, MoveRobber, a.Type)
			require.NotEqual(t, next.Board.RobberTile, a.Tile, "The robber must move")
		}
	})

	t.Run("collecting discards before the robber on a fat seven", func(t *testing.T) {
		g := playInitialPlacement(t, newTwoPlayerGame(t))
		give(t, g, Red, Wood, 9)
		held := g.player(Red).TotalResources()

		next, legal, err := g.ApplyRoll(7)
		require.NoError(t, err)
		require.Equal(t, MustDiscard, next.Phase)
		require.Len(t, next.PendingDiscards, 1, "Only the fat hand discards")
		require.Equal(t, Red, next.PendingDiscards[0].Color)
		require.Equal(t, held-held/2, next.PendingDiscards[0].Target, "Discard down to half")
		require.Equal(t, Red, next.ActingColor(), "The discarding color acts next")

		// Discard card by card until the robber prompt.
		for next.Phase == MustDiscard {
			legal = next.LegalActions()
			require.NotEmpty(t, legal)
			require.Equal(t, Discard, legal[0].Type)
			next, _, err = next.Apply(legal[0])
			require.NoError(t, err)
		}
		require.Equal(t, MustMoveRobber, next.Phase)
		require.Equal(t, held-held/2, next.player(Red).TotalResources())
	})

	t.Run("stealing one card when moving the robber onto a victim", func(t *testing.T) {
		g := playInitialPlacement(t, newTwoPlayerGame(t))
		give(t, g, Blue, Ore, 2)

		next, legal, err := g.ApplyRoll(7)
		require.NoError(t, err)

		var chosen Action
		for _, a := range legal {
			if a.Victim == Blue {
				chosen = a
				break
			}
		}
		require.Equal(t, MoveRobber, chosen.Type, "Some tile borders a Blue building")

		blueBefore := next.player(Blue).TotalResources()
		redBefore := next.player(Red).TotalResources()
		after, _, err := next.Apply(chosen)
		require.NoError(t, err)
		require.Equal(t, chosen.Tile, after.Board.RobberTile)
		require.Equal(t, blueBefore-1, after.player(Blue).TotalResources(), "The victim loses one card")
		require.Equal(t, redBefore+1, after.player(Red).TotalResources(), "The mover gains it")
		require.Equal(t, MainAction, after.Phase)
	})
}

func TestBuildActions(t *testing.T) {
	mainPhase := func(t *testing.T) *GameState {
		g := playInitialPlacement(t, newTwoPlayerGame(t))
		next, _, err := g.ApplyRoll(2) // 2 rarely produces, keeps hands predictable
		require.NoError(t, err)
		return next
	}

	t.Run("upgrading a settlement to a city", func(t *testing.T) {
		g := mainPhase(t)
		give(t, g, Red, Wheat, 2)
		give(t, g, Red, Ore, 3)

		var upgrade Action
		for _, a := range g.LegalActions() {
			if a.Type == BuildCity {
				upgrade = a
				break
			}
		}
		require.Equal(t, BuildCity, upgrade.Type)

		next, _, err := g.Apply(upgrade)
		require.NoError(t, err)
		require.Equal(t, CityBuilding, next.Board.Buildings[upgrade.Node].Kind)
		p := next.player(Red)
		require.Equal(t, CitiesPerPlayer-1, p.CitiesLeft)
		require.Equal(t, g.player(Red).SettlementsLeft+1, p.SettlementsLeft,
			"The settlement piece returns to the supply")
		require.Equal(t, g.player(Red).Resources[Ore]-3, p.Resources[Ore], "The city is paid for")
	})

	t.Run("buying a development card into the new pile", func(t *testing.T) {
		g := mainPhase(t)
		give(t, g, Red, Sheep, 1)
		give(t, g, Red, Wheat, 1)
		give(t, g, Red, Ore, 1)

		deckBefore := len(g.DevDeck)
		next, _, err := g.Apply(Action{Color: Red, Type: BuyDevCard})
		require.NoError(t, err)
		require.Equal(t, deckBefore-1, len(next.DevDeck))

		p := next.player(Red)
		newCards := 0
		for _, n := range p.NewDevCards {
			newCards += n
		}
		require.Equal(t, 1, newCards, "The card waits in the new pile")
		require.NotContains(t, actionTypes(next.LegalActions()), PlayYearOfPlenty,
			"Fresh cards are unplayable this turn")
	})

	t.Run("paying for a road and extending the network", func(t *testing.T) {
		g := mainPhase(t)
		give(t, g, Red, Wood, 1)
		give(t, g, Red, Brick, 1)

		var road Action
		for _, a := range g.LegalActions() {
			if a.Type == BuildRoad {
				road = a
				break
			}
		}
		require.Equal(t, BuildRoad, road.Type)

		next, _, err := g.Apply(road)
		require.NoError(t, err)
		require.Equal(t, Red, next.Board.Roads[road.Edge])
		require.Equal(t, g.player(Red).Resources[Wood]-1, next.player(Red).Resources[Wood],
			"The road is paid for")
	})
}

func TestDevCardPlays(t *testing.T) {
	mainPhaseWithCard := func(t *testing.T, card DevCard) *GameState {
		g := playInitialPlacement(t, newTwoPlayerGame(t))
		next, _, err := g.ApplyRoll(2)
		require.NoError(t, err)
		next.player(Red).DevCards[card]++
		return next
	}

	t.Run("monopoly drains every opponent", func(t *testing.T) {
		g := mainPhaseWithCard(t, Monopoly)
		give(t, g, Blue, Sheep, 4)
		redBefore := g.player(Red).Resources[Sheep]

		next, _, err := g.Apply(Action{Color: Red, Type: PlayMonopoly, Give: Sheep})
		require.NoError(t, err)
		require.Equal(t, redBefore+4, next.player(Red).Resources[Sheep])
		require.Zero(t, next.player(Blue).Resources[Sheep])
		require.True(t, next.player(Red).PlayedDevThisTurn)
	})

	t.Run("year of plenty draws two from the bank", func(t *testing.T) {
		g := mainPhaseWithCard(t, YearOfPlenty)
		bankWood := g.Bank[Wood]

		next, _, err := g.Apply(Action{Color: Red, Type: PlayYearOfPlenty, Give: Wood, Get: Wood})
		require.NoError(t, err)
		require.Equal(t, bankWood-2, next.Bank[Wood])

		require.NotContains(t, actionTypes(next.LegalActions()), PlayMonopoly,
			"Only one development card per turn")
	})

	t.Run("road building grants two free placements", func(t *testing.T) {
		g := mainPhaseWithCard(t, RoadBuilding)

		next, legal, err := g.Apply(Action{Color: Red, Type: PlayRoadBuilding})
		require.NoError(t, err)
		require.Equal(t, 2, next.FreeRoads)
		for _, a := range legal {
			require.Equal(t, BuildRoad, a.Type, "Free placements preempt everything else")
		}

		roadsBefore := next.player(Red).RoadsLeft
		next, _, err = next.Apply(legal[0])
		require.NoError(t, err)
		require.Equal(t, 1, next.FreeRoads)
		require.Equal(t, roadsBefore-1, next.player(Red).RoadsLeft)
		require.Equal(t, next.player(Red).Resources, g.player(Red).Resources,
			"Free roads cost nothing")
	})

	t.Run("a knight before the roll resumes rolling after the robber", func(t *testing.T) {
		g := playInitialPlacement(t, newTwoPlayerGame(t))
		g.player(Red).DevCards[Knight]++
		require.Contains(t, actionTypes(g.LegalActions()), PlayKnight)

		next, legal, err := g.Apply(Action{Color: Red, Type: PlayKnight})
		require.NoError(t, err)
		require.Equal(t, MustMoveRobber, next.Phase)
		require.Equal(t, 1, next.player(Red).PlayedKnights)

		next, _, err = next.Apply(legal[0])
		require.NoError(t, err)
		require.Equal(t, MustRoll, next.Phase, "The interrupted roll resumes")
	})

	t.Run("the third knight takes the largest army", func(t *testing.T) {
		g := mainPhaseWithCard(t, Knight)
		g.player(Red).PlayedKnights = 2

		next, legal, err := g.Apply(Action{Color: Red, Type: PlayKnight})
		require.NoError(t, err)
		next, _, err = next.Apply(legal[0])
		require.NoError(t, err)
		require.True(t, next.player(Red).HasLargestArmy)
		require.Equal(t, 2+2, next.PublicVictoryPoints(Red), "The bonus is worth two points")
	})
}

func TestTrading(t *testing.T) {
	mainPhase := func(t *testing.T) *GameState {
		g := playInitialPlacement(t, newTwoPlayerGame(t))
		next, _, err := g.ApplyRoll(2)
		require.NoError(t, err)
		return next
	}

	t.Run("maritime trading at the bank ratio", func(t *testing.T) {
		g := mainPhase(t)
		give(t, g, Red, Wood, 4)

		ratio := g.Board.BestRatio(Red, Wood)
		woodBefore := g.player(Red).Resources[Wood]
		next, _, err := g.Apply(Action{Color: Red, Type: MaritimeTrade, Give: Wood, Get: Ore, Ratio: ratio})
		require.NoError(t, err)
		require.Equal(t, woodBefore-ratio, next.player(Red).Resources[Wood])
		require.Equal(t, g.player(Red).Resources[Ore]+1, next.player(Red).Resources[Ore])
	})

	t.Run("accepting a domestic offer swaps one for one", func(t *testing.T) {
		g := mainPhase(t)
		give(t, g, Red, Wood, 1)
		give(t, g, Blue, Ore, 1)

		next, _, err := g.Apply(Action{Color: Red, Type: OfferTrade, Give: Wood, Get: Ore})
		require.NoError(t, err)
		require.Equal(t, MustRespondToTrade, next.Phase)
		require.Equal(t, Blue, next.ActingColor(), "The responder acts")

		next, _, err = next.Apply(Action{Color: Blue, Type: AcceptTrade})
		require.NoError(t, err)
		require.Equal(t, MainAction, next.Phase)
		require.Nil(t, next.Trade)
		require.Equal(t, g.player(Red).Resources[Ore]+1, next.player(Red).Resources[Ore])
		require.Equal(t, g.player(Blue).Resources[Wood]+1, next.player(Blue).Resources[Wood])
	})

	t.Run("rejection returns the turn to the offeror", func(t *testing.T) {
		g := mainPhase(t)
		give(t, g, Red, Wood, 1)
		woodBefore := g.player(Red).Resources[Wood]

		next, _, err := g.Apply(Action{Color: Red, Type: OfferTrade, Give: Wood, Get: Ore})
		require.NoError(t, err)
		next, _, err = next.Apply(Action{Color: Blue, Type: RejectTrade})
		require.NoError(t, err)
		require.Equal(t, MainAction, next.Phase)
		require.Nil(t, next.Trade)
		require.Equal(t, Red, next.ActingColor())
		require.Equal(t, woodBefore, next.player(Red).Resources[Wood], "Nothing changed hands")
	})

	t.Run("a responder without the wanted card can only reject", func(t *testing.T) {
		g := mainPhase(t)
		give(t, g, Red, Wood, 1)
		g.player(Blue).Resources[Ore] = 0
		g.Bank[Ore] = BankPerResource - g.player(Red).Resources[Ore]

		next, legal, err := g.Apply(Action{Color: Red, Type: OfferTrade, Give: Wood, Get: Ore})
		require.NoError(t, err)
		require.Equal(t, []Action{{Color: Blue, Type: RejectTrade}}, legal)
		_ = next
	})
}

func TestEndTurn(t *testing.T) {
	t.Run("rotating the turn and maturing new dev cards", func(t *testing.T) {
		g := playInitialPlacement(t, newTwoPlayerGame(t))
		g, _, err := g.ApplyRoll(2)
		require.NoError(t, err)
		g.player(Red).NewDevCards[Knight] = 1
		g.player(Red).PlayedDevThisTurn = true

		next, _, err := g.Apply(Action{Color: Red, Type: EndTurn})
		require.NoError(t, err)
		require.Equal(t, MustRoll, next.Phase)
		require.Equal(t, Blue, next.ActingColor())
		require.Zero(t, next.DiceTotal)

		p := next.player(Red)
		require.Equal(t, 1, p.DevCards[Knight], "New cards mature at end of turn")
		require.Zero(t, p.NewDevCards[Knight])
		require.False(t, p.PlayedDevThisTurn)
	})
}

func TestApply(t *testing.T) {
	t.Run("rejecting actions outside the legal set", func(t *testing.T) {
		g := newTwoPlayerGame(t)

		_, _, err := g.Apply(Action{Color: Blue, Type: EndTurn})
		var illegal *IllegalActionError
		require.ErrorAs(t, err, &illegal)
		require.Equal(t, InitialPlacementRound1, illegal.Phase)
	})

	t.Run("never mutating the receiver", func(t *testing.T) {
		g := newTwoPlayerGame(t)
		hash := g.Hash()

		next, _, err := g.Apply(g.LegalActions()[0])
		require.NoError(t, err)
		require.Equal(t, hash, g.Hash(), "The prior state is untouched")
		require.NotEqual(t, hash, next.Hash())
	})

	t.Run("every legal action applies cleanly through a random playthrough", func(t *testing.T) {
		g := newTwoPlayerGame(t)
		rng := rand.New(rand.NewSource(99))
		for step := 0; step < 400; step++ {
			if _, over := g.IsTerminal(); over {
				break
			}
			legal := g.LegalActions()
			require.NotEmpty(t, legal, "A live game always offers an action (step %d, phase %s)", step, g.Phase)
			next, _, err := g.Apply(legal[rng.Intn(len(legal))])
			require.NoError(t, err)
			g = next
		}
	})
}

func TestVictory(t *testing.T) {
	t.Run("winning on the spot when the threshold is reached", func(t *testing.T) {
		g := NewGameState([]Color{Red, Blue}, 1, 3, 7)
		g = playInitialPlacement(t, g)
		g, _, err := g.ApplyRoll(2)
		require.NoError(t, err)
		give(t, g, Red, Wheat, 2)
		give(t, g, Red, Ore, 3)

		var upgrade Action
		for _, a := range g.LegalActions() {
			if a.Type == BuildCity {
				upgrade = a
				break
			}
		}
		next, legal, err := g.Apply(upgrade)
		require.NoError(t, err)
		require.Equal(t, GameOver, next.Phase)
		require.Equal(t, Red, next.Winner())
		winner, over := next.IsTerminal()
		require.True(t, over)
		require.Equal(t, Red, winner)
		require.Empty(t, legal, "A finished game offers no actions")
	})

	t.Run("counting hidden victory point cards", func(t *testing.T) {
		g := playInitialPlacement(t, newTwoPlayerGame(t))
		g.player(Red).DevCards[VictoryPoint] = 2
		require.Equal(t, 2, g.PublicVictoryPoints(Red), "Hidden points stay hidden")
		require.Equal(t, 4, g.VictoryPoints(Red), "but count toward the real score")
	})
}

func actionTypes(actions []Action) []ActionType {
	types := make([]ActionType, len(actions))
	for i, a := range actions {
		types[i] = a.Type
	}
	return types
}
