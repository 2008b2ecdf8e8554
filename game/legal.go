package game

// LegalActions returns every action the acting color may take in the
// current phase. The order is stable for a given state: legal-set
// membership, UI listings and search tie-breaks all rely on it.
func (g *GameState) LegalActions() []Action {
	switch g.Phase {
	case InitialPlacementRound1, InitialPlacementRound2:
		return g.initialPlacementActions()
	case MustRoll:
		return g.mustRollActions()
	case MainAction:
		return g.mainActions()
	case MustDiscard:
		return g.discardActions()
	case MustMoveRobber:
		return g.robberActions()
	case MustRespondToTrade:
		return g.tradeResponseActions()
	default: // GameOver
		return nil
	}
}

func (g *GameState) initialPlacementActions() []Action {
	c := g.Players[g.Turn].Color
	var actions []Action
	if g.PendingInitialRoad < 0 {
		for _, n := range g.Board.BuildableNodes(c, true) {
			actions = append(actions, Action{Color: c, Type: BuildSettlement, Node: n})
		}
		return actions
	}
	// The free road must touch the just-placed settlement.
	for _, e := range g.Map.Nodes[g.PendingInitialRoad].Edges {
		if _, taken := g.Board.Roads[e]; !taken {
			actions = append(actions, Action{Color: c, Type: BuildRoad, Edge: e})
		}
	}
	return actions
}

func (g *GameState) mustRollActions() []Action {
	c := g.Players[g.Turn].Color
	p := g.player(c)
	actions := []Action{{Color: c, Type: Roll}}
	// A knight may be played before rolling.
	if !p.PlayedDevThisTurn && p.DevCards[Knight] > 0 {
		actions = append(actions, Action{Color: c, Type: PlayKnight})
	}
	return actions
}

func (g *GameState) mainActions() []Action {
	c := g.Players[g.Turn].Color
	p := g.player(c)

	// Road Building placements are resolved before anything else.
	if g.FreeRoads > 0 && p.RoadsLeft > 0 {
		if edges := g.Board.BuildableEdges(c); len(edges) > 0 {
			actions := make([]Action, 0, len(edges))
			for _, e := range edges {
				actions = append(actions, Action{Color: c, Type: BuildRoad, Edge: e})
			}
			return actions
		}
	}

	var actions []Action

	if p.SettlementsLeft > 0 && g.canAfford(p, settlementCost) {
		for _, n := range g.Board.BuildableNodes(c, false) {
			actions = append(actions, Action{Color: c, Type: BuildSettlement, Node: n})
		}
	}
	if p.CitiesLeft > 0 && g.canAfford(p, cityCost) {
		for n := range g.Map.Nodes {
			if bl, ok := g.Board.Buildings[n]; ok && bl.Color == c && bl.Kind == SettlementBuilding {
				actions = append(actions, Action{Color: c, Type: BuildCity, Node: n})
			}
		}
	}
	if p.RoadsLeft > 0 && g.canAfford(p, roadCost) {
		for _, e := range g.Board.BuildableEdges(c) {
			actions = append(actions, Action{Color: c, Type: BuildRoad, Edge: e})
		}
	}
	if len(g.DevDeck) > 0 && g.canAfford(p, devCardCost) {
		actions = append(actions, Action{Color: c, Type: BuyDevCard})
	}

	actions = append(actions, g.devPlayActions(c, p)...)
	actions = append(actions, g.maritimeActions(c, p)...)
	actions = append(actions, g.tradeOfferActions(c, p)...)

	return append(actions, Action{Color: c, Type: EndTurn})
}

func (g *GameState) devPlayActions(c Color, p *PlayerRecord) []Action {
	if p.PlayedDevThisTurn {
		return nil
	}
	var actions []Action
	if p.DevCards[Knight] > 0 {
		actions = append(actions, Action{Color: c, Type: PlayKnight})
	}
	if p.DevCards[YearOfPlenty] > 0 {
		for _, give := range Resources() {
			for _, get := range Resources() {
				if get < give {
					continue
				}
				need := 1
				if give == get {
					need = 2
				}
				if g.Bank[give] >= need && g.Bank[get] >= 1 {
					actions = append(actions, Action{Color: c, Type: PlayYearOfPlenty, Give: give, Get: get})
				}
			}
		}
	}
	if p.DevCards[Monopoly] > 0 {
		for _, r := range Resources() {
			actions = append(actions, Action{Color: c, Type: PlayMonopoly, Give: r})
		}
	}
	if p.DevCards[RoadBuilding] > 0 && p.RoadsLeft > 0 && len(g.Board.BuildableEdges(c)) > 0 {
		actions = append(actions, Action{Color: c, Type: PlayRoadBuilding})
	}
	return actions
}

func (g *GameState) maritimeActions(c Color, p *PlayerRecord) []Action {
	var actions []Action
	for _, give := range Resources() {
		ratio := g.Board.BestRatio(c, give)
		if p.Resources[give] < ratio {
			continue
		}
		for _, get := range Resources() {
			if get == give || g.Bank[get] < 1 {
				continue
			}
			actions = append(actions, Action{Color: c, Type: MaritimeTrade, Give: give, Get: get, Ratio: ratio})
		}
	}
	return actions
}

func (g *GameState) tradeOfferActions(c Color, p *PlayerRecord) []Action {
	var actions []Action
	for _, give := range Resources() {
		if p.Resources[give] < 1 {
			continue
		}
		for _, get := range Resources() {
			if get == give {
				continue
			}
			actions = append(actions, Action{Color: c, Type: OfferTrade, Give: give, Get: get})
		}
	}
	return actions
}

func (g *GameState) discardActions() []Action {
	duty := g.PendingDiscards[0]
	p := g.player(duty.Color)
	var actions []Action
	for _, r := range Resources() {
		if p.Resources[r] > 0 {
			actions = append(actions, Action{Color: duty.Color, Type: Discard, Give: r})
		}
	}
	return actions
}

func (g *GameState) robberActions() []Action {
	c := g.Players[g.Turn].Color
	hasCards := func(victim Color) bool {
		return g.player(victim).TotalResources() > 0
	}
	var actions []Action
	for ti := range g.Map.Tiles {
		if ti == g.Board.RobberTile {
			continue
		}
		victims := g.Board.RobberVictims(ti, c, hasCards)
		if len(victims) == 0 {
			actions = append(actions, Action{Color: c, Type: MoveRobber, Tile: ti})
			continue
		}
		for _, v := range victims {
			actions = append(actions, Action{Color: c, Type: MoveRobber, Tile: ti, Victim: v})
		}
	}
	return actions
}

func (g *GameState) tradeResponseActions() []Action {
	responder := g.Trade.Pending[0]
	actions := []Action{}
	// The responder hands over the resource the offeror wants.
	if g.player(responder).Resources[g.Trade.Get] >= 1 {
		actions = append(actions, Action{Color: responder, Type: AcceptTrade})
	}
	return append(actions, Action{Color: responder, Type: RejectTrade})
}

func (g *GameState) canAfford(p *PlayerRecord, cost [NumResources]int) bool {
	for r, n := range cost {
		if p.Resources[r] < n {
			return false
		}
	}
	return true
}
