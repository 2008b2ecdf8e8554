package game

// Apply is the sole mutation path. It re-validates membership in the
// current legal set regardless of who produced the action, executes on a
// copy and returns the new state with its legal actions. The receiver is
// never modified.
func (g *GameState) Apply(a Action) (*GameState, []Action, error) {
	if !ContainsAction(g.LegalActions(), a) {
		return nil, nil, &IllegalActionError{Action: a, Phase: g.Phase}
	}
	next := g.Copy()
	next.execute(a)
	next.assertInvariants()
	return next, next.LegalActions(), nil
}

// ApplyRoll resolves the roll prompt with a forced dice total. Search
// chance nodes use it to expand each outcome; live games roll through
// Apply instead.
func (g *GameState) ApplyRoll(total int) (*GameState, []Action, error) {
	a := Action{Color: g.Players[g.Turn].Color, Type: Roll}
	if g.Phase != MustRoll || total < 2 || total > 12 {
		return nil, nil, &IllegalActionError{Action: a, Phase: g.Phase}
	}
	next := g.Copy()
	next.Log = append(next.Log, a)
	next.resolveRoll(total)
	next.checkVictory(a.Color)
	next.assertInvariants()
	return next, next.LegalActions(), nil
}

// execute applies one validated action. Transitions of the turn/prompt
// machine live here and nowhere else.
func (g *GameState) execute(a Action) {
	g.Log = append(g.Log, a)
	p := g.player(a.Color)

	switch a.Type {
	case Roll:
		r := g.rng()
		g.resolveRoll(r.Intn(6) + 1 + r.Intn(6) + 1)

	case BuildSettlement:
		if g.Phase == InitialPlacementRound1 || g.Phase == InitialPlacementRound2 {
			g.Board.Buildings[a.Node] = Building{Color: a.Color, Kind: SettlementBuilding}
			p.SettlementsLeft--
			g.PendingInitialRoad = a.Node
			if g.Phase == InitialPlacementRound2 {
				g.grantStartingResources(p, a.Node)
			}
		} else {
			g.pay(p, settlementCost)
			g.Board.Buildings[a.Node] = Building{Color: a.Color, Kind: SettlementBuilding}
			p.SettlementsLeft--
			g.updateLongestRoad() // a settlement can cut an opponent's road
		}

	case BuildCity:
		g.pay(p, cityCost)
		g.Board.Buildings[a.Node] = Building{Color: a.Color, Kind: CityBuilding}
		p.CitiesLeft--
		p.SettlementsLeft++ // the settlement piece returns to the supply

	case BuildRoad:
		switch {
		case g.Phase == InitialPlacementRound1 || g.Phase == InitialPlacementRound2:
			g.Board.Roads[a.Edge] = a.Color
			p.RoadsLeft--
			g.PendingInitialRoad = -1
			g.advanceInitialPlacement()
		case g.FreeRoads > 0:
			g.Board.Roads[a.Edge] = a.Color
			p.RoadsLeft--
			g.FreeRoads--
		default:
			g.pay(p, roadCost)
			g.Board.Roads[a.Edge] = a.Color
			p.RoadsLeft--
		}
		g.updateLongestRoad()

	case BuyDevCard:
		g.pay(p, devCardCost)
		card := g.DevDeck[0]
		g.DevDeck = g.DevDeck[1:]
		p.NewDevCards[card]++ // unplayable until next turn; VP scores immediately

	case PlayKnight:
		p.DevCards[Knight]--
		p.PlayedDevThisTurn = true
		p.PlayedKnights++
		g.updateLargestArmy(p)
		g.ReturnPhase = g.Phase // resume rolling if played before the roll
		g.Phase = MustMoveRobber

	case PlayYearOfPlenty:
		p.DevCards[YearOfPlenty]--
		p.PlayedDevThisTurn = true
		g.Bank[a.Give]--
		p.Resources[a.Give]++
		g.Bank[a.Get]--
		p.Resources[a.Get]++

	case PlayMonopoly:
		p.DevCards[Monopoly]--
		p.PlayedDevThisTurn = true
		for i := range g.Players {
			other := &g.Players[i]
			if other.Color == a.Color {
				continue
			}
			p.Resources[a.Give] += other.Resources[a.Give]
			other.Resources[a.Give] = 0
		}

	case PlayRoadBuilding:
		p.DevCards[RoadBuilding]--
		p.PlayedDevThisTurn = true
		g.FreeRoads = 2
		if p.RoadsLeft < g.FreeRoads {
			g.FreeRoads = p.RoadsLeft
		}

	case MoveRobber:
		g.Board.RobberTile = a.Tile
		if a.Victim != NoColor {
			g.steal(p, g.player(a.Victim))
		}
		g.Phase = g.ReturnPhase
		g.ReturnPhase = MainAction

	case Discard:
		p.Resources[a.Give]--
		g.Bank[a.Give]++
		if p.TotalResources() <= g.PendingDiscards[0].Target {
			g.PendingDiscards = g.PendingDiscards[1:]
			if len(g.PendingDiscards) == 0 {
				g.Phase = MustMoveRobber
			}
		}

	case OfferTrade:
		g.Trade = &TradeOffer{
			Offeror: a.Color,
			Give:    a.Give,
			Get:     a.Get,
			Pending: g.respondersAfter(a.Color),
		}
		g.Phase = MustRespondToTrade

	case AcceptTrade:
		offeror := g.player(g.Trade.Offeror)
		offeror.Resources[g.Trade.Give]--
		p.Resources[g.Trade.Give]++
		p.Resources[g.Trade.Get]--
		offeror.Resources[g.Trade.Get]++
		g.Trade = nil
		g.Phase = MainAction

	case RejectTrade:
		g.Trade.Pending = g.Trade.Pending[1:]
		if len(g.Trade.Pending) == 0 {
			g.Trade = nil
			g.Phase = MainAction
		}

	case MaritimeTrade:
		p.Resources[a.Give] -= a.Ratio
		g.Bank[a.Give] += a.Ratio
		g.Bank[a.Get]--
		p.Resources[a.Get]++

	case EndTurn:
		g.DiceTotal = 0
		g.FreeRoads = 0
		p.PlayedDevThisTurn = false
		for k := range p.NewDevCards {
			p.DevCards[k] += p.NewDevCards[k]
			p.NewDevCards[k] = 0
		}
		g.Turn = (g.Turn + 1) % len(g.Players)
		g.Phase = MustRoll

	default:
		panic(InvariantViolation{Reason: "unhandled action type " + a.Type.String()})
	}

	g.checkVictory(a.Color)
}

// resolveRoll applies a dice total: a 7 routes through the discard and
// robber prompts, anything else produces resources.
func (g *GameState) resolveRoll(total int) {
	g.DiceTotal = total
	if total == 7 {
		g.PendingDiscards = nil
		for i := range g.Players {
			held := g.Players[i].TotalResources()
			if held > g.DiscardLimit {
				g.PendingDiscards = append(g.PendingDiscards, DiscardDuty{
					Color:  g.Players[i].Color,
					Target: held - held/2, // discard half, rounded down
				})
			}
		}
		g.ReturnPhase = MainAction
		if len(g.PendingDiscards) > 0 {
			g.Phase = MustDiscard
		} else {
			g.Phase = MustMoveRobber
		}
		return
	}
	g.distributeProduction(total)
	g.Phase = MainAction
}

// distributeProduction pays out a non-7 roll. When the bank cannot cover
// a resource demanded by more than one color, that resource is withheld
// entirely; a single claimant receives what remains.
func (g *GameState) distributeProduction(total int) {
	prod := g.Board.Production(total)
	for _, r := range Resources() {
		demand := 0
		claimants := 0
		for i := range g.Players {
			if n := prod[g.Players[i].Color][r]; n > 0 {
				demand += n
				claimants++
			}
		}
		if demand == 0 {
			continue
		}
		if demand > g.Bank[r] && claimants > 1 {
			continue
		}
		for i := range g.Players {
			n := prod[g.Players[i].Color][r]
			if n > g.Bank[r] {
				n = g.Bank[r]
			}
			g.Players[i].Resources[r] += n
			g.Bank[r] -= n
		}
	}
}

// grantStartingResources pays one card per non-desert tile adjacent to
// the second initial settlement.
func (g *GameState) grantStartingResources(p *PlayerRecord, node int) {
	for _, ti := range g.Map.Nodes[node].Tiles {
		t := g.Map.Tiles[ti]
		if t.Desert || g.Bank[t.Resource] == 0 {
			continue
		}
		g.Bank[t.Resource]--
		p.Resources[t.Resource]++
	}
}

// advanceInitialPlacement moves the snake order along: forward through
// round 1, the last color places twice, backward through round 2.
func (g *GameState) advanceInitialPlacement() {
	if g.Phase == InitialPlacementRound1 {
		if g.Turn < len(g.Players)-1 {
			g.Turn++
		} else {
			g.Phase = InitialPlacementRound2
		}
		return
	}
	if g.Turn > 0 {
		g.Turn--
	} else {
		g.Phase = MustRoll
	}
}

// respondersAfter lists every other color starting from the seat after
// the offeror, wrapping around.
func (g *GameState) respondersAfter(offeror Color) []Color {
	start := 0
	for i := range g.Players {
		if g.Players[i].Color == offeror {
			start = i
			break
		}
	}
	responders := make([]Color, 0, len(g.Players)-1)
	for i := 1; i < len(g.Players); i++ {
		responders = append(responders, g.Players[(start+i)%len(g.Players)].Color)
	}
	return responders
}

// steal moves one uniformly chosen resource card from victim to thief.
func (g *GameState) steal(thief, victim *PlayerRecord) {
	total := victim.TotalResources()
	if total == 0 {
		return
	}
	pick := g.rng().Intn(total)
	for _, r := range Resources() {
		if pick < victim.Resources[r] {
			victim.Resources[r]--
			thief.Resources[r]++
			return
		}
		pick -= victim.Resources[r]
	}
}

func (g *GameState) pay(p *PlayerRecord, cost [NumResources]int) {
	for r, n := range cost {
		p.Resources[r] -= n
		g.Bank[r] += n
	}
}

// updateLongestRoad recomputes road lengths for every color and settles
// the bonus: at least 5 segments to qualify, a strictly longer network
// to take it from the holder, ties keep the holder.
func (g *GameState) updateLongestRoad() {
	lengths := make([]int, len(g.Players))
	holderIdx := -1
	for i := range g.Players {
		lengths[i] = g.Board.LongestRoadLength(g.Players[i].Color)
		if g.Players[i].HasLongestRoad {
			holderIdx = i
		}
	}

	if holderIdx >= 0 && lengths[holderIdx] >= 5 {
		beaten := false
		for i, l := range lengths {
			if i != holderIdx && l > lengths[holderIdx] {
				beaten = true
			}
		}
		if !beaten {
			return
		}
	}

	best, bestIdx, unique := 0, -1, true
	for i, l := range lengths {
		if l > best {
			best, bestIdx, unique = l, i, true
		} else if l == best {
			unique = false
		}
	}
	for i := range g.Players {
		g.Players[i].HasLongestRoad = false
	}
	if best >= 5 && unique {
		g.Players[bestIdx].HasLongestRoad = true
	}
}

// updateLargestArmy transfers the bonus to p when it has played at least
// 3 knights and strictly more than the current holder.
func (g *GameState) updateLargestArmy(p *PlayerRecord) {
	if p.PlayedKnights < 3 {
		return
	}
	for i := range g.Players {
		holder := &g.Players[i]
		if !holder.HasLargestArmy {
			continue
		}
		if holder.Color == p.Color || p.PlayedKnights <= holder.PlayedKnights {
			return
		}
		holder.HasLargestArmy = false
	}
	p.HasLargestArmy = true
}

// checkVictory ends the game as soon as the acting color reaches the
// threshold, hidden victory points included.
func (g *GameState) checkVictory(c Color) {
	if g.Phase == GameOver {
		return
	}
	if g.VictoryPoints(c) >= g.VictoryThreshold {
		g.WonBy = c
		g.Phase = GameOver
	}
}

// assertInvariants catches executor bugs before a corrupted state can
// escape: card conservation, piece accounting, robber placement.
func (g *GameState) assertInvariants() {
	for _, r := range Resources() {
		total := g.Bank[r]
		for i := range g.Players {
			invariant(g.Players[i].Resources[r] >= 0,
				"negative %s count for %s", r, g.Players[i].Color)
			total += g.Players[i].Resources[r]
		}
		invariant(total == BankPerResource, "%s cards not conserved: %d", r, total)
	}

	invariant(g.Board.RobberTile >= 0 && g.Board.RobberTile < len(g.Map.Tiles),
		"robber off the board: tile %d", g.Board.RobberTile)

	for i := range g.Players {
		p := &g.Players[i]
		settlements, cities, roads := 0, 0, 0
		for _, bl := range g.Board.Buildings {
			if bl.Color != p.Color {
				continue
			}
			if bl.Kind == CityBuilding {
				cities++
			} else {
				settlements++
			}
		}
		for _, owner := range g.Board.Roads {
			if owner == p.Color {
				roads++
			}
		}
		invariant(p.SettlementsLeft+settlements == SettlementsPerPlayer,
			"settlement pieces not conserved for %s", p.Color)
		invariant(p.CitiesLeft+cities == CitiesPerPlayer,
			"city pieces not conserved for %s", p.Color)
		invariant(p.RoadsLeft+roads == RoadsPerPlayer,
			"road pieces not conserved for %s", p.Color)
	}
}
