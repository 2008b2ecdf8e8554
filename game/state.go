package game

import (
	"encoding/binary"
	"hash/fnv"

	"golang.org/x/exp/rand"
)

// PlayerRecord is the per-color bookkeeping: hand, pieces, dev cards and
// bonus flags.
type PlayerRecord struct {
	Color             Color              `json:"color"`
	Resources         [NumResources]int  `json:"resources"`
	DevCards          [NumDevCards]int   `json:"dev_cards"`     // playable this turn
	NewDevCards       [NumDevCards]int   `json:"new_dev_cards"` // bought this turn
	PlayedKnights     int                `json:"played_knights"`
	PlayedDevThisTurn bool               `json:"played_dev_this_turn"`
	SettlementsLeft   int                `json:"settlements_left"`
	CitiesLeft        int                `json:"cities_left"`
	RoadsLeft         int                `json:"roads_left"`
	HasLongestRoad    bool               `json:"has_longest_road"`
	HasLargestArmy    bool               `json:"has_largest_army"`
}

// TotalResources returns the size of the player's resource hand.
func (p *PlayerRecord) TotalResources() int {
	total := 0
	for _, n := range p.Resources {
		total += n
	}
	return total
}

// VictoryPointCards counts the player's hidden victory points.
func (p *PlayerRecord) VictoryPointCards() int {
	return p.DevCards[VictoryPoint] + p.NewDevCards[VictoryPoint]
}

// DiscardDuty records a color that must discard down to Target cards
// after a roll of 7.
type DiscardDuty struct {
	Color  Color `json:"color"`
	Target int   `json:"target"`
}

// TradeOffer is a pending domestic 1:1 trade. Offeror gives Give and
// wants Get; Pending lists the responders that have not answered yet.
type TradeOffer struct {
	Offeror Color    `json:"offeror"`
	Give    Resource `json:"give"`
	Get     Resource `json:"get"`
	Pending []Color  `json:"pending"`
}

// GameState is the authoritative game model. It is never mutated in
// place: Apply executes one action on a copy, which makes clone-for-
// search trivial.
type GameState struct {
	Map     *HexMap        `json:"map"`
	Board   *Board         `json:"board"`
	Players []PlayerRecord `json:"players"` // turn order

	Bank    [NumResources]int `json:"bank"`
	DevDeck []DevCard         `json:"dev_deck"` // draw from the front

	Turn      int   `json:"turn"` // index into Players of the turn owner
	Phase     Phase `json:"phase"`
	DiceTotal int   `json:"dice_total"` // 0 until rolled this turn
	FreeRoads int   `json:"free_roads"` // remaining Road Building placements

	// PendingInitialRoad is the node of the settlement just placed
	// during initial placement, -1 when the next placement is a
	// settlement again.
	PendingInitialRoad int `json:"pending_initial_road"`

	PendingDiscards []DiscardDuty `json:"pending_discards,omitempty"`
	Trade           *TradeOffer   `json:"trade,omitempty"`

	// ReturnPhase is resumed after the robber is moved: MustRoll when a
	// knight was played before rolling, MainAction otherwise.
	ReturnPhase Phase `json:"return_phase"`

	Log   []Action `json:"log"`
	WonBy Color    `json:"won_by"`

	VictoryThreshold int `json:"victory_threshold"`
	DiscardLimit     int `json:"discard_limit"`
}

// NewGameState creates a fresh game: seeded map, shuffled dev deck, full
// bank and piece supplies, initial placement pending for the first color.
func NewGameState(colors []Color, seed int64, victoryThreshold, discardLimit int) *GameState {
	m := NewHexMap(seed)

	players := make([]PlayerRecord, len(colors))
	for i, c := range colors {
		players[i] = PlayerRecord{
			Color:           c,
			SettlementsLeft: SettlementsPerPlayer,
			CitiesLeft:      CitiesPerPlayer,
			RoadsLeft:       RoadsPerPlayer,
		}
	}

	var bank [NumResources]int
	for i := range bank {
		bank[i] = BankPerResource
	}

	deckRng := rand.New(rand.NewSource(uint64(seed) + 1))
	var deck []DevCard
	for kind, count := range devDeckComposition {
		for i := 0; i < count; i++ {
			deck = append(deck, DevCard(kind))
		}
	}
	deckRng.Shuffle(len(deck), func(i, j int) {
		deck[i], deck[j] = deck[j], deck[i]
	})

	return &GameState{
		Map:                m,
		Board:              NewBoard(m),
		Players:            players,
		Bank:               bank,
		DevDeck:            deck,
		Phase:              InitialPlacementRound1,
		PendingInitialRoad: -1,
		ReturnPhase:        MainAction,
		VictoryThreshold:   victoryThreshold,
		DiscardLimit:       discardLimit,
	}
}

// Copy deep-copies everything except the immutable map.
func (g *GameState) Copy() *GameState {
	players := make([]PlayerRecord, len(g.Players))
	copy(players, g.Players)

	deck := make([]DevCard, len(g.DevDeck))
	copy(deck, g.DevDeck)

	log := make([]Action, len(g.Log))
	copy(log, g.Log)

	var discards []DiscardDuty
	if len(g.PendingDiscards) > 0 {
		discards = make([]DiscardDuty, len(g.PendingDiscards))
		copy(discards, g.PendingDiscards)
	}

	var trade *TradeOffer
	if g.Trade != nil {
		pending := make([]Color, len(g.Trade.Pending))
		copy(pending, g.Trade.Pending)
		t := *g.Trade
		t.Pending = pending
		trade = &t
	}

	return &GameState{
		Map:                g.Map,
		Board:              g.Board.Copy(),
		Players:            players,
		Bank:               g.Bank,
		DevDeck:            deck,
		Turn:               g.Turn,
		Phase:              g.Phase,
		DiceTotal:          g.DiceTotal,
		FreeRoads:          g.FreeRoads,
		PendingInitialRoad: g.PendingInitialRoad,
		PendingDiscards:    discards,
		Trade:              trade,
		ReturnPhase:        g.ReturnPhase,
		Log:                log,
		WonBy:              g.WonBy,
		VictoryThreshold:   g.VictoryThreshold,
		DiscardLimit:       g.DiscardLimit,
	}
}

// Rebind restores derived pointers after deserialization: the board
// shares the state's map.
func (g *GameState) Rebind() {
	if g.Board != nil {
		g.Board.Map = g.Map
	}
	if g.Map != nil {
		g.Map.rebuildEdgeIndex()
	}
}

// player returns the record for color. Panics on unknown color: colors
// come from validated actions only.
func (g *GameState) player(c Color) *PlayerRecord {
	for i := range g.Players {
		if g.Players[i].Color == c {
			return &g.Players[i]
		}
	}
	panic(InvariantViolation{Reason: "unknown color " + c.String()})
}

// ActingColor is the color that must act in the current phase. During
// simultaneous prompts (discard, trade response) pending colors resolve
// one at a time in a stable order.
func (g *GameState) ActingColor() Color {
	switch g.Phase {
	case MustDiscard:
		return g.PendingDiscards[0].Color
	case MustRespondToTrade:
		return g.Trade.Pending[0]
	case GameOver:
		return NoColor
	default:
		return g.Players[g.Turn].Color
	}
}

// Winner returns the winning color, or NoColor while the game runs.
func (g *GameState) Winner() Color {
	return g.WonBy
}

// IsTerminal reports whether the game is over and who won.
func (g *GameState) IsTerminal() (Color, bool) {
	return g.WonBy, g.Phase == GameOver
}

// PublicVictoryPoints counts the points visible to everyone.
func (g *GameState) PublicVictoryPoints(c Color) int {
	vp := 0
	for _, bl := range g.Board.Buildings {
		if bl.Color != c {
			continue
		}
		if bl.Kind == CityBuilding {
			vp += 2
		} else {
			vp++
		}
	}
	p := g.player(c)
	if p.HasLongestRoad {
		vp += 2
	}
	if p.HasLargestArmy {
		vp += 2
	}
	return vp
}

// VictoryPoints counts public plus hidden points.
func (g *GameState) VictoryPoints(c Color) int {
	return g.PublicVictoryPoints(c) + g.player(c).VictoryPointCards()
}

// Hash folds the full dynamic state into a 64-bit FNV-1a digest. Maps
// are iterated in id order so the digest is reproducible. The log length
// is folded in so a position revisited later in the game (say after an
// offer and a rejection) hashes differently and reseeds fresh dice.
func (g *GameState) Hash() uint64 {
	h := fnv.New64a()
	w := func(v int64) {
		binary.Write(h, binary.LittleEndian, v)
	}

	w(int64(len(g.Log)))
	w(int64(g.Phase))
	w(int64(g.Turn))
	w(int64(g.DiceTotal))
	w(int64(g.FreeRoads))
	w(int64(g.PendingInitialRoad))
	w(int64(g.WonBy))

	for i := range g.Players {
		p := &g.Players[i]
		w(int64(p.Color))
		for _, n := range p.Resources {
			w(int64(n))
		}
		for _, n := range p.DevCards {
			w(int64(n))
		}
		for _, n := range p.NewDevCards {
			w(int64(n))
		}
		w(int64(p.PlayedKnights))
		if p.PlayedDevThisTurn {
			w(1)
		} else {
			w(0)
		}
		w(int64(p.SettlementsLeft))
		w(int64(p.CitiesLeft))
		w(int64(p.RoadsLeft))
		if p.HasLongestRoad {
			w(1)
		} else {
			w(0)
		}
		if p.HasLargestArmy {
			w(1)
		} else {
			w(0)
		}
	}

	for _, n := range g.Bank {
		w(int64(n))
	}
	for _, d := range g.DevDeck {
		w(int64(d))
	}

	w(int64(g.Board.RobberTile))
	for n := range g.Map.Nodes {
		if bl, ok := g.Board.Buildings[n]; ok {
			w(int64(n))
			w(int64(bl.Color))
			w(int64(bl.Kind))
		}
	}
	for e := range g.Map.Edges {
		if c, ok := g.Board.Roads[e]; ok {
			w(int64(e))
			w(int64(c))
		}
	}

	for _, d := range g.PendingDiscards {
		w(int64(d.Color))
		w(int64(d.Target))
	}
	if g.Trade != nil {
		w(int64(g.Trade.Offeror))
		w(int64(g.Trade.Give))
		w(int64(g.Trade.Get))
		for _, c := range g.Trade.Pending {
			w(int64(c))
		}
	}

	return h.Sum64()
}

// rng returns a generator seeded from the state digest, so stochastic
// events replay identically on clones of the same state.
func (g *GameState) rng() *rand.Rand {
	return rand.New(rand.NewSource(g.Hash()))
}
