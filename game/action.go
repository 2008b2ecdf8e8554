package game

import "fmt"

// ActionType enumerates every request a player can make.
type ActionType uint8

const (
	Roll ActionType = iota
	BuildSettlement
	BuildCity
	BuildRoad
	BuyDevCard
	PlayKnight
	PlayYearOfPlenty
	PlayMonopoly
	PlayRoadBuilding
	MoveRobber
	Discard
	OfferTrade
	AcceptTrade
	RejectTrade
	MaritimeTrade
	EndTurn
)

var actionTypeNames = map[ActionType]string{
	Roll:             "ROLL",
	BuildSettlement:  "BUILD_SETTLEMENT",
	BuildCity:        "BUILD_CITY",
	BuildRoad:        "BUILD_ROAD",
	BuyDevCard:       "BUY_DEV_CARD",
	PlayKnight:       "PLAY_KNIGHT",
	PlayYearOfPlenty: "PLAY_YEAR_OF_PLENTY",
	PlayMonopoly:     "PLAY_MONOPOLY",
	PlayRoadBuilding: "PLAY_ROAD_BUILDING",
	MoveRobber:       "MOVE_ROBBER",
	Discard:          "DISCARD",
	OfferTrade:       "OFFER_TRADE",
	AcceptTrade:      "ACCEPT_TRADE",
	RejectTrade:      "REJECT_TRADE",
	MaritimeTrade:    "MARITIME_TRADE",
	EndTurn:          "END_TURN",
}

func (t ActionType) String() string {
	if name, ok := actionTypeNames[t]; ok {
		return name
	}
	return "UNKNOWN"
}

// ActionTypeFromName parses the wire representation of an action type.
func ActionTypeFromName(name string) (ActionType, bool) {
	for t, n := range actionTypeNames {
		if n == name {
			return t, true
		}
	}
	return 0, false
}

// Action is an immutable (color, type, value) request. Value fields not
// used by the type stay zero, which keeps actions comparable with == for
// legal-set membership tests.
type Action struct {
	Color  Color      `json:"color"`
	Type   ActionType `json:"type"`
	Node   int        `json:"node,omitempty"`   // settlement/city target
	Edge   int        `json:"edge,omitempty"`   // road target
	Tile   int        `json:"tile,omitempty"`   // robber destination
	Victim Color      `json:"victim,omitempty"` // robber steal target
	Give   Resource   `json:"give,omitempty"`   // trade/discard/monopoly kind
	Get    Resource   `json:"get,omitempty"`    // trade/year-of-plenty kind
	Ratio  int        `json:"ratio,omitempty"`  // maritime exchange ratio
}

func (a Action) String() string {
	switch a.Type {
	case BuildSettlement, BuildCity:
		return fmt.Sprintf("%s %s node=%d", a.Color, a.Type, a.Node)
	case BuildRoad:
		return fmt.Sprintf("%s %s edge=%d", a.Color, a.Type, a.Edge)
	case MoveRobber:
		return fmt.Sprintf("%s %s tile=%d victim=%s", a.Color, a.Type, a.Tile, a.Victim)
	case Discard, PlayMonopoly:
		return fmt.Sprintf("%s %s %s", a.Color, a.Type, a.Give)
	case PlayYearOfPlenty:
		return fmt.Sprintf("%s %s %s+%s", a.Color, a.Type, a.Give, a.Get)
	case OfferTrade:
		return fmt.Sprintf("%s %s give=%s get=%s", a.Color, a.Type, a.Give, a.Get)
	case MaritimeTrade:
		return fmt.Sprintf("%s %s %d:%s->%s", a.Color, a.Type, a.Ratio, a.Give, a.Get)
	default:
		return fmt.Sprintf("%s %s", a.Color, a.Type)
	}
}

// ContainsAction reports whether a is a member of the legal set.
func ContainsAction(legal []Action, a Action) bool {
	for _, l := range legal {
		if l == a {
			return true
		}
	}
	return false
}
