package game

// Color identifies a player seat. NoColor marks "nobody" (empty node,
// no robber victim, no winner yet).
type Color uint8

const (
	NoColor Color = iota
	Red
	Blue
	Orange
	White
)

var colorNames = map[Color]string{
	NoColor: "NONE",
	Red:     "RED",
	Blue:    "BLUE",
	Orange:  "ORANGE",
	White:   "WHITE",
}

func (c Color) String() string {
	if name, ok := colorNames[c]; ok {
		return name
	}
	return "NONE"
}

// ColorFromName parses the wire/config representation of a color.
func ColorFromName(name string) (Color, bool) {
	for c, n := range colorNames {
		if n == name && c != NoColor {
			return c, true
		}
	}
	return NoColor, false
}

// Resource is one of the five producible resource kinds.
type Resource uint8

const (
	Wood Resource = iota
	Brick
	Sheep
	Wheat
	Ore

	NumResources = 5
)

var resourceNames = [NumResources]string{"WOOD", "BRICK", "SHEEP", "WHEAT", "ORE"}

func (r Resource) String() string {
	if int(r) < len(resourceNames) {
		return resourceNames[r]
	}
	return "UNKNOWN"
}

// Resources lists all resource kinds in a stable order.
func Resources() [NumResources]Resource {
	return [NumResources]Resource{Wood, Brick, Sheep, Wheat, Ore}
}

// DevCard is a development card kind.
type DevCard uint8

const (
	Knight DevCard = iota
	YearOfPlenty
	Monopoly
	RoadBuilding
	VictoryPoint

	NumDevCards = 5
)

var devCardNames = [NumDevCards]string{
	"KNIGHT", "YEAR_OF_PLENTY", "MONOPOLY", "ROAD_BUILDING", "VICTORY_POINT",
}

func (d DevCard) String() string {
	if int(d) < len(devCardNames) {
		return devCardNames[d]
	}
	return "UNKNOWN"
}

// Per-player piece supply and bank sizes of the base game.
const (
	SettlementsPerPlayer = 5
	CitiesPerPlayer      = 4
	RoadsPerPlayer       = 15
	BankPerResource      = 19
)

// devDeckComposition is the count of each card kind in a fresh deck.
var devDeckComposition = [NumDevCards]int{
	Knight:       14,
	YearOfPlenty: 2,
	Monopoly:     2,
	RoadBuilding: 2,
	VictoryPoint: 5,
}

// Building costs, indexed by resource.
var (
	roadCost       = [NumResources]int{Wood: 1, Brick: 1}
	settlementCost = [NumResources]int{Wood: 1, Brick: 1, Sheep: 1, Wheat: 1}
	cityCost       = [NumResources]int{Wheat: 2, Ore: 3}
	devCardCost    = [NumResources]int{Sheep: 1, Wheat: 1, Ore: 1}
)
