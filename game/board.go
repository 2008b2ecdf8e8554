package game

// BuildingKind is the tier of a building at a node.
type BuildingKind uint8

const (
	SettlementBuilding BuildingKind = iota
	CityBuilding
)

func (k BuildingKind) String() string {
	if k == CityBuilding {
		return "CITY"
	}
	return "SETTLEMENT"
}

// Building occupies one node. A city replaces its owner's settlement in
// place; a node never holds more than one building.
type Building struct {
	Color Color        `json:"color"`
	Kind  BuildingKind `json:"kind"`
}

// Board is the mutable placement layer over a HexMap: buildings, roads
// and the robber. All mutation goes through GameState's executor.
type Board struct {
	Map        *HexMap          `json:"-"`
	Buildings  map[int]Building `json:"buildings"` // node id -> building
	Roads      map[int]Color    `json:"roads"`     // edge id -> owner
	RobberTile int              `json:"robber_tile"`
}

// NewBoard returns an empty board with the robber on the desert.
func NewBoard(m *HexMap) *Board {
	return &Board{
		Map:        m,
		Buildings:  make(map[int]Building),
		Roads:      make(map[int]Color),
		RobberTile: m.DesertTile,
	}
}

// Copy deep-copies the placement layer. The map is shared: it is
// immutable for the lifetime of a game.
func (b *Board) Copy() *Board {
	buildings := make(map[int]Building, len(b.Buildings))
	for n, bl := range b.Buildings {
		buildings[n] = bl
	}
	roads := make(map[int]Color, len(b.Roads))
	for e, c := range b.Roads {
		roads[e] = c
	}
	return &Board{
		Map:        b.Map,
		Buildings:  buildings,
		Roads:      roads,
		RobberTile: b.RobberTile,
	}
}

// violatesDistanceRule reports whether node n or any adjacent node
// already holds a building.
func (b *Board) violatesDistanceRule(n int) bool {
	if _, ok := b.Buildings[n]; ok {
		return true
	}
	for _, nb := range b.Map.Nodes[n].Neighbors {
		if _, ok := b.Buildings[nb]; ok {
			return true
		}
	}
	return false
}

// touchesNetwork reports whether color has a road or building incident
// to node n.
func (b *Board) touchesNetwork(c Color, n int) bool {
	if bl, ok := b.Buildings[n]; ok && bl.Color == c {
		return true
	}
	for _, e := range b.Map.Nodes[n].Edges {
		if b.Roads[e] == c {
			return true
		}
	}
	return false
}

// CanPlaceSettlement checks the distance rule and, outside initial
// placement, that the node is reachable by the color's road network.
func (b *Board) CanPlaceSettlement(c Color, n int, initial bool) bool {
	if n < 0 || n >= len(b.Map.Nodes) {
		return false
	}
	if b.violatesDistanceRule(n) {
		return false
	}
	if initial {
		return true
	}
	for _, e := range b.Map.Nodes[n].Edges {
		if b.Roads[e] == c {
			return true
		}
	}
	return false
}

// CanPlaceRoad checks that the edge is free and connects to the color's
// existing network. A road may not extend through an opponent's building.
func (b *Board) CanPlaceRoad(c Color, edge int) bool {
	if edge < 0 || edge >= len(b.Map.Edges) {
		return false
	}
	if _, taken := b.Roads[edge]; taken {
		return false
	}
	e := b.Map.Edges[edge]
	for _, n := range [2]int{e.A, e.B} {
		if bl, ok := b.Buildings[n]; ok {
			if bl.Color == c {
				return true
			}
			continue // opponent building blocks continuation through n
		}
		for _, other := range b.Map.Nodes[n].Edges {
			if other != edge && b.Roads[other] == c {
				return true
			}
		}
	}
	return false
}

// BuildableNodes returns, in node-id order, every node where color may
// place a settlement.
func (b *Board) BuildableNodes(c Color, initial bool) []int {
	var nodes []int
	for n := range b.Map.Nodes {
		if b.CanPlaceSettlement(c, n, initial) {
			nodes = append(nodes, n)
		}
	}
	return nodes
}

// BuildableEdges returns, in edge-id order, every edge where color may
// place a road.
func (b *Board) BuildableEdges(c Color) []int {
	var edges []int
	for e := range b.Map.Edges {
		if b.CanPlaceRoad(c, e) {
			edges = append(edges, e)
		}
	}
	return edges
}

// Production returns the resources each color earns for a dice total,
// cities counting double and the robber's tile yielding nothing.
func (b *Board) Production(total int) map[Color][NumResources]int {
	out := make(map[Color][NumResources]int)
	for ti, t := range b.Map.Tiles {
		if t.Desert || t.Number != total || ti == b.RobberTile {
			continue
		}
		for _, n := range b.Map.TileNodes[ti] {
			bl, ok := b.Buildings[n]
			if !ok {
				continue
			}
			yield := 1
			if bl.Kind == CityBuilding {
				yield = 2
			}
			counts := out[bl.Color]
			counts[t.Resource] += yield
			out[bl.Color] = counts
		}
	}
	return out
}

// BestRatio returns color's maritime exchange ratio for giving away one
// unit of resource r: 2 with a matching port, 3 with a generic port,
// otherwise 4.
func (b *Board) BestRatio(c Color, r Resource) int {
	ratio := 4
	for _, p := range b.Map.Ports {
		if !b.ownsPortNode(c, p) {
			continue
		}
		if p.Generic && ratio > 3 {
			ratio = 3
		}
		if !p.Generic && p.Resource == r {
			return 2
		}
	}
	return ratio
}

// AccessiblePorts returns the ports color can trade at, in map order.
func (b *Board) AccessiblePorts(c Color) []Port {
	var ports []Port
	for _, p := range b.Map.Ports {
		if b.ownsPortNode(c, p) {
			ports = append(ports, p)
		}
	}
	return ports
}

func (b *Board) ownsPortNode(c Color, p Port) bool {
	for _, n := range p.Nodes {
		if bl, ok := b.Buildings[n]; ok && bl.Color == c {
			return true
		}
	}
	return false
}

// RobberVictims returns, in tile-corner order, the colors other than mover
// holding at least one resource card with a building adjacent to tile.
func (b *Board) RobberVictims(tile int, mover Color, hasCards func(Color) bool) []Color {
	seen := make(map[Color]bool)
	var victims []Color
	for _, n := range b.Map.TileNodes[tile] {
		bl, ok := b.Buildings[n]
		if !ok || bl.Color == mover || seen[bl.Color] {
			continue
		}
		if hasCards(bl.Color) {
			seen[bl.Color] = true
			victims = append(victims, bl.Color)
		}
	}
	return victims
}
