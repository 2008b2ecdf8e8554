package game

import (
	"sort"

	"golang.org/x/exp/rand"
)

// TileCoord is an axial hex coordinate. The implicit third cube
// coordinate is -Q-R.
type TileCoord struct {
	Q int `json:"q"`
	R int `json:"r"`
}

// hexDirections lists the six axial neighbor offsets. Corner i of a hex
// is shared with the neighbors in directions i and i+1; the edge between
// corners i and i+1 is shared with the neighbor in direction i+1.
var hexDirections = [6]TileCoord{
	{1, 0}, {1, -1}, {0, -1}, {-1, 0}, {-1, 1}, {0, 1},
}

func (t TileCoord) add(d TileCoord) TileCoord {
	return TileCoord{t.Q + d.Q, t.R + d.R}
}

// Tile is one land hex. Number is the production token (2..12, never 7),
// 0 for the desert.
type Tile struct {
	Coord    TileCoord `json:"coord"`
	Resource Resource  `json:"resource"`
	Desert   bool      `json:"desert"`
	Number   int       `json:"number"`
}

// Node is an intersection where up to three tiles meet.
type Node struct {
	ID        int   `json:"id"`
	Tiles     []int `json:"tiles"`     // adjacent land tile indices
	Edges     []int `json:"edges"`     // incident edge ids
	Neighbors []int `json:"neighbors"` // adjacent node ids
}

// Edge connects two adjacent nodes. A < B always.
type Edge struct {
	ID int `json:"id"`
	A  int `json:"a"`
	B  int `json:"b"`
}

// Port is a maritime trading post reachable from two coastal nodes.
type Port struct {
	Resource Resource `json:"resource"` // meaningful only when Generic is false
	Generic  bool     `json:"generic"`  // 3:1 port
	Nodes    [2]int   `json:"nodes"`
}

// HexMap is the static board topology: built once per game from a seed,
// never mutated afterwards.
type HexMap struct {
	Seed       int64    `json:"seed"`
	Tiles      []Tile   `json:"tiles"`
	Nodes      []Node   `json:"nodes"`
	Edges      []Edge   `json:"edges"`
	Ports      []Port   `json:"ports"`
	TileNodes  [][6]int `json:"tile_nodes"` // tile index -> corner node ids
	DesertTile int      `json:"desert_tile"`

	edgeIndex map[[2]int]int
}

// cornerKey identifies an intersection by the three hex coordinates that
// meet at it (water hexes included), sorted for canonical form.
type cornerKey [3]TileCoord

func cornerAt(c TileCoord, i int) cornerKey {
	k := cornerKey{c, c.add(hexDirections[i]), c.add(hexDirections[(i+1)%6])}
	sort.Slice(k[:], func(a, b int) bool {
		if k[a].Q != k[b].Q {
			return k[a].Q < k[b].Q
		}
		return k[a].R < k[b].R
	})
	return k
}

// landCoords returns the 19 land hexes of the base map (radius <= 2) in
// a fixed deterministic order.
func landCoords() []TileCoord {
	var coords []TileCoord
	for q := -2; q <= 2; q++ {
		for r := -2; r <= 2; r++ {
			s := -q - r
			if s >= -2 && s <= 2 {
				coords = append(coords, TileCoord{q, r})
			}
		}
	}
	return coords
}

func isLand(c TileCoord) bool {
	abs := func(v int) int {
		if v < 0 {
			return -v
		}
		return v
	}
	s := -c.Q - c.R
	return abs(c.Q) <= 2 && abs(c.R) <= 2 && abs(s) <= 2
}

// numberTokens are the production tokens of the base game.
var numberTokens = []int{2, 3, 3, 4, 4, 5, 5, 6, 6, 8, 8, 9, 9, 10, 10, 11, 11, 12}

// NewHexMap builds the full board topology for the given layout seed:
// shuffled tile resources and number tokens, derived node/edge graph, and
// seed-shuffled ports on deterministic coastal edges.
func NewHexMap(seed int64) *HexMap {
	rng := rand.New(rand.NewSource(uint64(seed)))

	coords := landCoords()
	resources := shuffledTileResources(rng)
	numbers := append([]int(nil), numberTokens...)
	rng.Shuffle(len(numbers), func(i, j int) {
		numbers[i], numbers[j] = numbers[j], numbers[i]
	})

	m := &HexMap{
		Seed:      seed,
		edgeIndex: make(map[[2]int]int),
	}

	numberAt := 0
	for ti, c := range coords {
		tile := Tile{Coord: c, Resource: resources[ti].resource, Desert: resources[ti].desert}
		if tile.Desert {
			m.DesertTile = ti
		} else {
			tile.Number = numbers[numberAt]
			numberAt++
		}
		m.Tiles = append(m.Tiles, tile)
	}

	nodeByKey := make(map[cornerKey]int)
	var coastal []int // coastal edge ids in build order
	for ti, c := range coords {
		var corners [6]int
		for i := 0; i < 6; i++ {
			key := cornerAt(c, i)
			id, ok := nodeByKey[key]
			if !ok {
				id = len(m.Nodes)
				nodeByKey[key] = id
				m.Nodes = append(m.Nodes, Node{ID: id})
			}
			corners[i] = id
			m.Nodes[id].Tiles = append(m.Nodes[id].Tiles, ti)
		}
		m.TileNodes = append(m.TileNodes, corners)

		for i := 0; i < 6; i++ {
			eid := m.addEdge(corners[i], corners[(i+1)%6])
			if !isLand(c.add(hexDirections[(i+1)%6])) {
				coastal = append(coastal, eid)
			}
		}
	}

	m.placePorts(rng, coastal)
	return m
}

type tileResource struct {
	resource Resource
	desert   bool
}

func shuffledTileResources(rng *rand.Rand) []tileResource {
	pool := []tileResource{{desert: true}}
	counts := map[Resource]int{Wood: 4, Sheep: 4, Wheat: 4, Brick: 3, Ore: 3}
	for _, r := range Resources() {
		for i := 0; i < counts[r]; i++ {
			pool = append(pool, tileResource{resource: r})
		}
	}
	rng.Shuffle(len(pool), func(i, j int) {
		pool[i], pool[j] = pool[j], pool[i]
	})
	return pool
}

func (m *HexMap) addEdge(a, b int) int {
	if a > b {
		a, b = b, a
	}
	key := [2]int{a, b}
	if id, ok := m.edgeIndex[key]; ok {
		return id
	}
	id := len(m.Edges)
	m.Edges = append(m.Edges, Edge{ID: id, A: a, B: b})
	m.edgeIndex[key] = id
	m.Nodes[a].Edges = append(m.Nodes[a].Edges, id)
	m.Nodes[b].Edges = append(m.Nodes[b].Edges, id)
	m.Nodes[a].Neighbors = append(m.Nodes[a].Neighbors, b)
	m.Nodes[b].Neighbors = append(m.Nodes[b].Neighbors, a)
	return id
}

// placePorts puts the nine ports of the base game on coastal edges,
// spaced so that no two ports share a node. Kinds are seed-shuffled.
func (m *HexMap) placePorts(rng *rand.Rand, coastal []int) {
	kinds := []Port{
		{Generic: true}, {Generic: true}, {Generic: true}, {Generic: true},
		{Resource: Wood}, {Resource: Brick}, {Resource: Sheep},
		{Resource: Wheat}, {Resource: Ore},
	}
	rng.Shuffle(len(kinds), func(i, j int) {
		kinds[i], kinds[j] = kinds[j], kinds[i]
	})

	used := make(map[int]bool) // nodes already granted a port
	skip := 0
	for _, eid := range coastal {
		if len(m.Ports) == len(kinds) {
			break
		}
		if skip > 0 {
			skip--
			continue
		}
		e := m.Edges[eid]
		if used[e.A] || used[e.B] {
			continue
		}
		port := kinds[len(m.Ports)]
		port.Nodes = [2]int{e.A, e.B}
		m.Ports = append(m.Ports, port)
		used[e.A] = true
		used[e.B] = true
		skip = 2
	}
}

// EdgeBetween returns the edge id connecting two nodes, if adjacent.
func (m *HexMap) EdgeBetween(a, b int) (int, bool) {
	if a > b {
		a, b = b, a
	}
	if m.edgeIndex == nil {
		m.rebuildEdgeIndex()
	}
	id, ok := m.edgeIndex[[2]int{a, b}]
	return id, ok
}

func (m *HexMap) rebuildEdgeIndex() {
	m.edgeIndex = make(map[[2]int]int, len(m.Edges))
	for _, e := range m.Edges {
		m.edgeIndex[[2]int{e.A, e.B}] = e.ID
	}
}

// OtherEnd returns the node at the far side of edge from node n.
func (m *HexMap) OtherEnd(edge, n int) int {
	e := m.Edges[edge]
	if e.A == n {
		return e.B
	}
	return e.A
}

// pips maps a production token to the number of two-dice combinations
// that roll it.
func pips(number int) int {
	switch number {
	case 2, 12:
		return 1
	case 3, 11:
		return 2
	case 4, 10:
		return 3
	case 5, 9:
		return 4
	case 6, 8:
		return 5
	default:
		return 0
	}
}

// NodeProduction returns the per-resource expected yield of a settlement
// at node n, expressed as combinations out of 36 per turn.
func (m *HexMap) NodeProduction(n int) [NumResources]float64 {
	var prod [NumResources]float64
	for _, ti := range m.Nodes[n].Tiles {
		t := m.Tiles[ti]
		if t.Desert {
			continue
		}
		prod[t.Resource] += float64(pips(t.Number)) / 36.0
	}
	return prod
}
