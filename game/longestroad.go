package game

// LongestRoadLength returns the length of color's longest simple road
// path. An opponent's building interrupts a path at that node.
func (b *Board) LongestRoadLength(c Color) int {
	owned := make(map[int]bool)
	for e, owner := range b.Roads {
		if owner == c {
			owned[e] = true
		}
	}
	if len(owned) == 0 {
		return 0
	}

	visited := make(map[int]bool, len(owned))
	best := 0
	for e := range owned {
		edge := b.Map.Edges[e]
		for _, start := range [2]int{edge.A, edge.B} {
			if l := b.walkRoads(c, start, owned, visited); l > best {
				best = l
			}
		}
	}
	return best
}

// walkRoads extends a simple path from node n over unvisited owned
// edges, returning the longest extension found.
func (b *Board) walkRoads(c Color, n int, owned, visited map[int]bool) int {
	if bl, ok := b.Buildings[n]; ok && bl.Color != c {
		return 0 // blocked by opponent building
	}
	best := 0
	for _, e := range b.Map.Nodes[n].Edges {
		if !owned[e] || visited[e] {
			continue
		}
		visited[e] = true
		if l := 1 + b.walkRoads(c, b.Map.OtherEnd(e, n), owned, visited); l > best {
			best = l
		}
		visited[e] = false
	}
	return best
}
