package game

// Evaluate scores a state from color's perspective: deterministic,
// side-effect-free and safe to call at any search depth. Scores live in
// [-1, 1], with terminal states pinned to the extremes by the searcher.
type Evaluate func(g *GameState, c Color) float64

// EvaluateVictory tallies only victory points relative to the best
// opponent. Cheap baseline evaluator.
func EvaluateVictory(g *GameState, c Color) float64 {
	return normalize(float64(g.VictoryPoints(c)), bestOpponent(g, c, func(o Color) float64 {
		return float64(g.VictoryPoints(o))
	}))
}

// EvaluatePosition combines victory points, expected production,
// resource variety, port access and discard exposure into one relative
// score. This is the default search leaf evaluator.
func EvaluatePosition(g *GameState, c Color) float64 {
	own := positionScore(g, c)
	opp := bestOpponent(g, c, func(o Color) float64 {
		return positionScore(g, o)
	})
	return normalize(own, opp)
}

func positionScore(g *GameState, c Color) float64 {
	const (
		victoryWeight    = 10.0
		productionWeight = 12.0
		varietyWeight    = 1.0
		portWeight       = 0.7
		discardPenalty   = 0.5
		nearBonusWeight  = 1.5
	)

	score := victoryWeight * float64(g.VictoryPoints(c))

	production, variety := expectedProduction(g, c)
	score += productionWeight * production
	score += varietyWeight * float64(variety)
	score += portWeight * float64(len(g.Board.AccessiblePorts(c)))

	p := g.player(c)
	if held := p.TotalResources(); held > g.DiscardLimit {
		score -= discardPenalty * float64(held-g.DiscardLimit)
	}

	// Nearly-earned bonuses are worth chasing before they pay out.
	if !p.HasLongestRoad && g.Board.LongestRoadLength(c) == 4 {
		score += nearBonusWeight
	}
	if !p.HasLargestArmy && p.PlayedKnights == 2 {
		score += nearBonusWeight
	}

	return score
}

// expectedProduction sums the per-turn expected yield of color's
// buildings (cities double) and counts the distinct producible kinds.
func expectedProduction(g *GameState, c Color) (float64, int) {
	var perResource [NumResources]float64
	for n, bl := range g.Board.Buildings {
		if bl.Color != c {
			continue
		}
		weight := 1.0
		if bl.Kind == CityBuilding {
			weight = 2.0
		}
		prod := g.Map.NodeProduction(n)
		for r, v := range prod {
			perResource[r] += weight * v
		}
	}
	total, variety := 0.0, 0
	for _, v := range perResource {
		total += v
		if v > 0 {
			variety++
		}
	}
	return total, variety
}

func bestOpponent(g *GameState, c Color, score func(Color) float64) float64 {
	best := 0.0
	first := true
	for i := range g.Players {
		o := g.Players[i].Color
		if o == c {
			continue
		}
		if s := score(o); first || s > best {
			best = s
			first = false
		}
	}
	return best
}

// normalize maps two non-negative scores to (a-b)/(a+b) in [-1, 1].
func normalize(value, otherValue float64) float64 {
	total := value + otherValue
	if total == 0 {
		return 0
	}
	return (value - otherValue) / total
}
