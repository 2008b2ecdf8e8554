// Package analytics condenses a game state into the summary served next
// to it: per-player standings, board production stats and the described
// legal actions.
package analytics

import (
	"catan/game"
)

// PlayerSummary is the public standing of one color. Hidden hand
// details stay out; victory points include hidden cards because the
// summary is a post-game and debugging surface, not a player view.
type PlayerSummary struct {
	VictoryPoints   int `json:"victory_points"`
	Resources       int `json:"resources"`
	DevCards        int `json:"dev_cards"`
	RoadsLeft       int `json:"roads_left"`
	SettlementsLeft int `json:"settlements_left"`
	CitiesLeft      int `json:"cities_left"`
}

// BoardSummary captures the per-color board strength numbers the
// position evaluator also looks at.
type BoardSummary struct {
	ExpectedProduction float64  `json:"expected_production"`
	ResourceVariety    int      `json:"resource_variety"`
	Ports              []string `json:"ports"`
}

// ActionSummary is one legal action with a human-readable description.
type ActionSummary struct {
	Action      game.Action `json:"action"`
	Description string      `json:"description"`
}

type Summary struct {
	Players          map[string]PlayerSummary `json:"players"`
	Board            map[string]BoardSummary  `json:"board"`
	RobberTile       int                      `json:"robber_tile"`
	LongestRoadColor string                   `json:"longest_road_color"`
	LargestArmyColor string                   `json:"largest_army_color"`
	AvailableActions []ActionSummary          `json:"available_actions"`
}

// Build summarizes state and its legal actions.
func Build(state *game.GameState, legal []game.Action) Summary {
	players := make(map[string]PlayerSummary, len(state.Players))
	board := make(map[string]BoardSummary, len(state.Players))
	longestRoad := ""
	largestArmy := ""

	for i := range state.Players {
		p := &state.Players[i]
		name := p.Color.String()

		devCards := 0
		for kind := range p.DevCards {
			devCards += p.DevCards[kind] + p.NewDevCards[kind]
		}
		players[name] = PlayerSummary{
			VictoryPoints:   state.VictoryPoints(p.Color),
			Resources:       p.TotalResources(),
			DevCards:        devCards,
			RoadsLeft:       p.RoadsLeft,
			SettlementsLeft: p.SettlementsLeft,
			CitiesLeft:      p.CitiesLeft,
		}
		board[name] = boardStats(state, p.Color)

		if p.HasLongestRoad {
			longestRoad = name
		}
		if p.HasLargestArmy {
			largestArmy = name
		}
	}

	actions := make([]ActionSummary, len(legal))
	for i, a := range legal {
		actions[i] = ActionSummary{Action: a, Description: a.String()}
	}

	return Summary{
		Players:          players,
		Board:            board,
		RobberTile:       state.Board.RobberTile,
		LongestRoadColor: longestRoad,
		LargestArmyColor: largestArmy,
		AvailableActions: actions,
	}
}

func boardStats(state *game.GameState, c game.Color) BoardSummary {
	var perResource [game.NumResources]float64
	for n, bl := range state.Board.Buildings {
		if bl.Color != c {
			continue
		}
		weight := 1.0
		if bl.Kind == game.CityBuilding {
			weight = 2.0
		}
		for r, v := range state.Map.NodeProduction(n) {
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

	var ports []string
	for _, p := range state.Board.AccessiblePorts(c) {
		if p.Generic {
			ports = append(ports, "3:1")
		} else {
			ports = append(ports, p.Resource.String())
		}
	}

	return BoardSummary{
		ExpectedProduction: total,
		ResourceVariety:    variety,
		Ports:              ports,
	}
}
