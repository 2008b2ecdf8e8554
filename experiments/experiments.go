// Package experiments runs self-play match-ups between decision-maker
// configurations and writes the results as CSV for offline analysis.
package experiments

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"catan/config"
	"catan/engine"
	"catan/game"
	"catan/player"
	"catan/searcher"
)

// AgentConfig describes one search configuration under test. Kind
// "random" and "first" ignore the search fields.
type AgentConfig struct {
	ID         int
	Kind       string
	MaxDepth   int
	Goroutines int
	Budget     time.Duration
}

// RunDepthExperiment pits searchers of increasing depth against the
// random baseline.
func RunDepthExperiment(gamesPerMatchUp int, cfg config.GameConfig) error {
	budget := 2 * time.Second
	baseline := AgentConfig{ID: 0, Kind: "random"}
	depthConfigs := []AgentConfig{
		{ID: 1, Kind: "search", MaxDepth: 1, Goroutines: 1, Budget: budget},
		{ID: 2, Kind: "search", MaxDepth: 2, Goroutines: 1, Budget: budget},
		{ID: 3, Kind: "search", MaxDepth: 3, Goroutines: 1, Budget: budget},
		{ID: 4, Kind: "search", MaxDepth: 4, Goroutines: 1, Budget: budget},
	}

	matchUps := [][2]AgentConfig{}
	for _, c := range depthConfigs {
		matchUps = append(matchUps, [2]AgentConfig{baseline, c})
	}
	return runExperiment("depth_to_strength", append(depthConfigs, baseline), matchUps, gamesPerMatchUp, cfg)
}

// RunParallelizationExperiment pits root-parallel searchers against the
// sequential searcher at the same depth and budget.
func RunParallelizationExperiment(gamesPerMatchUp int, cfg config.GameConfig) error {
	budget := 500 * time.Millisecond
	baseline := AgentConfig{ID: 0, Kind: "search", MaxDepth: 3, Goroutines: 1, Budget: budget}
	parallelConfigs := []AgentConfig{
		{ID: 1, Kind: "search", MaxDepth: 3, Goroutines: 2, Budget: budget},
		{ID: 2, Kind: "search", MaxDepth: 3, Goroutines: 4, Budget: budget},
		{ID: 3, Kind: "search", MaxDepth: 3, Goroutines: 8, Budget: budget},
	}

	matchUps := [][2]AgentConfig{}
	for _, c := range parallelConfigs {
		matchUps = append(matchUps, [2]AgentConfig{baseline, c})
	}
	return runExperiment("parallelization_to_strength", append(parallelConfigs, baseline), matchUps, gamesPerMatchUp, cfg)
}

func runExperiment(name string, configs []AgentConfig, matchUps [][2]AgentConfig, gamesPerMatchUp int, cfg config.GameConfig) error {
	writer, err := NewWriter(name)
	if err != nil {
		return err
	}
	if err := writer.WriteAgentConfigs(configs); err != nil {
		return err
	}

	records := []GameRecord{}
	count := 0
	for _, matchUp := range matchUps {
		for i := 0; i < gamesPerMatchUp; i++ {
			count++
			// Alternate seats so neither config always opens.
			first, second := matchUp[0], matchUp[1]
			if i%2 == 1 {
				first, second = second, first
			}
			record, err := runGame(count, first, second, cfg, int64(count))
			if err != nil {
				return err
			}
			records = append(records, record)
			log.Info().Int("game", count).Str("experiment", name).
				Msgf("winner agent %d after %d moves", record.WinnerAgent, record.Moves)
		}
	}
	return writer.WriteGameRecords(records)
}

func runGame(id int, first, second AgentConfig, cfg config.GameConfig, seed int64) (GameRecord, error) {
	colors := []game.Color{game.Red, game.Blue}
	players := map[game.Color]player.DecisionMaker{
		colors[0]: buildAgent(first),
		colors[1]: buildAgent(second),
	}

	state := game.NewGameState(colors, cfg.Seed+seed, cfg.VictoryThreshold, cfg.DiscardLimit)
	g := engine.New(state, players)

	start := time.Now()
	winner, err := g.Run()
	if err != nil {
		return GameRecord{}, err
	}

	record := GameRecord{
		ID:          id,
		Agent1:      first.ID,
		Agent2:      second.ID,
		WinnerAgent: -1,
		Moves:       g.Moves(),
		Duration:    time.Since(start),
	}
	switch winner {
	case colors[0]:
		record.WinnerAgent = first.ID
	case colors[1]:
		record.WinnerAgent = second.ID
	}
	return record, nil
}

func buildAgent(c AgentConfig) player.DecisionMaker {
	name := fmt.Sprintf("agent-%d", c.ID)
	switch c.Kind {
	case "search":
		ab := searcher.NewAlphaBeta(
			searcher.WithMaxDepth(c.MaxDepth),
			searcher.WithGoroutines(c.Goroutines),
		)
		return player.NewSearchPlayer(name, ab, c.Budget)
	case "first":
		return player.NewFirstActionPlayer(name)
	default:
		return player.NewRandomPlayer(name)
	}
}
