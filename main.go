package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"catan/config"
	"catan/engine"
	"catan/experiments"
	"catan/game"
	"catan/player"
	"catan/server"
	"catan/store"
)

func main() {
	configPath := flag.String("config", "", "path to config.yaml")
	serve := flag.Bool("serve", false, "run the HTTP API server")
	experiment := flag.String("experiment", "", "run an experiment: depth or parallel")
	games := flag.Int("games", 10, "games per experiment match-up")
	debug := flag.Bool("debug", false, "verbose logging")
	flag.Parse()

	level := zerolog.InfoLevel
	if *debug {
		level = zerolog.DebugLevel
	}
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		Level(level).With().Timestamp().Logger()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	switch {
	case *serve:
		runServer(cfg)
	case *experiment != "":
		runExperiment(*experiment, *games, cfg)
	default:
		runSelfPlay(cfg)
	}
}

func runServer(cfg config.Config) {
	st, err := store.Open(cfg.Server.DBPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open store")
	}
	defer st.Close()

	router := server.NewRouter(server.NewManager(cfg, st))
	log.Info().Str("addr", cfg.Server.Addr).Msg("serving HTTP API")
	if err := router.Run(cfg.Server.Addr); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func runExperiment(name string, games int, cfg config.Config) {
	var err error
	switch name {
	case "depth":
		err = experiments.RunDepthExperiment(games, cfg.Game)
	case "parallel":
		err = experiments.RunParallelizationExperiment(games, cfg.Game)
	default:
		err = fmt.Errorf("unknown experiment %q", name)
	}
	if err != nil {
		log.Fatal().Err(err).Msg("experiment failed")
	}
}

func runSelfPlay(cfg config.Config) {
	players := make(map[game.Color]player.DecisionMaker, len(cfg.Players))
	for _, spec := range cfg.Players {
		color, _ := game.ColorFromName(strings.ToUpper(spec.Color))
		dm, err := player.FromSpec(spec, cfg.Search)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to build players")
		}
		players[color] = dm
	}

	state := game.NewGameState(cfg.Colors(), cfg.Game.Seed, cfg.Game.VictoryThreshold, cfg.Game.DiscardLimit)
	g := engine.New(state, players)

	winner, err := g.Run()
	if err != nil {
		log.Fatal().Err(err).Msg("game failed")
	}
	if winner == game.NoColor {
		fmt.Printf("No winner after %d moves\n", g.Moves())
		return
	}
	fmt.Printf("%s wins with %d points after %d moves\n",
		winner, g.State.VictoryPoints(winner), g.Moves())
}
