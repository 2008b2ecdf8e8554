package server

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"

	"catan/config"
	"catan/engine"
	"catan/game"
	"catan/player"
	"catan/store"
)

// session serializes access to one live game.
type session struct {
	mu   sync.Mutex
	game *engine.Game
}

// Manager owns the live game sessions and their persisted snapshots.
type Manager struct {
	cfg   config.Config
	store *store.Store

	mu    sync.Mutex
	games map[string]*session
}

func NewManager(cfg config.Config, st *store.Store) *Manager {
	return &Manager{
		cfg:   cfg,
		store: st,
		games: make(map[string]*session),
	}
}

// Create starts a new game. Empty specs fall back to the configured
// players; a nil seed falls back to the configured map seed.
func (m *Manager) Create(ctx context.Context, specs []config.PlayerSpec, seed *int64) (*engine.Game, error) {
	if len(specs) == 0 {
		specs = m.cfg.Players
	}
	probe := m.cfg
	probe.Players = specs
	if err := probe.Validate(); err != nil {
		return nil, err
	}

	players := make(map[game.Color]player.DecisionMaker, len(specs))
	colors := make([]game.Color, len(specs))
	for i, spec := range specs {
		color, _ := game.ColorFromName(strings.ToUpper(spec.Color))
		dm, err := player.FromSpec(spec, m.cfg.Search)
		if err != nil {
			return nil, err
		}
		colors[i] = color
		players[color] = dm
	}

	mapSeed := m.cfg.Game.Seed
	if seed != nil {
		mapSeed = *seed
	}
	state := game.NewGameState(colors, mapSeed, m.cfg.Game.VictoryThreshold, m.cfg.Game.DiscardLimit)
	g := engine.New(state, players)

	if err := m.store.SaveState(ctx, g.ID, 0, g.State); err != nil {
		return nil, fmt.Errorf("persist initial state: %w", err)
	}

	m.mu.Lock()
	m.games[g.ID] = &session{game: g}
	m.mu.Unlock()

	log.Info().Str("game", g.ID).Int("players", len(colors)).Msg("game created")
	return g, nil
}

func (m *Manager) session(id string) (*session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.games[id]
	return s, ok
}

// Tick lets the acting color's decision maker play one action.
func (m *Manager) Tick(ctx context.Context, id string) (*game.GameState, game.Action, error) {
	s, ok := m.session(id)
	if !ok {
		return nil, game.Action{}, store.ErrNotFound
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	action, err := s.game.Step()
	if err != nil {
		return nil, game.Action{}, err
	}
	if err := m.store.SaveState(ctx, id, s.game.Moves(), s.game.State); err != nil {
		return nil, game.Action{}, fmt.Errorf("persist state: %w", err)
	}
	return s.game.State, action, nil
}

// Apply plays one externally submitted action.
func (m *Manager) Apply(ctx context.Context, id string, action game.Action) (*game.GameState, error) {
	s, ok := m.session(id)
	if !ok {
		return nil, store.ErrNotFound
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.game.Play(action); err != nil {
		return nil, err
	}
	if err := m.store.SaveState(ctx, id, s.game.Moves(), s.game.State); err != nil {
		return nil, fmt.Errorf("persist state: %w", err)
	}
	return s.game.State, nil
}

// Live returns the in-memory state of a running game.
func (m *Manager) Live(id string) (*game.GameState, bool) {
	s, ok := m.session(id)
	if !ok {
		return nil, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.game.State, true
}

// Snapshot loads a persisted state; index -1 means latest.
func (m *Manager) Snapshot(ctx context.Context, id string, index int) (*game.GameState, int, error) {
	return m.store.State(ctx, id, index)
}
