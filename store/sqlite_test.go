package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"catan/game"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "games.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStore(t *testing.T) {
	ctx := context.Background()

	t.Run("round-tripping a snapshot", func(t *testing.T) {
		s := openStore(t)
		state := game.NewGameState([]game.Color{game.Red, game.Blue}, 21, 10, 7)

		require.NoError(t, s.SaveState(ctx, "game-1", 0, state))

		loaded, index, err := s.State(ctx, "game-1", 0)
		require.NoError(t, err)
		require.Equal(t, 0, index)
		require.Equal(t, state.Hash(), loaded.Hash(), "The loaded state is the stored state")
		require.NotNil(t, loaded.Board.Map, "Rebinding restores the board's map reference")
		require.NotEmpty(t, loaded.LegalActions(), "The loaded state is playable")
	})

	t.Run("loading the latest snapshot with a negative index", func(t *testing.T) {
		s := openStore(t)
		first := game.NewGameState([]game.Color{game.Red, game.Blue}, 21, 10, 7)
		second, _, err := first.Apply(first.LegalActions()[0])
		require.NoError(t, err)

		require.NoError(t, s.SaveState(ctx, "game-1", 0, first))
		require.NoError(t, s.SaveState(ctx, "game-1", 1, second))

		loaded, index, err := s.State(ctx, "game-1", -1)
		require.NoError(t, err)
		require.Equal(t, 1, index, "The latest snapshot has the highest index")
		require.Equal(t, second.Hash(), loaded.Hash())

		latest, err := s.LatestIndex(ctx, "game-1")
		require.NoError(t, err)
		require.Equal(t, 1, latest)
	})

	t.Run("reporting missing games", func(t *testing.T) {
		s := openStore(t)

		_, _, err := s.State(ctx, "nope", -1)
		require.ErrorIs(t, err, ErrNotFound)

		_, err = s.LatestIndex(ctx, "nope")
		require.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("replacing a snapshot at the same index", func(t *testing.T) {
		s := openStore(t)
		first := game.NewGameState([]game.Color{game.Red, game.Blue}, 21, 10, 7)
		second, _, err := first.Apply(first.LegalActions()[0])
		require.NoError(t, err)

		require.NoError(t, s.SaveState(ctx, "game-1", 0, first))
		require.NoError(t, s.SaveState(ctx, "game-1", 0, second))

		loaded, _, err := s.State(ctx, "game-1", 0)
		require.NoError(t, err)
		require.Equal(t, second.Hash(), loaded.Hash(), "The newer snapshot wins")
	})
}
