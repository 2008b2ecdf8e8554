package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"catan/config"
	"catan/game"
	"catan/store"
)

func newTestRouter(t *testing.T) (*gin.Engine, *Manager) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	st, err := store.Open(filepath.Join(t.TempDir(), "games.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	cfg := config.Defaults()
	cfg.Players = []config.PlayerSpec{
		{Color: "red", Kind: "first"},
		{Color: "blue", Kind: "first"},
	}
	m := NewManager(cfg, st)
	return NewRouter(m), m
}

func createGame(t *testing.T, router *gin.Engine) string {
	t.Helper()
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/games", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var resp createGameResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.GameID)
	return resp.GameID
}

func TestCreateGame(t *testing.T) {
	t.Run("creating a game with the configured players", func(t *testing.T) {
		router, m := newTestRouter(t)

		id := createGame(t, router)

		state, ok := m.Live(id)
		require.True(t, ok, "The game is registered")
		require.Len(t, state.Players, 2)
	})

	t.Run("rejecting an invalid player list", func(t *testing.T) {
		router, _ := newTestRouter(t)
		body := `{"players":[{"color":"pink","kind":"random"},{"color":"red","kind":"random"}]}`

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/games", bytes.NewBufferString(body)))

		require.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestStateEndpoint(t *testing.T) {
	t.Run("serving the initial snapshot and the latest alias", func(t *testing.T) {
		router, _ := newTestRouter(t)
		id := createGame(t, router)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/games/"+id+"/states/0", nil))
		require.Equal(t, http.StatusOK, w.Code)

		var resp stateResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.Equal(t, 0, resp.StateIndex)
		require.Equal(t, game.InitialPlacementRound1, resp.State.Phase)

		w = httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/games/"+id+"/states/latest", nil))
		require.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("answering 404 for unknown games and indexes", func(t *testing.T) {
		router, _ := newTestRouter(t)
		id := createGame(t, router)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/games/nope/states/latest", nil))
		require.Equal(t, http.StatusNotFound, w.Code)

		w = httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/games/"+id+"/states/99", nil))
		require.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestActionEndpoint(t *testing.T) {
	t.Run("ticking the acting bot on an empty body", func(t *testing.T) {
		router, _ := newTestRouter(t)
		id := createGame(t, router)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/games/"+id+"/actions", nil))
		require.Equal(t, http.StatusOK, w.Code)

		var resp actionResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.Equal(t, game.BuildSettlement, resp.Action.Type, "The game opens with an initial settlement")
		require.Equal(t, 1, resp.StateIndex)
	})

	t.Run("applying a submitted legal action", func(t *testing.T) {
		router, m := newTestRouter(t)
		id := createGame(t, router)

		state, _ := m.Live(id)
		legal := state.LegalActions()[0]
		body := fmt.Sprintf(`{"color":"red","type":"BUILD_SETTLEMENT","node":%d}`, legal.Node)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/games/"+id+"/actions", bytes.NewBufferString(body)))
		require.Equal(t, http.StatusOK, w.Code)

		state, _ = m.Live(id)
		require.Len(t, state.Log, 1, "The submitted action was applied")
	})

	t.Run("rejecting an illegal submitted action", func(t *testing.T) {
		router, _ := newTestRouter(t)
		id := createGame(t, router)
		body := `{"color":"blue","type":"END_TURN"}`

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/games/"+id+"/actions", bytes.NewBufferString(body)))
		require.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestAnalyticsEndpoint(t *testing.T) {
	t.Run("summarizing a live game", func(t *testing.T) {
		router, _ := newTestRouter(t)
		id := createGame(t, router)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/games/"+id+"/analytics", nil))
		require.Equal(t, http.StatusOK, w.Code)

		var summary map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &summary))
		require.Contains(t, summary, "players")
		require.Contains(t, summary, "available_actions")
	})
}
