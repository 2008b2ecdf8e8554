package player

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"catan/game"
)

func TestWebhookPlayer(t *testing.T) {
	state := game.NewGameState([]game.Color{game.Red, game.Blue}, 3, 10, 7)
	legal := state.LegalActions()
	require.NotEmpty(t, legal)

	t.Run("playing the action the remote picked", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var request webhookRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&request))
			require.Equal(t, game.Red, request.Color, "The acting color travels with the request")
			require.Len(t, request.PlayableActions, len(legal), "All legal actions travel with the request")

			index := len(legal) - 1
			json.NewEncoder(w).Encode(webhookResponse{ActionIndex: &index})
		}))
		defer server.Close()

		p := NewWebhookPlayer("remote", server.URL, time.Second)
		require.Equal(t, legal[len(legal)-1], p.Decide(state, legal), "The remote's index selects the action")
	})

	t.Run("falling back when the remote is unreachable", func(t *testing.T) {
		p := NewWebhookPlayer("remote", "http://127.0.0.1:1", 50*time.Millisecond)
		require.Equal(t, legal[0], p.Decide(state, legal), "Connection failures play the first legal action")
	})

	t.Run("falling back on a non-200 answer", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		p := NewWebhookPlayer("remote", server.URL, time.Second)
		require.Equal(t, legal[0], p.Decide(state, legal), "Server errors play the first legal action")
	})

	t.Run("falling back on an out-of-range index", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			index := len(legal)
			json.NewEncoder(w).Encode(webhookResponse{ActionIndex: &index})
		}))
		defer server.Close()

		p := NewWebhookPlayer("remote", server.URL, time.Second)
		require.Equal(t, legal[0], p.Decide(state, legal), "Nonsense answers play the first legal action")
	})

	t.Run("falling back when the answer has no index", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{}`))
		}))
		defer server.Close()

		p := NewWebhookPlayer("remote", server.URL, time.Second)
		require.Equal(t, legal[0], p.Decide(state, legal), "A missing index plays the first legal action")
	})
}
