package server

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"catan/analytics"
	"catan/game"
	"catan/store"
)

// NewRouter wires the HTTP API around a session manager.
func NewRouter(m *Manager) *gin.Engine {
	r := gin.Default()

	api := r.Group("/api")
	api.POST("/games", createGameHandler(m))
	api.GET("/games/:id/states/:index", stateHandler(m))
	api.POST("/games/:id/actions", actionHandler(m))
	api.GET("/games/:id/analytics", analyticsHandler(m))

	return r
}

func createGameHandler(m *Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createGameRequest
		if c.Request.ContentLength > 0 {
			if err := c.BindJSON(&req); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
		}
		g, err := m.Create(c.Request.Context(), req.Players, req.Seed)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, createGameResponse{GameID: g.ID})
	}
}

func stateHandler(m *Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		index := -1
		if raw := c.Param("index"); raw != "latest" {
			parsed, err := strconv.Atoi(raw)
			if err != nil || parsed < 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "index must be a non-negative integer or 'latest'"})
				return
			}
			index = parsed
		}

		state, storedIndex, err := m.Snapshot(c.Request.Context(), id, index)
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "game state not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		resp := stateResponse{GameID: id, StateIndex: storedIndex, State: state}
		if winner := state.Winner(); winner != game.NoColor {
			resp.Winner = winner.String()
		}
		c.JSON(http.StatusOK, resp)
	}
}

func actionHandler(m *Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")

		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		// An empty body asks the acting color's bot to play.
		if len(strings.TrimSpace(string(body))) == 0 {
			state, action, err := m.Tick(c.Request.Context(), id)
			if err != nil {
				statusForActionError(c, err)
				return
			}
			c.JSON(http.StatusOK, actionResponse{GameID: id, Action: action, StateIndex: len(state.Log), State: state})
			return
		}

		action, err := parseAction(body)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		state, err := m.Apply(c.Request.Context(), id, action)
		if err != nil {
			statusForActionError(c, err)
			return
		}
		c.JSON(http.StatusOK, actionResponse{GameID: id, Action: action, StateIndex: len(state.Log), State: state})
	}
}

func analyticsHandler(m *Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		state, ok := m.Live(id)
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "game not found"})
			return
		}
		c.JSON(http.StatusOK, analytics.Build(state, state.LegalActions()))
	}
}

func statusForActionError(c *gin.Context, err error) {
	var illegal *game.IllegalActionError
	switch {
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "game not found"})
	case errors.As(err, &illegal):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	}
}
