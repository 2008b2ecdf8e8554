package server

import (
	"encoding/json"
	"fmt"
	"strings"

	"catan/config"
	"catan/game"
)

type createGameRequest struct {
	Players []config.PlayerSpec `json:"players,omitempty"`
	Seed    *int64              `json:"seed,omitempty"`
}

type createGameResponse struct {
	GameID string `json:"game_id"`
}

type stateResponse struct {
	GameID     string          `json:"game_id"`
	StateIndex int             `json:"state_index"`
	State      *game.GameState `json:"state"`
	Winner     string          `json:"winner,omitempty"`
}

// actionRequest mirrors game.Action; an entirely empty request body
// means "let the acting bot decide".
type actionRequest struct {
	Color  string        `json:"color"`
	Type   string        `json:"type"`
	Node   int           `json:"node,omitempty"`
	Edge   int           `json:"edge,omitempty"`
	Tile   int           `json:"tile,omitempty"`
	Victim string        `json:"victim,omitempty"`
	Give   game.Resource `json:"give,omitempty"`
	Get    game.Resource `json:"get,omitempty"`
	Ratio  int           `json:"ratio,omitempty"`
}

func parseAction(body []byte) (game.Action, error) {
	var req actionRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return game.Action{}, err
	}
	color, ok := game.ColorFromName(strings.ToUpper(req.Color))
	if !ok {
		return game.Action{}, fmt.Errorf("unknown color %q", req.Color)
	}
	actionType, ok := game.ActionTypeFromName(strings.ToUpper(req.Type))
	if !ok {
		return game.Action{}, fmt.Errorf("unknown action type %q", req.Type)
	}
	action := game.Action{
		Color: color,
		Type:  actionType,
		Node:  req.Node,
		Edge:  req.Edge,
		Tile:  req.Tile,
		Give:  req.Give,
		Get:   req.Get,
		Ratio: req.Ratio,
	}
	if req.Victim != "" {
		victim, ok := game.ColorFromName(strings.ToUpper(req.Victim))
		if !ok {
			return game.Action{}, fmt.Errorf("unknown victim %q", req.Victim)
		}
		action.Victim = victim
	}
	return action, nil
}

type actionResponse struct {
	GameID     string          `json:"game_id"`
	Action     game.Action     `json:"action"`
	StateIndex int             `json:"state_index"`
	State      *game.GameState `json:"state"`
}
