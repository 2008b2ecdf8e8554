package player

import (
	"bytes"
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"catan/game"
)

// WebhookPlayer delegates decisions to a remote endpoint. It POSTs the
// state and the legal actions and expects back the index of the chosen
// one. Any failure, timeout or out-of-range answer falls back to the
// first legal action so a broken remote can never stall the game.
type WebhookPlayer struct {
	name   string
	url    string
	client *http.Client
}

func NewWebhookPlayer(name, url string, timeout time.Duration) *WebhookPlayer {
	return &WebhookPlayer{
		name:   name,
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

func (p *WebhookPlayer) Name() string { return p.name }

type webhookRequest struct {
	Color           game.Color      `json:"color"`
	GameState       *game.GameState `json:"game_state"`
	PlayableActions []game.Action   `json:"playable_actions"`
}

type webhookResponse struct {
	ActionIndex *int `json:"action_index"`
}

func (p *WebhookPlayer) Decide(state *game.GameState, legal []game.Action) game.Action {
	payload, err := json.Marshal(webhookRequest{
		Color:           state.ActingColor(),
		GameState:       state,
		PlayableActions: legal,
	})
	if err != nil {
		log.Warn().Err(err).Str("player", p.name).Msg("webhook payload encoding failed, falling back")
		return legal[0]
	}

	resp, err := p.client.Post(p.url, "application/json", bytes.NewBuffer(payload))
	if err != nil {
		log.Warn().Err(err).Str("player", p.name).Msg("webhook request failed, falling back")
		return legal[0]
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		log.Warn().Int("status", resp.StatusCode).Str("player", p.name).Msg("webhook rejected request, falling back")
		return legal[0]
	}

	var answer webhookResponse
	if err := json.NewDecoder(resp.Body).Decode(&answer); err != nil || answer.ActionIndex == nil {
		log.Warn().Err(err).Str("player", p.name).Msg("webhook answer unreadable, falling back")
		return legal[0]
	}
	index := *answer.ActionIndex
	if index < 0 || index >= len(legal) {
		log.Warn().Int("index", index).Str("player", p.name).Msg("webhook answer out of range, falling back")
		return legal[0]
	}
	return legal[index]
}
