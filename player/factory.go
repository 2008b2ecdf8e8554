package player

import (
	"fmt"
	"time"

	"catan/config"
	"catan/searcher"
)

const defaultWebhookTimeout = 5 * time.Second

// FromSpec builds the decision maker a configuration entry describes.
func FromSpec(spec config.PlayerSpec, search config.SearchConfig) (DecisionMaker, error) {
	name := spec.Color + "-" + spec.Kind
	switch spec.Kind {
	case "search":
		ab := searcher.NewAlphaBeta(
			searcher.WithMaxDepth(search.MaxDepth),
			searcher.WithGoroutines(search.Goroutines),
		)
		return NewSearchPlayer(name, ab, time.Duration(search.Budget)), nil
	case "random":
		return NewRandomPlayer(name), nil
	case "first":
		return NewFirstActionPlayer(name), nil
	case "webhook":
		timeout := time.Duration(spec.Timeout)
		if timeout <= 0 {
			timeout = defaultWebhookTimeout
		}
		return NewWebhookPlayer(name, spec.URL, timeout), nil
	default:
		return nil, fmt.Errorf("unknown player kind %q", spec.Kind)
	}
}
