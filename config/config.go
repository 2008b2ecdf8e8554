// Package config loads the runtime configuration: game rules, per-color
// decision makers and the serving/persistence settings.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"catan/game"
)

type Config struct {
	Game    GameConfig   `yaml:"game"`
	Search  SearchConfig `yaml:"search"`
	Server  ServerConfig `yaml:"server"`
	Players []PlayerSpec `yaml:"players"`
}

type GameConfig struct {
	Seed             int64 `yaml:"seed"`
	VictoryThreshold int   `yaml:"victory_threshold"`
	DiscardLimit     int   `yaml:"discard_limit"`
}

type SearchConfig struct {
	MaxDepth   int      `yaml:"max_depth"`
	Budget     Duration `yaml:"budget"`
	Goroutines int      `yaml:"goroutines"`
}

// Duration parses "2s"/"500ms" style values from YAML.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var text string
	if err := value.Decode(&text); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(text)
	if err != nil {
		return fmt.Errorf("duration %q: %w", text, err)
	}
	*d = Duration(parsed)
	return nil
}

type ServerConfig struct {
	Addr   string `yaml:"addr"`
	DBPath string `yaml:"db_path"`
}

// PlayerSpec binds one color to a decision maker kind: "search",
// "random", "first" or "webhook" (with URL).
type PlayerSpec struct {
	Color   string   `yaml:"color"`
	Kind    string   `yaml:"kind"`
	URL     string   `yaml:"url,omitempty"`
	Timeout Duration `yaml:"timeout,omitempty"`
}

// Load reads the configuration at path, falling back to defaults when
// path is empty.
func Load(path string) (Config, error) {
	cfg := Defaults()
	if strings.TrimSpace(path) == "" {
		return cfg, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

func Defaults() Config {
	return Config{
		Game: GameConfig{
			Seed:             1,
			VictoryThreshold: 10,
			DiscardLimit:     7,
		},
		Search: SearchConfig{
			MaxDepth:   4,
			Budget:     Duration(2 * time.Second),
			Goroutines: 1,
		},
		Server: ServerConfig{
			Addr:   ":8080",
			DBPath: "games.db",
		},
		Players: []PlayerSpec{
			{Color: "red", Kind: "search"},
			{Color: "blue", Kind: "random"},
		},
	}
}

func (c Config) Validate() error {
	if c.Game.VictoryThreshold < 3 {
		return fmt.Errorf("victory_threshold %d too low", c.Game.VictoryThreshold)
	}
	if c.Game.DiscardLimit < 1 {
		return fmt.Errorf("discard_limit %d too low", c.Game.DiscardLimit)
	}
	if c.Search.MaxDepth < 1 {
		return fmt.Errorf("search max_depth %d too low", c.Search.MaxDepth)
	}
	if c.Search.Budget <= 0 {
		return fmt.Errorf("search budget must be positive")
	}
	if len(c.Players) < 2 || len(c.Players) > 4 {
		return fmt.Errorf("need 2 to 4 players, got %d", len(c.Players))
	}
	seen := map[game.Color]bool{}
	for _, p := range c.Players {
		color, ok := game.ColorFromName(strings.ToUpper(p.Color))
		if !ok {
			return fmt.Errorf("unknown color %q", p.Color)
		}
		if seen[color] {
			return fmt.Errorf("duplicate color %s", p.Color)
		}
		seen[color] = true
		switch p.Kind {
		case "search", "random", "first":
		case "webhook":
			if p.URL == "" {
				return fmt.Errorf("webhook player %s needs a url", p.Color)
			}
		default:
			return fmt.Errorf("unknown player kind %q", p.Kind)
		}
	}
	return nil
}

// Colors returns the configured colors in turn order.
func (c Config) Colors() []game.Color {
	colors := make([]game.Color, len(c.Players))
	for i, p := range c.Players {
		colors[i], _ = game.ColorFromName(strings.ToUpper(p.Color))
	}
	return colors
}
