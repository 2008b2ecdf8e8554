package experiments

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// GameRecord is one finished game. WinnerAgent is -1 when the move cap
// ended the game without a winner.
type GameRecord struct {
	ID          int
	Agent1      int
	Agent2      int
	WinnerAgent int
	Moves       int
	Duration    time.Duration
}

// Writer lays experiment results out as CSV files under a timestamped
// directory.
type Writer struct {
	baseDir string
}

func NewWriter(experiment string) (*Writer, error) {
	timestamp := time.Now().UTC().Format(time.RFC3339)
	baseDir := filepath.Join("results", experiment, timestamp)
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create results directory: %w", err)
	}
	return &Writer{baseDir: baseDir}, nil
}

func (w *Writer) WriteAgentConfigs(configs []AgentConfig) error {
	f, err := os.Create(filepath.Join(w.baseDir, "agent_configs.csv"))
	if err != nil {
		return fmt.Errorf("failed to create agent configs file: %w", err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	defer writer.Flush()

	if err := writer.Write([]string{"id", "kind", "max_depth", "goroutines", "budget"}); err != nil {
		return err
	}
	for _, c := range configs {
		row := []string{
			strconv.Itoa(c.ID),
			c.Kind,
			strconv.Itoa(c.MaxDepth),
			strconv.Itoa(c.Goroutines),
			c.Budget.String(),
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}
	return nil
}

func (w *Writer) WriteGameRecords(records []GameRecord) error {
	f, err := os.Create(filepath.Join(w.baseDir, "games.csv"))
	if err != nil {
		return fmt.Errorf("failed to create games file: %w", err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	defer writer.Flush()

	if err := writer.Write([]string{"id", "agent1", "agent2", "winner_agent", "moves", "duration_ms"}); err != nil {
		return err
	}
	for _, r := range records {
		row := []string{
			strconv.Itoa(r.ID),
			strconv.Itoa(r.Agent1),
			strconv.Itoa(r.Agent2),
			strconv.Itoa(r.WinnerAgent),
			strconv.Itoa(r.Moves),
			strconv.FormatInt(r.Duration.Milliseconds(), 10),
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}
	return nil
}
