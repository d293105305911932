package metrics

import (
	"fmt"
	"time"
)

// Agent kinds.
const (
	KindSearch = "search"
	KindGreedy = "greedy"
	KindRandom = "random"
)

type AgentConfig struct {
	ID          int           `yaml:"id"`
	Kind        string        `yaml:"kind"`
	MaxDepth    int           `yaml:"maxDepth,omitempty"`
	MoveTime    time.Duration `yaml:"moveTime,omitempty"`
	Evaluator   string        `yaml:"evaluator,omitempty"`
	TieBreak    string        `yaml:"tieBreak,omitempty"`
	Temperature float64       `yaml:"temperature,omitempty"`
}

func (c AgentConfig) Validate() error {
	switch c.Kind {
	case KindSearch, KindGreedy, KindRandom:
	default:
		return fmt.Errorf("agent %d: unknown kind %q", c.ID, c.Kind)
	}
	if c.MaxDepth < 0 || c.MoveTime < 0 || c.Temperature < 0 {
		return fmt.Errorf("agent %d: negative setting", c.ID)
	}
	switch c.TieBreak {
	case "", "first", "random":
	default:
		return fmt.Errorf("agent %d: unknown tie break %q", c.ID, c.TieBreak)
	}
	return nil
}
