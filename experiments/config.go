package experiments

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"time"

	"gopkg.in/yaml.v3"

	"freckers/experiments/metrics"
)

const (
	NumGames   = 20 // Per match up
	TimeBudget = 100 * time.Millisecond
)

var ErrInvalidConfig = errors.New("invalid experiment config")

// Config describes one experiment: the agents taking part and the pairs of agents that play each
// other. Matchups refer to agents by ID.
type Config struct {
	Name        string                `yaml:"name"`
	Games       int                   `yaml:"games"`
	Parallelism int                   `yaml:"parallelism"`
	Allowance   time.Duration         `yaml:"allowance,omitempty"`
	Agents      []metrics.AgentConfig `yaml:"agents"`
	Matchups    [][2]int              `yaml:"matchups"`
}

func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read experiment config: %w", err)
	}
	return ParseConfig(data)
}

func ParseConfig(data []byte) (Config, error) {
	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return Config{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if config.Games == 0 {
		config.Games = NumGames
	}
	if config.Parallelism == 0 {
		config.Parallelism = 1
	}
	return config, config.Validate()
}

func (c Config) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("%w: missing name", ErrInvalidConfig)
	}
	if c.Games < 1 || c.Parallelism < 1 || c.Allowance < 0 {
		return fmt.Errorf("%w: games and parallelism must be positive", ErrInvalidConfig)
	}
	ids := map[int]bool{}
	for _, agent := range c.Agents {
		if err := agent.Validate(); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
		}
		if ids[agent.ID] {
			return fmt.Errorf("%w: duplicate agent %d", ErrInvalidConfig, agent.ID)
		}
		ids[agent.ID] = true
	}
	if len(c.Matchups) == 0 {
		return fmt.Errorf("%w: no matchups", ErrInvalidConfig)
	}
	for _, matchup := range c.Matchups {
		for _, id := range matchup {
			if !ids[id] {
				return fmt.Errorf("%w: matchup %v refers to unknown agent %d", ErrInvalidConfig, matchup, id)
			}
		}
	}
	return nil
}

func (c Config) agent(id int) metrics.AgentConfig {
	for _, agent := range c.Agents {
		if agent.ID == id {
			return agent
		}
	}
	return metrics.AgentConfig{}
}

var builtins = map[string]func() Config{
	"depth":      depthConfig,
	"evaluation": evaluationConfig,
	"baseline":   baselineConfig,
}

// Builtin returns one of the predefined experiments.
func Builtin(name string) (Config, error) {
	build, ok := builtins[name]
	if !ok {
		return Config{}, fmt.Errorf("%w: unknown experiment %q (known: %v)", ErrInvalidConfig, name, BuiltinNames())
	}
	return build(), nil
}

func BuiltinNames() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// depthConfig pairs depth-limited searchers against an unlimited baseline with the same budget.
func depthConfig() Config {
	baseline := metrics.AgentConfig{ID: 0, Kind: metrics.KindSearch, MoveTime: TimeBudget, Evaluator: "progress"}
	config := Config{Name: "depth", Games: NumGames, Parallelism: 4, Agents: []metrics.AgentConfig{baseline}}
	for i, depth := range []int{1, 2, 3, 4} {
		agent := metrics.AgentConfig{ID: i + 1, Kind: metrics.KindSearch, MaxDepth: depth, MoveTime: TimeBudget, Evaluator: "progress"}
		config.Agents = append(config.Agents, agent)
		config.Matchups = append(config.Matchups, [2]int{baseline.ID, agent.ID})
	}
	return config
}

// evaluationConfig plays the evaluation functions against each other.
func evaluationConfig() Config {
	agents := []metrics.AgentConfig{
		{ID: 1, Kind: metrics.KindSearch, MoveTime: TimeBudget, Evaluator: "progress"},
		{ID: 2, Kind: metrics.KindSearch, MoveTime: TimeBudget, Evaluator: "mobility"},
		{ID: 3, Kind: metrics.KindSearch, MoveTime: TimeBudget, Evaluator: "greedy"},
	}
	return Config{
		Name:        "evaluation",
		Games:       NumGames,
		Parallelism: 4,
		Agents:      agents,
		Matchups:    [][2]int{{1, 2}, {1, 3}, {2, 3}},
	}
}

// baselineConfig measures the searcher against the one-ply and random baselines.
func baselineConfig() Config {
	agents := []metrics.AgentConfig{
		{ID: 1, Kind: metrics.KindSearch, MoveTime: TimeBudget, Evaluator: "progress", TieBreak: "random"},
		{ID: 2, Kind: metrics.KindGreedy, Evaluator: "greedy"},
		{ID: 3, Kind: metrics.KindGreedy, Evaluator: "greedy", Temperature: 1},
		{ID: 4, Kind: metrics.KindRandom},
	}
	return Config{
		Name:        "baseline",
		Games:       NumGames,
		Parallelism: 4,
		Agents:      agents,
		Matchups:    [][2]int{{1, 2}, {1, 3}, {1, 4}},
	}
}
