package metrics

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestCollector(t *testing.T) {
	c := NewCollector()
	c.Start(4)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				c.AddNode()
			}
		}()
	}
	wg.Wait()
	c.AddAnomaly()
	c.SetResult(3, 7, true, 1.5)

	metric := c.Complete()
	require.Equal(t, 4, metric.MaxDepth)
	require.Equal(t, 7, metric.Candidates)
	require.Equal(t, 800, metric.Nodes)
	require.Equal(t, 1, metric.Anomalies)
	require.Equal(t, 3, metric.Depth)
	require.True(t, metric.Partial)
	require.Equal(t, 1.5, metric.Score)

	c.Start(2)
	require.Zero(t, c.Complete().Nodes, "Start resets the counters")
}

func TestDummyCollector(t *testing.T) {
	c := NewDummyCollector()
	c.Start(4)
	c.AddNode()
	c.SetResult(3, 7, false, 1)
	require.Equal(t, SearchMetric{}, c.Complete())
}

func TestAgentConfigValidate(t *testing.T) {
	require.NoError(t, AgentConfig{ID: 1, Kind: KindSearch, TieBreak: "random"}.Validate())
	require.NoError(t, AgentConfig{ID: 1, Kind: KindRandom}.Validate())
	require.Error(t, AgentConfig{ID: 1, Kind: "oracle"}.Validate())
	require.Error(t, AgentConfig{ID: 1, Kind: KindGreedy, Temperature: -1}.Validate())
	require.Error(t, AgentConfig{ID: 1, Kind: KindSearch, TieBreak: "last"}.Validate())
}

func TestWriter(t *testing.T) {
	root := t.TempDir()
	w, err := NewWriter(root, "unit")
	require.NoError(t, err)
	require.Equal(t, filepath.Join(root, "unit", w.RunID.String()), w.Dir())

	other, err := NewWriter(root, "unit")
	require.NoError(t, err)
	require.NotEqual(t, w.Dir(), other.Dir(), "every run gets its own directory")

	start := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, w.WriteAgentConfigs([]AgentConfig{{ID: 1, Kind: KindSearch, MaxDepth: 3, MoveTime: time.Second}}))
	require.NoError(t, w.WriteGameRecords([]GameRecord{{
		ID: 1, Agent1: 1, Agent2: 2, Agent1Plays: "RED", Seed: 42,
		GameMetric: GameMetric{MatchID: "m", StartingPlayer: "RED", Winner: "BLUE", Reason: "goal", StartTime: start, EndTime: start.Add(time.Minute), Duration: time.Minute, TotalMoves: 80},
	}}))
	require.NoError(t, w.WriteMoveRecords([]MoveRecord{{
		Game:       1,
		MoveMetric: MoveMetric{Step: 1, Player: "RED", Action: "GROW", SearchMetric: SearchMetric{Nodes: 10, Depth: 2, Score: -0.5}},
	}}))
	require.NoError(t, w.WriteThroughputRecords([]ThroughputRecord{{Agent: 1, Positions: 2, Nodes: 1000, Duration: time.Second, MeanDepth: 3}}))

	read := func(file string) [][]string {
		f, err := os.Open(filepath.Join(w.Dir(), file))
		require.NoError(t, err)
		defer f.Close()
		records, err := csv.NewReader(f).ReadAll()
		require.NoError(t, err)
		return records
	}

	configs := read("agent_configs.csv")
	require.Equal(t, []string{"1", "search", "3", "1s", "", "", "0"}, configs[1])

	games := read("game_records.csv")
	require.Len(t, games, 2)
	require.Equal(t, "42", games[1][5])
	require.Equal(t, "BLUE", games[1][7])
	require.Equal(t, "2025-05-01T12:00:00Z", games[1][9])

	moves := read("move_records.csv")
	require.Equal(t, []string{"1", "1", "RED", "GROW", "0s", "10", "2", "false", "0", "0", "-0.5"}, moves[1])

	throughput := read("throughput_records.csv")
	require.Equal(t, "1000.0", throughput[1][4])
}

func TestNodesPerSecond(t *testing.T) {
	require.Zero(t, ThroughputRecord{Nodes: 10}.NodesPerSecond())
	require.Equal(t, 500.0, ThroughputRecord{Nodes: 1000, Duration: 2 * time.Second}.NodesPerSecond())
}
