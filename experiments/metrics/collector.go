package metrics

import (
	"sync/atomic"
	"time"
)

type SearchMetric struct {
	MaxDepth   int
	Duration   time.Duration
	Nodes      int
	Depth      int  // deepest depth whose result was used
	Partial    bool // result taken from an interrupted depth
	Anomalies  int
	Candidates int
	Score      float64
}

type MoveMetric struct {
	Step   int
	Player string // PlayerColor
	Action string
	SearchMetric
}

type GameMetric struct {
	MatchID        string
	StartingPlayer string // PlayerColor
	Winner         string // PlayerColor, empty on a draw
	Reason         string
	StartTime      time.Time
	EndTime        time.Time
	Duration       time.Duration
	TotalMoves     int
}

type Collector interface {
	Start(maxDepth int)
	AddNode()
	AddAnomaly()
	SetResult(depth, candidates int, partial bool, score float64)
	Complete() SearchMetric
}

type collector struct {
	maxDepth   int
	candidates int
	startTime  time.Time
	nodes      atomic.Int64
	anomalies  atomic.Int32
	depth      int
	partial    bool
	score      float64
}

func NewCollector() Collector {
	return &collector{}
}

func (m *collector) Start(maxDepth int) {
	m.startTime = time.Now()
	m.maxDepth = maxDepth
	m.nodes.Store(0)
	m.anomalies.Store(0)
	m.depth, m.candidates, m.partial, m.score = 0, 0, false, 0
}

func (m *collector) AddNode() {
	m.nodes.Add(1)
}

func (m *collector) AddAnomaly() {
	m.anomalies.Add(1)
}

func (m *collector) SetResult(depth, candidates int, partial bool, score float64) {
	m.depth = depth
	m.candidates = candidates
	m.partial = partial
	m.score = score
}

func (m *collector) Complete() SearchMetric {
	return SearchMetric{
		MaxDepth:   m.maxDepth,
		Duration:   time.Since(m.startTime),
		Nodes:      int(m.nodes.Load()),
		Depth:      m.depth,
		Partial:    m.partial,
		Anomalies:  int(m.anomalies.Load()),
		Candidates: m.candidates,
		Score:      m.score,
	}
}

type dummyCollector struct{}

func NewDummyCollector() Collector {
	return &dummyCollector{}
}

func (m *dummyCollector) Start(maxDepth int)                                           {}
func (m *dummyCollector) AddNode()                                                     {}
func (m *dummyCollector) AddAnomaly()                                                  {}
func (m *dummyCollector) SetResult(depth, candidates int, partial bool, score float64) {}
func (m *dummyCollector) Complete() SearchMetric                                       { return SearchMetric{} }
