// Package metrics collects per-search and per-game diagnostics for
// experiments, and writes them out as CSV.
package metrics

import (
	"time"
)

// SearchMetric summarizes one search call.
type SearchMetric struct {
	Duration     time.Duration
	Iterations   int
	FullPlayouts int // playouts that reached a terminal state
	TreeReused   bool
	ChosenVisits int
	ChosenScore  float64
}

// MoveMetric ties a search to its position in a game.
type MoveMetric struct {
	Step   int
	Player int
	SearchMetric
}

// GameMetric summarizes one complete game.
type GameMetric struct {
	StartingPlayer int
	Winner         string
	StartTime      time.Time
	EndTime        time.Time
	Duration       time.Duration
	TotalMoves     int
}

// Collector accumulates diagnostics over one search call. A collector
// belongs to a single engine and is not safe for concurrent use.
type Collector interface {
	Start()
	SetTreeReused(value bool)
	AddIteration()
	AddFullPlayout()
	Complete(chosenVisits int, chosenScore float64) SearchMetric
}

type collector struct {
	startTime    time.Time
	iterations   int
	fullPlayouts int
	treeReused   bool
}

func NewCollector() Collector {
	return &collector{}
}

func (m *collector) Start() {
	m.startTime = time.Now()
	m.iterations = 0
	m.fullPlayouts = 0
	m.treeReused = false
}

func (m *collector) SetTreeReused(value bool) {
	m.treeReused = value
}

func (m *collector) AddIteration() {
	m.iterations++
}

func (m *collector) AddFullPlayout() {
	m.fullPlayouts++
}

func (m *collector) Complete(chosenVisits int, chosenScore float64) SearchMetric {
	return SearchMetric{
		Duration:     time.Since(m.startTime),
		Iterations:   m.iterations,
		FullPlayouts: m.fullPlayouts,
		TreeReused:   m.treeReused,
		ChosenVisits: chosenVisits,
		ChosenScore:  chosenScore,
	}
}

type dummyCollector struct{}

// NewDummyCollector returns a collector that records nothing, for engines
// running outside experiments.
func NewDummyCollector() Collector {
	return &dummyCollector{}
}

func (m *dummyCollector) Start()                             {}
func (m *dummyCollector) SetTreeReused(value bool)           {}
func (m *dummyCollector) AddIteration()                      {}
func (m *dummyCollector) AddFullPlayout()                    {}
func (m *dummyCollector) Complete(int, float64) SearchMetric { return SearchMetric{} }
