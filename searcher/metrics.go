package searcher

import (
	"sync/atomic"
	"time"
)

// SearchMetric summarizes one ChooseAction call.
type SearchMetric struct {
	Duration     time.Duration
	Nodes        int64 // interior expansions
	Leaves       int64 // evaluator calls
	ChanceNodes  int64
	Cutoffs      int64 // alpha-beta prunes
	DeadlineHit  bool
	RootChildren int
}

// Collector gathers search metrics. The dummy implementation keeps the
// production decision path free of bookkeeping.
type Collector interface {
	Start()
	AddNode()
	AddLeaf()
	AddChanceNode()
	AddCutoff()
	SetDeadlineHit()
	SetRootChildren(n int)
	Complete() SearchMetric
}

type collector struct {
	startTime    time.Time
	nodes        atomic.Int64
	leaves       atomic.Int64
	chanceNodes  atomic.Int64
	cutoffs      atomic.Int64
	deadlineHit  atomic.Bool
	rootChildren atomic.Int64
}

func NewCollector() Collector {
	return &collector{}
}

func (m *collector) Start()                { m.startTime = time.Now() }
func (m *collector) AddNode()              { m.nodes.Add(1) }
func (m *collector) AddLeaf()              { m.leaves.Add(1) }
func (m *collector) AddChanceNode()        { m.chanceNodes.Add(1) }
func (m *collector) AddCutoff()            { m.cutoffs.Add(1) }
func (m *collector) SetDeadlineHit()       { m.deadlineHit.Store(true) }
func (m *collector) SetRootChildren(n int) { m.rootChildren.Store(int64(n)) }

func (m *collector) Complete() SearchMetric {
	return SearchMetric{
		Duration:     time.Since(m.startTime),
		Nodes:        m.nodes.Load(),
		Leaves:       m.leaves.Load(),
		ChanceNodes:  m.chanceNodes.Load(),
		Cutoffs:      m.cutoffs.Load(),
		DeadlineHit:  m.deadlineHit.Load(),
		RootChildren: int(m.rootChildren.Load()),
	}
}

type dummyCollector struct{}

func NewDummyCollector() Collector {
	return &dummyCollector{}
}

func (m *dummyCollector) Start()                {}
func (m *dummyCollector) AddNode()              {}
func (m *dummyCollector) AddLeaf()              {}
func (m *dummyCollector) AddChanceNode()        {}
func (m *dummyCollector) AddCutoff()            {}
func (m *dummyCollector) SetDeadlineHit()       {}
func (m *dummyCollector) SetRootChildren(n int) {}
func (m *dummyCollector) Complete() SearchMetric { return SearchMetric{} }
