package searcher

import (
	"fmt"
	"math"

	"golang.org/x/exp/rand"
)

// BackpropFlags names the statistics a selection strategy wants maintained
// during backpropagation, beyond visit counts and mean scores.
type BackpropFlags uint32

const (
	// GlobalActionStats maintains engine-wide per-move statistics over all
	// playouts.
	GlobalActionStats BackpropFlags = 1 << iota
)

// QInit is the value policy for children that have not been visited yet.
type QInit uint8

const (
	// QInitInf treats unvisited children as infinitely promising, forcing
	// each child to be tried once before any is revisited.
	QInitInf QInit = iota
	QInitLoss
	QInitDraw
	QInitWin
	// QInitParent estimates an unvisited child's value from its parent's
	// current estimate, from the perspective of the player to move.
	QInitParent
)

func (q QInit) String() string {
	switch q {
	case QInitInf:
		return "inf"
	case QInitLoss:
		return "loss"
	case QInitDraw:
		return "draw"
	case QInitWin:
		return "win"
	case QInitParent:
		return "parent"
	}
	return fmt.Sprintf("QInit(%d)", uint8(q))
}

// ParseQInit maps a case-folded name to a QInit value.
func ParseQInit(name string) (QInit, error) {
	switch name {
	case "inf":
		return QInitInf, nil
	case "loss":
		return QInitLoss, nil
	case "draw":
		return QInitDraw, nil
	case "win":
		return QInitWin, nil
	case "parent":
		return QInitParent, nil
	}
	return QInitInf, fmt.Errorf("unknown qinit value %q", name)
}

// SelectionStrategy picks the move index to descend through at a node.
type SelectionStrategy interface {
	Select(rng *rand.Rand, n Node) int
	BackpropFlags() BackpropFlags
}

// UCB1 selects the child maximizing mean score plus an exploration bonus of
// c*sqrt(ln(N_parent))/sqrt(N_child). Ties are broken uniformly at random.
type UCB1 struct {
	Exploration float64
	Unvisited   QInit
}

const DefaultExploration = math.Sqrt2

func NewUCB1() *UCB1 {
	return &UCB1{Exploration: DefaultExploration, Unvisited: QInitParent}
}

func (u *UCB1) BackpropFlags() BackpropFlags { return 0 }

func (u *UCB1) Select(rng *rand.Rand, n Node) int {
	mover := n.Mover()
	parentVisits := n.Visits()
	logN := 0.0
	if parentVisits > 1 {
		logN = math.Log(float64(parentVisits))
	}

	best := -1
	bestValue := math.Inf(-1)
	numBest := 0
	for i := range n.Moves() {
		visits := n.ChildVisits(i)
		var exploit, explore float64
		if visits == 0 {
			exploit = u.unvisitedValue(n, mover)
			explore = math.Sqrt(logN)
		} else {
			exploit = n.ChildExpectedScore(i, mover)
			explore = math.Sqrt(logN) / math.Sqrt(float64(visits))
		}
		value := exploit + u.Exploration*explore

		if value > bestValue {
			bestValue = value
			best = i
			numBest = 1
		} else if value == bestValue {
			// Reservoir sampling keeps each tied move equally likely.
			numBest++
			if rng.Intn(numBest) == 0 {
				best = i
			}
		}
	}
	return best
}

// ProgressiveHistory is UCB1 with a progressive-history bias: each child's
// value gains a bonus derived from the engine-wide mean score of its move,
// weighted by Influence and decaying as the child accumulates visits. The
// global statistics it consumes are maintained by the engine because
// BackpropFlags requests GlobalActionStats.
type ProgressiveHistory struct {
	UCB1
	Influence float64
}

const DefaultHistoryInfluence = 3.0

func NewProgressiveHistory() *ProgressiveHistory {
	return &ProgressiveHistory{
		UCB1:      UCB1{Exploration: DefaultExploration, Unvisited: QInitParent},
		Influence: DefaultHistoryInfluence,
	}
}

func (p *ProgressiveHistory) BackpropFlags() BackpropFlags { return GlobalActionStats }

func (p *ProgressiveHistory) Select(rng *rand.Rand, n Node) int {
	mover := n.Mover()
	parentVisits := n.Visits()
	logN := 0.0
	if parentVisits > 1 {
		logN = math.Log(float64(parentVisits))
	}

	moves := n.Moves()
	best := -1
	bestValue := math.Inf(-1)
	numBest := 0
	for i := range moves {
		visits := n.ChildVisits(i)
		var exploit, explore float64
		if visits == 0 {
			exploit = p.unvisitedValue(n, mover)
			explore = math.Sqrt(logN)
		} else {
			exploit = n.ChildExpectedScore(i, mover)
			explore = math.Sqrt(logN) / math.Sqrt(float64(visits))
		}

		// The history bonus fades once the child's own mean is trusted:
		// globalMean * W / (visits*(1-mean) + 1), after Nijssen & Winands.
		globalMean, globalVisits := n.globalScore(moves[i])
		var history float64
		if globalVisits > 0 {
			history = globalMean * p.Influence / (float64(visits)*(1-exploit) + 1)
		}

		value := exploit + p.Exploration*explore + history

		if value > bestValue {
			bestValue = value
			best = i
			numBest = 1
		} else if value == bestValue {
			numBest++
			if rng.Intn(numBest) == 0 {
				best = i
			}
		}
	}
	return best
}

func (u *UCB1) unvisitedValue(n Node, mover int) float64 {
	switch u.Unvisited {
	case QInitInf:
		return math.Inf(1)
	case QInitLoss:
		return -1
	case QInitDraw:
		return 0
	case QInitWin:
		return 1
	case QInitParent:
		if n.Visits() == 0 {
			return 0
		}
		return n.ExpectedScore(mover)
	}
	panic(fmt.Sprintf("unhandled QInit %v", u.Unvisited))
}
