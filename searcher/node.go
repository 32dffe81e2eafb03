package searcher

import (
	"ggs/game"
	"ggs/utils"
)

// Node is one position in the search tree. Two variants exist: closedNode
// for deterministic transitions (one child per legal move index) and
// openNode for stochastic transitions (one child per observed outcome under
// each move). A node never owns its parent; the parent reference exists
// only so a reused subtree can be detached.
type Node interface {
	Context() *game.Context
	Parent() Node
	Moves() []game.Move
	Mover() int
	Hash() game.StateHash
	Visits() int
	ExpectedScore(player int) float64
	ChildVisits(i int) int
	ChildExpectedScore(i, player int) float64

	// childForOutcome returns the child for move index i leading to the
	// state with the given hash, or nil when none exists yet. Closed nodes
	// ignore the hash.
	childForOutcome(i int, hash game.StateHash) Node
	attach(i int, hash game.StateHash, child Node)
	detach()
	moveIndex() int
	update(utilities []float64)

	// globalScore exposes the engine-wide statistics of a move to selection
	// strategies that requested GlobalActionStats.
	globalScore(m game.Move) (mean float64, visits int)
}

type baseNode struct {
	engine    *MCTS
	parent    Node
	moveIdx   int // index of the move in parent that led here
	ctx       *game.Context
	hash      game.StateHash
	moves     []game.Move
	visits    int
	scoreSums []float64
}

func newBaseNode(engine *MCTS, parent Node, moveIdx int, ctx *game.Context) baseNode {
	n := baseNode{
		engine:    engine,
		parent:    parent,
		moveIdx:   moveIdx,
		ctx:       ctx,
		hash:      ctx.State().Hash(),
		moves:     ctx.State().LegalMoves(),
		scoreSums: make([]float64, ctx.State().Players()),
	}
	engine.warmStart(&n)
	return n
}

func (n *baseNode) Context() *game.Context { return n.ctx }

func (n *baseNode) Parent() Node { return n.parent }

func (n *baseNode) Moves() []game.Move { return n.moves }

func (n *baseNode) Mover() int { return n.ctx.State().Player() }

func (n *baseNode) Hash() game.StateHash { return n.hash }

func (n *baseNode) Visits() int { return n.visits }

// ExpectedScore returns the mean score observed for a player through this
// node.
func (n *baseNode) ExpectedScore(player int) float64 {
	if n.visits == 0 {
		return 0
	}
	return n.scoreSums[player] / float64(n.visits)
}

func (n *baseNode) detach() { n.parent = nil }

func (n *baseNode) globalScore(m game.Move) (float64, int) {
	return n.engine.GlobalActionScore(m)
}

func (n *baseNode) moveIndex() int { return n.moveIdx }

func (n *baseNode) update(utilities []float64) {
	n.visits++
	for p := range n.scoreSums {
		if p < len(utilities) {
			n.scoreSums[p] += utilities[p]
		}
	}
	n.engine.recordState(n)
}

// closedNode is the tree node for games with deterministic transitions.
type closedNode struct {
	baseNode
	children []Node // indexed by legal move index, nil until expanded
}

func newClosedNode(engine *MCTS, parent Node, moveIdx int, ctx *game.Context) *closedNode {
	n := &closedNode{baseNode: newBaseNode(engine, parent, moveIdx, ctx)}
	n.children = make([]Node, len(n.moves))
	return n
}

func (n *closedNode) childForOutcome(i int, _ game.StateHash) Node {
	return n.children[i]
}

func (n *closedNode) attach(i int, _ game.StateHash, child Node) {
	n.children[i] = child
}

func (n *closedNode) ChildVisits(i int) int {
	if n.children[i] == nil {
		return 0
	}
	return n.children[i].Visits()
}

func (n *closedNode) ChildExpectedScore(i, player int) float64 {
	if n.children[i] == nil {
		return 0
	}
	return n.children[i].ExpectedScore(player)
}

// openNode is the tree node for games with stochastic transitions: each
// legal move may lead to several observed outcome states, each with its own
// child keyed by state hash. Per-move statistics aggregate over outcomes.
type openNode struct {
	baseNode
	children []map[game.StateHash]Node
}

func newOpenNode(engine *MCTS, parent Node, moveIdx int, ctx *game.Context) *openNode {
	n := &openNode{baseNode: newBaseNode(engine, parent, moveIdx, ctx)}
	n.children = make([]map[game.StateHash]Node, len(n.moves))
	return n
}

func (n *openNode) childForOutcome(i int, hash game.StateHash) Node {
	return n.children[i][hash]
}

func (n *openNode) attach(i int, hash game.StateHash, child Node) {
	if n.children[i] == nil {
		n.children[i] = make(map[game.StateHash]Node)
	}
	n.children[i][hash] = child
}

func (n *openNode) ChildVisits(i int) int {
	visits := 0
	for _, child := range n.children[i] {
		visits += child.Visits()
	}
	return visits
}

func (n *openNode) ChildExpectedScore(i, player int) float64 {
	visits := 0
	sum := 0.0
	for _, child := range n.children[i] {
		visits += child.Visits()
		sum += child.ExpectedScore(player) * float64(child.Visits())
	}
	if visits == 0 {
		return 0
	}
	return sum / float64(visits)
}

// moveIndexOf finds the index of a move in a node's legal move list, or -1.
func moveIndexOf(n Node, m game.Move) int {
	return utils.FindIndex(n.Moves(), m)
}
