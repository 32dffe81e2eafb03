// Package searcher implements Monte-Carlo Tree Search over an abstract game
// state, with pluggable selection, playout, and final-move-selection
// strategies and tree reuse across successive real moves.
//
// A single MCTS instance owns its tree exclusively: one search call at a
// time, sequential calls across a game. Search execution is single-threaded
// and synchronous, so no locks guard the tree; violating this ownership is
// undefined behavior.
package searcher

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"

	"ggs/experiments/metrics"
	"ggs/game"
	"ggs/searcher/tt"
)

type Option func(*MCTS)

type MCTS struct {
	selection      SelectionStrategy
	playout        PlayoutStrategy
	final          FinalMoveSelectionStrategy
	treeReuse      bool
	preserveRoot   bool
	autoPlayS      float64 // shortened budget for forced moves, <0 disables
	friendlyName   string
	rng            *rand.Rand
	transpositions *tt.Table
	collector      metrics.Collector

	root         Node
	lastNumMoves int
	lastVisits   int
	lastScore    float64
	lastMetric   metrics.SearchMetric
	globalStats  map[string]*actionStats
}

type actionStats struct {
	visits   int
	scoreSum float64
}

func WithSelection(s SelectionStrategy) Option {
	return func(m *MCTS) {
		if s != nil {
			m.selection = s
		}
	}
}

func WithPlayout(p PlayoutStrategy) Option {
	return func(m *MCTS) {
		if p != nil {
			m.playout = p
		}
	}
}

func WithFinalMoveSelection(f FinalMoveSelectionStrategy) Option {
	return func(m *MCTS) {
		if f != nil {
			m.final = f
		}
	}
}

func WithTreeReuse(reuse bool) Option {
	return func(m *MCTS) {
		m.treeReuse = reuse
	}
}

// WithPreservedRoot keeps the full tree after a search so training code can
// extract the root's visit-count distribution.
func WithPreservedRoot() Option {
	return func(m *MCTS) {
		m.preserveRoot = true
	}
}

func WithAutoPlaySeconds(seconds float64) Option {
	return func(m *MCTS) {
		m.autoPlayS = seconds
	}
}

func WithFriendlyName(name string) Option {
	return func(m *MCTS) {
		m.friendlyName = name
	}
}

func WithSeed(seed uint64) Option {
	return func(m *MCTS) {
		m.rng = rand.New(rand.NewSource(seed))
	}
}

// WithCollector records per-search diagnostics with the given collector.
func WithCollector(c metrics.Collector) Option {
	return func(m *MCTS) {
		if c != nil {
			m.collector = c
		}
	}
}

// WithTranspositionTable warm-starts expanded nodes from a direct-mapped
// table of 2^log2 entries keyed by state hash.
func WithTranspositionTable(log2 uint) Option {
	return func(m *MCTS) {
		m.transpositions = tt.New(log2)
	}
}

func NewMCTS(options ...Option) *MCTS {
	m := &MCTS{ // Default values
		selection:    NewUCB1(),
		playout:      NewRandomPlayout(),
		final:        RobustChild{},
		treeReuse:    true,
		autoPlayS:    -1,
		rng:          rand.New(rand.NewSource(uint64(time.Now().UnixNano()))),
		friendlyName: "MCTS",
		collector:    metrics.NewDummyCollector(),
	}
	for _, option := range options {
		option(m)
	}
	if m.selection.BackpropFlags()&GlobalActionStats != 0 {
		m.globalStats = make(map[string]*actionStats)
	}
	return m
}

func (m *MCTS) FriendlyName() string { return m.friendlyName }

// SupportsGame reports whether the engine can search the given game.
// Callers must not invoke SelectMove on an unsupported game.
func (m *MCTS) SupportsGame(flags game.Flags) bool {
	if flags&game.SimultaneousMoves != 0 {
		return false
	}
	return m.playout.SupportsGame(flags)
}

// SelectMove runs the search from the given position under the combined
// budget: a wall-clock deadline (unbounded when maxSeconds <= 0), an
// iteration cap (unbounded when negative), and cooperative cancellation via
// ctx, checked once per full iteration. It returns nil when the position
// has no legal moves.
func (m *MCTS) SelectMove(ctx context.Context, cur *game.Context, maxSeconds float64, maxIterations int) game.Move {
	if maxSeconds <= 0 && maxIterations < 0 && ctx.Done() == nil {
		panic("must specify a time budget, an iteration budget, or a cancellable context")
	}

	m.collector.Start()
	root := m.acquireRoot(cur)
	m.root = root

	if len(root.Moves()) == 0 {
		m.lastVisits, m.lastScore = 0, 0
		m.lastMetric = m.collector.Complete(0, 0)
		if !m.preserveRoot {
			m.root = nil
		}
		return nil
	}

	// Forced move: play it from a shortened budget instead of burning the
	// full one.
	if len(root.Moves()) == 1 && m.autoPlayS >= 0 &&
		(maxSeconds <= 0 || m.autoPlayS < maxSeconds) {
		maxSeconds = m.autoPlayS
		if maxSeconds == 0 {
			// Zero auto-play seconds means play immediately.
			maxIterations = 0
		}
	}

	var deadline time.Time
	if maxSeconds > 0 {
		deadline = time.Now().Add(time.Duration(maxSeconds * float64(time.Second)))
	}

	iterations := 0
	for {
		// Sole cancellation point: budget and interrupt are checked once
		// per full selection/expansion/playout/backpropagation cycle.
		if maxIterations >= 0 && iterations >= maxIterations {
			break
		}
		if !deadline.IsZero() && !time.Now().Before(deadline) {
			break
		}
		if ctx.Err() != nil {
			break
		}
		m.iterate(root)
		iterations++
		m.collector.AddIteration()
	}

	idx := m.final.Select(m.rng, root)
	if idx < 0 {
		m.lastVisits, m.lastScore = 0, 0
		m.lastMetric = m.collector.Complete(0, 0)
		return nil
	}
	move := root.Moves()[idx]
	m.lastVisits = root.ChildVisits(idx)
	m.lastScore = root.ChildExpectedScore(idx, root.Mover())
	m.lastMetric = m.collector.Complete(m.lastVisits, m.lastScore)

	m.trim(root, idx, cur)
	return move
}

// acquireRoot reuses the subtree reached by the move history since the
// previous search when possible, and otherwise starts a fresh root.
func (m *MCTS) acquireRoot(cur *game.Context) Node {
	if m.treeReuse && m.root != nil {
		if node := m.reuseRoot(cur); node != nil {
			node.detach()
			m.lastNumMoves = cur.Trial().NumMoves()
			m.collector.SetTreeReused(true)
			return node
		}
	}
	m.lastNumMoves = cur.Trial().NumMoves()
	return m.newNode(nil, -1, cur.Clone())
}

func (m *MCTS) reuseRoot(cur *game.Context) Node {
	history := cur.Trial().Moves()
	hashes := cur.Trial().Hashes()
	suffix := len(history) - m.lastNumMoves
	if suffix < 0 {
		log.Warn().Int("suffix", suffix).
			Msg("move history shorter than at previous search; discarding tree")
		return nil
	}

	node := m.root
	for i := len(history) - suffix; i < len(history); i++ {
		idx := moveIndexOf(node, history[i])
		if idx < 0 {
			return nil
		}
		child := node.childForOutcome(idx, hashes[i])
		if child == nil {
			return nil
		}
		node = child
	}
	return node
}

// iterate runs one selection / expansion / playout / backpropagation cycle.
func (m *MCTS) iterate(root Node) {
	c := root.Context().Clone()
	node := root
	for !c.Over() {
		if len(node.Moves()) == 0 {
			break
		}
		idx := m.selection.Select(m.rng, node)
		c.Apply(node.Moves()[idx])
		hash := c.State().Hash()
		child := node.childForOutcome(idx, hash)
		if child == nil {
			child = m.newNode(node, idx, c.Clone())
			node.attach(idx, hash, child)
			node = child
			break
		}
		node = child
	}

	var utilities []float64
	if c.Over() {
		utilities = c.Trial().Utilities()
	} else {
		utilities = m.playout.Playout(m.rng, c)
	}
	if c.Over() {
		m.collector.AddFullPlayout()
	}
	m.backprop(node, utilities)
}

// newNode picks the node variant by the game's transition model.
func (m *MCTS) newNode(parent Node, moveIdx int, c *game.Context) Node {
	if c.State().Flags()&game.Stochastic != 0 {
		return newOpenNode(m, parent, moveIdx, c)
	}
	return newClosedNode(m, parent, moveIdx, c)
}

func (m *MCTS) backprop(leaf Node, utilities []float64) {
	flags := m.selection.BackpropFlags()
	node := leaf
	for node != nil {
		node.update(utilities)
		if flags&GlobalActionStats != 0 {
			if parent := node.Parent(); parent != nil {
				move := parent.Moves()[node.moveIndex()]
				m.updateGlobalStats(move, utilities[parent.Mover()])
			}
		}
		node = node.Parent()
	}
}

func (m *MCTS) updateGlobalStats(move game.Move, score float64) {
	key := move.String()
	stats := m.globalStats[key]
	if stats == nil {
		stats = &actionStats{}
		m.globalStats[key] = stats
	}
	stats.visits++
	stats.scoreSum += score
}

// GlobalActionScore returns the engine-wide mean score and visit count of a
// move, maintained when the selection strategy requests GlobalActionStats.
func (m *MCTS) GlobalActionScore(move game.Move) (float64, int) {
	stats := m.globalStats[move.String()]
	if stats == nil || stats.visits == 0 {
		return 0, 0
	}
	return stats.scoreSum / float64(stats.visits), stats.visits
}

// trim frees the parts of the tree the next search cannot reuse. With tree
// reuse the root advances to the chosen child and detaches it; a stochastic
// edge with several observed outcomes keeps the current root until the next
// call's history replay resolves the outcome.
func (m *MCTS) trim(root Node, idx int, cur *game.Context) {
	if m.preserveRoot {
		return
	}
	if !m.treeReuse {
		m.root = nil
		return
	}

	var child Node
	switch n := root.(type) {
	case *closedNode:
		child = n.children[idx]
	case *openNode:
		if len(n.children[idx]) == 1 {
			for _, only := range n.children[idx] {
				child = only
			}
		}
	}
	if child != nil {
		child.detach()
		m.root = child
		m.lastNumMoves = cur.Trial().NumMoves() + 1
	}
}

// Root exposes the preserved search tree; it is only meaningful when the
// engine was built WithPreservedRoot.
func (m *MCTS) Root() Node { return m.root }

// RootPolicy returns the preserved root's visit-count distribution, the
// training signal extracted after each search.
func (m *MCTS) RootPolicy() map[game.Move]float64 {
	if m.root == nil {
		return nil
	}
	total := 0
	for i := range m.root.Moves() {
		total += m.root.ChildVisits(i)
	}
	if total == 0 {
		return nil
	}
	policy := make(map[game.Move]float64, len(m.root.Moves()))
	for i, move := range m.root.Moves() {
		policy[move] = float64(m.root.ChildVisits(i)) / float64(total)
	}
	return policy
}

// LastChosenVisits reports the visit count of the child picked by the last
// search.
func (m *MCTS) LastChosenVisits() int { return m.lastVisits }

// LastChosenScore reports the mean value of the child picked by the last
// search, from the mover's perspective.
func (m *MCTS) LastChosenScore() float64 { return m.lastScore }

// LastSearchMetric reports the diagnostics of the last search. It is zero
// unless the engine was built WithCollector.
func (m *MCTS) LastSearchMetric() metrics.SearchMetric { return m.lastMetric }

// warmStart seeds a freshly created node from the transposition table when
// an entry for its state is present. Entries only cover two-player games.
func (m *MCTS) warmStart(n *baseNode) {
	if m.transpositions == nil || len(n.scoreSums) != 2 {
		return
	}
	entry, ok := m.transpositions.Load(uint64(n.hash))
	if !ok || entry.FullHash != uint64(n.hash) {
		return
	}
	n.visits = int(entry.Visits)
	n.scoreSums[0] = entry.ScoreSums[0]
	n.scoreSums[1] = entry.ScoreSums[1]
}

// recordState publishes a node's statistics to the transposition table.
func (m *MCTS) recordState(n *baseNode) {
	if m.transpositions == nil || len(n.scoreSums) != 2 {
		return
	}
	m.transpositions.Store(tt.Entry{
		FullHash:  uint64(n.hash),
		Visits:    int32(n.visits),
		ScoreSums: [2]float64{n.scoreSums[0], n.scoreSums[1]},
	})
}
