package game

import (
	"golang.org/x/exp/rand"
)

// Noisy wraps a deterministic state with slippery move application: with
// probability slip the played move is replaced by a uniformly random legal
// one. It exists to exercise open-loop search, where applying the same move
// twice may reach different successor states.
type Noisy struct {
	inner State
	slip  float64
	rng   *rand.Rand
}

// NewNoisy wraps the state with the given slip probability. The wrapped
// state and all its successors share one seeded source, so a game remains
// reproducible under a fixed seed even though individual applications are
// nondeterministic.
func NewNoisy(inner State, slip float64, seed uint64) *Noisy {
	return &Noisy{
		inner: inner,
		slip:  slip,
		rng:   rand.New(rand.NewSource(seed)),
	}
}

func (n *Noisy) Player() int { return n.inner.Player() }

func (n *Noisy) Players() int { return n.inner.Players() }

func (n *Noisy) Flags() Flags { return n.inner.Flags() | Stochastic }

func (n *Noisy) LegalMoves() []Move { return n.inner.LegalMoves() }

func (n *Noisy) Play(m Move) State {
	if n.slip > 0 && n.rng.Float64() < n.slip {
		if legal := n.inner.LegalMoves(); len(legal) > 0 {
			m = legal[n.rng.Intn(len(legal))]
		}
	}
	return &Noisy{inner: n.inner.Play(m), slip: n.slip, rng: n.rng}
}

func (n *Noisy) Hash() StateHash { return n.inner.Hash() }

func (n *Noisy) Over() bool { return n.inner.Over() }

func (n *Noisy) Utilities() []float64 { return n.inner.Utilities() }
