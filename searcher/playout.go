package searcher

import (
	"golang.org/x/exp/rand"

	"ggs/game"
	"ggs/policy"
)

// PlayoutStrategy finishes a trial from a freshly expanded node and returns
// the end-of-trial utilities per player. When the turn limit cuts a playout
// short before a terminal state the result is a draw.
type PlayoutStrategy interface {
	Playout(rng *rand.Rand, c *game.Context) []float64
	SupportsGame(flags game.Flags) bool
}

const DefaultPlayoutTurnLimit = 200

// RandomPlayout plays uniformly random legal moves.
type RandomPlayout struct {
	TurnLimit int
}

func NewRandomPlayout() *RandomPlayout {
	return &RandomPlayout{TurnLimit: DefaultPlayoutTurnLimit}
}

func (s *RandomPlayout) SupportsGame(game.Flags) bool { return true }

func (s *RandomPlayout) Playout(rng *rand.Rand, c *game.Context) []float64 {
	for turns := 0; !c.Over() && turns < s.TurnLimit; turns++ {
		moves := c.State().LegalMoves()
		if len(moves) == 0 {
			break
		}
		c.Apply(moves[rng.Intn(len(moves))])
	}
	return playoutUtilities(c)
}

// SoftmaxPlayout biases playout moves by a learned policy, mixing in a
// fraction of uniformly random moves.
type SoftmaxPlayout struct {
	Policy    *policy.SoftmaxPolicy
	TurnLimit int
	Epsilon   float64
}

func NewSoftmaxPlayout(p *policy.SoftmaxPolicy) *SoftmaxPlayout {
	return &SoftmaxPlayout{Policy: p, TurnLimit: DefaultPlayoutTurnLimit, Epsilon: 0.1}
}

func (s *SoftmaxPlayout) SupportsGame(flags game.Flags) bool {
	return s.Policy == nil || s.Policy.SupportsGame(flags)
}

func (s *SoftmaxPlayout) Playout(rng *rand.Rand, c *game.Context) []float64 {
	for turns := 0; !c.Over() && turns < s.TurnLimit; turns++ {
		moves := c.State().LegalMoves()
		if len(moves) == 0 {
			break
		}
		var move game.Move
		if s.Policy == nil || rng.Float64() < s.Epsilon {
			move = moves[rng.Intn(len(moves))]
		} else {
			move = s.Policy.SelectMove(rng, c, moves)
		}
		c.Apply(move)
	}
	return playoutUtilities(c)
}

func playoutUtilities(c *game.Context) []float64 {
	if c.Over() {
		return c.Trial().Utilities()
	}
	return make([]float64, c.State().Players())
}
