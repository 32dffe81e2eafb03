package policy

import (
	"math"

	"golang.org/x/exp/rand"

	"ggs/features"
	"ggs/game"
)

// SoftmaxPolicy turns linear feature scores into a probability distribution
// over candidate moves. Evaluation is a pure function of the state, so a
// policy may be shared by concurrent searches as long as nobody updates it.
type SoftmaxPolicy struct {
	linear      *LinearFunction
	featureSet  *features.FeatureSet
	temperature float64
}

func NewSoftmaxPolicy(linear *LinearFunction, fs *features.FeatureSet) *SoftmaxPolicy {
	return &SoftmaxPolicy{linear: linear, featureSet: fs, temperature: 1.0}
}

func (p *SoftmaxPolicy) Linear() *LinearFunction { return p.linear }

func (p *SoftmaxPolicy) FeatureSet() *features.FeatureSet { return p.featureSet }

// SupportsGame reports whether the policy can evaluate the given game.
func (p *SoftmaxPolicy) SupportsGame(flags game.Flags) bool {
	return flags&game.SimultaneousMoves == 0
}

// Logits scores each candidate move, or returns nil when the state exposes
// no packed vectors to match features against.
func (p *SoftmaxPolicy) Logits(c *game.Context, moves []game.Move) []float64 {
	sparse := p.featureSet.ComputeSparseVectors(c, moves)
	if sparse == nil {
		return nil
	}
	logits := make([]float64, len(moves))
	for i, active := range sparse {
		logits[i] = p.linear.Predict(active)
	}
	return logits
}

// Distribution converts logits into probabilities with the usual max
// subtraction for numerical stability.
func (p *SoftmaxPolicy) Distribution(logits []float64) []float64 {
	maxLogit := math.Inf(-1)
	for _, l := range logits {
		if l > maxLogit {
			maxLogit = l
		}
	}
	probs := make([]float64, len(logits))
	sum := 0.0
	for i, l := range logits {
		probs[i] = math.Exp((l - maxLogit) / p.temperature)
		sum += probs[i]
	}
	for i := range probs {
		probs[i] /= sum
	}
	return probs
}

// MoveDistribution returns move probabilities, falling back to uniform when
// features cannot be computed for the state.
func (p *SoftmaxPolicy) MoveDistribution(c *game.Context, moves []game.Move) []float64 {
	logits := p.Logits(c, moves)
	if logits == nil {
		uniform := make([]float64, len(moves))
		for i := range uniform {
			uniform[i] = 1.0 / float64(len(moves))
		}
		return uniform
	}
	return p.Distribution(logits)
}

// SelectMove samples a move from the policy distribution.
func (p *SoftmaxPolicy) SelectMove(rng *rand.Rand, c *game.Context, moves []game.Move) game.Move {
	probs := p.MoveDistribution(c, moves)
	sampled := rng.Float64()
	cumulative := 0.0
	for i, prob := range probs {
		cumulative += prob
		if sampled < cumulative {
			return moves[i]
		}
	}
	return moves[len(moves)-1] // Fallback in case of rounding errors
}

// Train performs one cross-entropy gradient-descent step towards a target
// distribution over the given moves.
func (p *SoftmaxPolicy) Train(c *game.Context, moves []game.Move, target []float64, learningRate float64) {
	sparse := p.featureSet.ComputeSparseVectors(c, moves)
	if sparse == nil {
		return
	}
	logits := make([]float64, len(moves))
	for i, active := range sparse {
		logits[i] = p.linear.Predict(active)
	}
	probs := p.Distribution(logits)
	for i, active := range sparse {
		p.linear.Update(active, target[i]-probs[i], learningRate)
	}
}
