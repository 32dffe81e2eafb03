package searcher

import (
	"math"

	"golang.org/x/exp/rand"
)

// FinalMoveSelectionStrategy picks the move to actually play once the
// search budget is spent. Select returns a move index into the root's legal
// moves, or -1 when the root has none.
type FinalMoveSelectionStrategy interface {
	Select(rng *rand.Rand, root Node) int
}

// RobustChild plays the most visited child. Ties are broken by reservoir
// sampling, which is reproducible for a fixed seed.
type RobustChild struct{}

func (RobustChild) Select(rng *rand.Rand, root Node) int {
	best := -1
	bestVisits := -1
	numBest := 0
	for i := range root.Moves() {
		visits := root.ChildVisits(i)
		if visits > bestVisits {
			bestVisits = visits
			best = i
			numBest = 1
		} else if visits == bestVisits {
			numBest++
			if rng.Intn(numBest) == 0 {
				best = i
			}
		}
	}
	return best
}

// MaxAvgScore plays the child with the highest mean score for the mover.
type MaxAvgScore struct{}

func (MaxAvgScore) Select(rng *rand.Rand, root Node) int {
	mover := root.Mover()
	best := -1
	bestScore := math.Inf(-1)
	numBest := 0
	for i := range root.Moves() {
		score := math.Inf(-1)
		if root.ChildVisits(i) > 0 {
			score = root.ChildExpectedScore(i, mover)
		}
		if score > bestScore {
			bestScore = score
			best = i
			numBest = 1
		} else if score == bestScore {
			numBest++
			if rng.Intn(numBest) == 0 {
				best = i
			}
		}
	}
	return best
}

// ProportionalExpVisitCount samples a move with probability proportional to
// its visit count raised to 1/Temperature. A high temperature flattens the
// distribution, a temperature near zero approaches RobustChild.
type ProportionalExpVisitCount struct {
	Temperature float64
}

func NewProportionalExpVisitCount() *ProportionalExpVisitCount {
	return &ProportionalExpVisitCount{Temperature: 1.0}
}

func (s *ProportionalExpVisitCount) Select(rng *rand.Rand, root Node) int {
	numMoves := len(root.Moves())
	if numMoves == 0 {
		return -1
	}
	exponent := 1.0 / s.Temperature
	weights := make([]float64, numMoves)
	sum := 0.0
	for i := 0; i < numMoves; i++ {
		weights[i] = math.Pow(float64(root.ChildVisits(i)), exponent)
		sum += weights[i]
	}
	if sum == 0 {
		return rng.Intn(numMoves)
	}
	sampled := rng.Float64() * sum
	cumulative := 0.0
	last := 0
	for i, w := range weights {
		if w == 0 {
			continue
		}
		last = i
		cumulative += w
		if sampled < cumulative {
			return i
		}
	}
	return last // Fallback in case of rounding errors
}
