// Package player runs self-play training. An engine with a preserved
// search tree plays games against itself, the root visit-count
// distributions become training experience, the policy trains on sampled
// batches, and the feature set periodically grows from the same
// experience.
package player

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"

	"ggs/expander"
	"ggs/game"
	"ggs/policy"
	"ggs/searcher"
)

type TrainingConfig struct {
	Games             int
	IterationsPerMove int
	BatchSize         int
	LearningRate      float64
	// ExpandEvery is the number of games between feature expansion
	// attempts; zero disables expansion.
	ExpandEvery    int
	MaxNewFeatures int
	// WeightsPath, when set, receives the trained weights after the run.
	WeightsPath string
	// ExperiencePath, when set, receives the experience buffer after the
	// run.
	ExperiencePath string
}

func DefaultTrainingConfig() TrainingConfig {
	return TrainingConfig{
		Games:             100,
		IterationsPerMove: 1000,
		BatchSize:         256,
		LearningRate:      0.01,
		ExpandEvery:       10,
		MaxNewFeatures:    4,
	}
}

type Trainer struct {
	pol    *policy.SoftmaxPolicy
	buffer expander.ExperienceBuffer
	rng    *rand.Rand
	cfg    TrainingConfig
}

func NewTrainer(pol *policy.SoftmaxPolicy, buffer expander.ExperienceBuffer, seed uint64, cfg TrainingConfig) *Trainer {
	return &Trainer{
		pol:    pol,
		buffer: buffer,
		rng:    rand.New(rand.NewSource(seed)),
		cfg:    cfg,
	}
}

// Policy returns the current policy, which changes identity when the
// feature set expands.
func (t *Trainer) Policy() *policy.SoftmaxPolicy { return t.pol }

// Run plays self-play games from the given initial state, training after
// every game and expanding the feature set on the configured cadence.
func (t *Trainer) Run(initial game.State) error {
	if !t.pol.SupportsGame(initial.Flags()) {
		return fmt.Errorf("policy does not support this game")
	}

	for i := 0; i < t.cfg.Games; i++ {
		start := time.Now()
		moves := t.playGame(initial)
		t.train()
		log.Info().Int("game", i+1).Int("moves", moves).
			Dur("duration", time.Since(start)).Msg("self-play game complete")

		if t.cfg.ExpandEvery > 0 && (i+1)%t.cfg.ExpandEvery == 0 {
			t.expand(initial.Flags())
		}
	}

	if t.cfg.WeightsPath != "" {
		if err := t.pol.Linear().WriteToFile(t.cfg.WeightsPath); err != nil {
			return fmt.Errorf("storing trained weights: %w", err)
		}
	}
	if t.cfg.ExperiencePath != "" {
		if err := t.buffer.WriteToFile(t.cfg.ExperiencePath); err != nil {
			return fmt.Errorf("storing experience: %w", err)
		}
	}
	return nil
}

// playGame runs one self-play game, recording an experience sample per
// move. A single engine plays both sides so tree reuse covers every move.
func (t *Trainer) playGame(initial game.State) int {
	mcts := searcher.NewMCTS(
		searcher.WithPreservedRoot(),
		searcher.WithSeed(t.rng.Uint64()),
		searcher.WithPlayout(searcher.NewSoftmaxPlayout(t.pol)),
		searcher.WithFinalMoveSelection(searcher.NewProportionalExpVisitCount()),
	)

	c := game.NewContext(initial)
	moves := 0
	for !c.Over() {
		move := mcts.SelectMove(context.Background(), c, 0, t.cfg.IterationsPerMove)
		if move == nil {
			break
		}
		t.record(c, mcts.RootPolicy())
		c.Apply(move)
		moves++
	}
	return moves
}

func (t *Trainer) record(c *game.Context, visits map[game.Move]float64) {
	if len(visits) == 0 {
		return
	}
	moves := c.State().LegalMoves()
	target := make([]float64, len(moves))
	for i, m := range moves {
		target[i] = visits[m]
	}
	t.buffer.Add(expander.Experience{
		State:  c.State(),
		Moves:  moves,
		Policy: target,
		Mover:  c.State().Player(),
		Weight: 1,
	})
}

func (t *Trainer) train() {
	batch := t.buffer.SampleBatch(t.rng, t.cfg.BatchSize)
	for _, e := range batch {
		t.pol.Train(game.NewContext(e.State), e.Moves, e.Policy, t.cfg.LearningRate)
	}
}

// expand grows the feature set from a uniform batch of experience. On
// success the policy is rebuilt over the expanded set with zero-padded
// weights.
func (t *Trainer) expand(flags game.Flags) {
	batch := t.buffer.SampleBatchUniformly(t.rng, t.cfg.BatchSize)
	fs := t.pol.FeatureSet()
	stats := expander.CollectActivationStats(batch, fs)
	expanded := expander.Expand(batch, fs, t.pol, flags,
		t.cfg.MaxNewFeatures, stats, expander.DefaultObjectiveParams())
	if expanded == nil {
		return
	}
	linear := t.pol.Linear().Extended(expanded.Len(), expanded.Name())
	t.pol = policy.NewSoftmaxPolicy(linear, expanded)
	log.Info().Int("features", expanded.Len()).Msg("feature set expanded")
}
