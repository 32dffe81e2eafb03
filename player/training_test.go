package player

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"ggs/expander"
	"ggs/features"
	"ggs/game"
	"ggs/policy"
)

func trainingPolicy() *policy.SoftmaxPolicy {
	feats := []*features.SpatialFeature{
		features.NewFeatureFromElements([]features.FeatureElement{
			{Type: features.ElementEmpty, Site: 0},
		}, 0, 2),
		features.NewFeatureFromElements([]features.FeatureElement{
			{Type: features.ElementEmpty, Negated: true, Site: 1},
		}, 0, 2),
	}
	fs := features.NewFeatureSet("train", feats, features.GridTransform(3, 3), 9,
		[]int{0, 1, 2, 3}, []int{0, 1})
	return policy.NewSoftmaxPolicy(policy.NewLinearFunction(make([]float64, fs.Len()), fs.Name()), fs)
}

func TestTrainer(t *testing.T) {
	t.Run("a short run trains and persists its outputs", func(t *testing.T) {
		dir := t.TempDir()
		cfg := TrainingConfig{
			Games:             2,
			IterationsPerMove: 30,
			BatchSize:         16,
			LearningRate:      0.01,
			WeightsPath:       filepath.Join(dir, "weights.txt"),
			ExperiencePath:    filepath.Join(dir, "experience.txt"),
		}
		trainer := NewTrainer(trainingPolicy(), expander.NewRingBuffer(64), 1, cfg)

		require.NoError(t, trainer.Run(game.NewTicTacToe()))

		for _, path := range []string{cfg.WeightsPath, cfg.ExperiencePath} {
			info, err := os.Stat(path)
			require.NoError(t, err)
			require.Greater(t, info.Size(), int64(0))
		}
	})

	t.Run("every move of every game becomes experience", func(t *testing.T) {
		cfg := TrainingConfig{
			Games:             1,
			IterationsPerMove: 30,
			BatchSize:         8,
			LearningRate:      0.01,
		}
		buffer := expander.NewRingBuffer(64)
		trainer := NewTrainer(trainingPolicy(), buffer, 1, cfg)

		require.NoError(t, trainer.Run(game.NewTicTacToe()))

		require.GreaterOrEqual(t, buffer.Len(), 5, "the shortest decided game takes five moves")
		require.LessOrEqual(t, buffer.Len(), 9)
		for _, e := range buffer.All()[:buffer.Len()] {
			total := 0.0
			for _, p := range e.Policy {
				total += p
			}
			require.InDelta(t, 1.0, total, 1e-9, "recorded policies are visit distributions")
		}
	})

	t.Run("training weights move away from zero", func(t *testing.T) {
		cfg := TrainingConfig{
			Games:             1,
			IterationsPerMove: 30,
			BatchSize:         16,
			LearningRate:      0.1,
		}
		trainer := NewTrainer(trainingPolicy(), expander.NewRingBuffer(64), 1, cfg)

		require.NoError(t, trainer.Run(game.NewTicTacToe()))

		moved := false
		for _, w := range trainer.Policy().Linear().Weights() {
			if w != 0 {
				moved = true
			}
		}
		require.True(t, moved)
	})
}
