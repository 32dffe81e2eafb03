package expander

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"

	"ggs/game"
)

func TestRingBuffer(t *testing.T) {
	sample := func(mover int, weight float64) Experience {
		s := game.NewTicTacToe()
		return Experience{
			State:  s,
			Moves:  s.LegalMoves(),
			Policy: make([]float64, len(s.LegalMoves())),
			Mover:  mover,
			Weight: weight,
		}
	}

	t.Run("the oldest sample is overwritten at capacity", func(t *testing.T) {
		b := NewRingBuffer(3)
		for i := 0; i < 4; i++ {
			b.Add(sample(i, 1))
		}

		require.Equal(t, 3, b.Len())
		movers := make([]int, 0, 3)
		for _, e := range b.All() {
			movers = append(movers, e.Mover)
		}
		require.ElementsMatch(t, []int{3, 1, 2}, movers)
	})

	t.Run("an empty buffer yields no samples", func(t *testing.T) {
		b := NewRingBuffer(3)
		rng := rand.New(rand.NewSource(1))

		require.Nil(t, b.SampleBatch(rng, 5))
		require.Nil(t, b.SampleBatchUniformly(rng, 5))
	})

	t.Run("weighted sampling never picks a zero-weight sample", func(t *testing.T) {
		b := NewRingBuffer(2)
		b.Add(sample(0, 1))
		b.Add(sample(1, 0))
		rng := rand.New(rand.NewSource(1))

		for _, e := range b.SampleBatch(rng, 50) {
			require.Equal(t, 0, e.Mover)
		}
	})

	t.Run("weighted sampling over zero total weight falls back to uniform", func(t *testing.T) {
		b := NewRingBuffer(2)
		b.Add(sample(0, 0))
		b.Add(sample(1, 0))
		rng := rand.New(rand.NewSource(1))

		batch := b.SampleBatch(rng, 100)
		require.Len(t, batch, 100)
		seen := map[int]bool{}
		for _, e := range batch {
			seen[e.Mover] = true
		}
		require.True(t, seen[0] && seen[1])
	})

	t.Run("uniform sampling draws only stored samples", func(t *testing.T) {
		b := NewRingBuffer(4)
		b.Add(sample(0, 1))
		b.Add(sample(1, 1))
		rng := rand.New(rand.NewSource(1))

		batch := b.SampleBatchUniformly(rng, 20)
		require.Len(t, batch, 20)
		for _, e := range batch {
			require.Contains(t, []int{0, 1}, e.Mover)
		}
	})

	t.Run("samples persist one line each", func(t *testing.T) {
		b := NewRingBuffer(4)
		b.Add(sample(0, 1))
		b.Add(sample(1, 0.5))
		path := filepath.Join(t.TempDir(), "experience.txt")

		require.NoError(t, b.WriteToFile(path))

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
		require.Len(t, lines, 2)
		require.Contains(t, lines[1], "0.5")
	})
}
