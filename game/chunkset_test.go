package game

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestChunkSet(t *testing.T) {
	t.Run("storing and reading values across word boundaries", func(t *testing.T) {
		c := NewChunkSet(4, 40) // 16 chunks per word, 3 words
		c.Set(0, 5)
		c.Set(15, 9)
		c.Set(16, 3)
		c.Set(39, 7)

		require.Equal(t, uint64(5), c.Get(0))
		require.Equal(t, uint64(9), c.Get(15), "last chunk of the first word should hold its value")
		require.Equal(t, uint64(3), c.Get(16), "first chunk of the second word should hold its value")
		require.Equal(t, uint64(7), c.Get(39))
		require.Equal(t, uint64(0), c.Get(1), "unset sites should read zero")
	})

	t.Run("overwriting a value clears the old bits", func(t *testing.T) {
		c := NewChunkSet(2, 9)
		c.Set(3, 3)
		c.Set(3, 1)

		require.Equal(t, uint64(1), c.Get(3))
	})

	t.Run("values wider than the chunk size are truncated", func(t *testing.T) {
		c := NewChunkSet(2, 9)
		c.Set(0, 7) // only the low 2 bits fit

		require.Equal(t, uint64(3), c.Get(0))
		require.Equal(t, uint64(0), c.Get(1), "overflow must not leak into the neighboring chunk")
	})

	t.Run("matching a site value through a masked word compare", func(t *testing.T) {
		c := NewChunkSet(2, 9)
		c.Set(4, 2)
		c.Set(5, 1)

		require.True(t, c.MatchesValue(4, 2))
		require.False(t, c.MatchesValue(4, 1))
		require.True(t, c.MatchesValue(0, 0), "an unset site should match zero")
	})

	t.Run("chunk sizes that do not divide 64 are rejected", func(t *testing.T) {
		require.Panics(t, func() { NewChunkSet(3, 9) })
		require.Panics(t, func() { NewChunkSet(0, 9) })
	})

	t.Run("clones are independent", func(t *testing.T) {
		c := NewChunkSet(4, 9)
		c.Set(2, 6)
		clone := c.Clone()
		clone.Set(2, 1)

		require.Equal(t, uint64(6), c.Get(2), "mutating a clone should not change the original")
		require.Equal(t, uint64(1), clone.Get(2))
	})
}

func TestBoardVectors(t *testing.T) {
	t.Run("placing a piece keeps the three vectors consistent", func(t *testing.T) {
		b := NewBoardVectors(9, 2, 2)
		for site := 0; site < 9; site++ {
			b.Empty.Set(site, 1)
		}

		b.SetPiece(4, 1, 2)

		require.Equal(t, uint64(0), b.Empty.Get(4))
		require.Equal(t, uint64(1), b.Who.Get(4))
		require.Equal(t, uint64(2), b.What.Get(4))
	})

	t.Run("clearing a site restores emptiness", func(t *testing.T) {
		b := NewBoardVectors(9, 2, 2)
		b.SetPiece(4, 1, 2)

		b.SetPiece(4, 0, 0)

		require.Equal(t, uint64(1), b.Empty.Get(4))
		require.Equal(t, uint64(0), b.Who.Get(4))
		require.Equal(t, uint64(0), b.What.Get(4))
	})
}
