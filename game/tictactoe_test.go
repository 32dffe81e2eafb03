package game

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTicTacToe(t *testing.T) {
	t.Run("legal moves are exactly the unoccupied sites", func(t *testing.T) {
		var s State = NewTicTacToe()
		require.Len(t, s.LegalMoves(), 9)

		s = s.Play(PlaceMove{Site: 4, Mover: 0})

		moves := s.LegalMoves()
		require.Len(t, moves, 8)
		for _, m := range moves {
			require.NotEqual(t, 4, m.To(), "occupied site must not be playable")
			require.Equal(t, 1, m.(PlaceMove).Mover, "moves belong to the player to move")
		}
	})

	t.Run("playing returns a new state and keeps the old one intact", func(t *testing.T) {
		s := NewTicTacToe()
		next := s.Play(PlaceMove{Site: 0, Mover: 0})

		require.Equal(t, uint64(0), s.Vectors().Who.Get(0), "original state must not change")
		require.Equal(t, uint64(1), next.(*TicTacToe).Vectors().Who.Get(0))
		require.Equal(t, 1, next.Player(), "the turn should pass")
	})

	t.Run("a completed column ends the game with a winner", func(t *testing.T) {
		var s State = NewTicTacToe()
		for _, site := range []int{0, 1, 3, 2, 6} { // first player takes the left column
			s = s.Play(PlaceMove{Site: site, Mover: s.Player()})
		}

		require.True(t, s.Over())
		require.Equal(t, []float64{1, -1}, s.Utilities())
	})

	t.Run("a full board without a line is a draw", func(t *testing.T) {
		var s State = NewTicTacToe()
		for _, site := range []int{0, 2, 1, 3, 5, 4, 6, 7, 8} {
			s = s.Play(PlaceMove{Site: site, Mover: s.Player()})
		}

		require.True(t, s.Over())
		require.Equal(t, []float64{0, 0}, s.Utilities())
		require.Empty(t, s.LegalMoves())
	})

	t.Run("the hash distinguishes positions and movers", func(t *testing.T) {
		a := NewTicTacToe().Play(PlaceMove{Site: 0, Mover: 0})
		b := NewTicTacToe().Play(PlaceMove{Site: 1, Mover: 0})

		require.NotEqual(t, a.Hash(), b.Hash(), "different boards should hash differently")
		require.Equal(t, a.Hash(), NewTicTacToe().Play(PlaceMove{Site: 0, Mover: 0}).Hash(),
			"equal positions should hash equally")
	})
}
