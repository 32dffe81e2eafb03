package game

import (
	"encoding/binary"
	"fmt"
	"hash/fnv"
)

// TicTacToe is a small deterministic two-player alignment game used as the
// built-in test game for the searcher and the feature engine. Sites are
// indexed row-major on a 3x3 grid.
const (
	ticTacToeSize  = 3
	ticTacToeSites = ticTacToeSize * ticTacToeSize
)

// PlaceMove places the mover's piece on an empty site.
type PlaceMove struct {
	Site  int
	Mover int
}

func (m PlaceMove) From() int { return NoSite }

func (m PlaceMove) To() int { return m.Site }

func (m PlaceMove) IsStochastic() bool { return false }

func (m PlaceMove) String() string {
	return fmt.Sprintf("place(%d,%d)", m.Site/ticTacToeSize, m.Site%ticTacToeSize)
}

type TicTacToe struct {
	vectors *BoardVectors
	mover   int
	winner  int // -1 while undecided
	filled  int
}

func NewTicTacToe() *TicTacToe {
	return &TicTacToe{
		vectors: newTicTacToeVectors(),
		winner:  -1,
	}
}

func newTicTacToeVectors() *BoardVectors {
	v := NewBoardVectors(ticTacToeSites, 2, 2)
	for site := 0; site < ticTacToeSites; site++ {
		v.Empty.Set(site, 1)
	}
	return v
}

func (t *TicTacToe) Player() int { return t.mover }

func (t *TicTacToe) Players() int { return 2 }

func (t *TicTacToe) Flags() Flags { return 0 }

func (t *TicTacToe) NumSites() int { return ticTacToeSites }

func (t *TicTacToe) Vectors() *BoardVectors { return t.vectors }

func (t *TicTacToe) LegalMoves() []Move {
	if t.Over() {
		return nil
	}
	moves := make([]Move, 0, ticTacToeSites-t.filled)
	for site := 0; site < ticTacToeSites; site++ {
		if t.vectors.Who.Get(site) == 0 {
			moves = append(moves, PlaceMove{Site: site, Mover: t.mover})
		}
	}
	return moves
}

func (t *TicTacToe) Play(m Move) State {
	move, ok := m.(PlaceMove)
	if !ok {
		panic("unexpected move type")
	}
	next := &TicTacToe{
		vectors: t.vectors.Clone(),
		mover:   1 - t.mover,
		winner:  -1,
		filled:  t.filled + 1,
	}
	piece := uint64(t.mover + 1)
	next.vectors.SetPiece(move.Site, piece, piece)
	if next.completesLine(move.Site, piece) {
		next.winner = t.mover
	}
	return next
}

var ticTacToeLines = [8][3]int{
	{0, 1, 2}, {3, 4, 5}, {6, 7, 8}, // rows
	{0, 3, 6}, {1, 4, 7}, {2, 5, 8}, // columns
	{0, 4, 8}, {2, 4, 6}, // diagonals
}

func (t *TicTacToe) completesLine(site int, piece uint64) bool {
	for _, line := range ticTacToeLines {
		if line[0] != site && line[1] != site && line[2] != site {
			continue
		}
		if t.vectors.Who.Get(line[0]) == piece &&
			t.vectors.Who.Get(line[1]) == piece &&
			t.vectors.Who.Get(line[2]) == piece {
			return true
		}
	}
	return false
}

func (t *TicTacToe) Over() bool {
	return t.winner >= 0 || t.filled == ticTacToeSites
}

func (t *TicTacToe) Utilities() []float64 {
	if t.winner < 0 {
		return []float64{0, 0}
	}
	utilities := []float64{-1, -1}
	utilities[t.winner] = 1
	return utilities
}

func (t *TicTacToe) Hash() StateHash {
	h := fnv.New64a()
	buf := make([]byte, 8)
	for i := 0; i < t.vectors.Who.NumWords(); i++ {
		binary.LittleEndian.PutUint64(buf, t.vectors.Who.Word(i))
		h.Write(buf)
	}
	buf[0] = byte(t.mover)
	h.Write(buf[:1])
	return StateHash(h.Sum64())
}
