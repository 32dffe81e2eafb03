package game

// StateHash is a 64-bit hash of a game state, used for transposition lookups
// and for matching stochastic outcomes during tree descent.
type StateHash uint64

// Flags describes static properties of a game that the searcher must know
// about before committing to a search.
type Flags uint32

const (
	// Stochastic is set when applying a move may lead to more than one
	// successor state.
	Stochastic Flags = 1 << iota
	// SimultaneousMoves is set when players move at the same time.
	// Searchers that cannot handle this must report non-support.
	SimultaneousMoves
)

// NoSite is the sentinel for a move position that does not exist.
const NoSite = -1

// Move is an atomic game action. From and To return NoSite when the move has
// no such position.
type Move interface {
	From() int
	To() int
	IsStochastic() bool
	String() string
}

// State should be immutable - operations on State always return a new copy.
type State interface {
	// Player returns the id of the player to move (0-based).
	Player() int
	// Players returns the number of players.
	Players() int
	LegalMoves() []Move
	Play(Move) State
	Hash() StateHash
	// Over reports whether the game has ended.
	Over() bool
	// Utilities returns the final utility per player, each in [-1, 1].
	// Only valid once Over reports true.
	Utilities() []float64
	Flags() Flags
}

// VectorState is implemented by states that expose packed per-site bit
// vectors for feature matching.
type VectorState interface {
	State
	Vectors() *BoardVectors
	NumSites() int
}

// Evaluate scores a state between -1 and 1 from the current player's
// perspective.
type Evaluate func(State) float64
