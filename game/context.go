package game

// Trial records the move history of one line of play along with its terminal
// status and final utilities.
type Trial struct {
	moves     []Move
	hashes    []StateHash // hash of the state resulting from each move
	over      bool
	utilities []float64
}

func (t *Trial) Moves() []Move { return t.moves }

// Hashes returns the hash of the state each recorded move led to, so a
// searcher replaying the history can match stochastic outcomes.
func (t *Trial) Hashes() []StateHash { return t.hashes }

func (t *Trial) NumMoves() int { return len(t.moves) }

func (t *Trial) Over() bool { return t.over }

// Utilities returns the per-player final utilities, or nil while the trial
// is still live.
func (t *Trial) Utilities() []float64 { return t.utilities }

func (t *Trial) record(m Move, s State) {
	t.moves = append(t.moves, m)
	t.hashes = append(t.hashes, s.Hash())
	if s.Over() {
		t.over = true
		t.utilities = s.Utilities()
	}
}

func (t *Trial) clone() Trial {
	moves := make([]Move, len(t.moves))
	copy(moves, t.moves)
	hashes := make([]StateHash, len(t.hashes))
	copy(hashes, t.hashes)
	var utilities []float64
	if t.utilities != nil {
		utilities = make([]float64, len(t.utilities))
		copy(utilities, t.utilities)
	}
	return Trial{moves: moves, hashes: hashes, over: t.over, utilities: utilities}
}

// Context pairs a game state with the trial that produced it. One context is
// owned per search thread-of-control and is cloned and advanced during
// selection and playout.
type Context struct {
	state State
	trial Trial
}

func NewContext(s State) *Context {
	c := &Context{state: s}
	if s.Over() {
		c.trial.over = true
		c.trial.utilities = s.Utilities()
	}
	return c
}

func (c *Context) State() State { return c.state }

func (c *Context) Trial() *Trial { return &c.trial }

func (c *Context) Over() bool { return c.trial.over }

// Apply advances the context by one move.
func (c *Context) Apply(m Move) {
	c.state = c.state.Play(m)
	c.trial.record(m, c.state)
}

func (c *Context) Clone() *Context {
	return &Context{state: c.state, trial: c.trial.clone()}
}
