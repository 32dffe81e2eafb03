package engine

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"ggs/experiments/metrics"
	"ggs/game"
	"ggs/searcher"
)

// Agent pairs a search engine with its per-move budget. Index i in the
// agent list plays as player i.
type Agent struct {
	Engine        *searcher.MCTS
	MaxSeconds    float64
	MaxIterations int
}

func (a *Agent) selectMove(cur *game.Context) game.Move {
	return a.Engine.SelectMove(context.Background(), cur, a.MaxSeconds, a.MaxIterations)
}

type localEngine struct {
	ctx    *game.Context
	agents []*Agent
}

// NewLocalEngine runs games in process on a shared game context. All
// agents search the same context, so tree reuse sees the full move
// history including opponent moves.
func NewLocalEngine(initial game.State, agents []*Agent) Engine {
	if len(agents) != initial.Players() {
		panic("number of agents does not match number of players")
	}
	for _, a := range agents {
		if !a.Engine.SupportsGame(initial.Flags()) {
			panic("agent " + a.Engine.FriendlyName() + " does not support this game")
		}
	}
	return &localEngine{
		ctx:    game.NewContext(initial),
		agents: agents,
	}
}

func (e *localEngine) Run() (string, metrics.GameMetric, []metrics.MoveMetric) {
	startTime := time.Now()
	startingPlayer := e.ctx.State().Player()
	var moveMetrics []metrics.MoveMetric

	step := 0
	for !e.ctx.Over() && step < MaxMoves {
		mover := e.ctx.State().Player()
		agent := e.agents[mover]

		move := agent.selectMove(e.ctx)
		if move == nil {
			log.Warn().Int("player", mover).Int("step", step).
				Msg("no move selected in a non-terminal position; aborting game")
			break
		}
		e.ctx.Apply(move)
		step++
		moveMetrics = append(moveMetrics, metrics.MoveMetric{
			Step:         step,
			Player:       mover,
			SearchMetric: agent.Engine.LastSearchMetric(),
		})
	}

	winner := e.winner()
	endTime := time.Now()
	gameMetric := metrics.GameMetric{
		StartingPlayer: startingPlayer,
		Winner:         winner,
		StartTime:      startTime,
		EndTime:        endTime,
		Duration:       endTime.Sub(startTime),
		TotalMoves:     step,
	}
	return winner, gameMetric, moveMetrics
}

// winner names the agent with the highest utility, or returns "" on a draw
// or an unfinished game.
func (e *localEngine) winner() string {
	if !e.ctx.Over() {
		return ""
	}
	utilities := e.ctx.Trial().Utilities()
	best, tied := 0, false
	for p := 1; p < len(utilities); p++ {
		switch {
		case utilities[p] > utilities[best]:
			best, tied = p, false
		case utilities[p] == utilities[best]:
			tied = true
		}
	}
	if tied {
		return ""
	}
	return e.agents[best].Engine.FriendlyName()
}
