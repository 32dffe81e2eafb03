// Package engine runs complete games between search agents.
package engine

import "ggs/experiments/metrics"

const MaxMoves = 10000

type Engine interface {
	// Run plays a game until it ends or a maximum number of moves is
	// reached.
	Run() (winner string, gameMetric metrics.GameMetric, moveMetrics []metrics.MoveMetric)
}
