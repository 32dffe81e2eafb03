package main

import (
	"flag"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"ggs/expander"
	"ggs/experiments"
	"ggs/features"
	"ggs/game"
	"ggs/player"
	"ggs/policy"
)

func main() {
	mode := flag.String("mode", "experiment", "experiment | train")
	experiment := flag.String("experiment", "tree_reuse", "tree_reuse | final_move | exploration")
	games := flag.Int("games", 100, "number of self-play training games")
	iterations := flag.Int("iterations", 1000, "search iterations per move")
	weightsOut := flag.String("weights", "weights.txt", "output path for trained weights")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	switch *mode {
	case "experiment":
		runExperiment(*experiment)
	case "train":
		runTraining(*games, *iterations, *weightsOut)
	default:
		log.Fatal().Str("mode", *mode).Msg("unknown mode")
	}
}

func runExperiment(name string) {
	var err error
	switch name {
	case "tree_reuse":
		err = experiments.RunTreeReuseExperiment()
	case "final_move":
		err = experiments.RunFinalMoveExperiment()
	case "exploration":
		err = experiments.RunExplorationExperiment()
	default:
		log.Fatal().Str("experiment", name).Msg("unknown experiment")
	}
	if err != nil {
		log.Fatal().Err(err).Str("experiment", name).Msg("experiment failed")
	}
}

// runTraining self-plays tic-tac-toe from a single-feature seed set,
// letting expansion discover the rest.
func runTraining(games, iterations int, weightsOut string) {
	state := game.NewTicTacToe()
	fs := seedFeatureSet(state)

	linear := policy.NewLinearFunction(make([]float64, fs.Len()), fs.Name())
	pol := policy.NewSoftmaxPolicy(linear, fs)
	buffer := expander.NewRingBuffer(4096)

	cfg := player.DefaultTrainingConfig()
	cfg.Games = games
	cfg.IterationsPerMove = iterations
	cfg.WeightsPath = weightsOut

	trainer := player.NewTrainer(pol, buffer, uint64(time.Now().UnixNano()), cfg)
	if err := trainer.Run(state); err != nil {
		log.Fatal().Err(err).Msg("training failed")
	}
	log.Info().Str("weights", weightsOut).Msg("training complete")
}

// seedFeatureSet starts from mover-agnostic occupancy patterns around the
// move destination; expansion discovers combinations from there. Relative
// sites encode signed grid offsets as dr*width+dc, so every offset here
// stays within one column of the anchor, the widest reach GridTransform's
// encoding can represent on a width-3 grid.
func seedFeatureSet(state game.VectorState) *features.FeatureSet {
	elements := [][]features.FeatureElement{
		{{Type: features.ElementEmpty, Site: 0}},
		{{Type: features.ElementEmpty, Negated: true, Site: 1}},
		{{Type: features.ElementEmpty, Negated: true, Site: -1}},
		{{Type: features.ElementEmpty, Negated: true, Site: 3}},
		{{Type: features.ElementEmpty, Negated: true, Site: -3}},
	}
	seeds := make([]*features.SpatialFeature, 0, len(elements))
	for _, elems := range elements {
		seeds = append(seeds, features.NewFeatureFromElements(elems, 0, state.Players()))
	}
	return features.NewFeatureSet("seed", seeds, features.GridTransform(3, 3),
		state.NumSites(), []int{0, 1, 2, 3}, []int{0, 1})
}
