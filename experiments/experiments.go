// Package experiments runs self-play matchups between differently
// configured engines and records the results as CSV.
package experiments

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"ggs/config"
	"ggs/engine"
	"ggs/experiments/metrics"
	"ggs/game"
	"ggs/searcher"
)

const NumGames = 30 // Per matchup

// RunTreeReuseExperiment pairs a tree-reusing engine against one that
// searches from scratch every move, under the same budget.
func RunTreeReuseExperiment() error {
	baseline := metrics.AgentConfig{
		ID:            0,
		Name:          "reuse",
		Lines:         []string{"friendly_name=reuse,tree_reuse=true"},
		MaxIterations: 2000,
	}
	fresh := metrics.AgentConfig{
		ID:            1,
		Name:          "fresh",
		Lines:         []string{"friendly_name=fresh,tree_reuse=false"},
		MaxIterations: 2000,
	}

	configs := []metrics.AgentConfig{baseline, fresh}
	matchUps := [][2]metrics.AgentConfig{{baseline, fresh}, {fresh, baseline}}
	return RunMatchups("tree_reuse", configs, matchUps)
}

// RunFinalMoveExperiment compares final move selection strategies under
// the same search budget.
func RunFinalMoveExperiment() error {
	configs := []metrics.AgentConfig{
		{ID: 0, Name: "robust", Lines: []string{"friendly_name=robust,final_move=robustchild"}, MaxIterations: 2000},
		{ID: 1, Name: "maxavg", Lines: []string{"friendly_name=maxavg,final_move=maxavgscore"}, MaxIterations: 2000},
		{ID: 2, Name: "proportional", Lines: []string{"friendly_name=proportional,final_move=proportionalexpvisitcount"}, MaxIterations: 2000},
	}

	baseline := configs[0]
	matchUps := [][2]metrics.AgentConfig{}
	for _, other := range configs[1:] {
		matchUps = append(matchUps, [2]metrics.AgentConfig{baseline, other})
		matchUps = append(matchUps, [2]metrics.AgentConfig{other, baseline})
	}
	return RunMatchups("final_move", configs, matchUps)
}

// RunExplorationExperiment sweeps the UCB1 exploration constant against
// the default.
func RunExplorationExperiment() error {
	baseline := metrics.AgentConfig{
		ID:            0,
		Name:          "default",
		Lines:         []string{"friendly_name=default,selection=ucb1"},
		MaxIterations: 2000,
	}
	configs := []metrics.AgentConfig{baseline}
	matchUps := [][2]metrics.AgentConfig{}
	for i, c := range []string{"0.5", "1.0", "2.0"} {
		cfg := metrics.AgentConfig{
			ID:            i + 1,
			Name:          "c" + c,
			Lines:         []string{fmt.Sprintf("friendly_name=c%s,selection=ucb1,explorationconstant=%s", c, c)},
			MaxIterations: 2000,
		}
		configs = append(configs, cfg)
		matchUps = append(matchUps, [2]metrics.AgentConfig{baseline, cfg})
	}
	return RunMatchups("exploration", configs, matchUps)
}

type gameResult struct {
	winner      string
	gameMetric  metrics.GameMetric
	moveMetrics []metrics.MoveMetric
}

// RunMatchups plays NumGames games for each matchup and stores agent
// configs, game records, and move records under a timestamped directory.
// Games within a matchup run concurrently; each game builds fresh engines
// so no state is shared across goroutines.
func RunMatchups(name string, configs []metrics.AgentConfig, matchUps [][2]metrics.AgentConfig) error {
	log.Info().Msgf("starting %s experiment", name)

	count := 0
	gameRecords := []metrics.GameRecord{}
	moveRecords := []metrics.MoveRecord{}

	for mi, matchup := range matchUps {
		config1, config2 := matchup[0], matchup[1]
		log.Info().Msgf("starting matchup %d of %d: %s vs %s", mi+1, len(matchUps), config1.Name, config2.Name)

		results := make([]gameResult, NumGames)
		var group errgroup.Group
		for i := 0; i < NumGames; i++ {
			i := i
			group.Go(func() error {
				winner, gameMetric, moveMetrics := runGame(config1, config2)
				results[i] = gameResult{winner, gameMetric, moveMetrics}
				return nil
			})
		}
		if err := group.Wait(); err != nil {
			return err
		}

		for _, result := range results {
			count++
			gameRecords = append(gameRecords, metrics.GameRecord{
				ID:         count,
				Agent1:     config1.ID,
				Agent2:     config2.ID,
				GameMetric: result.gameMetric,
			})
			for _, mm := range result.moveMetrics {
				moveRecords = append(moveRecords, metrics.MoveRecord{
					Game:       count,
					MoveMetric: mm,
				})
			}
		}
		log.Info().Msgf("completed matchup %d of %d", mi+1, len(matchUps))
	}

	log.Info().Msgf("completed %s experiment", name)

	writer, err := metrics.NewWriter(name)
	if err != nil {
		return fmt.Errorf("creating experiment writer: %w", err)
	}
	if err := writer.WriteAgentConfigs(configs); err != nil {
		return fmt.Errorf("storing agent configs: %w", err)
	}
	if err := writer.WriteGameRecords(gameRecords); err != nil {
		return fmt.Errorf("storing game records: %w", err)
	}
	if err := writer.WriteMoveRecords(moveRecords); err != nil {
		return fmt.Errorf("storing move records: %w", err)
	}
	log.Info().Str("experiment", name).Msg("stored experiment records")
	return nil
}

func runGame(config1, config2 metrics.AgentConfig) (string, metrics.GameMetric, []metrics.MoveMetric) {
	agents := []*engine.Agent{
		createAgent(config1),
		createAgent(config2),
	}
	e := engine.NewLocalEngine(game.NewTicTacToe(), agents)
	return e.Run()
}

func createAgent(cfg metrics.AgentConfig) *engine.Agent {
	mcts := config.FromLines(cfg.Lines, searcher.WithCollector(metrics.NewCollector()))
	maxIterations := cfg.MaxIterations
	if maxIterations == 0 {
		maxIterations = -1
	}
	return &engine.Agent{
		Engine:        mcts,
		MaxSeconds:    cfg.MaxSeconds,
		MaxIterations: maxIterations,
	}
}
