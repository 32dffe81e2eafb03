package config

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"ggs/game"
	"ggs/searcher"
)

func TestParseTokens(t *testing.T) {
	t.Run("keys fold to lower case", func(t *testing.T) {
		params := parseTokens("Selection=UCB1, ExplorationConstant=0.6")

		require.Equal(t, "ucb1", params["selection"])
		require.Equal(t, "0.6", params["explorationconstant"])
	})

	t.Run("the friendly name keeps its case", func(t *testing.T) {
		params := parseTokens("friendly_name=My Agent")

		require.Equal(t, "My Agent", params["friendly_name"])
	})

	t.Run("malformed tokens are skipped", func(t *testing.T) {
		params := parseTokens("selection=ucb1,no-equals-sign,,playout=random")

		require.Equal(t, map[string]string{
			"selection": "ucb1",
			"playout":   "random",
		}, params)
	})
}

func TestUnknownKeys(t *testing.T) {
	t.Run("mistyped keys are flagged", func(t *testing.T) {
		params := parseTokens("tree_resue=true,selection=ucb1")

		require.Equal(t, []string{"tree_resue"}, unknownKeys(params))
	})

	t.Run("strategy parameters count as known", func(t *testing.T) {
		params := parseTokens(
			"selection=progressivehistory,explorationconstant=0.6,qinit=draw," +
				"influenceweight=2,playoutturnlimit=100,epsilon=0.2,temperature=1.5")

		require.Empty(t, unknownKeys(params))
	})

	t.Run("a line with unknown keys still configures the rest", func(t *testing.T) {
		m := FromLines([]string{"tree_resue=true,friendly_name=typo-test"},
			searcher.WithSeed(1))

		require.Equal(t, "typo-test", m.FriendlyName())
	})
}

func TestStrategyConstructors(t *testing.T) {
	t.Run("ucb1 accepts an exploration constant and qinit", func(t *testing.T) {
		s, err := newUCB1FromConfig(map[string]string{
			"explorationconstant": "0.25",
			"qinit":               "parent",
		})

		require.NoError(t, err)
		ucb := s.(*searcher.UCB1)
		require.Equal(t, 0.25, ucb.Exploration)
		require.Equal(t, searcher.QInitParent, ucb.Unvisited)
	})

	t.Run("ucb1 rejects an unparsable exploration constant", func(t *testing.T) {
		_, err := newUCB1FromConfig(map[string]string{"explorationconstant": "lots"})

		require.Error(t, err)
	})

	t.Run("ucb1 rejects an unknown qinit", func(t *testing.T) {
		_, err := newUCB1FromConfig(map[string]string{"qinit": "optimism"})

		require.Error(t, err)
	})

	t.Run("progressive history accepts an influence weight", func(t *testing.T) {
		s, err := newProgressiveHistoryFromConfig(map[string]string{
			"explorationconstant": "0.5",
			"influenceweight":     "2",
		})

		require.NoError(t, err)
		ph := s.(*searcher.ProgressiveHistory)
		require.Equal(t, 0.5, ph.Exploration)
		require.Equal(t, 2.0, ph.Influence)
	})

	t.Run("progressive history rejects an unparsable influence weight", func(t *testing.T) {
		_, err := newProgressiveHistoryFromConfig(map[string]string{"influenceweight": "heavy"})

		require.Error(t, err)
	})

	t.Run("random playout accepts a turn limit", func(t *testing.T) {
		p, err := newRandomPlayoutFromConfig(map[string]string{"playoutturnlimit": "40"})

		require.NoError(t, err)
		require.Equal(t, 40, p.(*searcher.RandomPlayout).TurnLimit)
	})

	t.Run("softmax playout accepts epsilon without a policy", func(t *testing.T) {
		p, err := newSoftmaxPlayoutFromConfig(map[string]string{"epsilon": "0.2"})

		require.NoError(t, err)
		require.Equal(t, 0.2, p.(*searcher.SoftmaxPlayout).Epsilon)
	})

	t.Run("proportional selection accepts a temperature", func(t *testing.T) {
		f, err := newProportionalFromConfig(map[string]string{"temperature": "1.5"})

		require.NoError(t, err)
		require.Equal(t, 1.5, f.(*searcher.ProportionalExpVisitCount).Temperature)
	})
}

func TestFromLines(t *testing.T) {
	t.Run("a full configuration yields a working engine", func(t *testing.T) {
		m := FromLines([]string{
			"selection=ucb1,explorationconstant=0.6,qinit=win",
			"playout=random,playoutturnlimit=100",
			"final_move=robustchild",
			"tree_reuse=false",
			"friendly_name=Baseline",
		})

		require.Equal(t, "Baseline", m.FriendlyName())
		c := game.NewContext(game.NewTicTacToe())
		require.NotNil(t, m.SelectMove(context.Background(), c, 0, 50))
	})

	t.Run("unknown strategies and bad values keep the defaults", func(t *testing.T) {
		m := FromLines([]string{
			"selection=minimax",
			"playout=random,playoutturnlimit=soon",
			"tree_reuse=perhaps",
			"# a comment line",
			"",
		})

		c := game.NewContext(game.NewTicTacToe())
		require.NotNil(t, m.SelectMove(context.Background(), c, 0, 50))
	})

	t.Run("extra options are applied after the lines", func(t *testing.T) {
		m := FromLines([]string{"friendly_name=FromLines"},
			searcher.WithFriendlyName("FromCaller"))

		require.Equal(t, "FromCaller", m.FriendlyName())
	})
}

func TestFromJSON(t *testing.T) {
	t.Run("a structured document configures every component", func(t *testing.T) {
		doc := []byte(`{
			"selection": {"strategy": "UCB1", "params": {"QInit": "Parent"}},
			"playout": {"strategy": "random", "params": {"playoutturnlimit": "80"}},
			"final_move": {"strategy": "proportionalexpvisitcount", "params": {"temperature": "2"}},
			"tree_reuse": true,
			"friendly_name": "Structured"
		}`)

		m, err := FromJSON(doc)

		require.NoError(t, err)
		require.Equal(t, "Structured", m.FriendlyName())
	})

	t.Run("an unknown strategy is an error", func(t *testing.T) {
		_, err := FromJSON([]byte(`{"selection": {"strategy": "minimax"}}`))

		require.ErrorContains(t, err, "unknown selection strategy")
	})

	t.Run("a bad parameter is an error", func(t *testing.T) {
		_, err := FromJSON([]byte(`{"playout": {"strategy": "random", "params": {"playoutturnlimit": "soon"}}}`))

		require.ErrorContains(t, err, "playout")
	})

	t.Run("malformed JSON is an error", func(t *testing.T) {
		_, err := FromJSON([]byte(`{"selection":`))

		require.Error(t, err)
	})

	t.Run("an empty document keeps every default", func(t *testing.T) {
		m, err := FromJSON([]byte(`{}`))

		require.NoError(t, err)
		c := game.NewContext(game.NewTicTacToe())
		require.NotNil(t, m.SelectMove(context.Background(), c, 0, 50))
	})
}
