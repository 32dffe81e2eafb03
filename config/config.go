// Package config builds MCTS engines from the two supported construction
// formats: line-oriented key=value tokens and a structured JSON object.
// Strategy names resolve through explicit registries, never reflection.
package config

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"ggs/searcher"
)

type selectionCtor func(params map[string]string) (searcher.SelectionStrategy, error)

type playoutCtor func(params map[string]string) (searcher.PlayoutStrategy, error)

type finalMoveCtor func(params map[string]string) (searcher.FinalMoveSelectionStrategy, error)

var selectionRegistry = map[string]selectionCtor{
	"ucb1":               newUCB1FromConfig,
	"progressivehistory": newProgressiveHistoryFromConfig,
}

var playoutRegistry = map[string]playoutCtor{
	"random":  newRandomPlayoutFromConfig,
	"softmax": newSoftmaxPlayoutFromConfig,
}

var finalMoveRegistry = map[string]finalMoveCtor{
	"robustchild":               newRobustChildFromConfig,
	"maxavgscore":               newMaxAvgScoreFromConfig,
	"proportionalexpvisitcount": newProportionalFromConfig,
}

const (
	defaultSelection = "ucb1"
	defaultPlayout   = "random"
	defaultFinalMove = "robustchild"
)

func init() {
	// The defaults must resolve; a missing registry entry is a programming
	// error caught at startup, not a silent fallback at lookup time.
	if _, ok := selectionRegistry[defaultSelection]; !ok {
		panic("default selection strategy not registered")
	}
	if _, ok := playoutRegistry[defaultPlayout]; !ok {
		panic("default playout strategy not registered")
	}
	if _, ok := finalMoveRegistry[defaultFinalMove]; !ok {
		panic("default final move selection strategy not registered")
	}
}

func newUCB1FromConfig(params map[string]string) (searcher.SelectionStrategy, error) {
	s := searcher.NewUCB1()
	if v, ok := params["explorationconstant"]; ok {
		c, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid explorationconstant %q: %w", v, err)
		}
		s.Exploration = c
	}
	if v, ok := params["qinit"]; ok {
		q, err := searcher.ParseQInit(v)
		if err != nil {
			return nil, err
		}
		s.Unvisited = q
	}
	return s, nil
}

func newProgressiveHistoryFromConfig(params map[string]string) (searcher.SelectionStrategy, error) {
	s := searcher.NewProgressiveHistory()
	if v, ok := params["explorationconstant"]; ok {
		c, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid explorationconstant %q: %w", v, err)
		}
		s.Exploration = c
	}
	if v, ok := params["qinit"]; ok {
		q, err := searcher.ParseQInit(v)
		if err != nil {
			return nil, err
		}
		s.Unvisited = q
	}
	if v, ok := params["influenceweight"]; ok {
		w, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid influenceweight %q: %w", v, err)
		}
		s.Influence = w
	}
	return s, nil
}

func newRandomPlayoutFromConfig(params map[string]string) (searcher.PlayoutStrategy, error) {
	p := searcher.NewRandomPlayout()
	if v, ok := params["playoutturnlimit"]; ok {
		limit, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid playoutturnlimit %q: %w", v, err)
		}
		p.TurnLimit = limit
	}
	return p, nil
}

// newSoftmaxPlayoutFromConfig builds a policy-biased playout without a
// policy; the caller attaches one programmatically. Until then the playout
// behaves uniformly.
func newSoftmaxPlayoutFromConfig(params map[string]string) (searcher.PlayoutStrategy, error) {
	p := searcher.NewSoftmaxPlayout(nil)
	if v, ok := params["playoutturnlimit"]; ok {
		limit, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid playoutturnlimit %q: %w", v, err)
		}
		p.TurnLimit = limit
	}
	if v, ok := params["epsilon"]; ok {
		eps, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid epsilon %q: %w", v, err)
		}
		p.Epsilon = eps
	}
	return p, nil
}

func newRobustChildFromConfig(map[string]string) (searcher.FinalMoveSelectionStrategy, error) {
	return searcher.RobustChild{}, nil
}

func newMaxAvgScoreFromConfig(map[string]string) (searcher.FinalMoveSelectionStrategy, error) {
	return searcher.MaxAvgScore{}, nil
}

func newProportionalFromConfig(params map[string]string) (searcher.FinalMoveSelectionStrategy, error) {
	s := searcher.NewProportionalExpVisitCount()
	if v, ok := params["temperature"]; ok {
		t, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid temperature %q: %w", v, err)
		}
		s.Temperature = t
	}
	return s, nil
}

// FromLines builds an engine from line-oriented configuration. Each line
// holds comma-separated key=value tokens with case-insensitive keys, e.g.
//
//	selection=ucb1,qinit=parent
//	playout=random,playoutturnlimit=200
//	final_move=robustchild
//	tree_reuse=true
//	friendly_name=baseline
//
// Malformed tokens, unrecognized keys, and unknown values are reported and
// the default for that component is kept; construction never fails.
func FromLines(lines []string, extra ...searcher.Option) *searcher.MCTS {
	var options []searcher.Option

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		params := parseTokens(line)

		if name, ok := params["selection"]; ok {
			if ctor, ok := selectionRegistry[name]; !ok {
				log.Error().Str("selection", name).Msg("unknown selection strategy; keeping default")
			} else if s, err := ctor(params); err != nil {
				log.Error().Err(err).Str("selection", name).Msg("bad selection config; keeping default")
			} else {
				options = append(options, searcher.WithSelection(s))
			}
		}
		if name, ok := params["playout"]; ok {
			if ctor, ok := playoutRegistry[name]; !ok {
				log.Error().Str("playout", name).Msg("unknown playout strategy; keeping default")
			} else if p, err := ctor(params); err != nil {
				log.Error().Err(err).Str("playout", name).Msg("bad playout config; keeping default")
			} else {
				options = append(options, searcher.WithPlayout(p))
			}
		}
		if name, ok := params["final_move"]; ok {
			if ctor, ok := finalMoveRegistry[name]; !ok {
				log.Error().Str("final_move", name).Msg("unknown final move selection; keeping default")
			} else if f, err := ctor(params); err != nil {
				log.Error().Err(err).Str("final_move", name).Msg("bad final move config; keeping default")
			} else {
				options = append(options, searcher.WithFinalMoveSelection(f))
			}
		}
		if v, ok := params["tree_reuse"]; ok {
			reuse, err := strconv.ParseBool(v)
			if err != nil {
				log.Error().Str("tree_reuse", v).Msg("invalid tree_reuse value; keeping default")
			} else {
				options = append(options, searcher.WithTreeReuse(reuse))
			}
		}
		if v, ok := params["autoplayseconds"]; ok {
			seconds, err := strconv.ParseFloat(v, 64)
			if err != nil {
				log.Error().Str("autoplayseconds", v).Msg("invalid autoplayseconds value; keeping default")
			} else {
				options = append(options, searcher.WithAutoPlaySeconds(seconds))
			}
		}
		if v, ok := params["friendly_name"]; ok {
			options = append(options, searcher.WithFriendlyName(v))
		}
		for _, key := range unknownKeys(params) {
			log.Error().Str("key", key).Msg("unknown configuration key; ignoring")
		}
	}

	options = append(options, extra...)
	return searcher.NewMCTS(options...)
}

// knownKeys lists every key either consumed directly by FromLines or passed
// through to a strategy constructor. Anything outside this set is a typo and
// gets reported.
var knownKeys = map[string]bool{
	"selection":           true,
	"playout":             true,
	"final_move":          true,
	"tree_reuse":          true,
	"autoplayseconds":     true,
	"friendly_name":       true,
	"explorationconstant": true,
	"qinit":               true,
	"influenceweight":     true,
	"playoutturnlimit":    true,
	"epsilon":             true,
	"temperature":         true,
}

func unknownKeys(params map[string]string) []string {
	var unknown []string
	for key := range params {
		if !knownKeys[key] {
			unknown = append(unknown, key)
		}
	}
	sort.Strings(unknown)
	return unknown
}

// parseTokens splits a line into key=value tokens. Keys fold to lower
// case; the friendly_name value keeps its case.
func parseTokens(line string) map[string]string {
	params := make(map[string]string)
	for _, token := range strings.Split(line, ",") {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		key, value, found := strings.Cut(token, "=")
		if !found {
			log.Error().Str("token", token).Msg("malformed configuration token; skipping")
			continue
		}
		key = strings.ToLower(strings.TrimSpace(key))
		value = strings.TrimSpace(value)
		if key != "friendly_name" {
			value = strings.ToLower(value)
		}
		params[key] = value
	}
	return params
}
