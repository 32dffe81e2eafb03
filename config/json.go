package config

import (
	"encoding/json"
	"fmt"
	"strings"

	"ggs/searcher"
)

// StrategySpec names one strategy and its parameters.
type StrategySpec struct {
	Strategy string            `json:"strategy"`
	Params   map[string]string `json:"params,omitempty"`
}

// EngineSpec is the structured configuration object. Absent fields keep
// the engine defaults.
type EngineSpec struct {
	Selection       *StrategySpec `json:"selection,omitempty"`
	Playout         *StrategySpec `json:"playout,omitempty"`
	FinalMove       *StrategySpec `json:"final_move,omitempty"`
	TreeReuse       *bool         `json:"tree_reuse,omitempty"`
	AutoPlaySeconds *float64      `json:"autoplay_seconds,omitempty"`
	FriendlyName    string        `json:"friendly_name,omitempty"`
}

// FromJSON builds an engine from a structured JSON document. Unlike the
// line format, a bad document is an error: structured callers want to
// know their configuration was rejected rather than run with defaults.
func FromJSON(data []byte, extra ...searcher.Option) (*searcher.MCTS, error) {
	var spec EngineSpec
	if err := json.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("parsing engine configuration: %w", err)
	}
	return FromSpec(spec, extra...)
}

// FromSpec builds an engine from an already-decoded specification.
func FromSpec(spec EngineSpec, extra ...searcher.Option) (*searcher.MCTS, error) {
	var options []searcher.Option

	if spec.Selection != nil {
		ctor, ok := selectionRegistry[strings.ToLower(spec.Selection.Strategy)]
		if !ok {
			return nil, fmt.Errorf("unknown selection strategy %q", spec.Selection.Strategy)
		}
		s, err := ctor(foldKeys(spec.Selection.Params))
		if err != nil {
			return nil, fmt.Errorf("selection: %w", err)
		}
		options = append(options, searcher.WithSelection(s))
	}
	if spec.Playout != nil {
		ctor, ok := playoutRegistry[strings.ToLower(spec.Playout.Strategy)]
		if !ok {
			return nil, fmt.Errorf("unknown playout strategy %q", spec.Playout.Strategy)
		}
		p, err := ctor(foldKeys(spec.Playout.Params))
		if err != nil {
			return nil, fmt.Errorf("playout: %w", err)
		}
		options = append(options, searcher.WithPlayout(p))
	}
	if spec.FinalMove != nil {
		ctor, ok := finalMoveRegistry[strings.ToLower(spec.FinalMove.Strategy)]
		if !ok {
			return nil, fmt.Errorf("unknown final move selection %q", spec.FinalMove.Strategy)
		}
		f, err := ctor(foldKeys(spec.FinalMove.Params))
		if err != nil {
			return nil, fmt.Errorf("final_move: %w", err)
		}
		options = append(options, searcher.WithFinalMoveSelection(f))
	}
	if spec.TreeReuse != nil {
		options = append(options, searcher.WithTreeReuse(*spec.TreeReuse))
	}
	if spec.AutoPlaySeconds != nil {
		options = append(options, searcher.WithAutoPlaySeconds(*spec.AutoPlaySeconds))
	}
	if spec.FriendlyName != "" {
		options = append(options, searcher.WithFriendlyName(spec.FriendlyName))
	}

	options = append(options, extra...)
	return searcher.NewMCTS(options...), nil
}

func foldKeys(params map[string]string) map[string]string {
	if len(params) == 0 {
		return nil
	}
	folded := make(map[string]string, len(params))
	for k, v := range params {
		folded[strings.ToLower(k)] = strings.ToLower(v)
	}
	return folded
}
