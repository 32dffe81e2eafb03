package expander

import (
	"sort"

	"github.com/rs/zerolog/log"

	"ggs/features"
	"ggs/game"
	"ggs/policy"
)

// ObjectiveParams bounds which candidate features are considered
// beneficial.
type ObjectiveParams struct {
	// MinActivationRatio and MaxActivationRatio bracket the fraction of
	// observed moves a candidate must fire on. Features firing almost
	// never or almost always carry no signal.
	MinActivationRatio float64
	MaxActivationRatio float64
	// MinOccurrences is the minimum number of distinct activations.
	MinOccurrences int
}

func DefaultObjectiveParams() ObjectiveParams {
	return ObjectiveParams{
		MinActivationRatio: 0.05,
		MaxActivationRatio: 0.95,
		MinOccurrences:     2,
	}
}

// ActivationStats holds per-feature activation counts over a batch of
// experience, used to prune instances of uninformative features before
// pairing.
type ActivationStats struct {
	Activations []int
	Samples     int
}

func (s *ActivationStats) Ratio(i int) float64 {
	if s.Samples == 0 {
		return 0
	}
	return float64(s.Activations[i]) / float64(s.Samples)
}

// CollectActivationStats counts, per feature, on how many observed moves
// the feature was active.
func CollectActivationStats(batch []Experience, fs *features.FeatureSet) *ActivationStats {
	stats := &ActivationStats{Activations: make([]int, fs.Len())}
	for _, e := range batch {
		vs, ok := e.State.(game.VectorState)
		if !ok {
			continue
		}
		for _, m := range e.Moves {
			stats.Samples++
			for _, idx := range fs.ActiveFeatures(vs.Vectors(), m) {
				stats.Activations[idx]++
			}
		}
	}
	return stats
}

type candidate struct {
	pair        features.CombinableFeatureInstancePair
	activations int
	weight      float64
}

// Expand proposes an enlarged feature set from a batch of experience, or
// nil when no beneficial expansion was found. Candidate combined features
// are discovered by pairing co-active instances per observed move; pairs
// that represent the same logical combination collapse to one canonical
// key, so each candidate is scored once by statistics aggregated over the
// whole batch.
func Expand(batch []Experience, fs *features.FeatureSet, pol *policy.SoftmaxPolicy,
	flags game.Flags, maxNewFeatures int, stats *ActivationStats, params ObjectiveParams) *features.FeatureSet {

	if pol != nil && !pol.SupportsGame(flags) {
		log.Warn().Msg("policy does not support game; skipping feature expansion")
		return nil
	}
	if maxNewFeatures <= 0 {
		return nil
	}

	candidates := make(map[string]*candidate)
	observedMoves := 0

	for _, e := range batch {
		vs, ok := e.State.(game.VectorState)
		if !ok {
			continue
		}
		for moveIdx, m := range e.Moves {
			observedMoves++
			insts := activeInformativeInstances(fs, vs, m, stats, params)
			for i := 0; i < len(insts); i++ {
				for j := i + 1; j < len(insts); j++ {
					pair := features.NewCombinableFeatureInstancePair(insts[i], insts[j])
					c := candidates[pair.Key()]
					if c == nil {
						c = &candidate{pair: pair}
						candidates[pair.Key()] = c
					}
					c.activations++
					c.weight += e.Weight * e.Policy[moveIdx]
				}
			}
		}
	}
	if observedMoves == 0 {
		return nil
	}

	kept := make([]*candidate, 0, len(candidates))
	for _, c := range candidates {
		combined := c.pair.Combined()
		ratio := float64(c.activations) / float64(observedMoves)
		if c.activations < params.MinOccurrences ||
			ratio < params.MinActivationRatio || ratio > params.MaxActivationRatio {
			continue
		}
		if fs.Contains(combined) || subsumedByExisting(fs, combined) {
			continue
		}
		kept = append(kept, c)
	}
	if len(kept) == 0 {
		return nil
	}

	// Prefer discriminative candidates: weight scaled by ratio*(1-ratio)
	// peaks for features active on roughly half the observed moves.
	score := func(c *candidate) float64 {
		ratio := float64(c.activations) / float64(observedMoves)
		return c.weight * ratio * (1 - ratio)
	}
	sort.Slice(kept, func(i, j int) bool {
		si, sj := score(kept[i]), score(kept[j])
		if si != sj {
			return si > sj
		}
		return kept[i].pair.Key() < kept[j].pair.Key()
	})
	if len(kept) > maxNewFeatures {
		kept = kept[:maxNewFeatures]
	}

	extra := make([]*features.SpatialFeature, 0, len(kept))
	seen := make(map[string]bool)
	for _, c := range kept {
		combined := c.pair.Combined()
		if seen[combined.Key()] {
			continue
		}
		seen[combined.Key()] = true
		extra = append(extra, combined)
	}

	expanded := fs.WithFeatures(fs.Name()+"+", extra...)
	log.Info().Int("added", len(extra)).Int("total", expanded.Len()).
		Msg("expanded feature set")
	return expanded
}

// activeInformativeInstances lists the matching instances for a move,
// dropping instances of features whose batch activation ratio falls
// outside the objective bounds.
func activeInformativeInstances(fs *features.FeatureSet, vs game.VectorState,
	m game.Move, stats *ActivationStats, params ObjectiveParams) []features.FeatureInstance {

	insts := fs.ActiveInstances(vs.Vectors(), m)
	if stats == nil {
		return insts
	}
	kept := insts[:0]
	for _, inst := range insts {
		ratio := stats.Ratio(inst.Feature().SetIndex())
		if ratio >= params.MinActivationRatio && ratio <= params.MaxActivationRatio {
			kept = append(kept, inst)
		}
	}
	return kept
}

// subsumedByExisting reports whether an existing feature already covers the
// candidate: a feature generalised by the candidate matches a superset of
// the candidate's states, making the candidate redundant only when the two
// are equivalent; equivalence is what we prune here.
func subsumedByExisting(fs *features.FeatureSet, candidate *features.SpatialFeature) bool {
	for _, have := range fs.Features() {
		if have.Generalises(candidate) && candidate.Generalises(have) {
			return true
		}
	}
	return false
}
