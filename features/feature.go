package features

import (
	"hash/fnv"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"
)

// SpatialFeature is a conjunction of atomic propositions over sites relative
// to a pivot, together with the orientation metadata of the pattern it was
// built from. Immutable once constructed.
type SpatialFeature struct {
	props      []AtomicProposition
	elements   []FeatureElement // element view when built from a pattern, else nil
	rotation   int
	reflection int
	anchorSite int
	setIndex   int // index within the owning feature set, -1 when unattached
	key        string
}

func NewSpatialFeature(props []AtomicProposition, rotation, reflection, anchorSite int) *SpatialFeature {
	f := &SpatialFeature{
		props:      normalizeProps(props),
		rotation:   rotation,
		reflection: reflection,
		anchorSite: anchorSite,
		setIndex:   -1,
	}
	f.key = propsKey(f.props)
	return f
}

// NewFeatureFromElements builds a feature by resolving pattern elements
// against a concrete mover.
func NewFeatureFromElements(elements []FeatureElement, mover, players int) *SpatialFeature {
	var props []AtomicProposition
	for _, e := range elements {
		props = append(props, e.Propositions(mover, players)...)
	}
	f := NewSpatialFeature(props, 0, 0, 0)
	f.elements = elements
	return f
}

// normalizeProps sorts, deduplicates, and prunes propositions that are
// already proven by another proposition in the conjunction. A contradictory
// conjunction is a construction defect and is logged.
func normalizeProps(props []AtomicProposition) []AtomicProposition {
	sorted := make([]AtomicProposition, len(props))
	copy(sorted, props)
	sort.Slice(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.vector != b.vector {
			return a.vector < b.vector
		}
		if a.site != b.site {
			return a.site < b.site
		}
		if a.value != b.value {
			return a.value < b.value
		}
		return !a.negated && b.negated
	})

	kept := make([]AtomicProposition, 0, len(sorted))
	for i, p := range sorted {
		redundant := false
		for j, q := range sorted {
			if i == j {
				continue
			}
			if q.DisprovesIfTrue(p) {
				log.Error().Stringer("first", q).Stringer("second", p).
					Msg("contradictory propositions in one feature")
			}
			// Drop p when another proposition proves it. When two
			// propositions prove each other only the first survives.
			if q.ProvesIfTrue(p) && (j < i || !p.ProvesIfTrue(q)) {
				redundant = true
				break
			}
		}
		if !redundant {
			kept = append(kept, p)
		}
	}
	return kept
}

func propsKey(props []AtomicProposition) string {
	parts := make([]string, len(props))
	for i, p := range props {
		parts[i] = p.String()
	}
	return strings.Join(parts, ",")
}

func (f *SpatialFeature) Propositions() []AtomicProposition { return f.props }

func (f *SpatialFeature) Elements() []FeatureElement { return f.elements }

func (f *SpatialFeature) Rotation() int { return f.rotation }

func (f *SpatialFeature) Reflection() int { return f.reflection }

func (f *SpatialFeature) AnchorSite() int { return f.anchorSite }

func (f *SpatialFeature) SetIndex() int { return f.setIndex }

// withSetIndex returns a copy of f owned by the feature set at index i.
func (f *SpatialFeature) withSetIndex(i int) *SpatialFeature {
	clone := *f
	clone.setIndex = i
	return &clone
}

// Key is the canonical identity of the feature: two features with the same
// normalized proposition set share a key regardless of how they were built.
func (f *SpatialFeature) Key() string { return f.key }

func (f *SpatialFeature) Equals(other *SpatialFeature) bool {
	return f.key == other.key
}

func (f *SpatialFeature) Hash() uint64 {
	h := fnv.New64a()
	h.Write([]byte(f.key))
	return h.Sum64()
}

func (f *SpatialFeature) String() string { return f.key }

// Generalises reports whether f matches every state that other matches.
// When both features carry an element view the documented element tables
// decide; otherwise each of f's propositions must be proven by one of
// other's.
func (f *SpatialFeature) Generalises(other *SpatialFeature) bool {
	if f.elements != nil && other.elements != nil {
		return elementsGeneralise(f.elements, other.elements)
	}
	for _, p := range f.props {
		proven := false
		for _, q := range other.props {
			if q.ProvesIfTrue(p) {
				proven = true
				break
			}
		}
		if !proven {
			return false
		}
	}
	return true
}

func elementsGeneralise(as, bs []FeatureElement) bool {
	for _, a := range as {
		covered := false
		for _, b := range bs {
			if a.Generalises(b) {
				covered = true
				break
			}
		}
		if !covered {
			return false
		}
	}
	return true
}
