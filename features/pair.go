package features

// Combine merges two feature instances into one composite feature. The
// result is deterministic regardless of argument order: the instances are
// first put into a canonical order, then the second instance's propositions
// are re-anchored into the first's frame and unioned in.
//
// Re-anchoring takes the numeric site difference, which is the dr*width+dc
// offset encoding of a row-major grid. That is exact only while the
// combined pattern's column offsets stay within the transform's
// representable band; see GridTransform.
func Combine(a, b FeatureInstance) *SpatialFeature {
	first, second := orderForCombination(a, b)

	anchor := first.anchor
	props := make([]AtomicProposition, 0, len(first.props)+len(second.props))
	for _, p := range first.props {
		props = append(props, p.translate(p.Site()-anchor))
	}
	for _, p := range second.props {
		props = append(props, p.translate(p.Site()-anchor))
	}
	return NewSpatialFeature(props, first.rotation, first.reflection, 0)
}

// orderForCombination ranks two instances by owning feature-set index
// (ascending), then reflection (descending), then rotation (ascending),
// then anchor site (ascending). A full tie keeps the given order, which is
// harmless because fully tied instances share an anchor.
func orderForCombination(a, b FeatureInstance) (FeatureInstance, FeatureInstance) {
	switch {
	case a.feature.SetIndex() != b.feature.SetIndex():
		if a.feature.SetIndex() > b.feature.SetIndex() {
			return b, a
		}
	case a.reflection != b.reflection:
		if a.reflection < b.reflection {
			return b, a
		}
	case a.rotation != b.rotation:
		if a.rotation > b.rotation {
			return b, a
		}
	case a.anchor != b.anchor:
		if a.anchor > b.anchor {
			return b, a
		}
	}
	return a, b
}

// CombinableFeatureInstancePair holds two instances and the composite
// feature they combine into. Identity depends only on the combined feature,
// so pairs representing the same logical combination collapse to one key no
// matter which instance was first or which anchors they were discovered at.
type CombinableFeatureInstancePair struct {
	a, b     FeatureInstance
	combined *SpatialFeature
}

func NewCombinableFeatureInstancePair(a, b FeatureInstance) CombinableFeatureInstancePair {
	return CombinableFeatureInstancePair{a: a, b: b, combined: Combine(a, b)}
}

func (p CombinableFeatureInstancePair) A() FeatureInstance { return p.a }

func (p CombinableFeatureInstancePair) B() FeatureInstance { return p.b }

func (p CombinableFeatureInstancePair) Combined() *SpatialFeature { return p.combined }

// Key is the canonical map key of the pair: the combined feature's key.
func (p CombinableFeatureInstancePair) Key() string { return p.combined.Key() }

func (p CombinableFeatureInstancePair) Hash() uint64 { return p.combined.Hash() }

func (p CombinableFeatureInstancePair) Equals(other CombinableFeatureInstancePair) bool {
	return p.combined.Equals(other.combined)
}
