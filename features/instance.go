package features

import (
	"fmt"

	"ggs/game"
)

// TransformFunc maps a pattern-relative site to an absolute board site for a
// given anchor, rotation and reflection. It returns game.NoSite when the
// transformed site falls off the board.
type TransformFunc func(relSite, anchor, rotation, reflection int) int

// FeatureInstance anchors a SpatialFeature at a concrete site and
// orientation, with its propositions translated to absolute board sites.
type FeatureInstance struct {
	feature    *SpatialFeature
	anchor     int
	rotation   int
	reflection int
	props      []AtomicProposition
	valid      bool
}

func NewFeatureInstance(f *SpatialFeature, anchor, rotation, reflection int, transform TransformFunc) FeatureInstance {
	inst := FeatureInstance{
		feature:    f,
		anchor:     anchor,
		rotation:   rotation,
		reflection: reflection,
		valid:      true,
	}
	for _, p := range f.Propositions() {
		abs := transform(p.Site(), anchor, rotation, reflection)
		if abs == game.NoSite {
			inst.valid = false
			inst.props = nil
			return inst
		}
		inst.props = append(inst.props, p.translate(abs))
	}
	return inst
}

func (fi FeatureInstance) Feature() *SpatialFeature { return fi.feature }

func (fi FeatureInstance) Anchor() int { return fi.anchor }

func (fi FeatureInstance) Rotation() int { return fi.rotation }

func (fi FeatureInstance) Reflection() int { return fi.reflection }

// Valid reports whether every transformed site lies on the board.
func (fi FeatureInstance) Valid() bool { return fi.valid }

// Propositions returns the instance's propositions at absolute sites.
func (fi FeatureInstance) Propositions() []AtomicProposition { return fi.props }

// Matches tests every proposition of the instance against the board.
func (fi FeatureInstance) Matches(b *game.BoardVectors) bool {
	if !fi.valid {
		return false
	}
	for _, p := range fi.props {
		if !p.Matches(b) {
			return false
		}
	}
	return true
}

func (fi FeatureInstance) String() string {
	return fmt.Sprintf("instance(set=%d anchor=%d rot=%d ref=%d)",
		fi.feature.SetIndex(), fi.anchor, fi.rotation, fi.reflection)
}
