package features

import (
	"ggs/game"
)

// FeatureSet compiles a collection of spatial features for fast sparse
// feature vector computation over a state and a set of candidate moves.
// Feature sets are replaced wholesale by feature discovery, never mutated.
type FeatureSet struct {
	name        string
	features    []*SpatialFeature
	transform   TransformFunc
	numSites    int
	rotations   []int
	reflections []int
	// instances[anchor][featureIdx] holds the valid instances of a feature
	// anchored at a site, over every supported rotation and reflection.
	instances [][][]FeatureInstance
}

func NewFeatureSet(name string, feats []*SpatialFeature, transform TransformFunc,
	numSites int, rotations, reflections []int) *FeatureSet {

	owned := make([]*SpatialFeature, len(feats))
	for i, f := range feats {
		owned[i] = f.withSetIndex(i)
	}
	fs := &FeatureSet{
		name:        name,
		features:    owned,
		transform:   transform,
		numSites:    numSites,
		rotations:   rotations,
		reflections: reflections,
	}
	fs.compile()
	return fs
}

func (fs *FeatureSet) compile() {
	fs.instances = make([][][]FeatureInstance, fs.numSites)
	for anchor := 0; anchor < fs.numSites; anchor++ {
		fs.instances[anchor] = make([][]FeatureInstance, len(fs.features))
		for i, f := range fs.features {
			for _, rot := range fs.rotations {
				for _, ref := range fs.reflections {
					inst := NewFeatureInstance(f, anchor, rot, ref, fs.transform)
					if inst.Valid() {
						fs.instances[anchor][i] = append(fs.instances[anchor][i], inst)
					}
				}
			}
		}
	}
}

func (fs *FeatureSet) Name() string { return fs.name }

func (fs *FeatureSet) Features() []*SpatialFeature { return fs.features }

func (fs *FeatureSet) Len() int { return len(fs.features) }

// Contains reports whether the set already holds a feature with the same
// canonical key.
func (fs *FeatureSet) Contains(f *SpatialFeature) bool {
	for _, have := range fs.features {
		if have.Equals(f) {
			return true
		}
	}
	return false
}

// anchorFor picks the site a move's features are anchored at: the to
// position when present, else the from position.
func anchorFor(m game.Move) int {
	if to := m.To(); to != game.NoSite {
		return to
	}
	return m.From()
}

// ActiveFeatures returns the sorted indices of features with at least one
// matching instance anchored at the move's position.
func (fs *FeatureSet) ActiveFeatures(b *game.BoardVectors, m game.Move) []int {
	anchor := anchorFor(m)
	if anchor == game.NoSite || anchor >= fs.numSites {
		return nil
	}
	var active []int
	for i := range fs.features {
		for _, inst := range fs.instances[anchor][i] {
			if inst.Matches(b) {
				active = append(active, i)
				break
			}
		}
	}
	return active
}

// ActiveInstances returns every matching instance anchored at the move's
// position, used by feature discovery to pair co-active instances.
func (fs *FeatureSet) ActiveInstances(b *game.BoardVectors, m game.Move) []FeatureInstance {
	anchor := anchorFor(m)
	if anchor == game.NoSite || anchor >= fs.numSites {
		return nil
	}
	var active []FeatureInstance
	for i := range fs.features {
		for _, inst := range fs.instances[anchor][i] {
			if inst.Matches(b) {
				active = append(active, inst)
			}
		}
	}
	return active
}

// ComputeSparseVectors computes one sparse feature vector per candidate
// move. It returns nil when the state does not expose packed vectors.
func (fs *FeatureSet) ComputeSparseVectors(c *game.Context, moves []game.Move) [][]int {
	vs, ok := c.State().(game.VectorState)
	if !ok {
		return nil
	}
	vectors := make([][]int, len(moves))
	for i, m := range moves {
		vectors[i] = fs.ActiveFeatures(vs.Vectors(), m)
	}
	return vectors
}

// WithFeatures returns a new feature set extended by the given features,
// recompiled from scratch.
func (fs *FeatureSet) WithFeatures(name string, extra ...*SpatialFeature) *FeatureSet {
	feats := make([]*SpatialFeature, 0, len(fs.features)+len(extra))
	feats = append(feats, fs.features...)
	feats = append(feats, extra...)
	return NewFeatureSet(name, feats, fs.transform, fs.numSites, fs.rotations, fs.reflections)
}

// GridTransform returns a TransformFunc for a row-major grid of the given
// width and height. A relative site encodes a signed offset from the anchor
// as dr*width+dc, with dc kept in [-(width-1)/2, width/2]. Column offsets
// outside that band are not representable: their dr*width+dc value collides
// with an in-band offset and decodes as that one instead, so patterns must
// keep their column reach within the band.
func GridTransform(width, height int) TransformFunc {
	decode := func(rel int) (dr, dc int) {
		dr = rel / width
		dc = rel % width
		if dc < 0 { // Go truncates toward zero
			dc += width
			dr--
		}
		if dc >= (width+1)/2 {
			dc -= width
			dr++
		}
		return dr, dc
	}
	return func(relSite, anchor, rotation, reflection int) int {
		dr, dc := decode(relSite)
		// Quarter-turn rotations
		for i := 0; i < rotation%4; i++ {
			dr, dc = dc, -dr
		}
		if reflection != 0 {
			dc = -dc
		}
		r := anchor/width + dr
		c := anchor%width + dc
		if r < 0 || r >= height || c < 0 || c >= width {
			return game.NoSite
		}
		return r*width + c
	}
}
