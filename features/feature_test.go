package features

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSpatialFeatureNormalization(t *testing.T) {
	t.Run("duplicate propositions collapse to one", func(t *testing.T) {
		p := NewAtomicProposition(VectorWho, 1, 1, false)
		f := NewSpatialFeature([]AtomicProposition{p, p}, 0, 0, 0)

		require.Equal(t, []AtomicProposition{p}, f.Propositions())
	})

	t.Run("propositions proven by another are pruned", func(t *testing.T) {
		who := NewAtomicProposition(VectorWho, 1, 1, false)
		occupied := NewAtomicProposition(VectorEmpty, 1, 0, false)
		f := NewSpatialFeature([]AtomicProposition{occupied, who}, 0, 0, 0)

		require.Equal(t, []AtomicProposition{who}, f.Propositions(),
			"an owner test implies occupancy, so the occupancy test is redundant")
	})

	t.Run("mutually proving propositions keep exactly one", func(t *testing.T) {
		empty := NewAtomicProposition(VectorEmpty, 1, 1, false)
		whoZero := NewAtomicProposition(VectorWho, 1, 0, false)
		f := NewSpatialFeature([]AtomicProposition{whoZero, empty}, 0, 0, 0)

		require.Len(t, f.Propositions(), 1,
			"empty and owned-by-nobody are equivalent and must not erase each other")
	})

	t.Run("the key is independent of construction order", func(t *testing.T) {
		a := NewAtomicProposition(VectorWho, 1, 1, false)
		b := NewAtomicProposition(VectorWhat, 2, 1, false)

		f1 := NewSpatialFeature([]AtomicProposition{a, b}, 0, 0, 0)
		f2 := NewSpatialFeature([]AtomicProposition{b, a}, 0, 0, 0)

		require.Equal(t, f1.Key(), f2.Key())
		require.True(t, f1.Equals(f2))
		require.Equal(t, f1.Hash(), f2.Hash())
	})
}

func TestSpatialFeatureGeneralises(t *testing.T) {
	t.Run("proposition features generalise through entailment", func(t *testing.T) {
		occupied := NewSpatialFeature([]AtomicProposition{
			NewAtomicProposition(VectorEmpty, 1, 0, false),
		}, 0, 0, 0)
		owned := NewSpatialFeature([]AtomicProposition{
			NewAtomicProposition(VectorWho, 1, 2, false),
		}, 0, 0, 0)

		require.True(t, occupied.Generalises(owned), "an owned site is occupied")
		require.False(t, owned.Generalises(occupied))
	})

	t.Run("a conjunction generalises its superset", func(t *testing.T) {
		small := NewSpatialFeature([]AtomicProposition{
			NewAtomicProposition(VectorWho, 1, 1, false),
		}, 0, 0, 0)
		big := NewSpatialFeature([]AtomicProposition{
			NewAtomicProposition(VectorWho, 1, 1, false),
			NewAtomicProposition(VectorEmpty, 2, 1, false),
		}, 0, 0, 0)

		require.True(t, small.Generalises(big))
		require.False(t, big.Generalises(small))
	})

	t.Run("element features generalise through the element tables", func(t *testing.T) {
		any := NewFeatureFromElements([]FeatureElement{
			{Type: ElementAny, Site: 1},
		}, 0, 2)
		friend := NewFeatureFromElements([]FeatureElement{
			{Type: ElementFriend, Site: 1},
		}, 0, 2)

		require.True(t, any.Generalises(friend))
		require.False(t, friend.Generalises(any))
	})
}
