package features

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"ggs/game"
)

func TestFeatureElementGeneralises(t *testing.T) {
	at := func(typ ElementType, negated bool) FeatureElement {
		return FeatureElement{Type: typ, Negated: negated, Site: 2}
	}

	t.Run("every element generalises itself", func(t *testing.T) {
		for _, typ := range []ElementType{ElementEmpty, ElementFriend, ElementEnemy, ElementOff, ElementAny} {
			for _, negated := range []bool{false, true} {
				e := at(typ, negated)
				require.True(t, e.Generalises(e), e.String())
			}
		}
	})

	t.Run("unnegated against unnegated", func(t *testing.T) {
		require.True(t, at(ElementAny, false).Generalises(at(ElementFriend, false)))
		require.True(t, at(ElementAny, false).Generalises(at(ElementEmpty, false)))
		require.False(t, at(ElementAny, false).Generalises(at(ElementOff, false)),
			"Any means on-board content")
		require.False(t, at(ElementFriend, false).Generalises(at(ElementEnemy, false)))
	})

	t.Run("negated against unnegated", func(t *testing.T) {
		require.True(t, at(ElementEmpty, true).Generalises(at(ElementFriend, false)))
		require.True(t, at(ElementEmpty, true).Generalises(at(ElementOff, false)))
		require.False(t, at(ElementEmpty, true).Generalises(at(ElementEmpty, false)))
		require.True(t, at(ElementOff, true).Generalises(at(ElementAny, false)),
			"not-off and any both mean on board")
		require.True(t, at(ElementOff, true).Generalises(at(ElementEnemy, false)))
		require.True(t, at(ElementAny, true).Generalises(at(ElementOff, false)))
		require.False(t, at(ElementAny, true).Generalises(at(ElementFriend, false)))
	})

	t.Run("unnegated against negated", func(t *testing.T) {
		require.True(t, at(ElementAny, false).Generalises(at(ElementOff, true)))
		require.False(t, at(ElementEmpty, false).Generalises(at(ElementFriend, true)),
			"not-friend can still be enemy or off board")
		require.False(t, at(ElementAny, false).Generalises(at(ElementEmpty, true)))
	})

	t.Run("negated against negated", func(t *testing.T) {
		require.True(t, at(ElementFriend, true).Generalises(at(ElementFriend, true)))
		require.True(t, at(ElementFriend, true).Generalises(at(ElementAny, true)),
			"off board is in particular not friend")
		require.False(t, at(ElementAny, true).Generalises(at(ElementFriend, true)))
		require.False(t, at(ElementFriend, true).Generalises(at(ElementEnemy, true)))
	})

	t.Run("different sites never generalise", func(t *testing.T) {
		a := FeatureElement{Type: ElementAny, Site: 0}
		b := FeatureElement{Type: ElementFriend, Site: 1}
		require.False(t, a.Generalises(b))
	})

	t.Run("a generalising element matches every board its special case matches", func(t *testing.T) {
		// Cross-checks the tables against actual matching on a one-site
		// board holding nothing, a friendly piece, or an enemy piece. Off
		// and negated Any describe off-board geometry rather than board
		// content, so they stay out of this check.
		onBoard := func(e FeatureElement) bool {
			if e.Type == ElementOff {
				return false
			}
			return !(e.Type == ElementAny && e.Negated)
		}

		identity := func(rel, anchor, _, _ int) int { return anchor + rel }

		boards := map[string]*game.BoardVectors{}
		empty := game.NewBoardVectors(1, 2, 2)
		empty.SetPiece(0, 0, 0)
		boards["empty"] = empty
		friend := game.NewBoardVectors(1, 2, 2)
		friend.SetPiece(0, 1, 1)
		boards["friend"] = friend
		enemy := game.NewBoardVectors(1, 2, 2)
		enemy.SetPiece(0, 2, 1)
		boards["enemy"] = enemy

		var elements []FeatureElement
		for _, typ := range []ElementType{ElementEmpty, ElementFriend, ElementEnemy, ElementAny} {
			for _, negated := range []bool{false, true} {
				e := FeatureElement{Type: typ, Negated: negated}
				if onBoard(e) {
					elements = append(elements, e)
				}
			}
		}

		for _, general := range elements {
			for _, special := range elements {
				if !general.Generalises(special) {
					continue
				}
				fg := NewFeatureFromElements([]FeatureElement{general}, 0, 2)
				fs := NewFeatureFromElements([]FeatureElement{special}, 0, 2)
				ig := NewFeatureInstance(fg, 0, 0, 0, identity)
				is := NewFeatureInstance(fs, 0, 0, 0, identity)

				for name, board := range boards {
					if is.Matches(board) {
						require.True(t, ig.Matches(board),
							fmt.Sprintf("%s generalises %s but misses the %s board",
								general, special, name))
					}
				}
			}
		}
	})

	t.Run("mutual generalisation only holds for equivalent elements", func(t *testing.T) {
		// Any and negated Off both mean "on board" and are the only
		// distinct pair subsuming each other.
		equivalent := func(a, b FeatureElement) bool {
			return (a.Type == ElementAny && !a.Negated && b.Type == ElementOff && b.Negated) ||
				(b.Type == ElementAny && !b.Negated && a.Type == ElementOff && a.Negated)
		}
		all := []FeatureElement{}
		for _, typ := range []ElementType{ElementEmpty, ElementFriend, ElementEnemy, ElementOff, ElementAny} {
			for _, negated := range []bool{false, true} {
				all = append(all, at(typ, negated))
			}
		}
		for _, a := range all {
			for _, b := range all {
				if a == b || equivalent(a, b) {
					continue
				}
				require.False(t, a.Generalises(b) && b.Generalises(a),
					fmt.Sprintf("%s and %s must not generalise each other", a, b))
			}
		}
	})
}

func TestFeatureElementPropositions(t *testing.T) {
	t.Run("empty translates to a single empty test", func(t *testing.T) {
		props := FeatureElement{Type: ElementEmpty, Site: 3}.Propositions(0, 2)
		require.Equal(t, []AtomicProposition{NewAtomicProposition(VectorEmpty, 3, 1, false)}, props)

		negated := FeatureElement{Type: ElementEmpty, Negated: true, Site: 3}.Propositions(0, 2)
		require.Equal(t, []AtomicProposition{NewAtomicProposition(VectorEmpty, 3, 1, true)}, negated)
	})

	t.Run("friend resolves to the mover's owner value", func(t *testing.T) {
		props := FeatureElement{Type: ElementFriend, Site: 3}.Propositions(1, 2)
		require.Equal(t, []AtomicProposition{NewAtomicProposition(VectorWho, 3, 2, false)}, props)
	})

	t.Run("enemy in a two player game is a single owner test", func(t *testing.T) {
		props := FeatureElement{Type: ElementEnemy, Site: 3}.Propositions(0, 2)
		require.Equal(t, []AtomicProposition{NewAtomicProposition(VectorWho, 3, 2, false)}, props)

		negated := FeatureElement{Type: ElementEnemy, Negated: true, Site: 3}.Propositions(0, 2)
		require.Equal(t, []AtomicProposition{NewAtomicProposition(VectorWho, 3, 2, true)}, negated)
	})

	t.Run("enemy with more players means occupied and not friend", func(t *testing.T) {
		props := FeatureElement{Type: ElementEnemy, Site: 3}.Propositions(0, 3)
		require.Equal(t, []AtomicProposition{
			NewAtomicProposition(VectorEmpty, 3, 0, false),
			NewAtomicProposition(VectorWho, 3, 1, true),
		}, props)
	})

	t.Run("negated enemy with more players is inexpressible", func(t *testing.T) {
		props := FeatureElement{Type: ElementEnemy, Negated: true, Site: 3}.Propositions(0, 3)
		require.Nil(t, props)
	})

	t.Run("geometric elements contribute no propositions", func(t *testing.T) {
		require.Nil(t, FeatureElement{Type: ElementOff, Site: 3}.Propositions(0, 2))
		require.Nil(t, FeatureElement{Type: ElementAny, Site: 3}.Propositions(0, 2))
	})
}
