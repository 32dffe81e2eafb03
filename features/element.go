package features

import (
	"fmt"

	"github.com/rs/zerolog/log"
)

// ElementType is the perspective-relative vocabulary of pattern elements.
// Friend and Enemy are resolved against the mover when a pattern is
// instantiated for a concrete player.
type ElementType uint8

const (
	ElementEmpty ElementType = iota
	ElementFriend
	ElementEnemy
	ElementOff
	ElementAny
)

func (t ElementType) String() string {
	switch t {
	case ElementEmpty:
		return "Empty"
	case ElementFriend:
		return "Friend"
	case ElementEnemy:
		return "Enemy"
	case ElementOff:
		return "Off"
	case ElementAny:
		return "Any"
	}
	return fmt.Sprintf("ElementType(%d)", uint8(t))
}

// FeatureElement is one constraint of a pattern: an element type at a
// relative site, optionally negated.
type FeatureElement struct {
	Type    ElementType
	Negated bool
	Site    int
}

func (e FeatureElement) String() string {
	if e.Negated {
		return fmt.Sprintf("!%s@%d", e.Type, e.Site)
	}
	return fmt.Sprintf("%s@%d", e.Type, e.Site)
}

// Generalises reports whether e subsumes other at the same relative site:
// every site content matched by other is also matched by e. Elements at
// different sites never generalise each other.
//
// The relation follows four tables split by negation. Writing A for e's
// type and B for other's type, and with Any standing for "any on-board
// content":
//
//	unnegated A vs unnegated B: A == B, or A == Any and B in {Empty, Friend, Enemy}
//	negated A  vs unnegated B: !Empty  covers {Friend, Enemy, Off}
//	                           !Friend covers {Empty, Enemy, Off}
//	                           !Enemy  covers {Empty, Friend, Off}
//	                           !Off    covers {Empty, Friend, Enemy, Any}
//	                           !Any    covers {Off}
//	unnegated A vs negated B:  only Any covers !Off (both mean "on board")
//	negated A  vs negated B:   A == B, or B == Any and A in {Empty, Friend, Enemy}
//
// An element type unknown to these tables is a defect: it is logged and
// never treated as generalising.
func (e FeatureElement) Generalises(other FeatureElement) bool {
	if e.Site != other.Site {
		return false
	}
	if !knownElementType(e.Type) || !knownElementType(other.Type) {
		log.Error().Stringer("first", e.Type).Stringer("second", other.Type).
			Msg("generalisation query on unknown element type")
		return false
	}
	switch {
	case !e.Negated && !other.Negated:
		if e.Type == other.Type {
			return true
		}
		return e.Type == ElementAny && onBoard(other.Type)
	case e.Negated && !other.Negated:
		return negatedGeneralisesUnnegated(e.Type, other.Type)
	case !e.Negated && other.Negated:
		return e.Type == ElementAny && other.Type == ElementOff
	default: // both negated
		if e.Type == other.Type {
			return true
		}
		return other.Type == ElementAny && onBoard(e.Type)
	}
}

func knownElementType(t ElementType) bool {
	switch t {
	case ElementEmpty, ElementFriend, ElementEnemy, ElementOff, ElementAny:
		return true
	}
	return false
}

func onBoard(t ElementType) bool {
	return t == ElementEmpty || t == ElementFriend || t == ElementEnemy
}

func negatedGeneralisesUnnegated(a, b ElementType) bool {
	switch a {
	case ElementEmpty:
		return b == ElementFriend || b == ElementEnemy || b == ElementOff
	case ElementFriend:
		return b == ElementEmpty || b == ElementEnemy || b == ElementOff
	case ElementEnemy:
		return b == ElementEmpty || b == ElementFriend || b == ElementOff
	case ElementOff:
		return onBoard(b) || b == ElementAny
	case ElementAny:
		return b == ElementOff
	}
	log.Error().Stringer("first", a).Stringer("second", b).
		Msg("generalisation query on unknown element type")
	return false
}

// Propositions translates the element into a conjunction of atomic
// propositions for a concrete mover. Off-board constraints (Off, negated
// Any) are geometric: they are enforced by the site transform during
// instantiation and contribute no propositions, like the unconstrained Any.
func (e FeatureElement) Propositions(mover int, players int) []AtomicProposition {
	switch e.Type {
	case ElementEmpty:
		return []AtomicProposition{NewAtomicProposition(VectorEmpty, e.Site, 1, e.Negated)}
	case ElementFriend:
		return []AtomicProposition{NewAtomicProposition(VectorWho, e.Site, uint64(mover+1), e.Negated)}
	case ElementEnemy:
		// With two players Enemy is a single Who test, and the negated
		// form inverts it.
		if players == 2 {
			return []AtomicProposition{NewAtomicProposition(VectorWho, e.Site, uint64(2-mover), e.Negated)}
		}
		// With more players unnegated Enemy is "occupied and not friend".
		// The negated form is a disjunction, which a conjunction of
		// propositions cannot express.
		if e.Negated {
			log.Error().Stringer("element", e.Type).Int("players", players).
				Msg("negated Enemy is not expressible with more than two players")
			return nil
		}
		return []AtomicProposition{
			NewAtomicProposition(VectorEmpty, e.Site, 0, false),
			NewAtomicProposition(VectorWho, e.Site, uint64(mover+1), true),
		}
	case ElementAny, ElementOff:
		return nil
	}
	log.Error().Stringer("type", e.Type).Msg("no proposition translation for element type")
	return nil
}
