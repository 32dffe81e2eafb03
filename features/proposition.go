// Package features implements bitwise atomic propositions over packed board
// vectors, spatial patterns built from them, and the canonical combination
// of pattern instances used during feature discovery.
package features

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"ggs/game"
)

// StateVectorType identifies which packed board vector a proposition tests.
type StateVectorType uint8

const (
	VectorEmpty StateVectorType = iota
	VectorWho
	VectorWhat
)

func (t StateVectorType) String() string {
	switch t {
	case VectorEmpty:
		return "Empty"
	case VectorWho:
		return "Who"
	case VectorWhat:
		return "What"
	}
	return fmt.Sprintf("StateVectorType(%d)", uint8(t))
}

// AtomicProposition tests one site of one packed state vector against an
// expected value, optionally negated. Immutable once constructed.
//
// For the Empty vector only values 0 and 1 are meaningful: 1 asserts the
// site is empty, 0 asserts it is occupied. For Who and What a value of 0
// means "nobody" / "no piece".
type AtomicProposition struct {
	vector  StateVectorType
	site    int
	value   uint64
	negated bool
}

func NewAtomicProposition(vector StateVectorType, site int, value uint64, negated bool) AtomicProposition {
	if vector == VectorEmpty && value > 1 {
		panic(fmt.Sprintf("empty vector proposition with value %d", value))
	}
	return AtomicProposition{vector: vector, site: site, value: value, negated: negated}
}

func (p AtomicProposition) Vector() StateVectorType { return p.vector }

func (p AtomicProposition) Site() int { return p.site }

func (p AtomicProposition) Value() uint64 { return p.value }

func (p AtomicProposition) Negated() bool { return p.negated }

func (p AtomicProposition) String() string {
	op := "=="
	if p.negated {
		op = "!="
	}
	return fmt.Sprintf("%s[%d]%s%d", p.vector, p.site, op, p.value)
}

// translate returns the proposition moved to a different site.
func (p AtomicProposition) translate(site int) AtomicProposition {
	p.site = site
	return p
}

// negate returns the proposition with its negation flag flipped.
func (p AtomicProposition) negate() AtomicProposition {
	p.negated = !p.negated
	return p
}

// Matches tests the proposition against the packed vectors via a single
// masked word comparison.
func (p AtomicProposition) Matches(b *game.BoardVectors) bool {
	var matched bool
	switch p.vector {
	case VectorEmpty:
		matched = b.Empty.MatchesValue(p.site, p.value)
	case VectorWho:
		matched = b.Who.MatchesValue(p.site, p.value)
	case VectorWhat:
		matched = b.What.MatchesValue(p.site, p.value)
	default:
		log.Error().Stringer("vector", p.vector).
			Msg("match on unknown state vector type")
		return false
	}
	return matched != p.negated
}

// ProvesIfTrue reports whether the truth of p necessarily makes other true.
func (p AtomicProposition) ProvesIfTrue(other AtomicProposition) bool {
	return entails(p, other)
}

// DisprovesIfTrue reports whether the truth of p necessarily makes other
// false.
func (p AtomicProposition) DisprovesIfTrue(other AtomicProposition) bool {
	return entails(p, other.negate())
}

// ProvesIfFalse reports whether the falsity of p necessarily makes other
// true.
func (p AtomicProposition) ProvesIfFalse(other AtomicProposition) bool {
	return entails(p.negate(), other)
}

// DisprovesIfFalse reports whether the falsity of p necessarily makes other
// false.
func (p AtomicProposition) DisprovesIfFalse(other AtomicProposition) bool {
	return entails(p.negate(), other.negate())
}

// entails reports whether x being true forces y to be true. All four
// inference queries reduce to this single primitive via negation, which
// guarantees that proof and disproof in the same direction can never both
// hold for a satisfiable proposition.
func entails(x, y AtomicProposition) bool {
	if x.site != y.site {
		return false
	}
	if x.vector == y.vector {
		return entailsSameVector(x, y)
	}
	return entailsCrossVector(x, y)
}

func entailsSameVector(x, y AtomicProposition) bool {
	// The Empty vector is binary, so a negated test pins down the value.
	binary := x.vector == VectorEmpty
	switch {
	case !x.negated && !y.negated:
		return x.value == y.value
	case !x.negated && y.negated:
		return x.value != y.value
	case x.negated && !y.negated:
		return binary && x.value != y.value
	default: // both negated
		return x.value == y.value
	}
}

// entailsCrossVector covers inference between different vectors at the same
// site. The vectors are linked by occupancy: a site is empty exactly when
// Who and What are both 0. A proposition that pins down occupancy entails
// every proposition implied by that occupancy; nothing else crosses vectors.
func entailsCrossVector(x, y AtomicProposition) bool {
	switch {
	case assertsVacant(x):
		return vacantEntails(y)
	case assertsOccupied(x):
		return occupiedEntails(y)
	}
	return false
}

// assertsVacant reports whether p being true forces the site to be empty.
func assertsVacant(p AtomicProposition) bool {
	switch p.vector {
	case VectorEmpty:
		return (p.value == 1) != p.negated
	case VectorWho, VectorWhat:
		return p.value == 0 && !p.negated
	}
	log.Error().Stringer("vector", p.vector).
		Msg("occupancy query on unknown state vector type")
	return false
}

// assertsOccupied reports whether p being true forces the site to be
// occupied.
func assertsOccupied(p AtomicProposition) bool {
	switch p.vector {
	case VectorEmpty:
		return (p.value == 0) != p.negated
	case VectorWho, VectorWhat:
		return (p.value == 0) == p.negated
	}
	log.Error().Stringer("vector", p.vector).
		Msg("occupancy query on unknown state vector type")
	return false
}

// vacantEntails reports whether y holds at every empty site.
func vacantEntails(y AtomicProposition) bool {
	switch y.vector {
	case VectorEmpty:
		return (y.value == 1) != y.negated
	case VectorWho, VectorWhat:
		return (y.value == 0) != y.negated
	}
	log.Error().Stringer("vector", y.vector).
		Msg("occupancy query on unknown state vector type")
	return false
}

// occupiedEntails reports whether y holds at every occupied site, no matter
// who or what occupies it.
func occupiedEntails(y AtomicProposition) bool {
	switch y.vector {
	case VectorEmpty:
		return (y.value == 0) != y.negated
	case VectorWho, VectorWhat:
		return y.value == 0 && y.negated
	}
	log.Error().Stringer("vector", y.vector).
		Msg("occupancy query on unknown state vector type")
	return false
}
