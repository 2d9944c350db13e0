// Package types implements Mica's static type system: the fixed primitive
// type set, structural Function and Object types, and the subtype lattice
// the analyzer checks at every implicit coercion point.
//
// Types are produced once by the analyzer and never mutated; Object types
// close over a *scope.Scope[Type] (their member signature), so equality
// for Object is nominal identity of that scope pointer rather than
// structural comparison — two object literals with identical fields are
// still distinct types, matching a closed, non-structural object model.
package types

import (
	"fmt"
	"strings"

	"github.com/akashmaji946/mica/scope"
)

// Kind tags the variant of a Type. Kind alone is enough to compare two
// primitive types; Function and Object carry extra structure compared by
// Equal.
type Kind int

const (
	KindNil Kind = iota
	KindBoolean
	KindInteger
	KindDecimal
	KindString
	KindCharacter
	KindAny
	KindEquatable
	KindComparable
	KindIterable
	KindFunction
	KindObject
)

// Type is implemented by every member of the type lattice.
type Type interface {
	Kind() Kind
	String() string
}

// primitive is the shared representation for every type with no internal
// structure. The package exposes one singleton value per primitive kind;
// callers compare primitives by Kind, never by pointer or value identity.
type primitive struct {
	kind Kind
	name string
}

func (p primitive) Kind() Kind     { return p.kind }
func (p primitive) String() string { return p.name }

// The fixed primitive types named in the subtype lattice.
var (
	Nil        Type = primitive{KindNil, "Nil"}
	Boolean    Type = primitive{KindBoolean, "Boolean"}
	Integer    Type = primitive{KindInteger, "Integer"}
	Decimal    Type = primitive{KindDecimal, "Decimal"}
	String     Type = primitive{KindString, "String"}
	Character  Type = primitive{KindCharacter, "Character"}
	Any        Type = primitive{KindAny, "Any"}
	Equatable  Type = primitive{KindEquatable, "Equatable"}
	Comparable Type = primitive{KindComparable, "Comparable"}
	Iterable   Type = primitive{KindIterable, "Iterable"}
)

// Function is the type of a value callable with Params, producing Returns.
type Function struct {
	Params  []Type
	Returns Type
}

func (f *Function) Kind() Kind { return KindFunction }

func (f *Function) String() string {
	names := make([]string, len(f.Params))
	for i, p := range f.Params {
		names[i] = p.String()
	}
	return fmt.Sprintf("Function(%s) -> %s", strings.Join(names, ", "), f.Returns.String())
}

// Object is the type of an object instance. Its member scope is the
// object's nominal signature: field and method names resolve within it,
// and two Object types are the same type only if they share the same
// scope pointer (i.e. they came from the same ObjectExpr evaluation).
type Object struct {
	Name  string // optional, from `OBJECT Name DO ... END`
	Scope *scope.Scope[Type]
}

func (o *Object) Kind() Kind { return KindObject }

func (o *Object) String() string {
	if o.Name != "" {
		return o.Name
	}
	return "Object"
}

// Equal reports whether a and b are the same type under the lattice's
// "otherwise subtype iff equal" rule. Primitives compare by Kind alone;
// Function compares structurally; Object compares by member-scope
// identity.
func Equal(a, b Type) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Kind() != b.Kind() {
		return false
	}
	switch av := a.(type) {
	case *Function:
		bv := b.(*Function)
		if len(av.Params) != len(bv.Params) {
			return false
		}
		for i := range av.Params {
			if !Equal(av.Params[i], bv.Params[i]) {
				return false
			}
		}
		return Equal(av.Returns, bv.Returns)
	case *Object:
		bv := b.(*Object)
		return av.Scope == bv.Scope
	default:
		return true
	}
}

// equatableMembers lists the kinds the lattice declares as direct subtypes
// of Equatable (spec: "Equatable supertypes: Nil, Boolean, Integer,
// Decimal, String, Comparable, Iterable").
var equatableMembers = map[Kind]bool{
	KindNil:        true,
	KindBoolean:    true,
	KindInteger:    true,
	KindDecimal:    true,
	KindString:     true,
	KindComparable: true,
	KindIterable:   true,
}

// comparableMembers lists the kinds the lattice declares as direct
// subtypes of Comparable (spec: "Comparable supertypes: Boolean, Integer,
// Decimal, String").
var comparableMembers = map[Kind]bool{
	KindBoolean: true,
	KindInteger: true,
	KindDecimal: true,
	KindString:  true,
}

// RequireSubtype reports whether actual is a subtype of expected under
// the fixed, closed lattice:
//
//   - Any is the top type: everything is a subtype of Any.
//   - Equatable and Comparable each have a fixed set of direct subtypes
//     (Comparable's set is also a subset of Equatable's, giving
//     transitivity: Boolean <: Comparable <: Equatable).
//   - Otherwise actual must equal expected.
//
// RequireSubtype(T, T) always succeeds (reflexivity), since Equal is
// checked first regardless of expected's kind.
func RequireSubtype(actual, expected Type) bool {
	if Equal(actual, expected) {
		return true
	}
	switch expected.Kind() {
	case KindAny:
		return true
	case KindEquatable:
		return equatableMembers[actual.Kind()]
	case KindComparable:
		return comparableMembers[actual.Kind()]
	default:
		return false
	}
}
