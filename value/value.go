// Package value defines Mica's runtime values: a tagged RuntimeValue
// model produced by tree-walking evaluation, covering arbitrary-precision
// Integer and Decimal numerics plus String, Boolean, Character, Nil,
// List, Object, and Function variants.
package value

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/akashmaji946/mica/scope"
)

// Kind tags the variant of a Value.
type Kind int

const (
	KindNil Kind = iota
	KindBoolean
	KindInteger
	KindDecimal
	KindString
	KindCharacter
	KindList
	KindObject
	KindFunction
)

func (k Kind) String() string {
	switch k {
	case KindNil:
		return "Nil"
	case KindBoolean:
		return "Boolean"
	case KindInteger:
		return "Integer"
	case KindDecimal:
		return "Decimal"
	case KindString:
		return "String"
	case KindCharacter:
		return "Character"
	case KindList:
		return "List"
	case KindObject:
		return "Object"
	case KindFunction:
		return "Function"
	default:
		return "Unknown"
	}
}

// Value is implemented by every runtime value variant. String returns the
// printable form used by `print`; Debug returns the raw, type-annotated
// form used by `debug`.
type Value interface {
	Kind() Kind
	String() string
	Debug() string
}

// Nil is the sole inhabitant of the Nil type.
type Nil struct{}

// Null is the single Nil value; Mica has no distinct "undefined".
var Null = Nil{}

func (Nil) Kind() Kind     { return KindNil }
func (Nil) String() string { return "nil" }
func (Nil) Debug() string  { return "nil" }

// Boolean wraps a Go bool.
type Boolean struct{ Value bool }

func (b Boolean) Kind() Kind { return KindBoolean }
func (b Boolean) String() string {
	if b.Value {
		return "true"
	}
	return "false"
}
func (b Boolean) Debug() string { return b.String() }

// Integer wraps an arbitrary-precision integer.
type Integer struct{ Value *big.Int }

// NewInteger builds an Integer from an int64, for native functions and
// tests that don't need to parse source text.
func NewInteger(v int64) Integer { return Integer{Value: big.NewInt(v)} }

// ParseInteger builds an Integer from the digit text a lexer Integer
// token carries.
func ParseInteger(digits string) (Integer, bool) {
	n, ok := new(big.Int).SetString(digits, 10)
	if !ok {
		return Integer{}, false
	}
	return Integer{Value: n}, true
}

func (i Integer) Kind() Kind     { return KindInteger }
func (i Integer) String() string { return i.Value.String() }
func (i Integer) Debug() string  { return fmt.Sprintf("Integer(%s)", i.Value.String()) }

// Decimal wraps an arbitrary-precision decimal.
type Decimal struct{ Value decimal.Decimal }

// ParseDecimal builds a Decimal from the digit text a lexer Decimal token
// carries (e.g. "1.5", "2e3").
func ParseDecimal(text string) (Decimal, bool) {
	d, err := decimal.NewFromString(text)
	if err != nil {
		return Decimal{}, false
	}
	return Decimal{Value: d}, true
}

func (d Decimal) Kind() Kind     { return KindDecimal }
func (d Decimal) String() string { return d.Value.String() }
func (d Decimal) Debug() string  { return fmt.Sprintf("Decimal(%s)", d.Value.String()) }

// String wraps a decoded Go string (escapes already resolved by the
// parser).
type String struct{ Value string }

func (s String) Kind() Kind     { return KindString }
func (s String) String() string { return s.Value }
func (s String) Debug() string  { return fmt.Sprintf("String(%q)", s.Value) }

// Character wraps a single decoded code point.
type Character struct{ Value rune }

func (c Character) Kind() Kind     { return KindCharacter }
func (c Character) String() string { return string(c.Value) }
func (c Character) Debug() string  { return fmt.Sprintf("Character(%q)", c.Value) }

// List wraps a slice of values, backing both the `list` builtin and
// `range`'s result.
type List struct{ Items []Value }

func (l List) Kind() Kind { return KindList }
func (l List) String() string {
	parts := make([]string, len(l.Items))
	for i, item := range l.Items {
		parts[i] = item.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
func (l List) Debug() string {
	parts := make([]string, len(l.Items))
	for i, item := range l.Items {
		parts[i] = item.Debug()
	}
	return "List[" + strings.Join(parts, ", ") + "]"
}

// Object is an instance built from an ObjectExpr: Scope holds its fields
// and bound methods. Scope.Parent is the scope active when the object
// literal was evaluated (so field initializers and method bodies can
// close over outer bindings); member lookup from the outside (property
// access, method dispatch) only ever consults Scope directly (the
// object's own frame), never its parent.
type Object struct {
	Name  string
	Scope *scope.Scope[Value]
}

func (o *Object) Kind() Kind { return KindObject }
func (o *Object) String() string {
	if o.Name != "" {
		return fmt.Sprintf("<object %s>", o.Name)
	}
	return "<object>"
}
func (o *Object) Debug() string { return o.String() }

// Function is either a native builtin or a user Def; both are represented
// as a Go closure over the argument list, so native and user functions
// share one representation regardless of what they close over internally.
type Function struct {
	Name string
	Call func(args []Value) (Value, error)
}

func (f *Function) Kind() Kind     { return KindFunction }
func (f *Function) String() string { return fmt.Sprintf("func(%s)", f.Name) }
func (f *Function) Debug() string  { return fmt.Sprintf("<function %s>", f.Name) }

// Equal implements Mica's by-value equality for `==`/`!=`: same kind, same
// underlying value. Lists compare element-wise; Objects and Functions
// compare by identity (pointer equality) since they have no natural value
// equality.
func Equal(a, b Value) bool {
	if a.Kind() != b.Kind() {
		return false
	}
	switch av := a.(type) {
	case Nil:
		return true
	case Boolean:
		return av.Value == b.(Boolean).Value
	case Integer:
		return av.Value.Cmp(b.(Integer).Value) == 0
	case Decimal:
		return av.Value.Equal(b.(Decimal).Value)
	case String:
		return av.Value == b.(String).Value
	case Character:
		return av.Value == b.(Character).Value
	case List:
		bv := b.(List)
		if len(av.Items) != len(bv.Items) {
			return false
		}
		for i := range av.Items {
			if !Equal(av.Items[i], bv.Items[i]) {
				return false
			}
		}
		return true
	case *Object:
		return av == b.(*Object)
	case *Function:
		return av == b.(*Function)
	default:
		return false
	}
}

// Less implements Mica's `<`/`<=`/`>`/`>=` numeric/lexical ordering. Only
// called once the analyzer (or, in the evaluator's own standalone checks)
// has established both operands are Comparable and of equal type.
func Less(a, b Value) (bool, error) {
	switch av := a.(type) {
	case Boolean:
		bv := b.(Boolean)
		return !av.Value && bv.Value, nil
	case Integer:
		return av.Value.Cmp(b.(Integer).Value) < 0, nil
	case Decimal:
		return av.Value.LessThan(b.(Decimal).Value), nil
	case String:
		return av.Value < b.(String).Value, nil
	default:
		return false, fmt.Errorf("values of kind %s are not ordered", a.Kind())
	}
}
