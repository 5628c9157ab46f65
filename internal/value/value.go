// Package value defines Stop's runtime values: the tagged variant every
// expression evaluates to, its typed projections, and the indexed
// read/write rules shared by lists and maps.
package value

import (
	"fmt"
	"sort"
	"strings"

	"github.com/oeed/stop/internal/ast"
	"github.com/oeed/stop/internal/locator"
)

// Kind tags which variant a Value holds.
type Kind int

const (
	KindNil Kind = iota
	KindString
	KindNumber
	KindBool
	KindList
	KindMap
	KindFunction
	KindNativeFunction
)

func (k Kind) String() string {
	switch k {
	case KindNil:
		return "nil"
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	case KindList:
		return "list"
	case KindMap:
		return "map"
	case KindFunction, KindNativeFunction:
		return "function"
	default:
		return "?"
	}
}

// Function is a closure over a declared fn statement: its parameter
// names and body, captured by reference (functions are not deep-copied
// on lookup the way other values are, since they're immutable once
// declared).
type Function struct {
	Name       string
	Parameters []string
	Body       ast.Block
}

// Native is a builtin implemented in Go. It receives already-evaluated
// arguments and returns a value directly; argument-count and type
// checking is its own responsibility, same as a Function's body would
// raise a RuntimeError for a bad access.
type Native func(args []Value) (Value, error)

// Value is Stop's single runtime representation: every expression
// evaluates to one of these. Only one of the fields is meaningful,
// selected by Kind.
type Value struct {
	Kind     Kind
	Str      string
	Num      float64
	Bool     bool
	List     []Value
	Map      map[string]Value
	Function *Function
	Native   Native
}

// Nil is the singleton absence-of-value.
var Nil = Value{Kind: KindNil}

// NewString, NewNumber, and NewBool construct scalar values.
func NewString(s string) Value { return Value{Kind: KindString, Str: s} }
func NewNumber(n float64) Value { return Value{Kind: KindNumber, Num: n} }
func NewBool(b bool) Value      { return Value{Kind: KindBool, Bool: b} }

// NewList constructs a list value. The backing slice is owned by the
// returned Value; callers should pass a freshly-built slice.
func NewList(items []Value) Value { return Value{Kind: KindList, List: items} }

// NewMap constructs a map value, taking ownership of m.
func NewMap(m map[string]Value) Value { return Value{Kind: KindMap, Map: m} }

// NewFunction wraps a declared function as a callable value.
func NewFunction(f *Function) Value { return Value{Kind: KindFunction, Function: f} }

// NewNative wraps a Go function as a callable value.
func NewNative(fn Native) Value { return Value{Kind: KindNativeFunction, Native: fn} }

// Clone deep-copies list and map values so that assigning a Value
// elsewhere (variable lookup, function arguments) never lets later
// mutation reach back into the original. Scalars and functions are
// returned as-is; they're already immutable from the caller's view.
func (v Value) Clone() Value {
	switch v.Kind {
	case KindList:
		items := make([]Value, len(v.List))
		for i, item := range v.List {
			items[i] = item.Clone()
		}
		return Value{Kind: KindList, List: items}
	case KindMap:
		m := make(map[string]Value, len(v.Map))
		for k, item := range v.Map {
			m[k] = item.Clone()
		}
		return Value{Kind: KindMap, Map: m}
	default:
		return v
	}
}

// Equal implements Stop's `==`: scalars compare by value, lists
// element-wise, functions and native functions never compare equal
// (including to themselves), matching the original's derived equality
// which only covers the comparable variants.
func Equal(a, b Value) bool {
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case KindString:
		return a.Str == b.Str
	case KindNumber:
		return a.Num == b.Num
	case KindBool:
		return a.Bool == b.Bool
	case KindNil:
		return true
	case KindList:
		if len(a.List) != len(b.List) {
			return false
		}
		for i := range a.List {
			if !Equal(a.List[i], b.List[i]) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// Display renders v the way `print` and string interpolation do.
func (v Value) Display() string {
	switch v.Kind {
	case KindString:
		return v.Str
	case KindNumber:
		return formatNumber(v.Num)
	case KindBool:
		if v.Bool {
			return "true"
		}
		return "false"
	case KindNil:
		return "nil"
	case KindNativeFunction:
		return "<native function>"
	case KindFunction:
		return fmt.Sprintf("Function(%s)", v.Function.Name)
	case KindList:
		parts := make([]string, len(v.List))
		for i, item := range v.List {
			parts[i] = item.Display()
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case KindMap:
		keys := make([]string, 0, len(v.Map))
		for k := range v.Map {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, len(keys))
		for i, k := range keys {
			parts[i] = fmt.Sprintf("%q: %s", k, v.Map[k].Display())
		}
		return "{" + strings.Join(parts, ", ") + "}"
	default:
		return "?"
	}
}

func formatNumber(n float64) string {
	s := fmt.Sprintf("%g", n)
	return s
}

// Projections

// AsBool requires v be a bool, reporting an InvalidType error at loc
// otherwise.
func (v Value) AsBool(loc locator.Offset) (bool, error) {
	if v.Kind != KindBool {
		return false, NewInvalidType("bool", loc)
	}
	return v.Bool, nil
}

// AsNumber requires v be a number.
func (v Value) AsNumber(loc locator.Offset) (float64, error) {
	if v.Kind != KindNumber {
		return 0, NewInvalidType("number", loc)
	}
	return v.Num, nil
}

// AsString requires v be a string.
func (v Value) AsString(loc locator.Offset) (string, error) {
	if v.Kind != KindString {
		return "", NewInvalidType("string", loc)
	}
	return v.Str, nil
}

// AsList requires v be a list.
func (v Value) AsList(loc locator.Offset) ([]Value, error) {
	if v.Kind != KindList {
		return nil, NewInvalidType("list", loc)
	}
	return v.List, nil
}

// GetAtIndex reads v[index] for a list (numeric index) or map (string
// key), reporting IndexOutOfBounds or KeyNotFound as appropriate.
func (v Value) GetAtIndex(index Value, loc locator.Offset) (Value, error) {
	switch v.Kind {
	case KindList:
		n, err := index.AsNumber(loc)
		if err != nil {
			return Value{}, err
		}
		i := int(n)
		if i < 0 || i >= len(v.List) {
			return Value{}, NewIndexOutOfBounds(i, len(v.List), loc)
		}
		return v.List[i], nil
	case KindMap:
		key, err := index.AsString(loc)
		if err != nil {
			return Value{}, err
		}
		val, ok := v.Map[key]
		if !ok {
			return Value{}, NewKeyNotFound(key, loc)
		}
		return val, nil
	default:
		return Value{}, NewInvalidType("list or map", loc)
	}
}

// SetAtIndex writes v[index] = newValue in place for a list or map.
//
// Traversing to the container that owns the final index (via plain
// GetAtIndex, see eval's assignment handling) is sufficient even for
// nested containers: a List's backing array and a Map's backing table
// are reference types in Go, so a Value obtained by copying a slice
// element or map entry still shares the same underlying storage as the
// original. Unlike the interpreter this was ported from, which had to
// special-case and restrict assignment to a single level of indexing
// because Rust has no such aliasing by default, nested chained
// assignment (`a[0][1] = v`) works here with no extra bookkeeping.
func (v *Value) SetAtIndex(index, newValue Value, loc locator.Offset) error {
	switch v.Kind {
	case KindList:
		n, err := index.AsNumber(loc)
		if err != nil {
			return err
		}
		i := int(n)
		if i < 0 || i >= len(v.List) {
			return NewIndexOutOfBounds(i, len(v.List), loc)
		}
		v.List[i] = newValue
		return nil
	case KindMap:
		key, err := index.AsString(loc)
		if err != nil {
			return err
		}
		if v.Map == nil {
			v.Map = map[string]Value{}
		}
		v.Map[key] = newValue
		return nil
	default:
		return NewInvalidType("list or map", loc)
	}
}
