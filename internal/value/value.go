package value

import (
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Kind identifies the variant held by a Value.
type Kind int

const (
	KindNull Kind = iota
	KindString
	KindNumber
	KindBool
	KindList
	KindMap
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
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
	default:
		return "unknown"
	}
}

// Value is a typed value. The implementations in this package are the only
// ones; the interface cannot be satisfied from outside.
type Value interface {
	Kind() Kind
	Accept(v Visitor)
	sealed()
}

// Visitor receives the payload of a Value. Accept calls exactly one method.
type Visitor interface {
	VisitNull()
	VisitString(s string)
	VisitNumber(n float64)
	VisitBool(b bool)
	VisitList(items List)
	VisitMap(m *Map)
}

// String is a string value.
type String string

// Number is a numeric value.
type Number float64

// Bool is a boolean value.
type Bool bool

// Null is the null value.
type Null struct{}

// List is an ordered list of values.
type List []Value

func (String) Kind() Kind { return KindString }
func (Number) Kind() Kind { return KindNumber }
func (Bool) Kind() Kind   { return KindBool }
func (Null) Kind() Kind   { return KindNull }
func (List) Kind() Kind   { return KindList }
func (*Map) Kind() Kind   { return KindMap }

func (s String) Accept(v Visitor) { v.VisitString(string(s)) }
func (n Number) Accept(v Visitor) { v.VisitNumber(float64(n)) }
func (b Bool) Accept(v Visitor)   { v.VisitBool(bool(b)) }
func (Null) Accept(v Visitor)     { v.VisitNull() }
func (l List) Accept(v Visitor)   { v.VisitList(l) }
func (m *Map) Accept(v Visitor)   { v.VisitMap(m) }

func (String) sealed() {}
func (Number) sealed() {}
func (Bool) sealed()   {}
func (Null) sealed()   {}
func (List) sealed()   {}
func (*Map) sealed()   {}

// Map is a string-keyed mapping that remembers insertion order. Setting an
// existing key replaces its value in place. The zero value and a nil *Map
// are both empty; only the zero value and NewMap results accept Set.
type Map struct {
	pairs *orderedmap.OrderedMap[string, Value]
}

// NewMap returns an empty map.
func NewMap() *Map {
	return &Map{pairs: orderedmap.New[string, Value]()}
}

// Set stores v under key and returns m so calls can be chained.
// A nil v is stored as Null.
func (m *Map) Set(key string, v Value) *Map {
	if m.pairs == nil {
		m.pairs = orderedmap.New[string, Value]()
	}
	if v == nil {
		v = Null{}
	}
	m.pairs.Set(key, v)
	return m
}

// Get returns the value stored under key.
func (m *Map) Get(key string) (Value, bool) {
	if m == nil || m.pairs == nil {
		return nil, false
	}
	return m.pairs.Get(key)
}

// Delete removes key. It reports whether the key was present.
func (m *Map) Delete(key string) bool {
	if m == nil || m.pairs == nil {
		return false
	}
	_, ok := m.pairs.Delete(key)
	return ok
}

// Len returns the number of entries.
func (m *Map) Len() int {
	if m == nil || m.pairs == nil {
		return 0
	}
	return m.pairs.Len()
}

// Keys returns the keys in insertion order.
func (m *Map) Keys() []string {
	keys := make([]string, 0, m.Len())
	m.Range(func(k string, _ Value) bool {
		keys = append(keys, k)
		return true
	})
	return keys
}

// Range calls fn for each entry in insertion order until fn returns false.
func (m *Map) Range(fn func(key string, v Value) bool) {
	if m == nil || m.pairs == nil {
		return
	}
	for pair := m.pairs.Oldest(); pair != nil; pair = pair.Next() {
		if !fn(pair.Key, pair.Value) {
			return
		}
	}
}
