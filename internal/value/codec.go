package value

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"slices"

	"github.com/cockroachdb/errors"
	"github.com/tidwall/gjson"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// ErrInvalidJSON is returned by DecodeJSON for malformed input.
var ErrInvalidJSON = errors.New("invalid JSON")

// Encode converts v to JSON-shaped data. Maps become
// *orderedmap.OrderedMap[string, any] so that marshaling keeps key order.
// Numbers JSON cannot represent (NaN, infinities) encode as their string
// rendering. A nil Value encodes as nil.
func Encode(v Value) any {
	if v == nil {
		return nil
	}
	var e encoder
	v.Accept(&e)
	return e.out
}

type encoder struct {
	out any
}

func (e *encoder) VisitNull()           { e.out = nil }
func (e *encoder) VisitString(s string) { e.out = s }
func (e *encoder) VisitBool(b bool)     { e.out = b }

func (e *encoder) VisitNumber(n float64) {
	if math.IsNaN(n) || math.IsInf(n, 0) {
		e.out = formatNumber(n)
		return
	}
	e.out = n
}

func (e *encoder) VisitList(items List) {
	out := make([]any, len(items))
	for i, item := range items {
		out[i] = Encode(item)
	}
	e.out = out
}

func (e *encoder) VisitMap(m *Map) {
	out := orderedmap.New[string, any](orderedmap.WithCapacity[string, any](m.Len()))
	m.Range(func(k string, v Value) bool {
		out.Set(k, Encode(v))
		return true
	})
	e.out = out
}

// Decode converts JSON-shaped data to a Value. It accepts everything
// encoding/json produces, any Go slice or array, and any map with string
// keys. Go maps carry no order, so their keys are decoded in sorted order;
// *orderedmap.OrderedMap keeps its own order. Anything else is rendered as
// a string.
func Decode(x any) Value {
	switch t := x.(type) {
	case nil:
		return Null{}
	case Value:
		return t
	case string:
		return String(t)
	case bool:
		return Bool(t)
	case float64:
		return Number(t)
	case float32:
		return Number(t)
	case int:
		return Number(t)
	case int64:
		return Number(t)
	case int32:
		return Number(t)
	case json.Number:
		if f, err := t.Float64(); err == nil {
			return Number(f)
		}
		return String(t.String())
	case json.RawMessage:
		if v, err := DecodeJSON(t); err == nil {
			return v
		}
		return String(string(t))
	case []any:
		out := make(List, len(t))
		for i, item := range t {
			out[i] = Decode(item)
		}
		return out
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		m := NewMap()
		for _, k := range keys {
			m.Set(k, Decode(t[k]))
		}
		return m
	case *orderedmap.OrderedMap[string, any]:
		m := NewMap()
		if t == nil {
			return m
		}
		for pair := t.Oldest(); pair != nil; pair = pair.Next() {
			m.Set(pair.Key, Decode(pair.Value))
		}
		return m
	}
	return decodeReflect(reflect.ValueOf(x))
}

func decodeReflect(rv reflect.Value) Value {
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return Null{}
		}
		return Decode(rv.Elem().Interface())
	case reflect.String:
		return String(rv.String())
	case reflect.Bool:
		return Bool(rv.Bool())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Number(rv.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return Number(rv.Uint())
	case reflect.Float32, reflect.Float64:
		return Number(rv.Float())
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.Type().Elem().Kind() == reflect.Uint8 {
			// byte slices are opaque payloads, not lists of numbers
			return stringify(rv.Interface())
		}
		out := make(List, rv.Len())
		for i := range out {
			out[i] = Decode(rv.Index(i).Interface())
		}
		return out
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return stringify(rv.Interface())
		}
		keys := rv.MapKeys()
		slices.SortFunc(keys, func(a, b reflect.Value) int {
			switch {
			case a.String() < b.String():
				return -1
			case a.String() > b.String():
				return 1
			}
			return 0
		})
		m := NewMap()
		for _, k := range keys {
			m.Set(k.String(), Decode(rv.MapIndex(k).Interface()))
		}
		return m
	}
	return stringify(rv.Interface())
}

// stringify renders an unsupported native value. Stringers and errors use
// their own text; everything else is marshaled to JSON when possible.
func stringify(x any) Value {
	switch t := x.(type) {
	case fmt.Stringer:
		return String(t.String())
	case error:
		return String(t.Error())
	}
	if data, err := json.Marshal(x); err == nil {
		return String(string(data))
	}
	return String(fmt.Sprint(x))
}

// DecodeJSON parses JSON text into a Value, keeping object keys in the
// order they appear in the input. Duplicate keys keep their first position
// and their last value.
func DecodeJSON(data []byte) (Value, error) {
	if !gjson.ValidBytes(data) {
		return nil, ErrInvalidJSON
	}
	return fromResult(gjson.ParseBytes(data)), nil
}

func fromResult(r gjson.Result) Value {
	switch r.Type {
	case gjson.Null:
		return Null{}
	case gjson.False:
		return Bool(false)
	case gjson.True:
		return Bool(true)
	case gjson.Number:
		return Number(r.Num)
	case gjson.String:
		return String(r.Str)
	}

	if r.IsArray() {
		out := List{}
		r.ForEach(func(_, item gjson.Result) bool {
			out = append(out, fromResult(item))
			return true
		})
		return out
	}

	m := NewMap()
	r.ForEach(func(key, item gjson.Result) bool {
		m.Set(key.Str, fromResult(item))
		return true
	})
	return m
}
