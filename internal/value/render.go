package value

import (
	"math"
	"strconv"
	"strings"
)

// Render returns the canonical string rendering of v. Top-level strings
// render bare; strings nested in lists and maps are quoted. A nil Value
// renders as "null".
func Render(v Value) string {
	if v == nil {
		return "null"
	}
	if s, ok := v.(String); ok {
		return string(s)
	}
	r := renderer{}
	v.Accept(&r)
	return r.b.String()
}

type renderer struct {
	b strings.Builder
}

func (r *renderer) VisitNull()            { r.b.WriteString("null") }
func (r *renderer) VisitString(s string)  { r.b.WriteString(strconv.Quote(s)) }
func (r *renderer) VisitNumber(n float64) { r.b.WriteString(formatNumber(n)) }
func (r *renderer) VisitBool(b bool)      { r.b.WriteString(strconv.FormatBool(b)) }

func (r *renderer) VisitList(items List) {
	r.b.WriteByte('[')
	for i, item := range items {
		if i > 0 {
			r.b.WriteByte(',')
		}
		r.visit(item)
	}
	r.b.WriteByte(']')
}

func (r *renderer) VisitMap(m *Map) {
	r.b.WriteByte('{')
	first := true
	m.Range(func(k string, v Value) bool {
		if !first {
			r.b.WriteByte(',')
		}
		first = false
		r.b.WriteString(strconv.Quote(k))
		r.b.WriteByte(':')
		r.visit(v)
		return true
	})
	r.b.WriteByte('}')
}

func (r *renderer) visit(v Value) {
	if v == nil {
		r.VisitNull()
		return
	}
	v.Accept(r)
}

// formatNumber prints integral values without an exponent up to 1e21, the
// same cutoff JSON encoders use.
func formatNumber(n float64) string {
	switch {
	case math.IsNaN(n):
		return "NaN"
	case math.IsInf(n, 1):
		return "+Inf"
	case math.IsInf(n, -1):
		return "-Inf"
	case n == math.Trunc(n) && math.Abs(n) < 1e21:
		return strconv.FormatFloat(n, 'f', -1, 64)
	}
	return strconv.FormatFloat(n, 'g', -1, 64)
}

// Equal reports whether a and b hold the same kind and payload. Map
// comparison is order-sensitive. NaN equals NaN.
func Equal(a, b Value) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	eq := equality{other: b}
	a.Accept(&eq)
	return eq.result
}

type equality struct {
	other  Value
	result bool
}

func (e *equality) VisitNull() {
	_, e.result = e.other.(Null)
}

func (e *equality) VisitString(s string) {
	o, ok := e.other.(String)
	e.result = ok && string(o) == s
}

func (e *equality) VisitNumber(n float64) {
	o, ok := e.other.(Number)
	e.result = ok && (float64(o) == n || (math.IsNaN(n) && math.IsNaN(float64(o))))
}

func (e *equality) VisitBool(b bool) {
	o, ok := e.other.(Bool)
	e.result = ok && bool(o) == b
}

func (e *equality) VisitList(items List) {
	o, ok := e.other.(List)
	if !ok || len(o) != len(items) {
		e.result = false
		return
	}
	for i := range items {
		if !Equal(items[i], o[i]) {
			e.result = false
			return
		}
	}
	e.result = true
}

func (e *equality) VisitMap(m *Map) {
	o, ok := e.other.(*Map)
	if !ok || o.Len() != m.Len() {
		e.result = false
		return
	}
	okeys := o.Keys()
	i := 0
	e.result = true
	m.Range(func(k string, v Value) bool {
		ov, _ := o.Get(okeys[i])
		if okeys[i] != k || !Equal(v, ov) {
			e.result = false
			return false
		}
		i++
		return true
	})
}
