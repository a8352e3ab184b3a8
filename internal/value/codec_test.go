package value

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

func TestRoundTrip(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		v    Value
	}{
		{"string", String("hello")},
		{"empty string", String("")},
		{"number", Number(42.5)},
		{"negative number", Number(-3)},
		{"true", Bool(true)},
		{"false", Bool(false)},
		{"null", Null{}},
		{"empty list", List{}},
		{"list", List{Number(1), String("two"), Null{}}},
		{"empty map", NewMap()},
		{"nested", NewMap().
			Set("zeta", List{Bool(true), NewMap().Set("y", Number(1)).Set("x", Number(2))}).
			Set("alpha", String("a")).
			Set("mid", Null{})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := Decode(Encode(tt.v))
			assert.True(t, Equal(tt.v, got), "want %s, got %s", Render(tt.v), Render(got))
		})
	}
}

func TestRoundTrip_PreservesMapOrder(t *testing.T) {
	t.Parallel()

	m := NewMap().Set("z", Number(1)).Set("a", Number(2)).Set("m", Number(3))

	got, ok := Decode(Encode(m)).(*Map)
	require.True(t, ok)
	assert.Equal(t, []string{"z", "a", "m"}, got.Keys())

	data, err := json.Marshal(Encode(m))
	require.NoError(t, err)
	assert.JSONEq(t, `{"z":1,"a":2,"m":3}`, string(data))
	assert.Equal(t, `{"z":1,"a":2,"m":3}`, string(data))
}

func TestRoundTrip_NonFiniteNumbersAreIdempotent(t *testing.T) {
	t.Parallel()

	for _, n := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		once := Decode(Encode(Number(n)))
		twice := Decode(Encode(once))

		assert.Equal(t, KindString, once.Kind())
		assert.True(t, Equal(once, twice))
	}
}

func TestEncode(t *testing.T) {
	t.Parallel()

	assert.Nil(t, Encode(nil))
	assert.Nil(t, Encode(Null{}))
	assert.Equal(t, "x", Encode(String("x")))
	assert.Equal(t, 1.5, Encode(Number(1.5)))
	assert.Equal(t, true, Encode(Bool(true)))
	assert.Equal(t, []any{"a", nil}, Encode(List{String("a"), Null{}}))

	om, ok := Encode(NewMap().Set("k", Number(1))).(*orderedmap.OrderedMap[string, any])
	require.True(t, ok)
	v, present := om.Get("k")
	assert.True(t, present)
	assert.Equal(t, float64(1), v)
}

type point struct {
	X int `json:"x"`
}

func TestDecode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   any
		want Value
	}{
		{"nil", nil, Null{}},
		{"string", "s", String("s")},
		{"bool", false, Bool(false)},
		{"float64", 2.5, Number(2.5)},
		{"int", 7, Number(7)},
		{"uint8", uint8(9), Number(9)},
		{"json number", json.Number("12"), Number(12)},
		{"raw message", json.RawMessage(`[1,"a"]`), List{Number(1), String("a")}},
		{"any slice", []any{"a", 1.0}, List{String("a"), Number(1)}},
		{"typed slice", []string{"a", "b"}, List{String("a"), String("b")}},
		{"sorted map", map[string]any{"b": 1.0, "a": 2.0}, NewMap().Set("a", Number(2)).Set("b", Number(1))},
		{"typed map", map[string]int{"y": 1, "x": 2}, NewMap().Set("x", Number(2)).Set("y", Number(1))},
		{"struct", point{X: 3}, String(`{"x":3}`)},
		{"int keyed map", map[int]string{1: "a"}, String(`{"1":"a"}`)},
		{"nil pointer", (*point)(nil), Null{}},
		{"value passes through", String("v"), String("v")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := Decode(tt.in)
			assert.True(t, Equal(tt.want, got), "want %s, got %s", Render(tt.want), Render(got))
		})
	}
}

func TestDecode_OrderedMapKeepsOrder(t *testing.T) {
	t.Parallel()

	om := orderedmap.New[string, any]()
	om.Set("second", 2.0)
	om.Set("first", 1.0)

	got, ok := Decode(om).(*Map)
	require.True(t, ok)
	assert.Equal(t, []string{"second", "first"}, got.Keys())
}

func TestDecode_UnsupportedNeverFails(t *testing.T) {
	t.Parallel()

	got := Decode(make(chan int))
	assert.Equal(t, KindString, got.Kind())
	assert.NotEmpty(t, Render(got))
}

func TestDecodeJSON(t *testing.T) {
	t.Parallel()

	got, err := DecodeJSON([]byte(`{"b":1,"a":[1,2,{"d":null,"c":true}],"s":"x"}`))
	require.NoError(t, err)

	m, ok := got.(*Map)
	require.True(t, ok)
	assert.Equal(t, []string{"b", "a", "s"}, m.Keys())

	a, _ := m.Get("a")
	list, ok := a.(List)
	require.True(t, ok)
	require.Len(t, list, 3)

	inner, ok := list[2].(*Map)
	require.True(t, ok)
	assert.Equal(t, []string{"d", "c"}, inner.Keys())
}

func TestDecodeJSON_Scalars(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want Value
	}{
		{`[1,2,3]`, List{Number(1), Number(2), Number(3)}},
		{`"quoted"`, String("quoted")},
		{` 42 `, Number(42)},
		{`null`, Null{}},
		{`true`, Bool(true)},
		{`{}`, NewMap()},
	}

	for _, tt := range tests {
		got, err := DecodeJSON([]byte(tt.in))
		require.NoError(t, err, tt.in)
		assert.True(t, Equal(tt.want, got), "%s decoded to %s", tt.in, Render(got))
	}
}

func TestDecodeJSON_Invalid(t *testing.T) {
	t.Parallel()

	for _, in := range []string{"hello", "", "{", `{"a":}`} {
		_, err := DecodeJSON([]byte(in))
		assert.ErrorIs(t, err, ErrInvalidJSON, "input %q", in)
	}
}
