package value

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRender(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		v    Value
		want string
	}{
		{"nil", nil, "null"},
		{"bare string", String("hi"), "hi"},
		{"integer", Number(3), "3"},
		{"large integer", Number(1234567), "1234567"},
		{"fraction", Number(0.25), "0.25"},
		{"huge", Number(1e21), "1e+21"},
		{"nan", Number(math.NaN()), "NaN"},
		{"bool", Bool(true), "true"},
		{"null", Null{}, "null"},
		{"list quotes strings", List{String("a"), Number(1)}, `["a",1]`},
		{"map", NewMap().Set("k", String("v")).Set("n", Null{}), `{"k":"v","n":null}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Render(tt.v))
		})
	}
}

func TestEqual(t *testing.T) {
	t.Parallel()

	assert.True(t, Equal(nil, nil))
	assert.False(t, Equal(nil, Null{}))
	assert.False(t, Equal(String("1"), Number(1)))
	assert.False(t, Equal(List{Number(1)}, List{Number(1), Number(2)}))
	assert.False(t, Equal(
		NewMap().Set("a", Number(1)).Set("b", Number(2)),
		NewMap().Set("b", Number(2)).Set("a", Number(1)),
	), "map order matters")
	assert.True(t, Equal(Number(math.NaN()), Number(math.NaN())))
}

func TestMap(t *testing.T) {
	t.Parallel()

	var zero Map
	zero.Set("a", nil)
	v, ok := zero.Get("a")
	assert.True(t, ok)
	assert.Equal(t, Null{}, v)

	m := NewMap().Set("a", Number(1)).Set("b", Number(2)).Set("a", Number(3))
	assert.Equal(t, []string{"a", "b"}, m.Keys())
	got, _ := m.Get("a")
	assert.Equal(t, Number(3), got)

	assert.True(t, m.Delete("a"))
	assert.False(t, m.Delete("a"))
	assert.Equal(t, 1, m.Len())

	var nilMap *Map
	assert.Equal(t, 0, nilMap.Len())
	assert.Empty(t, nilMap.Keys())
	_, ok = nilMap.Get("x")
	assert.False(t, ok)
}
