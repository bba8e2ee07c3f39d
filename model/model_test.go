package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKind(t *testing.T) {
	for _, k := range Kinds() {
		parsed, err := ParseKind(k.String())
		require.NoError(t, err)
		assert.Equal(t, k, parsed)
	}

	k, err := ParseKind("  Inside Air ")
	require.NoError(t, err)
	assert.Equal(t, InsideAir, k)

	_, err = ParseKind("lava")
	assert.Error(t, err)
}

func TestKindJSON(t *testing.T) {
	m := Material{Name: "glass", Kind: Window}
	data, err := json.Marshal(m)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"kind":"window"`)

	var back Material
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, Window, back.Kind)

	assert.Error(t, json.Unmarshal([]byte(`{"kind":"plasma"}`), &back))
}

func TestKindClasses(t *testing.T) {
	assert.True(t, InsideAir.IsAir())
	assert.True(t, OutsideAir.IsAir())
	assert.False(t, Wall.IsAir())
	assert.True(t, InnerInsulation.IsInsulation())
	assert.True(t, OutdoorInsulation.IsInsulation())
	assert.False(t, Wall.IsInsulation())
	assert.True(t, Radiator.IsFixed())
	assert.False(t, Door.IsFixed())
	assert.Equal(t, "Kind(42)", Kind(42).String())
}

func TestMaterialFormulas(t *testing.T) {
	wall := Material{VolumetricHeatCapacity: 2400000, Lambda: 1.4, Surface: 2.5, Thickness: 0.1}
	assert.InDelta(t, 0.1/(1.4*2.5), wall.Resistance(), 1e-12)
	assert.InDelta(t, 2400000*2.5*0.1, wall.HeatCapacity(), 1e-6)
}

func TestRect(t *testing.T) {
	r := NewRect(3, 4, 1, 2)
	c := r.Canon()
	assert.Equal(t, Coordinate{Row: 1, Col: 2}, c.From)
	assert.Equal(t, Coordinate{Row: 3, Col: 4}, c.To)
	assert.True(t, r.Contains(Coordinate{Row: 2, Col: 3}))
	assert.True(t, r.Contains(Coordinate{Row: 3, Col: 4}))
	assert.False(t, r.Contains(Coordinate{Row: 0, Col: 3}))
}

func TestValidationError(t *testing.T) {
	errA := errors.New("a")
	errB := errors.New("b")

	v := &ValidationError{}
	assert.NoError(t, v.Err())

	v.Add(nil)
	v.Add(fmt.Errorf("first: %w", errA))
	assert.Equal(t, "first: a", v.Error())

	nested := &ValidationError{}
	nested.Add(errB)
	v.Add(nested)
	require.Len(t, v.Issues, 2)
	assert.ErrorIs(t, v, errA)
	assert.ErrorIs(t, v, errB)
	assert.Contains(t, v.Error(), "configuration errors")
}
