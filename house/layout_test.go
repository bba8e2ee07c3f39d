package house

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"housetemp/material"
	"housetemp/model"
)

func TestBuiltinLayoutsReferenceKnownMaterials(t *testing.T) {
	catalog := material.Default()
	for _, name := range BuiltinNames() {
		l, err := Builtin(name)
		require.NoError(t, err)
		assert.Equal(t, name, l.Name)
		for _, m := range l.Materials() {
			_, ok := catalog.Get(m)
			assert.True(t, ok, "layout %s uses unknown material %s", name, m)
		}
		for _, p := range l.Probes {
			assert.True(t, p.Row >= 0 && p.Row < l.Height && p.Col >= 0 && p.Col < l.Width)
		}
	}

	_, err := Builtin("castle")
	assert.Error(t, err)
}

func TestHouseCarvesDoorwaysAfterWalls(t *testing.T) {
	l := House()
	wallIdx, doorwayIdx := -1, -1
	for i, r := range l.Regions {
		switch r.Name {
		case "living room wall":
			wallIdx = i
		case "living room doorway":
			doorwayIdx = i
		}
	}
	require.NotEqual(t, -1, wallIdx)
	require.NotEqual(t, -1, doorwayIdx)
	assert.Less(t, wallIdx, doorwayIdx)

	doorway, ok := l.Region("living room doorway")
	require.True(t, ok)
	assert.Equal(t, material.InsideAir, doorway.Material)
	assert.True(t, doorway.Rects[0].Contains(model.Coordinate{Row: 7, Col: 6}))
}

func TestLayoutJSONRoundTrip(t *testing.T) {
	data, err := json.Marshal(Simple())
	require.NoError(t, err)

	l, err := LoadJSON(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, Simple(), l)
}

func TestLoadJSONRejectsEmptyGrid(t *testing.T) {
	_, err := LoadJSON(strings.NewReader(`{"name":"flat","height":0,"width":4}`))
	assert.Error(t, err)

	_, err = LoadJSON(strings.NewReader(`{`))
	assert.Error(t, err)
}

func TestLoadBuiltinOrFile(t *testing.T) {
	l, err := Load("insulated")
	require.NoError(t, err)
	assert.Equal(t, "insulated", l.Name)

	data, err := json.Marshal(Simple())
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "simple.json")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	l, err = Load(path)
	require.NoError(t, err)
	assert.Equal(t, Simple(), l)

	_, err = Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
	_, err = Load("castle")
	assert.Error(t, err)
}
