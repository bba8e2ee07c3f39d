package reporter

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	billy "gopkg.in/src-d/go-billy.v4"
	"gopkg.in/src-d/go-billy.v4/memfs"

	"housetemp/calculator"
	"housetemp/grid"
	"housetemp/house"
	"housetemp/material"
	"housetemp/model"
)

func simpleGrid(t *testing.T) *grid.Grid {
	t.Helper()
	g, err := grid.FromLayout(house.Simple(), material.Default())
	require.NoError(t, err)
	return g
}

func readFile(t *testing.T, fs billy.Filesystem, name string) []byte {
	t.Helper()
	f, err := fs.Open(name)
	require.NoError(t, err)
	defer f.Close()
	data, err := io.ReadAll(f)
	require.NoError(t, err)
	return data
}

func TestCSV(t *testing.T) {
	fs := memfs.New()
	g := simpleGrid(t)
	probes := house.Simple().Probes

	c, err := NewCSV(fs, "data.csv", probes, 1)
	require.NoError(t, err)
	require.NoError(t, c.Report(0, g))
	g = calculator.Step(g, 1)
	require.NoError(t, c.Report(1, g))
	require.NoError(t, c.Close())

	lines := strings.Split(strings.TrimSpace(string(readFile(t, fs, "data.csv"))), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, `tick,time_s,"(1,1)","(1,2)","(1,3)"`, lines[0])
	assert.Equal(t, "0,0,25.000000,10.000000,10.000000", lines[1])
	assert.True(t, strings.HasPrefix(lines[2], "1,1,24.99"))
}

func TestCSVRejectsCellsOutsideGrid(t *testing.T) {
	_, err := NewCSV(memfs.New(), "data.csv", nil, 1)
	assert.Error(t, err)

	c, err := NewCSV(memfs.New(), "data.csv", []model.Coordinate{{Row: 9, Col: 9}}, 1)
	require.NoError(t, err)
	assert.ErrorIs(t, c.Report(0, simpleGrid(t)), grid.ErrOutOfBounds)
}

func TestTerminal(t *testing.T) {
	var buf bytes.Buffer
	term := NewTerminal(&buf, 2, 1800)
	g := simpleGrid(t)

	require.NoError(t, term.Report(1, g))
	assert.Zero(t, buf.Len())

	require.NoError(t, term.Report(2, g))
	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "tick 2 (1.0 h)\n"))
	assert.Equal(t, 1+g.Height, strings.Count(out, "\n"))
	assert.Contains(t, out, colors[model.Wall]+" 10.0 "+reset)
	assert.Contains(t, out, colors[model.InsideAir]+" 25.0 "+reset)
}

func TestChart(t *testing.T) {
	fs := memfs.New()
	g := simpleGrid(t)
	c, err := NewChart(fs, "out.png", house.Simple().Probes, 600)
	require.NoError(t, err)

	for tick := 0; tick < 5; tick++ {
		require.NoError(t, c.Report(tick, g))
		g = calculator.Step(g, 600)
	}
	assert.Equal(t, []float64{0, 1.0 / 6, 2.0 / 6, 3.0 / 6, 4.0 / 6}, c.hours)
	require.NoError(t, c.Close())

	data := readFile(t, fs, "out.png")
	assert.True(t, bytes.HasPrefix(data, []byte("\x89PNG")))
}

func TestChartWithoutDataWritesNothing(t *testing.T) {
	fs := memfs.New()
	c, err := NewChart(fs, "out.png", house.Simple().Probes, 1)
	require.NoError(t, err)
	require.NoError(t, c.Close())
	_, err = fs.Stat("out.png")
	assert.Error(t, err)
}

func TestStats(t *testing.T) {
	logger, hook := test.NewNullLogger()
	s := NewStats(log.NewEntry(logger))
	require.NoError(t, s.Report(0, simpleGrid(t)))

	require.Len(t, s.History(), 1)
	assert.Equal(t, Summary{Tick: 0, Min: 10, Max: 25, Mean: 15}, s.History()[0])
	require.Len(t, hook.Entries, 1)
	assert.Equal(t, 25.0, hook.LastEntry().Data["max"])
}

type failing struct {
	reports int
	closed  bool
}

func (f *failing) Report(int, *grid.Grid) error {
	f.reports++
	return errors.New("broken")
}

func (f *failing) Close() error {
	f.closed = true
	return errors.New("close broken")
}

func TestMulti(t *testing.T) {
	first, second := &failing{}, &failing{}
	m := Multi(first, second)

	assert.Error(t, m.Report(0, simpleGrid(t)))
	assert.Equal(t, 1, first.reports)
	assert.Equal(t, 0, second.reports)

	err := m.Close()
	assert.Error(t, err)
	assert.True(t, first.closed)
	assert.True(t, second.closed)
}
