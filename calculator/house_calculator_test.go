package calculator

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"housetemp/grid"
	"housetemp/house"
)

func testConfig(ticks, reportEvery int) Config {
	cfg := DefaultConfig()
	cfg.Ticks = ticks
	cfg.ReportEvery = reportEvery
	return cfg
}

func TestRunMatchesRepeatedStep(t *testing.T) {
	g := fromLayout(t, house.House())
	before := g.Temperatures()

	var ticks []int
	c := NewCalculator(g, testConfig(10, 5), WithReport(func(tick int, _ *grid.Grid) error {
		ticks = append(ticks, tick)
		return nil
	}))
	require.NoError(t, c.Run(context.Background()))

	assert.Equal(t, []int{0, 5, 10}, ticks)
	assert.Equal(t, 10, c.Ticks())
	assert.Equal(t, before, g.Temperatures())

	want := g
	for i := 0; i < 10; i++ {
		want = Step(want, 1)
	}
	assert.Equal(t, want.Temperatures(), c.Current().Temperatures())
	assert.Equal(t, 10*time.Second, c.Elapsed())
}

func TestTickAlternatesBuffers(t *testing.T) {
	c := NewCalculator(fromLayout(t, house.Simple()), testConfig(2, 0))
	first := c.Current()
	c.Tick()
	second := c.Current()
	c.Tick()
	assert.NotSame(t, first, second)
	assert.Same(t, first, c.Current())
}

func TestParallelCalculator(t *testing.T) {
	g := fromLayout(t, house.House())
	cfg := testConfig(30, 0)
	serial := NewCalculator(g, cfg)
	cfg.Workers = 4
	parallel := NewCalculator(g, cfg)

	require.NoError(t, serial.Run(context.Background()))
	require.NoError(t, parallel.Run(context.Background()))
	assert.Equal(t, serial.Current().Temperatures(), parallel.Current().Temperatures())
}

func TestRunStopsOnSignal(t *testing.T) {
	c := NewCalculator(fromLayout(t, house.Simple()), testConfig(100, 0))
	c.GetCalcHub().StopSignal()
	require.NoError(t, c.Run(context.Background()))
	assert.Equal(t, 0, c.Ticks())
}

func TestRunStopsOnContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	c := NewCalculator(fromLayout(t, house.Simple()), testConfig(100, 1), WithReport(func(tick int, _ *grid.Grid) error {
		if tick == 3 {
			cancel()
		}
		return nil
	}))
	err := c.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 3, c.Ticks())
}

func TestRunReportsDivergence(t *testing.T) {
	cfg := testConfig(10, 0)
	cfg.Sanity = Sanity{Enabled: true, Min: -50, Max: 11}
	c := NewCalculator(scenario(t, 25, 10), cfg)

	err := c.Run(context.Background())
	var div *DivergenceError
	require.ErrorAs(t, err, &div)
	assert.Equal(t, 1, div.Tick)
	assert.Equal(t, 1, div.Coordinate.Row)
	assert.Equal(t, 1, div.Coordinate.Col)
	assert.Greater(t, div.Temperature, 11.0)
}

func TestRunStopsOnReportError(t *testing.T) {
	boom := errors.New("disk full")
	c := NewCalculator(fromLayout(t, house.Simple()), testConfig(10, 2), WithReport(func(tick int, _ *grid.Grid) error {
		if tick == 4 {
			return boom
		}
		return nil
	}))
	err := c.Run(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 4, c.Ticks())
}

func TestRunFollowsOutdoorSchedule(t *testing.T) {
	c := NewCalculator(fromLayout(t, house.Simple()), testConfig(3, 0), WithOutdoorSchedule(ConstantSchedule(-3)))
	require.NoError(t, c.Run(context.Background()))
	assert.Equal(t, -3.0, c.Current().Temperature(1, 3))
	assert.Equal(t, 10.0, c.Current().Temperature(1, 4))
}

func TestBuildData(t *testing.T) {
	id := uuid.New()
	c := NewCalculator(fromLayout(t, house.Simple()), testConfig(1, 0), WithRunID(id))
	c.Tick()

	s := c.BuildData()
	assert.Equal(t, id.String(), s.Run)
	assert.Equal(t, 1, s.Tick)
	assert.Equal(t, 3, s.Height)
	assert.Equal(t, 5, s.Width)
	require.Len(t, s.Temperatures, 3)
	assert.Equal(t, c.Current().Temperatures(), s.Temperatures)
	assert.Equal(t, 10.0, s.Min)
	assert.Less(t, s.Max, 25.0)
	assert.Greater(t, s.Mean, s.Min)
}

func TestSummarize(t *testing.T) {
	lo, hi, mean := Summarize([]float64{3, 1, 2})
	assert.Equal(t, 1.0, lo)
	assert.Equal(t, 3.0, hi)
	assert.Equal(t, 2.0, mean)

	lo, hi, mean = Summarize(nil)
	assert.Zero(t, lo)
	assert.Zero(t, hi)
	assert.Zero(t, mean)
}

func TestCalcHub(t *testing.T) {
	ch := NewCalcHub()
	ch.PushSignal()
	ch.PushSignal()
	<-ch.PeriodCalcResult
	select {
	case <-ch.PeriodCalcResult:
		t.Fatal("signals should coalesce")
	default:
	}

	done := ch.Done()
	ch.StopSignal()
	ch.StopSignal()
	_, open := <-done
	assert.False(t, open)

	ch.StartSignal()
	select {
	case <-ch.Done():
		t.Fatal("restarted hub should not be stopped")
	default:
	}
}
