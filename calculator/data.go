package calculator

import (
	"gonum.org/v1/gonum/floats"

	"housetemp/grid"
	"housetemp/model"
)

// Summarize 最小值、最大值和平均值，空切片返回 0
func Summarize(values []float64) (min, max, mean float64) {
	if len(values) == 0 {
		return 0, 0, 0
	}
	return floats.Min(values), floats.Max(values), floats.Sum(values) / float64(len(values))
}

// NewSnapshot 温度场快照，统计值只包含内部单元
func NewSnapshot(run string, tick int, g *grid.Grid) model.Snapshot {
	lo, hi, mean := Summarize(g.InteriorTemperatures())
	return model.Snapshot{
		Run:          run,
		Tick:         tick,
		Height:       g.Height,
		Width:        g.Width,
		Temperatures: g.Temperatures(),
		Kinds:        g.Kinds(),
		Min:          lo,
		Max:          hi,
		Mean:         mean,
	}
}

func (c *HouseCalculator) BuildData() model.Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return NewSnapshot(c.RunID(), c.tick, c.field)
}
