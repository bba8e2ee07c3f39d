package calculator

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"housetemp/grid"
	"housetemp/model"
)

// Sanity 每次迭代后检查内部单元温度是否在 [Min, Max] 范围内
type Sanity struct {
	Enabled bool
	Min     float64
	Max     float64
}

// DivergenceError 温度超出合理范围，通常是时间步长过大
type DivergenceError struct {
	Tick        int
	Coordinate  model.Coordinate
	Temperature float64
	Min, Max    float64
}

func (e *DivergenceError) Error() string {
	return fmt.Sprintf("temperature diverged at tick %d: cell %v is %g, outside [%g, %g]",
		e.Tick, e.Coordinate, e.Temperature, e.Min, e.Max)
}

func (s Sanity) check(tick int, g *grid.Grid) error {
	if !s.Enabled {
		return nil
	}
	temps := g.InteriorTemperatures()
	if len(temps) == 0 {
		return nil
	}
	if floats.Min(temps) >= s.Min && floats.Max(temps) <= s.Max {
		return nil
	}
	for row := 1; row < g.Height-1; row++ {
		for col := 1; col < g.Width-1; col++ {
			t := g.Temperature(row, col)
			if t < s.Min || t > s.Max || math.IsNaN(t) {
				return &DivergenceError{
					Tick:        tick,
					Coordinate:  model.Coordinate{Row: row, Col: col},
					Temperature: t,
					Min:         s.Min,
					Max:         s.Max,
				}
			}
		}
	}
	return nil
}
