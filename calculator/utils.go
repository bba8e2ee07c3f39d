package calculator

import (
	"math"
	"time"

	"housetemp/grid"
	"housetemp/model"
)

// 单元 c 向邻居 n 导热时使用的热阻
func resistance(c, n *model.Cell) float64 {
	m := c.Material
	ck, nk := c.Kind(), n.Kind()
	switch {
	case ck == model.Wall && nk == model.InnerInsulation && m.Insulation.HasInside():
		return m.Insulation.InsideThickness / (m.Insulation.InsideLambda * m.Surface)
	case ck == model.Wall && nk == model.OutdoorInsulation && m.Insulation.HasOutside():
		return m.Insulation.OutsideThickness / (m.Insulation.OutsideLambda * m.Surface)
	case ck.IsInsulation() && nk.IsInsulation():
		// 两层保温之间没有导热路径，热阻视为无穷大
		return math.Inf(1)
	}
	return m.Resistance()
}

// 导热热流 (n.T - c.T) * dt / R
func conductiveFlux(c, n *model.Cell, dt float64) float64 {
	r := resistance(c, n)
	if math.IsInf(r, 1) {
		return 0
	}
	return (n.Temperature - c.Temperature) * dt / r
}

// 单元的总热导 Σ 1/R
func conductance(g *grid.Grid, c *model.Cell) float64 {
	sum := 0.0
	for _, d := range grid.Directions {
		n, ok := g.Neighbor(c.Coordinate, d)
		if !ok {
			continue
		}
		r := resistance(c, n)
		if math.IsInf(r, 1) {
			continue
		}
		sum += 1 / r
	}
	return sum
}

// 计算网格内部单元中最短的稳定时间步长 C / Σ(1/R)
func calculateTimeStep(g *grid.Grid) float64 {
	limit := math.Inf(1)
	for row := 1; row < g.Height-1; row++ {
		for col := 1; col < g.Width-1; col++ {
			c := g.Get(row, col)
			if c.Kind().IsFixed() {
				continue
			}
			k := conductance(g, c)
			if k <= 0 {
				continue
			}
			if t := c.Material.HeatCapacity() / k; t < limit {
				limit = t
			}
		}
	}
	return limit
}

func seconds(dt float64) time.Duration {
	return time.Duration(dt * float64(time.Second))
}
