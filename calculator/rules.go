package calculator

import (
	"fmt"

	"housetemp/grid"
	"housetemp/model"
)

// rule 根据上一时刻的温度场计算单元的新温度
type rule func(s *stepper, c *model.Cell) float64

// 每种材料的更新规则，构建一次，计算时按种类直接查表
var rules = map[model.Kind]rule{
	model.OutsideAir:        outsideAir,
	model.InsideAir:         insideAir,
	model.Wall:              conduction,
	model.Window:            conduction,
	model.Door:              conduction,
	model.InnerInsulation:   conduction,
	model.OutdoorInsulation: conduction,
	model.Radiator:          fixed,
}

func (s *stepper) neighbors(c *model.Cell) [4]*model.Cell {
	var out [4]*model.Cell
	for i, d := range grid.Directions {
		n, ok := s.prev.Neighbor(c.Coordinate, d)
		if !ok {
			panic(fmt.Errorf("%w: %s neighbor of interior cell %v", grid.ErrOutOfBounds, d, c.Coordinate))
		}
		out[i] = n
	}
	return out
}

func fixed(_ *stepper, c *model.Cell) float64 {
	return c.Temperature
}

// 室外空气：有温度曲线时跟随曲线，否则保持不变
func outsideAir(s *stepper, c *model.Cell) float64 {
	if s.forced {
		return s.outdoor
	}
	return c.Temperature
}

// 墙、窗、门、保温层：四个方向的导热
func conduction(s *stepper, c *model.Cell) float64 {
	sum := 0.0
	for _, n := range s.neighbors(c) {
		sum += conductiveFlux(c, n, s.dt)
	}
	return c.Temperature + sum/c.Material.HeatCapacity()
}

// 室内空气：导热 + 与相邻空气的对流混合 + 散热器放热，低于舒适温度时加热
func insideAir(s *stepper, c *model.Cell) float64 {
	var flux, convection, heat float64
	airs := 0
	for _, n := range s.neighbors(c) {
		flux += conductiveFlux(c, n, s.dt)
		switch k := n.Kind(); {
		case k.IsAir():
			convection += n.Temperature - c.Temperature
			airs++
		case k == model.Radiator:
			heat += n.Material.HeatRate * s.dt
		}
	}
	if airs > 0 {
		convection = convection / float64(airs) / s.physics.ConvectionDamping
	}

	capacity := c.Material.HeatCapacity()
	t := c.Temperature + (flux+convection+heat)/capacity
	if c.Temperature < s.physics.ComfortThreshold {
		t += s.physics.HeaterPower * s.dt / capacity
	}
	return t
}
