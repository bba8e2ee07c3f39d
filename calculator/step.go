package calculator

import (
	"fmt"
	"math"
	"sync/atomic"
	"time"

	"housetemp/grid"
	"housetemp/model"
)

// Physics 室内空气规则用到的常量
type Physics struct {
	ComfortThreshold  float64 // 低于该温度时加热器工作 ℃
	HeaterPower       float64 // 加热器功率 W
	ConvectionDamping float64 // 对流混合的阻尼系数
}

func DefaultPhysics() Physics {
	return Physics{
		ComfortThreshold:  18,
		HeaterPower:       80,
		ConvectionDamping: 300,
	}
}

// StepStats 一次迭代的统计
type StepStats struct {
	Degenerate int // 结果非有限值、保留旧温度的单元数
	Duration   time.Duration
}

type stepOptions struct {
	physics  Physics
	schedule Schedule
	elapsed  time.Duration
	e        executor
}

type StepOption func(*stepOptions)

func WithPhysics(p Physics) StepOption {
	return func(o *stepOptions) {
		o.physics = p
	}
}

// WithSchedule 室外空气跟随温度曲线，elapsed 为本次迭代之前已经模拟的时间
func WithSchedule(s Schedule, elapsed time.Duration) StepOption {
	return func(o *stepOptions) {
		o.schedule = s
		o.elapsed = elapsed
	}
}

// WithWorkers 按行并行计算，workers <= 1 时串行
func WithWorkers(workers int) StepOption {
	return withExecutor(newExecutor(workers))
}

func withExecutor(e executor) StepOption {
	return func(o *stepOptions) {
		o.e = e
	}
}

type stepper struct {
	prev, next *grid.Grid
	dt         float64
	physics    Physics

	forced  bool
	outdoor float64

	degenerate int64
}

// Step 计算一个时间步长后的温度场，返回新的网格，输入网格不会被修改
func Step(g *grid.Grid, timestep float64, opts ...StepOption) *grid.Grid {
	next := g.Clone()
	StepInto(g, next, timestep, opts...)
	return next
}

// StepInto 从 prev 读取，把结果写入 next。两者必须是同一布局的网格。
func StepInto(prev, next *grid.Grid, timestep float64, opts ...StepOption) StepStats {
	if prev.Height != next.Height || prev.Width != next.Width {
		panic(fmt.Sprintf("grid size mismatch: %dx%d vs %dx%d", prev.Height, prev.Width, next.Height, next.Width))
	}
	o := stepOptions{physics: DefaultPhysics(), e: serialExecutor{}}
	for _, opt := range opts {
		opt(&o)
	}

	start := time.Now()
	s := &stepper{prev: prev, next: next, dt: timestep, physics: o.physics}
	if o.schedule != nil {
		s.forced = true
		s.outdoor = o.schedule.Temperature(o.elapsed + seconds(timestep))
	}

	// 边界单元原样复制
	cells := next.Cells()
	prev.Edge(func(c *model.Cell) {
		cells[c.Coordinate.Row*prev.Width+c.Coordinate.Col].Temperature = c.Temperature
	})

	o.e.dispatchTask(prev.Height, func(t task) {
		s.calculate(t.start, t.end)
	})

	return StepStats{
		Degenerate: int(atomic.LoadInt64(&s.degenerate)),
		Duration:   time.Since(start),
	}
}

// calculate 计算 [start, end) 行中的内部单元
func (s *stepper) calculate(start, end int) {
	if start < 1 {
		start = 1
	}
	if end > s.prev.Height-1 {
		end = s.prev.Height - 1
	}
	for row := start; row < end; row++ {
		for col := 1; col < s.prev.Width-1; col++ {
			c := s.prev.Get(row, col)
			s.next.Get(row, col).Temperature = s.update(c)
		}
	}
}

func (s *stepper) update(c *model.Cell) float64 {
	r, ok := rules[c.Kind()]
	if !ok {
		panic(fmt.Sprintf("no update rule for material kind %s at %v", c.Kind(), c.Coordinate))
	}
	t := r(s, c)
	if math.IsNaN(t) || math.IsInf(t, 0) {
		atomic.AddInt64(&s.degenerate, 1)
		return c.Temperature
	}
	return t
}
