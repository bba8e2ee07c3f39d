package calculator

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"housetemp/grid"
)

// ReportFunc 在两次迭代之间被调用，g 只在调用期间有效
type ReportFunc func(tick int, g *grid.Grid) error

type HouseCalculator struct {
	run uuid.UUID
	cfg Config

	field         *grid.Grid // 当前温度场
	thermalField  *grid.Grid
	thermalField1 *grid.Grid

	// 每计算一个 ▲t 切换一次读写的网格
	alternating bool

	e        executor
	schedule Schedule
	reports  []ReportFunc
	calcHub  *CalcHub

	tick       int
	elapsed    time.Duration
	degenerate int

	mu sync.Mutex // 保护 BuildData 与计算对温度场的并发访问
}

type Option func(c *HouseCalculator)

func WithReport(f ReportFunc) Option {
	return func(c *HouseCalculator) {
		c.reports = append(c.reports, f)
	}
}

// WithOutdoorSchedule 室外空气跟随温度曲线，nil 表示保持初始温度
func WithOutdoorSchedule(s Schedule) Option {
	return func(c *HouseCalculator) {
		c.schedule = s
	}
}

func WithRunID(id uuid.UUID) Option {
	return func(c *HouseCalculator) {
		c.run = id
	}
}

// NewCalculator 以 g 为初始温度场创建计算器，g 本身不会被修改
func NewCalculator(g *grid.Grid, cfg Config, opts ...Option) *HouseCalculator {
	c := &HouseCalculator{
		run:           uuid.New(),
		cfg:           cfg,
		thermalField:  g.Clone(),
		thermalField1: g.Clone(),
		alternating:   true,
		e:             newExecutor(cfg.Workers),
		calcHub:       NewCalcHub(),
	}
	c.field = c.thermalField
	for _, opt := range opts {
		opt(c)
	}

	limit := calculateTimeStep(g)
	logger := c.logger()
	logger.WithFields(log.Fields{
		"height":          g.Height,
		"width":           g.Width,
		"timestep":        cfg.Timestep,
		"ticks":           cfg.Ticks,
		"workers":         cfg.Workers,
		"stable_timestep": limit,
	}).Info("计算参数")
	if cfg.Timestep > limit {
		logger.WithFields(log.Fields{
			"timestep": cfg.Timestep,
			"limit":    limit,
		}).Warn("时间步长超过显式格式的稳定上限，结果可能发散")
	}
	return c
}

func (c *HouseCalculator) logger() *log.Entry {
	return log.WithField("run", c.run.String())
}

func (c *HouseCalculator) RunID() string {
	return c.run.String()
}

func (c *HouseCalculator) GetCalcHub() *CalcHub {
	return c.calcHub
}

// Current 当前温度场，只能在两次迭代之间读取
func (c *HouseCalculator) Current() *grid.Grid {
	return c.field
}

func (c *HouseCalculator) Ticks() int {
	return c.tick
}

// Elapsed 已经模拟的时间
func (c *HouseCalculator) Elapsed() time.Duration {
	return c.elapsed
}

func (c *HouseCalculator) Tick() StepStats {
	c.mu.Lock()
	defer c.mu.Unlock()

	prev, next := c.thermalField, c.thermalField1
	if !c.alternating {
		prev, next = next, prev
	}
	opts := []StepOption{WithPhysics(c.cfg.Physics), withExecutor(c.e)}
	if c.schedule != nil {
		opts = append(opts, WithSchedule(c.schedule, c.elapsed))
	}
	stats := StepInto(prev, next, c.cfg.Timestep, opts...)

	c.alternating = !c.alternating
	c.field = next
	c.tick++
	c.elapsed += seconds(c.cfg.Timestep)
	if stats.Degenerate > 0 {
		c.degenerate += stats.Degenerate
		c.logger().WithFields(log.Fields{
			"tick":  c.tick,
			"cells": stats.Degenerate,
		}).Warn("计算结果不是有限值，保留上一时刻温度")
	}
	return stats
}

func (c *HouseCalculator) report() error {
	for _, f := range c.reports {
		if err := f(c.tick, c.field); err != nil {
			return fmt.Errorf("report tick %d: %w", c.tick, err)
		}
	}
	return nil
}

func (c *HouseCalculator) Run(ctx context.Context) error {
	logger := c.logger()
	start := time.Now()
	if c.tick == 0 && c.cfg.ReportEvery > 0 {
		if err := c.report(); err != nil {
			return err
		}
		c.calcHub.PushSignal()
	}

	var duration time.Duration
	stop := c.calcHub.Done()
LOOP:
	for c.tick < c.cfg.Ticks {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-stop:
			logger.WithField("tick", c.tick).Info("收到停止信号")
			break LOOP
		default:
		}

		stats := c.Tick()
		duration += stats.Duration
		if err := c.cfg.Sanity.check(c.tick, c.field); err != nil {
			logger.WithError(err).Error("温度场发散")
			return err
		}
		if c.cfg.ReportEvery > 0 && c.tick%c.cfg.ReportEvery == 0 {
			if err := c.report(); err != nil {
				return err
			}
			c.calcHub.PushSignal()
			logger.WithFields(log.Fields{
				"tick":    c.tick,
				"elapsed": c.elapsed,
				"calc":    duration,
			}).Debug("输出结果")
		}
	}

	logger.WithFields(log.Fields{
		"ticks":      c.tick,
		"simulated":  c.elapsed,
		"degenerate": c.degenerate,
		"cost":       time.Since(start),
	}).Info("计算结束")
	return nil
}
