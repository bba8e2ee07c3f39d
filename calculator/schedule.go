package calculator

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// Schedule 室外温度曲线，t 为模拟开始后的时间
type Schedule interface {
	Temperature(t time.Duration) float64
}

type ConstantSchedule float64

func (s ConstantSchedule) Temperature(time.Duration) float64 {
	return float64(s)
}

// DiurnalSchedule 正弦日变化，PeakAt 时刻达到最高温度
type DiurnalSchedule struct {
	Mean      float64
	Amplitude float64
	Period    time.Duration
	PeakAt    time.Duration
}

func (s DiurnalSchedule) Temperature(t time.Duration) float64 {
	period := s.Period
	if period <= 0 {
		period = 24 * time.Hour
	}
	phase := 2 * math.Pi * float64(t-s.PeakAt) / float64(period)
	return s.Mean + s.Amplitude*math.Cos(phase)
}

type ScheduleConfig struct {
	Kind        string // none | constant | diurnal
	Mean        float64
	Amplitude   float64
	PeriodHours float64
	PeakHour    float64
}

func hours(h float64) time.Duration {
	return time.Duration(h * float64(time.Hour))
}

// NewSchedule 按配置创建温度曲线，kind 为空或 none 时返回 nil（室外温度不变）
func NewSchedule(cfg ScheduleConfig) (Schedule, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Kind)) {
	case "", "none":
		return nil, nil
	case "constant":
		return ConstantSchedule(cfg.Mean), nil
	case "diurnal":
		if cfg.PeriodHours <= 0 {
			return nil, fmt.Errorf("diurnal schedule: period_hours must be positive, got %v", cfg.PeriodHours)
		}
		return DiurnalSchedule{
			Mean:      cfg.Mean,
			Amplitude: cfg.Amplitude,
			Period:    hours(cfg.PeriodHours),
			PeakAt:    hours(cfg.PeakHour),
		}, nil
	}
	return nil, fmt.Errorf("unknown schedule kind %q", cfg.Kind)
}
