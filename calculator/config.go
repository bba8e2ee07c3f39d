package calculator

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"
	"gopkg.in/ini.v1"

	"housetemp/model"
)

type Config struct {
	Layout       string // 内置布局名或 json 文件路径
	Catalog      string // 材料目录 json，为空时使用内置目录
	StrictBorder bool

	Timestep    float64 // s
	Ticks       int
	Workers     int
	ReportEvery int // 每多少次迭代输出一次，0 表示不输出

	Physics  Physics
	Schedule ScheduleConfig
	Sanity   Sanity
	Report   ReportConfig
	Server   ServerConfig
	Log      LogConfig
}

type ReportConfig struct {
	Dir           string
	CSV           string
	CSVCells      []model.Coordinate // 为空时使用布局的默认采样点
	Chart         string
	Terminal      bool
	TerminalEvery int
}

type ServerConfig struct {
	Addr string
}

type LogConfig struct {
	Level string
	JSON  bool
}

func DefaultConfig() Config {
	return Config{
		Layout:      "house",
		Timestep:    1,
		Ticks:       86400,
		Workers:     1,
		ReportEvery: 60,
		Physics:     DefaultPhysics(),
		Schedule:    ScheduleConfig{Kind: "none", Mean: 10, PeriodHours: 24, PeakHour: 15},
		Sanity:      Sanity{Min: -100, Max: 200},
		Report: ReportConfig{
			Dir:           "output",
			CSV:           "data.csv",
			TerminalEvery: 3600,
		},
		Server: ServerConfig{Addr: ":9000"},
		Log:    LogConfig{Level: "info"},
	}
}

// LoadConfig 读取 ini 配置文件，文件不存在时使用默认配置
func LoadConfig(path string) (Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		log.WithField("path", path).Warn("配置文件不存在，使用默认配置")
		cfg := DefaultConfig()
		return cfg, cfg.Validate()
	}
	file, err := ini.Load(path)
	if err != nil {
		return Config{}, fmt.Errorf("load config %s: %w", path, err)
	}
	return loadCfg(file)
}

// ParseConfig 从内存中的 ini 文本读取配置
func ParseConfig(data []byte) (Config, error) {
	file, err := ini.Load(data)
	if err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	return loadCfg(file)
}

func loadCfg(file *ini.File) (Config, error) {
	d := DefaultConfig()
	g := file.Section("grid")
	calc := file.Section("calculator")
	phy := file.Section("physics")
	sch := file.Section("schedule")
	san := file.Section("sanity")
	rep := file.Section("report")

	cfg := Config{
		Layout:       g.Key("layout").MustString(d.Layout),
		Catalog:      g.Key("catalog").MustString(d.Catalog),
		StrictBorder: g.Key("strict_border").MustBool(d.StrictBorder),

		Timestep:    calc.Key("timestep").MustFloat64(d.Timestep),
		Ticks:       calc.Key("ticks").MustInt(d.Ticks),
		Workers:     calc.Key("workers").MustInt(d.Workers),
		ReportEvery: calc.Key("report_every").MustInt(d.ReportEvery),

		Physics: Physics{
			ComfortThreshold:  phy.Key("comfort_threshold").MustFloat64(d.Physics.ComfortThreshold),
			HeaterPower:       phy.Key("heater_power").MustFloat64(d.Physics.HeaterPower),
			ConvectionDamping: phy.Key("convection_damping").MustFloat64(d.Physics.ConvectionDamping),
		},
		Schedule: ScheduleConfig{
			Kind:        sch.Key("kind").MustString(d.Schedule.Kind),
			Mean:        sch.Key("mean").MustFloat64(d.Schedule.Mean),
			Amplitude:   sch.Key("amplitude").MustFloat64(d.Schedule.Amplitude),
			PeriodHours: sch.Key("period_hours").MustFloat64(d.Schedule.PeriodHours),
			PeakHour:    sch.Key("peak_hour").MustFloat64(d.Schedule.PeakHour),
		},
		Sanity: Sanity{
			Enabled: san.Key("enabled").MustBool(d.Sanity.Enabled),
			Min:     san.Key("min").MustFloat64(d.Sanity.Min),
			Max:     san.Key("max").MustFloat64(d.Sanity.Max),
		},
		Report: ReportConfig{
			Dir:           rep.Key("dir").MustString(d.Report.Dir),
			CSV:           rep.Key("csv").MustString(d.Report.CSV),
			Chart:         rep.Key("chart").MustString(d.Report.Chart),
			Terminal:      rep.Key("terminal").MustBool(d.Report.Terminal),
			TerminalEvery: rep.Key("terminal_every").MustInt(d.Report.TerminalEvery),
		},
		Server: ServerConfig{
			Addr: file.Section("server").Key("addr").MustString(d.Server.Addr),
		},
		Log: LogConfig{
			Level: file.Section("log").Key("level").MustString(d.Log.Level),
			JSON:  file.Section("log").Key("json").MustBool(d.Log.JSON),
		},
	}

	verr := &model.ValidationError{}
	if rep.HasKey("csv_cells") {
		cells, err := parseCells(rep.Key("csv_cells").Strings(","))
		verr.Add(err)
		cfg.Report.CSVCells = cells
	}
	verr.Add(cfg.Validate())
	return cfg, verr.Err()
}

// parseCells 解析 "row:col" 形式的坐标列表
func parseCells(items []string) ([]model.Coordinate, error) {
	cells := make([]model.Coordinate, 0, len(items))
	for _, item := range items {
		parts := strings.Split(strings.TrimSpace(item), ":")
		if len(parts) != 2 {
			return nil, fmt.Errorf("csv_cells: %q is not row:col", item)
		}
		row, err := strconv.Atoi(strings.TrimSpace(parts[0]))
		if err != nil {
			return nil, fmt.Errorf("csv_cells: %q: %w", item, err)
		}
		col, err := strconv.Atoi(strings.TrimSpace(parts[1]))
		if err != nil {
			return nil, fmt.Errorf("csv_cells: %q: %w", item, err)
		}
		cells = append(cells, model.Coordinate{Row: row, Col: col})
	}
	return cells, nil
}

func (cfg Config) Validate() error {
	verr := &model.ValidationError{}
	if !(cfg.Timestep > 0) || math.IsInf(cfg.Timestep, 0) {
		verr.Add(fmt.Errorf("timestep must be positive and finite, got %v", cfg.Timestep))
	}
	if cfg.Ticks < 0 {
		verr.Add(fmt.Errorf("ticks must not be negative, got %d", cfg.Ticks))
	}
	if cfg.Workers < 1 {
		verr.Add(fmt.Errorf("workers must be at least 1, got %d", cfg.Workers))
	}
	if cfg.ReportEvery < 0 {
		verr.Add(fmt.Errorf("report_every must not be negative, got %d", cfg.ReportEvery))
	}
	if !(cfg.Physics.ConvectionDamping > 0) {
		verr.Add(fmt.Errorf("convection_damping must be positive, got %v", cfg.Physics.ConvectionDamping))
	}
	if cfg.Physics.HeaterPower < 0 {
		verr.Add(fmt.Errorf("heater_power must not be negative, got %v", cfg.Physics.HeaterPower))
	}
	if cfg.Sanity.Enabled && !(cfg.Sanity.Min < cfg.Sanity.Max) {
		verr.Add(fmt.Errorf("sanity range [%v, %v] is empty", cfg.Sanity.Min, cfg.Sanity.Max))
	}
	if _, err := NewSchedule(cfg.Schedule); err != nil {
		verr.Add(err)
	}
	if _, err := log.ParseLevel(cfg.Log.Level); err != nil {
		verr.Add(err)
	}
	return verr.Err()
}

// Apply 设置 logrus 的级别和输出格式
func (c LogConfig) Apply() error {
	level, err := log.ParseLevel(c.Level)
	if err != nil {
		return err
	}
	log.SetLevel(level)
	if c.JSON {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
	return nil
}
