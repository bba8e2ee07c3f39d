package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
	"gopkg.in/src-d/go-billy.v4/osfs"

	"housetemp/calculator"
	"housetemp/grid"
	"housetemp/house"
	"housetemp/material"
	"housetemp/reporter"
	"housetemp/server"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

func main() {
	configPath := flag.String("config", "conf/config.ini", "ini 配置文件路径")
	mode := flag.String("mode", "run", "run: 命令行计算; serve: websocket 服务")
	flag.Parse()

	cfg, err := calculator.LoadConfig(*configPath)
	if err != nil {
		log.WithError(err).Fatal("配置错误")
	}
	if err := cfg.Log.Apply(); err != nil {
		log.WithError(err).Fatal("日志配置错误")
	}

	catalog, err := loadCatalog(cfg.Catalog)
	if err != nil {
		log.WithError(err).Fatal("材料目录错误")
	}

	switch *mode {
	case "run":
		if err := run(cfg, catalog); err != nil {
			log.WithError(err).Fatal("计算失败")
		}
	case "serve":
		upgrader.CheckOrigin = func(r *http.Request) bool {
			return true
		}
		if err := serve(cfg, catalog); err != nil {
			log.WithError(err).Fatal("服务退出")
		}
	default:
		log.Fatalf("unknown mode %q", *mode)
	}
}

func loadCatalog(path string) (*material.Catalog, error) {
	if path == "" {
		return material.Default(), nil
	}
	return material.LoadFile(path)
}

func run(cfg calculator.Config, catalog *material.Catalog) error {
	l, err := house.Load(cfg.Layout)
	if err != nil {
		return err
	}
	var opts []grid.Option
	if cfg.StrictBorder {
		opts = append(opts, grid.WithStrictBorder())
	}
	g, err := grid.FromLayout(l, catalog, opts...)
	if err != nil {
		return err
	}
	schedule, err := calculator.NewSchedule(cfg.Schedule)
	if err != nil {
		return err
	}

	out, err := newReporter(cfg, l)
	if err != nil {
		return err
	}
	c := calculator.NewCalculator(g, cfg,
		calculator.WithOutdoorSchedule(schedule),
		calculator.WithReport(out.Report),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	runErr := c.Run(ctx)
	if err := out.Close(); err != nil && runErr == nil {
		runErr = err
	}
	return runErr
}

func newReporter(cfg calculator.Config, l *house.Layout) (reporter.Reporter, error) {
	cells := cfg.Report.CSVCells
	if len(cells) == 0 {
		cells = l.Probes
	}
	fs := osfs.New(cfg.Report.Dir)
	rs := []reporter.Reporter{reporter.NewStats(log.WithField("layout", l.Name))}

	if cfg.Report.CSV != "" {
		c, err := reporter.NewCSV(fs, cfg.Report.CSV, cells, cfg.Timestep)
		if err != nil {
			return nil, err
		}
		rs = append(rs, c)
	}
	if cfg.Report.Chart != "" {
		c, err := reporter.NewChart(fs, cfg.Report.Chart, cells, cfg.Timestep)
		if err != nil {
			return nil, err
		}
		rs = append(rs, c)
	}
	if cfg.Report.Terminal {
		every := cfg.Report.TerminalEvery
		if every < 1 {
			every = 1
		}
		rs = append(rs, reporter.NewTerminal(os.Stdout, every, cfg.Timestep))
	}
	return reporter.Multi(rs...), nil
}

func serve(cfg calculator.Config, catalog *material.Catalog) error {
	s := server.NewServer(cfg.Server.Addr, upgrader, cfg, catalog)
	return s.Serve()
}
