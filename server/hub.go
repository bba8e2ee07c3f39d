package server

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"

	"housetemp/calculator"
	"housetemp/grid"
	"housetemp/house"
	"housetemp/material"
	"housetemp/model"
)

// 消息类型
const (
	typeEnv      = "env"
	typeStart    = "start"
	typeStop     = "stop"
	typeEnvSet   = "envSet"
	typeStarted  = "started"
	typeStopped  = "stopped"
	typeData     = "data"
	typeFinished = "finished"
	typeError    = "error"
)

// Hub 一个 websocket 连接对应一个 Hub，同一时间最多运行一个计算
type Hub struct {
	conn    *websocket.Conn
	cfg     calculator.Config
	catalog *material.Catalog
	logger  *log.Entry

	c        calculator.Calculator
	finished chan struct{} // 当前计算结束后关闭
	ctx      context.Context
	cancel   context.CancelFunc

	// request
	msg chan model.Msg
	// response，只有 handleResponse 写连接
	out chan model.Msg

	done    chan struct{}
	reqDone chan struct{}
}

func NewHub(conn *websocket.Conn, cfg calculator.Config, catalog *material.Catalog) *Hub {
	ctx, cancel := context.WithCancel(context.Background())
	return &Hub{
		conn:    conn,
		cfg:     cfg,
		catalog: catalog,
		logger:  log.WithField("session", uuid.NewString()),
		ctx:     ctx,
		cancel:  cancel,
		msg:     make(chan model.Msg, 10),
		out:     make(chan model.Msg, 10),
		done:    make(chan struct{}),
		reqDone: make(chan struct{}),
	}
}

func (h *Hub) serve() {
	defer h.conn.Close()
	h.logger.Info("连接建立")
	go h.handleResponse()
	go h.handleRequest()

	for {
		var msg model.Msg
		if err := h.conn.ReadJSON(&msg); err != nil {
			h.logger.WithError(err).Debug("读取消息结束")
			break
		}
		select {
		case h.msg <- msg:
		case <-h.reqDone:
		}
	}
	close(h.done)
	<-h.reqDone
	h.logger.Info("连接关闭")
}

func (h *Hub) send(msg model.Msg) {
	select {
	case h.out <- msg:
	case <-h.done:
	}
}

func (h *Hub) sendError(err error) {
	h.logger.WithError(err).Warn("请求处理失败")
	h.send(model.Msg{Type: typeError, Content: err.Error()})
}

func (h *Hub) handleResponse() {
	for {
		select {
		case reply := <-h.out:
			if err := h.conn.WriteJSON(&reply); err != nil {
				h.logger.WithError(err).Warn("发送消息失败")
			}
		case <-h.done:
			return
		}
	}
}

func (h *Hub) handleRequest() {
	defer close(h.reqDone)
	defer h.cancel()
	defer h.stopRun()
	for {
		select {
		case msg := <-h.msg:
			switch msg.Type {
			case typeEnv:
				h.setEnv(msg.Content)
			case typeStart:
				h.start()
			case typeStop:
				h.stopRun()
				h.send(model.Msg{Type: typeStopped, Content: "stopped"})
			default:
				h.sendError(fmt.Errorf("no such type %q", msg.Type))
			}
		case <-h.done:
			return
		}
	}
}

func (h *Hub) running() bool {
	if h.finished == nil {
		return false
	}
	select {
	case <-h.finished:
		return false
	default:
		return true
	}
}

// setEnv 覆盖本次连接的计算参数，零值表示沿用配置文件
func (h *Hub) setEnv(content string) {
	if h.running() {
		h.sendError(fmt.Errorf("cannot change env while running"))
		return
	}
	var env model.Env
	if err := json.Unmarshal([]byte(content), &env); err != nil {
		h.sendError(fmt.Errorf("decode env: %w", err))
		return
	}
	cfg := h.cfg
	if env.Layout != "" {
		cfg.Layout = env.Layout
	}
	if env.Timestep != 0 {
		cfg.Timestep = env.Timestep
	}
	if env.Ticks != 0 {
		cfg.Ticks = env.Ticks
	}
	if env.ReportEvery != 0 {
		cfg.ReportEvery = env.ReportEvery
	}
	if env.ComfortThreshold != 0 {
		cfg.Physics.ComfortThreshold = env.ComfortThreshold
	}
	if env.HeaterPower != 0 {
		cfg.Physics.HeaterPower = env.HeaterPower
	}
	if err := cfg.Validate(); err != nil {
		h.sendError(err)
		return
	}
	// 先生成一次网格，布局或边界有问题时在这里就报错
	if _, err := h.build(cfg); err != nil {
		h.sendError(err)
		return
	}
	h.cfg = cfg
	h.logger.WithFields(log.Fields{
		"layout":   cfg.Layout,
		"timestep": cfg.Timestep,
		"ticks":    cfg.Ticks,
	}).Info("参数已设置")
	h.send(model.Msg{Type: typeEnvSet, Content: "env is set"})
}

func (h *Hub) start() {
	if h.running() {
		h.sendError(fmt.Errorf("calculation %s is already running", h.c.RunID()))
		return
	}
	g, err := h.build(h.cfg)
	if err != nil {
		h.sendError(err)
		return
	}
	schedule, err := calculator.NewSchedule(h.cfg.Schedule)
	if err != nil {
		h.sendError(err)
		return
	}

	c := calculator.NewCalculator(g, h.cfg, calculator.WithOutdoorSchedule(schedule))
	h.c = c
	h.finished = make(chan struct{})
	h.send(model.Msg{Type: typeStarted, Content: c.RunID()})
	go h.run(c, h.finished)
}

// build 按配置加载布局（内置名或 json 文件）并生成网格
func (h *Hub) build(cfg calculator.Config) (*grid.Grid, error) {
	l, err := house.Load(cfg.Layout)
	if err != nil {
		return nil, err
	}
	var opts []grid.Option
	if cfg.StrictBorder {
		opts = append(opts, grid.WithStrictBorder())
	}
	return grid.FromLayout(l, h.catalog, opts...)
}

func (h *Hub) stopRun() {
	if !h.running() {
		return
	}
	h.c.GetCalcHub().StopSignal()
	<-h.finished
}

func (h *Hub) run(c calculator.Calculator, finished chan struct{}) {
	defer close(finished)

	stopPush := make(chan struct{})
	pushDone := make(chan struct{})
	go func() {
		defer close(pushDone)
		h.push(c, stopPush)
	}()

	err := c.Run(h.ctx)
	close(stopPush)
	<-pushDone

	h.sendData(c.BuildData())
	if err != nil {
		h.sendError(err)
	}
	h.send(model.Msg{Type: typeFinished, Content: c.RunID()})
}

// push 收到计算器的推送信号后发送当前温度场
func (h *Hub) push(c calculator.Calculator, stop <-chan struct{}) {
	for {
		select {
		case <-c.GetCalcHub().PeriodCalcResult:
			h.sendData(c.BuildData())
		case <-stop:
			return
		}
	}
}

func (h *Hub) sendData(s model.Snapshot) {
	data, err := json.Marshal(s)
	if err != nil {
		h.sendError(err)
		return
	}
	h.send(model.Msg{Type: typeData, Content: string(data)})
}
