package calculator

import "sync"

type CalcHub struct {
	mu      sync.Mutex
	stop    chan struct{}
	stopped bool

	// 温度场推送
	PeriodCalcResult chan struct{}
}

func NewCalcHub() *CalcHub {
	ch := &CalcHub{
		PeriodCalcResult: make(chan struct{}, 1),
	}
	ch.StartSignal()
	return ch
}

// PushSignal 通知有新的结果可以推送，前一个信号还未被取走时合并
func (ch *CalcHub) PushSignal() {
	select {
	case ch.PeriodCalcResult <- struct{}{}:
	default:
	}
}

// StopSignal 可以重复调用
func (ch *CalcHub) StopSignal() {
	ch.mu.Lock()
	defer ch.mu.Unlock()
	if !ch.stopped {
		close(ch.stop)
		ch.stopped = true
	}
}

func (ch *CalcHub) StartSignal() {
	ch.mu.Lock()
	defer ch.mu.Unlock()
	ch.stop = make(chan struct{})
	ch.stopped = false
}

// Done 在 StopSignal 之后关闭
func (ch *CalcHub) Done() <-chan struct{} {
	ch.mu.Lock()
	defer ch.mu.Unlock()
	return ch.stop
}
