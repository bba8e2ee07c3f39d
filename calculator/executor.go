package calculator

import (
	"fmt"

	"golang.org/x/sync/errgroup"
)

// 按行划分的计算任务 [start, end)
type task struct {
	start int
	end   int
}

type executor interface {
	dispatchTask(rows int, f func(t task))
}

func newExecutor(workers int) executor {
	if workers <= 1 {
		return serialExecutor{}
	}
	return &rowExecutor{workers: workers}
}

// 在调用者的 goroutine 中直接计算
type serialExecutor struct{}

func (serialExecutor) dispatchTask(rows int, f func(t task)) {
	f(task{start: 0, end: rows})
}

// 每个 worker 分到两块行区间，同时运行的 goroutine 不超过 workers 个
type rowExecutor struct {
	workers int
}

func (e *rowExecutor) dispatchTask(rows int, f func(t task)) {
	size := rows / (e.workers * 2)
	if size < 1 {
		size = 1
	}

	var g errgroup.Group
	g.SetLimit(e.workers)
	for start := 0; start < rows; start += size {
		t := task{start: start, end: min(start+size, rows)}
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					if re, ok := r.(error); ok {
						err = fmt.Errorf("rows [%d,%d): %w", t.start, t.end, re)
						return
					}
					err = fmt.Errorf("rows [%d,%d): %v", t.start, t.end, r)
				}
			}()
			f(t)
			return nil
		})
	}
	// worker 中的 panic 交给调用者
	if err := g.Wait(); err != nil {
		panic(err)
	}
}
