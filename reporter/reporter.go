package reporter

import (
	"errors"

	"housetemp/grid"
)

// Reporter 接收两次迭代之间的温度场，不能保留 g
type Reporter interface {
	Report(tick int, g *grid.Grid) error
	Close() error
}

type multi []Reporter

// Multi 依次调用每个 Reporter
func Multi(rs ...Reporter) Reporter {
	return multi(rs)
}

func (m multi) Report(tick int, g *grid.Grid) error {
	for _, r := range m {
		if err := r.Report(tick, g); err != nil {
			return err
		}
	}
	return nil
}

func (m multi) Close() error {
	var errs []error
	for _, r := range m {
		errs = append(errs, r.Close())
	}
	return errors.Join(errs...)
}
