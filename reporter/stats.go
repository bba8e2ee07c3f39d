package reporter

import (
	log "github.com/sirupsen/logrus"

	"housetemp/calculator"
	"housetemp/grid"
)

type Summary struct {
	Tick           int
	Min, Max, Mean float64
}

// Stats 记录并打印内部单元温度的统计值
type Stats struct {
	logger  *log.Entry
	history []Summary
}

func NewStats(logger *log.Entry) *Stats {
	if logger == nil {
		logger = log.NewEntry(log.StandardLogger())
	}
	return &Stats{logger: logger}
}

func (s *Stats) Report(tick int, g *grid.Grid) error {
	lo, hi, mean := calculator.Summarize(g.InteriorTemperatures())
	sum := Summary{Tick: tick, Min: lo, Max: hi, Mean: mean}
	s.history = append(s.history, sum)
	s.logger.WithFields(log.Fields{
		"tick": tick,
		"min":  lo,
		"max":  hi,
		"mean": mean,
	}).Info("温度统计")
	return nil
}

func (s *Stats) History() []Summary {
	return s.history
}

func (s *Stats) Close() error {
	return nil
}
