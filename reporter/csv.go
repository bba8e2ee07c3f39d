package reporter

import (
	"encoding/csv"
	"fmt"
	"strconv"

	billy "gopkg.in/src-d/go-billy.v4"

	"housetemp/grid"
	"housetemp/model"
)

// CSV 每次输出写一行：迭代次数、模拟时间和采样点温度
type CSV struct {
	file     billy.File
	w        *csv.Writer
	cells    []model.Coordinate
	timestep float64
	record   []string
}

func NewCSV(fs billy.Filesystem, name string, cells []model.Coordinate, timestep float64) (*CSV, error) {
	if len(cells) == 0 {
		return nil, fmt.Errorf("csv %s: no cells to sample", name)
	}
	file, err := fs.Create(name)
	if err != nil {
		return nil, fmt.Errorf("csv %s: %w", name, err)
	}
	c := &CSV{
		file:     file,
		w:        csv.NewWriter(file),
		cells:    cells,
		timestep: timestep,
		record:   make([]string, len(cells)+2),
	}

	header := make([]string, 0, len(cells)+2)
	header = append(header, "tick", "time_s")
	for _, co := range cells {
		header = append(header, co.String())
	}
	if err := c.w.Write(header); err != nil {
		file.Close()
		return nil, err
	}
	return c, nil
}

func (c *CSV) Report(tick int, g *grid.Grid) error {
	c.record[0] = strconv.Itoa(tick)
	c.record[1] = strconv.FormatFloat(float64(tick)*c.timestep, 'f', -1, 64)
	for i, co := range c.cells {
		cell := g.At(co)
		if cell == nil {
			return fmt.Errorf("csv: cell %v: %w", co, grid.ErrOutOfBounds)
		}
		c.record[i+2] = strconv.FormatFloat(cell.Temperature, 'f', 6, 64)
	}
	return c.w.Write(c.record)
}

func (c *CSV) Close() error {
	c.w.Flush()
	if err := c.w.Error(); err != nil {
		c.file.Close()
		return err
	}
	return c.file.Close()
}
