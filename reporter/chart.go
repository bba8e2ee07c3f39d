package reporter

import (
	"fmt"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
	billy "gopkg.in/src-d/go-billy.v4"

	"housetemp/grid"
	"housetemp/model"
)

var palette = []drawing.Color{
	chart.ColorRed,
	chart.ColorBlue,
	chart.ColorGreen,
	{R: 255, G: 165, B: 0, A: 255},
	{R: 128, G: 0, B: 128, A: 255},
	{R: 0, G: 128, B: 128, A: 255},
}

// Chart 记录采样点的温度曲线，Close 时输出 png
type Chart struct {
	fs       billy.Filesystem
	name     string
	cells    []model.Coordinate
	timestep float64

	hours  []float64
	series [][]float64
}

func NewChart(fs billy.Filesystem, name string, cells []model.Coordinate, timestep float64) (*Chart, error) {
	if len(cells) == 0 {
		return nil, fmt.Errorf("chart %s: no cells to sample", name)
	}
	return &Chart{
		fs:       fs,
		name:     name,
		cells:    cells,
		timestep: timestep,
		series:   make([][]float64, len(cells)),
	}, nil
}

func (c *Chart) Report(tick int, g *grid.Grid) error {
	for i, co := range c.cells {
		cell := g.At(co)
		if cell == nil {
			return fmt.Errorf("chart: cell %v: %w", co, grid.ErrOutOfBounds)
		}
		c.series[i] = append(c.series[i], cell.Temperature)
	}
	c.hours = append(c.hours, float64(tick)*c.timestep/3600)
	return nil
}

func (c *Chart) build() chart.Chart {
	series := make([]chart.Series, 0, len(c.cells))
	for i, co := range c.cells {
		series = append(series, chart.ContinuousSeries{
			Name:    co.String(),
			XValues: c.hours,
			YValues: c.series[i],
			Style:   chart.Style{StrokeColor: palette[i%len(palette)], StrokeWidth: 2},
		})
	}
	graph := chart.Chart{
		Width:  1024,
		Height: 480,
		XAxis: chart.XAxis{
			Name:  "time (h)",
			Style: chart.Style{FontSize: 10},
			ValueFormatter: func(v interface{}) string {
				return fmt.Sprintf("%.1f", v.(float64))
			},
		},
		YAxis: chart.YAxis{
			Name:  "temperature (°C)",
			Style: chart.Style{FontSize: 10},
		},
		Series: series,
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}
	return graph
}

// Close 至少需要两个点才能画线，否则不输出
func (c *Chart) Close() error {
	if len(c.hours) < 2 {
		return nil
	}
	f, err := c.fs.Create(c.name)
	if err != nil {
		return fmt.Errorf("chart %s: %w", c.name, err)
	}
	graph := c.build()
	if err := graph.Render(chart.PNG, f); err != nil {
		f.Close()
		return fmt.Errorf("render chart %s: %w", c.name, err)
	}
	return f.Close()
}
