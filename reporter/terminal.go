package reporter

import (
	"bufio"
	"fmt"
	"io"

	"housetemp/grid"
	"housetemp/model"
)

// 每种材料的 ANSI 背景色
var colors = map[model.Kind]string{
	model.OutsideAir:        "\x1b[46m",
	model.InsideAir:         "\x1b[47m",
	model.Wall:              "\x1b[100m",
	model.Window:            "\x1b[44m",
	model.Door:              "\x1b[43m",
	model.Radiator:          "\x1b[41m",
	model.InnerInsulation:   "\x1b[42m",
	model.OutdoorInsulation: "\x1b[102m",
}

const reset = "\x1b[0m"

// Terminal 按材料着色打印温度场，每 every 次输出打印一次
type Terminal struct {
	w        io.Writer
	every    int
	timestep float64
}

func NewTerminal(w io.Writer, every int, timestep float64) *Terminal {
	if every < 1 {
		every = 1
	}
	return &Terminal{w: w, every: every, timestep: timestep}
}

func (t *Terminal) Report(tick int, g *grid.Grid) error {
	if tick%t.every != 0 {
		return nil
	}
	bw := bufio.NewWriter(t.w)
	fmt.Fprintf(bw, "tick %d (%.1f h)\n", tick, float64(tick)*t.timestep/3600)
	for row := 0; row < g.Height; row++ {
		for col := 0; col < g.Width; col++ {
			c := g.Get(row, col)
			fmt.Fprintf(bw, "%s%5.1f %s", colors[c.Kind()], c.Temperature, reset)
		}
		bw.WriteString("\n")
	}
	return bw.Flush()
}

func (t *Terminal) Close() error {
	return nil
}
