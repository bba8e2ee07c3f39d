package grid

import (
	"errors"
	"fmt"

	"housetemp/model"
)

var ErrOutOfBounds = errors.New("coordinate out of grid bounds")

// 四个方向的邻居
type Direction uint8

const (
	Up Direction = iota
	Down
	Left
	Right
)

var Directions = [4]Direction{Up, Down, Left, Right}

var offsets = [4][2]int{
	Up:    {-1, 0},
	Down:  {1, 0},
	Left:  {0, -1},
	Right: {0, 1},
}

func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	case Left:
		return "left"
	case Right:
		return "right"
	}
	return fmt.Sprintf("Direction(%d)", uint8(d))
}

// Move 返回该方向上的相邻坐标（不做边界检查）
func (d Direction) Move(co model.Coordinate) model.Coordinate {
	off := offsets[d]
	return model.Coordinate{Row: co.Row + off[0], Col: co.Col + off[1]}
}

// Grid 按行存储的二维单元数组
type Grid struct {
	Height int
	Width  int
	cells  []model.Cell
}

// New 分配一个空网格，单元需要由 Materialize 填充
func New(height, width int) *Grid {
	return &Grid{
		Height: height,
		Width:  width,
		cells:  make([]model.Cell, height*width),
	}
}

func (g *Grid) InBounds(co model.Coordinate) bool {
	return co.Row >= 0 && co.Row < g.Height && co.Col >= 0 && co.Col < g.Width
}

func (g *Grid) index(co model.Coordinate) int {
	return co.Row*g.Width + co.Col
}

// At 返回坐标处的单元，越界时返回 nil
func (g *Grid) At(co model.Coordinate) *model.Cell {
	if !g.InBounds(co) {
		return nil
	}
	return &g.cells[g.index(co)]
}

func (g *Grid) Get(row, col int) *model.Cell {
	return g.At(model.Coordinate{Row: row, Col: col})
}

// Temperature 读取温度；越界 panic
func (g *Grid) Temperature(row, col int) float64 {
	c := g.Get(row, col)
	if c == nil {
		panic(fmt.Errorf("%w: (%d,%d) in %dx%d grid", ErrOutOfBounds, row, col, g.Height, g.Width))
	}
	return c.Temperature
}

// Cells 暴露底层切片（行优先）
func (g *Grid) Cells() []model.Cell {
	return g.cells
}

// Neighbor 取某方向的邻居，集中做边界检查，不存在时 ok 为 false（不环绕）
func (g *Grid) Neighbor(co model.Coordinate, d Direction) (*model.Cell, bool) {
	n := d.Move(co)
	if !g.InBounds(n) {
		return nil, false
	}
	return &g.cells[g.index(n)], true
}

// IsEdge 网格四条边上的单元是固定边界
func (g *Grid) IsEdge(co model.Coordinate) bool {
	return co.Row == 0 || co.Col == 0 || co.Row == g.Height-1 || co.Col == g.Width-1
}

// Traverse 正向遍历所有单元
func (g *Grid) Traverse(f func(c *model.Cell)) {
	for i := range g.cells {
		f(&g.cells[i])
	}
}

// TraverseRows 遍历 [start, end) 行
func (g *Grid) TraverseRows(start, end int, f func(c *model.Cell)) {
	if start < 0 {
		start = 0
	}
	if end > g.Height {
		end = g.Height
	}
	for i := start * g.Width; i < end*g.Width; i++ {
		f(&g.cells[i])
	}
}

// Edge 遍历边界单元
func (g *Grid) Edge(f func(c *model.Cell)) {
	for i := range g.cells {
		if g.IsEdge(model.Coordinate{Row: i / g.Width, Col: i % g.Width}) {
			f(&g.cells[i])
		}
	}
}

// Clone 拷贝单元（材料参数只读，共享指针）
func (g *Grid) Clone() *Grid {
	next := &Grid{Height: g.Height, Width: g.Width, cells: make([]model.Cell, len(g.cells))}
	copy(next.cells, g.cells)
	return next
}

// CopyFrom 把 src 的全部单元复制到 g，尺寸必须一致
func (g *Grid) CopyFrom(src *Grid) {
	if g.Height != src.Height || g.Width != src.Width {
		panic(fmt.Sprintf("grid size mismatch: %dx%d vs %dx%d", g.Height, g.Width, src.Height, src.Width))
	}
	copy(g.cells, src.cells)
}

// Temperatures 温度矩阵
func (g *Grid) Temperatures() [][]float64 {
	out := make([][]float64, g.Height)
	for r := 0; r < g.Height; r++ {
		row := make([]float64, g.Width)
		for c := 0; c < g.Width; c++ {
			row[c] = g.cells[r*g.Width+c].Temperature
		}
		out[r] = row
	}
	return out
}

// Kinds 材料种类矩阵
func (g *Grid) Kinds() [][]model.Kind {
	out := make([][]model.Kind, g.Height)
	for r := 0; r < g.Height; r++ {
		row := make([]model.Kind, g.Width)
		for c := 0; c < g.Width; c++ {
			row[c] = g.cells[r*g.Width+c].Kind()
		}
		out[r] = row
	}
	return out
}

// InteriorTemperatures 非边界单元的温度，按行优先
func (g *Grid) InteriorTemperatures() []float64 {
	if g.Height < 3 || g.Width < 3 {
		return nil
	}
	out := make([]float64, 0, (g.Height-2)*(g.Width-2))
	for r := 1; r < g.Height-1; r++ {
		for c := 1; c < g.Width-1; c++ {
			out = append(out, g.cells[r*g.Width+c].Temperature)
		}
	}
	return out
}
