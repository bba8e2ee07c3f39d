package model

import (
	"fmt"
	"strings"
)

// 材料种类，决定每个单元使用的更新规则
type Kind uint8

const (
	OutsideAir        Kind = iota // 室外空气，固定温度
	InsideAir                     // 室内空气
	Wall                          // 墙体（可带保温层）
	Window                        // 窗
	Door                          // 门
	Radiator                      // 散热器，固定温度，向相邻室内空气放热
	InnerInsulation               // 内保温层
	OutdoorInsulation             // 外保温层

	kindCount
)

var kindNames = [kindCount]string{
	OutsideAir:        "outside air",
	InsideAir:         "inside air",
	Wall:              "wall",
	Window:            "window",
	Door:              "door",
	Radiator:          "radiator",
	InnerInsulation:   "inner insulation",
	OutdoorInsulation: "outdoor insulation",
}

// Kinds lists every material kind in declaration order.
func Kinds() []Kind {
	kinds := make([]Kind, 0, kindCount)
	for k := Kind(0); k < kindCount; k++ {
		kinds = append(kinds, k)
	}
	return kinds
}

func (k Kind) Valid() bool {
	return k < kindCount
}

func (k Kind) String() string {
	if !k.Valid() {
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
	return kindNames[k]
}

// IsAir 空气类单元参与对流混合
func (k Kind) IsAir() bool {
	return k == InsideAir || k == OutsideAir
}

func (k Kind) IsInsulation() bool {
	return k == InnerInsulation || k == OutdoorInsulation
}

// IsFixed 温度在计算中保持不变（室外空气可由外部温度曲线驱动）
func (k Kind) IsFixed() bool {
	return k == OutsideAir || k == Radiator
}

func ParseKind(s string) (Kind, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for k, n := range kindNames {
		if n == name {
			return Kind(k), nil
		}
	}
	return 0, fmt.Errorf("unknown material kind %q", s)
}

func (k Kind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("invalid material kind %d", uint8(k))
	}
	return []byte(k.String()), nil
}

func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// 网格坐标
type Coordinate struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func (c Coordinate) String() string {
	return fmt.Sprintf("(%d,%d)", c.Row, c.Col)
}

// 保温层参数，导热系数和厚度必须成对出现
type Insulation struct {
	OutsideLambda    float64 `json:"outside_lambda"`
	OutsideThickness float64 `json:"outside_thickness"`
	InsideLambda     float64 `json:"inside_lambda"`
	InsideThickness  float64 `json:"inside_thickness"`
}

func (i *Insulation) HasOutside() bool {
	return i != nil && i.OutsideLambda > 0 && i.OutsideThickness > 0
}

func (i *Insulation) HasInside() bool {
	return i != nil && i.InsideLambda > 0 && i.InsideThickness > 0
}

// 物性参数
type Material struct {
	Name                   string      `json:"name"`
	Kind                   Kind        `json:"kind"`
	Temperature            float64     `json:"temperature"`              // 初始温度 ℃
	VolumetricHeatCapacity float64     `json:"volumetric_heat_capacity"` // J.K-1.m-3
	Lambda                 float64     `json:"lambda"`                   // 导热系数 W.K-1.m-1
	Surface                float64     `json:"surface"`                  // m2
	Thickness              float64     `json:"thickness"`                // m
	Insulation             *Insulation `json:"insulation,omitempty"`
	HeatRate               float64     `json:"heat_rate,omitempty"` // 散热器功率 W
}

// HeatCapacity 单元热容 J/K = 体积热容 * 面积 * 厚度
func (m *Material) HeatCapacity() float64 {
	return m.VolumetricHeatCapacity * m.Surface * m.Thickness
}

// Resistance 单元自身热阻 R = e / (lambda * S)
func (m *Material) Resistance() float64 {
	return m.Thickness / (m.Lambda * m.Surface)
}

// 单元，只有温度在计算中会改变
type Cell struct {
	Temperature float64
	Coordinate  Coordinate
	Material    *Material
}

func (c *Cell) Kind() Kind {
	return c.Material.Kind
}

// 矩形区域，包含两个角点
type Rect struct {
	From Coordinate `json:"from"`
	To   Coordinate `json:"to"`
}

func NewRect(r0, c0, r1, c1 int) Rect {
	return Rect{From: Coordinate{Row: r0, Col: c0}, To: Coordinate{Row: r1, Col: c1}}
}

// Canon 返回左上角在前的矩形
func (r Rect) Canon() Rect {
	if r.From.Row > r.To.Row {
		r.From.Row, r.To.Row = r.To.Row, r.From.Row
	}
	if r.From.Col > r.To.Col {
		r.From.Col, r.To.Col = r.To.Col, r.From.Col
	}
	return r
}

func (r Rect) Contains(c Coordinate) bool {
	r = r.Canon()
	return c.Row >= r.From.Row && c.Row <= r.To.Row && c.Col >= r.From.Col && c.Col <= r.To.Col
}

func (r Rect) String() string {
	return fmt.Sprintf("%v-%v", r.From, r.To)
}

// 区域：一种材料 + 若干矩形，按顺序叠加，后面的覆盖前面的
type Region struct {
	Name     string `json:"name,omitempty"`
	Material string `json:"material"`
	Rects    []Rect `json:"rects"`
}

// 前后端通信消息结构
type Msg struct {
	Type    string `json:"type"`
	Content string `json:"content"`
}

// 前端下发的仿真参数
type Env struct {
	Layout           string  `json:"layout"`
	Timestep         float64 `json:"timestep"`
	Ticks            int     `json:"ticks"`
	ReportEvery      int     `json:"report_every"`
	ComfortThreshold float64 `json:"comfort_threshold"`
	HeaterPower      float64 `json:"heater_power"`
}

// 推送给前端的温度场快照
type Snapshot struct {
	Run          string      `json:"run"`
	Tick         int         `json:"tick"`
	Height       int         `json:"height"`
	Width        int         `json:"width"`
	Temperatures [][]float64 `json:"temperatures"`
	Kinds        [][]Kind    `json:"kinds"`
	Min          float64     `json:"min"`
	Max          float64     `json:"max"`
	Mean         float64     `json:"mean"`
}
