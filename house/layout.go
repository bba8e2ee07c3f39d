package house

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	log "github.com/sirupsen/logrus"

	"housetemp/material"
	"housetemp/model"
)

// Layout 房屋剖面的区域描述：网格尺寸 + 有序的区域列表
type Layout struct {
	Name    string         `json:"name"`
	Height  int            `json:"height"`
	Width   int            `json:"width"`
	Regions []model.Region `json:"regions"`
	// Probe 默认采样点（写入 csv 的单元）
	Probes []model.Coordinate `json:"probes,omitempty"`
}

// Materials 布局中引用到的材料名（去重，排序）
func (l *Layout) Materials() []string {
	seen := make(map[string]struct{})
	for _, r := range l.Regions {
		seen[r.Material] = struct{}{}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Region 按名字查找区域
func (l *Layout) Region(name string) (model.Region, bool) {
	for _, r := range l.Regions {
		if r.Name == name {
			return r, true
		}
	}
	return model.Region{}, false
}

func LoadJSON(r io.Reader) (*Layout, error) {
	var l Layout
	if err := json.NewDecoder(r).Decode(&l); err != nil {
		return nil, fmt.Errorf("decode layout: %w", err)
	}
	if l.Height <= 0 || l.Width <= 0 {
		return nil, fmt.Errorf("layout %q: invalid size %dx%d", l.Name, l.Height, l.Width)
	}
	log.WithFields(log.Fields{
		"layout":  l.Name,
		"height":  l.Height,
		"width":   l.Width,
		"regions": len(l.Regions),
	}).Info("房屋布局加载完成")
	return &l, nil
}

func LoadFile(path string) (*Layout, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return LoadJSON(f)
}

// Load 以 .json 结尾时按文件读取，否则取内置布局
func Load(name string) (*Layout, error) {
	if strings.HasSuffix(name, ".json") {
		return LoadFile(name)
	}
	return Builtin(name)
}

var builtins = map[string]func() *Layout{
	"house":     House,
	"simple":    Simple,
	"insulated": Insulated,
}

// Builtin 获取内置布局
func Builtin(name string) (*Layout, error) {
	f, ok := builtins[name]
	if !ok {
		return nil, fmt.Errorf("no builtin layout %q", name)
	}
	return f(), nil
}

func BuiltinNames() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func region(name, materialName string, rects ...model.Rect) model.Region {
	return model.Region{Name: name, Material: materialName, Rects: rects}
}

var rect = model.NewRect

// Simple 3x5：两列室内空气，一列墙，两列室外空气
func Simple() *Layout {
	return &Layout{
		Name:   "simple",
		Height: 3,
		Width:  5,
		Regions: []model.Region{
			region("inside", material.InsideAir, rect(0, 0, 2, 1)),
			region("wall", material.ConcreteWall, rect(0, 2, 2, 2)),
			region("outside", material.OutsideAir, rect(0, 3, 2, 4)),
		},
		Probes: []model.Coordinate{{Row: 1, Col: 1}, {Row: 1, Col: 2}, {Row: 1, Col: 3}},
	}
}

// House 20x20 的住宅：保温外墙，客厅、卧室两道隔墙，门窗与门洞由后面的区域覆盖得到
func House() *Layout {
	return &Layout{
		Name:   "house",
		Height: 20,
		Width:  20,
		Regions: []model.Region{
			region("outside", material.OutsideAir,
				rect(0, 0, 1, 19), rect(0, 18, 19, 19), rect(18, 0, 19, 19), rect(0, 0, 19, 1)),
			region("outer walls", material.InsulatedWall,
				rect(2, 2, 2, 17), rect(2, 17, 17, 17), rect(17, 2, 17, 17), rect(2, 2, 17, 2)),
			region("rooms", material.InsideAir, rect(3, 3, 16, 16)),
			region("windows", material.Window, rect(2, 8, 2, 10), rect(9, 2, 14, 2)),
			region("front door", material.Door, rect(17, 11, 17, 11)),
			region("bedroom wall", material.ConcreteWall, rect(3, 13, 16, 13)),
			region("closet wall", material.PartitionWall, rect(7, 14, 7, 16)),
			region("bedroom windows", material.Window,
				rect(2, 15, 2, 15), rect(17, 15, 17, 15), rect(10, 17, 12, 17)),
			region("bedroom doors", material.Door, rect(5, 13, 5, 13), rect(8, 13, 8, 13)),
			region("living room wall", material.ConcreteWall, rect(3, 6, 16, 6)),
			region("living room doorway", material.InsideAir, rect(7, 6, 8, 6)),
			region("kitchen wall", material.PartitionWall, rect(11, 7, 11, 12)),
			region("kitchen doorway", material.InsideAir, rect(11, 9, 11, 10)),
			region("radiators", material.Radiator, rect(15, 4, 15, 4), rect(4, 15, 4, 15)),
		},
		Probes: []model.Coordinate{{Row: 4, Col: 3}, {Row: 9, Col: 9}, {Row: 5, Col: 15}},
	}
}

// Insulated 保温层示例：室外空气 | 外保温 | 墙 | 内保温 | 室内空气 + 散热器
func Insulated() *Layout {
	return &Layout{
		Name:   "insulated",
		Height: 7,
		Width:  9,
		Regions: []model.Region{
			region("outside", material.OutsideAir, rect(0, 0, 6, 8)),
			region("outdoor insulation", material.OutdoorInsulation, rect(1, 2, 5, 2)),
			region("wall", material.InsulatedWall, rect(1, 3, 5, 3)),
			region("inner insulation", material.InnerInsulation, rect(1, 4, 5, 4)),
			region("room", material.InsideAir, rect(1, 5, 5, 7)),
			region("radiator", material.Radiator, rect(3, 7, 3, 7)),
		},
		Probes: []model.Coordinate{{Row: 3, Col: 2}, {Row: 3, Col: 3}, {Row: 3, Col: 4}, {Row: 3, Col: 5}},
	}
}
