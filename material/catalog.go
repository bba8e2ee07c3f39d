package material

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	log "github.com/sirupsen/logrus"

	"housetemp/model"
)

var (
	ErrUnknownMaterial    = errors.New("unknown material")
	ErrDuplicateMaterial  = errors.New("duplicate material")
	ErrDegenerateMaterial = errors.New("degenerate material")
)

// Catalog 材料名称 -> 物性参数，仿真开始前确定，运行期间只读
type Catalog struct {
	Name      string
	materials map[string]*model.Material
	order     []string
}

func NewCatalog(name string) *Catalog {
	return &Catalog{
		Name:      name,
		materials: make(map[string]*model.Material),
	}
}

// Add 拷贝一份材料参数加入目录
func (c *Catalog) Add(m model.Material) error {
	if _, ok := c.materials[m.Name]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateMaterial, m.Name)
	}
	if m.Insulation != nil {
		ins := *m.Insulation
		m.Insulation = &ins
	}
	c.materials[m.Name] = &m
	c.order = append(c.order, m.Name)
	return nil
}

func (c *Catalog) MustAdd(materials ...model.Material) *Catalog {
	for _, m := range materials {
		if err := c.Add(m); err != nil {
			panic(err)
		}
	}
	return c
}

func (c *Catalog) Get(name string) (*model.Material, bool) {
	m, ok := c.materials[name]
	return m, ok
}

// Lookup is Get with an ErrUnknownMaterial error.
func (c *Catalog) Lookup(name string) (*model.Material, error) {
	m, ok := c.materials[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownMaterial, name)
	}
	return m, nil
}

// Names 按加入顺序返回材料名
func (c *Catalog) Names() []string {
	names := make([]string, len(c.order))
	copy(names, c.order)
	return names
}

func (c *Catalog) Len() int {
	return len(c.order)
}

// Validate 检查每种材料参数是否完整且与其种类一致
func (c *Catalog) Validate() error {
	verr := &model.ValidationError{}
	for _, name := range c.order {
		verr.Add(Validate(c.materials[name]))
	}
	return verr.Err()
}

// MaxStableTimestep 显式格式的稳定时间步长上限：min(R*C) / 4。
// 固定温度的材料不参与计算。
func (c *Catalog) MaxStableTimestep() float64 {
	limit := math.Inf(1)
	for _, name := range c.order {
		m := c.materials[name]
		if m.Kind.IsFixed() {
			continue
		}
		rc := m.Resistance() * m.HeatCapacity()
		if m.Insulation.HasInside() {
			rc = math.Min(rc, m.Insulation.InsideThickness/(m.Insulation.InsideLambda*m.Surface)*m.HeatCapacity())
		}
		if m.Insulation.HasOutside() {
			rc = math.Min(rc, m.Insulation.OutsideThickness/(m.Insulation.OutsideLambda*m.Surface)*m.HeatCapacity())
		}
		if rc/4 < limit {
			limit = rc / 4
		}
	}
	return limit
}

func degenerate(m *model.Material, format string, args ...interface{}) error {
	return fmt.Errorf("%w: %q (%s): %s", ErrDegenerateMaterial, m.Name, m.Kind, fmt.Sprintf(format, args...))
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Validate 单个材料的校验
func Validate(m *model.Material) error {
	verr := &model.ValidationError{}
	if m.Name == "" {
		verr.Add(fmt.Errorf("%w: material name is required", ErrDegenerateMaterial))
	}
	if !m.Kind.Valid() {
		verr.Add(degenerate(m, "invalid kind"))
		return verr.Err()
	}

	fields := []struct {
		name  string
		value float64
	}{
		{"volumetric_heat_capacity", m.VolumetricHeatCapacity},
		{"lambda", m.Lambda},
		{"surface", m.Surface},
		{"thickness", m.Thickness},
	}
	if !finite(m.Temperature) {
		verr.Add(degenerate(m, "temperature is not finite"))
	}
	for _, f := range fields {
		switch {
		case !finite(f.value):
			verr.Add(degenerate(m, "%s is not finite", f.name))
		case f.value < 0:
			verr.Add(degenerate(m, "%s is negative", f.name))
		case f.value == 0 && !m.Kind.IsFixed():
			// 参与计算的单元：热阻和热容的分母不能为零
			verr.Add(degenerate(m, "%s must be positive", f.name))
		}
	}

	if m.Insulation != nil {
		ins := m.Insulation
		if m.Kind != model.Wall {
			verr.Add(degenerate(m, "only walls carry insulation layers"))
		}
		for _, v := range []float64{ins.OutsideLambda, ins.OutsideThickness, ins.InsideLambda, ins.InsideThickness} {
			if !finite(v) || v < 0 {
				verr.Add(degenerate(m, "insulation values must be finite and non-negative"))
				break
			}
		}
		if (ins.OutsideLambda > 0) != (ins.OutsideThickness > 0) {
			verr.Add(degenerate(m, "outside insulation needs both lambda and thickness"))
		}
		if (ins.InsideLambda > 0) != (ins.InsideThickness > 0) {
			verr.Add(degenerate(m, "inside insulation needs both lambda and thickness"))
		}
		if !ins.HasInside() && !ins.HasOutside() {
			verr.Add(degenerate(m, "insulation declared without any layer"))
		}
	}

	switch {
	case m.Kind == model.Radiator && !(m.HeatRate > 0 && finite(m.HeatRate)):
		verr.Add(degenerate(m, "radiator needs a positive heat_rate"))
	case m.Kind != model.Radiator && m.HeatRate != 0:
		verr.Add(degenerate(m, "heat_rate is only meaningful for radiators"))
	}
	return verr.Err()
}

type catalogFile struct {
	Name      string           `json:"name"`
	Materials []model.Material `json:"materials"`
}

// LoadJSON 从 json 读取材料目录并校验
func LoadJSON(r io.Reader) (*Catalog, error) {
	var file catalogFile
	if err := json.NewDecoder(r).Decode(&file); err != nil {
		return nil, fmt.Errorf("decode material catalog: %w", err)
	}
	c := NewCatalog(file.Name)
	verr := &model.ValidationError{}
	for _, m := range file.Materials {
		verr.Add(c.Add(m))
	}
	verr.Add(c.Validate())
	if err := verr.Err(); err != nil {
		return nil, err
	}
	log.WithFields(log.Fields{
		"catalog":   c.Name,
		"materials": c.Len(),
	}).Info("材料目录加载完成")
	return c, nil
}

func LoadFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return LoadJSON(f)
}

// MarshalJSON writes the catalog in the same shape LoadJSON reads.
func (c *Catalog) MarshalJSON() ([]byte, error) {
	file := catalogFile{Name: c.Name, Materials: make([]model.Material, 0, len(c.order))}
	for _, name := range c.order {
		file.Materials = append(file.Materials, *c.materials[name])
	}
	return json.Marshal(file)
}
