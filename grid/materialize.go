package grid

import (
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"

	"housetemp/house"
	"housetemp/material"
	"housetemp/model"
)

var (
	ErrUncovered     = errors.New("grid position not covered by any region")
	ErrMissingBorder = errors.New("grid edge is not a boundary cell")
	ErrEmptyRegion   = errors.New("region without rectangles")
	ErrInvalidSize   = errors.New("invalid grid size")
)

type options struct {
	strictBorder bool
}

type Option func(*options)

// WithStrictBorder 要求四条边全部为室外空气
func WithStrictBorder() Option {
	return func(o *options) {
		o.strictBorder = true
	}
}

// Materialize 把区域列表按顺序写入网格，后面的区域覆盖前面的。
// 任何配置错误都会让整个构建失败，不返回部分初始化的网格。
func Materialize(height, width int, regions []model.Region, catalog *material.Catalog, opts ...Option) (*Grid, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if height <= 0 || width <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, height, width)
	}
	if catalog == nil {
		return nil, fmt.Errorf("%w: no material catalog", material.ErrUnknownMaterial)
	}

	verr := &model.ValidationError{}
	verr.Add(catalog.Validate())

	g := New(height, width)
	bundles := make(map[string]*model.Material)
	for i, r := range regions {
		m, err := catalog.Lookup(r.Material)
		if err != nil {
			verr.Add(fmt.Errorf("region %d %q: %w", i, r.Name, err))
			continue
		}
		if len(r.Rects) == 0 {
			verr.Add(fmt.Errorf("region %d %q: %w", i, r.Name, ErrEmptyRegion))
			continue
		}
		bundle, ok := bundles[r.Material]
		if !ok {
			bundle = copyMaterial(m)
			bundles[r.Material] = bundle
		}
		for _, rect := range r.Rects {
			rect = rect.Canon()
			if !g.InBounds(rect.From) || !g.InBounds(rect.To) {
				verr.Add(fmt.Errorf("region %d %q: rect %v: %w (%dx%d)", i, r.Name, rect, ErrOutOfBounds, height, width))
				continue
			}
			for row := rect.From.Row; row <= rect.To.Row; row++ {
				for col := rect.From.Col; col <= rect.To.Col; col++ {
					co := model.Coordinate{Row: row, Col: col}
					g.cells[g.index(co)] = model.Cell{
						Temperature: bundle.Temperature,
						Coordinate:  co,
						Material:    bundle,
					}
				}
			}
		}
	}

	var uncovered, border []model.Coordinate
	for i := range g.cells {
		co := model.Coordinate{Row: i / width, Col: i % width}
		c := &g.cells[i]
		if c.Material == nil {
			uncovered = append(uncovered, co)
			continue
		}
		if o.strictBorder && g.IsEdge(co) && c.Kind() != model.OutsideAir {
			border = append(border, co)
		}
	}
	if len(uncovered) > 0 {
		verr.Add(fmt.Errorf("%w: %d cells, first at %v", ErrUncovered, len(uncovered), uncovered[0]))
	}
	if len(border) > 0 {
		verr.Add(fmt.Errorf("%w: %d cells, first at %v", ErrMissingBorder, len(border), border[0]))
	}
	if err := verr.Err(); err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"height":    height,
		"width":     width,
		"regions":   len(regions),
		"materials": len(bundles),
	}).Debug("网格初始化完成")
	return g, nil
}

// FromLayout materializes a house layout.
func FromLayout(l *house.Layout, catalog *material.Catalog, opts ...Option) (*Grid, error) {
	g, err := Materialize(l.Height, l.Width, l.Regions, catalog, opts...)
	if err != nil {
		return nil, fmt.Errorf("layout %q: %w", l.Name, err)
	}
	return g, nil
}

func copyMaterial(m *model.Material) *model.Material {
	cp := *m
	if m.Insulation != nil {
		ins := *m.Insulation
		cp.Insulation = &ins
	}
	return &cp
}
