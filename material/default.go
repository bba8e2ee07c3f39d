package material

import "housetemp/model"

// 内置材料名称
const (
	OutsideAir        = "outside air"
	InsideAir         = "inside air"
	InsulatedWall     = "insulated wall"
	ConcreteWall      = "concrete wall"
	PartitionWall     = "partition wall"
	Window            = "window"
	Door              = "door"
	Radiator          = "radiator"
	InnerInsulation   = "inner insulation"
	OutdoorInsulation = "outdoor insulation"
)

// Default 内置材料目录：混凝土墙、岩棉保温、双层玻璃、木门、空气
func Default() *Catalog {
	return NewCatalog("default").MustAdd(
		model.Material{
			Name:                   OutsideAir,
			Kind:                   model.OutsideAir,
			Temperature:            10,
			VolumetricHeatCapacity: 1256,
			Lambda:                 0.025,
			Surface:                2.5,
			Thickness:              5,
		},
		model.Material{
			Name:                   InsideAir,
			Kind:                   model.InsideAir,
			Temperature:            25,
			VolumetricHeatCapacity: 1256,
			Lambda:                 0.025,
			Surface:                2.5,
			Thickness:              1,
		},
		model.Material{
			Name:                   InsulatedWall,
			Kind:                   model.Wall,
			Temperature:            10,
			VolumetricHeatCapacity: 2400000,
			Lambda:                 1.4,
			Surface:                2.5,
			Thickness:              0.15,
			Insulation: &model.Insulation{
				OutsideLambda:    0.04,
				OutsideThickness: 0.07,
				InsideLambda:     0.04,
				InsideThickness:  0.07,
			},
		},
		model.Material{
			Name:                   ConcreteWall,
			Kind:                   model.Wall,
			Temperature:            10,
			VolumetricHeatCapacity: 2400000,
			Lambda:                 1.4,
			Surface:                2.5,
			Thickness:              0.15,
		},
		model.Material{
			Name:                   PartitionWall,
			Kind:                   model.Wall,
			Temperature:            10,
			VolumetricHeatCapacity: 2400000,
			Lambda:                 0.25,
			Surface:                2.5,
			Thickness:              0.07,
		},
		model.Material{
			Name:                   Window,
			Kind:                   model.Window,
			Temperature:            10,
			VolumetricHeatCapacity: 17000,
			Lambda:                 1.0,
			Surface:                2.0,
			Thickness:              0.1,
		},
		model.Material{
			Name:                   Door,
			Kind:                   model.Door,
			Temperature:            10,
			VolumetricHeatCapacity: 350000,
			Lambda:                 0.12,
			Surface:                2.0,
			Thickness:              0.1,
		},
		model.Material{
			Name:                   Radiator,
			Kind:                   model.Radiator,
			Temperature:            55,
			VolumetricHeatCapacity: 3600000,
			Lambda:                 50,
			Surface:                1,
			Thickness:              0.05,
			HeatRate:               100,
		},
		// 岩棉：比热 1030 J/(kg.K)，密度 135 kg/m3
		model.Material{
			Name:                   InnerInsulation,
			Kind:                   model.InnerInsulation,
			Temperature:            20,
			VolumetricHeatCapacity: 1030 * 135,
			Lambda:                 0.04,
			Surface:                0.25,
			Thickness:              0.07,
		},
		model.Material{
			Name:                   OutdoorInsulation,
			Kind:                   model.OutdoorInsulation,
			Temperature:            20,
			VolumetricHeatCapacity: 1030 * 135,
			Lambda:                 0.04,
			Surface:                0.25,
			Thickness:              0.07,
		},
	)
}
