package level

import "math"

var catalog = map[string]Level{
	"Harbor": {
		Name:  "Harbor",
		Width: 240,
		Depth: 240,
		Walls: []Box{
			{X: -40, Z: 30, HalfX: 12, HalfZ: 4},
			{X: 40, Z: -30, HalfX: 12, HalfZ: 4},
			{X: 0, Z: 60, HalfX: 4, HalfZ: 14},
			{X: -70, Z: -60, HalfX: 8, HalfZ: 8},
			{X: 75, Z: 55, HalfX: 6, HalfZ: 10},
		},
		Rocks: []Circle{
			{X: 20, Z: 0, Radius: 1.5},
			{X: -20, Z: 0, Radius: 1.5},
			{X: 0, Z: -25, Radius: 1.5},
			{X: 60, Z: -80, Radius: 2},
			{X: -80, Z: 80, Radius: 2},
		},
		Coins: []Point{
			{0, -60}, {30, -10}, {55, 20}, {95, -85}, {-95, -95},
			{-95, 40}, {-30, 90}, {30, 100}, {100, 100}, {-100, 100},
		},
		Bombs:       []Point{{-10, -40}, {50, 45}, {-60, 0}, {85, -20}},
		PlayerSpawn: Pose{X: 0, Z: -95},
		ChaserSpawn: Pose{X: 0, Z: -112},
	},
	"Canyon": {
		Name:  "Canyon",
		Width: 360,
		Depth: 160,
		Walls: []Box{
			{X: -90, Z: 20, HalfX: 30, HalfZ: 6},
			{X: 0, Z: -30, HalfX: 40, HalfZ: 6},
			{X: 90, Z: 25, HalfX: 30, HalfZ: 6},
		},
		Rocks: []Circle{
			{X: -140, Z: -40, Radius: 5},
			{X: -40, Z: 40, Radius: 4},
			{X: 40, Z: 50, Radius: 4},
			{X: 140, Z: -40, Radius: 5},
			{X: 0, Z: 10, Radius: 3},
			{X: 150, Z: 50, Radius: 4},
		},
		Coins: []Point{
			{-120, -60}, {-80, -20}, {-40, -55}, {0, -60}, {40, -5},
			{60, -50}, {100, -20}, {150, 0}, {100, 60}, {-100, 60},
		},
		Bombs:       []Point{{-60, -45}, {20, -50}, {120, -55}, {-20, 60}},
		PlayerSpawn: Pose{X: -160, Z: -60, Yaw: math.Pi / 2},
		ChaserSpawn: Pose{X: -175, Z: -60, Yaw: math.Pi / 2},
	},
	"Figure8": {
		Name:  "Figure8",
		Width: 220,
		Depth: 300,
		Rocks: []Circle{
			{X: 0, Z: -60, Radius: 32},
			{X: 0, Z: 60, Radius: 32},
		},
		Coins: []Point{
			{-55, -20}, {-55, 60}, {0, 110}, {55, 60}, {0, 0},
			{55, -60}, {0, -110}, {-55, -100}, {80, 120}, {-80, -130},
		},
		Bombs:       []Point{{30, 0}, {-30, 0}, {90, -90}, {-90, 90}},
		PlayerSpawn: Pose{X: -55, Z: -60},
		ChaserSpawn: Pose{X: -55, Z: -80},
	},
}
