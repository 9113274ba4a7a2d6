// Package world holds the static track geometry (obstacles on a spatial grid),
// the pickups placed on it, and the ray and overlap queries the cars run against it.
// Obstacles are footprints on the X/Z plane extruded infinitely along Y.
package world

import (
	"math"
	"math/rand"

	"github.com/go-gl/mathgl/mgl64"
)

// Layer is a bit mask used to filter queries
type Layer uint32

const (
	LayerWall Layer = 1 << iota
	LayerProp
	LayerVehicle

	LayerNone Layer = 0
	LayerAll  Layer = ^Layer(0)
)

// Shape of an obstacle footprint
type Shape int

const (
	ShapeCircle Shape = iota
	ShapeBox
)

// Obstacle is a solid footprint. Boxes are axis aligned.
type Obstacle struct {
	ID     int
	Shape  Shape
	Center mgl64.Vec3
	Radius float64 // ShapeCircle
	HalfX  float64 // ShapeBox
	HalfZ  float64 // ShapeBox
	Layer  Layer

	queryStamp uint64
}

// Bounds returns the obstacle's X/Z extent
func (o *Obstacle) Bounds() (minX, minZ, maxX, maxZ float64) {
	hx, hz := o.HalfX, o.HalfZ
	if o.Shape == ShapeCircle {
		hx, hz = o.Radius, o.Radius
	}
	return o.Center.X() - hx, o.Center.Z() - hz, o.Center.X() + hx, o.Center.Z() + hz
}

// Config holds the world extent and grid resolution
type Config struct {
	// CellSize is the size of each spatial partition cell in world units
	CellSize float64

	// MinX and MinZ are the lower corner of the world
	MinX float64
	MinZ float64

	// Width (X) and Depth (Z) of the world
	Width float64
	Depth float64

	// Seed for pickup animation phases
	Seed int64
}

// DefaultConfig returns a 400x400 world centred on the origin
func DefaultConfig() Config {
	return Config{
		CellSize: 20,
		MinX:     -200,
		MinZ:     -200,
		Width:    400,
		Depth:    400,
		Seed:     1,
	}
}

// CellCountX returns the number of cells in the X direction
func (c Config) CellCountX() int {
	return max(1, int(math.Ceil(c.Width/c.CellSize)))
}

// CellCountZ returns the number of cells in the Z direction
func (c Config) CellCountZ() int {
	return max(1, int(math.Ceil(c.Depth/c.CellSize)))
}

// World manages the spatial partitioning grid, obstacles and pickups
type World struct {
	Config Config

	// Preallocated 2D grid of cells
	cells [][]*Cell

	obstacles []*Obstacle
	pickups   []*Pickup

	nextID int
	stamp  uint64
	rng    *rand.Rand
}

// New creates a world with a preallocated grid
func New(config Config) *World {
	if config.CellSize <= 0 {
		config.CellSize = DefaultConfig().CellSize
	}
	countX, countZ := config.CellCountX(), config.CellCountZ()
	cells := make([][]*Cell, countX)
	for x := range cells {
		cells[x] = make([]*Cell, countZ)
		for z := range cells[x] {
			cells[x][z] = NewCell(8)
		}
	}
	return &World{
		Config: config,
		cells:  cells,
		rng:    rand.New(rand.NewSource(config.Seed)),
	}
}

// WorldToCell converts world coordinates to clamped cell coordinates
func (w *World) WorldToCell(x, z float64) (int, int) {
	cellX := int(math.Floor((x - w.Config.MinX) / w.Config.CellSize))
	cellZ := int(math.Floor((z - w.Config.MinZ) / w.Config.CellSize))

	cellX = max(0, min(cellX, w.Config.CellCountX()-1))
	cellZ = max(0, min(cellZ, w.Config.CellCountZ()-1))
	return cellX, cellZ
}

// GetCell returns the cell at the given cell coordinates, or nil when out of range
func (w *World) GetCell(cellX, cellZ int) *Cell {
	if cellX < 0 || cellX >= len(w.cells) || cellZ < 0 || cellZ >= len(w.cells[cellX]) {
		return nil
	}
	return w.cells[cellX][cellZ]
}

// AddCircle adds a circular obstacle and returns it
func (w *World) AddCircle(x, z, radius float64, layer Layer) *Obstacle {
	return w.AddObstacle(&Obstacle{Shape: ShapeCircle, Center: mgl64.Vec3{x, 0, z}, Radius: radius, Layer: layer})
}

// AddBox adds an axis-aligned box obstacle and returns it
func (w *World) AddBox(x, z, halfX, halfZ float64, layer Layer) *Obstacle {
	return w.AddObstacle(&Obstacle{Shape: ShapeBox, Center: mgl64.Vec3{x, 0, z}, HalfX: halfX, HalfZ: halfZ, Layer: layer})
}

// AddObstacle registers an obstacle in every cell its footprint overlaps
func (w *World) AddObstacle(o *Obstacle) *Obstacle {
	w.nextID++
	o.ID = w.nextID
	minX, minZ, maxX, maxZ := o.Bounds()
	w.forCells(minX, minZ, maxX, maxZ, func(c *Cell) { c.Add(o) })
	w.obstacles = append(w.obstacles, o)
	return o
}

// RemoveObstacle unregisters an obstacle
func (w *World) RemoveObstacle(o *Obstacle) {
	minX, minZ, maxX, maxZ := o.Bounds()
	w.forCells(minX, minZ, maxX, maxZ, func(c *Cell) { c.Remove(o) })
	for i, existing := range w.obstacles {
		if existing == o {
			w.obstacles = append(w.obstacles[:i], w.obstacles[i+1:]...)
			break
		}
	}
}

// Obstacles returns every registered obstacle
func (w *World) Obstacles() []*Obstacle {
	return w.obstacles
}

// ObstaclesInRect returns the distinct obstacles whose cells touch the rectangle and match mask
func (w *World) ObstaclesInRect(minX, minZ, maxX, maxZ float64, mask Layer) []*Obstacle {
	w.stamp++
	stamp := w.stamp
	found := make([]*Obstacle, 0, 16)
	w.forCells(minX, minZ, maxX, maxZ, func(c *Cell) {
		for _, o := range c.Obstacles {
			if o.queryStamp == stamp || o.Layer&mask == 0 {
				continue
			}
			o.queryStamp = stamp
			found = append(found, o)
		}
	})
	return found
}

func (w *World) forCells(minX, minZ, maxX, maxZ float64, fn func(*Cell)) {
	minCellX, minCellZ := w.WorldToCell(minX, minZ)
	maxCellX, maxCellZ := w.WorldToCell(maxX, maxZ)
	for x := minCellX; x <= maxCellX; x++ {
		for z := minCellZ; z <= maxCellZ; z++ {
			if cell := w.GetCell(x, z); cell != nil {
				fn(cell)
			}
		}
	}
}

// Contact is one overlap between a circle and an obstacle
type Contact struct {
	Obstacle *Obstacle
	Normal   mgl64.Vec3 // points out of the obstacle
	Depth    float64
}

// Overlap returns the obstacles a circle at center penetrates
func (w *World) Overlap(center mgl64.Vec3, radius float64, mask Layer) []Contact {
	candidates := w.ObstaclesInRect(center.X()-radius, center.Z()-radius, center.X()+radius, center.Z()+radius, mask)
	var contacts []Contact
	for _, o := range candidates {
		if c, ok := overlapCircle(o, center, radius); ok {
			contacts = append(contacts, c)
		}
	}
	return contacts
}

func overlapCircle(o *Obstacle, center mgl64.Vec3, radius float64) (Contact, bool) {
	cx, cz := center.X(), center.Z()
	switch o.Shape {
	case ShapeCircle:
		dx, dz := cx-o.Center.X(), cz-o.Center.Z()
		dist := math.Hypot(dx, dz)
		depth := radius + o.Radius - dist
		if depth <= 0 {
			return Contact{}, false
		}
		normal := mgl64.Vec3{1, 0, 0}
		if dist > 1e-9 {
			normal = mgl64.Vec3{dx / dist, 0, dz / dist}
		}
		return Contact{Obstacle: o, Normal: normal, Depth: depth}, true

	case ShapeBox:
		minX, minZ, maxX, maxZ := o.Bounds()
		px := math.Max(minX, math.Min(cx, maxX))
		pz := math.Max(minZ, math.Min(cz, maxZ))
		dx, dz := cx-px, cz-pz
		dist := math.Hypot(dx, dz)
		if dist > 1e-9 {
			if dist >= radius {
				return Contact{}, false
			}
			return Contact{Obstacle: o, Normal: mgl64.Vec3{dx / dist, 0, dz / dist}, Depth: radius - dist}, true
		}
		// Centre inside the box: push out along the shallowest face.
		faces := []struct {
			depth  float64
			normal mgl64.Vec3
		}{
			{cx - minX, mgl64.Vec3{-1, 0, 0}},
			{maxX - cx, mgl64.Vec3{1, 0, 0}},
			{cz - minZ, mgl64.Vec3{0, 0, -1}},
			{maxZ - cz, mgl64.Vec3{0, 0, 1}},
		}
		best := faces[0]
		for _, f := range faces[1:] {
			if f.depth < best.depth {
				best = f
			}
		}
		return Contact{Obstacle: o, Normal: best.normal, Depth: best.depth + radius}, true
	}
	return Contact{}, false
}
