// Package level holds the track layouts the player can pick from.
package level

import (
	"errors"
	"fmt"
	"sort"

	"github.com/go-gl/mathgl/mgl64"

	"driftchase/world"
)

// ErrUnknownLevel is returned when a level name is not in the catalog
var ErrUnknownLevel = errors.New("unknown level")

// DefaultLevel is the name stored in preferences before the player picks a level
const DefaultLevel = "DefaultLevel"

// wallThickness of the perimeter walls
const wallThickness = 4.0

// Pose is a spawn point on the ground plane
type Pose struct {
	X, Z float64
	Yaw  float64 // radians, 0 faces +Z
}

// Position returns the pose as a world point
func (p Pose) Position() mgl64.Vec3 {
	return mgl64.Vec3{p.X, 0, p.Z}
}

// Box is an axis-aligned block
type Box struct {
	X, Z, HalfX, HalfZ float64
}

// Circle is a round post or rock
type Circle struct {
	X, Z, Radius float64
}

// Point is a pickup location
type Point struct {
	X, Z float64
}

// Level is one track layout centred on the origin
type Level struct {
	Name  string
	Width float64 // X extent
	Depth float64 // Z extent

	Walls []Box
	Rocks []Circle
	Coins []Point
	Bombs []Point

	PlayerSpawn Pose
	ChaserSpawn Pose
}

// Build creates the world for the level: perimeter, obstacles and pickups
func (l Level) Build(seed int64) *world.World {
	cfg := world.DefaultConfig()
	margin := wallThickness * 2
	cfg.MinX = -l.Width/2 - margin
	cfg.MinZ = -l.Depth/2 - margin
	cfg.Width = l.Width + 2*margin
	cfg.Depth = l.Depth + 2*margin
	cfg.Seed = seed
	w := world.New(cfg)

	hw, hd, t := l.Width/2, l.Depth/2, wallThickness/2
	w.AddBox(0, -hd-t, hw+wallThickness, t, world.LayerWall)
	w.AddBox(0, hd+t, hw+wallThickness, t, world.LayerWall)
	w.AddBox(-hw-t, 0, t, hd+wallThickness, world.LayerWall)
	w.AddBox(hw+t, 0, t, hd+wallThickness, world.LayerWall)

	for _, b := range l.Walls {
		w.AddBox(b.X, b.Z, b.HalfX, b.HalfZ, world.LayerWall)
	}
	for _, r := range l.Rocks {
		w.AddCircle(r.X, r.Z, r.Radius, world.LayerProp)
	}
	for _, c := range l.Coins {
		w.AddPickup(world.PickupCoin, c.X, c.Z)
	}
	for _, b := range l.Bombs {
		w.AddPickup(world.PickupBomb, b.X, b.Z)
	}
	return w
}

var aliases = map[string]string{
	DefaultLevel: "Harbor",
	"":           "Harbor",
}

// Lookup returns the level for a name
func Lookup(name string) (Level, error) {
	if alias, ok := aliases[name]; ok {
		name = alias
	}
	l, ok := catalog[name]
	if !ok {
		return Level{}, fmt.Errorf("%w: %q", ErrUnknownLevel, name)
	}
	return l, nil
}

// Names returns the selectable level names in menu order
func Names() []string {
	names := make([]string, 0, len(catalog))
	for name := range catalog {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
