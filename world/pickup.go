package world

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// PickupKind distinguishes trigger volumes
type PickupKind int

const (
	PickupCoin PickupKind = iota
	PickupBomb
)

func (k PickupKind) String() string {
	switch k {
	case PickupCoin:
		return "coin"
	case PickupBomb:
		return "bomb"
	default:
		return "unknown"
	}
}

// Pickup animation constants
const (
	pickupSpinSpeed = 180.0 // degrees per second
	pickupBobHeight = 0.5   // world units
	pickupBobSpeed  = 1.0   // radians per second of phase
	pickupRadius    = 1.5
)

// Pickup is a trigger volume that is consumed on contact
type Pickup struct {
	ID        int
	Kind      PickupKind
	Position  mgl64.Vec3
	Radius    float64
	Collected bool

	// Spin is the current yaw in degrees, Bob the vertical offset
	Spin float64
	Bob  float64

	phase float64
}

// AddPickup places a pickup with a random bob phase
func (w *World) AddPickup(kind PickupKind, x, z float64) *Pickup {
	w.nextID++
	p := &Pickup{
		ID:       w.nextID,
		Kind:     kind,
		Position: mgl64.Vec3{x, 0, z},
		Radius:   pickupRadius,
		phase:    w.rng.Float64() * 2 * math.Pi,
	}
	w.pickups = append(w.pickups, p)
	return p
}

// Pickups returns all pickups, collected or not
func (w *World) Pickups() []*Pickup {
	return w.pickups
}

// Remaining counts uncollected pickups of a kind
func (w *World) Remaining(kind PickupKind) int {
	n := 0
	for _, p := range w.pickups {
		if p.Kind == kind && !p.Collected {
			n++
		}
	}
	return n
}

// Touching returns the uncollected pickups a circle overlaps
func (w *World) Touching(center mgl64.Vec3, radius float64) []*Pickup {
	var touched []*Pickup
	for _, p := range w.pickups {
		if p.Collected {
			continue
		}
		dx, dz := p.Position.X()-center.X(), p.Position.Z()-center.Z()
		r := p.Radius + radius
		if dx*dx+dz*dz <= r*r {
			touched = append(touched, p)
		}
	}
	return touched
}

// Animate advances the spin and bob of every live pickup
func (w *World) Animate(elapsed, dt float64) {
	for _, p := range w.pickups {
		if p.Collected {
			continue
		}
		p.Spin = math.Mod(p.Spin+pickupSpinSpeed*dt, 360)
		p.Bob = math.Sin((elapsed+p.phase)*pickupBobSpeed) * pickupBobHeight
	}
}
