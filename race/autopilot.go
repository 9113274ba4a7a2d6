package race

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"driftchase/vehicle"
	"driftchase/vmath"
	"driftchase/world"
)

// Autopilot tuning
const (
	autoSteerGain     = 2.0
	autoBombClearance = 6.0 // lateral miss distance kept from bombs on the path
	autoHandbrakeMin  = 15.0
	autoStuckSpeed    = 1.0
	autoStuckTime     = 1.0
	autoReverseTime   = 1.2
)

// Autopilot is a scripted player that heads for the nearest coin, skirts
// bombs and pulls the handbrake in tight corners. Used by the headless runner.
type Autopilot struct {
	stuck   float64
	reverse float64
}

// Input samples the driver input for the car this tick
func (a *Autopilot) Input(w *world.World, car *vehicle.Car, dt float64) vehicle.DriverInput {
	st := car.State()
	if a.reverse > 0 {
		a.reverse -= dt
		return vehicle.DriverInput{Throttle: -1, Steer: 1}
	}
	if st.Speed() < autoStuckSpeed {
		a.stuck += dt
		if a.stuck > autoStuckTime {
			a.stuck = 0
			a.reverse = autoReverseTime
		}
	} else {
		a.stuck = 0
	}

	goal, ok := nearest(w, st.Position, world.PickupCoin)
	if !ok {
		return vehicle.DriverInput{}
	}
	frame := st.Frame()
	local := frame.InverseTransformPoint(goal)
	local = a.skirtBombs(w, frame, local)

	steer := vmath.Clamp(math.Atan2(local.X(), local.Z())*autoSteerGain, -1, 1)
	in := vehicle.DriverInput{Throttle: 1, Steer: steer}
	if local.Z() < 0 {
		in.Steer = math.Copysign(1, local.X())
		in.Throttle = 0.6
	}
	if math.Abs(in.Steer) > 0.8 && st.Speed() > autoHandbrakeMin {
		in.Handbrake = true
	}
	return in
}

// skirtBombs offsets the local goal sideways when a bomb sits in the corridor ahead
func (a *Autopilot) skirtBombs(w *world.World, frame vmath.Frame, goal mgl64.Vec3) mgl64.Vec3 {
	for _, p := range w.Pickups() {
		if p.Collected || p.Kind != world.PickupBomb {
			continue
		}
		b := frame.InverseTransformPoint(p.Position)
		if b.Z() <= 0 || b.Z() > goal.Z() || math.Abs(b.X()) > autoBombClearance {
			continue
		}
		side := -math.Copysign(1, b.X())
		if b.X() == 0 {
			side = 1
		}
		return mgl64.Vec3{b.X() + side*autoBombClearance, 0, b.Z()}
	}
	return goal
}

func nearest(w *world.World, from mgl64.Vec3, kind world.PickupKind) (mgl64.Vec3, bool) {
	best, found := math.Inf(1), false
	var pos mgl64.Vec3
	for _, p := range w.Pickups() {
		if p.Collected || p.Kind != kind {
			continue
		}
		if d := vmath.Distance(from, p.Position); d < best {
			best, pos, found = d, p.Position, true
		}
	}
	return pos, found
}
