// Package pursuit drives a car so it trails a target body at a set distance,
// steering around obstacles found by short ray probes.
package pursuit

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"driftchase/vehicle"
	"driftchase/vmath"
	"driftchase/world"
)

// Controller constants
const (
	weaveFrequency   = 0.5 // rad/s of the lateral weave phase
	weaveAmplitude   = 2.0 // world units
	frontRepulsion   = 5.0
	sideRepulsion    = 3.0
	sideProbeScale   = 0.7
	sideProbeOffset  = 0.5
	throttleResponse = 3.0 // lerp rate per second
	steeringResponse = 5.0 // lerp rate per second
	chaseBand        = 0.8 // fraction of FollowDistance beyond which we accelerate
	backOffBand      = 0.5 // fraction of FollowDistance inside which we reverse
	brakeBand        = 0.6 // fraction of FollowDistance inside which brakes engage
	brakeMinSpeed    = 10.0
)

// State is the controller memory carried between ticks
type State struct {
	TargetPosition  mgl64.Vec3
	AvoidanceVector mgl64.Vec3
	Throttle        float64 // [-1, 1]
	Steering        float64 // [-1, 1]
}

// Clock carries the time inputs of one tick
type Clock struct {
	Elapsed float64 // monotonically increasing, only used for the weave phase
	DT      float64
}

// Drivetrain is the actuator side of the car being driven
type Drivetrain interface {
	Spec() vehicle.Spec
	SteerAngle() float64
	Apply(vehicle.Command)
}

// Probe records one sensor ray of the last tick
type Probe struct {
	Origin mgl64.Vec3
	Dir    mgl64.Vec3
	Length float64
	Hit    bool
	Point  mgl64.Vec3
}

// Controller follows one target. It is not safe for concurrent use; each car owns its own.
type Controller struct {
	params Params
	spec   vehicle.Spec
	state  State

	last   vehicle.Command
	phase  Phase
	probes [5]Probe
}

// New creates a controller for a car with the given drivetrain spec
func New(params Params, spec vehicle.Spec) *Controller {
	return &Controller{params: params, spec: spec, phase: PhaseIdle}
}

// Params returns the controller tuning
func (c *Controller) Params() Params {
	return c.params
}

// State returns a copy of the runtime state
func (c *Controller) State() State {
	return c.state
}

// Phase returns the throttle band chosen on the last tick
func (c *Controller) Phase() Phase {
	return c.phase
}

// Probes returns the sensor rays of the last tick
func (c *Controller) Probes() []Probe {
	return c.probes[:]
}

// LastCommand returns the most recent actuation
func (c *Controller) LastCommand() vehicle.Command {
	return c.last
}

// Reset clears the runtime state
func (c *Controller) Reset() {
	c.state = State{}
	c.last = vehicle.Command{}
	c.phase = PhaseIdle
	c.probes = [5]Probe{}
}

// Tick runs one control step from tick-start snapshots. prevSteer is the
// drivetrain's current front wheel angle. A nil target skips the tick and
// returns the previous command with ok == false.
func (c *Controller) Tick(self vehicle.State, target *vehicle.State, sensor world.Raycaster, clock Clock, prevSteer float64) (vehicle.Command, bool) {
	if target == nil {
		return c.last, false
	}
	p := c.params
	dt := clock.DT

	// Aim for a point behind where the target will be, weaving slightly side to side.
	predicted := target.Position.Add(target.Velocity.Mul(p.PredictionTime))
	c.state.TargetPosition = predicted.
		Sub(target.Forward.Mul(p.FollowDistance)).
		Add(target.Right.Mul(math.Sin(clock.Elapsed*weaveFrequency) * weaveAmplitude))

	c.state.AvoidanceVector = c.avoid(self, sensor)

	distance := vmath.Distance(self.Position, c.state.TargetPosition)
	speed := self.Speed()
	speedFactor := vmath.InverseLerp(p.MinSpeed, p.MaxSpeed, speed)

	targetThrottle := 0.0
	switch {
	case distance > chaseBand*p.FollowDistance:
		targetThrottle = 1 - speedFactor*p.AccelerationSensitivity
		c.phase = PhaseChase
	case distance < backOffBand*p.FollowDistance:
		targetThrottle = -p.BrakeSensitivity
		c.phase = PhaseBackOff
	default:
		c.phase = PhaseCoast
	}
	c.state.Throttle = vmath.Lerp(c.state.Throttle, targetThrottle, dt*throttleResponse)

	local := self.Frame().InverseTransformPoint(c.state.TargetPosition.Add(c.state.AvoidanceVector))
	rawSteering := vmath.Clamp(local.X()/math.Max(1, local.Z())*p.SteeringSharpness, -1, 1)
	adjusted := rawSteering * (1 - speed/p.MaxSpeed*p.CorneringSpeedFactor)
	c.state.Steering = vmath.Lerp(c.state.Steering, adjusted, dt*steeringResponse)

	cmd := vehicle.Command{
		MotorTorque: c.spec.TorquePerThrottle() * c.state.Throttle,
		SteerAngle:  vmath.Lerp(prevSteer, c.state.Steering*c.spec.MaxSteeringAngle, c.spec.SteeringSpeed),
	}
	if vmath.Distance(self.Position, target.Position) < brakeBand*p.FollowDistance && speed > brakeMinSpeed {
		cmd.BrakeTorque = c.spec.BrakeForce
	}
	c.last = cmd
	return cmd, true
}

// Drive runs Tick and applies the command to the drivetrain
func (c *Controller) Drive(self vehicle.State, target *vehicle.State, sensor world.Raycaster, drivetrain Drivetrain, clock Clock) (vehicle.Command, bool) {
	cmd, ok := c.Tick(self, target, sensor, clock, drivetrain.SteerAngle())
	if ok {
		drivetrain.Apply(cmd)
	}
	return cmd, ok
}

// avoid sums the repulsion of the five probes
func (c *Controller) avoid(self vehicle.State, sensor world.Raycaster) mgl64.Vec3 {
	p := c.params
	avoidance := mgl64.Vec3{}
	c.probes = [5]Probe{}
	if sensor == nil {
		return avoidance
	}

	origin := self.Position
	c.probes[0] = Probe{Origin: origin, Dir: self.Forward, Length: p.AvoidanceDistance}
	if hit, ok := sensor.Cast(origin, self.Forward, p.AvoidanceDistance, p.ObstacleMask); ok {
		avoidance = avoidance.Add(hit.Normal.Mul(frontRepulsion))
		c.probes[0].Hit, c.probes[0].Point = true, hit.Point
	}

	right := self.Right.Mul(sideProbeOffset)
	ahead := self.Forward.Mul(sideProbeOffset)
	dirs := [4]mgl64.Vec3{
		right,
		right.Mul(-1),
		vmath.SafeNormalize(self.Right.Add(ahead)),
		vmath.SafeNormalize(self.Right.Mul(-1).Add(ahead)),
	}
	sideLength := p.AvoidanceDistance * sideProbeScale
	for i, dir := range dirs {
		probe := &c.probes[i+1]
		*probe = Probe{Origin: origin, Dir: dir, Length: sideLength}
		if hit, ok := sensor.Cast(origin, dir, sideLength, p.ObstacleMask); ok {
			avoidance = avoidance.Sub(vmath.SafeNormalize(dir).Mul(sideRepulsion))
			probe.Hit, probe.Point = true, hit.Point
		}
	}
	return avoidance
}
