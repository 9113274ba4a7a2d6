package vehicle

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"driftchase/vmath"
	"driftchase/world"
)

// Brake light intensities
const (
	BrakeLightBase = 3.0
	BrakeLightMax  = 5.0
)

const (
	handbrakeDecel = 4.0 // units/s^2 shed while the handbrake is pulled
	driftYawBoost  = 1.35
	maxYawRate     = 2.2 // rad/s before the handbrake boost
	restitution    = 0.2
	contactSkin    = 1e-6
)

// Car is an arcade car: four wheel actuators on top of a kinematic bicycle model
// whose lateral grip collapses under the handbrake.
type Car struct {
	spec Spec

	pos     mgl64.Vec3
	vel     mgl64.Vec3
	yaw     float64
	yawRate float64

	wheels    [WheelCount]Wheel
	handbrake bool
}

// NewCar places a car at pos facing yaw
func NewCar(spec Spec, pos mgl64.Vec3, yaw float64) *Car {
	return &Car{spec: spec, pos: pos, yaw: yaw}
}

// Spec returns the car's tuning
func (c *Car) Spec() Spec {
	return c.spec
}

// State returns the kinematic snapshot
func (c *Car) State() State {
	return State{
		Position: c.pos,
		Forward:  vmath.YawForward(c.yaw),
		Right:    vmath.YawRight(c.yaw),
		Velocity: c.vel,
	}
}

// Yaw returns the heading in radians
func (c *Car) Yaw() float64 {
	return c.yaw
}

// Wheels returns a copy of the wheel actuators
func (c *Car) Wheels() [WheelCount]Wheel {
	return c.wheels
}

// SteerAngle returns the current front wheel angle in degrees
func (c *Car) SteerAngle() float64 {
	return c.wheels[FrontLeft].SteerAngle
}

// Apply writes a command to the wheel actuators
func (c *Car) Apply(cmd Command) {
	for i := range c.wheels {
		c.wheels[i].MotorTorque = cmd.MotorTorque
		c.wheels[i].BrakeTorque = cmd.BrakeTorque
	}
	c.wheels[FrontLeft].SteerAngle = cmd.SteerAngle
	c.wheels[FrontRight].SteerAngle = cmd.SteerAngle
}

// SetHandbrake pulls or releases the handbrake
func (c *Car) SetHandbrake(on bool) {
	c.handbrake = on
}

// Handbrake reports whether the handbrake is pulled
func (c *Car) Handbrake() bool {
	return c.handbrake
}

// Drive converts a driver input sample into a command and applies it.
// Throttle against the direction of travel brakes before it reverses.
func (c *Car) Drive(in DriverInput) Command {
	steer := vmath.Clamp(in.Steer, -1, 1)
	throttle := vmath.Clamp(in.Throttle, -1, 1)
	forwardSpeed := c.vel.Dot(vmath.YawForward(c.yaw))

	cmd := Command{
		SteerAngle: vmath.Lerp(c.SteerAngle(), steer*c.spec.MaxSteeringAngle, c.spec.SteeringSpeed),
	}
	switch {
	case throttle > 0 && forwardSpeed < -1:
		cmd.BrakeTorque = c.spec.BrakeForce * throttle
	case throttle < 0 && forwardSpeed > 1:
		cmd.BrakeTorque = c.spec.BrakeForce * -throttle
	case throttle != 0:
		cmd.MotorTorque = c.spec.TorquePerThrottle() * throttle
	}
	c.Apply(cmd)
	c.SetHandbrake(in.Handbrake)
	return cmd
}

// Braking reports whether any brake is engaged
func (c *Car) Braking() bool {
	if c.handbrake {
		return true
	}
	for _, w := range c.wheels {
		if w.BrakeTorque > 0 {
			return true
		}
	}
	return false
}

// BrakeLightIntensity is the tail light brightness for the renderer
func (c *Car) BrakeLightIntensity() float64 {
	if c.Braking() {
		return BrakeLightMax
	}
	return BrakeLightBase
}

// LateralSpeed is the sideways component of velocity (positive to the right)
func (c *Car) LateralSpeed() float64 {
	return c.vel.Dot(vmath.YawRight(c.yaw))
}

// IsDrifting reports tyre slide: lateral speed above the car's DriftThreshold
func (c *Car) IsDrifting() bool {
	return math.Abs(c.LateralSpeed()) > c.spec.DriftThreshold
}

// Step integrates the car by dt using the current wheel actuators
func (c *Car) Step(dt float64) {
	if dt <= 0 {
		return
	}
	s := c.spec
	forward := vmath.YawForward(c.yaw)
	vf := c.vel.Dot(forward)

	// Yaw from the bicycle model, using the average front wheel angle.
	steer := mgl64.DegToRad((c.wheels[FrontLeft].SteerAngle + c.wheels[FrontRight].SteerAngle) / 2)
	c.yawRate = 0
	if s.Wheelbase > 0 {
		c.yawRate = vf * math.Tan(steer) / s.Wheelbase
	}
	c.yawRate = vmath.Clamp(c.yawRate, -maxYawRate, maxYawRate)
	if c.handbrake {
		c.yawRate *= driftYawBoost
	}
	c.yaw = vmath.NormalizeAngle(c.yaw + c.yawRate*dt)

	// Velocity stays in the world frame, so turning leaves a lateral slip for grip to remove.
	forward = vmath.YawForward(c.yaw)
	right := vmath.YawRight(c.yaw)
	vf = c.vel.Dot(forward)
	vl := c.vel.Dot(right)

	inertia := s.Mass * s.WheelRadius
	if inertia > 0 {
		var motor, brake float64
		for _, w := range c.wheels {
			motor += w.MotorTorque
			brake += w.BrakeTorque
		}
		vf += motor / inertia * dt
		vf = vmath.MoveTowards(vf, 0, brake/inertia*dt)
	}
	if c.handbrake {
		vf = vmath.MoveTowards(vf, 0, handbrakeDecel*dt)
	}
	vf -= vf * s.Drag * dt
	vf = vmath.Clamp(vf, -s.MaxReverseSpeed, s.MaxSpeed)

	grip := s.Grip
	if c.handbrake {
		grip = s.DriftGrip
	}
	vl *= math.Exp(-grip * dt)

	c.vel = forward.Mul(vf).Add(right.Mul(vl))
	c.pos = c.pos.Add(c.vel.Mul(dt))
}

// Collide pushes the car out of any obstacle it overlaps and removes the
// velocity component driving into it. Returns true on contact.
func (c *Car) Collide(w *world.World, mask world.Layer) bool {
	contacts := w.Overlap(c.pos, c.spec.Radius(), mask)
	for _, contact := range contacts {
		c.pos = c.pos.Add(contact.Normal.Mul(contact.Depth + contactSkin))
		if into := c.vel.Dot(contact.Normal); into < 0 {
			c.vel = c.vel.Sub(contact.Normal.Mul(into * (1 + restitution)))
		}
	}
	return len(contacts) > 0
}

// Teleport resets pose and motion
func (c *Car) Teleport(pos mgl64.Vec3, yaw float64) {
	c.pos = pos
	c.yaw = yaw
	c.vel = mgl64.Vec3{}
	c.yawRate = 0
	c.wheels = [WheelCount]Wheel{}
	c.handbrake = false
}

// SetVelocity overrides the linear velocity
func (c *Car) SetVelocity(v mgl64.Vec3) {
	c.vel = v
}

// Nudge moves the car without touching its velocity
func (c *Car) Nudge(offset mgl64.Vec3) {
	c.pos = c.pos.Add(offset)
}
