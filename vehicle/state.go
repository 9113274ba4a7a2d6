// Package vehicle models the cars: the kinematic snapshot the controllers read,
// the actuation they write, and a small arcade drivetrain that integrates it.
package vehicle

import (
	"github.com/go-gl/mathgl/mgl64"

	"driftchase/vmath"
)

// State is a read-only kinematic snapshot of a car taken at tick start.
// Forward and Right are unit length and orthogonal.
type State struct {
	Position mgl64.Vec3
	Forward  mgl64.Vec3
	Right    mgl64.Vec3
	Velocity mgl64.Vec3
}

// Frame returns the car's local frame
func (s State) Frame() vmath.Frame {
	return vmath.NewFrame(s.Position, s.Forward, s.Right)
}

// Speed is the magnitude of the linear velocity
func (s State) Speed() float64 {
	return s.Velocity.Len()
}

// LocalVelocity returns the velocity in (right, up, forward) components
func (s State) LocalVelocity() mgl64.Vec3 {
	return s.Frame().InverseTransformDirection(s.Velocity)
}

// Yaw returns the heading of Forward
func (s State) Yaw() float64 {
	return vmath.Yaw(s.Forward)
}

// Command is one tick of actuation. MotorTorque and BrakeTorque go to all four
// wheels, SteerAngle (degrees) to the front pair.
type Command struct {
	MotorTorque float64
	SteerAngle  float64
	BrakeTorque float64
}

// Wheel holds the values last written to a wheel actuator
type Wheel struct {
	MotorTorque float64
	SteerAngle  float64
	BrakeTorque float64
}

// Wheel positions
const (
	FrontLeft = iota
	FrontRight
	RearLeft
	RearRight
	WheelCount
)

// DriverInput is a human (or scripted) control sample
type DriverInput struct {
	Throttle  float64 // -1 (reverse) .. 1
	Steer     float64 // -1 (left) .. 1 (right)
	Handbrake bool
}
