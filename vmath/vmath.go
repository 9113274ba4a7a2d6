// Package vmath holds the scalar and vector helpers shared by the simulation.
// Vectors are mgl64.Vec3 in a Y-up frame where +Z is forward and +X is right.
package vmath

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Epsilon below which a vector length is treated as zero
const Epsilon = 1e-9

var (
	// Up is the world up axis
	Up = mgl64.Vec3{0, 1, 0}
	// Zero is the zero vector
	Zero = mgl64.Vec3{}
)

// Lerp interpolates from a to b by t, with t clamped to [0, 1]
func Lerp(a, b, t float64) float64 {
	t = Clamp01(t)
	return a + (b-a)*t
}

// LerpVec interpolates component-wise with t clamped to [0, 1]
func LerpVec(a, b mgl64.Vec3, t float64) mgl64.Vec3 {
	t = Clamp01(t)
	return a.Add(b.Sub(a).Mul(t))
}

// Clamp restricts v to [lo, hi]
func Clamp(v, lo, hi float64) float64 {
	return mgl64.Clamp(v, lo, hi)
}

// Clamp01 restricts v to [0, 1]
func Clamp01(v float64) float64 {
	return mgl64.Clamp(v, 0, 1)
}

// InverseLerp returns where v lies between a and b, clamped to [0, 1].
// Returns 0 when a == b.
func InverseLerp(a, b, v float64) float64 {
	if a == b {
		return 0
	}
	return Clamp01((v - a) / (b - a))
}

// MoveTowards moves current towards target by at most maxDelta
func MoveTowards(current, target, maxDelta float64) float64 {
	if math.Abs(target-current) <= maxDelta {
		return target
	}
	return current + math.Copysign(maxDelta, target-current)
}

// SafeNormalize returns v scaled to unit length, or the zero vector when v is (near) zero.
func SafeNormalize(v mgl64.Vec3) mgl64.Vec3 {
	l := v.Len()
	if l < Epsilon {
		return Zero
	}
	return v.Mul(1 / l)
}

// Flat drops the vertical component
func Flat(v mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{v.X(), 0, v.Z()}
}

// Distance between two points
func Distance(a, b mgl64.Vec3) float64 {
	return a.Sub(b).Len()
}

// NormalizeAngle normalizes an angle to [-Pi, Pi]
func NormalizeAngle(angle float64) float64 {
	for angle > math.Pi {
		angle -= 2 * math.Pi
	}
	for angle < -math.Pi {
		angle += 2 * math.Pi
	}
	return angle
}

// Yaw returns the heading of dir around the up axis, 0 along +Z and positive towards +X.
func Yaw(dir mgl64.Vec3) float64 {
	return math.Atan2(dir.X(), dir.Z())
}

// YawForward returns the unit forward vector for a heading
func YawForward(yaw float64) mgl64.Vec3 {
	return mgl64.Vec3{math.Sin(yaw), 0, math.Cos(yaw)}
}

// YawRight returns the unit right vector for a heading
func YawRight(yaw float64) mgl64.Vec3 {
	return mgl64.Vec3{math.Cos(yaw), 0, -math.Sin(yaw)}
}
