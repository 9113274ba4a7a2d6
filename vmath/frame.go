package vmath

import "github.com/go-gl/mathgl/mgl64"

// Frame is an orthonormal rigid frame without scale
type Frame struct {
	Origin  mgl64.Vec3
	Forward mgl64.Vec3
	Right   mgl64.Vec3
	Up      mgl64.Vec3
}

// NewFrame builds a frame from forward and right; up is derived so the basis stays
// left-handed (right x up = forward).
func NewFrame(origin, forward, right mgl64.Vec3) Frame {
	return Frame{
		Origin:  origin,
		Forward: forward,
		Right:   right,
		Up:      forward.Cross(right),
	}
}

// YawFrame builds a level frame at origin facing yaw
func YawFrame(origin mgl64.Vec3, yaw float64) Frame {
	return Frame{
		Origin:  origin,
		Forward: YawForward(yaw),
		Right:   YawRight(yaw),
		Up:      Up,
	}
}

// InverseTransformDirection expresses a world direction in local (right, up, forward) components
func (f Frame) InverseTransformDirection(v mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{v.Dot(f.Right), v.Dot(f.Up), v.Dot(f.Forward)}
}

// InverseTransformPoint expresses a world point in local coordinates
func (f Frame) InverseTransformPoint(p mgl64.Vec3) mgl64.Vec3 {
	return f.InverseTransformDirection(p.Sub(f.Origin))
}

// TransformDirection maps a local direction back to world space
func (f Frame) TransformDirection(v mgl64.Vec3) mgl64.Vec3 {
	return f.Right.Mul(v.X()).Add(f.Up.Mul(v.Y())).Add(f.Forward.Mul(v.Z()))
}

// TransformPoint maps a local point back to world space
func (f Frame) TransformPoint(p mgl64.Vec3) mgl64.Vec3 {
	return f.Origin.Add(f.TransformDirection(p))
}
