package world

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Hit describes the nearest ray intersection
type Hit struct {
	Point    mgl64.Vec3
	Normal   mgl64.Vec3
	Distance float64
	Obstacle *Obstacle
}

// Raycaster answers ray queries against the obstacles of one tick
type Raycaster interface {
	Cast(origin, dir mgl64.Vec3, maxDist float64, mask Layer) (Hit, bool)
}

// Cast returns the nearest obstacle hit by the ray within maxDist.
// The direction is projected onto the X/Z plane and normalized; a zero direction never hits.
// A ray starting inside an obstacle hits it at distance 0 with the normal facing back along the ray.
func (w *World) Cast(origin, dir mgl64.Vec3, maxDist float64, mask Layer) (Hit, bool) {
	dx, dz := dir.X(), dir.Z()
	l := math.Hypot(dx, dz)
	if l < 1e-9 || maxDist <= 0 {
		return Hit{}, false
	}
	dx, dz = dx/l, dz/l

	ox, oz := origin.X(), origin.Z()
	ex, ez := ox+dx*maxDist, oz+dz*maxDist
	candidates := w.ObstaclesInRect(math.Min(ox, ex), math.Min(oz, ez), math.Max(ox, ex), math.Max(oz, ez), mask)

	best := Hit{Distance: math.Inf(1)}
	found := false
	for _, o := range candidates {
		var t float64
		var n mgl64.Vec3
		var ok bool
		switch o.Shape {
		case ShapeCircle:
			t, n, ok = rayCircle(ox, oz, dx, dz, o)
		case ShapeBox:
			t, n, ok = rayBox(ox, oz, dx, dz, o)
		}
		if !ok || t > maxDist || t >= best.Distance {
			continue
		}
		best = Hit{
			Point:    mgl64.Vec3{ox + dx*t, origin.Y(), oz + dz*t},
			Normal:   n,
			Distance: t,
			Obstacle: o,
		}
		found = true
	}
	return best, found
}

func rayCircle(ox, oz, dx, dz float64, o *Obstacle) (float64, mgl64.Vec3, bool) {
	px, pz := ox-o.Center.X(), oz-o.Center.Z()
	b := px*dx + pz*dz
	c := px*px + pz*pz - o.Radius*o.Radius
	if c <= 0 {
		return 0, mgl64.Vec3{-dx, 0, -dz}, true
	}
	disc := b*b - c
	if disc < 0 {
		return 0, mgl64.Vec3{}, false
	}
	t := -b - math.Sqrt(disc)
	if t < 0 {
		return 0, mgl64.Vec3{}, false
	}
	hx, hz := px+dx*t, pz+dz*t
	return t, mgl64.Vec3{hx / o.Radius, 0, hz / o.Radius}, true
}

func rayBox(ox, oz, dx, dz float64, o *Obstacle) (float64, mgl64.Vec3, bool) {
	minX, minZ, maxX, maxZ := o.Bounds()
	if ox >= minX && ox <= maxX && oz >= minZ && oz <= maxZ {
		return 0, mgl64.Vec3{-dx, 0, -dz}, true
	}

	tMin, tMax := math.Inf(-1), math.Inf(1)
	var normal mgl64.Vec3

	slab := func(origin, d, lo, hi float64, axis int) bool {
		if math.Abs(d) < 1e-12 {
			return origin >= lo && origin <= hi
		}
		t1, t2 := (lo-origin)/d, (hi-origin)/d
		n := -1.0
		if t1 > t2 {
			t1, t2 = t2, t1
			n = 1.0
		}
		if t1 > tMin {
			tMin = t1
			normal = mgl64.Vec3{}
			normal[axis] = n
		}
		tMax = math.Min(tMax, t2)
		return tMin <= tMax
	}

	if !slab(ox, dx, minX, maxX, 0) || !slab(oz, dz, minZ, maxZ, 2) {
		return 0, mgl64.Vec3{}, false
	}
	if tMin < 0 {
		return 0, mgl64.Vec3{}, false
	}
	return tMin, normal, true
}
