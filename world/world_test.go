package world

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCellAddRemove(t *testing.T) {
	c := NewCell(2)
	a := &Obstacle{}
	b := &Obstacle{}
	c.Add(a)
	c.Add(a)
	c.Add(b)
	assert.Equal(t, 2, c.Count())
	c.Remove(a)
	assert.Equal(t, 1, c.Count())
	assert.Same(t, b, c.Obstacles[0])
	c.Clear()
	assert.Zero(t, c.Count())
}

func TestWorldToCellClamps(t *testing.T) {
	w := New(DefaultConfig())
	x, z := w.WorldToCell(-1000, 1000)
	assert.Equal(t, 0, x)
	assert.Equal(t, w.Config.CellCountZ()-1, z)
	x, z = w.WorldToCell(0, 0)
	assert.Equal(t, 10, x)
	assert.Equal(t, 10, z)
}

func TestLargeObstacleSpansCells(t *testing.T) {
	w := New(DefaultConfig())
	wall := w.AddBox(0, 0, 50, 1, LayerWall)
	found := w.ObstaclesInRect(40, -1, 45, 1, LayerAll)
	require.Len(t, found, 1)
	assert.Same(t, wall, found[0])

	w.RemoveObstacle(wall)
	assert.Empty(t, w.ObstaclesInRect(40, -1, 45, 1, LayerAll))
	assert.Empty(t, w.Obstacles())
}

func TestCastCircle(t *testing.T) {
	w := New(DefaultConfig())
	w.AddCircle(0, 10, 2, LayerProp)

	hit, ok := w.Cast(mgl64.Vec3{}, mgl64.Vec3{0, 0, 1}, 20, LayerAll)
	require.True(t, ok)
	assert.InDelta(t, 8, hit.Distance, 1e-9)
	assert.True(t, hit.Normal.ApproxEqualThreshold(mgl64.Vec3{0, 0, -1}, 1e-9))
	assert.True(t, hit.Point.ApproxEqualThreshold(mgl64.Vec3{0, 0, 8}, 1e-9))

	_, ok = w.Cast(mgl64.Vec3{}, mgl64.Vec3{0, 0, 1}, 7, LayerAll)
	assert.False(t, ok, "beyond max distance")

	_, ok = w.Cast(mgl64.Vec3{}, mgl64.Vec3{0, 0, -1}, 20, LayerAll)
	assert.False(t, ok, "behind the origin")

	_, ok = w.Cast(mgl64.Vec3{}, mgl64.Vec3{0, 0, 1}, 20, LayerWall)
	assert.False(t, ok, "masked out")
}

func TestCastBoxNormals(t *testing.T) {
	w := New(DefaultConfig())
	w.AddBox(10, 0, 1, 5, LayerWall)

	hit, ok := w.Cast(mgl64.Vec3{}, mgl64.Vec3{1, 0, 0}, 20, LayerWall)
	require.True(t, ok)
	assert.InDelta(t, 9, hit.Distance, 1e-9)
	assert.Equal(t, mgl64.Vec3{-1, 0, 0}, hit.Normal)

	hit, ok = w.Cast(mgl64.Vec3{20, 0, 0}, mgl64.Vec3{-1, 0, 0}, 20, LayerWall)
	require.True(t, ok)
	assert.InDelta(t, 9, hit.Distance, 1e-9)
	assert.Equal(t, mgl64.Vec3{1, 0, 0}, hit.Normal)

	hit, ok = w.Cast(mgl64.Vec3{10, 0, -20}, mgl64.Vec3{0, 0, 1}, 30, LayerWall)
	require.True(t, ok)
	assert.InDelta(t, 15, hit.Distance, 1e-9)
	assert.Equal(t, mgl64.Vec3{0, 0, -1}, hit.Normal)
}

func TestCastNearestWins(t *testing.T) {
	w := New(DefaultConfig())
	far := w.AddCircle(0, 15, 1, LayerProp)
	near := w.AddCircle(0, 6, 1, LayerProp)
	hit, ok := w.Cast(mgl64.Vec3{}, mgl64.Vec3{0, 0, 1}, 30, LayerAll)
	require.True(t, ok)
	assert.Same(t, near, hit.Obstacle)
	assert.NotSame(t, far, hit.Obstacle)
}

func TestCastZeroDirection(t *testing.T) {
	w := New(DefaultConfig())
	w.AddCircle(0, 0, 5, LayerProp)
	_, ok := w.Cast(mgl64.Vec3{}, mgl64.Vec3{}, 10, LayerAll)
	assert.False(t, ok)
}

func TestOverlap(t *testing.T) {
	w := New(DefaultConfig())
	w.AddCircle(0, 0, 2, LayerProp)
	w.AddBox(10, 0, 1, 1, LayerWall)

	contacts := w.Overlap(mgl64.Vec3{3, 0, 0}, 1.5, LayerAll)
	require.Len(t, contacts, 1)
	assert.InDelta(t, 0.5, contacts[0].Depth, 1e-9)
	assert.Equal(t, mgl64.Vec3{1, 0, 0}, contacts[0].Normal)

	contacts = w.Overlap(mgl64.Vec3{8.5, 0, 0}, 1, LayerAll)
	require.Len(t, contacts, 1)
	assert.InDelta(t, 0.5, contacts[0].Depth, 1e-9)
	assert.Equal(t, mgl64.Vec3{-1, 0, 0}, contacts[0].Normal)

	// Centre inside the box pushes out through the nearest face.
	contacts = w.Overlap(mgl64.Vec3{10.8, 0, 0}, 1, LayerWall)
	require.Len(t, contacts, 1)
	assert.Equal(t, mgl64.Vec3{1, 0, 0}, contacts[0].Normal)
	assert.InDelta(t, 1.2, contacts[0].Depth, 1e-9)

	assert.Empty(t, w.Overlap(mgl64.Vec3{5, 0, 5}, 1, LayerAll))
}

func TestPickups(t *testing.T) {
	w := New(DefaultConfig())
	coin := w.AddPickup(PickupCoin, 0, 0)
	w.AddPickup(PickupBomb, 50, 0)
	assert.Equal(t, 1, w.Remaining(PickupCoin))

	touched := w.Touching(mgl64.Vec3{1, 0, 0}, 1)
	require.Len(t, touched, 1)
	assert.Same(t, coin, touched[0])

	coin.Collected = true
	assert.Empty(t, w.Touching(mgl64.Vec3{1, 0, 0}, 1))
	assert.Zero(t, w.Remaining(PickupCoin))
}

func TestPickupAnimation(t *testing.T) {
	w := New(DefaultConfig())
	p := w.AddPickup(PickupCoin, 0, 0)
	for i := 0; i < 60; i++ {
		w.Animate(float64(i)/60, 1.0/60)
	}
	assert.InDelta(t, 180, p.Spin, 1e-6)
	assert.LessOrEqual(t, math.Abs(p.Bob), pickupBobHeight)
}
