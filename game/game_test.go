package game

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"driftchase/drift"
	"driftchase/level"
	"driftchase/pursuit"
	"driftchase/race"
	"driftchase/session"
	"driftchase/vehicle"
)

func newRace(t *testing.T) *race.Race {
	t.Helper()
	l, err := level.Lookup("Harbor")
	require.NoError(t, err)
	player, err := vehicle.Lookup("Car1")
	require.NoError(t, err)
	chaser, err := vehicle.Lookup(ChaserCar)
	require.NoError(t, err)
	r, err := race.New(race.Options{
		Level:     l,
		PlayerCar: player,
		ChaserCar: chaser,
		Pursuit:   pursuit.DefaultParams(),
		Drift:     drift.DefaultParams(),
		Session:   session.DefaultParams(),
		Seed:      1,
		Logger:    zerolog.Nop(),
	})
	require.NoError(t, err)
	return r
}

func TestCameraRoundTrip(t *testing.T) {
	cam := NewCamera(800, 600, 4)
	cam.CenterOn(mgl64.Vec3{10, 0, 20})

	sx, sy := cam.WorldToScreen(10, 20)
	assert.InDelta(t, 400, sx, 1e-9)
	assert.InDelta(t, 300, sy, 1e-9)

	// +Z is up the screen, +X to the right.
	sx, sy = cam.WorldToScreen(11, 21)
	assert.InDelta(t, 404, sx, 1e-9)
	assert.InDelta(t, 296, sy, 1e-9)

	wx, wz := cam.ScreenToWorld(sx, sy)
	assert.InDelta(t, 11, wx, 1e-9)
	assert.InDelta(t, 21, wz, 1e-9)

	minX, minZ, maxX, maxZ := cam.VisibleBounds()
	assert.InDelta(t, -90, minX, 1e-9)
	assert.InDelta(t, 110, maxX, 1e-9)
	assert.InDelta(t, -55, minZ, 1e-9)
	assert.InDelta(t, 95, maxZ, 1e-9)
}

func TestCameraFollowEases(t *testing.T) {
	cam := NewCamera(800, 600, 4)
	cam.Follow(mgl64.Vec3{10, 0, -20}, 0.1)
	assert.InDelta(t, 1, cam.X, 1e-9)
	assert.InDelta(t, -2, cam.Z, 1e-9)
}

func TestDriverInputFromKeys(t *testing.T) {
	held := func(keys ...ebiten.Key) KeyState {
		return func(k ebiten.Key) bool {
			for _, h := range keys {
				if h == k {
					return true
				}
			}
			return false
		}
	}

	assert.Equal(t, vehicle.DriverInput{}, driverInput(held()))
	assert.Equal(t, vehicle.DriverInput{Throttle: 1, Steer: -1}, driverInput(held(ebiten.KeyArrowUp, ebiten.KeyA)))
	assert.Equal(t, vehicle.DriverInput{Throttle: -1, Steer: 1, Handbrake: true}, driverInput(held(ebiten.KeyS, ebiten.KeyArrowRight, ebiten.KeySpace)))

	// Opposite keys cancel.
	assert.Equal(t, vehicle.DriverInput{}, driverInput(held(ebiten.KeyW, ebiten.KeyS, ebiten.KeyArrowLeft, ebiten.KeyD)))
}

func TestMenuWraps(t *testing.T) {
	m := newMenu([]string{"Car1", "Car2", "Car3"}, "Car2")
	assert.Equal(t, "Car2", m.current())
	m.move(1)
	m.move(1)
	assert.Equal(t, "Car1", m.current())
	m.move(-1)
	assert.Equal(t, "Car3", m.current())

	m = newMenu([]string{"Harbor"}, "nope")
	assert.Equal(t, "Harbor", m.current())

	var empty menu
	empty.move(1)
	assert.Empty(t, empty.current())
}

func TestCarStats(t *testing.T) {
	spec, err := vehicle.Lookup("Car1")
	require.NoError(t, err)
	lines := carStats(spec)
	require.Len(t, lines, 4)
	assert.Contains(t, lines[0], "Top speed")
}

func TestSmokeEmitsOnlyWhileActive(t *testing.T) {
	spec, err := vehicle.Lookup("Car1")
	require.NoError(t, err)
	car := vehicle.NewCar(spec, mgl64.Vec3{}, 0)

	s := NewSmoke(50, 1)
	s.Update(0.5, car)
	assert.Zero(t, s.Count())

	s.SetActive(true)
	s.Update(0.1, car)
	assert.Positive(t, s.Count())
	assert.LessOrEqual(t, s.Count(), 50)

	for i := 0; i < 60; i++ {
		s.Update(0.05, car)
		assert.LessOrEqual(t, s.Count(), 50)
	}

	s.SetActive(false)
	s.Update(2, car)
	assert.Zero(t, s.Count(), "every particle outlives its lifetime")
}

func TestMinimapTrails(t *testing.T) {
	r := newRace(t)
	m := NewMinimap(180)

	for i := 0; i < 60; i++ {
		r.Step(vehicle.DriverInput{Throttle: 1})
		m.Update(race.DT, r.Player(), r.Chaser())
	}
	assert.GreaterOrEqual(t, m.TrailLen(0), 8)
	assert.LessOrEqual(t, m.TrailLen(0), 10)
	assert.Equal(t, m.TrailLen(0), m.TrailLen(1))

	for i := 0; i < 4*60; i++ {
		m.Update(race.DT, r.Player(), r.Chaser())
	}
	assert.LessOrEqual(t, m.TrailLen(0), minimapTrailMaxPoints)

	m.Reset()
	assert.Zero(t, m.TrailLen(0))
}

func TestMinimapProjectionFitsLevel(t *testing.T) {
	r := newRace(t)
	l := r.Level()
	m := NewMinimap(200)

	x, y := m.project(l, -l.Width/2, l.Depth/2)
	assert.GreaterOrEqual(t, x, 0.0)
	assert.GreaterOrEqual(t, y, 0.0)

	x, y = m.project(l, l.Width/2, -l.Depth/2)
	assert.LessOrEqual(t, x, 200.0+1e-9)
	assert.LessOrEqual(t, y, 200.0+1e-9)

	cx, cy := m.project(l, 0, 0)
	assert.InDelta(t, 100, cx, 1e-9)
	assert.InDelta(t, 100, cy, 1e-9)
}

func TestStatusLines(t *testing.T) {
	r := newRace(t)

	lines := statusLines(r, 0)
	require.Len(t, lines, 3)
	assert.Equal(t, "Coins: 0/10", lines[0])
	assert.Equal(t, "Time: 0.00s", lines[1])
	assert.Contains(t, lines[2], "Chaser: IDLE")

	lines = statusLines(r, 42.5)
	require.Len(t, lines, 4)
	assert.Equal(t, "Best: 42.50s", lines[2])
}

func TestDriftLines(t *testing.T) {
	r := newRace(t)
	assert.Empty(t, driftLines(r))

	r.Player().Teleport(mgl64.Vec3{-100, 0, -40}, 0)
	r.Player().SetVelocity(mgl64.Vec3{8, 0, 18})
	r.Step(vehicle.DriverInput{Handbrake: true})
	require.True(t, r.Scorer().State().Drifting)

	lines := driftLines(r)
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "Drift: ")
	assert.Equal(t, "x1.0", lines[1])
}

func TestProfilerRefusesOverlappingCaptures(t *testing.T) {
	dir := t.TempDir()
	p := NewProfiler(dir, zerolog.Nop())
	p.window = 20 * time.Millisecond

	require.NoError(t, p.CaptureProfile("test"))
	assert.ErrorIs(t, p.CaptureProfile("again"), ErrProfilerBusy)

	require.Eventually(t, func() bool { return !p.IsProfiling() }, 5*time.Second, 10*time.Millisecond)
	assert.ErrorIs(t, p.CaptureProfile("cooldown"), ErrProfilerBusy, "a finished capture still cools down")

	matches, err := filepath.Glob(filepath.Join(dir, "fps-drop-*-test.heap.prof"))
	require.NoError(t, err)
	assert.Len(t, matches, 1)
}
