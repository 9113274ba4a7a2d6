package pursuit

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"driftchase/vehicle"
	"driftchase/vmath"
	"driftchase/world"
)

const dt = 1.0 / 60

// stubSensor answers casts from a fixed table keyed by probe index order
type stubSensor struct {
	hits  map[int]world.Hit
	calls []mgl64.Vec3
}

func (s *stubSensor) Cast(origin, dir mgl64.Vec3, maxDist float64, mask world.Layer) (world.Hit, bool) {
	i := len(s.calls)
	s.calls = append(s.calls, dir)
	hit, ok := s.hits[i]
	return hit, ok
}

func testSpec() vehicle.Spec {
	return vehicle.Spec{
		AccelerationMultiplier: 3,
		MaxSteeringAngle:       27,
		SteeringSpeed:          0.5,
		BrakeForce:             350,
	}
}

func stateAt(pos mgl64.Vec3, yaw float64, vel mgl64.Vec3) vehicle.State {
	return vehicle.State{
		Position: pos,
		Forward:  vmath.YawForward(yaw),
		Right:    vmath.YawRight(yaw),
		Velocity: vel,
	}
}

func TestDefaultParamsValid(t *testing.T) {
	require.NoError(t, DefaultParams().Validate())

	p := DefaultParams()
	p.CorneringSpeedFactor = 1.5
	assert.ErrorIs(t, p.Validate(), ErrInvalidParams)

	p = DefaultParams()
	p.MinSpeed = p.MaxSpeed
	assert.ErrorIs(t, p.Validate(), ErrInvalidParams)

	p = DefaultParams()
	p.FollowDistance = 0
	assert.ErrorIs(t, p.Validate(), ErrInvalidParams)
}

func TestTargetPositionBehindTarget(t *testing.T) {
	c := New(DefaultParams(), testSpec())
	self := stateAt(mgl64.Vec3{}, 0, mgl64.Vec3{})
	target := stateAt(mgl64.Vec3{0, 0, 20}, 0, mgl64.Vec3{})

	for _, elapsed := range []float64{0, 1, 3.14, 10, 100} {
		c.Tick(self, &target, nil, Clock{Elapsed: elapsed, DT: dt}, 0)
		tp := c.State().TargetPosition
		assert.InDelta(t, 5, tp.Z(), 1e-9, "15 units behind the target along its forward axis")
		assert.LessOrEqual(t, math.Abs(tp.X()), 2.0, "lateral weave is bounded")
		assert.InDelta(t, math.Sin(elapsed*0.5)*2, tp.X(), 1e-9)
	}
}

func TestTargetPredictionUsesVelocity(t *testing.T) {
	p := DefaultParams()
	p.PredictionTime = 2
	c := New(p, testSpec())
	self := stateAt(mgl64.Vec3{}, 0, mgl64.Vec3{})
	target := stateAt(mgl64.Vec3{0, 0, 50}, 0, mgl64.Vec3{0, 0, 10})

	c.Tick(self, &target, nil, Clock{DT: dt}, 0)
	assert.InDelta(t, 50+20-15, c.State().TargetPosition.Z(), 1e-9)
}

func TestThrottleTrendsPositiveWhenFarBehind(t *testing.T) {
	c := New(DefaultParams(), testSpec())
	self := stateAt(mgl64.Vec3{}, 0, mgl64.Vec3{})
	// Follow point lands 20 units ahead, beyond 0.8 x 15.
	target := stateAt(mgl64.Vec3{0, 0, 35}, 0, mgl64.Vec3{})

	cmd, ok := c.Tick(self, &target, nil, Clock{DT: dt}, 0)
	require.True(t, ok)
	assert.Greater(t, c.State().Throttle, 0.0)
	assert.Greater(t, cmd.MotorTorque, 0.0)
	assert.Zero(t, cmd.BrakeTorque)
	assert.Equal(t, PhaseChase, c.Phase())

	// At rest the speed factor is zero, so the target throttle is 1 and one step moves dt*3 of the way.
	assert.InDelta(t, dt*3, c.State().Throttle, 1e-12)
	assert.InDelta(t, 150*dt*3, cmd.MotorTorque, 1e-9)
}

func TestThrottleBandsAndBrake(t *testing.T) {
	c := New(DefaultParams(), testSpec())
	target := stateAt(mgl64.Vec3{0, 0, 20}, 0, mgl64.Vec3{})

	// Follow point 5 units ahead: back off.
	self := stateAt(mgl64.Vec3{}, 0, mgl64.Vec3{0, 0, 12})
	cmd, _ := c.Tick(self, &target, nil, Clock{DT: dt}, 0)
	assert.Equal(t, PhaseBackOff, c.Phase())
	assert.Less(t, c.State().Throttle, 0.0)
	assert.Zero(t, cmd.BrakeTorque, "target is 20 away, outside 0.6 x 15")

	// Follow point 10 units away: coast.
	c.Reset()
	self = stateAt(mgl64.Vec3{0, 0, -5}, 0, mgl64.Vec3{})
	c.Tick(self, &target, nil, Clock{DT: dt}, 0)
	assert.Equal(t, PhaseCoast, c.Phase())
	assert.Zero(t, c.State().Throttle)

	// Close to the target and fast: brakes engage.
	c.Reset()
	self = stateAt(mgl64.Vec3{0, 0, 12}, 0, mgl64.Vec3{0, 0, 11})
	cmd, _ = c.Tick(self, &target, nil, Clock{DT: dt}, 0)
	assert.Equal(t, 350.0, cmd.BrakeTorque)

	// Close but slow: no brakes.
	self = stateAt(mgl64.Vec3{0, 0, 12}, 0, mgl64.Vec3{0, 0, 9})
	cmd, _ = c.Tick(self, &target, nil, Clock{DT: dt}, 0)
	assert.Zero(t, cmd.BrakeTorque)
}

func TestSpeedFactorBounds(t *testing.T) {
	p := DefaultParams()
	for _, speed := range []float64{0, 5, 20, 50, 80, 120} {
		f := vmath.InverseLerp(p.MinSpeed, p.MaxSpeed, speed)
		assert.GreaterOrEqual(t, f, 0.0)
		assert.LessOrEqual(t, f, 1.0)
	}
}

func TestThrottleStaysInRange(t *testing.T) {
	p := DefaultParams()
	p.BrakeSensitivity = 0.8
	targets := []mgl64.Vec3{{0, 0, 60}, {0, 0, 20}, {0, 0, 25}}
	for _, start := range []float64{-0.8, -0.3, 0, 0.5, 1} {
		for _, tpos := range targets {
			for _, step := range []float64{0, dt, 0.1, 1, 5} {
				c := New(p, testSpec())
				c.state.Throttle = start
				self := stateAt(mgl64.Vec3{}, 0, mgl64.Vec3{0, 0, 30})
				target := stateAt(tpos, 0, mgl64.Vec3{})
				c.Tick(self, &target, nil, Clock{DT: step}, 0)
				th := c.State().Throttle
				assert.GreaterOrEqual(t, th, -p.BrakeSensitivity-1e-12)
				assert.LessOrEqual(t, th, 1.0+1e-12)
			}
		}
	}
}

func TestSteeringBounds(t *testing.T) {
	p := DefaultParams()
	// A huge dt makes the smoothed steering equal the attenuated target.
	for _, x := range []float64{-500, -3, 0, 3, 500} {
		c := New(p, testSpec())
		self := stateAt(mgl64.Vec3{}, 0, mgl64.Vec3{0, 0, p.MaxSpeed})
		target := stateAt(mgl64.Vec3{x, 0, 40}, 0, mgl64.Vec3{})
		c.Tick(self, &target, nil, Clock{DT: 10}, 0)
		limit := 1 - p.CorneringSpeedFactor
		assert.LessOrEqual(t, math.Abs(c.State().Steering), limit+1e-12)
	}

	// At rest the full [-1, 1] range is available and saturates.
	c := New(p, testSpec())
	self := stateAt(mgl64.Vec3{}, 0, mgl64.Vec3{})
	target := stateAt(mgl64.Vec3{100, 0, 20}, 0, mgl64.Vec3{})
	c.Tick(self, &target, nil, Clock{DT: 10}, 0)
	assert.InDelta(t, 1, c.State().Steering, 1e-12)
}

func TestSteeringBehindUsesFloor(t *testing.T) {
	c := New(DefaultParams(), testSpec())
	self := stateAt(mgl64.Vec3{}, 0, mgl64.Vec3{})
	// Follow point is 0.25 to the left and behind: local.z is negative so the divisor floors at 1.
	target := stateAt(mgl64.Vec3{-0.25, 0, 5}, 0, mgl64.Vec3{})
	c.Tick(self, &target, nil, Clock{DT: 10}, 0)
	assert.InDelta(t, -0.5, c.State().Steering, 1e-9)
	assert.False(t, math.IsNaN(c.State().Steering))
}

func TestSteerAngleLerpsFromPrevious(t *testing.T) {
	c := New(DefaultParams(), testSpec())
	self := stateAt(mgl64.Vec3{}, 0, mgl64.Vec3{})
	target := stateAt(mgl64.Vec3{100, 0, 20}, 0, mgl64.Vec3{})
	cmd, _ := c.Tick(self, &target, nil, Clock{DT: 10}, 10)
	// steering saturates at 1 -> 27 degrees, lerped halfway from 10.
	assert.InDelta(t, 18.5, cmd.SteerAngle, 1e-9)
}

func TestMissingTargetSkipsTick(t *testing.T) {
	c := New(DefaultParams(), testSpec())
	self := stateAt(mgl64.Vec3{}, 0, mgl64.Vec3{})
	target := stateAt(mgl64.Vec3{0, 0, 40}, 0, mgl64.Vec3{})
	first, ok := c.Tick(self, &target, nil, Clock{DT: dt}, 0)
	require.True(t, ok)
	before := c.State()

	cmd, ok := c.Tick(self, nil, nil, Clock{DT: dt}, 0)
	assert.False(t, ok)
	assert.Equal(t, first, cmd)
	assert.Equal(t, before, c.State())
}

func TestZeroDtIsIdempotent(t *testing.T) {
	c := New(DefaultParams(), testSpec())
	self := stateAt(mgl64.Vec3{1, 0, 2}, 0.3, mgl64.Vec3{2, 0, 9})
	target := stateAt(mgl64.Vec3{10, 0, 40}, 0.1, mgl64.Vec3{0, 0, 5})
	for i := 0; i < 10; i++ {
		c.Tick(self, &target, nil, Clock{Elapsed: float64(i) * dt, DT: dt}, 0)
	}
	clock := Clock{Elapsed: 1, DT: 0}
	c.Tick(self, &target, nil, clock, 0)
	first := c.State()
	c.Tick(self, &target, nil, clock, 0)
	assert.Equal(t, first, c.State())
}

func TestForwardObstacleAddsNormal(t *testing.T) {
	self := stateAt(mgl64.Vec3{}, 0, mgl64.Vec3{})
	target := stateAt(mgl64.Vec3{0, 0, 40}, 0, mgl64.Vec3{})
	normal := vmath.SafeNormalize(mgl64.Vec3{0.6, 0, -0.8})

	clear := New(DefaultParams(), testSpec())
	clear.Tick(self, &target, &stubSensor{}, Clock{DT: 10}, 0)
	assert.Equal(t, mgl64.Vec3{}, clear.State().AvoidanceVector)

	blocked := New(DefaultParams(), testSpec())
	sensor := &stubSensor{hits: map[int]world.Hit{0: {Point: mgl64.Vec3{0, 0, 4}, Normal: normal, Distance: 4}}}
	blocked.Tick(self, &target, sensor, Clock{DT: 10}, 0)

	av := blocked.State().AvoidanceVector
	assert.InDelta(t, 5, av.Len(), 1e-9)
	assert.True(t, av.ApproxEqualThreshold(normal.Mul(5), 1e-9))
	assert.Greater(t, blocked.State().Steering, clear.State().Steering, "deflected towards the normal")
	assert.True(t, blocked.Probes()[0].Hit)
	require.Len(t, sensor.calls, 5)
}

func TestSideProbesRepel(t *testing.T) {
	self := stateAt(mgl64.Vec3{}, 0, mgl64.Vec3{})
	target := stateAt(mgl64.Vec3{0, 0, 40}, 0, mgl64.Vec3{})

	// Probe 1 is the right-hand ray.
	c := New(DefaultParams(), testSpec())
	sensor := &stubSensor{hits: map[int]world.Hit{1: {Distance: 2}}}
	c.Tick(self, &target, sensor, Clock{DT: dt}, 0)
	assert.True(t, c.State().AvoidanceVector.ApproxEqualThreshold(mgl64.Vec3{-3, 0, 0}, 1e-9))

	// Probe 4 is the forward-left diagonal.
	c = New(DefaultParams(), testSpec())
	sensor = &stubSensor{hits: map[int]world.Hit{4: {Distance: 2}}}
	c.Tick(self, &target, sensor, Clock{DT: dt}, 0)
	want := vmath.SafeNormalize(mgl64.Vec3{-1, 0, 0.5}).Mul(-3)
	assert.True(t, c.State().AvoidanceVector.ApproxEqualThreshold(want, 1e-9))
	assert.InDelta(t, 3, c.State().AvoidanceVector.Len(), 1e-9)
}

func TestAvoidanceAgainstWorld(t *testing.T) {
	w := world.New(world.DefaultConfig())
	w.AddCircle(0, 6, 1, world.LayerProp)
	w.AddCircle(-50, 0, 1, world.LayerProp)

	c := New(DefaultParams(), testSpec())
	self := stateAt(mgl64.Vec3{}, 0, mgl64.Vec3{})
	target := stateAt(mgl64.Vec3{0, 0, 40}, 0, mgl64.Vec3{})
	c.Tick(self, &target, w, Clock{DT: dt}, 0)

	av := c.State().AvoidanceVector
	assert.True(t, av.ApproxEqualThreshold(mgl64.Vec3{0, 0, -5}, 1e-9))
}

type recordingDrivetrain struct {
	spec    vehicle.Spec
	steer   float64
	applied []vehicle.Command
}

func (d *recordingDrivetrain) Spec() vehicle.Spec  { return d.spec }
func (d *recordingDrivetrain) SteerAngle() float64 { return d.steer }
func (d *recordingDrivetrain) Apply(cmd vehicle.Command) {
	d.applied = append(d.applied, cmd)
	d.steer = cmd.SteerAngle
}

func TestDriveAppliesCommand(t *testing.T) {
	d := &recordingDrivetrain{spec: testSpec()}
	c := New(DefaultParams(), d.spec)
	self := stateAt(mgl64.Vec3{}, 0, mgl64.Vec3{})
	target := stateAt(mgl64.Vec3{20, 0, 40}, 0, mgl64.Vec3{})

	_, ok := c.Drive(self, &target, nil, d, Clock{DT: dt})
	require.True(t, ok)
	require.Len(t, d.applied, 1)

	_, ok = c.Drive(self, nil, nil, d, Clock{DT: dt})
	assert.False(t, ok)
	assert.Len(t, d.applied, 1, "skipped ticks hold the last actuation")
}

func TestChaserClosesOnTarget(t *testing.T) {
	spec, err := vehicle.Lookup("Chaser")
	require.NoError(t, err)
	car := vehicle.NewCar(spec, mgl64.Vec3{0, 0, -40}, 0)
	w := world.New(world.DefaultConfig())
	c := New(DefaultParams(), spec)
	target := stateAt(mgl64.Vec3{10, 0, 30}, 0, mgl64.Vec3{})

	start := vmath.Distance(car.State().Position, target.Position)
	for i := 0; i < 600; i++ {
		s := car.State()
		c.Drive(s, &target, w, car, Clock{Elapsed: float64(i) * dt, DT: dt})
		car.Step(dt)
	}
	end := vmath.Distance(car.State().Position, target.Position)
	assert.Less(t, end, start)
	assert.Less(t, end, 25.0)
}

func TestPhaseString(t *testing.T) {
	assert.Equal(t, "CHASE", PhaseChase.String())
	assert.Equal(t, "BACK OFF", PhaseBackOff.String())
	assert.Equal(t, "UNKNOWN", Phase(42).String())
}
