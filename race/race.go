// Package race runs one chase: the player car, the pursuing car, the drift
// scorer and the coin session, stepped together at a fixed rate.
package race

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/rs/zerolog"

	"driftchase/drift"
	"driftchase/event"
	"driftchase/level"
	"driftchase/logging"
	"driftchase/pursuit"
	"driftchase/session"
	"driftchase/vehicle"
	"driftchase/world"
)

// DT is the fixed simulation step
const DT = 1.0 / 60.0

// Options configures a race
type Options struct {
	Level     level.Level
	PlayerCar vehicle.Spec
	ChaserCar vehicle.Spec

	Pursuit pursuit.Params
	Drift   drift.Params
	Session session.Params

	Seed   int64
	Logger zerolog.Logger

	// Bus receives race events. A fresh bus is created when nil.
	Bus *event.Bus
}

// Race owns the world and both cars
type Race struct {
	opts    Options
	log     zerolog.Logger
	bumpLog zerolog.Logger
	bus     *event.Bus

	world   *world.World
	player  *vehicle.Car
	chaser  *vehicle.Car
	pursuer *pursuit.Controller
	scorer  *drift.Scorer
	session *session.Session

	tick    uint64
	elapsed float64
	drifts  int
	bumps   int
}

// New validates the options, builds the level and publishes RaceStarted
func New(opts Options) (*Race, error) {
	if err := opts.Pursuit.Validate(); err != nil {
		return nil, fmt.Errorf("race: %w", err)
	}
	if err := opts.Drift.Validate(); err != nil {
		return nil, fmt.Errorf("race: %w", err)
	}
	if opts.Session.TotalCoins <= 0 {
		opts.Session.TotalCoins = len(opts.Level.Coins)
	}
	if opts.Bus == nil {
		opts.Bus = event.NewBus()
	}

	r := &Race{
		opts:    opts,
		log:     opts.Logger.With().Str("component", "race").Str("level", opts.Level.Name).Logger(),
		bus:     opts.Bus,
		pursuer: pursuit.New(opts.Pursuit, opts.ChaserCar),
		scorer:  drift.NewScorer(opts.Drift),
		session: session.New(opts.Session, nil),
	}
	r.bumpLog = logging.Sampled(r.log)
	r.session.Attach(r.bus)
	r.bus.SubscribeAll(r.logEvent)
	r.Restart()
	return r, nil
}

// Restart rebuilds the level and puts both cars back on their spawns
func (r *Race) Restart() {
	l := r.opts.Level
	r.world = l.Build(r.opts.Seed)
	r.player = vehicle.NewCar(r.opts.PlayerCar, l.PlayerSpawn.Position(), l.PlayerSpawn.Yaw)
	r.chaser = vehicle.NewCar(r.opts.ChaserCar, l.ChaserSpawn.Position(), l.ChaserSpawn.Yaw)
	r.pursuer.Reset()
	r.scorer.Reset()
	r.session.Start()
	r.tick = 0
	r.elapsed = 0
	r.drifts = 0
	r.bumps = 0

	r.publish(event.Event{Type: event.RaceStarted})
	r.bus.Flush()
}

// Step advances the race by DT. Once the race has an outcome the player's
// input is ignored and the car coasts.
func (r *Race) Step(in vehicle.DriverInput) {
	r.tick++
	clock := pursuit.Clock{Elapsed: r.elapsed, DT: DT}

	// Both controllers read the tick-start snapshots.
	playerState := r.player.State()
	chaserState := r.chaser.State()

	r.pursuer.Drive(chaserState, &playerState, r.world, r.chaser, clock)

	if r.session.Finished() {
		in = vehicle.DriverInput{}
	}
	r.player.Drive(in)

	if ev, ok := r.scorer.Observe(playerState, r.player, DT); ok {
		switch ev.Kind {
		case drift.Started:
			r.publish(event.Event{Type: event.DriftStarted})
		case drift.Ended:
			r.drifts++
			r.publish(event.Event{Type: event.DriftEnded, Points: ev.Points})
		}
	}

	r.player.Step(DT)
	r.chaser.Step(DT)
	r.player.Collide(r.world, world.LayerAll)
	r.chaser.Collide(r.world, world.LayerAll)
	if separate(r.player, r.chaser) {
		r.bumps++
		r.bumpLog.Debug().Uint64("tick", r.tick).Float64("speed", r.player.State().Speed()).Msg("chaser contact")
	}

	r.collectPickups()

	r.world.Animate(r.elapsed, DT)
	r.session.Advance(DT)
	r.elapsed += DT
	r.bus.Flush()
}

func (r *Race) collectPickups() {
	p := r.player.State().Position
	for _, pk := range r.world.Touching(p, r.player.Spec().Radius()) {
		pk.Collected = true
		switch pk.Kind {
		case world.PickupCoin:
			count := len(r.opts.Level.Coins) - r.world.Remaining(world.PickupCoin)
			r.publish(event.Event{Type: event.CoinCollected, PickupID: pk.ID, Count: count})
		case world.PickupBomb:
			r.publish(event.Event{Type: event.BombHit, PickupID: pk.ID})
		}
	}
}

// separate pushes overlapping cars apart, half each, and cancels their closing speed
func separate(a, b *vehicle.Car) bool {
	pa, pb := a.State().Position, b.State().Position
	delta := mgl64.Vec3{pb.X() - pa.X(), 0, pb.Z() - pa.Z()}
	dist := delta.Len()
	minDist := a.Spec().Radius() + b.Spec().Radius()
	if dist >= minDist {
		return false
	}
	normal := mgl64.Vec3{0, 0, 1}
	if dist > 1e-9 {
		normal = delta.Mul(1 / dist)
	}
	push := normal.Mul((minDist - dist) / 2)
	a.Nudge(push.Mul(-1))
	b.Nudge(push)

	va, vb := a.State().Velocity, b.State().Velocity
	closing := va.Sub(vb).Dot(normal)
	if closing > 0 {
		impulse := normal.Mul(closing / 2)
		a.SetVelocity(va.Sub(impulse))
		b.SetVelocity(vb.Add(impulse))
	}
	return true
}

func (r *Race) publish(e event.Event) {
	e.Tick = r.tick
	e.Time = r.elapsed
	r.bus.Publish(e)
}

func (r *Race) logEvent(e event.Event) {
	switch e.Type {
	case event.DriftEnded:
		r.log.Debug().Uint64("tick", r.tick).Float64("points", e.Points).Msg("drift ended")
	case event.CoinCollected:
		r.log.Info().Int("pickup", e.PickupID).Int("count", e.Count).Msg("coin collected")
	case event.BombHit:
		r.log.Info().Int("pickup", e.PickupID).Msg("bomb hit")
	case event.RaceWon:
		r.log.Info().Float64("final_time", e.FinalTime).Msg("race won")
	case event.GameOver:
		r.log.Info().Float64("final_time", e.FinalTime).Msg("game over")
	case event.RaceStarted:
		r.log.Debug().
			Str("player", r.opts.PlayerCar.Name).
			Str("chaser", r.opts.ChaserCar.Name).
			Msg("race started")
	}
}

// World returns the level world
func (r *Race) World() *world.World { return r.world }

// Player returns the player car
func (r *Race) Player() *vehicle.Car { return r.player }

// Chaser returns the pursuing car
func (r *Race) Chaser() *vehicle.Car { return r.chaser }

// Pursuit returns the chaser's controller
func (r *Race) Pursuit() *pursuit.Controller { return r.pursuer }

// Scorer returns the player's drift scorer
func (r *Race) Scorer() *drift.Scorer { return r.scorer }

// Session returns the coin session
func (r *Race) Session() *session.Session { return r.session }

// Bus returns the event bus
func (r *Race) Bus() *event.Bus { return r.bus }

// Level returns the layout being raced
func (r *Race) Level() level.Level { return r.opts.Level }

// Elapsed returns simulated seconds since the start, including after the outcome
func (r *Race) Elapsed() float64 { return r.elapsed }

// Tick returns the number of steps taken
func (r *Race) Tick() uint64 { return r.tick }

// Gap is the ground distance from the chaser to the player
func (r *Race) Gap() float64 {
	a, b := r.player.State().Position, r.chaser.State().Position
	return math.Hypot(a.X()-b.X(), a.Z()-b.Z())
}
