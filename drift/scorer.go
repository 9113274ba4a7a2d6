// Package drift scores slides: it classifies each tick as drifting or not from the
// car's velocity heading, and turns the length and angle of each drift into points.
package drift

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"driftchase/vehicle"
	"driftchase/vmath"
)

// Params tunes a Scorer
type Params struct {
	MinAngle         float64 // degrees; slides below this do not count
	MaxAngle         float64 // degrees; angle bonus saturates here
	MinSpeed         float64 // units/s
	PointsPerSecond  float64
	MultiplierGrowth float64 // per second of continuous drift
	MaxMultiplier    float64
}

// DefaultParams returns the stock scoring
func DefaultParams() Params {
	return Params{
		MinAngle:         15,
		MaxAngle:         60,
		MinSpeed:         10,
		PointsPerSecond:  50,
		MultiplierGrowth: 0.2,
		MaxMultiplier:    5,
	}
}

// ErrInvalidParams is wrapped by Validate failures
var ErrInvalidParams = errors.New("invalid drift params")

// Validate checks the parameter ranges
func (p Params) Validate() error {
	if p.MinAngle < 0 || p.MaxAngle <= p.MinAngle {
		return fmt.Errorf("%w: need 0 <= minAngle < maxAngle, got %v and %v", ErrInvalidParams, p.MinAngle, p.MaxAngle)
	}
	if p.MinSpeed < 0 || p.PointsPerSecond < 0 || p.MultiplierGrowth < 0 {
		return fmt.Errorf("%w: speeds, rates and growth must not be negative", ErrInvalidParams)
	}
	if p.MaxMultiplier < 1 {
		return fmt.Errorf("%w: maxMultiplier %v below 1", ErrInvalidParams, p.MaxMultiplier)
	}
	return nil
}

// State is the scorer memory
type State struct {
	Drifting   bool
	Time       float64 // seconds in the current drift
	Multiplier float64 // [1, MaxMultiplier]
	Points     float64 // provisional points of the current drift
	Total      float64 // banked points of completed drifts
}

// EventKind distinguishes scorer events
type EventKind int

const (
	Started EventKind = iota + 1
	Ended
)

func (k EventKind) String() string {
	switch k {
	case Started:
		return "started"
	case Ended:
		return "ended"
	default:
		return "none"
	}
}

// Event is emitted on drift transitions. Points is set on Ended.
type Event struct {
	Kind   EventKind
	Points float64
}

// SlipSource reports whether the tyres are sliding
type SlipSource interface {
	IsDrifting() bool
}

// Scorer tracks one car. It is not safe for concurrent use.
type Scorer struct {
	params Params
	state  State
	angle  float64
	best   float64
}

// NewScorer creates a scorer with multiplier 1 and everything else zero
func NewScorer(params Params) *Scorer {
	return &Scorer{params: params, state: State{Multiplier: 1}}
}

// Params returns the scoring tuning
func (s *Scorer) Params() Params {
	return s.params
}

// State returns a copy of the scorer memory
func (s *Scorer) State() State {
	return s.state
}

// Reset starts a new session
func (s *Scorer) Reset() {
	s.state = State{Multiplier: 1}
	s.angle = 0
	s.best = 0
}

// Angle returns the drift angle derived on the last tick, in degrees
func (s *Scorer) Angle() float64 {
	return s.angle
}

// Best returns the largest single drift banked this session
func (s *Scorer) Best() float64 {
	return s.best
}

// DisplayScore is banked plus in-progress points
func (s *Scorer) DisplayScore() float64 {
	return s.state.Total + s.state.Points
}

// DisplayMultiplier is the current drift multiplier
func (s *Scorer) DisplayMultiplier() float64 {
	return s.state.Multiplier
}

// Angle returns the unsigned angle in degrees between the velocity heading and the nose
func Angle(self vehicle.State) float64 {
	local := self.LocalVelocity()
	return math.Abs(mgl64.RadToDeg(math.Atan2(local.X(), local.Z())))
}

// Observe is Tick with the slip flag read from src; a nil src counts as not sliding
func (s *Scorer) Observe(self vehicle.State, src SlipSource, dt float64) (Event, bool) {
	slipping := false
	if src != nil {
		slipping = src.IsDrifting()
	}
	return s.Tick(self, slipping, dt)
}

// Tick classifies one snapshot and updates the score. It returns an event on
// drift start and end.
func (s *Scorer) Tick(self vehicle.State, slipping bool, dt float64) (Event, bool) {
	p := s.params
	s.angle = Angle(self)
	now := s.angle > p.MinAngle && self.Speed() > p.MinSpeed && slipping

	if !now {
		if !s.state.Drifting {
			return Event{}, false
		}
		points := s.state.Points
		s.state.Total += points
		s.best = math.Max(s.best, points)
		s.state = State{Multiplier: 1, Total: s.state.Total}
		return Event{Kind: Ended, Points: points}, true
	}

	var ev Event
	started := false
	if !s.state.Drifting {
		s.state.Drifting = true
		ev, started = Event{Kind: Started}, true
	}

	s.state.Time += dt
	s.state.Multiplier = math.Min(s.state.Multiplier+p.MultiplierGrowth*dt, p.MaxMultiplier)
	angleFactor := vmath.InverseLerp(p.MinAngle, p.MaxAngle, s.angle)
	s.state.Points = s.state.Time * p.PointsPerSecond * s.state.Multiplier * (1 + angleFactor)
	return ev, started
}
