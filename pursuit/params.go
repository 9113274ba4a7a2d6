package pursuit

import (
	"errors"
	"fmt"

	"driftchase/world"
)

// Params tunes a Controller. All values are positive except CorneringSpeedFactor, which lies in [0, 1].
type Params struct {
	// FollowDistance is how far behind the target the controller tries to stay
	FollowDistance float64

	// MinSpeed and MaxSpeed bound the throttle easing band and steering attenuation
	MinSpeed float64
	MaxSpeed float64

	// SteeringSharpness is the proportional gain on lateral offset
	SteeringSharpness float64

	// AvoidanceDistance is the forward sensor range; side sensors reach 70% of it
	AvoidanceDistance float64

	// PredictionTime is how far ahead the target's velocity is extrapolated (seconds)
	PredictionTime float64

	// AccelerationSensitivity eases off the gas as speed approaches MaxSpeed
	AccelerationSensitivity float64

	// BrakeSensitivity is the (negated) throttle used when too close
	BrakeSensitivity float64

	// CorneringSpeedFactor shrinks steering authority at speed
	CorneringSpeedFactor float64

	// ObstacleMask selects which layers the sensors see
	ObstacleMask world.Layer
}

// DefaultParams returns the stock chaser tuning
func DefaultParams() Params {
	return Params{
		FollowDistance:          15,
		MinSpeed:                20,
		MaxSpeed:                80,
		SteeringSharpness:       2,
		AvoidanceDistance:       8,
		PredictionTime:          1,
		AccelerationSensitivity: 0.5,
		BrakeSensitivity:        1,
		CorneringSpeedFactor:    0.7,
		ObstacleMask:            world.LayerWall | world.LayerProp,
	}
}

// ErrInvalidParams is wrapped by Validate failures
var ErrInvalidParams = errors.New("invalid pursuit params")

// Validate checks the parameter ranges
func (p Params) Validate() error {
	positive := []struct {
		name  string
		value float64
	}{
		{"followDistance", p.FollowDistance},
		{"maxSpeed", p.MaxSpeed},
		{"steeringSharpness", p.SteeringSharpness},
		{"avoidanceDistance", p.AvoidanceDistance},
		{"brakeSensitivity", p.BrakeSensitivity},
	}
	for _, f := range positive {
		if f.value <= 0 {
			return fmt.Errorf("%w: %s must be positive, got %v", ErrInvalidParams, f.name, f.value)
		}
	}
	if p.MinSpeed < 0 || p.PredictionTime < 0 || p.AccelerationSensitivity < 0 {
		return fmt.Errorf("%w: minSpeed, predictionTime and accelerationSensitivity must not be negative", ErrInvalidParams)
	}
	if p.MinSpeed >= p.MaxSpeed {
		return fmt.Errorf("%w: minSpeed %v must be below maxSpeed %v", ErrInvalidParams, p.MinSpeed, p.MaxSpeed)
	}
	if p.CorneringSpeedFactor < 0 || p.CorneringSpeedFactor > 1 {
		return fmt.Errorf("%w: corneringSpeedFactor %v outside [0,1]", ErrInvalidParams, p.CorneringSpeedFactor)
	}
	return nil
}
