package vehicle

import (
	"errors"
	"fmt"
	"image/color"
	"sort"
)

// ErrUnknownCar is returned when a car name is not in the catalog
var ErrUnknownCar = errors.New("unknown car")

// DefaultCar is the name stored in preferences before the player picks a car
const DefaultCar = "DefaultCar"

// torqueScale converts the acceleration multiplier into wheel torque per unit throttle
const torqueScale = 50.0

// Spec holds the tuning of one car model
type Spec struct {
	// Name is the catalog key
	Name string

	// AccelerationMultiplier scales motor torque (torque = multiplier * 50 * throttle)
	AccelerationMultiplier float64

	// MaxSteeringAngle is the front wheel lock in degrees
	MaxSteeringAngle float64

	// SteeringSpeed is the per-tick lerp factor from the current to the requested steer angle
	SteeringSpeed float64

	// BrakeForce is the brake torque applied per wheel when braking
	BrakeForce float64

	// MaxSpeed and MaxReverseSpeed cap forward and backward speed in units/s
	MaxSpeed        float64
	MaxReverseSpeed float64

	// Mass and WheelRadius turn wheel torque into acceleration
	Mass        float64
	WheelRadius float64

	// Wheelbase drives the bicycle-model yaw rate
	Wheelbase float64

	// Grip is the lateral velocity decay rate (1/s) with tyres holding,
	// DriftGrip the same with the handbrake pulled
	Grip      float64
	DriftGrip float64

	// Drag is the rolling resistance decay rate (1/s)
	Drag float64

	// DriftThreshold is the lateral speed above which the tyres report a slide
	DriftThreshold float64

	// Length and Width of the body footprint
	Length float64
	Width  float64

	// Color tints the sprite
	Color color.NRGBA
}

// TorquePerThrottle is the per-wheel motor torque at full throttle
func (s Spec) TorquePerThrottle() float64 {
	return s.AccelerationMultiplier * torqueScale
}

// Radius of the collision circle
func (s Spec) Radius() float64 {
	return s.Width * 0.6
}

var catalog = map[string]Spec{
	"Car1": {
		Name:                   "Car1",
		AccelerationMultiplier: 3,
		MaxSteeringAngle:       27,
		SteeringSpeed:          0.5,
		BrakeForce:             350,
		MaxSpeed:               38,
		MaxReverseSpeed:        12,
		Mass:                   140,
		WheelRadius:            0.35,
		Wheelbase:              2.6,
		Grip:                   7,
		DriftGrip:              1.1,
		Drag:                   0.25,
		DriftThreshold:         2.5,
		Length:                 4.2,
		Width:                  2.0,
		Color:                  color.NRGBA{R: 230, G: 60, B: 50, A: 255},
	},
	"Car2": {
		Name:                   "Car2",
		AccelerationMultiplier: 2.5,
		MaxSteeringAngle:       30,
		SteeringSpeed:          0.6,
		BrakeForce:             400,
		MaxSpeed:               33,
		MaxReverseSpeed:        12,
		Mass:                   120,
		WheelRadius:            0.33,
		Wheelbase:              2.4,
		Grip:                   9,
		DriftGrip:              1.6,
		Drag:                   0.25,
		DriftThreshold:         2.5,
		Length:                 3.8,
		Width:                  1.9,
		Color:                  color.NRGBA{R: 60, G: 140, B: 230, A: 255},
	},
	"Car3": {
		Name:                   "Car3",
		AccelerationMultiplier: 4,
		MaxSteeringAngle:       24,
		SteeringSpeed:          0.4,
		BrakeForce:             300,
		MaxSpeed:               45,
		MaxReverseSpeed:        14,
		Mass:                   160,
		WheelRadius:            0.36,
		Wheelbase:              2.8,
		Grip:                   5.5,
		DriftGrip:              0.8,
		Drag:                   0.2,
		DriftThreshold:         2.5,
		Length:                 4.5,
		Width:                  2.0,
		Color:                  color.NRGBA{R: 250, G: 200, B: 40, A: 255},
	},
	"Chaser": {
		Name:                   "Chaser",
		AccelerationMultiplier: 3,
		MaxSteeringAngle:       27,
		SteeringSpeed:          0.5,
		BrakeForce:             350,
		MaxSpeed:               40,
		MaxReverseSpeed:        12,
		Mass:                   150,
		WheelRadius:            0.35,
		Wheelbase:              2.7,
		Grip:                   8,
		DriftGrip:              1.2,
		Drag:                   0.25,
		DriftThreshold:         2.5,
		Length:                 4.4,
		Width:                  2.0,
		Color:                  color.NRGBA{R: 40, G: 40, B: 60, A: 255},
	},
}

// aliases maps preference values that name a default rather than a model
var aliases = map[string]string{
	DefaultCar: "Car1",
	"":         "Car1",
}

// Lookup returns the spec for a car name
func Lookup(name string) (Spec, error) {
	if alias, ok := aliases[name]; ok {
		name = alias
	}
	spec, ok := catalog[name]
	if !ok {
		return Spec{}, fmt.Errorf("%w: %q", ErrUnknownCar, name)
	}
	return spec, nil
}

// Selectable returns the player-selectable car names in menu order
func Selectable() []string {
	names := make([]string, 0, len(catalog))
	for name := range catalog {
		if name == "Chaser" {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
