package game

import (
	"github.com/hajimehoshi/ebiten/v2"

	"driftchase/vehicle"
)

// KeyState reports whether a key is held
type KeyState func(ebiten.Key) bool

// Keyboard maps held keys to driver input
type Keyboard struct {
	pressed KeyState
}

// NewKeyboard reads the live ebiten key state
func NewKeyboard() *Keyboard {
	return &Keyboard{pressed: ebiten.IsKeyPressed}
}

// Sample returns the driver input for this frame. Arrows or WASD drive,
// Space pulls the handbrake.
func (k *Keyboard) Sample() vehicle.DriverInput {
	return driverInput(k.pressed)
}

func driverInput(pressed KeyState) vehicle.DriverInput {
	var in vehicle.DriverInput
	if pressed(ebiten.KeyArrowUp) || pressed(ebiten.KeyW) {
		in.Throttle++
	}
	if pressed(ebiten.KeyArrowDown) || pressed(ebiten.KeyS) {
		in.Throttle--
	}
	if pressed(ebiten.KeyArrowLeft) || pressed(ebiten.KeyA) {
		in.Steer--
	}
	if pressed(ebiten.KeyArrowRight) || pressed(ebiten.KeyD) {
		in.Steer++
	}
	in.Handbrake = pressed(ebiten.KeySpace)
	return in
}
