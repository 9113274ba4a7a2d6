package main

import (
	"github.com/gdamore/tcell/v2"

	"driftchase/vehicle"
)

// holdTime is how long one key event keeps a control held. Terminals only
// report presses and auto-repeat, so a held key is a stream of presses.
const holdTime = 0.2

// heldInput turns terminal key presses into a driver input sample
type heldInput struct {
	throttle, steer       float64
	throttleFor, steerFor float64
	handbrakeFor          float64
}

// press records one key event. It reports false for keys it does not drive with.
func (h *heldInput) press(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyUp:
		h.throttle, h.throttleFor = 1, holdTime
	case tcell.KeyDown:
		h.throttle, h.throttleFor = -1, holdTime
	case tcell.KeyLeft:
		h.steer, h.steerFor = -1, holdTime
	case tcell.KeyRight:
		h.steer, h.steerFor = 1, holdTime
	case tcell.KeyRune:
		switch ev.Rune() {
		case ' ':
			h.handbrakeFor = holdTime
		case 'w':
			h.throttle, h.throttleFor = 1, holdTime
		case 's':
			h.throttle, h.throttleFor = -1, holdTime
		case 'a':
			h.steer, h.steerFor = -1, holdTime
		case 'd':
			h.steer, h.steerFor = 1, holdTime
		default:
			return false
		}
	default:
		return false
	}
	return true
}

// sample returns the controls still held and runs their timers down by dt
func (h *heldInput) sample(dt float64) vehicle.DriverInput {
	var in vehicle.DriverInput
	if h.throttleFor > 0 {
		in.Throttle = h.throttle
		h.throttleFor -= dt
	}
	if h.steerFor > 0 {
		in.Steer = h.steer
		h.steerFor -= dt
	}
	if h.handbrakeFor > 0 {
		in.Handbrake = true
		h.handbrakeFor -= dt
	}
	return in
}
