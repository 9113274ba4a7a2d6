package pursuit

// Phase is the throttle band the controller chose on its last tick
type Phase int

const (
	PhaseIdle    Phase = iota // no tick has run with a target
	PhaseChase                // beyond 0.8x follow distance, accelerating
	PhaseCoast                // between 0.5x and 0.8x, off throttle
	PhaseBackOff              // inside 0.5x, reversing
)

// String returns a human-readable name for the phase
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "IDLE"
	case PhaseChase:
		return "CHASE"
	case PhaseCoast:
		return "COAST"
	case PhaseBackOff:
		return "BACK OFF"
	default:
		return "UNKNOWN"
	}
}
