// Package event carries race notifications from the simulation to whoever owns
// the session: HUD state, audio, telemetry. Events are queued during a tick and
// dispatched in order when the tick flushes.
package event

// Type represents the type of race event
type Type int

const (
	// RaceStarted fires when a race begins or restarts
	// Trigger: race.New, race.Restart | Payload: none
	RaceStarted Type = iota + 1

	// DriftStarted fires on the first drifting tick
	// Trigger: drift scorer | Payload: none
	DriftStarted

	// DriftEnded fires when a drift stops
	// Trigger: drift scorer | Payload: Points
	DriftEnded

	// CoinCollected fires when the player touches a coin
	// Trigger: pickup overlap | Payload: PickupID, Count
	CoinCollected

	// BombHit fires when the player touches a bomb
	// Trigger: pickup overlap | Payload: PickupID
	BombHit

	// RaceWon fires once when the last required coin is collected
	// Trigger: session | Payload: FinalTime
	RaceWon

	// GameOver fires once when the race is lost
	// Trigger: session | Payload: FinalTime
	GameOver
)

var typeNames = map[Type]string{
	RaceStarted:   "RaceStarted",
	DriftStarted:  "DriftStarted",
	DriftEnded:    "DriftEnded",
	CoinCollected: "CoinCollected",
	BombHit:       "BombHit",
	RaceWon:       "RaceWon",
	GameOver:      "GameOver",
}

func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return "Unknown"
}

// Event is one notification. Only the fields named by its Type's payload are set.
type Event struct {
	Type Type
	Tick uint64  // simulation step that produced it
	Time float64 // race clock in seconds

	Points    float64
	PickupID  int
	Count     int
	FinalTime float64
}
