// Package session keeps score of one race: coins, the race clock and the
// win or game-over outcome, plus the HUD strings derived from them.
package session

import (
	"fmt"
	"math"

	"driftchase/event"
)

// Params tunes a session
type Params struct {
	// TotalCoins is how many coins win the race
	TotalCoins int

	// WinMessageDuration is how long the win banner stays up, in seconds
	WinMessageDuration float64
}

// DefaultParams returns the stock race rules
func DefaultParams() Params {
	return Params{
		TotalCoins:         10,
		WinMessageDuration: 3,
	}
}

// Mood is the chaser driver's reaction to the outcome
type Mood int

const (
	MoodIdle Mood = iota
	MoodVictory
	MoodCry
)

func (m Mood) String() string {
	switch m {
	case MoodVictory:
		return "victory"
	case MoodCry:
		return "cry"
	default:
		return "idle"
	}
}

// Session tracks one race. It publishes RaceWon and GameOver on its bus, if it has one.
type Session struct {
	params Params
	bus    *event.Bus

	collected int
	elapsed   float64
	racing    bool
	won       bool
	over      bool
	finalTime float64
	banner    float64
	mood      Mood
}

// New creates a session that is already racing
func New(params Params, bus *event.Bus) *Session {
	s := &Session{params: params, bus: bus}
	s.Start()
	return s
}

// Attach wires coin and bomb events from the bus into the session
func (s *Session) Attach(bus *event.Bus) {
	s.bus = bus
	bus.Subscribe(event.CoinCollected, func(event.Event) { s.CollectCoin() })
	bus.Subscribe(event.BombHit, func(event.Event) { s.TriggerGameOver() })
}

// Start resets the session and starts the clock
func (s *Session) Start() {
	s.collected = 0
	s.elapsed = 0
	s.racing = true
	s.won = false
	s.over = false
	s.finalTime = 0
	s.banner = 0
	s.mood = MoodIdle
}

// Advance runs the race clock and the banner timer
func (s *Session) Advance(dt float64) {
	if s.racing {
		s.elapsed += dt
	}
	if s.banner > 0 {
		s.banner = math.Max(0, s.banner-dt)
	}
}

// CollectCoin counts a coin. It is ignored after game over. Returns whether the coin counted.
func (s *Session) CollectCoin() bool {
	if s.over {
		return false
	}
	s.collected++
	if !s.won && s.collected >= s.params.TotalCoins {
		s.win()
	}
	return true
}

func (s *Session) win() {
	s.racing = false
	s.won = true
	s.finalTime = s.elapsed
	s.banner = s.params.WinMessageDuration
	s.mood = MoodVictory
	s.publish(event.Event{Type: event.RaceWon, Time: s.elapsed, FinalTime: s.finalTime})
}

// TriggerGameOver ends the race as lost. Repeated calls and calls after a win are ignored.
func (s *Session) TriggerGameOver() bool {
	if s.over || s.won {
		return false
	}
	s.racing = false
	s.over = true
	s.finalTime = s.elapsed
	s.mood = MoodCry
	s.publish(event.Event{Type: event.GameOver, Time: s.elapsed, FinalTime: s.finalTime})
	return true
}

func (s *Session) publish(e event.Event) {
	if s.bus != nil {
		s.bus.Publish(e)
	}
}

// Collected returns the number of coins collected
func (s *Session) Collected() int { return s.collected }

// Total returns the number of coins needed to win
func (s *Session) Total() int { return s.params.TotalCoins }

// Elapsed returns the race clock
func (s *Session) Elapsed() float64 { return s.elapsed }

// FinalTime returns the clock at the outcome, or 0 while racing
func (s *Session) FinalTime() float64 { return s.finalTime }

// Racing reports whether the clock is running
func (s *Session) Racing() bool { return s.racing }

// Won reports a completed race
func (s *Session) Won() bool { return s.won }

// Over reports a lost race
func (s *Session) Over() bool { return s.over }

// Mood returns the chaser driver's reaction
func (s *Session) Mood() Mood { return s.mood }

// Finished reports whether the race has an outcome
func (s *Session) Finished() bool { return s.won || s.over }

// CoinText is the coin counter line
func (s *Session) CoinText() string {
	return fmt.Sprintf("Coins: %d/%d", s.collected, s.params.TotalCoins)
}

// TimerText is the race clock line
func (s *Session) TimerText() string {
	return fmt.Sprintf("Time: %.2fs", s.elapsed)
}

// Banner is the centred outcome message, empty when none is showing
func (s *Session) Banner() string {
	switch {
	case s.over:
		return "GAME OVER!"
	case s.won && s.banner > 0:
		return fmt.Sprintf("YOU WIN!\nFinal Time: %.2fs", s.finalTime)
	default:
		return ""
	}
}

// DriftText formats a drift score, rounded half to even
func DriftText(score float64) string {
	return fmt.Sprintf("Drift: %d", int(math.RoundToEven(score)))
}

// MultiplierText formats a drift multiplier
func MultiplierText(multiplier float64) string {
	return fmt.Sprintf("x%.1f", multiplier)
}
