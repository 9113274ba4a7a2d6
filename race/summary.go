package race

import (
	"fmt"
	"strings"
)

// Outcome of a race
type Outcome int

const (
	OutcomeRacing Outcome = iota
	OutcomeWon
	OutcomeLost
)

func (o Outcome) String() string {
	switch o {
	case OutcomeWon:
		return "won"
	case OutcomeLost:
		return "lost"
	default:
		return "racing"
	}
}

// Summary is the end-of-run report
type Summary struct {
	Level      string
	Car        string
	Outcome    Outcome
	Time       float64 // race clock, frozen at the outcome
	Coins      int
	TotalCoins int
	Drifts     int
	DriftTotal float64
	BestDrift  float64
	Bumps      int
	Ticks      uint64
}

// Summary reports the current race
func (r *Race) Summary() Summary {
	s := Summary{
		Level:      r.opts.Level.Name,
		Car:        r.opts.PlayerCar.Name,
		Time:       r.session.Elapsed(),
		Coins:      r.session.Collected(),
		TotalCoins: r.session.Total(),
		Drifts:     r.drifts,
		DriftTotal: r.scorer.State().Total,
		BestDrift:  r.scorer.Best(),
		Bumps:      r.bumps,
		Ticks:      r.tick,
	}
	switch {
	case r.session.Won():
		s.Outcome = OutcomeWon
	case r.session.Over():
		s.Outcome = OutcomeLost
	}
	return s
}

func (s Summary) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s on %s: %s\n", s.Car, s.Level, s.Outcome)
	fmt.Fprintf(&b, "  time     %.2fs (%d ticks)\n", s.Time, s.Ticks)
	fmt.Fprintf(&b, "  coins    %d/%d\n", s.Coins, s.TotalCoins)
	fmt.Fprintf(&b, "  drifts   %d, total %.0f, best %.0f\n", s.Drifts, s.DriftTotal, s.BestDrift)
	fmt.Fprintf(&b, "  bumps    %d\n", s.Bumps)
	return b.String()
}
