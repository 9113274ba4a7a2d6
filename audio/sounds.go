package audio

import (
	"math"
	"math/rand"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
)

// WaveType selects the oscillator shape
type WaveType int

const (
	WaveSine WaveType = iota
	WaveSquare
	WaveSaw
	WaveNoise
)

// oscillator is a fixed-length tone
type oscillator struct {
	freq     float64
	phase    float64
	duration int
	position int
	wave     WaveType
	rate     beep.SampleRate
	rng      *rand.Rand
}

// NewOscillator creates a tone of the given shape and length
func NewOscillator(freq float64, duration time.Duration, wave WaveType, rate beep.SampleRate) beep.Streamer {
	return &oscillator{
		freq:     freq,
		duration: rate.N(duration),
		wave:     wave,
		rate:     rate,
		rng:      rand.New(rand.NewSource(int64(freq*1000) + 1)),
	}
}

func (o *oscillator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if o.position >= o.duration {
			return i, i > 0
		}

		var val float64
		switch o.wave {
		case WaveSine:
			val = math.Sin(2 * math.Pi * o.phase)
		case WaveSquare:
			if o.phase < 0.5 {
				val = 1
			} else {
				val = -1
			}
		case WaveSaw:
			val = 2 * (o.phase - 0.5)
		case WaveNoise:
			val = o.rng.Float64()*2 - 1
		}
		samples[i][0] = val
		samples[i][1] = val

		o.phase += o.freq / float64(o.rate)
		o.phase -= math.Floor(o.phase)
		o.position++
	}
	return len(samples), true
}

func (o *oscillator) Err() error { return nil }

// envelope fades a stream in over attack and out over release
type envelope struct {
	streamer     beep.Streamer
	position     int
	attack       int
	release      int
	releaseStart int
	total        int
}

// NewEnvelope shapes s with a linear attack and release
func NewEnvelope(s beep.Streamer, duration, attack, release time.Duration, rate beep.SampleRate) beep.Streamer {
	total := rate.N(duration)
	att, rel := rate.N(attack), rate.N(release)
	return &envelope{
		streamer:     s,
		attack:       att,
		release:      rel,
		releaseStart: max(total-rel, att),
		total:        total,
	}
}

func (e *envelope) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = e.streamer.Stream(samples)
	for i := 0; i < n; i++ {
		if e.position >= e.total {
			return i, i > 0
		}
		vol := 1.0
		if e.position < e.attack && e.attack > 0 {
			vol = float64(e.position) / float64(e.attack)
		}
		if e.position >= e.releaseStart && e.release > 0 {
			vol = math.Max(0, float64(e.total-e.position)/float64(e.release))
		}
		samples[i][0] *= vol
		samples[i][1] *= vol
		e.position++
	}
	return n, ok
}

func (e *envelope) Err() error { return e.streamer.Err() }

// newVolume scales by a linear gain; zero or less is silent
func newVolume(s beep.Streamer, gain float64) beep.Streamer {
	if gain <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(gain)}
}

// note is a shaped tone with a short attack
func note(freq float64, d time.Duration, wave WaveType, rate beep.SampleRate) beep.Streamer {
	return NewEnvelope(NewOscillator(freq, d, wave, rate), d, 5*time.Millisecond, d/2, rate)
}

// CoinSound is a two-note chime
func CoinSound(rate beep.SampleRate) beep.Streamer {
	return newVolume(beep.Seq(
		note(987.77, 70*time.Millisecond, WaveSquare, rate),
		note(1318.51, 180*time.Millisecond, WaveSquare, rate),
	), 0.25)
}

// BombSound is a decaying noise burst over a low rumble
func BombSound(rate beep.SampleRate) beep.Streamer {
	const d = 600 * time.Millisecond
	noise := NewEnvelope(NewOscillator(0, d, WaveNoise, rate), d, 2*time.Millisecond, 550*time.Millisecond, rate)
	rumble := NewEnvelope(NewOscillator(55, d, WaveSaw, rate), d, 2*time.Millisecond, 500*time.Millisecond, rate)
	return newVolume(beep.Mix(newVolume(noise, 0.6), newVolume(rumble, 0.5)), 0.6)
}

// WinSound is a rising major arpeggio
func WinSound(rate beep.SampleRate) beep.Streamer {
	freqs := []float64{523.25, 659.25, 783.99, 1046.5}
	notes := make([]beep.Streamer, 0, len(freqs))
	for i, f := range freqs {
		d := 120 * time.Millisecond
		if i == len(freqs)-1 {
			d = 400 * time.Millisecond
		}
		notes = append(notes, note(f, d, WaveSine, rate))
	}
	return newVolume(beep.Seq(notes...), 0.35)
}

// SkidSound is an endless band of tyre noise
func SkidSound(rate beep.SampleRate) beep.Streamer {
	return newVolume(&skid{rng: rand.New(rand.NewSource(7))}, 0.12)
}

type skid struct {
	rng  *rand.Rand
	prev float64
}

func (s *skid) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		// One-pole low-pass keeps the hiss out.
		s.prev += 0.25 * (s.rng.Float64()*2 - 1 - s.prev)
		samples[i][0] = s.prev
		samples[i][1] = s.prev
	}
	return len(samples), true
}

func (s *skid) Err() error { return nil }

// bassLine is the looping race music: a four-bar root walk at 120 BPM
var bassLine = []float64{55, 55, 65.41, 73.42, 55, 55, 82.41, 73.42}

// Music returns one bar sequence of the race music. Loop it for playback.
func Music(rate beep.SampleRate) (beep.Streamer, error) {
	const beat = 500 * time.Millisecond
	parts := make([]beep.Streamer, 0, len(bassLine))
	for _, f := range bassLine {
		tone, err := generators.SineTone(rate, f)
		if err != nil {
			return nil, err
		}
		parts = append(parts, NewEnvelope(beep.Take(rate.N(beat), tone), beat, 10*time.Millisecond, 200*time.Millisecond, rate))
	}
	return newVolume(beep.Seq(parts...), 0.3), nil
}

// repeat plays streams from next back to back until next fails
type repeat struct {
	next    func() (beep.Streamer, error)
	current beep.Streamer
	err     error
}

// Repeat loops a generated sequence forever
func Repeat(next func() (beep.Streamer, error)) beep.Streamer {
	return &repeat{next: next}
}

func (r *repeat) Stream(samples [][2]float64) (n int, ok bool) {
	empty := false
	for n < len(samples) {
		if r.current == nil {
			s, err := r.next()
			if err != nil {
				r.err = err
				return n, n > 0
			}
			r.current = s
		}
		m, more := r.current.Stream(samples[n:])
		n += m
		if m == 0 {
			if empty {
				return n, n > 0
			}
			empty = true
		} else {
			empty = false
		}
		if !more || m == 0 {
			r.current = nil
		}
	}
	return n, true
}

func (r *repeat) Err() error { return r.err }
