// Package audio plays the synthesized race music and sound effects.
package audio

import (
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/speaker"
	"github.com/rs/zerolog"

	"driftchase/event"
)

// DefaultSampleRate is used when Options leaves it zero
const DefaultSampleRate = beep.SampleRate(44100)

// Options configures the mixer
type Options struct {
	SampleRate int
	Volume     float64 // exponent on base 2, 0 is unity
}

// Manager owns the mixer. Every call is a no-op until Init succeeds, so a
// machine without a sound device plays silently.
type Manager struct {
	mu          sync.Mutex
	rate        beep.SampleRate
	mixer       *beep.Mixer
	output      beep.Streamer
	music       *beep.Ctrl
	skid        *beep.Ctrl
	initialized bool
	log         zerolog.Logger
}

// New creates a manager. Call Init to open the speaker.
func New(opts Options, log zerolog.Logger) *Manager {
	rate := beep.SampleRate(opts.SampleRate)
	if rate <= 0 {
		rate = DefaultSampleRate
	}
	mixer := &beep.Mixer{}
	return &Manager{
		rate:   rate,
		mixer:  mixer,
		output: &effects.Volume{Streamer: mixer, Base: 2, Volume: opts.Volume},
		log:    log.With().Str("component", "audio").Logger(),
	}
}

// Init opens the speaker. On failure the error is logged and returned, and
// the manager stays silent.
func (m *Manager) Init() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.initialized {
		return nil
	}
	if err := speaker.Init(m.rate, m.rate.N(100*time.Millisecond)); err != nil {
		m.log.Warn().Err(err).Msg("audio unavailable, continuing silent")
		return err
	}
	speaker.Play(m.output)
	m.initialized = true
	m.log.Debug().Int("rate", int(m.rate)).Msg("speaker ready")
	return nil
}

// Enabled reports whether sound reaches the speaker
func (m *Manager) Enabled() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.initialized
}

func (m *Manager) add(s beep.Streamer) {
	speaker.Lock()
	m.mixer.Add(s)
	speaker.Unlock()
}

// PlayMusic starts the looping race music. It is not restarted if already playing.
func (m *Manager) PlayMusic() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.initialized || (m.music != nil && !m.music.Paused) {
		return
	}
	if m.music != nil {
		speaker.Lock()
		m.music.Paused = false
		speaker.Unlock()
		return
	}
	rate := m.rate
	m.music = &beep.Ctrl{Streamer: Repeat(func() (beep.Streamer, error) { return Music(rate) })}
	m.add(m.music)
}

// StopMusic pauses the music; PlayMusic resumes it
func (m *Manager) StopMusic() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.music != nil {
		speaker.Lock()
		m.music.Paused = true
		speaker.Unlock()
	}
}

// MusicPlaying reports whether the music is audible
func (m *Manager) MusicPlaying() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.music != nil && !m.music.Paused
}

func (m *Manager) playOnce(sound func(beep.SampleRate) beep.Streamer) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.initialized {
		return
	}
	m.add(sound(m.rate))
}

// PlayCoin plays the pickup chime
func (m *Manager) PlayCoin() { m.playOnce(CoinSound) }

// PlayBomb plays the explosion
func (m *Manager) PlayBomb() { m.playOnce(BombSound) }

// PlayWin plays the victory jingle
func (m *Manager) PlayWin() { m.playOnce(WinSound) }

// StartSkid starts the tyre noise loop
func (m *Manager) StartSkid() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.initialized || (m.skid != nil && !m.skid.Paused) {
		return
	}
	if m.skid != nil {
		speaker.Lock()
		m.skid.Paused = false
		speaker.Unlock()
		return
	}
	m.skid = &beep.Ctrl{Streamer: SkidSound(m.rate)}
	m.add(m.skid)
}

// StopSkid silences the tyre noise
func (m *Manager) StopSkid() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.skid != nil {
		speaker.Lock()
		m.skid.Paused = true
		speaker.Unlock()
	}
}

// Skidding reports whether the tyre loop is audible
func (m *Manager) Skidding() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.skid != nil && !m.skid.Paused
}

// Attach plays effects for race events
func (m *Manager) Attach(bus *event.Bus) {
	bus.Subscribe(event.DriftStarted, func(event.Event) { m.StartSkid() })
	bus.Subscribe(event.DriftEnded, func(event.Event) { m.StopSkid() })
	bus.Subscribe(event.CoinCollected, func(event.Event) { m.PlayCoin() })
	bus.Subscribe(event.BombHit, func(event.Event) { m.PlayBomb() })
	bus.Subscribe(event.RaceWon, func(event.Event) { m.PlayWin() })
	bus.Subscribe(event.GameOver, func(event.Event) { m.StopSkid() })
	bus.Subscribe(event.RaceStarted, func(event.Event) { m.StopSkid() })
}

// Close stops every sound and closes the speaker
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.initialized {
		return
	}
	speaker.Lock()
	if m.music != nil {
		m.music.Paused = true
	}
	if m.skid != nil {
		m.skid.Paused = true
	}
	m.mixer.Clear()
	speaker.Unlock()
	speaker.Close()
	m.music, m.skid = nil, nil
	m.initialized = false
}
