// Package game is the ebiten front end: car and level menus and the race screen.
package game

import (
	"fmt"
	"runtime"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/metric"

	"driftchase/audio"
	"driftchase/drift"
	"driftchase/event"
	"driftchase/level"
	"driftchase/prefs"
	"driftchase/pursuit"
	"driftchase/race"
	"driftchase/session"
	"driftchase/telemetry"
	"driftchase/vehicle"
)

// ChaserCar is the catalog entry driven by the pursuit controller
const ChaserCar = "Chaser"

type screenID int

const (
	screenCarSelect screenID = iota
	screenLevelSelect
	screenRace
)

// Options wires the game to its services
type Options struct {
	Config  Config
	Pursuit pursuit.Params
	Drift   drift.Params
	Session session.Params
	Seed    int64

	Prefs *prefs.Store
	Audio *audio.Manager
	Meter metric.Meter // nil disables race metrics

	Logger zerolog.Logger
}

// Game implements ebiten.Game
type Game struct {
	config Config
	opts   Options
	log    zerolog.Logger

	prefs *prefs.Store
	audio *audio.Manager

	screen screenID
	cars   menu
	levels menu

	race     *race.Race
	keyboard *Keyboard
	camera   *Camera
	renderer *Renderer
	sprites  *Sprites
	smoke    *Smoke
	minimap  *Minimap
	debug    DebugState
	best     float64
	menuSpin float64

	// FPS tracking
	fps              float64
	fpsUpdateCounter int
	fpsUpdateTimer   float64
	lastUpdateTime   time.Time

	// FPS drop profiling
	profiler      *Profiler
	gameStartTime time.Time
}

// NewGame builds the menus from the stored preferences and starts the menu music
func NewGame(opts Options) (*Game, error) {
	if opts.Prefs == nil {
		return nil, fmt.Errorf("game: preferences store required")
	}
	if opts.Audio == nil {
		opts.Audio = audio.New(audio.Options{}, opts.Logger)
	}

	sprites, err := LoadSprites(opts.Logger)
	if err != nil {
		return nil, err
	}

	cfg := opts.Config
	camera := NewCamera(float64(cfg.ScreenWidth), float64(cfg.ScreenHeight), cfg.Zoom)
	g := &Game{
		config:         cfg,
		opts:           opts,
		log:            opts.Logger.With().Str("component", "game").Logger(),
		prefs:          opts.Prefs,
		audio:          opts.Audio,
		keyboard:       NewKeyboard(),
		camera:         camera,
		renderer:       NewRenderer(camera, sprites),
		sprites:        sprites,
		smoke:          NewSmoke(cfg.SmokeParticles, opts.Seed),
		minimap:        NewMinimap(cfg.MinimapSize),
		fps:            60,
		lastUpdateTime: time.Now(),
		gameStartTime:  time.Now(),
	}
	if cfg.Profile {
		g.profiler = NewProfiler(cfg.ProfilesDir, opts.Logger)
	}

	car, err := g.prefs.String(prefs.KeySelectedCar, vehicle.DefaultCar)
	if err != nil {
		g.log.Warn().Err(err).Msg("could not read selected car")
	}
	if spec, err := vehicle.Lookup(car); err == nil {
		car = spec.Name
	}
	lvl, err := g.prefs.String(prefs.KeySelectedLevel, level.DefaultLevel)
	if err != nil {
		g.log.Warn().Err(err).Msg("could not read selected level")
	}
	if l, err := level.Lookup(lvl); err == nil {
		lvl = l.Name
	}
	g.cars = newMenu(vehicle.Selectable(), car)
	g.levels = newMenu(level.Names(), lvl)

	g.audio.PlayMusic()
	return g, nil
}

// startRace builds a race for the selected car and level on a fresh event bus
func (g *Game) startRace() error {
	lvl, err := level.Lookup(g.levels.current())
	if err != nil {
		return err
	}
	player, err := vehicle.Lookup(g.cars.current())
	if err != nil {
		return err
	}
	chaser, err := vehicle.Lookup(ChaserCar)
	if err != nil {
		return err
	}

	bus := event.NewBus()
	g.audio.Attach(bus)
	if g.opts.Meter != nil {
		rec, err := telemetry.NewRecorder(g.opts.Meter, lvl.Name)
		if err != nil {
			g.log.Warn().Err(err).Msg("race metrics disabled")
		} else {
			rec.Attach(bus)
		}
	}
	bus.Subscribe(event.RaceWon, g.recordWin)

	r, err := race.New(race.Options{
		Level:     lvl,
		PlayerCar: player,
		ChaserCar: chaser,
		Pursuit:   g.opts.Pursuit,
		Drift:     g.opts.Drift,
		Session:   g.opts.Session,
		Seed:      g.opts.Seed,
		Logger:    g.opts.Logger,
		Bus:       bus,
	})
	if err != nil {
		return err
	}

	g.race = r
	g.best, err = g.prefs.BestTime(lvl.Name)
	if err != nil {
		g.log.Warn().Err(err).Msg("could not read best time")
	}
	g.resetView()
	g.screen = screenRace
	return nil
}

func (g *Game) resetView() {
	g.smoke.SetActive(false)
	g.smoke.Clear()
	g.minimap.Reset()
	g.camera.CenterOn(g.race.Player().State().Position)
}

// recordWin stores the finishing time when it beats the level's best
func (g *Game) recordWin(e event.Event) {
	name := g.race.Level().Name
	better, err := g.prefs.RecordTime(name, e.FinalTime)
	if err != nil {
		g.log.Warn().Err(err).Msg("could not record time")
		return
	}
	if better {
		g.best = e.FinalTime
		g.log.Info().Str("level", name).Float64("time", e.FinalTime).Msg("new best time")
	}
}

// Update advances the current screen by one tick
func (g *Game) Update() error {
	now := time.Now()
	deltaTime := now.Sub(g.lastUpdateTime).Seconds()
	g.lastUpdateTime = now
	g.trackFPS(deltaTime)

	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	alt := ebiten.IsKeyPressed(ebiten.KeyAlt)
	if alt && inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
		ebiten.SetFullscreen(!ebiten.IsFullscreen())
		return nil
	}

	switch g.screen {
	case screenCarSelect:
		return g.updateCarSelect()
	case screenLevelSelect:
		return g.updateLevelSelect()
	default:
		g.updateRace()
		return nil
	}
}

func (g *Game) updateCarSelect() error {
	g.menuSpin += race.DT * 0.8
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowLeft), inpututil.IsKeyJustPressed(ebiten.KeyA):
		g.cars.move(-1)
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowRight), inpututil.IsKeyJustPressed(ebiten.KeyD):
		g.cars.move(1)
	case inpututil.IsKeyJustPressed(ebiten.KeyEnter):
		if err := g.prefs.SetString(prefs.KeySelectedCar, g.cars.current()); err != nil {
			g.log.Warn().Err(err).Msg("could not save selected car")
		}
		g.screen = screenLevelSelect
	}
	return nil
}

func (g *Game) updateLevelSelect() error {
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowUp), inpututil.IsKeyJustPressed(ebiten.KeyW):
		g.levels.move(-1)
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowDown), inpututil.IsKeyJustPressed(ebiten.KeyS):
		g.levels.move(1)
	case inpututil.IsKeyJustPressed(ebiten.KeyBackspace):
		g.screen = screenCarSelect
	case inpututil.IsKeyJustPressed(ebiten.KeyEnter):
		if err := g.prefs.SetString(prefs.KeySelectedLevel, g.levels.current()); err != nil {
			g.log.Warn().Err(err).Msg("could not save selected level")
		}
		g.audio.StopMusic()
		if err := g.startRace(); err != nil {
			return fmt.Errorf("start race: %w", err)
		}
	}
	return nil
}

func (g *Game) updateRace() {
	if inpututil.IsKeyJustPressed(ebiten.KeyF1) {
		g.debug.ShowOverlay = !g.debug.ShowOverlay
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyBackspace) {
		g.audio.StopSkid()
		g.audio.PlayMusic()
		g.screen = screenLevelSelect
		return
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.race.Restart()
		g.resetView()
		return
	}

	g.race.Step(g.keyboard.Sample())

	player := g.race.Player()
	g.smoke.SetActive(player.IsDrifting())
	g.smoke.Update(race.DT, player)
	g.minimap.Update(race.DT, player, g.race.Chaser())

	st := player.State()
	g.camera.Follow(st.Position.Add(st.Velocity.Mul(g.config.LookAhead)), g.config.CameraLag)
}

// trackFPS refreshes the frame rate twice a second and hands sustained drops to the profiler
func (g *Game) trackFPS(deltaTime float64) {
	g.fpsUpdateTimer += deltaTime
	g.fpsUpdateCounter++
	if g.fpsUpdateTimer < 0.5 {
		return
	}
	g.fps = float64(g.fpsUpdateCounter) / g.fpsUpdateTimer
	g.fpsUpdateCounter = 0
	g.fpsUpdateTimer = 0

	// Skip the first seconds while assets warm up.
	if g.profiler == nil || g.fps >= 55 || time.Since(g.gameStartTime) < 3*time.Second {
		return
	}
	reason := fmt.Sprintf("fps%.0f", g.fps)
	if g.race != nil {
		reason = fmt.Sprintf("fps%.0f-tick%d-smoke%d", g.fps, g.race.Tick(), g.smoke.Count())
	}
	if err := g.profiler.CaptureProfile(reason); err == nil {
		var m runtime.MemStats
		runtime.ReadMemStats(&m)
		g.log.Warn().
			Float64("fps", g.fps).
			Uint32("num_gc", m.NumGC).
			Uint64("heap_alloc_kb", m.HeapAlloc/1024).
			Msg("frame rate drop, capturing profile")
	}
}

// Draw renders the current screen
func (g *Game) Draw(screen *ebiten.Image) {
	switch g.screen {
	case screenCarSelect:
		g.drawCarSelect(screen)
	case screenLevelSelect:
		g.drawLevelSelect(screen)
	default:
		g.drawRace(screen)
	}
}

func (g *Game) drawRace(screen *ebiten.Image) {
	g.renderer.RenderWorld(screen, g.race.World())
	g.smoke.Draw(screen, g.camera)
	g.renderer.RenderCar(screen, g.race.Chaser())
	g.renderer.RenderCar(screen, g.race.Player())
	if g.debug.ShowOverlay {
		drawDebug(screen, g.camera, g.race)
	}
	DrawChaserIndicator(screen, g.camera, g.race)

	size := float64(g.config.MinimapSize)
	g.minimap.Draw(screen, float64(g.config.ScreenWidth)-size-minimapMargin, minimapMargin, g.race, g.sprites.Icon())
	DrawHUD(screen, g.race, g.best, g.fps)
}

// Layout returns the game's screen size
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.config.ScreenWidth, g.config.ScreenHeight
}
