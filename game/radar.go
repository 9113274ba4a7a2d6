package game

import (
	"image/color"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"driftchase/level"
	"driftchase/race"
	"driftchase/vehicle"
	"driftchase/world"
)

const (
	minimapMargin            = 14.0
	minimapTrailMaxAge       = 3.0 // seconds
	minimapTrailInterval     = 0.1 // seconds between trail points
	minimapTrailMaxPoints    = 30
	minimapBlipSize          = 2.5
	minimapSpeedVectorScale  = 0.35
	minimapSpeedVectorMax    = 18.0 // pixels
	minimapTrailOpacityScale = 0.8
)

var (
	colorMinimapBackdrop = color.RGBA{10, 14, 12, 200}
	colorMinimapBorder   = color.RGBA{90, 110, 100, 255}
	colorMinimapWall     = color.RGBA{150, 150, 160, 255}
	colorMinimapPlayer   = color.NRGBA{80, 255, 120, 255}
	colorMinimapChaser   = color.NRGBA{255, 90, 60, 255}
	colorMinimapSpeed    = color.RGBA{255, 255, 255, 160}
)

type trailPoint struct {
	pos mgl64.Vec3
	age float64
}

// Minimap is a fixed north-up overview of the whole level with fading car trails
type Minimap struct {
	size   float64
	trails [2][]trailPoint
	timer  float64
}

// NewMinimap creates a minimap of the given side in pixels
func NewMinimap(size int) *Minimap {
	return &Minimap{size: float64(size)}
}

// Reset drops the trails
func (m *Minimap) Reset() {
	m.trails[0] = m.trails[0][:0]
	m.trails[1] = m.trails[1][:0]
	m.timer = 0
}

// Update ages the trails and samples new points for the player and chaser
func (m *Minimap) Update(dt float64, player, chaser *vehicle.Car) {
	m.timer += dt
	sample := m.timer >= minimapTrailInterval
	if sample {
		m.timer = 0
	}
	for i, car := range []*vehicle.Car{player, chaser} {
		trail := m.trails[i][:0]
		for _, p := range m.trails[i] {
			p.age += dt
			if p.age < minimapTrailMaxAge {
				trail = append(trail, p)
			}
		}
		if sample && car != nil {
			trail = append(trail, trailPoint{pos: car.State().Position})
			if len(trail) > minimapTrailMaxPoints {
				trail = trail[1:]
			}
		}
		m.trails[i] = trail
	}
}

// TrailLen returns the number of trail points for the player (0) or chaser (1)
func (m *Minimap) TrailLen(i int) int { return len(m.trails[i]) }

// project maps a world point into minimap pixels relative to the minimap's top-left corner
func (m *Minimap) project(l level.Level, x, z float64) (float64, float64) {
	scale := m.size / math.Max(l.Width, l.Depth)
	offX := (m.size - l.Width*scale) / 2
	offY := (m.size - l.Depth*scale) / 2
	return offX + (x+l.Width/2)*scale, offY + (l.Depth/2-z)*scale
}

// Draw renders the minimap with its top-left corner at (ox, oy)
func (m *Minimap) Draw(screen *ebiten.Image, ox, oy float64, r *race.Race, icon *ebiten.Image) {
	l := r.Level()
	vector.DrawFilledRect(screen, float32(ox), float32(oy), float32(m.size), float32(m.size), colorMinimapBackdrop, true)
	vector.StrokeRect(screen, float32(ox), float32(oy), float32(m.size), float32(m.size), 1, colorMinimapBorder, true)

	scale := m.size / math.Max(l.Width, l.Depth)
	for _, b := range l.Walls {
		x, y := m.project(l, b.X-b.HalfX, b.Z+b.HalfZ)
		vector.DrawFilledRect(screen, float32(ox+x), float32(oy+y), float32(2*b.HalfX*scale), float32(2*b.HalfZ*scale), colorMinimapWall, true)
	}
	for _, c := range l.Rocks {
		x, y := m.project(l, c.X, c.Z)
		vector.DrawFilledCircle(screen, float32(ox+x), float32(oy+y), float32(math.Max(1, c.Radius*scale)), rockColor, true)
	}

	for _, p := range r.World().Pickups() {
		if p.Collected {
			continue
		}
		x, y := m.project(l, p.Position.X(), p.Position.Z())
		clr := color.Color(coinColor)
		if p.Kind == world.PickupBomb {
			clr = fuseColor
		}
		vector.DrawFilledCircle(screen, float32(ox+x), float32(oy+y), minimapBlipSize, clr, true)
	}

	m.drawTrail(screen, ox, oy, l, m.trails[0], colorMinimapPlayer)
	m.drawTrail(screen, ox, oy, l, m.trails[1], colorMinimapChaser)

	m.drawCar(screen, ox, oy, l, r.Chaser(), colorMinimapChaser, icon)
	m.drawCar(screen, ox, oy, l, r.Player(), colorMinimapPlayer, icon)
}

func (m *Minimap) drawTrail(screen *ebiten.Image, ox, oy float64, l level.Level, trail []trailPoint, clr color.NRGBA) {
	for j := 0; j+1 < len(trail); j++ {
		x1, y1 := m.project(l, trail[j].pos.X(), trail[j].pos.Z())
		x2, y2 := m.project(l, trail[j+1].pos.X(), trail[j+1].pos.Z())
		age := (trail[j].age + trail[j+1].age) / 2
		opacity := math.Max(0, 1-age/minimapTrailMaxAge)
		faded := color.NRGBA{R: clr.R, G: clr.G, B: clr.B, A: uint8(float64(clr.A) * opacity * minimapTrailOpacityScale)}
		vector.StrokeLine(screen, float32(ox+x1), float32(oy+y1), float32(ox+x2), float32(oy+y2), 1, faded, true)
	}
}

// drawCar draws the heading icon and a speed vector for one car
func (m *Minimap) drawCar(screen *ebiten.Image, ox, oy float64, l level.Level, car *vehicle.Car, clr color.NRGBA, icon *ebiten.Image) {
	st := car.State()
	x, y := m.project(l, st.Position.X(), st.Position.Z())
	x += ox
	y += oy

	vx, vy := st.Velocity.X()*minimapSpeedVectorScale, -st.Velocity.Z()*minimapSpeedVectorScale
	if mag := math.Hypot(vx, vy); mag > minimapSpeedVectorMax {
		f := minimapSpeedVectorMax / mag
		vx *= f
		vy *= f
	}
	if vx != 0 || vy != 0 {
		vector.StrokeLine(screen, float32(x), float32(y), float32(x+vx), float32(y+vy), 1, colorMinimapSpeed, true)
	}

	if icon == nil {
		vector.DrawFilledCircle(screen, float32(x), float32(y), minimapBlipSize+1, clr, true)
		return
	}
	bw, bh := float64(icon.Bounds().Dx()), float64(icon.Bounds().Dy())
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(-bw/2, -bh/2)
	op.GeoM.Rotate(car.Yaw())
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(clr)
	screen.DrawImage(icon, op)
}
