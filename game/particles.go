package game

import (
	"image/color"
	"math"
	"math/rand"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"driftchase/vehicle"
	"driftchase/vmath"
)

// Particle is one puff of tire smoke on the ground plane
type Particle struct {
	pos      mgl64.Vec3
	vel      mgl64.Vec3
	age      float64 // age in seconds
	lifetime float64 // total lifetime in seconds
	size     float64 // radius in world units at birth
	shade    uint8
}

// IsAlive returns true if the particle is still alive
func (p *Particle) IsAlive() bool {
	return p.age < p.lifetime
}

// Smoke emits tire smoke from a car's rear wheels while it slides
type Smoke struct {
	particles     []Particle
	maxParticles  int
	emissionRate  float64 // particles per second per wheel
	emissionTimer float64
	active        bool

	velocityMin, velocityMax float64
	lifetimeMin, lifetimeMax float64
	sizeMin, sizeMax         float64
	growth                   float64 // size multiplier reached at death
	drag                     float64 // fraction of inherited car velocity kept
	baseShade                uint8
	shadeVariation           uint8

	rng *rand.Rand
}

// NewSmoke creates a tire smoke system holding at most max particles
func NewSmoke(max int, seed int64) *Smoke {
	return &Smoke{
		particles:      make([]Particle, 0, max),
		maxParticles:   max,
		emissionRate:   45,
		velocityMin:    0.5,
		velocityMax:    2.5,
		lifetimeMin:    0.6,
		lifetimeMax:    1.4,
		sizeMin:        0.4,
		sizeMax:        0.8,
		growth:         3,
		drag:           0.15,
		baseShade:      200,
		shadeVariation: 30,
		rng:            rand.New(rand.NewSource(seed)),
	}
}

// SetActive sets whether the system is emitting
func (s *Smoke) SetActive(active bool) {
	s.active = active
	if !active {
		s.emissionTimer = 0
	}
}

// Active reports whether the system is emitting
func (s *Smoke) Active() bool { return s.active }

// Count returns the live particle count
func (s *Smoke) Count() int { return len(s.particles) }

// Clear drops every particle
func (s *Smoke) Clear() {
	s.particles = s.particles[:0]
	s.emissionTimer = 0
}

// Update ages the particles and, while active, emits from the car's rear wheels
func (s *Smoke) Update(dt float64, car *vehicle.Car) {
	if s.active && car != nil {
		s.emissionTimer += dt
		n := int(s.emissionRate * s.emissionTimer)
		if n > 0 {
			s.emissionTimer -= float64(n) / s.emissionRate
			st := car.State()
			spec := car.Spec()
			rear := st.Position.Sub(st.Forward.Mul(spec.Length * 0.35))
			for i := 0; i < n; i++ {
				for _, side := range []float64{-1, 1} {
					if len(s.particles) >= s.maxParticles {
						break
					}
					s.emit(rear.Add(st.Right.Mul(side*spec.Width*0.45)), st.Velocity)
				}
			}
		}
	}

	live := s.particles[:0]
	for _, p := range s.particles {
		p.age += dt
		p.pos = p.pos.Add(p.vel.Mul(dt))
		if p.IsAlive() {
			live = append(live, p)
		}
	}
	s.particles = live
}

func (s *Smoke) emit(at, carVel mgl64.Vec3) {
	angle := s.rng.Float64() * 2 * math.Pi
	speed := s.velocityMin + s.rng.Float64()*(s.velocityMax-s.velocityMin)
	vel := vmath.YawForward(angle).Mul(speed).Add(carVel.Mul(s.drag))

	shade := float64(s.baseShade) + (s.rng.Float64()*2-1)*float64(s.shadeVariation)
	s.particles = append(s.particles, Particle{
		pos:      at,
		vel:      vel,
		lifetime: s.lifetimeMin + s.rng.Float64()*(s.lifetimeMax-s.lifetimeMin),
		size:     s.sizeMin + s.rng.Float64()*(s.sizeMax-s.sizeMin),
		shade:    uint8(vmath.Clamp(shade, 0, 255)),
	})
}

// Draw renders the particles, fading and swelling with age
func (s *Smoke) Draw(screen *ebiten.Image, cam *Camera) {
	for _, p := range s.particles {
		sx, sy := cam.WorldToScreen(p.pos.X(), p.pos.Z())
		life := vmath.Clamp01(p.age / p.lifetime)
		radius := p.size * vmath.Lerp(1, s.growth, life) * cam.Zoom
		alpha := 0.45 * (1 - life)
		clr := color.NRGBA{R: p.shade, G: p.shade, B: p.shade, A: uint8(255 * alpha)}
		vector.DrawFilledCircle(screen, float32(sx), float32(sy), float32(radius), clr, true)
	}
}
