package game

import (
	"image/color"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"driftchase/vehicle"
	"driftchase/world"
)

// Camera is a top-down viewport. World +Z is screen up.
type Camera struct {
	X, Z   float64 // Camera position in world coordinates
	Zoom   float64 // Pixels per world unit
	Width  float64 // Viewport width
	Height float64 // Viewport height
}

// NewCamera creates a new camera
func NewCamera(width, height, zoom float64) *Camera {
	return &Camera{
		Zoom:   zoom,
		Width:  width,
		Height: height,
	}
}

// WorldToScreen converts world coordinates to screen coordinates
func (c *Camera) WorldToScreen(wx, wz float64) (float64, float64) {
	sx := (wx-c.X)*c.Zoom + c.Width/2
	sy := (c.Z-wz)*c.Zoom + c.Height/2
	return sx, sy
}

// ScreenToWorld converts screen coordinates to world coordinates
func (c *Camera) ScreenToWorld(sx, sy float64) (float64, float64) {
	wx := (sx-c.Width/2)/c.Zoom + c.X
	wz := c.Z - (sy-c.Height/2)/c.Zoom
	return wx, wz
}

// VisibleBounds returns the world rectangle covered by the viewport
func (c *Camera) VisibleBounds() (minX, minZ, maxX, maxZ float64) {
	minX, maxZ = c.ScreenToWorld(0, 0)
	maxX, minZ = c.ScreenToWorld(c.Width, c.Height)
	return minX, minZ, maxX, maxZ
}

// Follow eases the camera towards a point
func (c *Camera) Follow(target mgl64.Vec3, lag float64) {
	c.X += (target.X() - c.X) * lag
	c.Z += (target.Z() - c.Z) * lag
}

// CenterOn snaps the camera to a point
func (c *Camera) CenterOn(target mgl64.Vec3) {
	c.X, c.Z = target.X(), target.Z()
}

var (
	groundColor = color.RGBA{38, 44, 40, 255}
	wallColor   = color.RGBA{110, 110, 120, 255}
	rockColor   = color.RGBA{120, 96, 72, 255}
	coinColor   = color.RGBA{255, 210, 40, 255}
	bombColor   = color.RGBA{30, 30, 30, 255}
	fuseColor   = color.RGBA{255, 80, 20, 255}
	brakeColor  = color.RGBA{255, 30, 30, 255}
)

// Renderer draws the world and the cars through a camera
type Renderer struct {
	camera  *Camera
	sprites *Sprites
	coin    *ebiten.Image
}

// NewRenderer creates a new renderer
func NewRenderer(camera *Camera, sprites *Sprites) *Renderer {
	coin := ebiten.NewImage(32, 32)
	vector.DrawFilledCircle(coin, 16, 16, 16, coinColor, true)
	vector.StrokeCircle(coin, 16, 16, 12, 2, color.RGBA{200, 150, 20, 255}, true)
	return &Renderer{camera: camera, sprites: sprites, coin: coin}
}

// RenderWorld draws the visible obstacles and pickups
func (r *Renderer) RenderWorld(screen *ebiten.Image, w *world.World) {
	screen.Fill(groundColor)

	minX, minZ, maxX, maxZ := r.camera.VisibleBounds()
	for _, o := range w.ObstaclesInRect(minX, minZ, maxX, maxZ, world.LayerAll) {
		r.renderObstacle(screen, o)
	}

	for _, p := range w.Pickups() {
		if p.Collected {
			continue
		}
		x, z := p.Position.X(), p.Position.Z()
		if x+p.Radius < minX || x-p.Radius > maxX || z+p.Radius < minZ || z-p.Radius > maxZ {
			continue
		}
		r.renderPickup(screen, p)
	}
}

func (r *Renderer) renderObstacle(screen *ebiten.Image, o *world.Obstacle) {
	switch o.Shape {
	case world.ShapeCircle:
		sx, sy := r.camera.WorldToScreen(o.Center.X(), o.Center.Z())
		vector.DrawFilledCircle(screen, float32(sx), float32(sy), float32(o.Radius*r.camera.Zoom), rockColor, true)
	case world.ShapeBox:
		minX, _, _, maxZ := o.Bounds()
		sx, sy := r.camera.WorldToScreen(minX, maxZ)
		w := 2 * o.HalfX * r.camera.Zoom
		h := 2 * o.HalfZ * r.camera.Zoom
		vector.DrawFilledRect(screen, float32(sx), float32(sy), float32(w), float32(h), wallColor, true)
	}
}

// renderPickup draws coins edge-on by their spin and grows them slightly with the bob
func (r *Renderer) renderPickup(screen *ebiten.Image, p *world.Pickup) {
	sx, sy := r.camera.WorldToScreen(p.Position.X(), p.Position.Z())
	lift := 1 + p.Bob*0.3
	radius := p.Radius * r.camera.Zoom * lift

	switch p.Kind {
	case world.PickupCoin:
		edge := math.Max(0.15, math.Abs(math.Cos(p.Spin*math.Pi/180)))
		size := float64(r.coin.Bounds().Dx())
		op := &ebiten.DrawImageOptions{}
		op.GeoM.Translate(-size/2, -size/2)
		op.GeoM.Scale(2*radius/size*edge, 2*radius/size)
		op.GeoM.Translate(sx, sy)
		screen.DrawImage(r.coin, op)
	case world.PickupBomb:
		vector.DrawFilledCircle(screen, float32(sx), float32(sy), float32(radius), bombColor, true)
		fx := sx + radius*0.5
		fy := sy - radius*0.7
		vector.DrawFilledCircle(screen, float32(fx), float32(fy), float32(math.Max(2, radius*0.25)), fuseColor, true)
	}
}

// RenderCar draws a car sprite with its brake lights
func (r *Renderer) RenderCar(screen *ebiten.Image, car *vehicle.Car) {
	spec := car.Spec()
	st := car.State()
	sx, sy := r.camera.WorldToScreen(st.Position.X(), st.Position.Z())

	margin := spec.Length * r.camera.Zoom
	if sx < -margin || sx > r.camera.Width+margin || sy < -margin || sy > r.camera.Height+margin {
		return
	}

	img := r.sprites.Car()
	bw, bh := float64(img.Bounds().Dx()), float64(img.Bounds().Dy())
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(-bw/2, -bh/2)
	op.GeoM.Scale(spec.Width*r.camera.Zoom/bw, spec.Length*r.camera.Zoom/bh)
	op.GeoM.Rotate(car.Yaw())
	op.GeoM.Translate(sx, sy)
	op.ColorScale.ScaleWithColor(spec.Color)
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(img, op)

	// Brake lights glow at base intensity and flare when braking.
	glow := car.BrakeLightIntensity() / vehicle.BrakeLightMax
	lightColor := color.RGBA{brakeColor.R, brakeColor.G, brakeColor.B, uint8(255 * glow)}
	rear := st.Position.Sub(st.Forward.Mul(spec.Length * 0.48))
	for _, side := range []float64{-1, 1} {
		p := rear.Add(st.Right.Mul(side * spec.Width * 0.3))
		lx, ly := r.camera.WorldToScreen(p.X(), p.Z())
		size := math.Max(1.5, 0.25*r.camera.Zoom*glow*1.4)
		vector.DrawFilledCircle(screen, float32(lx), float32(ly), float32(size), lightColor, true)
	}
}
