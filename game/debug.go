package game

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"driftchase/race"
)

// DebugState holds debug flags that persist across restarts
type DebugState struct {
	ShowOverlay bool // avoidance probes, chaser target point and the world grid
}

var (
	colorProbeClear = color.RGBA{80, 220, 80, 200}
	colorProbeHit   = color.RGBA{255, 60, 60, 230}
	colorTarget     = color.RGBA{80, 180, 255, 255}
	colorGrid       = color.RGBA{255, 255, 255, 30}
)

// drawDebug draws the chaser's last sensor sweep and follow point over the world
func drawDebug(screen *ebiten.Image, cam *Camera, r *race.Race) {
	drawGrid(screen, cam, r.World().Config.CellSize, r.World().Config.MinX, r.World().Config.MinZ)

	for _, p := range r.Pursuit().Probes() {
		end := p.Origin.Add(p.Dir.Mul(p.Length))
		clr := colorProbeClear
		if p.Hit {
			end = p.Point
			clr = colorProbeHit
		}
		x1, y1 := cam.WorldToScreen(p.Origin.X(), p.Origin.Z())
		x2, y2 := cam.WorldToScreen(end.X(), end.Z())
		vector.StrokeLine(screen, float32(x1), float32(y1), float32(x2), float32(y2), 1, clr, true)
		if p.Hit {
			vector.DrawFilledCircle(screen, float32(x2), float32(y2), 3, clr, true)
		}
	}

	target := r.Pursuit().State().TargetPosition
	tx, ty := cam.WorldToScreen(target.X(), target.Z())
	vector.StrokeLine(screen, float32(tx-6), float32(ty), float32(tx+6), float32(ty), 2, colorTarget, true)
	vector.StrokeLine(screen, float32(tx), float32(ty-6), float32(tx), float32(ty+6), 2, colorTarget, true)

	chaser := r.Chaser().State().Position
	cx, cy := cam.WorldToScreen(chaser.X(), chaser.Z())
	vector.StrokeLine(screen, float32(cx), float32(cy), float32(tx), float32(ty), 1, colorTarget, true)
}

// drawGrid draws the spatial partition cell lines in view
func drawGrid(screen *ebiten.Image, cam *Camera, cellSize, originX, originZ float64) {
	if cellSize <= 0 {
		return
	}
	minX, minZ, maxX, maxZ := cam.VisibleBounds()
	startX := originX + cellSize*float64(int((minX-originX)/cellSize))
	for x := startX; x <= maxX; x += cellSize {
		sx, _ := cam.WorldToScreen(x, 0)
		vector.StrokeLine(screen, float32(sx), 0, float32(sx), float32(cam.Height), 1, colorGrid, false)
	}
	startZ := originZ + cellSize*float64(int((minZ-originZ)/cellSize))
	for z := startZ; z <= maxZ; z += cellSize {
		_, sy := cam.WorldToScreen(0, z)
		vector.StrokeLine(screen, 0, float32(sy), float32(cam.Width), float32(sy), 1, colorGrid, false)
	}
}
