package game

import (
	"fmt"
	"image/color"
	"math"
	"strings"

	"github.com/hajimehoshi/bitmapfont/v4"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"driftchase/race"
	"driftchase/session"
)

const (
	hudMargin         = 12.0
	hudScale          = 2.0
	hudLineHeight     = 18.0
	bannerScale       = 4.0
	indicatorMargin   = 28.0
	indicatorArrowLen = 22.0
)

var (
	colorHUD       = color.RGBA{240, 240, 240, 255}
	colorDrift     = color.RGBA{255, 200, 60, 255}
	colorBanner    = color.RGBA{255, 255, 255, 255}
	colorIndicator = color.RGBA{255, 90, 60, 255}
)

var hudFace = text.NewGoXFace(bitmapfont.Face)

// statusLines are the top-left HUD rows
func statusLines(r *race.Race, best float64) []string {
	s := r.Session()
	lines := []string{s.CoinText(), s.TimerText()}
	if best > 0 {
		lines = append(lines, fmt.Sprintf("Best: %.2fs", best))
	}
	lines = append(lines, fmt.Sprintf("Chaser: %s %.0fm", r.Pursuit().Phase(), r.Gap()))
	return lines
}

// driftLines are the drift score rows, empty until the first drift
func driftLines(r *race.Race) []string {
	sc := r.Scorer()
	if sc.DisplayScore() <= 0 && !sc.State().Drifting {
		return nil
	}
	lines := []string{session.DriftText(sc.DisplayScore())}
	if sc.State().Drifting {
		lines = append(lines, session.MultiplierText(sc.DisplayMultiplier()))
	}
	return lines
}

func drawText(screen *ebiten.Image, s string, x, y, scale float64, clr color.Color) {
	op := &text.DrawOptions{}
	op.GeoM.Scale(scale, scale)
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(clr)
	op.LineSpacing = hudFace.Metrics().HAscent + hudFace.Metrics().HDescent
	text.Draw(screen, s, hudFace, op)
}

// drawCentered draws each line of s centred on x
func drawCentered(screen *ebiten.Image, s string, x, y, scale float64, clr color.Color) {
	for i, line := range strings.Split(s, "\n") {
		w := text.Advance(line, hudFace) * scale
		drawText(screen, line, x-w/2, y+float64(i)*hudLineHeight*scale/hudScale, scale, clr)
	}
}

// DrawHUD draws the race status, drift score, outcome banner and the frame rate
func DrawHUD(screen *ebiten.Image, r *race.Race, best, fps float64) {
	w, h := float64(screen.Bounds().Dx()), float64(screen.Bounds().Dy())

	for i, line := range statusLines(r, best) {
		drawText(screen, line, hudMargin, hudMargin+float64(i)*hudLineHeight, hudScale, colorHUD)
	}

	for i, line := range driftLines(r) {
		drawCentered(screen, line, w/2, hudMargin+float64(i)*hudLineHeight*1.5, hudScale*1.5, colorDrift)
	}

	if banner := r.Session().Banner(); banner != "" {
		drawCentered(screen, banner, w/2, h/2-hudLineHeight*bannerScale/hudScale, bannerScale, colorBanner)
	}
	if r.Session().Finished() {
		drawCentered(screen, "R to restart", w/2, h-hudMargin-hudLineHeight*2, hudScale, colorHUD)
	}

	drawText(screen, fmt.Sprintf("FPS: %.0f", fps), hudMargin, h-hudMargin-hudLineHeight, 1, colorHUD)
}

// DrawChaserIndicator draws an edge-of-screen arrow towards the chaser when it is off screen
func DrawChaserIndicator(screen *ebiten.Image, cam *Camera, r *race.Race) {
	pos := r.Chaser().State().Position
	sx, sy := cam.WorldToScreen(pos.X(), pos.Z())
	if sx >= 0 && sx <= cam.Width && sy >= 0 && sy <= cam.Height {
		return
	}

	cx, cy := cam.Width/2, cam.Height/2
	dx, dy := sx-cx, sy-cy
	dist := math.Hypot(dx, dy)
	if dist < 1 {
		return
	}
	dirX, dirY := dx/dist, dy/dist

	x := math.Min(math.Max(sx, indicatorMargin), cam.Width-indicatorMargin)
	y := math.Min(math.Max(sy, indicatorMargin), cam.Height-indicatorMargin)

	tipX, tipY := x+dirX*indicatorArrowLen*0.6, y+dirY*indicatorArrowLen*0.6
	tailX, tailY := x-dirX*indicatorArrowLen*0.4, y-dirY*indicatorArrowLen*0.4
	vector.StrokeLine(screen, float32(tailX), float32(tailY), float32(tipX), float32(tipY), 2, colorIndicator, true)

	wing := math.Pi / 6
	sinA, cosA := math.Sin(wing), math.Cos(wing)
	wingLen := indicatorArrowLen * 0.5
	lx, ly := dirX*cosA-dirY*sinA, dirX*sinA+dirY*cosA
	rx, ry := dirX*cosA+dirY*sinA, -dirX*sinA+dirY*cosA
	vector.StrokeLine(screen, float32(tipX), float32(tipY), float32(tipX-lx*wingLen), float32(tipY-ly*wingLen), 2, colorIndicator, true)
	vector.StrokeLine(screen, float32(tipX), float32(tipY), float32(tipX-rx*wingLen), float32(tipY-ry*wingLen), 2, colorIndicator, true)

	label := fmt.Sprintf("%.0f", r.Gap())
	lx = math.Min(x-dirX*indicatorArrowLen, cam.Width-indicatorMargin*2)
	ly = math.Min(y-dirY*indicatorArrowLen, cam.Height-indicatorMargin)
	drawText(screen, label, math.Max(4, lx), math.Max(4, ly), 1, colorIndicator)
}
