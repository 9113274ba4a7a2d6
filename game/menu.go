package game

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"

	"driftchase/vehicle"
)

var (
	colorMenuBackground = color.RGBA{20, 20, 40, 255}
	colorMenuItem       = color.RGBA{170, 170, 190, 255}
	colorMenuSelected   = color.RGBA{255, 210, 40, 255}
)

// menu is a wrapping list selection
type menu struct {
	items []string
	index int
}

// newMenu selects the item equal to selected, or the first one
func newMenu(items []string, selected string) menu {
	m := menu{items: items}
	for i, item := range items {
		if item == selected {
			m.index = i
			break
		}
	}
	return m
}

func (m *menu) move(delta int) {
	if len(m.items) == 0 {
		return
	}
	m.index = ((m.index+delta)%len(m.items) + len(m.items)) % len(m.items)
}

func (m menu) current() string {
	if len(m.items) == 0 {
		return ""
	}
	return m.items[m.index]
}

// carStats are the stat lines shown under the selected car
func carStats(spec vehicle.Spec) []string {
	return []string{
		fmt.Sprintf("Top speed  %.0f", spec.MaxSpeed),
		fmt.Sprintf("Power      %.1f", spec.AccelerationMultiplier),
		fmt.Sprintf("Steering   %.0f deg", spec.MaxSteeringAngle),
		fmt.Sprintf("Grip       %.1f", spec.Grip),
	}
}

func (g *Game) drawCarSelect(screen *ebiten.Image) {
	screen.Fill(colorMenuBackground)
	w, h := float64(g.config.ScreenWidth), float64(g.config.ScreenHeight)
	drawCentered(screen, "SELECT YOUR CAR", w/2, h*0.12, 3, colorHUD)

	name := g.cars.current()
	spec, err := vehicle.Lookup(name)
	if err == nil {
		img := g.sprites.Car()
		bw, bh := float64(img.Bounds().Dx()), float64(img.Bounds().Dy())
		op := &ebiten.DrawImageOptions{}
		op.GeoM.Translate(-bw/2, -bh/2)
		op.GeoM.Scale(3, 3)
		op.GeoM.Rotate(g.menuSpin)
		op.GeoM.Translate(w/2, h*0.42)
		op.ColorScale.ScaleWithColor(spec.Color)
		op.Filter = ebiten.FilterLinear
		screen.DrawImage(img, op)

		for i, line := range carStats(spec) {
			drawCentered(screen, line, w/2, h*0.66+float64(i)*hudLineHeight, hudScale, colorMenuItem)
		}
	}

	drawCentered(screen, fmt.Sprintf("<  %s  >", name), w/2, h*0.6, 3, colorMenuSelected)
	drawCentered(screen, "Left/Right choose   Enter confirm   Esc quit", w/2, h*0.92, hudScale, colorMenuItem)
}

func (g *Game) drawLevelSelect(screen *ebiten.Image) {
	screen.Fill(colorMenuBackground)
	w, h := float64(g.config.ScreenWidth), float64(g.config.ScreenHeight)
	drawCentered(screen, "SELECT LEVEL", w/2, h*0.12, 3, colorHUD)

	for i, name := range g.levels.items {
		clr := colorMenuItem
		label := name
		if i == g.levels.index {
			clr = colorMenuSelected
			label = "> " + name + " <"
		}
		if best, err := g.prefs.BestTime(name); err == nil && best > 0 {
			label += fmt.Sprintf("   best %.2fs", best)
		}
		drawCentered(screen, label, w/2, h*0.3+float64(i)*hudLineHeight*2, hudScale*1.5, clr)
	}

	drawCentered(screen, "Up/Down choose   Enter race   Backspace back   Esc quit", w/2, h*0.92, hudScale, colorMenuItem)
}
