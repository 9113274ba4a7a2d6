package main

import (
	"image/color"
	"math"
	"strings"

	"github.com/gdamore/tcell/v2"

	"driftchase/race"
	"driftchase/session"
	"driftchase/vehicle"
	"driftchase/world"
)

// A terminal cell is about twice as tall as it is wide.
const (
	unitsPerCol = 1.0
	unitsPerRow = 2.0
	hudRows     = 2
)

var (
	styleGround = tcell.StyleDefault.Background(tcell.ColorBlack)
	styleWall   = styleGround.Foreground(tcell.ColorGray)
	styleRock   = styleGround.Foreground(tcell.NewRGBColor(150, 120, 90))
	styleCoin   = styleGround.Foreground(tcell.ColorYellow).Bold(true)
	styleBomb   = styleGround.Foreground(tcell.ColorRed).Bold(true)
	styleHUD    = styleGround.Foreground(tcell.ColorWhite)
	styleDrift  = styleGround.Foreground(tcell.NewRGBColor(255, 210, 40))
	styleBanner = tcell.StyleDefault.Background(tcell.ColorWhite).Foreground(tcell.ColorBlack).Bold(true)
)

// headings are the car glyphs clockwise from +Z
var headings = []rune("↑↗→↘↓↙←↖")

// viewport maps world X/Z onto terminal cells around a centre point
type viewport struct {
	camX, camZ    float64
	width, height int // map area, below the HUD rows
}

func newViewport(screenW, screenH int, center vehicle.State) viewport {
	return viewport{
		camX:   center.Position.X(),
		camZ:   center.Position.Z(),
		width:  screenW,
		height: max(0, screenH-hudRows),
	}
}

// cell returns the terminal column and row of a world point. ok is false off screen.
func (v viewport) cell(x, z float64) (col, row int, ok bool) {
	col = int(math.Floor((x-v.camX)/unitsPerCol + float64(v.width)/2))
	row = int(math.Floor((v.camZ-z)/unitsPerRow+float64(v.height)/2)) + hudRows
	ok = col >= 0 && col < v.width && row >= hudRows && row < v.height+hudRows
	return col, row, ok
}

// world returns the centre of a terminal cell in world space
func (v viewport) world(col, row int) (x, z float64) {
	x = (float64(col)+0.5-float64(v.width)/2)*unitsPerCol + v.camX
	z = v.camZ - (float64(row-hudRows)+0.5-float64(v.height)/2)*unitsPerRow
	return x, z
}

func (v viewport) bounds() (minX, minZ, maxX, maxZ float64) {
	hw := float64(v.width) / 2 * unitsPerCol
	hh := float64(v.height) / 2 * unitsPerRow
	return v.camX - hw, v.camZ - hh, v.camX + hw, v.camZ + hh
}

// headingGlyph picks the arrow closest to the car's yaw
func headingGlyph(yaw float64) rune {
	i := int(math.Round(yaw/(math.Pi/4))) % len(headings)
	if i < 0 {
		i += len(headings)
	}
	return headings[i]
}

func carStyle(c color.RGBA) tcell.Style {
	return styleGround.Foreground(tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))).Bold(true)
}

func drawString(s tcell.Screen, x, y int, str string, style tcell.Style) {
	for _, r := range str {
		s.SetContent(x, y, r, nil, style)
		x++
	}
}

// render draws the map around the player and the HUD rows
func render(s tcell.Screen, r *race.Race) {
	w, h := s.Size()
	s.Fill(' ', styleGround)
	v := newViewport(w, h, r.Player().State())

	drawObstacles(s, v, r.World())
	drawPickups(s, v, r.World())
	drawCar(s, v, r.Chaser())
	drawCar(s, v, r.Player())
	drawHUD(s, w, h, r)
}

func drawObstacles(s tcell.Screen, v viewport, w *world.World) {
	minX, minZ, maxX, maxZ := v.bounds()
	for _, o := range w.ObstaclesInRect(minX, minZ, maxX, maxZ, world.LayerWall|world.LayerProp) {
		glyph, style := '█', styleWall
		if o.Shape == world.ShapeCircle {
			glyph, style = '●', styleRock
		}
		ox0, oz0, ox1, oz1 := o.Bounds()
		c0, r0, _ := v.cell(ox0, oz1)
		c1, r1, _ := v.cell(ox1, oz0)
		for row := max(r0, hudRows); row <= min(r1, v.height+hudRows-1); row++ {
			for col := max(c0, 0); col <= min(c1, v.width-1); col++ {
				x, z := v.world(col, row)
				if covers(o, x, z) {
					s.SetContent(col, row, glyph, nil, style)
				}
			}
		}
	}
}

// covers reports whether the footprint contains the point
func covers(o *world.Obstacle, x, z float64) bool {
	dx, dz := x-o.Center.X(), z-o.Center.Z()
	if o.Shape == world.ShapeCircle {
		return dx*dx+dz*dz <= o.Radius*o.Radius
	}
	return math.Abs(dx) <= o.HalfX && math.Abs(dz) <= o.HalfZ
}

func drawPickups(s tcell.Screen, v viewport, w *world.World) {
	for _, p := range w.Pickups() {
		if p.Collected {
			continue
		}
		col, row, ok := v.cell(p.Position.X(), p.Position.Z())
		if !ok {
			continue
		}
		if p.Kind == world.PickupBomb {
			s.SetContent(col, row, '*', nil, styleBomb)
		} else {
			s.SetContent(col, row, '$', nil, styleCoin)
		}
	}
}

func drawCar(s tcell.Screen, v viewport, car *vehicle.Car) {
	pos := car.State().Position
	col, row, ok := v.cell(pos.X(), pos.Z())
	if !ok {
		return
	}
	s.SetContent(col, row, headingGlyph(car.Yaw()), nil, carStyle(car.Spec().Color))
}

// hudLine is the status row: coins, time, drift and the chaser
func hudLine(r *race.Race) string {
	sess := r.Session()
	line := sess.CoinText() + "  " + sess.TimerText()
	if sc := r.Scorer(); sc.DisplayScore() > 0 || sc.State().Drifting {
		line += "  " + session.DriftText(sc.DisplayScore())
		if sc.State().Drifting {
			line += " " + session.MultiplierText(sc.DisplayMultiplier())
		}
	}
	return line + "  Chaser: " + r.Pursuit().Phase().String()
}

func drawHUD(s tcell.Screen, w, h int, r *race.Race) {
	drawString(s, 0, 0, hudLine(r), styleHUD)
	drawString(s, 0, 1, "arrows/wasd drive  space handbrake  r restart  q quit", styleHUD.Dim(true))

	if banner := r.Session().Banner(); banner != "" {
		for i, line := range strings.Split(banner, "\n") {
			text := "  " + line + "  "
			drawString(s, (w-len([]rune(text)))/2, h/2+i, text, styleBanner)
		}
	}
	if r.Scorer().State().Drifting {
		drawString(s, w-len("DRIFT"), 0, "DRIFT", styleDrift)
	}
}
