package game

import (
	"bytes"
	_ "embed"
	"fmt"
	"image"
	"image/png"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/rs/zerolog"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	"golang.org/x/image/draw"
)

//go:embed assets/car.svg
var carSVGData []byte

const (
	carSpriteWidth  = 32
	carSpriteHeight = 64
	carIconSize     = 8
)

// Sprites holds the rasterized car body, drawn white and tinted per car
type Sprites struct {
	car  *ebiten.Image
	icon *ebiten.Image
}

// LoadSprites rasterizes the embedded SVG assets. DEBUG_SPRITES=1 also
// writes the result to debug_car.png.
func LoadSprites(log zerolog.Logger) (*Sprites, error) {
	carPNG, err := svgToImage(carSVGData, carSpriteWidth, carSpriteHeight)
	if err != nil {
		return nil, fmt.Errorf("rasterize car sprite: %w", err)
	}

	if os.Getenv("DEBUG_SPRITES") == "1" {
		saveDebugPNG(log, carPNG, "debug_car.png")
	}

	return &Sprites{
		car:  ebiten.NewImageFromImage(carPNG),
		icon: ebiten.NewImageFromImage(downscale(carPNG, carIconSize/2, carIconSize)),
	}, nil
}

// Car returns the full size car body
func (s *Sprites) Car() *ebiten.Image { return s.car }

// Icon returns the minimap car marker
func (s *Sprites) Icon() *ebiten.Image { return s.icon }

// svgToImage rasterizes SVG data at the given size
func svgToImage(svgData []byte, width, height int) (*image.RGBA, error) {
	icon, err := oksvg.ReadIconStream(bytes.NewReader(svgData))
	if err != nil {
		return nil, err
	}
	icon.SetTarget(0, 0, float64(width), float64(height))

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	scanner := rasterx.NewScannerGV(width, height, img, img.Bounds())
	raster := rasterx.NewDasher(width, height, scanner)
	icon.Draw(raster, 1.0)
	return img, nil
}

// downscale resamples src into a width x height image
func downscale(src image.Image, width, height int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)
	return dst
}

func saveDebugPNG(log zerolog.Logger, img image.Image, filename string) {
	f, err := os.Create(filename)
	if err != nil {
		log.Warn().Err(err).Str("file", filename).Msg("failed to create debug png")
		return
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		log.Warn().Err(err).Str("file", filename).Msg("failed to encode debug png")
	}
}
