// Package render draws touch feedback images for the touch strip.
package render

import (
	"fmt"
	"image"
	"image/color"
	"log"
	"strings"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/phinze/touchdeck/internal/input"
)

// markerSVG is a filled ring drawn at each contact.
const markerSVG = `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 24 24">
<circle cx="12" cy="12" r="10" fill="currentColor" fill-opacity="0.35"/>
<circle cx="12" cy="12" r="10" fill="none" stroke="currentColor" stroke-width="2"/>
<circle cx="12" cy="12" r="3" fill="currentColor"/>
</svg>`

// Marker sizes in pixels for zero and full pressure.
const (
	minMarker = 16
	maxMarker = 48
)

// Colors
var (
	ColorBackground = color.RGBA{20, 20, 20, 255}
	colorLabel      = color.RGBA{220, 220, 220, 255}

	phaseColors = map[input.Touch]color.RGBA{
		input.TouchStart:  {63, 185, 80, 255},
		input.TouchMove:   {88, 166, 255, 255},
		input.TouchEnd:    {110, 110, 110, 255},
		input.TouchCancel: {248, 81, 73, 255},
	}
)

type markerKey struct {
	phase input.Touch
	size  int
}

// Strip renders touch samples onto an image of a fixed size.
// It caches rasterized markers and is not safe for concurrent use.
type Strip struct {
	size    image.Point
	face    font.Face
	markers map[markerKey]image.Image
}

// NewStrip creates a renderer for images of the given size.
func NewStrip(size image.Point) *Strip {
	return &Strip{
		size:    size,
		face:    basicfont.Face7x13,
		markers: make(map[markerKey]image.Image),
	}
}

// Size returns the size of rendered images.
func (s *Strip) Size() image.Point {
	return s.size
}

// Render draws samples oldest first, so the newest sample ends on top.
// The newest sample is labeled with its contact id and phase.
func (s *Strip) Render(samples []input.TouchArgs) *image.RGBA {
	img := image.NewRGBA(image.Rectangle{Max: s.size})
	draw.Draw(img, img.Bounds(), &image.Uniform{ColorBackground}, image.Point{}, draw.Src)

	for i, args := range samples {
		center := s.Locate(args)
		marker := s.marker(args.Touch, markerSize(args.Pressure()))
		half := marker.Bounds().Dx() / 2
		dst := image.Rect(center.X-half, center.Y-half, center.X+half, center.Y+half)
		draw.Draw(img, dst, marker, image.Point{}, draw.Over)

		if i == len(samples)-1 {
			label := fmt.Sprintf("%d:%s", args.ID, args.Touch)
			s.drawText(img, label, dst.Max.X+2, center.Y+4)
		}
	}
	return img
}

// Locate maps a sample's normalized position to pixel coordinates.
func (s *Strip) Locate(args input.TouchArgs) image.Point {
	pos := args.Position()
	return image.Point{
		X: int(pos[0] * float64(s.size.X-1)),
		Y: int(pos[1] * float64(s.size.Y-1)),
	}
}

func markerSize(pressure float64) int {
	if pressure < 0 {
		pressure = 0
	}
	if pressure > 1 {
		pressure = 1
	}
	size := minMarker + int(pressure*float64(maxMarker-minMarker))
	return size &^ 1 // even, so the marker centers on the contact
}

func (s *Strip) marker(phase input.Touch, size int) image.Image {
	key := markerKey{phase: phase, size: size}
	if img, ok := s.markers[key]; ok {
		return img
	}
	c, ok := phaseColors[phase]
	if !ok {
		c = colorLabel
	}
	img := renderSVGIcon(markerSVG, size, c)
	s.markers[key] = img
	return img
}

// renderSVGIcon renders an SVG string to an image with the given size and color.
func renderSVGIcon(svgContent string, size int, iconColor color.Color) image.Image {
	r, g, b, _ := iconColor.RGBA()
	hexColor := fmt.Sprintf("#%02x%02x%02x", r>>8, g>>8, b>>8)
	svgContent = strings.ReplaceAll(svgContent, "currentColor", hexColor)

	img := image.NewRGBA(image.Rect(0, 0, size, size))

	icon, err := oksvg.ReadIconStream(strings.NewReader(svgContent))
	if err != nil {
		log.Printf("Failed to parse SVG: %v", err)
		return img
	}
	icon.SetTarget(0, 0, float64(size), float64(size))

	scanner := rasterx.NewScannerGV(size, size, img, img.Bounds())
	raster := rasterx.NewDasher(size, size, scanner)
	icon.Draw(raster, 1.0)

	return img
}

func (s *Strip) drawText(img *image.RGBA, text string, x, y int) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(colorLabel),
		Face: s.face,
		Dot:  fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y)},
	}
	d.DrawString(text)
}
