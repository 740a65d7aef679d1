package tracing

import (
	"fmt"
	"image"
	"image/draw"
	"math"

	"github.com/fogleman/gg"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

// FontSize returns the template font size in pixels for a word, sized by its
// letter count. The same table is used by the canvas that draws the visible
// guide.
func FontSize(word string) float64 {
	length := len([]rune(word))
	switch {
	case length <= 5:
		return 150
	case length <= 7:
		return 120
	case length <= 9:
		return 95
	case length <= 11:
		return 75
	case length <= 13:
		return 65
	default:
		return 55
	}
}

// Baseline returns the alphabetic baseline used to lay the word out on a
// canvas of the given height.
func Baseline(canvasHeight int, fontSize float64) float64 {
	fontHeight := fontSize * 0.7
	return (float64(canvasHeight)+fontHeight)/2 - fontSize*0.1
}

// GlyphRenderer rasterizes a word as a stroked outline, centred on a canvas.
type GlyphRenderer struct {
	font *sfnt.Font
}

// NewGlyphRenderer parses the bundled bold face.
func NewGlyphRenderer() (*GlyphRenderer, error) {
	f, err := sfnt.Parse(gobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to parse template font: %w", err)
	}
	return &GlyphRenderer{font: f}, nil
}

// Render strokes the outline of word with the given width onto a fresh
// alpha mask covering bounds, with round caps and joins.
func (g *GlyphRenderer) Render(word string, bounds image.Rectangle, strokeWidth float64) (*image.Alpha, error) {
	dst := image.NewAlpha(bounds)
	if word == "" || bounds.Empty() {
		return dst, nil
	}

	size := FontSize(word)
	ppem := fixed.Int26_6(math.Round(size * 64))

	var buf sfnt.Buffer
	type placed struct {
		index sfnt.GlyphIndex
		x     float64
	}
	glyphs := make([]placed, 0, len(word))

	var (
		pen  float64
		prev sfnt.GlyphIndex
	)
	for i, r := range word {
		idx, err := g.font.GlyphIndex(&buf, r)
		if err != nil {
			return nil, fmt.Errorf("glyph index for %q: %w", r, err)
		}
		if i > 0 {
			if kern, err := g.font.Kern(&buf, prev, idx, ppem, font.HintingNone); err == nil {
				pen += fixedToFloat(kern)
			}
		}
		glyphs = append(glyphs, placed{index: idx, x: pen})
		adv, err := g.font.GlyphAdvance(&buf, idx, ppem, font.HintingNone)
		if err != nil {
			return nil, fmt.Errorf("glyph advance for %q: %w", r, err)
		}
		pen += fixedToFloat(adv)
		prev = idx
	}

	dc := newStrokeContext(bounds, strokeWidth)
	originX := float64(bounds.Dx())/2 - pen/2
	originY := Baseline(bounds.Dy(), size)

	for _, gl := range glyphs {
		segs, err := g.font.LoadGlyph(&buf, gl.index, ppem, nil)
		if err != nil {
			return nil, fmt.Errorf("load glyph: %w", err)
		}
		ox := originX + gl.x
		x := func(p fixed.Point26_6) float64 { return ox + fixedToFloat(p.X) }
		y := func(p fixed.Point26_6) float64 { return originY + fixedToFloat(p.Y) }

		open := false
		for _, seg := range segs {
			a := seg.Args
			switch seg.Op {
			case sfnt.SegmentOpMoveTo:
				if open {
					dc.ClosePath()
				}
				dc.MoveTo(x(a[0]), y(a[0]))
				open = true
			case sfnt.SegmentOpLineTo:
				dc.LineTo(x(a[0]), y(a[0]))
			case sfnt.SegmentOpQuadTo:
				dc.QuadraticTo(x(a[0]), y(a[0]), x(a[1]), y(a[1]))
			case sfnt.SegmentOpCubeTo:
				dc.CubicTo(x(a[0]), y(a[0]), x(a[1]), y(a[1]), x(a[2]), y(a[2]))
			}
		}
		if open {
			dc.ClosePath()
		}
	}
	dc.Stroke()

	composite(dst, dc)
	return dst, nil
}

func fixedToFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64
}

// newStrokeContext returns an opaque round-capped pen on a transparent
// canvas the size of bounds. Paths are given relative to bounds.Min.
func newStrokeContext(bounds image.Rectangle, width float64) *gg.Context {
	dc := gg.NewContext(bounds.Dx(), bounds.Dy())
	dc.SetRGBA(0, 0, 0, 1)
	dc.SetLineWidth(width)
	dc.SetLineCapRound()
	dc.SetLineJoinRound()
	return dc
}

// composite lays the coverage of dc over dst.
func composite(dst *image.Alpha, dc *gg.Context) {
	draw.Draw(dst, dst.Bounds(), dc.Image(), image.Point{}, draw.Over)
}

// StrokePath draws an ink polyline with the given pen width on top of
// whatever dst already holds. It is the raster form of a captured pen stroke.
func StrokePath(dst *image.Alpha, pts []image.Point, width float64) {
	if len(pts) == 0 {
		return
	}
	b := dst.Bounds()
	dc := newStrokeContext(b, width)
	at := func(p image.Point) (float64, float64) {
		return float64(p.X - b.Min.X), float64(p.Y - b.Min.Y)
	}

	if len(pts) == 1 {
		x, y := at(pts[0])
		dc.DrawCircle(x, y, width/2)
		dc.Fill()
	} else {
		dc.MoveTo(at(pts[0]))
		for _, p := range pts[1:] {
			dc.LineTo(at(p))
		}
		dc.Stroke()
	}

	composite(dst, dc)
}
