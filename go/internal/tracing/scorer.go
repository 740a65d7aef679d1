// Package tracing scores a traced word by comparing the ink a team laid down
// against a stroked template of the same word.
//
// The template is drawn with a deliberately wide corridor so that a thin but
// accurate trace is not penalised; coverage is rescaled by the ratio of the
// template width to the pen width before the harmonic mean is taken.
package tracing

import (
	"image"
	"image/color"
	"math"
)

const (
	// UserStrokeWidth is the pen width of the team canvases.
	UserStrokeWidth = 16.0
	// TemplateStrokeWidth is the width of the forgiving template corridor.
	TemplateStrokeWidth = 30.0

	alphaThreshold = 128
)

// Scorer computes the tracing accuracy of an ink bitmap for a word.
type Scorer struct {
	renderer      *GlyphRenderer
	templateWidth float64
	userWidth     float64
}

// NewScorer creates a scorer with the default stroke widths.
func NewScorer() (*Scorer, error) {
	r, err := NewGlyphRenderer()
	if err != nil {
		return nil, err
	}
	return &Scorer{
		renderer:      r,
		templateWidth: TemplateStrokeWidth,
		userWidth:     UserStrokeWidth,
	}, nil
}

// Score returns the 0-100 accuracy of ink against word. The template is laid
// out on a canvas with the same bounds as ink.
func (s *Scorer) Score(ink image.Image, word string) int {
	if ink == nil {
		return 0
	}
	template, err := s.renderer.Render(word, ink.Bounds(), s.templateWidth)
	if err != nil {
		return 0
	}
	return Accuracy(ink, template, s.templateWidth, s.userWidth)
}

// Template renders the reference path for word at the given width. Canvases
// use it to draw the visible guide and tests use it to produce ideal traces.
func (s *Scorer) Template(word string, bounds image.Rectangle, strokeWidth float64) (*image.Alpha, error) {
	return s.renderer.Render(word, bounds, strokeWidth)
}

// Accuracy compares the alpha channels of ink and template over the bounds
// of ink. It returns round(100 * F1) where precision is the share of ink on
// the path and coverage is the share of the path covered, adjusted for the
// corridor width. Either side being empty yields 0.
func Accuracy(ink, template image.Image, templateWidth, userWidth float64) int {
	if ink == nil || template == nil || userWidth <= 0 {
		return 0
	}

	var overlap, inked, covered int
	b := ink.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			isInk := alphaAt(ink, x, y) > alphaThreshold
			isPath := alphaAt(template, x, y) > alphaThreshold
			if isInk {
				inked++
			}
			if isPath {
				covered++
			}
			if isInk && isPath {
				overlap++
			}
		}
	}

	if inked == 0 || covered == 0 {
		return 0
	}

	precision := float64(overlap) / float64(inked)
	rawCoverage := float64(overlap) / float64(covered)
	adjustedCoverage := math.Min(1, rawCoverage*(templateWidth/userWidth))

	if precision+adjustedCoverage == 0 {
		return 0
	}
	f1 := 2 * precision * adjustedCoverage / (precision + adjustedCoverage)
	return int(math.Round(f1 * 100))
}

func alphaAt(img image.Image, x, y int) uint8 {
	if !(image.Point{X: x, Y: y}).In(img.Bounds()) {
		return 0
	}
	if a, ok := img.(*image.Alpha); ok {
		return a.AlphaAt(x, y).A
	}
	return color.AlphaModel.Convert(img.At(x, y)).(color.Alpha).A
}
