// Package annotate overlays detection-model output on images: one rectangle
// per bounding box plus a "label (score)" caption near its bottom-right
// corner.
package annotate

import (
	"fmt"
	"image"
	"image/color"
	"os"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/menta2k/task-classifier/internal/logging"
	"github.com/menta2k/task-classifier/pkg/types"
)

// Options controls the overlay appearance
type Options struct {
	FontPath   string
	FontSize   float64
	Stroke     int
	BoxColor   color.NRGBA
	TextColor  color.NRGBA
	TextOffset int
}

// DefaultOptions matches the detection overlay conventions: 3-pixel red
// boxes, yellow captions offset 20 pixels up and left from the bottom-right
// corner.
func DefaultOptions() Options {
	return Options{
		FontPath:   "arial.ttf",
		FontSize:   16,
		Stroke:     3,
		BoxColor:   color.NRGBA{255, 0, 0, 255},
		TextColor:  color.NRGBA{255, 255, 0, 255},
		TextOffset: 20,
	}
}

// Draw returns a copy of img with every (box, label, score) triple rendered.
// Parallel sequences of unequal length are iterated up to the shortest one.
func Draw(logger *logging.Logger, img image.Image, det types.Detection, opts Options) *image.NRGBA {
	nrgba := imaging.Clone(img)
	face := loadFace(logger, opts.FontPath, opts.FontSize)

	n := len(det.Boxes)
	if len(det.Labels) < n {
		n = len(det.Labels)
	}
	if len(det.Scores) < n {
		n = len(det.Scores)
	}

	for i := 0; i < n; i++ {
		box := det.Boxes[i]
		x0, y0 := round(box.XMin), round(box.YMin)
		x1, y1 := round(box.XMax), round(box.YMax)

		drawRect(nrgba, x0, y0, x1, y1, opts.BoxColor, opts.Stroke)

		caption := FormatCaption(det.Labels[i], det.Scores[i])
		drawText(nrgba, face, caption, x1-opts.TextOffset, y1-opts.TextOffset, opts.TextColor)
	}

	return nrgba
}

// FormatCaption renders a label and score as "label (0.58)"
func FormatCaption(label string, score float64) string {
	return fmt.Sprintf("%s (%.2f)", label, score)
}

// loadFace loads a TrueType font, falling back to the builtin fixed-size face
// when the file is missing or unparsable. This is the only recovered failure
// in the overlay path.
func loadFace(logger *logging.Logger, fontPath string, size float64) font.Face {
	data, err := os.ReadFile(fontPath)
	if err != nil {
		logger.Warn("Font %s not available, using builtin face: %v", fontPath, err)
		return basicfont.Face7x13
	}

	fnt, err := opentype.Parse(data)
	if err != nil {
		logger.Warn("Failed to parse font %s, using builtin face: %v", fontPath, err)
		return basicfont.Face7x13
	}

	face, err := opentype.NewFace(fnt, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		logger.Warn("Failed to build font face from %s, using builtin face: %v", fontPath, err)
		return basicfont.Face7x13
	}

	return face
}

func round(v float64) int {
	return int(v + 0.5)
}

func drawText(img *image.NRGBA, face font.Face, text string, x, y int, c color.NRGBA) {
	drawer := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(c),
		Face: face,
		// Dot is the baseline origin; shift by the ascent so (x, y) is the
		// caption's top-left corner.
		Dot: fixed.P(x, y+face.Metrics().Ascent.Ceil()),
	}
	drawer.DrawString(text)
}

func drawRect(img *image.NRGBA, x0, y0, x1, y1 int, c color.NRGBA, stroke int) {
	if x1 < x0 {
		x0, x1 = x1, x0
	}
	if y1 < y0 {
		y0, y1 = y1, y0
	}
	for s := 0; s < stroke; s++ {
		drawHLine(img, y0+s, x0, x1+1, c)
		drawHLine(img, y1-s, x0, x1+1, c)
		drawVLine(img, x0+s, y0, y1+1, c)
		drawVLine(img, x1-s, y0, y1+1, c)
	}
}

func drawHLine(img *image.NRGBA, y, x0, x1 int, c color.NRGBA) {
	if y < 0 || y >= img.Bounds().Dy() {
		return
	}
	if x0 > x1 {
		x0, x1 = x1, x0
	}
	if x1 <= 0 || x0 >= img.Bounds().Dx() {
		return
	}
	if x0 < 0 {
		x0 = 0
	}
	if x1 > img.Bounds().Dx() {
		x1 = img.Bounds().Dx()
	}
	i := y*img.Stride + x0*4
	for x := x0; x < x1; x++ {
		img.Pix[i+0] = c.R
		img.Pix[i+1] = c.G
		img.Pix[i+2] = c.B
		img.Pix[i+3] = c.A
		i += 4
	}
}

func drawVLine(img *image.NRGBA, x, y0, y1 int, c color.NRGBA) {
	if x < 0 || x >= img.Bounds().Dx() {
		return
	}
	if y0 > y1 {
		y0, y1 = y1, y0
	}
	if y1 <= 0 || y0 >= img.Bounds().Dy() {
		return
	}
	if y0 < 0 {
		y0 = 0
	}
	if y1 > img.Bounds().Dy() {
		y1 = img.Bounds().Dy()
	}
	for y := y0; y < y1; y++ {
		i := y*img.Stride + x*4
		img.Pix[i+0] = c.R
		img.Pix[i+1] = c.G
		img.Pix[i+2] = c.B
		img.Pix[i+3] = c.A
	}
}
