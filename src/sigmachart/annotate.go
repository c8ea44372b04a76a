package sigmachart

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/sigmaforge/SixSigmaCharter/src/sixsigma"
)

// Relative annotation position within a row (x from the left, y from the top).
const (
	annotateRelX = 0.84
	annotateRelY = 0.80
)

// sigmaDecimals is the fixed precision of the annotated sigma value.
const sigmaDecimals = 3

// annotateSigma stamps the numeric sigma value onto a rendered row at a fixed
// relative position. Non-finite values annotate as their sentinel form.
func annotateSigma(img image.Image, sigma float64) image.Image {
	text := fmt.Sprintf("sigma = %s", sixsigma.FormatSigma(sigma, sigmaDecimals))
	b := img.Bounds()
	rgba := image.NewRGBA(b)
	draw.Draw(rgba, b, img, b.Min, draw.Src)

	face := basicfont.Face7x13
	textCol := image.NewUniform(color.RGBA{R: 33, G: 37, B: 41, A: 255})
	dr := &font.Drawer{Dst: rgba, Src: textCol, Face: face}
	tw := dr.MeasureString(text).Ceil()

	x := b.Min.X + int(annotateRelX*float64(b.Dx()))
	if x+tw+4 > b.Max.X {
		x = b.Max.X - tw - 4
	}
	y := b.Min.Y + int(annotateRelY*float64(b.Dy()))

	dr.Dot = fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y)}
	dr.DrawString(text)
	return rgba
}
