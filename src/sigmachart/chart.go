// Package sigmachart renders annotated probability-density charts for
// evaluated processes. Each process becomes one row: the reference density
// curve, a shaded region from the (clamped) sigma value to the right edge of
// the domain, a sigma annotation, a legend and a title. Rows are stacked
// top-to-bottom in input order and composited into a single PNG.
//
// Rendering is a pure transformation of the evaluated batch into bytes; every
// call allocates its own drawing buffers, so concurrent renders never share
// mutable state.
package sigmachart

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"strconv"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/sigmaforge/SixSigmaCharter/src/sixsigma"
)

// Fixed horizontal domain of every row, in sigma units.
const (
	XMin = -3.0
	XMax = 6.0
)

// fillSamples is the number of curve samples under the shaded region.
const fillSamples = 50

// Options control row size and curve sampling density. Sampling density is a
// fidelity/latency trade-off: callers pick a setting per batch cardinality
// instead of hardcoding it per call site.
type Options struct {
	RowWidth       int
	RowHeight      int
	SamplesPerUnit int // curve samples per x-axis unit
}

// SingleOptions is the high-fidelity setting for one-row renders.
func SingleOptions() Options {
	return Options{RowWidth: 1280, RowHeight: 340, SamplesPerUnit: 100}
}

// BatchOptions trades sampling density for response size on multi-row renders.
func BatchOptions() Options {
	return Options{RowWidth: 1024, RowHeight: 280, SamplesPerUnit: 50}
}

// fillAlpha is the fixed opacity of the shaded region (0.44 of full).
const fillAlpha = 112

// labelColors maps quality labels to their fill color.
var labelColors = map[string]drawing.Color{
	"RED":    {R: 220, G: 53, B: 69, A: 255},
	"YELLOW": {R: 255, G: 193, B: 7, A: 255},
	"GREEN":  {R: 40, G: 167, B: 69, A: 255},
}

// clampSigma bounds sigma to the drawable domain so that out-of-domain and
// infinite values never reach the fill computation.
func clampSigma(sigma float64) float64 {
	if sigma < XMin {
		return XMin
	}
	if sigma > XMax {
		return XMax
	}
	return sigma
}

// linspace returns n evenly spaced samples over [lo, hi], endpoints included.
func linspace(lo, hi float64, n int) []float64 {
	if n < 2 {
		n = 2
	}
	out := make([]float64, n)
	step := (hi - lo) / float64(n-1)
	for i := range out {
		out[i] = lo + float64(i)*step
	}
	out[n-1] = hi
	return out
}

// rowTitle encodes the raw input fields of one process.
func rowTitle(p sixsigma.Process) string {
	if p.Name != "" {
		return fmt.Sprintf("Process(tests=%d, fails=%d, name=%q)", p.Tests, p.Fails, p.Name)
	}
	return fmt.Sprintf("Process(tests=%d, fails=%d)", p.Tests, p.Fails)
}

// xTicks labels every integer in the domain plus the distribution location.
func xTicks() []chart.Tick {
	ticks := make([]chart.Tick, 0, int(XMax-XMin)+2)
	for v := int(XMin); v <= int(XMax); v++ {
		ticks = append(ticks, chart.Tick{Value: float64(v), Label: strconv.Itoa(v)})
		if float64(v) < sixsigma.Loc && float64(v+1) > sixsigma.Loc {
			ticks = append(ticks, chart.Tick{Value: sixsigma.Loc, Label: strconv.FormatFloat(sixsigma.Loc, 'g', -1, 64)})
		}
	}
	return ticks
}

// renderRow draws one process row and returns it as a decoded image.
func renderRow(ep sixsigma.EvaluatedProcess, opts Options) (image.Image, error) {
	xs := linspace(XMin, XMax, opts.SamplesPerUnit*int(XMax-XMin)+1)
	ys := make([]float64, len(xs))
	ymax := 0.0
	for i, x := range xs {
		ys[i] = sixsigma.PDF(x)
		if ys[i] > ymax {
			ymax = ys[i]
		}
	}

	start := clampSigma(ep.Sigma)
	fx := linspace(start, XMax, fillSamples)
	fy := make([]float64, len(fx))
	for i, x := range fx {
		fy[i] = sixsigma.PDF(x)
	}

	col, ok := labelColors[ep.Label]
	if !ok {
		col = chart.ColorAlternateGray
	}

	curve := chart.ContinuousSeries{
		Name:    fmt.Sprintf("N(mu = %g, sigma = 1)", sixsigma.Loc),
		XValues: xs,
		YValues: ys,
		Style:   chart.Style{StrokeColor: chart.ColorBlue, StrokeWidth: 1.2},
	}
	region := chart.ContinuousSeries{
		Name:    fmt.Sprintf("Defect rate = %.2f%%", ep.DefectRate*100),
		XValues: fx,
		YValues: fy,
		Style: chart.Style{
			StrokeColor: col,
			StrokeWidth: 1,
			FillColor:   col.WithAlpha(fillAlpha),
		},
	}

	ch := chart.Chart{
		Title:      rowTitle(ep.Process),
		Width:      opts.RowWidth,
		Height:     opts.RowHeight,
		Background: chart.Style{Padding: chart.Box{Top: 14, Left: 16, Right: 12, Bottom: 28}},
		XAxis: chart.XAxis{
			Ticks: xTicks(),
			Range: &chart.ContinuousRange{Min: XMin, Max: XMax},
		},
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: 0, Max: ymax + 0.03},
		},
		Series: []chart.Series{curve, region},
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}

	var buf bytes.Buffer
	if err := ch.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render row: %w", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		return nil, fmt.Errorf("decode row: %w", err)
	}
	return annotateSigma(img, ep.Sigma), nil
}

// Render produces one composite PNG with one row per evaluated process,
// stacked top-to-bottom in input order. It never fails for a valid non-empty
// batch: infinite sigma values are clamped before any fill computation.
func Render(batch []sixsigma.EvaluatedProcess, opts Options) ([]byte, error) {
	if len(batch) == 0 {
		return nil, errors.New("sigmachart: empty batch")
	}
	rows := make([]image.Image, 0, len(batch))
	for i, ep := range batch {
		img, err := renderRow(ep, opts)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		rows = append(rows, img)
	}

	composite := image.NewRGBA(image.Rect(0, 0, opts.RowWidth, opts.RowHeight*len(rows)))
	draw.Draw(composite, composite.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	for i, row := range rows {
		target := image.Rect(0, i*opts.RowHeight, opts.RowWidth, (i+1)*opts.RowHeight)
		draw.Draw(composite, target, row, row.Bounds().Min, draw.Src)
	}

	var out bytes.Buffer
	if err := png.Encode(&out, composite); err != nil {
		return nil, fmt.Errorf("encode composite: %w", err)
	}
	return out.Bytes(), nil
}
