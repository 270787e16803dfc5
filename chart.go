// Copyright (c) 2025 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2026.10.15
//

package gokalman

import (
	"fmt"
	"image/color"
	"math"
	"os"
	"path/filepath"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
	"gonum.org/v1/plot/vg/vgsvg"
)

// ChartOpt contains options for drawing the estimate chart
type ChartOpt struct {
	Title  string             // Chart title
	Width  vg.Length          // Image width
	Height vg.Length          // Image height (all panels)
	Offset map[string]float64 // Subtracted from values of a channel, to draw deviations
	NoRaw  bool               // If true, measurements are not drawn
}

// NewChartOpt creates a ChartOpt with default values
func NewChartOpt() *ChartOpt {
	return &ChartOpt{
		Title:  "Kalman Smoother", // Chart title
		Width:  8 * vg.Inch,       // 8 inch wide
		Height: 0,                 // 3 inch per channel
		Offset: map[string]float64{},
		NoRaw:  false,
	}
}

var (
	colorRaw  = color.RGBA{R: 255, A: 80}
	colorMean = color.RGBA{R: 200, G: 50, A: 255}
	colorBand = color.RGBA{R: 150, G: 100, A: 255}
)

// Build the panel of one channel
func channelPlot(h *History, recs *Records, ch string, opt *ChartOpt) (*plot.Plot, error) {
	est := h.est[ch]
	n := len(est)
	off := opt.Offset[ch]

	t := make([]float64, n)
	mean := make([]float64, n)
	std := make([]float64, n)
	for i, e := range est {
		t[i] = e.Time
		mean[i] = e.Belief.Mean - off
		std[i] = math.Sqrt(e.Belief.Var)
	}
	upper := make([]float64, n)
	lower := make([]float64, n)
	floats.AddTo(upper, mean, std)
	floats.SubTo(lower, mean, std)

	p := plot.New()
	p.Title.Text = ch
	p.X.Label.Text = "Time (s)"
	p.Y.Label.Text = ch
	if u := h.units[ch]; len(u) > 0 {
		p.Y.Label.Text = fmt.Sprintf("%s (%s)", ch, u)
	}
	if off != 0 {
		p.Y.Label.Text += fmt.Sprintf(" - %g", off)
	}
	p.Add(plotter.NewGrid())

	// Raw measurements
	if !opt.NoRaw && recs != nil {
		raw := make(plotter.XYs, recs.Len())
		for i, r := range recs.dat {
			raw[i].X = r.Time
			raw[i].Y = r.Values[ch].Value - off
		}
		l, err := plotter.NewLine(raw)
		if err != nil {
			return nil, err
		}
		l.Color = colorRaw
		p.Add(l)
		p.Legend.Add("measured", l)
	}

	// Estimated mean and +-1 sigma band
	ml, err := plotter.NewLine(xys(t, mean))
	if err != nil {
		return nil, err
	}
	ml.Color = colorMean
	ml.Width = vg.Points(1.5)
	ul, err := plotter.NewLine(xys(t, upper))
	if err != nil {
		return nil, err
	}
	ul.Color = colorBand
	ul.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
	ll, err := plotter.NewLine(xys(t, lower))
	if err != nil {
		return nil, err
	}
	ll.Color = colorBand
	ll.Dashes = ul.Dashes
	p.Add(ml, ul, ll)
	p.Legend.Add("estimate", ml)
	p.Legend.Add("+-1 sigma", ul)
	p.Legend.Top = true

	return p, nil
}

func xys(x, y []float64) plotter.XYs {
	a := make(plotter.XYs, len(x))
	for i := range x {
		a[i].X = x[i]
		a[i].Y = y[i]
	}
	return a
}

// Canvas for a file extension
func newImage(ext string, w, h vg.Length) (vg.CanvasWriterTo, error) {
	switch strings.ToLower(ext) {
	case ".png":
		return vgimg.PngCanvas{Canvas: vgimg.New(w, h)}, nil
	case ".jpg", ".jpeg":
		return vgimg.JpegCanvas{Canvas: vgimg.New(w, h)}, nil
	case ".tif", ".tiff":
		return vgimg.TiffCanvas{Canvas: vgimg.New(w, h)}, nil
	case ".svg":
		return vgsvg.New(w, h), nil
	default:
		return nil, configErrorf("unsupported image format %q (png, jpg, tif, svg)", ext)
	}
}

// PlotHistory draws one panel per channel with measurements, estimated mean and +-1 sigma band
func PlotHistory(fn string, h *History, recs *Records, opt *ChartOpt) error {
	if opt == nil {
		opt = NewChartOpt()
	}
	if h.Len() == 0 {
		return configErrorf("nothing to plot")
	}
	if recs != nil && recs.Len() != h.Len() {
		return &AlignmentError{Counts: []ChannelCount{{Name: "records", Count: recs.Len()}, {Name: "history", Count: h.Len()}}}
	}

	// One panel per channel
	plots := make([][]*plot.Plot, len(h.chans))
	for j, ch := range h.chans {
		p, err := channelPlot(h, recs, ch, opt)
		if err != nil {
			return fmt.Errorf("failed to plot channel %s: %w", ch, err)
		}
		plots[j] = []*plot.Plot{p}
	}
	if len(opt.Title) > 0 {
		plots[0][0].Title.Text = opt.Title + ": " + plots[0][0].Title.Text
	}

	height := opt.Height
	if height <= 0 {
		height = vg.Length(len(h.chans)) * 3 * vg.Inch
	}
	img, err := newImage(filepath.Ext(fn), opt.Width, height)
	if err != nil {
		return err
	}
	dc := draw.New(img)
	tiles := draw.Tiles{
		Rows:      len(h.chans),
		Cols:      1,
		PadTop:    vg.Points(4),
		PadBottom: vg.Points(4),
		PadLeft:   vg.Points(4),
		PadRight:  vg.Points(8),
		PadY:      vg.Points(8),
	}
	canvases := plot.Align(plots, tiles, dc)
	for j := range plots {
		plots[j][0].Draw(canvases[j][0])
	}

	f, err := os.Create(fn)
	if err != nil {
		return fmt.Errorf("failed to create chart file: %w", err)
	}
	if _, err := img.WriteTo(f); err != nil {
		f.Close()
		return fmt.Errorf("failed to write chart: %w", err)
	}
	return f.Close()
}
