package chart

import (
	"fmt"
	"image/color"
	"io"

	"github.com/jmehdipour/superstore-dashboard/internal/model"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

const (
	Width  = 12 * vg.Inch
	Height = 4 * vg.Inch
)

var lineColor = color.RGBA{R: 31, G: 119, B: 180, A: 255}

// DailyPurchasesPNG renders total purchases by day as a PNG line chart.
func DailyPurchasesPNG(w io.Writer, daily []model.DailyTotal) error {
	p := plot.New()
	p.Title.Text = "Total Purchases by Day"
	p.X.Label.Text = "Customer join date"
	p.Y.Label.Text = "Purchases"
	p.Add(plotter.NewGrid())

	if len(daily) > 0 {
		pts := make(plotter.XYs, len(daily))
		for i, d := range daily {
			pts[i].X = float64(d.Date.Unix())
			pts[i].Y = d.Total
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return fmt.Errorf("build line: %w", err)
		}
		line.Color = lineColor
		line.Width = vg.Points(1)
		p.Add(line)
		p.X.Tick.Marker = plot.TimeTicks{Format: "2006-01-02"}
	}

	wt, err := p.WriterTo(Width, Height, "png")
	if err != nil {
		return fmt.Errorf("render chart: %w", err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("write chart: %w", err)
	}
	return nil
}
