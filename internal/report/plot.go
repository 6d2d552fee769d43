package report

import (
	"fmt"
	"image/color"
	"log"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// SavePlot writes the delay/distance scatter as a PNG under the output
// directory, with the fitted curve overlaid when one was produced, and
// returns the written path. An empty result renders as bare axes.
func (r *Report) SavePlot(res *Result) (string, error) {
	p := plot.New()
	p.Title.Text = "Mean departure delay by route distance"
	p.X.Label.Text = "Route distance"
	p.Y.Label.Text = "Mean departure delay (min)"

	if len(res.Points) == 0 {
		// No data to derive axis ranges from.
		p.X.Min, p.X.Max = 0, 1
		p.Y.Min, p.Y.Max = 0, 1
	} else {
		xys := make(plotter.XYs, len(res.Points))
		for i, pt := range res.Points {
			xys[i] = plotter.XY{X: pt.Distance, Y: pt.AvgDelay}
		}
		scatter, err := plotter.NewScatter(xys)
		if err != nil {
			return "", fmt.Errorf("failed to build scatter: %w", err)
		}
		scatter.GlyphStyle.Radius = vg.Points(2)
		p.Add(scatter)
		p.Legend.Add("routes", scatter)
	}

	if len(res.Curve) > 0 {
		xys := make(plotter.XYs, len(res.Curve))
		for i, pt := range res.Curve {
			xys[i] = plotter.XY{X: pt.X, Y: pt.Y}
		}
		line, err := plotter.NewLine(xys)
		if err != nil {
			return "", fmt.Errorf("failed to build fit line: %w", err)
		}
		line.LineStyle.Width = vg.Points(1.5)
		line.LineStyle.Color = color.RGBA{R: 0xd6, G: 0x3b, B: 0x13, A: 0xff}
		p.Add(line)
		p.Legend.Add("weighted fit", line)
	}

	path, err := r.artifactPath(r.cfg.PlotFile)
	if err != nil {
		return "", err
	}
	if err := p.Save(8*vg.Inch, 5*vg.Inch, path); err != nil {
		return "", fmt.Errorf("failed to save plot: %w", err)
	}

	log.Printf("Plot written: %s", path)
	return path, nil
}
