// Package chart renders parsed tables to PNG files.
package chart

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"taskpilot/config"
	"taskpilot/table"
)

// Supported chart types.
const (
	TypeLine    = "line"
	TypeBar     = "bar"
	TypeScatter = "scatter"
)

// UnsupportedChartTypeError reports a chart type outside line/bar/scatter.
type UnsupportedChartTypeError struct {
	Kind string
}

func (e *UnsupportedChartTypeError) Error() string {
	return fmt.Sprintf("unsupported chart type: %q", e.Kind)
}

// Renderer draws tables as PNG charts under a configured output directory.
type Renderer struct {
	cfg    config.PlotConfig
	logger func(string)
}

// NewRenderer creates a renderer. The logger may be nil.
func NewRenderer(cfg config.PlotConfig, logger func(string)) *Renderer {
	return &Renderer{cfg: cfg, logger: logger}
}

func (r *Renderer) log(msg string) {
	if r.logger != nil {
		r.logger(msg)
	}
}

// Render draws the table as the requested chart type and returns the path of
// the written PNG file. The file name is unique per call (UTC timestamp plus
// a random suffix) and the output directory is created if absent.
func (r *Renderer) Render(t *table.Table, chartType string) (string, error) {
	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s vs %s", t.YCol, t.XCol)
	p.X.Label.Text = t.XCol
	p.Y.Label.Text = t.YCol

	switch chartType {
	case TypeLine:
		line, points, err := plotter.NewLinePoints(xyPoints(t))
		if err != nil {
			return "", fmt.Errorf("failed to build line chart: %w", err)
		}
		p.Add(line, points)
		r.labelXAxis(p, t)
	case TypeScatter:
		scatter, err := plotter.NewScatter(xyPoints(t))
		if err != nil {
			return "", fmt.Errorf("failed to build scatter chart: %w", err)
		}
		p.Add(scatter)
		r.labelXAxis(p, t)
	case TypeBar:
		// Bars are categorical: x values become text labels.
		bars, err := plotter.NewBarChart(plotter.Values(t.YValues()), vg.Points(20))
		if err != nil {
			return "", fmt.Errorf("failed to build bar chart: %w", err)
		}
		p.Add(bars)
		p.NominalX(t.XLabels()...)
	default:
		return "", &UnsupportedChartTypeError{Kind: chartType}
	}

	path, err := r.save(p)
	if err != nil {
		return "", err
	}
	r.log(fmt.Sprintf("[CHART] Rendered %s chart (%d rows) to %s", chartType, len(t.Rows), path))
	return path, nil
}

// labelXAxis switches the x axis to time ticks or nominal labels when the x
// column is not numeric.
func (r *Renderer) labelXAxis(p *plot.Plot, t *table.Table) {
	switch t.XKindOf() {
	case table.XTime:
		p.X.Tick.Marker = plot.TimeTicks{Format: "2006-01-02"}
	case table.XText:
		p.NominalX(t.XLabels()...)
	}
}

// xyPoints maps rows to plot coordinates: numeric x values directly, time
// values as unix seconds, text values as their row index.
func xyPoints(t *table.Table) plotter.XYs {
	ys := t.YValues()
	pts := make(plotter.XYs, len(ys))
	for i := range pts {
		pts[i].Y = ys[i]
		switch t.XKindOf() {
		case table.XNumeric:
			pts[i].X = t.XFloats()[i]
		case table.XTime:
			pts[i].X = float64(t.XTimes()[i].Unix())
		default:
			pts[i].X = float64(i)
		}
	}
	return pts
}

func (r *Renderer) save(p *plot.Plot) (string, error) {
	if err := os.MkdirAll(r.cfg.OutputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:6]
	name := fmt.Sprintf("plot_%s_%s.png", time.Now().UTC().Format("20060102150405"), suffix)
	path := filepath.Join(r.cfg.OutputDir, name)

	canvas := vgimg.NewWith(
		vgimg.UseWH(vg.Length(r.cfg.FigureWidth)*vg.Inch, vg.Length(r.cfg.FigureHeight)*vg.Inch),
		vgimg.UseDPI(r.cfg.DPI),
	)
	p.Draw(draw.New(canvas))

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create chart file: %w", err)
	}
	defer f.Close()

	png := vgimg.PngCanvas{Canvas: canvas}
	if _, err := png.WriteTo(f); err != nil {
		return "", fmt.Errorf("failed to write chart file: %w", err)
	}
	return path, nil
}
