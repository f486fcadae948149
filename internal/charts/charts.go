// Package charts renders statistics series into PNG images under the media
// directory.
package charts

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/wcharczuk/go-chart/v2"

	"github.com/spec-kit/estate-agency/internal/config"
)

// ErrEmptySeries is returned for a series without points.
var ErrEmptySeries = errors.New("charts: empty series")

// Series is one labelled numeric series.
type Series struct {
	Name   string
	Title  string
	Labels []string
	Values []float64
}

// Validate rejects empty and misaligned series.
func (s Series) Validate() error {
	if len(s.Values) == 0 {
		return ErrEmptySeries
	}
	if len(s.Labels) != len(s.Values) {
		return fmt.Errorf("charts: %d labels for %d values", len(s.Labels), len(s.Values))
	}
	return nil
}

// yRange anchors the axis at zero with headroom above the tallest bar.
// go-chart cannot derive a range from a single bar or equal values.
func (s Series) yRange() *chart.ContinuousRange {
	lo, hi := 0.0, 0.0
	for _, v := range s.Values {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if hi <= lo {
		hi = lo + 1
	}
	return &chart.ContinuousRange{Min: lo, Max: hi * 1.1}
}

//go:generate mockgen -destination=../mocks/charts_mock.go -package=mocks github.com/spec-kit/estate-agency/internal/charts Renderer

// Renderer turns a series into an image and returns its public URL.
type Renderer interface {
	RenderBar(series Series) (string, error)
}

// PNGRenderer writes bar charts with go-chart.
type PNGRenderer struct {
	dir       string
	urlPrefix string
	width     int
	height    int
}

// NewPNGRenderer stores charts in <media root>/charts.
func NewPNGRenderer(cfg config.MediaConfig) *PNGRenderer {
	return &PNGRenderer{
		dir:       filepath.Join(cfg.Root, "charts"),
		urlPrefix: cfg.URLPrefix + "charts/",
		width:     800,
		height:    400,
	}
}

// RenderBar draws series as a bar chart named series.Name.png.
func (r *PNGRenderer) RenderBar(series Series) (string, error) {
	if err := series.Validate(); err != nil {
		return "", err
	}

	bars := make([]chart.Value, 0, len(series.Values))
	for i, v := range series.Values {
		bars = append(bars, chart.Value{Label: series.Labels[i], Value: v})
	}
	graph := chart.BarChart{
		Title:    series.Title,
		Width:    r.width,
		Height:   r.height,
		BarWidth: 40,
		Bars:     bars,
		YAxis:    chart.YAxis{Range: series.yRange()},
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return "", fmt.Errorf("render %s: %w", series.Name, err)
	}
	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return "", err
	}
	file := series.Name + ".png"
	if err := os.WriteFile(filepath.Join(r.dir, file), buf.Bytes(), 0o644); err != nil {
		return "", err
	}
	return r.urlPrefix + file, nil
}
