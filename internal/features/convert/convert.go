// Package convert turns a JSON payload into a rendered chart file:
// decode, build the forest, lay out segments, then hand the result to a
// Renderer.
package convert

import (
	"fmt"
	"time"

	"activity-charts/internal/activity"
	apperr "activity-charts/internal/errors"
	logging "activity-charts/internal/infra/log"
	"activity-charts/internal/input"
	"activity-charts/internal/layout"

	"go.uber.org/zap"
)

// Kind is the chart type handed to the renderer.
type Kind string

const (
	KindPie      Kind = "pie"
	KindSunburst Kind = "sunburst"
)

// Mode selects the chart kind. ModeAuto draws flat input as a pie and
// tree input as a sunburst.
type Mode string

const (
	ModeAuto     Mode = "auto"
	ModePie      Mode = "pie"
	ModeSunburst Mode = "sunburst"
)

// Chart is everything a renderer needs to draw one image.
type Chart struct {
	Kind     Kind
	Segments []layout.Segment
	Legend   []layout.LegendEntry
	Total    float64
	MaxDepth int
	Title    string
}

// Renderer draws a chart and writes it to path. It must not leave a
// partial file behind on failure.
type Renderer interface {
	Render(chart Chart, path string) error
}

type Options struct {
	Mode     Mode
	Policy   activity.Policy
	Layout   layout.Options
	Title    string
	Renderer Renderer
	RunID    string // tags log lines; optional
}

// Result summarises a successful conversion.
type Result struct {
	Kind     Kind
	Input    input.Kind
	Segments []layout.Segment
	Legend   []layout.LegendEntry
	Total    float64
	Dangling []activity.NodeID
	Path     string
	Duration time.Duration
}

// Run converts data into a chart at out. The renderer is only invoked once
// decoding, building and layout have all succeeded.
func Run(data []byte, out string, opts Options) (*Result, error) {
	start := time.Now()
	logger := logging.Logger
	if opts.RunID != "" {
		logger = logging.RunLogger(opts.RunID)
	}

	if opts.Renderer == nil {
		return nil, apperr.New(apperr.CodeConfig, "no renderer configured")
	}
	if out == "" {
		return nil, apperr.RenderFailed(nil, "output path is empty")
	}
	kind, err := resolveMode(opts.Mode)
	if err != nil {
		return nil, err
	}

	doc, err := input.Decode(data)
	if err != nil {
		return nil, err
	}
	decoded := []zap.Field{
		zap.String("form", string(doc.Kind)),
		zap.Int("records", len(doc.Records)),
	}
	if opts.RunID != "" {
		decoded = append(decoded, zap.String("run_id", opts.RunID))
	}
	logging.LogInfo("Input decoded", decoded...)

	forest, err := activity.Build(doc.Records, opts.Policy)
	if err != nil {
		return nil, err
	}
	for _, id := range forest.Dangling() {
		logger.Warn("parent not found, node drawn as root", zap.String("node_id", string(id)))
	}

	if kind == "" {
		kind = KindSunburst
		if doc.Kind == input.KindFlat {
			kind = KindPie
		}
	}

	segments := layout.Layout(forest, opts.Layout)
	legend := layout.Legend(forest, segments)
	chart := Chart{
		Kind:     kind,
		Segments: segments,
		Legend:   legend,
		Total:    forest.Total(),
		MaxDepth: forest.MaxDepth(),
		Title:    opts.Title,
	}
	if kind == KindPie {
		chart.Segments = rootSegments(segments)
		chart.MaxDepth = 1
	}
	logger.Info("layout computed",
		zap.String("kind", string(kind)),
		zap.Int("segments", len(chart.Segments)),
		zap.Int("legend_entries", len(legend)),
		zap.Float64("total", chart.Total))

	if err := opts.Renderer.Render(chart, out); err != nil {
		if apperr.GetCode(err) == "" {
			err = apperr.RenderFailed(err, "render %s", out)
		}
		return nil, err
	}

	return &Result{
		Kind:     kind,
		Input:    doc.Kind,
		Segments: chart.Segments,
		Legend:   legend,
		Total:    chart.Total,
		Dangling: forest.Dangling(),
		Path:     out,
		Duration: time.Since(start),
	}, nil
}

func resolveMode(m Mode) (Kind, error) {
	switch m {
	case "", ModeAuto:
		return "", nil
	case ModePie:
		return KindPie, nil
	case ModeSunburst:
		return KindSunburst, nil
	default:
		return "", apperr.New(apperr.CodeConfig, "unknown chart mode %q", m)
	}
}

func rootSegments(segments []layout.Segment) []layout.Segment {
	roots := make([]layout.Segment, 0, len(segments))
	for _, s := range segments {
		if s.Level == 1 {
			roots = append(roots, s)
		}
	}
	return roots
}

func (r *Result) String() string {
	return fmt.Sprintf("%s chart, %d segments, total %s -> %s",
		r.Kind, len(r.Segments), layout.FormatValue(r.Total), r.Path)
}
