package chart

import (
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/excelvision/excelvision/internal/models"
)

// ErrNoAxes is returned when the X or Y column name is empty.
var ErrNoAxes = errors.New("both x and y columns must be selected")

// Point is one scatter sample.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Dataset is the renderer-ready shape of one chart. For Bar, Line and Pie
// charts Labels and Values are parallel slices in input row order; for
// Scatter only Points is populated.
//
// Value policy: a Y cell that is missing or non-numeric becomes NaN and is
// kept in Values (the renderer draws it as a zero-height gap). Scatter rows
// where either coordinate fails to parse are filtered out entirely. Pie
// values are not normalized here; the renderer drops non-positive slices.
type Dataset struct {
	Kind   Kind
	XLabel string
	YLabel string
	Labels []string
	Values []float64
	Points []Point
}

// Build shapes rows into a chart dataset. It is pure: no I/O, the input is
// not mutated, and identical inputs yield identical output.
func Build(rows []models.Row, x, y string, kind Kind) (*Dataset, error) {
	if x == "" || y == "" {
		return nil, ErrNoAxes
	}

	ds := &Dataset{Kind: kind, XLabel: x, YLabel: y}
	switch kind {
	case KindBar, KindLine, KindPie:
		ds.Labels = make([]string, 0, len(rows))
		ds.Values = make([]float64, 0, len(rows))
		for _, row := range rows {
			ds.Labels = append(ds.Labels, stringify(row[x]))
			ds.Values = append(ds.Values, numeric(row[y]))
		}
	case KindScatter:
		ds.Points = make([]Point, 0, len(rows))
		for _, row := range rows {
			px := numeric(row[x])
			py := numeric(row[y])
			if math.IsNaN(px) || math.IsNaN(py) {
				continue
			}
			ds.Points = append(ds.Points, Point{X: px, Y: py})
		}
	default:
		return nil, fmt.Errorf("unknown chart kind %v", kind)
	}
	return ds, nil
}

// Scene is the 3D bar layout: bar heights and positions along one spatial
// axis, plus the camera and lighting defaults a 3D client renders with.
// Orbit controls and shading are the client's concern.
type Scene struct {
	Bars    []SceneBar `json:"bars"`
	Spacing float64    `json:"spacing"`
	OffsetX float64    `json:"offset_x"`

	Camera               [3]float64 `json:"camera"`
	AmbientIntensity     float64    `json:"ambient_intensity"`
	DirectionalIntensity float64    `json:"directional_intensity"`
}

// SceneBar is one labeled bar in the 3D scene.
type SceneBar struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
	X     float64 `json:"x"`
}

// scene3DMaxBars caps the 3D chart at the first rows, for clarity.
const scene3DMaxBars = 20

const scene3DSpacing = 1.5

// Build3D lays out rows as evenly spaced bars along the X axis, capped at
// scene3DMaxBars and auto-centered around the origin. Non-numeric Y values
// become zero-height bars; non-string X values get a positional label.
func Build3D(rows []models.Row, x, y string) *Scene {
	if len(rows) > scene3DMaxBars {
		rows = rows[:scene3DMaxBars]
	}

	bars := make([]SceneBar, 0, len(rows))
	for i, row := range rows {
		label, ok := row[x].(string)
		if !ok {
			label = fmt.Sprintf("Item %d", i+1)
		}
		v := numeric(row[y])
		if math.IsNaN(v) {
			v = 0
		}
		bars = append(bars, SceneBar{
			Label: label,
			Value: v,
			X:     float64(i) * scene3DSpacing,
		})
	}

	return &Scene{
		Bars:                 bars,
		Spacing:              scene3DSpacing,
		OffsetX:              -(float64(len(bars)-1) * scene3DSpacing) / 2,
		Camera:               [3]float64{10, 15, 30},
		AmbientIntensity:     0.6,
		DirectionalIntensity: 0.6,
	}
}

// stringify renders a cell value as a chart label.
func stringify(v any) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// numeric parses a cell value as float64, NaN if missing or non-numeric.
func numeric(v any) float64 {
	switch n := v.(type) {
	case int64:
		return float64(n)
	case float64:
		return n
	case string:
		if f, err := strconv.ParseFloat(n, 64); err == nil {
			return f
		}
	}
	return math.NaN()
}
