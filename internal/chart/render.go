package chart

import (
	"bytes"
	"errors"
	"fmt"
	"math"

	gochart "github.com/wcharczuk/go-chart/v2"
)

// ErrEmptyDataset is returned when there is nothing drawable in a dataset.
var ErrEmptyDataset = errors.New("dataset has no drawable values")

// Render rasterizes a dataset to a PNG of the given dimensions.
func Render(ds *Dataset, width, height int) ([]byte, error) {
	if width <= 0 {
		width = 1024
	}
	if height <= 0 {
		height = 576
	}

	var buf bytes.Buffer
	var err error
	switch ds.Kind {
	case KindBar:
		err = renderBar(ds, width, height, &buf)
	case KindLine:
		err = renderLine(ds, width, height, &buf)
	case KindPie:
		err = renderPie(ds, width, height, &buf)
	case KindScatter:
		err = renderScatter(ds, width, height, &buf)
	default:
		err = fmt.Errorf("unknown chart kind %v", ds.Kind)
	}
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func renderBar(ds *Dataset, width, height int, buf *bytes.Buffer) error {
	if len(ds.Values) == 0 {
		return ErrEmptyDataset
	}
	bars := make([]gochart.Value, 0, len(ds.Values))
	for i, v := range ds.Values {
		// NaN draws as a zero-height gap.
		if math.IsNaN(v) {
			v = 0
		}
		bars = append(bars, gochart.Value{Value: v, Label: ds.Labels[i]})
	}

	c := gochart.BarChart{
		Title:    fmt.Sprintf("%s by %s", ds.YLabel, ds.XLabel),
		Width:    width,
		Height:   height,
		BarWidth: 40,
		Bars:     bars,
	}
	return c.Render(gochart.PNG, buf)
}

func renderLine(ds *Dataset, width, height int, buf *bytes.Buffer) error {
	if len(ds.Values) == 0 {
		return ErrEmptyDataset
	}
	xs := make([]float64, len(ds.Values))
	ys := make([]float64, len(ds.Values))
	ticks := make([]gochart.Tick, len(ds.Values))
	for i, v := range ds.Values {
		if math.IsNaN(v) {
			v = 0
		}
		xs[i] = float64(i)
		ys[i] = v
		ticks[i] = gochart.Tick{Value: float64(i), Label: ds.Labels[i]}
	}

	c := gochart.Chart{
		Title:  fmt.Sprintf("%s by %s", ds.YLabel, ds.XLabel),
		Width:  width,
		Height: height,
		XAxis:  gochart.XAxis{Ticks: ticks},
		Series: []gochart.Series{
			gochart.ContinuousSeries{
				Name:    ds.YLabel,
				XValues: xs,
				YValues: ys,
			},
		},
	}
	return c.Render(gochart.PNG, buf)
}

// renderPie drops non-positive slices: the builder performs no negative
// value normalization, so the decision lands here.
func renderPie(ds *Dataset, width, height int, buf *bytes.Buffer) error {
	values := make([]gochart.Value, 0, len(ds.Values))
	for i, v := range ds.Values {
		if math.IsNaN(v) || v <= 0 {
			continue
		}
		values = append(values, gochart.Value{Value: v, Label: ds.Labels[i]})
	}
	if len(values) == 0 {
		return ErrEmptyDataset
	}

	c := gochart.PieChart{
		Title:  fmt.Sprintf("%s by %s", ds.YLabel, ds.XLabel),
		Width:  width,
		Height: height,
		Values: values,
	}
	return c.Render(gochart.PNG, buf)
}

func renderScatter(ds *Dataset, width, height int, buf *bytes.Buffer) error {
	if len(ds.Points) == 0 {
		return ErrEmptyDataset
	}
	xs := make([]float64, len(ds.Points))
	ys := make([]float64, len(ds.Points))
	for i, p := range ds.Points {
		xs[i] = p.X
		ys[i] = p.Y
	}

	c := gochart.Chart{
		Title:  fmt.Sprintf("%s vs %s", ds.YLabel, ds.XLabel),
		Width:  width,
		Height: height,
		Series: []gochart.Series{
			gochart.ContinuousSeries{
				Name: ds.YLabel,
				Style: gochart.Style{
					StrokeWidth: gochart.Disabled,
					DotWidth:    5,
				},
				XValues: xs,
				YValues: ys,
			},
		},
	}
	return c.Render(gochart.PNG, buf)
}
