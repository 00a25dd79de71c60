// Package charts reshapes analysis output into renderer-agnostic series.
package charts

import (
	"errors"
	"fmt"

	"github.com/mithrel/tally/pkg/api"
)

// ErrContract reports chart input that breaks the analysis contract.
var ErrContract = errors.New("chart data violates the analysis contract")

// HeatCell is one heatmap coordinate in category form.
type HeatCell struct {
	Hour    int     `json:"hour"`
	Weekday int     `json:"weekday"`
	Value   float64 `json:"value"`
}

type HeatmapSeries struct {
	Cells    []HeatCell `json:"cells"`
	Hours    []string   `json:"hours"`
	Weekdays []string   `json:"weekdays"`
	ScaleMax float64    `json:"scale_max"`
}

// CategorySeries is a pair of parallel label/value sequences.
type CategorySeries struct {
	Labels []string  `json:"labels"`
	Values []float64 `json:"values"`
}

type Dataset struct {
	Heatmap HeatmapSeries  `json:"heatmap"`
	Period  CategorySeries `json:"period"`
	Amount  CategorySeries `json:"amount"`
}

// FlattenHeatmap emits (hour, weekday, value) triples weekday-major and
// returns the colour scale maximum, never below 1.
func FlattenHeatmap(matrix [][]float64) ([]HeatCell, float64) {
	n := 0
	for _, row := range matrix {
		n += len(row)
	}
	cells := make([]HeatCell, 0, n)
	scaleMax := 1.0
	for wd, row := range matrix {
		for h, v := range row {
			cells = append(cells, HeatCell{Hour: h, Weekday: wd, Value: v})
			if v > scaleMax {
				scaleMax = v
			}
		}
	}
	return cells, scaleMax
}

// HourLabels formats hour axis labels as "<hour>:00".
func HourLabels(hours []api.Label) []string {
	out := make([]string, len(hours))
	for i, h := range hours {
		out[i] = string(h) + ":00"
	}
	return out
}

// PeriodSeries copies the label/value pairs without reordering them.
func PeriodSeries(p api.Period) CategorySeries {
	return CategorySeries{
		Labels: append([]string{}, p.Labels...),
		Values: append([]float64{}, p.Values...),
	}
}

// AmountLabels formats one "<lower>-<upper>" label per adjacent edge pair.
func AmountLabels(edges []float64) []string {
	if len(edges) < 2 {
		return []string{}
	}
	out := make([]string, len(edges)-1)
	for i := range out {
		out[i] = fmt.Sprintf("%.2f-%.2f", edges[i], edges[i+1])
	}
	return out
}

// AmountSeries pairs histogram labels with their counts.
func AmountSeries(d api.AmountDistribution) (CategorySeries, error) {
	if len(d.Edges) == 0 && len(d.Counts) == 0 {
		return CategorySeries{Labels: []string{}, Values: []float64{}}, nil
	}
	if len(d.Counts) != len(d.Edges)-1 {
		return CategorySeries{}, fmt.Errorf("%w: %d counts for %d bin edges", ErrContract, len(d.Counts), len(d.Edges))
	}
	return CategorySeries{
		Labels: AmountLabels(d.Edges),
		Values: append([]float64{}, d.Counts...),
	}, nil
}

// Build derives all three series from one analysis result.
func Build(c api.Charts) (Dataset, error) {
	if len(c.Period.Labels) != len(c.Period.Values) {
		return Dataset{}, fmt.Errorf("%w: %d period labels for %d values", ErrContract, len(c.Period.Labels), len(c.Period.Values))
	}
	amount, err := AmountSeries(c.AmountDistribution)
	if err != nil {
		return Dataset{}, err
	}
	cells, scaleMax := FlattenHeatmap(c.Heatmap.Matrix)
	return Dataset{
		Heatmap: HeatmapSeries{
			Cells:    cells,
			Hours:    HourLabels(c.Heatmap.Hours),
			Weekdays: append([]string{}, c.Heatmap.Weekdays...),
			ScaleMax: scaleMax,
		},
		Period: PeriodSeries(c.Period),
		Amount: amount,
	}, nil
}
