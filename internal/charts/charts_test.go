package charts

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mithrel/tally/pkg/api"
)

func TestFlattenHeatmap(t *testing.T) {
	cells, scaleMax := FlattenHeatmap([][]float64{{1, 2, 3}, {4, 5, 6}})
	require.Len(t, cells, 6)
	assert.Equal(t, 6.0, scaleMax)
	for i, c := range cells[:3] {
		assert.Equal(t, 0, c.Weekday)
		assert.Equal(t, i, c.Hour)
	}
	for i, c := range cells[3:] {
		assert.Equal(t, 1, c.Weekday)
		assert.Equal(t, i, c.Hour)
	}
	assert.Equal(t, HeatCell{Hour: 2, Weekday: 1, Value: 6}, cells[5])
}

func TestFlattenHeatmapScaleFloor(t *testing.T) {
	_, scaleMax := FlattenHeatmap([][]float64{{0, 0}, {0, 0}})
	assert.Equal(t, 1.0, scaleMax)

	cells, scaleMax := FlattenHeatmap(nil)
	assert.Empty(t, cells)
	assert.Equal(t, 1.0, scaleMax)

	_, scaleMax = FlattenHeatmap([][]float64{{0.5}})
	assert.Equal(t, 1.0, scaleMax)
}

func TestAmountLabels(t *testing.T) {
	assert.Equal(t, []string{"0.00-10.00", "10.00-20.00"}, AmountLabels([]float64{0, 10, 20}))
	assert.Equal(t, []string{"1.20-1.30"}, AmountLabels([]float64{1.2, 1.3}))
	assert.Empty(t, AmountLabels([]float64{5}))
	assert.Empty(t, AmountLabels(nil))
}

func TestAmountSeries(t *testing.T) {
	s, err := AmountSeries(api.AmountDistribution{Edges: []float64{0, 10, 20}, Counts: []float64{3, 5}})
	require.NoError(t, err)
	assert.Equal(t, []string{"0.00-10.00", "10.00-20.00"}, s.Labels)
	assert.Equal(t, []float64{3, 5}, s.Values)

	_, err = AmountSeries(api.AmountDistribution{Edges: []float64{0, 10}, Counts: []float64{3, 5}})
	assert.ErrorIs(t, err, ErrContract)
}

func TestPeriodSeriesKeepsOrder(t *testing.T) {
	in := api.Period{Labels: []string{"night", "morning", "evening"}, Values: []float64{1, 9, 4}}
	s := PeriodSeries(in)
	assert.Equal(t, in.Labels, s.Labels)
	assert.Equal(t, in.Values, s.Values)

	s.Labels[0] = "changed"
	assert.Equal(t, "night", in.Labels[0])
}

func TestBuild(t *testing.T) {
	ds, err := Build(sampleCharts())
	require.NoError(t, err)
	assert.Equal(t, []string{"6:00", "7:00", "8:00"}, ds.Heatmap.Hours)
	assert.Equal(t, []string{"Mon", "Tue"}, ds.Heatmap.Weekdays)
	assert.Equal(t, 6.0, ds.Heatmap.ScaleMax)
	assert.Len(t, ds.Heatmap.Cells, 6)
	assert.Equal(t, []string{"0.00-10.00", "10.00-20.00"}, ds.Amount.Labels)

	bad := sampleCharts()
	bad.Period.Values = bad.Period.Values[:1]
	_, err = Build(bad)
	assert.ErrorIs(t, err, ErrContract)
}

func TestEChartsOptions(t *testing.T) {
	ds, err := Build(sampleCharts())
	require.NoError(t, err)
	opts := EChartsOptions(ds)

	b, err := json.Marshal(opts)
	require.NoError(t, err)
	var decoded struct {
		Heatmap struct {
			VisualMap struct {
				Max float64 `json:"max"`
			} `json:"visualMap"`
			Series []struct {
				Data [][3]float64 `json:"data"`
			} `json:"series"`
		} `json:"heatmap"`
		Amount struct {
			XAxis struct {
				Data []string `json:"data"`
			} `json:"xAxis"`
		} `json:"amount"`
	}
	require.NoError(t, json.Unmarshal(b, &decoded))
	assert.Equal(t, 6.0, decoded.Heatmap.VisualMap.Max)
	require.Len(t, decoded.Heatmap.Series, 1)
	assert.Equal(t, [3]float64{2, 1, 6}, decoded.Heatmap.Series[0].Data[5])
	assert.Equal(t, []string{"0.00-10.00", "10.00-20.00"}, decoded.Amount.XAxis.Data)
}

func TestLookup(t *testing.T) {
	r, ok := Lookup("terminal", 80)
	assert.True(t, ok)
	assert.Equal(t, TerminalRenderer{Width: 80}, r)

	r, ok = Lookup("none", 80)
	assert.True(t, ok)
	assert.Nil(t, r)

	r, ok = Lookup("gnuplot", 80)
	assert.False(t, ok)
	assert.Nil(t, r)
}

func TestTerminalRenderer(t *testing.T) {
	ds, err := Build(sampleCharts())
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, TerminalRenderer{Width: 60}.Render(&buf, ds))
	out := buf.String()
	assert.Contains(t, out, HeatmapTitle)
	assert.Contains(t, out, PeriodTitle)
	assert.Contains(t, out, AmountTitle)
	assert.Contains(t, out, "Mon")
	assert.Contains(t, out, "morning")
	assert.Contains(t, out, "10.00-20.00")
	assert.Contains(t, out, "█")
}

func TestTerminalRendererEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, TerminalRenderer{}.Render(&buf, Dataset{}))
	assert.Contains(t, buf.String(), "(no data)")
}

func TestTerminalRendererNegativeValues(t *testing.T) {
	ds, err := Build(api.Charts{Period: api.Period{Labels: []string{"morning", "night"}, Values: []float64{5, -1}}})
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NotPanics(t, func() {
		require.NoError(t, TerminalRenderer{Width: 60}.Render(&buf, ds))
	})
	out := buf.String()
	assert.Contains(t, out, "-1")
	assert.Contains(t, out, "█")

	ds.Period.Values = []float64{-3, -1}
	buf.Reset()
	require.NoError(t, TerminalRenderer{Width: 60}.Render(&buf, ds))
	assert.NotContains(t, buf.String(), "█")
}

func TestShadeIndex(t *testing.T) {
	assert.Equal(t, 0, shadeIndex(0, 6))
	assert.Equal(t, 1, shadeIndex(0.1, 6))
	assert.Equal(t, len(shades)-1, shadeIndex(6, 6))
}

func sampleCharts() api.Charts {
	return api.Charts{
		Heatmap: api.Heatmap{
			Matrix:   [][]float64{{1, 2, 3}, {4, 5, 6}},
			Hours:    []api.Label{"6", "7", "8"},
			Weekdays: []string{"Mon", "Tue"},
		},
		Period: api.Period{Labels: []string{"morning", "afternoon"}, Values: []float64{2, 5}},
		AmountDistribution: api.AmountDistribution{
			Edges:  []float64{0, 10, 20},
			Counts: []float64{3, 5},
		},
	}
}
