package present

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mithrel/tally/internal/charts"
	"github.com/mithrel/tally/internal/workflow"
	"github.com/mithrel/tally/pkg/api"
)

func sampleReport(t *testing.T) workflow.Report {
	t.Helper()
	rep, err := workflow.NewReport(api.AnalyzeResponse{
		RunID:    "r1",
		ReportMD: "# Report\nTotal <b>12</b>",
		Charts: &api.Charts{
			Heatmap:            api.Heatmap{Matrix: [][]float64{{1, 3}}, Hours: []api.Label{"8", "9"}, Weekdays: []string{"Mon"}},
			Period:             api.Period{Labels: []string{"morning"}, Values: []float64{4}},
			AmountDistribution: api.AmountDistribution{Edges: []float64{0, 10}, Counts: []float64{4}},
		},
		TimeRange: &api.TimeRange{StartHour: 8, EndHour: 9},
	})
	require.NoError(t, err)
	return rep
}

func TestParseMode(t *testing.T) {
	for _, s := range []string{"plain", "pretty", "json", "html"} {
		_, ok := ParseMode(s)
		assert.True(t, ok, s)
	}
	_, ok := ParseMode("tui")
	assert.False(t, ok)
}

func TestRenderReportJSON(t *testing.T) {
	var buf bytes.Buffer
	opts := Options{Mode: ModeJSON}
	opts.Meta.Entities = []string{"Dorm A"}
	require.NoError(t, RenderReport(context.Background(), &buf, sampleReport(t), opts))

	var got map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "r1", got["run_id"])
	assert.Equal(t, "# Report\nTotal <b>12</b>", got["markdown"])
	assert.Contains(t, got, "charts")
	assert.Equal(t, []any{"Dorm A"}, got["entities"])
	blocks := got["document"].(map[string]any)["blocks"].([]any)
	assert.Equal(t, "heading1", blocks[0].(map[string]any)["kind"])
}

func TestRenderReportJSONDropsDegradedCharts(t *testing.T) {
	rep := sampleReport(t)
	rep.ChartsErr = &workflow.RenderingDependencyError{Component: "x"}
	var buf bytes.Buffer
	require.NoError(t, RenderReport(context.Background(), &buf, rep, Options{Mode: ModeJSON}))
	assert.NotContains(t, buf.String(), `"charts"`)
}

type countingRenderer struct {
	calls int
	err   error
}

func (c *countingRenderer) Render(w io.Writer, ds charts.Dataset) error {
	c.calls++
	_, _ = io.WriteString(w, "CHARTS\n")
	return c.err
}

func TestRenderReportPlainWithCharts(t *testing.T) {
	var buf bytes.Buffer
	r := &countingRenderer{}
	require.NoError(t, RenderReport(context.Background(), &buf, sampleReport(t), Options{Mode: ModePlain, Charts: r}))
	assert.Equal(t, 1, r.calls)
	out := buf.String()
	assert.Contains(t, out, "Total <b>12</b>")
	assert.Contains(t, out, "hours  8:00-9:00")
	assert.Contains(t, out, "CHARTS")
}

func TestChartFailureDoesNotFailReport(t *testing.T) {
	var buf bytes.Buffer
	r := &countingRenderer{err: errors.New("boom")}
	require.NoError(t, RenderReport(context.Background(), &buf, sampleReport(t), Options{Mode: ModePlain, Charts: r}))
	assert.Contains(t, buf.String(), "Report")
}

func TestRenderReportHTML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderReport(context.Background(), &buf, sampleReport(t), Options{Mode: ModeHTML}))
	out := buf.String()
	assert.Contains(t, out, "<p>Total &lt;b&gt;12&lt;/b&gt;</p>")
	assert.Contains(t, out, `id="heatmap"`)
}

func TestRenderPrepared(t *testing.T) {
	snap := workflow.Snapshot{
		RunID:     "r1",
		Available: []string{"Dorm A", "Canteen"},
		Defaults:  []string{"Canteen"},
		Upload:    &api.Upload{Digest: "abc"},
	}
	var buf bytes.Buffer
	require.NoError(t, RenderPrepared(context.Background(), &buf, snap, Options{Mode: ModePlain}))
	assert.Equal(t, "Dorm A   \nCanteen  *\n", buf.String())

	buf.Reset()
	require.NoError(t, RenderPrepared(context.Background(), &buf, snap, Options{Mode: ModeJSON}))
	assert.JSONEq(t, `{"run_id":"r1","digest":"abc","entities":["Dorm A","Canteen"],"defaults":["Canteen"]}`, buf.String())
}

func TestFileClipboard(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.md")
	require.NoError(t, FileClipboard{Path: path}.WriteText("# R"))
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "# R", string(b))
}
