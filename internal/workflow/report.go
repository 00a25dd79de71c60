package workflow

import (
	"fmt"

	"github.com/mithrel/tally/internal/charts"
	"github.com/mithrel/tally/internal/markdown"
	"github.com/mithrel/tally/pkg/api"
)

// Report is one successful analysis, rendered.
type Report struct {
	RunID     string
	Raw       string
	Document  markdown.Document
	Charts    *charts.Dataset
	ChartsErr error
	TimeRange *api.TimeRange
}

// HasCharts reports whether chart series should be displayed.
func (r Report) HasCharts() bool { return r.Charts != nil && r.ChartsErr == nil }

// NewReport renders the markdown and builds chart series. A chart contract
// breach is returned as an error wrapping charts.ErrContract.
func NewReport(resp api.AnalyzeResponse) (Report, error) {
	rep := Report{
		RunID:     resp.RunID,
		Raw:       resp.ReportMD,
		Document:  markdown.Render(resp.ReportMD),
		TimeRange: resp.TimeRange,
	}
	if resp.Charts != nil {
		ds, err := charts.Build(*resp.Charts)
		if err != nil {
			return Report{}, fmt.Errorf("build charts: %w", err)
		}
		rep.Charts = &ds
	}
	return rep, nil
}
