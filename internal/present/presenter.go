package present

import (
	"context"
	"io"

	"github.com/rs/zerolog"

	"github.com/mithrel/tally/internal/charts"
	"github.com/mithrel/tally/internal/markdown"
	"github.com/mithrel/tally/internal/present/format"
	"github.com/mithrel/tally/internal/workflow"
	"github.com/mithrel/tally/pkg/api"
)

type Mode int

const (
	ModePlain Mode = iota
	ModePretty
	ModeJSON
	ModeHTML
)

type Options struct {
	Mode       Mode
	JSONIndent bool
	Headers    bool
	// Charts draws chart series in terminal modes; nil skips them.
	Charts charts.Renderer
	Width  int
	Meta   format.Meta
}

// ParseMode parses "plain", "pretty", "json" or "html".
func ParseMode(s string) (Mode, bool) {
	switch s {
	case "plain":
		return ModePlain, true
	case "pretty":
		return ModePretty, true
	case "json":
		return ModeJSON, true
	case "html":
		return ModeHTML, true
	default:
		return ModePlain, false
	}
}

func (m Mode) Terminal() bool { return m == ModePlain || m == ModePretty }

type reportJSON struct {
	RunID     string            `json:"run_id,omitempty"`
	Entities  []string          `json:"entities,omitempty"`
	TimeRange *api.TimeRange    `json:"time_range,omitempty"`
	Markdown  string            `json:"markdown"`
	Document  markdown.Document `json:"document"`
	Charts    *charts.Dataset   `json:"charts,omitempty"`
}

// RenderReport renders one finished report according to options.
func RenderReport(ctx context.Context, w io.Writer, rep workflow.Report, opts Options) error {
	meta := opts.Meta
	if meta.RunID == "" {
		meta.RunID = rep.RunID
	}
	if meta.TimeRange == nil {
		meta.TimeRange = rep.TimeRange
	}

	switch opts.Mode {
	case ModeJSON:
		out := reportJSON{
			RunID:     meta.RunID,
			Entities:  meta.Entities,
			TimeRange: meta.TimeRange,
			Markdown:  rep.Raw,
			Document:  rep.Document,
		}
		if rep.HasCharts() {
			out.Charts = rep.Charts
		}
		return format.WriteJSON(w, out, opts.JSONIndent)
	case ModeHTML:
		var chartOpts map[string]any
		if rep.HasCharts() {
			chartOpts = charts.EChartsOptions(*rep.Charts)
		}
		return format.WriteHTMLReport(w, rep.Document, meta, chartOpts)
	case ModePretty:
		if err := format.WritePrettyReport(w, rep.Document, meta, opts.Width); err != nil {
			return err
		}
	default:
		if err := format.WritePlainReport(w, rep.Document, meta); err != nil {
			return err
		}
	}
	return renderCharts(ctx, w, rep, opts.Charts)
}

func renderCharts(ctx context.Context, w io.Writer, rep workflow.Report, r charts.Renderer) error {
	if r == nil || !rep.HasCharts() {
		return nil
	}
	if _, err := io.WriteString(w, "\n"); err != nil {
		return err
	}
	if err := r.Render(w, *rep.Charts); err != nil {
		// Charts never block the report text.
		zerolog.Ctx(ctx).Warn().Err(err).Msg("chart rendering failed")
	}
	return nil
}

type preparedJSON struct {
	RunID    string   `json:"run_id"`
	File     string   `json:"file,omitempty"`
	Digest   string   `json:"digest,omitempty"`
	Entities []string `json:"entities"`
	Defaults []string `json:"defaults"`
}

// RenderPrepared prints the outcome of the prepare phase.
func RenderPrepared(ctx context.Context, w io.Writer, snap workflow.Snapshot, opts Options) error {
	if opts.Mode == ModeJSON {
		out := preparedJSON{
			RunID:    snap.RunID,
			File:     snap.File,
			Entities: nonNil(snap.Available),
			Defaults: nonNil(snap.Defaults),
		}
		if snap.Upload != nil {
			out.Digest = snap.Upload.Digest
		}
		return format.WriteJSON(w, out, opts.JSONIndent)
	}
	if opts.Headers {
		if _, err := io.WriteString(w, "run "+snap.RunID+"\n"); err != nil {
			return err
		}
	}
	return format.WritePlainEntities(w, snap.Available, snap.Defaults, opts.Headers)
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
