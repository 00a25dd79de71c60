package wire

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/mithrel/tally/internal/backend"
	"github.com/mithrel/tally/internal/charts"
	"github.com/mithrel/tally/internal/config"
	"github.com/mithrel/tally/internal/upload"
	"github.com/mithrel/tally/internal/workflow"
)

// App aggregates the major services for easy injection.
type App struct {
	Cfg       *viper.Viper
	Log       zerolog.Logger
	Backend   *backend.Client
	Inspector *upload.Inspector

	// Charts is nil when charts are disabled or the configured renderer
	// is unknown; ChartsMissing names the latter.
	Charts        charts.Renderer
	ChartsMissing string
}

// BuildApp validates the loaded config and wires dependencies from it.
func BuildApp(ctx context.Context, v *viper.Viper) (*App, error) {
	if err := config.CheckConfigValidity(v); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	logger, err := newLogger(os.Stderr, v.GetString("log.level"))
	if err != nil {
		return nil, err
	}

	app := &App{
		Cfg: v,
		Log: logger,
		Backend: backend.New(backend.Options{
			BaseURL:     v.GetString("backend.url"),
			PreparePath: v.GetString("backend.prepare_path"),
			AnalyzePath: v.GetString("backend.analyze_path"),
			Timeout:     v.GetDuration("backend.timeout"),
		}),
		Inspector: upload.NewInspector(upload.Options{
			MaxBytes:       v.GetInt64("upload.max_bytes"),
			Extensions:     v.GetStringSlice("upload.extensions"),
			VerifyWorkbook: v.GetBool("upload.verify_workbook"),
		}),
	}

	name := strings.TrimSpace(v.GetString("charts.renderer"))
	r, ok := charts.Lookup(name, v.GetInt("charts.width"))
	if !ok {
		app.ChartsMissing = name
		logger.Warn().Str("renderer", name).Msg("unknown chart renderer")
	}
	app.Charts = r
	return app, nil
}

// NewMachine starts a workflow bound to the app's backend and preflight.
func (a *App) NewMachine(status workflow.StatusSink) *workflow.Machine {
	opts := []workflow.Option{
		workflow.WithInspector(a.Inspector),
		workflow.WithLogger(a.Log),
	}
	if status != nil {
		opts = append(opts, workflow.WithStatus(status))
	}
	if a.ChartsMissing != "" {
		opts = append(opts, workflow.WithChartsUnavailable(a.ChartsMissing))
	}
	return workflow.New(a.Backend, opts...)
}

// newLogger writes human-readable lines to terminals and JSON elsewhere.
func newLogger(w io.Writer, level string) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("log.level: %w", err)
	}
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		w = zerolog.ConsoleWriter{Out: f, TimeFormat: "15:04:05"}
	}
	return zerolog.New(w).Level(lvl).With().Timestamp().Logger(), nil
}
