package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/mithrel/tally/internal/present"
	"github.com/mithrel/tally/internal/present/format"
	"github.com/mithrel/tally/internal/util"
	"github.com/mithrel/tally/internal/wire"
	"github.com/mithrel/tally/internal/workflow"
)

var outputModes = []string{"plain", "pretty", "json", "html"}

// statusPrinter writes progress to stderr. Errors are left out since the
// command returns them and main prints them once.
func statusPrinter(cmd *cobra.Command) workflow.StatusSink {
	if quiet, _ := cmd.Flags().GetBool("quiet"); quiet {
		return nil
	}
	w := cmd.ErrOrStderr()
	return workflow.StatusFunc(func(msg string, sev workflow.Severity) {
		switch sev {
		case workflow.SeverityError:
			return
		case workflow.SeverityLoading:
			fmt.Fprintf(w, "… %s\n", msg)
		default:
			fmt.Fprintln(w, msg)
		}
	})
}

func outputOptions(cmd *cobra.Command, app *wire.App) (present.Options, error) {
	name := app.Cfg.GetString("output")
	mode, ok := present.ParseMode(name)
	if !ok {
		return present.Options{}, fmt.Errorf("unknown output mode %q", name)
	}
	out := cmd.OutOrStdout()
	return present.Options{
		Mode:       mode,
		JSONIndent: isTerminal(out),
		Headers:    true,
		Charts:     app.Charts,
		Width:      terminalWidth(out),
	}, nil
}

// writeReport renders rep to stdout, paging terminal modes when enabled.
func writeReport(cmd *cobra.Command, app *wire.App, rep workflow.Report, snap workflow.Snapshot) error {
	opts, err := outputOptions(cmd, app)
	if err != nil {
		return err
	}
	opts.Meta = format.Meta{File: snap.File, Entities: snap.Selected}

	if rep.ChartsErr != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v; showing the report only\n", rep.ChartsErr)
	}

	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	render := func(w io.Writer) error { return present.RenderReport(ctx, w, rep, opts) }
	if opts.Mode.Terminal() && app.Cfg.GetBool("pager") {
		return withPager(ctx, out, cmd.ErrOrStderr(), render)
	}
	return render(out)
}

// copyTarget picks the clipboard sink requested by --copy / --copy-to.
func copyTarget(copyToClipboard bool, copyTo string) workflow.ClipboardSink {
	switch {
	case copyTo != "":
		return present.FileClipboard{Path: copyTo}
	case copyToClipboard:
		return present.SystemClipboard{}
	default:
		return nil
	}
}

func completeOutputModes(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	return util.ScoreCompletions(toComplete, outputModes, 0), cobra.ShellCompDirectiveNoFileComp
}
