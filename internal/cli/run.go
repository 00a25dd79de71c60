package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mithrel/tally/internal/present/tui"
	"github.com/mithrel/tally/internal/workflow"
)

func newRunCmd() *cobra.Command {
	var entities []string
	var all bool
	var useDefaults bool
	var copyToClipboard bool
	var copyTo string

	cmd := &cobra.Command{
		Use:   "run <file>",
		Short: "Upload a spreadsheet and generate its report in one go",
		Long: `Upload a spreadsheet, select entities and generate the report.

Without --entity, --all or --defaults the interactive picker opens when
attached to a terminal; otherwise the backend's suggested defaults are used.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeSpreadsheets,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			ctx := cmd.Context()

			if len(entities) == 0 && !all && !useDefaults && isTerminal(os.Stdin) && isTerminal(cmd.OutOrStdout()) {
				return tui.Run(ctx, app.NewMachine, tui.Options{
					File:      args[0],
					Clipboard: copyTarget(copyToClipboard, copyTo),
					Charts:    app.Charts,
				})
			}

			m := app.NewMachine(statusPrinter(cmd))
			if err := m.SelectFile(args[0]); err != nil {
				return err
			}
			if _, err := m.Submit(ctx); err != nil {
				return err
			}
			switch {
			case all:
				if err := m.SelectAll(); err != nil {
					return err
				}
			case len(entities) > 0:
				if err := m.SetSelection(entities); err != nil {
					return err
				}
			}
			if _, err := m.Submit(ctx); err != nil {
				if errors.Is(err, workflow.ErrNoSelection) {
					return fmt.Errorf("%w (no defaults suggested; pass --entity or --all)", err)
				}
				return err
			}

			rep, _ := m.LatestReport()
			if err := writeReport(cmd, app, rep, m.Snapshot()); err != nil {
				return err
			}
			if sink := copyTarget(copyToClipboard, copyTo); sink != nil {
				return m.Copy(sink)
			}
			return nil
		},
	}
	cmd.Flags().StringSliceVarP(&entities, "entity", "e", nil, "entity to include (repeatable)")
	cmd.Flags().BoolVar(&all, "all", false, "include every entity")
	cmd.Flags().BoolVar(&useDefaults, "defaults", false, "use the suggested default entities")
	cmd.Flags().BoolVar(&copyToClipboard, "copy", false, "copy the report markdown to the clipboard")
	cmd.Flags().StringVar(&copyTo, "copy-to", "", "write the report markdown to a file")
	cmd.MarkFlagsMutuallyExclusive("entity", "all", "defaults")
	return cmd
}

func newTUICmd() *cobra.Command {
	var copyTo string
	cmd := &cobra.Command{
		Use:               "tui [file]",
		Short:             "Run the workflow interactively",
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: completeSpreadsheets,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			opts := tui.Options{Charts: app.Charts, Clipboard: copyTarget(false, copyTo)}
			if len(args) == 1 {
				opts.File = args[0]
			}
			return tui.Run(cmd.Context(), app.NewMachine, opts)
		},
	}
	cmd.Flags().StringVar(&copyTo, "copy-to", "", "write copied reports to a file instead of the clipboard")
	return cmd
}
