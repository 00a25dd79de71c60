package cli

import (
	"github.com/spf13/cobra"
)

func newAnalyzeCmd() *cobra.Command {
	var runID string
	var entities []string
	var copyToClipboard bool
	var copyTo string

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Generate the report for a run created by prepare",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			m := app.NewMachine(statusPrinter(cmd))
			if err := m.Resume(runID, entities); err != nil {
				return err
			}
			if _, err := m.Submit(cmd.Context()); err != nil {
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
	cmd.Flags().StringVar(&runID, "run-id", "", "run id printed by prepare")
	cmd.Flags().StringSliceVarP(&entities, "entity", "e", nil, "entity to include (repeatable)")
	cmd.Flags().BoolVar(&copyToClipboard, "copy", false, "copy the report markdown to the clipboard")
	cmd.Flags().StringVar(&copyTo, "copy-to", "", "write the report markdown to a file")
	_ = cmd.MarkFlagRequired("run-id")
	_ = cmd.MarkFlagRequired("entity")
	return cmd
}
