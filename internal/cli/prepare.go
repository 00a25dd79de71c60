package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/mithrel/tally/internal/present"
	"github.com/mithrel/tally/internal/upload"
)

func newPrepareCmd() *cobra.Command {
	return &cobra.Command{
		Use:               "prepare <file>",
		Short:             "Upload a spreadsheet and list the entities found in it",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeSpreadsheets,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			m := app.NewMachine(statusPrinter(cmd))
			if err := m.SelectFile(args[0]); err != nil {
				return err
			}
			if _, err := m.Submit(cmd.Context()); err != nil {
				return err
			}
			opts, err := outputOptions(cmd, app)
			if err != nil {
				return err
			}
			return present.RenderPrepared(cmd.Context(), cmd.OutOrStdout(), m.Snapshot(), opts)
		},
	}
}

func completeSpreadsheets(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	exts := make([]string, len(upload.DefaultExtensions))
	for i, e := range upload.DefaultExtensions {
		exts[i] = strings.TrimPrefix(e, ".")
	}
	return exts, cobra.ShellCompDirectiveFilterFileExt
}
