package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mithrel/tally/internal/config"
	"github.com/mithrel/tally/internal/wire"
)

type ctxKey string

const appKey ctxKey = "app"

// skipAppAnnotation marks commands that must work without a valid config.
const skipAppAnnotation = "tally/skip-app"

// Execute builds the root command and runs it.
func Execute() error {
	return NewRootCmd().Execute()
}

// NewRootCmd constructs the Cobra root command and wires dependencies.
func NewRootCmd() *cobra.Command {
	var cfgPath string

	cmd := &cobra.Command{
		Use:           "tally",
		Short:         "tally: merchant transaction reports from spreadsheets",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if skipsApp(cmd) {
				return nil
			}
			v := viper.New()
			if cfgPath != "" {
				v.SetConfigFile(cfgPath)
			}
			if err := config.Load(cmd.Context(), v); err != nil {
				return err
			}
			applyConfigFlagOverrides(cmd, v, map[string]string{
				"backend-url": "backend.url",
				"log-level":   "log.level",
				"renderer":    "charts.renderer",
			})
			app, err := wire.BuildApp(cmd.Context(), v)
			if err != nil {
				return err
			}
			ctx := app.Log.WithContext(cmd.Context())
			cmd.SetContext(context.WithValue(ctx, appKey, app))
			return nil
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&cfgPath, "config", "", "path to config file (yaml|toml)")
	pf.String("backend-url", "", "analysis service base URL")
	pf.String("log-level", "", "log level (debug|info|warn|error)")
	pf.StringP("output", "o", "", "output mode (plain|pretty|json|html)")
	pf.Bool("pager", true, "page terminal output through $PAGER")
	pf.String("renderer", "", "chart renderer (terminal|none)")
	pf.BoolP("quiet", "q", false, "suppress progress messages")
	_ = cmd.RegisterFlagCompletionFunc("output", completeOutputModes)

	cmd.AddCommand(newPrepareCmd())
	cmd.AddCommand(newAnalyzeCmd())
	cmd.AddCommand(newRunCmd())
	cmd.AddCommand(newTUICmd())
	cmd.AddCommand(newCompletionCmd())
	cmd.AddCommand(newConfigCmd())

	cmd.Run = func(cmd *cobra.Command, args []string) { _ = cmd.Help() }

	return cmd
}

func skipsApp(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations[skipAppAnnotation] == "true" {
			return true
		}
	}
	return false
}

func getApp(cmd *cobra.Command) *wire.App {
	v := cmd.Context().Value(appKey)
	if v == nil {
		fmt.Fprintln(os.Stderr, "internal error: app not initialized")
		os.Exit(1)
	}
	return v.(*wire.App)
}
