package cli

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mithrel/tally/internal/config"
)

// applyConfigFlagOverrides copies changed flags onto v. Flags named like a
// config key map directly; extra maps other flag names to keys.
func applyConfigFlagOverrides(cmd *cobra.Command, v *viper.Viper, extra map[string]string) {
	for _, opt := range config.GetConfigOptions() {
		if changed(cmd, opt.Key) {
			setFromFlag(cmd, v, opt.Key, opt.Key)
		}
	}
	for flagName, key := range extra {
		if changed(cmd, flagName) {
			setFromFlag(cmd, v, flagName, key)
		}
	}
}

func changed(cmd *cobra.Command, name string) bool {
	f := cmd.Flags().Lookup(name)
	return f != nil && f.Changed
}

func setFromFlag(cmd *cobra.Command, v *viper.Viper, flagName, key string) {
	fs := cmd.Flags()
	switch fs.Lookup(flagName).Value.Type() {
	case "bool":
		if val, err := fs.GetBool(flagName); err == nil {
			v.Set(key, val)
		}
	case "int":
		if val, err := fs.GetInt(flagName); err == nil {
			v.Set(key, val)
		}
	case "int64":
		if val, err := fs.GetInt64(flagName); err == nil {
			v.Set(key, val)
		}
	case "duration":
		if val, err := fs.GetDuration(flagName); err == nil {
			v.Set(key, val)
		}
	case "stringSlice":
		if val, err := fs.GetStringSlice(flagName); err == nil {
			v.Set(key, val)
		}
	default:
		if val, err := fs.GetString(flagName); err == nil {
			v.Set(key, val)
		}
	}
}
