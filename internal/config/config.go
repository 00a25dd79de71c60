package config

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const appName = "tally"

// applyDefaults seeds Viper with defaults defined in GetConfigOptions.
func applyDefaults(v *viper.Viper) {
	for _, o := range GetConfigOptions() {
		v.SetDefault(o.Key, o.Default)
	}
}

// Load resolves configuration with precedence: defaults < file < env.
// A .env file in the working directory is loaded into the process
// environment first; variables already set win.
func Load(ctx context.Context, v *viper.Viper) error {
	if v.ConfigFileUsed() == "" {
		v.SetConfigName("config")
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			v.AddConfigPath(filepath.Join(xdg, appName))
		}
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", appName))
		}
		v.AddConfigPath(".")
	}

	applyDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	v.SetEnvPrefix(appName)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// TALLY_UPLOAD_EXTENSIONS arrives as one comma-separated string.
	if s, ok := v.Get("upload.extensions").(string); ok {
		v.Set("upload.extensions", splitList(s))
	}
	return nil
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// DefaultConfigPath resolves the standard config.toml location.
func DefaultConfigPath() string {
	xdg := os.Getenv("XDG_CONFIG_HOME")
	if xdg == "" {
		home, _ := os.UserHomeDir()
		xdg = filepath.Join(home, ".config")
	}
	return filepath.Join(xdg, appName, "config.toml")
}

type ConfigOption struct {
	Key     string
	Default any
	Comment string
}

// GetConfigOptions returns the default configuration options and their meanings.
func GetConfigOptions() []ConfigOption {
	return []ConfigOption{
		{Key: "output", Default: "pretty", Comment: "Report output mode: plain, pretty, json, html"},
		{Key: "pager", Default: true, Comment: "Page long terminal output through $PAGER"},

		{Key: "backend.url", Default: "http://127.0.0.1:5000", Comment: "Base URL of the analysis service"},
		{Key: "backend.timeout", Default: "60s", Comment: "Per-request timeout; analysis of large files can be slow"},
		{Key: "backend.prepare_path", Default: "/prepare", Comment: "Path of the upload endpoint"},
		{Key: "backend.analyze_path", Default: "/analyze", Comment: "Path of the analysis endpoint"},

		{Key: "upload.max_bytes", Default: 20 << 20, Comment: "Largest file accepted for upload, in bytes"},
		{Key: "upload.extensions", Default: []string{".xlsx", ".xls", ".xlsm"}, Comment: "Accepted spreadsheet extensions"},
		{Key: "upload.verify_workbook", Default: true, Comment: "Open .xlsx/.xlsm files locally before uploading them"},

		{Key: "charts.renderer", Default: "terminal", Comment: "Chart renderer for terminal output: terminal or none"},
		{Key: "charts.width", Default: 60, Comment: "Width of terminal bar charts in cells"},

		{Key: "log.level", Default: "warn", Comment: "Log level on stderr: debug, info, warn, error"},
	}
}
