package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/viper"
)

var (
	outputModes = []string{"plain", "pretty", "json", "html"}
	logLevels   = []string{"debug", "info", "warn", "error"}
)

// CheckConfigValidity reports every invalid option at once.
func CheckConfigValidity(v *viper.Viper) error {
	var result *multierror.Error

	raw := strings.TrimSpace(v.GetString("backend.url"))
	if raw == "" {
		result = multierror.Append(result, fmt.Errorf("backend.url is required"))
	} else if u, err := url.Parse(raw); err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		result = multierror.Append(result, fmt.Errorf("backend.url %q must be an http(s) url", raw))
	}
	if v.GetDuration("backend.timeout") <= 0 {
		result = multierror.Append(result, fmt.Errorf("backend.timeout must be a positive duration"))
	}
	for _, key := range []string{"backend.prepare_path", "backend.analyze_path"} {
		if p := v.GetString(key); !strings.HasPrefix(p, "/") {
			result = multierror.Append(result, fmt.Errorf("%s must start with /", key))
		}
	}

	if v.GetInt64("upload.max_bytes") <= 0 {
		result = multierror.Append(result, fmt.Errorf("upload.max_bytes must be greater than 0"))
	}
	if len(v.GetStringSlice("upload.extensions")) == 0 {
		result = multierror.Append(result, fmt.Errorf("upload.extensions must list at least one extension"))
	}

	result = checkOneOf(result, "output", v.GetString("output"), outputModes)
	result = checkOneOf(result, "log.level", strings.ToLower(v.GetString("log.level")), logLevels)
	if v.GetInt("charts.width") < 10 {
		result = multierror.Append(result, fmt.Errorf("charts.width must be at least 10"))
	}

	return result.ErrorOrNil()
}

func checkOneOf(result *multierror.Error, key, val string, allowed []string) *multierror.Error {
	for _, a := range allowed {
		if val == a {
			return result
		}
	}
	return multierror.Append(result, fmt.Errorf("%s must be one of %s, got %q", key, strings.Join(allowed, ", "), val))
}
