package wire

import (
	"bytes"
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mithrel/tally/internal/config"
	"github.com/mithrel/tally/internal/workflow"
)

func loaded(t *testing.T) *viper.Viper {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Chdir(t.TempDir())
	v := viper.New()
	require.NoError(t, config.Load(context.Background(), v))
	return v
}

func TestBuildAppDefaults(t *testing.T) {
	app, err := BuildApp(context.Background(), loaded(t))
	require.NoError(t, err)
	assert.NotNil(t, app.Backend)
	assert.NotNil(t, app.Inspector)
	assert.NotNil(t, app.Charts)
	assert.Empty(t, app.ChartsMissing)
	assert.Equal(t, zerolog.WarnLevel, app.Log.GetLevel())

	m := app.NewMachine(nil)
	assert.Equal(t, workflow.AwaitingUpload, m.Stage())
}

func TestBuildAppUnknownRenderer(t *testing.T) {
	v := loaded(t)
	v.Set("charts.renderer", "sixel")
	app, err := BuildApp(context.Background(), v)
	require.NoError(t, err)
	assert.Nil(t, app.Charts)
	assert.Equal(t, "sixel", app.ChartsMissing)
}

func TestBuildAppChartsDisabled(t *testing.T) {
	v := loaded(t)
	v.Set("charts.renderer", "none")
	app, err := BuildApp(context.Background(), v)
	require.NoError(t, err)
	assert.Nil(t, app.Charts)
	assert.Empty(t, app.ChartsMissing)
}

func TestBuildAppRejectsInvalidConfig(t *testing.T) {
	v := loaded(t)
	v.Set("output", "yaml")
	_, err := BuildApp(context.Background(), v)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid config")
}

func TestNewLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	l, err := newLogger(&buf, "INFO")
	require.NoError(t, err)
	l.Debug().Msg("hidden")
	l.Info().Str("run_id", "r1").Msg("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"run_id":"r1"`)

	_, err = newLogger(&buf, "loud")
	assert.Error(t, err)
}
