package main

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/turtacn/CaseRisk-Intelligence/internal/config"
	"github.com/turtacn/CaseRisk-Intelligence/internal/infrastructure/monitoring/logging"
)

type recordingLevelSetter struct {
	levels []string
}

func (r *recordingLevelSetter) SetLevel(level string) {
	r.levels = append(r.levels, level)
}

func reloadWith(level string) *config.Config {
	cfg := &config.Config{}
	cfg.Log.Level = level
	return cfg
}

func TestLevelReload_AppliesChanges(t *testing.T) {
	setter := &recordingLevelSetter{}
	reload := levelReload(setter, logging.NewNopLogger(), "info")

	reload(reloadWith("debug"))
	assert.Equal(t, []string{"debug"}, setter.levels)
}

func TestLevelReload_SkipsUnchangedLevel(t *testing.T) {
	setter := &recordingLevelSetter{}
	reload := levelReload(setter, logging.NewNopLogger(), "info")

	reload(reloadWith("info"))
	reload(reloadWith("info"))
	assert.Empty(t, setter.levels)
}

func TestLevelReload_RevertsToStartupLevel(t *testing.T) {
	// A change followed by a revert to the startup level must apply both:
	// the comparison baseline is the last applied level, not the original.
	setter := &recordingLevelSetter{}
	reload := levelReload(setter, logging.NewNopLogger(), "info")

	reload(reloadWith("debug"))
	reload(reloadWith("info"))
	reload(reloadWith("info"))
	assert.Equal(t, []string{"debug", "info"}, setter.levels)
}

func TestLoggingConfig_MapsOutput(t *testing.T) {
	lc := loggingConfig(config.LogConfig{Level: "warn", Format: "console", Output: "stderr"})
	assert.Equal(t, "warn", lc.Level)
	assert.Equal(t, "console", lc.Format)
	assert.Equal(t, []string{"stderr"}, lc.OutputPaths)

	lc = loggingConfig(config.LogConfig{Level: "info", Format: "json"})
	assert.Nil(t, lc.OutputPaths)
}
