package main

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"repodeck/internal/config"
)

func TestRootCmd_HasSubcommands(t *testing.T) {
	root := newRootCmd()

	names := map[string]bool{}
	for _, c := range root.Commands() {
		names[c.Name()] = true
	}
	assert.True(t, names["bot"])
	assert.True(t, names["console"])
}

func TestLoadConfig_FlagOverridesBaseURL(t *testing.T) {
	t.Setenv("API_BASE_URL", "http://from-env:3333")
	root := newRootCmd()
	require.NoError(t, root.ParseFlags([]string{
		"--" + flagConfigDir, t.TempDir(),
		"--" + flagAPIURL, "http://from-flag:3333",
	}))

	cfg, err := loadConfig(root)
	require.NoError(t, err)
	assert.Equal(t, "http://from-flag:3333", cfg.APIBaseURL)
}

func TestLoadConfig_RejectsMissingBaseURL(t *testing.T) {
	t.Setenv("API_BASE_URL", "")
	root := newRootCmd()
	require.NoError(t, root.ParseFlags([]string{"--" + flagConfigDir, t.TempDir()}))

	_, err := loadConfig(root)
	assert.Error(t, err)
}

func TestNewLogger(t *testing.T) {
	log := newLogger(config.Config{LogLevel: "debug", LogFormat: "text"})
	assert.Equal(t, logrus.DebugLevel, log.GetLevel())
	assert.IsType(t, &logrus.TextFormatter{}, log.Formatter)

	log = newLogger(config.Config{LogLevel: "nonsense", LogFormat: "json"})
	assert.Equal(t, logrus.InfoLevel, log.GetLevel())
	assert.IsType(t, &logrus.JSONFormatter{}, log.Formatter)
}
