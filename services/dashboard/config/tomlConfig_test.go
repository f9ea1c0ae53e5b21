package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/iulianpascalau/live-dashboard/services/dashboard/common"
	"github.com/pelletier/go-toml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig(t *testing.T) {
	t.Parallel()

	testString := `
Name = "kioken"
StreamURL = "ws://127.0.0.1:8080/ws"
HandshakeTimeoutInSeconds = 5
InboxSize = 32
WindowCapacity = 60
Metrics = ["numConnPerSec", "numActiveConn"]
Readouts = ["numTotalConn", "numConnPerSec", "numActiveConn"]
GapFillPolicy = "break"
LabelFormat = "15:04:05"
StaleAfterSeconds = 15

[Chart]
    Title = "Connections"
    Width = 800
    Height = 300
    BeginAtZero = true
    AnnotateEvery = 5
    ShowXAxis = true

[Web]
    ListenAddress = "0.0.0.0:8090"
    StaticDir = "./web"
`

	expectedCfg := Config{
		Name:                      "kioken",
		StreamURL:                 "ws://127.0.0.1:8080/ws",
		HandshakeTimeoutInSeconds: 5,
		InboxSize:                 32,
		WindowCapacity:            60,
		Metrics:                   []string{"numConnPerSec", "numActiveConn"},
		Readouts:                  []string{"numTotalConn", "numConnPerSec", "numActiveConn"},
		GapFillPolicy:             "break",
		LabelFormat:               "15:04:05",
		StaleAfterSeconds:         15,
		Chart: ChartConfig{
			Title:         "Connections",
			Width:         800,
			Height:        300,
			BeginAtZero:   true,
			AnnotateEvery: 5,
			ShowXAxis:     true,
		},
		Web: WebConfig{
			ListenAddress: "0.0.0.0:8090",
			StaticDir:     "./web",
		},
	}

	cfg := Config{}

	err := toml.Unmarshal([]byte(testString), &cfg)
	assert.Nil(t, err)
	assert.Equal(t, expectedCfg, cfg)
	assert.Nil(t, cfg.Validate())
}

func TestConfig_ApplyDefaults(t *testing.T) {
	t.Parallel()

	cfg := Config{StreamURL: "wss://stats.example.com/ws"}
	cfg.ApplyDefaults()

	assert.Equal(t, "dashboard", cfg.Name)
	assert.Equal(t, uint32(10), cfg.HandshakeTimeoutInSeconds)
	assert.Equal(t, 64, cfg.InboxSize)
	assert.Equal(t, 120, cfg.WindowCapacity)
	assert.Equal(t, uint32(30), cfg.StaleAfterSeconds)
	assert.Equal(t, 1024, cfg.Chart.Width)
	assert.Equal(t, 400, cfg.Chart.Height)
	assert.Equal(t, "127.0.0.1:8080", cfg.Web.ListenAddress)
	assert.Nil(t, cfg.Validate())
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	createValidConfig := func() Config {
		cfg := Config{StreamURL: "ws://localhost:8080/ws"}
		cfg.ApplyDefaults()
		return cfg
	}

	t.Run("wrong scheme should error", func(t *testing.T) {
		cfg := createValidConfig()
		cfg.StreamURL = "http://localhost:8080/ws"
		err := cfg.Validate()
		assert.True(t, errors.Is(err, common.ErrConfiguration))
		assert.Contains(t, err.Error(), "StreamURL")
	})
	t.Run("negative capacity should error", func(t *testing.T) {
		cfg := createValidConfig()
		cfg.WindowCapacity = -1
		err := cfg.Validate()
		assert.True(t, errors.Is(err, common.ErrConfiguration))
		assert.Contains(t, err.Error(), "WindowCapacity")
	})
	t.Run("negative inbox size should error", func(t *testing.T) {
		cfg := createValidConfig()
		cfg.InboxSize = -3
		assert.True(t, errors.Is(cfg.Validate(), common.ErrConfiguration))
	})
	t.Run("zero stale threshold should error", func(t *testing.T) {
		cfg := createValidConfig()
		cfg.StaleAfterSeconds = 0
		err := cfg.Validate()
		assert.True(t, errors.Is(err, common.ErrConfiguration))
		assert.Contains(t, err.Error(), "StaleAfterSeconds")
	})
	t.Run("negative annotation interval should error", func(t *testing.T) {
		cfg := createValidConfig()
		cfg.Chart.AnnotateEvery = -5
		assert.True(t, errors.Is(cfg.Validate(), common.ErrConfiguration))
	})
	t.Run("unknown gap policy should error", func(t *testing.T) {
		cfg := createValidConfig()
		cfg.GapFillPolicy = "interpolate"
		assert.True(t, errors.Is(cfg.Validate(), common.ErrConfiguration))
	})
}

func TestLoadConfig(t *testing.T) {
	t.Parallel()

	t.Run("missing file should error", func(t *testing.T) {
		cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
		assert.Nil(t, cfg)
		assert.Contains(t, err.Error(), "failed to read config file")
	})
	t.Run("invalid content should error", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.toml")
		require.Nil(t, os.WriteFile(path, []byte("WindowCapacity = ["), 0644))

		cfg, err := LoadConfig(path)
		assert.Nil(t, cfg)
		assert.Contains(t, err.Error(), "failed to decode config file")
	})
	t.Run("should load, apply defaults and validate", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.toml")
		require.Nil(t, os.WriteFile(path, []byte(`StreamURL = "ws://localhost:8080/ws"`), 0644))

		cfg, err := LoadConfig(path)
		require.Nil(t, err)
		assert.Equal(t, 120, cfg.WindowCapacity)
		assert.Equal(t, "", cfg.GapFillPolicy)
	})
	t.Run("repository config file is valid", func(t *testing.T) {
		cfg, err := LoadConfig("../config.toml")
		require.Nil(t, err)
		assert.Equal(t, 120, cfg.WindowCapacity)
		assert.Equal(t, 5, cfg.Chart.AnnotateEvery)
	})
}
