package config

import (
	"fmt"
	"net/url"
	"os"

	"github.com/iulianpascalau/live-dashboard/services/dashboard/common"
	"github.com/pelletier/go-toml/v2"
)

const (
	defaultName                      = "dashboard"
	defaultHandshakeTimeoutInSeconds = 10
	defaultInboxSize                 = 64
	defaultWindowCapacity            = 120
	defaultStaleAfterSeconds         = 30
	defaultChartWidth                = 1024
	defaultChartHeight               = 400
	defaultListenAddress             = "127.0.0.1:8080"
)

// ChartConfig defines the render boundary settings
type ChartConfig struct {
	Title         string `toml:"Title"`
	Width         int    `toml:"Width"`
	Height        int    `toml:"Height"`
	BeginAtZero   bool   `toml:"BeginAtZero"`
	AnnotateEvery int    `toml:"AnnotateEvery"`
	ShowXAxis     bool   `toml:"ShowXAxis"`
}

// WebConfig defines the HTTP surface settings
type WebConfig struct {
	ListenAddress string `toml:"ListenAddress"`
	StaticDir     string `toml:"StaticDir"`
}

// Config maps to the config.toml file for the dashboard service
type Config struct {
	Name                      string      `toml:"Name"`
	StreamURL                 string      `toml:"StreamURL"`
	HandshakeTimeoutInSeconds uint32      `toml:"HandshakeTimeoutInSeconds"`
	InboxSize                 int         `toml:"InboxSize"`
	WindowCapacity            int         `toml:"WindowCapacity"`
	Metrics                   []string    `toml:"Metrics"`
	Readouts                  []string    `toml:"Readouts"`
	GapFillPolicy             string      `toml:"GapFillPolicy"`
	LabelFormat               string      `toml:"LabelFormat"`
	StaleAfterSeconds         uint32      `toml:"StaleAfterSeconds"`
	Chart                     ChartConfig `toml:"Chart"`
	Web                       WebConfig   `toml:"Web"`
}

// LoadConfig parses a TOML file into the Config struct, applies the defaults and validates the result
func LoadConfig(filepath string) (*Config, error) {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", filepath, err)
	}

	var cfg Config
	err = toml.Unmarshal(data, &cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to decode config file: %w", err)
	}

	cfg.ApplyDefaults()
	err = cfg.Validate()
	if err != nil {
		return nil, err
	}

	return &cfg, nil
}

// ApplyDefaults fills the unset numeric and naming fields
func (cfg *Config) ApplyDefaults() {
	if len(cfg.Name) == 0 {
		cfg.Name = defaultName
	}
	if cfg.HandshakeTimeoutInSeconds == 0 {
		cfg.HandshakeTimeoutInSeconds = defaultHandshakeTimeoutInSeconds
	}
	if cfg.InboxSize == 0 {
		cfg.InboxSize = defaultInboxSize
	}
	if cfg.WindowCapacity == 0 {
		cfg.WindowCapacity = defaultWindowCapacity
	}
	if cfg.StaleAfterSeconds == 0 {
		cfg.StaleAfterSeconds = defaultStaleAfterSeconds
	}
	if cfg.Chart.Width == 0 {
		cfg.Chart.Width = defaultChartWidth
	}
	if cfg.Chart.Height == 0 {
		cfg.Chart.Height = defaultChartHeight
	}
	if len(cfg.Web.ListenAddress) == 0 {
		cfg.Web.ListenAddress = defaultListenAddress
	}
}

// Validate checks the session parameters. Every returned error wraps common.ErrConfiguration.
func (cfg *Config) Validate() error {
	streamURL, err := url.Parse(cfg.StreamURL)
	if err != nil {
		return fmt.Errorf("%w: invalid StreamURL: %s", common.ErrConfiguration, err.Error())
	}
	if streamURL.Scheme != "ws" && streamURL.Scheme != "wss" {
		return fmt.Errorf("%w: StreamURL must use the ws or wss scheme, got %q", common.ErrConfiguration, cfg.StreamURL)
	}
	if cfg.WindowCapacity < 1 {
		return fmt.Errorf("%w: WindowCapacity must be at least 1, got %d", common.ErrConfiguration, cfg.WindowCapacity)
	}
	if cfg.InboxSize < 1 {
		return fmt.Errorf("%w: InboxSize must be at least 1, got %d", common.ErrConfiguration, cfg.InboxSize)
	}
	if cfg.StaleAfterSeconds == 0 {
		return fmt.Errorf("%w: StaleAfterSeconds must be at least 1", common.ErrConfiguration)
	}
	if cfg.Chart.AnnotateEvery < 0 {
		return fmt.Errorf("%w: AnnotateEvery can not be negative, got %d", common.ErrConfiguration, cfg.Chart.AnnotateEvery)
	}

	_, err = common.ParseGapPolicy(cfg.GapFillPolicy)

	return err
}
