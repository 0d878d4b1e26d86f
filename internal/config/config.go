package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/yildizm/CovTrack/internal/dataset"
	"github.com/yildizm/CovTrack/internal/figure"
)

// Config holds the complete application configuration
type Config struct {
	Version string            `yaml:"version" json:"version"`
	Data    DataConfig        `yaml:"data" json:"data"`
	Server  ServerConfig      `yaml:"server" json:"server"`
	Map     figure.MapOptions `yaml:"map" json:"map"`
	Output  OutputConfig      `yaml:"output" json:"output"`
}

// DataConfig locates the input files
type DataConfig struct {
	dataset.Paths `yaml:",inline"`
	NameProperty  string `yaml:"name_property" json:"name_property"` // GeoJSON display name key
	CodeProperty  string `yaml:"code_property" json:"code_property"` // GeoJSON region code key
}

// LoadOptions returns the dataset options matching this config
func (d DataConfig) LoadOptions() []dataset.Option {
	return []dataset.Option{dataset.WithProperties(d.NameProperty, d.CodeProperty)}
}

// ServerConfig configures the HTTP dashboard
type ServerConfig struct {
	Addr              string        `yaml:"addr" json:"addr"`
	BasePath          string        `yaml:"base_path" json:"base_path"`
	Debug             bool          `yaml:"debug" json:"debug"` // reload datasets on change
	ReadHeaderTimeout time.Duration `yaml:"read_header_timeout" json:"read_header_timeout"`
	ShutdownTimeout   time.Duration `yaml:"shutdown_timeout" json:"shutdown_timeout"`
}

// OutputConfig configures output formatting and display
type OutputConfig struct {
	DefaultFormat string `yaml:"default_format" json:"default_format"` // json|text|markdown|csv|xlsx
	ColorMode     string `yaml:"color_mode" json:"color_mode"`         // auto|always|never
	Verbose       bool   `yaml:"verbose" json:"verbose"`               // default verbosity
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Version: "1.0",
		Data: DataConfig{
			Paths: dataset.Paths{
				GeoJSON: "data/states_india.geojson",
				States:  "data/statewisedata.csv",
				Daily:   "data/covdata.csv",
			},
			NameProperty: dataset.DefaultNameProperty,
			CodeProperty: dataset.DefaultCodeProperty,
		},
		Server: ServerConfig{
			Addr:              "localhost:8050",
			BasePath:          "/dash/",
			Debug:             false,
			ReadHeaderTimeout: 5 * time.Second,
			ShutdownTimeout:   10 * time.Second,
		},
		Map: figure.DefaultMapOptions(),
		Output: OutputConfig{
			DefaultFormat: "text",
			ColorMode:     "auto",
			Verbose:       false,
		},
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if err := c.validateDataConfig(); err != nil {
		return err
	}
	if err := c.validateServerConfig(); err != nil {
		return err
	}
	if err := c.validateMapConfig(); err != nil {
		return err
	}
	if err := c.validateOutputConfig(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateDataConfig() error {
	if c.Data.GeoJSON == "" || c.Data.States == "" || c.Data.Daily == "" {
		return fmt.Errorf("data.geojson, data.states and data.daily are required")
	}
	if c.Data.NameProperty == "" || c.Data.CodeProperty == "" {
		return fmt.Errorf("data.name_property and data.code_property must not be empty")
	}
	return nil
}

func (c *Config) validateServerConfig() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr must not be empty")
	}
	if !strings.HasPrefix(c.Server.BasePath, "/") || !strings.HasSuffix(c.Server.BasePath, "/") {
		return fmt.Errorf("server.base_path must start and end with '/': %q", c.Server.BasePath)
	}
	if c.Server.ReadHeaderTimeout < 0 {
		return fmt.Errorf("read_header_timeout must be non-negative")
	}
	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("shutdown_timeout must be greater than 0")
	}
	return nil
}

func (c *Config) validateMapConfig() error {
	if c.Map.Width < 1 || c.Map.Height < 1 {
		return fmt.Errorf("map width and height must be greater than 0")
	}
	if c.Map.CenterLat < -90 || c.Map.CenterLat > 90 {
		return fmt.Errorf("map center_lat must be within [-90, 90]")
	}
	if _, err := colorful.Hex(c.Map.LowColor); err != nil {
		return fmt.Errorf("invalid map low_color %q: must be #rrggbb", c.Map.LowColor)
	}
	if _, err := colorful.Hex(c.Map.HighColor); err != nil {
		return fmt.Errorf("invalid map high_color %q: must be #rrggbb", c.Map.HighColor)
	}
	return nil
}

// ValidFormats lists the export formats in display order
var ValidFormats = []string{"text", "json", "csv", "markdown", "xlsx"}

func (c *Config) validateOutputConfig() error {
	if c.Output.DefaultFormat != "" {
		valid := false
		for _, f := range ValidFormats {
			if f == c.Output.DefaultFormat {
				valid = true
				break
			}
		}
		if !valid {
			return fmt.Errorf("invalid output format: %s (must be one of: %s)", c.Output.DefaultFormat, strings.Join(ValidFormats, ", "))
		}
	}
	if c.Output.ColorMode != "" {
		validColorModes := map[string]bool{
			"auto":   true,
			"always": true,
			"never":  true,
		}
		if !validColorModes[c.Output.ColorMode] {
			return fmt.Errorf("invalid color mode: %s (must be one of: auto, always, never)", c.Output.ColorMode)
		}
	}
	return nil
}
