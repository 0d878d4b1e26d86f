package config

import (
	"testing"
	"time"

	"gopkg.in/yaml.v3"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Version != "1.0" {
		t.Errorf("Expected version 1.0, got %s", cfg.Version)
	}
	if cfg.Data.States != "data/statewisedata.csv" {
		t.Errorf("Expected states path data/statewisedata.csv, got %s", cfg.Data.States)
	}
	if cfg.Data.NameProperty != "st_nm" || cfg.Data.CodeProperty != "state_code" {
		t.Errorf("Expected st_nm/state_code, got %s/%s", cfg.Data.NameProperty, cfg.Data.CodeProperty)
	}
	if cfg.Server.BasePath != "/dash/" {
		t.Errorf("Expected base path /dash/, got %s", cfg.Server.BasePath)
	}
	if cfg.Server.ShutdownTimeout != 10*time.Second {
		t.Errorf("Expected shutdown timeout 10s, got %v", cfg.Server.ShutdownTimeout)
	}
	if cfg.Map.CenterLat != 24 {
		t.Errorf("Expected center latitude 24, got %v", cfg.Map.CenterLat)
	}
	if cfg.Output.DefaultFormat != "text" {
		t.Errorf("Expected output format text, got %s", cfg.Output.DefaultFormat)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Expected defaults to validate, got %v", err)
	}
}

func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
		errMsg  string
	}{
		{
			name:   "valid config",
			mutate: func(*Config) {},
		},
		{
			name:    "missing daily path",
			mutate:  func(c *Config) { c.Data.Daily = "" },
			wantErr: true,
			errMsg:  "data.geojson, data.states and data.daily are required",
		},
		{
			name:    "empty code property",
			mutate:  func(c *Config) { c.Data.CodeProperty = "" },
			wantErr: true,
			errMsg:  "data.name_property and data.code_property must not be empty",
		},
		{
			name:    "base path without trailing slash",
			mutate:  func(c *Config) { c.Server.BasePath = "/dash" },
			wantErr: true,
			errMsg:  `server.base_path must start and end with '/': "/dash"`,
		},
		{
			name:    "zero shutdown timeout",
			mutate:  func(c *Config) { c.Server.ShutdownTimeout = 0 },
			wantErr: true,
			errMsg:  "shutdown_timeout must be greater than 0",
		},
		{
			name:    "negative read header timeout",
			mutate:  func(c *Config) { c.Server.ReadHeaderTimeout = -time.Second },
			wantErr: true,
			errMsg:  "read_header_timeout must be non-negative",
		},
		{
			name:    "zero map width",
			mutate:  func(c *Config) { c.Map.Width = 0 },
			wantErr: true,
			errMsg:  "map width and height must be greater than 0",
		},
		{
			name:    "bad map color",
			mutate:  func(c *Config) { c.Map.HighColor = "yellow" },
			wantErr: true,
			errMsg:  `invalid map high_color "yellow": must be #rrggbb`,
		},
		{
			name:    "invalid output format",
			mutate:  func(c *Config) { c.Output.DefaultFormat = "invalid" },
			wantErr: true,
			errMsg:  "invalid output format: invalid (must be one of: text, json, csv, markdown, xlsx)",
		},
		{
			name:    "invalid color mode",
			mutate:  func(c *Config) { c.Output.ColorMode = "invalid" },
			wantErr: true,
			errMsg:  "invalid color mode: invalid (must be one of: auto, always, never)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				if err == nil {
					t.Errorf("Expected error but got none")
				} else if tt.errMsg != "" && err.Error() != tt.errMsg {
					t.Errorf("Expected error message '%s', got '%s'", tt.errMsg, err.Error())
				}
			} else if err != nil {
				t.Errorf("Unexpected error: %v", err)
			}
		})
	}
}

func TestSampleConfigs(t *testing.T) {
	for name, sample := range map[string]string{
		"full":    SampleConfig(),
		"minimal": MinimalSampleConfig(),
	} {
		t.Run(name, func(t *testing.T) {
			cfg := DefaultConfig()
			if err := yaml.Unmarshal([]byte(sample), cfg); err != nil {
				t.Fatalf("Sample does not parse: %v", err)
			}
			if err := cfg.Validate(); err != nil {
				t.Errorf("Sample does not validate: %v", err)
			}
			if cfg.Data.GeoJSON != "data/states_india.geojson" {
				t.Errorf("Expected sample geojson path, got %s", cfg.Data.GeoJSON)
			}
		})
	}
}

func TestSampleMatchesDefaults(t *testing.T) {
	var cfg Config
	if err := yaml.Unmarshal([]byte(SampleConfig()), &cfg); err != nil {
		t.Fatalf("Sample does not parse: %v", err)
	}
	def := DefaultConfig()
	if cfg.Server != def.Server || cfg.Map != def.Map || cfg.Output != def.Output {
		t.Errorf("Sample drifted from defaults:\n got %+v\nwant %+v", cfg, *def)
	}
	if cfg.Data != def.Data {
		t.Errorf("Sample data drifted: got %+v, want %+v", cfg.Data, def.Data)
	}
}

func TestLoadOptions(t *testing.T) {
	opts := DefaultConfig().Data.LoadOptions()
	if len(opts) != 1 {
		t.Errorf("Expected 1 option, got %d", len(opts))
	}
}
