package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// EnvPrefix prefixes every environment override
const EnvPrefix = "COVTRACK_"

// envOverrides mirrors the settable fields. Pointers stay nil when the
// variable is unset so file values survive.
type envOverrides struct {
	GeoJSON      *string `env:"DATA_GEOJSON"`
	States       *string `env:"DATA_STATES"`
	Daily        *string `env:"DATA_DAILY"`
	NameProperty *string `env:"DATA_NAME_PROPERTY"`
	CodeProperty *string `env:"DATA_CODE_PROPERTY"`

	Addr              *string        `env:"SERVER_ADDR"`
	BasePath          *string        `env:"SERVER_BASE_PATH"`
	Debug             *bool          `env:"SERVER_DEBUG"`
	ReadHeaderTimeout *time.Duration `env:"SERVER_READ_HEADER_TIMEOUT"`
	ShutdownTimeout   *time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT"`

	MapWidth     *int     `env:"MAP_WIDTH"`
	MapHeight    *int     `env:"MAP_HEIGHT"`
	MapCenterLat *float64 `env:"MAP_CENTER_LAT"`
	MapLowColor  *string  `env:"MAP_LOW_COLOR"`
	MapHighColor *string  `env:"MAP_HIGH_COLOR"`

	DefaultFormat *string `env:"OUTPUT_DEFAULT_FORMAT"`
	ColorMode     *string `env:"OUTPUT_COLOR_MODE"`
	Verbose       *bool   `env:"OUTPUT_VERBOSE"`
}

// applyEnvOverrides applies COVTRACK_* environment variables to the config
func applyEnvOverrides(config *Config, environ map[string]string) error {
	var o envOverrides
	opts := env.Options{Prefix: EnvPrefix}
	if environ != nil {
		opts.Environment = environ
	}
	if err := env.ParseWithOptions(&o, opts); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}

	setString(&config.Data.GeoJSON, o.GeoJSON)
	setString(&config.Data.States, o.States)
	setString(&config.Data.Daily, o.Daily)
	setString(&config.Data.NameProperty, o.NameProperty)
	setString(&config.Data.CodeProperty, o.CodeProperty)

	setString(&config.Server.Addr, o.Addr)
	setString(&config.Server.BasePath, o.BasePath)
	set(&config.Server.Debug, o.Debug)
	set(&config.Server.ReadHeaderTimeout, o.ReadHeaderTimeout)
	set(&config.Server.ShutdownTimeout, o.ShutdownTimeout)

	set(&config.Map.Width, o.MapWidth)
	set(&config.Map.Height, o.MapHeight)
	set(&config.Map.CenterLat, o.MapCenterLat)
	setString(&config.Map.LowColor, o.MapLowColor)
	setString(&config.Map.HighColor, o.MapHighColor)

	setString(&config.Output.DefaultFormat, o.DefaultFormat)
	setString(&config.Output.ColorMode, o.ColorMode)
	set(&config.Output.Verbose, o.Verbose)
	return nil
}

func set[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

// setString ignores empty values, matching an unset variable
func setString(dst *string, src *string) {
	if src != nil && *src != "" {
		*dst = *src
	}
}
