// Package config defines the top-level configuration for the psbm simulator
// and provides validation helpers.
package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Config is the root configuration structure. Fields are populated from a TOML
// file and then optionally overridden by PSBM_* environment variables.
type Config struct {
	Protocol ProtocolConfig `toml:"protocol"`
	Scenario ScenarioConfig `toml:"scenario"`
	Report   ReportConfig   `toml:"report"`
	Mode     string         `toml:"mode" validate:"oneof=simulate presets"`
	LogLevel string         `toml:"log_level" validate:"oneof=debug info warn error"`
}

// ProtocolConfig holds the genesis parameters of the market state.
type ProtocolConfig struct {
	InitialLiquidity   float64 `toml:"initial_liquidity" validate:"gt=0"`
	TargetReserveRatio float64 `toml:"target_reserve_ratio" validate:"gt=0,lte=1"`
	SharesOutstanding  float64 `toml:"shares_outstanding" validate:"gt=0"`
	DividendPool       float64 `toml:"dividend_pool" validate:"gte=0"`
}

// ScenarioConfig selects the withdrawal schedule for simulate mode.
type ScenarioConfig struct {
	// Preset names a built-in scenario. "custom" uses the fields below.
	Preset        string  `toml:"preset" validate:"required"`
	DrainFraction float64 `toml:"drain_fraction" validate:"gt=0"`
	Waves         int     `toml:"waves" validate:"gte=1"`
	KFactor       float64 `toml:"k_factor" validate:"gt=0"`
}

// ReportConfig controls how results are rendered.
type ReportConfig struct {
	Format    string `toml:"format" validate:"oneof=table csv json"`
	Precision int    `toml:"precision" validate:"gte=0,lte=12"`
}

// PresetCustom selects the explicit scenario fields instead of a preset.
const PresetCustom = "custom"

// Defaults returns a Config populated with reasonable default values.
// These match the values in config.example.toml.
func Defaults() Config {
	return Config{
		Protocol: ProtocolConfig{
			InitialLiquidity:   100_000_000,
			TargetReserveRatio: 0.75,
			SharesOutstanding:  1_000_000,
			DividendPool:       5_000_000,
		},
		Scenario: ScenarioConfig{
			Preset:        "bank_run",
			DrainFraction: 0.40,
			Waves:         10,
			KFactor:       1.6,
		},
		Report: ReportConfig{
			Format:    "table",
			Precision: 2,
		},
		Mode:     "simulate",
		LogLevel: "info",
	}
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report fields by their TOML keys so messages match the config file.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("toml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks Config for obviously invalid or missing values and returns a
// combined error describing every problem found.
func (c *Config) Validate() error {
	var errs []string

	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return fmt.Errorf("config: %w", err)
		}
		for _, e := range verrs {
			errs = append(errs, describe(e))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

// describe turns a validator error into "section.key: reason".
func describe(e validator.FieldError) string {
	field := strings.TrimPrefix(e.Namespace(), "Config.")
	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s: must not be empty", field)
	case "oneof":
		return fmt.Sprintf("%s: unknown value %q (valid: %s)", field, e.Value(), strings.ReplaceAll(e.Param(), " ", ", "))
	case "gt":
		return fmt.Sprintf("%s: must be > %s, got %v", field, e.Param(), e.Value())
	case "gte":
		return fmt.Sprintf("%s: must be >= %s, got %v", field, e.Param(), e.Value())
	case "lte":
		return fmt.Sprintf("%s: must be <= %s, got %v", field, e.Param(), e.Value())
	default:
		return fmt.Sprintf("%s: failed %q validation", field, e.Tag())
	}
}
