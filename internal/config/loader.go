package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Load reads a TOML configuration file at path, merges it on top of the
// built-in defaults, applies PSBM_* environment variable overrides, and
// returns the final Config. An empty path skips the file. The returned Config
// has NOT been validated; the caller should invoke Config.Validate() after
// Load.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return nil, err
		}
	}

	// Load .env file if present (silently ignore if missing).
	_ = godotenv.Load()

	applyEnvOverrides(&cfg)
	normalize(&cfg)

	return &cfg, nil
}

// applyEnvOverrides reads well-known PSBM_* environment variables and
// overwrites the corresponding Config fields when a variable is set (i.e. not
// empty).
func applyEnvOverrides(cfg *Config) {
	// ── Protocol ──
	setFloat64(&cfg.Protocol.InitialLiquidity, "PSBM_PROTOCOL_INITIAL_LIQUIDITY")
	setFloat64(&cfg.Protocol.TargetReserveRatio, "PSBM_PROTOCOL_TARGET_RESERVE_RATIO")
	setFloat64(&cfg.Protocol.SharesOutstanding, "PSBM_PROTOCOL_SHARES_OUTSTANDING")
	setFloat64(&cfg.Protocol.DividendPool, "PSBM_PROTOCOL_DIVIDEND_POOL")

	// ── Scenario ──
	setStr(&cfg.Scenario.Preset, "PSBM_SCENARIO_PRESET")
	setFloat64(&cfg.Scenario.DrainFraction, "PSBM_SCENARIO_DRAIN_FRACTION")
	setInt(&cfg.Scenario.Waves, "PSBM_SCENARIO_WAVES")
	setFloat64(&cfg.Scenario.KFactor, "PSBM_SCENARIO_K_FACTOR")

	// ── Report ──
	setStr(&cfg.Report.Format, "PSBM_REPORT_FORMAT")
	setInt(&cfg.Report.Precision, "PSBM_REPORT_PRECISION")

	// ── Top-level ──
	setStr(&cfg.Mode, "PSBM_MODE")
	setStr(&cfg.LogLevel, "PSBM_LOG_LEVEL")
}

// normalize lower-cases the enumerated string settings.
func normalize(cfg *Config) {
	cfg.Mode = strings.ToLower(strings.TrimSpace(cfg.Mode))
	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))
	cfg.Report.Format = strings.ToLower(strings.TrimSpace(cfg.Report.Format))
	cfg.Scenario.Preset = strings.ToLower(strings.TrimSpace(cfg.Scenario.Preset))
}

// ---------------------------------------------------------------------------
// Typed env-var helpers. Each only mutates the target when the environment
// variable is present and non-empty.
// ---------------------------------------------------------------------------

func setStr(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setFloat64(dst *float64, key string) {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = f
		}
	}
}
