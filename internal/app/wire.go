package app

import (
	"fmt"
	"log/slog"

	"github.com/alanyoungcy/psbm/internal/config"
	"github.com/alanyoungcy/psbm/internal/domain"
	"github.com/alanyoungcy/psbm/internal/market"
	"github.com/alanyoungcy/psbm/internal/report"
	"github.com/alanyoungcy/psbm/internal/scenario"
)

// Dependencies bundles what the application modes need to operate. It is
// constructed by Wire.
type Dependencies struct {
	Params   market.Params
	Scenario domain.Scenario
	Presets  *scenario.Registry
	Runner   *scenario.Runner
	Reporter *report.Reporter
}

// Wire constructs the concrete dependencies from the given configuration.
func Wire(cfg *config.Config, logger *slog.Logger) (*Dependencies, error) {
	deps := &Dependencies{
		Params: market.Params{
			InitialLiquidity:   cfg.Protocol.InitialLiquidity,
			TargetReserveRatio: cfg.Protocol.TargetReserveRatio,
			SharesOutstanding:  cfg.Protocol.SharesOutstanding,
			DividendPool:       cfg.Protocol.DividendPool,
		},
		Presets: scenario.DefaultRegistry(),
		Runner:  scenario.NewRunner(logger),
	}
	if err := deps.Params.Validate(); err != nil {
		return nil, fmt.Errorf("wire: protocol: %w", err)
	}

	sc, err := resolveScenario(cfg.Scenario, deps.Presets)
	if err != nil {
		return nil, fmt.Errorf("wire: scenario: %w", err)
	}
	deps.Scenario = sc

	rep, err := report.New(cfg.Report.Format, cfg.Report.Precision)
	if err != nil {
		return nil, fmt.Errorf("wire: %w", err)
	}
	deps.Reporter = rep

	return deps, nil
}

// resolveScenario returns the preset named by sc.Preset, or the explicit
// fields when the preset is "custom".
func resolveScenario(sc config.ScenarioConfig, presets *scenario.Registry) (domain.Scenario, error) {
	if sc.Preset != config.PresetCustom {
		return presets.Get(sc.Preset)
	}
	out := domain.Scenario{
		Name:          config.PresetCustom,
		DrainFraction: sc.DrainFraction,
		Waves:         sc.Waves,
		KFactor:       sc.KFactor,
	}
	if err := out.Validate(); err != nil {
		return domain.Scenario{}, err
	}
	return out, nil
}
