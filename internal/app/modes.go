package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/alanyoungcy/psbm/internal/domain"
	"github.com/alanyoungcy/psbm/internal/market"
	"github.com/alanyoungcy/psbm/internal/scenario"
)

// SimulateMode runs the configured scenario from a fresh genesis state and
// reports it.
func (a *App) SimulateMode(ctx context.Context, deps *Dependencies) error {
	a.logger.InfoContext(ctx, "starting simulate mode", slog.String("scenario", deps.Scenario.Name))
	return a.runOne(ctx, deps, deps.Scenario)
}

// PresetsMode runs every registered preset in name order, each from its own
// genesis state. Cancellation is honoured between runs.
func (a *App) PresetsMode(ctx context.Context, deps *Dependencies) error {
	names := deps.Presets.List()
	a.logger.InfoContext(ctx, "starting presets mode", slog.Int("presets", len(names)))

	for i, name := range names {
		if err := ctx.Err(); err != nil {
			return err
		}
		sc, err := deps.Presets.Get(name)
		if err != nil {
			return fmt.Errorf("presets mode: %w", err)
		}
		if i > 0 {
			fmt.Fprintln(a.out)
		}
		if err := a.runOne(ctx, deps, sc); err != nil {
			return err
		}
	}
	return nil
}

// runOne builds a genesis state, checks the schedule up front, runs it and
// writes the report.
func (a *App) runOne(ctx context.Context, deps *Dependencies, sc domain.Scenario) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	state, err := market.New(deps.Params)
	if err != nil {
		return fmt.Errorf("run %s: %w", sc.Name, err)
	}
	a.preflight(ctx, state, sc)

	res, err := deps.Runner.Run(state, sc)
	if err != nil {
		return fmt.Errorf("run %s: %w", sc.Name, err)
	}
	if err := deps.Reporter.Write(a.out, res); err != nil {
		return fmt.Errorf("run %s: %w", sc.Name, err)
	}
	return nil
}

// preflight warns about schedules that will halt or erode the reserve ratio.
func (a *App) preflight(ctx context.Context, state market.State, sc domain.Scenario) {
	if wave := scenario.Preflight(state.Liquidity(), sc); wave > 0 {
		a.logger.WarnContext(ctx, "scenario will halt before completing",
			slog.String("scenario", sc.Name),
			slog.Int("halt_wave", wave),
			slog.Int("waves", sc.Waves),
		)
	}
	breakEven, err := state.BreakEvenKFactor()
	if err == nil && sc.KFactor < breakEven {
		a.logger.WarnContext(ctx, "k-factor below break-even; reserve ratio will fall",
			slog.String("scenario", sc.Name),
			slog.Float64("k_factor", sc.KFactor),
			slog.Float64("break_even", breakEven),
		)
	}
}
