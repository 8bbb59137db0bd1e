// Package scenario drives withdrawal waves against a market state and records
// the resulting trajectory.
package scenario

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/alanyoungcy/psbm/internal/domain"
	"github.com/alanyoungcy/psbm/internal/market"
)

// Result is the outcome of one run.
type Result struct {
	RunID    uuid.UUID
	Scenario domain.Scenario
	History  []domain.Snapshot
	Final    market.State
	// Halted is true when a wave hit domain.ErrLiquidityDrained. HaltedAt is
	// the 1-based wave that was refused; waves before it completed.
	Halted   bool
	HaltedAt int
}

// CompletedWaves returns the number of waves that were applied.
func (r Result) CompletedWaves() int {
	if len(r.History) == 0 {
		return 0
	}
	return len(r.History) - 1
}

// Runner applies a scenario to a state. It holds no per-run state and may be
// reused.
type Runner struct {
	logger *slog.Logger
}

// NewRunner creates a Runner. A nil logger falls back to slog.Default().
func NewRunner(logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{
		logger: logger.With(slog.String("component", "scenario_runner")),
	}
}

// Run records a genesis snapshot of state, then applies sc.Waves equal
// withdrawals of state.Liquidity()*sc.DrainFraction/sc.Waves each. The step
// size is fixed from the starting liquidity. A wave refused with
// domain.ErrLiquidityDrained ends the run early and marks it halted; that is
// not an error. Any other failure is returned.
func (r *Runner) Run(state market.State, sc domain.Scenario) (Result, error) {
	if err := sc.Validate(); err != nil {
		return Result{}, err
	}

	res := Result{
		RunID:    uuid.New(),
		Scenario: sc,
	}
	logger := r.logger.With(
		slog.String("run_id", res.RunID.String()),
		slog.String("scenario", sc.Name),
	)

	var history domain.History
	snap, err := state.Snapshot(domain.PhaseGenesis)
	if err != nil {
		return Result{}, fmt.Errorf("scenario: genesis snapshot: %w", err)
	}
	history.Record(snap)

	totalDrain := state.Liquidity() * sc.DrainFraction
	stepSize := totalDrain / float64(sc.Waves)

	logger.Info("run started",
		slog.Float64("liquidity", state.Liquidity()),
		slog.Float64("total_drain", totalDrain),
		slog.Float64("step_size", stepSize),
		slog.Int("waves", sc.Waves),
		slog.Float64("k_factor", sc.KFactor),
	)

	for i := 1; i <= sc.Waves; i++ {
		next, err := state.ApplyWithdrawal(stepSize, sc.KFactor)
		if errors.Is(err, domain.ErrLiquidityDrained) {
			res.Halted = true
			res.HaltedAt = i
			logger.Warn("system halted: liquidity drained",
				slog.Int("wave", i),
				slog.Float64("step_size", stepSize),
				slog.Float64("liquidity", state.Liquidity()),
			)
			break
		}
		if err != nil {
			return Result{}, fmt.Errorf("scenario: wave %d: %w", i, err)
		}
		state = next

		snap, err := state.Snapshot(domain.WavePhase(i))
		if err != nil {
			return Result{}, fmt.Errorf("scenario: wave %d snapshot: %w", i, err)
		}
		history.Record(snap)

		logger.Debug("wave applied",
			slog.Int("wave", i),
			slog.Float64("liquidity", snap.Liquidity),
			slog.Float64("share_price", snap.SharePrice),
			slog.Float64("yield_pct", snap.CurrentYield),
			slog.Float64("reserve_pct", snap.ReservePercent),
		)
	}

	res.History = history.Snapshots()
	res.Final = state

	logger.Info("run finished",
		slog.Int("completed_waves", res.CompletedWaves()),
		slog.Int("snapshots", history.Len()),
		slog.Bool("halted", res.Halted),
	)
	return res, nil
}
