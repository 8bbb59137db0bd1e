package domain

import (
	"fmt"
	"math"
)

// Scenario describes a run of equal-sized withdrawal waves. The total drain is
// DrainFraction of the liquidity held at the start of the run, split evenly
// across Waves. A DrainFraction of 1 or more is legal; such a run halts.
type Scenario struct {
	Name          string  `json:"name"`
	DrainFraction float64 `json:"drain_fraction"`
	Waves         int     `json:"waves"`
	KFactor       float64 `json:"k_factor"`
}

// Validate reports whether the scenario can be driven at all.
func (s Scenario) Validate() error {
	if !(s.DrainFraction > 0) || math.IsInf(s.DrainFraction, 0) {
		return fmt.Errorf("scenario %q: drain fraction must be positive, got %v: %w", s.Name, s.DrainFraction, ErrInvalidConfiguration)
	}
	if s.Waves < 1 {
		return fmt.Errorf("scenario %q: waves must be >= 1, got %d: %w", s.Name, s.Waves, ErrInvalidConfiguration)
	}
	if !(s.KFactor > 0) || math.IsInf(s.KFactor, 0) {
		return fmt.Errorf("scenario %q: k-factor must be positive, got %v: %w", s.Name, s.KFactor, ErrInvalidConfiguration)
	}
	return nil
}

// WavePhase returns the snapshot label for wave i (1-based).
func WavePhase(i int) string {
	return fmt.Sprintf("Wave_%d", i)
}
