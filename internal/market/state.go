// Package market holds the self-balanced market state and the asymmetric
// withdrawal rule that converts a cash outflow into a larger destruction of
// notional valuation.
package market

import (
	"fmt"
	"math"

	"github.com/alanyoungcy/psbm/internal/domain"
)

const (
	// DefaultKFactor is the cap-burn multiplier used when the caller has no
	// preference.
	DefaultKFactor = 1.6

	defaultInitialLiquidity   = 100_000_000
	defaultTargetReserveRatio = 0.75
	defaultSharesOutstanding  = 1_000_000
	defaultDividendPool       = 5_000_000
)

// Params are the construction parameters of a State.
type Params struct {
	InitialLiquidity   float64
	TargetReserveRatio float64
	SharesOutstanding  float64
	// DividendPool is the external revenue stream used for yield. It stays
	// constant for the lifetime of the state.
	DividendPool float64
}

// DefaultParams returns the canonical genesis parameters.
func DefaultParams() Params {
	return Params{
		InitialLiquidity:   defaultInitialLiquidity,
		TargetReserveRatio: defaultTargetReserveRatio,
		SharesOutstanding:  defaultSharesOutstanding,
		DividendPool:       defaultDividendPool,
	}
}

// Validate checks p and returns an error wrapping
// domain.ErrInvalidConfiguration on the first violation.
func (p Params) Validate() error {
	switch {
	case !(p.InitialLiquidity > 0) || math.IsInf(p.InitialLiquidity, 0):
		return fmt.Errorf("market: initial liquidity must be positive, got %v: %w", p.InitialLiquidity, domain.ErrInvalidConfiguration)
	case !(p.TargetReserveRatio > 0) || p.TargetReserveRatio > 1:
		return fmt.Errorf("market: target reserve ratio must be in (0, 1], got %v: %w", p.TargetReserveRatio, domain.ErrInvalidConfiguration)
	case !(p.SharesOutstanding > 0) || math.IsInf(p.SharesOutstanding, 0):
		return fmt.Errorf("market: shares outstanding must be positive, got %v: %w", p.SharesOutstanding, domain.ErrInvalidConfiguration)
	case !(p.DividendPool >= 0) || math.IsInf(p.DividendPool, 0):
		return fmt.Errorf("market: dividend pool must be non-negative, got %v: %w", p.DividendPool, domain.ErrInvalidConfiguration)
	}
	if c := p.InitialLiquidity / p.TargetReserveRatio; !finitePositive(c) {
		return fmt.Errorf("market: genesis market cap %v out of range for liquidity %v and ratio %v: %w",
			c, p.InitialLiquidity, p.TargetReserveRatio, domain.ErrInvalidConfiguration)
	}
	return nil
}

func finitePositive(v float64) bool {
	return v > 0 && !math.IsInf(v, 0)
}

// State is one protocol instance at one point in time. It is a value: every
// transition returns a new State and leaves the receiver untouched.
//
// The zero State is degenerate; its derived metrics return
// domain.ErrDegenerateState.
type State struct {
	liquidity         float64
	marketCap         float64
	sharesOutstanding float64
	dividendPool      float64
}

// New builds the genesis state. Market cap is set so that the genesis reserve
// ratio equals p.TargetReserveRatio.
func New(p Params) (State, error) {
	if err := p.Validate(); err != nil {
		return State{}, err
	}
	return State{
		liquidity:         p.InitialLiquidity,
		marketCap:         p.InitialLiquidity / p.TargetReserveRatio,
		sharesOutstanding: p.SharesOutstanding,
		dividendPool:      p.DividendPool,
	}, nil
}

// Initialize builds a genesis state with the default share count and
// dividend pool.
func Initialize(initialLiquidity, targetReserveRatio float64) (State, error) {
	p := DefaultParams()
	p.InitialLiquidity = initialLiquidity
	p.TargetReserveRatio = targetReserveRatio
	return New(p)
}

// Liquidity returns the redeemable assets held.
func (s State) Liquidity() float64 { return s.liquidity }

// MarketCap returns the total notional valuation.
func (s State) MarketCap() float64 { return s.marketCap }

// SharesOutstanding returns the number of claims against the market cap.
func (s State) SharesOutstanding() float64 { return s.sharesOutstanding }

// DividendPool returns the constant external revenue stream.
func (s State) DividendPool() float64 { return s.dividendPool }

// SharePrice returns marketCap / sharesOutstanding.
func (s State) SharePrice() (float64, error) {
	if err := s.checkDegenerate(); err != nil {
		return 0, err
	}
	return finiteMetric("share price", s.marketCap/s.sharesOutstanding)
}

// CurrentYield returns the dividend per share over the share price, in
// percent.
func (s State) CurrentYield() (float64, error) {
	price, err := s.SharePrice()
	if err != nil {
		return 0, err
	}
	dps := s.dividendPool / s.sharesOutstanding
	return finiteMetric("current yield", dps/price*100)
}

// ReserveRatio returns liquidity / marketCap.
func (s State) ReserveRatio() (float64, error) {
	if err := s.checkDegenerate(); err != nil {
		return 0, err
	}
	return finiteMetric("reserve ratio", s.liquidity/s.marketCap)
}

func (s State) checkDegenerate() error {
	if !finitePositive(s.sharesOutstanding) || !finitePositive(s.marketCap) ||
		math.IsNaN(s.liquidity) || math.IsInf(s.liquidity, 0) {
		return fmt.Errorf("market: shares=%v market_cap=%v liquidity=%v: %w",
			s.sharesOutstanding, s.marketCap, s.liquidity, domain.ErrDegenerateState)
	}
	return nil
}

// finiteMetric rejects NaN and infinite results so they never reach a snapshot.
func finiteMetric(name string, v float64) (float64, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("market: %s is %v: %w", name, v, domain.ErrDegenerateState)
	}
	return v, nil
}

// Snapshot captures the current metrics under the given phase label.
func (s State) Snapshot(phase string) (domain.Snapshot, error) {
	price, err := s.SharePrice()
	if err != nil {
		return domain.Snapshot{}, err
	}
	yield, err := s.CurrentYield()
	if err != nil {
		return domain.Snapshot{}, err
	}
	ratio, err := s.ReserveRatio()
	if err != nil {
		return domain.Snapshot{}, err
	}
	return domain.Snapshot{
		Phase:             phase,
		SharePrice:        price,
		CurrentYield:      yield,
		ReservePercent:    ratio * 100,
		Liquidity:         s.liquidity,
		MarketCap:         s.marketCap,
		SharesOutstanding: s.sharesOutstanding,
	}, nil
}
