package market

import (
	"fmt"
	"math"

	"github.com/alanyoungcy/psbm/internal/domain"
)

// ApplyWithdrawal redeems amount of cash and returns the resulting state.
//
// Shares are redeemed at the pre-withdrawal share price while the market cap
// is burned by amount*kFactor. For kFactor > 1 the cap shrinks faster than
// liquidity, so the reserve ratio rises. The cap is floored at the remaining
// liquidity.
//
// When amount >= liquidity the receiver is returned unchanged together with
// domain.ErrLiquidityDrained.
func (s State) ApplyWithdrawal(amount, kFactor float64) (State, error) {
	if !(amount > 0) || math.IsInf(amount, 0) {
		return s, fmt.Errorf("market: withdrawal amount must be positive, got %v: %w", amount, domain.ErrInvalidConfiguration)
	}
	if !(kFactor > 0) || math.IsInf(kFactor, 0) {
		return s, fmt.Errorf("market: k-factor must be positive, got %v: %w", kFactor, domain.ErrInvalidConfiguration)
	}
	if amount >= s.liquidity {
		return s, fmt.Errorf("market: withdrawal %.2f against liquidity %.2f: %w", amount, s.liquidity, domain.ErrLiquidityDrained)
	}

	price, err := s.SharePrice()
	if err != nil {
		return s, err
	}
	sharesBurned := amount / price
	capBurn := amount * kFactor

	next := s
	next.liquidity -= amount
	next.marketCap -= capBurn
	next.sharesOutstanding -= sharesBurned

	if next.marketCap < next.liquidity {
		next.marketCap = next.liquidity
	}
	return next, nil
}

// Withdraw applies a withdrawal with DefaultKFactor.
func (s State) Withdraw(amount float64) (State, error) {
	return s.ApplyWithdrawal(amount, DefaultKFactor)
}

// BreakEvenKFactor returns marketCap / liquidity, the smallest k-factor for
// which a withdrawal does not lower the reserve ratio. Below it the cap burn
// is too small relative to the cash leaving and the ratio falls.
func (s State) BreakEvenKFactor() (float64, error) {
	if err := s.checkDegenerate(); err != nil {
		return 0, err
	}
	if s.liquidity == 0 {
		return 0, fmt.Errorf("market: no liquidity: %w", domain.ErrDegenerateState)
	}
	return finiteMetric("break-even k-factor", s.marketCap/s.liquidity)
}
