package domain

import "errors"

var (
	// ErrInvalidConfiguration reports a parameter that cannot build a state or
	// scenario: non-positive liquidity, an out-of-range reserve ratio, a
	// non-positive k-factor and the like.
	ErrInvalidConfiguration = errors.New("invalid configuration")

	// ErrLiquidityDrained is the halt signal raised when a withdrawal would
	// consume all remaining liquidity. The state is left untouched.
	ErrLiquidityDrained = errors.New("liquidity drained")

	// ErrDegenerateState is returned when a derived metric is read while
	// shares outstanding or market cap is zero.
	ErrDegenerateState = errors.New("degenerate state")
)
