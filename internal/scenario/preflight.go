package scenario

import (
	"github.com/alanyoungcy/psbm/internal/domain"
)

// Preflight replays the cash side of sc against initialLiquidity and returns
// the 1-based wave that would be refused with domain.ErrLiquidityDrained, or
// 0 if every wave fits. The k-factor does not affect liquidity, so the answer
// matches what Runner.Run will do. sc must be valid.
func Preflight(initialLiquidity float64, sc domain.Scenario) int {
	stepSize := initialLiquidity * sc.DrainFraction / float64(sc.Waves)
	liquidity := initialLiquidity
	for i := 1; i <= sc.Waves; i++ {
		if stepSize >= liquidity {
			return i
		}
		liquidity -= stepSize
	}
	return 0
}
