package market

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alanyoungcy/psbm/internal/domain"
)

func genesis(t *testing.T) State {
	t.Helper()
	s, err := Initialize(100_000_000, 0.75)
	require.NoError(t, err)
	return s
}

func TestApplyWithdrawalSingleWave(t *testing.T) {
	s := genesis(t)

	next, err := s.ApplyWithdrawal(4_000_000, 1.6)
	require.NoError(t, err)

	assert.Equal(t, 96_000_000.0, next.Liquidity())
	assert.InDelta(t, 126_933_333.33, next.MarketCap(), 0.01)
	assert.InDelta(t, 970_000.0, next.SharesOutstanding(), 1e-6)
	assert.Equal(t, s.DividendPool(), next.DividendPool())

	ratio, err := next.ReserveRatio()
	require.NoError(t, err)
	assert.InDelta(t, 0.7563, ratio, 1e-4)
	assert.Greater(t, ratio, 0.75)

	yield, err := next.CurrentYield()
	require.NoError(t, err)
	assert.InDelta(t, 3.94, yield, 0.005)
	assert.Greater(t, yield, 3.75)
}

func TestApplyWithdrawalLeavesReceiverUntouched(t *testing.T) {
	s := genesis(t)
	before := s

	_, err := s.ApplyWithdrawal(4_000_000, 1.6)
	require.NoError(t, err)
	assert.Equal(t, before, s)
}

func TestApplyWithdrawalPricesAtPreUpdatePrice(t *testing.T) {
	s := genesis(t)
	price, err := s.SharePrice()
	require.NoError(t, err)

	next, err := s.ApplyWithdrawal(10_000_000, 2)
	require.NoError(t, err)
	assert.InDelta(t, s.SharesOutstanding()-10_000_000/price, next.SharesOutstanding(), 1e-6)
}

func TestWithdrawUsesDefaultKFactor(t *testing.T) {
	s := genesis(t)

	a, err := s.Withdraw(4_000_000)
	require.NoError(t, err)
	b, err := s.ApplyWithdrawal(4_000_000, DefaultKFactor)
	require.NoError(t, err)
	assert.Equal(t, b, a)
}

func TestApplyWithdrawalHalts(t *testing.T) {
	s := genesis(t)

	for _, amount := range []float64{100_000_000, 100_000_000.01, 5e9} {
		next, err := s.ApplyWithdrawal(amount, 1.6)
		require.ErrorIs(t, err, domain.ErrLiquidityDrained)
		assert.Equal(t, s.Liquidity(), next.Liquidity())
		assert.Equal(t, s.MarketCap(), next.MarketCap())
		assert.Equal(t, s.SharesOutstanding(), next.SharesOutstanding())
	}
}

func TestApplyWithdrawalRejectsInvalidInput(t *testing.T) {
	s := genesis(t)

	cases := []struct {
		name    string
		amount  float64
		kFactor float64
	}{
		{"zero amount", 0, 1.6},
		{"negative amount", -1, 1.6},
		{"nan amount", math.NaN(), 1.6},
		{"zero k", 1_000, 0},
		{"negative k", 1_000, -1.6},
		{"inf k", 1_000, math.Inf(1)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			next, err := s.ApplyWithdrawal(tc.amount, tc.kFactor)
			require.ErrorIs(t, err, domain.ErrInvalidConfiguration)
			assert.Equal(t, s, next)
		})
	}
}

func TestApplyWithdrawalFloorsMarketCap(t *testing.T) {
	s, err := Initialize(100, 0.75)
	require.NoError(t, err)

	// 50 * 3 = 150 exceeds the whole cap of 133.33.
	next, err := s.ApplyWithdrawal(50, 3)
	require.NoError(t, err)

	assert.Equal(t, 50.0, next.Liquidity())
	assert.Equal(t, next.Liquidity(), next.MarketCap())
	assert.Greater(t, next.SharesOutstanding(), 0.0)

	ratio, err := next.ReserveRatio()
	require.NoError(t, err)
	assert.Equal(t, 1.0, ratio)
}

func TestReserveRatioNonDecreasingAboveBreakEven(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for trial := 0; trial < 200; trial++ {
		target := 0.05 + rng.Float64()*0.95
		s, err := Initialize(1_000_000+rng.Float64()*1e9, target)
		require.NoError(t, err)

		// k is drawn above the genesis break-even so the ratio can only climb.
		breakEven, err := s.BreakEvenKFactor()
		require.NoError(t, err)
		k := math.Max(1, breakEven) * (1 + rng.Float64()*2)

		for step := 0; step < 25; step++ {
			before, err := s.ReserveRatio()
			require.NoError(t, err)

			amount := s.Liquidity() * rng.Float64() * 0.3
			if amount == 0 {
				continue
			}
			s, err = s.ApplyWithdrawal(amount, k)
			require.NoError(t, err)

			after, err := s.ReserveRatio()
			require.NoError(t, err)
			assert.GreaterOrEqual(t, after, before-1e-12)
			assert.LessOrEqual(t, after, 1.0)
			assert.GreaterOrEqual(t, s.MarketCap(), s.Liquidity())
			assert.Greater(t, s.SharesOutstanding(), 0.0)
		}
	}
}

func TestReserveRatioFallsBelowBreakEven(t *testing.T) {
	// A 30% reserve has a break-even k of 3.33, so k=1.6 erodes it.
	s, err := Initialize(100_000_000, 0.30)
	require.NoError(t, err)

	breakEven, err := s.BreakEvenKFactor()
	require.NoError(t, err)
	assert.InDelta(t, 1/0.30, breakEven, 1e-12)

	next, err := s.ApplyWithdrawal(10_000_000, 1.6)
	require.NoError(t, err)

	ratio, err := next.ReserveRatio()
	require.NoError(t, err)
	assert.Less(t, ratio, 0.30)
}

func TestSymmetricBurnErodesReserveRatio(t *testing.T) {
	s := genesis(t)

	next, err := s.ApplyWithdrawal(4_000_000, 1.0)
	require.NoError(t, err)

	ratio, err := next.ReserveRatio()
	require.NoError(t, err)
	assert.Less(t, ratio, 0.75)
}

func TestBreakEvenKFactorHoldsRatio(t *testing.T) {
	s := genesis(t)
	k, err := s.BreakEvenKFactor()
	require.NoError(t, err)
	assert.InDelta(t, 1/0.75, k, 1e-12)

	next, err := s.ApplyWithdrawal(4_000_000, k)
	require.NoError(t, err)

	ratio, err := next.ReserveRatio()
	require.NoError(t, err)
	assert.InDelta(t, 0.75, ratio, 1e-9)
}

func TestYieldRisesAsPriceFalls(t *testing.T) {
	s := genesis(t)

	for i := 0; i < 10; i++ {
		price, err := s.SharePrice()
		require.NoError(t, err)
		yield, err := s.CurrentYield()
		require.NoError(t, err)

		s, err = s.ApplyWithdrawal(4_000_000, 1.6)
		require.NoError(t, err)

		nextPrice, err := s.SharePrice()
		require.NoError(t, err)
		nextYield, err := s.CurrentYield()
		require.NoError(t, err)

		require.Less(t, nextPrice, price)
		assert.Greater(t, nextYield, yield)
	}
}
