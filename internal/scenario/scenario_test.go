package scenario

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alanyoungcy/psbm/internal/domain"
)

func TestPreflight(t *testing.T) {
	cases := []struct {
		name string
		sc   domain.Scenario
		want int
	}{
		{"default never halts", DefaultScenario(), 0},
		{"ninety percent never halts", domain.Scenario{DrainFraction: 0.9, Waves: 3, KFactor: 1.6}, 0},
		{"full drain halts on last wave", domain.Scenario{DrainFraction: 1.0, Waves: 10, KFactor: 1.6}, 10},
		{"double drain halts midway", domain.Scenario{DrainFraction: 2.0, Waves: 10, KFactor: 1.6}, 5},
		{"single full wave", domain.Scenario{DrainFraction: 1.0, Waves: 1, KFactor: 1.6}, 1},
		{"many waves stay safe", domain.Scenario{DrainFraction: 0.4, Waves: 1000, KFactor: 1.6}, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Preflight(100_000_000, tc.sc))
		})
	}
}

func TestPreflightAgreesWithRunner(t *testing.T) {
	reg := DefaultRegistry()
	for _, name := range reg.List() {
		sc, err := reg.Get(name)
		require.NoError(t, err)

		res, err := newTestRunner().Run(genesis(t), sc)
		require.NoError(t, err)
		assert.Equal(t, res.HaltedAt, Preflight(100_000_000, sc), name)
	}
}

func TestDefaultRegistry(t *testing.T) {
	reg := DefaultRegistry()
	assert.Equal(t, []string{BankRun, MildOutflow, Stampede, Symmetric, TotalDrain}, reg.List())

	sc, err := reg.Get(BankRun)
	require.NoError(t, err)
	assert.Equal(t, DefaultScenario(), sc)

	for _, name := range reg.List() {
		sc, err := reg.Get(name)
		require.NoError(t, err)
		assert.NoError(t, sc.Validate(), name)
		assert.Equal(t, name, sc.Name)
	}

	_, err = reg.Get("unknown")
	assert.Error(t, err)
}

func TestRegistryRegisterReplaces(t *testing.T) {
	reg := NewRegistry()
	reg.Register(domain.Scenario{Name: "x", DrainFraction: 0.1, Waves: 1, KFactor: 2})
	reg.Register(domain.Scenario{Name: "x", DrainFraction: 0.2, Waves: 2, KFactor: 2})

	sc, err := reg.Get("x")
	require.NoError(t, err)
	assert.Equal(t, 0.2, sc.DrainFraction)
	assert.Len(t, reg.List(), 1)
}

func TestSummarizeDefaultRun(t *testing.T) {
	res, err := newTestRunner().Run(genesis(t), DefaultScenario())
	require.NoError(t, err)

	s := Summarize(res)
	assert.InDelta(t, 133.333, s.StartPrice, 0.001)
	assert.Less(t, s.EndPrice, s.StartPrice)
	assert.InDelta(t, 3.75, s.StartYield, 1e-9)
	assert.Greater(t, s.EndYield, s.StartYield)
	assert.InDelta(t, 75.0, s.StartReserve, 1e-9)
	assert.Greater(t, s.EndReserve, s.StartReserve)
	assert.True(t, s.ReserveNonDecreasing)
	assert.True(t, s.YieldIncreasing)
}

func TestSummarizeSymmetricRun(t *testing.T) {
	sc, err := DefaultRegistry().Get(Symmetric)
	require.NoError(t, err)
	res, err := newTestRunner().Run(genesis(t), sc)
	require.NoError(t, err)

	s := Summarize(res)
	assert.False(t, s.ReserveNonDecreasing)
	assert.True(t, s.YieldIncreasing)
	assert.Less(t, s.EndReserve, s.StartReserve)
}

func TestSummarizeEmpty(t *testing.T) {
	assert.Equal(t, Summary{}, Summarize(Result{}))
}
