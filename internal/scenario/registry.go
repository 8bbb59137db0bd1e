package scenario

import (
	"fmt"
	"sort"

	"github.com/alanyoungcy/psbm/internal/domain"
)

// Preset names.
const (
	BankRun     = "bank_run"
	MildOutflow = "mild_outflow"
	Symmetric   = "symmetric"
	TotalDrain  = "total_drain"
	Stampede    = "stampede"
)

// DefaultScenario is the canonical panic: 40% of the starting liquidity
// withdrawn in 10 waves with a 1.6 cap burn.
func DefaultScenario() domain.Scenario {
	return domain.Scenario{Name: BankRun, DrainFraction: 0.40, Waves: 10, KFactor: 1.6}
}

// Registry is a named collection of scenarios.
type Registry struct {
	scenarios map[string]domain.Scenario
}

// NewRegistry returns an empty, ready-to-use Registry.
func NewRegistry() *Registry {
	return &Registry{
		scenarios: make(map[string]domain.Scenario),
	}
}

// DefaultRegistry returns a Registry holding the built-in presets.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(DefaultScenario())
	r.Register(domain.Scenario{Name: MildOutflow, DrainFraction: 0.10, Waves: 5, KFactor: 1.6})
	// k=1 burns cap one-for-one with cash, so the reserve ratio erodes.
	r.Register(domain.Scenario{Name: Symmetric, DrainFraction: 0.40, Waves: 10, KFactor: 1.0})
	// The last wave asks for exactly the liquidity left and is refused.
	r.Register(domain.Scenario{Name: TotalDrain, DrainFraction: 1.0, Waves: 10, KFactor: 1.6})
	// Heavy burn; the cap floor engages from the second wave.
	r.Register(domain.Scenario{Name: Stampede, DrainFraction: 0.60, Waves: 6, KFactor: 3.0})
	return r
}

// Register adds sc under sc.Name, replacing any scenario of the same name.
func (r *Registry) Register(sc domain.Scenario) {
	r.scenarios[sc.Name] = sc
}

// Get retrieves a scenario by name. It returns an error when the name is not
// registered.
func (r *Registry) Get(name string) (domain.Scenario, error) {
	sc, ok := r.scenarios[name]
	if !ok {
		return domain.Scenario{}, fmt.Errorf("scenario %q: not registered", name)
	}
	return sc, nil
}

// List returns the names of all registered scenarios in sorted order.
func (r *Registry) List() []string {
	names := make([]string, 0, len(r.scenarios))
	for n := range r.scenarios {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
