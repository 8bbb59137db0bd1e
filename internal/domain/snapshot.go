package domain

// PhaseGenesis labels the snapshot taken right after construction.
const PhaseGenesis = "Genesis"

// Snapshot is an immutable record of the protocol metrics at one phase of a
// run.
type Snapshot struct {
	Phase             string  `json:"phase"`
	SharePrice        float64 `json:"share_price"`
	CurrentYield      float64 `json:"current_yield"`   // percent
	ReservePercent    float64 `json:"reserve_percent"` // reserve ratio * 100
	Liquidity         float64 `json:"liquidity"`
	MarketCap         float64 `json:"market_cap"`
	SharesOutstanding float64 `json:"shares_outstanding"`
}

// History is the append-only ledger of snapshots for one run. The zero value
// is an empty ledger ready to use.
type History struct {
	snaps []Snapshot
}

// Record appends a snapshot to the ledger.
func (h *History) Record(s Snapshot) {
	h.snaps = append(h.snaps, s)
}

// Len returns the number of recorded snapshots.
func (h *History) Len() int { return len(h.snaps) }

// Snapshots returns a copy of the ledger in recording order. The returned
// slice is safe to mutate.
func (h *History) Snapshots() []Snapshot {
	if len(h.snaps) == 0 {
		return nil
	}
	out := make([]Snapshot, len(h.snaps))
	copy(out, h.snaps)
	return out
}
