package scenario

// Summary condenses a run's history into its start and end metrics.
type Summary struct {
	StartPrice   float64
	EndPrice     float64
	StartYield   float64
	EndYield     float64
	StartReserve float64 // percent
	EndReserve   float64 // percent

	// ReserveNonDecreasing holds when no wave lowered the reserve ratio.
	ReserveNonDecreasing bool
	// YieldIncreasing holds when every wave strictly raised the yield.
	YieldIncreasing bool
}

// Summarize computes a Summary from r.History. An empty history yields the
// zero Summary.
func Summarize(r Result) Summary {
	h := r.History
	if len(h) == 0 {
		return Summary{}
	}
	first, last := h[0], h[len(h)-1]
	s := Summary{
		StartPrice:           first.SharePrice,
		EndPrice:             last.SharePrice,
		StartYield:           first.CurrentYield,
		EndYield:             last.CurrentYield,
		StartReserve:         first.ReservePercent,
		EndReserve:           last.ReservePercent,
		ReserveNonDecreasing: true,
		YieldIncreasing:      true,
	}
	for i := 1; i < len(h); i++ {
		if h[i].ReservePercent < h[i-1].ReservePercent {
			s.ReserveNonDecreasing = false
		}
		if h[i].CurrentYield <= h[i-1].CurrentYield {
			s.YieldIncreasing = false
		}
	}
	return s
}
