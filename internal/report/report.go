// Package report renders scenario results for humans and downstream tools.
package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/shopspring/decimal"

	"github.com/alanyoungcy/psbm/internal/domain"
	"github.com/alanyoungcy/psbm/internal/scenario"
)

// Supported output formats.
const (
	FormatTable = "table"
	FormatCSV   = "csv"
	FormatJSON  = "json"
)

// DefaultPrecision is the number of decimal places used when none is set.
const DefaultPrecision = 2

// Reporter writes results in one output format.
type Reporter struct {
	format    string
	precision int32
}

// New creates a Reporter. precision is the number of decimal places every
// figure is rounded to; negative values select DefaultPrecision.
func New(format string, precision int) (*Reporter, error) {
	switch format {
	case FormatTable, FormatCSV, FormatJSON:
	default:
		return nil, fmt.Errorf("report: unknown format %q (valid: table, csv, json)", format)
	}
	if precision < 0 {
		precision = DefaultPrecision
	}
	return &Reporter{format: format, precision: int32(precision)}, nil
}

// Write renders res to w.
func (r *Reporter) Write(w io.Writer, res scenario.Result) error {
	switch r.format {
	case FormatCSV:
		return r.writeCSV(w, res)
	case FormatJSON:
		return r.writeJSON(w, res)
	default:
		return r.writeTable(w, res)
	}
}

var columns = []string{"Phase", "Price ($)", "Yield (%)", "Reserve (%)", "Liquidity ($)"}

func (r *Reporter) row(s domain.Snapshot) []string {
	return []string{
		s.Phase,
		r.fixed(s.SharePrice),
		r.fixed(s.CurrentYield),
		r.fixed(s.ReservePercent),
		r.fixed(s.Liquidity),
	}
}

// fixed rounds half away from zero.
func (r *Reporter) fixed(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(r.precision)
}

func (r *Reporter) round(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v).Round(r.precision)
}

func (r *Reporter) writeTable(w io.Writer, res scenario.Result) error {
	ew := &errWriter{w: w}
	ew.printf("--- SCENARIO %s: %s%% LIQUIDITY DRAIN IN %d WAVES (k=%s) ---\n",
		res.Scenario.Name,
		decimal.NewFromFloat(res.Scenario.DrainFraction).Mul(decimal.NewFromInt(100)).String(),
		res.Scenario.Waves,
		decimal.NewFromFloat(res.Scenario.KFactor).String(),
	)
	ew.printf("run %s\n", res.RunID)
	if ew.err != nil {
		return fmt.Errorf("report: write title: %w", ew.err)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	tew := &errWriter{w: tw}
	tew.printf("%s\t\n", strings.Join(columns, "\t"))
	for _, s := range res.History {
		tew.printf("%s\t\n", strings.Join(r.row(s), "\t"))
	}
	if tew.err != nil {
		return fmt.Errorf("report: write table: %w", tew.err)
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("report: flush table: %w", err)
	}

	if res.Halted {
		ew.printf("\n[HALTED] Liquidity drained at wave %d; %d of %d waves completed.\n",
			res.HaltedAt, res.CompletedWaves(), res.Scenario.Waves)
	}
	ew.printf("\n%s\n", r.Verdict(scenario.Summarize(res)))
	if ew.err != nil {
		return fmt.Errorf("report: write verdict: %w", ew.err)
	}
	return nil
}

// errWriter keeps the first write error and skips every write after it.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) printf(format string, args ...any) {
	if e.err != nil {
		return
	}
	_, e.err = fmt.Fprintf(e.w, format, args...)
}

// Verdict describes how price, yield and reserve moved over the run.
func (r *Reporter) Verdict(s scenario.Summary) string {
	tag := "[VERIFIED]"
	if !s.ReserveNonDecreasing || !s.YieldIncreasing {
		tag = "[WARNING]"
	}
	msg := fmt.Sprintf("%s As price moved from %s to %s, yield moved from %s%% to %s%% and reserve from %s%% to %s%%.",
		tag,
		r.fixed(s.StartPrice), r.fixed(s.EndPrice),
		r.fixed(s.StartYield), r.fixed(s.EndYield),
		r.fixed(s.StartReserve), r.fixed(s.EndReserve),
	)
	if !s.ReserveNonDecreasing {
		msg += " Reserve ratio fell during the run."
	}
	if !s.YieldIncreasing {
		msg += " Yield did not rise on every wave."
	}
	return msg
}

func (r *Reporter) writeCSV(w io.Writer, res scenario.Result) error {
	cw := csv.NewWriter(w)
	header := []string{"run_id", "scenario", "phase", "share_price", "current_yield", "reserve_percent", "liquidity"}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("report: csv header: %w", err)
	}
	for _, s := range res.History {
		rec := append([]string{res.RunID.String(), res.Scenario.Name}, r.row(s)...)
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("report: csv row %s: %w", s.Phase, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

type jsonSnapshot struct {
	Phase             string          `json:"phase"`
	SharePrice        decimal.Decimal `json:"share_price"`
	CurrentYield      decimal.Decimal `json:"current_yield"`
	ReservePercent    decimal.Decimal `json:"reserve_percent"`
	Liquidity         decimal.Decimal `json:"liquidity"`
	MarketCap         decimal.Decimal `json:"market_cap"`
	SharesOutstanding decimal.Decimal `json:"shares_outstanding"`
}

type jsonResult struct {
	RunID    string          `json:"run_id"`
	Scenario domain.Scenario `json:"scenario"`
	Halted   bool            `json:"halted"`
	HaltedAt int             `json:"halted_at,omitempty"`
	History  []jsonSnapshot  `json:"history"`
}

func (r *Reporter) writeJSON(w io.Writer, res scenario.Result) error {
	out := jsonResult{
		RunID:    res.RunID.String(),
		Scenario: res.Scenario,
		Halted:   res.Halted,
		HaltedAt: res.HaltedAt,
		History:  make([]jsonSnapshot, 0, len(res.History)),
	}
	for _, s := range res.History {
		out.History = append(out.History, jsonSnapshot{
			Phase:             s.Phase,
			SharePrice:        r.round(s.SharePrice),
			CurrentYield:      r.round(s.CurrentYield),
			ReservePercent:    r.round(s.ReservePercent),
			Liquidity:         r.round(s.Liquidity),
			MarketCap:         r.round(s.MarketCap),
			SharesOutstanding: r.round(s.SharesOutstanding),
		})
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("report: encode json: %w", err)
	}
	return nil
}

// Precision returns the configured number of decimal places.
func (r *Reporter) Precision() int { return int(r.precision) }

// Format returns the configured output format.
func (r *Reporter) Format() string { return r.format }
