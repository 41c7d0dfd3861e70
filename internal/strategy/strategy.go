package strategy

import (
	"fmt"

	"backtest_service/internal/indicators"
	"backtest_service/internal/models"
)

type Action int

const (
	Hold Action = iota
	EnterLong
	EnterShort
	Exit
)

func (a Action) String() string {
	switch a {
	case EnterLong:
		return "enter-long"
	case EnterShort:
		return "enter-short"
	case Exit:
		return "exit"
	default:
		return "hold"
	}
}

// Decision is one per-bar verdict. Strength is the confidence of an entry in
// [0,1]; the orchestrator drops entries below the configured minimum.
type Decision struct {
	Action   Action
	Strength float64
	Reason   string
}

var hold = Decision{Action: Hold}

// Snapshot carries the indicator series a variant precomputed for the run.
// Built once per backtest, read-only afterwards.
type Snapshot struct {
	Series map[string]indicators.Series
}

func (s *Snapshot) at(name string, i int) (indicators.Sample, bool) {
	return s.Series[name].At(i)
}

// Strategy is one evaluation variant. Compute derives every indicator series
// the variant needs from the full candle set; Evaluate is a pure function of
// the snapshot, the bar index and the currently open position (nil if flat).
// Warmup is the first evaluable candle index: the orchestrator never calls
// Evaluate below it.
type Strategy interface {
	Name() string
	Warmup() int
	Compute(candles []models.Candle) *Snapshot
	Evaluate(snap *Snapshot, i int, open *models.Position) Decision
}

// Registry maps strategy types to constructors. It is an explicit object
// owned by whoever runs backtests; there is no package-level instance.
type Registry struct {
	factories map[models.StrategyType]func(models.StrategyParams) Strategy
}

// NewRegistry returns a registry with the closed set of built-in variants.
func NewRegistry() *Registry {
	r := &Registry{factories: make(map[models.StrategyType]func(models.StrategyParams) Strategy)}
	r.Register(models.StrategyMACrossover, func(p models.StrategyParams) Strategy { return newMACrossover(p) })
	r.Register(models.StrategyRSI, func(p models.StrategyParams) Strategy { return newRSIThreshold(p) })
	r.Register(models.StrategyMACD, func(p models.StrategyParams) Strategy { return newMACDCross(p) })
	r.Register(models.StrategyTrendFollow, func(p models.StrategyParams) Strategy { return newTrendFollowing(p) })
	r.Register(models.StrategyMeanReversion, func(p models.StrategyParams) Strategy { return newMeanReversion(p) })
	return r
}

func (r *Registry) Register(t models.StrategyType, f func(models.StrategyParams) Strategy) {
	r.factories[t] = f
}

func (r *Registry) Create(t models.StrategyType, p models.StrategyParams) (Strategy, error) {
	f, ok := r.factories[t]
	if !ok {
		return nil, fmt.Errorf("unknown strategy type %q", t)
	}
	return f(p), nil
}

// Known lists the registered types, for validation messages.
func (r *Registry) Known() []models.StrategyType {
	out := make([]models.StrategyType, 0, len(r.factories))
	for t := range r.factories {
		out = append(out, t)
	}
	return out
}

func closes(cs []models.Candle) []float64 {
	out := make([]float64, len(cs))
	for i, c := range cs {
		out[i] = c.Close
	}
	return out
}

func highs(cs []models.Candle) []float64 {
	out := make([]float64, len(cs))
	for i, c := range cs {
		out[i] = c.High
	}
	return out
}

func lows(cs []models.Candle) []float64 {
	out := make([]float64, len(cs))
	for i, c := range cs {
		out[i] = c.Low
	}
	return out
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
