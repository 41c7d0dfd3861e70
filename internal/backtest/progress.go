package backtest

// Progress is a point-in-time snapshot of a running backtest.
type Progress struct {
	Bar    int     `json:"bar"`
	Total  int     `json:"total"`
	Equity float64 `json:"equity"`
}

// ProgressFunc receives periodic snapshots during Run. It is called from the
// simulation goroutine, so implementations must be fast and non-blocking.
type ProgressFunc func(Progress)

// Option tweaks a single Run invocation.
type Option func(*runOptions)

type runOptions struct {
	progress      ProgressFunc
	progressEvery int
}

// WithProgress installs fn as the progress sink, invoked every n processed
// bars and once on the final bar. n below 1 defaults to 1.
func WithProgress(fn ProgressFunc, n int) Option {
	return func(o *runOptions) {
		if n < 1 {
			n = 1
		}
		o.progress = fn
		o.progressEvery = n
	}
}
