package service

import (
	"sync/atomic"
	"time"
)

// State holds the liveness facts the admin endpoints report.
type State struct {
	ready     atomic.Bool
	startedAt time.Time

	dbConnected   atomic.Bool
	runsCompleted atomic.Int64
	lastRunUnix   atomic.Int64 // unix seconds
}

func NewState() *State {
	s := &State{startedAt: time.Now()}
	s.ready.Store(false)
	return s
}

func (s *State) SetReady(v bool) { s.ready.Store(v) }
func (s *State) Ready() bool     { return s.ready.Load() }

func (s *State) SetDBConnected(v bool) { s.dbConnected.Store(v) }
func (s *State) DBConnected() bool     { return s.dbConnected.Load() }

// TouchRun records a finished backtest.
func (s *State) TouchRun(t time.Time) {
	s.runsCompleted.Add(1)
	s.lastRunUnix.Store(t.Unix())
}

func (s *State) RunsCompleted() int64 { return s.runsCompleted.Load() }

func (s *State) LastRun() time.Time {
	u := s.lastRunUnix.Load()
	if u == 0 {
		return time.Time{}
	}
	return time.Unix(u, 0)
}

func (s *State) Uptime() time.Duration { return time.Since(s.startedAt) }
