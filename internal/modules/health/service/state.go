package service

import (
	"sync/atomic"
	"time"
)

// State: состояние сканера для /readyz и /healthz.
type State struct {
	ready     atomic.Bool
	startedAt time.Time

	lastCycleUnix  atomic.Int64 // unix seconds
	lastSignalUnix atomic.Int64
	failures       atomic.Int64 // подряд неудачных циклов
}

func NewState() *State {
	s := &State{startedAt: time.Now()}
	s.ready.Store(false)
	return s
}

func (s *State) SetReady(v bool) { s.ready.Store(v) }
func (s *State) Ready() bool     { return s.ready.Load() }

// CycleOK отмечает полный цикл: сервис готов, счётчик неудач сброшен.
func (s *State) CycleOK(t time.Time) {
	s.lastCycleUnix.Store(t.Unix())
	s.failures.Store(0)
	s.ready.Store(true)
}

func (s *State) CycleFailed() { s.failures.Add(1) }

func (s *State) Failures() int64 { return s.failures.Load() }

func (s *State) TouchSignal(t time.Time) { s.lastSignalUnix.Store(t.Unix()) }

func (s *State) LastCycle() time.Time  { return fromUnix(s.lastCycleUnix.Load()) }
func (s *State) LastSignal() time.Time { return fromUnix(s.lastSignalUnix.Load()) }

func (s *State) Uptime() time.Duration { return time.Since(s.startedAt) }

func fromUnix(u int64) time.Time {
	if u == 0 {
		return time.Time{}
	}
	return time.Unix(u, 0)
}

func unixOrZero(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.Unix()
}

// Snapshot: то, что отдаёт /healthz.
type Snapshot struct {
	Ready          bool  `json:"ready"`
	UptimeSec      int64 `json:"uptimeSec"`
	LastCycleUnix  int64 `json:"lastCycleUnix"`
	LastSignalUnix int64 `json:"lastSignalUnix"`
	Failures       int64 `json:"consecutiveFailures"`
}

func (s *State) Snapshot() Snapshot {
	return Snapshot{
		Ready:          s.Ready(),
		UptimeSec:      int64(s.Uptime().Seconds()),
		LastCycleUnix:  unixOrZero(s.LastCycle()),
		LastSignalUnix: unixOrZero(s.LastSignal()),
		Failures:       s.Failures(),
	}
}
