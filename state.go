package dotlogs

import (
	"sync/atomic"
	"time"
)

// State encapsulates the runtime state and counters of a service
type State struct {
	ShutdownCalled atomic.Bool

	EventsWritten  [levelCount]atomic.Uint64 // Events that reached the sinks, per level
	EventsFiltered atomic.Uint64             // Events dropped by the level gate
	WriteErrors    atomic.Uint64             // Failed sink writes

	TotalRotations   atomic.Uint64 // Period file switches
	TotalDeletions   atomic.Uint64 // Files removed by retention
	Reloads          atomic.Uint64 // Reload attempts from the document
	Reconfigurations atomic.Uint64 // Sink set rebuilds

	StartTime atomic.Value // stores time.Time
	lastError atomic.Value // stores errorHolder
}

// errorHolder keeps atomic.Value happy with differing concrete error types
type errorHolder struct {
	err error
}

// Stats is a point-in-time copy of the counters
type Stats struct {
	EventsWritten    map[string]uint64 // Keyed by canonical level name
	EventsFiltered   uint64
	WriteErrors      uint64
	TotalRotations   uint64
	TotalDeletions   uint64
	Reloads          uint64
	Reconfigurations uint64
	Uptime           time.Duration
	LastWriteError   error
}

func (s *State) recordWriteError(err error) {
	s.WriteErrors.Add(1)
	s.lastError.Store(errorHolder{err: err})
}

func (s *State) lastWriteError() error {
	if h, ok := s.lastError.Load().(errorHolder); ok {
		return h.err
	}
	return nil
}

func (s *State) snapshot(now time.Time) Stats {
	st := Stats{
		EventsWritten:    make(map[string]uint64, levelCount),
		EventsFiltered:   s.EventsFiltered.Load(),
		WriteErrors:      s.WriteErrors.Load(),
		TotalRotations:   s.TotalRotations.Load(),
		TotalDeletions:   s.TotalDeletions.Load(),
		Reloads:          s.Reloads.Load(),
		Reconfigurations: s.Reconfigurations.Load(),
		LastWriteError:   s.lastWriteError(),
	}
	for i := range s.EventsWritten {
		st.EventsWritten[LevelName(int64(i))] = s.EventsWritten[i].Load()
	}
	if started, ok := s.StartTime.Load().(time.Time); ok {
		st.Uptime = now.Sub(started)
	}
	return st
}
