package dotlogs

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStateSnapshot(t *testing.T) {
	var s State
	started := time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)
	s.StartTime.Store(started)

	s.EventsWritten[LevelError].Add(2)
	s.EventsWritten[LevelVerbose].Add(1)
	s.EventsFiltered.Add(5)
	s.TotalRotations.Add(1)

	st := s.snapshot(started.Add(time.Minute))
	assert.Equal(t, uint64(2), st.EventsWritten["Error"])
	assert.Equal(t, uint64(1), st.EventsWritten["Verbose"])
	assert.Equal(t, uint64(0), st.EventsWritten["Fatal"])
	assert.Len(t, st.EventsWritten, levelCount)
	assert.Equal(t, uint64(5), st.EventsFiltered)
	assert.Equal(t, uint64(1), st.TotalRotations)
	assert.Equal(t, time.Minute, st.Uptime)
	assert.NoError(t, st.LastWriteError)
}

func TestStateWriteErrors(t *testing.T) {
	var s State
	first := errors.New("disk full")
	second := fmtErrorf("permission denied")

	s.recordWriteError(first)
	s.recordWriteError(second)

	st := s.snapshot(time.Now())
	assert.Equal(t, uint64(2), st.WriteErrors)
	assert.Equal(t, second, st.LastWriteError)
}
