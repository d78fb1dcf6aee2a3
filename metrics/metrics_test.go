package metrics

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AlexandreIorio/dotlogs"
)

type fakeSource struct {
	stats dotlogs.Stats
}

func (f fakeSource) Stats() dotlogs.Stats { return f.stats }

func testStats() dotlogs.Stats {
	return dotlogs.Stats{
		EventsWritten:    map[string]uint64{"Error": 3, "Information": 5},
		EventsFiltered:   7,
		WriteErrors:      1,
		TotalRotations:   2,
		TotalDeletions:   4,
		Reloads:          6,
		Reconfigurations: 8,
		Uptime:           90 * time.Second,
	}
}

func TestCollector(t *testing.T) {
	c := NewCollector(fakeSource{stats: testStats()})

	// Two level series plus seven scalars
	assert.Equal(t, 9, testutil.CollectAndCount(c))

	expected := `
# HELP dotlogs_events_written_total Events written to the active sinks.
# TYPE dotlogs_events_written_total counter
dotlogs_events_written_total{level="Error"} 3
dotlogs_events_written_total{level="Information"} 5
# HELP dotlogs_events_filtered_total Events dropped by the level threshold.
# TYPE dotlogs_events_filtered_total counter
dotlogs_events_filtered_total 7
# HELP dotlogs_uptime_seconds Seconds since the service started.
# TYPE dotlogs_uptime_seconds gauge
dotlogs_uptime_seconds 90
`
	err := testutil.CollectAndCompare(c, strings.NewReader(expected),
		"dotlogs_events_written_total", "dotlogs_events_filtered_total", "dotlogs_uptime_seconds")
	assert.NoError(t, err)
}

func TestHandler(t *testing.T) {
	h, err := Handler(fakeSource{stats: testStats()})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	assert.Equal(t, 200, rec.Code)
	assert.Contains(t, rec.Body.String(), "dotlogs_rotations_total 2")
	assert.Contains(t, rec.Body.String(), "dotlogs_deleted_files_total 4")
}

func TestCollectorWithService(t *testing.T) {
	svc, err := dotlogs.NewBuilder().
		Directory(t.TempDir()).
		Console(&strings.Builder{}).
		Watch(false).
		Build()
	require.NoError(t, err)
	defer svc.Close()

	svc.Error("boom", dotlogs.CallerAt(0))
	svc.Debug("hidden", dotlogs.CallerAt(0))

	c := NewCollector(svc)
	err = testutil.CollectAndCompare(c, strings.NewReader(`
# HELP dotlogs_events_filtered_total Events dropped by the level threshold.
# TYPE dotlogs_events_filtered_total counter
dotlogs_events_filtered_total 1
`), "dotlogs_events_filtered_total")
	assert.NoError(t, err)
}
