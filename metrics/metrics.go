// Package metrics exports service counters as Prometheus metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/AlexandreIorio/dotlogs"
)

// StatsSource is implemented by *dotlogs.Service
type StatsSource interface {
	Stats() dotlogs.Stats
}

const namespace = "dotlogs"

var (
	descEventsWritten = prometheus.NewDesc(
		prometheus.BuildFQName(namespace, "", "events_written_total"),
		"Events written to the active sinks.",
		[]string{"level"}, nil,
	)
	descEventsFiltered = prometheus.NewDesc(
		prometheus.BuildFQName(namespace, "", "events_filtered_total"),
		"Events dropped by the level threshold.",
		nil, nil,
	)
	descWriteErrors = prometheus.NewDesc(
		prometheus.BuildFQName(namespace, "", "write_errors_total"),
		"Events whose write to a sink failed.",
		nil, nil,
	)
	descRotations = prometheus.NewDesc(
		prometheus.BuildFQName(namespace, "", "rotations_total"),
		"Log file period switches.",
		nil, nil,
	)
	descDeletions = prometheus.NewDesc(
		prometheus.BuildFQName(namespace, "", "deleted_files_total"),
		"Log files removed by retention.",
		nil, nil,
	)
	descReloads = prometheus.NewDesc(
		prometheus.BuildFQName(namespace, "", "reloads_total"),
		"Configuration document reload attempts.",
		nil, nil,
	)
	descReconfigurations = prometheus.NewDesc(
		prometheus.BuildFQName(namespace, "", "reconfigurations_total"),
		"Sink set rebuilds.",
		nil, nil,
	)
	descUptime = prometheus.NewDesc(
		prometheus.BuildFQName(namespace, "", "uptime_seconds"),
		"Seconds since the service started.",
		nil, nil,
	)
)

// Collector reads a fresh snapshot on every scrape
type Collector struct {
	src StatsSource
}

// NewCollector creates a collector over src
func NewCollector(src StatsSource) *Collector {
	return &Collector{src: src}
}

// Describe implements prometheus.Collector
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- descEventsWritten
	ch <- descEventsFiltered
	ch <- descWriteErrors
	ch <- descRotations
	ch <- descDeletions
	ch <- descReloads
	ch <- descReconfigurations
	ch <- descUptime
}

// Collect implements prometheus.Collector
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	st := c.src.Stats()

	for level, n := range st.EventsWritten {
		ch <- prometheus.MustNewConstMetric(descEventsWritten, prometheus.CounterValue, float64(n), level)
	}
	ch <- prometheus.MustNewConstMetric(descEventsFiltered, prometheus.CounterValue, float64(st.EventsFiltered))
	ch <- prometheus.MustNewConstMetric(descWriteErrors, prometheus.CounterValue, float64(st.WriteErrors))
	ch <- prometheus.MustNewConstMetric(descRotations, prometheus.CounterValue, float64(st.TotalRotations))
	ch <- prometheus.MustNewConstMetric(descDeletions, prometheus.CounterValue, float64(st.TotalDeletions))
	ch <- prometheus.MustNewConstMetric(descReloads, prometheus.CounterValue, float64(st.Reloads))
	ch <- prometheus.MustNewConstMetric(descReconfigurations, prometheus.CounterValue, float64(st.Reconfigurations))
	ch <- prometheus.MustNewConstMetric(descUptime, prometheus.GaugeValue, st.Uptime.Seconds())
}

// Handler registers a collector for src on a new registry and returns the
// HTTP handler serving it
func Handler(src StatsSource) (http.Handler, error) {
	reg := prometheus.NewRegistry()
	if err := reg.Register(NewCollector(src)); err != nil {
		return nil, err
	}
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{}), nil
}
