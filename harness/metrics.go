package harness

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics counts check outcomes of one run in a private registry.
type Metrics struct {
	registry *prometheus.Registry
	textfile string

	ChecksTotal *prometheus.CounterVec
	DeviceInfo  *prometheus.GaugeVec
}

// NewMetrics creates the run's metrics. When textfile is non-empty Flush
// writes them there in the text exposition format.
func NewMetrics(textfile string) *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	return &Metrics{
		registry: reg,
		textfile: textfile,
		ChecksTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "hipmath_checks_total",
			Help: "The total number of device math checks by outcome",
		}, []string{"check", "result"}),
		DeviceInfo: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "hipmath_device_info",
			Help: "Device the checks ran on",
		}, []string{"name", "features"}),
	}
}

// ObserveCheck records the outcome of one check.
func (m *Metrics) ObserveCheck(name string, ok bool) {
	result := "passed"
	if !ok {
		result = "failed"
	}
	m.ChecksTotal.WithLabelValues(name, result).Inc()
}

// Registry returns the registry the metrics are registered with.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Flush writes the metrics to the configured textfile, if any.
func (m *Metrics) Flush() error {
	if m.textfile == "" {
		return nil
	}
	return prometheus.WriteToTextfile(m.textfile, m.registry)
}
