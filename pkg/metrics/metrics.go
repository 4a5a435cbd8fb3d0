// Package metrics exports radio activity as Prometheus collectors.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/herlein/gonrf/pkg/nrf24"
)

type MetricsConfig struct {
	Namespace   string
	SubTransmit string
	SubReceive  string
	SubScanner  string
}

func DefaultConfig() *MetricsConfig {
	return &MetricsConfig{
		Namespace:   "nrf24",
		SubTransmit: "transmit",
		SubReceive:  "receive",
		SubScanner:  "scanner",
	}
}

// Metrics owns the collectors for every radio in the process
type Metrics struct {
	transmits     *prometheus.CounterVec
	transmitPolls *prometheus.HistogramVec
	transmitTime  *prometheus.HistogramVec

	receivedPayloads *prometheus.CounterVec
	receivedBytes    *prometheus.CounterVec

	scannerHits   *prometheus.GaugeVec
	scannerSweeps *prometheus.CounterVec
}

// New creates the collectors and registers them with reg
func New(reg prometheus.Registerer, config *MetricsConfig) *Metrics {
	if config == nil {
		config = DefaultConfig()
	}
	m := &Metrics{
		transmits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: config.Namespace, Subsystem: config.SubTransmit, Name: "total", Help: "Transmissions by outcome"}, []string{"radio", "outcome"}),
		transmitPolls: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: config.Namespace, Subsystem: config.SubTransmit, Name: "polls", Help: "STATUS polls per transmission",
			Buckets: []float64{1, 2, 5, 10, 20, 50}}, []string{"radio"}),
		transmitTime: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: config.Namespace, Subsystem: config.SubTransmit, Name: "seconds", Help: "Time from flush to outcome",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 10)}, []string{"radio"}),

		receivedPayloads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: config.Namespace, Subsystem: config.SubReceive, Name: "payloads_total", Help: "Payloads drained from the RX FIFO"}, []string{"radio"}),
		receivedBytes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: config.Namespace, Subsystem: config.SubReceive, Name: "bytes_total", Help: "Payload bytes received"}, []string{"radio"}),

		scannerHits: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: config.Namespace, Subsystem: config.SubScanner, Name: "channel_hits", Help: "Carrier detections per channel in the last scan"}, []string{"radio", "channel"}),
		scannerSweeps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: config.Namespace, Subsystem: config.SubScanner, Name: "sweeps_total", Help: "Completed channel sweeps"}, []string{"radio"}),
	}

	reg.MustRegister(
		m.transmits, m.transmitPolls, m.transmitTime,
		m.receivedPayloads, m.receivedBytes,
		m.scannerHits, m.scannerSweeps,
	)
	return m
}

// Radio binds the collectors to one radio's label
type Radio struct {
	m    *Metrics
	name string
}

// ForRadio returns a recorder labelled with name
func (m *Metrics) ForRadio(name string) *Radio {
	return &Radio{m: m, name: name}
}

// ObserveTransmit implements nrf24.Recorder
func (r *Radio) ObserveTransmit(outcome nrf24.Outcome, polls int, elapsed time.Duration) {
	r.m.transmits.WithLabelValues(r.name, outcome.String()).Inc()
	r.m.transmitPolls.WithLabelValues(r.name).Observe(float64(polls))
	r.m.transmitTime.WithLabelValues(r.name).Observe(elapsed.Seconds())
}

// ObserveReceive implements nrf24.Recorder
func (r *Radio) ObserveReceive(n int) {
	r.m.receivedPayloads.WithLabelValues(r.name).Inc()
	r.m.receivedBytes.WithLabelValues(r.name).Add(float64(n))
}

// ObserveSweep records the hit counts of one completed scan
func (r *Radio) ObserveSweep(first int, hits []int, sweeps int) {
	for i, n := range hits {
		r.m.scannerHits.WithLabelValues(r.name, strconv.Itoa(first+i)).Set(float64(n))
	}
	r.m.scannerSweeps.WithLabelValues(r.name).Add(float64(sweeps))
}
