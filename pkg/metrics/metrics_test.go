package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/herlein/gonrf/pkg/nrf24"
	"github.com/herlein/gonrf/pkg/nrf24sim"
	"github.com/herlein/gonrf/pkg/scanner"
)

var (
	_ nrf24.Recorder   = (*Radio)(nil)
	_ scanner.Observer = (*Radio)(nil)
)

func TestRecorder(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg, nil)
	r := m.ForRadio("bench")

	r.ObserveTransmit(nrf24.Success, 3, 30*time.Millisecond)
	r.ObserveTransmit(nrf24.Success, 1, 10*time.Millisecond)
	r.ObserveTransmit(nrf24.TimedOut, 50, 500*time.Millisecond)
	r.ObserveReceive(8)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.transmits.WithLabelValues("bench", "Success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.transmits.WithLabelValues("bench", "TimedOut")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.receivedPayloads.WithLabelValues("bench")))
	assert.Equal(t, 8.0, testutil.ToFloat64(m.receivedBytes.WithLabelValues("bench")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.transmitPolls))

	r.ObserveSweep(40, []int{0, 4, 0}, 10)
	assert.Equal(t, 4.0, testutil.ToFloat64(m.scannerHits.WithLabelValues("bench", "41")))
	assert.Equal(t, 10.0, testutil.ToFloat64(m.scannerSweeps.WithLabelValues("bench")))
}

func TestRecorderWiredToDevice(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg, DefaultConfig())

	chip := nrf24sim.New(nrf24sim.WithPeer(nrf24sim.NeverAck))
	dev, err := nrf24.New(chip, chip.CSN(), chip.CE(), nil, nil,
		nrf24.WithRecorder(m.ForRadio("sim")), nrf24.WithSleep(func(time.Duration) {}))
	require.NoError(t, err)
	require.NoError(t, dev.Init())

	outcome, err := dev.Transmit(make([]byte, 8))
	require.NoError(t, err)
	require.Equal(t, nrf24.Failed, outcome)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.transmits.WithLabelValues("sim", "Failed")))

	families, err := reg.Gather()
	require.NoError(t, err)
	names := map[string]bool{}
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["nrf24_transmit_total"])
	assert.True(t, names["nrf24_transmit_polls"])
}
