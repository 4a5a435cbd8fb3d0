package main

import (
	"io"
	"net"
	"net/http"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/herlein/gonrf/pkg/config"
	"github.com/herlein/gonrf/pkg/nrf24"
	"github.com/herlein/gonrf/pkg/nrf24sim"
	"github.com/herlein/gonrf/pkg/registers"
)

func execute(t *testing.T, args ...string) {
	t.Helper()
	rootCmd.SetArgs(args)
	require.NoError(t, rootCmd.Execute())
}

func TestBuildPayload(t *testing.T) {
	sendHex, sendData = "", ""
	p, err := buildPayload(8)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3, 4, 5, 6, 7, 8}, p)

	sendHex = "dead"
	p, err = buildPayload(4)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xDE, 0xAD, 0, 0}, p)

	sendHex = "zz"
	_, err = buildPayload(4)
	assert.Error(t, err)

	sendHex, sendData = "", "too long"
	_, err = buildPayload(4)
	assert.ErrorIs(t, err, nrf24.ErrPayloadSize)
	sendData = ""
}

func TestParsePeer(t *testing.T) {
	p, err := parsePeer("never-ack")
	require.NoError(t, err)
	assert.Equal(t, nrf24sim.NeverAck, p)

	_, err = parsePeer("nobody")
	assert.Error(t, err)
}

func TestStartMetrics(t *testing.T) {
	defer func() { rootMetrics = "" }()

	rootMetrics = ""
	m, err := startMetrics(nil)
	require.NoError(t, err)
	assert.Nil(t, m)

	busy, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer busy.Close()
	rootMetrics = busy.Addr().String()
	_, err = startMetrics(nil)
	assert.Error(t, err)

	free, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	rootMetrics = free.Addr().String()
	require.NoError(t, free.Close())
	m, err = startMetrics(nil)
	require.NoError(t, err)
	m.ForRadio("bench").ObserveReceive(4)

	resp, err := http.Get("http://" + rootMetrics + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "nrf24_receive_bytes_total")
}

func TestSendOnSim(t *testing.T) {
	execute(t, "send", "--backend", "sim", "--repeat", "2", "--interval", "1ms")
}

func TestScanOnSim(t *testing.T) {
	execute(t, "scan", "--backend", "sim", "--first", "70", "--last", "80", "--sweeps", "2", "--hits", "1", "--sim-busy", "76")
}

func TestDumpSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dump.json")
	execute(t, "dump", "--backend", "sim", "--channel", "42", "--save", path)

	dump, err := config.LoadDump(path)
	require.NoError(t, err)
	assert.Equal(t, "nrf24", dump.Radio)
	assert.Equal(t, uint8(42), dump.Registers.RF_CH)
	assert.Equal(t, uint8(registers.EnCRC|registers.CRCO|registers.PwrUp|registers.PrimRx), dump.Registers.CONFIG)

	execute(t, "dump", "--load", path)
	dumpLoad, dumpSave = "", ""
}

func TestProfilesExportAndUse(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fast.hcl")
	execute(t, "profiles", "export", "fast-ch76", path)

	file, err := config.ReadFile(path)
	require.NoError(t, err)
	r, err := file.Find("fast-ch76")
	require.NoError(t, err)
	c, err := r.Config()
	require.NoError(t, err)
	assert.Equal(t, 76, c.Channel)
	assert.Equal(t, registers.DataRate2Mbps, c.DataRate)

	execute(t, "send", "--config", path, "--backend", "sim", "--repeat", "1")
	rootConfig = ""
}
