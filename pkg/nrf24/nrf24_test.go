package nrf24_test

import (
	"bytes"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/loopholelabs/logging"
	"github.com/loopholelabs/logging/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/herlein/gonrf/pkg/nrf24"
	"github.com/herlein/gonrf/pkg/nrf24sim"
	"github.com/herlein/gonrf/pkg/registers"
)

type clock struct {
	mu      sync.Mutex
	elapsed time.Duration
	polls   int
}

func (c *clock) sleep(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.elapsed += d
	if d >= nrf24.DefaultPollInterval {
		c.polls++
	}
}

type transmitRecord struct {
	outcome nrf24.Outcome
	polls   int
}

type recorder struct {
	mu       sync.Mutex
	tx       []transmitRecord
	received int
}

func (r *recorder) ObserveTransmit(o nrf24.Outcome, polls int, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tx = append(r.tx, transmitRecord{o, polls})
}

func (r *recorder) ObserveReceive(n int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.received += n
}

func setupDevice(t *testing.T, chip *nrf24sim.Chip, opts ...nrf24.Option) (*nrf24.Device, *clock, *recorder) {
	clk := &clock{}
	rec := &recorder{}
	opts = append([]nrf24.Option{nrf24.WithSleep(clk.sleep), nrf24.WithRecorder(rec)}, opts...)
	dev, err := nrf24.New(chip, chip.CSN(), chip.CE(), nil, nil, opts...)
	require.NoError(t, err)
	require.NoError(t, dev.Init())
	return dev, clk, rec
}

var testPayload = []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08}

func assertCleanedUp(t *testing.T, chip *nrf24sim.Chip, dev *nrf24.Device) {
	t.Helper()
	assert.False(t, chip.Enabled(), "CE left high")
	assert.False(t, chip.Selected(), "CSN left asserted")
	cfg := registers.Config(chip.Register(registers.RegCONFIG))
	assert.NotZero(t, cfg&registers.PrimRx, "receive mode not restored")
	assert.Equal(t, cfg, dev.ConfigShadow())
}

func TestNewValidates(t *testing.T) {
	chip := nrf24sim.New()

	_, err := nrf24.New(nil, chip.CSN(), chip.CE(), nil, nil)
	assert.ErrorIs(t, err, nrf24.ErrMissingPin)

	cfg := nrf24.DefaultConfig()
	cfg.Channel = 126
	_, err = nrf24.New(chip, chip.CSN(), chip.CE(), nil, cfg)
	assert.ErrorIs(t, err, nrf24.ErrInvalidConfig)

	cfg = nrf24.DefaultConfig()
	cfg.RxAddress = nrf24.Address{1, 2, 3, 4, 5}
	_, err = nrf24.New(chip, chip.CSN(), chip.CE(), nil, cfg)
	assert.ErrorIs(t, err, nrf24.ErrAddressMismatch)

	cfg = nrf24.DefaultConfig()
	cfg.SettleDelay = 0
	_, err = nrf24.New(chip, chip.CSN(), chip.CE(), nil, cfg)
	assert.ErrorIs(t, err, nrf24.ErrInvalidConfig)

	cfg = nrf24.DefaultConfig()
	cfg.RxAddress = nrf24.Address{1, 2, 3, 4, 5}
	// Without auto-ack the addresses may differ
	cfg.AutoAck = false
	_, err = nrf24.New(chip, chip.CSN(), chip.CE(), nil, cfg)
	assert.NoError(t, err)
}

func TestInit(t *testing.T) {
	chip := nrf24sim.New()
	dev, _, _ := setupDevice(t, chip)

	assert.Equal(t, byte(0x01), chip.Register(registers.RegEN_AA))
	assert.Equal(t, byte(0x3F), chip.Register(registers.RegSETUP_RETR))
	assert.Equal(t, byte(0x01), chip.Register(registers.RegEN_RXADDR))
	assert.Equal(t, byte(0x03), chip.Register(registers.RegSETUP_AW))
	assert.Equal(t, byte(3), chip.Register(registers.RegRF_CH))
	assert.Equal(t, byte(0x06), chip.Register(registers.RegRF_SETUP))
	assert.Equal(t, byte(8), chip.Register(registers.RegRX_PW_P0))
	assert.Equal(t, [5]byte(nrf24.DefaultAddress), chip.Address(registers.RegRX_ADDR_P0))
	assert.Equal(t, byte(0x0F), chip.Register(registers.RegCONFIG))
	assert.Equal(t, registers.Config(0x0F), dev.ConfigShadow())
	assert.Zero(t, chip.Register(registers.RegSTATUS)&byte(registers.IRQFlags))

	assert.False(t, chip.Enabled())
	assert.False(t, chip.Selected())

	// Re-running leaves the same state
	require.NoError(t, dev.Init())
	assert.Equal(t, byte(0x0F), chip.Register(registers.RegCONFIG))
}

func TestInitOneByteCRC(t *testing.T) {
	chip := nrf24sim.New()
	cfg := nrf24.DefaultConfig()
	cfg.CRC2Bytes = false
	cfg.AutoAck = false
	dev, err := nrf24.New(chip, chip.CSN(), chip.CE(), nil, cfg, nrf24.WithSleep(func(time.Duration) {}))
	require.NoError(t, err)
	require.NoError(t, dev.Init())

	assert.Equal(t, registers.EnCRC|registers.PwrUp|registers.PrimRx, dev.ConfigShadow())
	assert.Zero(t, chip.Register(registers.RegEN_AA))
}

func TestRegisterRoundTrip(t *testing.T) {
	chip := nrf24sim.New()
	dev, _, _ := setupDevice(t, chip)

	values := map[registers.Register]byte{
		registers.RegCONFIG:     0x0B,
		registers.RegEN_AA:      0x3F,
		registers.RegEN_RXADDR:  0x02,
		registers.RegSETUP_AW:   0x01,
		registers.RegSETUP_RETR: 0x5A,
		registers.RegRF_CH:      76,
		registers.RegRF_SETUP:   0x26,
		registers.RegRX_PW_P0:   32,
	}
	for reg, v := range values {
		require.NoError(t, dev.WriteRegister(reg, v), reg.String())
		got, err := dev.ReadRegister(reg)
		require.NoError(t, err)
		assert.Equal(t, v, got, reg.String())
	}
	assert.Equal(t, registers.Config(0x0B), dev.ConfigShadow())
	assert.False(t, chip.Selected())
}

// timeline records bus traffic and sleeps in the order they happen
type timeline struct {
	*nrf24sim.Chip
	events []string
}

func (tl *timeline) ExchangeByte(out byte) (byte, error) {
	tl.events = append(tl.events, fmt.Sprintf("byte %02x", out))
	return tl.Chip.ExchangeByte(out)
}

func (tl *timeline) Exchange(out, in []byte) error {
	tl.events = append(tl.events, fmt.Sprintf("exchange %d", len(out)))
	return tl.Chip.Exchange(out, in)
}

func (tl *timeline) sleep(d time.Duration) {
	tl.events = append(tl.events, "sleep "+d.String())
}

func TestSettleDelayBetweenCommandAndData(t *testing.T) {
	chip := nrf24sim.New()
	tl := &timeline{Chip: chip}
	dev, err := nrf24.New(tl, chip.CSN(), chip.CE(), nil, nil, nrf24.WithSleep(tl.sleep))
	require.NoError(t, err)
	settle := "sleep " + nrf24.DefaultSettleDelay.String()

	_, err = dev.ReadRegister(registers.RegRF_CH)
	require.NoError(t, err)
	assert.Equal(t, []string{
		fmt.Sprintf("byte %02x", registers.ReadCommand(registers.RegRF_CH)),
		settle,
		"byte ff",
	}, tl.events)

	tl.events = nil
	require.NoError(t, dev.WriteRegisterMulti(registers.RegTX_ADDR, []byte{1, 2, 3, 4, 5}))
	assert.Equal(t, []string{
		fmt.Sprintf("byte %02x", registers.WriteCommand(registers.RegTX_ADDR)),
		settle,
		"exchange 5",
	}, tl.events)
}

func TestAddressRoundTrip(t *testing.T) {
	chip := nrf24sim.New()
	dev, _, _ := setupDevice(t, chip)

	addr := []byte{0xAA, 0xBB, 0xCC, 0xDD, 0xEE}
	require.NoError(t, dev.WriteRegisterMulti(registers.RegTX_ADDR, addr))

	got := make([]byte, 5)
	require.NoError(t, dev.ReadRegisterMulti(registers.RegTX_ADDR, got))
	assert.Equal(t, addr, got)

	// The caller's buffer is not clobbered by the bytes clocked in
	assert.Equal(t, []byte{0xAA, 0xBB, 0xCC, 0xDD, 0xEE}, addr)
}

func TestOversizedTransfer(t *testing.T) {
	chip := nrf24sim.New()
	dev, _, _ := setupDevice(t, chip)

	err := dev.WriteRegisterMulti(registers.RegTX_ADDR, make([]byte, 33))
	assert.ErrorIs(t, err, nrf24.ErrPayloadSize)
}

func TestClearStatusWriteOneToClear(t *testing.T) {
	chip := nrf24sim.New()
	dev, _, _ := setupDevice(t, chip)

	require.NoError(t, dev.StartListening())
	require.True(t, chip.Inject([]byte{0x42}))

	status, err := dev.Status()
	require.NoError(t, err)
	require.NotZero(t, status&registers.RxDR)

	// Writing 0 leaves the flag alone
	require.NoError(t, dev.WriteRegister(registers.RegSTATUS, 0))
	require.NoError(t, dev.ClearStatus(registers.TxDS|registers.MaxRT))
	status, err = dev.Status()
	require.NoError(t, err)
	assert.NotZero(t, status&registers.RxDR)

	require.NoError(t, dev.ClearStatus(registers.RxDR))
	status, err = dev.Status()
	require.NoError(t, err)
	assert.Zero(t, status&registers.RxDR)
}

func TestCommandFlush(t *testing.T) {
	chip := nrf24sim.New()
	dev, _, _ := setupDevice(t, chip)

	require.NoError(t, dev.StartListening())
	require.True(t, chip.Inject(testPayload))
	require.Equal(t, 1, chip.PendingRX())

	status, err := dev.Command(registers.CmdFlushRX)
	require.NoError(t, err)
	// STATUS is clocked out before the flush takes effect
	assert.Equal(t, 0, status.RxPipe())
	assert.Equal(t, 0, chip.PendingRX())
}

func TestTransmitSuccess(t *testing.T) {
	chip := nrf24sim.New(nrf24sim.WithPeer(nrf24sim.Ack), nrf24sim.WithCompletionDelay(2))
	dev, clk, rec := setupDevice(t, chip)

	outcome, err := dev.Transmit(testPayload)
	require.NoError(t, err)
	assert.Equal(t, nrf24.Success, outcome)
	assert.Equal(t, [][]byte{testPayload}, chip.Sent())
	assert.Equal(t, 2, clk.polls)
	require.Len(t, rec.tx, 1)
	assert.Equal(t, transmitRecord{nrf24.Success, 3}, rec.tx[0])

	assert.Zero(t, chip.Register(registers.RegSTATUS)&byte(registers.IRQFlags))
	assert.Equal(t, [5]byte{0xE7, 0xE7, 0xE7, 0xE7, 0xE7}, chip.Address(registers.RegTX_ADDR))
	assertCleanedUp(t, chip, dev)

	// CE went high exactly once for the send and was dropped afterwards
	history := chip.CEHistory()
	assert.Equal(t, []bool{false, true, false}, history)
}

func TestTransmitFailedNeverEarly(t *testing.T) {
	for _, delay := range []int{0, 1, 5, 20} {
		chip := nrf24sim.New(nrf24sim.WithPeer(nrf24sim.NeverAck), nrf24sim.WithCompletionDelay(delay))
		dev, clk, rec := setupDevice(t, chip)

		outcome, err := dev.Transmit(testPayload)
		require.NoError(t, err)
		assert.Equal(t, nrf24.Failed, outcome)
		// One poll per STATUS read that saw nothing, then the one that saw MAX_RT
		assert.Equal(t, delay, clk.polls)
		assert.Equal(t, delay+1, rec.tx[0].polls)

		assert.Zero(t, chip.Register(registers.RegSTATUS)&byte(registers.MaxRT))
		_, arc := (&registers.RegisterMap{OBSERVE_TX: chip.Register(registers.RegOBSERVE_TX)}).ObserveTx()
		assert.Equal(t, 15, arc)
		assertCleanedUp(t, chip, dev)
	}
}

func TestTransmitTimedOut(t *testing.T) {
	chip := nrf24sim.New(nrf24sim.WithPeer(nrf24sim.Silent))
	dev, clk, rec := setupDevice(t, chip)

	outcome, err := dev.Transmit(testPayload)
	require.NoError(t, err)
	assert.Equal(t, nrf24.TimedOut, outcome)
	// No sleep follows the last STATUS read
	assert.Equal(t, 49, clk.polls)
	assert.Less(t, clk.elapsed, nrf24.DefaultTxTimeout)
	assert.Equal(t, 50, rec.tx[0].polls)
	assert.Equal(t, 50, chip.StatusReads())
	assertCleanedUp(t, chip, dev)
}

func TestTransmitCustomBudget(t *testing.T) {
	chip := nrf24sim.New(nrf24sim.WithPeer(nrf24sim.Silent))
	cfg := nrf24.DefaultConfig()
	cfg.PollInterval = 5 * time.Millisecond
	cfg.TxTimeout = 23 * time.Millisecond

	clk := &clock{}
	dev, err := nrf24.New(chip, chip.CSN(), chip.CE(), nil, cfg, nrf24.WithSleep(clk.sleep))
	require.NoError(t, err)
	require.NoError(t, dev.Init())

	outcome, err := dev.Transmit(testPayload)
	require.NoError(t, err)
	assert.Equal(t, nrf24.TimedOut, outcome)
	// 23, 18, 13, 8, 3 ms remaining when polled
	assert.Equal(t, 5, chip.StatusReads())
}

func TestTransmitBusFaultCleansUp(t *testing.T) {
	errBus := errors.New("bus fault")
	chip := nrf24sim.New(nrf24sim.WithPeer(nrf24sim.Silent))
	dev, _, rec := setupDevice(t, chip)

	chip.SetFault(byte(registers.CmdNOP), errBus)
	outcome, err := dev.Transmit(testPayload)
	assert.ErrorIs(t, err, errBus)
	assert.Zero(t, outcome)
	assert.Empty(t, rec.tx)
	assertCleanedUp(t, chip, dev)

	chip.SetFault(byte(registers.CmdNOP), nil)
	chip.SetPeer(nrf24sim.Ack)
	outcome, err = dev.Transmit(testPayload)
	require.NoError(t, err)
	assert.Equal(t, nrf24.Success, outcome)
}

func TestTransmitFaultBeforeCE(t *testing.T) {
	errBus := errors.New("bus fault")
	chip := nrf24sim.New()
	dev, _, _ := setupDevice(t, chip)

	chip.SetFault(byte(registers.CmdWritePayload), errBus)
	_, err := dev.Transmit(testPayload)
	assert.ErrorIs(t, err, errBus)
	assert.False(t, chip.Selected())
	assert.Equal(t, []bool{false}, chip.CEHistory())
	assert.Empty(t, chip.Sent())
}

func TestTransmitRejects(t *testing.T) {
	chip := nrf24sim.New()
	dev, err := nrf24.New(chip, chip.CSN(), chip.CE(), nil, nil)
	require.NoError(t, err)

	_, err = dev.Transmit(testPayload)
	assert.ErrorIs(t, err, nrf24.ErrNotInitialized)

	require.NoError(t, dev.Init())
	_, err = dev.Transmit(testPayload[:5])
	assert.ErrorIs(t, err, nrf24.ErrPayloadSize)
}

func TestTransmitWithoutAutoAck(t *testing.T) {
	chip := nrf24sim.New(nrf24sim.WithPeer(nrf24sim.NeverAck))
	cfg := nrf24.DefaultConfig()
	cfg.AutoAck = false
	dev, err := nrf24.New(chip, chip.CSN(), chip.CE(), nil, cfg, nrf24.WithSleep(func(time.Duration) {}))
	require.NoError(t, err)
	require.NoError(t, dev.Init())

	outcome, err := dev.Transmit(testPayload)
	require.NoError(t, err)
	assert.Equal(t, nrf24.Success, outcome)
	assert.Zero(t, chip.Register(registers.RegEN_AA))
}

func TestRetryLimitReached(t *testing.T) {
	chip := nrf24sim.New(nrf24sim.WithPeer(nrf24sim.NeverAck))
	dev, _, _ := setupDevice(t, chip)

	reached, err := dev.RetryLimitReached()
	require.NoError(t, err)
	assert.False(t, reached)

	_, err = dev.Transmit(testPayload)
	require.NoError(t, err)
	// Transmit clears MAX_RT before returning
	reached, err = dev.RetryLimitReached()
	require.NoError(t, err)
	assert.False(t, reached)
}

func TestReceive(t *testing.T) {
	chip := nrf24sim.New()
	dev, _, rec := setupDevice(t, chip)

	ready, err := dev.DataReady()
	require.NoError(t, err)
	assert.False(t, ready)

	require.NoError(t, dev.StartListening())
	require.True(t, chip.Inject([]byte{0x01, 0x02, 0x03, 0x04, 0x05}))

	ready, err = dev.DataReady()
	require.NoError(t, err)
	require.True(t, ready)

	buf := make([]byte, 8)
	require.NoError(t, dev.Receive(buf))
	assert.Equal(t, []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x00, 0x00, 0x00}, buf)

	ready, err = dev.DataReady()
	require.NoError(t, err)
	assert.False(t, ready)
	assert.Zero(t, chip.Register(registers.RegSTATUS)&byte(registers.RxDR))
	assert.Equal(t, 0, chip.PendingRX())
	assert.Equal(t, 0, chip.PendingTX())
	assert.Equal(t, 8, rec.received)

	require.NoError(t, dev.StopListening())
	assert.False(t, chip.Enabled())
}

func TestReceiveRejects(t *testing.T) {
	chip := nrf24sim.New()
	dev, err := nrf24.New(chip, chip.CSN(), chip.CE(), nil, nil)
	require.NoError(t, err)

	assert.ErrorIs(t, dev.Receive(make([]byte, 8)), nrf24.ErrNotInitialized)
	assert.ErrorIs(t, dev.StartListening(), nrf24.ErrNotInitialized)

	require.NoError(t, dev.Init())
	assert.ErrorIs(t, dev.Receive(make([]byte, 4)), nrf24.ErrPayloadSize)
}

func TestDataReadyFromIRQ(t *testing.T) {
	chip := nrf24sim.New()
	dev, err := nrf24.New(chip, chip.CSN(), chip.CE(), chip.IRQ(), nil, nrf24.WithSleep(func(time.Duration) {}))
	require.NoError(t, err)
	require.NoError(t, dev.Init())
	require.NoError(t, dev.StartListening())

	ready, err := dev.DataReady()
	require.NoError(t, err)
	assert.False(t, ready)

	require.True(t, chip.Inject(testPayload))
	ready, err = dev.DataReady()
	require.NoError(t, err)
	assert.True(t, ready)

	buf := make([]byte, 8)
	require.NoError(t, dev.Receive(buf))
	assert.Equal(t, testPayload, buf)

	ready, err = dev.DataReady()
	require.NoError(t, err)
	assert.False(t, ready)
}

func TestTransmitAfterListening(t *testing.T) {
	chip := nrf24sim.New()
	dev, _, _ := setupDevice(t, chip)

	require.NoError(t, dev.StartListening())
	require.True(t, chip.Inject(testPayload))

	// A send flushes the unread RX payload
	outcome, err := dev.Transmit(testPayload)
	require.NoError(t, err)
	assert.Equal(t, nrf24.Success, outcome)
	assert.Equal(t, 0, chip.PendingRX())
	assertCleanedUp(t, chip, dev)
}

func TestSnapshot(t *testing.T) {
	chip := nrf24sim.New()
	dev, _, _ := setupDevice(t, chip)

	require.NoError(t, dev.WriteRegisterMulti(registers.RegTX_ADDR, []byte{0xAA, 0xBB, 0xCC, 0xDD, 0xEE}))
	m, err := dev.Snapshot()
	require.NoError(t, err)

	assert.Equal(t, uint8(0x0F), m.CONFIG)
	assert.Equal(t, uint8(3), m.RF_CH)
	assert.Equal(t, uint8(8), m.RX_PW_P0)
	assert.Equal(t, [5]uint8{0xAA, 0xBB, 0xCC, 0xDD, 0xEE}, m.TX_ADDR)
	assert.Equal(t, [5]uint8{0xE7, 0xE7, 0xE7, 0xE7, 0xE7}, m.RX_ADDR_P0)
	assert.Equal(t, [5]uint8{0xC2, 0xC2, 0xC2, 0xC2, 0xC2}, m.RX_ADDR_P1)
	assert.Equal(t, registers.RxEmpty|registers.TxEmpty, registers.FIFOStatus(m.FIFO))
}

func TestSetChannelAndCarrier(t *testing.T) {
	chip := nrf24sim.New()
	dev, _, _ := setupDevice(t, chip)
	chip.SetCarrier(40, true)

	assert.ErrorIs(t, dev.SetChannel(200), nrf24.ErrInvalidConfig)

	require.NoError(t, dev.StartListening())
	require.NoError(t, dev.SetChannel(39))
	cd, err := dev.CarrierDetected()
	require.NoError(t, err)
	assert.False(t, cd)

	require.NoError(t, dev.SetChannel(40))
	cd, err = dev.CarrierDetected()
	require.NoError(t, err)
	assert.True(t, cd)
	assert.Equal(t, 40, dev.Config().Channel)
}

func TestClose(t *testing.T) {
	chip := nrf24sim.New()
	dev, _, _ := setupDevice(t, chip)
	require.NoError(t, dev.StartListening())

	require.NoError(t, dev.Close())
	assert.False(t, chip.Enabled())
	assert.Zero(t, chip.Register(registers.RegCONFIG)&byte(registers.PwrUp))

	_, err := dev.Transmit(testPayload)
	assert.ErrorIs(t, err, nrf24.ErrNotInitialized)
}

func TestConcurrentTransmits(t *testing.T) {
	chip := nrf24sim.New(nrf24sim.WithCompletionDelay(1))
	dev, _, rec := setupDevice(t, chip)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			p := make([]byte, 8)
			p[0] = byte(i)
			outcome, err := dev.Transmit(p)
			assert.NoError(t, err)
			assert.Equal(t, nrf24.Success, outcome)
		}(i)
	}
	wg.Wait()

	assert.Len(t, chip.Sent(), 8)
	assert.Len(t, rec.tx, 8)
	assertCleanedUp(t, chip, dev)
}

func TestTraceLogging(t *testing.T) {
	var out bytes.Buffer
	log := logging.New(logging.Zerolog, "nrf24", &out)
	log.SetLevel(types.TraceLevel)

	chip := nrf24sim.New(nrf24sim.WithPeer(nrf24sim.NeverAck), nrf24sim.WithLogger(log))
	dev, _, _ := setupDevice(t, chip, nrf24.WithLogger(log), nrf24.WithName("test"))

	outcome, err := dev.Transmit(testPayload)
	require.NoError(t, err)
	assert.Equal(t, nrf24.Failed, outcome)
	assert.Contains(t, dev.String(), "test ch=3")

	require.NoError(t, dev.StartListening())
	require.True(t, chip.Inject([]byte{0xCA, 0xFE}))
	require.NoError(t, dev.Receive(make([]byte, 8)))

	logged := out.String()
	assert.Contains(t, logged, "spi frame")
	assert.Contains(t, logged, "sim tx")
	assert.Contains(t, logged, "sim rx")
	assert.Contains(t, logged, "payload received")
	assert.Contains(t, logged, "0102030405060708")
	assert.Contains(t, logged, "cafe000000000000")
}

func TestOutcomeString(t *testing.T) {
	assert.Equal(t, "Success", nrf24.Success.String())
	assert.Equal(t, "Failed", nrf24.Failed.String())
	assert.Equal(t, "TimedOut", nrf24.TimedOut.String())
	assert.Equal(t, "Unknown", nrf24.Outcome(0).String())
	assert.Equal(t, "AddressingAndLoading", nrf24.StateAddressingAndLoading.String())
}
