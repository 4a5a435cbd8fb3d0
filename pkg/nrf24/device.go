// Package nrf24 drives an nRF24L01(+) 2.4 GHz transceiver over SPI with
// separate CSN, CE and (optional) IRQ lines.
//
// A Device owns the bus and both control lines for its lifetime. All
// operations run to completion under the device lock, so calls from
// different goroutines are serialized.
package nrf24

import (
	"fmt"
	"sync"
	"time"

	"github.com/loopholelabs/logging/types"

	"github.com/herlein/gonrf/pkg/registers"
)

// Recorder receives per-operation observations (see pkg/metrics)
type Recorder interface {
	ObserveTransmit(outcome Outcome, polls int, elapsed time.Duration)
	ObserveReceive(n int)
}

// Device represents an nRF24L01(+) attached to a Bus
type Device struct {
	mu sync.Mutex

	bus Bus
	csn OutputPin
	ce  OutputPin
	irq InputPin // nil: data-ready is taken from STATUS

	config Config

	// shadow mirrors the last CONFIG value successfully written to the chip
	shadow      registers.Config
	initialized bool

	nops    [registers.MaxPayload]byte
	scratch [registers.MaxPayload]byte

	log      types.Logger
	recorder Recorder
	sleep    func(time.Duration)
	name     string
}

// Option configures optional Device collaborators
type Option func(*Device)

// WithLogger attaches a structured logger
func WithLogger(log types.Logger) Option {
	return func(d *Device) { d.log = log }
}

// WithRecorder attaches a metrics recorder
func WithRecorder(r Recorder) Option {
	return func(d *Device) { d.recorder = r }
}

// WithSleep replaces time.Sleep for settle delays and transmit polling
func WithSleep(sleep func(time.Duration)) Option {
	return func(d *Device) { d.sleep = sleep }
}

// WithName labels log lines and metrics for this radio
func WithName(name string) Option {
	return func(d *Device) { d.name = name }
}

// New wraps a bus and control lines. irq may be nil. The chip is not
// touched until Init.
func New(bus Bus, csn, ce OutputPin, irq InputPin, config *Config, opts ...Option) (*Device, error) {
	if bus == nil || csn == nil || ce == nil {
		return nil, ErrMissingPin
	}
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	d := &Device{
		bus:    bus,
		csn:    csn,
		ce:     ce,
		irq:    irq,
		config: *config,
		sleep:  time.Sleep,
		name:   "nrf24",
	}
	for i := range d.nops {
		d.nops[i] = byte(registers.CmdNOP)
	}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

// Config returns a copy of the session configuration
func (d *Device) Config() Config {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.config
}

// ConfigShadow returns the mirror of the CONFIG register
func (d *Device) ConfigShadow() registers.Config {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.shadow
}

// String returns a human-readable description of the radio session
func (d *Device) String() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return fmt.Sprintf("%s ch=%d %s tx=%s payload=%d",
		d.name, d.config.Channel, d.config.RFSetup(), d.config.TxAddress, d.config.PayloadSize)
}

// Init programs the session configuration and powers the radio up in
// receive mode. The writes are issued in a fixed order; later registers
// rely on earlier ones having settled.
func (d *Device) Init() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	c := &d.config
	d.initialized = false

	if err := d.ce.Set(false); err != nil {
		return fmt.Errorf("failed to set CE low: %w", err)
	}
	if err := d.csn.Set(true); err != nil {
		return fmt.Errorf("failed to set CSN high: %w", err)
	}

	aa := byte(0)
	if c.AutoAck {
		aa = byte(registers.P0)
	}
	steps := []struct {
		reg   registers.Register
		value byte
	}{
		{registers.RegEN_AA, aa},
		{registers.RegSETUP_RETR, byte(c.SetupRetr())},
		{registers.RegEN_RXADDR, byte(registers.P0)},
		{registers.RegSETUP_AW, registers.SetupAW5Bytes},
		{registers.RegRF_CH, byte(c.Channel)},
		{registers.RegRF_SETUP, byte(c.RFSetup())},
	}
	for _, step := range steps {
		if err := d.writeRegister(step.reg, step.value); err != nil {
			return fmt.Errorf("failed to set %s: %w", step.reg, err)
		}
	}

	if err := d.writeRegisterMulti(registers.RegRX_ADDR_P0, c.RxAddress[:]); err != nil {
		return fmt.Errorf("failed to set RX_ADDR_P0: %w", err)
	}
	if err := d.writeRegister(registers.RegRX_PW_P0, byte(c.PayloadSize)); err != nil {
		return fmt.Errorf("failed to set RX_PW_P0: %w", err)
	}

	for _, flag := range []registers.Status{registers.RxDR, registers.TxDS, registers.MaxRT} {
		if err := d.clearStatus(flag); err != nil {
			return fmt.Errorf("failed to clear %s: %w", flag, err)
		}
	}

	if err := d.setConfig(c.BaseConfig() | registers.PwrUp); err != nil {
		return fmt.Errorf("failed to power up: %w", err)
	}

	d.initialized = true
	if d.log != nil {
		d.log.Debug().
			Str("radio", d.name).
			Int("channel", c.Channel).
			Str("rf_setup", c.RFSetup().String()).
			Str("setup_retr", c.SetupRetr().String()).
			Int("payload", c.PayloadSize).
			Str("config", d.shadow.String()).
			Msg("radio initialized")
	}
	return nil
}

// Close drops CE and powers the radio down
func (d *Device) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	err := d.ce.Set(false)
	if d.initialized {
		if perr := d.setConfig(d.shadow &^ registers.PwrUp); perr != nil && err == nil {
			err = perr
		}
		d.initialized = false
	}
	if err != nil {
		return fmt.Errorf("failed to power down: %w", err)
	}
	return nil
}

// setConfig writes CONFIG and updates the shadow only once the write went out
func (d *Device) setConfig(cfg registers.Config) error {
	if err := d.writeRegister(registers.RegCONFIG, byte(cfg)); err != nil {
		return err
	}
	d.shadow = cfg
	return nil
}

// Snapshot reads back every configured register
func (d *Device) Snapshot() (*registers.RegisterMap, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	m := &registers.RegisterMap{}
	for _, reg := range registers.ByteRegisters {
		v, err := d.readRegister(reg)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", reg, err)
		}
		*m.Byte(reg) = v
	}
	for _, reg := range registers.AddressRegisters {
		if err := d.readRegisterMulti(reg, m.Address(reg)); err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", reg, err)
		}
	}
	return m, nil
}

// SetChannel retunes RF_CH without touching the rest of the session
func (d *Device) SetChannel(channel int) error {
	if channel < 0 || channel > registers.MaxChannel {
		return fmt.Errorf("%w: channel %d", ErrInvalidConfig, channel)
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.writeRegister(registers.RegRF_CH, byte(channel)); err != nil {
		return fmt.Errorf("failed to set RF_CH: %w", err)
	}
	d.config.Channel = channel
	return nil
}
