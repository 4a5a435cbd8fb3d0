package nrf24

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/herlein/gonrf/pkg/registers"
)

// Address is a 5-byte pipe address, least significant byte first as it is
// clocked over the bus
type Address [registers.AddressWidth]byte

// DefaultAddress is the chip's reset value for TX_ADDR and RX_ADDR_P0
var DefaultAddress = Address{0xE7, 0xE7, 0xE7, 0xE7, 0xE7}

// Default session parameters
const (
	DefaultChannel     = 3
	DefaultDataRate    = registers.DataRate1Mbps
	DefaultPowerDBm    = 0
	DefaultRetryDelay  = 1000 * time.Microsecond
	DefaultRetryCount  = 15
	DefaultPayloadSize = 8

	// DefaultPollInterval is the sleep between STATUS polls while transmitting
	DefaultPollInterval = 10 * time.Millisecond

	// DefaultTxTimeout is the total poll budget for one transmission
	DefaultTxTimeout = 500 * time.Millisecond

	// DefaultSettleDelay is the dead time between command byte and data phase
	DefaultSettleDelay = 10 * time.Microsecond
)

// Config holds the session parameters programmed by Init
type Config struct {
	Channel     int                // RF_CH, 0-125
	DataRate    registers.DataRate // RF_SETUP data rate
	PowerDBm    int                // RF_SETUP output power, -18..0 dBm
	RetryDelay  time.Duration      // SETUP_RETR ARD, 250 µs steps, 250-4000 µs
	RetryCount  int                // SETUP_RETR ARC, 0-15
	PayloadSize int                // RX_PW_P0 and the transmit length, 1-32
	AutoAck     bool               // EN_AA on pipe 0
	CRC2Bytes   bool               // CONFIG.CRCO

	TxAddress Address // TX_ADDR, the peer
	RxAddress Address // RX_ADDR_P0

	PollInterval time.Duration
	TxTimeout    time.Duration
	SettleDelay  time.Duration
}

// DefaultConfig returns a Config with default values
func DefaultConfig() *Config {
	return &Config{
		Channel:      DefaultChannel,
		DataRate:     DefaultDataRate,
		PowerDBm:     DefaultPowerDBm,
		RetryDelay:   DefaultRetryDelay,
		RetryCount:   DefaultRetryCount,
		PayloadSize:  DefaultPayloadSize,
		AutoAck:      true,
		CRC2Bytes:    true,
		TxAddress:    DefaultAddress,
		RxAddress:    DefaultAddress,
		PollInterval: DefaultPollInterval,
		TxTimeout:    DefaultTxTimeout,
		SettleDelay:  DefaultSettleDelay,
	}
}

// Validate checks the configuration for errors
func (c *Config) Validate() error {
	if c.Channel < 0 || c.Channel > registers.MaxChannel {
		return fmt.Errorf("%w: channel %d not in 0-%d", ErrInvalidConfig, c.Channel, registers.MaxChannel)
	}
	switch c.DataRate {
	case registers.DataRate1Mbps, registers.DataRate2Mbps, registers.DataRate250kbps:
	default:
		return fmt.Errorf("%w: data rate %d", ErrInvalidConfig, c.DataRate)
	}
	if c.PowerDBm < -18 || c.PowerDBm > 0 {
		return fmt.Errorf("%w: power %d dBm not in -18..0", ErrInvalidConfig, c.PowerDBm)
	}
	if c.RetryDelay < registers.RetryStep || c.RetryDelay > 16*registers.RetryStep || c.RetryDelay%registers.RetryStep != 0 {
		return fmt.Errorf("%w: retry delay %s must be a multiple of %s up to %s",
			ErrInvalidConfig, c.RetryDelay, registers.RetryStep, 16*registers.RetryStep)
	}
	if c.RetryCount < 0 || c.RetryCount > registers.MaxRetries {
		return fmt.Errorf("%w: retry count %d not in 0-%d", ErrInvalidConfig, c.RetryCount, registers.MaxRetries)
	}
	if c.PayloadSize < 1 || c.PayloadSize > registers.MaxPayload {
		return fmt.Errorf("%w: payload size %d not in 1-%d", ErrInvalidConfig, c.PayloadSize, registers.MaxPayload)
	}
	if c.AutoAck && !bytes.Equal(c.TxAddress[:], c.RxAddress[:]) {
		return ErrAddressMismatch
	}
	if c.PollInterval <= 0 || c.TxTimeout < c.PollInterval {
		return fmt.Errorf("%w: poll interval %s and timeout %s", ErrInvalidConfig, c.PollInterval, c.TxTimeout)
	}
	if c.SettleDelay <= 0 {
		return fmt.Errorf("%w: settle delay %s", ErrInvalidConfig, c.SettleDelay)
	}
	return nil
}

// RFSetup returns the RF_SETUP value for this configuration
func (c *Config) RFSetup() registers.RFSetup {
	return registers.NewRFSetup(c.DataRate, c.PowerDBm)
}

// SetupRetr returns the SETUP_RETR value for this configuration
func (c *Config) SetupRetr() registers.SetupRetr {
	return registers.NewSetupRetr(c.RetryDelay, c.RetryCount)
}

// BaseConfig returns the CONFIG bits Init establishes before power-up
func (c *Config) BaseConfig() registers.Config {
	cfg := registers.EnCRC | registers.PrimRx
	if c.CRC2Bytes {
		cfg |= registers.CRCO
	}
	return cfg
}

// String formats an address the way the datasheet prints it
func (a Address) String() string {
	return fmt.Sprintf("% X", a[:])
}

// ParseAddress parses 10 hex digits, optionally separated by spaces or colons
func ParseAddress(s string) (Address, error) {
	var a Address
	clean := make([]byte, 0, 2*len(a))
	for i := 0; i < len(s); i++ {
		if s[i] == ' ' || s[i] == ':' {
			continue
		}
		clean = append(clean, s[i])
	}
	if len(clean) != 2*len(a) {
		return a, fmt.Errorf("address %q must have %d bytes", s, len(a))
	}
	b, err := hex.DecodeString(string(clean))
	if err != nil {
		return a, fmt.Errorf("failed to parse address %q: %w", s, err)
	}
	copy(a[:], b)
	return a, nil
}
