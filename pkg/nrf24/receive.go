package nrf24

import (
	"encoding/hex"
	"fmt"

	"github.com/herlein/gonrf/pkg/registers"
)

// DataReady reports whether a received payload is waiting. With an IRQ pin
// the line is sampled (active low); without one STATUS.RX_DR is read.
func (d *Device) DataReady() (bool, error) {
	if d.irq != nil {
		return !d.irq.Read(), nil
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	status, err := d.status()
	if err != nil {
		return false, err
	}
	return status&registers.RxDR != 0, nil
}

// Receive drains one payload from the RX FIFO into buf, clears RX_DR and
// flushes the TX FIFO. len(buf) must equal Config.PayloadSize. Callers check
// DataReady first; reading an empty FIFO returns undefined bytes.
func (d *Device) Receive(buf []byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.initialized {
		return ErrNotInitialized
	}
	if len(buf) != d.config.PayloadSize {
		return fmt.Errorf("%w: got %d, want %d", ErrPayloadSize, len(buf), d.config.PayloadSize)
	}

	if err := d.transfer(byte(registers.CmdReadPayload), nil, buf); err != nil {
		return fmt.Errorf("failed to read payload: %w", err)
	}
	if err := d.clearStatus(registers.RxDR); err != nil {
		return fmt.Errorf("failed to clear RX_DR: %w", err)
	}
	if _, err := d.strobe(registers.CmdFlushTX); err != nil {
		return fmt.Errorf("failed to flush TX FIFO: %w", err)
	}

	if d.recorder != nil {
		d.recorder.ObserveReceive(len(buf))
	}
	if d.log != nil {
		d.log.Debug().Str("radio", d.name).Str("payload", hex.EncodeToString(buf)).Msg("payload received")
	}
	return nil
}

// StartListening raises CE with the radio in receive mode
func (d *Device) StartListening() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.initialized {
		return ErrNotInitialized
	}
	if want := d.shadow | registers.PrimRx | registers.PwrUp; want != d.shadow {
		if err := d.setConfig(want); err != nil {
			return fmt.Errorf("failed to enter receive mode: %w", err)
		}
	}
	if err := d.ce.Set(true); err != nil {
		return fmt.Errorf("failed to set CE high: %w", err)
	}
	return nil
}

// StopListening drops CE, leaving the radio in standby
func (d *Device) StopListening() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.ce.Set(false); err != nil {
		return fmt.Errorf("failed to set CE low: %w", err)
	}
	return nil
}

// CarrierDetected reads RPD, which is set when a signal above -64 dBm was
// present on the current channel during the last receive period
func (d *Device) CarrierDetected() (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	rpd, err := d.readRegister(registers.RegRPD)
	if err != nil {
		return false, err
	}
	return rpd&0x01 != 0, nil
}
