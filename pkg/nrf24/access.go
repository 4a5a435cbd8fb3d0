package nrf24

import (
	"encoding/hex"
	"fmt"

	"github.com/herlein/gonrf/pkg/registers"
)

// frame runs fn with CSN asserted. CSN is released on every path, including
// bus errors inside fn.
func (d *Device) frame(fn func() error) (err error) {
	if err := d.csn.Set(false); err != nil {
		return fmt.Errorf("failed to assert CSN: %w", err)
	}
	defer func() {
		if rerr := d.csn.Set(true); rerr != nil && err == nil {
			err = fmt.Errorf("failed to release CSN: %w", rerr)
		}
	}()
	return fn()
}

// command clocks out the command byte and waits for the chip to settle
func (d *Device) command(cmd byte) (registers.Status, error) {
	status, err := d.bus.ExchangeByte(cmd)
	if err != nil {
		return 0, fmt.Errorf("failed to send %s: %w", registers.Command(cmd), err)
	}
	d.sleep(d.config.SettleDelay)
	return registers.Status(status), nil
}

func (d *Device) traceFrame(cmd byte, data []byte, status registers.Status) {
	if d.log == nil {
		return
	}
	d.log.Trace().
		Str("radio", d.name).
		Str("cmd", registers.Command(cmd).String()).
		Str("data", hex.EncodeToString(data)).
		Uint8("status", uint8(status)).
		Msg("spi frame")
}

func (d *Device) readRegister(reg registers.Register) (byte, error) {
	var value byte
	cmd := registers.ReadCommand(reg)
	err := d.frame(func() error {
		status, err := d.command(cmd)
		if err != nil {
			return err
		}
		value, err = d.bus.ExchangeByte(byte(registers.CmdNOP))
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", reg, err)
		}
		d.traceFrame(cmd, []byte{value}, status)
		return nil
	})
	return value, err
}

func (d *Device) writeRegister(reg registers.Register, value byte) error {
	cmd := registers.WriteCommand(reg)
	return d.frame(func() error {
		status, err := d.command(cmd)
		if err != nil {
			return err
		}
		if _, err := d.bus.ExchangeByte(value); err != nil {
			return fmt.Errorf("failed to write %s: %w", reg, err)
		}
		d.traceFrame(cmd, []byte{value}, status)
		return nil
	})
}

func (d *Device) readRegisterMulti(reg registers.Register, buf []byte) error {
	return d.transfer(registers.ReadCommand(reg), nil, buf)
}

func (d *Device) writeRegisterMulti(reg registers.Register, data []byte) error {
	return d.transfer(registers.WriteCommand(reg), data, nil)
}

// transfer issues cmd followed by a data phase. Exactly one of out and in
// is used: out is clocked to the chip, or NOPs are clocked while filling in.
// The caller's out buffer is never written.
func (d *Device) transfer(cmd byte, out, in []byte) error {
	n := len(out)
	if in != nil {
		n = len(in)
	}
	if n > registers.MaxPayload {
		return fmt.Errorf("%w: %d bytes", ErrPayloadSize, n)
	}
	return d.frame(func() error {
		status, err := d.command(cmd)
		if err != nil {
			return err
		}
		if n == 0 {
			return nil
		}
		if in != nil {
			err = d.bus.Exchange(d.nops[:n], in)
		} else {
			err = d.bus.Exchange(out, d.scratch[:n])
		}
		if err != nil {
			return fmt.Errorf("failed to transfer %d bytes after %s: %w", n, registers.Command(cmd), err)
		}
		if in != nil {
			d.traceFrame(cmd, in, status)
		} else {
			d.traceFrame(cmd, out, status)
		}
		return nil
	})
}

// strobe issues a data-less command and returns the STATUS clocked in with it
func (d *Device) strobe(cmd registers.Command) (registers.Status, error) {
	var status registers.Status
	err := d.frame(func() error {
		var err error
		status, err = d.command(byte(cmd))
		if err == nil {
			d.traceFrame(byte(cmd), nil, status)
		}
		return err
	})
	return status, err
}

func (d *Device) status() (registers.Status, error) {
	return d.strobe(registers.CmdNOP)
}

// clearStatus writes 1s to the given latched flags. Only bits in
// registers.IRQFlags are sent; writing 0 leaves the others untouched.
func (d *Device) clearStatus(flags registers.Status) error {
	return d.writeRegister(registers.RegSTATUS, byte(flags&registers.IRQFlags))
}

// ReadRegister reads a single-byte register
func (d *Device) ReadRegister(reg registers.Register) (byte, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.readRegister(reg)
}

// WriteRegister writes a single-byte register. Writes to CONFIG keep the
// shadow in step.
func (d *Device) WriteRegister(reg registers.Register, value byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if reg&registers.RegisterMask == registers.RegCONFIG {
		return d.setConfig(registers.Config(value))
	}
	return d.writeRegister(reg, value)
}

// ReadRegisterMulti fills buf from a multi-byte register (pipe address)
func (d *Device) ReadRegisterMulti(reg registers.Register, buf []byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.readRegisterMulti(reg, buf)
}

// WriteRegisterMulti writes data to a multi-byte register (pipe address)
func (d *Device) WriteRegisterMulti(reg registers.Register, data []byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.writeRegisterMulti(reg, data)
}

// Command issues a data-less command such as FLUSH_TX, FLUSH_RX or NOP
func (d *Device) Command(cmd registers.Command) (registers.Status, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.strobe(cmd)
}

// Status returns the STATUS register via a NOP
func (d *Device) Status() (registers.Status, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.status()
}

// ClearStatus clears the given latched interrupt flags
func (d *Device) ClearStatus(flags registers.Status) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.clearStatus(flags)
}
