package nrf24sim

import (
	"encoding/hex"

	"github.com/herlein/gonrf/pkg/registers"
)

// ExchangeByte clocks one byte through the chip's SPI port
func (c *Chip) ExchangeByte(out byte) (byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.clock(out)
}

// Exchange clocks len(out) bytes through the chip's SPI port
func (c *Chip) Exchange(out, in []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, b := range out {
		v, err := c.clock(b)
		if err != nil {
			return err
		}
		if i < len(in) {
			in[i] = v
		}
	}
	return nil
}

func (c *Chip) clock(out byte) (byte, error) {
	if !c.selected {
		return 0xFF, ErrNotSelected
	}
	defer func() { c.pos++ }()

	if c.pos == 0 {
		if err, ok := c.faults[out]; ok {
			return 0xFF, err
		}
		c.cmd = out
		return byte(c.command(out)), nil
	}
	if err, ok := c.faults[c.cmd]; ok {
		return 0xFF, err
	}
	return c.data(out), nil
}

// command handles the opcode byte and returns the STATUS clocked out with it
func (c *Chip) command(cmd byte) registers.Status {
	if registers.Command(cmd) == registers.CmdNOP {
		c.statusReads++
		c.tick()
	}
	status := c.status()
	switch registers.Command(cmd) {
	case registers.CmdFlushTX:
		c.tx = nil
	case registers.CmdFlushRX:
		c.rx = nil
	}
	if c.log != nil {
		c.log.Trace().Str("cmd", registers.Command(cmd).String()).Uint8("status", uint8(status)).Msg("sim frame")
	}
	return status
}

// data handles a byte of the data phase and returns the byte clocked out
func (c *Chip) data(out byte) byte {
	i := c.pos - 1
	cmd := c.cmd
	switch {
	case registers.Command(cmd) == registers.CmdWritePayload:
		if len(c.incoming) < registers.MaxPayload {
			c.incoming = append(c.incoming, out)
		}
		return 0
	case registers.Command(cmd) == registers.CmdReadPayload:
		c.popRX = true
		if len(c.rx) > 0 && i < len(c.rx[0]) {
			return c.rx[0][i]
		}
		return 0
	case cmd&^registers.RegisterMask == byte(registers.CmdReadRegister):
		reg := registers.Register(cmd & registers.RegisterMask)
		if a, ok := c.addrs[reg]; ok {
			if i < len(a) {
				return a[i]
			}
			return 0
		}
		return c.readByte(reg)
	case cmd&^registers.RegisterMask == byte(registers.CmdWriteRegister):
		reg := registers.Register(cmd & registers.RegisterMask)
		if a, ok := c.addrs[reg]; ok {
			if i < len(a) {
				a[i] = out
			}
			return 0
		}
		if i == 0 {
			c.writeByte(reg, out)
			if reg == registers.RegCONFIG {
				c.startTX()
			}
		}
		return 0
	}
	return 0
}

// endFrame commits the effects the chip applies on the CSN rising edge
func (c *Chip) endFrame() {
	if registers.Command(c.cmd) == registers.CmdWritePayload && len(c.incoming) > 0 && len(c.tx) < fifoDepth {
		c.tx = append(c.tx, c.incoming)
		c.startTX()
	}
	if c.popRX && len(c.rx) > 0 {
		c.rx = c.rx[1:]
	}
	c.incoming = nil
	c.popRX = false
	c.pos = 0
}

// startTX moves the head of the TX FIFO on air once CE is high in PTX mode
// and no other packet is in flight
func (c *Chip) startTX() {
	cfg := registers.Config(c.regs[registers.RegCONFIG])
	if !c.ce || c.onAir || cfg&registers.PwrUp == 0 || cfg&registers.PrimRx != 0 || len(c.tx) == 0 {
		return
	}
	c.onAir = true
	p := c.tx[0]
	c.tx = c.tx[1:]
	c.sent = append(c.sent, p)
	if c.log != nil {
		c.log.Trace().Str("payload", hex.EncodeToString(p)).Str("peer", c.peer.String()).Msg("sim tx")
	}

	autoAck := c.regs[registers.RegEN_AA]&byte(registers.P0) != 0
	switch {
	case !autoAck:
		c.pendingFlag = registers.TxDS
	case c.peer == Ack:
		c.pendingFlag = registers.TxDS
	case c.peer == NeverAck:
		c.pendingFlag = registers.MaxRT
	default:
		c.pending = -1
		return
	}
	c.pending = c.completionDelay
}

// tick advances an in-flight transmission by one STATUS poll
func (c *Chip) tick() {
	if c.pending < 0 {
		return
	}
	if c.pending > 0 {
		c.pending--
		return
	}
	c.pending = -1
	c.onAir = false
	c.flags |= c.pendingFlag
	if c.pendingFlag == registers.MaxRT {
		arc := c.regs[registers.RegSETUP_RETR] & 0x0F
		plos := c.regs[registers.RegOBSERVE_TX] >> 4
		if plos < 0x0F {
			plos++
		}
		c.regs[registers.RegOBSERVE_TX] = plos<<4 | arc
	} else {
		c.regs[registers.RegOBSERVE_TX] &^= 0x0F
	}
}
