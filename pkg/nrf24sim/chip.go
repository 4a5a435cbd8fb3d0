// Package nrf24sim is a behavioural model of an nRF24L01(+) seen from its
// SPI and control pins. It implements the bus and pin interfaces of package
// nrf24 and stands in for hardware in tests and in `nrfctl --backend sim`.
package nrf24sim

import (
	"encoding/hex"
	"errors"
	"sync"

	"github.com/loopholelabs/logging/types"

	"github.com/herlein/gonrf/pkg/registers"
)

// ErrNotSelected is returned when bytes are clocked while CSN is high
var ErrNotSelected = errors.New("nrf24sim: exchange with CSN deasserted")

// fifoDepth is the depth of both payload FIFOs
const fifoDepth = 3

// Peer decides what the far end does with a transmitted packet
type Peer int

const (
	// Ack acknowledges every packet
	Ack Peer = iota
	// NeverAck lets every retransmit go unanswered until MAX_RT
	NeverAck
	// Silent models a chip that never raises a completion flag
	Silent
)

func (p Peer) String() string {
	switch p {
	case Ack:
		return "ack"
	case NeverAck:
		return "never-ack"
	case Silent:
		return "silent"
	}
	return "unknown"
}

// Chip is a simulated transceiver. The zero value is not usable; call New.
type Chip struct {
	mu sync.Mutex

	regs  [registers.RegisterMask + 1]byte
	addrs map[registers.Register]*[registers.AddressWidth]byte
	flags registers.Status

	tx [][]byte
	rx [][]byte

	selected bool
	ce       bool

	// current SPI frame
	cmd      byte
	pos      int
	incoming []byte
	popRX    bool

	peer            Peer
	completionDelay int
	pending         int // NOP reads left before the completion flag latches, -1 idle
	pendingFlag     registers.Status
	onAir           bool

	carrier map[int]bool

	faults map[byte]error

	sent        [][]byte
	ceHistory   []bool
	statusReads int

	log types.Logger
}

// Option configures a Chip
type Option func(*Chip)

// WithPeer selects the far-end behaviour
func WithPeer(p Peer) Option {
	return func(c *Chip) { c.peer = p }
}

// WithCompletionDelay sets how many STATUS reads return no completion flag
// after a transmission starts
func WithCompletionDelay(n int) Option {
	return func(c *Chip) { c.completionDelay = n }
}

// WithLogger traces every frame the chip sees
func WithLogger(log types.Logger) Option {
	return func(c *Chip) { c.log = log }
}

// New returns a chip in its power-on reset state
func New(opts ...Option) *Chip {
	c := &Chip{
		addrs: map[registers.Register]*[registers.AddressWidth]byte{
			registers.RegRX_ADDR_P0: {0xE7, 0xE7, 0xE7, 0xE7, 0xE7},
			registers.RegRX_ADDR_P1: {0xC2, 0xC2, 0xC2, 0xC2, 0xC2},
			registers.RegTX_ADDR:    {0xE7, 0xE7, 0xE7, 0xE7, 0xE7},
		},
		pending: -1,
		carrier: make(map[int]bool),
		faults:  make(map[byte]error),
	}
	c.regs[registers.RegCONFIG] = byte(registers.EnCRC)
	c.regs[registers.RegEN_AA] = 0x3F
	c.regs[registers.RegEN_RXADDR] = 0x03
	c.regs[registers.RegSETUP_AW] = registers.SetupAW5Bytes
	c.regs[registers.RegSETUP_RETR] = 0x03
	c.regs[registers.RegRF_CH] = 0x02
	c.regs[registers.RegRF_SETUP] = 0x0E
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetPeer changes the far-end behaviour for subsequent transmissions
func (c *Chip) SetPeer(p Peer) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.peer = p
}

// SetCompletionDelay changes the completion delay for subsequent transmissions
func (c *Chip) SetCompletionDelay(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.completionDelay = n
}

// SetCarrier marks a channel as occupied, so RPD reads 1 while listening on it
func (c *Chip) SetCarrier(channel int, on bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.carrier[channel] = on
}

// SetFault makes every exchange of the given command byte fail with err.
// A nil err clears the fault.
func (c *Chip) SetFault(cmd byte, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err == nil {
		delete(c.faults, cmd)
		return
	}
	c.faults[cmd] = err
}

// Register returns the raw value of a single-byte register
func (c *Chip) Register(reg registers.Register) byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.readByte(reg)
}

// Address returns the contents of an address register
func (c *Chip) Address(reg registers.Register) [registers.AddressWidth]byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	if a, ok := c.addrs[reg]; ok {
		return *a
	}
	return [registers.AddressWidth]byte{}
}

// Selected reports whether CSN is currently asserted
func (c *Chip) Selected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.selected
}

// Enabled reports the CE level
func (c *Chip) Enabled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ce
}

// Listening reports whether the chip is powered, in PRX and has CE high
func (c *Chip) Listening() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.listening()
}

func (c *Chip) listening() bool {
	cfg := registers.Config(c.regs[registers.RegCONFIG])
	return c.ce && cfg&registers.PwrUp != 0 && cfg&registers.PrimRx != 0
}

// Sent returns copies of every payload that went on air
func (c *Chip) Sent() [][]byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([][]byte, len(c.sent))
	for i, p := range c.sent {
		out[i] = append([]byte(nil), p...)
	}
	return out
}

// CEHistory returns every level CE was driven to, in order
func (c *Chip) CEHistory() []bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]bool(nil), c.ceHistory...)
}

// StatusReads counts NOP commands, the way the driver polls STATUS
func (c *Chip) StatusReads() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.statusReads
}

// PendingTX returns the number of payloads waiting in the TX FIFO
func (c *Chip) PendingTX() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.tx)
}

// PendingRX returns the number of payloads waiting in the RX FIFO
func (c *Chip) PendingRX() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.rx)
}

// Inject delivers a payload from the air. It is accepted only while the
// chip is listening and the RX FIFO has room. The payload is truncated or
// zero-padded to RX_PW_P0 and RX_DR is raised.
func (c *Chip) Inject(payload []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.listening() || len(c.rx) >= fifoDepth {
		return false
	}
	width := int(c.regs[registers.RegRX_PW_P0] & 0x3F)
	if width == 0 {
		return false
	}
	p := make([]byte, width)
	copy(p, payload)
	c.rx = append(c.rx, p)
	c.flags |= registers.RxDR
	if c.log != nil {
		c.log.Trace().Str("payload", hex.EncodeToString(p)).Msg("sim rx")
	}
	return true
}

func (c *Chip) status() registers.Status {
	s := c.flags & registers.IRQFlags
	if len(c.rx) == 0 {
		s |= 0x0E
	}
	if len(c.tx) >= fifoDepth {
		s |= registers.TxFull
	}
	return s
}

func (c *Chip) fifoStatus() registers.FIFOStatus {
	var f registers.FIFOStatus
	switch len(c.rx) {
	case 0:
		f |= registers.RxEmpty
	case fifoDepth:
		f |= registers.RxFull
	}
	switch len(c.tx) {
	case 0:
		f |= registers.TxEmpty
	case fifoDepth:
		f |= registers.TxFullF
	}
	return f
}

func (c *Chip) readByte(reg registers.Register) byte {
	switch reg {
	case registers.RegSTATUS:
		return byte(c.status())
	case registers.RegFIFO_STATUS:
		return byte(c.fifoStatus())
	case registers.RegRPD:
		if c.listening() && c.carrier[int(c.regs[registers.RegRF_CH])] {
			return 0x01
		}
		return 0
	}
	return c.regs[reg&registers.RegisterMask]
}

func (c *Chip) writeByte(reg registers.Register, v byte) {
	switch reg {
	case registers.RegSTATUS:
		c.flags &^= registers.Status(v) & registers.IRQFlags
	case registers.RegOBSERVE_TX, registers.RegRPD, registers.RegFIFO_STATUS:
	default:
		c.regs[reg&registers.RegisterMask] = v
	}
}
