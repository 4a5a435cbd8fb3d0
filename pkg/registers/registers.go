// Package registers describes the nRF24L01(+) register file and SPI command set.
package registers

import (
	"fmt"
	"strings"
)

// Register is a 5-bit register address as used in R_REGISTER/W_REGISTER
type Register byte

// Register addresses
const (
	RegCONFIG      Register = 0x00
	RegEN_AA       Register = 0x01
	RegEN_RXADDR   Register = 0x02
	RegSETUP_AW    Register = 0x03
	RegSETUP_RETR  Register = 0x04
	RegRF_CH       Register = 0x05
	RegRF_SETUP    Register = 0x06
	RegSTATUS      Register = 0x07
	RegOBSERVE_TX  Register = 0x08
	RegRPD         Register = 0x09 // CD (carrier detect) on the non-plus part
	RegRX_ADDR_P0  Register = 0x0A
	RegRX_ADDR_P1  Register = 0x0B
	RegTX_ADDR     Register = 0x10
	RegRX_PW_P0    Register = 0x11
	RegFIFO_STATUS Register = 0x17
)

// RegisterMask strips a register address down to the opcode address field
const RegisterMask = 0x1F

// String returns the datasheet name of the register
func (r Register) String() string {
	names := map[Register]string{
		RegCONFIG:      "CONFIG",
		RegEN_AA:       "EN_AA",
		RegEN_RXADDR:   "EN_RXADDR",
		RegSETUP_AW:    "SETUP_AW",
		RegSETUP_RETR:  "SETUP_RETR",
		RegRF_CH:       "RF_CH",
		RegRF_SETUP:    "RF_SETUP",
		RegSTATUS:      "STATUS",
		RegOBSERVE_TX:  "OBSERVE_TX",
		RegRPD:         "RPD",
		RegRX_ADDR_P0:  "RX_ADDR_P0",
		RegRX_ADDR_P1:  "RX_ADDR_P1",
		RegTX_ADDR:     "TX_ADDR",
		RegRX_PW_P0:    "RX_PW_P0",
		RegFIFO_STATUS: "FIFO_STATUS",
	}
	if name, ok := names[r]; ok {
		return name
	}
	return fmt.Sprintf("REG_0x%02X", byte(r))
}

// IsAddress reports whether the register holds a multi-byte pipe address
func (r Register) IsAddress() bool {
	return r == RegRX_ADDR_P0 || r == RegRX_ADDR_P1 || r == RegTX_ADDR
}

// Command is a single-byte SPI instruction
type Command byte

// SPI commands
const (
	CmdReadRegister  Command = 0x00 // R_REGISTER, OR'd with the masked address
	CmdWriteRegister Command = 0x20 // W_REGISTER, OR'd with the masked address
	CmdReadPayload   Command = 0x61 // R_RX_PAYLOAD
	CmdWritePayload  Command = 0xA0 // W_TX_PAYLOAD
	CmdFlushTX       Command = 0xE1 // FLUSH_TX
	CmdFlushRX       Command = 0xE2 // FLUSH_RX
	CmdNOP           Command = 0xFF // NOP, clocks out STATUS
)

// ReadCommand returns the R_REGISTER command byte for reg
func ReadCommand(reg Register) byte {
	return byte(CmdReadRegister) | (byte(reg) & RegisterMask)
}

// WriteCommand returns the W_REGISTER command byte for reg
func WriteCommand(reg Register) byte {
	return byte(CmdWriteRegister) | (byte(reg) & RegisterMask)
}

func (c Command) String() string {
	switch c {
	case CmdReadPayload:
		return "R_RX_PAYLOAD"
	case CmdWritePayload:
		return "W_TX_PAYLOAD"
	case CmdFlushTX:
		return "FLUSH_TX"
	case CmdFlushRX:
		return "FLUSH_RX"
	case CmdNOP:
		return "NOP"
	}
	switch byte(c) &^ RegisterMask {
	case byte(CmdReadRegister):
		return "R_REGISTER(" + Register(byte(c)&RegisterMask).String() + ")"
	case byte(CmdWriteRegister):
		return "W_REGISTER(" + Register(byte(c)&RegisterMask).String() + ")"
	}
	return fmt.Sprintf("CMD_0x%02X", byte(c))
}

// Chip limits
const (
	AddressWidth = 5  // the only address width this driver configures
	MaxPayload   = 32 // static payload width upper bound
	MaxChannel   = 125
	MaxRetries   = 15
)

// SETUP_AW value for 5-byte addresses
const SetupAW5Bytes = 0x03

// Pipe is a bitfield of RX data pipes used by EN_AA and EN_RXADDR
type Pipe byte

const (
	P0 Pipe = 1 << iota
	P1
	P2
	P3
	P4
	P5
)

// flags renders the set bits of b named in names, most significant bit first
func flags(b byte, names map[byte]string, order []byte) string {
	var parts []string
	for _, bit := range order {
		sign := "-"
		if b&bit != 0 {
			sign = "+"
		}
		parts = append(parts, names[bit]+sign)
	}
	return strings.Join(parts, " ")
}
