package ch341

import "time"

// USB identifiers of the CH341A in serial/parallel (SPI-capable) mode
const (
	VendorID  = 0x1A86
	ProductID = 0x5512
)

// Bulk endpoints on interface 0
const (
	EndpointOut = 2
	EndpointIn  = 2
)

// PacketLength is the bulk packet size; each stream command occupies the
// first byte of its packet
const PacketLength = 32

// Stream commands
const (
	CmdSPIStream = 0xA8
	CmdI2CStream = 0xAA
	CmdUIOStream = 0xAB
)

// UIO stream sub-commands
const (
	UIOOut = 0x80 // OR'd with the D0-D5 output levels
	UIODir = 0x40 // OR'd with the D0-D5 direction mask, 1 = output
	UIOEnd = 0x20
)

// I2C stream sub-commands, also used to set the SPI clock
const (
	I2CSet = 0x60 // OR'd with the Speed
	I2CEnd = 0x00
)

// Speed selects the stream clock
type Speed byte

const (
	Speed20k  Speed = 0
	Speed100k Speed = 1
	Speed400k Speed = 2
	Speed750k Speed = 3
)

// Parallel port lines used for the radio control signals
const (
	PinCSN = 0x01 // D0
	PinCE  = 0x02 // D1

	// pinsIdle drives D2, D4 and D5 high as the CH341A programmer
	// boards expect, CSN high and CE low
	pinsIdle = 0x35
	pinsDir  = 0x3F
)

// USBTimeout bounds every bulk transfer
const USBTimeout = 500 * time.Millisecond
