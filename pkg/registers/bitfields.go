package registers

import (
	"fmt"
	"time"
)

// Status is the STATUS register, also clocked out with every command byte
type Status byte

const (
	TxFull Status = 0x01 // TX FIFO full
	RxDR   Status = 0x40 // Data ready in RX FIFO
	TxDS   Status = 0x20 // Data sent (ACK received when auto-ack is on)
	MaxRT  Status = 0x10 // Maximum number of retransmits reached

	// IRQFlags are the latched, write-1-to-clear interrupt bits
	IRQFlags = RxDR | TxDS | MaxRT
)

// RxPipe returns the pipe number of the payload at the head of the RX FIFO
// or -1 if the RX FIFO is empty
func (s Status) RxPipe() int {
	n := int(s>>1) & 0x07
	if n == 0x07 {
		return -1
	}
	return n
}

func (s Status) String() string {
	return flags(byte(s), map[byte]string{
		byte(RxDR): "RxDR", byte(TxDS): "TxDS", byte(MaxRT): "MaxRT", byte(TxFull): "TxFull",
	}, []byte{byte(RxDR), byte(TxDS), byte(MaxRT), byte(TxFull)}) + fmt.Sprintf(" RxPipe:%d", s.RxPipe())
}

// Config is the CONFIG register
type Config byte

const (
	PrimRx    Config = 1 << iota // 1: PRX, 0: PTX
	PwrUp                        // 1: power up
	CRCO                         // CRC width 0: one byte, 1: two bytes
	EnCRC                        // Enable CRC, forced high when any EN_AA bit is set
	MaskMaxRT                    // Do not reflect MaxRT on IRQ
	MaskTxDS                     // Do not reflect TxDS on IRQ
	MaskRxDR                     // Do not reflect RxDR on IRQ
)

func (c Config) String() string {
	return flags(byte(c), map[byte]string{
		byte(MaskRxDR): "MaskRxDR", byte(MaskTxDS): "MaskTxDS", byte(MaskMaxRT): "MaskMaxRT",
		byte(EnCRC): "EnCRC", byte(CRCO): "CRCO", byte(PwrUp): "PwrUp", byte(PrimRx): "PrimRx",
	}, []byte{byte(MaskRxDR), byte(MaskTxDS), byte(MaskMaxRT), byte(EnCRC), byte(CRCO), byte(PwrUp), byte(PrimRx)})
}

// DataRate is the over-the-air bit rate selected in RF_SETUP
type DataRate uint8

const (
	DataRate1Mbps DataRate = iota
	DataRate2Mbps
	DataRate250kbps
)

func (r DataRate) String() string {
	switch r {
	case DataRate1Mbps:
		return "1Mbps"
	case DataRate2Mbps:
		return "2Mbps"
	case DataRate250kbps:
		return "250kbps"
	}
	return "UNKNOWN"
}

// ParseDataRate accepts the String() forms of DataRate
func ParseDataRate(s string) (DataRate, error) {
	for _, r := range []DataRate{DataRate1Mbps, DataRate2Mbps, DataRate250kbps} {
		if r.String() == s {
			return r, nil
		}
	}
	return 0, fmt.Errorf("unknown data rate %q", s)
}

// RFSetup is the RF_SETUP register
type RFSetup byte

const (
	rfDRHigh   RFSetup = 0x08
	rfDRLow    RFSetup = 0x20
	rfPwrMask  RFSetup = 0x06
	rfPwrShift         = 1
)

// NewRFSetup encodes a data rate and output power. Power is clamped to the
// chip's -18..0 dBm range in 6 dB steps.
func NewRFSetup(rate DataRate, powerDBm int) RFSetup {
	switch {
	case powerDBm < -18:
		powerDBm = -18
	case powerDBm > 0:
		powerDBm = 0
	}
	rf := RFSetup(((18+powerDBm)/6)<<rfPwrShift) & rfPwrMask
	switch rate {
	case DataRate2Mbps:
		rf |= rfDRHigh
	case DataRate250kbps:
		rf |= rfDRLow
	}
	return rf
}

// DataRate decodes the RF_DR_LOW/RF_DR_HIGH bits
func (rf RFSetup) DataRate() DataRate {
	switch {
	case rf&rfDRLow != 0:
		return DataRate250kbps
	case rf&rfDRHigh != 0:
		return DataRate2Mbps
	}
	return DataRate1Mbps
}

// PowerDBm returns the TX output power in dBm
func (rf RFSetup) PowerDBm() int {
	return int((rf&rfPwrMask)>>rfPwrShift)*6 - 18
}

func (rf RFSetup) String() string {
	return fmt.Sprintf("%s %ddBm", rf.DataRate(), rf.PowerDBm())
}

// SetupRetr is the SETUP_RETR register
type SetupRetr byte

// RetryStep is the granularity of the auto-retransmit delay
const RetryStep = 250 * time.Microsecond

// NewSetupRetr encodes the auto-retransmit delay and count. The caller is
// responsible for range checks.
func NewSetupRetr(delay time.Duration, count int) SetupRetr {
	ard := byte(delay/RetryStep) - 1
	return SetupRetr(ard<<4 | byte(count)&0x0F)
}

// Delay returns the auto-retransmit delay
func (s SetupRetr) Delay() time.Duration {
	return time.Duration(byte(s)>>4+1) * RetryStep
}

// Count returns the auto-retransmit count
func (s SetupRetr) Count() int {
	return int(s & 0x0F)
}

func (s SetupRetr) String() string {
	return fmt.Sprintf("ARD:%s ARC:%d", s.Delay(), s.Count())
}

// FIFOStatus is the FIFO_STATUS register
type FIFOStatus byte

const (
	RxEmpty FIFOStatus = 0x01
	RxFull  FIFOStatus = 0x02
	TxEmpty FIFOStatus = 0x10
	TxFullF FIFOStatus = 0x20
	TxReuse FIFOStatus = 0x40
)

func (f FIFOStatus) String() string {
	return flags(byte(f), map[byte]string{
		byte(TxReuse): "TxReuse", byte(TxFullF): "TxFull", byte(TxEmpty): "TxEmpty",
		byte(RxFull): "RxFull", byte(RxEmpty): "RxEmpty",
	}, []byte{byte(TxReuse), byte(TxFullF), byte(TxEmpty), byte(RxFull), byte(RxEmpty)})
}
