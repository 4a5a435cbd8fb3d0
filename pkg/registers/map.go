package registers

import (
	"fmt"
	"strings"
)

// RegisterMap holds a snapshot of the registers this driver configures
type RegisterMap struct {
	CONFIG     uint8 `json:"config"`      // 0x00
	EN_AA      uint8 `json:"en_aa"`       // 0x01
	EN_RXADDR  uint8 `json:"en_rxaddr"`   // 0x02
	SETUP_AW   uint8 `json:"setup_aw"`    // 0x03
	SETUP_RETR uint8 `json:"setup_retr"`  // 0x04
	RF_CH      uint8 `json:"rf_ch"`       // 0x05
	RF_SETUP   uint8 `json:"rf_setup"`    // 0x06
	STATUS     uint8 `json:"status"`      // 0x07
	OBSERVE_TX uint8 `json:"observe_tx"`  // 0x08
	RPD        uint8 `json:"rpd"`         // 0x09
	RX_PW_P0   uint8 `json:"rx_pw_p0"`    // 0x11
	FIFO       uint8 `json:"fifo_status"` // 0x17

	RX_ADDR_P0 [AddressWidth]uint8 `json:"rx_addr_p0"` // 0x0A
	RX_ADDR_P1 [AddressWidth]uint8 `json:"rx_addr_p1"` // 0x0B
	TX_ADDR    [AddressWidth]uint8 `json:"tx_addr"`    // 0x10
}

// ByteRegisters lists the single-byte registers captured in a RegisterMap,
// in dump order
var ByteRegisters = []Register{
	RegCONFIG, RegEN_AA, RegEN_RXADDR, RegSETUP_AW, RegSETUP_RETR, RegRF_CH,
	RegRF_SETUP, RegSTATUS, RegOBSERVE_TX, RegRPD, RegRX_PW_P0, RegFIFO_STATUS,
}

// AddressRegisters lists the 5-byte address registers captured in a RegisterMap
var AddressRegisters = []Register{RegTX_ADDR, RegRX_ADDR_P0, RegRX_ADDR_P1}

// Byte returns a pointer to the RegisterMap field backing reg, or nil
func (m *RegisterMap) Byte(reg Register) *uint8 {
	switch reg {
	case RegCONFIG:
		return &m.CONFIG
	case RegEN_AA:
		return &m.EN_AA
	case RegEN_RXADDR:
		return &m.EN_RXADDR
	case RegSETUP_AW:
		return &m.SETUP_AW
	case RegSETUP_RETR:
		return &m.SETUP_RETR
	case RegRF_CH:
		return &m.RF_CH
	case RegRF_SETUP:
		return &m.RF_SETUP
	case RegSTATUS:
		return &m.STATUS
	case RegOBSERVE_TX:
		return &m.OBSERVE_TX
	case RegRPD:
		return &m.RPD
	case RegRX_PW_P0:
		return &m.RX_PW_P0
	case RegFIFO_STATUS:
		return &m.FIFO
	}
	return nil
}

// Address returns the RegisterMap field backing an address register, or nil
func (m *RegisterMap) Address(reg Register) []uint8 {
	switch reg {
	case RegRX_ADDR_P0:
		return m.RX_ADDR_P0[:]
	case RegRX_ADDR_P1:
		return m.RX_ADDR_P1[:]
	case RegTX_ADDR:
		return m.TX_ADDR[:]
	}
	return nil
}

// ObserveTx splits OBSERVE_TX into lost-packet and retransmit counters
func (m *RegisterMap) ObserveTx() (plos, arc int) {
	return int(m.OBSERVE_TX >> 4), int(m.OBSERVE_TX & 0x0F)
}

// String renders the snapshot as a register dump, one register per line
func (m *RegisterMap) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "CONFIG:      0x%02X  %s\n", m.CONFIG, Config(m.CONFIG))
	fmt.Fprintf(&b, "EN_AA:       0x%02X\n", m.EN_AA)
	fmt.Fprintf(&b, "EN_RXADDR:   0x%02X\n", m.EN_RXADDR)
	fmt.Fprintf(&b, "SETUP_AW:    0x%02X  (%d bytes)\n", m.SETUP_AW, int(m.SETUP_AW&0x03)+2)
	fmt.Fprintf(&b, "SETUP_RETR:  0x%02X  %s\n", m.SETUP_RETR, SetupRetr(m.SETUP_RETR))
	fmt.Fprintf(&b, "RF_CH:       0x%02X  (%d MHz)\n", m.RF_CH, 2400+int(m.RF_CH))
	fmt.Fprintf(&b, "RF_SETUP:    0x%02X  %s\n", m.RF_SETUP, RFSetup(m.RF_SETUP))
	fmt.Fprintf(&b, "STATUS:      0x%02X  %s\n", m.STATUS, Status(m.STATUS))
	plos, arc := m.ObserveTx()
	fmt.Fprintf(&b, "OBSERVE_TX:  0x%02X  PLOS:%d ARC:%d\n", m.OBSERVE_TX, plos, arc)
	fmt.Fprintf(&b, "RPD:         0x%02X\n", m.RPD)
	fmt.Fprintf(&b, "TX_ADDR:     % X\n", m.TX_ADDR[:])
	fmt.Fprintf(&b, "RX_ADDR_P0:  % X\n", m.RX_ADDR_P0[:])
	fmt.Fprintf(&b, "RX_ADDR_P1:  % X\n", m.RX_ADDR_P1[:])
	fmt.Fprintf(&b, "RX_PW_P0:    %d\n", m.RX_PW_P0&0x3F)
	fmt.Fprintf(&b, "FIFO_STATUS: 0x%02X  %s\n", m.FIFO, FIFOStatus(m.FIFO))
	return b.String()
}
