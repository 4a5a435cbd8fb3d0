package registers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCommandMasksAddress(t *testing.T) {
	assert.Equal(t, byte(0x07), ReadCommand(RegSTATUS))
	assert.Equal(t, byte(0x30), WriteCommand(RegTX_ADDR))

	// Out-of-range addresses must not leak into the opcode bits
	assert.Equal(t, byte(0x3F), WriteCommand(Register(0xFF)))
	assert.Equal(t, byte(0x1F), ReadCommand(Register(0xFF)))
	assert.Equal(t, byte(0x05), ReadCommand(Register(0xE5)))
}

func TestCommandString(t *testing.T) {
	assert.Equal(t, "FLUSH_TX", CmdFlushTX.String())
	assert.Equal(t, "W_REGISTER(STATUS)", Command(WriteCommand(RegSTATUS)).String())
	assert.Equal(t, "R_REGISTER(RX_ADDR_P0)", Command(ReadCommand(RegRX_ADDR_P0)).String())
}

func TestStatusRxPipe(t *testing.T) {
	assert.Equal(t, -1, Status(0x0E).RxPipe())
	assert.Equal(t, 0, Status(0x40).RxPipe())
	assert.Equal(t, 3, Status(0x46).RxPipe())
	assert.Equal(t, "RxDR+ TxDS- MaxRT+ TxFull- RxPipe:0", Status(0x50).String())
}

func TestRFSetup(t *testing.T) {
	rf := NewRFSetup(DataRate1Mbps, 0)
	assert.Equal(t, RFSetup(0x06), rf)
	assert.Equal(t, DataRate1Mbps, rf.DataRate())
	assert.Equal(t, 0, rf.PowerDBm())

	rf = NewRFSetup(DataRate250kbps, 0)
	assert.Equal(t, RFSetup(0x26), rf)
	assert.Equal(t, DataRate250kbps, rf.DataRate())

	rf = NewRFSetup(DataRate2Mbps, -12)
	assert.Equal(t, RFSetup(0x0A), rf)
	assert.Equal(t, -12, rf.PowerDBm())

	// Clamped
	assert.Equal(t, -18, NewRFSetup(DataRate1Mbps, -40).PowerDBm())
	assert.Equal(t, 0, NewRFSetup(DataRate1Mbps, 7).PowerDBm())
}

func TestSetupRetr(t *testing.T) {
	s := NewSetupRetr(1000*time.Microsecond, 15)
	assert.Equal(t, SetupRetr(0x3F), s)
	assert.Equal(t, 1000*time.Microsecond, s.Delay())
	assert.Equal(t, 15, s.Count())

	s = NewSetupRetr(4000*time.Microsecond, 3)
	assert.Equal(t, SetupRetr(0xF3), s)
}

func TestParseDataRate(t *testing.T) {
	r, err := ParseDataRate("250kbps")
	assert.NoError(t, err)
	assert.Equal(t, DataRate250kbps, r)

	_, err = ParseDataRate("9600")
	assert.Error(t, err)
}

func TestRegisterMapAccessors(t *testing.T) {
	m := &RegisterMap{}
	for _, reg := range ByteRegisters {
		assert.NotNil(t, m.Byte(reg), reg.String())
	}
	for _, reg := range AddressRegisters {
		assert.Len(t, m.Address(reg), AddressWidth, reg.String())
	}
	assert.Nil(t, m.Byte(RegTX_ADDR))

	m.OBSERVE_TX = 0x2F
	plos, arc := m.ObserveTx()
	assert.Equal(t, 2, plos)
	assert.Equal(t, 15, arc)

	m.RF_CH = 3
	assert.Contains(t, m.String(), "RF_CH:       0x03  (2403 MHz)")
}
