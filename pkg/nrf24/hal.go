package nrf24

// Bus is the full-duplex byte exchange the radio hangs off. Chip-select is
// driven separately through an OutputPin so a single transaction can span
// several exchanges.
type Bus interface {
	// ExchangeByte clocks out one byte and returns the byte clocked in
	ExchangeByte(out byte) (byte, error)

	// Exchange clocks out len(out) bytes into in; len(in) must equal len(out)
	Exchange(out, in []byte) error
}

// OutputPin is a digital line driven by the host (CSN, CE)
type OutputPin interface {
	Set(high bool) error
}

// InputPin is a digital line sampled by the host (IRQ)
type InputPin interface {
	Read() (high bool)
}
