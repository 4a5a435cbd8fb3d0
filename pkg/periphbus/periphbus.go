// Package periphbus connects an nRF24L01 to a Linux spidev port and GPIO
// lines through periph.io.
package periphbus

import (
	"errors"
	"fmt"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"
)

// DefaultSpeed is the SPI clock used when Options.Speed is zero
const DefaultSpeed = 4 * physic.MegaHertz

// ErrPinNotFound is returned when a GPIO name does not resolve
var ErrPinNotFound = errors.New("gpio pin not found")

// Options selects the SPI port and the control lines
type Options struct {
	Port  string          // spireg name, "" for the first port
	Speed physic.Frequency // 0 for DefaultSpeed
	CSN   string          // gpioreg name of the chip-select line
	CE    string          // gpioreg name of the chip-enable line
	IRQ   string          // gpioreg name of the interrupt line, "" for none
}

// Radio bundles the bus and pins of one attached radio
type Radio struct {
	port spi.PortCloser
	conn spi.Conn

	CSN *Output
	CE  *Output
	IRQ *Input // nil when no IRQ line was named
}

// Open initializes the host drivers and claims the port and pins. The
// kernel chip-select is disabled; CSN is driven as a GPIO so one frame can
// span several exchanges.
func Open(opts Options) (*Radio, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize periph host: %w", err)
	}

	port, err := spireg.Open(opts.Port)
	if err != nil {
		return nil, fmt.Errorf("failed to open SPI port %q: %w", opts.Port, err)
	}

	speed := opts.Speed
	if speed == 0 {
		speed = DefaultSpeed
	}
	conn, err := port.Connect(speed, spi.Mode0|spi.NoCS, 8)
	if err != nil {
		port.Close()
		return nil, fmt.Errorf("failed to configure SPI port: %w", err)
	}

	r := &Radio{port: port, conn: conn}
	if r.CSN, err = newOutput(opts.CSN, gpio.High); err != nil {
		port.Close()
		return nil, fmt.Errorf("CSN: %w", err)
	}
	if r.CE, err = newOutput(opts.CE, gpio.Low); err != nil {
		port.Close()
		return nil, fmt.Errorf("CE: %w", err)
	}
	if opts.IRQ != "" {
		if r.IRQ, err = newInput(opts.IRQ); err != nil {
			port.Close()
			return nil, fmt.Errorf("IRQ: %w", err)
		}
	}
	return r, nil
}

// Close releases the SPI port
func (r *Radio) Close() error {
	return r.port.Close()
}

// ExchangeByte clocks one byte in each direction
func (r *Radio) ExchangeByte(out byte) (byte, error) {
	var in [1]byte
	if err := r.conn.Tx([]byte{out}, in[:]); err != nil {
		return 0, err
	}
	return in[0], nil
}

// Exchange clocks len(out) bytes in each direction
func (r *Radio) Exchange(out, in []byte) error {
	return r.conn.Tx(out, in)
}

// Output is a GPIO driven by the host
type Output struct {
	pin gpio.PinOut
}

func newOutput(name string, initial gpio.Level) (*Output, error) {
	p := gpioreg.ByName(name)
	if p == nil {
		return nil, fmt.Errorf("%w: %q", ErrPinNotFound, name)
	}
	if err := p.Out(initial); err != nil {
		return nil, fmt.Errorf("failed to set %s as output: %w", name, err)
	}
	return &Output{pin: p}, nil
}

// Set drives the line
func (o *Output) Set(high bool) error {
	return o.pin.Out(gpio.Level(high))
}

// Input is a GPIO sampled by the host
type Input struct {
	pin gpio.PinIn
}

func newInput(name string) (*Input, error) {
	p := gpioreg.ByName(name)
	if p == nil {
		return nil, fmt.Errorf("%w: %q", ErrPinNotFound, name)
	}
	if err := p.In(gpio.PullUp, gpio.NoEdge); err != nil {
		return nil, fmt.Errorf("failed to set %s as input: %w", name, err)
	}
	return &Input{pin: p}, nil
}

// Read samples the line
func (i *Input) Read() bool {
	return bool(i.pin.Read())
}
