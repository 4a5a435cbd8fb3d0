// Package ch341 drives an nRF24L01 hung off a CH341A USB-to-SPI bridge.
// CSN is wired to D0 and CE to D1; the bridge has no interrupt input, so
// data-ready is read from STATUS.
package ch341

import (
	"context"
	"fmt"
	"math/bits"
	"sync"

	"github.com/google/gousb"
)

// Device represents an opened CH341A
type Device struct {
	usbDevice    *gousb.Device
	usbConfig    *gousb.Config
	usbInterface *gousb.Interface
	epIn         *gousb.InEndpoint
	epOut        *gousb.OutEndpoint
	Serial       string
	Manufacturer string
	Product      string
	Bus          int
	Address      int

	mu   sync.Mutex
	pins byte
	out  [PacketLength]byte
	in   [PacketLength]byte
}

// Info describes a device found during enumeration
type Info struct {
	Bus     int
	Address int
	Serial  string
	Product string
}

func (i Info) String() string {
	serial := i.Serial
	if serial == "" {
		serial = "-"
	}
	return fmt.Sprintf("bus %d address %d serial %s %s", i.Bus, i.Address, serial, i.Product)
}

// Info returns the enumeration details of an opened device
func (d *Device) Info() Info {
	return Info{Bus: d.Bus, Address: d.Address, Serial: d.Serial, Product: d.Product}
}

// FindAllDevices opens every connected CH341A
func FindAllDevices(usb *gousb.Context) ([]*Device, error) {
	devices := []*Device{}

	usbDevices, err := usb.OpenDevices(func(desc *gousb.DeviceDesc) bool {
		return desc.Vendor == gousb.ID(VendorID) && desc.Product == gousb.ID(ProductID)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate devices: %w", err)
	}

	for _, usbDev := range usbDevices {
		device, err := wrapDevice(usbDev)
		if err != nil {
			usbDev.Close()
			continue
		}
		devices = append(devices, device)
	}
	return devices, nil
}

func wrapDevice(usbDev *gousb.Device) (*Device, error) {
	manufacturer, _ := usbDev.Manufacturer()
	product, _ := usbDev.Product()
	serial, _ := usbDev.SerialNumber()

	usbDev.SetAutoDetach(true)

	config, err := usbDev.Config(1)
	if err != nil {
		return nil, fmt.Errorf("failed to get configuration: %w", err)
	}
	iface, err := config.Interface(0, 0)
	if err != nil {
		config.Close()
		return nil, fmt.Errorf("failed to claim interface: %w", err)
	}
	epIn, err := iface.InEndpoint(EndpointIn)
	if err != nil {
		iface.Close()
		config.Close()
		return nil, fmt.Errorf("failed to get IN endpoint: %w", err)
	}
	epOut, err := iface.OutEndpoint(EndpointOut)
	if err != nil {
		iface.Close()
		config.Close()
		return nil, fmt.Errorf("failed to get OUT endpoint: %w", err)
	}

	d := &Device{
		usbDevice:    usbDev,
		usbConfig:    config,
		usbInterface: iface,
		epIn:         epIn,
		epOut:        epOut,
		Serial:       serial,
		Manufacturer: manufacturer,
		Product:      product,
		Bus:          usbDev.Desc.Bus,
		Address:      usbDev.Desc.Address,
		pins:         pinsIdle,
	}
	if err := d.SetSpeed(Speed750k); err != nil {
		d.Close()
		return nil, err
	}
	if err := d.writePins(); err != nil {
		d.Close()
		return nil, err
	}
	return d, nil
}

// Close releases the interface and the device. The control lines are
// left idle.
func (d *Device) Close() error {
	if d.epOut != nil {
		d.mu.Lock()
		d.pins = pinsIdle
		d.writePins()
		d.mu.Unlock()
	}
	if d.usbInterface != nil {
		d.usbInterface.Close()
	}
	if d.usbConfig != nil {
		d.usbConfig.Close()
	}
	if d.usbDevice != nil {
		return d.usbDevice.Close()
	}
	return nil
}

// SetSpeed selects the SPI clock
func (d *Device) SetSpeed(s Speed) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.write([]byte{CmdI2CStream, I2CSet | byte(s&0x03), I2CEnd})
}

func (d *Device) write(p []byte) error {
	ctx, cancel := context.WithTimeout(context.Background(), USBTimeout)
	defer cancel()
	if _, err := d.epOut.WriteContext(ctx, p); err != nil {
		return fmt.Errorf("failed to write to CH341A: %w", err)
	}
	return nil
}

func (d *Device) read(p []byte) error {
	ctx, cancel := context.WithTimeout(context.Background(), USBTimeout)
	defer cancel()
	for got := 0; got < len(p); {
		n, err := d.epIn.ReadContext(ctx, p[got:])
		if err != nil {
			return fmt.Errorf("failed to read from CH341A: %w", err)
		}
		got += n
	}
	return nil
}

func (d *Device) writePins() error {
	return d.write(uioPacket(d.pins))
}

// uioPacket drives D0-D5 to the given levels
func uioPacket(levels byte) []byte {
	return []byte{CmdUIOStream, UIOOut | levels&pinsDir, UIODir | pinsDir, UIOEnd}
}

// spiPacket frames up to PacketLength-1 bytes for the SPI stream. The
// CH341A shifts LSB first, so every byte is bit-reversed.
func spiPacket(dst, src []byte) []byte {
	dst = append(dst[:0], CmdSPIStream)
	for _, b := range src {
		dst = append(dst, bits.Reverse8(b))
	}
	return dst
}

// ExchangeByte clocks one byte in each direction
func (d *Device) ExchangeByte(out byte) (byte, error) {
	var in [1]byte
	if err := d.Exchange([]byte{out}, in[:]); err != nil {
		return 0, err
	}
	return in[0], nil
}

// Exchange clocks len(out) bytes in each direction, split into SPI stream
// packets
func (d *Device) Exchange(out, in []byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	const chunk = PacketLength - 1
	for off := 0; off < len(out); off += chunk {
		end := min(off+chunk, len(out))
		if err := d.write(spiPacket(d.out[:], out[off:end])); err != nil {
			return err
		}
		buf := d.in[:end-off]
		if err := d.read(buf); err != nil {
			return err
		}
		for i, b := range buf {
			if off+i < len(in) {
				in[off+i] = bits.Reverse8(b)
			}
		}
	}
	return nil
}

// Line is one of the bridge's parallel port outputs
type Line struct {
	d    *Device
	mask byte
}

// CSN returns the chip-select line on D0
func (d *Device) CSN() *Line {
	return &Line{d: d, mask: PinCSN}
}

// CE returns the chip-enable line on D1
func (d *Device) CE() *Line {
	return &Line{d: d, mask: PinCE}
}

// Set drives the line
func (l *Line) Set(high bool) error {
	l.d.mu.Lock()
	defer l.d.mu.Unlock()
	if high {
		l.d.pins |= l.mask
	} else {
		l.d.pins &^= l.mask
	}
	return l.d.writePins()
}
