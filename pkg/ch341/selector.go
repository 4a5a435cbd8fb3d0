package ch341

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/gousb"
)

// DeviceSelector specifies how to identify a CH341A when several are plugged in.
// Supported formats:
//   - ""           : first device found
//   - "serial"     : match by serial number
//   - "bus:addr"   : match by USB bus and address (e.g., "1:10")
//   - "#N"         : Nth device, 0-indexed (e.g., "#0", "#1")
type DeviceSelector string

// match returns the index in found that the selector picks
func (s DeviceSelector) match(found []Info) (int, error) {
	sel := string(s)
	if len(found) == 0 {
		return -1, fmt.Errorf("no CH341A devices found")
	}

	switch {
	case sel == "":
		return 0, nil

	case strings.HasPrefix(sel, "#"):
		index, err := strconv.Atoi(sel[1:])
		if err != nil {
			return -1, fmt.Errorf("invalid device index: %s", sel)
		}
		if index < 0 || index >= len(found) {
			return -1, fmt.Errorf("device index %d out of range (found %d devices)", index, len(found))
		}
		return index, nil

	case strings.Contains(sel, ":"):
		parts := strings.SplitN(sel, ":", 2)
		bus, err := strconv.Atoi(parts[0])
		if err != nil {
			return -1, fmt.Errorf("invalid bus number: %s", parts[0])
		}
		addr, err := strconv.Atoi(parts[1])
		if err != nil {
			return -1, fmt.Errorf("invalid address number: %s", parts[1])
		}
		for i, info := range found {
			if info.Bus == bus && info.Address == addr {
				return i, nil
			}
		}
		return -1, fmt.Errorf("no CH341A found at bus %d address %d", bus, addr)
	}

	index := -1
	for i, info := range found {
		if info.Serial != sel {
			continue
		}
		if index >= 0 {
			return -1, fmt.Errorf("multiple devices found with serial %s; use bus:addr format (e.g., 1:10) or index format (e.g., #0)", sel)
		}
		index = i
	}
	if index < 0 {
		return -1, fmt.Errorf("no CH341A found with serial %s", sel)
	}
	return index, nil
}

// SelectDevice opens the CH341A matching the selector and closes the others
func SelectDevice(usb *gousb.Context, selector DeviceSelector) (*Device, error) {
	devices, err := FindAllDevices(usb)
	if err != nil {
		return nil, err
	}

	found := make([]Info, len(devices))
	for i, d := range devices {
		found[i] = d.Info()
	}
	index, err := selector.match(found)

	for i, d := range devices {
		if i != index {
			d.Close()
		}
	}
	if err != nil {
		return nil, err
	}
	return devices[index], nil
}

// ListDevices enumerates connected CH341A bridges without keeping them open
func ListDevices(usb *gousb.Context) ([]Info, error) {
	devices, err := FindAllDevices(usb)
	if err != nil {
		return nil, err
	}
	found := make([]Info, len(devices))
	for i, d := range devices {
		found[i] = d.Info()
		d.Close()
	}
	return found, nil
}

// DeviceFlagUsage describes the selector formats for command-line help
func DeviceFlagUsage() string {
	return `CH341A selector: "" first device, "serial", "bus:addr" (e.g. "1:10"), "#N" (e.g. "#0")`
}
