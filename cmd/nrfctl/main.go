// nrfctl drives an nRF24L01 radio attached through spidev/GPIO, a CH341A
// USB bridge, or the built-in simulator.
//
// Examples:
//
//	# Send the default 8-byte payload ten times over a CH341A
//	nrfctl send --backend ch341 --repeat 10
//
//	# Listen on channel 76 with a Raspberry Pi wiring from a session file
//	nrfctl recv --config etc/nrf24/bench.hcl --radio pi --channel 76
//
//	# Sweep all channels and print activity
//	nrfctl scan --sweeps 50
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
