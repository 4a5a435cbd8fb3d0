package main

import (
	"github.com/spf13/cobra"

	"github.com/herlein/gonrf/pkg/ch341"
	"github.com/herlein/gonrf/pkg/nrf24"
)

var (
	rootCmd = &cobra.Command{
		Use:           "nrfctl",
		Short:         "nRF24L01 radio tool.",
		Long:          ``,
		SilenceErrors: true,
		SilenceUsage:  true,
	}
)

var rootConfig string
var rootRadio string
var rootProfile string
var rootChannel int

var rootBackend string
var rootDevice string
var rootSPIPort string
var rootCSN string
var rootCE string
var rootIRQ string
var rootSimPeer string

var rootDebug bool
var rootMetrics string

func init() {
	f := rootCmd.PersistentFlags()
	f.StringVarP(&rootConfig, "config", "c", "", "Session file (HCL)")
	f.StringVarP(&rootRadio, "radio", "r", "", "Radio block in the session file")
	f.StringVarP(&rootProfile, "profile", "p", "", "Named profile when no session file is given")
	f.IntVar(&rootChannel, "channel", nrf24.DefaultChannel, "RF channel (0-125)")

	f.StringVarP(&rootBackend, "backend", "b", backendPeriph, "Attachment: periph, ch341 or sim")
	f.StringVar(&rootDevice, "device", "", ch341.DeviceFlagUsage())
	f.StringVar(&rootSPIPort, "spi-port", "", "SPI port for periph, empty for the first")
	f.StringVar(&rootCSN, "csn", "GPIO8", "CSN line for periph")
	f.StringVar(&rootCE, "ce", "GPIO25", "CE line for periph")
	f.StringVar(&rootIRQ, "irq", "", "IRQ line for periph, empty to poll STATUS")
	f.StringVar(&rootSimPeer, "sim-peer", "ack", "Simulated far end: ack, never-ack or silent")

	f.BoolVarP(&rootDebug, "debug", "d", false, "Debug logging (trace)")
	f.StringVarP(&rootMetrics, "metrics", "m", "", "Prom metrics address")
}

func Execute() error {
	return rootCmd.Execute()
}
