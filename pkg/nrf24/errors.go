package nrf24

import "errors"

var (
	// ErrInvalidConfig indicates a configuration value outside the chip's range
	ErrInvalidConfig = errors.New("invalid radio configuration")

	// ErrAddressMismatch indicates RX_ADDR_P0 differs from TX_ADDR while auto-ack is on
	ErrAddressMismatch = errors.New("receive address must equal transmit address when auto-ack is enabled")

	// ErrPayloadSize indicates a buffer whose length differs from the configured payload size
	ErrPayloadSize = errors.New("buffer length does not match payload size")

	// ErrNotInitialized indicates an operation before Init
	ErrNotInitialized = errors.New("radio is not initialized")

	// ErrMissingPin indicates New was called without a required bus or pin
	ErrMissingPin = errors.New("bus, CSN and CE are required")
)
