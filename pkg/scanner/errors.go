package scanner

import "errors"

// Scanner errors
var (
	// ErrScannerRunning indicates the scanner is already running
	ErrScannerRunning = errors.New("scanner is already running")

	// ErrScannerNotRunning indicates the scanner is not running
	ErrScannerNotRunning = errors.New("scanner is not running")

	// ErrInvalidConfig indicates invalid scanner configuration
	ErrInvalidConfig = errors.New("invalid scanner configuration")

	// ErrChannelOutOfRange indicates a channel outside 0-125
	ErrChannelOutOfRange = errors.New("channel out of range")

	// ErrInvalidDwellTime indicates an invalid dwell time
	ErrInvalidDwellTime = errors.New("dwell time must be between 170 µs and 100 ms")
)
