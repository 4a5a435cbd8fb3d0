// Package scanner finds busy 2.4 GHz channels with the nRF24L01 received
// power detector.
package scanner

import "time"

// Default sweep parameters
const (
	DefaultFirstChannel = 0
	DefaultLastChannel  = 125

	// DefaultSweeps is the number of passes over the channel range per scan
	DefaultSweeps = 20

	// DefaultDwellTime is the time spent listening on each channel. RPD
	// needs at least 170 µs in receive mode to latch.
	DefaultDwellTime = 200 * time.Microsecond

	// DefaultScanInterval is the delay between scans in continuous mode
	DefaultScanInterval = 500 * time.Millisecond

	// DefaultHitThreshold is the minimum hits on the busiest channel for a
	// scan to count as a detection
	DefaultHitThreshold = 2
)

// Signal tracking defaults
const (
	DefaultHoldMax       = 10
	DefaultLostThreshold = 6

	// DefaultChannelResolution groups neighbouring channels into one signal
	DefaultChannelResolution = 2
)

// Channel smoothing defaults
const (
	// DefaultSmoothThreshold is the jump, in channels, above which the
	// smoother follows quickly
	DefaultSmoothThreshold float64 = 4

	DefaultKFast float64 = 0.8
	DefaultKSlow float64 = 0.2
)

// BaseFrequencyMHz is the frequency of channel 0
const BaseFrequencyMHz = 2400
