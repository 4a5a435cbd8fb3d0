package scanner

import (
	"fmt"
	"time"

	"github.com/herlein/gonrf/pkg/registers"
)

// ScanConfig defines runtime scanning parameters
type ScanConfig struct {
	FirstChannel int
	LastChannel  int
	Sweeps       int
	DwellTime    time.Duration
	ScanInterval time.Duration
	HitThreshold int

	// Signal tracking
	HoldMax           int
	LostThreshold     int
	ChannelResolution int

	// Smoothing
	SmoothingEnabled bool
	SmoothThreshold  float64
	SmoothKFast      float64
	SmoothKSlow      float64

	// Callbacks (optional)
	OnSignalDetected func(info *SignalInfo)
	OnSignalLost     func(info *SignalInfo)
}

// DefaultConfig returns a ScanConfig covering every channel
func DefaultConfig() *ScanConfig {
	return &ScanConfig{
		FirstChannel:      DefaultFirstChannel,
		LastChannel:       DefaultLastChannel,
		Sweeps:            DefaultSweeps,
		DwellTime:         DefaultDwellTime,
		ScanInterval:      DefaultScanInterval,
		HitThreshold:      DefaultHitThreshold,
		HoldMax:           DefaultHoldMax,
		LostThreshold:     DefaultLostThreshold,
		ChannelResolution: DefaultChannelResolution,
		SmoothingEnabled:  true,
		SmoothThreshold:   DefaultSmoothThreshold,
		SmoothKFast:       DefaultKFast,
		SmoothKSlow:       DefaultKSlow,
	}
}

// Validate checks the configuration for errors
func (c *ScanConfig) Validate() error {
	for _, ch := range []int{c.FirstChannel, c.LastChannel} {
		if !IsValidChannel(ch) {
			return fmt.Errorf("%w: %d", ErrChannelOutOfRange, ch)
		}
	}
	if c.FirstChannel > c.LastChannel {
		return fmt.Errorf("%w: first channel %d after last channel %d", ErrInvalidConfig, c.FirstChannel, c.LastChannel)
	}
	if c.Sweeps < 1 {
		return fmt.Errorf("%w: sweeps must be positive", ErrInvalidConfig)
	}
	if c.DwellTime < 170*time.Microsecond || c.DwellTime > 100*time.Millisecond {
		return ErrInvalidDwellTime
	}
	if c.ScanInterval <= 0 {
		return fmt.Errorf("%w: scan interval must be positive", ErrInvalidConfig)
	}
	if c.HitThreshold < 1 || c.HitThreshold > c.Sweeps {
		return fmt.Errorf("%w: hit threshold must be within 1..%d", ErrInvalidConfig, c.Sweeps)
	}
	if c.LostThreshold >= c.HoldMax {
		return fmt.Errorf("%w: lost threshold must be below hold max", ErrInvalidConfig)
	}
	return nil
}

// Channels returns the number of channels in one sweep
func (c *ScanConfig) Channels() int {
	return c.LastChannel - c.FirstChannel + 1
}

// IsValidChannel checks a channel against the RF_CH range
func IsValidChannel(ch int) bool {
	return ch >= 0 && ch <= registers.MaxChannel
}
