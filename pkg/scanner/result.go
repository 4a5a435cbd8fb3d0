package scanner

import (
	"fmt"
	"strings"
	"time"
)

// ScanResult holds the hit counts of one scan
type ScanResult struct {
	FirstChannel int
	Hits         []int // Hits[i] counts carrier detections on FirstChannel+i
	Sweeps       int

	BestChannel     int
	BestHits        int
	SmoothedChannel float64

	Timestamp      time.Time
	SignalDetected bool
}

// HitsOn returns the hit count for a channel, or 0 when it was not scanned
func (r *ScanResult) HitsOn(ch int) int {
	i := ch - r.FirstChannel
	if i < 0 || i >= len(r.Hits) {
		return 0
	}
	return r.Hits[i]
}

// Busy returns the channels with at least threshold hits
func (r *ScanResult) Busy(threshold int) []int {
	var channels []int
	for i, n := range r.Hits {
		if n >= threshold {
			channels = append(channels, r.FirstChannel+i)
		}
	}
	return channels
}

// Bar renders the hit counts as one character per channel, 0-9 scaled to
// the sweep count
func (r *ScanResult) Bar() string {
	var b strings.Builder
	for _, n := range r.Hits {
		switch {
		case n == 0:
			b.WriteByte('.')
		case r.Sweeps <= 0:
			b.WriteByte('?')
		default:
			level := n * 9 / r.Sweeps
			b.WriteByte(byte('0' + level))
		}
	}
	return b.String()
}

// SignalInfo represents a detected signal with history
type SignalInfo struct {
	Channel        int       // smoothed channel
	RawChannel     int       // last measured busiest channel
	Hits           int       // hits on the last detection
	MaxHits        int       // maximum observed hits
	FirstSeen      time.Time // when the signal was first detected
	LastSeen       time.Time // when the signal was last detected
	DetectionCount uint32
}

func (s *SignalInfo) String() string {
	return fmt.Sprintf("ch %d (%d MHz) hits=%d max=%d seen=%d", s.Channel, ChannelFrequencyMHz(s.Channel), s.Hits, s.MaxHits, s.DetectionCount)
}

// ChannelFrequencyMHz returns the centre frequency of a channel
func ChannelFrequencyMHz(ch int) int {
	return BaseFrequencyMHz + ch
}
