package scanner

import "math"

// ChannelSmoother is an exponential moving average over the busiest channel
// that follows large jumps quickly and damps small ones.
type ChannelSmoother struct {
	value     float64
	primed    bool
	threshold float64
	kFast     float64
	kSlow     float64
}

// NewChannelSmoother creates a smoother with the given coefficients
func NewChannelSmoother(threshold, kFast, kSlow float64) *ChannelSmoother {
	return &ChannelSmoother{
		threshold: threshold,
		kFast:     kFast,
		kSlow:     kSlow,
	}
}

// Update folds a new observation in and returns the smoothed channel
func (s *ChannelSmoother) Update(ch float64) float64 {
	if !s.primed {
		s.value = ch
		s.primed = true
		return ch
	}

	k := s.kSlow
	if math.Abs(ch-s.value) > s.threshold {
		k = s.kFast
	}
	s.value += (ch - s.value) * k
	return s.value
}

// Channel returns the smoothed value rounded to a channel number
func (s *ChannelSmoother) Channel() int {
	return int(math.Round(s.value))
}

// Reset clears the smoother state
func (s *ChannelSmoother) Reset() {
	s.value = 0
	s.primed = false
}
