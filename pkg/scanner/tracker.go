package scanner

import (
	"sync"
	"time"
)

// SignalTracker follows detected signals across scans with hysteresis
type SignalTracker struct {
	mu          sync.RWMutex
	signals     map[int]*SignalInfo // keyed by channel group
	holdCounter int
	holdMax     int
	lostAt      int
	resolution  int

	activeKey    int
	activeSignal *SignalInfo

	onDetected func(*SignalInfo)
	onLost     func(*SignalInfo)
}

// NewSignalTracker creates a tracker. A detection reloads the hold counter
// to holdMax; each empty scan counts it down and onLost fires at lostAt.
func NewSignalTracker(holdMax, lostAt, resolution int) *SignalTracker {
	return &SignalTracker{
		signals:    make(map[int]*SignalInfo),
		holdMax:    holdMax,
		lostAt:     lostAt,
		resolution: resolution,
	}
}

// SetCallbacks sets the detection callbacks. They run on their own goroutine
// with a copy of the signal.
func (t *SignalTracker) SetCallbacks(onDetected, onLost func(*SignalInfo)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onDetected = onDetected
	t.onLost = onLost
}

// Update processes a scan result
func (t *SignalTracker) Update(result *ScanResult) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !result.SignalDetected {
		if t.holdCounter == 0 {
			return
		}
		t.holdCounter--
		if t.holdCounter == t.lostAt && t.activeSignal != nil && t.onLost != nil {
			info := *t.activeSignal
			go t.onLost(&info)
		}
		if t.holdCounter == 0 {
			t.activeSignal = nil
		}
		return
	}

	t.holdCounter = t.holdMax
	ch := int(result.SmoothedChannel + 0.5)
	key := t.group(ch)

	info, exists := t.signals[key]
	if !exists {
		info = &SignalInfo{
			Channel:        ch,
			RawChannel:     result.BestChannel,
			Hits:           result.BestHits,
			MaxHits:        result.BestHits,
			FirstSeen:      result.Timestamp,
			LastSeen:       result.Timestamp,
			DetectionCount: 1,
		}
		t.signals[key] = info
	} else {
		info.Channel = ch
		info.RawChannel = result.BestChannel
		info.Hits = result.BestHits
		info.LastSeen = result.Timestamp
		info.DetectionCount++
		if result.BestHits > info.MaxHits {
			info.MaxHits = result.BestHits
		}
	}

	if (t.activeSignal == nil || key != t.activeKey) && t.onDetected != nil {
		copied := *info
		go t.onDetected(&copied)
	}
	t.activeKey = key
	t.activeSignal = info
}

func (t *SignalTracker) group(ch int) int {
	if t.resolution <= 1 {
		return ch
	}
	return (ch / t.resolution) * t.resolution
}

// ActiveSignal returns a copy of the currently tracked signal, if any
func (t *SignalTracker) ActiveSignal() *SignalInfo {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.activeSignal == nil {
		return nil
	}
	info := *t.activeSignal
	return &info
}

// AllSignals returns copies of every signal seen since the last Clear
func (t *SignalTracker) AllSignals() []*SignalInfo {
	t.mu.RLock()
	defer t.mu.RUnlock()

	signals := make([]*SignalInfo, 0, len(t.signals))
	for _, info := range t.signals {
		copied := *info
		signals = append(signals, &copied)
	}
	return signals
}

// Clear removes all tracked signals
func (t *SignalTracker) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.signals = make(map[int]*SignalInfo)
	t.activeSignal = nil
	t.activeKey = 0
	t.holdCounter = 0
}

// PruneOld removes signals not seen since the given time
func (t *SignalTracker) PruneOld(since time.Time) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	count := 0
	for key, info := range t.signals {
		if info.LastSeen.Before(since) {
			delete(t.signals, key)
			count++
		}
	}
	return count
}

// IsActive returns true if a signal is currently being held
func (t *SignalTracker) IsActive() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.activeSignal != nil && t.holdCounter > 0
}

// HoldCounter returns the current hold counter value
func (t *SignalTracker) HoldCounter() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.holdCounter
}
