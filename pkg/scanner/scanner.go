package scanner

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/loopholelabs/logging/types"

	"github.com/herlein/gonrf/pkg/nrf24"
)

// Radio is the part of nrf24.Device the scanner drives
type Radio interface {
	Config() nrf24.Config
	SetChannel(channel int) error
	StartListening() error
	StopListening() error
	CarrierDetected() (bool, error)
}

// Observer receives the hit counts of every completed scan
type Observer interface {
	ObserveSweep(first int, hits []int, sweeps int)
}

// Scanner provides channel activity scanning
type Scanner interface {
	// Lifecycle
	Start() error
	Stop() error
	IsRunning() bool

	// Configuration
	SetConfig(config *ScanConfig) error
	GetConfig() *ScanConfig

	// Scanning
	ScanOnce() (*ScanResult, error)
	ScanContinuous(ctx context.Context, results chan<- *ScanResult) error

	// Signal tracking
	GetActiveSignals() []*SignalInfo
	ClearSignalHistory()
}

type Option func(*scanner)

func WithLogger(log types.Logger) Option {
	return func(s *scanner) { s.log = log }
}

func WithObserver(o Observer) Option {
	return func(s *scanner) { s.observer = o }
}

// WithSleep replaces time.Sleep for the per-channel dwell
func WithSleep(sleep func(time.Duration)) Option {
	return func(s *scanner) { s.sleep = sleep }
}

type scanner struct {
	radio    Radio
	log      types.Logger
	observer Observer
	sleep    func(time.Duration)

	mu       sync.RWMutex
	config   *ScanConfig
	running  bool
	stopChan chan struct{}

	// scanMu serializes sweeps so the radio is retuned by one scan at a time
	scanMu   sync.Mutex
	tracker  *SignalTracker
	smoother *ChannelSmoother
}

// New creates a Scanner for an initialized radio. A nil config selects
// DefaultConfig.
func New(radio Radio, config *ScanConfig, opts ...Option) (Scanner, error) {
	if config == nil {
		config = DefaultConfig()
	}
	s := &scanner{
		radio:    radio,
		sleep:    time.Sleep,
		stopChan: make(chan struct{}),
	}
	for _, o := range opts {
		o(s)
	}
	if err := s.SetConfig(config); err != nil {
		return nil, err
	}
	return s, nil
}

// Start marks the scanner as running
func (s *scanner) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return ErrScannerRunning
	}
	s.running = true
	s.stopChan = make(chan struct{})
	return nil
}

// Stop ends a running ScanContinuous
func (s *scanner) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return ErrScannerNotRunning
	}
	close(s.stopChan)
	s.running = false
	return nil
}

func (s *scanner) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}

// SetConfig validates and installs a new configuration. Tracking history
// starts over.
func (s *scanner) SetConfig(config *ScanConfig) error {
	if err := config.Validate(); err != nil {
		return err
	}

	s.scanMu.Lock()
	defer s.scanMu.Unlock()
	s.mu.Lock()
	defer s.mu.Unlock()

	s.config = config
	s.tracker = NewSignalTracker(config.HoldMax, config.LostThreshold, config.ChannelResolution)
	s.tracker.SetCallbacks(config.OnSignalDetected, config.OnSignalLost)
	if config.SmoothingEnabled {
		s.smoother = NewChannelSmoother(config.SmoothThreshold, config.SmoothKFast, config.SmoothKSlow)
	} else {
		s.smoother = nil
	}
	return nil
}

func (s *scanner) GetConfig() *ScanConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.config
}

// ScanOnce sweeps the channel range config.Sweeps times and returns the hit
// counts. The radio is returned to its original channel and left in standby.
func (s *scanner) ScanOnce() (*ScanResult, error) {
	s.scanMu.Lock()
	defer s.scanMu.Unlock()

	s.mu.RLock()
	config := s.config
	s.mu.RUnlock()

	result := &ScanResult{
		FirstChannel: config.FirstChannel,
		Hits:         make([]int, config.Channels()),
		Sweeps:       config.Sweeps,
		Timestamp:    time.Now(),
	}

	home := s.radio.Config().Channel
	if err := s.sweep(config, result); err != nil {
		_ = s.radio.StopListening()
		_ = s.radio.SetChannel(home)
		return nil, err
	}
	if err := s.radio.SetChannel(home); err != nil {
		return nil, fmt.Errorf("failed to restore channel %d: %w", home, err)
	}

	for i, n := range result.Hits {
		if n > result.BestHits {
			result.BestHits = n
			result.BestChannel = config.FirstChannel + i
		}
	}
	result.SignalDetected = result.BestHits >= config.HitThreshold
	result.SmoothedChannel = float64(result.BestChannel)
	if result.SignalDetected && s.smoother != nil {
		result.SmoothedChannel = s.smoother.Update(float64(result.BestChannel))
	}

	s.tracker.Update(result)
	if s.observer != nil {
		s.observer.ObserveSweep(result.FirstChannel, result.Hits, result.Sweeps)
	}
	if s.log != nil {
		s.log.Debug().
			Int("best_channel", result.BestChannel).
			Int("best_hits", result.BestHits).
			Int("sweeps", result.Sweeps).
			Str("activity", result.Bar()).
			Msg("scan complete")
	}
	return result, nil
}

func (s *scanner) sweep(config *ScanConfig, result *ScanResult) error {
	for pass := 0; pass < config.Sweeps; pass++ {
		for i := range result.Hits {
			ch := config.FirstChannel + i
			busy, err := s.listen(ch, config.DwellTime)
			if err != nil {
				return fmt.Errorf("failed to scan channel %d: %w", ch, err)
			}
			if busy {
				result.Hits[i]++
			}
		}
	}
	return nil
}

// listen tunes to ch, stays in receive mode for dwell and reads RPD
func (s *scanner) listen(ch int, dwell time.Duration) (bool, error) {
	if err := s.radio.SetChannel(ch); err != nil {
		return false, err
	}
	if err := s.radio.StartListening(); err != nil {
		return false, err
	}
	s.sleep(dwell)
	busy, err := s.radio.CarrierDetected()
	if err != nil {
		return false, err
	}
	if err := s.radio.StopListening(); err != nil {
		return false, err
	}
	if busy && s.log != nil {
		s.log.Trace().Int("channel", ch).Msg("carrier detected")
	}
	return busy, nil
}

// ScanContinuous scans every ScanInterval until ctx is cancelled or Stop is
// called. results is closed on return; results that would block are dropped.
func (s *scanner) ScanContinuous(ctx context.Context, results chan<- *ScanResult) error {
	if err := s.Start(); err != nil {
		return err
	}
	defer s.Stop()

	s.mu.RLock()
	stop := s.stopChan
	interval := s.config.ScanInterval
	s.mu.RUnlock()

	defer close(results)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-stop:
			return nil
		case <-ticker.C:
			result, err := s.ScanOnce()
			if err != nil {
				if s.log != nil {
					s.log.Warn().Err(err).Msg("scan failed")
				}
				continue
			}
			select {
			case results <- result:
			default:
			}
		}
	}
}

func (s *scanner) GetActiveSignals() []*SignalInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tracker.AllSignals()
}

func (s *scanner) ClearSignalHistory() {
	s.scanMu.Lock()
	defer s.scanMu.Unlock()

	s.tracker.Clear()
	if s.smoother != nil {
		s.smoother.Reset()
	}
}
