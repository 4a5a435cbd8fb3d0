package main

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"

	"github.com/google/gousb"
	"github.com/loopholelabs/logging"
	"github.com/loopholelabs/logging/types"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/herlein/gonrf/pkg/ch341"
	"github.com/herlein/gonrf/pkg/config"
	"github.com/herlein/gonrf/pkg/metrics"
	"github.com/herlein/gonrf/pkg/nrf24"
	"github.com/herlein/gonrf/pkg/nrf24sim"
	"github.com/herlein/gonrf/pkg/periphbus"
	"github.com/herlein/gonrf/pkg/profiles"
)

const (
	backendPeriph = "periph"
	backendCH341  = "ch341"
	backendSim    = "sim"
)

// attachment says where a radio is wired
type attachment struct {
	backend string
	device  string
	spiPort string
	csn     string
	ce      string
	irq     string
}

// session is one opened radio and everything that has to be released with it
type session struct {
	name    string
	config  *nrf24.Config
	dev     *nrf24.Device
	chip    *nrf24sim.Chip // sim backend only
	log     types.RootLogger
	metrics *metrics.Radio
	closers []func() error
}

func (s *session) Close() error {
	var errs []error
	if s.dev != nil {
		errs = append(errs, s.dev.Close())
	}
	for i := len(s.closers) - 1; i >= 0; i-- {
		errs = append(errs, s.closers[i]())
	}
	return errors.Join(errs...)
}

func newLogger(name string) types.RootLogger {
	if !rootDebug {
		return nil
	}
	log := logging.New(logging.Zerolog, name, os.Stderr)
	log.SetLevel(types.TraceLevel)
	return log
}

// startMetrics serves the registry on --metrics and returns nil when the
// flag is unset. The listener is bound before returning so a busy address
// is reported to the caller.
func startMetrics(log types.Logger) (*metrics.Metrics, error) {
	if rootMetrics == "" {
		return nil, nil
	}
	listener, err := net.Listen("tcp", rootMetrics)
	if err != nil {
		return nil, fmt.Errorf("failed to listen for metrics on %s: %w", rootMetrics, err)
	}
	reg := prometheus.NewRegistry()
	m := metrics.New(reg, metrics.DefaultConfig())

	// Add the default go metrics
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(
		reg,
		promhttp.HandlerOpts{
			EnableOpenMetrics: true,
			Registry:          reg,
		},
	))
	go func() {
		if err := http.Serve(listener, mux); err != nil && log != nil {
			log.Error().Err(err).Str("addr", rootMetrics).Msg("metrics server stopped")
		}
	}()
	return m, nil
}

// resolve builds the radio configuration and attachment from the session
// file, the profile and the command line, in increasing precedence
func resolve(cmd *cobra.Command) (string, *nrf24.Config, attachment, error) {
	name := "nrf24"
	cfg := nrf24.DefaultConfig()
	at := attachment{backend: rootBackend, csn: rootCSN, ce: rootCE}

	switch {
	case rootConfig != "":
		file, err := config.ReadFile(rootConfig)
		if err != nil {
			return "", nil, at, err
		}
		r, err := file.Find(rootRadio)
		if err != nil {
			return "", nil, at, err
		}
		if cfg, err = r.Config(); err != nil {
			return "", nil, at, err
		}
		name = r.Name
		at = attachment{
			backend: config.Str(r.Backend, at.backend),
			device:  config.Str(r.Device, ""),
			spiPort: config.Str(r.SPIPort, ""),
			csn:     config.Str(r.CSN, at.csn),
			ce:      config.Str(r.CE, at.ce),
			irq:     config.Str(r.IRQ, ""),
		}
	case rootProfile != "":
		p, err := profiles.Get(rootProfile)
		if err != nil {
			return "", nil, at, err
		}
		cfg = p.ToConfig()
		name = p.Name
	}

	flags := cmd.Flags()
	if flags.Changed("channel") {
		cfg.Channel = rootChannel
	}
	overrides := []struct {
		flag string
		src  string
		dst  *string
	}{
		{"backend", rootBackend, &at.backend},
		{"device", rootDevice, &at.device},
		{"spi-port", rootSPIPort, &at.spiPort},
		{"csn", rootCSN, &at.csn},
		{"ce", rootCE, &at.ce},
		{"irq", rootIRQ, &at.irq},
	}
	for _, o := range overrides {
		if flags.Changed(o.flag) {
			*o.dst = o.src
		}
	}

	if err := cfg.Validate(); err != nil {
		return "", nil, at, err
	}
	return name, cfg, at, nil
}

func parsePeer(s string) (nrf24sim.Peer, error) {
	for _, p := range []nrf24sim.Peer{nrf24sim.Ack, nrf24sim.NeverAck, nrf24sim.Silent} {
		if p.String() == s {
			return p, nil
		}
	}
	return 0, fmt.Errorf("unknown simulated peer %q", s)
}

// openSession resolves the configuration, claims the backend and runs Init
func openSession(cmd *cobra.Command) (*session, error) {
	name, cfg, at, err := resolve(cmd)
	if err != nil {
		return nil, err
	}

	s := &session{name: name, config: cfg, log: newLogger("nrfctl." + name)}
	m, err := startMetrics(s.log)
	if err != nil {
		return nil, err
	}
	if m != nil {
		s.metrics = m.ForRadio(name)
	}

	var bus nrf24.Bus
	var csn, ce nrf24.OutputPin
	var irq nrf24.InputPin

	switch at.backend {
	case backendPeriph:
		r, err := periphbus.Open(periphbus.Options{Port: at.spiPort, CSN: at.csn, CE: at.ce, IRQ: at.irq})
		if err != nil {
			return nil, err
		}
		s.closers = append(s.closers, r.Close)
		bus, csn, ce = r, r.CSN, r.CE
		if r.IRQ != nil {
			irq = r.IRQ
		}

	case backendCH341:
		usb := gousb.NewContext()
		d, err := ch341.SelectDevice(usb, ch341.DeviceSelector(at.device))
		if err != nil {
			usb.Close()
			return nil, err
		}
		s.closers = append(s.closers, usb.Close, d.Close)
		bus, csn, ce = d, d.CSN(), d.CE()

	case backendSim:
		peer, err := parsePeer(rootSimPeer)
		if err != nil {
			return nil, err
		}
		opts := []nrf24sim.Option{nrf24sim.WithPeer(peer), nrf24sim.WithCompletionDelay(2)}
		if s.log != nil {
			opts = append(opts, nrf24sim.WithLogger(s.log))
		}
		s.chip = nrf24sim.New(opts...)
		bus, csn, ce = s.chip, s.chip.CSN(), s.chip.CE()

	default:
		return nil, fmt.Errorf("unknown backend %q", at.backend)
	}

	opts := []nrf24.Option{nrf24.WithName(name)}
	if s.log != nil {
		opts = append(opts, nrf24.WithLogger(s.log))
	}
	if s.metrics != nil {
		opts = append(opts, nrf24.WithRecorder(s.metrics))
	}
	if s.dev, err = nrf24.New(bus, csn, ce, irq, cfg, opts...); err != nil {
		s.Close()
		return nil, err
	}
	if err := s.dev.Init(); err != nil {
		s.Close()
		return nil, fmt.Errorf("failed to initialize radio: %w", err)
	}
	fmt.Fprintf(os.Stderr, "Radio ready: %s (%s)\n", s.dev, at.backend)
	return s, nil
}
