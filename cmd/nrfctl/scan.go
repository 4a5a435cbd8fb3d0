package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/herlein/gonrf/pkg/scanner"
)

var (
	cmdScan = &cobra.Command{
		Use:   "scan",
		Short: "Sweep channels for carriers",
		Long:  `Listen briefly on each channel and count received-power-detector hits over several sweeps.`,
		RunE:  runScan,
	}
)

var scanFirst int
var scanLast int
var scanSweeps int
var scanDwell time.Duration
var scanHits int
var scanContinuous bool
var scanInterval time.Duration
var scanSimBusy []int

func init() {
	rootCmd.AddCommand(cmdScan)
	cmdScan.Flags().IntVar(&scanFirst, "first", scanner.DefaultFirstChannel, "First channel")
	cmdScan.Flags().IntVar(&scanLast, "last", scanner.DefaultLastChannel, "Last channel")
	cmdScan.Flags().IntVar(&scanSweeps, "sweeps", scanner.DefaultSweeps, "Passes per scan")
	cmdScan.Flags().DurationVar(&scanDwell, "dwell", scanner.DefaultDwellTime, "Listen time per channel")
	cmdScan.Flags().IntVar(&scanHits, "hits", scanner.DefaultHitThreshold, "Hits needed to report a channel busy")
	cmdScan.Flags().BoolVarP(&scanContinuous, "continuous", "C", false, "Scan until interrupted")
	cmdScan.Flags().DurationVar(&scanInterval, "interval", scanner.DefaultScanInterval, "Delay between continuous scans")
	cmdScan.Flags().IntSliceVar(&scanSimBusy, "sim-busy", []int{1, 6, 11, 76}, "Occupied channels (sim backend)")
}

func runScan(cmd *cobra.Command, _ []string) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	if s.chip != nil {
		for _, ch := range scanSimBusy {
			s.chip.SetCarrier(ch, true)
		}
	}

	conf := scanner.DefaultConfig()
	conf.FirstChannel = scanFirst
	conf.LastChannel = scanLast
	conf.Sweeps = scanSweeps
	conf.DwellTime = scanDwell
	conf.HitThreshold = scanHits
	conf.ScanInterval = scanInterval
	conf.OnSignalDetected = func(info *scanner.SignalInfo) {
		fmt.Printf(">> signal detected: %s\n", info)
	}
	conf.OnSignalLost = func(info *scanner.SignalInfo) {
		fmt.Printf("<< signal lost: %s\n", info)
	}

	opts := []scanner.Option{}
	if s.log != nil {
		opts = append(opts, scanner.WithLogger(s.log))
	}
	if s.metrics != nil {
		opts = append(opts, scanner.WithObserver(s.metrics))
	}
	sc, err := scanner.New(s.dev, conf, opts...)
	if err != nil {
		return err
	}

	if !scanContinuous {
		result, err := sc.ScanOnce()
		if err != nil {
			return err
		}
		printScan(result, conf)
		return nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	results := make(chan *scanner.ScanResult, 4)
	errc := make(chan error, 1)
	go func() { errc <- sc.ScanContinuous(ctx, results) }()

	for result := range results {
		printScan(result, conf)
	}
	if err := <-errc; err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// printScan shows one character per channel under a tens ruler
func printScan(r *scanner.ScanResult, conf *scanner.ScanConfig) {
	var ruler strings.Builder
	for ch := r.FirstChannel; ch < r.FirstChannel+len(r.Hits); ch++ {
		if ch%10 == 0 {
			ruler.WriteByte(byte('0' + (ch/10)%10))
		} else {
			ruler.WriteByte(' ')
		}
	}
	fmt.Printf("[%s] channels %d-%d, %d sweeps\n", r.Timestamp.Format("15:04:05.000"), conf.FirstChannel, conf.LastChannel, r.Sweeps)
	fmt.Println(ruler.String())
	fmt.Println(r.Bar())

	busy := r.Busy(conf.HitThreshold)
	if len(busy) == 0 {
		fmt.Println("no busy channels")
		return
	}
	parts := make([]string, len(busy))
	for i, ch := range busy {
		parts[i] = fmt.Sprintf("%d (%d MHz, %d/%d)", ch, scanner.ChannelFrequencyMHz(ch), r.HitsOn(ch), r.Sweeps)
	}
	fmt.Printf("busy: %s\n", strings.Join(parts, ", "))
}
