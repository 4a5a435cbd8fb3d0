package main

import (
	"context"
	"encoding/hex"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/herlein/gonrf/pkg/nrf24sim"
)

var (
	cmdRecv = &cobra.Command{
		Use:   "recv",
		Short: "Listen for payloads",
		Long:  `Raise CE in receive mode and print every payload that arrives on pipe 0 until interrupted.`,
		RunE:  runRecv,
	}
)

var recvCount int
var recvPoll time.Duration
var recvRaw bool
var recvSimEvery time.Duration

func init() {
	rootCmd.AddCommand(cmdRecv)
	cmdRecv.Flags().IntVarP(&recvCount, "count", "n", 0, "Number of payloads to receive (0 = infinite)")
	cmdRecv.Flags().DurationVar(&recvPoll, "poll", 10*time.Millisecond, "Data-ready poll interval")
	cmdRecv.Flags().BoolVar(&recvRaw, "raw", false, "Output raw hex only (for piping)")
	cmdRecv.Flags().DurationVar(&recvSimEvery, "sim-every", 500*time.Millisecond, "Interval between simulated arrivals (sim backend)")
}

func runRecv(cmd *cobra.Command, _ []string) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := s.dev.StartListening(); err != nil {
		return err
	}
	defer s.dev.StopListening()

	if s.chip != nil {
		go simulateArrivals(ctx, s.chip, recvSimEvery)
	}

	if !recvRaw {
		fmt.Println("Listening for payloads (Ctrl+C to stop)...")
		fmt.Println()
	}

	buf := make([]byte, s.config.PayloadSize)
	received := 0
	start := time.Now()
	for {
		ready, err := s.dev.DataReady()
		if err != nil {
			return err
		}
		if !ready {
			if !wait(ctx, recvPoll) {
				break
			}
			continue
		}

		if err := s.dev.Receive(buf); err != nil {
			return err
		}
		received++

		if recvRaw {
			fmt.Println(hex.EncodeToString(buf))
		} else {
			fmt.Printf("[%s] Payload #%d (%d bytes)\n", time.Now().Format("15:04:05.000"), received, len(buf))
			fmt.Printf("  Hex:   %s\n", hex.EncodeToString(buf))
			fmt.Printf("  ASCII: %s\n\n", makePrintable(buf))
		}

		if recvCount > 0 && received >= recvCount {
			break
		}
	}

	if !recvRaw {
		fmt.Printf("Received %d payloads in %v\n", received, time.Since(start).Round(time.Second))
	}
	return nil
}

// simulateArrivals plays the far end for the sim backend, sending a
// counter payload every interval
func simulateArrivals(ctx context.Context, chip *nrf24sim.Chip, every time.Duration) {
	var seq byte
	for wait(ctx, every) {
		seq++
		chip.Inject([]byte{seq, seq + 1, seq + 2, seq + 3, seq + 4, seq + 5, seq + 6, seq + 7})
	}
}

// makePrintable replaces non-printable bytes with '.'
func makePrintable(data []byte) string {
	result := make([]byte, len(data))
	for i, b := range data {
		if b >= 32 && b < 127 {
			result[i] = b
		} else {
			result[i] = '.'
		}
	}
	return string(result)
}
