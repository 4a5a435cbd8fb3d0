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

	"github.com/herlein/gonrf/pkg/nrf24"
)

var (
	cmdSend = &cobra.Command{
		Use:   "send",
		Short: "Transmit a payload",
		Long:  `Transmit a payload and report Success, Failed or TimedOut for each attempt. The payload is zero-padded to the configured payload size.`,
		RunE:  runSend,
	}
)

var sendHex string
var sendData string
var sendRepeat int
var sendInterval time.Duration

func init() {
	rootCmd.AddCommand(cmdSend)
	cmdSend.Flags().StringVarP(&sendHex, "hex", "x", "", "Payload as hex (default 01 02 03 ...)")
	cmdSend.Flags().StringVar(&sendData, "data", "", "Payload as ASCII")
	cmdSend.Flags().IntVarP(&sendRepeat, "repeat", "n", 1, "Number of transmissions (0 = until interrupted)")
	cmdSend.Flags().DurationVarP(&sendInterval, "interval", "i", time.Second, "Delay between transmissions")
}

// buildPayload pads the requested bytes to size. With nothing requested it
// counts up from 1.
func buildPayload(size int) ([]byte, error) {
	payload := make([]byte, size)
	var data []byte
	switch {
	case sendHex != "":
		var err error
		if data, err = hex.DecodeString(sendHex); err != nil {
			return nil, fmt.Errorf("invalid hex payload: %w", err)
		}
	case sendData != "":
		data = []byte(sendData)
	default:
		for i := range payload {
			payload[i] = byte(i + 1)
		}
		return payload, nil
	}
	if len(data) > size {
		return nil, fmt.Errorf("%w: %d bytes exceeds payload size %d", nrf24.ErrPayloadSize, len(data), size)
	}
	copy(payload, data)
	return payload, nil
}

func runSend(cmd *cobra.Command, _ []string) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	payload, err := buildPayload(s.config.PayloadSize)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	counts := make(map[nrf24.Outcome]int)
	start := time.Now()
	for n := 1; ; n++ {
		outcome, err := s.dev.Transmit(payload)
		if err != nil {
			return fmt.Errorf("transmit failed: %w", err)
		}
		counts[outcome]++
		fmt.Printf("[%s] #%d %s %s\n", time.Now().Format("15:04:05.000"), n, hex.EncodeToString(payload), outcome)

		if sendRepeat != 0 && n >= sendRepeat {
			break
		}
		if !wait(ctx, sendInterval) {
			break
		}
	}

	fmt.Printf("\n%d sent, %d failed, %d timed out in %v\n",
		counts[nrf24.Success], counts[nrf24.Failed], counts[nrf24.TimedOut], time.Since(start).Round(time.Millisecond))
	return nil
}

// wait sleeps for d and reports false if ctx ended first
func wait(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
