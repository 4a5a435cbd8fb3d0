package nrf24

import (
	"fmt"
	"time"

	"github.com/herlein/gonrf/pkg/registers"
)

// Outcome is the terminal result of one transmission
type Outcome int

const (
	// Success means TX_DS was raised: the peer acknowledged, or auto-ack is off
	Success Outcome = iota + 1
	// Failed means MAX_RT was raised: every automatic retransmit went unacknowledged
	Failed
	// TimedOut means neither flag was raised within the poll budget
	TimedOut
)

func (o Outcome) String() string {
	switch o {
	case Success:
		return "Success"
	case Failed:
		return "Failed"
	case TimedOut:
		return "TimedOut"
	}
	return "Unknown"
}

// State is a step of the transmit sequence, used for logging
type State int

const (
	StateIdle State = iota
	StateFlushing
	StateAddressingAndLoading
	StateTransmitting
	StatePolling
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StateFlushing:
		return "Flushing"
	case StateAddressingAndLoading:
		return "AddressingAndLoading"
	case StateTransmitting:
		return "Transmitting"
	case StatePolling:
		return "Polling"
	}
	return "Unknown"
}

func (d *Device) enter(s State) {
	if d.log != nil {
		d.log.Trace().Str("radio", d.name).Str("state", s.String()).Msg("transmit")
	}
}

// Transmit sends one payload to the configured TX address and waits for the
// chip to report completion. len(payload) must equal Config.PayloadSize.
//
// The returned error is non-nil only for a bus or pin fault, in which case
// the Outcome is zero. CE is dropped and receive mode restored on every exit.
func (d *Device) Transmit(payload []byte) (Outcome, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.initialized {
		return 0, ErrNotInitialized
	}
	if len(payload) != d.config.PayloadSize {
		return 0, fmt.Errorf("%w: got %d, want %d", ErrPayloadSize, len(payload), d.config.PayloadSize)
	}

	start := time.Now()
	outcome, polls, err := d.transmit(payload)
	elapsed := time.Since(start)

	if d.recorder != nil && err == nil {
		d.recorder.ObserveTransmit(outcome, polls, elapsed)
	}
	if d.log != nil {
		switch {
		case err != nil:
			d.log.Error().Str("radio", d.name).Err(err).Msg("transmit bus fault")
		case outcome == Success:
			d.log.Debug().Str("radio", d.name).Str("outcome", outcome.String()).Int("polls", polls).Msg("transmit complete")
		default:
			d.log.Warn().Str("radio", d.name).Str("outcome", outcome.String()).Int("polls", polls).
				Str("tx_addr", d.config.TxAddress.String()).Msg("transmit complete")
		}
	}
	return outcome, err
}

func (d *Device) transmit(payload []byte) (outcome Outcome, polls int, err error) {
	d.enter(StateFlushing)
	if _, err = d.strobe(registers.CmdFlushTX); err != nil {
		return 0, 0, err
	}
	if _, err = d.strobe(registers.CmdFlushRX); err != nil {
		return 0, 0, err
	}
	if err = d.clearStatus(registers.TxDS | registers.MaxRT); err != nil {
		return 0, 0, err
	}
	if d.config.AutoAck {
		// EN_AA is re-written before every send
		if err = d.writeRegister(registers.RegEN_AA, byte(registers.P0)); err != nil {
			return 0, 0, err
		}
	}

	d.enter(StateAddressingAndLoading)
	if err = d.writeRegisterMulti(registers.RegTX_ADDR, d.config.TxAddress[:]); err != nil {
		return 0, 0, err
	}
	if err = d.writeRegisterMulti(registers.RegRX_ADDR_P0, d.config.RxAddress[:]); err != nil {
		return 0, 0, err
	}
	if err = d.transfer(byte(registers.CmdWritePayload), payload, nil); err != nil {
		return 0, 0, err
	}

	d.enter(StateTransmitting)
	rx := d.shadow | registers.PrimRx
	defer func() {
		if cerr := d.ce.Set(false); cerr != nil && err == nil {
			outcome, err = 0, fmt.Errorf("failed to set CE low: %w", cerr)
		}
		if cerr := d.setConfig(rx); cerr != nil && err == nil {
			outcome, err = 0, fmt.Errorf("failed to restore receive mode: %w", cerr)
		}
		d.enter(StateIdle)
	}()
	if err = d.setConfig(rx &^ registers.PrimRx); err != nil {
		return 0, 0, err
	}
	if err = d.ce.Set(true); err != nil {
		return 0, 0, fmt.Errorf("failed to set CE high: %w", err)
	}

	d.enter(StatePolling)
	for remaining := d.config.TxTimeout; remaining > 0; remaining -= d.config.PollInterval {
		status, err := d.status()
		if err != nil {
			return 0, polls, err
		}
		polls++
		switch {
		case status&registers.MaxRT != 0:
			outcome = Failed
		case status&registers.TxDS != 0:
			outcome = Success
		default:
			if remaining > d.config.PollInterval {
				d.sleep(d.config.PollInterval)
			}
			continue
		}
		if err := d.clearStatus(status & (registers.MaxRT | registers.TxDS)); err != nil {
			return 0, polls, err
		}
		return outcome, polls, nil
	}
	return TimedOut, polls, nil
}

// RetryLimitReached reports whether MAX_RT is latched in STATUS
func (d *Device) RetryLimitReached() (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	status, err := d.status()
	if err != nil {
		return false, err
	}
	return status&registers.MaxRT != 0, nil
}
