// Package config reads and writes radio session files in HCL. A file holds
// one or more named radio blocks:
//
//	radio "bench" {
//	  backend    = "ch341"
//	  profile    = "longrange-ch76"
//	  channel    = 40
//	  tx_address = "E7 E7 E7 E7 E7"
//	}
//
// Attributes left out fall back to the named profile, or to the driver
// defaults when no profile is given.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclsyntax"

	"github.com/herlein/gonrf/pkg/nrf24"
	"github.com/herlein/gonrf/pkg/profiles"
	"github.com/herlein/gonrf/pkg/registers"
)

// ErrRadioNotFound is returned when a file has no radio block with the requested name
var ErrRadioNotFound = errors.New("radio not found in configuration")

// FileSchema is the top level of a session file
type FileSchema struct {
	Radio []*RadioSchema `hcl:"radio,block"`
}

// RadioSchema is one radio block. Pointer fields are optional.
type RadioSchema struct {
	Name    string  `hcl:"name,label"`
	Profile *string `hcl:"profile,optional"`

	// Where the radio is attached
	Backend *string `hcl:"backend,optional"`
	Device  *string `hcl:"device,optional"`
	SPIPort *string `hcl:"spi_port,optional"`
	CSN     *string `hcl:"csn,optional"`
	CE      *string `hcl:"ce,optional"`
	IRQ     *string `hcl:"irq,optional"`

	Channel      *int    `hcl:"channel,optional"`
	DataRate     *string `hcl:"data_rate,optional"`
	PowerDBm     *int    `hcl:"power_dbm,optional"`
	RetryDelay   *string `hcl:"retry_delay,optional"`
	RetryCount   *int    `hcl:"retry_count,optional"`
	PayloadSize  *int    `hcl:"payload_size,optional"`
	AutoAck      *bool   `hcl:"auto_ack,optional"`
	CRCBytes     *int    `hcl:"crc_bytes,optional"`
	TxAddress    *string `hcl:"tx_address,optional"`
	RxAddress    *string `hcl:"rx_address,optional"`
	PollInterval *string `hcl:"poll_interval,optional"`
	TxTimeout    *string `hcl:"tx_timeout,optional"`
}

// Decode parses HCL source into the schema
func (s *FileSchema) Decode(data []byte, filename string) error {
	file, diag := hclsyntax.ParseConfig(data, filename, hcl.Pos{Line: 1, Column: 1})
	if diag.HasErrors() {
		return diag.Errs()[0]
	}

	diag = gohcl.DecodeBody(file.Body, nil, s)
	if diag.HasErrors() {
		return diag.Errs()[0]
	}

	seen := make(map[string]bool)
	for _, r := range s.Radio {
		if seen[r.Name] {
			return fmt.Errorf("duplicate radio %q", r.Name)
		}
		seen[r.Name] = true
	}
	return nil
}

// Find returns the radio block with the given name. An empty name selects
// the only block of a single-radio file.
func (s *FileSchema) Find(name string) (*RadioSchema, error) {
	if name == "" && len(s.Radio) == 1 {
		return s.Radio[0], nil
	}
	for _, r := range s.Radio {
		if r.Name == name {
			return r, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrRadioNotFound, name)
}

// Config resolves the block into a validated driver configuration
func (r *RadioSchema) Config() (*nrf24.Config, error) {
	c := nrf24.DefaultConfig()
	if r.Profile != nil {
		p, err := profiles.Get(*r.Profile)
		if err != nil {
			return nil, err
		}
		c = p.ToConfig()
	}

	if r.Channel != nil {
		c.Channel = *r.Channel
	}
	if r.DataRate != nil {
		rate, err := registers.ParseDataRate(*r.DataRate)
		if err != nil {
			return nil, err
		}
		c.DataRate = rate
	}
	if r.PowerDBm != nil {
		c.PowerDBm = *r.PowerDBm
	}
	if r.RetryCount != nil {
		c.RetryCount = *r.RetryCount
	}
	if r.PayloadSize != nil {
		c.PayloadSize = *r.PayloadSize
	}
	if r.AutoAck != nil {
		c.AutoAck = *r.AutoAck
	}
	if r.CRCBytes != nil {
		switch *r.CRCBytes {
		case 1:
			c.CRC2Bytes = false
		case 2:
			c.CRC2Bytes = true
		default:
			return nil, fmt.Errorf("%w: crc_bytes must be 1 or 2", nrf24.ErrInvalidConfig)
		}
	}

	durations := []struct {
		name string
		src  *string
		dst  *time.Duration
	}{
		{"retry_delay", r.RetryDelay, &c.RetryDelay},
		{"poll_interval", r.PollInterval, &c.PollInterval},
		{"tx_timeout", r.TxTimeout, &c.TxTimeout},
	}
	for _, d := range durations {
		if d.src == nil {
			continue
		}
		v, err := time.ParseDuration(*d.src)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", d.name, err)
		}
		*d.dst = v
	}

	addresses := []struct {
		name string
		src  *string
		dst  *nrf24.Address
	}{
		{"tx_address", r.TxAddress, &c.TxAddress},
		{"rx_address", r.RxAddress, &c.RxAddress},
	}
	for _, a := range addresses {
		if a.src == nil {
			continue
		}
		v, err := nrf24.ParseAddress(*a.src)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", a.name, err)
		}
		*a.dst = v
	}
	// A lone tx_address implies the matching pipe-0 address auto-ack needs
	if r.TxAddress != nil && r.RxAddress == nil {
		c.RxAddress = c.TxAddress
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("radio %q: %w", r.Name, err)
	}
	return c, nil
}

// Str returns the value of an optional string attribute or def
func Str(v *string, def string) string {
	if v == nil {
		return def
	}
	return *v
}
