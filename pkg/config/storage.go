package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/zclconf/go-cty/cty"

	"github.com/herlein/gonrf/pkg/nrf24"
	"github.com/herlein/gonrf/pkg/registers"
)

// ReadFile loads a session file
func ReadFile(path string) (*FileSchema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	s := new(FileSchema)
	if err := s.Decode(data, path); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return s, nil
}

// Encode renders a complete radio block for c. Every attribute is written
// so the file does not depend on defaults that may change.
func Encode(name string, c *nrf24.Config) []byte {
	f := hclwrite.NewEmptyFile()
	body := f.Body().AppendNewBlock("radio", []string{name}).Body()

	crc := int64(1)
	if c.CRC2Bytes {
		crc = 2
	}
	body.SetAttributeValue("channel", cty.NumberIntVal(int64(c.Channel)))
	body.SetAttributeValue("data_rate", cty.StringVal(c.DataRate.String()))
	body.SetAttributeValue("power_dbm", cty.NumberIntVal(int64(c.PowerDBm)))
	body.SetAttributeValue("retry_delay", cty.StringVal(c.RetryDelay.String()))
	body.SetAttributeValue("retry_count", cty.NumberIntVal(int64(c.RetryCount)))
	body.SetAttributeValue("payload_size", cty.NumberIntVal(int64(c.PayloadSize)))
	body.SetAttributeValue("auto_ack", cty.BoolVal(c.AutoAck))
	body.SetAttributeValue("crc_bytes", cty.NumberIntVal(crc))
	body.SetAttributeValue("tx_address", cty.StringVal(c.TxAddress.String()))
	body.SetAttributeValue("rx_address", cty.StringVal(c.RxAddress.String()))
	body.SetAttributeValue("poll_interval", cty.StringVal(c.PollInterval.String()))
	body.SetAttributeValue("tx_timeout", cty.StringVal(c.TxTimeout.String()))
	return f.Bytes()
}

// SaveToFile writes a single-radio session file
func SaveToFile(name string, c *nrf24.Config, path string) error {
	directory := filepath.Dir(path)
	if err := os.MkdirAll(directory, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	if err := os.WriteFile(path, Encode(name, c), 0644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}

// GetConfigPath returns the conventional location of a radio's session file
func GetConfigPath(name string) string {
	return filepath.Join("etc", "nrf24", fmt.Sprintf("%s.hcl", name))
}

// Dump is a register snapshot taken from a live radio
type Dump struct {
	Radio     string                `json:"radio"`
	Timestamp time.Time             `json:"timestamp"`
	Registers registers.RegisterMap `json:"registers"`
}

// SaveDump writes a register snapshot as JSON
func SaveDump(dump *Dump, path string) error {
	directory := filepath.Dir(path)
	if err := os.MkdirAll(directory, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	data, err := json.MarshalIndent(dump, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal dump: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}

// LoadDump reads a register snapshot written by SaveDump
func LoadDump(path string) (*Dump, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	var dump Dump
	if err := json.Unmarshal(data, &dump); err != nil {
		return nil, fmt.Errorf("failed to unmarshal dump: %w", err)
	}
	return &dump, nil
}
