// Package profiles provides pre-defined radio configuration profiles for the nRF24L01.
// Each profile is a combination of channel, data rate, power and retry policy
// suited to a particular link, and expands to a full nrf24.Config.
package profiles

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/herlein/gonrf/pkg/nrf24"
	"github.com/herlein/gonrf/pkg/registers"
)

// Profile represents a complete radio configuration profile
type Profile struct {
	Name        string `json:"name"`
	Description string `json:"description"`

	Channel  int                `json:"channel"`
	DataRate registers.DataRate `json:"data_rate"`
	PowerDBm int                `json:"power_dbm"`

	// Auto-retransmit
	RetryDelayUS int  `json:"retry_delay_us"`
	RetryCount   int  `json:"retry_count"`
	AutoAck      bool `json:"auto_ack"`

	PayloadSize int  `json:"payload_size"`
	CRC2Bytes   bool `json:"crc_2_bytes"`
}

// ProfileConfig is the JSON format for storing profile configurations
type ProfileConfig struct {
	Profile   Profile               `json:"profile"`
	Registers registers.RegisterMap `json:"registers"`
	Timestamp time.Time             `json:"timestamp"`
}

// ToConfig expands the profile over the driver defaults. Addresses, poll
// timing and settle delay keep their default values.
func (p *Profile) ToConfig() *nrf24.Config {
	c := nrf24.DefaultConfig()
	c.Channel = p.Channel
	c.DataRate = p.DataRate
	c.PowerDBm = p.PowerDBm
	c.RetryDelay = time.Duration(p.RetryDelayUS) * time.Microsecond
	c.RetryCount = p.RetryCount
	c.AutoAck = p.AutoAck
	c.PayloadSize = p.PayloadSize
	c.CRC2Bytes = p.CRC2Bytes
	return c
}

// Validate checks that the profile expands to a usable configuration
func (p *Profile) Validate() error {
	if err := p.ToConfig().Validate(); err != nil {
		return fmt.Errorf("profile %s: %w", p.Name, err)
	}
	return nil
}

// ToRegisters returns the register image a radio holds after Init with
// this profile, for comparison against a device snapshot
func (p *Profile) ToRegisters() *registers.RegisterMap {
	c := p.ToConfig()
	reg := &registers.RegisterMap{}

	reg.CONFIG = uint8(c.BaseConfig() | registers.PwrUp)
	if c.AutoAck {
		reg.EN_AA = uint8(registers.P0)
	}
	reg.EN_RXADDR = uint8(registers.P0)
	reg.SETUP_AW = registers.SetupAW5Bytes
	reg.SETUP_RETR = uint8(c.SetupRetr())
	reg.RF_CH = uint8(c.Channel)
	reg.RF_SETUP = uint8(c.RFSetup())
	reg.RX_PW_P0 = uint8(c.PayloadSize)
	reg.RX_ADDR_P0 = c.RxAddress
	reg.TX_ADDR = c.TxAddress
	return reg
}

// SaveToFile saves a profile configuration to a JSON file
func (p *Profile) SaveToFile(path string) error {
	config := ProfileConfig{
		Profile:   *p,
		Registers: *p.ToRegisters(),
		Timestamp: time.Now(),
	}

	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal profile: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// LoadProfileFromFile loads a profile configuration from a JSON file
func LoadProfileFromFile(path string) (*ProfileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile file: %w", err)
	}

	var config ProfileConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal profile: %w", err)
	}
	return &config, nil
}

// GenerateProfiles writes every built-in profile to basePath/<name>.json
func GenerateProfiles(basePath string) error {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	for _, p := range All() {
		filename := filepath.Join(basePath, p.Name+".json")
		if err := p.SaveToFile(filename); err != nil {
			return fmt.Errorf("failed to save profile %s: %w", p.Name, err)
		}
	}
	return nil
}
