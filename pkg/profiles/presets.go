package profiles

import (
	"fmt"
	"sort"

	"github.com/herlein/gonrf/pkg/registers"
)

// DefaultName is the profile matching nrf24.DefaultConfig
const DefaultName = "default"

// NewDefault creates the stock profile: channel 3, 1 Mbps, 0 dBm,
// 1000 µs x 15 retries, 8-byte payload
func NewDefault() *Profile {
	return &Profile{
		Name:         DefaultName,
		Description:  "Channel 3, 1 Mbps, 0 dBm, 8-byte payload, 15 retries at 1000 µs",
		Channel:      3,
		DataRate:     registers.DataRate1Mbps,
		PowerDBm:     0,
		RetryDelayUS: 1000,
		RetryCount:   15,
		AutoAck:      true,
		PayloadSize:  8,
		CRC2Bytes:    true,
	}
}

// NewLongRange creates a 250 kbps profile for maximum distance. At 250 kbps
// an ACK payload needs at least 500 µs, so the retry delay is stretched.
func NewLongRange(channel int) *Profile {
	return &Profile{
		Name:         fmt.Sprintf("longrange-ch%d", channel),
		Description:  fmt.Sprintf("Channel %d, 250 kbps, 0 dBm, 15 retries at 1500 µs", channel),
		Channel:      channel,
		DataRate:     registers.DataRate250kbps,
		PowerDBm:     0,
		RetryDelayUS: 1500,
		RetryCount:   15,
		AutoAck:      true,
		PayloadSize:  8,
		CRC2Bytes:    true,
	}
}

// NewFast creates a 2 Mbps profile with full-width payloads for throughput
func NewFast(channel int) *Profile {
	return &Profile{
		Name:         fmt.Sprintf("fast-ch%d", channel),
		Description:  fmt.Sprintf("Channel %d, 2 Mbps, 32-byte payload, 5 retries at 250 µs", channel),
		Channel:      channel,
		DataRate:     registers.DataRate2Mbps,
		PowerDBm:     0,
		RetryDelayUS: 250,
		RetryCount:   5,
		AutoAck:      true,
		PayloadSize:  32,
		CRC2Bytes:    true,
	}
}

// NewLowPower creates a -18 dBm profile for bench work with radios close by
func NewLowPower(channel int) *Profile {
	return &Profile{
		Name:         fmt.Sprintf("lowpower-ch%d", channel),
		Description:  fmt.Sprintf("Channel %d, 1 Mbps, -18 dBm, 3 retries at 500 µs", channel),
		Channel:      channel,
		DataRate:     registers.DataRate1Mbps,
		PowerDBm:     -18,
		RetryDelayUS: 500,
		RetryCount:   3,
		AutoAck:      true,
		PayloadSize:  8,
		CRC2Bytes:    false,
	}
}

// NewBroadcast creates a fire-and-forget profile without auto-ack. Every
// transmit completes with TX_DS as soon as the packet is on air.
func NewBroadcast(channel int) *Profile {
	return &Profile{
		Name:         fmt.Sprintf("broadcast-ch%d", channel),
		Description:  fmt.Sprintf("Channel %d, 1 Mbps, no auto-ack", channel),
		Channel:      channel,
		DataRate:     registers.DataRate1Mbps,
		PowerDBm:     0,
		RetryDelayUS: 250,
		RetryCount:   0,
		AutoAck:      false,
		PayloadSize:  8,
		CRC2Bytes:    true,
	}
}

// All returns every built-in profile, sorted by name
func All() []*Profile {
	profiles := []*Profile{
		NewDefault(),
		NewLongRange(76),
		NewLongRange(110),
		NewFast(76),
		NewFast(100),
		NewLowPower(3),
		NewBroadcast(3),
		NewBroadcast(76),
	}
	sort.Slice(profiles, func(i, j int) bool { return profiles[i].Name < profiles[j].Name })
	return profiles
}

// Get returns the built-in profile with the given name
func Get(name string) (*Profile, error) {
	for _, p := range All() {
		if p.Name == name {
			return p, nil
		}
	}
	return nil, fmt.Errorf("unknown profile %q", name)
}
