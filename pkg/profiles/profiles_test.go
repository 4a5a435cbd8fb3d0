package profiles

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/herlein/gonrf/pkg/nrf24"
	"github.com/herlein/gonrf/pkg/nrf24sim"
)

func TestDefaultMatchesDriverDefaults(t *testing.T) {
	assert.Equal(t, nrf24.DefaultConfig(), NewDefault().ToConfig())
}

func TestAllValid(t *testing.T) {
	seen := map[string]bool{}
	for _, p := range All() {
		assert.NoError(t, p.Validate(), p.Name)
		assert.False(t, seen[p.Name], "duplicate %s", p.Name)
		seen[p.Name] = true
	}
	assert.True(t, seen[DefaultName])
}

func TestGet(t *testing.T) {
	p, err := Get("fast-ch76")
	require.NoError(t, err)
	assert.Equal(t, 32, p.PayloadSize)
	assert.Equal(t, 250*time.Microsecond, p.ToConfig().RetryDelay)

	_, err = Get("nope")
	assert.Error(t, err)
}

// The register image a profile predicts is what Init actually programs
func TestToRegistersMatchesInit(t *testing.T) {
	for _, p := range All() {
		chip := nrf24sim.New()
		dev, err := nrf24.New(chip, chip.CSN(), chip.CE(), nil, p.ToConfig(), nrf24.WithSleep(func(time.Duration) {}))
		require.NoError(t, err, p.Name)
		require.NoError(t, dev.Init(), p.Name)

		snap, err := dev.Snapshot()
		require.NoError(t, err)
		want := p.ToRegisters()

		assert.Equal(t, want.CONFIG, snap.CONFIG, p.Name)
		assert.Equal(t, want.EN_AA, snap.EN_AA, p.Name)
		assert.Equal(t, want.SETUP_RETR, snap.SETUP_RETR, p.Name)
		assert.Equal(t, want.RF_CH, snap.RF_CH, p.Name)
		assert.Equal(t, want.RF_SETUP, snap.RF_SETUP, p.Name)
		assert.Equal(t, want.RX_PW_P0, snap.RX_PW_P0, p.Name)
		assert.Equal(t, want.RX_ADDR_P0, snap.RX_ADDR_P0, p.Name)
	}
}

func TestSaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, GenerateProfiles(dir))

	loaded, err := LoadProfileFromFile(filepath.Join(dir, "longrange-ch76.json"))
	require.NoError(t, err)
	assert.Equal(t, *NewLongRange(76), loaded.Profile)
	assert.Equal(t, uint8(76), loaded.Registers.RF_CH)
	assert.Equal(t, uint8(0x26), loaded.Registers.RF_SETUP)
}
