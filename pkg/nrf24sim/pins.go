package nrf24sim

import "github.com/herlein/gonrf/pkg/registers"

// Pin is one of the chip's control lines
type Pin struct {
	chip *Chip
	set  func(c *Chip, high bool)
}

// Set drives the line
func (p *Pin) Set(high bool) error {
	p.chip.mu.Lock()
	defer p.chip.mu.Unlock()
	p.set(p.chip, high)
	return nil
}

// CSN returns the active-low chip-select line
func (c *Chip) CSN() *Pin {
	return &Pin{chip: c, set: func(c *Chip, high bool) {
		switch {
		case !high && !c.selected:
			c.selected = true
			c.pos = 0
		case high && c.selected:
			c.selected = false
			c.endFrame()
		}
	}}
}

// CE returns the chip-enable line
func (c *Chip) CE() *Pin {
	return &Pin{chip: c, set: func(c *Chip, high bool) {
		c.ceHistory = append(c.ceHistory, high)
		c.ce = high
		if high {
			c.startTX()
			return
		}
		// A packet nobody will ever answer is abandoned when CE drops
		if c.pending < 0 {
			c.onAir = false
		}
	}}
}

// IRQPin is the chip's active-low interrupt output
type IRQPin struct {
	chip *Chip
}

// IRQ returns the interrupt line. It is low while any latched flag not
// masked in CONFIG is set.
func (c *Chip) IRQ() *IRQPin {
	return &IRQPin{chip: c}
}

// Read samples the line
func (p *IRQPin) Read() bool {
	p.chip.mu.Lock()
	defer p.chip.mu.Unlock()
	mask := registers.Status(p.chip.regs[registers.RegCONFIG]) & registers.IRQFlags
	return p.chip.flags&registers.IRQFlags&^mask == 0
}
