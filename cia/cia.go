// Package cia implements the 6526 complex interface adapter: the
// 16-register peripheral providing ports, timers and a time-of-day
// clock. Two instances exist in a C64; only #1 is wired to a
// Keyboard.
package cia

import "sync"

// Register offsets within the 16-byte window.
const (
	RegPortA = 0x00
	RegPortB = 0x01
	RegDDRA  = 0x02
	RegDDRB  = 0x03
	RegTimerALo = 0x04
	RegTimerAHi = 0x05
	RegTimerBLo = 0x06
	RegTimerBHi = 0x07
	RegTODTenth = 0x08
	RegTODSec   = 0x09
	RegTODMin   = 0x0A
	RegTODHour  = 0x0B
	RegSDR      = 0x0C
	RegICR      = 0x0D
	RegCRA      = 0x0E
	RegCRB      = 0x0F
)

const windowSize = 16

// CIA is one 6526 instance: a 16-byte register file mirrored across
// its 256-byte page, plus two free-running timers and a TOD clock.
// Keyboard is nil on instances that don't drive a keyboard matrix
// (CIA #2).
type CIA struct {
	mu   sync.Mutex
	regs [windowSize]uint8

	timerA, timerB uint16
	tod            *TOD

	Keyboard *Keyboard
}

// New returns a CIA with registers reset to $00 except the port-A
// data-direction register, which defaults to $FF.
func New() *CIA {
	c := &CIA{tod: NewTOD()}
	c.regs[RegDDRA] = 0xFF
	return c
}

// NewWithKeyboard returns a CIA #1-shaped instance: same reset
// defaults, wired to kb so writes to port A drive a matrix scan.
func NewWithKeyboard(kb *Keyboard) *CIA {
	c := New()
	c.Keyboard = kb
	return c
}

// Read returns the byte at addr, mirrored every 16 bytes.
func (c *CIA) Read(addr uint16) uint8 {
	c.mu.Lock()
	defer c.mu.Unlock()

	reg := addr % windowSize
	switch reg {
	case RegTimerALo:
		return uint8(c.timerA)
	case RegTimerAHi:
		return uint8(c.timerA >> 8)
	case RegTimerBLo:
		return uint8(c.timerB)
	case RegTimerBHi:
		return uint8(c.timerB >> 8)
	case RegTODTenth:
		return c.tod.Tenth()
	case RegTODSec:
		return c.tod.Second()
	case RegTODMin:
		return c.tod.Minute()
	case RegTODHour:
		return c.tod.Hour()
	case RegPortB:
		return c.regs[RegPortB]
	default:
		return c.regs[reg]
	}
}

// Write stores val at addr (mirrored every 16 bytes). A write to port
// A ($00) on a keyboard-wired instance drives a keyboard scan and
// latches the resulting row byte into port B.
func (c *CIA) Write(addr uint16, val uint8) {
	c.mu.Lock()
	defer c.mu.Unlock()

	reg := addr % windowSize
	switch reg {
	case RegPortA:
		c.regs[RegPortA] = val
		if c.Keyboard != nil {
			c.regs[RegPortB] = c.Keyboard.Scan(val, c.regs[RegPortB])
		}
	case RegTimerALo:
		c.timerA = c.timerA&0xFF00 | uint16(val)
	case RegTimerAHi:
		c.timerA = c.timerA&0x00FF | uint16(val)<<8
	case RegTimerBLo:
		c.timerB = c.timerB&0xFF00 | uint16(val)
	case RegTimerBHi:
		c.timerB = c.timerB&0x00FF | uint16(val)<<8
	case RegTODTenth:
		c.tod.SetTenth(val)
	case RegTODSec:
		c.tod.SetSecond(val)
	case RegTODMin:
		c.tod.SetMinute(val)
	case RegTODHour:
		c.tod.SetHour(val)
	default:
		c.regs[reg] = val
	}
}

// Reset zeroes both free-running timers, as a cold-boot machine reset
// would. The register file, TOD clock and any held keyboard state are
// left untouched: a 6526's port/DDR latches and its TOD clock survive
// a reset, only the timer latches are cleared.
func (c *CIA) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.timerA = 0
	c.timerB = 0
}

// Tick advances both timers by one count, wrapping. Coarse, driven by
// the machine's step loop; no underflow interrupts are fired at this
// scope.
func (c *CIA) Tick() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.timerA--
	c.timerB--
}

// AgeKeyboard lets the jiffy loop advance keyboard key aging
// independent of a column strobe (real hardware only ages on scan,
// but the runtime's jiffy tick is the natural place to keep the
// keyboard's aging "alive" between ROM polls).
func (c *CIA) AgeKeyboard() {
	if c.Keyboard == nil {
		return
	}
	c.Keyboard.Age()
}
