package machine

import "github.com/bdwalton/c64emu/cia"

// IO fronts the PLA's I/O slot: the PLA hands it full absolute
// addresses (it is address-aware and needs no base subtraction), and
// IO routes each one to the CIA instance that owns it. $DC00-$DCFF is
// CIA #1, $DD00-$DDFF is CIA #2; anything else in the I/O band
// (VIC-II/SID registers, colour RAM) is outside this emulator's scope
// and reads as 0.
type IO struct {
	CIA1, CIA2 *cia.CIA
}

// NewIO returns an I/O device fronting cia1 and cia2.
func NewIO(cia1, cia2 *cia.CIA) *IO {
	return &IO{CIA1: cia1, CIA2: cia2}
}

func (io *IO) Read(addr uint16) uint8 {
	switch {
	case addr >= 0xDC00 && addr <= 0xDCFF:
		return io.CIA1.Read(addr - 0xDC00)
	case addr >= 0xDD00 && addr <= 0xDDFF:
		return io.CIA2.Read(addr - 0xDD00)
	default:
		return 0
	}
}

func (io *IO) Write(addr uint16, v uint8) {
	switch {
	case addr >= 0xDC00 && addr <= 0xDCFF:
		io.CIA1.Write(addr-0xDC00, v)
	case addr >= 0xDD00 && addr <= 0xDDFF:
		io.CIA2.Write(addr-0xDD00, v)
	}
}
