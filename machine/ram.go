package machine

// RAM is the machine's flat 64 KiB backing array. Cell $0000 holds
// the processor port's data-direction bits; cell $0001 holds the
// port value itself (both are ordinary RAM cells from the PLA's
// point of view — it just happens to read them to pick a bank).
type RAM struct {
	data [65536]byte
}

// NewRAM returns a zeroed 64 KiB RAM.
func NewRAM() *RAM {
	return &RAM{}
}

func (r *RAM) Read(addr uint16) uint8 {
	return r.data[addr]
}

func (r *RAM) Write(addr uint16, v uint8) {
	r.data[addr] = v
}

// LoadAt copies data into RAM starting at addr, wrapping per the
// underlying array's width (a load that runs past $FFFF wraps to
// $0000, matching how the 65xx address bus itself would behave).
func (r *RAM) LoadAt(addr uint16, data []byte) {
	for i, b := range data {
		r.data[addr+uint16(i)] = b
	}
}

// ROM is a read-only device: writes are dropped, since the PLA never
// routes a write to a ROM slot in the first place — this is just
// belt-and-braces for any other caller.
type ROM struct {
	data []byte
}

// NewROM returns a read-only device backed by data.
func NewROM(data []byte) *ROM {
	return &ROM{data: data}
}

func (r *ROM) Read(addr uint16) uint8 {
	if int(addr) >= len(r.data) {
		return 0
	}
	return r.data[addr]
}

func (r *ROM) Write(addr uint16, v uint8) {}
