package cia

// RowResolver maps a (keycode, strobed column) pair to the row byte
// that key pulls low, or $FF if the key isn't in that column. The
// concrete scan-code table is a screen-code/keymap concern owned by
// a caller, so Keyboard accepts it as an injected function rather
// than owning the table itself.
type RowResolver func(keycode, column uint8) uint8

const (
	maxPressed = 5
	initialAge = 5
	consumedAge = 3
)

// oneHotColumns is the set of valid active-low column strobes.
var oneHotColumns = map[uint8]bool{
	0xFE: true, 0xFD: true, 0xFB: true, 0xF7: true,
	0xEF: true, 0xDF: true, 0xBF: true, 0x7F: true,
}

// Keyboard tracks currently-pressed key codes for CIA #1's matrix
// scan protocol: column strobe in on $DC00, row byte out on $DC01.
type Keyboard struct {
	pressed []uint8
	age     uint8
	resolve RowResolver
}

// NewKeyboard returns an empty keyboard using resolve to look up
// per-key row codes.
func NewKeyboard(resolve RowResolver) *Keyboard {
	return &Keyboard{age: initialAge, resolve: resolve}
}

// KeyDown marks ck pressed, deduplicating if already held.
func (k *Keyboard) KeyDown(ck uint8) {
	for _, p := range k.pressed {
		if p == ck {
			return
		}
	}
	if len(k.pressed) < maxPressed {
		k.pressed = append(k.pressed, ck)
	}
}

// KeyUp releases ck if held.
func (k *Keyboard) KeyUp(ck uint8) {
	for i, p := range k.pressed {
		if p == ck {
			k.pressed = append(k.pressed[:i], k.pressed[i+1:]...)
			return
		}
	}
}

// Age decrements the staleness counter; when it reaches zero the
// oldest pressed key is dropped and the counter resets, preventing
// long-running phantom keys.
func (k *Keyboard) Age() {
	if k.age > 0 {
		k.age--
	}
	k.expireIfStale()
}

func (k *Keyboard) expireIfStale() {
	if k.age == 0 && len(k.pressed) > 0 {
		k.pressed = k.pressed[1:]
		k.age = consumedAge
	}
}

// Scan implements the column-strobe/row-readback contract: dc00 is
// the byte just written to the column-strobe register, dc01Prev is
// the register's previous contents (returned unchanged when dc00
// isn't a column strobe at all).
func (k *Keyboard) Scan(dc00, dc01Prev uint8) uint8 {
	if len(k.pressed) == 0 {
		return 0xFF
	}

	if dc00 == 0 {
		if k.age > 0 {
			k.age--
		}
		return 0
	}

	if !oneHotColumns[dc00] {
		return dc01Prev
	}

	val := uint8(0xFF)
	if len(k.pressed) < 2 {
		val = k.resolve(k.pressed[0], dc00)
	} else {
		for _, ck := range k.pressed {
			val &= k.resolve(ck, dc00)
		}
	}

	k.expireIfStale()

	return val
}
