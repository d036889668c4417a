// Package romimage implements the two external file formats the
// emulator consumes: system ROM images (BASIC+KERNAL, or a single
// blob) and raw program images loaded to a caller-specified address.
package romimage

import (
	"fmt"
	"os"
)

const (
	splitROMSize = 16384
	halfROMSize  = splitROMSize / 2
	addressSpace = 65536
)

// System is a loaded system ROM: Basic is nil unless the file was
// exactly 16 KiB (the split heuristic), Kernal always has a value.
// KernalBase is the address Kernal's first byte lands at, chosen so
// that its last byte lies at $FFFF, letting the caller place it
// correctly.
type System struct {
	Basic      []byte
	Kernal     []byte
	KernalBase uint16
}

// LoadSystem implements the dual ROM layout heuristic (Design Notes):
// a 16 KiB file is BASIC (first 8 KiB) + KERNAL (second 8 KiB); any
// other size is a single KERNAL-style blob whose last byte lies at
// $FFFF.
func LoadSystem(path string) (*System, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("couldn't read system ROM %q: %w", path, err)
	}

	if len(data) == splitROMSize {
		return &System{
			Basic:      data[:halfROMSize],
			Kernal:     data[halfROMSize:],
			KernalBase: 0xE000,
		}, nil
	}

	base := addressSpace - len(data)
	if base < 0 {
		return nil, fmt.Errorf("system ROM %q is larger than the address space (%d bytes)", path, len(data))
	}

	return &System{Kernal: data, KernalBase: uint16(base)}, nil
}

// kernalWindow is the fixed size of the KERNAL slot's address window
// ($E000-$FFFF) the memory controller maps a KERNAL device into,
// regardless of how large the loaded image actually is.
const kernalWindow = halfROMSize

// PadKernal returns Kernal arranged within the fixed $E000-$FFFF
// window: zero-padded at the front when the image is shorter than the
// window, so its last byte still lands at $FFFF as KernalBase
// promises. A single-blob image that doesn't fit the window at all
// (KernalBase would fall below $E000) is an error.
func (s *System) PadKernal() ([]byte, error) {
	if len(s.Kernal) > kernalWindow {
		return nil, fmt.Errorf("KERNAL image is %d bytes, too large for the $E000-$FFFF window", len(s.Kernal))
	}
	if len(s.Kernal) == kernalWindow {
		return s.Kernal, nil
	}

	padded := make([]byte, kernalWindow)
	copy(padded[kernalWindow-len(s.Kernal):], s.Kernal)
	return padded, nil
}

// LoadCharGen loads a character-generator ROM image, a flat blob with
// no split heuristic.
func LoadCharGen(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("couldn't read character ROM %q: %w", path, err)
	}
	return data, nil
}

// LoadProgram reads a raw program image with no load-address header;
// the caller places the returned bytes at whatever address it likes.
func LoadProgram(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("couldn't read program image %q: %w", path, err)
	}
	return data, nil
}
