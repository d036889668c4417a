// Package config implements the CLI-facing Args struct and its
// conversion into the runtime-facing Config.
package config

import (
	"fmt"
	"strconv"
	"time"
)

// Args is the flat, string-typed shape urfave/cli populates directly
// from flags.
type Args struct {
	ROM          string
	RAM          string
	RAMFileAddr  string
	RAMSize      int
	StartAddr    string
	MaxCycles    uint64
	MaxTimeMS    uint64
	StopOnAddr   string
	StopOnBRK    bool
	ShowStatus   bool
	ShowScreen   bool
	Disassemble  bool
	Verbose      bool
	CharacterROM string
}

// Config is the parsed, machine-ready projection of Args.
type Config struct {
	ROMPath          string
	RAMPath          string
	RAMFileAddr      uint16
	RAMSize          int
	StartAddr        uint16
	HasStartAddr     bool
	MaxCycles        uint64
	MaxTime          time.Duration
	StopOnAddr       uint16
	HasStopOnAddr    bool
	StopOnBRK        bool
	ShowStatus       bool
	ShowScreen       bool
	Disassemble      bool
	Verbose          bool
	CharacterROMPath string
}

// Defaults: a KERNAL warm-start address and the classic 64K RAM size.
const (
	DefaultRAMFileAddr = "0200"
	DefaultRAMSize     = 65536
	DefaultStartAddr   = "fce2"
)

// FromArgs validates and converts a into a Config, returning a
// configuration error on a malformed hex argument.
func FromArgs(a Args) (*Config, error) {
	cfg := &Config{
		ROMPath:          a.ROM,
		RAMPath:          a.RAM,
		RAMSize:          a.RAMSize,
		MaxCycles:        a.MaxCycles,
		MaxTime:          time.Duration(a.MaxTimeMS) * time.Millisecond,
		StopOnBRK:        a.StopOnBRK,
		ShowStatus:       a.ShowStatus,
		ShowScreen:       a.ShowScreen,
		Disassemble:      a.Disassemble,
		Verbose:          a.Verbose,
		CharacterROMPath: a.CharacterROM,
	}

	if cfg.RAMSize == 0 {
		cfg.RAMSize = DefaultRAMSize
	}

	ramFileAddr := a.RAMFileAddr
	if ramFileAddr == "" {
		ramFileAddr = DefaultRAMFileAddr
	}
	addr, err := parseHex16(ramFileAddr)
	if err != nil {
		return nil, fmt.Errorf("invalid --ram-file-addr %q: %w", ramFileAddr, err)
	}
	cfg.RAMFileAddr = addr

	startAddr := a.StartAddr
	if startAddr == "" {
		startAddr = DefaultStartAddr
	}
	addr, err = parseHex16(startAddr)
	if err != nil {
		return nil, fmt.Errorf("invalid --start-addr %q: %w", startAddr, err)
	}
	cfg.StartAddr = addr
	cfg.HasStartAddr = true

	if a.StopOnAddr != "" {
		addr, err = parseHex16(a.StopOnAddr)
		if err != nil {
			return nil, fmt.Errorf("invalid --stop-on-addr %q: %w", a.StopOnAddr, err)
		}
		cfg.StopOnAddr = addr
		cfg.HasStopOnAddr = true
	}

	return cfg, nil
}

func parseHex16(s string) (uint16, error) {
	v, err := strconv.ParseUint(s, 16, 16)
	if err != nil {
		return 0, err
	}
	return uint16(v), nil
}
