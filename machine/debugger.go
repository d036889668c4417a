package machine

import "github.com/bdwalton/c64emu/mos6502"

// breakpointKind tags which field(s) of a Breakpoint are meaningful.
type breakpointKind int

const (
	bpAddress breakpointKind = iota
	bpInstruction
	bpOpcode
	bpByte
	bpBRK
	bpInterrupt
)

// Breakpoint is one of Address/Instruction/Opcode/Byte/BRK/Interrupt.
// Construct with the BreakpointXxx helpers rather than the zero
// value.
type Breakpoint struct {
	kind     breakpointKind
	addr     uint16
	mnemonic mos6502.Mnemonic
	opcode   uint8
	value    uint8
}

func BreakpointAddress(addr uint16) Breakpoint {
	return Breakpoint{kind: bpAddress, addr: addr}
}

func BreakpointInstruction(m mos6502.Mnemonic) Breakpoint {
	return Breakpoint{kind: bpInstruction, mnemonic: m}
}

func BreakpointOpcode(op uint8) Breakpoint {
	return Breakpoint{kind: bpOpcode, opcode: op}
}

// BreakpointByte matches when PC==addr and the byte at PC equals
// value — a conditional breakpoint.
func BreakpointByte(addr uint16, value uint8) Breakpoint {
	return Breakpoint{kind: bpByte, addr: addr, value: value}
}

func BreakpointBRK() Breakpoint {
	return Breakpoint{kind: bpBRK}
}

func BreakpointInterrupt() Breakpoint {
	return Breakpoint{kind: bpInterrupt}
}

func (b Breakpoint) applies(d mos6502.DecodedOperation) bool {
	switch b.kind {
	case bpAddress:
		return d.PC == b.addr
	case bpInstruction:
		return d.Op.Mnemonic == b.mnemonic
	case bpOpcode:
		return d.Byte == b.opcode
	case bpByte:
		return d.PC == b.addr && d.Byte == b.value
	case bpBRK:
		return d.Op.Mnemonic == mos6502.BRK
	default:
		return false
	}
}

// Debugger holds the breakpoint set and decides, after each
// instruction, whether the machine should suspend into Debug.
type Debugger struct {
	breakpoints    []Breakpoint
	interruptBreak bool
}

func NewDebugger() *Debugger {
	return &Debugger{}
}

// AddBreakpoint adds bp if it isn't already present.
func (dbg *Debugger) AddBreakpoint(bp Breakpoint) {
	if bp.kind == bpInterrupt {
		dbg.interruptBreak = true
		return
	}
	for _, existing := range dbg.breakpoints {
		if existing == bp {
			return
		}
	}
	dbg.breakpoints = append(dbg.breakpoints, bp)
}

// RemoveBreakpoint removes bp if present.
func (dbg *Debugger) RemoveBreakpoint(bp Breakpoint) {
	if bp.kind == bpInterrupt {
		dbg.interruptBreak = false
		return
	}
	out := dbg.breakpoints[:0]
	for _, existing := range dbg.breakpoints {
		if existing != bp {
			out = append(out, existing)
		}
	}
	dbg.breakpoints = out
}

// ShouldPause reports whether any breakpoint applies to the operation
// just decoded. The CPU argument is accepted for parity with a future
// memory-inspecting breakpoint kind; current kinds only need d.
func (dbg *Debugger) ShouldPause(d mos6502.DecodedOperation, c *mos6502.CPU) bool {
	for _, bp := range dbg.breakpoints {
		if bp.applies(d) {
			return true
		}
	}
	return false
}
