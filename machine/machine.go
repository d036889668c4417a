// Package machine composes the CPU, PLA and CIAs into the fetch-
// execute driver: start/step/irq/nmi/reset plus the Stopped/Running/
// Debug state machine and debugger breakpoint checks.
package machine

import (
	"fmt"
	"sync"

	"github.com/bdwalton/c64emu/cia"
	"github.com/bdwalton/c64emu/mos6502"
	"github.com/bdwalton/c64emu/pla"
)

// Status is the machine's run state.
type Status int

const (
	Stopped Status = iota
	Running
	Debug
)

func (s Status) String() string {
	switch s {
	case Stopped:
		return "Stopped"
	case Running:
		return "Running"
	case Debug:
		return "Debug"
	default:
		return "Unknown"
	}
}

const (
	screenBase = 0x0400
	screenEnd  = 0x07E7
)

// Machine wires a CPU to a PLA and the two CIAs behind it, guarded by
// one coarse exclusive lock: both the instruction stepper and the
// jiffy interrupt driver call into Machine methods, never touching
// CPU/PLA/CIA state directly.
type Machine struct {
	mu sync.Mutex

	CPU  *mos6502.CPU
	PLA  *pla.PLA
	CIA1 *cia.CIA
	CIA2 *cia.CIA

	Debugger *Debugger

	status Status
	cycles uint64

	maxCycles  uint64
	exitOnAddr uint16
	hasExitOn  bool
}

// New composes a Machine from an already-wired PLA (RAM/ROM/IO
// devices linked by the caller) and the two CIA instances behind its
// I/O slot.
func New(p *pla.PLA, cia1, cia2 *cia.CIA) *Machine {
	return &Machine{
		PLA:      p,
		CIA1:     cia1,
		CIA2:     cia2,
		CPU:      mos6502.New(p),
		Debugger: NewDebugger(),
	}
}

// SetMaxCycles makes the stepper stop (→ Stopped) after n executed
// instructions. Zero means unbounded.
func (m *Machine) SetMaxCycles(n uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.maxCycles = n
}

// SetExitOnAddr makes the stepper transition to Debug once PC reaches
// addr.
func (m *Machine) SetExitOnAddr(addr uint16) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.exitOnAddr = addr
	m.hasExitOn = true
}

// Start initializes the processor port ($01:=$37, $00:=$2F), loads PC
// from the reset vector and sets status to Running.
func (m *Machine) Start() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.PLA.Write(0x0000, 0x2F)
	m.PLA.Write(0x0001, 0x37)
	m.CPU.Reset()
	m.status = Running
}

// Reset performs a full cold-power-on state reset: processor port
// defaults restored, CPU registers/flags reset and PC reloaded from
// $FFFC, and both CIAs' timers cleared. Unlike Start, this also runs
// against a machine that has already been running.
func (m *Machine) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.PLA.Write(0x0000, 0x2F)
	m.PLA.Write(0x0001, 0x37)
	m.CPU.Reset()
	m.CIA1.Reset()
	m.CIA2.Reset()
	m.status = Running
}

// Step decodes and executes exactly one instruction, ticks both CIAs'
// timers once, runs the debugger check, and returns false iff status
// becomes Stopped.
func (m *Machine) Step() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.status != Running {
		return m.status != Stopped
	}

	d := m.CPU.Step()
	m.cycles++
	m.CIA1.Tick()
	m.CIA2.Tick()

	if m.Debugger.ShouldPause(d, m.CPU) {
		m.status = Debug
	}
	if m.hasExitOn && m.CPU.PC == m.exitOnAddr {
		m.status = Debug
	}
	if m.maxCycles != 0 && m.cycles >= m.maxCycles {
		m.status = Stopped
	}

	return m.status != Stopped
}

// IRQ services a maskable interrupt if the machine is running or
// debugging a program that hasn't itself masked interrupts.
func (m *Machine) IRQ() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.status == Stopped || m.CPU.P&mos6502.FlagInterruptDisable != 0 {
		return
	}
	m.CPU.IRQ()
	if m.Debugger.interruptBreak {
		m.status = Debug
	}
}

// NMI services a non-maskable interrupt; cannot be blocked.
func (m *Machine) NMI() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.status == Stopped {
		return
	}
	m.CPU.NMI()
	if m.Debugger.interruptBreak {
		m.status = Debug
	}
}

// Pause transitions Running → Debug.
func (m *Machine) Pause() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.status = Debug
}

// Resume transitions Debug → Running.
func (m *Machine) Resume() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.status = Running
}

// Stop transitions to Stopped unconditionally.
func (m *Machine) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.status = Stopped
}

// Status returns the current run state.
func (m *Machine) Status() Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.status
}

// AgeKeyboard advances CIA #1's keyboard aging; the jiffy loop calls
// this once per tick alongside IRQ.
func (m *Machine) AgeKeyboard() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CIA1.AgeKeyboard()
}

// Registers is a snapshot of CPU state for the Observer API.
type Registers struct {
	A, X, Y, SP uint8
	PC          uint16
	P           uint8
}

func (r Registers) String() string {
	return fmt.Sprintf("A=%02X X=%02X Y=%02X SP=%02X PC=%04X P=%02X", r.A, r.X, r.Y, r.SP, r.PC, r.P)
}

// Snapshot returns the current register state.
func (m *Machine) Snapshot() Registers {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := m.CPU
	return Registers{A: c.A, X: c.X, Y: c.Y, SP: c.SP, PC: c.PC, P: c.P}
}

// ReadRange reads a slice of memory through the PLA, respecting
// current banking.
func (m *Machine) ReadRange(start, length uint16) []byte {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]byte, length)
	for i := range out {
		out[i] = m.PLA.Read(start + uint16(i))
	}
	return out
}

// Screen returns the current $0400-$07E7 screen matrix.
func (m *Machine) Screen() []byte {
	return m.ReadRange(screenBase, screenEnd-screenBase+1)
}

// KeyDown injects a keyboard press into CIA #1's matrix.
func (m *Machine) KeyDown(code uint8) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CIA1.Keyboard != nil {
		m.CIA1.Keyboard.KeyDown(code)
	}
}

// KeyUp injects a keyboard release into CIA #1's matrix.
func (m *Machine) KeyUp(code uint8) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CIA1.Keyboard != nil {
		m.CIA1.Keyboard.KeyUp(code)
	}
}
