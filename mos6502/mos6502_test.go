package mos6502

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type flatMem struct {
	data [65536]uint8
}

func (m *flatMem) Read(addr uint16) uint8     { return m.data[addr] }
func (m *flatMem) Write(addr uint16, v uint8) { m.data[addr] = v }

func newTestCPU() (*CPU, *flatMem) {
	m := &flatMem{}
	m.data[VectorReset] = 0x00
	m.data[VectorReset+1] = 0x80
	return New(m), m
}

func TestResetState(t *testing.T) {
	c, _ := newTestCPU()
	assert.EqualValues(t, 0, c.A)
	assert.EqualValues(t, 0, c.X)
	assert.EqualValues(t, 0, c.Y)
	assert.EqualValues(t, 0xFD, c.SP)
	assert.EqualValues(t, 0x8000, c.PC)
	assert.True(t, c.flagSet(FlagInterruptDisable))
	assert.True(t, c.flagSet(FlagUnused))
}

func TestStackPushPop(t *testing.T) {
	c, _ := newTestCPU()
	c.push(0x42)
	c.push(0x24)
	assert.EqualValues(t, 0x24, c.pop())
	assert.EqualValues(t, 0x42, c.pop())
}

func TestPushPopWord(t *testing.T) {
	c, _ := newTestCPU()
	c.pushWord(0xBEEF)
	assert.EqualValues(t, 0xBEEF, c.popWord())
}

func TestLDAImmediateSetsFlags(t *testing.T) {
	c, m := newTestCPU()
	c.PC = 0x8000
	m.data[0x8000] = 0xA9 // LDA #imm
	m.data[0x8001] = 0x00
	c.Step()
	assert.EqualValues(t, 0, c.A)
	assert.True(t, c.flagSet(FlagZero))
	assert.False(t, c.flagSet(FlagNegative))

	c.PC = 0x8000
	m.data[0x8001] = 0x80
	c.Step()
	assert.EqualValues(t, 0x80, c.A)
	assert.False(t, c.flagSet(FlagZero))
	assert.True(t, c.flagSet(FlagNegative))
}

func TestADCBinary(t *testing.T) {
	c, m := newTestCPU()
	c.PC = 0x8000
	c.A = 0x10
	c.setFlag(FlagCarry, false)
	m.data[0x8000] = 0x69 // ADC #imm
	m.data[0x8001] = 0x20
	c.Step()
	assert.EqualValues(t, 0x30, c.A)
	assert.False(t, c.flagSet(FlagCarry))
	assert.False(t, c.flagSet(FlagOverflow))
}

func TestADCBinaryOverflow(t *testing.T) {
	c, m := newTestCPU()
	c.PC = 0x8000
	c.A = 0x7F
	c.setFlag(FlagCarry, false)
	m.data[0x8000] = 0x69
	m.data[0x8001] = 0x01
	c.Step()
	assert.EqualValues(t, 0x80, c.A)
	assert.True(t, c.flagSet(FlagOverflow))
	assert.True(t, c.flagSet(FlagNegative))
}

func TestADCDecimalMode(t *testing.T) {
	c, m := newTestCPU()
	c.PC = 0x8000
	c.A = 0x09
	c.setFlag(FlagDecimal, true)
	c.setFlag(FlagCarry, false)
	m.data[0x8000] = 0x69
	m.data[0x8001] = 0x01
	c.Step()
	assert.EqualValues(t, 0x10, c.A) // 9 + 1 = 10 in BCD
	assert.False(t, c.flagSet(FlagCarry))
}

func TestSBCDecimalMode(t *testing.T) {
	c, m := newTestCPU()
	c.PC = 0x8000
	c.A = 0x10
	c.setFlag(FlagDecimal, true)
	c.setFlag(FlagCarry, true) // no borrow
	m.data[0x8000] = 0xE9     // SBC #imm
	m.data[0x8001] = 0x01
	c.Step()
	assert.EqualValues(t, 0x09, c.A) // 10 - 1 = 9 in BCD
	assert.True(t, c.flagSet(FlagCarry))
}

func TestBranchTaken(t *testing.T) {
	c, m := newTestCPU()
	c.PC = 0x8000
	c.setFlag(FlagCarry, false)
	m.data[0x8000] = 0x90 // BCC
	m.data[0x8001] = 0x05
	c.Step()
	assert.EqualValues(t, 0x8007, c.PC)
}

func TestBranchNotTaken(t *testing.T) {
	c, m := newTestCPU()
	c.PC = 0x8000
	c.setFlag(FlagCarry, true)
	m.data[0x8000] = 0x90 // BCC
	m.data[0x8001] = 0x05
	c.Step()
	assert.EqualValues(t, 0x8002, c.PC)
}

func TestJSRRTS(t *testing.T) {
	c, m := newTestCPU()
	c.PC = 0x8000
	m.data[0x8000] = 0x20 // JSR
	m.data[0x8001] = 0x00
	m.data[0x8002] = 0x90
	m.data[0x9000] = 0x60 // RTS
	c.Step()
	assert.EqualValues(t, 0x9000, c.PC)
	c.Step()
	assert.EqualValues(t, 0x8003, c.PC)
}

func TestBRKRTI(t *testing.T) {
	c, m := newTestCPU()
	m.data[VectorIRQBRK] = 0x00
	m.data[VectorIRQBRK+1] = 0x90
	m.data[0x9000] = 0x40 // RTI
	c.PC = 0x8000
	m.data[0x8000] = 0x00 // BRK
	startP := c.P

	c.Step()
	assert.EqualValues(t, 0x9000, c.PC)
	assert.True(t, c.flagSet(FlagInterruptDisable))

	c.Step()
	assert.EqualValues(t, 0x8002, c.PC)
	assert.EqualValues(t, startP, c.P)
}

func TestIRQMaskedWhenDisabled(t *testing.T) {
	c, _ := newTestCPU()
	c.setFlag(FlagInterruptDisable, true)
	pc := c.PC
	c.IRQ()
	assert.Equal(t, pc, c.PC)
}

func TestNMIAlwaysFires(t *testing.T) {
	c, m := newTestCPU()
	m.data[VectorNMI] = 0x00
	m.data[VectorNMI+1] = 0xA0
	c.setFlag(FlagInterruptDisable, true)
	c.NMI()
	assert.EqualValues(t, 0xA000, c.PC)
}

func TestROLCarriesThrough(t *testing.T) {
	c, _ := newTestCPU()
	c.A = 0x80
	c.setFlag(FlagCarry, false)
	Execute(c, DecodedOperation{Op: Opcode{Mnemonic: ROL, Mode: Accumulator}})
	assert.EqualValues(t, 0x00, c.A)
	assert.True(t, c.flagSet(FlagCarry))
	assert.True(t, c.flagSet(FlagZero))
}

func TestIndirectJMPPageWrapBug(t *testing.T) {
	c, m := newTestCPU()
	c.PC = 0x8000
	m.data[0x8000] = 0x6C // JMP (ind)
	m.data[0x8001] = 0xFF
	m.data[0x8002] = 0x30 // pointer = $30FF
	m.data[0x30FF] = 0x34
	m.data[0x3000] = 0x12 // bug: high byte fetched from $3000, not $3100
	m.data[0x3100] = 0x99
	c.Step()
	assert.EqualValues(t, 0x1234, c.PC)
}

func TestUndefinedOpcodeDefaultsToNOP(t *testing.T) {
	c, m := newTestCPU()
	c.PC = 0x8000
	m.data[0x8000] = 0x02 // undefined
	startPC := c.PC
	c.Step()
	assert.EqualValues(t, startPC+1, c.PC)
}
