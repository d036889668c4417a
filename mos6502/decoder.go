package mos6502

// OperandKind distinguishes a no-operand instruction from one whose
// operand is a single byte (zero-page/immediate/relative) versus a
// full word (absolute/indirect).
type OperandKind uint8

const (
	OperandNone OperandKind = iota
	OperandByte
	OperandWord
)

// Operand is the raw bytes read after the opcode, before any
// addressing-mode arithmetic.
type Operand struct {
	Kind OperandKind
	Byte uint8
	Word uint16
}

// DecodedOperation is everything the executor needs: which opcode,
// its raw operand bytes, and (where applicable) the effective address
// the addressing mode resolves to. The effective address is computed
// but never dereferenced here — reading/writing it is the executor's
// job.
type DecodedOperation struct {
	PC      uint16 // address the opcode byte was fetched from
	Byte    uint8  // raw opcode byte
	Op      Opcode
	Operand Operand

	EffectiveAddr uint16
	HasAddr       bool

	PageCrossed bool
}

// Decode fetches one instruction at c.PC, advances PC past it, and
// resolves its effective address. Undefined opcodes already carry NOP
// semantics via OpTable, so decode itself can never fail.
func Decode(c *CPU) DecodedOperation {
	d := DecodedOperation{PC: c.PC}

	d.Byte = c.read(c.PC)
	c.PC++
	d.Op = OpTable[d.Byte]

	switch operandBytes(d.Op.Mode) {
	case 1:
		d.Operand = Operand{Kind: OperandByte, Byte: c.read(c.PC)}
		c.PC++
	case 2:
		lo := uint16(c.read(c.PC))
		hi := uint16(c.read(c.PC + 1))
		d.Operand = Operand{Kind: OperandWord, Word: hi<<8 | lo}
		c.PC += 2
	}

	resolveAddress(c, &d)

	return d
}

// resolveAddress computes the effective address for every addressing
// mode, including the documented indirect-JMP page-wrap bug and the
// zero-page wraps on IndirectX/IndirectY.
func resolveAddress(c *CPU, d *DecodedOperation) {
	switch d.Op.Mode {
	case Implicit, Accumulator, Immediate:
		d.HasAddr = false

	case Relative:
		base := c.PC
		d.EffectiveAddr = base + uint16(int8(d.Operand.Byte))
		d.HasAddr = true

	case ZeroPage:
		d.EffectiveAddr = uint16(d.Operand.Byte)
		d.HasAddr = true

	case ZeroPageX:
		d.EffectiveAddr = uint16(d.Operand.Byte + c.X)
		d.HasAddr = true

	case ZeroPageY:
		d.EffectiveAddr = uint16(d.Operand.Byte + c.Y)
		d.HasAddr = true

	case Absolute:
		d.EffectiveAddr = d.Operand.Word
		d.HasAddr = true

	case AbsoluteX:
		base := d.Operand.Word
		addr := base + uint16(c.X)
		d.EffectiveAddr = addr
		d.HasAddr = true
		d.PageCrossed = base&0xFF00 != addr&0xFF00

	case AbsoluteY:
		base := d.Operand.Word
		addr := base + uint16(c.Y)
		d.EffectiveAddr = addr
		d.HasAddr = true
		d.PageCrossed = base&0xFF00 != addr&0xFF00

	case Indirect:
		ptr := d.Operand.Word
		d.EffectiveAddr = indirectWordBug(c, ptr)
		d.HasAddr = true

	case IndirectX:
		zp := uint16(d.Operand.Byte + c.X)
		lo := uint16(c.read(zp & 0x00FF))
		hi := uint16(c.read((zp + 1) & 0x00FF))
		d.EffectiveAddr = hi<<8 | lo
		d.HasAddr = true

	case IndirectY:
		zp := uint16(d.Operand.Byte)
		lo := uint16(c.read(zp & 0x00FF))
		hi := uint16(c.read((zp + 1) & 0x00FF))
		base := hi<<8 | lo
		addr := base + uint16(c.Y)
		d.EffectiveAddr = addr
		d.HasAddr = true
		d.PageCrossed = base&0xFF00 != addr&0xFF00
	}
}

// indirectWordBug reproduces the 6502's JMP ($xxFF) bug: the high
// byte of the target is fetched from $xx00, not the next page.
func indirectWordBug(c *CPU, ptr uint16) uint16 {
	lo := uint16(c.read(ptr))
	hiAddr := (ptr & 0xFF00) | ((ptr + 1) & 0x00FF)
	hi := uint16(c.read(hiAddr))
	return hi<<8 | lo
}
