package x86dec

// RepeatKind is the string-op repeat prefix state.
type RepeatKind int

const (
	RepeatNone RepeatKind = iota
	RepeatEqual
	RepeatNotEqual
)

// context is the per-instruction mutable decode state. It is
// stack-allocated and owned exclusively by one Disassemble call, which
// lets a Decoder be reused (and be conceptually free-threaded) across
// calls without carrying per-instruction leftovers.
type context struct {
	src ByteSource

	startAddr int64

	operandSize Width
	addressSize Width

	operandSizeOverridden bool
	addressSizeOverridden bool

	hasSegmentOverride bool
	segmentOverride    SegmentID

	locked bool
	repeat RepeatKind

	modrmRead bool
	modrm     byte
	mod, reg, rm byte

	opcode Mnemonic
	near   bool

	operandCount int
	operands     [3]Operand
}

func newContext(src ByteSource, defaultWidth Width) *context {
	return &context{
		src:         src,
		startAddr:   src.Addr(),
		operandSize: defaultWidth,
		addressSize: defaultWidth,
		opcode:      Invalid,
	}
}

func (c *context) readByte() (byte, error) {
	b, err := c.src.NextByte()
	if err != nil {
		return 0, truncated()
	}
	return b, nil
}

func (c *context) readWord() (uint16, error) {
	lo, err := c.readByte()
	if err != nil {
		return 0, err
	}
	hi, err := c.readByte()
	if err != nil {
		return 0, err
	}
	return uint16(lo) | uint16(hi)<<8, nil
}

func (c *context) readLong() (uint32, error) {
	lo, err := c.readWord()
	if err != nil {
		return 0, err
	}
	hi, err := c.readWord()
	if err != nil {
		return 0, err
	}
	return uint32(lo) | uint32(hi)<<16, nil
}

// readSized reads an immediate of the given fixed size, sign
// extending 8/16-bit values to int64 the way Immediate/displacement
// fields are consumed by later Addition/Indirect wrapping.
func (c *context) readSized(size Size) (int64, error) {
	switch size {
	case SizeByte:
		b, err := c.readByte()
		return int64(int8(b)), err
	case SizeWord:
		w, err := c.readWord()
		return int64(int16(w)), err
	case SizeLong:
		l, err := c.readLong()
		return int64(int32(l)), err
	default:
		return 0, errf(InvalidOpcode, "readSized: unsupported size %d", size)
	}
}

// readUnsigned mirrors readSized without sign extension, for immediates
// that are used as unsigned bit patterns (Ib/Iv test masks, offsets).
func (c *context) readUnsigned(size Size) (int64, error) {
	switch size {
	case SizeByte:
		b, err := c.readByte()
		return int64(b), err
	case SizeWord:
		w, err := c.readWord()
		return int64(w), err
	case SizeLong:
		l, err := c.readLong()
		return int64(l), err
	default:
		return 0, errf(InvalidOpcode, "readUnsigned: unsupported size %d", size)
	}
}

// opWidthSize returns Word/Long for the current operand width, per
// Width16/Width32.
func (c *context) opWidthSize() Size {
	return widthToSize(c.operandSize)
}

func (c *context) addrWidthSize() Size {
	return widthToSize(c.addressSize)
}

// setOpcode records the instruction's mnemonic. Each dispatch path calls
// it once, after choosing its pattern; it does not itself reject a
// second call.
func (c *context) setOpcode(m Mnemonic) {
	c.opcode = m
}

// appendOperand is the fluent builder step: it appends to the ordered
// operand slots in call order and enforces the three-operand cap.
func (c *context) appendOperand(op Operand) error {
	if c.operandCount >= 3 {
		return errf(InvalidOpcode, "instruction has more than three operands")
	}
	c.operands[c.operandCount] = op
	c.operandCount++
	return nil
}

func (c *context) finish() (Instruction, error) {
	if c.opcode == Invalid {
		return Instruction{}, errf(InvalidOpcode, "no opcode decoded")
	}
	if err := checkLockConstraint(c); err != nil {
		return Instruction{}, err
	}
	if err := checkRepeatConstraint(c); err != nil {
		return Instruction{}, err
	}
	insn := Instruction{
		Address:  c.startAddr,
		Opcode:   c.opcode,
		Locked:   c.locked,
		Near:     c.near,
		Repeat:   c.repeat,
		Operands: append([]Operand(nil), c.operands[:c.operandCount]...),
		Length:   int(c.src.Addr() - c.startAddr),
	}
	return insn, nil
}
