package x86dec

// dispatchPrimary implements the one-byte opcode map. It is reached
// after the prefix collector hands off the first non-prefix
// byte; legacy prefix bytes (66/67/F0/F2/F3/26/2E/36/3E/64/65) never
// reach here since collectPrefixes consumes them first, which is also
// why the arithmetic blocks' "+6/+7 pushes a segment register" pattern
// only actually fires for ADD/OR/ADC/SBB (0x06/07, 0x0E, 0x16/17,
// 0x1E/1F) — for AND/SUB/XOR/CMP the +6 bytes are the ES/CS/SS/DS
// override prefixes and are unreachable as opcodes, and the +7 bytes
// decode as DAA/DAS/AAA/AAS.
func (c *context) dispatchPrimary(op byte) error {
	trace.Printf("primary opcode %#02x", op)
	switch {
	case op <= 0x3D && isArithBlock(op):
		return c.decodeArithBlock(op)
	case op >= 0x40 && op <= 0x47:
		return c.decodeIncDecReg(INC, op-0x40)
	case op >= 0x48 && op <= 0x4F:
		return c.decodeIncDecReg(DEC, op-0x48)
	case op >= 0x50 && op <= 0x57:
		return c.decodePushPopReg(PUSH, op-0x50)
	case op >= 0x58 && op <= 0x5F:
		return c.decodePushPopReg(POP, op-0x58)
	case op >= 0x70 && op <= 0x7F:
		return c.decodeJccShort(op - 0x70)
	case op >= 0x91 && op <= 0x97:
		return c.decodeXchgAcc(op - 0x90)
	case op >= 0xB0 && op <= 0xB7:
		return c.decodeMovRegImm(SizeByte, op-0xB0)
	case op >= 0xB8 && op <= 0xBF:
		return c.decodeMovRegImm(c.opWidthSize(), op-0xB8)
	}

	switch op {
	case 0x06:
		return c.pushSeg(SegES)
	case 0x07:
		return c.popSeg(SegES)
	case 0x0E:
		return c.pushSeg(SegCS)
	case 0x16:
		return c.pushSeg(SegSS)
	case 0x17:
		return c.popSeg(SegSS)
	case 0x1E:
		return c.pushSeg(SegDS)
	case 0x1F:
		return c.popSeg(SegDS)
	case 0x27:
		c.setOpcode(DAA)
		return nil
	case 0x2F:
		c.setOpcode(DAS)
		return nil
	case 0x37:
		c.setOpcode(AAA)
		return nil
	case 0x3F:
		c.setOpcode(AAS)
		return nil

	case 0x60:
		c.setOpcode(PUSHA)
		return nil
	case 0x61:
		c.setOpcode(POPA)
		return nil
	case 0x62:
		return c.decodeBound()
	case 0x63:
		return c.decodeArpl()

	case 0x68:
		return c.decodePushImm(c.opWidthSize())
	case 0x69:
		return c.decodeImul3(c.opWidthSize())
	case 0x6A:
		return c.decodePushImm(SizeByte)
	case 0x6B:
		return c.decodeImul3(SizeByte)

	case 0x6C:
		return c.decodeIns(SizeByte)
	case 0x6D:
		return c.decodeIns(c.opWidthSize())
	case 0x6E:
		return c.decodeOuts(SizeByte)
	case 0x6F:
		return c.decodeOuts(c.opWidthSize())

	case 0x80:
		return c.decodeGroup1(SizeByte, SizeByte)
	case 0x81:
		return c.decodeGroup1(c.opWidthSize(), c.opWidthSize())
	case 0x82:
		return errf(InvalidOpcode, "0x82 is unallocated")
	case 0x83:
		return c.decodeGroup1(c.opWidthSize(), SizeByte)

	case 0x84:
		return c.decodeModRMPair(TEST, SizeByte, true)
	case 0x85:
		return c.decodeModRMPair(TEST, c.opWidthSize(), true)
	case 0x86:
		return c.decodeModRMPair(XCHG, SizeByte, true)
	case 0x87:
		return c.decodeModRMPair(XCHG, c.opWidthSize(), true)
	case 0x88:
		return c.decodeModRMPair(MOV, SizeByte, true)
	case 0x89:
		return c.decodeModRMPair(MOV, c.opWidthSize(), true)
	case 0x8A:
		return c.decodeModRMPair(MOV, SizeByte, false)
	case 0x8B:
		return c.decodeModRMPair(MOV, c.opWidthSize(), false)
	case 0x8C:
		return c.decodeMovToSeg()
	case 0x8D:
		return c.decodeLea()
	case 0x8E:
		return c.decodeMovFromSeg()
	case 0x8F:
		return c.decodeGroup1A(c.opWidthSize())

	case 0x90:
		c.setOpcode(NOP)
		return nil
	case 0x98:
		c.setOpcode(CBW)
		return nil
	case 0x99:
		c.setOpcode(CWD)
		return nil
	case 0x9A:
		return c.decodeCallFar()
	case 0x9B:
		c.setOpcode(WAIT)
		return nil
	case 0x9C:
		c.setOpcode(PUSHF)
		return nil
	case 0x9D:
		c.setOpcode(POPF)
		return nil
	case 0x9E:
		c.setOpcode(SAHF)
		return nil
	case 0x9F:
		c.setOpcode(LAHF)
		return nil

	case 0xA0:
		return c.decodeMovAccMoffs(SizeByte, true)
	case 0xA1:
		return c.decodeMovAccMoffs(c.opWidthSize(), true)
	case 0xA2:
		return c.decodeMovAccMoffs(SizeByte, false)
	case 0xA3:
		return c.decodeMovAccMoffs(c.opWidthSize(), false)
	case 0xA4:
		return c.decodeMovs(SizeByte)
	case 0xA5:
		return c.decodeMovs(c.opWidthSize())
	case 0xA6:
		return c.decodeCmps(SizeByte)
	case 0xA7:
		return c.decodeCmps(c.opWidthSize())
	case 0xA8:
		return c.decodeAccImm(TEST, SizeByte)
	case 0xA9:
		return c.decodeAccImm(TEST, c.opWidthSize())
	case 0xAA:
		return c.decodeStos(SizeByte)
	case 0xAB:
		return c.decodeStos(c.opWidthSize())
	case 0xAC:
		return c.decodeLods(SizeByte)
	case 0xAD:
		return c.decodeLods(c.opWidthSize())
	case 0xAE:
		return c.decodeScas(SizeByte)
	case 0xAF:
		return c.decodeScas(c.opWidthSize())

	case 0xC0:
		return c.decodeGroup2(SizeByte, countImm)
	case 0xC1:
		return c.decodeGroup2(c.opWidthSize(), countImm)
	case 0xC2:
		return c.decodeRetNear(true)
	case 0xC3:
		return c.decodeRetNear(false)
	case 0xC4:
		return c.decodeFarLoad(LES)
	case 0xC5:
		return c.decodeFarLoad(LDS)
	case 0xC6:
		return c.decodeMovImm(SizeByte)
	case 0xC7:
		return c.decodeMovImm(c.opWidthSize())
	case 0xC8:
		return c.decodeEnter()
	case 0xC9:
		c.setOpcode(LEAVE)
		return nil
	case 0xCA:
		return c.decodeRetFar(true)
	case 0xCB:
		return c.decodeRetFar(false)
	case 0xCC:
		c.setOpcode(INT)
		return c.appendOperand(immOperand(3, SizeByte))
	case 0xCD:
		return c.decodeIntImm()
	case 0xCE:
		c.setOpcode(INTO)
		return nil
	case 0xCF:
		c.setOpcode(IRET)
		return nil

	case 0xD0:
		return c.decodeGroup2(SizeByte, countOne)
	case 0xD1:
		return c.decodeGroup2(c.opWidthSize(), countOne)
	case 0xD2:
		return c.decodeGroup2(SizeByte, countCL)
	case 0xD3:
		return c.decodeGroup2(c.opWidthSize(), countCL)
	case 0xD4:
		return c.decodeAamAad(AAM)
	case 0xD5:
		return c.decodeAamAad(AAD)
	case 0xD6:
		return errf(InvalidOpcode, "0xD6 is unallocated")
	case 0xD7:
		c.setOpcode(XLAT)
		return nil
	case 0xD8, 0xD9, 0xDA, 0xDB, 0xDC, 0xDD, 0xDE, 0xDF:
		return c.decodeX87(op)

	case 0xE0:
		return c.decodeLoopJcxz(LOOPNE)
	case 0xE1:
		return c.decodeLoopJcxz(LOOPE)
	case 0xE2:
		return c.decodeLoopJcxz(LOOP)
	case 0xE3:
		return c.decodeLoopJcxz(JCXZ)
	case 0xE4:
		return c.decodeInImm(SizeByte)
	case 0xE5:
		return c.decodeInImm(c.opWidthSize())
	case 0xE6:
		return c.decodeOutImm(SizeByte)
	case 0xE7:
		return c.decodeOutImm(c.opWidthSize())
	case 0xE8:
		return c.decodeCallNear()
	case 0xE9:
		return c.decodeJmpNear()
	case 0xEA:
		return c.decodeJmpFar()
	case 0xEB:
		return c.decodeJmpShort()
	case 0xEC:
		return c.decodeInDx(SizeByte)
	case 0xED:
		return c.decodeInDx(c.opWidthSize())
	case 0xEE:
		return c.decodeOutDx(SizeByte)
	case 0xEF:
		return c.decodeOutDx(c.opWidthSize())

	case 0xF1:
		return errf(InvalidOpcode, "0xF1 is unallocated")
	case 0xF4:
		c.setOpcode(HLT)
		return nil
	case 0xF5:
		c.setOpcode(CMC)
		return nil
	case 0xF6:
		return c.decodeGroup3(SizeByte)
	case 0xF7:
		return c.decodeGroup3(c.opWidthSize())
	case 0xF8:
		c.setOpcode(CLC)
		return nil
	case 0xF9:
		c.setOpcode(STC)
		return nil
	case 0xFA:
		c.setOpcode(CLI)
		return nil
	case 0xFB:
		c.setOpcode(STI)
		return nil
	case 0xFC:
		c.setOpcode(CLD)
		return nil
	case 0xFD:
		c.setOpcode(STD)
		return nil
	case 0xFE:
		return c.decodeGroup4()
	case 0xFF:
		return c.decodeGroup5(c.opWidthSize())
	case 0x0F:
		return c.dispatchSecondary()
	}

	return errf(InvalidOpcode, "unallocated primary opcode %#02x", op)
}

// isArithBlock reports whether op falls in one of the eight ADD/OR/ADC/
// SBB/AND/SUB/XOR/CMP six-cell blocks (offsets 0-5 of each 8-byte block).
func isArithBlock(op byte) bool {
	return op&0x07 <= 5 && (op>>3) <= 7
}

func (c *context) decodeArithBlock(op byte) error {
	m := group1Mnemonics[op>>3]
	switch op & 0x07 {
	case 0:
		return c.decodeModRMPair(m, SizeByte, true)
	case 1:
		return c.decodeModRMPair(m, c.opWidthSize(), true)
	case 2:
		return c.decodeModRMPair(m, SizeByte, false)
	case 3:
		return c.decodeModRMPair(m, c.opWidthSize(), false)
	case 4:
		return c.decodeAccImm(m, SizeByte)
	case 5:
		return c.decodeAccImm(m, c.opWidthSize())
	default:
		return errf(InvalidOpcode, "arith block offset %d unreachable", op&0x07)
	}
}

// decodeModRMPair handles the classic "E,G" / "G,E" ModR/M pair shape
// shared by the arithmetic block, TEST, XCHG and MOV. eFirst selects
// operand order: true for Eb/Ev,Gb/Gv (E is the destination), false for
// Gb/Gv,Eb/Ev.
func (c *context) decodeModRMPair(m Mnemonic, size Size, eFirst bool) error {
	reg, err := c.regOperand(size)
	if err != nil {
		return err
	}
	e, err := c.modrmOperand(size, 0)
	if err != nil {
		return err
	}
	c.setOpcode(m)
	if eFirst {
		if err := c.appendOperand(e); err != nil {
			return err
		}
		return c.appendOperand(reg)
	}
	if err := c.appendOperand(reg); err != nil {
		return err
	}
	return c.appendOperand(e)
}

func (c *context) decodeAccImm(m Mnemonic, size Size) error {
	acc, err := gpRegister(regEax, size)
	if err != nil {
		return err
	}
	v, err := c.readSized(size)
	if err != nil {
		return err
	}
	c.setOpcode(m)
	if err := c.appendOperand(acc); err != nil {
		return err
	}
	return c.appendOperand(immOperand(v, size))
}

func (c *context) pushSeg(seg SegmentID) error {
	c.setOpcode(PUSH)
	return c.appendOperand(segFlyweight[seg])
}

func (c *context) popSeg(seg SegmentID) error {
	c.setOpcode(POP)
	return c.appendOperand(segFlyweight[seg])
}

func (c *context) decodeIncDecReg(m Mnemonic, index byte) error {
	r, err := gpRegister(index, c.opWidthSize())
	if err != nil {
		return err
	}
	c.setOpcode(m)
	return c.appendOperand(r)
}

func (c *context) decodePushPopReg(m Mnemonic, index byte) error {
	r, err := gpRegister(index, c.opWidthSize())
	if err != nil {
		return err
	}
	c.setOpcode(m)
	return c.appendOperand(r)
}

func (c *context) decodeXchgAcc(index byte) error {
	acc, err := gpRegister(regEax, c.opWidthSize())
	if err != nil {
		return err
	}
	r, err := gpRegister(index, c.opWidthSize())
	if err != nil {
		return err
	}
	c.setOpcode(XCHG)
	if err := c.appendOperand(acc); err != nil {
		return err
	}
	return c.appendOperand(r)
}

func (c *context) decodeMovRegImm(size Size, index byte) error {
	r, err := gpRegister(index, size)
	if err != nil {
		return err
	}
	v, err := c.readSized(size)
	if err != nil {
		return err
	}
	c.setOpcode(MOV)
	if err := c.appendOperand(r); err != nil {
		return err
	}
	return c.appendOperand(immOperand(v, size))
}

func (c *context) decodeJccShort(condition byte) error {
	v, err := c.readSized(SizeByte)
	if err != nil {
		return err
	}
	c.setOpcode(jccMnemonics[condition])
	return c.appendOperand(immOperand(v, SizeByte))
}

func (c *context) decodeBound() error {
	if err := c.readModRM(); err != nil {
		return err
	}
	reg, err := c.regOperand(c.opWidthSize())
	if err != nil {
		return err
	}
	mem, err := c.modrmOperand(c.opWidthSize(), flagMustBeMemory)
	if err != nil {
		return err
	}
	c.setOpcode(BOUND)
	if err := c.appendOperand(reg); err != nil {
		return err
	}
	return c.appendOperand(mem)
}

func (c *context) decodeArpl() error {
	e, err := c.modrmOperand(SizeWord, 0)
	if err != nil {
		return err
	}
	reg, err := c.regOperand(SizeWord)
	if err != nil {
		return err
	}
	c.setOpcode(ARPL)
	if err := c.appendOperand(e); err != nil {
		return err
	}
	return c.appendOperand(reg)
}

func (c *context) decodePushImm(size Size) error {
	v, err := c.readSized(size)
	if err != nil {
		return err
	}
	c.setOpcode(PUSH)
	return c.appendOperand(immOperand(v, size))
}

func (c *context) decodeImul3(immSize Size) error {
	reg, err := c.regOperand(c.opWidthSize())
	if err != nil {
		return err
	}
	e, err := c.modrmOperand(c.opWidthSize(), 0)
	if err != nil {
		return err
	}
	v, err := c.readSized(immSize)
	if err != nil {
		return err
	}
	c.setOpcode(IMUL)
	if err := c.appendOperand(reg); err != nil {
		return err
	}
	if err := c.appendOperand(e); err != nil {
		return err
	}
	return c.appendOperand(immOperand(v, immSize))
}

func (c *context) dxReg() (Operand, error) {
	return gpRegister(regEdx, SizeWord)
}

func (c *context) decodeIns(size Size) error {
	dst, err := c.stringDst(size, true)
	if err != nil {
		return err
	}
	dx, err := c.dxReg()
	if err != nil {
		return err
	}
	c.setOpcode(INS)
	if err := c.appendOperand(dst); err != nil {
		return err
	}
	return c.appendOperand(dx)
}

func (c *context) decodeOuts(size Size) error {
	dx, err := c.dxReg()
	if err != nil {
		return err
	}
	src, err := c.stringSrc(size)
	if err != nil {
		return err
	}
	c.setOpcode(OUTS)
	if err := c.appendOperand(dx); err != nil {
		return err
	}
	return c.appendOperand(src)
}

// stringDst builds the [EDI]-relative operand string operations write
// through. The ES segment on this operand is fixed by the ISA and is not
// affected by a segment-override prefix.
func (c *context) stringDst(size Size, forceES bool) (Operand, error) {
	di, err := gpRegister(regEdi, c.addrWidthSize())
	if err != nil {
		return Operand{}, err
	}
	if forceES {
		return indirectOperand(di, size, SegES, true), nil
	}
	return indirectOperand(di, size, c.segmentOverride, c.hasSegmentOverride), nil
}

// stringSrc builds the [ESI]-relative operand, honoring a segment
// override (DS by default, per the ISA).
func (c *context) stringSrc(size Size) (Operand, error) {
	si, err := gpRegister(regEsi, c.addrWidthSize())
	if err != nil {
		return Operand{}, err
	}
	return indirectOperand(si, size, c.segmentOverride, c.hasSegmentOverride), nil
}

func (c *context) decodeMovToSeg() error {
	e, err := c.modrmOperand(SizeWord, 0)
	if err != nil {
		return err
	}
	seg, err := c.segRegOperand()
	if err != nil {
		return err
	}
	c.setOpcode(MOV)
	if err := c.appendOperand(e); err != nil {
		return err
	}
	return c.appendOperand(seg)
}

func (c *context) decodeMovFromSeg() error {
	seg, err := c.segRegOperand()
	if err != nil {
		return err
	}
	e, err := c.modrmOperand(SizeWord, 0)
	if err != nil {
		return err
	}
	c.setOpcode(MOV)
	if err := c.appendOperand(seg); err != nil {
		return err
	}
	return c.appendOperand(e)
}

func (c *context) decodeLea() error {
	reg, err := c.regOperand(c.opWidthSize())
	if err != nil {
		return err
	}
	addr, err := c.modrmOperand(c.opWidthSize(), flagMustBeMemory|flagDontDereference)
	if err != nil {
		return err
	}
	c.setOpcode(LEA)
	if err := c.appendOperand(reg); err != nil {
		return err
	}
	return c.appendOperand(addr)
}

func (c *context) decodeCallFar() error {
	offset, err := c.readUnsigned(c.opWidthSize())
	if err != nil {
		return err
	}
	seg, err := c.readUnsigned(SizeWord)
	if err != nil {
		return err
	}
	c.setOpcode(CALL)
	c.near = false
	return c.appendOperand(callOperand(uint16(seg), uint32(offset), farSize(c.opWidthSize())))
}

func (c *context) moffsAddr(size Size) (Operand, error) {
	addr, err := c.readUnsigned(c.addrWidthSize())
	if err != nil {
		return Operand{}, err
	}
	inner := immOperand(addr, c.addrWidthSize())
	return indirectOperand(inner, size, c.segmentOverride, c.hasSegmentOverride), nil
}

func (c *context) decodeMovAccMoffs(size Size, load bool) error {
	acc, err := gpRegister(regEax, size)
	if err != nil {
		return err
	}
	mem, err := c.moffsAddr(size)
	if err != nil {
		return err
	}
	c.setOpcode(MOV)
	if load {
		if err := c.appendOperand(acc); err != nil {
			return err
		}
		return c.appendOperand(mem)
	}
	if err := c.appendOperand(mem); err != nil {
		return err
	}
	return c.appendOperand(acc)
}

func (c *context) decodeMovs(size Size) error {
	dst, err := c.stringDst(size, true)
	if err != nil {
		return err
	}
	src, err := c.stringSrc(size)
	if err != nil {
		return err
	}
	c.setOpcode(MOVS)
	if err := c.appendOperand(dst); err != nil {
		return err
	}
	return c.appendOperand(src)
}

func (c *context) decodeCmps(size Size) error {
	src, err := c.stringSrc(size)
	if err != nil {
		return err
	}
	dst, err := c.stringDst(size, true)
	if err != nil {
		return err
	}
	c.setOpcode(CMPS)
	if err := c.appendOperand(src); err != nil {
		return err
	}
	return c.appendOperand(dst)
}

func (c *context) decodeStos(size Size) error {
	dst, err := c.stringDst(size, true)
	if err != nil {
		return err
	}
	acc, err := gpRegister(regEax, size)
	if err != nil {
		return err
	}
	c.setOpcode(STOS)
	if err := c.appendOperand(dst); err != nil {
		return err
	}
	return c.appendOperand(acc)
}

func (c *context) decodeLods(size Size) error {
	acc, err := gpRegister(regEax, size)
	if err != nil {
		return err
	}
	src, err := c.stringSrc(size)
	if err != nil {
		return err
	}
	c.setOpcode(LODS)
	if err := c.appendOperand(acc); err != nil {
		return err
	}
	return c.appendOperand(src)
}

func (c *context) decodeScas(size Size) error {
	acc, err := gpRegister(regEax, size)
	if err != nil {
		return err
	}
	dst, err := c.stringDst(size, true)
	if err != nil {
		return err
	}
	c.setOpcode(SCAS)
	if err := c.appendOperand(acc); err != nil {
		return err
	}
	return c.appendOperand(dst)
}

func (c *context) decodeRetNear(withImm bool) error {
	c.setOpcode(RET)
	c.near = true
	if !withImm {
		return nil
	}
	v, err := c.readUnsigned(SizeWord)
	if err != nil {
		return err
	}
	return c.appendOperand(immOperand(v, SizeWord))
}

func (c *context) decodeRetFar(withImm bool) error {
	c.setOpcode(RET)
	// Far RET always sets near=false, even with the Iw stack-adjust form.
	c.near = false
	if !withImm {
		return nil
	}
	v, err := c.readUnsigned(SizeWord)
	if err != nil {
		return err
	}
	return c.appendOperand(immOperand(v, SizeWord))
}

func (c *context) decodeFarLoad(m Mnemonic) error {
	reg, err := c.regOperand(c.opWidthSize())
	if err != nil {
		return err
	}
	mem, err := c.modrmOperand(farSize(c.opWidthSize()), flagMustBeMemory|flagDontDereference)
	if err != nil {
		return err
	}
	c.setOpcode(m)
	if err := c.appendOperand(reg); err != nil {
		return err
	}
	return c.appendOperand(mem)
}

func (c *context) decodeMovImm(size Size) error {
	if err := c.readModRM(); err != nil {
		return err
	}
	if c.reg != 0 {
		return errf(InvalidOpcode, "0xC6/0xC7 reg=%d is unallocated", c.reg)
	}
	dst, err := c.modrmOperand(size, 0)
	if err != nil {
		return err
	}
	v, err := c.readSized(size)
	if err != nil {
		return err
	}
	c.setOpcode(MOV)
	if err := c.appendOperand(dst); err != nil {
		return err
	}
	return c.appendOperand(immOperand(v, size))
}

func (c *context) decodeEnter() error {
	frame, err := c.readUnsigned(SizeWord)
	if err != nil {
		return err
	}
	nesting, err := c.readUnsigned(SizeByte)
	if err != nil {
		return err
	}
	c.setOpcode(ENTER)
	if err := c.appendOperand(immOperand(frame, SizeWord)); err != nil {
		return err
	}
	return c.appendOperand(immOperand(nesting, SizeByte))
}

func (c *context) decodeIntImm() error {
	v, err := c.readUnsigned(SizeByte)
	if err != nil {
		return err
	}
	c.setOpcode(INT)
	return c.appendOperand(immOperand(v, SizeByte))
}

func (c *context) decodeAamAad(m Mnemonic) error {
	v, err := c.readUnsigned(SizeByte)
	if err != nil {
		return err
	}
	c.setOpcode(m)
	return c.appendOperand(immOperand(v, SizeByte))
}

func (c *context) decodeLoopJcxz(m Mnemonic) error {
	v, err := c.readSized(SizeByte)
	if err != nil {
		return err
	}
	c.setOpcode(m)
	return c.appendOperand(immOperand(v, SizeByte))
}

func (c *context) decodeInImm(size Size) error {
	acc, err := gpRegister(regEax, size)
	if err != nil {
		return err
	}
	port, err := c.readUnsigned(SizeByte)
	if err != nil {
		return err
	}
	c.setOpcode(IN)
	if err := c.appendOperand(acc); err != nil {
		return err
	}
	return c.appendOperand(immOperand(port, SizeByte))
}

func (c *context) decodeOutImm(size Size) error {
	port, err := c.readUnsigned(SizeByte)
	if err != nil {
		return err
	}
	acc, err := gpRegister(regEax, size)
	if err != nil {
		return err
	}
	c.setOpcode(OUT)
	if err := c.appendOperand(immOperand(port, SizeByte)); err != nil {
		return err
	}
	return c.appendOperand(acc)
}

func (c *context) decodeInDx(size Size) error {
	acc, err := gpRegister(regEax, size)
	if err != nil {
		return err
	}
	dx, err := c.dxReg()
	if err != nil {
		return err
	}
	c.setOpcode(IN)
	if err := c.appendOperand(acc); err != nil {
		return err
	}
	return c.appendOperand(dx)
}

func (c *context) decodeOutDx(size Size) error {
	dx, err := c.dxReg()
	if err != nil {
		return err
	}
	acc, err := gpRegister(regEax, size)
	if err != nil {
		return err
	}
	c.setOpcode(OUT)
	if err := c.appendOperand(dx); err != nil {
		return err
	}
	return c.appendOperand(acc)
}

func (c *context) decodeCallNear() error {
	v, err := c.readSized(c.opWidthSize())
	if err != nil {
		return err
	}
	c.setOpcode(CALL)
	c.near = true
	return c.appendOperand(immOperand(v, c.opWidthSize()))
}

func (c *context) decodeJmpNear() error {
	v, err := c.readSized(c.opWidthSize())
	if err != nil {
		return err
	}
	c.setOpcode(JMP)
	c.near = true
	return c.appendOperand(immOperand(v, c.opWidthSize()))
}

func (c *context) decodeJmpFar() error {
	offset, err := c.readUnsigned(c.opWidthSize())
	if err != nil {
		return err
	}
	seg, err := c.readUnsigned(SizeWord)
	if err != nil {
		return err
	}
	c.setOpcode(JMP)
	c.near = false
	return c.appendOperand(callOperand(uint16(seg), uint32(offset), farSize(c.opWidthSize())))
}

func (c *context) decodeJmpShort() error {
	v, err := c.readSized(SizeByte)
	if err != nil {
		return err
	}
	c.setOpcode(JMP)
	c.near = true
	return c.appendOperand(immOperand(v, SizeByte))
}
