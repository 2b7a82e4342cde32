package x86dec

// dispatchSecondary implements the 0x0F two-byte opcode map. It is
// reached from dispatchPrimary's 0x0F case after that escape byte has
// already been consumed as the primary opcode.
func (c *context) dispatchSecondary() error {
	op, err := c.readByte()
	if err != nil {
		return err
	}
	trace.Printf("secondary opcode 0f %#02x", op)

	switch {
	case op >= 0x80 && op <= 0x8F:
		return c.decodeJccLong(op - 0x80)
	case op >= 0x90 && op <= 0x9F:
		return c.decodeSetcc(op - 0x90)
	}

	switch op {
	case 0x00:
		return c.decodeGroup6()
	case 0x01:
		return c.decodeGroup7()
	case 0x02:
		return c.decodeLarLsl(LAR)
	case 0x03:
		return c.decodeLarLsl(LSL)
	case 0x06:
		c.setOpcode(CLTS)
		return nil

	case 0xA0:
		return c.pushSeg(SegFS)
	case 0xA1:
		return c.popSeg(SegFS)
	case 0xA8:
		return c.pushSeg(SegGS)
	case 0xA9:
		return c.popSeg(SegGS)

	case 0xA3:
		return c.decodeBitOp(BT)
	case 0xAB:
		return c.decodeBitOp(BTS)
	case 0xB3:
		return c.decodeBitOp(BTR)
	case 0xBB:
		return c.decodeBitOp(BTC)
	case 0xBA:
		return c.decodeGroup8(c.opWidthSize())

	case 0xA4:
		return c.decodeShiftDouble(SHLD, false)
	case 0xA5:
		return c.decodeShiftDouble(SHLD, true)
	case 0xAC:
		return c.decodeShiftDouble(SHRD, false)
	case 0xAD:
		return c.decodeShiftDouble(SHRD, true)

	case 0xAF:
		return c.decodeModRMPair(IMUL, c.opWidthSize(), false)

	case 0xB2:
		return c.decodeFarLoadReg(LSS)
	case 0xB4:
		return c.decodeFarLoadReg(LFS)
	case 0xB5:
		return c.decodeFarLoadReg(LGS)

	case 0xB6:
		return c.decodeMovExtend(MOVZX, SizeByte)
	case 0xB7:
		return c.decodeMovExtend(MOVZX, SizeWord)
	case 0xBE:
		return c.decodeMovExtend(MOVSX, SizeByte)
	case 0xBF:
		return c.decodeMovExtend(MOVSX, SizeWord)

	case 0xBC:
		return c.decodeModRMPair(BSF, c.opWidthSize(), false)
	case 0xBD:
		return c.decodeModRMPair(BSR, c.opWidthSize(), false)

	case 0x20:
		return c.decodeMovCrDr(controlRegOperandDst)
	case 0x22:
		return c.decodeMovCrDr(controlRegOperandSrc)
	case 0x21:
		return c.decodeMovCrDr(debugRegOperandDst)
	case 0x23:
		return c.decodeMovCrDr(debugRegOperandSrc)
	}

	return errf(InvalidOpcode, "unallocated secondary opcode 0x0F %#02x", op)
}

func (c *context) decodeJccLong(condition byte) error {
	v, err := c.readSized(c.opWidthSize())
	if err != nil {
		return err
	}
	c.setOpcode(jccMnemonics[condition])
	return c.appendOperand(immOperand(v, c.opWidthSize()))
}

func (c *context) decodeSetcc(condition byte) error {
	dst, err := c.modrmOperand(SizeByte, 0)
	if err != nil {
		return err
	}
	c.setOpcode(setccMnemonics[condition])
	return c.appendOperand(dst)
}

func (c *context) decodeLarLsl(m Mnemonic) error {
	reg, err := c.regOperand(c.opWidthSize())
	if err != nil {
		return err
	}
	src, err := c.modrmOperand(SizeWord, 0)
	if err != nil {
		return err
	}
	c.setOpcode(m)
	if err := c.appendOperand(reg); err != nil {
		return err
	}
	return c.appendOperand(src)
}

func (c *context) decodeBitOp(m Mnemonic) error {
	dst, err := c.modrmOperand(c.opWidthSize(), 0)
	if err != nil {
		return err
	}
	reg, err := c.regOperand(c.opWidthSize())
	if err != nil {
		return err
	}
	c.setOpcode(m)
	if err := c.appendOperand(dst); err != nil {
		return err
	}
	return c.appendOperand(reg)
}

// decodeShiftDouble handles 0F A4/A5 (SHLD) and 0F AC/AD (SHRD): Ev, Gv,
// Ib when byCL is false, Ev, Gv, CL when true.
func (c *context) decodeShiftDouble(m Mnemonic, byCL bool) error {
	dst, err := c.modrmOperand(c.opWidthSize(), 0)
	if err != nil {
		return err
	}
	reg, err := c.regOperand(c.opWidthSize())
	if err != nil {
		return err
	}
	c.setOpcode(m)
	if err := c.appendOperand(dst); err != nil {
		return err
	}
	if err := c.appendOperand(reg); err != nil {
		return err
	}
	if byCL {
		cl, err := gpRegister(regCl, SizeByte)
		if err != nil {
			return err
		}
		return c.appendOperand(cl)
	}
	v, err := c.readUnsigned(SizeByte)
	if err != nil {
		return err
	}
	return c.appendOperand(immOperand(v, SizeByte))
}

func (c *context) decodeFarLoadReg(m Mnemonic) error {
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

// decodeMovExtend handles MOVZX/MOVSX (0F B6/B7/BE/BF): a full-width
// destination register and a byte- or word-sized source that may be a
// register or memory operand.
func (c *context) decodeMovExtend(m Mnemonic, srcSize Size) error {
	reg, err := c.regOperand(c.opWidthSize())
	if err != nil {
		return err
	}
	src, err := c.modrmOperand(srcSize, 0)
	if err != nil {
		return err
	}
	c.setOpcode(m)
	if err := c.appendOperand(reg); err != nil {
		return err
	}
	return c.appendOperand(src)
}

type crDrDirection int

const (
	controlRegOperandDst crDrDirection = iota
	controlRegOperandSrc
	debugRegOperandDst
	debugRegOperandSrc
)

// decodeMovCrDr handles 0F 20-23: MOV to/from control and debug
// registers. The r/m field must name a GPR (mod is always treated as 3
// per the ISA, regardless of the encoded mod bits); the reg field names
// the control or debug register.
func (c *context) decodeMovCrDr(dir crDrDirection) error {
	if err := c.readModRM(); err != nil {
		return err
	}
	gpr, err := gpRegister(c.rm, SizeLong)
	if err != nil {
		return err
	}
	switch dir {
	case controlRegOperandDst:
		cr, err := c.controlRegOperand()
		if err != nil {
			return err
		}
		c.setOpcode(MOV)
		if err := c.appendOperand(gpr); err != nil {
			return err
		}
		return c.appendOperand(cr)
	case controlRegOperandSrc:
		cr, err := c.controlRegOperand()
		if err != nil {
			return err
		}
		c.setOpcode(MOV)
		if err := c.appendOperand(cr); err != nil {
			return err
		}
		return c.appendOperand(gpr)
	case debugRegOperandDst:
		dr, err := c.debugRegOperand()
		if err != nil {
			return err
		}
		c.setOpcode(MOV)
		if err := c.appendOperand(gpr); err != nil {
			return err
		}
		return c.appendOperand(dr)
	case debugRegOperandSrc:
		dr, err := c.debugRegOperand()
		if err != nil {
			return err
		}
		c.setOpcode(MOV)
		if err := c.appendOperand(dr); err != nil {
			return err
		}
		return c.appendOperand(gpr)
	}
	return errf(InvalidOpcode, "unreachable mov cr/dr direction")
}
