package x86dec

// group1Mnemonics is the reg-field switch shared by 80/81/83 (Group 1):
// ADD,OR,ADC,SBB,AND,SUB,XOR,CMP at reg 0-7.
var group1Mnemonics = [8]Mnemonic{ADD, OR, ADC, SBB, AND, SUB, XOR, CMP}

// group2Mnemonics is the Group 2 shift/rotate switch; reg==6 is
// unallocated.
var group2Mnemonics = [8]Mnemonic{ROL, ROR, RCL, RCR, SHL, SHR, Invalid, SAR}

// decodeGroup1 handles 80 (Eb,Ib), 81 (Ev,Iz), 83 (Ev,Ib sign-extended).
// immSize is the *encoded* size of the immediate (always Ib for 80/83).
func (c *context) decodeGroup1(opSize, immSize Size) error {
	if err := c.readModRM(); err != nil {
		return err
	}
	m := group1Mnemonics[c.reg]
	dst, err := c.modrmOperand(opSize, 0)
	if err != nil {
		return err
	}
	v, err := c.readSized(immSize)
	if err != nil {
		return err
	}
	c.setOpcode(m)
	if err := c.appendOperand(dst); err != nil {
		return err
	}
	return c.appendOperand(immOperand(v, immSize))
}

type group2Count int

const (
	countOne group2Count = iota
	countCL
	countImm
)

// decodeGroup2 handles C0/C1 (Ib), D0/D1 (implied 1, no explicit
// operand), D2/D3 (CL) shift/rotate forms.
func (c *context) decodeGroup2(opSize Size, count group2Count) error {
	if err := c.readModRM(); err != nil {
		return err
	}
	m := group2Mnemonics[c.reg]
	if m == Invalid {
		return errf(InvalidOpcode, "group 2 reg=6 is unallocated")
	}
	dst, err := c.modrmOperand(opSize, 0)
	if err != nil {
		return err
	}
	c.setOpcode(m)
	if err := c.appendOperand(dst); err != nil {
		return err
	}
	switch count {
	case countOne:
		return nil
	case countCL:
		cl, err := gpRegister(regCl, SizeByte)
		if err != nil {
			return err
		}
		return c.appendOperand(cl)
	case countImm:
		v, err := c.readUnsigned(SizeByte)
		if err != nil {
			return err
		}
		return c.appendOperand(immOperand(v, SizeByte))
	}
	return nil
}

// decodeGroup3 handles F6/F7: TEST (with trailing immediate), NOT, NEG,
// MUL, IMUL, DIV, IDIV. reg==1 is unallocated.
func (c *context) decodeGroup3(opSize Size) error {
	if err := c.readModRM(); err != nil {
		return err
	}
	dst, err := c.modrmOperand(opSize, 0)
	if err != nil {
		return err
	}
	switch c.reg {
	case 0:
		v, err := c.readSized(opSize)
		if err != nil {
			return err
		}
		c.setOpcode(TEST)
		if err := c.appendOperand(dst); err != nil {
			return err
		}
		return c.appendOperand(immOperand(v, opSize))
	case 1:
		return errf(InvalidOpcode, "group 3 reg=1 is unallocated")
	case 2:
		c.setOpcode(NOT)
	case 3:
		c.setOpcode(NEG)
	case 4:
		c.setOpcode(MUL)
	case 5:
		c.setOpcode(IMUL)
	case 6:
		c.setOpcode(DIV)
	case 7:
		c.setOpcode(IDIV)
	}
	return c.appendOperand(dst)
}

// decodeGroup4 handles FE, Eb: INC/DEC only.
func (c *context) decodeGroup4() error {
	if err := c.readModRM(); err != nil {
		return err
	}
	switch c.reg {
	case 0:
		c.setOpcode(INC)
	case 1:
		c.setOpcode(DEC)
	default:
		return errf(InvalidOpcode, "group 4 reg=%d is unallocated", c.reg)
	}
	dst, err := c.modrmOperand(SizeByte, 0)
	if err != nil {
		return err
	}
	return c.appendOperand(dst)
}

// decodeGroup5 handles FF, Ev: INC, DEC, near/far CALL, near/far JMP,
// PUSH.
func (c *context) decodeGroup5(opSize Size) error {
	if err := c.readModRM(); err != nil {
		return err
	}
	switch c.reg {
	case 0:
		c.setOpcode(INC)
		dst, err := c.modrmOperand(opSize, 0)
		if err != nil {
			return err
		}
		return c.appendOperand(dst)
	case 1:
		c.setOpcode(DEC)
		dst, err := c.modrmOperand(opSize, 0)
		if err != nil {
			return err
		}
		return c.appendOperand(dst)
	case 2:
		c.setOpcode(CALL)
		c.near = true
		dst, err := c.modrmOperand(opSize, 0)
		if err != nil {
			return err
		}
		return c.appendOperand(dst)
	case 3:
		c.setOpcode(CALL)
		c.near = false
		dst, err := c.modrmOperand(farSize(opSize), flagMustBeMemory|flagDontDereference)
		if err != nil {
			return err
		}
		return c.appendOperand(dst)
	case 4:
		c.setOpcode(JMP)
		c.near = true
		dst, err := c.modrmOperand(opSize, 0)
		if err != nil {
			return err
		}
		return c.appendOperand(dst)
	case 5:
		c.setOpcode(JMP)
		c.near = false
		dst, err := c.modrmOperand(farSize(opSize), flagMustBeMemory|flagDontDereference)
		if err != nil {
			return err
		}
		return c.appendOperand(dst)
	case 6:
		c.setOpcode(PUSH)
		dst, err := c.modrmOperand(opSize, 0)
		if err != nil {
			return err
		}
		return c.appendOperand(dst)
	default:
		return errf(InvalidOpcode, "group 5 reg=7 is unallocated")
	}
}

func farSize(opSize Size) Size {
	if opSize == SizeWord {
		return SizeFarWordWord
	}
	return SizeFarWordLong
}

// decodeGroup6 handles 0F 00, Ew: SLDT/STR/LLDT/LTR/VERR/VERW.
func (c *context) decodeGroup6() error {
	if err := c.readModRM(); err != nil {
		return err
	}
	var m Mnemonic
	switch c.reg {
	case 0:
		m = SLDT
	case 1:
		m = STR
	case 2:
		m = LLDT
	case 3:
		m = LTR
	case 4:
		m = VERR
	case 5:
		m = VERW
	default:
		return errf(InvalidOpcode, "group 6 reg=%d is unallocated", c.reg)
	}
	dst, err := c.modrmOperand(SizeWord, 0)
	if err != nil {
		return err
	}
	c.setOpcode(m)
	return c.appendOperand(dst)
}

// decodeGroup7 handles 0F 01, Ms/Ew. SGDT/SIDT/LGDT/LIDT take a
// memory-only pseudo-descriptor operand; SMSW/LMSW take a word
// E-operand that may be a register.
func (c *context) decodeGroup7() error {
	if err := c.readModRM(); err != nil {
		return err
	}
	descSize := SizePseudoDesc6
	if c.operandSize == Width32 {
		descSize = SizePseudoDesc10
	}
	switch c.reg {
	case 0:
		return c.finishUnary(SGDT, descSize, flagMustBeMemory)
	case 1:
		return c.finishUnary(SIDT, descSize, flagMustBeMemory)
	case 2:
		return c.finishUnary(LGDT, descSize, flagMustBeMemory)
	case 3:
		return c.finishUnary(LIDT, descSize, flagMustBeMemory)
	case 4:
		return c.finishUnary(SMSW, SizeWord, 0)
	case 6:
		return c.finishUnary(LMSW, SizeWord, 0)
	default:
		return errf(InvalidOpcode, "group 7 reg=%d is unallocated", c.reg)
	}
}

func (c *context) finishUnary(m Mnemonic, size Size, flags modrmFlags) error {
	dst, err := c.modrmOperand(size, flags)
	if err != nil {
		return err
	}
	c.setOpcode(m)
	return c.appendOperand(dst)
}

var group8Mnemonics = map[byte]Mnemonic{4: BT, 5: BTS, 6: BTR, 7: BTC}

// decodeGroup8 handles 0F BA, Ev, Ib: BT/BTS/BTR/BTC. reg 0-3 unallocated.
func (c *context) decodeGroup8(opSize Size) error {
	if err := c.readModRM(); err != nil {
		return err
	}
	m, ok := group8Mnemonics[c.reg]
	if !ok {
		return errf(InvalidOpcode, "group 8 reg=%d is unallocated", c.reg)
	}
	dst, err := c.modrmOperand(opSize, 0)
	if err != nil {
		return err
	}
	v, err := c.readUnsigned(SizeByte)
	if err != nil {
		return err
	}
	c.setOpcode(m)
	if err := c.appendOperand(dst); err != nil {
		return err
	}
	return c.appendOperand(immOperand(v, SizeByte))
}

// decodeGroup1A handles 8F, Ev: POP. reg!=0 is unallocated.
func (c *context) decodeGroup1A(opSize Size) error {
	if err := c.readModRM(); err != nil {
		return err
	}
	if c.reg != 0 {
		return errf(InvalidOpcode, "group 1A reg=%d is unallocated", c.reg)
	}
	dst, err := c.modrmOperand(opSize, 0)
	if err != nil {
		return err
	}
	c.setOpcode(POP)
	return c.appendOperand(dst)
}
