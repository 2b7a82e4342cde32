package x86dec

// fArithMnemonics and fiArithMnemonics are the reg-field switches shared
// by the memory forms of D8/DC (real memory operand) and DA/DE (integer
// memory operand) respectively.
var fArithMnemonics = [8]Mnemonic{FADD, FMUL, FCOM, FCOMP, FSUB, FSUBR, FDIV, FDIVR}
var fiArithMnemonics = [8]Mnemonic{FIADD, FIMUL, FICOM, FICOMP, FISUB, FISUBR, FIDIV, FIDIVR}

func (c *context) st0() Operand {
	return fpStackOperand(0)
}

// appendArithFP appends the implicit ST(0) operand (for two-operand
// arithmetic forms) followed by ST(rm); compare forms (FCOM/FCOMP and
// their integer/pop variants) pass two=false and get only ST(rm).
func (c *context) appendArithFP(two bool, rm byte) error {
	if two {
		if err := c.appendOperand(c.st0()); err != nil {
			return err
		}
	}
	return c.appendOperand(fpStackOperand(rm))
}

func (c *context) fpEnvSize() Size {
	if c.operandSize == Width16 {
		return SizeFPEnv14
	}
	return SizeFPEnv28
}

func (c *context) fpStateSize() Size {
	if c.operandSize == Width16 {
		return SizeFPState94
	}
	return SizeFPState108
}

// decodeX87 dispatches one of the eight ESC bytes D8-DF.
func (c *context) decodeX87(escByte byte) error {
	switch escByte {
	case 0xD8:
		return c.decodeEscD8()
	case 0xD9:
		return c.decodeEscD9()
	case 0xDA:
		return c.decodeEscDA()
	case 0xDB:
		return c.decodeEscDB()
	case 0xDC:
		return c.decodeEscDC()
	case 0xDD:
		return c.decodeEscDD()
	case 0xDE:
		return c.decodeEscDE()
	case 0xDF:
		return c.decodeEscDF()
	default:
		return errf(InvalidOpcode, "not an x87 escape byte: %#x", escByte)
	}
}

func (c *context) decodeEscD8() error {
	if err := c.readModRM(); err != nil {
		return err
	}
	m := fArithMnemonics[c.reg]
	if c.mod == 3 {
		c.setOpcode(m)
		return c.appendArithFP(c.reg != 2 && c.reg != 3, c.rm)
	}
	mem, err := c.modrmOperand(SizeSingle, flagMustBeMemory)
	if err != nil {
		return err
	}
	c.setOpcode(m)
	return c.appendOperand(mem)
}

func (c *context) decodeEscD9() error {
	if err := c.readModRM(); err != nil {
		return err
	}
	if c.mod != 3 {
		switch c.reg {
		case 0:
			return c.finishUnary(FLD, SizeSingle, flagMustBeMemory)
		case 2:
			return c.finishUnary(FST, SizeSingle, flagMustBeMemory)
		case 3:
			return c.finishUnary(FSTP, SizeSingle, flagMustBeMemory)
		case 4:
			return c.finishUnary(FLDENV, c.fpEnvSize(), flagMustBeMemory)
		case 5:
			return c.finishUnary(FLDCW, SizeByteByte, flagMustBeMemory)
		case 6:
			return c.finishUnary(FSTENV, c.fpEnvSize(), flagMustBeMemory)
		case 7:
			return c.finishUnary(FSTCW, SizeByteByte, flagMustBeMemory)
		default:
			return errf(InvalidOpcode, "D9 memory reg=%d unallocated", c.reg)
		}
	}
	switch c.reg {
	case 0:
		c.setOpcode(FLD)
		return c.appendOperand(fpStackOperand(c.rm))
	case 1:
		c.setOpcode(FXCH)
		return c.appendOperand(fpStackOperand(c.rm))
	case 2:
		if c.rm != 0 {
			return errf(InvalidOpcode, "D9 reg=2 rm=%d unallocated", c.rm)
		}
		c.setOpcode(FNOP)
		return nil
	case 3:
		return errf(InvalidOpcode, "D9 reg=3 register form unallocated")
	case 4:
		switch c.rm {
		case 0:
			c.setOpcode(FCHS)
		case 1:
			c.setOpcode(FABS)
		case 4:
			c.setOpcode(FTST)
		case 5:
			c.setOpcode(FXAM)
		default:
			return errf(InvalidOpcode, "D9 reg=4 rm=%d unallocated", c.rm)
		}
		return nil
	case 5:
		if c.rm > 6 {
			return errf(InvalidOpcode, "D9 reg=5 rm=7 unallocated")
		}
		consts := [7]Mnemonic{FLD1, FLDL2T, FLDL2E, FLDPI, FLDLG2, FLDLN2, FLDZ}
		c.setOpcode(consts[c.rm])
		return nil
	case 6:
		ops := [8]Mnemonic{F2XM1, FYL2X, FPTAN, FPATAN, FXTRACT, FPREM1, FDECSTP, FINCSTP}
		c.setOpcode(ops[c.rm])
		return nil
	case 7:
		ops := [8]Mnemonic{FPREM, FYL2XP1, FSQRT, FSINCOS, FRNDINT, FSCALE, FSIN, FCOS}
		c.setOpcode(ops[c.rm])
		return nil
	default:
		return errf(InvalidOpcode, "D9 reg=%d unallocated", c.reg)
	}
}

func (c *context) decodeEscDA() error {
	if err := c.readModRM(); err != nil {
		return err
	}
	if c.mod != 3 {
		m := fiArithMnemonics[c.reg]
		mem, err := c.modrmOperand(SizeFPInt32, flagMustBeMemory)
		if err != nil {
			return err
		}
		c.setOpcode(m)
		return c.appendOperand(mem)
	}
	switch c.reg {
	case 0, 1, 2, 3:
		c.setOpcode(fcmovMnemonics[c.reg])
	case 5:
		if c.rm != 1 {
			return errf(InvalidOpcode, "DA reg=5 rm=%d unallocated", c.rm)
		}
		c.setOpcode(FUCOMPP)
		return nil
	default:
		return errf(InvalidOpcode, "DA reg=%d register form unallocated", c.reg)
	}
	return c.appendOperand(fpStackOperand(c.rm))
}

func (c *context) decodeEscDB() error {
	if err := c.readModRM(); err != nil {
		return err
	}
	if c.mod != 3 {
		switch c.reg {
		case 0:
			return c.finishUnary(FILD, SizeFPInt32, flagMustBeMemory)
		case 1:
			return c.finishUnary(FISTTP, SizeFPInt32, flagMustBeMemory)
		case 2:
			return c.finishUnary(FIST, SizeFPInt32, flagMustBeMemory)
		case 3:
			return c.finishUnary(FISTP, SizeFPInt32, flagMustBeMemory)
		case 5:
			return c.finishUnary(FLD, SizeExtendedReal, flagMustBeMemory)
		case 7:
			return c.finishUnary(FSTP, SizeExtendedReal, flagMustBeMemory)
		default:
			return errf(InvalidOpcode, "DB memory reg=%d unallocated", c.reg)
		}
	}
	switch c.reg {
	case 0, 1, 2, 3:
		c.setOpcode(fcmovMnemonics[c.reg+4])
	case 4:
		switch c.rm {
		case 2:
			c.setOpcode(FCLEX)
		case 3:
			c.setOpcode(FINIT)
		default:
			return errf(InvalidOpcode, "DB reg=4 rm=%d unallocated", c.rm)
		}
		return nil
	case 5:
		c.setOpcode(FUCOMI)
	case 6:
		c.setOpcode(FCOMI)
	default:
		return errf(InvalidOpcode, "DB reg=%d register form unallocated", c.reg)
	}
	return c.appendOperand(fpStackOperand(c.rm))
}

func (c *context) decodeEscDC() error {
	if err := c.readModRM(); err != nil {
		return err
	}
	if c.mod != 3 {
		m := fArithMnemonics[c.reg]
		mem, err := c.modrmOperand(SizeDouble, flagMustBeMemory)
		if err != nil {
			return err
		}
		c.setOpcode(m)
		return c.appendOperand(mem)
	}
	// Register-form DC reverses SUB/SUBR and DIV/DIVR relative to the
	// memory form: ST(i) := ST(i) op ST(0), not ST(0) op ST(i). reg=2/3
	// (FCOM/FCOMP's memory-form slots) have no register-form encoding.
	switch c.reg {
	case 2, 3:
		return errf(InvalidOpcode, "DC reg=%d register form unallocated", c.reg)
	}
	reversed := [8]Mnemonic{FADD, FMUL, FCOM, FCOMP, FSUBR, FSUB, FDIVR, FDIV}
	c.setOpcode(reversed[c.reg])
	return c.appendArithFP(true, c.rm)
}

func (c *context) decodeEscDD() error {
	if err := c.readModRM(); err != nil {
		return err
	}
	if c.mod != 3 {
		switch c.reg {
		case 0:
			return c.finishUnary(FLD, SizeDouble, flagMustBeMemory)
		case 1:
			return c.finishUnary(FISTTP, SizeFPInt64, flagMustBeMemory)
		case 2:
			return c.finishUnary(FST, SizeDouble, flagMustBeMemory)
		case 3:
			return c.finishUnary(FSTP, SizeDouble, flagMustBeMemory)
		case 4:
			return c.finishUnary(FRSTOR, c.fpStateSize(), flagMustBeMemory)
		case 6:
			return c.finishUnary(FSAVE, c.fpStateSize(), flagMustBeMemory)
		case 7:
			return c.finishUnary(FSTSW, SizeByteByte, flagMustBeMemory)
		default:
			return errf(InvalidOpcode, "DD memory reg=%d unallocated", c.reg)
		}
	}
	switch c.reg {
	case 0:
		c.setOpcode(FFREE)
	case 2:
		c.setOpcode(FST)
	case 3:
		c.setOpcode(FSTP)
	case 4:
		c.setOpcode(FUCOM)
	case 5:
		c.setOpcode(FUCOMP)
	default:
		return errf(InvalidOpcode, "DD reg=%d register form unallocated", c.reg)
	}
	return c.appendOperand(fpStackOperand(c.rm))
}

func (c *context) decodeEscDE() error {
	if err := c.readModRM(); err != nil {
		return err
	}
	if c.mod != 3 {
		m := fiArithMnemonics[c.reg]
		mem, err := c.modrmOperand(SizeFPInt16, flagMustBeMemory)
		if err != nil {
			return err
		}
		c.setOpcode(m)
		return c.appendOperand(mem)
	}
	switch c.reg {
	case 0:
		c.setOpcode(FADDP)
	case 1:
		c.setOpcode(FMULP)
	case 2:
		return errf(InvalidOpcode, "DE reg=2 register form unallocated")
	case 3:
		if c.rm != 1 {
			return errf(InvalidOpcode, "DE reg=3 rm=%d unallocated", c.rm)
		}
		c.setOpcode(FCOMPP)
		return nil
	case 4:
		c.setOpcode(FSUBRP)
	case 5:
		c.setOpcode(FSUBP)
	case 6:
		c.setOpcode(FDIVRP)
	case 7:
		c.setOpcode(FDIVP)
	default:
		return errf(InvalidOpcode, "DE reg=%d register form unallocated", c.reg)
	}
	return c.appendArithFP(true, c.rm)
}

func (c *context) decodeEscDF() error {
	if err := c.readModRM(); err != nil {
		return err
	}
	if c.mod != 3 {
		switch c.reg {
		case 0:
			return c.finishUnary(FILD, SizeFPInt16, flagMustBeMemory)
		case 1:
			return c.finishUnary(FISTTP, SizeFPInt16, flagMustBeMemory)
		case 2:
			return c.finishUnary(FIST, SizeFPInt16, flagMustBeMemory)
		case 3:
			return c.finishUnary(FISTP, SizeFPInt16, flagMustBeMemory)
		case 4:
			return c.finishUnary(FBLD, SizePackedBCD, flagMustBeMemory)
		case 5:
			return c.finishUnary(FILD, SizeFPInt64, flagMustBeMemory)
		case 6:
			return c.finishUnary(FBSTP, SizePackedBCD, flagMustBeMemory)
		case 7:
			return c.finishUnary(FISTP, SizeFPInt64, flagMustBeMemory)
		default:
			return errf(InvalidOpcode, "DF memory reg=%d unallocated", c.reg)
		}
	}
	switch {
	case c.reg == 4 && c.rm == 0:
		c.setOpcode(FSTSW)
		ax, err := gpRegister(regEax, SizeWord)
		if err != nil {
			return err
		}
		return c.appendOperand(ax)
	case c.reg == 5:
		c.setOpcode(FUCOMIP)
		return c.appendOperand(fpStackOperand(c.rm))
	case c.reg == 6:
		c.setOpcode(FCOMIP)
		return c.appendOperand(fpStackOperand(c.rm))
	default:
		return errf(InvalidOpcode, "DF reg=%d register form unallocated", c.reg)
	}
}
