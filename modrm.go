package x86dec

// modrmFlags carries the slot-targeted constraints the caller attaches
// to a single ModR/M-driven operand fetch.
type modrmFlags uint8

const (
	flagMustBeMemory modrmFlags = 1 << iota
	flagDontDereference
)

// readModRM reads the ModR/M byte on first demand and caches it: every
// call site that needs mod/reg/rm goes through this, so the byte is
// never read twice regardless of how many operands a pattern derives
// from it.
func (c *context) readModRM() error {
	if c.modrmRead {
		return nil
	}
	b, err := c.readByte()
	if err != nil {
		return err
	}
	c.modrm = b
	c.mod = b >> 6 & 0x3
	c.reg = b >> 3 & 0x7
	c.rm = b & 0x7
	c.modrmRead = true
	trace.Printf("modrm %#02x mod=%d reg=%d rm=%d", b, c.mod, c.reg, c.rm)
	return nil
}

// regOperand returns the reg-field GPR operand (the G-operand of an
// E,G or G,E pair) at the given size.
func (c *context) regOperand(size Size) (Operand, error) {
	if err := c.readModRM(); err != nil {
		return Operand{}, err
	}
	return gpRegister(c.reg, size)
}

func (c *context) segRegOperand() (Operand, error) {
	if err := c.readModRM(); err != nil {
		return Operand{}, err
	}
	return segmentRegister(c.reg)
}

func (c *context) controlRegOperand() (Operand, error) {
	if err := c.readModRM(); err != nil {
		return Operand{}, err
	}
	return controlRegister(c.reg)
}

func (c *context) debugRegOperand() (Operand, error) {
	if err := c.readModRM(); err != nil {
		return Operand{}, err
	}
	return debugRegister(c.reg)
}

// modrmOperand materialises the r/m-derived operand: a register when
// mod==3, otherwise a memory dereference computed under the effective
// address size.
func (c *context) modrmOperand(size Size, flags modrmFlags) (Operand, error) {
	if err := c.readModRM(); err != nil {
		return Operand{}, err
	}
	if c.mod == 3 {
		if flags&flagMustBeMemory != 0 {
			return Operand{}, errf(ExpectedMemory, "modrm mod=3 but memory operand required")
		}
		return gpRegister(c.rm, size)
	}

	var addr Operand
	var err error
	if c.addressSize == Width16 {
		addr, err = c.modrmAddress16()
	} else {
		addr, err = c.modrmAddress32()
	}
	if err != nil {
		return Operand{}, err
	}
	if flags&flagDontDereference != 0 {
		return addr, nil
	}
	return indirectOperand(addr, size, c.segmentOverride, c.hasSegmentOverride), nil
}

// modrm16Base gives the register-pair (or single register, marked with
// -1) that each three-bit rm value contributes in 16-bit addressing
// (Intel Manual 2A Table 2-1). rm==6 is special-cased by the caller: it
// names BP only when mod!=0, and a bare disp16 when mod==0.
var modrm16Base = [8][2]int{
	{int(regEbx), int(regEsi)},
	{int(regEbx), int(regEdi)},
	{int(regEbp), int(regEsi)},
	{int(regEbp), int(regEdi)},
	{int(regEsi), -1},
	{int(regEdi), -1},
	{int(regEbp), -1},
	{int(regEbx), -1},
}

func (c *context) modrmAddress16() (Operand, error) {
	direct := c.mod == 0 && c.rm == 6
	var addr *Operand
	if !direct {
		pair := modrm16Base[c.rm]
		r1, err := gpRegister(byte(pair[0]), SizeWord)
		if err != nil {
			return Operand{}, err
		}
		if pair[1] < 0 {
			addr = &r1
		} else {
			r2, err := gpRegister(byte(pair[1]), SizeWord)
			if err != nil {
				return Operand{}, err
			}
			combined := addOperand(&r1, &r2)
			addr = &combined
		}
	}

	var disp *Operand
	switch {
	case direct:
		v, err := c.readSized(SizeWord)
		if err != nil {
			return Operand{}, err
		}
		d := immOperand(v, SizeWord)
		disp = &d
	case c.mod == 1:
		v, err := c.readSized(SizeByte)
		if err != nil {
			return Operand{}, err
		}
		d := immOperand(v, SizeByte)
		disp = &d
	case c.mod == 2:
		v, err := c.readSized(SizeWord)
		if err != nil {
			return Operand{}, err
		}
		d := immOperand(v, SizeWord)
		disp = &d
	}
	return combineAddr(addr, disp)
}

func (c *context) modrmAddress32() (Operand, error) {
	var addr *Operand
	baseAbsent := false
	var forcedDisp *Operand

	switch {
	case c.rm == 4:
		sibAddr, sibDisp, err := c.parseSIB()
		if err != nil {
			return Operand{}, err
		}
		addr = sibAddr
		forcedDisp = sibDisp
	case c.rm == 5 && c.mod == 0:
		baseAbsent = true
	default:
		r, err := gpRegister(c.rm, SizeLong)
		if err != nil {
			return Operand{}, err
		}
		addr = &r
	}

	var disp *Operand
	switch {
	case forcedDisp != nil:
		disp = forcedDisp
	case c.mod == 0 && baseAbsent:
		v, err := c.readSized(SizeLong)
		if err != nil {
			return Operand{}, err
		}
		d := immOperand(v, SizeLong)
		disp = &d
	case c.mod == 1:
		v, err := c.readSized(SizeByte)
		if err != nil {
			return Operand{}, err
		}
		d := immOperand(v, SizeByte)
		disp = &d
	case c.mod == 2:
		v, err := c.readSized(SizeLong)
		if err != nil {
			return Operand{}, err
		}
		d := immOperand(v, SizeLong)
		disp = &d
	}
	return combineAddr(addr, disp)
}

// parseSIB decodes the scale-index-base byte. It returns the
// SIB-derived address expression (nil if index==4 and base==5/mod==0
// leave nothing but a displacement) and, when base==5 forces a
// displacement read, that displacement separately so the caller does
// not also apply the outer ModR/M mod-based displacement rule on top of
// it. base==5 only omits the base register when mod==0 (a bare disp32);
// at mod==1/mod==2 the base register is EBP, same as any other base
// value, combined with the disp8/disp32 that mod selects.
func (c *context) parseSIB() (addr *Operand, forcedDisp *Operand, err error) {
	b, err := c.readByte()
	if err != nil {
		return nil, nil, err
	}
	scale, index, base := b>>6&0x3, b>>3&0x7, b&0x7

	var scaledIndex *Operand
	if index != 4 {
		idxReg, err := gpRegister(index, SizeLong)
		if err != nil {
			return nil, nil, err
		}
		s := scaleOperand(&idxReg, 1<<scale)
		scaledIndex = &s
	}

	var baseExpr *Operand
	if base != 5 || c.mod != 0 {
		baseReg, err := gpRegister(base, SizeLong)
		if err != nil {
			return nil, nil, err
		}
		baseExpr = &baseReg
	}

	if base == 5 {
		switch c.mod {
		case 0, 2:
			v, err := c.readSized(SizeLong)
			if err != nil {
				return nil, nil, err
			}
			d := immOperand(v, SizeLong)
			forcedDisp = &d
		case 1:
			v, err := c.readSized(SizeByte)
			if err != nil {
				return nil, nil, err
			}
			d := immOperand(v, SizeByte)
			forcedDisp = &d
		default:
			return nil, nil, errf(InvalidSIB, "invalid sib byte: base=5 with mod=3")
		}
	}

	switch {
	case baseExpr == nil && scaledIndex == nil:
		addr = nil
	case baseExpr != nil && scaledIndex == nil:
		addr = baseExpr
	case baseExpr == nil && scaledIndex != nil:
		addr = scaledIndex
	default:
		combined := addOperand(baseExpr, scaledIndex)
		addr = &combined
	}
	return addr, forcedDisp, nil
}

func combineAddr(base, disp *Operand) (Operand, error) {
	switch {
	case base == nil && disp == nil:
		return Operand{}, errf(InvalidOpcode, "modrm address decoded to nothing")
	case base != nil && disp == nil:
		return *base, nil
	case base == nil && disp != nil:
		return *disp, nil
	default:
		return addOperand(base, disp), nil
	}
}
