package x86dec

// Width is the effective operand-size / address-size attribute: always
// 16 or 32 bits for this decoder — no 64-bit mode.
type Width int

const (
	Width16 Width = iota
	Width32
)

// Size tags an Operand's access width. The general integer sizes
// (Byte/Word/Long) cover GPR/immediate/displacement operands; the rest
// name the x87 memory operand shapes.
type Size int

const (
	SizeByte Size = iota
	SizeWord
	SizeLong
	SizeFarWordWord   // Ap/Mp 16:16
	SizeFarWordLong   // Mp 16:32
	SizeSingle        // D8/D9 memory single-precision real
	SizeDouble        // DC/DD memory double-precision real
	SizeExtendedReal  // DB memory extended-precision real (80-bit)
	SizeFPInt16       // DE/DF memory word integer
	SizeFPInt32       // DA/DB memory doubleword integer
	SizeFPInt64       // DF.5/DF.7 memory quadword integer
	SizePackedBCD     // DF.4/DF.6 packed BCD
	SizePseudoDesc6   // SGDT/SIDT/LGDT/LIDT pseudo-descriptor under 16-bit operand size
	SizePseudoDesc10  // SGDT/SIDT/LGDT/LIDT pseudo-descriptor under 32-bit operand size
	SizeByteByte      // control/status word memory form
	SizeFPEnv14       // 16-bit FPU environment
	SizeFPEnv28       // 32-bit FPU environment
	SizeFPState94     // 16-bit FPU state image
	SizeFPState108    // 32-bit FPU state image
)

func widthToSize(w Width) Size {
	if w == Width16 {
		return SizeWord
	}
	return SizeLong
}
