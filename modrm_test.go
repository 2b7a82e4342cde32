package x86dec

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

// The ModR/M byte is read at most once regardless of how many
// operand-fetch helpers consult it.
func TestModRMReadOnce(t *testing.T) {
	src := NewSliceSource([]byte{0xC3}, 0)
	c := newContext(src, Width32)
	if err := c.readModRM(); err != nil {
		t.Fatal(err)
	}
	if src.(*sliceSource).pos != 1 {
		t.Fatalf("got pos %d after first read, want 1", src.(*sliceSource).pos)
	}
	if err := c.readModRM(); err != nil {
		t.Fatal(err)
	}
	if src.(*sliceSource).pos != 1 {
		t.Fatalf("got pos %d after second read, want still 1 (cached)", src.(*sliceSource).pos)
	}
}

// 16-bit addressing: mod=00 rm=110 is a direct 16-bit displacement, not
// [BP].
func Test16BitDirectDisplacement(t *testing.T) {
	// 8B 06 78 56 -> MOV AX, [0x5678]
	insn := decodeBytes(t, Width16, 0x8B, 0x06, 0x78, 0x56)
	ax := mustReg(t, regEax, SizeWord)
	want := Instruction{
		Opcode: MOV,
		Operands: []Operand{
			ax,
			indirectOperand(immOperand(0x5678, SizeWord), SizeWord, SegES, false),
		},
		Length: 4,
	}
	if diff := cmp.Diff(want, insn); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

// 16-bit addressing: mod=01 rm=000 is [BX+SI]+disp8.
func Test16BitBxSiDisp8(t *testing.T) {
	// 8B 40 05 -> MOV AX, [BX+SI+5]
	insn := decodeBytes(t, Width16, 0x8B, 0x40, 0x05)
	if insn.Opcode != MOV {
		t.Fatalf("got opcode %v, want MOV", insn.Opcode)
	}
	mem := insn.Operands[1]
	if mem.Kind != OpIndirect {
		t.Fatalf("got %+v, want Indirect", mem)
	}
	inner := *mem.Inner
	if inner.Kind != OpAddition {
		t.Fatalf("got inner %+v, want Addition(BX+SI, 5)", inner)
	}
}

// 32-bit addressing: mod=00 rm=101 is a 32-bit absolute displacement.
func Test32BitAbsoluteDisplacement(t *testing.T) {
	// 8B 05 78 56 34 12 -> MOV EAX, [0x12345678]
	insn := decodeBytes(t, Width32, 0x8B, 0x05, 0x78, 0x56, 0x34, 0x12)
	eax := mustReg(t, regEax, SizeLong)
	want := Instruction{
		Opcode: MOV,
		Operands: []Operand{
			eax,
			indirectOperand(immOperand(0x12345678, SizeLong), SizeLong, SegES, false),
		},
		Length: 6,
	}
	if diff := cmp.Diff(want, insn); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

// SIB with base==5, mod==0: forced 32-bit displacement, no base register.
func TestSIBBase5Mod0ForcedDisp(t *testing.T) {
	// 8B 04 25 78 56 34 12 -> MOV EAX, [0x12345678] via SIB (no base, no index)
	insn := decodeBytes(t, Width32, 0x8B, 0x04, 0x25, 0x78, 0x56, 0x34, 0x12)
	eax := mustReg(t, regEax, SizeLong)
	want := Instruction{
		Opcode: MOV,
		Operands: []Operand{
			eax,
			indirectOperand(immOperand(0x12345678, SizeLong), SizeLong, SegES, false),
		},
		Length: 7,
	}
	if diff := cmp.Diff(want, insn); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

// SIB with base==5, mod==1: the base register is still EBP (mod==0 is
// the only case that omits it), combined with the scaled index and the
// disp8 mod==1 selects.
func TestSIBBase5Mod1KeepsEbpBase(t *testing.T) {
	// 8B 44 0D 10 -> MOV EAX, [EBP+ECX*1+0x10]
	insn := decodeBytes(t, Width32, 0x8B, 0x44, 0x0D, 0x10)
	if insn.Opcode != MOV {
		t.Fatalf("got opcode %v, want MOV", insn.Opcode)
	}
	if insn.Length != 4 {
		t.Fatalf("got length %d, want 4", insn.Length)
	}
	mem := insn.Operands[1]
	if mem.Kind != OpIndirect {
		t.Fatalf("got %+v, want Indirect", mem)
	}
	sum := *mem.Inner
	if sum.Kind != OpAddition {
		t.Fatalf("got inner %+v, want Addition(base+index, disp8)", sum)
	}
	disp := *sum.Right
	if disp.Kind != OpImmediate || disp.Imm != 0x10 {
		t.Fatalf("got disp %+v, want Imm8(0x10)", disp)
	}
	baseAndIndex := *sum.Left
	if baseAndIndex.Kind != OpAddition {
		t.Fatalf("got %+v, want Addition(EBP, ECX*1)", baseAndIndex)
	}
	ebp := mustReg(t, regEbp, SizeLong)
	if diff := cmp.Diff(ebp, *baseAndIndex.Left); diff != "" {
		t.Errorf("base mismatch (-want +got):\n%s", diff)
	}
	scaledIndex := *baseAndIndex.Right
	if scaledIndex.Kind != OpScale || scaledIndex.Scale != 1 {
		t.Fatalf("got %+v, want Scale(ECX, 1)", scaledIndex)
	}
	ecx := mustReg(t, regEcx, SizeLong)
	if diff := cmp.Diff(ecx, *scaledIndex.Index); diff != "" {
		t.Errorf("index mismatch (-want +got):\n%s", diff)
	}
}

// SIB with base==5, mod==3 is an invalid encoding.
func TestSIBBase5Mod3Invalid(t *testing.T) {
	// modrm mod=11 can never reach SIB parsing at all (mod==3 short-circuits
	// to a register operand before SIB is read), so the only way to reach
	// parseSIB with mod==3 is impossible via normal dispatch; this instead
	// exercises the SIB decode function directly.
	src := NewSliceSource([]byte{0x25}, 0) // scale=00 index=100(none) base=101
	c := newContext(src, Width32)
	c.mod = 3
	_, _, err := c.parseSIB()
	if err == nil {
		t.Fatal("parseSIB: expected error for base=5 mod=3")
	}
	de, ok := err.(*DecodeError)
	if !ok || de.Kind != InvalidSIB {
		t.Fatalf("got %v, want InvalidSIB", err)
	}
}

func TestSegmentOverridePropagatesToMemoryOperand(t *testing.T) {
	// 64 8B 00 -> MOV EAX, FS:[EAX]
	insn := decodeBytes(t, Width32, 0x64, 0x8B, 0x00)
	mem := insn.Operands[1]
	if !mem.HasSegment || mem.Segment != SegFS {
		t.Fatalf("got %+v, want FS segment override", mem)
	}
}
