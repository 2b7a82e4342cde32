package x86dec

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func decodeBytes(t *testing.T, width Width, bytes ...byte) Instruction {
	t.Helper()
	d, err := New(width)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	insn, err := d.Disassemble(NewSliceSource(bytes, 0))
	if err != nil {
		t.Fatalf("Disassemble(% x): %v", bytes, err)
	}
	return insn
}

func decodeExpectError(t *testing.T, width Width, kind Kind, bytes ...byte) {
	t.Helper()
	d, err := New(width)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	_, err = d.Disassemble(NewSliceSource(bytes, 0))
	if err == nil {
		t.Fatalf("Disassemble(% x): expected error, got none", bytes)
	}
	de, ok := err.(*DecodeError)
	if !ok {
		t.Fatalf("Disassemble(% x): error %v is not *DecodeError", bytes, err)
	}
	if de.Kind != kind {
		t.Fatalf("Disassemble(% x): got kind %v, want %v", bytes, de.Kind, kind)
	}
}

func mustReg(t *testing.T, index byte, size Size) Operand {
	t.Helper()
	op, err := gpRegister(index, size)
	if err != nil {
		t.Fatalf("gpRegister: %v", err)
	}
	return op
}

func TestScenarioNOP(t *testing.T) {
	insn := decodeBytes(t, Width32, 0x90)
	want := Instruction{Opcode: NOP, Length: 1}
	if diff := cmp.Diff(want, insn); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestScenarioRetNear(t *testing.T) {
	insn := decodeBytes(t, Width32, 0xC3)
	if insn.Opcode != RET || !insn.Near || len(insn.Operands) != 0 {
		t.Errorf("got %+v, want RET near=true no operands", insn)
	}
}

func TestScenarioHlt(t *testing.T) {
	insn := decodeBytes(t, Width32, 0xF4)
	if insn.Opcode != HLT || len(insn.Operands) != 0 {
		t.Errorf("got %+v, want HLT", insn)
	}
}

func TestScenarioAddRegReg(t *testing.T) {
	insn := decodeBytes(t, Width32, 0x03, 0xC3)
	eax := mustReg(t, regEax, SizeLong)
	ebx := mustReg(t, regEbx, SizeLong)
	want := Instruction{Opcode: ADD, Operands: []Operand{eax, ebx}, Length: 2}
	if diff := cmp.Diff(want, insn); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestScenarioAddRegRegOperandSizeOverride(t *testing.T) {
	insn := decodeBytes(t, Width32, 0x66, 0x03, 0xC3)
	ax := mustReg(t, regEax, SizeWord)
	bx := mustReg(t, regEbx, SizeWord)
	want := Instruction{Opcode: ADD, Operands: []Operand{ax, bx}, Length: 3}
	if diff := cmp.Diff(want, insn); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestScenarioLockedAddMemReg(t *testing.T) {
	insn := decodeBytes(t, Width32, 0xF0, 0x01, 0x00)
	if insn.Opcode != ADD || !insn.Locked {
		t.Fatalf("got %+v, want locked ADD", insn)
	}
	if len(insn.Operands) != 2 || insn.Operands[0].Kind != OpIndirect {
		t.Fatalf("got operands %+v, want [Indirect(EAX), EAX]", insn.Operands)
	}
}

func TestScenarioLockedRegDestInvalid(t *testing.T) {
	decodeExpectError(t, Width32, InvalidPrefixUse, 0xF0, 0x89, 0xC3)
}

func TestScenarioLeaSIBNoDeref(t *testing.T) {
	insn := decodeBytes(t, Width32, 0x8D, 0x04, 0x19)
	if insn.Opcode != LEA {
		t.Fatalf("got opcode %v, want LEA", insn.Opcode)
	}
	if len(insn.Operands) != 2 {
		t.Fatalf("got %d operands, want 2", len(insn.Operands))
	}
	addr := insn.Operands[1]
	if addr.Kind == OpIndirect {
		t.Fatalf("LEA address operand was wrapped in Indirect: %+v", addr)
	}
	if addr.Kind != OpAddition {
		t.Fatalf("got addr kind %v, want Addition(ECX,Scale(EBX,1))", addr.Kind)
	}
}

func TestScenarioMovSIBDisp8(t *testing.T) {
	insn := decodeBytes(t, Width32, 0x8B, 0x44, 0x8A, 0x10)
	if insn.Opcode != MOV || len(insn.Operands) != 2 {
		t.Fatalf("got %+v, want MOV with 2 operands", insn)
	}
	mem := insn.Operands[1]
	if mem.Kind != OpIndirect {
		t.Fatalf("got %+v, want Indirect memory operand", mem)
	}
	inner := *mem.Inner
	if inner.Kind != OpAddition {
		t.Fatalf("got inner %+v, want Addition(base+index, disp)", inner)
	}
	if insn.Length != 4 {
		t.Errorf("got length %d, want 4", insn.Length)
	}
}

func TestScenarioCmpsRepne(t *testing.T) {
	insn := decodeBytes(t, Width32, 0xF2, 0xA6)
	if insn.Opcode != CMPS || insn.Repeat != RepeatNotEqual {
		t.Errorf("got %+v, want CMPS repeat=NotEqual", insn)
	}
}

func TestScenarioRepneNopInvalid(t *testing.T) {
	decodeExpectError(t, Width32, InvalidPrefixUse, 0xF2, 0x90)
}

func TestScenarioJmpShortNegative(t *testing.T) {
	insn := decodeBytes(t, Width32, 0xEB, 0xFE)
	if insn.Opcode != JMP || !insn.Near {
		t.Fatalf("got %+v, want JMP near=true", insn)
	}
	if len(insn.Operands) != 1 || insn.Operands[0].Imm != -2 {
		t.Fatalf("got operands %+v, want [Immediate(-2)]", insn.Operands)
	}
}

func TestScenarioFld1(t *testing.T) {
	insn := decodeBytes(t, Width32, 0xD9, 0xE8)
	want := Instruction{Opcode: FLD1, Length: 2}
	if diff := cmp.Diff(want, insn); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestScenarioMovzx(t *testing.T) {
	insn := decodeBytes(t, Width32, 0x0F, 0xB6, 0xC3)
	eax := mustReg(t, regEax, SizeLong)
	bl := mustReg(t, regBl, SizeByte)
	want := Instruction{Opcode: MOVZX, Operands: []Operand{eax, bl}, Length: 3}
	if diff := cmp.Diff(want, insn); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestScenarioAdd16BitDirectAddress(t *testing.T) {
	insn := decodeBytes(t, Width16, 0x03, 0x06, 0x34, 0x12)
	ax := mustReg(t, regEax, SizeWord)
	want := Instruction{
		Opcode: ADD,
		Operands: []Operand{
			ax,
			indirectOperand(immOperand(0x1234, SizeWord), SizeWord, SegES, false),
		},
		Length: 4,
	}
	if diff := cmp.Diff(want, insn); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

// Decoding the same bytes twice must produce identical results.
func TestDeterminism(t *testing.T) {
	bytes := []byte{0x8B, 0x44, 0x8A, 0x10}
	a := decodeBytes(t, Width32, bytes...)
	b := decodeBytes(t, Width32, bytes...)
	if diff := cmp.Diff(a, b); diff != "" {
		t.Errorf("two decodes of the same bytes differ (-first +second):\n%s", diff)
	}
}

// Unallocated primary opcodes raise invalid opcode after one byte.
func TestUnallocatedPrimaryOpcodes(t *testing.T) {
	for _, op := range []byte{0xD6, 0xF1, 0x82} {
		decodeExpectError(t, Width32, InvalidOpcode, op)
	}
}

// Duplicate prefix categories are rejected.
func TestDuplicatePrefixes(t *testing.T) {
	cases := [][]byte{
		{0xF0, 0xF0, 0x00, 0x00},
		{0x66, 0x66, 0x90},
		{0x26, 0x26, 0x90},
		{0xF3, 0xF3, 0x90},
	}
	for _, bytes := range cases {
		decodeExpectError(t, Width32, DuplicatePrefix, bytes...)
	}
}

// LEA-style memory operands are never wrapped in Indirect, covered
// directly by TestScenarioLeaSIBNoDeref above; this adds the LES far-load
// case which shares the same flag.
func TestFarLoadNoIndirectWrap(t *testing.T) {
	// LES EAX, [EBX] -> C4 03
	insn := decodeBytes(t, Width32, 0xC4, 0x03)
	if insn.Opcode != LES {
		t.Fatalf("got opcode %v, want LES", insn.Opcode)
	}
	mem := insn.Operands[1]
	if mem.Kind == OpIndirect {
		t.Fatalf("LES memory operand was wrapped in Indirect: %+v", mem)
	}
}

// Two independently constructed register operands for the same
// register/size compare equal.
func TestRegisterInterningEquality(t *testing.T) {
	a := decodeBytes(t, Width32, 0x90 /* NOP via XCHG eAX,eAX slot unused */)
	_ = a
	r1, err := gpRegister(regEax, SizeLong)
	if err != nil {
		t.Fatal(err)
	}
	r2, err := gpRegister(regEax, SizeLong)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(r1, r2); diff != "" {
		t.Errorf("interned registers differ (-first +second):\n%s", diff)
	}
}

func TestTruncatedInstruction(t *testing.T) {
	decodeExpectError(t, Width32, Truncated, 0x03)
}

func TestInvalidDefaultSize(t *testing.T) {
	if _, err := New(Width(99)); err == nil {
		t.Fatal("New(99): expected error")
	}
}
