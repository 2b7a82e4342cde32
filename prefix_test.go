package x86dec

import "testing"

func TestDuplicateSegmentPrefixesAllCategories(t *testing.T) {
	cases := []struct {
		name  string
		bytes []byte
	}{
		{"CS", []byte{0x2E, 0x2E, 0x90}},
		{"SS", []byte{0x36, 0x36, 0x90}},
		{"DS", []byte{0x3E, 0x3E, 0x90}},
		{"FS", []byte{0x64, 0x64, 0x90}},
		{"GS", []byte{0x65, 0x65, 0x90}},
		{"address-size", []byte{0x67, 0x67, 0x90}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			decodeExpectError(t, Width32, DuplicatePrefix, tc.bytes...)
		})
	}
}

// Distinct segment-override categories don't conflict; the last one
// applied wins.
func TestDistinctSegmentOverridesLastWins(t *testing.T) {
	// 2E 3E 8B 00 -> CS: then DS: MOV EAX,[EAX], final override is DS
	insn := decodeBytes(t, Width32, 0x2E, 0x3E, 0x8B, 0x00)
	mem := insn.Operands[1]
	if !mem.HasSegment || mem.Segment != SegDS {
		t.Fatalf("got %+v, want DS segment override", mem)
	}
}

// 0x67 toggles address size: with a 32-bit default, addressing switches
// to 16-bit modrm decoding.
func TestAddressSizeOverrideSwitchesTo16Bit(t *testing.T) {
	// 67 8B 07 -> MOV EAX, [BX] under 16-bit addressing
	insn := decodeBytes(t, Width32, 0x67, 0x8B, 0x07)
	if insn.Opcode != MOV {
		t.Fatalf("got opcode %v, want MOV", insn.Opcode)
	}
	mem := insn.Operands[1]
	if mem.Kind != OpIndirect {
		t.Fatalf("got %+v, want Indirect", mem)
	}
	inner := *mem.Inner
	if inner.Kind != OpRegister || inner.RegIndex != regEbx || inner.Size != SizeWord {
		t.Fatalf("got inner %+v, want bare BX (16-bit rm=111 no index)", inner)
	}
}

// 0x66 toggles operand size independently of 0x67's address size.
func TestOperandSizeOverrideIndependentOfAddressSize(t *testing.T) {
	// 66 67 03 07 -> ADD AX, [BX] (16-bit operand AND 16-bit address, from a 32-bit default)
	insn := decodeBytes(t, Width32, 0x66, 0x67, 0x03, 0x07)
	if insn.Opcode != ADD {
		t.Fatalf("got opcode %v, want ADD", insn.Opcode)
	}
	dst := insn.Operands[0]
	if dst.Kind != OpRegister || dst.Size != SizeWord {
		t.Fatalf("got dst %+v, want 16-bit register", dst)
	}
}

func TestLockAndSegmentOverrideCombine(t *testing.T) {
	// F0 26 01 00 -> LOCK ADD ES:[EAX], EAX
	insn := decodeBytes(t, Width32, 0xF0, 0x26, 0x01, 0x00)
	if !insn.Locked {
		t.Fatalf("got %+v, want Locked=true", insn)
	}
	mem := insn.Operands[0]
	if !mem.HasSegment || mem.Segment != SegES {
		t.Fatalf("got %+v, want ES segment override", mem)
	}
}
