package x86dec

import "fmt"

// Decoder is the public entry point. It carries no per-instruction
// state of its own — only the default operand/address width a stream
// starts in before any 0x66/0x67 prefix is seen — so a single Decoder is
// safe to share across goroutines.
type Decoder struct {
	defaultWidth Width
}

// New returns a Decoder that assumes defaultSize addressing/operand width
// until a size-override prefix says otherwise. defaultSize must be
// Width16 or Width32.
func New(defaultSize Width) (*Decoder, error) {
	if defaultSize != Width16 && defaultSize != Width32 {
		return nil, fmt.Errorf("x86dec: invalid default size %d", defaultSize)
	}
	return &Decoder{defaultWidth: defaultSize}, nil
}

// Disassemble decodes exactly one instruction from src, starting at
// src.Addr(). It reads legacy prefixes, dispatches through the primary
// opcode map (tail-calling into the two-byte and x87 maps as needed),
// and returns the fully constructed Instruction or a *DecodeError.
func (d *Decoder) Disassemble(src ByteSource) (Instruction, error) {
	c := newContext(src, d.defaultWidth)

	op, err := c.collectPrefixes()
	if err != nil {
		return Instruction{}, err
	}
	if err := c.dispatchPrimary(op); err != nil {
		return Instruction{}, err
	}
	return c.finish()
}
