package x86dec

import "fmt"

// Kind discriminates the fatal decode error conditions so callers can
// branch on error class without string matching.
type Kind int

const (
	Truncated Kind = iota
	InvalidOpcode
	InvalidSIB
	DuplicatePrefix
	ExpectedMemory
	InvalidPrefixUse
	InvalidRegister
)

func (k Kind) String() string {
	switch k {
	case Truncated:
		return "truncated"
	case InvalidOpcode:
		return "invalid opcode"
	case InvalidSIB:
		return "invalid sib byte"
	case DuplicatePrefix:
		return "duplicate prefix"
	case ExpectedMemory:
		return "expected memory operand"
	case InvalidPrefixUse:
		return "invalid prefix use"
	case InvalidRegister:
		return "invalid register"
	default:
		return "unknown"
	}
}

// DecodeError is the single error type raised by Disassemble. Kind lets a
// caller discriminate truncation (retry with more bytes) from a genuinely
// malformed stream, rather than matching on an error string.
type DecodeError struct {
	Kind    Kind
	Message string
}

func (e *DecodeError) Error() string {
	if e.Message == "" {
		return e.Kind.String()
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func errf(kind Kind, format string, args ...any) *DecodeError {
	return &DecodeError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func truncated() *DecodeError {
	return &DecodeError{Kind: Truncated, Message: "byte source exhausted mid-instruction"}
}
